package api

import (
	"net/http"
	"storerating/internal/entity"
	"storerating/internal/service"

	"github.com/gin-gonic/gin"
)

// Signup 普通用户自助注册
func (h *HTTPHandler) Signup(c *gin.Context) {
	var req entity.AuthSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.authService.Signup(ctx, req)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *HTTPHandler) Login(c *gin.Context) {
	var req entity.AuthLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.authService.Login(ctx, req)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Me 返回当前登录用户
func (h *HTTPHandler) Me(c *gin.Context) {
	current := CurrentUser(c)
	if current == nil {
		Unauthorized(c, "Access token required")
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.authService.Me(ctx, current.ID)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *HTTPHandler) ChangePassword(c *gin.Context) {
	current := CurrentUser(c)
	if current == nil {
		Unauthorized(c, "Access token required")
		return
	}

	var req entity.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.authService.ChangePassword(ctx, current.ID, req); err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entity.MessageResponse{Message: "Password changed successfully"})
}

// RequestPasswordReset 总是返回相同的提示，避免暴露邮箱是否注册
func (h *HTTPHandler) RequestPasswordReset(c *gin.Context) {
	var req entity.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.authService.RequestReset(ctx, req); err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entity.MessageResponse{Message: service.ResetRequestedMessage})
}

func (h *HTTPHandler) ResetPassword(c *gin.Context) {
	var req entity.PerformResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.authService.PerformReset(ctx, req); err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entity.MessageResponse{Message: "Password reset successfully"})
}
