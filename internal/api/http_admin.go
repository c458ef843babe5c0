package api

import (
	"net/http"
	"storerating/internal/entity"

	"github.com/gin-gonic/gin"
)

func (h *HTTPHandler) AdminDashboard(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	summary, err := h.adminService.Dashboard(ctx)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *HTTPHandler) AdminCreateUser(c *gin.Context) {
	var req entity.UserCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.adminService.CreateUser(ctx, req)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entity.UserResponse{Message: "User created successfully", User: *user})
}

func (h *HTTPHandler) AdminListUsers(c *gin.Context) {
	var query entity.UserListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid query parameters")
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	users, err := h.adminService.ListUsers(ctx, query)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entity.UserListResponse{Users: users})
}

func (h *HTTPHandler) AdminGetUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.adminService.GetUser(ctx, id)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *HTTPHandler) AdminUpdateUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req entity.UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.adminService.UpdateUser(ctx, id, req)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entity.UserResponse{Message: "User updated successfully", User: *user})
}

func (h *HTTPHandler) AdminDeleteUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.adminService.DeleteUser(ctx, id); err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entity.MessageResponse{Message: "User deleted successfully"})
}

func (h *HTTPHandler) AdminCreateStore(c *gin.Context) {
	var req entity.StoreCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	store, err := h.adminService.CreateStore(ctx, req)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entity.StoreResponse{Message: "Store created successfully", Store: *store})
}

func (h *HTTPHandler) AdminListStores(c *gin.Context) {
	var query entity.StoreListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid query parameters")
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	stores, err := h.adminService.ListStores(ctx, query)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entity.StoreListResponse{Stores: stores})
}

func (h *HTTPHandler) AdminGetStore(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	store, err := h.adminService.GetStore(ctx, id)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entity.StoreResponse{Store: *store})
}

func (h *HTTPHandler) AdminUpdateStore(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req entity.StoreUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	store, err := h.adminService.UpdateStore(ctx, id, req)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entity.StoreResponse{Message: "Store updated successfully", Store: *store})
}

func (h *HTTPHandler) AdminDeleteStore(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.adminService.DeleteStore(ctx, id); err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entity.MessageResponse{Message: "Store deleted successfully"})
}
