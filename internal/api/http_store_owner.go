package api

import (
	"net/http"
	"storerating/internal/entity"

	"github.com/gin-gonic/gin"
)

func (h *HTTPHandler) StoreOwnerDashboard(c *gin.Context) {
	current := CurrentUser(c)

	ctx, cancel := requestContext(c)
	defer cancel()

	dashboard, err := h.storeOwnerService.Dashboard(ctx, current.ID)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

// StoreOwnerCreateStore 店主创建自己的唯一商店，邮箱取自登录身份
func (h *HTTPHandler) StoreOwnerCreateStore(c *gin.Context) {
	current := CurrentUser(c)
	var req entity.OwnerStoreCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	store, err := h.storeOwnerService.CreateStore(ctx, current.ID, req)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entity.StoreResponse{Message: "Store created successfully", Store: *store})
}

func (h *HTTPHandler) StoreOwnerUpdateStore(c *gin.Context) {
	current := CurrentUser(c)
	storeID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req entity.OwnerStoreUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	store, err := h.storeOwnerService.UpdateStore(ctx, current.ID, storeID, req)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entity.StoreResponse{Message: "Store updated successfully", Store: *store})
}
