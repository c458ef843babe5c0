package api

import (
	"net/http"
	"storerating/internal/entity"

	"github.com/gin-gonic/gin"
)

// ListStoresForUser 普通用户浏览商店，附带自己的评分
func (h *HTTPHandler) ListStoresForUser(c *gin.Context) {
	current := CurrentUser(c)
	var query entity.StoreSearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid query parameters")
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	stores, err := h.userService.ListStores(ctx, current.ID, query)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entity.UserStoreListResponse{Stores: stores})
}

// SubmitRating 提交或修改对商店的评分
func (h *HTTPHandler) SubmitRating(c *gin.Context) {
	current := CurrentUser(c)
	storeID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req entity.RatingSubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	rating, created, err := h.userService.SubmitRating(ctx, current.ID, storeID, req)
	if err != nil {
		RespondError(c, err)
		return
	}
	message := "Rating updated successfully"
	if created {
		message = "Rating submitted successfully"
	}
	c.JSON(http.StatusOK, entity.RatingResponse{Message: message, Rating: *rating})
}
