package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/oilmart/backend/internal/application/catalog"
	"github.com/oilmart/backend/internal/interfaces/http/dto"
)

// ReviewHandler handles product review HTTP requests
type ReviewHandler struct {
	BaseHandler
	reviewService *catalog.ReviewService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviewService *catalog.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

// ListForProduct godoc
// @Summary      List product reviews
// @Description  List all reviews for a product with the aggregate rating
// @Tags         reviews
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200 {object} dto.Response{data=catalog.ProductReviewsResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{id}/reviews [get]
func (h *ReviewHandler) ListForProduct(c *gin.Context) {
	var uriReq dto.IDRequest
	if err := c.ShouldBindUri(&uriReq); err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	result, err := h.reviewService.GetProductReviews(c.Request.Context(), uuid.MustParse(uriReq.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Submit godoc
// @Summary      Submit review
// @Description  Create or replace the caller's review for a product
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID"
// @Param        request body catalog.SubmitReviewRequest true "Review data"
// @Success      200 {object} dto.Response{data=catalog.ReviewResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products/{id}/reviews [post]
func (h *ReviewHandler) Submit(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var uriReq dto.IDRequest
	if err := c.ShouldBindUri(&uriReq); err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req catalog.SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	review, err := h.reviewService.SubmitReview(c.Request.Context(), uuid.MustParse(uriReq.ID), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, review)
}

// Delete godoc
// @Summary      Delete review
// @Description  Delete a review. Users can delete their own reviews, admins any review.
// @Tags         reviews
// @Produce      json
// @Param        id path string true "Review ID"
// @Success      204 "No Content"
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /reviews/{id} [delete]
func (h *ReviewHandler) Delete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var uriReq dto.IDRequest
	if err := c.ShouldBindUri(&uriReq); err != nil {
		h.BadRequest(c, "Invalid review ID")
		return
	}

	err = h.reviewService.DeleteReview(c.Request.Context(), uuid.MustParse(uriReq.ID), userID, isAdmin(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
