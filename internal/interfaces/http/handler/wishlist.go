package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/oilmart/backend/internal/application/shopping"
)

// WishlistHandler handles wishlist HTTP requests
type WishlistHandler struct {
	BaseHandler
	wishlistService *shopping.WishlistService
}

// NewWishlistHandler creates a new wishlist handler
func NewWishlistHandler(wishlistService *shopping.WishlistService) *WishlistHandler {
	return &WishlistHandler{
		wishlistService: wishlistService,
	}
}

// Get godoc
// @Summary      Get wishlist
// @Description  Return the caller's wishlist with current product data
// @Tags         wishlist
// @Produce      json
// @Success      200 {object} dto.Response{data=shopping.WishlistResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /wishlist [get]
func (h *WishlistHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	wishlist, err := h.wishlistService.GetWishlist(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, wishlist)
}

// Toggle godoc
// @Summary      Toggle wishlist membership
// @Description  Add the product to the wishlist if absent, remove it if present
// @Tags         wishlist
// @Produce      json
// @Param        productId path string true "Product ID"
// @Success      200 {object} dto.Response{data=shopping.ToggleWishlistResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /wishlist/{productId}/toggle [post]
func (h *WishlistHandler) Toggle(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	result, err := h.wishlistService.Toggle(c.Request.Context(), userID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Remove godoc
// @Summary      Remove from wishlist
// @Tags         wishlist
// @Produce      json
// @Param        productId path string true "Product ID"
// @Success      204 "No Content"
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /wishlist/{productId} [delete]
func (h *WishlistHandler) Remove(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	if err := h.wishlistService.Remove(c.Request.Context(), userID, productID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
