package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/oilmart/backend/internal/application/promotion"
	"github.com/oilmart/backend/internal/interfaces/http/dto"
)

// CouponHandler handles coupon HTTP requests
type CouponHandler struct {
	BaseHandler
	couponService *promotion.CouponService
}

// NewCouponHandler creates a new coupon handler
func NewCouponHandler(couponService *promotion.CouponService) *CouponHandler {
	return &CouponHandler{
		couponService: couponService,
	}
}

// Validate godoc
// @Summary      Validate coupon
// @Description  Preview the discount a coupon code yields against a subtotal
// @Tags         coupons
// @Accept       json
// @Produce      json
// @Param        request body promotion.ValidateCouponRequest true "Code and subtotal"
// @Success      200 {object} dto.Response{data=promotion.ValidateCouponResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /coupons/validate [post]
func (h *CouponHandler) Validate(c *gin.Context) {
	var req promotion.ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.couponService.Validate(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List godoc
// @Summary      List coupons
// @Description  List coupons with filters and pagination (admin only)
// @Tags         admin-coupons
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Param        search query string false "Search in code and description"
// @Param        active_only query bool false "Only active coupons"
// @Success      200 {object} dto.Response{data=promotion.CouponListResponse}
// @Security     BearerAuth
// @Router       /admin/coupons [get]
func (h *CouponHandler) List(c *gin.Context) {
	var req promotion.ListCouponsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.couponService.List(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Coupons, result.Total, result.Page, result.PageSize)
}

// Get godoc
// @Summary      Get coupon
// @Tags         admin-coupons
// @Produce      json
// @Param        id path string true "Coupon ID"
// @Success      200 {object} dto.Response{data=promotion.CouponResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/coupons/{id} [get]
func (h *CouponHandler) Get(c *gin.Context) {
	var uriReq dto.IDRequest
	if err := c.ShouldBindUri(&uriReq); err != nil {
		h.BadRequest(c, "Invalid coupon ID")
		return
	}

	coupon, err := h.couponService.Get(c.Request.Context(), uuid.MustParse(uriReq.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, coupon)
}

// Create godoc
// @Summary      Create coupon
// @Description  Create a new coupon (admin only)
// @Tags         admin-coupons
// @Accept       json
// @Produce      json
// @Param        request body promotion.CreateCouponRequest true "Coupon data"
// @Success      201 {object} dto.Response{data=promotion.CouponResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/coupons [post]
func (h *CouponHandler) Create(c *gin.Context) {
	var req promotion.CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	coupon, err := h.couponService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, coupon)
}

// Update godoc
// @Summary      Update coupon
// @Description  Update a coupon's description and constraints (admin only)
// @Tags         admin-coupons
// @Accept       json
// @Produce      json
// @Param        id path string true "Coupon ID"
// @Param        request body promotion.UpdateCouponRequest true "Coupon data"
// @Success      200 {object} dto.Response{data=promotion.CouponResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/coupons/{id} [put]
func (h *CouponHandler) Update(c *gin.Context) {
	var uriReq dto.IDRequest
	if err := c.ShouldBindUri(&uriReq); err != nil {
		h.BadRequest(c, "Invalid coupon ID")
		return
	}

	var req promotion.UpdateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	coupon, err := h.couponService.Update(c.Request.Context(), uuid.MustParse(uriReq.ID), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, coupon)
}

// Activate godoc
// @Summary      Activate coupon
// @Tags         admin-coupons
// @Produce      json
// @Param        id path string true "Coupon ID"
// @Success      200 {object} dto.Response{data=promotion.CouponResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/coupons/{id}/activate [post]
func (h *CouponHandler) Activate(c *gin.Context) {
	var uriReq dto.IDRequest
	if err := c.ShouldBindUri(&uriReq); err != nil {
		h.BadRequest(c, "Invalid coupon ID")
		return
	}

	coupon, err := h.couponService.Activate(c.Request.Context(), uuid.MustParse(uriReq.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, coupon)
}

// Deactivate godoc
// @Summary      Deactivate coupon
// @Tags         admin-coupons
// @Produce      json
// @Param        id path string true "Coupon ID"
// @Success      200 {object} dto.Response{data=promotion.CouponResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/coupons/{id}/deactivate [post]
func (h *CouponHandler) Deactivate(c *gin.Context) {
	var uriReq dto.IDRequest
	if err := c.ShouldBindUri(&uriReq); err != nil {
		h.BadRequest(c, "Invalid coupon ID")
		return
	}

	coupon, err := h.couponService.Deactivate(c.Request.Context(), uuid.MustParse(uriReq.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, coupon)
}

// Delete godoc
// @Summary      Delete coupon
// @Description  Delete an unused coupon (admin only)
// @Tags         admin-coupons
// @Produce      json
// @Param        id path string true "Coupon ID"
// @Success      204 "No Content"
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/coupons/{id} [delete]
func (h *CouponHandler) Delete(c *gin.Context) {
	var uriReq dto.IDRequest
	if err := c.ShouldBindUri(&uriReq); err != nil {
		h.BadRequest(c, "Invalid coupon ID")
		return
	}

	if err := h.couponService.Delete(c.Request.Context(), uuid.MustParse(uriReq.ID)); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
