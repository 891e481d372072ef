package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/oilmart/backend/internal/application/order"
	"github.com/oilmart/backend/internal/interfaces/http/dto"
)

// OrderHandler handles order HTTP requests for customers and admins
type OrderHandler struct {
	BaseHandler
	orderService *order.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *order.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// ListMine godoc
// @Summary      List my orders
// @Description  List the caller's orders, newest first
// @Tags         orders
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]order.OrderResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders [get]
func (h *OrderHandler) ListMine(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req order.MyOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.orderService.ListMyOrders(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Orders, result.Total, result.Page, result.PageSize)
}

// GetMine godoc
// @Summary      Get my order
// @Description  Get one of the caller's orders with its items
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response{data=order.OrderResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetMine(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var uriReq dto.IDRequest
	if err := c.ShouldBindUri(&uriReq); err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	result, err := h.orderService.GetMyOrder(c.Request.Context(), userID, uuid.MustParse(uriReq.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetMineByNumber godoc
// @Summary      Get my order by number
// @Description  Look up one of the caller's orders by its human-readable number
// @Tags         orders
// @Produce      json
// @Param        orderNumber path string true "Order number"
// @Success      200 {object} dto.Response{data=order.OrderResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/number/{orderNumber} [get]
func (h *OrderHandler) GetMineByNumber(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderNumber := c.Param("orderNumber")
	if orderNumber == "" {
		h.BadRequest(c, "Order number is required")
		return
	}

	result, err := h.orderService.GetMyOrderByNumber(c.Request.Context(), userID, orderNumber)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// CancelMine godoc
// @Summary      Cancel my order
// @Description  Cancel a pending order and restock its items
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response{data=order.OrderResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id}/cancel [post]
func (h *OrderHandler) CancelMine(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var uriReq dto.IDRequest
	if err := c.ShouldBindUri(&uriReq); err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	result, err := h.orderService.CancelMyOrder(c.Request.Context(), userID, uuid.MustParse(uriReq.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List godoc
// @Summary      List orders
// @Description  List all orders with filters and pagination (admin only)
// @Tags         admin-orders
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Param        status query string false "Fulfilment status filter"
// @Param        payment_status query string false "Payment status filter"
// @Param        from query string false "Orders placed on or after this date (YYYY-MM-DD)"
// @Param        to query string false "Orders placed up to and including this date (YYYY-MM-DD)"
// @Param        search query string false "Search by order number"
// @Success      200 {object} dto.Response{data=[]order.OrderResponse}
// @Security     BearerAuth
// @Router       /admin/orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	var req order.ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.orderService.List(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Orders, result.Total, result.Page, result.PageSize)
}

// Get godoc
// @Summary      Get order
// @Description  Get any order with its items (admin only)
// @Tags         admin-orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response{data=order.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	var uriReq dto.IDRequest
	if err := c.ShouldBindUri(&uriReq); err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	result, err := h.orderService.Get(c.Request.Context(), uuid.MustParse(uriReq.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// UpdateStatus godoc
// @Summary      Update order status
// @Description  Move an order along the fulfilment state machine (admin only)
// @Tags         admin-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID"
// @Param        request body order.UpdateStatusRequest true "Target status"
// @Success      200 {object} dto.Response{data=order.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var uriReq dto.IDRequest
	if err := c.ShouldBindUri(&uriReq); err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req order.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.orderService.UpdateStatus(c.Request.Context(), uuid.MustParse(uriReq.ID), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// UpdatePaymentStatus godoc
// @Summary      Update payment status
// @Description  Manually mark an order paid or trigger a refund (admin only)
// @Tags         admin-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID"
// @Param        request body order.UpdatePaymentStatusRequest true "Target payment status"
// @Success      200 {object} dto.Response{data=order.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/orders/{id}/payment-status [put]
func (h *OrderHandler) UpdatePaymentStatus(c *gin.Context) {
	var uriReq dto.IDRequest
	if err := c.ShouldBindUri(&uriReq); err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req order.UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.orderService.UpdatePaymentStatus(c.Request.Context(), uuid.MustParse(uriReq.ID), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Cancel godoc
// @Summary      Cancel order
// @Description  Cancel any cancellable order, refunding if already paid (admin only)
// @Tags         admin-orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response{data=order.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	var uriReq dto.IDRequest
	if err := c.ShouldBindUri(&uriReq); err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	result, err := h.orderService.Cancel(c.Request.Context(), uuid.MustParse(uriReq.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
