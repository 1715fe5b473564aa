package handler

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/mluqi/km-support/internal/service"
	"github.com/mluqi/km-support/pkg/errcode"
	"github.com/mluqi/km-support/pkg/response"
	"github.com/skip2/go-qrcode"
)

// OrderHandler handles order lifecycle requests
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// orderIdFromPath parses the order id path parameter
func orderIdFromPath(c *app.RequestContext) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// Create handles create order request
func (h *OrderHandler) Create(ctx context.Context, c *app.RequestContext) {
	userId := senderFromContext(c).Id
	if userId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	var req service.CreateOrderRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	order, err := h.orderService.CreateOrder(ctx, userId, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, order)
}

// ListMine returns the caller's own orders
func (h *OrderHandler) ListMine(ctx context.Context, c *app.RequestContext) {
	userId := senderFromContext(c).Id
	if userId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	orders, err := h.orderService.ListOrders(ctx, userId)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, map[string]interface{}{
		"orders": orders,
	})
}

// Get returns one order
func (h *OrderHandler) Get(ctx context.Context, c *app.RequestContext) {
	id, ok := orderIdFromPath(c)
	if !ok {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	order, err := h.orderService.GetOrder(ctx, senderFromContext(c), id)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, order)
}

// RequestCancel handles the customer's cancellation request
func (h *OrderHandler) RequestCancel(ctx context.Context, c *app.RequestContext) {
	id, ok := orderIdFromPath(c)
	if !ok {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	order, err := h.orderService.RequestCancel(ctx, senderFromContext(c), id)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, order)
}

// AdminList returns every order
func (h *OrderHandler) AdminList(ctx context.Context, c *app.RequestContext) {
	orders, err := h.orderService.ListAllOrders(ctx)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, map[string]interface{}{
		"orders": orders,
	})
}

// UpdateStatus advances an order along the status chain
func (h *OrderHandler) UpdateStatus(ctx context.Context, c *app.RequestContext) {
	id, ok := orderIdFromPath(c)
	if !ok {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	var req service.UpdateStatusRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	order, err := h.orderService.UpdateStatus(ctx, id, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, order)
}

// ApproveCancel resolves a cancellation request into cancelled
func (h *OrderHandler) ApproveCancel(ctx context.Context, c *app.RequestContext) {
	id, ok := orderIdFromPath(c)
	if !ok {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	order, err := h.orderService.ApproveCancel(ctx, id)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, order)
}

// RejectCancel resolves a cancellation request back to the prior status
func (h *OrderHandler) RejectCancel(ctx context.Context, c *app.RequestContext) {
	id, ok := orderIdFromPath(c)
	if !ok {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	order, err := h.orderService.RejectCancel(ctx, id)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, order)
}

// Label renders the shipping label QR code for a shipped order as PNG
func (h *OrderHandler) Label(ctx context.Context, c *app.RequestContext) {
	id, ok := orderIdFromPath(c)
	if !ok {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	order, err := h.orderService.GetOrder(ctx, senderFromContext(c), id)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	if order.Awb == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrAwbMissing)
		return
	}

	png, err := qrcode.Encode(service.LabelContent(order), qrcode.Medium, 256)
	if err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInternalServer)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=\"order-%d-label.png\"", order.Id))
	c.Data(200, "image/png", png)
}

// Export streams every order as an xlsx workbook
func (h *OrderHandler) Export(ctx context.Context, c *app.RequestContext) {
	data, err := h.orderService.ExportOrders(ctx)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\"orders.xlsx\"")
	c.Data(200, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
