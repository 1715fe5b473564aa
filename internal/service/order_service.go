package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mbeoliero/kit/log"
	"github.com/mluqi/km-support/internal/config"
	"github.com/mluqi/km-support/internal/entity"
	"github.com/mluqi/km-support/internal/events"
	"github.com/mluqi/km-support/internal/repository"
	"github.com/mluqi/km-support/pkg/constant"
	"github.com/mluqi/km-support/pkg/errcode"
	"github.com/mluqi/km-support/pkg/idgen"
	"github.com/xuri/excelize/v2"
)

// OrderService handles the order lifecycle: creation, the status chain and
// the cancellation branch
type OrderService struct {
	orderRepo *repository.OrderRepo
	producer  *events.Producer
	cfg       *config.Config
}

// NewOrderService creates a new OrderService
func NewOrderService(repos *repository.Repositories, producer *events.Producer, cfg *config.Config) *OrderService {
	return &OrderService{
		orderRepo: repos.Order,
		producer:  producer,
		cfg:       cfg,
	}
}

// CreateOrderRequest represents create order request
type CreateOrderRequest struct {
	Total int64 `json:"total"`
}

// UpdateStatusRequest is the admin's status change request. Awb is required
// when moving to shipped.
type UpdateStatusRequest struct {
	Status string `json:"status"`
	Awb    string `json:"awb,omitempty"`
}

// CreateOrder creates a pending order for the customer
func (s *OrderService) CreateOrder(ctx context.Context, userId string, req *CreateOrderRequest) (*entity.Order, error) {
	if req.Total < 0 {
		return nil, errcode.ErrInvalidParam
	}

	id, err := idgen.NextID()
	if err != nil {
		log.CtxError(ctx, "generate order id failed: %v", err)
		return nil, errcode.ErrInternalServer
	}

	now := entity.NowUnixMilli()
	order := &entity.Order{
		Id:        id,
		UserId:    userId,
		Status:    constant.OrderStatusPending,
		Total:     req.Total,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		log.CtxError(ctx, "create order failed: %v", err)
		return nil, errcode.ErrInternalServer
	}

	s.producer.Publish(ctx, &events.OrderEvent{
		Type:       constant.OrderEventCreated,
		OrderId:    order.Id,
		UserId:     order.UserId,
		Status:     order.Status,
		OccurredAt: now,
	})

	log.CtxInfo(ctx, "order created: id=%d, user_id=%s", order.Id, order.UserId)
	return order, nil
}

// GetOrder returns an order, restricted to its owner unless the caller is an
// admin.
func (s *OrderService) GetOrder(ctx context.Context, sender *Sender, orderId int64) (*entity.Order, error) {
	order, err := s.orderRepo.GetById(ctx, orderId)
	if err != nil {
		log.CtxError(ctx, "get order failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	if order == nil {
		return nil, errcode.ErrOrderNotFound
	}
	if sender.Role != constant.RoleAdmin && order.UserId != sender.Id {
		return nil, errcode.ErrNoPermission
	}
	return order, nil
}

// ListOrders returns the customer's own orders, newest first
func (s *OrderService) ListOrders(ctx context.Context, userId string) ([]*entity.Order, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userId)
	if err != nil {
		log.CtxError(ctx, "list orders failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	return orders, nil
}

// ListAllOrders returns every order for the admin view
func (s *OrderService) ListAllOrders(ctx context.Context) ([]*entity.Order, error) {
	orders, err := s.orderRepo.ListAll(ctx)
	if err != nil {
		log.CtxError(ctx, "list all orders failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	return orders, nil
}

// UpdateStatus advances an order along the status chain. Only the single
// next step is legal; anything else is rejected, including moves backwards.
// The write is guarded on the observed status so a concurrent change makes
// the request fail instead of clobbering.
func (s *OrderService) UpdateStatus(ctx context.Context, orderId int64, req *UpdateStatusRequest) (*entity.Order, error) {
	order, err := s.orderRepo.GetById(ctx, orderId)
	if err != nil {
		log.CtxError(ctx, "get order failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	if order == nil {
		return nil, errcode.ErrOrderNotFound
	}

	if !entity.CanTransition(order.Status, req.Status) {
		if order.IsTerminal() {
			return nil, errcode.ErrOrderTerminal
		}
		return nil, errcode.ErrInvalidTransition
	}

	updates := map[string]interface{}{"status": req.Status}
	if req.Status == constant.OrderStatusShipped {
		if req.Awb == "" {
			return nil, errcode.ErrAwbMissing
		}
		updates["awb"] = req.Awb
	}

	return s.applyTransition(ctx, order, order.Status, updates)
}

// RequestCancel puts the order into the cancellation branch, remembering the
// state to restore if the request is rejected.
func (s *OrderService) RequestCancel(ctx context.Context, sender *Sender, orderId int64) (*entity.Order, error) {
	order, err := s.GetOrder(ctx, sender, orderId)
	if err != nil {
		return nil, err
	}

	if !order.CanRequestCancel() {
		return nil, errcode.ErrCancelNotAllowed
	}

	updates := map[string]interface{}{
		"status":               constant.OrderStatusCancellationRequested,
		"status_before_cancel": order.Status,
	}
	return s.applyTransition(ctx, order, order.Status, updates)
}

// ApproveCancel resolves a pending cancellation request into cancelled
func (s *OrderService) ApproveCancel(ctx context.Context, orderId int64) (*entity.Order, error) {
	order, err := s.orderRepo.GetById(ctx, orderId)
	if err != nil {
		log.CtxError(ctx, "get order failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	if order == nil {
		return nil, errcode.ErrOrderNotFound
	}
	if !order.HasCancelRequest() {
		return nil, errcode.ErrNoCancelRequest
	}

	updates := map[string]interface{}{
		"status":               constant.OrderStatusCancelled,
		"status_before_cancel": "",
	}
	return s.applyTransition(ctx, order, constant.OrderStatusCancellationRequested, updates)
}

// RejectCancel resolves a pending cancellation request by restoring the
// status the order had before the request.
func (s *OrderService) RejectCancel(ctx context.Context, orderId int64) (*entity.Order, error) {
	order, err := s.orderRepo.GetById(ctx, orderId)
	if err != nil {
		log.CtxError(ctx, "get order failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	if order == nil {
		return nil, errcode.ErrOrderNotFound
	}
	if !order.HasCancelRequest() {
		return nil, errcode.ErrNoCancelRequest
	}

	restored := order.StatusBeforeCancel
	if restored == "" {
		restored = constant.OrderStatusPending
	}

	updates := map[string]interface{}{
		"status":               restored,
		"status_before_cancel": "",
	}
	return s.applyTransition(ctx, order, constant.OrderStatusCancellationRequested, updates)
}

// applyTransition performs the guarded write and publishes the change event
func (s *OrderService) applyTransition(ctx context.Context, order *entity.Order, fromStatus string, updates map[string]interface{}) (*entity.Order, error) {
	ok, err := s.orderRepo.UpdateStatusFrom(ctx, order.Id, fromStatus, updates)
	if err != nil {
		log.CtxError(ctx, "update order status failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	if !ok {
		// Someone moved the order first; the caller's view is stale
		return nil, errcode.ErrInvalidTransition
	}

	updated, err := s.orderRepo.GetById(ctx, order.Id)
	if err != nil || updated == nil {
		log.CtxError(ctx, "reload order failed: %v", err)
		return nil, errcode.ErrInternalServer
	}

	s.producer.Publish(ctx, &events.OrderEvent{
		Type:       constant.OrderEventStatusChanged,
		OrderId:    updated.Id,
		UserId:     updated.UserId,
		Status:     updated.Status,
		PrevStatus: fromStatus,
		Awb:        updated.Awb,
		OccurredAt: entity.NowUnixMilli(),
	})

	log.CtxInfo(ctx, "order status changed: id=%d, %s -> %s", updated.Id, fromStatus, updated.Status)
	return updated, nil
}

// exportHeaders are the columns of the admin order export
var exportHeaders = []string{"Order ID", "User ID", "Status", "AWB", "Total", "Created At", "Updated At"}

// ExportOrders renders every order into an xlsx workbook for the admin
// back office.
func (s *OrderService) ExportOrders(ctx context.Context) ([]byte, error) {
	orders, err := s.orderRepo.ListAll(ctx)
	if err != nil {
		log.CtxError(ctx, "list orders for export failed: %v", err)
		return nil, errcode.ErrOrderExportFailed
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := "Orders"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, errcode.ErrOrderExportFailed.Wrap(err)
	}

	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, errcode.ErrOrderExportFailed.Wrap(err)
		}
	}

	for row, order := range orders {
		values := []interface{}{
			strconv.FormatInt(order.Id, 10),
			order.UserId,
			order.Status,
			order.Awb,
			order.Total,
			order.CreatedAt,
			order.UpdatedAt,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, errcode.ErrOrderExportFailed.Wrap(err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errcode.ErrOrderExportFailed.Wrap(err)
	}

	log.CtxInfo(ctx, "orders exported: count=%d", len(orders))
	return buf.Bytes(), nil
}

// LabelContent is the payload encoded into the shipping label QR code
func LabelContent(order *entity.Order) string {
	return fmt.Sprintf("order:%d;awb:%s", order.Id, order.Awb)
}
