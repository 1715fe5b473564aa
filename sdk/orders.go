package sdk

import (
	"context"
	"strconv"
)

// CreateOrder creates a pending order for the caller
func (c *Client) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*OrderInfo, error) {
	var result OrderInfo
	if err := c.post(ctx, "/orders", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListOrders returns the caller's own orders
func (c *Client) ListOrders(ctx context.Context) ([]*OrderInfo, error) {
	var result OrderListResponse
	if err := c.get(ctx, "/orders", nil, &result); err != nil {
		return nil, err
	}
	return result.Orders, nil
}

// GetOrder returns one order
func (c *Client) GetOrder(ctx context.Context, orderId int64) (*OrderInfo, error) {
	var result OrderInfo
	if err := c.get(ctx, "/orders/"+strconv.FormatInt(orderId, 10), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// RequestCancel asks for cancellation of the caller's order
func (c *Client) RequestCancel(ctx context.Context, orderId int64) (*OrderInfo, error) {
	var result OrderInfo
	if err := c.post(ctx, "/orders/"+strconv.FormatInt(orderId, 10)+"/request-cancel", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListAllOrders returns every order (admin)
func (c *Client) ListAllOrders(ctx context.Context) ([]*OrderInfo, error) {
	var result OrderListResponse
	if err := c.get(ctx, "/orders/admin", nil, &result); err != nil {
		return nil, err
	}
	return result.Orders, nil
}

// UpdateOrderStatus advances an order along the status chain (admin). Awb is
// required when moving to shipped.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderId int64, req *UpdateOrderStatusRequest) (*OrderInfo, error) {
	var result OrderInfo
	if err := c.put(ctx, "/orders/admin/"+strconv.FormatInt(orderId, 10)+"/status", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ApproveCancel resolves a cancellation request into cancelled (admin)
func (c *Client) ApproveCancel(ctx context.Context, orderId int64) (*OrderInfo, error) {
	var result OrderInfo
	if err := c.post(ctx, "/orders/admin/"+strconv.FormatInt(orderId, 10)+"/approve-cancel", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// RejectCancel restores the status the order had before the request (admin)
func (c *Client) RejectCancel(ctx context.Context, orderId int64) (*OrderInfo, error) {
	var result OrderInfo
	if err := c.post(ctx, "/orders/admin/"+strconv.FormatInt(orderId, 10)+"/reject-cancel", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// TrackAwb looks up a waybill. An unrecognized waybill comes back with
// status "unknown" and Synthetic set, not an error.
func (c *Client) TrackAwb(ctx context.Context, awb string) (*TrackingResult, error) {
	var result TrackingResult
	if err := c.get(ctx, "/shipping/track-awb/"+awb, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
