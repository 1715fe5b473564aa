package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/mluqi/km-support/internal/service"
	"github.com/mluqi/km-support/pkg/errcode"
	"github.com/mluqi/km-support/pkg/response"
)

// ShippingHandler handles shipment tracking requests
type ShippingHandler struct {
	trackingService *service.TrackingService
}

// NewShippingHandler creates a new ShippingHandler
func NewShippingHandler(trackingService *service.TrackingService) *ShippingHandler {
	return &ShippingHandler{trackingService: trackingService}
}

// TrackAwb looks up a waybill at the carrier. An unrecognized waybill comes
// back as a synthetic "unknown" result, not an error.
func (h *ShippingHandler) TrackAwb(ctx context.Context, c *app.RequestContext) {
	awb := c.Param("awb")
	if awb == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrAwbMissing)
		return
	}

	result, err := h.trackingService.TrackAwb(ctx, awb)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}
