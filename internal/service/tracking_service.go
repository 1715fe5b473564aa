package service

import (
	"context"
	"errors"
	"strings"

	"github.com/mbeoliero/kit/log"
	"github.com/mluqi/km-support/internal/carrier"
	"github.com/mluqi/km-support/pkg/constant"
	"github.com/mluqi/km-support/pkg/errcode"
)

// CarrierAPI is the slice of the carrier client the tracking service needs
type CarrierAPI interface {
	TrackAwb(ctx context.Context, awb string) (*carrier.TrackData, error)
}

// TrackingEvent is one checkpoint shown to the customer
type TrackingEvent struct {
	Date     string `json:"date"`
	Desc     string `json:"desc"`
	Location string `json:"location,omitempty"`
}

// TrackingResult is the shipment view returned to clients. Synthetic marks
// results fabricated because the carrier has no record of the waybill yet.
type TrackingResult struct {
	Awb       string          `json:"awb"`
	Courier   string          `json:"courier"`
	Status    string          `json:"status"`
	Synthetic bool            `json:"synthetic"`
	Summary   string          `json:"summary,omitempty"`
	History   []TrackingEvent `json:"history"`
}

// TrackingService resolves waybill numbers against the carrier API
type TrackingService struct {
	carrier CarrierAPI
	courier string
}

// NewTrackingService creates a new TrackingService
func NewTrackingService(carrierClient CarrierAPI, courier string) *TrackingService {
	return &TrackingService{carrier: carrierClient, courier: courier}
}

// TrackAwb looks up a waybill at the carrier. A waybill the carrier does not
// know yet (common right after hand-over) comes back as a synthetic "unknown"
// result with a generic two-step history instead of an error, so the customer
// always sees something.
func (s *TrackingService) TrackAwb(ctx context.Context, awb string) (*TrackingResult, error) {
	if awb == "" {
		return nil, errcode.ErrAwbMissing
	}

	data, err := s.carrier.TrackAwb(ctx, awb)
	if err != nil {
		if errors.Is(err, carrier.ErrAwbNotFound) {
			log.CtxInfo(ctx, "awb not visible at carrier yet: awb=%s", awb)
			return s.syntheticResult(awb), nil
		}
		log.CtxError(ctx, "track awb failed: awb=%s, err=%v", awb, err)
		return nil, errcode.ErrTrackingUnavailable
	}

	result := &TrackingResult{
		Awb:     awb,
		Courier: data.Summary.Courier,
		Status:  mapCarrierStatus(data.Summary.Status),
		Summary: data.Summary.Desc,
		History: make([]TrackingEvent, 0, len(data.History)),
	}
	if result.Courier == "" {
		result.Courier = s.courier
	}
	for _, event := range data.History {
		result.History = append(result.History, TrackingEvent{
			Date:     event.Date,
			Desc:     event.Desc,
			Location: event.Location,
		})
	}
	return result, nil
}

// syntheticResult fabricates a placeholder record for a waybill the carrier
// has not indexed yet
func (s *TrackingService) syntheticResult(awb string) *TrackingResult {
	return &TrackingResult{
		Awb:       awb,
		Courier:   s.courier,
		Status:    constant.TrackingStatusUnknown,
		Synthetic: true,
		Summary:   "Nomor resi belum terdaftar di sistem kurir",
		History: []TrackingEvent{
			{Desc: "Pesanan dibuat dan sedang diproses"},
			{Desc: "Paket diserahkan ke kurir, menunggu pemindaian pertama"},
		},
	}
}

// mapCarrierStatus normalizes the carrier's free-form status string
func mapCarrierStatus(status string) string {
	if strings.EqualFold(status, "delivered") {
		return constant.TrackingStatusDelivered
	}
	return constant.TrackingStatusOnProcess
}
