package service

import (
	"context"
	"errors"
	"testing"

	"github.com/mluqi/km-support/internal/carrier"
	"github.com/mluqi/km-support/pkg/constant"
	"github.com/mluqi/km-support/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCarrier struct {
	data *carrier.TrackData
	err  error
}

func (s *stubCarrier) TrackAwb(ctx context.Context, awb string) (*carrier.TrackData, error) {
	return s.data, s.err
}

func TestTrackingService_TrackAwb(t *testing.T) {
	ctx := context.Background()

	t.Run("empty awb rejected", func(t *testing.T) {
		svc := NewTrackingService(&stubCarrier{}, "jne")
		_, err := svc.TrackAwb(ctx, "")
		assert.Equal(t, errcode.ErrAwbMissing, err)
	})

	t.Run("delivered maps to terminal status", func(t *testing.T) {
		svc := NewTrackingService(&stubCarrier{data: &carrier.TrackData{
			Summary: carrier.TrackSummary{Courier: "jne", Status: "DELIVERED", Desc: "Paket telah diterima"},
			History: []carrier.TrackEvent{
				{Date: "2026-08-28 09:15", Desc: "Paket diterima oleh YANTO", Location: "BANDUNG"},
				{Date: "2026-08-27 20:02", Desc: "Paket keluar dari gudang sortir", Location: "JAKARTA"},
			},
		}}, "jne")

		result, err := svc.TrackAwb(ctx, "JP1234567890")
		require.NoError(t, err)
		assert.Equal(t, constant.TrackingStatusDelivered, result.Status)
		assert.False(t, result.Synthetic)
		assert.Equal(t, "jne", result.Courier)
		assert.Len(t, result.History, 2)
		assert.Equal(t, "BANDUNG", result.History[0].Location)
	})

	t.Run("anything else maps to on_process", func(t *testing.T) {
		svc := NewTrackingService(&stubCarrier{data: &carrier.TrackData{
			Summary: carrier.TrackSummary{Status: "ON TRANSIT"},
		}}, "sicepat")

		result, err := svc.TrackAwb(ctx, "SC0001")
		require.NoError(t, err)
		assert.Equal(t, constant.TrackingStatusOnProcess, result.Status)
		// Carrier omitted its name, fall back to the configured courier
		assert.Equal(t, "sicepat", result.Courier)
	})

	t.Run("unknown awb yields synthetic result", func(t *testing.T) {
		svc := NewTrackingService(&stubCarrier{err: carrier.ErrAwbNotFound}, "jne")

		result, err := svc.TrackAwb(ctx, "JP9999999999")
		require.NoError(t, err)
		assert.True(t, result.Synthetic)
		assert.Equal(t, constant.TrackingStatusUnknown, result.Status)
		assert.Equal(t, "JP9999999999", result.Awb)
		assert.Len(t, result.History, 2)
		assert.NotEmpty(t, result.Summary)
	})

	t.Run("carrier outage surfaces as unavailable", func(t *testing.T) {
		svc := NewTrackingService(&stubCarrier{err: errors.New("dial tcp: i/o timeout")}, "jne")

		_, err := svc.TrackAwb(ctx, "JP1234567890")
		assert.Equal(t, errcode.ErrTrackingUnavailable, err)
	})
}
