package carrier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/mluqi/km-support/internal/config"
)

// ErrAwbNotFound is returned when the carrier has no record for the waybill.
// The carrier reports this for freshly handed-over parcels too, so callers
// treat it as "not yet visible" rather than a hard failure.
var ErrAwbNotFound = errors.New("carrier: awb not found")

// TrackSummary is the carrier's headline view of a shipment
type TrackSummary struct {
	Awb     string `json:"awb"`
	Courier string `json:"courier"`
	Status  string `json:"status"`
	Date    string `json:"date"`
	Desc    string `json:"desc"`
	Weight  string `json:"weight"`
}

// TrackEvent is a single checkpoint in the shipment history
type TrackEvent struct {
	Date     string `json:"date"`
	Desc     string `json:"desc"`
	Location string `json:"location"`
}

// TrackData bundles the summary with the checkpoint history
type TrackData struct {
	Summary TrackSummary `json:"summary"`
	History []TrackEvent `json:"history"`
}

// trackEnvelope mirrors the carrier API's response wrapper
type trackEnvelope struct {
	Status  int       `json:"status"`
	Message string    `json:"message"`
	Data    TrackData `json:"data"`
}

// Client calls the external waybill tracking API
type Client struct {
	httpClient *client.Client
	cfg        *config.CarrierConfig
}

// NewClient creates a carrier API client
func NewClient(cfg *config.CarrierConfig) (*Client, error) {
	httpClient, err := client.NewClient(
		client.WithDialTimeout(cfg.Timeout),
		client.WithClientReadTimeout(cfg.Timeout),
		client.WithWriteTimeout(10*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create carrier http client: %w", err)
	}

	return &Client{httpClient: httpClient, cfg: cfg}, nil
}

// TrackAwb fetches the live tracking record for a waybill. Returns
// ErrAwbNotFound when the carrier has no record yet.
func (c *Client) TrackAwb(ctx context.Context, awb string) (*TrackData, error) {
	query := url.Values{}
	query.Set("api_key", c.cfg.APIKey)
	query.Set("courier", c.cfg.Courier)
	query.Set("awb", awb)
	reqURL := c.cfg.BaseURL + "/v1/track?" + query.Encode()

	req := &protocol.Request{}
	resp := &protocol.Response{}

	req.SetMethod(consts.MethodGet)
	req.SetRequestURI(reqURL)

	if err := c.httpClient.Do(ctx, req, resp); err != nil {
		return nil, fmt.Errorf("carrier request failed: %w", err)
	}

	var envelope trackEnvelope
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode carrier response: %w", err)
	}

	if envelope.Status != 200 {
		if resp.StatusCode() == consts.StatusNotFound || envelope.Status == 400 || envelope.Status == 404 {
			return nil, ErrAwbNotFound
		}
		return nil, fmt.Errorf("carrier error: status=%d, message=%s", envelope.Status, envelope.Message)
	}

	return &envelope.Data, nil
}
