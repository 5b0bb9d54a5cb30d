// Package enrich looks up environment context for a location. The payload is
// handed to the interview pipeline as an opaque blob; nothing in this service
// interprets its fields.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sandevgo/dermflow/internal/core"
	"github.com/sandevgo/dermflow/pkg/log"
)

const openMeteoURL = "https://api.open-meteo.com/v1/forecast"

type OpenMeteo struct {
	client *http.Client
}

func NewOpenMeteo() *OpenMeteo {
	return &OpenMeteo{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (o *OpenMeteo) Lookup(ctx context.Context, point core.GeoPoint) (json.RawMessage, error) {
	url := fmt.Sprintf("%s?latitude=%.4f&longitude=%.4f&current=temperature_2m,relative_humidity_2m,uv_index&daily=uv_index_max&timezone=auto",
		openMeteoURL, point.Lat, point.Lon)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", core.ServiceUserAgent)

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch environment context: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("environment lookup http %d", resp.StatusCode)
	}

	if !json.Valid(body) {
		return nil, fmt.Errorf("environment lookup returned invalid JSON")
	}

	log.FromCtx(ctx).Debug().
		Float64("lat", point.Lat).
		Float64("lon", point.Lon).
		Msg("environment context fetched")

	return json.RawMessage(body), nil
}
