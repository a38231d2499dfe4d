package ais

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"vessel-tracker/internal/config"
	domainVessel "vessel-tracker/internal/domain/vessel"
)

const sourceMarineSia = "marinesia"

// MarineSiaProvider wraps the MarineSia API, the free primary source.
// Works without a key; a configured key raises the rate limits.
type MarineSiaProvider struct {
	baseURL       string
	apiKey        string
	client        *http.Client
	singleTimeout time.Duration
	areaTimeout   time.Duration
	log           *zap.Logger
}

func NewMarineSiaProvider(cfg config.AISConfig, log *zap.Logger) *MarineSiaProvider {
	return &MarineSiaProvider{
		baseURL:       cfg.MarineSiaURL,
		apiKey:        cfg.MarineSiaAPIKey,
		client:        &http.Client{Timeout: cfg.AreaRequestTimeout},
		singleTimeout: cfg.RequestTimeout,
		areaTimeout:   cfg.AreaRequestTimeout,
		log:           log,
	}
}

func (p *MarineSiaProvider) Name() string { return sourceMarineSia }

// FetchVessel pulls the latest location and, best effort, the vessel
// profile for extra identity details.
func (p *MarineSiaProvider) FetchVessel(ctx context.Context, mmsi string) (*NormalizedPosition, error) {
	ctx, cancel := context.WithTimeout(ctx, p.singleTimeout)
	defer cancel()

	params := url.Values{}
	if p.apiKey != "" {
		params.Set("key", p.apiKey)
	}

	var location map[string]any
	locationURL := fmt.Sprintf("%s/vessel/%s/location/latest", p.baseURL, mmsi)
	if err := getJSON(ctx, p.client, locationURL, params, nil, &location); err != nil {
		p.log.Debug("MarineSia lookup failed", zap.String("mmsi", mmsi), zap.Error(err))
		return nil, ErrNoData
	}
	if len(location) == 0 {
		return nil, ErrNoData
	}

	// Profile failures never block the position result.
	var profile map[string]any
	profileURL := fmt.Sprintf("%s/vessel/%s/profile", p.baseURL, mmsi)
	if err := getJSON(ctx, p.client, profileURL, params, nil, &profile); err != nil {
		p.log.Debug("MarineSia profile unavailable", zap.String("mmsi", mmsi), zap.Error(err))
	} else {
		if name, ok := profile["name"].(string); ok && name != "" {
			location["name"] = name
		}
		if typ, ok := profile["type"]; ok {
			location["type"] = typ
		}
	}

	np := Normalize(location, sourceMarineSia)
	if np == nil {
		return nil, ErrNoData
	}
	if np.MMSI == "" {
		np.MMSI = mmsi
	}

	return np, nil
}

// FetchArea tries the area endpoints MarineSia has shipped over time and
// settles for the first one that answers with a vessel list.
func (p *MarineSiaProvider) FetchArea(ctx context.Context, box domainVessel.BoundingBox) ([]*NormalizedPosition, error) {
	ctx, cancel := context.WithTimeout(ctx, p.areaTimeout)
	defer cancel()

	params := url.Values{}
	params.Set("min_lat", strconv.FormatFloat(box.MinLat, 'f', -1, 64))
	params.Set("max_lat", strconv.FormatFloat(box.MaxLat, 'f', -1, 64))
	params.Set("min_lon", strconv.FormatFloat(box.MinLon, 'f', -1, 64))
	params.Set("max_lon", strconv.FormatFloat(box.MaxLon, 'f', -1, 64))
	if p.apiKey != "" {
		params.Set("key", p.apiKey)
	}

	for _, endpoint := range []string{"/vessels/area", "/vessels/search", "/vessels"} {
		var body any
		if err := getJSON(ctx, p.client, p.baseURL+endpoint, params, nil, &body); err != nil {
			continue
		}

		rawList := extractVesselList(body)
		if rawList == nil {
			continue
		}

		var results []*NormalizedPosition
		for _, raw := range rawList {
			np := Normalize(raw, sourceMarineSia)
			if np == nil {
				continue
			}
			if !box.Contains(np.Latitude, np.Longitude) {
				continue
			}
			results = append(results, np)
		}

		if len(results) > 0 {
			return results, nil
		}
	}

	p.log.Debug("MarineSia area endpoints returned no vessels")
	return nil, ErrNoData
}

// extractVesselList unwraps the response envelopes MarineSia uses: a bare
// array, {"vessels": [...]}, or {"data": [...]}.
func extractVesselList(body any) []map[string]any {
	var items []any

	switch v := body.(type) {
	case []any:
		items = v
	case map[string]any:
		if list, ok := v["vessels"].([]any); ok {
			items = list
		} else if list, ok := v["data"].([]any); ok {
			items = list
		}
	}

	if items == nil {
		return nil
	}

	records := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if record, ok := item.(map[string]any); ok {
			records = append(records, record)
		}
	}
	return records
}
