package ais

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"vessel-tracker/internal/config"
	domainVessel "vessel-tracker/internal/domain/vessel"
)

const sourceMarineTraffic = "marinetraffic"

// MarineTrafficProvider wraps the paid MarineTraffic export API. It is only
// tried when a key is configured; without one every call returns
// ErrNotConfigured without touching the network.
type MarineTrafficProvider struct {
	baseURL       string
	apiKey        string
	client        *http.Client
	singleTimeout time.Duration
	areaTimeout   time.Duration
	log           *zap.Logger
}

func NewMarineTrafficProvider(cfg config.AISConfig, log *zap.Logger) *MarineTrafficProvider {
	return &MarineTrafficProvider{
		baseURL:       cfg.MarineTrafficURL,
		apiKey:        cfg.MarineTrafficKey,
		client:        &http.Client{Timeout: cfg.AreaRequestTimeout},
		singleTimeout: cfg.RequestTimeout,
		areaTimeout:   cfg.AreaRequestTimeout,
		log:           log,
	}
}

func (p *MarineTrafficProvider) Name() string { return sourceMarineTraffic }

// Configured reports whether an API key is present.
func (p *MarineTrafficProvider) Configured() bool { return p.apiKey != "" }

func (p *MarineTrafficProvider) FetchVessel(ctx context.Context, mmsi string) (*NormalizedPosition, error) {
	if !p.Configured() {
		return nil, ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, p.singleTimeout)
	defer cancel()

	// MarineTraffic encodes parameters in the path, not the query string.
	reqURL := fmt.Sprintf("%s/exportvessel/v:8/%s/timespan:10/mmsi:%s/protocol:json", p.baseURL, p.apiKey, mmsi)

	var records []map[string]any
	if err := getJSON(ctx, p.client, reqURL, nil, nil, &records); err != nil {
		p.log.Warn("MarineTraffic lookup failed", zap.String("mmsi", mmsi), zap.Error(err))
		return nil, ErrNoData
	}
	if len(records) == 0 {
		return nil, ErrNoData
	}

	np := Normalize(records[0], sourceMarineTraffic)
	if np == nil {
		return nil, ErrNoData
	}
	if np.MMSI == "" {
		np.MMSI = mmsi
	}

	return np, nil
}

func (p *MarineTrafficProvider) FetchArea(ctx context.Context, box domainVessel.BoundingBox) ([]*NormalizedPosition, error) {
	if !p.Configured() {
		return nil, ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, p.areaTimeout)
	defer cancel()

	reqURL := fmt.Sprintf("%s/exportvessels/v:8/%s/minlat:%g/maxlat:%g/minlon:%g/maxlon:%g/protocol:json",
		p.baseURL, p.apiKey, box.MinLat, box.MaxLat, box.MinLon, box.MaxLon)

	var records []map[string]any
	if err := getJSON(ctx, p.client, reqURL, nil, nil, &records); err != nil {
		p.log.Warn("MarineTraffic area query failed", zap.Error(err))
		return nil, ErrNoData
	}

	var results []*NormalizedPosition
	for _, raw := range records {
		np := Normalize(raw, sourceMarineTraffic)
		if np == nil {
			continue
		}
		results = append(results, np)
	}

	if len(results) == 0 {
		return nil, ErrNoData
	}

	return results, nil
}
