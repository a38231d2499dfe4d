package ais

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"vessel-tracker/internal/config"
)

const sourceStormGlass = "stormglass"

// StormGlassProvider fetches marine weather. It supplies no positions and
// is only ever used as a best-effort annotation pass.
type StormGlassProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
	timeout time.Duration
	log     *zap.Logger
}

func NewStormGlassProvider(cfg config.AISConfig, log *zap.Logger) *StormGlassProvider {
	return &StormGlassProvider{
		baseURL: cfg.StormGlassURL,
		apiKey:  cfg.StormGlassAPIKey,
		client:  &http.Client{Timeout: cfg.RequestTimeout},
		timeout: cfg.RequestTimeout,
		log:     log,
	}
}

func (p *StormGlassProvider) Name() string { return sourceStormGlass }

func (p *StormGlassProvider) Configured() bool { return p.apiKey != "" }

type stormGlassResponse struct {
	Hours []map[string]map[string]float64 `json:"hours"`
}

func (p *StormGlassProvider) FetchWeather(ctx context.Context, lat, lon float64) (*Weather, error) {
	if !p.Configured() {
		return nil, ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lng", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("params", "waveHeight,waveDirection,windSpeed,windDirection,airTemperature,waterTemperature")
	params.Set("source", "noaa")

	headers := map[string]string{"Authorization": p.apiKey}

	var resp stormGlassResponse
	if err := getJSON(ctx, p.client, p.baseURL+"/weather/point", params, headers, &resp); err != nil {
		p.log.Warn("StormGlass weather fetch failed", zap.Error(err))
		return nil, ErrNoData
	}

	if len(resp.Hours) == 0 {
		return nil, ErrNoData
	}

	current := resp.Hours[0]
	return &Weather{
		WaveHeight:       current["waveHeight"]["noaa"],
		WaveDirection:    current["waveDirection"]["noaa"],
		WindSpeed:        current["windSpeed"]["noaa"],
		WindDirection:    current["windDirection"]["noaa"],
		AirTemperature:   current["airTemperature"]["noaa"],
		WaterTemperature: current["waterTemperature"]["noaa"],
	}, nil
}
