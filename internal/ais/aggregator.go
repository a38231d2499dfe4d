package ais

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	domainVessel "vessel-tracker/internal/domain/vessel"
)

const sourceMock = "mock"

// Aggregator queries providers in a fixed priority order and merges their
// outputs. ResolvePosition never returns nil: when every provider comes up
// empty it synthesizes a clearly-tagged placeholder so the write path keeps
// making progress.
type Aggregator struct {
	providers []Provider
	local     LocalSource
	weather   WeatherProvider
	cache     *gocache.Cache
	log       *zap.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewAggregator builds an aggregator over providers in priority order.
// local and weather may be nil.
func NewAggregator(providers []Provider, local LocalSource, weather WeatherProvider, cacheTTL time.Duration, log *zap.Logger) *Aggregator {
	var cache *gocache.Cache
	if cacheTTL > 0 {
		cache = gocache.New(cacheTTL, 2*cacheTTL)
	}

	return &Aggregator{
		providers: providers,
		local:     local,
		weather:   weather,
		cache:     cache,
		log:       log,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ResolvePosition returns the first provider answer for mmsi, or a mock
// placeholder when every provider fails. Recent answers are served from a
// short-TTL cache to stay inside provider rate limits.
func (a *Aggregator) ResolvePosition(ctx context.Context, mmsi string) *NormalizedPosition {
	if a.cache != nil {
		if cached, ok := a.cache.Get(mmsi); ok {
			return cached.(*NormalizedPosition)
		}
	}

	for _, provider := range a.providers {
		np, err := provider.FetchVessel(ctx, mmsi)
		if err != nil {
			if !errors.Is(err, ErrNoData) && !errors.Is(err, ErrNotConfigured) {
				a.log.Warn("provider lookup error",
					zap.String("provider", provider.Name()),
					zap.String("mmsi", mmsi),
					zap.Error(err),
				)
			}
			continue
		}
		if np == nil {
			continue
		}

		if a.cache != nil {
			a.cache.SetDefault(mmsi, np)
		}
		return np
	}

	a.log.Warn("all providers exhausted, synthesizing placeholder", zap.String("mmsi", mmsi))
	return a.mockPosition(mmsi)
}

// ResolveArea merges the local store's vessels with every area-capable
// provider's answer, in priority order. The first record seen for an MMSI
// wins; later duplicates are discarded.
func (a *Aggregator) ResolveArea(ctx context.Context, box domainVessel.BoundingBox) []*NormalizedPosition {
	var merged []*NormalizedPosition
	seen := make(map[string]bool)

	appendNew := func(records []*NormalizedPosition) {
		for _, np := range records {
			if np == nil || np.MMSI == "" || seen[np.MMSI] {
				continue
			}
			seen[np.MMSI] = true
			merged = append(merged, np)
		}
	}

	if a.local != nil {
		locals, err := a.local.VesselsInArea(ctx, box)
		if err != nil {
			a.log.Warn("local area lookup failed", zap.Error(err))
		} else {
			appendNew(locals)
		}
	}

	for _, provider := range a.providers {
		areaProvider, ok := provider.(AreaProvider)
		if !ok {
			continue
		}

		records, err := areaProvider.FetchArea(ctx, box)
		if err != nil {
			continue
		}
		appendNew(records)
	}

	a.annotateWeather(ctx, merged, box)

	a.log.Info("area query resolved",
		zap.Int("vessels", len(merged)),
		zap.Float64("min_lat", box.MinLat),
		zap.Float64("max_lat", box.MaxLat),
	)

	return merged
}

// annotateWeather attaches weather for the box center to every record.
// Failures are logged and swallowed; weather never blocks position results.
func (a *Aggregator) annotateWeather(ctx context.Context, records []*NormalizedPosition, box domainVessel.BoundingBox) {
	if a.weather == nil || len(records) == 0 {
		return
	}

	centerLat := (box.MinLat + box.MaxLat) / 2
	centerLon := (box.MinLon + box.MaxLon) / 2

	weather, err := a.weather.FetchWeather(ctx, centerLat, centerLon)
	if err != nil {
		if !errors.Is(err, ErrNotConfigured) {
			a.log.Warn("weather annotation failed", zap.Error(err))
		}
		return
	}

	for _, np := range records {
		np.Weather = weather
	}
}

// mockPosition fabricates a plausible record tagged data_source="mock".
func (a *Aggregator) mockPosition(mmsi string) *NormalizedPosition {
	a.mu.Lock()
	defer a.mu.Unlock()

	heading := a.rng.Intn(360)
	return &NormalizedPosition{
		MMSI:             mmsi,
		Latitude:         round6(a.rng.Float64()*180 - 90),
		Longitude:        round6(a.rng.Float64()*360 - 180),
		SpeedOverGround:  round1(a.rng.Float64() * 20),
		CourseOverGround: round1(a.rng.Float64() * 360),
		Heading:          &heading,
		NavStatus:        domainVessel.StatusUnderway,
		VesselType:       domainVessel.TypeCargo,
		Timestamp:        time.Now(),
		DataSource:       sourceMock,
	}
}

func round6(v float64) float64 {
	return float64(int64(v*1e6)) / 1e6
}

func round1(v float64) float64 {
	return float64(int64(v*10)) / 10
}
