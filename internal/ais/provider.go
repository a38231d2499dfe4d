// Package ais integrates external vessel-tracking data providers. Each
// provider speaks its own JSON dialect; adapters fetch and funnel raw
// records through the normalizer so the rest of the system only ever sees
// NormalizedPosition values.
package ais

import (
	"context"
	"errors"
	"time"

	domainVessel "vessel-tracker/internal/domain/vessel"
)

var (
	// ErrNoData means the provider answered but had nothing for the query.
	ErrNoData = errors.New("provider returned no data")
	// ErrNotConfigured means the adapter lacks a required credential and
	// was skipped without issuing a request.
	ErrNotConfigured = errors.New("provider is not configured")
)

// NormalizedPosition is the canonical position record every adapter output
// is mapped into.
type NormalizedPosition struct {
	MMSI             string
	Latitude         float64
	Longitude        float64
	SpeedOverGround  float64
	CourseOverGround float64
	Heading          *int
	NavStatus        domainVessel.NavStatus
	VesselType       domainVessel.Type
	VesselName       string
	Destination      string
	ETA              string
	Timestamp        time.Time
	DataSource       string
	Weather          *Weather
}

// Weather is an optional best-effort annotation attached after position
// resolution; it never participates in merging.
type Weather struct {
	WaveHeight       float64 `json:"wave_height"`
	WaveDirection    float64 `json:"wave_direction"`
	WindSpeed        float64 `json:"wind_speed"`
	WindDirection    float64 `json:"wind_direction"`
	AirTemperature   float64 `json:"air_temperature"`
	WaterTemperature float64 `json:"water_temperature"`
}

// Provider is a single-vessel lookup source.
type Provider interface {
	Name() string
	FetchVessel(ctx context.Context, mmsi string) (*NormalizedPosition, error)
}

// AreaProvider is a source that also supports bounding-box queries.
// Area support is optional; adapters advertise it by implementing this.
type AreaProvider interface {
	Provider
	FetchArea(ctx context.Context, box domainVessel.BoundingBox) ([]*NormalizedPosition, error)
}

// WeatherProvider supplies marine weather for a coordinate. It never
// supplies positions.
type WeatherProvider interface {
	Name() string
	FetchWeather(ctx context.Context, lat, lon float64) (*Weather, error)
}

// LocalSource yields already-known vessels inside a bounding box, typically
// backed by the vessel store. It is consulted before any external adapter.
type LocalSource interface {
	VesselsInArea(ctx context.Context, box domainVessel.BoundingBox) ([]*NormalizedPosition, error)
}
