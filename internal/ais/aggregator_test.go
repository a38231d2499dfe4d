package ais

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domainVessel "vessel-tracker/internal/domain/vessel"
)

type stubProvider struct {
	name   string
	single *NormalizedPosition
	area   []*NormalizedPosition
	err    error
	calls  int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) FetchVessel(ctx context.Context, mmsi string) (*NormalizedPosition, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.single, nil
}

func (s *stubProvider) FetchArea(ctx context.Context, box domainVessel.BoundingBox) ([]*NormalizedPosition, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.area, nil
}

type stubLocal struct {
	records []*NormalizedPosition
}

func (s *stubLocal) VesselsInArea(ctx context.Context, box domainVessel.BoundingBox) ([]*NormalizedPosition, error) {
	return s.records, nil
}

type stubWeather struct {
	weather *Weather
	err     error
}

func (s *stubWeather) Name() string { return "stub-weather" }

func (s *stubWeather) FetchWeather(ctx context.Context, lat, lon float64) (*Weather, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.weather, nil
}

func record(mmsi, source string) *NormalizedPosition {
	return &NormalizedPosition{
		MMSI:       mmsi,
		Latitude:   1.0,
		Longitude:  2.0,
		DataSource: source,
		Timestamp:  time.Now(),
	}
}

func TestResolvePosition_PriorityOrder(t *testing.T) {
	primary := &stubProvider{name: "primary", single: record("123456789", "primary")}
	secondary := &stubProvider{name: "secondary", single: record("123456789", "secondary")}

	agg := NewAggregator([]Provider{primary, secondary}, nil, nil, 0, zap.NewNop())
	np := agg.ResolvePosition(context.Background(), "123456789")

	require.NotNil(t, np)
	assert.Equal(t, "primary", np.DataSource)
	assert.Zero(t, secondary.calls)
}

func TestResolvePosition_FallsThroughFailures(t *testing.T) {
	primary := &stubProvider{name: "primary", err: ErrNoData}
	skipped := &stubProvider{name: "paid", err: ErrNotConfigured}
	secondary := &stubProvider{name: "secondary", single: record("123456789", "secondary")}

	agg := NewAggregator([]Provider{primary, skipped, secondary}, nil, nil, 0, zap.NewNop())
	np := agg.ResolvePosition(context.Background(), "123456789")

	require.NotNil(t, np)
	assert.Equal(t, "secondary", np.DataSource)
}

func TestResolvePosition_MockFallbackNeverNil(t *testing.T) {
	failing := &stubProvider{name: "down", err: ErrNoData}

	agg := NewAggregator([]Provider{failing}, nil, nil, 0, zap.NewNop())

	for _, mmsi := range []string{"123456789", "987654321", "000000001"} {
		np := agg.ResolvePosition(context.Background(), mmsi)
		require.NotNil(t, np)
		assert.Equal(t, "mock", np.DataSource)
		assert.Equal(t, mmsi, np.MMSI)
		assert.GreaterOrEqual(t, np.Latitude, -90.0)
		assert.LessOrEqual(t, np.Latitude, 90.0)
		assert.GreaterOrEqual(t, np.Longitude, -180.0)
		assert.LessOrEqual(t, np.Longitude, 180.0)
		assert.GreaterOrEqual(t, np.SpeedOverGround, 0.0)
	}
}

func TestResolvePosition_CachesAnswers(t *testing.T) {
	provider := &stubProvider{name: "primary", single: record("123456789", "primary")}

	agg := NewAggregator([]Provider{provider}, nil, nil, time.Minute, zap.NewNop())
	agg.ResolvePosition(context.Background(), "123456789")
	agg.ResolvePosition(context.Background(), "123456789")

	assert.Equal(t, 1, provider.calls)
}

func TestResolveArea_MergeFirstWriterWins(t *testing.T) {
	high := &stubProvider{name: "high", area: []*NormalizedPosition{
		record("111111111", "high"),
		record("222222222", "high"),
	}}
	low := &stubProvider{name: "low", area: []*NormalizedPosition{
		record("222222222", "low"), // duplicate, must be discarded
		record("333333333", "low"),
	}}

	agg := NewAggregator([]Provider{high, low}, nil, nil, 0, zap.NewNop())
	box := domainVessel.BoundingBox{MinLat: 0, MaxLat: 10, MinLon: 0, MaxLon: 10}
	merged := agg.ResolveArea(context.Background(), box)

	require.Len(t, merged, 3)

	bySource := map[string]string{}
	for _, np := range merged {
		_, dup := bySource[np.MMSI]
		require.False(t, dup, "MMSI %s appeared twice", np.MMSI)
		bySource[np.MMSI] = np.DataSource
	}
	assert.Equal(t, "high", bySource["222222222"])
	assert.Equal(t, "low", bySource["333333333"])
}

func TestResolveArea_LocalSourceFirst(t *testing.T) {
	local := &stubLocal{records: []*NormalizedPosition{record("111111111", "database")}}
	external := &stubProvider{name: "external", area: []*NormalizedPosition{
		record("111111111", "external"),
		record("444444444", "external"),
	}}

	agg := NewAggregator([]Provider{external}, local, nil, 0, zap.NewNop())
	box := domainVessel.BoundingBox{MinLat: 0, MaxLat: 10, MinLon: 0, MaxLon: 10}
	merged := agg.ResolveArea(context.Background(), box)

	require.Len(t, merged, 2)
	assert.Equal(t, "database", merged[0].DataSource)
}

func TestResolveArea_WeatherAnnotation(t *testing.T) {
	external := &stubProvider{name: "external", area: []*NormalizedPosition{
		record("111111111", "external"),
	}}
	weather := &stubWeather{weather: &Weather{WindSpeed: 12.5, WaveHeight: 2.1}}

	agg := NewAggregator([]Provider{external}, nil, weather, 0, zap.NewNop())
	box := domainVessel.BoundingBox{MinLat: 0, MaxLat: 10, MinLon: 0, MaxLon: 10}
	merged := agg.ResolveArea(context.Background(), box)

	require.Len(t, merged, 1)
	require.NotNil(t, merged[0].Weather)
	assert.InDelta(t, 12.5, merged[0].Weather.WindSpeed, 1e-9)
}

func TestResolveArea_WeatherFailureNeverBlocks(t *testing.T) {
	external := &stubProvider{name: "external", area: []*NormalizedPosition{
		record("111111111", "external"),
	}}
	weather := &stubWeather{err: ErrNoData}

	agg := NewAggregator([]Provider{external}, nil, weather, 0, zap.NewNop())
	box := domainVessel.BoundingBox{MinLat: 0, MaxLat: 10, MinLon: 0, MaxLon: 10}
	merged := agg.ResolveArea(context.Background(), box)

	require.Len(t, merged, 1)
	assert.Nil(t, merged[0].Weather)
}
