package ais

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainVessel "vessel-tracker/internal/domain/vessel"
)

func TestNormalize_FieldAliases(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
	}{
		{
			name: "lowercase long names",
			raw: map[string]any{
				"mmsi": "563012345", "latitude": 1.3521, "longitude": 103.8198,
				"speed": 15.5, "course": 180.0, "heading": 178.0,
			},
		},
		{
			name: "uppercase aishub style",
			raw: map[string]any{
				"MMSI": "563012345", "LATITUDE": 1.3521, "LONGITUDE": 103.8198,
				"SOG": 15.5, "COG": 180.0, "HEADING": 178.0,
			},
		},
		{
			name: "short aliases",
			raw: map[string]any{
				"mmsi": "563012345", "lat": 1.3521, "lng": 103.8198,
				"speed_over_ground": 15.5, "course_over_ground": 180.0, "heading": 178,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			np := Normalize(tt.raw, "test")
			require.NotNil(t, np)
			assert.Equal(t, "563012345", np.MMSI)
			assert.InDelta(t, 1.3521, np.Latitude, 1e-9)
			assert.InDelta(t, 103.8198, np.Longitude, 1e-9)
			assert.InDelta(t, 15.5, np.SpeedOverGround, 1e-9)
			assert.InDelta(t, 180.0, np.CourseOverGround, 1e-9)
			require.NotNil(t, np.Heading)
			assert.Equal(t, 178, *np.Heading)
			assert.Equal(t, "test", np.DataSource)
		})
	}
}

func TestNormalize_StringCoercion(t *testing.T) {
	np := Normalize(map[string]any{
		"mmsi":      float64(563012345), // JSON numbers decode as float64
		"latitude":  "1.3521",
		"longitude": "103.8198",
		"speed":     "12.3",
	}, "test")

	require.NotNil(t, np)
	assert.Equal(t, "563012345", np.MMSI)
	assert.InDelta(t, 1.3521, np.Latitude, 1e-9)
	assert.InDelta(t, 12.3, np.SpeedOverGround, 1e-9)
}

func TestNormalize_RejectsZeroFix(t *testing.T) {
	np := Normalize(map[string]any{
		"mmsi": "563012345", "latitude": 0.0, "longitude": 0.0,
	}, "test")
	assert.Nil(t, np)
}

func TestNormalize_RejectsOutOfRange(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
	}{
		{"latitude too high", 91, 10},
		{"latitude too low", -91, 10},
		{"longitude too high", 10, 181},
		{"longitude too low", 10, -181},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			np := Normalize(map[string]any{
				"mmsi": "563012345", "latitude": tt.lat, "longitude": tt.lon,
			}, "test")
			assert.Nil(t, np)
		})
	}
}

func TestNormalize_MissingCoordinates(t *testing.T) {
	assert.Nil(t, Normalize(map[string]any{"mmsi": "563012345"}, "test"))
	assert.Nil(t, Normalize(nil, "test"))
}

func TestNormalize_Defaults(t *testing.T) {
	np := Normalize(map[string]any{
		"mmsi": "563012345", "latitude": 1.0, "longitude": 2.0,
	}, "test")

	require.NotNil(t, np)
	assert.Zero(t, np.SpeedOverGround)
	assert.Zero(t, np.CourseOverGround)
	assert.Nil(t, np.Heading)
	assert.Equal(t, domainVessel.StatusUnderway, np.NavStatus)
	assert.Equal(t, domainVessel.TypeCargo, np.VesselType)
	assert.WithinDuration(t, time.Now(), np.Timestamp, 5*time.Second)
}

func TestMapNavStatus(t *testing.T) {
	tests := []struct {
		in   string
		want domainVessel.NavStatus
	}{
		{"0", domainVessel.StatusUnderway},
		{"1", domainVessel.StatusAtAnchor},
		{"2", domainVessel.StatusNotUnderCommand},
		{"3", domainVessel.StatusRestrictedManeuverability},
		{"4", domainVessel.StatusRestrictedManeuverability},
		{"5", domainVessel.StatusMoored},
		{"6", domainVessel.StatusAground},
		{"7", domainVessel.StatusFishing},
		{"8", domainVessel.StatusUnderSail},
		{"moored", domainVessel.StatusMoored},
		{"AT_ANCHOR", domainVessel.StatusAtAnchor},
		{"99", domainVessel.StatusUnderway},
		{"", domainVessel.StatusUnderway},
		{"garbage", domainVessel.StatusUnderway},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MapNavStatus(tt.in), "input %q", tt.in)
	}
}

func TestMapVesselType(t *testing.T) {
	tests := []struct {
		in   string
		want domainVessel.Type
	}{
		{"30", domainVessel.TypeFishing},
		{"52", domainVessel.TypeTug},
		{"60", domainVessel.TypePassenger},
		{"70", domainVessel.TypeCargo},
		{"80", domainVessel.TypeTanker},
		{"tanker", domainVessel.TypeTanker},
		{"Sailing", domainVessel.TypeSailing},
		{"12345", domainVessel.TypeCargo},
		{"", domainVessel.TypeCargo},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MapVesselType(tt.in), "input %q", tt.in)
	}
}

func TestNormalize_Timestamp(t *testing.T) {
	np := Normalize(map[string]any{
		"mmsi": "563012345", "latitude": 1.0, "longitude": 2.0,
		"timestamp": "2026-08-29T10:30:00Z",
	}, "test")

	require.NotNil(t, np)
	assert.Equal(t, time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC), np.Timestamp)
}
