package ais

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vessel-tracker/internal/config"
	domainVessel "vessel-tracker/internal/domain/vessel"
)

func testAISConfig() config.AISConfig {
	return config.AISConfig{
		MarineSiaURL:       "https://api.marinesia.test/api/v1",
		AISHubURL:          "http://data.aishub.test/ws.php",
		AISHubUsername:     "AH_DEMO",
		MarineTrafficURL:   "https://services.marinetraffic.test/api",
		StormGlassURL:      "https://api.stormglass.test/v2",
		RequestTimeout:     5 * time.Second,
		AreaRequestTimeout: 10 * time.Second,
	}
}

func activateMock(t *testing.T, client *http.Client) {
	t.Helper()
	httpmock.ActivateNonDefault(client)
	t.Cleanup(httpmock.DeactivateAndReset)
}

func TestAISHub_FetchVessel_Success(t *testing.T) {
	p := NewAISHubProvider(testAISConfig(), zap.NewNop())
	activateMock(t, p.client)

	httpmock.RegisterResponder("GET", "http://data.aishub.test/ws.php",
		httpmock.NewStringResponder(200, `{
			"ERROR": "False",
			"data": [{
				"MMSI": 563012345,
				"LATITUDE": 1.3521,
				"LONGITUDE": 103.8198,
				"SOG": 15.5,
				"COG": 180,
				"HEADING": 178,
				"NAVSTAT": 0,
				"NAME": "EVER GIVEN",
				"TYPE": 70
			}]
		}`))

	np, err := p.FetchVessel(context.Background(), "563012345")

	require.NoError(t, err)
	assert.Equal(t, "563012345", np.MMSI)
	assert.InDelta(t, 1.3521, np.Latitude, 1e-9)
	assert.InDelta(t, 103.8198, np.Longitude, 1e-9)
	assert.InDelta(t, 15.5, np.SpeedOverGround, 1e-9)
	assert.Equal(t, domainVessel.StatusUnderway, np.NavStatus)
	assert.Equal(t, domainVessel.TypeCargo, np.VesselType)
	assert.Equal(t, "EVER GIVEN", np.VesselName)
	assert.Equal(t, "aishub", np.DataSource)
}

func TestAISHub_FetchVessel_ErrorEnvelope(t *testing.T) {
	p := NewAISHubProvider(testAISConfig(), zap.NewNop())
	activateMock(t, p.client)

	httpmock.RegisterResponder("GET", "http://data.aishub.test/ws.php",
		httpmock.NewStringResponder(200, `{"ERROR": "True", "data": []}`))

	np, err := p.FetchVessel(context.Background(), "563012345")

	assert.Nil(t, np)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestAISHub_FetchVessel_HTTPFailures(t *testing.T) {
	tests := []struct {
		name      string
		responder httpmock.Responder
	}{
		{"server error", httpmock.NewStringResponder(500, "boom")},
		{"malformed json", httpmock.NewStringResponder(200, "{not json")},
		{"timeout", httpmock.NewErrorResponder(context.DeadlineExceeded)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewAISHubProvider(testAISConfig(), zap.NewNop())
			activateMock(t, p.client)
			httpmock.RegisterResponder("GET", "http://data.aishub.test/ws.php", tt.responder)

			np, err := p.FetchVessel(context.Background(), "563012345")

			assert.Nil(t, np)
			assert.ErrorIs(t, err, ErrNoData)
		})
	}
}

func TestAISHub_FetchArea_SkipsBadRecords(t *testing.T) {
	p := NewAISHubProvider(testAISConfig(), zap.NewNop())
	activateMock(t, p.client)

	httpmock.RegisterResponder("GET", "http://data.aishub.test/ws.php",
		httpmock.NewStringResponder(200, `{
			"ERROR": "False",
			"data": [
				{"MMSI": 111111111, "LATITUDE": 1.0, "LONGITUDE": 103.0},
				{"MMSI": 222222222, "LATITUDE": 0, "LONGITUDE": 0},
				{"MMSI": 333333333, "LATITUDE": 95.0, "LONGITUDE": 103.0}
			]
		}`))

	box := domainVessel.BoundingBox{MinLat: 0, MaxLat: 10, MinLon: 100, MaxLon: 110}
	records, err := p.FetchArea(context.Background(), box)

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "111111111", records[0].MMSI)
}

func TestMarineSia_FetchVessel_MergesProfile(t *testing.T) {
	p := NewMarineSiaProvider(testAISConfig(), zap.NewNop())
	activateMock(t, p.client)

	httpmock.RegisterResponder("GET", "https://api.marinesia.test/api/v1/vessel/563012345/location/latest",
		httpmock.NewStringResponder(200, `{
			"latitude": 1.3521, "longitude": 103.8198,
			"speed": 10.2, "course": 90, "status": "5"
		}`))
	httpmock.RegisterResponder("GET", "https://api.marinesia.test/api/v1/vessel/563012345/profile",
		httpmock.NewStringResponder(200, `{"name": "MAERSK ESSEX", "type": "70"}`))

	np, err := p.FetchVessel(context.Background(), "563012345")

	require.NoError(t, err)
	assert.Equal(t, "563012345", np.MMSI) // filled from the lookup key
	assert.Equal(t, "MAERSK ESSEX", np.VesselName)
	assert.Equal(t, domainVessel.TypeCargo, np.VesselType)
	assert.Equal(t, domainVessel.StatusMoored, np.NavStatus)
	assert.Equal(t, "marinesia", np.DataSource)
}

func TestMarineSia_FetchVessel_ProfileFailureIgnored(t *testing.T) {
	p := NewMarineSiaProvider(testAISConfig(), zap.NewNop())
	activateMock(t, p.client)

	httpmock.RegisterResponder("GET", "https://api.marinesia.test/api/v1/vessel/563012345/location/latest",
		httpmock.NewStringResponder(200, `{"latitude": 1.3521, "longitude": 103.8198}`))
	httpmock.RegisterResponder("GET", "https://api.marinesia.test/api/v1/vessel/563012345/profile",
		httpmock.NewStringResponder(500, "boom"))

	np, err := p.FetchVessel(context.Background(), "563012345")

	require.NoError(t, err)
	assert.InDelta(t, 1.3521, np.Latitude, 1e-9)
}

func TestMarineSia_FetchArea_TriesFallbackEndpoints(t *testing.T) {
	p := NewMarineSiaProvider(testAISConfig(), zap.NewNop())
	activateMock(t, p.client)

	httpmock.RegisterResponder("GET", "https://api.marinesia.test/api/v1/vessels/area",
		httpmock.NewStringResponder(404, "not found"))
	httpmock.RegisterResponder("GET", "https://api.marinesia.test/api/v1/vessels/search",
		httpmock.NewStringResponder(200, `{"vessels": [
			{"mmsi": "111111111", "lat": 5.0, "lon": 105.0}
		]}`))

	box := domainVessel.BoundingBox{MinLat: 0, MaxLat: 10, MinLon: 100, MaxLon: 110}
	records, err := p.FetchArea(context.Background(), box)

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "111111111", records[0].MMSI)
}

func TestMarineTraffic_NotConfigured(t *testing.T) {
	p := NewMarineTrafficProvider(testAISConfig(), zap.NewNop())

	np, err := p.FetchVessel(context.Background(), "563012345")
	assert.Nil(t, np)
	assert.ErrorIs(t, err, ErrNotConfigured)

	box := domainVessel.BoundingBox{MinLat: 0, MaxLat: 10, MinLon: 100, MaxLon: 110}
	records, err := p.FetchArea(context.Background(), box)
	assert.Nil(t, records)
	assert.ErrorIs(t, err, ErrNotConfigured)

	// Nothing should have hit the network.
	assert.Zero(t, httpmock.GetTotalCallCount())
}

func TestMarineTraffic_FetchVessel_Success(t *testing.T) {
	cfg := testAISConfig()
	cfg.MarineTrafficKey = "secret-key"
	p := NewMarineTrafficProvider(cfg, zap.NewNop())
	activateMock(t, p.client)

	httpmock.RegisterResponder("GET",
		"https://services.marinetraffic.test/api/exportvessel/v:8/secret-key/timespan:10/mmsi:563012345/protocol:json",
		httpmock.NewStringResponder(200, `[{
			"MMSI": "563012345", "LAT": "1.3521", "LON": "103.8198",
			"SPEED": "15.5", "COURSE": "180", "HEADING": "178", "STATUS": "0"
		}]`))

	np, err := p.FetchVessel(context.Background(), "563012345")

	require.NoError(t, err)
	assert.InDelta(t, 1.3521, np.Latitude, 1e-9)
	assert.InDelta(t, 15.5, np.SpeedOverGround, 1e-9)
	assert.Equal(t, "marinetraffic", np.DataSource)
}

func TestStormGlass_FetchWeather(t *testing.T) {
	cfg := testAISConfig()
	cfg.StormGlassAPIKey = "sg-key"
	p := NewStormGlassProvider(cfg, zap.NewNop())
	activateMock(t, p.client)

	httpmock.RegisterResponder("GET", `=~^https://api\.stormglass\.test/v2/weather/point`,
		httpmock.NewStringResponder(200, `{
			"hours": [{
				"waveHeight": {"noaa": 2.1},
				"waveDirection": {"noaa": 45},
				"windSpeed": {"noaa": 12.5},
				"windDirection": {"noaa": 270},
				"airTemperature": {"noaa": 28.3},
				"waterTemperature": {"noaa": 26.0}
			}]
		}`))

	w, err := p.FetchWeather(context.Background(), 1.3521, 103.8198)

	require.NoError(t, err)
	assert.InDelta(t, 2.1, w.WaveHeight, 1e-9)
	assert.InDelta(t, 12.5, w.WindSpeed, 1e-9)
	assert.InDelta(t, 26.0, w.WaterTemperature, 1e-9)
}

func TestStormGlass_NotConfigured(t *testing.T) {
	p := NewStormGlassProvider(testAISConfig(), zap.NewNop())

	w, err := p.FetchWeather(context.Background(), 1.0, 2.0)
	assert.Nil(t, w)
	assert.ErrorIs(t, err, ErrNotConfigured)
}
