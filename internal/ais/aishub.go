package ais

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"vessel-tracker/internal/config"
	domainVessel "vessel-tracker/internal/domain/vessel"
)

const sourceAISHub = "aishub"

// AISHubProvider wraps the AISHub web service, the free secondary source.
// No credential is required; the demo username works out of the box.
type AISHubProvider struct {
	baseURL       string
	username      string
	client        *http.Client
	singleTimeout time.Duration
	areaTimeout   time.Duration
	log           *zap.Logger
}

func NewAISHubProvider(cfg config.AISConfig, log *zap.Logger) *AISHubProvider {
	return &AISHubProvider{
		baseURL:       cfg.AISHubURL,
		username:      cfg.AISHubUsername,
		client:        &http.Client{Timeout: cfg.AreaRequestTimeout},
		singleTimeout: cfg.RequestTimeout,
		areaTimeout:   cfg.AreaRequestTimeout,
		log:           log,
	}
}

func (p *AISHubProvider) Name() string { return sourceAISHub }

// aishubEnvelope is the ws.php response wrapper. ERROR is the string
// "False" on success.
type aishubEnvelope struct {
	Error string           `json:"ERROR"`
	Data  []map[string]any `json:"data"`
}

func (p *AISHubProvider) baseParams() url.Values {
	params := url.Values{}
	params.Set("username", p.username)
	params.Set("format", "1")
	params.Set("output", "json")
	params.Set("compress", "0")
	return params
}

func (p *AISHubProvider) FetchVessel(ctx context.Context, mmsi string) (*NormalizedPosition, error) {
	ctx, cancel := context.WithTimeout(ctx, p.singleTimeout)
	defer cancel()

	params := p.baseParams()
	params.Set("mmsi", mmsi)

	var envelope aishubEnvelope
	if err := getJSON(ctx, p.client, p.baseURL, params, nil, &envelope); err != nil {
		p.log.Debug("AISHub lookup failed", zap.String("mmsi", mmsi), zap.Error(err))
		return nil, ErrNoData
	}

	if envelope.Error != "False" || len(envelope.Data) == 0 {
		return nil, ErrNoData
	}

	np := Normalize(envelope.Data[0], sourceAISHub)
	if np == nil {
		return nil, ErrNoData
	}
	if np.MMSI == "" {
		np.MMSI = mmsi
	}

	return np, nil
}

func (p *AISHubProvider) FetchArea(ctx context.Context, box domainVessel.BoundingBox) ([]*NormalizedPosition, error) {
	ctx, cancel := context.WithTimeout(ctx, p.areaTimeout)
	defer cancel()

	params := p.baseParams()
	params.Set("latmin", strconv.FormatFloat(box.MinLat, 'f', -1, 64))
	params.Set("latmax", strconv.FormatFloat(box.MaxLat, 'f', -1, 64))
	params.Set("lonmin", strconv.FormatFloat(box.MinLon, 'f', -1, 64))
	params.Set("lonmax", strconv.FormatFloat(box.MaxLon, 'f', -1, 64))

	var envelope aishubEnvelope
	if err := getJSON(ctx, p.client, p.baseURL, params, nil, &envelope); err != nil {
		p.log.Warn("AISHub area query failed", zap.Error(err))
		return nil, ErrNoData
	}

	if envelope.Error != "False" {
		return nil, ErrNoData
	}

	var results []*NormalizedPosition
	for _, raw := range envelope.Data {
		np := Normalize(raw, sourceAISHub)
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
