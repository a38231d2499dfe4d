package tracking

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	domainVessel "vessel-tracker/internal/domain/vessel"
	"vessel-tracker/pkg/mqtt"
)

// Publisher pushes tracking events to the MQTT broker. A nil Publisher is
// valid and drops everything, so callers never need to branch on whether
// MQTT is enabled.
type Publisher struct {
	client *mqtt.Client
	log    *zap.Logger
}

func NewPublisher(client *mqtt.Client, log *zap.Logger) *Publisher {
	if client == nil {
		return nil
	}
	return &Publisher{client: client, log: log}
}

type positionEvent struct {
	MMSI               string    `json:"mmsi"`
	Latitude           float64   `json:"latitude"`
	Longitude          float64   `json:"longitude"`
	SpeedOverGround    *float64  `json:"speed_over_ground,omitempty"`
	CourseOverGround   *float64  `json:"course_over_ground,omitempty"`
	Heading            *int      `json:"heading,omitempty"`
	NavigationalStatus string    `json:"navigational_status"`
	Timestamp          time.Time `json:"timestamp"`
	DataSource         string    `json:"data_source"`
}

type staleAlert struct {
	MMSI               string     `json:"mmsi"`
	Name               string     `json:"name"`
	LastPositionUpdate *time.Time `json:"last_position_update"`
	DetectedAt         time.Time  `json:"detected_at"`
}

// PublishPosition emits the applied position on vessels/positions/{mmsi}.
func (p *Publisher) PublishPosition(mmsi string, pos *domainVessel.Position) {
	if p == nil || !p.client.IsConnected() {
		return
	}

	event := positionEvent{
		MMSI:               mmsi,
		Latitude:           pos.Latitude,
		Longitude:          pos.Longitude,
		SpeedOverGround:    pos.SpeedOverGround,
		CourseOverGround:   pos.CourseOverGround,
		Heading:            pos.Heading,
		NavigationalStatus: pos.NavigationalStatus,
		Timestamp:          pos.Timestamp,
		DataSource:         pos.DataSource,
	}

	topic := fmt.Sprintf("vessels/positions/%s", mmsi)
	if err := p.client.PublishJSON(topic, event); err != nil {
		p.log.Warn("failed to publish position event",
			zap.String("topic", topic),
			zap.Error(err),
		)
	}
}

// PublishStaleAlert emits a staleness alert on vessels/alerts/stale.
func (p *Publisher) PublishStaleAlert(v *domainVessel.Vessel) {
	if p == nil || !p.client.IsConnected() {
		return
	}

	alert := staleAlert{
		MMSI:               v.MMSI,
		Name:               v.Name,
		LastPositionUpdate: v.LastPositionUpdate,
		DetectedAt:         time.Now(),
	}

	if err := p.client.PublishJSON("vessels/alerts/stale", alert); err != nil {
		p.log.Warn("failed to publish stale alert",
			zap.String("mmsi", v.MMSI),
			zap.Error(err),
		)
	}
}
