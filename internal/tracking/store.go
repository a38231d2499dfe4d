package tracking

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"vessel-tracker/internal/ais"
	domainVessel "vessel-tracker/internal/domain/vessel"
)

// Store owns the current-position projection and the append-only history
// ledger. Every normalized record flows through ApplyPosition, which keeps
// the two in step inside one transaction.
type Store struct {
	vessels   domainVessel.Repository
	positions domainVessel.PositionRepository
	publisher *Publisher

	// requireNewer guards current state against out-of-order records: a
	// record whose AIS timestamp predates the vessel's last update only
	// lands in history.
	requireNewer bool

	log *zap.Logger
}

func NewStore(vessels domainVessel.Repository, positions domainVessel.PositionRepository, publisher *Publisher, requireNewer bool, log *zap.Logger) *Store {
	return &Store{
		vessels:      vessels,
		positions:    positions,
		publisher:    publisher,
		requireNewer: requireNewer,
		log:          log,
	}
}

// ApplyPosition overwrites the vessel's current state and appends one
// history row as a single unit. The returned position is the appended row.
func (s *Store) ApplyPosition(ctx context.Context, v *domainVessel.Vessel, np *ais.NormalizedPosition) (*domainVessel.Position, error) {
	if np == nil {
		return nil, fmt.Errorf("no position data for vessel %s", v.MMSI)
	}

	state := domainVessel.CurrentState{
		Status:           np.NavStatus,
		Latitude:         np.Latitude,
		Longitude:        np.Longitude,
		SpeedOverGround:  np.SpeedOverGround,
		CourseOverGround: np.CourseOverGround,
		Heading:          np.Heading,
		Destination:      np.Destination,
		ETA:              parseETA(np.ETA),
		DataSource:       np.DataSource,
	}

	pos := &domainVessel.Position{
		Latitude:           np.Latitude,
		Longitude:          np.Longitude,
		SpeedOverGround:    &np.SpeedOverGround,
		CourseOverGround:   &np.CourseOverGround,
		Heading:            np.Heading,
		NavigationalStatus: string(np.NavStatus),
		Timestamp:          np.Timestamp,
		ReceivedAt:         time.Now(),
		DataSource:         np.DataSource,
	}

	applied, err := s.vessels.ApplyPosition(ctx, v.ID, state, pos, s.requireNewer)
	if err != nil {
		return nil, err
	}

	if !applied {
		s.log.Debug("stale record kept out of current state",
			zap.String("mmsi", v.MMSI),
			zap.Time("record_time", np.Timestamp),
		)
	} else {
		s.publisher.PublishPosition(v.MMSI, pos)
	}

	s.log.Info("position applied",
		zap.String("mmsi", v.MMSI),
		zap.String("vessel", v.Name),
		zap.String("source", np.DataSource),
		zap.Bool("current_state_updated", applied),
	)

	return pos, nil
}

// BulkItem pairs an MMSI with its incoming normalized record.
type BulkItem struct {
	MMSI     string
	Position *ais.NormalizedPosition
}

// BulkResult reports per-item outcomes of a bulk apply. Partial success is
// the expected outcome, not a failure.
type BulkResult struct {
	UpdatedCount int
	Errors       []string
}

// BulkApply looks up each vessel by MMSI and applies its record. An unknown
// MMSI or a single failed apply never aborts the batch.
func (s *Store) BulkApply(ctx context.Context, items []BulkItem) BulkResult {
	result := BulkResult{}

	for _, item := range items {
		v, err := s.vessels.GetByMMSI(ctx, item.MMSI)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("vessel with MMSI %s not found", item.MMSI))
			continue
		}

		if _, err := s.ApplyPosition(ctx, v, item.Position); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("error updating %s: %v", item.MMSI, err))
			continue
		}

		result.UpdatedCount++
	}

	s.log.Info("bulk position update completed",
		zap.Int("updated", result.UpdatedCount),
		zap.Int("errors", len(result.Errors)),
	)

	return result
}

// parseETA turns the free-form ETA string providers send into a timestamp,
// or nil when it does not parse.
func parseETA(value string) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "01-02 15:04"} {
		if ts, err := time.Parse(layout, value); err == nil {
			return &ts
		}
	}
	return nil
}
