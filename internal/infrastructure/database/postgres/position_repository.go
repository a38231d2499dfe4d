package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	domainVessel "vessel-tracker/internal/domain/vessel"
	"vessel-tracker/internal/infrastructure/database/postgres/models"
)

// PositionRepository implements vessel.PositionRepository on GORM.
type PositionRepository struct {
	db *DB
}

func NewPositionRepository(db *DB) domainVessel.PositionRepository {
	return &PositionRepository{db: db}
}

func (r *PositionRepository) Append(ctx context.Context, p *domainVessel.Position) error {
	p.ID = uuid.New()
	if p.ReceivedAt.IsZero() {
		p.ReceivedAt = time.Now()
	}

	if err := r.db.DB.WithContext(ctx).Create(toPositionModel(p)).Error; err != nil {
		return fmt.Errorf("failed to append position: %w", err)
	}
	return nil
}

func (r *PositionRepository) ListForVessel(ctx context.Context, vesselID uuid.UUID, start, end *time.Time) ([]*domainVessel.Position, error) {
	db := r.db.DB.WithContext(ctx).
		Where("vessel_id = ?", vesselID)

	if start != nil {
		db = db.Where("timestamp >= ?", *start)
	}
	if end != nil {
		db = db.Where("timestamp <= ?", *end)
	}

	var dbModels []models.PositionModel
	if err := db.Order("timestamp ASC").Find(&dbModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}

	positions := make([]*domainVessel.Position, len(dbModels))
	for i := range dbModels {
		positions[i] = toPositionEntity(&dbModels[i])
	}
	return positions, nil
}

func (r *PositionRepository) CountForVessel(ctx context.Context, vesselID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.DB.WithContext(ctx).
		Model(&models.PositionModel{}).
		Where("vessel_id = ?", vesselID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count positions: %w", err)
	}
	return count, nil
}

func (r *PositionRepository) StatsForVessel(ctx context.Context, vesselID uuid.UUID, since time.Time) (*domainVessel.TrackStats, error) {
	var row struct {
		AvgSpeed *float64
		Count    int64
	}

	err := r.db.DB.WithContext(ctx).
		Model(&models.PositionModel{}).
		Select("AVG(speed_over_ground) AS avg_speed, COUNT(*) AS count").
		Where("vessel_id = ? AND timestamp >= ?", vesselID, since).
		Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute track stats: %w", err)
	}

	stats := &domainVessel.TrackStats{PositionCount: row.Count}
	if row.AvgSpeed != nil {
		stats.AverageSpeed = *row.AvgSpeed
	}
	return stats, nil
}

// CountBetween counts history rows with an AIS timestamp in [start, end).
func (r *PositionRepository) CountBetween(ctx context.Context, start, end time.Time) (int64, error) {
	var count int64
	err := r.db.DB.WithContext(ctx).Model(&models.PositionModel{}).
		Where("timestamp >= ? AND timestamp < ?", start, end).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count positions: %w", err)
	}
	return count, nil
}

func (r *PositionRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.DB.WithContext(ctx).
		Where("timestamp < ?", cutoff).
		Delete(&models.PositionModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge old positions: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func toPositionModel(p *domainVessel.Position) *models.PositionModel {
	return &models.PositionModel{
		ID:                 p.ID,
		VesselID:           p.VesselID,
		Latitude:           p.Latitude,
		Longitude:          p.Longitude,
		SpeedOverGround:    p.SpeedOverGround,
		CourseOverGround:   p.CourseOverGround,
		Heading:            p.Heading,
		NavigationalStatus: p.NavigationalStatus,
		Timestamp:          p.Timestamp,
		ReceivedAt:         p.ReceivedAt,
		DataSource:         p.DataSource,
	}
}

func toPositionEntity(m *models.PositionModel) *domainVessel.Position {
	return &domainVessel.Position{
		ID:                 m.ID,
		VesselID:           m.VesselID,
		Latitude:           m.Latitude,
		Longitude:          m.Longitude,
		SpeedOverGround:    m.SpeedOverGround,
		CourseOverGround:   m.CourseOverGround,
		Heading:            m.Heading,
		NavigationalStatus: m.NavigationalStatus,
		Timestamp:          m.Timestamp,
		ReceivedAt:         m.ReceivedAt,
		DataSource:         m.DataSource,
	}
}
