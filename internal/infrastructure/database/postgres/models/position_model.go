package models

import (
	"time"

	"github.com/google/uuid"
)

// PositionModel represents one row of the append-only track ledger.
type PositionModel struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	VesselID uuid.UUID `gorm:"type:uuid;not null;index:idx_positions_vessel_time"`

	Latitude         float64  `gorm:"type:decimal(10,7);not null"`
	Longitude        float64  `gorm:"type:decimal(10,7);not null"`
	SpeedOverGround  *float64 `gorm:"type:decimal(5,2)"`
	CourseOverGround *float64 `gorm:"type:decimal(5,2)"`
	Heading          *int     `gorm:"type:integer"`

	NavigationalStatus string `gorm:"type:varchar(50)"`

	Timestamp  time.Time `gorm:"not null;index:idx_positions_vessel_time;index"`
	ReceivedAt time.Time `gorm:"not null"`
	DataSource string    `gorm:"type:varchar(50);not null;default:'ais'"`
}

func (PositionModel) TableName() string {
	return "vessel_positions"
}
