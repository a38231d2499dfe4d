package models

import (
	"time"

	"github.com/google/uuid"
)

// VesselModel represents the database model for vessels.
type VesselModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	MMSI      string    `gorm:"type:varchar(9);not null;uniqueIndex"`
	IMONumber *string   `gorm:"column:imo_number;type:varchar(7);uniqueIndex"`
	Name      string    `gorm:"type:varchar(100);not null;index"`
	CallSign  *string   `gorm:"type:varchar(10)"`

	VesselType    string   `gorm:"type:varchar(50);not null;default:'cargo'"`
	FlagCountry   string   `gorm:"type:varchar(2);not null"`
	BuiltYear     *int     `gorm:"type:integer"`
	GrossTonnage  *int     `gorm:"type:integer"`
	LengthOverall *float64 `gorm:"type:decimal(8,2)"`
	Beam          *float64 `gorm:"type:decimal(8,2)"`
	Draft         *float64 `gorm:"type:decimal(5,2)"`

	Status           string   `gorm:"type:varchar(50);not null;default:'underway'"`
	Latitude         *float64 `gorm:"type:decimal(10,7);index:idx_vessels_coords"`
	Longitude        *float64 `gorm:"type:decimal(10,7);index:idx_vessels_coords"`
	SpeedOverGround  *float64 `gorm:"type:decimal(5,2)"`
	CourseOverGround *float64 `gorm:"type:decimal(5,2)"`
	Heading          *int     `gorm:"type:integer"`
	Destination      *string  `gorm:"type:varchar(100)"`
	ETA              *time.Time

	LastPositionUpdate *time.Time `gorm:"index"`
	DataSource         string     `gorm:"type:varchar(50);not null;default:'manual'"`
	AISUpdateFrequency int        `gorm:"column:ais_update_frequency;not null;default:60"`
	IsTracked          bool       `gorm:"not null;default:true;index"`
	IsDeleted          bool       `gorm:"not null;default:false;index"`
	CreatedAt          time.Time  `gorm:"not null"`
	UpdatedAt          time.Time  `gorm:"not null"`
}

func (VesselModel) TableName() string {
	return "vessels"
}
