package vessel

import (
	"time"

	"github.com/google/uuid"
)

// Vessel is the canonical identity plus the latest known state of one ship.
// MMSI is the business key; current-state fields are overwritten as a unit
// on every successful position update.
type Vessel struct {
	ID        uuid.UUID
	MMSI      string // 9 digits, unique
	IMONumber *string
	Name      string
	CallSign  *string

	Type          Type
	FlagCountry   string // ISO 3166-1 alpha-2
	BuiltYear     *int
	GrossTonnage  *int
	LengthOverall *float64
	Beam          *float64
	Draft         *float64

	Status           NavStatus
	Latitude         *float64 // decimal degrees, 7-decimal precision
	Longitude        *float64
	SpeedOverGround  *float64 // knots
	CourseOverGround *float64 // degrees 0-359.99
	Heading          *int
	Destination      *string
	ETA              *time.Time

	LastPositionUpdate *time.Time
	DataSource         string
	AISUpdateFrequency int // seconds
	IsTracked          bool
	IsDeleted          bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Position is one immutable point of a vessel's track.
type Position struct {
	ID       uuid.UUID
	VesselID uuid.UUID

	Latitude         float64
	Longitude        float64
	SpeedOverGround  *float64
	CourseOverGround *float64
	Heading          *int

	NavigationalStatus string

	Timestamp  time.Time // AIS-reported time
	ReceivedAt time.Time
	DataSource string
}

type Type string

const (
	TypeCargo     Type = "cargo"
	TypeTanker    Type = "tanker"
	TypePassenger Type = "passenger"
	TypeFishing   Type = "fishing"
	TypeTug       Type = "tug"
	TypeMilitary  Type = "military"
	TypeSailing   Type = "sailing"
	TypeOther     Type = "other"
)

type NavStatus string

const (
	StatusUnderway                  NavStatus = "underway"
	StatusAtAnchor                  NavStatus = "at_anchor"
	StatusNotUnderCommand           NavStatus = "not_under_command"
	StatusRestrictedManeuverability NavStatus = "restricted_maneuverability"
	StatusMoored                    NavStatus = "moored"
	StatusAground                   NavStatus = "aground"
	StatusFishing                   NavStatus = "fishing"
	StatusUnderSail                 NavStatus = "under_sail"
)

// ValidTypes lists every accepted vessel type.
var ValidTypes = []Type{
	TypeCargo, TypeTanker, TypePassenger, TypeFishing,
	TypeTug, TypeMilitary, TypeSailing, TypeOther,
}

// ValidStatuses lists every accepted navigational status.
var ValidStatuses = []NavStatus{
	StatusUnderway, StatusAtAnchor, StatusNotUnderCommand,
	StatusRestrictedManeuverability, StatusMoored, StatusAground,
	StatusFishing, StatusUnderSail,
}

// HasFix reports whether the vessel has a usable current position.
func (v *Vessel) HasFix() bool {
	return v.Latitude != nil && v.Longitude != nil
}
