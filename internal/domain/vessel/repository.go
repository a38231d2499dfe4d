package vessel

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// BoundingBox is a geographic rectangle for area queries.
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// Valid reports whether the box describes a real rectangle on the globe.
func (b BoundingBox) Valid() bool {
	return b.MinLat >= -90 && b.MaxLat <= 90 &&
		b.MinLon >= -180 && b.MaxLon <= 180 &&
		b.MinLat <= b.MaxLat && b.MinLon <= b.MaxLon
}

// Contains reports whether the point lies inside the box.
func (b BoundingBox) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// CurrentState is the mutable slice of a vessel overwritten on each update.
type CurrentState struct {
	Status           NavStatus
	Latitude         float64
	Longitude        float64
	SpeedOverGround  float64
	CourseOverGround float64
	Heading          *int
	Destination      string
	ETA              *time.Time
	DataSource       string
}

// Repository defines vessel persistence operations.
type Repository interface {
	Create(ctx context.Context, v *Vessel) error
	GetByID(ctx context.Context, id uuid.UUID) (*Vessel, error)
	GetByMMSI(ctx context.Context, mmsi string) (*Vessel, error)
	Update(ctx context.Context, v *Vessel) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter *Filter) ([]*Vessel, int64, error)
	ListTracked(ctx context.Context) ([]*Vessel, error)
	ListInArea(ctx context.Context, box BoundingBox) ([]*Vessel, error)
	ListStale(ctx context.Context, olderThan time.Time) ([]*Vessel, error)
	FleetStatistics(ctx context.Context) (*FleetStatistics, error)
	SpeedAnalytics(ctx context.Context) (*SpeedAnalytics, error)
	FleetOverview(ctx context.Context) (*FleetOverview, error)
	DestinationAnalytics(ctx context.Context) (*DestinationAnalytics, error)

	// ApplyPosition atomically overwrites the vessel's current state and
	// appends a history row. When requireNewer is set and the record's AIS
	// timestamp is older than the vessel's last_position_update, the
	// current-state overwrite is skipped but the history row is still
	// appended; the returned flag reports whether current state changed.
	ApplyPosition(ctx context.Context, vesselID uuid.UUID, state CurrentState, pos *Position, requireNewer bool) (bool, error)
}

// PositionRepository defines operations on the append-only track ledger.
type PositionRepository interface {
	Append(ctx context.Context, p *Position) error
	ListForVessel(ctx context.Context, vesselID uuid.UUID, start, end *time.Time) ([]*Position, error)
	CountForVessel(ctx context.Context, vesselID uuid.UUID) (int64, error)
	StatsForVessel(ctx context.Context, vesselID uuid.UUID, since time.Time) (*TrackStats, error)
	CountBetween(ctx context.Context, start, end time.Time) (int64, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Filter represents search options for listing vessels.
type Filter struct {
	Query       string // matches name, MMSI or IMO
	Type        *Type
	Status      *NavStatus
	FlagCountry string
	IsTracked   *bool
	MinSpeed    *float64
	MaxSpeed    *float64
	Box         *BoundingBox
	Page        int
	PageSize    int
	SortBy      string
	SortOrder   string
}

// FleetStatistics aggregates counts across the non-deleted fleet.
type FleetStatistics struct {
	TotalVessels   int64
	TrackedVessels int64
	ByType         []GroupCount
	ByStatus       []GroupCount
}

type GroupCount struct {
	Label string
	Count int64
}

// TrackStats summarizes a vessel's recent track.
type TrackStats struct {
	AverageSpeed  float64
	PositionCount int64
}

// SpeedAnalytics summarizes current speeds across the fleet. The
// distribution buckets speeds into fixed knot ranges.
type SpeedAnalytics struct {
	AverageSpeed float64
	MaxSpeed     float64
	MinSpeed     float64
	Distribution []GroupCount
}

// FleetOverview aggregates static hull attributes across the fleet.
type FleetOverview struct {
	AgeDistribution []GroupCount
	TotalTonnage    int64
	AverageTonnage  float64
	BuiltYearKnown  int64
}

// DestinationAnalytics counts reported destinations across the fleet.
type DestinationAnalytics struct {
	WithDestination    int64
	WithoutDestination int64
	TopDestinations    []GroupCount
}
