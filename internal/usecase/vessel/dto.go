package vessel

import (
	"time"

	"github.com/google/uuid"

	domainVessel "vessel-tracker/internal/domain/vessel"
)

type CreateVesselRequest struct {
	MMSI        string  `json:"mmsi" validate:"required,len=9,numeric"`
	IMONumber   *string `json:"imo_number" validate:"omitempty,len=7,numeric"`
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	CallSign    *string `json:"call_sign" validate:"omitempty,max=10"`
	Type        string  `json:"vessel_type" validate:"omitempty,oneof=cargo tanker passenger fishing tug military sailing other"`
	FlagCountry string  `json:"flag_country" validate:"required,len=2,alpha"`

	BuiltYear     *int     `json:"built_year" validate:"omitempty,min=1900,max=2100"`
	GrossTonnage  *int     `json:"gross_tonnage" validate:"omitempty,min=0"`
	LengthOverall *float64 `json:"length_overall" validate:"omitempty,min=0"`
	Beam          *float64 `json:"beam" validate:"omitempty,min=0"`
	Draft         *float64 `json:"draft" validate:"omitempty,min=0"`

	Destination        *string `json:"destination" validate:"omitempty,max=100"`
	AISUpdateFrequency *int    `json:"ais_update_frequency" validate:"omitempty,min=1,max=3600"`
	IsTracked          *bool   `json:"is_tracked"`
}

type UpdateVesselRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	CallSign    *string `json:"call_sign" validate:"omitempty,max=10"`
	Type        *string `json:"vessel_type" validate:"omitempty,oneof=cargo tanker passenger fishing tug military sailing other"`
	FlagCountry *string `json:"flag_country" validate:"omitempty,len=2,alpha"`

	BuiltYear     *int     `json:"built_year" validate:"omitempty,min=1900,max=2100"`
	GrossTonnage  *int     `json:"gross_tonnage" validate:"omitempty,min=0"`
	LengthOverall *float64 `json:"length_overall" validate:"omitempty,min=0"`
	Beam          *float64 `json:"beam" validate:"omitempty,min=0"`
	Draft         *float64 `json:"draft" validate:"omitempty,min=0"`

	Destination        *string `json:"destination" validate:"omitempty,max=100"`
	AISUpdateFrequency *int    `json:"ais_update_frequency" validate:"omitempty,min=1,max=3600"`
	IsTracked          *bool   `json:"is_tracked"`
}

type VesselFilterRequest struct {
	Query       string   `form:"q"`
	Type        *string  `form:"vessel_type" validate:"omitempty,oneof=cargo tanker passenger fishing tug military sailing other"`
	Status      *string  `form:"status" validate:"omitempty,oneof=underway at_anchor not_under_command restricted_maneuverability moored aground fishing under_sail"`
	FlagCountry string   `form:"flag_country" validate:"omitempty,len=2,alpha"`
	IsTracked   *bool    `form:"is_tracked"`
	MinSpeed    *float64 `form:"min_speed" validate:"omitempty,min=0"`
	MaxSpeed    *float64 `form:"max_speed" validate:"omitempty,min=0"`

	MinLat *float64 `form:"min_lat" validate:"omitempty,min=-90,max=90"`
	MaxLat *float64 `form:"max_lat" validate:"omitempty,min=-90,max=90"`
	MinLon *float64 `form:"min_lon" validate:"omitempty,min=-180,max=180"`
	MaxLon *float64 `form:"max_lon" validate:"omitempty,min=-180,max=180"`

	Page      int    `form:"page" validate:"omitempty,min=1"`
	PageSize  int    `form:"page_size" validate:"omitempty,min=1,max=100"`
	SortBy    string `form:"sort_by" validate:"omitempty,oneof=name mmsi created_at updated_at last_position_update speed_over_ground"`
	SortOrder string `form:"sort_order" validate:"omitempty,oneof=asc desc"`
}

type AreaRequest struct {
	MinLat float64 `form:"min_lat" validate:"min=-90,max=90"`
	MaxLat float64 `form:"max_lat" validate:"min=-90,max=90"`
	MinLon float64 `form:"min_lon" validate:"min=-180,max=180"`
	MaxLon float64 `form:"max_lon" validate:"min=-180,max=180"`
}

type TrackRequest struct {
	StartTime *time.Time `form:"start_time" time_format:"2006-01-02T15:04:05Z07:00"`
	EndTime   *time.Time `form:"end_time" time_format:"2006-01-02T15:04:05Z07:00"`
}

type BulkPositionUpdateRequest struct {
	Updates []BulkPositionItem `json:"updates" validate:"required,min=1,max=500,dive"`
}

type BulkPositionItem struct {
	MMSI             string   `json:"mmsi" validate:"required,len=9,numeric"`
	Latitude         float64  `json:"latitude" validate:"min=-90,max=90"`
	Longitude        float64  `json:"longitude" validate:"min=-180,max=180"`
	SpeedOverGround  *float64 `json:"speed_over_ground" validate:"omitempty,min=0"`
	CourseOverGround *float64 `json:"course_over_ground" validate:"omitempty,min=0,max=360"`
	Heading          *int     `json:"heading" validate:"omitempty,min=0,max=359"`
	Status           *string  `json:"navigational_status" validate:"omitempty,oneof=underway at_anchor not_under_command restricted_maneuverability moored aground fishing under_sail"`
	Timestamp        *string  `json:"timestamp"`
}

// PositionUpdateRequest is a manually reported fix for a single vessel.
type PositionUpdateRequest struct {
	Latitude         float64  `json:"latitude" validate:"min=-90,max=90"`
	Longitude        float64  `json:"longitude" validate:"min=-180,max=180"`
	SpeedOverGround  *float64 `json:"speed_over_ground" validate:"omitempty,min=0"`
	CourseOverGround *float64 `json:"course_over_ground" validate:"omitempty,min=0,max=360"`
	Heading          *int     `json:"heading" validate:"omitempty,min=0,max=359"`
	Status           *string  `json:"navigational_status" validate:"omitempty,oneof=underway at_anchor not_under_command restricted_maneuverability moored aground fishing under_sail"`
	Timestamp        *string  `json:"timestamp"`
}

type DistanceRequest struct {
	Lat1 float64 `form:"lat1" validate:"min=-90,max=90"`
	Lon1 float64 `form:"lon1" validate:"min=-180,max=180"`
	Lat2 float64 `form:"lat2" validate:"min=-90,max=90"`
	Lon2 float64 `form:"lon2" validate:"min=-180,max=180"`
}

type VesselResponse struct {
	ID          uuid.UUID `json:"id"`
	MMSI        string    `json:"mmsi"`
	IMONumber   *string   `json:"imo_number"`
	Name        string    `json:"name"`
	CallSign    *string   `json:"call_sign"`
	Type        string    `json:"vessel_type"`
	FlagCountry string    `json:"flag_country"`

	BuiltYear     *int     `json:"built_year,omitempty"`
	GrossTonnage  *int     `json:"gross_tonnage,omitempty"`
	LengthOverall *float64 `json:"length_overall,omitempty"`
	Beam          *float64 `json:"beam,omitempty"`
	Draft         *float64 `json:"draft,omitempty"`

	Status           string     `json:"status"`
	Latitude         *float64   `json:"latitude"`
	Longitude        *float64   `json:"longitude"`
	SpeedOverGround  *float64   `json:"speed_over_ground"`
	CourseOverGround *float64   `json:"course_over_ground"`
	Heading          *int       `json:"heading"`
	Destination      *string    `json:"destination"`
	ETA              *time.Time `json:"eta"`

	LastPositionUpdate *time.Time `json:"last_position_update"`
	DataSource         string     `json:"data_source"`
	AISUpdateFrequency int        `json:"ais_update_frequency"`
	IsTracked          bool       `json:"is_tracked"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

type VesselListResponse struct {
	Vessels    []VesselResponse `json:"vessels"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}

type PositionResponse struct {
	Latitude           float64   `json:"latitude"`
	Longitude          float64   `json:"longitude"`
	SpeedOverGround    *float64  `json:"speed_over_ground"`
	CourseOverGround   *float64  `json:"course_over_ground"`
	Heading            *int      `json:"heading"`
	NavigationalStatus string    `json:"navigational_status"`
	Timestamp          time.Time `json:"timestamp"`
	ReceivedAt         time.Time `json:"received_at"`
	DataSource         string    `json:"data_source"`
}

type TrackResponse struct {
	VesselID     uuid.UUID          `json:"vessel_id"`
	MMSI         string             `json:"mmsi"`
	Positions    []PositionResponse `json:"positions"`
	Count        int                `json:"count"`
	StartTime    *time.Time         `json:"start_time"`
	EndTime      *time.Time         `json:"end_time"`
	AverageSpeed float64            `json:"average_speed"`
}

type AreaVesselResponse struct {
	MMSI             string       `json:"mmsi"`
	Name             string       `json:"name"`
	Type             string       `json:"vessel_type"`
	Latitude         float64      `json:"latitude"`
	Longitude        float64      `json:"longitude"`
	SpeedOverGround  float64      `json:"speed_over_ground"`
	CourseOverGround float64      `json:"course_over_ground"`
	Heading          *int         `json:"heading"`
	Status           string       `json:"navigational_status"`
	Destination      string       `json:"destination,omitempty"`
	Timestamp        time.Time    `json:"timestamp"`
	DataSource       string       `json:"data_source"`
	Weather          *WeatherInfo `json:"weather,omitempty"`
}

type WeatherInfo struct {
	WaveHeight       float64 `json:"wave_height"`
	WaveDirection    float64 `json:"wave_direction"`
	WindSpeed        float64 `json:"wind_speed"`
	WindDirection    float64 `json:"wind_direction"`
	AirTemperature   float64 `json:"air_temperature"`
	WaterTemperature float64 `json:"water_temperature"`
}

type AreaResponse struct {
	Vessels []AreaVesselResponse `json:"vessels"`
	Count   int                  `json:"count"`
}

type BulkPositionUpdateResponse struct {
	UpdatedCount int      `json:"updated_count"`
	Errors       []string `json:"errors,omitempty"`
}

type FleetStatisticsResponse struct {
	TotalVessels   int64            `json:"total_vessels"`
	TrackedVessels int64            `json:"tracked_vessels"`
	ByType         map[string]int64 `json:"by_type"`
	ByStatus       map[string]int64 `json:"by_status"`
}

// AnalyticsResponse is the combined fleet analytics report.
type AnalyticsResponse struct {
	VesselStatistics     *FleetStatisticsResponse      `json:"vessel_statistics"`
	SpeedAnalytics       *SpeedAnalyticsResponse       `json:"speed_analytics"`
	ActivityTimeline     []ActivityDayResponse         `json:"activity_timeline"`
	FleetOverview        *FleetOverviewResponse        `json:"fleet_overview"`
	DestinationAnalytics *DestinationAnalyticsResponse `json:"destination_analytics"`
}

type SpeedAnalyticsResponse struct {
	AverageSpeed      float64      `json:"average_speed"`
	MaxSpeed          float64      `json:"max_speed"`
	MinSpeed          float64      `json:"min_speed"`
	SpeedDistribution []RangeCount `json:"speed_distribution"`
}

type RangeCount struct {
	Range string `json:"range"`
	Count int64  `json:"count"`
}

type ActivityDayResponse struct {
	Date    string `json:"date"`
	Updates int64  `json:"updates"`
}

type FleetOverviewResponse struct {
	AgeDistribution []CategoryCount `json:"age_distribution"`
	TotalTonnage    int64           `json:"total_tonnage"`
	AverageTonnage  float64         `json:"average_tonnage"`
	BuiltYearKnown  int64           `json:"total_built_year_known"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

type DestinationAnalyticsResponse struct {
	WithDestination    int64              `json:"total_with_destination"`
	WithoutDestination int64              `json:"total_without_destination"`
	TopDestinations    []DestinationCount `json:"top_destinations"`
}

type DestinationCount struct {
	Destination string `json:"destination"`
	Count       int64  `json:"count"`
}

type VesselStatisticsResponse struct {
	VesselID      uuid.UUID `json:"vessel_id"`
	MMSI          string    `json:"mmsi"`
	Days          int       `json:"days"`
	AverageSpeed  float64   `json:"average_speed"`
	PositionCount int64     `json:"position_count"`
}

type DistanceResponse struct {
	DistanceNm float64 `json:"distance_nm"`
}

func ToVesselResponse(v *domainVessel.Vessel) *VesselResponse {
	if v == nil {
		return nil
	}
	return &VesselResponse{
		ID:                 v.ID,
		MMSI:               v.MMSI,
		IMONumber:          v.IMONumber,
		Name:               v.Name,
		CallSign:           v.CallSign,
		Type:               string(v.Type),
		FlagCountry:        v.FlagCountry,
		BuiltYear:          v.BuiltYear,
		GrossTonnage:       v.GrossTonnage,
		LengthOverall:      v.LengthOverall,
		Beam:               v.Beam,
		Draft:              v.Draft,
		Status:             string(v.Status),
		Latitude:           v.Latitude,
		Longitude:          v.Longitude,
		SpeedOverGround:    v.SpeedOverGround,
		CourseOverGround:   v.CourseOverGround,
		Heading:            v.Heading,
		Destination:        v.Destination,
		ETA:                v.ETA,
		LastPositionUpdate: v.LastPositionUpdate,
		DataSource:         v.DataSource,
		AISUpdateFrequency: v.AISUpdateFrequency,
		IsTracked:          v.IsTracked,
		CreatedAt:          v.CreatedAt,
		UpdatedAt:          v.UpdatedAt,
	}
}

func ToPositionResponse(p *domainVessel.Position) PositionResponse {
	return PositionResponse{
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

func ToDomainFilter(req *VesselFilterRequest) *domainVessel.Filter {
	if req == nil {
		return &domainVessel.Filter{}
	}

	filter := &domainVessel.Filter{
		Query:       req.Query,
		FlagCountry: req.FlagCountry,
		IsTracked:   req.IsTracked,
		MinSpeed:    req.MinSpeed,
		MaxSpeed:    req.MaxSpeed,
		Page:        req.Page,
		PageSize:    req.PageSize,
		SortBy:      req.SortBy,
		SortOrder:   req.SortOrder,
	}

	if req.Type != nil {
		t := domainVessel.Type(*req.Type)
		filter.Type = &t
	}
	if req.Status != nil {
		s := domainVessel.NavStatus(*req.Status)
		filter.Status = &s
	}
	if req.MinLat != nil && req.MaxLat != nil && req.MinLon != nil && req.MaxLon != nil {
		filter.Box = &domainVessel.BoundingBox{
			MinLat: *req.MinLat,
			MaxLat: *req.MaxLat,
			MinLon: *req.MinLon,
			MaxLon: *req.MaxLon,
		}
	}

	return filter
}

func ToFleetStatisticsResponse(s *domainVessel.FleetStatistics) *FleetStatisticsResponse {
	if s == nil {
		return nil
	}

	byType := make(map[string]int64, len(s.ByType))
	for _, g := range s.ByType {
		byType[g.Label] = g.Count
	}
	byStatus := make(map[string]int64, len(s.ByStatus))
	for _, g := range s.ByStatus {
		byStatus[g.Label] = g.Count
	}

	return &FleetStatisticsResponse{
		TotalVessels:   s.TotalVessels,
		TrackedVessels: s.TrackedVessels,
		ByType:         byType,
		ByStatus:       byStatus,
	}
}

func toSpeedAnalyticsResponse(s *domainVessel.SpeedAnalytics) *SpeedAnalyticsResponse {
	if s == nil {
		return nil
	}

	resp := &SpeedAnalyticsResponse{
		AverageSpeed: s.AverageSpeed,
		MaxSpeed:     s.MaxSpeed,
		MinSpeed:     s.MinSpeed,
	}
	for _, g := range s.Distribution {
		resp.SpeedDistribution = append(resp.SpeedDistribution, RangeCount{Range: g.Label, Count: g.Count})
	}
	return resp
}

func toFleetOverviewResponse(o *domainVessel.FleetOverview) *FleetOverviewResponse {
	if o == nil {
		return nil
	}

	resp := &FleetOverviewResponse{
		TotalTonnage:   o.TotalTonnage,
		AverageTonnage: o.AverageTonnage,
		BuiltYearKnown: o.BuiltYearKnown,
	}
	for _, g := range o.AgeDistribution {
		resp.AgeDistribution = append(resp.AgeDistribution, CategoryCount{Category: g.Label, Count: g.Count})
	}
	return resp
}

func toDestinationAnalyticsResponse(d *domainVessel.DestinationAnalytics) *DestinationAnalyticsResponse {
	if d == nil {
		return nil
	}

	resp := &DestinationAnalyticsResponse{
		WithDestination:    d.WithDestination,
		WithoutDestination: d.WithoutDestination,
	}
	for _, g := range d.TopDestinations {
		resp.TopDestinations = append(resp.TopDestinations, DestinationCount{Destination: g.Label, Count: g.Count})
	}
	return resp
}
