package vessel

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"vessel-tracker/internal/ais"
	domainVessel "vessel-tracker/internal/domain/vessel"
	"vessel-tracker/internal/geo"
	"vessel-tracker/internal/logger"
	"vessel-tracker/internal/tracking"
	appErrors "vessel-tracker/pkg/errors"
	"vessel-tracker/pkg/utils"
)

// Service implements vessel use cases on top of the repositories, the
// provider aggregator and the reconciliation store.
type Service struct {
	vesselRepo   domainVessel.Repository
	positionRepo domainVessel.PositionRepository
	aggregator   *ais.Aggregator
	store        *tracking.Store
}

func NewService(
	vesselRepo domainVessel.Repository,
	positionRepo domainVessel.PositionRepository,
	aggregator *ais.Aggregator,
	store *tracking.Store,
) *Service {
	return &Service{
		vesselRepo:   vesselRepo,
		positionRepo: positionRepo,
		aggregator:   aggregator,
		store:        store,
	}
}

func (s *Service) CreateVessel(ctx context.Context, req *CreateVesselRequest) (*VesselResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}
	if err := ValidateMMSI(req.MMSI); err != nil {
		return nil, err
	}
	if err := ValidateIMO(req.IMONumber); err != nil {
		return nil, err
	}

	existing, _ := s.vesselRepo.GetByMMSI(ctx, req.MMSI)
	if existing != nil {
		return nil, appErrors.NewAppError("VESSEL_EXISTS", "Vessel with this MMSI already exists", nil)
	}

	vesselType := domainVessel.TypeCargo
	if req.Type != "" {
		vesselType = domainVessel.Type(req.Type)
	}

	vessel := &domainVessel.Vessel{
		MMSI:               req.MMSI,
		IMONumber:          req.IMONumber,
		Name:               req.Name,
		CallSign:           req.CallSign,
		Type:               vesselType,
		FlagCountry:        req.FlagCountry,
		BuiltYear:          req.BuiltYear,
		GrossTonnage:       req.GrossTonnage,
		LengthOverall:      req.LengthOverall,
		Beam:               req.Beam,
		Draft:              req.Draft,
		Status:             domainVessel.StatusUnderway,
		Destination:        req.Destination,
		DataSource:         "manual",
		AISUpdateFrequency: 60,
		IsTracked:          true,
	}
	if req.AISUpdateFrequency != nil {
		vessel.AISUpdateFrequency = *req.AISUpdateFrequency
	}
	if req.IsTracked != nil {
		vessel.IsTracked = *req.IsTracked
	}

	if err := s.vesselRepo.Create(ctx, vessel); err != nil {
		if errors.Is(err, domainVessel.ErrVesselAlreadyExists) {
			return nil, appErrors.NewAppError("VESSEL_EXISTS", "Vessel with this MMSI or IMO already exists", err)
		}
		return nil, err
	}

	logger.Info("Vessel created",
		zap.String("vessel_id", vessel.ID.String()),
		zap.String("mmsi", vessel.MMSI),
		zap.String("event", "vessel_created"),
	)

	return ToVesselResponse(vessel), nil
}

func (s *Service) GetVessel(ctx context.Context, id uuid.UUID) (*VesselResponse, error) {
	vessel, err := s.getVessel(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToVesselResponse(vessel), nil
}

func (s *Service) GetVesselByMMSI(ctx context.Context, mmsi string) (*VesselResponse, error) {
	if err := ValidateMMSI(mmsi); err != nil {
		return nil, err
	}

	vessel, err := s.vesselRepo.GetByMMSI(ctx, mmsi)
	if err != nil {
		if errors.Is(err, domainVessel.ErrVesselNotFound) {
			return nil, appErrors.NewAppError("VESSEL_NOT_FOUND", "Vessel not found", err)
		}
		return nil, err
	}
	return ToVesselResponse(vessel), nil
}

func (s *Service) UpdateVessel(ctx context.Context, id uuid.UUID, req *UpdateVesselRequest) (*VesselResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	vessel, err := s.getVessel(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		vessel.Name = *req.Name
	}
	if req.CallSign != nil {
		vessel.CallSign = req.CallSign
	}
	if req.Type != nil {
		vessel.Type = domainVessel.Type(*req.Type)
	}
	if req.FlagCountry != nil {
		vessel.FlagCountry = *req.FlagCountry
	}
	if req.BuiltYear != nil {
		vessel.BuiltYear = req.BuiltYear
	}
	if req.GrossTonnage != nil {
		vessel.GrossTonnage = req.GrossTonnage
	}
	if req.LengthOverall != nil {
		vessel.LengthOverall = req.LengthOverall
	}
	if req.Beam != nil {
		vessel.Beam = req.Beam
	}
	if req.Draft != nil {
		vessel.Draft = req.Draft
	}
	if req.Destination != nil {
		vessel.Destination = req.Destination
	}
	if req.AISUpdateFrequency != nil {
		vessel.AISUpdateFrequency = *req.AISUpdateFrequency
	}
	if req.IsTracked != nil {
		vessel.IsTracked = *req.IsTracked
	}

	if err := s.vesselRepo.Update(ctx, vessel); err != nil {
		return nil, err
	}

	logger.Info("Vessel updated",
		zap.String("vessel_id", vessel.ID.String()),
		zap.String("mmsi", vessel.MMSI),
		zap.String("event", "vessel_updated"),
	)

	return ToVesselResponse(vessel), nil
}

func (s *Service) DeleteVessel(ctx context.Context, id uuid.UUID) error {
	if err := s.vesselRepo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, domainVessel.ErrVesselNotFound) {
			return appErrors.NewAppError("VESSEL_NOT_FOUND", "Vessel not found", err)
		}
		return err
	}

	logger.Info("Vessel deleted",
		zap.String("vessel_id", id.String()),
		zap.String("event", "vessel_deleted"),
	)
	return nil
}

func (s *Service) ListVessels(ctx context.Context, req *VesselFilterRequest) (*VesselListResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid filter", err)
	}

	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	filter := ToDomainFilter(req)
	if filter.Box != nil && !filter.Box.Valid() {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid bounding box coordinates", appErrors.ErrInvalidBBox)
	}

	vessels, total, err := s.vesselRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]VesselResponse, len(vessels))
	for i, v := range vessels {
		responses[i] = *ToVesselResponse(v)
	}

	totalPages := int(total) / req.PageSize
	if int(total)%req.PageSize > 0 {
		totalPages++
	}

	return &VesselListResponse{
		Vessels:    responses,
		Total:      total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: totalPages,
	}, nil
}

// GetTrack returns the vessel's historical positions ordered oldest first,
// optionally bounded by a time window.
func (s *Service) GetTrack(ctx context.Context, id uuid.UUID, req *TrackRequest) (*TrackResponse, error) {
	vessel, err := s.getVessel(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.StartTime != nil && req.EndTime != nil && req.EndTime.Before(*req.StartTime) {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "end_time must not precede start_time", nil)
	}

	positions, err := s.positionRepo.ListForVessel(ctx, vessel.ID, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	responses := make([]PositionResponse, len(positions))
	var speedSum float64
	var speedCount int
	for i, p := range positions {
		responses[i] = ToPositionResponse(p)
		if p.SpeedOverGround != nil {
			speedSum += *p.SpeedOverGround
			speedCount++
		}
	}

	resp := &TrackResponse{
		VesselID:  vessel.ID,
		MMSI:      vessel.MMSI,
		Positions: responses,
		Count:     len(responses),
	}
	if len(positions) > 0 {
		// Positions come back ordered by AIS timestamp.
		resp.StartTime = &positions[0].Timestamp
		resp.EndTime = &positions[len(positions)-1].Timestamp
	}
	if speedCount > 0 {
		resp.AverageSpeed = math.Round(speedSum/float64(speedCount)*100) / 100
	}

	return resp, nil
}

// VesselsInArea resolves all vessels inside the bounding box, merging the
// local store with every area-capable provider.
func (s *Service) VesselsInArea(ctx context.Context, req *AreaRequest) (*AreaResponse, error) {
	box := domainVessel.BoundingBox{
		MinLat: req.MinLat,
		MaxLat: req.MaxLat,
		MinLon: req.MinLon,
		MaxLon: req.MaxLon,
	}
	if err := ValidateBoundingBox(box); err != nil {
		return nil, err
	}

	records := s.aggregator.ResolveArea(ctx, box)

	vessels := make([]AreaVesselResponse, len(records))
	for i, np := range records {
		vessels[i] = toAreaVesselResponse(np)
	}

	return &AreaResponse{Vessels: vessels, Count: len(vessels)}, nil
}

// RefreshPosition resolves the vessel's position on demand and applies it
// through the reconciliation store.
func (s *Service) RefreshPosition(ctx context.Context, id uuid.UUID) (*VesselResponse, error) {
	vessel, err := s.getVessel(ctx, id)
	if err != nil {
		return nil, err
	}

	np := s.aggregator.ResolvePosition(ctx, vessel.MMSI)
	if _, err := s.store.ApplyPosition(ctx, vessel, np); err != nil {
		return nil, err
	}

	refreshed, err := s.vesselRepo.GetByID(ctx, vessel.ID)
	if err != nil {
		return nil, err
	}
	return ToVesselResponse(refreshed), nil
}

// BulkUpdatePositions applies manually supplied position records. Unknown
// vessels are reported per item; the batch never aborts.
func (s *Service) BulkUpdatePositions(ctx context.Context, req *BulkPositionUpdateRequest) (*BulkPositionUpdateResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	items := make([]tracking.BulkItem, len(req.Updates))
	for i, u := range req.Updates {
		items[i] = tracking.BulkItem{MMSI: u.MMSI, Position: toNormalizedPosition(&u)}
	}

	result := s.store.BulkApply(ctx, items)
	return &BulkPositionUpdateResponse{
		UpdatedCount: result.UpdatedCount,
		Errors:       result.Errors,
	}, nil
}

// UpdatePosition applies a manually reported fix to one vessel through the
// same reconciliation path AIS records take. The fix is stamped with data
// source "manual".
func (s *Service) UpdatePosition(ctx context.Context, id uuid.UUID, req *PositionUpdateRequest) (*VesselResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	vessel, err := s.getVessel(ctx, id)
	if err != nil {
		return nil, err
	}

	item := BulkPositionItem{
		MMSI:             vessel.MMSI,
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
		SpeedOverGround:  req.SpeedOverGround,
		CourseOverGround: req.CourseOverGround,
		Heading:          req.Heading,
		Status:           req.Status,
		Timestamp:        req.Timestamp,
	}
	if _, err := s.store.ApplyPosition(ctx, vessel, toNormalizedPosition(&item)); err != nil {
		return nil, err
	}

	updated, err := s.vesselRepo.GetByID(ctx, vessel.ID)
	if err != nil {
		return nil, err
	}
	return ToVesselResponse(updated), nil
}

// AnalyticsReport assembles the fleet-wide analytics view: totals, speed
// spread, recent activity, hull overview and top destinations.
func (s *Service) AnalyticsReport(ctx context.Context, days int) (*AnalyticsResponse, error) {
	if days <= 0 {
		days = 7
	}
	if days > 30 {
		days = 30
	}

	fleet, err := s.vesselRepo.FleetStatistics(ctx)
	if err != nil {
		return nil, err
	}
	speed, err := s.vesselRepo.SpeedAnalytics(ctx)
	if err != nil {
		return nil, err
	}
	overview, err := s.vesselRepo.FleetOverview(ctx)
	if err != nil {
		return nil, err
	}
	destinations, err := s.vesselRepo.DestinationAnalytics(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	timeline := make([]ActivityDayResponse, 0, days)
	for i := days - 1; i >= 0; i-- {
		dayStart := today.AddDate(0, 0, -i)
		count, err := s.positionRepo.CountBetween(ctx, dayStart, dayStart.AddDate(0, 0, 1))
		if err != nil {
			return nil, err
		}
		timeline = append(timeline, ActivityDayResponse{
			Date:    dayStart.Format("2006-01-02"),
			Updates: count,
		})
	}

	return &AnalyticsResponse{
		VesselStatistics:     ToFleetStatisticsResponse(fleet),
		SpeedAnalytics:       toSpeedAnalyticsResponse(speed),
		ActivityTimeline:     timeline,
		FleetOverview:        toFleetOverviewResponse(overview),
		DestinationAnalytics: toDestinationAnalyticsResponse(destinations),
	}, nil
}

func (s *Service) FleetStatistics(ctx context.Context) (*FleetStatisticsResponse, error) {
	stats, err := s.vesselRepo.FleetStatistics(ctx)
	if err != nil {
		return nil, err
	}
	return ToFleetStatisticsResponse(stats), nil
}

// VesselStatistics summarizes the vessel's track over the last days.
func (s *Service) VesselStatistics(ctx context.Context, id uuid.UUID, days int) (*VesselStatisticsResponse, error) {
	if days <= 0 {
		days = 7
	}
	if days > 90 {
		days = 90
	}

	vessel, err := s.getVessel(ctx, id)
	if err != nil {
		return nil, err
	}

	since := time.Now().AddDate(0, 0, -days)
	stats, err := s.positionRepo.StatsForVessel(ctx, vessel.ID, since)
	if err != nil {
		return nil, err
	}

	return &VesselStatisticsResponse{
		VesselID:      vessel.ID,
		MMSI:          vessel.MMSI,
		Days:          days,
		AverageSpeed:  stats.AverageSpeed,
		PositionCount: stats.PositionCount,
	}, nil
}

// Distance computes the great-circle distance between two coordinates in
// nautical miles.
func (s *Service) Distance(req *DistanceRequest) (*DistanceResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid coordinates", err)
	}
	return &DistanceResponse{
		DistanceNm: geo.DistanceNm(req.Lat1, req.Lon1, req.Lat2, req.Lon2),
	}, nil
}

func (s *Service) getVessel(ctx context.Context, id uuid.UUID) (*domainVessel.Vessel, error) {
	vessel, err := s.vesselRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainVessel.ErrVesselNotFound) {
			return nil, appErrors.NewAppError("VESSEL_NOT_FOUND", "Vessel not found", err)
		}
		return nil, err
	}
	return vessel, nil
}

func toAreaVesselResponse(np *ais.NormalizedPosition) AreaVesselResponse {
	resp := AreaVesselResponse{
		MMSI:             np.MMSI,
		Name:             np.VesselName,
		Type:             string(np.VesselType),
		Latitude:         np.Latitude,
		Longitude:        np.Longitude,
		SpeedOverGround:  np.SpeedOverGround,
		CourseOverGround: np.CourseOverGround,
		Heading:          np.Heading,
		Status:           string(np.NavStatus),
		Destination:      np.Destination,
		Timestamp:        np.Timestamp,
		DataSource:       np.DataSource,
	}
	if np.Weather != nil {
		resp.Weather = &WeatherInfo{
			WaveHeight:       np.Weather.WaveHeight,
			WaveDirection:    np.Weather.WaveDirection,
			WindSpeed:        np.Weather.WindSpeed,
			WindDirection:    np.Weather.WindDirection,
			AirTemperature:   np.Weather.AirTemperature,
			WaterTemperature: np.Weather.WaterTemperature,
		}
	}
	return resp
}

func toNormalizedPosition(u *BulkPositionItem) *ais.NormalizedPosition {
	np := &ais.NormalizedPosition{
		MMSI:       u.MMSI,
		Latitude:   u.Latitude,
		Longitude:  u.Longitude,
		Heading:    u.Heading,
		NavStatus:  domainVessel.StatusUnderway,
		VesselType: domainVessel.TypeCargo,
		Timestamp:  time.Now(),
		DataSource: "manual",
	}
	if u.SpeedOverGround != nil {
		np.SpeedOverGround = *u.SpeedOverGround
	}
	if u.CourseOverGround != nil {
		np.CourseOverGround = *u.CourseOverGround
	}
	if u.Status != nil {
		np.NavStatus = domainVessel.NavStatus(*u.Status)
	}
	if u.Timestamp != nil {
		if ts, err := time.Parse(time.RFC3339, *u.Timestamp); err == nil {
			np.Timestamp = ts
		}
	}
	return np
}
