package postgres

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domainVessel "vessel-tracker/internal/domain/vessel"
	"vessel-tracker/internal/infrastructure/database/postgres/models"
)

// VesselRepository implements vessel.Repository on GORM.
type VesselRepository struct {
	db *DB
}

func NewVesselRepository(db *DB) domainVessel.Repository {
	return &VesselRepository{db: db}
}

func (r *VesselRepository) Create(ctx context.Context, v *domainVessel.Vessel) error {
	v.ID = uuid.New()
	v.CreatedAt = time.Now()
	v.UpdatedAt = time.Now()

	dbModel := toVesselModel(v)
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate key value") || strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return domainVessel.ErrVesselAlreadyExists
		}
		return fmt.Errorf("failed to create vessel: %w", err)
	}

	v.CreatedAt = dbModel.CreatedAt
	v.UpdatedAt = dbModel.UpdatedAt

	return nil
}

func (r *VesselRepository) GetByID(ctx context.Context, id uuid.UUID) (*domainVessel.Vessel, error) {
	var dbModel models.VesselModel
	err := r.db.DB.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainVessel.ErrVesselNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vessel: %w", err)
	}

	return toVesselEntity(&dbModel), nil
}

func (r *VesselRepository) GetByMMSI(ctx context.Context, mmsi string) (*domainVessel.Vessel, error) {
	var dbModel models.VesselModel
	err := r.db.DB.WithContext(ctx).
		Where("mmsi = ? AND is_deleted = ?", mmsi, false).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainVessel.ErrVesselNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vessel: %w", err)
	}

	return toVesselEntity(&dbModel), nil
}

func (r *VesselRepository) Update(ctx context.Context, v *domainVessel.Vessel) error {
	v.UpdatedAt = time.Now()

	result := r.db.DB.WithContext(ctx).
		Model(&models.VesselModel{}).
		Where("id = ? AND is_deleted = ?", v.ID, false).
		Updates(map[string]interface{}{
			"imo_number":           v.IMONumber,
			"name":                 v.Name,
			"call_sign":            v.CallSign,
			"vessel_type":          string(v.Type),
			"flag_country":         v.FlagCountry,
			"built_year":           v.BuiltYear,
			"gross_tonnage":        v.GrossTonnage,
			"length_overall":       v.LengthOverall,
			"beam":                 v.Beam,
			"draft":                v.Draft,
			"destination":          v.Destination,
			"eta":                  v.ETA,
			"ais_update_frequency": v.AISUpdateFrequency,
			"is_tracked":           v.IsTracked,
			"updated_at":           v.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update vessel: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainVessel.ErrVesselNotFound
	}

	return nil
}

func (r *VesselRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	result := r.db.DB.WithContext(ctx).
		Model(&models.VesselModel{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]interface{}{
			"is_deleted": true,
			"is_tracked": false,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to delete vessel: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainVessel.ErrVesselNotFound
	}

	return nil
}

func (r *VesselRepository) List(ctx context.Context, filter *domainVessel.Filter) ([]*domainVessel.Vessel, int64, error) {
	var dbModels []models.VesselModel
	var total int64

	db := r.db.DB.WithContext(ctx).Model(&models.VesselModel{}).
		Where("is_deleted = ?", false)

	if filter.Query != "" {
		search := "%" + filter.Query + "%"
		db = db.Where("name LIKE ? OR mmsi LIKE ? OR imo_number LIKE ?", search, search, search)
	}
	if filter.Type != nil {
		db = db.Where("vessel_type = ?", string(*filter.Type))
	}
	if filter.Status != nil {
		db = db.Where("status = ?", string(*filter.Status))
	}
	if filter.FlagCountry != "" {
		db = db.Where("flag_country = ?", filter.FlagCountry)
	}
	if filter.IsTracked != nil {
		db = db.Where("is_tracked = ?", *filter.IsTracked)
	}
	if filter.MinSpeed != nil {
		db = db.Where("speed_over_ground >= ?", *filter.MinSpeed)
	}
	if filter.MaxSpeed != nil {
		db = db.Where("speed_over_ground <= ?", *filter.MaxSpeed)
	}
	if filter.Box != nil {
		db = db.Where("latitude >= ? AND latitude <= ? AND longitude >= ? AND longitude <= ?",
			filter.Box.MinLat, filter.Box.MaxLat, filter.Box.MinLon, filter.Box.MaxLon)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count vessels: %w", err)
	}

	sortBy := "last_position_update"
	switch filter.SortBy {
	case "name", "mmsi", "created_at", "updated_at", "speed_over_ground", "last_position_update":
		sortBy = filter.SortBy
	}
	sortOrder := "DESC"
	if strings.ToLower(filter.SortOrder) == "asc" {
		sortOrder = "ASC"
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	err := db.Order(fmt.Sprintf("%s %s", sortBy, sortOrder)).
		Limit(pageSize).
		Offset(offset).
		Find(&dbModels).Error

	if err != nil {
		return nil, 0, fmt.Errorf("failed to list vessels: %w", err)
	}

	vessels := make([]*domainVessel.Vessel, len(dbModels))
	for i := range dbModels {
		vessels[i] = toVesselEntity(&dbModels[i])
	}

	return vessels, total, nil
}

func (r *VesselRepository) ListTracked(ctx context.Context) ([]*domainVessel.Vessel, error) {
	var dbModels []models.VesselModel
	err := r.db.DB.WithContext(ctx).
		Where("is_tracked = ? AND is_deleted = ?", true, false).
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tracked vessels: %w", err)
	}

	vessels := make([]*domainVessel.Vessel, len(dbModels))
	for i := range dbModels {
		vessels[i] = toVesselEntity(&dbModels[i])
	}
	return vessels, nil
}

func (r *VesselRepository) ListInArea(ctx context.Context, box domainVessel.BoundingBox) ([]*domainVessel.Vessel, error) {
	var dbModels []models.VesselModel
	err := r.db.DB.WithContext(ctx).
		Where("is_deleted = ?", false).
		Where("latitude >= ? AND latitude <= ? AND longitude >= ? AND longitude <= ?",
			box.MinLat, box.MaxLat, box.MinLon, box.MaxLon).
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list vessels in area: %w", err)
	}

	vessels := make([]*domainVessel.Vessel, len(dbModels))
	for i := range dbModels {
		vessels[i] = toVesselEntity(&dbModels[i])
	}
	return vessels, nil
}

func (r *VesselRepository) ListStale(ctx context.Context, olderThan time.Time) ([]*domainVessel.Vessel, error) {
	var dbModels []models.VesselModel
	err := r.db.DB.WithContext(ctx).
		Where("is_tracked = ? AND is_deleted = ?", true, false).
		Where("last_position_update IS NULL OR last_position_update < ?", olderThan).
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list stale vessels: %w", err)
	}

	vessels := make([]*domainVessel.Vessel, len(dbModels))
	for i := range dbModels {
		vessels[i] = toVesselEntity(&dbModels[i])
	}
	return vessels, nil
}

func (r *VesselRepository) FleetStatistics(ctx context.Context) (*domainVessel.FleetStatistics, error) {
	stats := &domainVessel.FleetStatistics{}

	base := r.db.DB.WithContext(ctx).Model(&models.VesselModel{}).Where("is_deleted = ?", false)

	if err := base.Session(&gorm.Session{}).Count(&stats.TotalVessels).Error; err != nil {
		return nil, fmt.Errorf("failed to count vessels: %w", err)
	}
	if err := base.Session(&gorm.Session{}).Where("is_tracked = ?", true).Count(&stats.TrackedVessels).Error; err != nil {
		return nil, fmt.Errorf("failed to count tracked vessels: %w", err)
	}

	type groupRow struct {
		Label string
		Count int64
	}

	var byType []groupRow
	err := r.db.DB.WithContext(ctx).Model(&models.VesselModel{}).
		Select("vessel_type AS label, COUNT(*) AS count").
		Where("is_deleted = ?", false).
		Group("vessel_type").
		Scan(&byType).Error
	if err != nil {
		return nil, fmt.Errorf("failed to group vessels by type: %w", err)
	}
	for _, row := range byType {
		stats.ByType = append(stats.ByType, domainVessel.GroupCount{Label: row.Label, Count: row.Count})
	}

	var byStatus []groupRow
	err = r.db.DB.WithContext(ctx).Model(&models.VesselModel{}).
		Select("status AS label, COUNT(*) AS count").
		Where("is_deleted = ?", false).
		Group("status").
		Scan(&byStatus).Error
	if err != nil {
		return nil, fmt.Errorf("failed to group vessels by status: %w", err)
	}
	for _, row := range byStatus {
		stats.ByStatus = append(stats.ByStatus, domainVessel.GroupCount{Label: row.Label, Count: row.Count})
	}

	return stats, nil
}

// speedBuckets are the knot ranges the speed distribution reports.
var speedBuckets = []struct {
	label string
	upper float64
}{
	{"0-5", 5},
	{"5-10", 10},
	{"10-15", 15},
	{"15-20", 20},
	{"20+", math.MaxFloat64},
}

func (r *VesselRepository) SpeedAnalytics(ctx context.Context) (*domainVessel.SpeedAnalytics, error) {
	var speeds []float64
	err := r.db.DB.WithContext(ctx).Model(&models.VesselModel{}).
		Where("is_deleted = ? AND speed_over_ground IS NOT NULL", false).
		Pluck("speed_over_ground", &speeds).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load fleet speeds: %w", err)
	}

	stats := &domainVessel.SpeedAnalytics{}
	counts := make([]int64, len(speedBuckets))

	var sum float64
	var valid int
	for _, speed := range speeds {
		// implausible readings are skipped, not clamped
		if speed < 0 || speed > 100 {
			continue
		}
		valid++
		sum += speed
		if valid == 1 || speed > stats.MaxSpeed {
			stats.MaxSpeed = speed
		}
		if valid == 1 || speed < stats.MinSpeed {
			stats.MinSpeed = speed
		}
		for i, b := range speedBuckets {
			if speed < b.upper {
				counts[i]++
				break
			}
		}
	}
	if valid > 0 {
		stats.AverageSpeed = math.Round(sum/float64(valid)*100) / 100
	}
	for i, b := range speedBuckets {
		stats.Distribution = append(stats.Distribution, domainVessel.GroupCount{Label: b.label, Count: counts[i]})
	}

	return stats, nil
}

func (r *VesselRepository) FleetOverview(ctx context.Context) (*domainVessel.FleetOverview, error) {
	type hullRow struct {
		BuiltYear    *int
		GrossTonnage *int
	}

	var rows []hullRow
	err := r.db.DB.WithContext(ctx).Model(&models.VesselModel{}).
		Select("built_year, gross_tonnage").
		Where("is_deleted = ?", false).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load hull attributes: %w", err)
	}

	overview := &domainVessel.FleetOverview{}
	currentYear := time.Now().UTC().Year()
	ages := map[string]int64{}
	var tonnageSum int64
	var tonnageCount int64

	for _, row := range rows {
		switch {
		case row.BuiltYear == nil:
			ages["unknown"]++
		case currentYear-*row.BuiltYear <= 5:
			ages["0-5 years"]++
		case currentYear-*row.BuiltYear <= 10:
			ages["6-10 years"]++
		case currentYear-*row.BuiltYear <= 20:
			ages["11-20 years"]++
		default:
			ages["21+ years"]++
		}
		if row.BuiltYear != nil {
			overview.BuiltYearKnown++
		}
		if row.GrossTonnage != nil {
			tonnageSum += int64(*row.GrossTonnage)
			tonnageCount++
		}
	}

	for _, label := range []string{"0-5 years", "6-10 years", "11-20 years", "21+ years", "unknown"} {
		overview.AgeDistribution = append(overview.AgeDistribution, domainVessel.GroupCount{Label: label, Count: ages[label]})
	}
	overview.TotalTonnage = tonnageSum
	if tonnageCount > 0 {
		overview.AverageTonnage = math.Round(float64(tonnageSum)/float64(tonnageCount)*100) / 100
	}

	return overview, nil
}

func (r *VesselRepository) DestinationAnalytics(ctx context.Context) (*domainVessel.DestinationAnalytics, error) {
	stats := &domainVessel.DestinationAnalytics{}

	var total int64
	err := r.db.DB.WithContext(ctx).Model(&models.VesselModel{}).
		Where("is_deleted = ?", false).
		Count(&total).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count vessels: %w", err)
	}

	err = r.db.DB.WithContext(ctx).Model(&models.VesselModel{}).
		Where("is_deleted = ? AND destination IS NOT NULL AND destination <> ''", false).
		Count(&stats.WithDestination).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count destinations: %w", err)
	}
	stats.WithoutDestination = total - stats.WithDestination

	type groupRow struct {
		Label string
		Count int64
	}
	var top []groupRow
	err = r.db.DB.WithContext(ctx).Model(&models.VesselModel{}).
		Select("destination AS label, COUNT(*) AS count").
		Where("is_deleted = ? AND destination IS NOT NULL AND destination <> ''", false).
		Group("destination").
		Order("count DESC").
		Limit(10).
		Scan(&top).Error
	if err != nil {
		return nil, fmt.Errorf("failed to rank destinations: %w", err)
	}
	for _, row := range top {
		stats.TopDestinations = append(stats.TopDestinations, domainVessel.GroupCount{Label: row.Label, Count: row.Count})
	}

	return stats, nil
}

func (r *VesselRepository) ApplyPosition(ctx context.Context, vesselID uuid.UUID, state domainVessel.CurrentState, pos *domainVessel.Position, requireNewer bool) (bool, error) {
	applied := false

	err := r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.VesselModel
		if err := tx.Where("id = ?", vesselID).First(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainVessel.ErrVesselNotFound
			}
			return fmt.Errorf("failed to load vessel: %w", err)
		}

		applied = !requireNewer ||
			current.LastPositionUpdate == nil ||
			!pos.Timestamp.Before(*current.LastPositionUpdate)

		if applied {
			now := time.Now()
			updates := map[string]interface{}{
				"status":               string(state.Status),
				"latitude":             state.Latitude,
				"longitude":            state.Longitude,
				"speed_over_ground":    state.SpeedOverGround,
				"course_over_ground":   state.CourseOverGround,
				"heading":              state.Heading,
				"data_source":          state.DataSource,
				"last_position_update": now,
				"updated_at":           now,
			}
			if state.Destination != "" {
				updates["destination"] = state.Destination
			}
			if state.ETA != nil {
				updates["eta"] = state.ETA
			}
			if err := tx.Model(&models.VesselModel{}).Where("id = ?", vesselID).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to update current state: %w", err)
			}
		}

		pos.ID = uuid.New()
		pos.VesselID = vesselID
		if pos.ReceivedAt.IsZero() {
			pos.ReceivedAt = time.Now()
		}
		if err := tx.Create(toPositionModel(pos)).Error; err != nil {
			return fmt.Errorf("failed to append position: %w", err)
		}

		return nil
	})
	if err != nil {
		return false, err
	}

	return applied, nil
}

// Helper functions to convert between domain entities and database models

func toVesselModel(v *domainVessel.Vessel) *models.VesselModel {
	return &models.VesselModel{
		ID:                 v.ID,
		MMSI:               v.MMSI,
		IMONumber:          v.IMONumber,
		Name:               v.Name,
		CallSign:           v.CallSign,
		VesselType:         string(v.Type),
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
		IsDeleted:          v.IsDeleted,
		CreatedAt:          v.CreatedAt,
		UpdatedAt:          v.UpdatedAt,
	}
}

func toVesselEntity(m *models.VesselModel) *domainVessel.Vessel {
	return &domainVessel.Vessel{
		ID:                 m.ID,
		MMSI:               m.MMSI,
		IMONumber:          m.IMONumber,
		Name:               m.Name,
		CallSign:           m.CallSign,
		Type:               domainVessel.Type(m.VesselType),
		FlagCountry:        m.FlagCountry,
		BuiltYear:          m.BuiltYear,
		GrossTonnage:       m.GrossTonnage,
		LengthOverall:      m.LengthOverall,
		Beam:               m.Beam,
		Draft:              m.Draft,
		Status:             domainVessel.NavStatus(m.Status),
		Latitude:           m.Latitude,
		Longitude:          m.Longitude,
		SpeedOverGround:    m.SpeedOverGround,
		CourseOverGround:   m.CourseOverGround,
		Heading:            m.Heading,
		Destination:        m.Destination,
		ETA:                m.ETA,
		LastPositionUpdate: m.LastPositionUpdate,
		DataSource:         m.DataSource,
		AISUpdateFrequency: m.AISUpdateFrequency,
		IsTracked:          m.IsTracked,
		IsDeleted:          m.IsDeleted,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}
