package tracking

import (
	"context"

	"vessel-tracker/internal/ais"
	domainVessel "vessel-tracker/internal/domain/vessel"
)

// storeLocalSource serves area queries from vessels already in the database,
// so tracked vessels with a recent fix show up before any provider is asked.
type storeLocalSource struct {
	vessels domainVessel.Repository
}

func NewLocalSource(vessels domainVessel.Repository) ais.LocalSource {
	return &storeLocalSource{vessels: vessels}
}

func (s *storeLocalSource) VesselsInArea(ctx context.Context, box domainVessel.BoundingBox) ([]*ais.NormalizedPosition, error) {
	vessels, err := s.vessels.ListInArea(ctx, box)
	if err != nil {
		return nil, err
	}

	records := make([]*ais.NormalizedPosition, 0, len(vessels))
	for _, v := range vessels {
		if !v.HasFix() {
			continue
		}

		np := &ais.NormalizedPosition{
			MMSI:       v.MMSI,
			Latitude:   *v.Latitude,
			Longitude:  *v.Longitude,
			NavStatus:  v.Status,
			VesselType: v.Type,
			VesselName: v.Name,
			DataSource: "database",
		}
		if v.SpeedOverGround != nil {
			np.SpeedOverGround = *v.SpeedOverGround
		}
		if v.CourseOverGround != nil {
			np.CourseOverGround = *v.CourseOverGround
		}
		np.Heading = v.Heading
		if v.Destination != nil {
			np.Destination = *v.Destination
		}
		if v.LastPositionUpdate != nil {
			np.Timestamp = *v.LastPositionUpdate
		}

		records = append(records, np)
	}

	return records, nil
}
