package ais

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	domainVessel "vessel-tracker/internal/domain/vessel"
)

// Field aliases seen across providers. Lookup is case-insensitive, so one
// lowercase alias covers latitude/LATITUDE/Latitude.
var (
	latKeys     = []string{"latitude", "lat"}
	lonKeys     = []string{"longitude", "lon", "lng"}
	speedKeys   = []string{"speed_over_ground", "speed", "sog"}
	courseKeys  = []string{"course_over_ground", "course", "cog"}
	headingKeys = []string{"heading"}
	mmsiKeys    = []string{"mmsi"}
	nameKeys    = []string{"name", "shipname", "vessel_name"}
	statusKeys  = []string{"navigational_status", "navstat", "status"}
	typeKeys    = []string{"vessel_type", "shiptype", "type"}
	destKeys    = []string{"destination", "dest"}
	etaKeys     = []string{"eta"}
	timeKeys    = []string{"timestamp", "time"}
)

// navStatusTable maps AIS navigational status codes (ITU-R M.1371) to the
// domain enum. Unknown codes fall back to underway.
var navStatusTable = map[string]domainVessel.NavStatus{
	"0": domainVessel.StatusUnderway,
	"1": domainVessel.StatusAtAnchor,
	"2": domainVessel.StatusNotUnderCommand,
	"3": domainVessel.StatusRestrictedManeuverability,
	"4": domainVessel.StatusRestrictedManeuverability,
	"5": domainVessel.StatusMoored,
	"6": domainVessel.StatusAground,
	"7": domainVessel.StatusFishing,
	"8": domainVessel.StatusUnderSail,
}

// vesselTypeTable maps AIS ship type codes to the domain enum. The real
// code space is larger; this covers the leading digits providers send.
// Unknown codes fall back to cargo.
var vesselTypeTable = map[string]domainVessel.Type{
	"30": domainVessel.TypeFishing,
	"31": domainVessel.TypeFishing,
	"32": domainVessel.TypeFishing,
	"36": domainVessel.TypeSailing,
	"50": domainVessel.TypeMilitary,
	"51": domainVessel.TypeMilitary,
	"52": domainVessel.TypeTug,
	"60": domainVessel.TypePassenger,
	"61": domainVessel.TypePassenger,
	"70": domainVessel.TypeCargo,
	"71": domainVessel.TypeCargo,
	"80": domainVessel.TypeTanker,
	"81": domainVessel.TypeTanker,
}

// Normalize maps one provider-specific raw record into the canonical shape.
// It returns nil when the record carries no usable fix: both coordinates
// exactly zero (the common "no position" sentinel) or out of range.
func Normalize(raw map[string]any, source string) *NormalizedPosition {
	if raw == nil {
		return nil
	}

	lower := lowerKeys(raw)

	lat, latOK := floatField(lower, latKeys)
	lon, lonOK := floatField(lower, lonKeys)
	if !latOK || !lonOK {
		return nil
	}
	if lat == 0 && lon == 0 {
		return nil
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil
	}

	np := &NormalizedPosition{
		MMSI:        stringField(lower, mmsiKeys),
		Latitude:    lat,
		Longitude:   lon,
		NavStatus:   MapNavStatus(stringField(lower, statusKeys)),
		VesselType:  MapVesselType(stringField(lower, typeKeys)),
		VesselName:  strings.TrimSpace(stringField(lower, nameKeys)),
		Destination: strings.TrimSpace(stringField(lower, destKeys)),
		ETA:         stringField(lower, etaKeys),
		DataSource:  source,
	}

	if speed, ok := floatField(lower, speedKeys); ok && speed >= 0 {
		np.SpeedOverGround = speed
	}
	if course, ok := floatField(lower, courseKeys); ok && course >= 0 && course <= 360 {
		np.CourseOverGround = course
	}
	if heading, ok := floatField(lower, headingKeys); ok {
		h := int(heading)
		if h >= 0 && h <= 359 {
			np.Heading = &h
		}
	}

	np.Timestamp = parseTimestamp(stringField(lower, timeKeys))

	return np
}

// MapNavStatus resolves a provider status value. Numeric codes go through
// the AIS table; symbolic names are matched against the enum directly.
func MapNavStatus(value string) domainVessel.NavStatus {
	value = strings.TrimSpace(value)
	if status, ok := navStatusTable[value]; ok {
		return status
	}
	lowered := strings.ToLower(value)
	for _, s := range domainVessel.ValidStatuses {
		if lowered == string(s) {
			return s
		}
	}
	return domainVessel.StatusUnderway
}

// MapVesselType resolves a provider type value, numeric or symbolic.
func MapVesselType(value string) domainVessel.Type {
	value = strings.TrimSpace(value)
	if t, ok := vesselTypeTable[value]; ok {
		return t
	}
	lowered := strings.ToLower(value)
	for _, t := range domainVessel.ValidTypes {
		if lowered == string(t) {
			return t
		}
	}
	return domainVessel.TypeCargo
}

func lowerKeys(raw map[string]any) map[string]any {
	lower := make(map[string]any, len(raw))
	for k, v := range raw {
		lower[strings.ToLower(k)] = v
	}
	return lower
}

func floatField(lower map[string]any, keys []string) (float64, bool) {
	for _, key := range keys {
		v, ok := lower[key]
		if !ok || v == nil {
			continue
		}
		switch val := v.(type) {
		case float64:
			return val, true
		case float32:
			return float64(val), true
		case int:
			return float64(val), true
		case int64:
			return float64(val), true
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

func stringField(lower map[string]any, keys []string) string {
	for _, key := range keys {
		v, ok := lower[key]
		if !ok || v == nil {
			continue
		}
		switch val := v.(type) {
		case string:
			if val != "" {
				return val
			}
		case float64:
			// JSON numbers decode as float64; MMSI and status codes are
			// integers on the wire.
			return strconv.FormatInt(int64(val), 10)
		case int:
			return strconv.Itoa(val)
		default:
			return fmt.Sprintf("%v", val)
		}
	}
	return ""
}

// parseTimestamp accepts the layouts seen in provider payloads and stamps
// receipt time when nothing parses.
func parseTimestamp(value string) time.Time {
	value = strings.TrimSpace(value)
	if value != "" {
		for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02 15:04:05 MST"} {
			if ts, err := time.Parse(layout, value); err == nil {
				return ts
			}
		}
	}
	return time.Now()
}
