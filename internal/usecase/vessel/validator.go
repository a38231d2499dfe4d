package vessel

import (
	"unicode"

	domainVessel "vessel-tracker/internal/domain/vessel"
	appErrors "vessel-tracker/pkg/errors"
)

// ValidateMMSI checks the Maritime Mobile Service Identity format.
func ValidateMMSI(mmsi string) error {
	if !isDigits(mmsi, 9) {
		return appErrors.NewAppError("VALIDATION_ERROR", "MMSI must be exactly 9 digits", appErrors.ErrInvalidMMSI)
	}
	return nil
}

// ValidateIMO checks the IMO number format when one is supplied.
func ValidateIMO(imo *string) error {
	if imo == nil || *imo == "" {
		return nil
	}
	if !isDigits(*imo, 7) {
		return appErrors.NewAppError("VALIDATION_ERROR", "IMO number must be exactly 7 digits", appErrors.ErrInvalidIMO)
	}
	return nil
}

// ValidateBoundingBox rejects degenerate or out-of-range boxes before they
// reach the providers.
func ValidateBoundingBox(box domainVessel.BoundingBox) error {
	if !box.Valid() {
		return appErrors.NewAppError("VALIDATION_ERROR", "Invalid bounding box coordinates", appErrors.ErrInvalidBBox)
	}
	return nil
}

func isDigits(s string, length int) bool {
	if len(s) != length {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
