package validators

import (
	"time"

	"yamdb/internal/apperr"
)

// Now is the clock used by the validators.
var Now = time.Now

// ValidateYear returns year unchanged unless it lies after the current year.
// Model hooks and request DTOs both call it so the rule lives in one place.
func ValidateYear(year int) (int, error) {
	if year > Now().Year() {
		return year, apperr.Field("year", "Year cannot be later than the current year")
	}
	return year, nil
}
