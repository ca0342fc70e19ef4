package render

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDate is returned when a timestamp cannot be parsed as a calendar date.
var ErrInvalidDate = errors.New("invalid date")

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// FormatDate renders an ISO-8601 date or date-time as DD.MM.YYYY in loc.
// Zoned inputs are converted to loc first; zone-less inputs are read in loc.
// A nil loc means UTC.
func FormatDate(iso string, loc *time.Location) (string, error) {
	if loc == nil {
		loc = time.UTC
	}
	s := strings.TrimSpace(iso)
	for _, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err == nil {
			return t.In(loc).Format("02.01.2006"), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDate, iso)
}
