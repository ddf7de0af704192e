// Package civildate anchors date-only values to a fixed time-of-day so a
// calendar date survives round-trips through storage regardless of the
// server's or database's time zone. A date stored at noon UTC formats back
// to the same YYYY-MM-DD everywhere; midnight would drift a day west of UTC.
package civildate

import (
	"time"

	"github.com/devel-fonseca/rafa-ilpi-data-sub001/internal/apperrors"
)

const Layout = "2006-01-02"

// anchorHour is the fixed time-of-day all civil dates are pinned to.
const anchorHour = 12

// Parse converts a YYYY-MM-DD string into its anchored timestamp.
func Parse(s string) (time.Time, error) {
	d, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, apperrors.Validationf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return Anchor(d), nil
}

// Anchor pins any timestamp to the anchored representation of its UTC
// calendar date.
func Anchor(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), anchorHour, 0, 0, 0, time.UTC)
}

// Today returns the anchored timestamp for the current UTC calendar date.
func Today() time.Time {
	return Anchor(time.Now())
}

// Format renders an anchored timestamp back to its YYYY-MM-DD form.
func Format(t time.Time) string {
	return t.UTC().Format(Layout)
}
