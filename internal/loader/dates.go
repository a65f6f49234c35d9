package loader

import (
	"fmt"
	"time"
)

// referenceZeroDate is the epoch every integer day index in the
// simulation core is offset from: January 1, 2019.
var referenceZeroDate = time.Date(2019, time.January, 1, 0, 0, 0, 0, time.UTC)

// ToReferenceDate converts a calendar date into its integer day offset
// from referenceZeroDate.
func ToReferenceDate(t time.Time) int {
	return int(t.Sub(referenceZeroDate).Hours() / 24)
}

// ToSysDays converts an integer day offset back into a calendar date.
func ToSysDays(day int) time.Time {
	return referenceZeroDate.AddDate(0, 0, day)
}

// parseDate parses the input record's "YYYY-MM-DD" date strings.
func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("loader: parse date %q: %w", s, err)
	}
	return t, nil
}
