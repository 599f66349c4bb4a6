package repository

import (
	"fmt"
	"time"
)

// ParseTime parses a date string in "2006-01-02", SQLite datetime, or
// RFC3339 format. SQLite hands back whichever form the column was written
// with (CURRENT_TIMESTAMP defaults use the middle one), so all three are
// accepted and normalized to UTC.
func ParseTime(str string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", "2006-01-02 15:04:05", time.RFC3339} {
		if returnTime, err := time.Parse(layout, str); err == nil {
			return returnTime.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("failed to parse date: %q", str)
}
