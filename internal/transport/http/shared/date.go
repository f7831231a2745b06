package shared

import "time"

// ParseDate accepts a full RFC3339 timestamp or a bare YYYY-MM-DD date.
// An empty value parses to the zero time.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		parsed, err = time.Parse("2006-01-02", value)
	}
	return parsed, err
}
