package shared

import "time"

// ParseDate accepts RFC3339 or YYYY-MM-DD.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02", value)
}

// ParseOptionalDate returns nil for an empty string, otherwise a
// pointer to the parsed date. Used by update payloads where absence
// means leave-unchanged.
func ParseOptionalDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := ParseDate(value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
