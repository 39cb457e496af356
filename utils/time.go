package utils

import "time"

// DefaultTimezone is used for staff who have not configured one.
const DefaultTimezone = "Africa/Accra"

// LocationOrDefault resolves an IANA timezone name, falling back to the
// deployment default and finally UTC.
func LocationOrDefault(name string) *time.Location {
	if name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	if loc, err := time.LoadLocation(DefaultTimezone); err == nil {
		return loc
	}
	return time.UTC
}
