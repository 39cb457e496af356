package utils

import (
	"os"
	"strconv"
)

// DefaultHorizonDays is how far ahead occurrences are materialized when the
// deployment does not override it.
const DefaultHorizonDays = 90

// HorizonDays reads MATERIALIZE_HORIZON_DAYS from the environment.
func HorizonDays() int {
	if v := os.Getenv("MATERIALIZE_HORIZON_DAYS"); v != "" {
		if days, err := strconv.Atoi(v); err == nil && days > 0 {
			return days
		}
	}
	return DefaultHorizonDays
}
