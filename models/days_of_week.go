package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
)

// DaysOfWeek stores the weekdays a weekly rule fires on (0 = Sunday ... 6 = Saturday)
type DaysOfWeek []int

// Value implements the driver.Valuer interface
func (d DaysOfWeek) Value() (driver.Value, error) {
	jsonData, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil // Return as string for JSONB type
}

// Scan implements the sql.Scanner interface
func (d *DaysOfWeek) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("failed to unmarshal DaysOfWeek: unsupported type %T", value)
	}

	return json.Unmarshal(data, d)
}

// Contains reports whether the given weekday (0 = Sunday) is part of the set
func (d DaysOfWeek) Contains(day int) bool {
	for _, v := range d {
		if v == day {
			return true
		}
	}
	return false
}

// Normalized returns the set sorted and de-duplicated
func (d DaysOfWeek) Normalized() DaysOfWeek {
	if len(d) == 0 {
		return nil
	}
	seen := make(map[int]bool, len(d))
	out := make(DaysOfWeek, 0, len(d))
	for _, v := range d {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Ints(out)
	return out
}
