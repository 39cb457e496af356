package controllers

import (
	"testing"
	"time"
)

func TestAppointmentWindow(t *testing.T) {
	now := time.Date(2024, 5, 15, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		filter  string
		start   time.Time
		end     time.Time
		bounded bool
	}{
		{"today",
			time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 5, 15, 23, 59, 59, 0, time.UTC), true},
		{"tomorrow",
			time.Date(2024, 5, 16, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 5, 16, 23, 59, 59, 0, time.UTC), true},
		{"week", now, now.AddDate(0, 0, 7), true},
		{"month", now, now.AddDate(0, 1, 0), true},
		{"", now, now.AddDate(0, 1, 0), true},
		{"all", time.Time{}, time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			start, end, bounded := appointmentWindow(tt.filter, now)
			if bounded != tt.bounded {
				t.Fatalf("bounded = %v, want %v", bounded, tt.bounded)
			}
			if !start.Equal(tt.start) || !end.Equal(tt.end) {
				t.Fatalf("window = [%v, %v], want [%v, %v]", start, end, tt.start, tt.end)
			}
		})
	}
}

func TestAppointmentWindow_AllHasNoHorizon(t *testing.T) {
	_, _, bounded := appointmentWindow("all", time.Now())
	if bounded {
		t.Fatal("the all filter must not cap the range")
	}
}
