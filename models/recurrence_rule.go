package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type RecurrencePattern string

const (
	PatternDaily   RecurrencePattern = "daily"
	PatternWeekly  RecurrencePattern = "weekly"
	PatternMonthly RecurrencePattern = "monthly"
)

type AppointmentType string

const (
	TypeVirtual  AppointmentType = "virtual"
	TypeInPerson AppointmentType = "in-person"
)

// RecurrenceRule describes a repeating appointment schedule owned by a staff
// member. Concrete Appointment rows are materialized from it over a rolling
// horizon; the rule itself never holds occurrence state.
type RecurrenceRule struct {
	gorm.Model
	OwnerID         uint              `json:"owner_id"`
	Owner           Staff             `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	AppointmentType AppointmentType   `json:"appointment_type"`
	DurationMinutes int               `json:"duration_minutes"`
	Purpose         string            `json:"purpose"`
	Pattern         RecurrencePattern `json:"pattern"` // "daily", "weekly", "monthly"
	Interval        int               `json:"interval" gorm:"default:1"`
	DaysOfWeek      DaysOfWeek        `json:"days_of_week" gorm:"type:jsonb"`
	TimeOfDay       string            `json:"time_of_day"` // Format "HH:MM" in 24h, owner's timezone
	StartDate       time.Time         `json:"start_date" gorm:"type:date"`
	EndDate         *time.Time        `json:"end_date" gorm:"type:date"`
	IsActive        bool              `json:"is_active" gorm:"default:true"`
	Appointments    []Appointment     `json:"appointments,omitempty" gorm:"foreignKey:RuleID"`
}

// ClockTime parses TimeOfDay into its hour and minute components.
func (r *RecurrenceRule) ClockTime() (hour, minute int, err error) {
	t, err := time.Parse("15:04", r.TimeOfDay)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time of day %q", r.TimeOfDay)
	}
	return t.Hour(), t.Minute(), nil
}

// Location returns the timezone occurrences of this rule are computed in.
// Requires Owner to be preloaded; falls back to the deployment default.
func (r *RecurrenceRule) Location() *time.Location {
	return r.Owner.Location()
}
