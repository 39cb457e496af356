package recurrence

import (
	"fmt"
	"strings"

	"github.com/DoaogComapny/gnacops-connect-hub-sub001/models"
)

// ValidateRule checks a rule's shape and returns a normalized copy. It is
// pure: no I/O, nothing persisted. All problems are collected into a single
// ValidationError so the caller can surface the full list at once.
func ValidateRule(rule models.RecurrenceRule) (models.RecurrenceRule, error) {
	var fields []string

	if strings.TrimSpace(rule.Purpose) == "" {
		fields = append(fields, "purpose must not be empty")
	}
	if rule.DurationMinutes <= 0 {
		fields = append(fields, "duration_minutes must be positive")
	}
	if rule.Interval < 1 {
		fields = append(fields, "interval must be at least 1")
	}

	switch rule.AppointmentType {
	case models.TypeVirtual, models.TypeInPerson:
	default:
		fields = append(fields, fmt.Sprintf("appointment_type must be %q or %q", models.TypeVirtual, models.TypeInPerson))
	}

	switch rule.Pattern {
	case models.PatternDaily, models.PatternMonthly:
		// days_of_week is ignored outside weekly rules
		rule.DaysOfWeek = nil
	case models.PatternWeekly:
		if len(rule.DaysOfWeek) == 0 {
			fields = append(fields, "weekly rules need at least one day of week")
		}
		for _, d := range rule.DaysOfWeek {
			if d < 0 || d > 6 {
				fields = append(fields, fmt.Sprintf("day of week %d out of range 0-6", d))
			}
		}
		rule.DaysOfWeek = rule.DaysOfWeek.Normalized()
	default:
		fields = append(fields, fmt.Sprintf("pattern must be one of %q, %q, %q", models.PatternDaily, models.PatternWeekly, models.PatternMonthly))
	}

	if _, _, err := rule.ClockTime(); err != nil {
		fields = append(fields, "time_of_day must be a valid HH:MM wall-clock time")
	}

	if rule.StartDate.IsZero() {
		fields = append(fields, "start_date is required")
	}
	if rule.EndDate != nil && !rule.StartDate.IsZero() && rule.EndDate.Before(rule.StartDate) {
		fields = append(fields, "end_date must not be before start_date")
	}

	if len(fields) > 0 {
		return rule, &ValidationError{Fields: fields}
	}
	return rule, nil
}
