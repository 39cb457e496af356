package recurrence

import (
	"sort"
	"time"

	"github.com/DoaogComapny/gnacops-connect-hub-sub001/models"
)

// GenerateOccurrences expands a rule into the concrete instants falling
// inside [windowStart, windowEnd] (bounds inclusive). It is pure and
// deterministic: the same arguments always yield the same strictly ordered,
// duplicate-free sequence, which is what makes materialization idempotent.
//
// The effective range is the intersection of the window with
// [start_date, end_date]; wall-clock times are interpreted in the rule
// owner's timezone. The rule is assumed to have passed ValidateRule.
func GenerateOccurrences(rule models.RecurrenceRule, windowStart, windowEnd time.Time) []time.Time {
	hour, minute, err := rule.ClockTime()
	if err != nil {
		return nil
	}
	loc := rule.Location()

	start := dateOnly(rule.StartDate)
	lower := laterDate(start, civilDate(windowStart, loc))
	upper := civilDate(windowEnd, loc)
	if rule.EndDate != nil {
		if end := dateOnly(*rule.EndDate); end.Before(upper) {
			upper = end
		}
	}
	if lower.After(upper) {
		return nil
	}

	interval := rule.Interval
	if interval < 1 {
		interval = 1
	}

	var dates []time.Time
	switch rule.Pattern {
	case models.PatternDaily:
		// jump straight to the first stepped date inside the range
		d := lower
		if rem := daysBetween(start, lower) % interval; rem != 0 {
			d = lower.AddDate(0, 0, interval-rem)
		}
		for ; !d.After(upper); d = d.AddDate(0, 0, interval) {
			dates = append(dates, d)
		}

	case models.PatternWeekly:
		// interval weeks are counted from the calendar week (Sunday
		// start) containing start_date, so "every 2 weeks on Mon/Wed"
		// stays well-defined
		anchor := weekStart(start)
		for d := lower; !d.After(upper); d = d.AddDate(0, 0, 1) {
			if !rule.DaysOfWeek.Contains(int(d.Weekday())) {
				continue
			}
			if (daysBetween(anchor, weekStart(d))/7)%interval != 0 {
				continue
			}
			dates = append(dates, d)
		}

	case models.PatternMonthly:
		// same day-of-month as start_date; short months roll back to
		// their last day rather than skipping
		day := start.Day()
		for cursor := monthStart(start); !cursor.After(upper); cursor = cursor.AddDate(0, interval, 0) {
			d := cursor.AddDate(0, 0, min(day, daysInMonth(cursor))-1)
			if d.Before(lower) || d.After(upper) {
				continue
			}
			dates = append(dates, d)
		}

	default:
		return nil
	}

	occurrences := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		t := atWallClock(d, hour, minute, loc)
		if t.Before(windowStart) || t.After(windowEnd) {
			continue
		}
		occurrences = append(occurrences, t)
	}

	sort.Slice(occurrences, func(i, j int) bool { return occurrences[i].Before(occurrences[j]) })
	deduped := occurrences[:0]
	for _, t := range occurrences {
		if len(deduped) == 0 || !t.Equal(deduped[len(deduped)-1]) {
			deduped = append(deduped, t)
		}
	}
	return deduped
}

// atWallClock maps a civil date plus wall-clock time to an absolute instant
// in loc. A time swallowed by a spring-forward gap shifts to the first
// instant after the transition; an ambiguous fall-back time resolves to the
// earlier-UTC occurrence.
func atWallClock(date time.Time, hour, minute int, loc *time.Location) time.Time {
	y, m, d := date.Date()
	t := time.Date(y, m, d, hour, minute, 0, 0, loc)

	if t.Hour() != hour || t.Minute() != minute {
		// the requested wall time does not exist; walk back from the
		// normalized instant to the transition boundary
		_, offset := t.Zone()
		for i := 0; i < 48*60; i++ {
			prev := t.Add(-time.Minute)
			if _, prevOffset := prev.Zone(); prevOffset != offset {
				break
			}
			t = prev
		}
		return t
	}

	if earlier := t.Add(-time.Hour); earlier.Hour() == hour && earlier.Minute() == minute && earlier.Before(t) {
		return earlier
	}
	return t
}

// dateOnly strips a timestamp down to its civil date at UTC midnight.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// civilDate is dateOnly after viewing the instant in loc.
func civilDate(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func laterDate(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}

// daysBetween counts whole days from a to b; both must be UTC midnights.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// weekStart returns the Sunday beginning the week containing d.
func weekStart(d time.Time) time.Time {
	return d.AddDate(0, 0, -int(d.Weekday()))
}

func monthStart(d time.Time) time.Time {
	y, m, _ := d.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func daysInMonth(firstOfMonth time.Time) int {
	return firstOfMonth.AddDate(0, 1, -1).Day()
}
