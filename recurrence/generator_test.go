package recurrence

import (
	"testing"
	"time"

	"github.com/DoaogComapny/gnacops-connect-hub-sub001/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func utcOwner() models.Staff {
	return models.Staff{ID: 1, Name: "Ama Mensah", Email: "ama@gnacops.org", Timezone: "UTC"}
}

func dailyRule(interval int, start time.Time) models.RecurrenceRule {
	return models.RecurrenceRule{
		OwnerID:         1,
		Owner:           utcOwner(),
		AppointmentType: models.TypeVirtual,
		DurationMinutes: 30,
		Purpose:         "Membership review",
		Pattern:         models.PatternDaily,
		Interval:        interval,
		TimeOfDay:       "09:00",
		StartDate:       start,
		IsActive:        true,
	}
}

func weeklyRule(interval int, days models.DaysOfWeek, start time.Time) models.RecurrenceRule {
	rule := dailyRule(interval, start)
	rule.Pattern = models.PatternWeekly
	rule.DaysOfWeek = days
	return rule
}

func monthlyRule(interval int, start time.Time) models.RecurrenceRule {
	rule := dailyRule(interval, start)
	rule.Pattern = models.PatternMonthly
	return rule
}

func assertOccurrences(t *testing.T, got []time.Time, want []time.Time) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d occurrences, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Fatalf("occurrence %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestGenerateOccurrences_DailySpacing(t *testing.T) {
	// a daily rule over [start, start + 10*interval days] yields exactly
	// 11 occurrences spaced interval days apart
	for _, interval := range []int{1, 2, 3, 7} {
		start := date(2024, 3, 1)
		rule := dailyRule(interval, start)
		windowEnd := start.AddDate(0, 0, 10*interval).Add(23 * time.Hour)

		occurrences := GenerateOccurrences(rule, start, windowEnd)
		if len(occurrences) != 11 {
			t.Fatalf("interval %d: expected 11 occurrences, got %d", interval, len(occurrences))
		}
		for i := 1; i < len(occurrences); i++ {
			gap := occurrences[i].Sub(occurrences[i-1])
			if gap != time.Duration(interval)*24*time.Hour {
				t.Fatalf("interval %d: expected %d-day gap, got %v", interval, interval, gap)
			}
		}
	}
}

func TestGenerateOccurrences_DailyWindowIntersection(t *testing.T) {
	start := date(2024, 1, 1)
	end := date(2024, 1, 10)
	rule := dailyRule(1, start)
	rule.EndDate = &end

	// window reaches past the rule's end date; expansion must stop there
	occurrences := GenerateOccurrences(rule, date(2024, 1, 5), date(2024, 2, 1))
	want := []time.Time{
		time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 6, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 7, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 9, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC),
	}
	assertOccurrences(t, occurrences, want)
}

func TestGenerateOccurrences_DailyIntervalAnchorsOnStartDate(t *testing.T) {
	// stepping is anchored on start_date even when the window begins on an
	// off-step day
	start := date(2024, 1, 1)
	rule := dailyRule(3, start)

	occurrences := GenerateOccurrences(rule, date(2024, 1, 3), date(2024, 1, 11))
	want := []time.Time{
		time.Date(2024, 1, 4, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 7, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC),
	}
	assertOccurrences(t, occurrences, want)
}

func TestGenerateOccurrences_EmptyWindow(t *testing.T) {
	start := date(2024, 1, 10)
	rule := dailyRule(1, start)

	// window entirely before the rule starts
	if got := GenerateOccurrences(rule, date(2024, 1, 1), date(2024, 1, 5)); len(got) != 0 {
		t.Fatalf("expected no occurrences before start_date, got %v", got)
	}

	end := date(2024, 1, 20)
	rule.EndDate = &end
	// window entirely after the rule ends
	if got := GenerateOccurrences(rule, date(2024, 2, 1), date(2024, 2, 10)); len(got) != 0 {
		t.Fatalf("expected no occurrences after end_date, got %v", got)
	}
}

func TestGenerateOccurrences_WeeklyMondayThursdayScenario(t *testing.T) {
	// 2024-01-01 is a Monday
	rule := weeklyRule(1, models.DaysOfWeek{1, 4}, date(2024, 1, 1))

	occurrences := GenerateOccurrences(rule, date(2024, 1, 1), date(2024, 1, 15).Add(23*time.Hour))
	want := []time.Time{
		time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 4, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 11, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC),
	}
	assertOccurrences(t, occurrences, want)
}

func TestGenerateOccurrences_WeeklyTwoPerWeek(t *testing.T) {
	// Mon/Wed every week: any aligned 7-day window holds exactly 2
	rule := weeklyRule(1, models.DaysOfWeek{1, 3}, date(2024, 1, 1))

	for week := 0; week < 4; week++ {
		from := date(2024, 1, 1).AddDate(0, 0, 7*week)
		to := from.AddDate(0, 0, 6).Add(23 * time.Hour)
		occurrences := GenerateOccurrences(rule, from, to)
		if len(occurrences) != 2 {
			t.Fatalf("week %d: expected 2 occurrences, got %d: %v", week, len(occurrences), occurrences)
		}
	}
}

func TestGenerateOccurrences_WeeklyAlternatingWeeks(t *testing.T) {
	// every 2 weeks on Monday, anchored to the week of start_date
	rule := weeklyRule(2, models.DaysOfWeek{1}, date(2024, 1, 1))

	occurrences := GenerateOccurrences(rule, date(2024, 1, 1), date(2024, 2, 5).Add(23*time.Hour))
	want := []time.Time{
		time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 29, 9, 0, 0, 0, time.UTC),
	}
	assertOccurrences(t, occurrences, want)
}

func TestGenerateOccurrences_MonthlyEndOfMonthRollsBack(t *testing.T) {
	// start on the 31st; shorter months roll back to their last day
	rule := monthlyRule(1, date(2024, 1, 31))

	occurrences := GenerateOccurrences(rule, date(2024, 1, 1), date(2024, 4, 30).Add(23*time.Hour))
	want := []time.Time{
		time.Date(2024, 1, 31, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 29, 9, 0, 0, 0, time.UTC), // leap year
		time.Date(2024, 3, 31, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 4, 30, 9, 0, 0, 0, time.UTC),
	}
	assertOccurrences(t, occurrences, want)
}

func TestGenerateOccurrences_MonthlyInterval(t *testing.T) {
	rule := monthlyRule(2, date(2024, 1, 15))

	occurrences := GenerateOccurrences(rule, date(2024, 1, 1), date(2024, 6, 30).Add(23*time.Hour))
	want := []time.Time{
		time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 15, 9, 0, 0, 0, time.UTC),
	}
	assertOccurrences(t, occurrences, want)
}

func TestGenerateOccurrences_Deterministic(t *testing.T) {
	rule := weeklyRule(2, models.DaysOfWeek{1, 3, 5}, date(2024, 1, 1))
	from, to := date(2024, 1, 1), date(2024, 6, 30)

	first := GenerateOccurrences(rule, from, to)
	second := GenerateOccurrences(rule, from, to)
	assertOccurrences(t, second, first)

	for i := 1; i < len(first); i++ {
		if !first[i-1].Before(first[i]) {
			t.Fatalf("occurrences out of order at %d: %v then %v", i, first[i-1], first[i])
		}
	}
}

func TestGenerateOccurrences_SpringForwardGap(t *testing.T) {
	// US DST starts 2024-03-10 at 02:00; 02:30 does not exist that day
	// and must shift to the first instant after the transition
	rule := dailyRule(1, date(2024, 3, 9))
	rule.Owner.Timezone = "America/New_York"
	rule.TimeOfDay = "02:30"

	occurrences := GenerateOccurrences(rule, date(2024, 3, 9), date(2024, 3, 11).Add(23*time.Hour))
	if len(occurrences) != 3 {
		t.Fatalf("expected 3 occurrences, got %d: %v", len(occurrences), occurrences)
	}

	// 2024-03-09 02:30 EST = 07:30 UTC
	if want := time.Date(2024, 3, 9, 7, 30, 0, 0, time.UTC); !occurrences[0].Equal(want) {
		t.Fatalf("day before transition: expected %v, got %v", want, occurrences[0].UTC())
	}
	// gap day: 03:00 EDT = 07:00 UTC
	if want := time.Date(2024, 3, 10, 7, 0, 0, 0, time.UTC); !occurrences[1].Equal(want) {
		t.Fatalf("gap day: expected %v, got %v", want, occurrences[1].UTC())
	}
	// 2024-03-11 02:30 EDT = 06:30 UTC
	if want := time.Date(2024, 3, 11, 6, 30, 0, 0, time.UTC); !occurrences[2].Equal(want) {
		t.Fatalf("day after transition: expected %v, got %v", want, occurrences[2].UTC())
	}
}

func TestGenerateOccurrences_FallBackTakesEarlierInstant(t *testing.T) {
	// US DST ends 2024-11-03 at 02:00; 01:30 happens twice and must
	// resolve to the earlier-UTC occurrence (01:30 EDT = 05:30 UTC)
	rule := dailyRule(1, date(2024, 11, 3))
	rule.Owner.Timezone = "America/New_York"
	rule.TimeOfDay = "01:30"

	occurrences := GenerateOccurrences(rule, date(2024, 11, 3), date(2024, 11, 3).Add(23*time.Hour))
	if len(occurrences) != 1 {
		t.Fatalf("expected 1 occurrence, got %d: %v", len(occurrences), occurrences)
	}
	if want := time.Date(2024, 11, 3, 5, 30, 0, 0, time.UTC); !occurrences[0].Equal(want) {
		t.Fatalf("expected earlier-UTC occurrence %v, got %v", want, occurrences[0].UTC())
	}
}
