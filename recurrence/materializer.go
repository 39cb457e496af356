package recurrence

import (
	"errors"
	"fmt"
	"time"

	"github.com/DoaogComapny/gnacops-connect-hub-sub001/models"
)

// MaterializeResult reports what one pass did.
type MaterializeResult struct {
	Created   []models.Appointment `json:"created"`
	Unchanged int                  `json:"unchanged"`
	Removed   int64                `json:"removed"`
}

// Materializer reconciles a rule's generated occurrences with its existing
// appointment rows. Each missing occurrence becomes one pending row; rows
// already present are never touched, so a pass with no rule changes is a
// no-op the second time around.
type Materializer struct {
	Store   Store
	Locker  Locker // optional; nil skips per-rule serialization
	LockTTL time.Duration
}

func lockKey(ruleID uint) string {
	return fmt.Sprintf("recurrence:materialize:%d", ruleID)
}

// Materialize runs one pass for the rule over [asOf, asOf + horizonDays].
// Inactive rules produce nothing. Failed inserts are collected into a
// PartialMaterializationError while the pass continues; those instants get
// retried on the next cycle.
func (m *Materializer) Materialize(rule *models.RecurrenceRule, asOf time.Time, horizonDays int) (*MaterializeResult, error) {
	return m.pass(rule, asOf, horizonDays, false)
}

// Rematerialize runs a pass for a rule whose schedule may have changed.
// Future pending rows whose instant the rule no longer produces are removed
// outright so their (rule, instant) slot is free again; rows matching the new
// schedule keep their status, and missing instants are inserted as pending.
// Approved, completed, and cancelled rows are never touched. Inactive rules
// are left alone, same as Materialize.
func (m *Materializer) Rematerialize(rule *models.RecurrenceRule, asOf time.Time, horizonDays int) (*MaterializeResult, error) {
	return m.pass(rule, asOf, horizonDays, true)
}

func (m *Materializer) pass(rule *models.RecurrenceRule, asOf time.Time, horizonDays int, removeStale bool) (*MaterializeResult, error) {
	result := &MaterializeResult{}

	if m.Locker != nil {
		ttl := m.LockTTL
		if ttl <= 0 {
			ttl = time.Minute
		}
		ok, err := m.Locker.Acquire(lockKey(rule.ID), ttl)
		if err != nil {
			return result, err
		}
		if !ok {
			return result, ErrRuleLocked
		}
		defer m.Locker.Release(lockKey(rule.ID))
	}

	if !rule.IsActive {
		return result, nil
	}

	windowEnd := asOf.AddDate(0, 0, horizonDays)
	occurrences := GenerateOccurrences(*rule, asOf, windowEnd)
	if len(occurrences) == 0 && !removeStale {
		return result, nil
	}

	existing, err := m.Store.AppointmentsInWindow(rule.ID, asOf, windowEnd)
	if err != nil {
		return result, err
	}

	if removeStale {
		wanted := make(map[int64]bool, len(occurrences))
		for _, occ := range occurrences {
			wanted[occ.Unix()] = true
		}
		var stale []uint
		kept := existing[:0]
		for _, a := range existing {
			if a.Status == models.StatusPending && a.ScheduledAt.After(asOf) && !wanted[a.ScheduledAt.Unix()] {
				stale = append(stale, a.ID)
				continue
			}
			kept = append(kept, a)
		}
		if len(stale) > 0 {
			n, err := m.Store.DeletePending(stale)
			if err != nil {
				return result, err
			}
			result.Removed = n
			existing = kept
		}
	}

	present := make(map[int64]bool, len(existing))
	for _, a := range existing {
		present[a.ScheduledAt.Unix()] = true
	}

	var failed []time.Time
	var errs []error
	for _, occ := range occurrences {
		if present[occ.Unix()] {
			result.Unchanged++
			continue
		}
		ruleID := rule.ID
		appointment := models.Appointment{
			RuleID:          &ruleID,
			OwnerID:         rule.OwnerID,
			AppointmentType: rule.AppointmentType,
			Purpose:         rule.Purpose,
			ScheduledAt:     occ,
			DurationMinutes: rule.DurationMinutes,
			Status:          models.StatusPending,
		}
		switch err := m.Store.CreateAppointment(&appointment); {
		case err == nil:
			result.Created = append(result.Created, appointment)
		case errors.Is(err, ErrDuplicateOccurrence):
			// a concurrent pass got there first
			result.Unchanged++
		default:
			failed = append(failed, occ)
			errs = append(errs, err)
		}
	}

	if len(failed) > 0 {
		return result, &PartialMaterializationError{RuleID: rule.ID, Failed: failed, Errs: errs}
	}
	return result, nil
}
