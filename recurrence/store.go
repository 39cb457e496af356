package recurrence

import (
	"time"

	"github.com/DoaogComapny/gnacops-connect-hub-sub001/models"
)

// Store is the row-level persistence the engine needs for rules and
// appointments. The gorm implementation lives in the db package; tests use an
// in-memory fake.
type Store interface {
	RuleByID(id uint) (*models.RecurrenceRule, error)
	ActiveRules() ([]models.RecurrenceRule, error)
	SetRuleActive(id uint, active bool) error
	DeleteRule(id uint) error

	// AppointmentsInWindow returns the rule's appointments with
	// scheduled_at inside [from, to], any status.
	AppointmentsInWindow(ruleID uint, from, to time.Time) ([]models.Appointment, error)
	// CreateAppointment inserts one row, returning ErrDuplicateOccurrence
	// when the (rule_id, scheduled_at) constraint fires.
	CreateAppointment(a *models.Appointment) error
	// CancelFuturePending flips the rule's pending appointments scheduled
	// after the given instant to cancelled and reports how many changed.
	CancelFuturePending(ruleID uint, after time.Time) (int64, error)
	// DeletePending removes the given rows for good, skipping any that are
	// no longer pending, so their (rule_id, scheduled_at) slot is reusable.
	DeletePending(ids []uint) (int64, error)
}

// Locker serializes materialization passes for the same rule. Acquire
// reports false when another pass holds the lock.
type Locker interface {
	Acquire(key string, ttl time.Duration) (bool, error)
	Release(key string) error
}
