package recurrence

import (
	"time"
)

// ActivationController toggles rules on and off and handles the cancellation
// side of deactivation and deletion. Past and approved/completed appointments
// are never auto-cancelled; only future pending rows are.
type ActivationController struct {
	Store Store
	Now   func() time.Time // defaults to time.Now
}

func (c *ActivationController) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// SetActive flips the rule's active flag. Reactivating does not backfill
// missed occurrences; materialization simply resumes from "now" on the next
// pass. Deactivating with cancelFuture cancels the rule's future pending
// appointments.
func (c *ActivationController) SetActive(ruleID uint, active bool, cancelFuture bool) error {
	if err := c.Store.SetRuleActive(ruleID, active); err != nil {
		return err
	}
	if !active && cancelFuture {
		if _, err := c.Store.CancelFuturePending(ruleID, c.now()); err != nil {
			return err
		}
	}
	return nil
}

// DeleteRule cancels the rule's future pending appointments, then removes the
// rule record. Past and completed rows stay untouched.
func (c *ActivationController) DeleteRule(ruleID uint) error {
	if _, err := c.Store.CancelFuturePending(ruleID, c.now()); err != nil {
		return err
	}
	return c.Store.DeleteRule(ruleID)
}
