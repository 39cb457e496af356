package recurrence

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrDuplicateOccurrence is returned by a Store when an insert hits the
// (rule_id, scheduled_at) uniqueness constraint. The materializer treats it
// as "already materialized", not as a failure.
var ErrDuplicateOccurrence = errors.New("occurrence already materialized")

// ErrRuleLocked is returned when a materialization pass for the same rule is
// already running.
var ErrRuleLocked = errors.New("materialization already in progress for rule")

// ValidationError reports every field of a rule that failed validation.
// Nothing is persisted when it is returned.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid recurrence rule: " + strings.Join(e.Fields, "; ")
}

// PartialMaterializationError means some occurrences in a pass could not be
// inserted. The pass completed for the remainder; failed instants are retried
// on the next cycle.
type PartialMaterializationError struct {
	RuleID uint
	Failed []time.Time
	Errs   []error
}

func (e *PartialMaterializationError) Error() string {
	return fmt.Sprintf("materialization of rule %d failed for %d of its occurrences", e.RuleID, len(e.Failed))
}
