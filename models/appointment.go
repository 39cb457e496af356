package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusApproved  AppointmentStatus = "approved"
	StatusRejected  AppointmentStatus = "rejected"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// Appointment is a single concrete occurrence. Rows materialized from a rule
// carry its ID; one-off appointments leave RuleID nil. The unique index on
// (rule_id, scheduled_at) is what makes materialization idempotent under
// concurrent passes.
type Appointment struct {
	gorm.Model
	RuleID          *uint             `json:"rule_id" gorm:"uniqueIndex:idx_rule_occurrence"`
	Rule            *RecurrenceRule   `json:"rule,omitempty" gorm:"foreignKey:RuleID"`
	OwnerID         uint              `json:"owner_id"`
	Owner           Staff             `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	AppointmentType AppointmentType   `json:"appointment_type"`
	Purpose         string            `json:"purpose"`
	ScheduledAt     time.Time         `json:"scheduled_at" gorm:"uniqueIndex:idx_rule_occurrence"`
	DurationMinutes int               `json:"duration_minutes"`
	Status          AppointmentStatus `json:"status"`
	NotifiedAt      *time.Time        `json:"notified_at"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.Status == "" {
		a.Status = StatusPending
	}
	return nil
}

// EndTime returns when the appointment finishes.
func (a *Appointment) EndTime() time.Time {
	return a.ScheduledAt.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

// CanTransition reports whether moving to newStatus is a legal step of the
// appointment lifecycle. Rejected, completed and cancelled are terminal.
func (a *Appointment) CanTransition(newStatus AppointmentStatus) error {
	switch a.Status {
	case StatusPending:
		if newStatus != StatusApproved && newStatus != StatusRejected && newStatus != StatusCancelled {
			return fmt.Errorf("invalid transition from pending to %s", newStatus)
		}
	case StatusApproved:
		if newStatus != StatusCompleted && newStatus != StatusCancelled {
			return fmt.Errorf("invalid transition from approved to %s", newStatus)
		}
	case StatusRejected, StatusCompleted, StatusCancelled:
		return fmt.Errorf("no transitions allowed from %s", a.Status)
	default:
		return fmt.Errorf("unknown status %s", a.Status)
	}
	return nil
}

// UpdateStatus applies a guarded status change and persists it.
func (a *Appointment) UpdateStatus(tx *gorm.DB, newStatus AppointmentStatus) error {
	if err := a.CanTransition(newStatus); err != nil {
		return err
	}
	a.Status = newStatus
	return tx.Save(a).Error
}
