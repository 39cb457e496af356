package db

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/DoaogComapny/gnacops-connect-hub-sub001/models"
	"github.com/DoaogComapny/gnacops-connect-hub-sub001/recurrence"
)

// Store adapts gorm to the recurrence engine's persistence contract.
type Store struct {
	db *gorm.DB
}

func NewStore(g *gorm.DB) *Store {
	return &Store{db: g}
}

func (s *Store) RuleByID(id uint) (*models.RecurrenceRule, error) {
	var rule models.RecurrenceRule
	if err := s.db.Preload("Owner").First(&rule, id).Error; err != nil {
		return nil, err
	}
	return &rule, nil
}

func (s *Store) ActiveRules() ([]models.RecurrenceRule, error) {
	var rules []models.RecurrenceRule
	if err := s.db.Preload("Owner").Where("is_active = ?", true).Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

func (s *Store) SetRuleActive(id uint, active bool) error {
	result := s.db.Model(&models.RecurrenceRule{}).Where("id = ?", id).Update("is_active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *Store) DeleteRule(id uint) error {
	return s.db.Delete(&models.RecurrenceRule{}, id).Error
}

func (s *Store) AppointmentsInWindow(ruleID uint, from, to time.Time) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := s.db.
		Where("rule_id = ?", ruleID).
		Where("scheduled_at >= ? AND scheduled_at <= ?", from, to).
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (s *Store) CreateAppointment(a *models.Appointment) error {
	if err := s.db.Create(a).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %v", recurrence.ErrDuplicateOccurrence, err)
		}
		return err
	}
	return nil
}

func (s *Store) CancelFuturePending(ruleID uint, after time.Time) (int64, error) {
	result := s.db.Model(&models.Appointment{}).
		Where("rule_id = ?", ruleID).
		Where("scheduled_at > ?", after).
		Where("status = ?", models.StatusPending).
		Update("status", models.StatusCancelled)
	return result.RowsAffected, result.Error
}

func (s *Store) DeletePending(ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	// Unscoped: a soft-deleted row would still occupy its unique-index slot
	result := s.db.Unscoped().
		Where("id IN ?", ids).
		Where("status = ?", models.StatusPending).
		Delete(&models.Appointment{})
	return result.RowsAffected, result.Error
}
