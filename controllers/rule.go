package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/DoaogComapny/gnacops-connect-hub-sub001/db"
	"github.com/DoaogComapny/gnacops-connect-hub-sub001/models"
	"github.com/DoaogComapny/gnacops-connect-hub-sub001/recurrence"
	"github.com/DoaogComapny/gnacops-connect-hub-sub001/redis"
	"github.com/DoaogComapny/gnacops-connect-hub-sub001/utils"
)

func newMaterializer() *recurrence.Materializer {
	return &recurrence.Materializer{
		Store:   db.NewStore(db.DB),
		Locker:  redis.NewLocker(),
		LockTTL: time.Minute,
	}
}

func staffIDFromContext(c *fiber.Ctx) (uint, bool) {
	staffID, ok := c.Locals("staffID").(uint)
	return staffID, ok
}

// CreateRule validates and persists a new recurrence rule, then runs an
// immediate materialization pass so the first occurrences show up without
// waiting for the hourly sweep.
func CreateRule(c *fiber.Ctx) error {
	staffID, ok := staffIDFromContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Staff ID not found in context",
		})
	}

	var rule models.RecurrenceRule
	if err := c.BodyParser(&rule); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}
	rule.OwnerID = staffID

	rule, err := recurrence.ValidateRule(rule)
	if err != nil {
		var verr *recurrence.ValidationError
		if errors.As(err, &verr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Rule validation failed",
				"errors":  verr.Fields,
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Rule validation failed",
			Error:   err.Error(),
		})
	}

	if err := db.DB.Create(&rule).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to create rule",
			Error:   err.Error(),
		})
	}

	// reload with owner so occurrence times resolve in their timezone
	created, err := db.NewStore(db.DB).RuleByID(rule.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to load created rule",
			Error:   err.Error(),
		})
	}

	result, err := newMaterializer().Materialize(created, time.Now(), utils.HorizonDays())
	if err != nil && !errors.Is(err, recurrence.ErrRuleLocked) {
		var partial *recurrence.PartialMaterializationError
		if !errors.As(err, &partial) {
			return c.Status(fiber.StatusCreated).JSON(fiber.Map{
				"rule":    created,
				"warning": "rule saved but materialization failed; occurrences will be created on the next scheduled pass",
			})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"rule":            created,
		"materialization": result,
	})
}

// GetRules lists the authenticated staff member's rules
func GetRules(c *fiber.Ctx) error {
	staffID, ok := staffIDFromContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Staff ID not found in context",
		})
	}

	query := db.DB.Where("owner_id = ?", staffID)
	if active := c.Query("active"); active != "" {
		query = query.Where("is_active = ?", active == "true")
	}

	var rules []models.RecurrenceRule
	if err := query.Order("created_at desc").Find(&rules).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch rules",
			Error:   err.Error(),
		})
	}
	return c.JSON(rules)
}

// GetRule fetches one rule owned by the caller
func GetRule(c *fiber.Ctx) error {
	rule, ok, errResp := loadOwnedRule(c)
	if !ok {
		return errResp
	}
	return c.JSON(rule)
}

// rulePatch is the update payload. Pointer fields distinguish "leave alone"
// from "set to this value"; clear_end_date makes the rule open-ended again,
// which a *time.Time alone cannot express through JSON.
type rulePatch struct {
	AppointmentType *models.AppointmentType   `json:"appointment_type"`
	DurationMinutes *int                      `json:"duration_minutes"`
	Purpose         *string                   `json:"purpose"`
	Pattern         *models.RecurrencePattern `json:"pattern"`
	Interval        *int                      `json:"interval"`
	DaysOfWeek      *models.DaysOfWeek        `json:"days_of_week"`
	TimeOfDay       *string                   `json:"time_of_day"`
	StartDate       *time.Time                `json:"start_date"`
	EndDate         *time.Time                `json:"end_date"`
	ClearEndDate    bool                      `json:"clear_end_date"`
}

func applyRulePatch(rule models.RecurrenceRule, patch rulePatch) models.RecurrenceRule {
	if patch.AppointmentType != nil {
		rule.AppointmentType = *patch.AppointmentType
	}
	if patch.DurationMinutes != nil {
		rule.DurationMinutes = *patch.DurationMinutes
	}
	if patch.Purpose != nil {
		rule.Purpose = *patch.Purpose
	}
	if patch.Pattern != nil {
		rule.Pattern = *patch.Pattern
	}
	if patch.Interval != nil {
		rule.Interval = *patch.Interval
	}
	if patch.DaysOfWeek != nil {
		rule.DaysOfWeek = *patch.DaysOfWeek
	}
	if patch.TimeOfDay != nil {
		rule.TimeOfDay = *patch.TimeOfDay
	}
	if patch.StartDate != nil {
		rule.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		rule.EndDate = patch.EndDate
	}
	if patch.ClearEndDate {
		rule.EndDate = nil
	}
	return rule
}

// UpdateRule applies changes to a rule, re-validates the merged result, and
// re-materializes its future occurrences: pending rows whose instant the new
// schedule still produces stay pending, stale ones are removed, and missing
// ones are inserted.
func UpdateRule(c *fiber.Ctx) error {
	rule, ok, errResp := loadOwnedRule(c)
	if !ok {
		return errResp
	}

	var patch rulePatch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	merged, err := recurrence.ValidateRule(applyRulePatch(*rule, patch))
	if err != nil {
		var verr *recurrence.ValidationError
		if errors.As(err, &verr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Rule validation failed",
				"errors":  verr.Fields,
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Rule validation failed",
			Error:   err.Error(),
		})
	}

	if err := db.DB.Omit("Owner", "Appointments").Save(&merged).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to update rule",
			Error:   err.Error(),
		})
	}

	result, merr := newMaterializer().Rematerialize(&merged, time.Now(), utils.HorizonDays())
	if merr != nil && !errors.Is(merr, recurrence.ErrRuleLocked) {
		var partial *recurrence.PartialMaterializationError
		if !errors.As(merr, &partial) {
			return c.JSON(fiber.Map{
				"rule":    merged,
				"warning": "rule updated but materialization failed; occurrences will be rebuilt on the next scheduled pass",
			})
		}
	}

	return c.JSON(fiber.Map{
		"rule":            merged,
		"materialization": result,
	})
}

// SetRuleActive toggles a rule on or off. Deactivating with cancel_future
// cancels the rule's future pending appointments; approved and completed
// ones are left alone.
func SetRuleActive(c *fiber.Ctx) error {
	rule, ok, errResp := loadOwnedRule(c)
	if !ok {
		return errResp
	}

	type activeRequest struct {
		Active       bool `json:"active"`
		CancelFuture bool `json:"cancel_future"`
	}
	var req activeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	controller := recurrence.ActivationController{Store: db.NewStore(db.DB)}
	if err := controller.SetActive(rule.ID, req.Active, req.CancelFuture); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to change rule state",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"id":     rule.ID,
		"active": req.Active,
	})
}

// DeleteRule cancels the rule's future pending appointments and removes it
func DeleteRule(c *fiber.Ctx) error {
	rule, ok, errResp := loadOwnedRule(c)
	if !ok {
		return errResp
	}

	controller := recurrence.ActivationController{Store: db.NewStore(db.DB)}
	if err := controller.DeleteRule(rule.ID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to delete rule",
			Error:   err.Error(),
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// MaterializeRule is the manual trigger behind the "refresh schedule" action
func MaterializeRule(c *fiber.Ctx) error {
	rule, ok, errResp := loadOwnedRule(c)
	if !ok {
		return errResp
	}

	result, err := newMaterializer().Materialize(rule, time.Now(), utils.HorizonDays())
	if err != nil {
		if errors.Is(err, recurrence.ErrRuleLocked) {
			return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
				Message: "A materialization pass for this rule is already running",
				Error:   err.Error(),
			})
		}
		var partial *recurrence.PartialMaterializationError
		if errors.As(err, &partial) {
			return c.JSON(fiber.Map{
				"materialization": result,
				"warning":         partial.Error() + "; failed occurrences will be retried on the next pass",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Materialization failed",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"materialization": result,
	})
}

// loadOwnedRule fetches the rule in the path and enforces that it belongs to
// the authenticated staff member. When ok is false the response has already
// been written and the handler should return the accompanying error.
func loadOwnedRule(c *fiber.Ctx) (*models.RecurrenceRule, bool, error) {
	staffID, ok := staffIDFromContext(c)
	if !ok {
		return nil, false, c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Staff ID not found in context",
		})
	}

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return nil, false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid rule ID",
		})
	}

	rule, err := db.NewStore(db.DB).RuleByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Rule not found",
			})
		}
		return nil, false, c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch rule",
			Error:   err.Error(),
		})
	}

	if rule.OwnerID != staffID {
		return nil, false, c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Rule belongs to another staff member",
		})
	}
	return rule, true, nil
}
