package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/DoaogComapny/gnacops-connect-hub-sub001/db"
	"github.com/DoaogComapny/gnacops-connect-hub-sub001/models"
	"github.com/DoaogComapny/gnacops-connect-hub-sub001/utils"
)

// GetAppointments lists the authenticated staff member's appointments with
// optional status, rule and date-range filters
func GetAppointments(c *fiber.Ctx) error {
	staffID, ok := staffIDFromContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Staff ID not found in context",
		})
	}

	limit := 50
	if c.Query("limit") != "" {
		if parsedLimit := c.QueryInt("limit"); parsedLimit > 0 {
			limit = parsedLimit
		}
	}
	page := 1
	if c.Query("page") != "" {
		if parsedPage := c.QueryInt("page"); parsedPage > 0 {
			page = parsedPage
		}
	}

	dateFilter := c.Query("filter", "month")
	startDate, endDate, bounded := appointmentWindow(dateFilter, time.Now())

	query := db.DB.
		Preload("Rule").
		Where("owner_id = ?", staffID)
	if bounded {
		query = query.Where("scheduled_at >= ? AND scheduled_at <= ?", startDate, endDate)
	}

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", models.AppointmentStatus(status))
	}
	if ruleID := c.QueryInt("rule_id"); ruleID > 0 {
		query = query.Where("rule_id = ?", ruleID)
	}

	var appointments []models.Appointment
	if err := query.Order("scheduled_at asc").Limit(limit).Offset((page - 1) * limit).Find(&appointments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch appointments",
			Error:   err.Error(),
		})
	}

	response := fiber.Map{
		"appointments": appointments,
		"count":        len(appointments),
		"filter":       dateFilter,
	}
	if bounded {
		response["start_date"] = startDate.Format("2006-01-02")
		response["end_date"] = endDate.Format("2006-01-02")
	}
	return c.JSON(response)
}

// appointmentWindow maps a date filter to its scheduled_at range. The "all"
// filter is unbounded; an unknown filter falls back to the month window.
func appointmentWindow(filter string, now time.Time) (start, end time.Time, bounded bool) {
	switch filter {
	case "today":
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		end = time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())
	case "tomorrow":
		tomorrow := now.AddDate(0, 0, 1)
		start = time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 0, 0, 0, 0, now.Location())
		end = time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 23, 59, 59, 0, now.Location())
	case "week":
		start = now
		end = now.AddDate(0, 0, 7)
	case "all":
		return time.Time{}, time.Time{}, false
	default:
		start = now
		end = now.AddDate(0, 1, 0)
	}
	return start, end, true
}

// GetAppointment fetches one appointment by ID
func GetAppointment(c *fiber.Ctx) error {
	staffID, ok := staffIDFromContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Staff ID not found in context",
		})
	}

	id := c.Params("id")
	var appointment models.Appointment
	if err := db.DB.Preload("Rule").Preload("Owner").First(&appointment, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Appointment not found",
			Error:   err.Error(),
		})
	}
	if appointment.OwnerID != staffID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Appointment belongs to another staff member",
		})
	}
	return c.JSON(appointment)
}

// UpdateAppointmentStatus moves an appointment through its lifecycle:
// approve, reject, complete or cancel. Illegal transitions are refused
// without touching the row.
func UpdateAppointmentStatus(c *fiber.Ctx) error {
	staffID, ok := staffIDFromContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Staff ID not found in context",
		})
	}

	type statusRequest struct {
		Status models.AppointmentStatus `json:"status"`
	}
	var req statusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	switch req.Status {
	case models.StatusApproved, models.StatusRejected, models.StatusCompleted, models.StatusCancelled:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown target status",
		})
	}

	id := c.Params("id")
	var appointment models.Appointment
	if err := db.DB.First(&appointment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Appointment not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch appointment",
			Error:   err.Error(),
		})
	}
	if appointment.OwnerID != staffID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Appointment belongs to another staff member",
		})
	}

	if err := appointment.UpdateStatus(db.DB, req.Status); err != nil {
		return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
			Message: "Status change not allowed",
			Error:   err.Error(),
		})
	}

	return c.JSON(appointment)
}
