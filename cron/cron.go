package cron

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/DoaogComapny/gnacops-connect-hub-sub001/db"
	"github.com/DoaogComapny/gnacops-connect-hub-sub001/models"
	"github.com/DoaogComapny/gnacops-connect-hub-sub001/recurrence"
	"github.com/DoaogComapny/gnacops-connect-hub-sub001/redis"
	"github.com/DoaogComapny/gnacops-connect-hub-sub001/utils"
)

// StartCronJobs initializes and starts the background scheduler: the hourly
// materialization sweep, the new-occurrence notifier and appointment
// reminders
func StartCronJobs() {
	fmt.Println("Starting cron job scheduler...")
	c := cron.New()

	// Expand every active rule over the rolling horizon once an hour
	_, err := c.AddFunc("0 * * * *", materializeActiveRules)
	if err != nil {
		log.Fatalf("Failed to add materialization cron job: %v", err)
	}
	// Announce freshly materialized pending appointments every minute
	_, err = c.AddFunc("* * * * *", notifyNewAppointments)
	if err != nil {
		log.Fatalf("Failed to add notifier cron job: %v", err)
	}
	// Remind owners of approved appointments starting in the next hour
	_, err = c.AddFunc("* * * * *", sendAppointmentReminders)
	if err != nil {
		log.Fatalf("Failed to add reminder cron job: %v", err)
	}

	c.Start()
	log.Println("Cron job scheduler started")
}

// materializeActiveRules runs one materialization pass per active rule.
// Rule failures are independent: a bad rule is logged and the sweep moves on.
func materializeActiveRules() {
	store := db.NewStore(db.DB)
	rules, err := store.ActiveRules()
	if err != nil {
		log.Printf("Error fetching active rules for materialization: %v", err)
		return
	}

	materializer := &recurrence.Materializer{
		Store:   store,
		Locker:  redis.NewLocker(),
		LockTTL: time.Minute,
	}

	horizon := utils.HorizonDays()
	now := time.Now()
	for i := range rules {
		rule := &rules[i]
		result, err := materializer.Materialize(rule, now, horizon)
		switch {
		case err == nil:
			if len(result.Created) > 0 {
				log.Printf("Materialized %d new appointments for rule %d", len(result.Created), rule.ID)
			}
		case errors.Is(err, recurrence.ErrRuleLocked):
			log.Printf("Skipping rule %d, another pass holds its lock", rule.ID)
		default:
			// includes partial failures; missing occurrences are
			// picked up again on the next sweep
			log.Printf("Materialization pass for rule %d: %v", rule.ID, err)
		}
	}
}

// notifyNewAppointments emails owners about pending appointments that have
// not been announced yet, then stamps them so they are announced only once.
func notifyNewAppointments() {
	var appointments []models.Appointment
	err := db.DB.Preload("Owner").Preload("Rule").
		Where("status = ? AND notified_at IS NULL", models.StatusPending).
		Find(&appointments).Error
	if err != nil {
		log.Printf("Error fetching appointments for notification: %v", err)
		return
	}

	for i := range appointments {
		appointment := &appointments[i]
		if err := sendNewAppointmentEmail(appointment); err != nil {
			// non-fatal: the row stays unstamped and is retried
			log.Printf("Failed to notify for appointment %d: %v", appointment.ID, err)
			continue
		}
		now := time.Now()
		if err := db.DB.Model(appointment).Update("notified_at", &now).Error; err != nil {
			log.Printf("Failed to stamp notification for appointment %d: %v", appointment.ID, err)
		}
	}
}

// sendAppointmentReminders checks for approved appointments and sends reminders
func sendAppointmentReminders() {
	var appointments []models.Appointment
	now := time.Now()
	// Look for appointments starting in the next hour
	startWindow := now.Add(55 * time.Minute)
	endWindow := now.Add(65 * time.Minute)

	err := db.DB.Preload("Owner").Preload("Rule").
		Where("status = ? AND scheduled_at BETWEEN ? AND ?", models.StatusApproved, startWindow, endWindow).
		Find(&appointments).Error
	if err != nil {
		log.Printf("Error fetching appointments for reminders: %v", err)
		return
	}

	for i := range appointments {
		appointment := &appointments[i]
		if err := sendReminderEmail(appointment); err != nil {
			log.Printf("Failed to send reminder for appointment %d: %v", appointment.ID, err)
			continue
		}
		log.Printf("Sent reminder for appointment %d to %s", appointment.ID, appointment.Owner.Email)
	}
}

// sendNewAppointmentEmail announces a freshly materialized occurrence
func sendNewAppointmentEmail(appointment *models.Appointment) error {
	local := appointment.ScheduledAt.In(appointment.Owner.Location())
	subject := fmt.Sprintf("New Appointment Scheduled - %s", appointment.Purpose)
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>A new appointment has been added to your schedule and is awaiting review.</p>
		<p><strong>Details:</strong></p>
		<ul>
			<li><strong>Purpose:</strong> %s</li>
			<li><strong>Type:</strong> %s</li>
			<li><strong>Scheduled At:</strong> %s</li>
			<li><strong>Duration:</strong> %d minutes</li>
		</ul>
		<p>Approve or reject it from your GNACOPS dashboard.</p>
		<p>Best regards,</p>
		<p>GNACOPS Connect Hub</p>
	`, appointment.Owner.Name, appointment.Purpose, appointment.AppointmentType,
		local.Format("2006-01-02 15:04"), appointment.DurationMinutes)

	return utils.SendEmail(appointment.Owner.Email, subject, body)
}

// sendReminderEmail constructs and sends the reminder email
func sendReminderEmail(appointment *models.Appointment) error {
	local := appointment.ScheduledAt.In(appointment.Owner.Location())
	subject := fmt.Sprintf("Reminder: Upcoming Appointment - %s", appointment.Purpose)
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>This is a reminder for your upcoming appointment scheduled in one hour.</p>
		<p><strong>Details:</strong></p>
		<ul>
			<li><strong>Purpose:</strong> %s</li>
			<li><strong>Type:</strong> %s</li>
			<li><strong>Start Time:</strong> %s</li>
			<li><strong>End Time:</strong> %s</li>
			<li><strong>Status:</strong> %s</li>
		</ul>
		<p>If you need to reschedule, update the appointment as soon as possible.</p>
		<p>Best regards,</p>
		<p>GNACOPS Connect Hub</p>
	`, appointment.Owner.Name, appointment.Purpose, appointment.AppointmentType,
		local.Format("2006-01-02 15:04"),
		appointment.EndTime().In(appointment.Owner.Location()).Format("2006-01-02 15:04"),
		appointment.Status)

	return utils.SendEmail(appointment.Owner.Email, subject, body)
}
