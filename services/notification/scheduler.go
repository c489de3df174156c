package notification

import (
	"context"
	"fmt"
	"time"

	recordsRepo "edubooking/database/repository/records"
	"edubooking/models"
	"edubooking/services/tasks"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Reminder offsets relative to the appointment start.
const (
	ReminderLead24h = 24 * time.Hour
	ReminderLead1h  = time.Hour
)

// DefaultNotificationScheduler persists the confirmation and reminder records for an
// appointment and offers each one to the dispatch queue.
type DefaultNotificationScheduler struct {
	repo   recordsRepo.NotificationRepository
	queue  Enqueuer
	now    func() time.Time
	logger *zap.Logger
}

// NewNotificationScheduler builds a scheduler. A nil queue only persists records.
func NewNotificationScheduler(repo recordsRepo.NotificationRepository, queue Enqueuer, logger *zap.Logger, now func() time.Time) *DefaultNotificationScheduler {
	if now == nil {
		now = time.Now
	}
	return &DefaultNotificationScheduler{repo: repo, queue: queue, now: now, logger: logger}
}

// BuildRecords computes the cascade: confirmation at now, reminders 24h and 1h before start.
// Past-due reminders are kept; the delivery worker decides what to do with them.
func BuildRecords(appt models.Appointment, startsAt, now time.Time) []models.NotificationRecord {
	data := map[string]string{
		"title":       appt.Title,
		"date":        appt.Date,
		"startTime":   models.FormatClock(appt.Start),
		"endTime":     models.FormatClock(appt.End),
		"meetingType": appt.MeetingType,
	}
	if appt.Location != "" {
		data["location"] = appt.Location
	}

	plan := []struct {
		kind models.NotificationKind
		at   time.Time
	}{
		{models.NotificationConfirmation, now},
		{models.NotificationReminder24h, startsAt.Add(-ReminderLead24h)},
		{models.NotificationReminder1h, startsAt.Add(-ReminderLead1h)},
	}

	records := make([]models.NotificationRecord, 0, len(plan))
	for _, p := range plan {
		td := make(map[string]string, len(data))
		for k, v := range data {
			td[k] = v
		}
		records = append(records, models.NotificationRecord{
			ID:            uuid.New().String(),
			AppointmentID: appt.ID,
			UserID:        appt.UserID,
			Kind:          p.kind,
			ScheduledAt:   p.at,
			Sent:          false,
			TemplateData:  td,
			CreatedAt:     now,
		})
	}
	return records
}

// Schedule persists the records and then enqueues them. Only the persist step can fail the call.
func (s *DefaultNotificationScheduler) Schedule(ctx context.Context, appt models.Appointment, startsAt time.Time) ([]models.NotificationRecord, error) {
	records := BuildRecords(appt, startsAt, s.now())
	if err := s.repo.InsertMany(ctx, records); err != nil {
		return nil, fmt.Errorf("failed to persist notifications for appointment %s: %w", appt.ID, err)
	}
	s.enqueue(ctx, records)
	return records, nil
}

func (s *DefaultNotificationScheduler) enqueue(ctx context.Context, records []models.NotificationRecord) {
	if s.queue == nil {
		return
	}
	for _, r := range records {
		task, opts, err := tasks.NewDispatchTask(models.DispatchPayload{
			NotificationID: r.ID,
			AppointmentID:  r.AppointmentID,
			UserID:         r.UserID,
			Kind:           r.Kind,
			FireDate:       r.ScheduledAt.Format(time.RFC3339),
		}, r.ScheduledAt)
		if err != nil {
			s.logger.Error("Failed to build dispatch task", zap.String("notificationID", r.ID), zap.Error(err))
			continue
		}
		if _, err := s.queue.EnqueueContext(ctx, task, opts...); err != nil {
			s.logger.Warn("Failed to enqueue notification",
				zap.String("notificationID", r.ID),
				zap.String("kind", string(r.Kind)),
				zap.Error(err),
			)
		}
	}
}
