package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"clinicbook/models"
	"clinicbook/utils"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const TypeSendReminder = "reminder:send"

// Reminders fire this long before the session starts.
const reminderLeadTime = 24 * time.Hour

func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendReminder, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}

// AsynqReminderScheduler enqueues session reminders on the asynq queue.
type AsynqReminderScheduler struct {
	Client *asynq.Client
}

func NewAsynqReminderScheduler(client *asynq.Client) *AsynqReminderScheduler {
	return &AsynqReminderScheduler{Client: client}
}

// ScheduleSessionReminder enqueues a push reminder for one scheduled
// session. Sessions starting too soon for the lead time get no reminder.
func (s *AsynqReminderScheduler) ScheduleSessionReminder(ctx context.Context, patientID string, entry models.SessionEntry) error {
	day, err := utils.ParseDate(entry.Date)
	if err != nil {
		return err
	}
	startMin, err := utils.ClockToMinutes(entry.StartTime)
	if err != nil {
		return err
	}

	sessionStart := day.Add(time.Duration(startMin) * time.Minute)
	fireAt := sessionStart.Add(-reminderLeadTime)
	if fireAt.Before(time.Now()) {
		return nil
	}

	payload := models.ReminderPayload{
		ReminderID: uuid.New().String(),
		PatientID:  patientID,
		Title:      "Upcoming therapy session",
		Body:       fmt.Sprintf("You have a session on %s at %s.", entry.Date, entry.StartTime),
		FireDate:   fireAt.Format(time.RFC3339),
	}

	task, opts, err := NewReminderTask(payload, fireAt)
	if err != nil {
		return err
	}
	if _, err := s.Client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue reminder: %w", err)
	}
	return nil
}
