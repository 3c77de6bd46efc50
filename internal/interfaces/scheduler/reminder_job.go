package scheduler

import (
	"context"
	"fmt"
	"strconv"

	"contas/internal/domain/reminder"
)

// ReminderDeliveryJob delivers a single claimed reminder event through
// the worker pool.
type ReminderDeliveryJob struct {
	event   *reminder.ReminderEvent
	service *reminder.Service
}

func NewReminderDeliveryJob(event *reminder.ReminderEvent, service *reminder.Service) *ReminderDeliveryJob {
	return &ReminderDeliveryJob{event: event, service: service}
}

func (j *ReminderDeliveryJob) Execute(ctx context.Context) error {
	if err := j.service.Deliver(ctx, j.event); err != nil {
		return fmt.Errorf("reminder delivery failed: %w", err)
	}
	return nil
}

func (j *ReminderDeliveryJob) UserID() string {
	return strconv.FormatInt(j.event.UserID, 10)
}

func (j *ReminderDeliveryJob) Description() string {
	return fmt.Sprintf("Reminder %s for bill %s", j.event.Kind, j.event.BillID)
}
