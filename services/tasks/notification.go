package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"edubooking/models"

	"github.com/hibiken/asynq"
)

const TypeNotificationDispatch = "notification:dispatch"

// NewDispatchTask builds the queue task a delivery worker picks up at fireAt.
// The record ID doubles as the task ID so a record is never enqueued twice.
func NewDispatchTask(payload models.DispatchPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeNotificationDispatch, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.TaskID(payload.NotificationID),
	}

	return task, opts, nil
}

// ParseDispatchPayload decodes a task built by NewDispatchTask.
func ParseDispatchPayload(task *asynq.Task) (models.DispatchPayload, error) {
	var p models.DispatchPayload
	if task.Type() != TypeNotificationDispatch {
		return p, fmt.Errorf("unexpected task type %q", task.Type())
	}
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return p, fmt.Errorf("invalid dispatch payload: %w", err)
	}
	return p, nil
}
