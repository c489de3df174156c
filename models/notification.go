package models

import "time"

// NotificationKind identifies which message of the cascade a record represents.
type NotificationKind string

const (
	NotificationConfirmation NotificationKind = "confirmation"
	NotificationReminder24h  NotificationKind = "reminder_24h"
	NotificationReminder1h   NotificationKind = "reminder_1h"
)

// NotificationRecord is a pending work item for the downstream delivery worker.
type NotificationRecord struct {
	ID            string            `bson:"id" json:"id"`
	AppointmentID string            `bson:"appointment_id" json:"appointmentId"`
	UserID        string            `bson:"user_id" json:"userId"`
	Kind          NotificationKind  `bson:"kind" json:"kind"`
	ScheduledAt   time.Time         `bson:"scheduled_at" json:"scheduledAt"`
	Sent          bool              `bson:"sent" json:"sent"`
	TemplateData  map[string]string `bson:"template_data,omitempty" json:"templateData,omitempty"`
	CreatedAt     time.Time         `bson:"created_at" json:"createdAt"`
}

// DispatchPayload is the queue message a delivery worker receives for a record.
type DispatchPayload struct {
	NotificationID string           `json:"notificationId"`
	AppointmentID  string           `json:"appointmentId"`
	UserID         string           `json:"userId"`
	Kind           NotificationKind `json:"kind"`
	FireDate       string           `json:"fireDate"`
}
