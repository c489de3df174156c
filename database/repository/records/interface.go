package recordsRepo

import (
	"context"

	"edubooking/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// NotificationRepository persists pending notification records for the delivery worker.
type NotificationRepository interface {
	InsertMany(ctx context.Context, records []models.NotificationRecord) error
	GetByAppointmentID(ctx context.Context, appointmentID string) ([]models.NotificationRecord, error)
}

type mongoNotificationRepo struct {
	coll *mongo.Collection
}

// NewMongoNotificationRepo returns a NotificationRepository backed by MongoDB.
func NewMongoNotificationRepo(db *mongo.Database) NotificationRepository {
	return &mongoNotificationRepo{
		coll: db.Collection("notifications"),
	}
}
