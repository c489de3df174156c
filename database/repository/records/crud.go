package recordsRepo

import (
	"context"
	"fmt"
	"time"

	"edubooking/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// InsertMany stores records in a single ordered write.
func (r *mongoNotificationRepo) InsertMany(ctx context.Context, records []models.NotificationRecord) error {
	if len(records) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	docs := make([]interface{}, len(records))
	for i := range records {
		docs[i] = records[i]
	}
	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert notification records: %w", err)
	}
	return nil
}

// GetByAppointmentID fetches all records scheduled for an appointment ordered by fire time.
func (r *mongoNotificationRepo) GetByAppointmentID(ctx context.Context, appointmentID string) ([]models.NotificationRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "scheduled_at", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"appointment_id": appointmentID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query notification records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []models.NotificationRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode notification records: %w", err)
	}
	return records, nil
}
