package schedulerRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"edubooking/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrAppointmentNotFound is returned when no appointment matches an ID.
var ErrAppointmentNotFound = errors.New("appointment not found")

// overlapFilter matches non-cancelled appointments of an instructor on date whose
// interval intersects [start, end): existing.start < end AND existing.end > start.
func overlapFilter(instructorID, date string, start, end int) bson.M {
	return bson.M{
		"instructor_id": instructorID,
		"date":          date,
		"status":        bson.M{"$ne": models.AppointmentStatusCancelled},
		"start":         bson.M{"$lt": end},
		"end":           bson.M{"$gt": start},
	}
}

// FindOverlappingAppointments lists non-cancelled appointments colliding with the window.
func (repo *MongoSchedulerRepo) FindOverlappingAppointments(ctx context.Context, instructorID, date string, start, end int) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := repo.appointmentColl.Find(ctx, overlapFilter(instructorID, date, start, end))
	if err != nil {
		return nil, fmt.Errorf("error finding overlapping appointments: %w", err)
	}
	defer cursor.Close(ctx)

	var appts []models.Appointment
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("error decoding appointments: %w", err)
	}
	return appts, nil
}

// GetAppointmentByID retrieves an appointment document by ID.
func (repo *MongoSchedulerRepo) GetAppointmentByID(ctx context.Context, id string) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var appt models.Appointment
	if err := repo.appointmentColl.FindOne(ctx, bson.M{"id": id}).Decode(&appt); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("error fetching appointment with id %s: %w", id, err)
	}
	return &appt, nil
}
