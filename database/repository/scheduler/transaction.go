package schedulerRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"edubooking/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// slotGuardFilter selects the guard document of one instructor-day.
func slotGuardFilter(instructorID, date string) bson.M {
	return bson.M{"instructor_id": instructorID, "date": date}
}

// slotGuardSeed creates the guard document if it is missing and otherwise leaves it untouched.
// The upsert copies instructor_id and date from the filter.
func slotGuardSeed() bson.M {
	return bson.M{"$setOnInsert": bson.M{"version": 0}}
}

// slotGuardUpdate bumps the guard version. Two transactions writing the same guard
// document conflict, so only one of them commits its overlap check.
func slotGuardUpdate() bson.M {
	return bson.M{"$inc": bson.M{"version": 1}}
}

// InsertAppointment bumps the instructor-day guard, re-checks for overlap and inserts
// inside one transaction. A concurrent insert for the same day hits a write conflict on
// the guard; the driver retries it and the retry sees the committed appointment.
func (repo *MongoSchedulerRepo) InsertAppointment(ctx context.Context, appt *models.Appointment) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// Seed outside the transaction so the in-transaction write always updates an
	// existing document and concurrent writers see a write conflict, not a duplicate key.
	if _, err := repo.guardColl.UpdateOne(ctx,
		slotGuardFilter(appt.InstructorID, appt.Date),
		slotGuardSeed(),
		options.Update().SetUpsert(true),
	); err != nil && !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("slot guard seed failed: %w", err)
	}

	client := repo.appointmentColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := repo.guardColl.UpdateOne(sc,
			slotGuardFilter(appt.InstructorID, appt.Date),
			slotGuardUpdate(),
		); err != nil {
			return nil, fmt.Errorf("slot guard update failed: %w", err)
		}

		n, err := repo.appointmentColl.CountDocuments(sc, overlapFilter(appt.InstructorID, appt.Date, appt.Start, appt.End))
		if err != nil {
			return nil, fmt.Errorf("overlap check failed: %w", err)
		}
		if n > 0 {
			return nil, ErrSlotTaken
		}
		if _, err := repo.appointmentColl.InsertOne(sc, appt); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, ErrSlotTaken
			}
			return nil, fmt.Errorf("insert appointment failed: %w", err)
		}
		return nil, nil
	}

	if _, err := sess.WithTransaction(ctx, txnFn); err != nil {
		if errors.Is(err, ErrSlotTaken) {
			return ErrSlotTaken
		}
		return fmt.Errorf("appointment transaction failed: %w", err)
	}
	return nil
}
