package schedulerRepo

import (
	"context"
	"fmt"
	"time"

	"edubooking/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoSchedulerRepo implements AppointmentRepository and AvailabilityRepository using MongoDB.
type MongoSchedulerRepo struct {
	appointmentColl *mongo.Collection
	ruleColl        *mongo.Collection
	blockColl       *mongo.Collection
	guardColl       *mongo.Collection
}

// NewMongoSchedulerRepo constructs a new instance of MongoSchedulerRepo.
func NewMongoSchedulerRepo(db *mongo.Database) *MongoSchedulerRepo {
	repo := &MongoSchedulerRepo{
		appointmentColl: db.Collection("appointments"),
		ruleColl:        db.Collection("availability_rules"),
		blockColl:       db.Collection("time_blocks"),
		guardColl:       db.Collection("slot_guards"),
	}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create scheduler indexes: %v\n", err)
	}
	return repo
}

// GetActiveRules retrieves the active weekly availability windows of an instructor for a weekday.
func (repo *MongoSchedulerRepo) GetActiveRules(ctx context.Context, instructorID string, day time.Weekday) ([]models.AvailabilityRule, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"instructor_id": instructorID, "day_of_week": day, "active": true}
	cursor, err := repo.ruleColl.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error fetching availability rules: %w", err)
	}
	defer cursor.Close(ctx)

	var rules []models.AvailabilityRule
	if err := cursor.All(ctx, &rules); err != nil {
		return nil, fmt.Errorf("error decoding availability rules: %w", err)
	}
	return rules, nil
}

// GetActiveBlocks retrieves all blocked periods for a given instructor and date.
func (repo *MongoSchedulerRepo) GetActiveBlocks(ctx context.Context, instructorID, date string) ([]models.TimeBlock, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"instructor_id": instructorID, "date": date, "blocked": true}
	cursor, err := repo.blockColl.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error fetching time blocks: %w", err)
	}
	defer cursor.Close(ctx)

	var blocks []models.TimeBlock
	for cursor.Next(ctx) {
		var b models.TimeBlock
		if err := cursor.Decode(&b); err != nil {
			return nil, fmt.Errorf("error decoding time block: %w", err)
		}
		blocks = append(blocks, b)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return blocks, nil
}
