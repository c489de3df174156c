package schedulerRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ensureIndexes creates indexes for fields frequently used in queries.
func (repo *MongoSchedulerRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	appointmentIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "instructor_id", Value: 1}, {Key: "date", Value: 1}, {Key: "start", Value: 1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
	}
	if _, err := repo.appointmentColl.Indexes().CreateMany(ctx, appointmentIndexes); err != nil {
		return fmt.Errorf("failed to create appointment indexes: %w", err)
	}

	ruleIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "instructor_id", Value: 1}, {Key: "day_of_week", Value: 1}}},
	}
	if _, err := repo.ruleColl.Indexes().CreateMany(ctx, ruleIndexes); err != nil {
		return fmt.Errorf("failed to create availability rule indexes: %w", err)
	}

	blockIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "instructor_id", Value: 1}, {Key: "date", Value: 1}}},
	}
	if _, err := repo.blockColl.Indexes().CreateMany(ctx, blockIndexes); err != nil {
		return fmt.Errorf("failed to create time block indexes: %w", err)
	}

	guardIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "instructor_id", Value: 1}, {Key: "date", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := repo.guardColl.Indexes().CreateMany(ctx, guardIndexes); err != nil {
		return fmt.Errorf("failed to create slot guard indexes: %w", err)
	}
	return nil
}
