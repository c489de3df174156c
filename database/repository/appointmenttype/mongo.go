package appointmentTypeRepo

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

// MongoAppointmentTypeRepo reads appointment types from MongoDB.
type MongoAppointmentTypeRepo struct {
	coll *mongo.Collection
}

func NewMongoAppointmentTypeRepo(db *mongo.Database) *MongoAppointmentTypeRepo {
	return &MongoAppointmentTypeRepo{coll: db.Collection("appointment_types")}
}

func (r *MongoAppointmentTypeRepo) GetByID(ctx context.Context, id string) (*models.AppointmentType, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var t models.AppointmentType
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTypeNotFound
		}
		return nil, fmt.Errorf("failed to fetch appointment type %s: %w", id, err)
	}
	return &t, nil
}

func (r *MongoAppointmentTypeRepo) ListActive(ctx context.Context) ([]models.AppointmentType, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"active": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointment types: %w", err)
	}
	defer cursor.Close(ctx)

	var types []models.AppointmentType
	if err := cursor.All(ctx, &types); err != nil {
		return nil, fmt.Errorf("failed to decode appointment types: %w", err)
	}
	return types, nil
}
