package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sakif/exercise-tracker/internal/model"
	"github.com/sakif/exercise-tracker/internal/repository"
)

type exerciseDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      primitive.ObjectID `bson:"userId"`
	Description string             `bson:"description"`
	Duration    int                `bson:"duration"`
	Date        time.Time          `bson:"date"`
}

func (d exerciseDocument) toModel() model.Exercise {
	return model.Exercise{
		ID:          d.ID.Hex(),
		UserID:      d.UserID.Hex(),
		Description: d.Description,
		Duration:    d.Duration,
		Date:        model.CalendarDate(d.Date),
	}
}

// CreateExercise inserts a new exercise and fills in its ID.
func (db *DB) CreateExercise(ctx context.Context, exercise *model.Exercise) error {
	userID, err := parseID(exercise.UserID)
	if err != nil {
		return fmt.Errorf("mongo: inserting exercise: %w", err)
	}

	doc := exerciseDocument{
		ID:          primitive.NewObjectID(),
		UserID:      userID,
		Description: exercise.Description,
		Duration:    exercise.Duration,
		Date:        model.CalendarDate(exercise.Date),
	}

	if _, err := db.exercises.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("mongo: inserting exercise for user %s: %w", exercise.UserID, err)
	}

	exercise.ID = doc.ID.Hex()
	exercise.Date = doc.Date
	return nil
}

// logFilter builds the query document for a user's log.
func logFilter(userID primitive.ObjectID, filter repository.LogFilter) bson.D {
	q := bson.D{{Key: "userId", Value: userID}}
	if !filter.HasRange() {
		return q
	}

	bounds := bson.D{}
	if !filter.From.IsZero() {
		bounds = append(bounds, bson.E{Key: "$gte", Value: model.CalendarDate(filter.From)})
	}
	if !filter.To.IsZero() {
		bounds = append(bounds, bson.E{Key: "$lte", Value: model.CalendarDate(filter.To)})
	}
	return append(q, bson.E{Key: "date", Value: bounds})
}

// ListExercises returns the user's exercises matching filter in natural order.
func (db *DB) ListExercises(ctx context.Context, userID string, filter repository.LogFilter) ([]model.Exercise, error) {
	oid, err := parseID(userID)
	if err != nil {
		return nil, fmt.Errorf("mongo: listing exercises: %w", err)
	}

	opts := options.Find().SetProjection(bson.D{
		{Key: "userId", Value: 1},
		{Key: "description", Value: 1},
		{Key: "duration", Value: 1},
		{Key: "date", Value: 1},
	})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cursor, err := db.exercises.Find(ctx, logFilter(oid, filter), opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: listing exercises for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	exercises := make([]model.Exercise, 0)
	for cursor.Next(ctx) {
		var doc exerciseDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("mongo: decoding exercise: %w", err)
		}
		exercises = append(exercises, doc.toModel())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("mongo: iterating exercises: %w", err)
	}

	return exercises, nil
}
