// Package mongo implements the repository interfaces on MongoDB.
//
// Two collections are used:
//
//	users     { _id: ObjectId, username, createdAt }
//	exercises { _id: ObjectId, userId: ObjectId, description, duration, date }
//
// Identifiers cross the repository boundary as 24-character hex strings.
// A string that is not valid hex is reported as an ordinary error, not as
// ErrNotFound.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/sakif/exercise-tracker/internal/repository"
)

const (
	usersCollection     = "users"
	exercisesCollection = "exercises"

	connectTimeout = 10 * time.Second
)

// ErrInvalidID is wrapped into errors for identifiers that are not ObjectIDs.
var ErrInvalidID = errors.New("invalid object id")

var _ repository.Store = (*DB)(nil)

// DB holds a connected client and the collections it serves.
type DB struct {
	client    *mongo.Client
	users     *mongo.Collection
	exercises *mongo.Collection
}

// New connects to uri, verifies the connection and makes sure the indexes
// used by log queries exist.
func New(ctx context.Context, uri, database string) (*DB, error) {
	if uri == "" {
		return nil, errors.New("mongo: connection uri is empty")
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo: connecting: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: pinging: %w", err)
	}

	db := &DB{
		client:    client,
		users:     client.Database(database).Collection(usersCollection),
		exercises: client.Database(database).Collection(exercisesCollection),
	}

	_, err = db.exercises.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: 1}},
	})
	if err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: creating exercises index: %w", err)
	}

	return db, nil
}

// Close disconnects the client.
func (db *DB) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	return db.client.Disconnect(ctx)
}

// Ping checks that the primary is reachable.
func (db *DB) Ping(ctx context.Context) error {
	if err := db.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongo: ping: %w", err)
	}
	return nil
}

// parseID converts a hex identifier into an ObjectID.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w %q", ErrInvalidID, id)
	}
	return oid, nil
}
