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

	"github.com/sakif/exercise-tracker/internal/apperror"
	"github.com/sakif/exercise-tracker/internal/model"
)

type userDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Username  string             `bson:"username"`
	CreatedAt time.Time          `bson:"createdAt,omitempty"`
}

func (d userDocument) toModel() model.User {
	return model.User{
		ID:        d.ID.Hex(),
		Username:  d.Username,
		CreatedAt: d.CreatedAt,
	}
}

var userProjection = bson.D{{Key: "username", Value: 1}}

// CreateUser inserts a new user and fills in its ID and CreatedAt.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	doc := userDocument{
		ID:        primitive.NewObjectID(),
		Username:  user.Username,
		CreatedAt: time.Now().UTC(),
	}

	if _, err := db.users.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("mongo: inserting user %q: %w", user.Username, err)
	}

	user.ID = doc.ID.Hex()
	user.CreatedAt = doc.CreatedAt
	return nil
}

// GetUserByID retrieves a user by id.
// Returns apperror.ErrNotFound if no document has that _id.
func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, fmt.Errorf("mongo: getting user: %w", err)
	}

	var doc userDocument
	err = db.users.FindOne(ctx,
		bson.D{{Key: "_id", Value: oid}},
		options.FindOne().SetProjection(userProjection),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("mongo: getting user %s: %w", id, err)
	}

	u := doc.toModel()
	return &u, nil
}

// ListUsers returns every user in the collection's natural order.
func (db *DB) ListUsers(ctx context.Context) ([]model.User, error) {
	cursor, err := db.users.Find(ctx, bson.D{}, options.Find().SetProjection(userProjection))
	if err != nil {
		return nil, fmt.Errorf("mongo: listing users: %w", err)
	}
	defer cursor.Close(ctx)

	users := make([]model.User, 0)
	for cursor.Next(ctx) {
		var doc userDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("mongo: decoding user: %w", err)
		}
		users = append(users, doc.toModel())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("mongo: iterating users: %w", err)
	}

	return users, nil
}
