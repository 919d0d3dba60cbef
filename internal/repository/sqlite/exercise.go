package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/exercise-tracker/internal/model"
	"github.com/sakif/exercise-tracker/internal/repository"
)

// CreateExercise inserts a new exercise. The user must already exist; the
// foreign key rejects anything else.
func (db *DB) CreateExercise(ctx context.Context, exercise *model.Exercise) error {
	exercise.ID = xid.New().String()
	exercise.Date = model.CalendarDate(exercise.Date)

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO exercises (id, user_id, description, duration, performed_on)
		 VALUES (?, ?, ?, ?, ?)`,
		exercise.ID,
		exercise.UserID,
		exercise.Description,
		exercise.Duration,
		exercise.Date.Format(model.StorageLayout),
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting exercise for user %s: %w", exercise.UserID, err)
	}

	return nil
}

// ListExercises returns the user's exercises matching filter, in insertion order.
//
// The WHERE clause is assembled from the filter; values always travel as
// ? parameters.
func (db *DB) ListExercises(ctx context.Context, userID string, filter repository.LogFilter) ([]model.Exercise, error) {
	var (
		query strings.Builder
		args  = []any{userID}
	)

	query.WriteString(`SELECT id, user_id, description, duration, performed_on
		 FROM exercises
		 WHERE user_id = ?`)

	if !filter.From.IsZero() {
		query.WriteString(` AND performed_on >= ?`)
		args = append(args, model.CalendarDate(filter.From).Format(model.StorageLayout))
	}
	if !filter.To.IsZero() {
		query.WriteString(` AND performed_on <= ?`)
		args = append(args, model.CalendarDate(filter.To).Format(model.StorageLayout))
	}

	query.WriteString(` ORDER BY rowid`)

	if filter.Limit > 0 {
		query.WriteString(` LIMIT ?`)
		args = append(args, filter.Limit)
	}

	rows, err := db.conn.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing exercises for user %s: %w", userID, err)
	}
	defer rows.Close()

	exercises := make([]model.Exercise, 0)
	for rows.Next() {
		var (
			e  model.Exercise
			on string
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.Description, &e.Duration, &on); err != nil {
			return nil, fmt.Errorf("sqlite: scanning exercise row: %w", err)
		}
		e.Date, err = time.Parse(model.StorageLayout, on)
		if err != nil {
			return nil, fmt.Errorf("sqlite: exercise %s has bad date %q: %w", e.ID, on, err)
		}
		exercises = append(exercises, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating exercises: %w", err)
	}

	return exercises, nil
}
