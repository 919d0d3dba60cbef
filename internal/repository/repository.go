// Package repository declares the storage contracts the service layer depends on.
// Implementations live in the sqlite and mongo subpackages.
package repository

import (
	"context"
	"time"

	"github.com/sakif/exercise-tracker/internal/model"
)

// LogFilter narrows an exercise log query. Zero values mean "no bound":
// a zero From or To leaves that side open and a Limit of 0 returns everything.
type LogFilter struct {
	From  time.Time
	To    time.Time
	Limit int
}

// HasRange reports whether either date bound is set.
func (f LogFilter) HasRange() bool {
	return !f.From.IsZero() || !f.To.IsZero()
}

// Includes reports whether the calendar date d falls inside the inclusive
// [From, To] range.
func (f LogFilter) Includes(d time.Time) bool {
	d = model.CalendarDate(d)
	if !f.From.IsZero() && d.Before(model.CalendarDate(f.From)) {
		return false
	}
	if !f.To.IsZero() && d.After(model.CalendarDate(f.To)) {
		return false
	}
	return true
}

// UserRepository stores users. GetUserByID returns an apperror.ErrNotFound
// error when no user has the id.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
}

// ExerciseRepository stores exercises. ListExercises returns entries in the
// store's natural (insertion) order; no other ordering is applied.
type ExerciseRepository interface {
	CreateExercise(ctx context.Context, exercise *model.Exercise) error
	ListExercises(ctx context.Context, userID string, filter LogFilter) ([]model.Exercise, error)
}

// Store is a complete backend: both repositories plus lifecycle hooks.
type Store interface {
	UserRepository
	ExerciseRepository
	Ping(ctx context.Context) error
	Close() error
}
