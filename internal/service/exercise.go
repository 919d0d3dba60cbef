package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sakif/exercise-tracker/internal/apperror"
	"github.com/sakif/exercise-tracker/internal/metrics"
	"github.com/sakif/exercise-tracker/internal/model"
	"github.com/sakif/exercise-tracker/internal/repository"
)

// AddExerciseInput is what a caller supplies to log an exercise.
// Date is optional; an empty string means "today".
type AddExerciseInput struct {
	UserID      string
	Description string
	Duration    int
	Date        string
}

// LogQuery narrows a log request. Empty From/To leave that side open and a
// Limit of 0 returns every matching entry.
type LogQuery struct {
	From  string
	To    string
	Limit int
}

// ExerciseResult pairs a stored exercise with its owner.
type ExerciseResult struct {
	User     model.User
	Exercise model.Exercise
}

// ExerciseLog is a user's filtered exercise history.
type ExerciseLog struct {
	User    model.User
	Entries []model.Exercise
}

// ExerciseService adds exercises to users and reads their logs.
type ExerciseService struct {
	users     repository.UserRepository
	exercises repository.ExerciseRepository
	logger    *slog.Logger
	now       func() time.Time
}

// NewExerciseService creates an ExerciseService. Both repositories are
// usually the same store.
func NewExerciseService(
	users repository.UserRepository,
	exercises repository.ExerciseRepository,
	logger *slog.Logger,
) *ExerciseService {
	return &ExerciseService{
		users:     users,
		exercises: exercises,
		logger:    logger,
		now:       time.Now,
	}
}

// Add validates input, confirms the user exists and stores the exercise.
//
// Validation runs before the user lookup, so a bad body is reported as 400
// even for an unknown user.
func (s *ExerciseService) Add(ctx context.Context, in AddExerciseInput) (*ExerciseResult, error) {
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, apperror.ValidationFailed("description", "description is required")
	}
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return nil, apperror.ValidationFailed("description",
			fmt.Sprintf("description must be %d characters or less", MaxDescriptionLength))
	}
	if in.Duration <= 0 {
		return nil, apperror.ValidationFailed("duration", "duration must be a positive number of minutes")
	}

	date := model.CalendarDate(s.now())
	if strings.TrimSpace(in.Date) != "" {
		parsed, err := model.ParseDate(in.Date)
		if err != nil {
			return nil, apperror.ValidationFailed("date", "date must be a valid date such as 2023-01-15")
		}
		date = parsed
	}

	user, err := s.lookupUser(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	exercise := &model.Exercise{
		UserID:      user.ID,
		Description: description,
		Duration:    in.Duration,
		Date:        date,
	}
	if err := s.exercises.CreateExercise(ctx, exercise); err != nil {
		s.logger.Error("failed to add exercise",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("adding exercise: %w", err)
	}

	metrics.RecordExerciseLogged()
	s.logger.Info("exercise added",
		slog.String("id", exercise.ID),
		slog.String("user_id", user.ID),
		slog.Int("duration", exercise.Duration),
	)

	return &ExerciseResult{User: *user, Exercise: *exercise}, nil
}

// Log returns the user's exercises inside the optional inclusive date range,
// capped at q.Limit entries.
func (s *ExerciseService) Log(ctx context.Context, userID string, q LogQuery) (*ExerciseLog, error) {
	filter, err := q.filter()
	if err != nil {
		return nil, err
	}

	user, err := s.lookupUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries, err := s.exercises.ListExercises(ctx, user.ID, filter)
	if err != nil {
		s.logger.Error("failed to fetch exercise log",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("fetching log: %w", err)
	}

	return &ExerciseLog{User: *user, Entries: entries}, nil
}

// lookupUser fetches a user, passing not-found errors through untouched.
func (s *ExerciseService) lookupUser(ctx context.Context, id string) (*model.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "user id is required")
	}

	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, err
		}
		s.logger.Error("failed to look up user",
			slog.String("user_id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	return user, nil
}

func (q LogQuery) filter() (repository.LogFilter, error) {
	var f repository.LogFilter

	if strings.TrimSpace(q.From) != "" {
		from, err := model.ParseDate(q.From)
		if err != nil {
			return f, apperror.ValidationFailed("from", "from must be a valid date such as 2023-01-15")
		}
		f.From = from
	}
	if strings.TrimSpace(q.To) != "" {
		to, err := model.ParseDate(q.To)
		if err != nil {
			return f, apperror.ValidationFailed("to", "to must be a valid date such as 2023-01-15")
		}
		f.To = to
	}
	if q.Limit < 0 {
		return f, apperror.ValidationFailed("limit", "limit must not be negative")
	}
	f.Limit = q.Limit

	return f, nil
}
