package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/sakif/exercise-tracker/internal/apperror"
	"github.com/sakif/exercise-tracker/internal/model"
	"github.com/sakif/exercise-tracker/internal/repository"
)

// =========================================================================
// MOCK STORE
// =========================================================================
//
// mockStore keeps users and exercises in memory and can be told to fail.
// It satisfies both repository interfaces the services depend on.

type mockStore struct {
	mu        sync.Mutex
	users     map[string]model.User
	order     []string
	exercises []model.Exercise
	nextID    int

	failCreate error // returned by CreateUser / CreateExercise when set
	failRead   error // returned by GetUserByID / ListUsers / ListExercises when set
}

func newMockStore() *mockStore {
	return &mockStore{users: make(map[string]model.User)}
}

func (m *mockStore) id() string {
	m.nextID++
	return fmt.Sprintf("mock-%d", m.nextID)
}

func (m *mockStore) CreateUser(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCreate != nil {
		return m.failCreate
	}
	user.ID = m.id()
	m.users[user.ID] = *user
	m.order = append(m.order, user.ID)
	return nil
}

func (m *mockStore) GetUserByID(_ context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failRead != nil {
		return nil, m.failRead
	}
	u, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	return &u, nil
}

func (m *mockStore) ListUsers(_ context.Context) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failRead != nil {
		return nil, m.failRead
	}
	out := make([]model.User, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.users[id])
	}
	return out, nil
}

func (m *mockStore) CreateExercise(_ context.Context, e *model.Exercise) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCreate != nil {
		return m.failCreate
	}
	e.ID = m.id()
	m.exercises = append(m.exercises, *e)
	return nil
}

func (m *mockStore) ListExercises(_ context.Context, userID string, f repository.LogFilter) ([]model.Exercise, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failRead != nil {
		return nil, m.failRead
	}
	out := make([]model.Exercise, 0)
	for _, e := range m.exercises {
		if e.UserID != userID || !f.Includes(e.Date) {
			continue
		}
		out = append(out, e)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, nil
}

// =========================================================================
// TEST HELPERS
// =========================================================================

var errStoreDown = errors.New("connection refused")

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestServices(t *testing.T) (*UserService, *ExerciseService, *mockStore) {
	t.Helper()
	store := newMockStore()
	users := NewUserService(store, testLogger())
	exercises := NewExerciseService(store, store, testLogger())
	exercises.now = func() time.Time {
		return time.Date(2024, time.June, 3, 22, 15, 0, 0, time.UTC)
	}
	return users, exercises, store
}

func mustCreateUser(t *testing.T, svc *UserService, name string) *model.User {
	t.Helper()
	u, err := svc.Create(context.Background(), name)
	if err != nil {
		t.Fatalf("Create(%q) error = %v", name, err)
	}
	return u
}

// =========================================================================
// USER TESTS
// =========================================================================

func TestUserCreate_Success(t *testing.T) {
	users, _, _ := newTestServices(t)

	u, err := users.Create(context.Background(), "  alice  ")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if u.ID == "" {
		t.Error("expected user to have an ID")
	}
	if u.Username != "alice" {
		t.Errorf("Username = %q, want %q", u.Username, "alice")
	}
}

func TestUserCreate_Validation(t *testing.T) {
	users, _, store := newTestServices(t)

	long := make([]byte, MaxUsernameLength+1)
	for i := range long {
		long[i] = 'a'
	}

	for _, name := range []string{"", "   ", string(long)} {
		_, err := users.Create(context.Background(), name)
		if !errors.Is(err, apperror.ErrValidation) {
			t.Errorf("Create(%q) error = %v, want ErrValidation", name, err)
		}
	}
	if len(store.users) != 0 {
		t.Errorf("store has %d users, want 0", len(store.users))
	}
}

func TestUserCreate_StoreFailure(t *testing.T) {
	users, _, store := newTestServices(t)
	store.failCreate = errStoreDown

	_, err := users.Create(context.Background(), "alice")
	if !errors.Is(err, errStoreDown) {
		t.Fatalf("Create() error = %v, want wrapped store error", err)
	}
	if apperror.IsValidation(err) || apperror.IsNotFound(err) {
		t.Error("store failures must not look like validation or not-found errors")
	}
}

func TestUserList(t *testing.T) {
	users, _, _ := newTestServices(t)
	mustCreateUser(t, users, "alice")
	mustCreateUser(t, users, "bob")

	list, err := users.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 2 || list[0].Username != "alice" || list[1].Username != "bob" {
		t.Errorf("List() = %+v", list)
	}
}

// =========================================================================
// ADD EXERCISE TESTS
// =========================================================================

func TestAdd_WithDate(t *testing.T) {
	users, exercises, _ := newTestServices(t)
	u := mustCreateUser(t, users, "alice")

	res, err := exercises.Add(context.Background(), AddExerciseInput{
		UserID:      u.ID,
		Description: "run",
		Duration:    30,
		Date:        "2023-01-15",
	})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if res.User.ID != u.ID || res.User.Username != "alice" {
		t.Errorf("User = %+v, want %+v", res.User, u)
	}
	if got := model.FormatDate(res.Exercise.Date); got != "Sun Jan 15 2023" {
		t.Errorf("date = %q, want %q", got, "Sun Jan 15 2023")
	}
	if res.Exercise.Duration != 30 {
		t.Errorf("Duration = %d, want 30", res.Exercise.Duration)
	}
}

func TestAdd_DefaultsToToday(t *testing.T) {
	users, exercises, _ := newTestServices(t)
	u := mustCreateUser(t, users, "alice")

	res, err := exercises.Add(context.Background(), AddExerciseInput{
		UserID:      u.ID,
		Description: "swim",
		Duration:    45,
	})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	want := time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC)
	if !res.Exercise.Date.Equal(want) {
		t.Errorf("Date = %v, want %v", res.Exercise.Date, want)
	}
}

func TestAdd_Validation(t *testing.T) {
	users, exercises, store := newTestServices(t)
	u := mustCreateUser(t, users, "alice")

	tests := []struct {
		name  string
		in    AddExerciseInput
		field string
	}{
		{"missing description", AddExerciseInput{UserID: u.ID, Duration: 10}, "description"},
		{"blank description", AddExerciseInput{UserID: u.ID, Description: "  ", Duration: 10}, "description"},
		{"zero duration", AddExerciseInput{UserID: u.ID, Description: "run"}, "duration"},
		{"negative duration", AddExerciseInput{UserID: u.ID, Description: "run", Duration: -5}, "duration"},
		{"bad date", AddExerciseInput{UserID: u.ID, Description: "run", Duration: 5, Date: "someday"}, "date"},
		{"validation before lookup", AddExerciseInput{UserID: "nobody", Description: "run", Duration: 0}, "duration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := exercises.Add(context.Background(), tt.in)
			var appErr *apperror.AppError
			if !errors.As(err, &appErr) || !errors.Is(err, apperror.ErrValidation) {
				t.Fatalf("Add() error = %v, want validation error", err)
			}
			if appErr.Field != tt.field {
				t.Errorf("Field = %q, want %q", appErr.Field, tt.field)
			}
		})
	}

	if len(store.exercises) != 0 {
		t.Errorf("store has %d exercises, want 0", len(store.exercises))
	}
}

func TestAdd_UnknownUser(t *testing.T) {
	_, exercises, _ := newTestServices(t)

	_, err := exercises.Add(context.Background(), AddExerciseInput{
		UserID: "missing", Description: "run", Duration: 10,
	})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("Add() error = %v, want ErrNotFound", err)
	}
}

func TestAdd_StoreFailures(t *testing.T) {
	users, exercises, store := newTestServices(t)
	u := mustCreateUser(t, users, "alice")
	in := AddExerciseInput{UserID: u.ID, Description: "run", Duration: 10}

	store.failRead = errStoreDown
	if _, err := exercises.Add(context.Background(), in); !errors.Is(err, errStoreDown) || apperror.IsNotFound(err) {
		t.Errorf("lookup failure: error = %v", err)
	}

	store.failRead = nil
	store.failCreate = errStoreDown
	if _, err := exercises.Add(context.Background(), in); !errors.Is(err, errStoreDown) {
		t.Errorf("insert failure: error = %v", err)
	}
}

// =========================================================================
// LOG TESTS
// =========================================================================

func seed(t *testing.T, svc *ExerciseService, userID string, dates ...string) {
	t.Helper()
	for i, d := range dates {
		_, err := svc.Add(context.Background(), AddExerciseInput{
			UserID: userID, Description: fmt.Sprintf("ex-%d", i), Duration: 10 + i, Date: d,
		})
		if err != nil {
			t.Fatalf("seeding %s: %v", d, err)
		}
	}
}

func TestLog_FilterAndLimit(t *testing.T) {
	users, exercises, _ := newTestServices(t)
	u := mustCreateUser(t, users, "alice")
	seed(t, exercises, u.ID, "2023-01-01", "2023-01-10", "2023-01-20", "2023-02-01")

	tests := []struct {
		name  string
		query LogQuery
		want  int
	}{
		{"everything", LogQuery{}, 4},
		{"inclusive range", LogQuery{From: "2023-01-10", To: "2023-01-20"}, 2},
		{"from only", LogQuery{From: "2023-01-15"}, 2},
		{"to only", LogQuery{To: "2023-01-01"}, 1},
		{"limit", LogQuery{Limit: 3}, 3},
		{"limit with range", LogQuery{From: "2023-01-05", Limit: 1}, 1},
		{"zero limit means all", LogQuery{Limit: 0}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := exercises.Log(context.Background(), u.ID, tt.query)
			if err != nil {
				t.Fatalf("Log() error = %v", err)
			}
			if len(log.Entries) != tt.want {
				t.Errorf("len(Entries) = %d, want %d", len(log.Entries), tt.want)
			}
			if log.User.Username != "alice" {
				t.Errorf("Username = %q", log.User.Username)
			}
		})
	}
}

func TestLog_RoundTrip(t *testing.T) {
	users, exercises, _ := newTestServices(t)
	u := mustCreateUser(t, users, "alice")

	added, err := exercises.Add(context.Background(), AddExerciseInput{
		UserID: u.ID, Description: "run", Duration: 30, Date: "2023-01-15",
	})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	log, err := exercises.Log(context.Background(), u.ID, LogQuery{})
	if err != nil {
		t.Fatalf("Log() error = %v", err)
	}
	if len(log.Entries) != 1 {
		t.Fatalf("len(Entries) = %d, want 1", len(log.Entries))
	}
	got := log.Entries[0]
	if got.Description != added.Exercise.Description ||
		got.Duration != added.Exercise.Duration ||
		!got.Date.Equal(added.Exercise.Date) {
		t.Errorf("entry = %+v, want %+v", got, added.Exercise)
	}
}

func TestLog_Errors(t *testing.T) {
	users, exercises, store := newTestServices(t)
	u := mustCreateUser(t, users, "alice")

	tests := []struct {
		name   string
		userID string
		query  LogQuery
		target error
	}{
		{"unknown user", "missing", LogQuery{}, apperror.ErrNotFound},
		{"bad from", u.ID, LogQuery{From: "nope"}, apperror.ErrValidation},
		{"bad to", u.ID, LogQuery{To: "2023-13-01"}, apperror.ErrValidation},
		{"negative limit", u.ID, LogQuery{Limit: -1}, apperror.ErrValidation},
		{"empty id", " ", LogQuery{}, apperror.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := exercises.Log(context.Background(), tt.userID, tt.query)
			if !errors.Is(err, tt.target) {
				t.Errorf("Log() error = %v, want %v", err, tt.target)
			}
		})
	}

	store.failRead = errStoreDown
	if _, err := exercises.Log(context.Background(), u.ID, LogQuery{}); !errors.Is(err, errStoreDown) {
		t.Errorf("store failure: error = %v", err)
	}
}
