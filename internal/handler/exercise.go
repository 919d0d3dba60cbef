package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/exercise-tracker/internal/model"
	"github.com/sakif/exercise-tracker/internal/service"
)

const (
	msgAddExerciseFailed = "Failed to add exercise"
	msgFetchLogsFailed   = "Failed to fetch logs"
)

type exerciseResponse struct {
	Username    string `json:"username"`
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	ID          string `json:"_id"`
	Date        string `json:"date"`
}

type logEntryResponse struct {
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	Date        string `json:"date"`
}

// logResponse.Count is the number of entries in Log, after any limit.
type logResponse struct {
	Username string             `json:"username"`
	Count    int                `json:"count"`
	ID       string             `json:"_id"`
	Log      []logEntryResponse `json:"log"`
}

// ExerciseHandler serves a user's exercises and log.
type ExerciseHandler struct {
	exercises *service.ExerciseService
	logger    *slog.Logger
}

// NewExerciseHandler creates an ExerciseHandler.
func NewExerciseHandler(exercises *service.ExerciseService, logger *slog.Logger) *ExerciseHandler {
	return &ExerciseHandler{
		exercises: exercises,
		logger:    logger,
	}
}

// HandleAdd logs an exercise for the user in the path.
//
// HTTP: POST /api/users/{id}/exercises
// BODY: {"description": "run", "duration": 30, "date": "2023-01-15"}  (date optional)
// RESPONSE: {"username", "description", "duration", "_id", "date": "Sun Jan 15 2023"}
func (h *ExerciseHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	fields, err := readFields(w, r, "description", "duration", "date")
	if err != nil {
		writeError(w, err, msgAddExerciseFailed)
		return
	}

	req := addExerciseRequest{
		Description: fields["description"],
		Duration:    fields["duration"],
		Date:        fields["date"],
	}
	if err := check(req); err != nil {
		h.logger.Debug("rejected exercise request", slog.String("error", err.Error()))
		writeError(w, err, msgAddExerciseFailed)
		return
	}
	duration, err := atoi("duration", req.Duration)
	if err != nil {
		writeError(w, err, msgAddExerciseFailed)
		return
	}

	res, err := h.exercises.Add(r.Context(), service.AddExerciseInput{
		UserID:      chi.URLParam(r, "id"),
		Description: req.Description,
		Duration:    duration,
		Date:        req.Date,
	})
	if err != nil {
		writeError(w, err, msgAddExerciseFailed)
		return
	}

	writeJSON(w, http.StatusOK, exerciseResponse{
		Username:    res.User.Username,
		Description: res.Exercise.Description,
		Duration:    res.Exercise.Duration,
		ID:          res.User.ID,
		Date:        model.FormatDate(res.Exercise.Date),
	})
}

// HandleLog returns the user's exercise log.
//
// HTTP: GET /api/users/{id}/logs?from=2023-01-01&to=2023-01-31&limit=10
// All query parameters are optional; from/to are inclusive.
func (h *ExerciseHandler) HandleLog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := logQueryRequest{
		From:  q.Get("from"),
		To:    q.Get("to"),
		Limit: q.Get("limit"),
	}
	if err := check(req); err != nil {
		writeError(w, err, msgFetchLogsFailed)
		return
	}
	limit, err := atoi("limit", req.Limit)
	if err != nil {
		writeError(w, err, msgFetchLogsFailed)
		return
	}

	log, err := h.exercises.Log(r.Context(), chi.URLParam(r, "id"), service.LogQuery{
		From:  req.From,
		To:    req.To,
		Limit: limit,
	})
	if err != nil {
		writeError(w, err, msgFetchLogsFailed)
		return
	}

	entries := make([]logEntryResponse, 0, len(log.Entries))
	for _, e := range log.Entries {
		entries = append(entries, logEntryResponse{
			Description: e.Description,
			Duration:    e.Duration,
			Date:        model.FormatDate(e.Date),
		})
	}

	writeJSON(w, http.StatusOK, logResponse{
		Username: log.User.Username,
		Count:    len(entries),
		ID:       log.User.ID,
		Log:      entries,
	})
}
