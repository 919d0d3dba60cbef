package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/exercise-tracker/internal/model"
	"github.com/sakif/exercise-tracker/internal/service"
)

const (
	msgCreateUserFailed = "Failed to create user"
	msgListUsersFailed  = "Failed to fetch users"
)

// userResponse is the public view of a user: no other fields are exposed.
type userResponse struct {
	Username string `json:"username"`
	ID       string `json:"_id"`
}

func newUserResponse(u model.User) userResponse {
	return userResponse{Username: u.Username, ID: u.ID}
}

// UserHandler serves the /api/users collection.
type UserHandler struct {
	users  *service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(users *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		users:  users,
		logger: logger,
	}
}

// HandleCreate creates a user.
//
// HTTP: POST /api/users
// BODY: {"username": "alice"}  (or username=alice as a form)
// RESPONSE: {"username": "alice", "_id": "..."}
func (h *UserHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	fields, err := readFields(w, r, "username")
	if err != nil {
		writeError(w, err, msgCreateUserFailed)
		return
	}

	req := createUserRequest{Username: fields["username"]}
	if err := check(req); err != nil {
		h.logger.Debug("rejected user request", slog.String("error", err.Error()))
		writeError(w, err, msgCreateUserFailed)
		return
	}

	user, err := h.users.Create(r.Context(), req.Username)
	if err != nil {
		writeError(w, err, msgCreateUserFailed)
		return
	}

	writeJSON(w, http.StatusOK, newUserResponse(*user))
}

// HandleList returns every user.
//
// HTTP: GET /api/users
// RESPONSE: [{"username": "alice", "_id": "..."}, ...]
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeError(w, err, msgListUsersFailed)
		return
	}

	resp := make([]userResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, newUserResponse(u))
	}

	writeJSON(w, http.StatusOK, resp)
}
