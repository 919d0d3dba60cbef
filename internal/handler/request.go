package handler

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sakif/exercise-tracker/internal/apperror"
)

// maxBodyBytes caps request bodies; the largest legitimate one is a few hundred bytes.
const maxBodyBytes = 1 << 20

// validate is safe for concurrent use and caches struct metadata, so one
// instance serves every request.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their wire name ("duration"), not the Go name.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// createUserRequest is the body of POST /api/users.
// Length limits apply to the trimmed value and live in the service.
type createUserRequest struct {
	Username string `json:"username" validate:"required"`
}

// addExerciseRequest is the body of POST /api/users/{id}/exercises.
// Duration arrives as text (form field, JSON string or JSON number) and must
// be an unsigned base-10 integer.
type addExerciseRequest struct {
	Description string `json:"description" validate:"required"`
	Duration    string `json:"duration"    validate:"required,number"`
	Date        string `json:"date"`
}

// logQueryRequest is the query string of GET /api/users/{id}/logs.
type logQueryRequest struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Limit string `json:"limit" validate:"omitempty,number"`
}

// readFields returns the named body fields as strings. JSON bodies and
// urlencoded/multipart forms are both accepted; a missing field is "".
func readFields(w http.ResponseWriter, r *http.Request, names ...string) (map[string]string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		return readJSONFields(r, names)
	}

	if err := r.ParseMultipartForm(maxBodyBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, apperror.ValidationFailed("", "invalid form body")
	}
	fields := make(map[string]string, len(names))
	for _, name := range names {
		fields[name] = r.PostForm.Get(name)
	}
	return fields, nil
}

func readJSONFields(r *http.Request, names []string) (map[string]string, error) {
	var raw map[string]any

	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, apperror.ValidationFailed("", "invalid JSON body")
	}

	fields := make(map[string]string, len(names))
	for _, name := range names {
		switch v := raw[name].(type) {
		case nil:
			fields[name] = ""
		case string:
			fields[name] = v
		case json.Number:
			fields[name] = v.String()
		default:
			return nil, apperror.ValidationFailed(name, name+" must be a string or a number")
		}
	}
	return fields, nil
}

// check runs the struct's validate tags and converts the first failure into
// an apperror validation error.
func check(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperror.ValidationFailed("", "invalid request")
	}

	fe := verrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return apperror.ValidationFailed(field, field+" is required")
	case "number":
		return apperror.ValidationFailed(field, field+" must be a whole number")
	default:
		return apperror.ValidationFailed(field, field+" is invalid")
	}
}

// atoi parses a value that already passed the "number" tag; it can still
// overflow.
func atoi(field, s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, apperror.ValidationFailed(field, field+" is out of range")
	}
	return n, nil
}
