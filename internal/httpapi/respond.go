package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/mesh-intelligence/storefront/pkg/types"
)

// envelope wraps every response body.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// listPage is the data of a list response. Next is null on the last page.
type listPage[T any] struct {
	Items []T     `json:"items"`
	Next  *string `json:"next"`
}

func newListPage[T any](items []T, next string) listPage[T] {
	if items == nil {
		items = []T{}
	}
	p := listPage[T]{Items: items}
	if next != "" {
		p.Next = &next
	}
	return p
}

func writeJSON(w http.ResponseWriter, code int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

func (s *Server) ok(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data})
}

// fail maps err to a status code and writes an error envelope. Unexpected
// errors are logged and reported without detail.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		msg = "internal error"
	} else if code == http.StatusServiceUnavailable {
		s.logger.WarnContext(r.Context(), "backend unavailable", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, code, envelope{Success: false, Error: msg})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrNotFound), errors.Is(err, types.ErrTableNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrInvalidInput),
		errors.Is(err, types.ErrInvalidID),
		errors.Is(err, types.ErrInvalidStatus),
		errors.Is(err, types.ErrInvalidTransition):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, types.ErrBackendUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// decodeBody decodes the JSON request body onto v, which may carry
// defaults for absent fields.
func decodeBody(r *http.Request, v any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", types.ErrInvalidInput)
		}
		return fmt.Errorf("%w: %v", types.ErrInvalidInput, err)
	}
	return nil
}

// pageParams reads cursor and limit from the query. An absent limit takes
// def, a limit below 1 is raised to 1.
func pageParams(r *http.Request, def int) (string, int, error) {
	q := r.URL.Query()
	limit := def
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return "", 0, fmt.Errorf("%w: limit must be an integer", types.ErrInvalidInput)
		}
		limit = max(n, 1)
	}
	return q.Get("cursor"), limit, nil
}
