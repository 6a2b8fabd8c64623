package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/KaramelBytes/insightbox-cli/internal/clean"
	"github.com/KaramelBytes/insightbox-cli/internal/parser"
	"github.com/KaramelBytes/insightbox-cli/internal/selector"
	"github.com/KaramelBytes/insightbox-cli/internal/session"
)

// APIResponse is the envelope of every JSON reply. Status is 0 on success
// and the HTTP status code otherwise.
type APIResponse struct {
	Status int    `json:"status"`
	Msg    string `json:"msg"`
	Data   any    `json:"data,omitempty"`
}

func ok(w http.ResponseWriter, r *http.Request, code int, msg string, data any) {
	render.Status(r, code)
	render.JSON(w, r, APIResponse{Status: 0, Msg: msg, Data: data})
}

func fail(w http.ResponseWriter, r *http.Request, code int, msg string) {
	render.Status(r, code)
	render.JSON(w, r, APIResponse{Status: code, Msg: msg})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrNotLoaded):
		return http.StatusConflict
	case errors.Is(err, parser.ErrUnsupported):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, parser.ErrLoadFailed),
		errors.Is(err, clean.ErrNoTarget),
		errors.Is(err, clean.ErrEmptyValue),
		errors.Is(err, selector.ErrEmptySelection):
		return http.StatusUnprocessableEntity
	case errors.Is(err, clean.ErrInvalidAction):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
