package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/handsomefox/movie-sentiment/internal/logger"
	"github.com/handsomefox/movie-sentiment/internal/view"
)

type HandlerWithErr func(w http.ResponseWriter, r *http.Request) error

type Error struct {
	Status  int
	Message string
}

func (e Error) Error() string {
	return e.Message + " code=" + strconv.FormatInt(int64(e.Status), 10)
}

const genericFailure = "Something went wrong. Please try again."

// Adapt renders errors returned by h as the HTML error page.
func (h *Handler) Adapt(fn HandlerWithErr) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := fn(w, r)
		if err == nil {
			return
		}
		status, msg := statusOf(r, err)
		page := view.ErrorPage{Nav: view.Nav{}, Status: status, Message: msg}
		if rerr := h.views.Page(w, status, "error", page); rerr != nil {
			slog.Error("render error page failed", logger.Error(rerr))
			http.Error(w, msg, status)
		}
	})
}

// AdaptJSON renders errors as a {success:false} envelope.
func AdaptJSON(fn HandlerWithErr) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			status, msg := statusOf(r, err)
			writeJSON(w, status, &envelope{Success: false, Error: msg})
		}
	})
}

func statusOf(r *http.Request, err error) (int, string) {
	var statusErr *Error
	if errors.As(err, &statusErr) {
		return statusErr.Status, statusErr.Message
	}
	slog.Error("request failed",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		logger.Error(err),
	)
	return http.StatusInternalServerError, genericFailure
}
