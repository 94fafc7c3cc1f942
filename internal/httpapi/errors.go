package httpapi

import (
	"errors"
	"net/http"

	"github.com/taskhub/taskhub/internal/errs"
)

// writeErr maps the shared error taxonomy to status codes. Anything
// outside the taxonomy is an internal failure and carries no detail to
// the requester.
func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errs.ErrInvalidInput):
		writeMessage(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, errs.ErrUnauthenticated):
		writeMessage(w, "Unauthorized", http.StatusUnauthorized)
	case errors.Is(err, errs.ErrForbidden):
		writeMessage(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, errs.ErrNotFound):
		writeMessage(w, err.Error(), http.StatusNotFound)
	default:
		writeMessage(w, "Internal server error", http.StatusInternalServerError)
	}
}
