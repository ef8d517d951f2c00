package validation

import (
	"errors"
	"net/http"

	"github.com/saulo-duarte/quizzical/internal/config"
)

// WriteError answers 400 with the per-field messages when err is a
// validation failure, and reports whether it wrote anything.
func WriteError(w http.ResponseWriter, err error) bool {
	var verr *Error
	switch {
	case errors.As(err, &verr):
		config.JSON(w, http.StatusBadRequest, config.ErrorResponse{Error: "invalid request", Fields: verr.Fields})
	case errors.Is(err, ErrInvalid):
		config.Error(w, http.StatusBadRequest, "invalid request")
	default:
		return false
	}
	return true
}
