package aiquiz

import (
	"context"
	"errors"
	"net/http"

	"github.com/saulo-duarte/quizzical/internal/config"
	"github.com/saulo-duarte/quizzical/internal/validation"
)

// WriteError answers with the status matching a gateway error. It reports
// false, writing nothing, when err did not come from the gateway.
func WriteError(w http.ResponseWriter, r *http.Request, err error) bool {
	log := config.WithContext(r.Context())

	if validation.WriteError(w, err) {
		return true
	}

	var genErr *GenerationError
	switch {
	case errors.As(err, &genErr):
		log.WithError(err).Warn("AI returned no usable content")
		config.Error(w, http.StatusUnprocessableEntity, genErr.Message)
	case errors.Is(err, ErrNoExplanation):
		log.WithError(err).Warn("AI returned no explanation")
		config.Error(w, http.StatusBadGateway, "AI failed to provide an explanation.")
	case errors.Is(err, context.DeadlineExceeded):
		log.WithError(err).Error("AI request timed out")
		config.Error(w, http.StatusGatewayTimeout, "The AI took too long to answer. Please try again.")
	case errors.Is(err, ErrProvider):
		log.WithError(err).Error("AI provider failed")
		config.Error(w, http.StatusBadGateway, "The AI service is unavailable. Please try again.")
	default:
		return false
	}
	return true
}
