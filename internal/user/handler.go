package user

import (
	"encoding/json"
	"net/http"

	"github.com/saulo-duarte/quizzical/internal/config"
	"github.com/saulo-duarte/quizzical/internal/validation"
)

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	config.JSON(w, http.StatusOK, h.service.Get(r.Context()))
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var dto UpdatePreferencesDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Warn("Invalid request body")
		config.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	prefs, err := h.service.Update(r.Context(), dto)
	if err != nil {
		if validation.WriteError(w, err) {
			return
		}
		log.WithError(err).Error("Failed to update preferences")
		config.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	config.JSON(w, http.StatusOK, prefs)
}
