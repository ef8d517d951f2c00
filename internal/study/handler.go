package study

import (
	"encoding/json"
	"net/http"

	"github.com/saulo-duarte/quizzical/internal/aiquiz"
	"github.com/saulo-duarte/quizzical/internal/config"
)

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	var dto StartSessionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		config.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.service.StartSession(r.Context(), dto)
	if err != nil {
		writeError(w, r, err)
		return
	}
	config.JSON(w, http.StatusCreated, session)
}

func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req aiquiz.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.service.Chat(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, res)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if aiquiz.WriteError(w, r, err) {
		return
	}
	config.WithContext(r.Context()).WithError(err).Error("Study request failed")
	config.Error(w, http.StatusInternalServerError, "internal server error")
}
