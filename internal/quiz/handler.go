package quiz

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/saulo-duarte/quizzical/internal/aiquiz"
	"github.com/saulo-duarte/quizzical/internal/config"
)

const (
	SetupPath   = "/quiz/setup"
	PlayerPath  = "/quiz/player"
	ResultsPath = "/quiz/results"
)

type Handler struct {
	service QuizService
}

func NewHandler(s QuizService) *Handler {
	return &Handler{service: s}
}

type answerRequest struct {
	Option string `json:"option"`
}

type explanationRequest struct {
	Reasoning string `json:"reasoning"`
}

type setupLimits struct {
	MinTopicLength  int `json:"minTopicLength"`
	MaxTopicLength  int `json:"maxTopicLength"`
	MinRegionLength int `json:"minRegionLength"`
	MinUnitLength   int `json:"minUnitLength"`
	MinQuestions    int `json:"minQuestions"`
	MaxQuestions    int `json:"maxQuestions"`
}

// Setup describes what the setup forms accept. It is where every invalid
// navigation state is redirected to.
func (h *Handler) Setup(w http.ResponseWriter, r *http.Request) {
	config.JSON(w, http.StatusOK, setupLimits{
		MinTopicLength:  3,
		MaxTopicLength:  100,
		MinRegionLength: 3,
		MinUnitLength:   3,
		MinQuestions:    1,
		MaxQuestions:    100,
	})
}

func (h *Handler) StartFromTopic(w http.ResponseWriter, r *http.Request) {
	var req aiquiz.TopicQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.WithContext(r.Context()).WithError(err).Warn("Invalid request body")
		config.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	q, err := h.service.StartFromTopic(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Location", PlayerPath)
	config.JSON(w, http.StatusCreated, q)
}

func (h *Handler) StartFromReleasedTests(w http.ResponseWriter, r *http.Request) {
	var req aiquiz.ReleasedTestQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.WithContext(r.Context()).WithError(err).Warn("Invalid request body")
		config.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	q, err := h.service.StartFromReleasedTests(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Location", PlayerPath)
	config.JSON(w, http.StatusCreated, q)
}

func (h *Handler) Player(w http.ResponseWriter, r *http.Request) {
	q, err := h.service.Player(r.Context())
	if err != nil {
		config.WithContext(r.Context()).WithError(err).Info("No playable quiz, redirecting to setup")
		http.Redirect(w, r, SetupPath, http.StatusSeeOther)
		return
	}
	config.JSON(w, http.StatusOK, q)
}

func (h *Handler) SelectAnswer(w http.ResponseWriter, r *http.Request) {
	index, ok := questionIndex(w, r)
	if !ok {
		return
	}
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Option == "" {
		config.Error(w, http.StatusBadRequest, "option required")
		return
	}

	question, err := h.service.SelectAnswer(r.Context(), index, req.Option)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, question)
}

func (h *Handler) RequestHint(w http.ResponseWriter, r *http.Request) {
	index, ok := questionIndex(w, r)
	if !ok {
		return
	}

	outcome, err := h.service.RequestHint(r.Context(), index)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, outcome)
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	results, err := h.service.Submit(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Location", ResultsPath)
	config.JSON(w, http.StatusSeeOther, results)
}

func (h *Handler) Results(w http.ResponseWriter, r *http.Request) {
	results, err := h.service.Results(r.Context())
	if err != nil {
		config.WithContext(r.Context()).WithError(err).Info("No quiz results, redirecting to setup")
		http.Redirect(w, r, SetupPath, http.StatusSeeOther)
		return
	}
	config.JSON(w, http.StatusOK, results)
}

func (h *Handler) Explain(w http.ResponseWriter, r *http.Request) {
	index, ok := questionIndex(w, r)
	if !ok {
		return
	}
	var req explanationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		config.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	question, err := h.service.Explain(r.Context(), index, req.Reasoning)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	config.JSON(w, http.StatusOK, question)
}

func questionIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		config.Error(w, http.StatusBadRequest, "invalid question index")
		return 0, false
	}
	return index, true
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if aiquiz.WriteError(w, r, err) {
		return
	}
	log := config.WithContext(r.Context())

	switch {
	case errors.Is(err, ErrIndexOutOfRange):
		config.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidOption):
		config.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNoQuiz),
		errors.Is(err, ErrNotInProgress),
		errors.Is(err, ErrAlreadyAnswered),
		errors.Is(err, ErrNotEligible),
		errors.Is(err, ErrStaleQuiz):
		log.WithError(err).Info("Quiz request rejected")
		config.Error(w, http.StatusConflict, err.Error())
	default:
		log.WithError(err).Error("Quiz request failed")
		config.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
