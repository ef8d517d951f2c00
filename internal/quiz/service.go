package quiz

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/saulo-duarte/quizzical/internal/activity"
	"github.com/saulo-duarte/quizzical/internal/aiquiz"
	"github.com/saulo-duarte/quizzical/internal/config"
	"github.com/saulo-duarte/quizzical/internal/kvstore"
)

type QuizService interface {
	StartFromTopic(ctx context.Context, req aiquiz.TopicQuizRequest) (*Quiz, error)
	StartFromReleasedTests(ctx context.Context, req aiquiz.ReleasedTestQuizRequest) (*Quiz, error)
	Start(ctx context.Context, topic string, source Source, questions []aiquiz.Question, scoringContext string) (*Quiz, error)
	Player(ctx context.Context) (*Quiz, error)
	SelectAnswer(ctx context.Context, index int, option string) (*QuizQuestion, error)
	RequestHint(ctx context.Context, index int) (*HintOutcome, error)
	Submit(ctx context.Context) (*Results, error)
	Results(ctx context.Context) (*Results, error)
	RecordExplanation(ctx context.Context, index int, text string, reasoning *string) (*QuizQuestion, error)
	Explain(ctx context.Context, index int, reasoning string) (*QuizQuestion, error)
}

type HintOutcome struct {
	Question *QuizQuestion `json:"question"`
	Fallback bool          `json:"fallback"`
}

type quizService struct {
	repo       QuizRepository
	gateway    aiquiz.Service
	activities activity.Service
	hints      singleflight.Group
	now        func() time.Time
}

func NewService(repo QuizRepository, gateway aiquiz.Service, activities activity.Service) QuizService {
	return &quizService{
		repo:       repo,
		gateway:    gateway,
		activities: activities,
		now:        time.Now,
	}
}

func (s *quizService) StartFromTopic(ctx context.Context, req aiquiz.TopicQuizRequest) (*Quiz, error) {
	res, err := s.gateway.GenerateQuizByTopic(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.Start(ctx, strings.TrimSpace(req.Topic), SourceTopic, res.Questions, res.ScoringSystemContext)
}

// StartFromReleasedTests refuses to start an empty quiz; the gateway's scoring
// context then tells the user why nothing was found.
func (s *quizService) StartFromReleasedTests(ctx context.Context, req aiquiz.ReleasedTestQuizRequest) (*Quiz, error) {
	res, err := s.gateway.GenerateQuizFromReleasedTests(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(res.Questions) == 0 {
		return nil, &aiquiz.GenerationError{Message: res.ScoringSystemContext}
	}
	topic := fmt.Sprintf("%s (%s)", strings.TrimSpace(req.Unit), strings.TrimSpace(req.Region))
	return s.Start(ctx, topic, SourceReleasedTest, res.Questions, res.ScoringSystemContext)
}

// Start replaces the current quiz unconditionally with a fresh attempt.
func (s *quizService) Start(ctx context.Context, topic string, source Source, questions []aiquiz.Question, scoringContext string) (*Quiz, error) {
	log := config.WithContext(ctx)
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	q := &Quiz{
		ID:                   uuid.NewString(),
		Topic:                topic,
		Questions:            make([]QuizQuestion, 0, len(questions)),
		ScoringSystemContext: strings.TrimSpace(scoringContext),
		Status:               StatusInProgress,
		Source:               source,
		CreatedAt:            s.now().UnixMilli(),
	}
	for _, g := range questions {
		q.Questions = append(q.Questions, QuizQuestion{
			Question:         g.Question,
			Options:          append([]string(nil), g.Options...),
			CorrectAnswer:    g.CorrectAnswer,
			ImageURL:         g.ImageURL,
			ImageDescription: g.ImageDescription,
		})
	}

	if err := s.repo.Save(ctx, q); err != nil {
		log.WithError(err).Error("Failed to store new quiz")
		return nil, err
	}
	log.WithField("quiz_id", q.ID).Infof("Started %s quiz with %d questions", source, len(q.Questions))
	return q, nil
}

func (s *quizService) Player(ctx context.Context) (*Quiz, error) {
	q := s.repo.Current(ctx)
	if !q.Playable() {
		return nil, ErrNoQuiz
	}
	if q.Status != StatusInProgress {
		return nil, ErrNotInProgress
	}
	return q, nil
}

func (s *quizService) SelectAnswer(ctx context.Context, index int, option string) (*QuizQuestion, error) {
	q, err := s.Player(ctx)
	if err != nil {
		return nil, err
	}
	question, err := q.question(index)
	if err != nil {
		return nil, err
	}
	if question.Answered() {
		return nil, ErrAlreadyAnswered
	}
	if !question.HasOption(option) {
		return nil, ErrInvalidOption
	}

	question.UserAnswer = &option
	if err := s.repo.Save(ctx, q); err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to store answer")
		return nil, err
	}
	return question, nil
}

// RequestHint fetches at most one hint per question. Concurrent requests for
// the same question share one gateway call, and a repeat after success
// returns the stored hint.
func (s *quizService) RequestHint(ctx context.Context, index int) (*HintOutcome, error) {
	q, err := s.Player(ctx)
	if err != nil {
		return nil, err
	}
	question, err := q.question(index)
	if err != nil {
		return nil, err
	}
	if question.HintUsed {
		return &HintOutcome{Question: question}, nil
	}
	if question.Answered() {
		return nil, ErrAlreadyAnswered
	}

	// The shared fetch must outlive any single caller collapsed onto it.
	shared := context.WithoutCancel(ctx)
	key := fmt.Sprintf("%s/%s/%d", kvstore.ScopeFromContext(ctx).Namespace(), q.ID, index)
	v, err, _ := s.hints.Do(key, func() (interface{}, error) {
		return s.fetchHint(shared, q.ID, index, question.Question, question.Options)
	})
	if err != nil {
		return nil, err
	}
	return v.(*HintOutcome), nil
}

func (s *quizService) fetchHint(ctx context.Context, quizID string, index int, text string, options []string) (*HintOutcome, error) {
	log := config.WithContext(ctx).WithFields(map[string]interface{}{"quiz_id": quizID, "index": index})

	if q := s.repo.Current(ctx); q.Playable() && q.ID == quizID {
		if question, err := q.question(index); err == nil && question.HintUsed {
			return &HintOutcome{Question: question}, nil
		}
	}

	res, err := s.gateway.GenerateHint(ctx, aiquiz.HintRequest{Question: text, Options: options})
	if err != nil {
		return nil, err
	}

	q := s.repo.Current(ctx)
	if !q.Playable() || q.ID != quizID || q.Status != StatusInProgress {
		log.Warn("Dropping hint for a quiz that is no longer in progress")
		return nil, ErrStaleQuiz
	}
	question, err := q.question(index)
	if err != nil {
		return nil, err
	}
	if question.HintUsed {
		return &HintOutcome{Question: question}, nil
	}
	if question.Answered() {
		return nil, ErrAlreadyAnswered
	}

	question.HintUsed = true
	question.HintText = res.Hint
	if err := s.repo.Save(ctx, q); err != nil {
		log.WithError(err).Error("Failed to store hint")
		return nil, err
	}
	return &HintOutcome{Question: question, Fallback: res.Fallback}, nil
}

// Submit grades every answered question and closes the attempt. Unanswered
// questions keep an undefined result.
func (s *quizService) Submit(ctx context.Context) (*Results, error) {
	log := config.WithContext(ctx)

	q, err := s.Player(ctx)
	if err != nil {
		return nil, err
	}
	for i := range q.Questions {
		question := &q.Questions[i]
		if !question.Answered() {
			question.IsCorrect = nil
			continue
		}
		correct := *question.UserAnswer == question.CorrectAnswer
		question.IsCorrect = &correct
	}
	q.Status = StatusSubmitted
	q.SubmittedAt = s.now().UnixMilli()

	if err := s.repo.Save(ctx, q); err != nil {
		log.WithError(err).Error("Failed to store submitted quiz")
		return nil, err
	}

	score := ScoreOf(q)
	desc := fmt.Sprintf("Completed quiz on %q (score %.0f%%)", q.Topic, score.Percentage)
	if _, err := s.activities.Add(ctx, activity.TypeQuiz, desc); err != nil {
		log.WithError(err).Warn("Failed to record quiz activity")
	}

	log.WithField("quiz_id", q.ID).Infof("Quiz submitted with %.1f/%d", score.Effective, score.Total)
	return &Results{Quiz: q, Score: score}, nil
}

func (s *quizService) Results(ctx context.Context) (*Results, error) {
	q := s.repo.Current(ctx)
	if !q.Playable() || !q.HasResults() {
		return nil, ErrNoResults
	}
	return &Results{Quiz: q, Score: ScoreOf(q)}, nil
}

// RecordExplanation replaces any earlier explanation. The stored reasoning is
// only replaced when a new one is given.
func (s *quizService) RecordExplanation(ctx context.Context, index int, text string, reasoning *string) (*QuizQuestion, error) {
	q := s.repo.Current(ctx)
	if !q.Playable() {
		return nil, ErrNoQuiz
	}
	question, err := explainable(q, index)
	if err != nil {
		return nil, err
	}

	question.AIExplanation = text
	if reasoning != nil {
		question.UserSubmittedReasoning = *reasoning
	}
	if err := s.repo.Save(ctx, q); err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to store explanation")
		return nil, err
	}
	return question, nil
}

func (s *quizService) Explain(ctx context.Context, index int, reasoning string) (*QuizQuestion, error) {
	q := s.repo.Current(ctx)
	if !q.Playable() {
		return nil, ErrNoQuiz
	}
	question, err := explainable(q, index)
	if err != nil {
		return nil, err
	}

	reasoning = strings.TrimSpace(reasoning)
	res, err := s.gateway.ExplainAnswer(ctx, aiquiz.ExplainRequest{
		Question:      question.Question,
		Answer:        *question.UserAnswer,
		CorrectAnswer: question.CorrectAnswer,
		UserReasoning: reasoning,
	})
	if err != nil {
		return nil, err
	}

	if current := s.repo.Current(ctx); current == nil || current.ID != q.ID {
		config.WithContext(ctx).WithField("quiz_id", q.ID).Warn("Dropping explanation for a replaced quiz")
		return nil, ErrStaleQuiz
	}
	var given *string
	if reasoning != "" {
		given = &reasoning
	}
	return s.RecordExplanation(ctx, index, res.Explanation, given)
}

func explainable(q *Quiz, index int) (*QuizQuestion, error) {
	if q.Status != StatusSubmitted {
		return nil, ErrNotEligible
	}
	question, err := q.question(index)
	if err != nil {
		return nil, err
	}
	if !question.Answered() || question.IsCorrect == nil || *question.IsCorrect {
		return nil, ErrNotEligible
	}
	return question, nil
}
