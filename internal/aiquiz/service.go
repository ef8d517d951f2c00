package aiquiz

import (
	"context"
	"encoding/json"
	"strings"
	"text/template"
	"time"

	"github.com/saulo-duarte/quizzical/internal/config"
	"github.com/saulo-duarte/quizzical/internal/validation"
)

// Service is the only path to the hosted model. Every call is validated
// before any prompt is sent.
type Service interface {
	GenerateQuizByTopic(ctx context.Context, req TopicQuizRequest) (*QuizResult, error)
	GenerateQuizFromReleasedTests(ctx context.Context, req ReleasedTestQuizRequest) (*QuizResult, error)
	GenerateHint(ctx context.Context, req HintRequest) (*HintResult, error)
	ExplainAnswer(ctx context.Context, req ExplainRequest) (*ExplainResult, error)
	StudyChatTurn(ctx context.Context, req ChatRequest) (*ChatResult, error)
	SolveQuestion(ctx context.Context, req SolveRequest) (*SolveResult, error)
}

type service struct {
	provider Provider
	timeout  time.Duration
}

func NewService(provider Provider, timeout time.Duration) Service {
	return &service{provider: provider, timeout: timeout}
}

func (s *service) GenerateQuizByTopic(ctx context.Context, req TopicQuizRequest) (*QuizResult, error) {
	req.Topic = strings.TrimSpace(req.Topic)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	var out QuizResult
	ok, err := s.ask(ctx, "topic_quiz", topicQuizTmpl, req, &out)
	if err != nil {
		return nil, err
	}
	out.Questions = cleanQuestions(out.Questions)
	if !ok || len(out.Questions) == 0 {
		msg := strings.TrimSpace(out.ScoringSystemContext)
		if msg == "" {
			msg = NoTopicQuizMessage
		}
		return nil, &GenerationError{Message: msg}
	}

	config.WithContext(ctx).WithField("topic", req.Topic).Infof("Generated %d quiz questions", len(out.Questions))
	return &out, nil
}

// GenerateQuizFromReleasedTests treats an empty question list as a valid
// answer: the scoring context then explains why nothing was found.
func (s *service) GenerateQuizFromReleasedTests(ctx context.Context, req ReleasedTestQuizRequest) (*QuizResult, error) {
	req.Region = strings.TrimSpace(req.Region)
	req.Unit = strings.TrimSpace(req.Unit)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	var out QuizResult
	ok, err := s.ask(ctx, "released_test_quiz", releasedTestTmpl, req, &out)
	if err != nil {
		return nil, err
	}
	out.ScoringSystemContext = strings.TrimSpace(out.ScoringSystemContext)
	out.Questions = cleanQuestions(out.Questions)
	if !ok || len(out.Questions) == 0 {
		out.Questions = []Question{}
		if out.ScoringSystemContext == "" {
			out.ScoringSystemContext = NoReleasedTestsMessage
		}
	}

	config.WithContext(ctx).WithFields(map[string]interface{}{
		"region": req.Region,
		"unit":   req.Unit,
	}).Infof("Released test lookup returned %d questions", len(out.Questions))
	return &out, nil
}

func (s *service) GenerateHint(ctx context.Context, req HintRequest) (*HintResult, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	var out HintResult
	if _, err := s.ask(ctx, "hint", hintTmpl, req, &out); err != nil {
		return nil, err
	}
	out.Hint = strings.TrimSpace(out.Hint)
	if out.Hint == "" {
		return &HintResult{Hint: FallbackHint, Fallback: true}, nil
	}
	return &HintResult{Hint: out.Hint}, nil
}

func (s *service) ExplainAnswer(ctx context.Context, req ExplainRequest) (*ExplainResult, error) {
	req.UserReasoning = strings.TrimSpace(req.UserReasoning)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	var out ExplainResult
	if _, err := s.ask(ctx, "explain", explainTmpl, req, &out); err != nil {
		return nil, err
	}
	out.Explanation = strings.TrimSpace(out.Explanation)
	if out.Explanation == "" {
		return nil, ErrNoExplanation
	}
	return &out, nil
}

func (s *service) StudyChatTurn(ctx context.Context, req ChatRequest) (*ChatResult, error) {
	req.Topic = strings.TrimSpace(req.Topic)
	req.Message = strings.TrimSpace(req.Message)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	// Clients may echo the current message as the last history turn.
	if n := len(req.ChatHistory); n > 0 {
		last := req.ChatHistory[n-1]
		if last.Role == RoleUser && strings.TrimSpace(last.Content) == req.Message {
			req.ChatHistory = req.ChatHistory[:n-1]
		}
	}

	var out ChatResult
	if _, err := s.ask(ctx, "study_chat", chatTmpl, req, &out); err != nil {
		return nil, err
	}
	out.Reply = strings.TrimSpace(out.Reply)
	if out.Reply == "" {
		return &ChatResult{Reply: FallbackChat, Fallback: true}, nil
	}
	return &ChatResult{Reply: out.Reply}, nil
}

func (s *service) SolveQuestion(ctx context.Context, req SolveRequest) (*SolveResult, error) {
	req.QuestionText = strings.TrimSpace(req.QuestionText)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	var out SolveResult
	if _, err := s.ask(ctx, "solve", solveTmpl, req, &out); err != nil {
		return nil, err
	}
	out.Solution = strings.TrimSpace(out.Solution)
	out.Explanation = strings.TrimSpace(out.Explanation)
	if out.Solution == "" {
		return &SolveResult{Solution: FallbackSolution, Fallback: true}, nil
	}
	out.Fallback = false
	return &out, nil
}

// ask renders the prompt, calls the provider and decodes its JSON answer into
// out. It reports false when the model answered with nothing usable; only
// provider failures are returned as errors.
func (s *service) ask(ctx context.Context, op string, tmpl *template.Template, data, out any) (bool, error) {
	log := config.WithContext(ctx).WithField("op", op)

	prompt, err := render(tmpl, data)
	if err != nil {
		log.WithError(err).Error("Failed to render prompt")
		return false, err
	}

	// An issued call runs to completion even if the caller goes away.
	ctx = context.WithoutCancel(ctx)
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	raw, err := s.provider.Generate(ctx, prompt)
	if err != nil {
		log.WithError(err).Error("AI provider call failed")
		return false, err
	}

	clean := stripFences(raw)
	if clean == "" {
		log.Warn("AI provider returned an empty answer")
		return false, nil
	}
	if err := json.Unmarshal([]byte(clean), out); err != nil {
		log.WithError(err).Warnf("Failed to decode AI answer:\n%s", truncate(clean, 500))
		return false, nil
	}
	return true, nil
}

func stripFences(raw string) string {
	clean := strings.TrimSpace(raw)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	clean = strings.Trim(clean, "`")
	return strings.TrimSpace(clean)
}

// cleanQuestions drops questions a player could not answer correctly and
// normalizes blank image fields to absent.
func cleanQuestions(in []Question) []Question {
	out := make([]Question, 0, len(in))
	for _, q := range in {
		q.Question = strings.TrimSpace(q.Question)
		q.CorrectAnswer = strings.TrimSpace(q.CorrectAnswer)

		options := make([]string, 0, len(q.Options))
		hasCorrect := false
		for _, opt := range q.Options {
			opt = strings.TrimSpace(opt)
			if opt == "" {
				continue
			}
			if opt == q.CorrectAnswer {
				hasCorrect = true
			}
			options = append(options, opt)
		}
		if q.Question == "" || len(options) < 2 || !hasCorrect {
			continue
		}
		q.Options = options
		q.ImageURL = blankToNil(q.ImageURL)
		q.ImageDescription = blankToNil(q.ImageDescription)
		out = append(out, q)
	}
	return out
}

func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
