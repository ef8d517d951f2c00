package aiquiz

import (
	"errors"
)

type Question struct {
	Question         string   `json:"question"`
	Options          []string `json:"options"`
	CorrectAnswer    string   `json:"correctAnswer"`
	ImageURL         *string  `json:"imageUrl,omitempty"`
	ImageDescription *string  `json:"imageDescription,omitempty"`
}

type QuizResult struct {
	Questions            []Question `json:"quiz"`
	ScoringSystemContext string     `json:"scoringSystemContext,omitempty"`
}

type TopicQuizRequest struct {
	Topic        string `json:"topic" validate:"required,min=3,max=100"`
	NumQuestions int    `json:"numQuestions" validate:"min=1,max=100"`
}

type ReleasedTestQuizRequest struct {
	Region       string `json:"county" validate:"required,min=3"`
	Unit         string `json:"unit" validate:"required,min=3"`
	NumQuestions int    `json:"numQuestions" validate:"min=1,max=100"`
}

type HintRequest struct {
	Question string   `json:"question" validate:"required"`
	Options  []string `json:"options" validate:"min=2,dive,required"`
}

type HintResult struct {
	Hint     string `json:"hint"`
	Fallback bool   `json:"fallback"`
}

type ExplainRequest struct {
	Question      string `json:"question" validate:"required"`
	Answer        string `json:"answer" validate:"required"`
	CorrectAnswer string `json:"correctAnswer" validate:"required"`
	UserReasoning string `json:"userReasoning,omitempty" validate:"max=2000"`
}

type ExplainResult struct {
	Explanation string `json:"explanation"`
}

type ChatRole string

const (
	RoleUser  ChatRole = "user"
	RoleModel ChatRole = "model"
)

type ChatMessage struct {
	Role    ChatRole `json:"role" validate:"required,oneof=user model"`
	Content string   `json:"content" validate:"required"`
}

type ChatRequest struct {
	Topic       string        `json:"topic" validate:"required,min=3,max=100"`
	Message     string        `json:"currentUserMessage" validate:"required,min=1,max=1000"`
	ChatHistory []ChatMessage `json:"chatHistory,omitempty" validate:"omitempty,dive"`
}

type ChatResult struct {
	Reply    string `json:"aiResponseMessage"`
	Fallback bool   `json:"fallback"`
}

type SolveRequest struct {
	QuestionText string `json:"questionText" validate:"required,min=10,max=5000"`
}

type SolveResult struct {
	Solution    string `json:"solution"`
	Explanation string `json:"explanation,omitempty"`
	Fallback    bool   `json:"fallback"`
}

const (
	FallbackHint     = "Sorry, I couldn't generate a hint for this question."
	FallbackChat     = "I'm sorry, I couldn't process that. Could you try rephrasing?"
	FallbackSolution = "I'm sorry, I was unable to generate a solution for this question at the moment. Please try rephrasing or ensure it's a solvable problem."

	NoReleasedTestsMessage = "Could not find any relevant released test questions for the specified criteria."
	NoTopicQuizMessage     = "AI failed to generate a quiz for this topic. Please try a different topic or adjust the number of questions."
)

var (
	ErrNoExplanation = errors.New("AI failed to provide an explanation")
	ErrProvider      = errors.New("AI provider request failed")
)

// GenerationError means the model answered but produced nothing usable.
// Message is safe to show to the user.
type GenerationError struct {
	Message string
}

func (e *GenerationError) Error() string {
	return e.Message
}
