package quiz

import "errors"

// Status of the current attempt. An empty slot means no quiz has been started.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusSubmitted  Status = "submitted"
)

var AllStatuses = []Status{
	StatusInProgress,
	StatusSubmitted,
}

func (s Status) IsValid() bool {
	for _, v := range AllStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type Source string

const (
	SourceTopic        Source = "topic"
	SourceReleasedTest Source = "released_test"
)

type QuizQuestion struct {
	Question               string   `json:"question"`
	Options                []string `json:"options"`
	CorrectAnswer          string   `json:"correctAnswer"`
	ImageURL               *string  `json:"imageUrl,omitempty"`
	ImageDescription       *string  `json:"imageDescription,omitempty"`
	UserAnswer             *string  `json:"userAnswer,omitempty"`
	IsCorrect              *bool    `json:"isCorrect,omitempty"`
	HintUsed               bool     `json:"hintUsed"`
	HintText               string   `json:"hintText,omitempty"`
	AIExplanation          string   `json:"aiExplanation,omitempty"`
	UserSubmittedReasoning string   `json:"userSubmittedReasoning,omitempty"`
}

func (q *QuizQuestion) Answered() bool {
	return q.UserAnswer != nil
}

func (q *QuizQuestion) HasOption(option string) bool {
	for _, o := range q.Options {
		if o == option {
			return true
		}
	}
	return false
}

type Quiz struct {
	ID                   string         `json:"id"`
	Topic                string         `json:"topic"`
	Questions            []QuizQuestion `json:"questions"`
	ScoringSystemContext string         `json:"scoringSystemContext,omitempty"`
	Status               Status         `json:"status"`
	Source               Source         `json:"source"`
	CreatedAt            int64          `json:"createdAt"`
	SubmittedAt          int64          `json:"submittedAt,omitempty"`
}

// Playable reports whether the stored quiz can be shown at all.
func (q *Quiz) Playable() bool {
	return q != nil && q.ID != "" && len(q.Questions) > 0 && q.Status.IsValid()
}

func (q *Quiz) HasResults() bool {
	if q == nil || q.Status != StatusSubmitted {
		return false
	}
	for i := range q.Questions {
		if q.Questions[i].IsCorrect != nil {
			return true
		}
	}
	return false
}

func (q *Quiz) question(index int) (*QuizQuestion, error) {
	if index < 0 || index >= len(q.Questions) {
		return nil, ErrIndexOutOfRange
	}
	return &q.Questions[index], nil
}

type Score struct {
	Correct    int     `json:"correct"`
	WithHint   int     `json:"correctWithHint"`
	Answered   int     `json:"answered"`
	Total      int     `json:"total"`
	Effective  float64 `json:"effective"`
	Percentage float64 `json:"percentage"`
}

type Results struct {
	Quiz  *Quiz `json:"quiz"`
	Score Score `json:"score"`
}

const StorageKey = "quizzicalai_currentQuiz"

var (
	ErrNoQuiz          = errors.New("no quiz in progress")
	ErrNotInProgress   = errors.New("quiz is not in progress")
	ErrNoResults       = errors.New("quiz has no results")
	ErrIndexOutOfRange = errors.New("question index out of range")
	ErrAlreadyAnswered = errors.New("question already answered")
	ErrInvalidOption   = errors.New("answer is not one of the question options")
	ErrNotEligible     = errors.New("question is not eligible for an explanation")
	ErrStaleQuiz       = errors.New("quiz was replaced or submitted while the request was running")
	ErrNoQuestions     = errors.New("quiz needs at least one question")
)
