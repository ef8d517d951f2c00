package aiquiz_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/saulo-duarte/quizzical/internal/aiquiz"
	"github.com/saulo-duarte/quizzical/internal/validation"
)

type fakeProvider struct {
	answer  string
	err     error
	calls   int
	prompts []string
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	return f.answer, f.err
}

const twoQuestions = "```json\n" + `{"quiz":[
 {"question":"2+2?","options":["3","4","5","6"],"correctAnswer":"4"},
 {"question":"Capital of France?","options":["Paris","Rome","Madrid","Lisbon"],"correctAnswer":"Paris","imageUrl":"  "}
]}` + "\n```"

func TestGenerateQuizByTopic(t *testing.T) {
	ctx := context.Background()

	t.Run("CountBounds", func(t *testing.T) {
		cases := []struct {
			count int
			valid bool
		}{
			{0, false}, {1, true}, {100, true}, {101, false},
		}
		for _, tc := range cases {
			p := &fakeProvider{answer: twoQuestions}
			svc := aiquiz.NewService(p, 0)
			_, err := svc.GenerateQuizByTopic(ctx, aiquiz.TopicQuizRequest{Topic: "Arithmetic", NumQuestions: tc.count})

			if tc.valid && err != nil {
				t.Errorf("count %d: unexpected error %v", tc.count, err)
			}
			if !tc.valid {
				if !errors.Is(err, validation.ErrInvalid) {
					t.Errorf("count %d: expected validation error, got %v", tc.count, err)
				}
				if p.calls != 0 {
					t.Errorf("count %d: provider must not be called on invalid input", tc.count)
				}
			}
		}
	})

	t.Run("TopicLength", func(t *testing.T) {
		p := &fakeProvider{answer: twoQuestions}
		svc := aiquiz.NewService(p, 0)
		for _, topic := range []string{"ab", "   ab  ", strings.Repeat("x", 101)} {
			if _, err := svc.GenerateQuizByTopic(ctx, aiquiz.TopicQuizRequest{Topic: topic, NumQuestions: 3}); !errors.Is(err, validation.ErrInvalid) {
				t.Errorf("topic %q: expected validation error, got %v", topic, err)
			}
		}
		if p.calls != 0 {
			t.Errorf("provider called %d times", p.calls)
		}
	})

	t.Run("DecodesFencedJSON", func(t *testing.T) {
		p := &fakeProvider{answer: twoQuestions}
		res, err := aiquiz.NewService(p, 0).GenerateQuizByTopic(ctx, aiquiz.TopicQuizRequest{Topic: "General", NumQuestions: 2})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(res.Questions) != 2 {
			t.Fatalf("expected 2 questions, got %d", len(res.Questions))
		}
		if res.Questions[1].ImageURL != nil {
			t.Errorf("blank image url should be dropped, got %q", *res.Questions[1].ImageURL)
		}
		if !strings.Contains(p.prompts[0], "2 questions on the topic of General") {
			t.Errorf("prompt does not carry the request: %s", p.prompts[0])
		}
	})

	t.Run("DropsUnanswerableQuestions", func(t *testing.T) {
		p := &fakeProvider{answer: `{"quiz":[
			{"question":"q1","options":["a","b"],"correctAnswer":"c"},
			{"question":"q2","options":["a"],"correctAnswer":"a"},
			{"question":"q3","options":["a","b"],"correctAnswer":"b"}]}`}
		res, err := aiquiz.NewService(p, 0).GenerateQuizByTopic(ctx, aiquiz.TopicQuizRequest{Topic: "Letters", NumQuestions: 3})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(res.Questions) != 1 || res.Questions[0].Question != "q3" {
			t.Errorf("expected only q3, got %+v", res.Questions)
		}
	})

	t.Run("EmptyQuizIsGenerationError", func(t *testing.T) {
		cases := map[string]struct {
			answer string
			want   string
		}{
			"EmptyWithContext": {`{"quiz":[],"scoringSystemContext":"Topic too vague."}`, "Topic too vague."},
			"EmptyNoContext":   {`{"quiz":[]}`, aiquiz.NoTopicQuizMessage},
			"Malformed":        {`not json`, aiquiz.NoTopicQuizMessage},
		}
		for name, tc := range cases {
			t.Run(name, func(t *testing.T) {
				_, err := aiquiz.NewService(&fakeProvider{answer: tc.answer}, 0).
					GenerateQuizByTopic(ctx, aiquiz.TopicQuizRequest{Topic: "Anything", NumQuestions: 1})
				var genErr *aiquiz.GenerationError
				if !errors.As(err, &genErr) {
					t.Fatalf("expected GenerationError, got %v", err)
				}
				if genErr.Message != tc.want {
					t.Errorf("want %q, got %q", tc.want, genErr.Message)
				}
			})
		}
	})

	t.Run("ProviderFailure", func(t *testing.T) {
		p := &fakeProvider{err: aiquiz.ErrProvider}
		_, err := aiquiz.NewService(p, 0).GenerateQuizByTopic(ctx, aiquiz.TopicQuizRequest{Topic: "Anything", NumQuestions: 1})
		if !errors.Is(err, aiquiz.ErrProvider) {
			t.Errorf("expected provider error, got %v", err)
		}
	})
}

func TestGenerateQuizFromReleasedTests(t *testing.T) {
	ctx := context.Background()
	req := aiquiz.ReleasedTestQuizRequest{Region: "North Carolina", Unit: "Grade 8 Science", NumQuestions: 5}

	t.Run("EmptyListIsSuccess", func(t *testing.T) {
		res, err := aiquiz.NewService(&fakeProvider{answer: `{"quiz":[]}`}, 0).GenerateQuizFromReleasedTests(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(res.Questions) != 0 || res.ScoringSystemContext != aiquiz.NoReleasedTestsMessage {
			t.Errorf("unexpected result: %+v", res)
		}
	})

	t.Run("KeepsScoringContext", func(t *testing.T) {
		answer := `{"quiz":[{"question":"q","options":["a","b","c","d"],"correctAnswer":"d","imageDescription":"A right triangle"}],
			"scoringSystemContext":"Scaled scores 200-800."}`
		res, err := aiquiz.NewService(&fakeProvider{answer: answer}, 0).GenerateQuizFromReleasedTests(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.ScoringSystemContext != "Scaled scores 200-800." {
			t.Errorf("unexpected context %q", res.ScoringSystemContext)
		}
		if d := res.Questions[0].ImageDescription; d == nil || *d != "A right triangle" {
			t.Errorf("image description lost: %v", d)
		}
	})

	t.Run("ShortRegionRejected", func(t *testing.T) {
		p := &fakeProvider{}
		bad := req
		bad.Region = "NC"
		if _, err := aiquiz.NewService(p, 0).GenerateQuizFromReleasedTests(ctx, bad); !errors.Is(err, validation.ErrInvalid) {
			t.Errorf("expected validation error, got %v", err)
		}
		if p.calls != 0 {
			t.Error("provider must not be called")
		}
	})
}

func TestDegradedResults(t *testing.T) {
	ctx := context.Background()

	t.Run("HintFallback", func(t *testing.T) {
		res, err := aiquiz.NewService(&fakeProvider{answer: `{}`}, 0).
			GenerateHint(ctx, aiquiz.HintRequest{Question: "2+2?", Options: []string{"3", "4"}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.Fallback || res.Hint != aiquiz.FallbackHint {
			t.Errorf("expected fallback hint, got %+v", res)
		}
	})

	t.Run("HintSuccess", func(t *testing.T) {
		res, err := aiquiz.NewService(&fakeProvider{answer: `{"hint":"Count on your fingers."}`}, 0).
			GenerateHint(ctx, aiquiz.HintRequest{Question: "2+2?", Options: []string{"3", "4"}})
		if err != nil || res.Fallback || res.Hint != "Count on your fingers." {
			t.Errorf("unexpected result %+v, err %v", res, err)
		}
	})

	t.Run("ChatFallback", func(t *testing.T) {
		res, err := aiquiz.NewService(&fakeProvider{answer: ""}, 0).
			StudyChatTurn(ctx, aiquiz.ChatRequest{Topic: "Biology", Message: "What is a cell?"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.Fallback || res.Reply != aiquiz.FallbackChat {
			t.Errorf("expected fallback reply, got %+v", res)
		}
	})

	t.Run("ChatHistoryInPrompt", func(t *testing.T) {
		p := &fakeProvider{answer: `{"aiResponseMessage":"Cells are the basic unit of life."}`}
		_, err := aiquiz.NewService(p, 0).StudyChatTurn(ctx, aiquiz.ChatRequest{
			Topic:   "Biology",
			Message: "And organelles?",
			ChatHistory: []aiquiz.ChatMessage{
				{Role: aiquiz.RoleUser, Content: "What is a cell?"},
				{Role: aiquiz.RoleModel, Content: "The smallest unit of life."},
				{Role: aiquiz.RoleUser, Content: "And organelles?"},
			},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		prompt := p.prompts[0]
		if !strings.Contains(prompt, "Tutor: The smallest unit of life.") {
			t.Errorf("history missing from prompt: %s", prompt)
		}
		if strings.Count(prompt, "And organelles?") != 1 {
			t.Errorf("current message should appear once: %s", prompt)
		}
	})

	t.Run("ChatMessageBounds", func(t *testing.T) {
		p := &fakeProvider{}
		svc := aiquiz.NewService(p, 0)
		for _, msg := range []string{"", strings.Repeat("a", 1001)} {
			if _, err := svc.StudyChatTurn(ctx, aiquiz.ChatRequest{Topic: "Biology", Message: msg}); !errors.Is(err, validation.ErrInvalid) {
				t.Errorf("message len %d: expected validation error, got %v", len(msg), err)
			}
		}
		if p.calls != 0 {
			t.Error("provider must not be called")
		}
	})

	t.Run("SolveFallback", func(t *testing.T) {
		res, err := aiquiz.NewService(&fakeProvider{answer: `{"solution":"  "}`}, 0).
			SolveQuestion(ctx, aiquiz.SolveRequest{QuestionText: "What is the derivative of x^2?"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.Fallback || res.Solution != aiquiz.FallbackSolution {
			t.Errorf("expected fallback solution, got %+v", res)
		}
	})

	t.Run("SolveTooShort", func(t *testing.T) {
		_, err := aiquiz.NewService(&fakeProvider{}, 0).SolveQuestion(ctx, aiquiz.SolveRequest{QuestionText: "2+2?"})
		if !errors.Is(err, validation.ErrInvalid) {
			t.Errorf("expected validation error, got %v", err)
		}
	})
}

func TestExplainAnswer(t *testing.T) {
	ctx := context.Background()
	req := aiquiz.ExplainRequest{Question: "2+2?", Answer: "5", CorrectAnswer: "4"}

	t.Run("MissingExplanation", func(t *testing.T) {
		_, err := aiquiz.NewService(&fakeProvider{answer: `{"explanation":""}`}, 0).ExplainAnswer(ctx, req)
		if !errors.Is(err, aiquiz.ErrNoExplanation) {
			t.Errorf("expected ErrNoExplanation, got %v", err)
		}
	})

	t.Run("ReasoningInPrompt", func(t *testing.T) {
		p := &fakeProvider{answer: `{"explanation":"Two plus two is four."}`}
		withReasoning := req
		withReasoning.UserReasoning = "I added one extra"
		res, err := aiquiz.NewService(p, 0).ExplainAnswer(ctx, withReasoning)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Explanation != "Two plus two is four." {
			t.Errorf("unexpected explanation %q", res.Explanation)
		}
		if !strings.Contains(p.prompts[0], `"I added one extra"`) {
			t.Errorf("reasoning missing from prompt: %s", p.prompts[0])
		}
	})
}
