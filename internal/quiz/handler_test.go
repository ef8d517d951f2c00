package quiz_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/saulo-duarte/quizzical/internal/activity"
	"github.com/saulo-duarte/quizzical/internal/aiquiz"
	"github.com/saulo-duarte/quizzical/internal/kvstore"
	"github.com/saulo-duarte/quizzical/internal/quiz"
	"github.com/saulo-duarte/quizzical/internal/validation"
)

func newServer(t *testing.T, gw *fakeGateway) http.Handler {
	t.Helper()
	store, err := kvstore.New(context.Background(), kvstore.NewMemoryBackend(), nil)
	if err != nil {
		t.Fatalf("kvstore.New failed: %v", err)
	}
	svc := quiz.NewService(quiz.NewRepository(), gw, activity.NewService(activity.NewRepository()))

	r := chi.NewRouter()
	r.Use(store.Middleware(func(*http.Request) (string, bool) { return "client-1", true }))
	r.Mount("/quiz", quiz.Routes(quiz.NewHandler(svc)))
	return r
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandlerRedirects(t *testing.T) {
	h := newServer(t, &fakeGateway{quiz: &aiquiz.QuizResult{Questions: capitals}})

	for _, path := range []string{"/quiz/player", "/quiz/results"} {
		rec := do(h, http.MethodGet, path, "")
		if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != quiz.SetupPath {
			t.Errorf("%s without quiz: want 303 to setup, got %d %q", path, rec.Code, rec.Header().Get("Location"))
		}
	}

	rec := do(h, http.MethodPost, "/quiz/topic", `{"topic":"Capitals","numQuestions":4}`)
	if rec.Code != http.StatusCreated || rec.Header().Get("Location") != quiz.PlayerPath {
		t.Fatalf("start: want 201 with player location, got %d %q", rec.Code, rec.Header().Get("Location"))
	}

	if rec := do(h, http.MethodGet, "/quiz/player", ""); rec.Code != http.StatusOK {
		t.Errorf("player with quiz: want 200, got %d", rec.Code)
	}

	if rec := do(h, http.MethodPost, "/quiz/submit", ""); rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != quiz.ResultsPath {
		t.Errorf("submit: want 303 to results, got %d", rec.Code)
	}

	// Submitted with no answers: nothing to review.
	if rec := do(h, http.MethodGet, "/quiz/results", ""); rec.Code != http.StatusSeeOther {
		t.Errorf("results without answers: want 303, got %d", rec.Code)
	}
	if rec := do(h, http.MethodGet, "/quiz/player", ""); rec.Code != http.StatusSeeOther {
		t.Errorf("player after submit: want 303, got %d", rec.Code)
	}
}

func TestHandlerPlayFlow(t *testing.T) {
	h := newServer(t, &fakeGateway{
		quiz:        &aiquiz.QuizResult{Questions: capitals},
		hint:        &aiquiz.HintResult{Hint: "Think of pasta."},
		explanation: "Rome, not Paris.",
	})
	do(h, http.MethodPost, "/quiz/topic", `{"topic":"Capitals","numQuestions":4}`)

	cases := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"BadIndex", "/quiz/questions/x/answer", `{"option":"Paris"}`, http.StatusBadRequest},
		{"OutOfRange", "/quiz/questions/7/answer", `{"option":"Paris"}`, http.StatusNotFound},
		{"UnknownOption", "/quiz/questions/0/answer", `{"option":"Lyon"}`, http.StatusBadRequest},
		{"Hint", "/quiz/questions/1/hint", "", http.StatusOK},
		{"Answer", "/quiz/questions/1/answer", `{"option":"Paris"}`, http.StatusOK},
		{"AnswerTwice", "/quiz/questions/1/answer", `{"option":"Rome"}`, http.StatusConflict},
		{"ExplainBeforeSubmit", "/quiz/questions/1/explanation", "", http.StatusConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if rec := do(h, http.MethodPost, tc.path, tc.body); rec.Code != tc.status {
				t.Errorf("want %d, got %d: %s", tc.status, rec.Code, rec.Body.String())
			}
		})
	}

	do(h, http.MethodPost, "/quiz/submit", "")

	rec := do(h, http.MethodGet, "/quiz/results", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("results: want 200, got %d", rec.Code)
	}
	var res quiz.Results
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode results: %v", err)
	}
	if res.Score.Answered != 1 || res.Score.Effective != 0 {
		t.Errorf("unexpected score %+v", res.Score)
	}

	rec = do(h, http.MethodPost, "/quiz/questions/1/explanation", `{"reasoning":"Both are in Europe"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("explain: want 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var q quiz.QuizQuestion
	_ = json.NewDecoder(rec.Body).Decode(&q)
	if q.AIExplanation != "Rome, not Paris." || q.UserSubmittedReasoning != "Both are in Europe" {
		t.Errorf("unexpected question %+v", q)
	}
}

func TestHandlerGatewayErrors(t *testing.T) {
	t.Run("Validation", func(t *testing.T) {
		gw := &fakeGateway{err: &validation.Error{Fields: map[string]string{"numQuestions": "must be at most 100"}}}
		rec := do(newServer(t, gw), http.MethodPost, "/quiz/topic", `{"topic":"Capitals","numQuestions":101}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("want 400, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "numQuestions") {
			t.Errorf("field errors missing: %s", rec.Body.String())
		}
	})

	t.Run("EmptyTopicQuiz", func(t *testing.T) {
		gw := &fakeGateway{err: &aiquiz.GenerationError{Message: aiquiz.NoTopicQuizMessage}}
		rec := do(newServer(t, gw), http.MethodPost, "/quiz/topic", `{"topic":"Capitals","numQuestions":3}`)
		if rec.Code != http.StatusUnprocessableEntity || !strings.Contains(rec.Body.String(), "different topic") {
			t.Errorf("want 422 with message, got %d %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("EmptyReleasedTest", func(t *testing.T) {
		gw := &fakeGateway{released: &aiquiz.QuizResult{Questions: []aiquiz.Question{}, ScoringSystemContext: aiquiz.NoReleasedTestsMessage}}
		rec := do(newServer(t, gw), http.MethodPost, "/quiz/released-test", `{"county":"Virginia","unit":"Grade 5","numQuestions":3}`)
		if rec.Code != http.StatusUnprocessableEntity || !strings.Contains(rec.Body.String(), "Could not find") {
			t.Errorf("want 422 with context, got %d %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("ProviderDown", func(t *testing.T) {
		gw := &fakeGateway{err: aiquiz.ErrProvider}
		rec := do(newServer(t, gw), http.MethodPost, "/quiz/topic", `{"topic":"Capitals","numQuestions":3}`)
		if rec.Code != http.StatusBadGateway {
			t.Errorf("want 502, got %d", rec.Code)
		}
	})
}
