package studygoal_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/saulo-duarte/quizzical/internal/kvstore"
	"github.com/saulo-duarte/quizzical/internal/studygoal"
	"github.com/saulo-duarte/quizzical/internal/validation"
)

func TestStudyGoal(t *testing.T) {
	store, err := kvstore.New(context.Background(), kvstore.NewMemoryBackend(), nil)
	if err != nil {
		t.Fatalf("kvstore.New failed: %v", err)
	}
	ctx := kvstore.WithScope(context.Background(), store.Scope("client-1", "tab-a"))
	svc := studygoal.NewService(studygoal.NewRepository())

	t.Run("EmptyByDefault", func(t *testing.T) {
		got := svc.Get(ctx)
		if got.Text != "" || got.LastUpdated != nil {
			t.Errorf("expected empty goal, got %+v", got)
		}
	})

	t.Run("SetAndRead", func(t *testing.T) {
		text := "  Finish the chemistry unit  "
		if _, err := svc.Update(ctx, studygoal.UpdateStudyGoalDTO{Text: &text}); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		got := svc.Get(ctx)
		if got.Text != "Finish the chemistry unit" || got.LastUpdated == nil {
			t.Errorf("unexpected goal %+v", got)
		}
	})

	t.Run("TooLong", func(t *testing.T) {
		text := strings.Repeat("g", studygoal.MaxTextLength+1)
		if _, err := svc.Update(ctx, studygoal.UpdateStudyGoalDTO{Text: &text}); !errors.Is(err, validation.ErrInvalid) {
			t.Errorf("expected validation error, got %v", err)
		}
		if got := svc.Get(ctx); got.Text != "Finish the chemistry unit" {
			t.Errorf("rejected update must not change the goal, got %q", got.Text)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		if _, err := svc.Update(ctx, studygoal.UpdateStudyGoalDTO{}); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if got := svc.Get(ctx); got.Text != "" {
			t.Errorf("expected cleared goal, got %q", got.Text)
		}
	})
}
