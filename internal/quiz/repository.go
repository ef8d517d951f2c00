package quiz

import (
	"context"

	"github.com/saulo-duarte/quizzical/internal/kvstore"
)

type QuizRepository interface {
	Current(ctx context.Context) *Quiz
	Save(ctx context.Context, q *Quiz) error
}

type quizRepository struct{}

// NewRepository keeps the single current quiz of the caller's store scope.
func NewRepository() QuizRepository {
	return &quizRepository{}
}

func (r *quizRepository) Current(ctx context.Context) *Quiz {
	return kvstore.Read[*Quiz](ctx, kvstore.ScopeFromContext(ctx), StorageKey, nil)
}

func (r *quizRepository) Save(ctx context.Context, q *Quiz) error {
	return kvstore.Write(ctx, kvstore.ScopeFromContext(ctx), StorageKey, q)
}
