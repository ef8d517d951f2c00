package studygoal

import (
	"context"

	"github.com/saulo-duarte/quizzical/internal/kvstore"
)

type Repository interface {
	Find(ctx context.Context) StudyGoal
	Save(ctx context.Context, goal StudyGoal) error
}

type repository struct{}

func NewRepository() Repository {
	return &repository{}
}

func (r *repository) Find(ctx context.Context) StudyGoal {
	return kvstore.Read(ctx, kvstore.ScopeFromContext(ctx), StorageKey, StudyGoal{})
}

func (r *repository) Save(ctx context.Context, goal StudyGoal) error {
	return kvstore.Write(ctx, kvstore.ScopeFromContext(ctx), StorageKey, goal)
}
