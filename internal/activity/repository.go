package activity

import (
	"context"

	"github.com/saulo-duarte/quizzical/internal/kvstore"
)

type Repository interface {
	List(ctx context.Context) []RecentActivityItem
	Update(ctx context.Context, fn func([]RecentActivityItem) []RecentActivityItem) error
}

type repository struct{}

// NewRepository stores the list under one key of the caller's store scope.
func NewRepository() Repository {
	return &repository{}
}

func emptyList() []RecentActivityItem {
	return []RecentActivityItem{}
}

func (r *repository) List(ctx context.Context) []RecentActivityItem {
	return kvstore.ReadFunc(ctx, kvstore.ScopeFromContext(ctx), StorageKey, emptyList)
}

func (r *repository) Update(ctx context.Context, fn func([]RecentActivityItem) []RecentActivityItem) error {
	_, err := kvstore.Update(ctx, kvstore.ScopeFromContext(ctx), StorageKey, emptyList, fn)
	return err
}
