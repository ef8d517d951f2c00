package activity

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/saulo-duarte/quizzical/internal/config"
)

type Service interface {
	Add(ctx context.Context, t ActivityType, description string) (*RecentActivityItem, error)
	List(ctx context.Context) []RecentActivityItem
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

// NewServiceWithClock is NewService with a fixed time source.
func NewServiceWithClock(repo Repository, now func() time.Time) Service {
	return &service{repo: repo, now: now}
}

// Add prepends a new item and keeps only the MaxItems most recent.
func (s *service) Add(ctx context.Context, t ActivityType, description string) (*RecentActivityItem, error) {
	if !t.IsValid() {
		return nil, fmt.Errorf("invalid activity type %q", t)
	}
	item := RecentActivityItem{
		ID:          uuid.NewString(),
		Type:        t,
		Description: description,
		Timestamp:   s.now().UnixMilli(),
	}

	err := s.repo.Update(ctx, func(current []RecentActivityItem) []RecentActivityItem {
		next := make([]RecentActivityItem, 0, MaxItems)
		next = append(next, item)
		for _, it := range current {
			if len(next) == MaxItems {
				break
			}
			next = append(next, it)
		}
		return next
	})
	if err != nil {
		config.WithContext(ctx).WithError(err).Warn("Failed to record activity")
		return nil, err
	}
	return &item, nil
}

func (s *service) List(ctx context.Context) []RecentActivityItem {
	return s.repo.List(ctx)
}
