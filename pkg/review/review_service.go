package review

import (
	"context"
	"fmt"
)

// QueueWriter is the narrow interface the calendar import engine uses to put
// events into the review queue.
type QueueWriter interface {
	QueueEvent(ctx context.Context, event UnmatchedEvent) (UnmatchedEvent, error)
}

type Service interface {
	QueueWriter
	GetEventsByStatus(ctx context.Context, status Status) ([]UnmatchedEvent, error)
	Resolve(ctx context.Context, id string) error
	Dismiss(ctx context.Context, id string) error
}

type ServiceImpl struct {
	repo Repo
}

func NewReviewService(repo Repo) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) QueueEvent(ctx context.Context, event UnmatchedEvent) (UnmatchedEvent, error) {
	if event.GoogleEventId == "" {
		return UnmatchedEvent{}, fmt.Errorf("google event id is required")
	}
	if event.Status != StatusPending && event.Status != StatusFlagged {
		return UnmatchedEvent{}, fmt.Errorf("new review queue entries must be pending or flagged, got %q", event.Status)
	}
	return s.repo.StoreEvent(ctx, event)
}

func (s *ServiceImpl) GetEventsByStatus(ctx context.Context, status Status) ([]UnmatchedEvent, error) {
	return s.repo.GetEventsByStatus(ctx, status)
}

func (s *ServiceImpl) Resolve(ctx context.Context, id string) error {
	return s.repo.UpdateStatus(ctx, id, StatusResolved)
}

func (s *ServiceImpl) Dismiss(ctx context.Context, id string) error {
	return s.repo.UpdateStatus(ctx, id, StatusDismissed)
}
