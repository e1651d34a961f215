package job

import (
	"context"
	"fmt"
	"time"

	"github.com/fieldbeat/fieldbeat/internal/event_bus"
	"github.com/fieldbeat/fieldbeat/pkg/user"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	CreateJob(ctx context.Context, job Job) (Job, error)
	GetJob(ctx context.Context, id string) (Job, error)
	FindByGoogleEventId(ctx context.Context, googleEventId string) (*Job, error)
	GetJobs(ctx context.Context, from, to time.Time) ([]Job, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
}

type ServiceImpl struct {
	repo Repo
	bus  *event_bus.EventBus
}

func NewJobService(repo Repo, bus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, bus: bus}
}

func (s *ServiceImpl) CreateJob(ctx context.Context, job Job) (Job, error) {
	if job.CreatedBy == "" {
		userId, err := user.CurrentId(ctx)
		if err != nil {
			return Job{}, fmt.Errorf("failed to get current user: %w", err)
		}
		job.CreatedBy = userId
	}
	if job.ScheduledDate.IsZero() {
		return Job{}, fmt.Errorf("scheduled date is required")
	}

	created, err := s.repo.CreateJob(ctx, job)
	if err != nil {
		return Job{}, err
	}

	if err := s.bus.Publish(event_bus.NewEvent(ctx, event_bus.JobCreated, created)); err != nil {
		// Subscribers are informational only, the job itself is stored.
		log.Errorf("job.created handler failed: %v", err)
	}
	return created, nil
}

func (s *ServiceImpl) GetJob(ctx context.Context, id string) (Job, error) {
	return s.repo.GetJob(ctx, id)
}

func (s *ServiceImpl) FindByGoogleEventId(ctx context.Context, googleEventId string) (*Job, error) {
	return s.repo.FindByGoogleEventId(ctx, googleEventId)
}

func (s *ServiceImpl) GetJobs(ctx context.Context, from, to time.Time) ([]Job, error) {
	return s.repo.GetJobs(ctx, from, to)
}

func (s *ServiceImpl) UpdateStatus(ctx context.Context, id string, status Status) error {
	return s.repo.UpdateStatus(ctx, id, status)
}
