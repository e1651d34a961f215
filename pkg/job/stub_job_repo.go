package job

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// StubRepo is an in-memory Repo implementation for tests. It enforces the same
// uniqueness on google event ids as the real table and can be told to fail a
// specific event id, to exercise per-event error recovery in the import engine.
type StubRepo struct {
	mu         sync.RWMutex
	jobs       map[string]Job
	failEvents map[string]error
}

func NewStubRepo() *StubRepo {
	return &StubRepo{
		jobs:       make(map[string]Job),
		failEvents: make(map[string]error),
	}
}

// FailOnEvent makes CreateJob return err for jobs referencing googleEventId.
func (r *StubRepo) FailOnEvent(googleEventId string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failEvents[googleEventId] = err
}

func (r *StubRepo) CreateJob(ctx context.Context, job Job) (Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err, ok := r.failEvents[job.GoogleEventId]; ok {
		return Job{}, err
	}
	if job.GoogleEventId != "" {
		for _, existing := range r.jobs {
			if existing.GoogleEventId == job.GoogleEventId {
				return Job{}, ErrDuplicateEvent
			}
		}
	}
	if job.Id == "" {
		job.Id = uuid.New().String()
	}
	if job.Status == "" {
		job.Status = StatusScheduled
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now()
	}
	r.jobs[job.Id] = job
	return job, nil
}

func (r *StubRepo) GetJob(ctx context.Context, id string) (Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[id]
	if !ok {
		return Job{}, ErrJobNotFound
	}
	return job, nil
}

func (r *StubRepo) FindByGoogleEventId(ctx context.Context, googleEventId string) (*Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, job := range r.jobs {
		if job.GoogleEventId == googleEventId {
			found := job
			return &found, nil
		}
	}
	return nil, nil
}

func (r *StubRepo) GetJobs(ctx context.Context, from, to time.Time) ([]Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	jobs := make([]Job, 0)
	for _, job := range r.jobs {
		if !job.ScheduledDate.Before(from) && !job.ScheduledDate.After(to) {
			jobs = append(jobs, job)
		}
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].ScheduledDate.Before(jobs[j].ScheduledDate) })
	return jobs, nil
}

func (r *StubRepo) UpdateStatus(ctx context.Context, id string, status Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return ErrJobNotFound
	}
	job.Status = status
	r.jobs[id] = job
	return nil
}

// AllJobs returns every stored job, for test assertions.
func (r *StubRepo) AllJobs() []Job {
	r.mu.RLock()
	defer r.mu.RUnlock()
	jobs := make([]Job, 0, len(r.jobs))
	for _, job := range r.jobs {
		jobs = append(jobs, job)
	}
	return jobs
}

// CountByGoogleEventId returns how many stored jobs reference the event id.
func (r *StubRepo) CountByGoogleEventId(googleEventId string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, job := range r.jobs {
		if job.GoogleEventId == googleEventId {
			count++
		}
	}
	return count
}
