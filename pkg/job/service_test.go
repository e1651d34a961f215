package job

import (
	"context"
	"testing"
	"time"

	"github.com/fieldbeat/fieldbeat/internal/event_bus"
	"github.com/fieldbeat/fieldbeat/pkg/user"
	"github.com/stretchr/testify/assert"
)

func TestJobService_CreateJob(t *testing.T) {
	ctx := user.WithUser(context.Background(), user.User{Id: "u-1"})

	t.Run("stamps the current user as creator", func(t *testing.T) {
		// given
		repo := NewStubRepo()
		service := NewJobService(repo, event_bus.NewEventBus())

		// when
		created, err := service.CreateJob(ctx, Job{Address: "1 Main St", ScheduledDate: time.Now()})

		// then
		assert.NoError(t, err)
		assert.Equal(t, "u-1", created.CreatedBy)
	})

	t.Run("keeps an explicit creator", func(t *testing.T) {
		repo := NewStubRepo()
		service := NewJobService(repo, event_bus.NewEventBus())

		created, err := service.CreateJob(ctx, Job{ScheduledDate: time.Now(), CreatedBy: "u-2"})
		assert.NoError(t, err)
		assert.Equal(t, "u-2", created.CreatedBy)
	})

	t.Run("fails without a user in context", func(t *testing.T) {
		service := NewJobService(NewStubRepo(), event_bus.NewEventBus())

		_, err := service.CreateJob(context.Background(), Job{ScheduledDate: time.Now()})
		assert.ErrorIs(t, err, user.ErrNoUser)
	})

	t.Run("requires a scheduled date", func(t *testing.T) {
		service := NewJobService(NewStubRepo(), event_bus.NewEventBus())

		_, err := service.CreateJob(ctx, Job{Address: "1 Main St"})
		assert.Error(t, err)
	})

	t.Run("publishes a job.created event", func(t *testing.T) {
		// given
		bus := event_bus.NewEventBus()
		service := NewJobService(NewStubRepo(), bus)
		var received []Job
		event_bus.SubscribeTyped[Job](bus, event_bus.JobCreated, func(e event_bus.EventT[Job]) error {
			received = append(received, e.Data)
			return nil
		})

		// when
		created, err := service.CreateJob(ctx, Job{ScheduledDate: time.Now()})

		// then
		assert.NoError(t, err)
		assert.Len(t, received, 1)
		assert.Equal(t, created.Id, received[0].Id)
	})
}
