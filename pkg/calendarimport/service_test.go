package calendarimport

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fieldbeat/fieldbeat/internal/event_bus"
	"github.com/fieldbeat/fieldbeat/internal/utils"
	"github.com/fieldbeat/fieldbeat/pkg/builder"
	"github.com/fieldbeat/fieldbeat/pkg/job"
	"github.com/fieldbeat/fieldbeat/pkg/review"
	"github.com/fieldbeat/fieldbeat/pkg/user"
	"github.com/stretchr/testify/assert"
)

type stubEventSource struct {
	events         []CalendarEvent
	err            error
	lastCalendarId string
	lastFrom       time.Time
	lastTo         time.Time
}

func (s *stubEventSource) FetchEvents(ctx context.Context, calendarId string, from, to time.Time) ([]CalendarEvent, error) {
	s.lastCalendarId = calendarId
	s.lastFrom = from
	s.lastTo = to
	return s.events, s.err
}

type importFixture struct {
	jobRepo    *job.StubRepo
	reviewRepo *review.StubRepo
	logRepo    *StubLogRepo
	source     *stubEventSource
	bus        *event_bus.EventBus
	clock      *utils.MockClock
	service    *ServiceImpl
}

func setupImportService(t *testing.T) (context.Context, *importFixture) {
	t.Helper()
	ctx := user.WithUser(context.Background(), user.User{Id: "u-1", Username: "inspector"})

	f := &importFixture{
		jobRepo:    job.NewStubRepo(),
		reviewRepo: review.NewStubRepo(),
		logRepo:    NewStubLogRepo(),
		source:     &stubEventSource{},
		bus:        event_bus.NewEventBus(),
		clock:      &utils.MockClock{FixedNow: time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)},
	}

	builderRepo := builder.NewStubRepo()
	_, err := builderRepo.AddAbbreviation(ctx, builder.Abbreviation{BuilderId: "b1", Abbreviation: "INTTEST", IsPrimary: true})
	assert.NoError(t, err)
	_, err = builderRepo.AddAbbreviation(ctx, builder.Abbreviation{BuilderId: "b2", Abbreviation: "ACME", IsPrimary: true})
	assert.NoError(t, err)

	f.service = NewService(
		job.NewJobService(f.jobRepo, f.bus),
		review.NewReviewService(f.reviewRepo),
		builderRepo,
		f.logRepo,
		f.source,
		f.bus,
		DefaultScoringConfig(),
	).WithClock(f.clock)

	return ctx, f
}

func timedEvent(id, summary string) CalendarEvent {
	return CalendarEvent{
		Id:       id,
		Summary:  summary,
		Location: "on site",
		Start:    EventDateTime{DateTime: "2026-03-05T09:30:00Z"},
		End:      EventDateTime{DateTime: "2026-03-05T10:30:00Z"},
	}
}

func TestImportEvents_HighConfidenceCreatesJob(t *testing.T) {
	// given
	ctx, f := setupImportService(t)
	event := timedEvent("evt-1", "INTTEST Test - 123 Main St")

	// when
	result, err := f.service.ImportEvents(ctx, "cal-1", []CalendarEvent{event})

	// then
	assert.NoError(t, err)
	assert.Equal(t, 1, result.JobsCreated)
	assert.Equal(t, 0, result.EventsQueued)
	assert.Equal(t, 1, result.EventsProcessed)
	assert.Empty(t, result.Errors)
	assert.NotEmpty(t, result.ImportLogId)

	jobs := f.jobRepo.AllJobs()
	assert.Len(t, jobs, 1)
	created := jobs[0]
	assert.Equal(t, "evt-1", created.GoogleEventId)
	assert.Equal(t, "b1", created.BuilderId)
	assert.Equal(t, "Full Test", created.InspectionType)
	assert.Equal(t, "123 Main St", created.Address)
	assert.Equal(t, job.StatusScheduled, created.Status)
	assert.Equal(t, time.Date(2026, time.March, 5, 9, 30, 0, 0, time.UTC), created.ScheduledDate)
	assert.False(t, created.AllDay)
	assert.Equal(t, "u-1", created.CreatedBy)

	assert.Empty(t, f.reviewRepo.AllEvents())
}

func TestImportEvents_FuzzyMatchCreatesJobAndFlagsForReview(t *testing.T) {
	// given
	ctx, f := setupImportService(t)
	event := timedEvent("evt-2", "inttest. Pre-Drywall - 456 Oak St")

	// when
	result, err := f.service.ImportEvents(ctx, "cal-1", []CalendarEvent{event})

	// then
	assert.NoError(t, err)
	assert.Equal(t, 1, result.JobsCreated)
	// the flagged row rides along with the created job, it is not a queued-only event
	assert.Equal(t, 0, result.EventsQueued)
	assert.Empty(t, result.Errors)

	jobs := f.jobRepo.AllJobs()
	assert.Len(t, jobs, 1)
	assert.Equal(t, "b1", jobs[0].BuilderId)
	assert.Equal(t, "Pre-Drywall", jobs[0].InspectionType)
	assert.Equal(t, "456 Oak St", jobs[0].Address)

	queued := f.reviewRepo.AllEvents()
	assert.Len(t, queued, 1)
	assert.Equal(t, review.StatusFlagged, queued[0].Status)
	assert.Equal(t, "evt-2", queued[0].GoogleEventId)
	assert.Equal(t, "cal-1", queued[0].CalendarId)
	assert.Equal(t, 75, queued[0].ConfidenceScore)
	assert.Contains(t, queued[0].RawEventJson, `"builderMatch":"fuzzy"`)
}

func TestImportEvents_UnknownBuilderOnlyQueuesForReview(t *testing.T) {
	// given
	ctx, f := setupImportService(t)
	event := timedEvent("evt-3", "ABC Test - Unknown Builder")

	// when
	result, err := f.service.ImportEvents(ctx, "cal-1", []CalendarEvent{event})

	// then
	assert.NoError(t, err)
	assert.Equal(t, 0, result.JobsCreated)
	assert.Equal(t, 1, result.EventsQueued)

	assert.Empty(t, f.jobRepo.AllJobs())
	queued := f.reviewRepo.AllEvents()
	assert.Len(t, queued, 1)
	assert.Equal(t, review.StatusPending, queued[0].Status)
	assert.Equal(t, 45, queued[0].ConfidenceScore)
	assert.Equal(t, "ABC Test - Unknown Builder", queued[0].Title)
}

func TestImportEvents_ExactBuilderWithoutTypeIsLowConfidence(t *testing.T) {
	// given
	ctx, f := setupImportService(t)
	event := timedEvent("evt-4", "INTTEST coffee with the site manager")

	// when
	result, err := f.service.ImportEvents(ctx, "cal-1", []CalendarEvent{event})

	// then
	assert.NoError(t, err)
	assert.Equal(t, 0, result.JobsCreated)
	assert.Equal(t, 1, result.EventsQueued)
	queued := f.reviewRepo.AllEvents()
	assert.Len(t, queued, 1)
	assert.Equal(t, review.StatusPending, queued[0].Status)
	assert.Equal(t, 50, queued[0].ConfidenceScore)
}

func TestImportEvents_RerunIsIdempotent(t *testing.T) {
	// given
	ctx, f := setupImportService(t)
	events := []CalendarEvent{
		timedEvent("evt-1", "INTTEST Test - 123 Main St"),
		timedEvent("evt-3", "ABC Test - Unknown Builder"),
	}
	first, err := f.service.ImportEvents(ctx, "cal-1", events)
	assert.NoError(t, err)
	assert.Equal(t, 1, first.JobsCreated)
	assert.Equal(t, 1, first.EventsQueued)

	// when
	second, err := f.service.ImportEvents(ctx, "cal-1", events)

	// then
	assert.NoError(t, err)
	assert.Equal(t, 0, second.JobsCreated)
	assert.Equal(t, 0, second.EventsQueued)
	assert.Equal(t, 2, second.EventsProcessed)
	assert.Empty(t, second.Errors)

	assert.Equal(t, 1, f.jobRepo.CountByGoogleEventId("evt-1"))
	assert.Len(t, f.reviewRepo.AllEvents(), 1)
}

func TestImportEvents_AggregationInvariant(t *testing.T) {
	// given a batch hitting every tier plus a skip
	ctx, f := setupImportService(t)
	events := []CalendarEvent{
		timedEvent("evt-1", "INTTEST Test - 123 Main St"),         // high
		timedEvent("evt-2", "inttest. Pre-Drywall - 456 Oak St"),  // medium
		timedEvent("evt-3", "ABC Test - Unknown Builder"),         // low
		timedEvent("evt-4", " "),                                  // skipped
	}

	// when
	result, err := f.service.ImportEvents(ctx, "cal-1", events)

	// then
	assert.NoError(t, err)
	assert.Equal(t, len(events), result.EventsProcessed)
	assert.LessOrEqual(t, result.JobsCreated+result.EventsQueued, result.EventsProcessed)
	assert.Equal(t, 2, result.JobsCreated)
	assert.Equal(t, 1, result.EventsQueued)
}

func TestImportEvents_BlankSummaryIsSkipped(t *testing.T) {
	// given
	ctx, f := setupImportService(t)
	event := timedEvent("evt-5", "   ")

	// when
	result, err := f.service.ImportEvents(ctx, "cal-1", []CalendarEvent{event})

	// then
	assert.NoError(t, err)
	assert.Equal(t, 1, result.EventsProcessed)
	assert.Equal(t, 0, result.JobsCreated)
	assert.Equal(t, 0, result.EventsQueued)
	assert.Empty(t, result.Errors)
	assert.Empty(t, f.jobRepo.AllJobs())
	assert.Empty(t, f.reviewRepo.AllEvents())
}

func TestImportEvents_WholeDayEvent(t *testing.T) {
	// given
	ctx, f := setupImportService(t)
	event := CalendarEvent{
		Id:      "evt-6",
		Summary: "INTTEST Final - 9 Birch Ln",
		Start:   EventDateTime{Date: "2026-03-05"},
		End:     EventDateTime{Date: "2026-03-06"},
	}

	// when
	result, err := f.service.ImportEvents(ctx, "cal-1", []CalendarEvent{event})

	// then
	assert.NoError(t, err)
	assert.Equal(t, 1, result.JobsCreated)
	jobs := f.jobRepo.AllJobs()
	assert.Len(t, jobs, 1)
	assert.True(t, jobs[0].AllDay)
	assert.Equal(t, time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC), jobs[0].ScheduledDate)
}

func TestImportEvents_PerEventFailureDoesNotAbortBatch(t *testing.T) {
	// given
	ctx, f := setupImportService(t)
	f.jobRepo.FailOnEvent("evt-2", errors.New("connection reset"))
	events := []CalendarEvent{
		timedEvent("evt-1", "INTTEST Test - 123 Main St"),
		timedEvent("evt-2", "ACME Final - 456 Oak St"),
		timedEvent("evt-3", "INTTEST Rough-In - 789 Elm Rd"),
	}

	// when
	result, err := f.service.ImportEvents(ctx, "cal-1", events)

	// then
	assert.NoError(t, err)
	assert.Equal(t, 3, result.EventsProcessed)
	assert.Equal(t, 2, result.JobsCreated)
	assert.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "event evt-2")
	assert.Contains(t, result.Errors[0], "connection reset")
}

func TestImportEvents_InvalidStartTimeIsAPerEventError(t *testing.T) {
	// given
	ctx, f := setupImportService(t)
	events := []CalendarEvent{
		{Id: "evt-7", Summary: "INTTEST Test - 1 Main St", Start: EventDateTime{DateTime: "tomorrow"}},
		timedEvent("evt-8", "INTTEST Test - 2 Main St"),
	}

	// when
	result, err := f.service.ImportEvents(ctx, "cal-1", events)

	// then
	assert.NoError(t, err)
	assert.Equal(t, 2, result.EventsProcessed)
	assert.Equal(t, 1, result.JobsCreated)
	assert.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "event evt-7")
	assert.Contains(t, result.Errors[0], "invalid start time")
}

func TestImportEvents_MissingEndFallsBackToStart(t *testing.T) {
	// given
	ctx, f := setupImportService(t)
	event := CalendarEvent{
		Id:      "evt-9",
		Summary: "ABC Test - nowhere",
		Start:   EventDateTime{DateTime: "2026-03-05T09:30:00Z"},
	}

	// when
	result, err := f.service.ImportEvents(ctx, "cal-1", []CalendarEvent{event})

	// then
	assert.NoError(t, err)
	assert.Equal(t, 1, result.EventsQueued)
	queued := f.reviewRepo.AllEvents()
	assert.Len(t, queued, 1)
	assert.Equal(t, queued[0].StartTime, queued[0].EndTime)
}

func TestImportEvents_InvocationErrors(t *testing.T) {
	t.Run("missing calendar id", func(t *testing.T) {
		ctx, f := setupImportService(t)
		_, err := f.service.ImportEvents(ctx, "", []CalendarEvent{timedEvent("evt-1", "INTTEST Test")})
		assert.ErrorIs(t, err, ErrMissingCalendarId)
	})

	t.Run("event without id rejects the whole batch", func(t *testing.T) {
		ctx, f := setupImportService(t)
		events := []CalendarEvent{
			timedEvent("evt-1", "INTTEST Test - 123 Main St"),
			{Summary: "INTTEST Final - 456 Oak St"},
		}
		_, err := f.service.ImportEvents(ctx, "cal-1", events)
		assert.ErrorIs(t, err, ErrMissingEventId)
		assert.Empty(t, f.jobRepo.AllJobs())
		assert.Empty(t, f.logRepo.AllLogs())
	})

	t.Run("no user in context", func(t *testing.T) {
		_, f := setupImportService(t)
		_, err := f.service.ImportEvents(context.Background(), "cal-1", []CalendarEvent{timedEvent("evt-1", "INTTEST Test")})
		assert.ErrorIs(t, err, user.ErrNoUser)
	})
}

func TestImportEvents_WritesOneImportLogPerBatch(t *testing.T) {
	// given
	ctx, f := setupImportService(t)
	events := []CalendarEvent{
		timedEvent("evt-1", "INTTEST Test - 123 Main St"),
		timedEvent("evt-3", "ABC Test - Unknown Builder"),
	}

	// when
	result, err := f.service.ImportEvents(ctx, "cal-1", events)

	// then
	assert.NoError(t, err)
	logs := f.logRepo.AllLogs()
	assert.Len(t, logs, 1)
	assert.Equal(t, result.ImportLogId, logs[0].Id)
	assert.Equal(t, "cal-1", logs[0].CalendarId)
	assert.Equal(t, 2, logs[0].EventsProcessed)
	assert.Equal(t, 1, logs[0].JobsCreated)
	assert.Equal(t, 1, logs[0].EventsQueued)
	assert.Equal(t, f.clock.FixedNow, logs[0].CreatedAt)
}

func TestImportEvents_LogWriteFailureDoesNotFailTheBatch(t *testing.T) {
	// given
	ctx, f := setupImportService(t)
	f.logRepo.FailStore(errors.New("disk full"))

	// when
	result, err := f.service.ImportEvents(ctx, "cal-1", []CalendarEvent{timedEvent("evt-1", "INTTEST Test - 123 Main St")})

	// then
	assert.NoError(t, err)
	assert.Equal(t, 1, result.JobsCreated)
	assert.Empty(t, result.ImportLogId)
	assert.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "failed to write import log")
}

func TestImportEvents_PublishesCompletionEvent(t *testing.T) {
	// given
	ctx, f := setupImportService(t)
	var received []ImportResult
	event_bus.SubscribeTyped[ImportResult](f.bus, event_bus.CalendarImportCompleted,
		func(e event_bus.EventT[ImportResult]) error {
			received = append(received, e.Data)
			return nil
		})

	// when
	result, err := f.service.ImportEvents(ctx, "cal-1", []CalendarEvent{timedEvent("evt-1", "INTTEST Test - 123 Main St")})

	// then
	assert.NoError(t, err)
	assert.Len(t, received, 1)
	assert.Equal(t, result.JobsCreated, received[0].JobsCreated)
	assert.Equal(t, result.EventsProcessed, received[0].EventsProcessed)
}

func TestImportFromSource(t *testing.T) {
	t.Run("fetches the window and imports", func(t *testing.T) {
		// given
		ctx, f := setupImportService(t)
		f.source.events = []CalendarEvent{timedEvent("evt-1", "INTTEST Test - 123 Main St")}
		from := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2026, time.March, 8, 0, 0, 0, 0, time.UTC)

		// when
		result, err := f.service.ImportFromSource(ctx, "cal-1", from, to)

		// then
		assert.NoError(t, err)
		assert.Equal(t, 1, result.JobsCreated)
		assert.Equal(t, "cal-1", f.source.lastCalendarId)
		assert.Equal(t, from, f.source.lastFrom)
		assert.Equal(t, to, f.source.lastTo)
	})

	t.Run("source failure aborts the import", func(t *testing.T) {
		ctx, f := setupImportService(t)
		f.source.err = errors.New("google is down")

		_, err := f.service.ImportFromSource(ctx, "cal-1", time.Now(), time.Now().Add(time.Hour))
		assert.Error(t, err)
		assert.Empty(t, f.logRepo.AllLogs())
	})

	t.Run("missing calendar id", func(t *testing.T) {
		ctx, f := setupImportService(t)
		_, err := f.service.ImportFromSource(ctx, "", time.Now(), time.Now().Add(time.Hour))
		assert.ErrorIs(t, err, ErrMissingCalendarId)
	})
}

func TestGetLogs(t *testing.T) {
	// given
	ctx, f := setupImportService(t)
	for i := 0; i < 3; i++ {
		_, err := f.logRepo.StoreLog(ctx, ImportLog{CalendarId: "cal-1", EventsProcessed: 1})
		assert.NoError(t, err)
	}

	// when
	logs, err := f.service.GetLogs(ctx, "cal-1", 2)

	// then
	assert.NoError(t, err)
	assert.Len(t, logs, 2)
}
