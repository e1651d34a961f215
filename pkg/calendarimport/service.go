package calendarimport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fieldbeat/fieldbeat/internal/event_bus"
	"github.com/fieldbeat/fieldbeat/internal/utils"
	"github.com/fieldbeat/fieldbeat/pkg/builder"
	"github.com/fieldbeat/fieldbeat/pkg/job"
	"github.com/fieldbeat/fieldbeat/pkg/review"
	"github.com/fieldbeat/fieldbeat/pkg/user"
	log "github.com/sirupsen/logrus"
)

var (
	ErrMissingCalendarId = errors.New("calendar id is required")
	ErrMissingEventId    = errors.New("every calendar event must have an id")
)

// EventSource fetches events from an external calendar provider for a time
// window. Implemented by pkg/google.
type EventSource interface {
	FetchEvents(ctx context.Context, calendarId string, from, to time.Time) ([]CalendarEvent, error)
}

// JobWriter is the slice of the job service the import engine needs.
type JobWriter interface {
	CreateJob(ctx context.Context, j job.Job) (job.Job, error)
	FindByGoogleEventId(ctx context.Context, googleEventId string) (*job.Job, error)
}

// ImportResult aggregates the outcome of one import batch.
type ImportResult struct {
	JobsCreated     int
	EventsQueued    int
	EventsProcessed int
	Errors          []string
	ImportLogId     string
}

type Service interface {
	// ImportEvents classifies each event and applies the confidence policy:
	// high scores auto-create a job, medium scores create a job and flag it
	// for review, low scores only queue the event. Events are processed
	// sequentially in input order; per-event failures are recorded in the
	// result and never abort the batch.
	ImportEvents(ctx context.Context, calendarId string, events []CalendarEvent) (ImportResult, error)

	// ImportFromSource fetches events for the window and runs ImportEvents.
	ImportFromSource(ctx context.Context, calendarId string, from, to time.Time) (ImportResult, error)

	GetLogs(ctx context.Context, calendarId string, limit int) ([]ImportLog, error)
}

type ServiceImpl struct {
	jobs          JobWriter
	reviewQueue   review.QueueWriter
	abbreviations builder.AbbreviationReader
	logRepo       LogRepo
	source        EventSource
	bus           *event_bus.EventBus
	scoring       ScoringConfig
	clock         utils.Clock
}

func NewService(
	jobs JobWriter,
	reviewQueue review.QueueWriter,
	abbreviations builder.AbbreviationReader,
	logRepo LogRepo,
	source EventSource,
	bus *event_bus.EventBus,
	scoring ScoringConfig,
) *ServiceImpl {
	return &ServiceImpl{
		jobs:          jobs,
		reviewQueue:   reviewQueue,
		abbreviations: abbreviations,
		logRepo:       logRepo,
		source:        source,
		bus:           bus,
		scoring:       scoring,
		clock:         &utils.SystemClock{},
	}
}

// WithClock replaces the service clock, for tests.
func (s *ServiceImpl) WithClock(clock utils.Clock) *ServiceImpl {
	s.clock = clock
	return s
}

func (s *ServiceImpl) ImportFromSource(ctx context.Context, calendarId string, from, to time.Time) (ImportResult, error) {
	if calendarId == "" {
		return ImportResult{}, ErrMissingCalendarId
	}
	events, err := s.source.FetchEvents(ctx, calendarId, from, to)
	if err != nil {
		return ImportResult{}, fmt.Errorf("failed to fetch calendar events: %w", err)
	}
	return s.ImportEvents(ctx, calendarId, events)
}

func (s *ServiceImpl) ImportEvents(ctx context.Context, calendarId string, events []CalendarEvent) (ImportResult, error) {
	if calendarId == "" {
		return ImportResult{}, ErrMissingCalendarId
	}
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return ImportResult{}, fmt.Errorf("failed to get current user: %w", err)
	}
	for _, event := range events {
		if event.Id == "" {
			return ImportResult{}, ErrMissingEventId
		}
	}

	// The full abbreviation set is read fresh per batch; no long-lived cache
	// to go stale while builder management edits abbreviations.
	abbreviations, err := s.abbreviations.GetAllAbbreviations(ctx)
	if err != nil {
		return ImportResult{}, fmt.Errorf("failed to load builder abbreviations: %w", err)
	}

	result := ImportResult{Errors: []string{}}
	for _, event := range events {
		result.EventsProcessed++
		if err := s.processEvent(ctx, calendarId, event, abbreviations, userId, &result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("event %s: %v", event.Id, err))
		}
	}

	storedLog, err := s.logRepo.StoreLog(ctx, ImportLog{
		CalendarId:      calendarId,
		EventsProcessed: result.EventsProcessed,
		JobsCreated:     result.JobsCreated,
		EventsQueued:    result.EventsQueued,
		Errors:          result.Errors,
		CreatedAt:       s.clock.Now(),
	})
	if err != nil {
		// The batch outcome stands; a missing audit row is reported through
		// the error channel, not by failing the call.
		result.Errors = append(result.Errors, fmt.Sprintf("failed to write import log: %v", err))
	} else {
		result.ImportLogId = storedLog.Id
	}

	if err := s.bus.Publish(event_bus.NewEvent(ctx, event_bus.CalendarImportCompleted, result)); err != nil {
		log.Errorf("calendar.import.completed handler failed: %v", err)
	}

	log.Infof("calendar import for %s: processed=%d created=%d queued=%d errors=%d",
		calendarId, result.EventsProcessed, result.JobsCreated, result.EventsQueued, len(result.Errors))
	return result, nil
}

// processEvent runs the per-event state machine: skip blank summaries, honor
// the duplicate check before any creation path, then apply the tier policy.
func (s *ServiceImpl) processEvent(
	ctx context.Context,
	calendarId string,
	event CalendarEvent,
	abbreviations []builder.Abbreviation,
	userId string,
	result *ImportResult,
) error {
	if strings.TrimSpace(event.Summary) == "" {
		log.Debugf("skipping event %s with blank summary", event.Id)
		return nil
	}

	existing, err := s.jobs.FindByGoogleEventId(ctx, event.Id)
	if err != nil {
		return fmt.Errorf("duplicate check failed: %w", err)
	}
	if existing != nil {
		log.Debugf("event %s already imported as job %s", event.Id, existing.Id)
		return nil
	}

	parsed := ParseSummary(event.Summary)
	match := MatchBuilder(parsed.BuilderToken, abbreviations)
	parsed.BuilderId = match.BuilderId
	parsed.BuilderMatch = match.Quality
	parsed.Confidence = s.scoring.Score(match.Quality, parsed.InspectionType != "")

	startTime, allDay, err := event.Start.Resolve()
	if err != nil {
		return fmt.Errorf("invalid start time: %w", err)
	}
	endTime, _, err := event.End.Resolve()
	if err != nil {
		// Whole-day events from some providers omit the end; fall back to the
		// start so the review row still carries a sane window.
		endTime = startTime
	}

	switch s.scoring.Tier(parsed.Confidence) {
	case TierHigh:
		if err := s.createJob(ctx, event, parsed, startTime, allDay, userId); err != nil {
			return err
		}
		result.JobsCreated++

	case TierMedium:
		if err := s.createJob(ctx, event, parsed, startTime, allDay, userId); err != nil {
			return err
		}
		result.JobsCreated++
		// The flagged row accompanies an already-created job, so it does not
		// count toward EventsQueued; that keeps JobsCreated+EventsQueued
		// bounded by EventsProcessed.
		if _, err := s.queueEvent(ctx, calendarId, event, parsed, startTime, endTime, review.StatusFlagged); err != nil {
			return err
		}

	case TierLow:
		queued, err := s.queueEvent(ctx, calendarId, event, parsed, startTime, endTime, review.StatusPending)
		if err != nil {
			return err
		}
		if queued {
			result.EventsQueued++
		}
	}
	return nil
}

func (s *ServiceImpl) createJob(
	ctx context.Context,
	event CalendarEvent,
	parsed ParsedEvent,
	scheduledDate time.Time,
	allDay bool,
	userId string,
) error {
	notes := event.Summary
	if parsed.Remainder != "" && parsed.Remainder != event.Summary {
		notes = fmt.Sprintf("%s\n%s", event.Summary, parsed.Remainder)
	}

	_, err := s.jobs.CreateJob(ctx, job.Job{
		GoogleEventId:  event.Id,
		BuilderId:      parsed.BuilderId,
		InspectionType: parsed.InspectionType,
		Address:        parsed.Remainder,
		Status:         job.StatusScheduled,
		ScheduledDate:  scheduledDate,
		AllDay:         allDay,
		CreatedBy:      userId,
		Notes:          notes,
	})
	if errors.Is(err, job.ErrDuplicateEvent) {
		// A concurrent batch won the race; the unique index kept the
		// at-most-one-job guarantee, nothing more to do.
		log.Debugf("event %s created concurrently elsewhere", event.Id)
		return nil
	}
	return err
}

// queueEvent inserts a review queue row. Returns false without an error when
// the event is already queued from a previous run.
func (s *ServiceImpl) queueEvent(
	ctx context.Context,
	calendarId string,
	event CalendarEvent,
	parsed ParsedEvent,
	startTime, endTime time.Time,
	status review.Status,
) (bool, error) {
	raw, err := json.Marshal(struct {
		CalendarEvent
		Parsed ParsedEvent `json:"parsed"`
	}{CalendarEvent: event, Parsed: parsed})
	if err != nil {
		return false, fmt.Errorf("failed to serialize event snapshot: %w", err)
	}

	_, err = s.reviewQueue.QueueEvent(ctx, review.UnmatchedEvent{
		CalendarId:      calendarId,
		GoogleEventId:   event.Id,
		Title:           event.Summary,
		Location:        event.Location,
		StartTime:       startTime,
		EndTime:         endTime,
		ConfidenceScore: parsed.Confidence,
		Status:          status,
		RawEventJson:    string(raw),
	})
	if errors.Is(err, review.ErrAlreadyQueued) {
		log.Debugf("event %s is already in the review queue", event.Id)
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *ServiceImpl) GetLogs(ctx context.Context, calendarId string, limit int) ([]ImportLog, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.logRepo.GetLogs(ctx, calendarId, limit)
}
