package review

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	log "github.com/sirupsen/logrus"
)

var (
	ErrEventNotFound = errors.New("unmatched event not found")

	// ErrAlreadyQueued is returned when a review row for the same google event
	// id already exists. The import engine queues each event at most once.
	ErrAlreadyQueued = errors.New("event is already in the review queue")
)

type Repo interface {
	StoreEvent(ctx context.Context, event UnmatchedEvent) (UnmatchedEvent, error)
	GetEvent(ctx context.Context, id string) (UnmatchedEvent, error)
	GetEventsByStatus(ctx context.Context, status Status) ([]UnmatchedEvent, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
}

type RepoImpl struct {
	db *sql.DB
}

func NewReviewRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

func (r *RepoImpl) StoreEvent(ctx context.Context, event UnmatchedEvent) (UnmatchedEvent, error) {
	if event.Id == "" {
		event.Id = uuid.New().String()
	}
	if event.Status == "" {
		event.Status = StatusPending
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	query := `INSERT INTO unmatched_calendar_event (id, calendar_id, google_event_id, title, location,
				start_time, end_time, confidence_score, status, raw_event_json, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.db.ExecContext(ctx, query,
		event.Id,
		event.CalendarId,
		event.GoogleEventId,
		event.Title,
		event.Location,
		event.StartTime.UnixMilli(),
		event.EndTime.UnixMilli(),
		event.ConfidenceScore,
		event.Status,
		event.RawEventJson,
		event.CreatedAt.UnixMilli(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return UnmatchedEvent{}, ErrAlreadyQueued
		}
		log.Errorf("failed to store unmatched event: %v", err)
		return UnmatchedEvent{}, err
	}
	return event, nil
}

func (r *RepoImpl) GetEvent(ctx context.Context, id string) (UnmatchedEvent, error) {
	query := selectColumns + ` FROM unmatched_calendar_event WHERE id = $1`
	event, err := scanEvent(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return UnmatchedEvent{}, ErrEventNotFound
	} else if err != nil {
		log.Errorf("failed to get unmatched event %s: %v", id, err)
		return UnmatchedEvent{}, err
	}
	return event, nil
}

func (r *RepoImpl) GetEventsByStatus(ctx context.Context, status Status) ([]UnmatchedEvent, error) {
	query := selectColumns + ` FROM unmatched_calendar_event WHERE status = $1 ORDER BY start_time`
	rows, err := r.db.QueryContext(ctx, query, status)
	if err != nil {
		log.Errorf("failed to list unmatched events: %v", err)
		return nil, err
	}
	defer rows.Close()

	events := make([]UnmatchedEvent, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			log.Errorf("failed to scan unmatched event row: %v", err)
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func (r *RepoImpl) UpdateStatus(ctx context.Context, id string, status Status) error {
	res, err := r.db.ExecContext(ctx, "UPDATE unmatched_calendar_event SET status = $1 WHERE id = $2", status, id)
	if err != nil {
		log.Errorf("failed to update unmatched event %s: %v", id, err)
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrEventNotFound
	}
	return nil
}

const selectColumns = `SELECT id, calendar_id, google_event_id, title, location, start_time, end_time,
				confidence_score, status, raw_event_json, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (UnmatchedEvent, error) {
	var event UnmatchedEvent
	var startMillis, endMillis, createdAtMillis int64
	err := row.Scan(
		&event.Id,
		&event.CalendarId,
		&event.GoogleEventId,
		&event.Title,
		&event.Location,
		&startMillis,
		&endMillis,
		&event.ConfidenceScore,
		&event.Status,
		&event.RawEventJson,
		&createdAtMillis,
	)
	if err != nil {
		return UnmatchedEvent{}, err
	}
	event.StartTime = time.UnixMilli(startMillis)
	event.EndTime = time.UnixMilli(endMillis)
	event.CreatedAt = time.UnixMilli(createdAtMillis)
	return event, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique")
}
