package calendarimport

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// ImportLog is the immutable audit record of one import batch. Exactly one row
// is written per call to the batch entry point; it is never updated afterward.
type ImportLog struct {
	Id              string
	CalendarId      string
	EventsProcessed int
	JobsCreated     int
	EventsQueued    int
	Errors          []string
	CreatedAt       time.Time
}

type LogRepo interface {
	StoreLog(ctx context.Context, importLog ImportLog) (ImportLog, error)
	GetLogs(ctx context.Context, calendarId string, limit int) ([]ImportLog, error)
}

type LogRepoImpl struct {
	db *sql.DB
}

func NewLogRepo(db *sql.DB) *LogRepoImpl {
	return &LogRepoImpl{db: db}
}

func (r *LogRepoImpl) StoreLog(ctx context.Context, importLog ImportLog) (ImportLog, error) {
	if importLog.Id == "" {
		importLog.Id = uuid.New().String()
	}
	if importLog.CreatedAt.IsZero() {
		importLog.CreatedAt = time.Now()
	}

	var errorsJson *string
	if len(importLog.Errors) > 0 {
		encoded, err := json.Marshal(importLog.Errors)
		if err != nil {
			log.Errorf("failed to marshal import errors: %v", err)
			return ImportLog{}, err
		}
		s := string(encoded)
		errorsJson = &s
	}

	query := `INSERT INTO calendar_import_log (id, calendar_id, events_processed, jobs_created,
				events_queued, errors, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query,
		importLog.Id,
		importLog.CalendarId,
		importLog.EventsProcessed,
		importLog.JobsCreated,
		importLog.EventsQueued,
		errorsJson,
		importLog.CreatedAt.UnixMilli(),
	)
	if err != nil {
		log.Errorf("failed to store import log: %v", err)
		return ImportLog{}, err
	}
	return importLog, nil
}

func (r *LogRepoImpl) GetLogs(ctx context.Context, calendarId string, limit int) ([]ImportLog, error) {
	query := `SELECT id, calendar_id, events_processed, jobs_created, events_queued, errors, created_at
				FROM calendar_import_log WHERE calendar_id = $1 ORDER BY created_at DESC LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, calendarId, limit)
	if err != nil {
		log.Errorf("failed to list import logs: %v", err)
		return nil, err
	}
	defer rows.Close()

	logs := make([]ImportLog, 0)
	for rows.Next() {
		var importLog ImportLog
		var errorsJson sql.NullString
		var createdAtMillis int64
		if err := rows.Scan(
			&importLog.Id,
			&importLog.CalendarId,
			&importLog.EventsProcessed,
			&importLog.JobsCreated,
			&importLog.EventsQueued,
			&errorsJson,
			&createdAtMillis,
		); err != nil {
			log.Errorf("failed to scan import log row: %v", err)
			return nil, err
		}
		if errorsJson.Valid {
			if err := json.Unmarshal([]byte(errorsJson.String), &importLog.Errors); err != nil {
				log.Errorf("failed to unmarshal import errors: %v", err)
				return nil, err
			}
		}
		importLog.CreatedAt = time.UnixMilli(createdAtMillis)
		logs = append(logs, importLog)
	}
	return logs, rows.Err()
}
