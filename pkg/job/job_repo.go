package job

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
	ErrJobNotFound = errors.New("job not found")

	// ErrDuplicateEvent is returned when a job for the same google event id
	// already exists. The unique index on google_event_id is the backstop
	// against two concurrent imports racing past the pre-flight check.
	ErrDuplicateEvent = errors.New("job already exists for this calendar event")
)

type Repo interface {
	CreateJob(ctx context.Context, job Job) (Job, error)
	GetJob(ctx context.Context, id string) (Job, error)
	FindByGoogleEventId(ctx context.Context, googleEventId string) (*Job, error)
	GetJobs(ctx context.Context, from, to time.Time) ([]Job, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
}

type RepoImpl struct {
	db *sql.DB
}

func NewJobRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

func (r *RepoImpl) CreateJob(ctx context.Context, job Job) (Job, error) {
	if job.Id == "" {
		job.Id = uuid.New().String()
	}
	if job.Status == "" {
		job.Status = StatusScheduled
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now()
	}

	var googleEventId *string
	if job.GoogleEventId != "" {
		googleEventId = &job.GoogleEventId
	}

	query := `INSERT INTO job (id, google_event_id, builder_id, inspection_type, address, status,
				scheduled_date, all_day, created_by, notes, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.db.ExecContext(ctx, query,
		job.Id,
		googleEventId,
		nullable(job.BuilderId),
		nullable(job.InspectionType),
		job.Address,
		job.Status,
		job.ScheduledDate.UnixMilli(),
		job.AllDay,
		job.CreatedBy,
		job.Notes,
		job.CreatedAt.UnixMilli(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return Job{}, ErrDuplicateEvent
		}
		log.Errorf("failed to create job: %v", err)
		return Job{}, err
	}
	return job, nil
}

func (r *RepoImpl) GetJob(ctx context.Context, id string) (Job, error) {
	query := selectColumns + ` FROM job WHERE id = $1`
	job, err := scanJob(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Job{}, ErrJobNotFound
	} else if err != nil {
		log.Errorf("failed to get job %s: %v", id, err)
		return Job{}, err
	}
	return job, nil
}

// FindByGoogleEventId returns nil without an error when no job references the
// given event. The import engine relies on that to tell "new event" apart from
// a storage failure.
func (r *RepoImpl) FindByGoogleEventId(ctx context.Context, googleEventId string) (*Job, error) {
	query := selectColumns + ` FROM job WHERE google_event_id = $1`
	job, err := scanJob(r.db.QueryRowContext(ctx, query, googleEventId))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		log.Errorf("failed to find job by event id %s: %v", googleEventId, err)
		return nil, err
	}
	return &job, nil
}

func (r *RepoImpl) GetJobs(ctx context.Context, from, to time.Time) ([]Job, error) {
	query := selectColumns + ` FROM job WHERE scheduled_date >= $1 AND scheduled_date <= $2 ORDER BY scheduled_date`
	rows, err := r.db.QueryContext(ctx, query, from.UnixMilli(), to.UnixMilli())
	if err != nil {
		log.Errorf("failed to list jobs: %v", err)
		return nil, err
	}
	defer rows.Close()

	jobs := make([]Job, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			log.Errorf("failed to scan job row: %v", err)
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

func (r *RepoImpl) UpdateStatus(ctx context.Context, id string, status Status) error {
	res, err := r.db.ExecContext(ctx, "UPDATE job SET status = $1 WHERE id = $2", status, id)
	if err != nil {
		log.Errorf("failed to update job %s status: %v", id, err)
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrJobNotFound
	}
	return nil
}

const selectColumns = `SELECT id, google_event_id, builder_id, inspection_type, address, status,
				scheduled_date, all_day, created_by, notes, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (Job, error) {
	var job Job
	var googleEventId, builderId, inspectionType sql.NullString
	var scheduledDateMillis, createdAtMillis int64
	err := row.Scan(
		&job.Id,
		&googleEventId,
		&builderId,
		&inspectionType,
		&job.Address,
		&job.Status,
		&scheduledDateMillis,
		&job.AllDay,
		&job.CreatedBy,
		&job.Notes,
		&createdAtMillis,
	)
	if err != nil {
		return Job{}, err
	}
	job.GoogleEventId = googleEventId.String
	job.BuilderId = builderId.String
	job.InspectionType = inspectionType.String
	job.ScheduledDate = time.UnixMilli(scheduledDateMillis)
	job.CreatedAt = time.UnixMilli(createdAtMillis)
	return job, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// isUniqueViolation recognizes unique constraint errors from both Postgres
// (pgx, SQLSTATE 23505) and the SQLite driver used in tests.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique")
}
