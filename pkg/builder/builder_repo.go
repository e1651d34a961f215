package builder

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var ErrBuilderNotFound = errors.New("builder not found")

type Repo interface {
	CreateBuilder(ctx context.Context, builder Builder) (Builder, error)
	GetBuilder(ctx context.Context, id string) (Builder, error)
	GetAllBuilders(ctx context.Context) ([]Builder, error)
	UpdateBuilder(ctx context.Context, builder Builder) (Builder, error)
	DeleteBuilder(ctx context.Context, id string) error
	AddAbbreviation(ctx context.Context, abbreviation Abbreviation) (Abbreviation, error)
	DeleteAbbreviation(ctx context.Context, builderId, abbreviationId string) error
	GetAllAbbreviations(ctx context.Context) ([]Abbreviation, error)
}

type RepoImpl struct {
	db *sql.DB
}

func NewBuilderRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

func (r *RepoImpl) CreateBuilder(ctx context.Context, builder Builder) (Builder, error) {
	if builder.Id == "" {
		builder.Id = uuid.New().String()
	}
	query := `INSERT INTO builder (id, name, contact_email, contact_phone) VALUES ($1, $2, $3, $4)`
	_, err := r.db.ExecContext(ctx, query, builder.Id, builder.Name, builder.ContactEmail, builder.ContactPhone)
	if err != nil {
		log.Errorf("failed to create builder: %v", err)
		return Builder{}, err
	}
	for i, abbr := range builder.Abbreviations {
		abbr.BuilderId = builder.Id
		stored, err := r.AddAbbreviation(ctx, abbr)
		if err != nil {
			return Builder{}, err
		}
		builder.Abbreviations[i] = stored
	}
	return builder, nil
}

func (r *RepoImpl) GetBuilder(ctx context.Context, id string) (Builder, error) {
	query := `SELECT id, name, contact_email, contact_phone FROM builder WHERE id = $1`
	var builder Builder
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&builder.Id, &builder.Name, &builder.ContactEmail, &builder.ContactPhone)
	if errors.Is(err, sql.ErrNoRows) {
		return Builder{}, ErrBuilderNotFound
	} else if err != nil {
		log.Errorf("failed to get builder %s: %v", id, err)
		return Builder{}, err
	}

	abbreviations, err := r.abbreviationsForBuilder(ctx, id)
	if err != nil {
		return Builder{}, err
	}
	builder.Abbreviations = abbreviations
	return builder, nil
}

func (r *RepoImpl) GetAllBuilders(ctx context.Context) ([]Builder, error) {
	query := `SELECT id, name, contact_email, contact_phone FROM builder ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		log.Errorf("failed to list builders: %v", err)
		return nil, err
	}
	defer rows.Close()

	builders := make([]Builder, 0)
	for rows.Next() {
		var builder Builder
		if err := rows.Scan(&builder.Id, &builder.Name, &builder.ContactEmail, &builder.ContactPhone); err != nil {
			log.Errorf("failed to scan builder row: %v", err)
			return nil, err
		}
		builders = append(builders, builder)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	abbreviations, err := r.GetAllAbbreviations(ctx)
	if err != nil {
		return nil, err
	}
	byBuilder := make(map[string][]Abbreviation, len(builders))
	for _, abbr := range abbreviations {
		byBuilder[abbr.BuilderId] = append(byBuilder[abbr.BuilderId], abbr)
	}
	for i := range builders {
		builders[i].Abbreviations = byBuilder[builders[i].Id]
	}
	return builders, nil
}

func (r *RepoImpl) UpdateBuilder(ctx context.Context, builder Builder) (Builder, error) {
	query := `UPDATE builder SET name = $1, contact_email = $2, contact_phone = $3 WHERE id = $4`
	res, err := r.db.ExecContext(ctx, query, builder.Name, builder.ContactEmail, builder.ContactPhone, builder.Id)
	if err != nil {
		log.Errorf("failed to update builder %s: %v", builder.Id, err)
		return Builder{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return Builder{}, err
	}
	if affected == 0 {
		return Builder{}, ErrBuilderNotFound
	}
	return builder, nil
}

func (r *RepoImpl) DeleteBuilder(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM builder_abbreviation WHERE builder_id = $1", id); err != nil {
		log.Errorf("failed to delete abbreviations of builder %s: %v", id, err)
		return err
	}
	if _, err := r.db.ExecContext(ctx, "DELETE FROM builder WHERE id = $1", id); err != nil {
		log.Errorf("failed to delete builder %s: %v", id, err)
		return err
	}
	return nil
}

func (r *RepoImpl) AddAbbreviation(ctx context.Context, abbreviation Abbreviation) (Abbreviation, error) {
	if abbreviation.Id == "" {
		abbreviation.Id = uuid.New().String()
	}
	abbreviation.Abbreviation = strings.ToUpper(strings.TrimSpace(abbreviation.Abbreviation))

	// A builder keeps at most one primary abbreviation.
	if abbreviation.IsPrimary {
		_, err := r.db.ExecContext(ctx,
			"UPDATE builder_abbreviation SET is_primary = FALSE WHERE builder_id = $1", abbreviation.BuilderId)
		if err != nil {
			log.Errorf("failed to clear primary abbreviation for builder %s: %v", abbreviation.BuilderId, err)
			return Abbreviation{}, err
		}
	}

	query := `INSERT INTO builder_abbreviation (id, builder_id, abbreviation, is_primary) VALUES ($1, $2, $3, $4)`
	_, err := r.db.ExecContext(ctx, query,
		abbreviation.Id, abbreviation.BuilderId, abbreviation.Abbreviation, abbreviation.IsPrimary)
	if err != nil {
		log.Errorf("failed to add abbreviation %q: %v", abbreviation.Abbreviation, err)
		return Abbreviation{}, err
	}
	return abbreviation, nil
}

func (r *RepoImpl) DeleteAbbreviation(ctx context.Context, builderId, abbreviationId string) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM builder_abbreviation WHERE id = $1 AND builder_id = $2", abbreviationId, builderId)
	if err != nil {
		log.Errorf("failed to delete abbreviation %s: %v", abbreviationId, err)
	}
	return err
}

// GetAllAbbreviations returns every registered abbreviation. The import engine
// reads the full set fresh on each batch rather than caching it, so changes in
// builder management take effect on the next run.
func (r *RepoImpl) GetAllAbbreviations(ctx context.Context) ([]Abbreviation, error) {
	query := `SELECT id, builder_id, abbreviation, is_primary FROM builder_abbreviation ORDER BY abbreviation`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		log.Errorf("failed to list abbreviations: %v", err)
		return nil, err
	}
	defer rows.Close()

	abbreviations := make([]Abbreviation, 0)
	for rows.Next() {
		var abbr Abbreviation
		if err := rows.Scan(&abbr.Id, &abbr.BuilderId, &abbr.Abbreviation, &abbr.IsPrimary); err != nil {
			log.Errorf("failed to scan abbreviation row: %v", err)
			return nil, err
		}
		abbreviations = append(abbreviations, abbr)
	}
	return abbreviations, rows.Err()
}

func (r *RepoImpl) abbreviationsForBuilder(ctx context.Context, builderId string) ([]Abbreviation, error) {
	query := `SELECT id, builder_id, abbreviation, is_primary FROM builder_abbreviation WHERE builder_id = $1 ORDER BY abbreviation`
	rows, err := r.db.QueryContext(ctx, query, builderId)
	if err != nil {
		log.Errorf("failed to list abbreviations for builder %s: %v", builderId, err)
		return nil, err
	}
	defer rows.Close()

	abbreviations := make([]Abbreviation, 0)
	for rows.Next() {
		var abbr Abbreviation
		if err := rows.Scan(&abbr.Id, &abbr.BuilderId, &abbr.Abbreviation, &abbr.IsPrimary); err != nil {
			return nil, err
		}
		abbreviations = append(abbreviations, abbr)
	}
	return abbreviations, rows.Err()
}
