package builder

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// StubRepo is an in-memory Repo implementation for tests.
type StubRepo struct {
	mu            sync.RWMutex
	builders      map[string]Builder
	abbreviations map[string]Abbreviation
}

func NewStubRepo() *StubRepo {
	return &StubRepo{
		builders:      make(map[string]Builder),
		abbreviations: make(map[string]Abbreviation),
	}
}

func (r *StubRepo) CreateBuilder(ctx context.Context, builder Builder) (Builder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if builder.Id == "" {
		builder.Id = uuid.New().String()
	}
	for i, abbr := range builder.Abbreviations {
		if abbr.Id == "" {
			abbr.Id = uuid.New().String()
		}
		abbr.BuilderId = builder.Id
		abbr.Abbreviation = strings.ToUpper(strings.TrimSpace(abbr.Abbreviation))
		r.abbreviations[abbr.Id] = abbr
		builder.Abbreviations[i] = abbr
	}
	stored := builder
	stored.Abbreviations = nil
	r.builders[builder.Id] = stored
	return builder, nil
}

func (r *StubRepo) GetBuilder(ctx context.Context, id string) (Builder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	builder, ok := r.builders[id]
	if !ok {
		return Builder{}, ErrBuilderNotFound
	}
	for _, abbr := range r.abbreviations {
		if abbr.BuilderId == id {
			builder.Abbreviations = append(builder.Abbreviations, abbr)
		}
	}
	return builder, nil
}

func (r *StubRepo) GetAllBuilders(ctx context.Context) ([]Builder, error) {
	r.mu.RLock()
	ids := make([]string, 0, len(r.builders))
	for id := range r.builders {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	builders := make([]Builder, 0, len(ids))
	for _, id := range ids {
		builder, err := r.GetBuilder(ctx, id)
		if err != nil {
			return nil, err
		}
		builders = append(builders, builder)
	}
	return builders, nil
}

func (r *StubRepo) UpdateBuilder(ctx context.Context, builder Builder) (Builder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.builders[builder.Id]; !ok {
		return Builder{}, ErrBuilderNotFound
	}
	r.builders[builder.Id] = builder
	return builder, nil
}

func (r *StubRepo) DeleteBuilder(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.builders, id)
	for abbrId, abbr := range r.abbreviations {
		if abbr.BuilderId == id {
			delete(r.abbreviations, abbrId)
		}
	}
	return nil
}

func (r *StubRepo) AddAbbreviation(ctx context.Context, abbreviation Abbreviation) (Abbreviation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if abbreviation.Id == "" {
		abbreviation.Id = uuid.New().String()
	}
	abbreviation.Abbreviation = strings.ToUpper(strings.TrimSpace(abbreviation.Abbreviation))
	if abbreviation.IsPrimary {
		for id, abbr := range r.abbreviations {
			if abbr.BuilderId == abbreviation.BuilderId && abbr.IsPrimary {
				abbr.IsPrimary = false
				r.abbreviations[id] = abbr
			}
		}
	}
	r.abbreviations[abbreviation.Id] = abbreviation
	return abbreviation, nil
}

func (r *StubRepo) DeleteAbbreviation(ctx context.Context, builderId, abbreviationId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	abbr, ok := r.abbreviations[abbreviationId]
	if ok && abbr.BuilderId == builderId {
		delete(r.abbreviations, abbreviationId)
	}
	return nil
}

func (r *StubRepo) GetAllAbbreviations(ctx context.Context) ([]Abbreviation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	abbreviations := make([]Abbreviation, 0, len(r.abbreviations))
	for _, abbr := range r.abbreviations {
		abbreviations = append(abbreviations, abbr)
	}
	return abbreviations, nil
}
