package builder

import (
	"context"
	"fmt"
)

// AbbreviationReader is the read-only view the calendar import engine needs.
type AbbreviationReader interface {
	GetAllAbbreviations(ctx context.Context) ([]Abbreviation, error)
}

type Service interface {
	AbbreviationReader
	CreateBuilder(ctx context.Context, builder Builder) (Builder, error)
	GetBuilder(ctx context.Context, id string) (Builder, error)
	GetAllBuilders(ctx context.Context) ([]Builder, error)
	UpdateBuilder(ctx context.Context, builder Builder) (Builder, error)
	DeleteBuilder(ctx context.Context, id string) error
	AddAbbreviation(ctx context.Context, abbreviation Abbreviation) (Abbreviation, error)
	DeleteAbbreviation(ctx context.Context, builderId, abbreviationId string) error
}

type ServiceImpl struct {
	repo Repo
}

func NewBuilderService(repo Repo) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) CreateBuilder(ctx context.Context, builder Builder) (Builder, error) {
	if builder.Name == "" {
		return Builder{}, fmt.Errorf("builder name is required")
	}
	return s.repo.CreateBuilder(ctx, builder)
}

func (s *ServiceImpl) GetBuilder(ctx context.Context, id string) (Builder, error) {
	return s.repo.GetBuilder(ctx, id)
}

func (s *ServiceImpl) GetAllBuilders(ctx context.Context) ([]Builder, error) {
	return s.repo.GetAllBuilders(ctx)
}

func (s *ServiceImpl) UpdateBuilder(ctx context.Context, builder Builder) (Builder, error) {
	if builder.Name == "" {
		return Builder{}, fmt.Errorf("builder name is required")
	}
	return s.repo.UpdateBuilder(ctx, builder)
}

func (s *ServiceImpl) DeleteBuilder(ctx context.Context, id string) error {
	return s.repo.DeleteBuilder(ctx, id)
}

func (s *ServiceImpl) AddAbbreviation(ctx context.Context, abbreviation Abbreviation) (Abbreviation, error) {
	if abbreviation.Abbreviation == "" {
		return Abbreviation{}, fmt.Errorf("abbreviation is required")
	}
	if abbreviation.BuilderId == "" {
		return Abbreviation{}, fmt.Errorf("builder id is required")
	}
	if _, err := s.repo.GetBuilder(ctx, abbreviation.BuilderId); err != nil {
		return Abbreviation{}, err
	}
	return s.repo.AddAbbreviation(ctx, abbreviation)
}

func (s *ServiceImpl) DeleteAbbreviation(ctx context.Context, builderId, abbreviationId string) error {
	return s.repo.DeleteAbbreviation(ctx, builderId, abbreviationId)
}

func (s *ServiceImpl) GetAllAbbreviations(ctx context.Context) ([]Abbreviation, error) {
	return s.repo.GetAllAbbreviations(ctx)
}
