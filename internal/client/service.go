package client

import (
	"context"

	"exchpoint/internal/adapters"
	"exchpoint/internal/domain"
)

type Service struct {
	repo adapters.ClientRepository
}

func (s *Service) Create(ctx context.Context, passportNumber, fullName string, phoneNumber *string) (domain.Client, error) {
	return s.repo.Create(ctx, passportNumber, fullName, phoneNumber)
}

func (s *Service) GetByID(ctx context.Context, id int64) (domain.Client, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]domain.Client, error) {
	return s.repo.List(ctx)
}

func NewService(repo adapters.ClientRepository) *Service {
	return &Service{repo: repo}
}
