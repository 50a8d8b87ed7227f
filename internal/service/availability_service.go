package service

import (
	"context"

	"github.com/caredock/caredock-bookings/internal/domain"
	"github.com/caredock/caredock-bookings/internal/repo/postgres"
)

type AvailabilityService interface {
	ListForDoctor(ctx context.Context, doctorID int64, from, to string) ([]domain.AvailabilitySlot, error)
	UnavailableDates(ctx context.Context, doctorID int64) ([]domain.UnavailableDate, error)
}

type availabilityService struct {
	repo postgres.AvailabilityRepository
}

func NewAvailabilityService(repo postgres.AvailabilityRepository) AvailabilityService {
	return &availabilityService{repo: repo}
}

func (s *availabilityService) ListForDoctor(ctx context.Context, doctorID int64, from, to string) ([]domain.AvailabilitySlot, error) {
	return s.repo.ListSlots(ctx, doctorID, from, to)
}

func (s *availabilityService) UnavailableDates(ctx context.Context, doctorID int64) ([]domain.UnavailableDate, error) {
	return s.repo.ListUnavailableDates(ctx, doctorID)
}
