package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexedwards/argon2id"
	"github.com/caredock/caredock-bookings/internal/domain"
	"github.com/caredock/caredock-bookings/internal/repo/postgres"
	"github.com/caredock/caredock-bookings/pkg/auth"
	"github.com/caredock/caredock-bookings/pkg/config"
	"github.com/go-playground/validator/v10"
)

var ErrBadCredentials = errors.New("invalid email or password")
var ErrEmailExists = errors.New("a patient with this email already exists")

type AuthService interface {
	Register(ctx context.Context, req *domain.RegisterRequest) (*domain.Patient, error)
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error)
	GetPatient(ctx context.Context, id int64) (*domain.Patient, error)
}

type authService struct {
	patientRepo postgres.PatientRepository
	cfg         *config.Config
	validate    *validator.Validate
}

func NewAuthService(patientRepo postgres.PatientRepository, cfg *config.Config) AuthService {
	return &authService{
		patientRepo: patientRepo,
		cfg:         cfg,
		validate:    validator.New(),
	}
}

func (s *authService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.Patient, error) {
	req.Normalize()
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	existing, err := s.patientRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing patient: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	hash, err := argon2id.CreateHash(req.Password, argon2id.DefaultParams)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return s.patientRepo.Create(ctx, req.Name, req.Email, hash)
}

func (s *authService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	req.Normalize()
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	patient, err := s.patientRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to find patient: %w", err)
	}
	if patient == nil {
		return nil, ErrBadCredentials
	}

	ok, err := argon2id.ComparePasswordAndHash(req.Password, patient.PasswordHash)
	if err != nil || !ok {
		return nil, ErrBadCredentials
	}

	token, err := auth.NewAccessToken(patient.ID, patient.Email, "patient",
		s.cfg.Auth.JWTSecret, s.cfg.Auth.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &domain.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.cfg.Auth.AccessTokenTTL.Seconds()),
		Patient:     patient,
	}, nil
}

func (s *authService) GetPatient(ctx context.Context, id int64) (*domain.Patient, error) {
	return s.patientRepo.FindByID(ctx, id)
}
