package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/portal-go-api/internal/apperr"
	"github.com/noah-isme/portal-go-api/internal/auth"
	"github.com/noah-isme/portal-go-api/internal/dto"
	"github.com/noah-isme/portal-go-api/internal/models"
	"github.com/noah-isme/portal-go-api/internal/observability"
	"github.com/noah-isme/portal-go-api/internal/repository"
)

// AccountService handles signup, signin and the teacher-facing roster.
type AccountService interface {
	Signup(ctx context.Context, payload dto.SignupRequest) (models.User, error)
	Signin(ctx context.Context, payload dto.SigninRequest) (dto.SigninResponse, error)
	ListStudents(ctx context.Context, identity models.Identity) ([]models.RosterEntry, error)
}

type accountService struct {
	users     repository.UserRepository
	provider  auth.Provider
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAccountService builds the account service.
func NewAccountService(users repository.UserRepository, provider auth.Provider, validate *validator.Validate, logger zerolog.Logger) AccountService {
	return &accountService{
		users:     users,
		provider:  provider,
		validator: validate,
		logger:    logger.With().Str("component", "account_service").Logger(),
		now:       time.Now,
	}
}

func (s *accountService) Signup(ctx context.Context, payload dto.SignupRequest) (models.User, error) {
	if err := s.validator.Struct(payload); err != nil {
		return models.User{}, err
	}

	_, exists, err := s.users.GetByUsername(ctx, payload.Username)
	if err != nil {
		return models.User{}, apperr.Upstream("failed to check username", err)
	}
	if exists {
		return models.User{}, apperr.Conflict("username already exists")
	}

	subjectID, err := s.provider.Register(ctx, payload.Username, payload.Password)
	if err != nil {
		if errors.Is(err, auth.ErrAlreadyRegistered) {
			return models.User{}, apperr.Conflict("username already exists")
		}
		return models.User{}, apperr.Upstream("identity provider rejected signup", err)
	}

	user := models.User{
		ID:        subjectID,
		Username:  payload.Username,
		Role:      payload.Role,
		CreatedAt: s.now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return models.User{}, apperr.Upstream("failed to store user", err)
	}

	if user.Role == models.RoleStudent {
		entry := models.RosterEntry{ID: user.ID, Username: user.Username}
		if err := s.users.AddToRoster(ctx, entry); err != nil {
			return models.User{}, apperr.Upstream("failed to update roster", err)
		}
	}

	observability.Signups().WithLabelValues(user.Role).Inc()
	s.logger.Info().Str("username", user.Username).Str("role", user.Role).Msg("user signed up")

	return user, nil
}

func (s *accountService) Signin(ctx context.Context, payload dto.SigninRequest) (dto.SigninResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SigninResponse{}, err
	}

	token, err := s.provider.Login(ctx, payload.Username, payload.Password)
	if err != nil {
		if errors.Is(err, auth.ErrBadCredentials) {
			return dto.SigninResponse{}, apperr.Unauthenticated("invalid credentials")
		}
		return dto.SigninResponse{}, apperr.Upstream("identity provider rejected signin", err)
	}

	user, exists, err := s.users.GetByUsername(ctx, payload.Username)
	if err != nil {
		return dto.SigninResponse{}, apperr.Upstream("failed to load user", err)
	}
	if !exists {
		s.logger.Error().Str("username", payload.Username).Msg("identity record missing")
		return dto.SigninResponse{}, apperr.Unauthenticated("identity record missing")
	}

	return dto.SigninResponse{AccessToken: token, User: user}, nil
}

func (s *accountService) ListStudents(ctx context.Context, identity models.Identity) ([]models.RosterEntry, error) {
	if err := auth.RequireRole(identity, models.RoleTeacher); err != nil {
		return nil, err
	}

	roster, err := s.users.Roster(ctx)
	if err != nil {
		return nil, apperr.Upstream("failed to load roster", err)
	}

	return roster, nil
}
