package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/noah-isme/portal-go-api/internal/apperr"
	"github.com/noah-isme/portal-go-api/internal/auth"
	"github.com/noah-isme/portal-go-api/internal/models"
	"github.com/noah-isme/portal-go-api/internal/repository"
)

// IdentityResolver maps a bearer credential to the caller's account record.
// Token verification is delegated to the identity provider; the resolver
// only consumes the subject id and walks userid:<id> -> user:<username>.
type IdentityResolver interface {
	Resolve(ctx context.Context, authorization string) (models.Identity, error)
}

type identityResolver struct {
	provider auth.Provider
	users    repository.UserRepository
	logger   zerolog.Logger
}

// NewIdentityResolver builds the resolver.
func NewIdentityResolver(provider auth.Provider, users repository.UserRepository, logger zerolog.Logger) IdentityResolver {
	return &identityResolver{
		provider: provider,
		users:    users,
		logger:   logger.With().Str("component", "identity_resolver").Logger(),
	}
}

func (r *identityResolver) Resolve(ctx context.Context, authorization string) (models.Identity, error) {
	token := bearerToken(authorization)
	if token == "" {
		return models.Identity{}, apperr.Unauthenticated("authorization header missing")
	}

	subjectID, err := r.provider.Verify(ctx, token)
	if err != nil {
		return models.Identity{}, apperr.Unauthenticated("invalid token")
	}

	username, exists, err := r.users.UsernameByID(ctx, subjectID)
	if err != nil {
		return models.Identity{}, apperr.Upstream("failed to resolve identity", err)
	}
	if !exists {
		// A verified subject without a userid mapping is a data
		// consistency bug, never a silent default.
		r.logger.Error().Str("subject_id", subjectID).Msg("identity record missing")
		return models.Identity{}, apperr.Unauthenticated("identity record missing")
	}

	user, exists, err := r.users.GetByUsername(ctx, username)
	if err != nil {
		return models.Identity{}, apperr.Upstream("failed to resolve identity", err)
	}
	if !exists {
		r.logger.Error().Str("subject_id", subjectID).Str("username", username).Msg("identity record missing")
		return models.Identity{}, apperr.Unauthenticated("identity record missing")
	}

	return models.Identity{ID: user.ID, Username: user.Username, Role: user.Role}, nil
}

func bearerToken(authorization string) string {
	const bearer = "bearer "

	authorization = strings.TrimSpace(authorization)
	if len(authorization) <= len(bearer) {
		return ""
	}
	if !strings.EqualFold(authorization[:len(bearer)], bearer) {
		return ""
	}

	return strings.TrimSpace(authorization[len(bearer):])
}
