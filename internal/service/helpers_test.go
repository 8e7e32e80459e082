package service

import (
	"context"
	"io"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/portal-go-api/internal/auth"
	"github.com/noah-isme/portal-go-api/internal/dto"
	"github.com/noah-isme/portal-go-api/internal/kv"
	"github.com/noah-isme/portal-go-api/internal/models"
	"github.com/noah-isme/portal-go-api/internal/repository"
)

const testPassword = "secret123"

// testEnv wires the whole service layer against an in-process redis, the
// same shape main assembles in production.
type testEnv struct {
	store       kv.Store
	users       repository.UserRepository
	submissions repository.SubmissionRepository
	indexes     repository.IndexRepository
	provider    auth.Provider
	accounts    AccountService
	courses     CourseService
	assignments AssignmentService
	grading     SubmissionService
	resolver    IdentityResolver
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mini, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mini.Close)

	store := kv.NewRedisStore(redis.NewClient(&redis.Options{Addr: mini.Addr()}))
	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.New(io.Discard)

	users := repository.NewUserRepository(store)
	courses := repository.NewCourseRepository(store)
	assignments := repository.NewAssignmentRepository(store)
	submissions := repository.NewSubmissionRepository(store)
	indexes := repository.NewIndexRepository(store)

	provider := auth.NewJWTProvider(store, "test-secret", time.Hour)

	return &testEnv{
		store:       store,
		users:       users,
		submissions: submissions,
		indexes:     indexes,
		provider:    provider,
		accounts:    NewAccountService(users, provider, validate, logger),
		courses:     NewCourseService(courses, indexes, validate, logger),
		assignments: NewAssignmentService(assignments, submissions, indexes, validate, logger),
		grading:     NewSubmissionService(submissions, assignments, indexes, validate, logger),
		resolver:    NewIdentityResolver(provider, users, logger),
	}
}

func signinRequestFor(username string) dto.SigninRequest {
	return dto.SigninRequest{Username: username, Password: testPassword}
}

func (e *testEnv) signup(t *testing.T, username, role string) models.Identity {
	t.Helper()

	user, err := e.accounts.Signup(context.Background(), dto.SignupRequest{
		Username: username,
		Password: testPassword,
		Role:     role,
	})
	require.NoError(t, err)

	return models.Identity{ID: user.ID, Username: user.Username, Role: user.Role}
}
