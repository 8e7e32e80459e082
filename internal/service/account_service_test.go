package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/portal-go-api/internal/apperr"
	"github.com/noah-isme/portal-go-api/internal/dto"
	"github.com/noah-isme/portal-go-api/internal/models"
)

func TestAccountServiceSignupAndSignin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, err := env.accounts.Signup(ctx, dto.SignupRequest{
		Username: "prof",
		Password: testPassword,
		Role:     models.RoleTeacher,
	})
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.Equal(t, "prof", user.Username)
	require.Equal(t, models.RoleTeacher, user.Role)
	require.False(t, user.CreatedAt.IsZero())

	session, err := env.accounts.Signin(ctx, dto.SigninRequest{Username: "prof", Password: testPassword})
	require.NoError(t, err)
	require.NotEmpty(t, session.AccessToken)
	require.Equal(t, user, session.User)

	identity, err := env.resolver.Resolve(ctx, "Bearer "+session.AccessToken)
	require.NoError(t, err)
	require.Equal(t, models.Identity{ID: user.ID, Username: "prof", Role: models.RoleTeacher}, identity)
}

func TestAccountServiceSignupDuplicateUsername(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.signup(t, "alice", models.RoleStudent)

	_, err := env.accounts.Signup(ctx, dto.SignupRequest{
		Username: "alice",
		Password: "another-pass",
		Role:     models.RoleTeacher,
	})
	require.Error(t, err)
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestAccountServiceSignupRejectsInvalidPayload(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		payload dto.SignupRequest
	}{
		{"missing username", dto.SignupRequest{Password: testPassword, Role: models.RoleStudent}},
		{"short password", dto.SignupRequest{Username: "alice", Password: "abc", Role: models.RoleStudent}},
		{"unknown role", dto.SignupRequest{Username: "alice", Password: testPassword, Role: "admin"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.accounts.Signup(ctx, tc.payload)
			require.Error(t, err)

			var validationErrs validator.ValidationErrors
			require.ErrorAs(t, err, &validationErrs)
		})
	}
}

func TestAccountServiceSigninBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.signup(t, "alice", models.RoleStudent)

	_, err := env.accounts.Signin(ctx, dto.SigninRequest{Username: "alice", Password: "wrong-pass"})
	require.Error(t, err)
	require.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))

	_, err = env.accounts.Signin(ctx, dto.SigninRequest{Username: "nobody", Password: testPassword})
	require.Error(t, err)
	require.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))
}

func TestAccountServiceListStudents(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	teacher := env.signup(t, "prof", models.RoleTeacher)
	alice := env.signup(t, "alice", models.RoleStudent)
	bob := env.signup(t, "bob", models.RoleStudent)

	roster, err := env.accounts.ListStudents(ctx, teacher)
	require.NoError(t, err)
	require.Equal(t, []models.RosterEntry{
		{ID: alice.ID, Username: "alice"},
		{ID: bob.ID, Username: "bob"},
	}, roster)

	// Teachers never land on the roster.
	for _, entry := range roster {
		require.NotEqual(t, "prof", entry.Username)
	}

	_, err = env.accounts.ListStudents(ctx, alice)
	require.Error(t, err)
	require.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	_, err = env.accounts.ListStudents(ctx, models.Identity{})
	require.Error(t, err)
	require.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))
}
