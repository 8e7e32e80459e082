package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/portal-go-api/internal/apperr"
	"github.com/noah-isme/portal-go-api/internal/dto"
	"github.com/noah-isme/portal-go-api/internal/models"
)

func TestCourseServiceCreateListDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	teacher := env.signup(t, "prof", models.RoleTeacher)
	s1 := env.signup(t, "alice", models.RoleStudent)
	s2 := env.signup(t, "bob", models.RoleStudent)

	course, err := env.courses.Create(ctx, teacher, dto.CourseCreateRequest{
		Name:             "  Algebra I  ",
		Description:      "Linear equations",
		EnrolledStudents: []string{"alice", "bob"},
	})
	require.NoError(t, err)
	require.Equal(t, "Algebra I", course.Name)
	require.Equal(t, "prof", course.CreatedBy)
	require.Equal(t, []string{"alice", "bob"}, course.EnrolledStudents)
	require.Contains(t, course.ID, "course:")

	for _, identity := range []models.Identity{teacher, s1, s2} {
		listed, err := env.courses.List(ctx, identity)
		require.NoError(t, err)
		require.Len(t, listed, 1)
		require.Equal(t, course.ID, listed[0].ID)
	}

	require.NoError(t, env.courses.Delete(ctx, teacher, course.ID))

	for _, identity := range []models.Identity{teacher, s1, s2} {
		listed, err := env.courses.List(ctx, identity)
		require.NoError(t, err)
		require.Empty(t, listed)
	}
}

func TestCourseServiceCreateDefaultsEmptyRoster(t *testing.T) {
	env := newTestEnv(t)
	teacher := env.signup(t, "prof", models.RoleTeacher)

	course, err := env.courses.Create(context.Background(), teacher, dto.CourseCreateRequest{Name: "Solo"})
	require.NoError(t, err)
	require.NotNil(t, course.EnrolledStudents)
	require.Empty(t, course.EnrolledStudents)
}

func TestCourseServiceCreateStripsMarkup(t *testing.T) {
	env := newTestEnv(t)
	teacher := env.signup(t, "prof", models.RoleTeacher)

	course, err := env.courses.Create(context.Background(), teacher, dto.CourseCreateRequest{
		Name:        "Security",
		Description: `intro <script>alert("x")</script> text`,
	})
	require.NoError(t, err)
	require.NotContains(t, course.Description, "<script>")
	require.Contains(t, course.Description, "intro")
}

func TestCourseServiceCreateRequiresTeacher(t *testing.T) {
	env := newTestEnv(t)
	student := env.signup(t, "alice", models.RoleStudent)

	_, err := env.courses.Create(context.Background(), student, dto.CourseCreateRequest{Name: "Nope"})
	require.Error(t, err)
	require.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

func TestCourseServiceDeleteRejectsNonOwnerWithoutMutation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.signup(t, "prof", models.RoleTeacher)
	rival := env.signup(t, "rival", models.RoleTeacher)
	student := env.signup(t, "alice", models.RoleStudent)

	course, err := env.courses.Create(ctx, owner, dto.CourseCreateRequest{
		Name:             "Guarded",
		EnrolledStudents: []string{"alice"},
	})
	require.NoError(t, err)

	err = env.courses.Delete(ctx, rival, course.ID)
	require.Error(t, err)
	require.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	// The rejected delete must leave record and indexes untouched.
	ownerCourses, err := env.courses.List(ctx, owner)
	require.NoError(t, err)
	require.Len(t, ownerCourses, 1)

	studentCourses, err := env.courses.List(ctx, student)
	require.NoError(t, err)
	require.Len(t, studentCourses, 1)
}

func TestCourseServiceDeleteMissingCourse(t *testing.T) {
	env := newTestEnv(t)
	teacher := env.signup(t, "prof", models.RoleTeacher)

	err := env.courses.Delete(context.Background(), teacher, "course:does-not-exist")
	require.Error(t, err)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestCourseServiceDeleteRequiresTeacher(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	teacher := env.signup(t, "prof", models.RoleTeacher)
	student := env.signup(t, "alice", models.RoleStudent)

	course, err := env.courses.Create(ctx, teacher, dto.CourseCreateRequest{Name: "Locked"})
	require.NoError(t, err)

	err = env.courses.Delete(ctx, student, course.ID)
	require.Error(t, err)
	require.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

func TestCourseServiceListSkipsDanglingIndexEntries(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	teacher := env.signup(t, "prof", models.RoleTeacher)

	course, err := env.courses.Create(ctx, teacher, dto.CourseCreateRequest{Name: "Ghost"})
	require.NoError(t, err)

	// Drop the record out from under the index, as a crash between the two
	// delete steps would.
	require.NoError(t, env.store.Delete(ctx, course.ID))

	listed, err := env.courses.List(ctx, teacher)
	require.NoError(t, err)
	require.Empty(t, listed)
}
