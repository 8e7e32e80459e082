package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/portal-go-api/internal/auth"
	"github.com/noah-isme/portal-go-api/internal/config"
	"github.com/noah-isme/portal-go-api/internal/handler"
	"github.com/noah-isme/portal-go-api/internal/kv"
	"github.com/noah-isme/portal-go-api/internal/middleware"
	"github.com/noah-isme/portal-go-api/internal/models"
	"github.com/noah-isme/portal-go-api/internal/repository"
	"github.com/noah-isme/portal-go-api/internal/router"
	"github.com/noah-isme/portal-go-api/internal/service"
	"github.com/noah-isme/portal-go-api/internal/utils"
)

const testPassword = "secret123"

// newTestApp assembles the full HTTP stack against an in-process redis,
// mirroring the production wiring in cmd/api.
func newTestApp(t *testing.T) *fiber.App {
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
	resolver := service.NewIdentityResolver(provider, users, logger)

	accountService := service.NewAccountService(users, provider, validate, logger)
	courseService := service.NewCourseService(courses, indexes, validate, logger)
	assignmentService := service.NewAssignmentService(assignments, submissions, indexes, validate, logger)
	submissionService := service.NewSubmissionService(submissions, assignments, indexes, validate, logger)

	cfg := config.Config{AppName: "Assignment Portal API", AppEnv: "test"}

	app := fiber.New()
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:       handler.NewAuthHandler(accountService, logger),
		StudentHandler:    handler.NewStudentHandler(accountService, logger),
		CourseHandler:     handler.NewCourseHandler(courseService, logger),
		AssignmentHandler: handler.NewAssignmentHandler(assignmentService, logger),
		SubmissionHandler: handler.NewSubmissionHandler(submissionService, logger),
		Authenticate:      middleware.Authenticate(resolver, logger),
	})

	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, payload any) (*http.Response, utils.APIResponse) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	var envelope utils.APIResponse
	require.NoError(t, json.Unmarshal(raw, &envelope))

	return resp, envelope
}

// dataField re-decodes envelope.Data and returns the named field.
func dataField(t *testing.T, envelope utils.APIResponse, field string, out any) {
	t.Helper()

	encoded, err := json.Marshal(envelope.Data)
	require.NoError(t, err)

	var wrapper map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(encoded, &wrapper))
	require.Contains(t, wrapper, field)
	require.NoError(t, json.Unmarshal(wrapper[field], out))
}

func signupAndSignin(t *testing.T, app *fiber.App, username, role string) string {
	t.Helper()

	resp, _ := doJSON(t, app, fiber.MethodPost, "/api/v1/auth/signup", "", fiber.Map{
		"username": username,
		"password": testPassword,
		"role":     role,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, envelope := doJSON(t, app, fiber.MethodPost, "/api/v1/auth/signin", "", fiber.Map{
		"username": username,
		"password": testPassword,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	session := struct {
		AccessToken string `json:"accessToken"`
	}{}
	encoded, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(encoded, &session))
	require.NotEmpty(t, session.AccessToken)

	return session.AccessToken
}

func TestHealthEndpoint(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/v1/health", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestSignupDuplicateReturnsConflict(t *testing.T) {
	app := newTestApp(t)

	payload := fiber.Map{"username": "alice", "password": testPassword, "role": "student"}

	resp, _ := doJSON(t, app, fiber.MethodPost, "/api/v1/auth/signup", "", payload)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, envelope := doJSON(t, app, fiber.MethodPost, "/api/v1/auth/signup", "", payload)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
	require.False(t, envelope.Success)
	require.Equal(t, "conflict", envelope.Code)
}

func TestSigninBadPasswordReturnsUnauthorized(t *testing.T) {
	app := newTestApp(t)

	signupAndSignin(t, app, "alice", "student")

	resp, envelope := doJSON(t, app, fiber.MethodPost, "/api/v1/auth/signin", "", fiber.Map{
		"username": "alice",
		"password": "wrong-pass",
	})
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "unauthenticated", envelope.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app := newTestApp(t)

	for _, route := range []struct {
		method string
		path   string
	}{
		{fiber.MethodGet, "/api/v1/students"},
		{fiber.MethodGet, "/api/v1/courses"},
		{fiber.MethodGet, "/api/v1/assignments"},
		{fiber.MethodGet, "/api/v1/submissions"},
	} {
		resp, envelope := doJSON(t, app, route.method, route.path, "", nil)
		require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, route.path)
		require.False(t, envelope.Success)
		require.Equal(t, "unauthenticated", envelope.Code)
	}
}

func TestRoleGatesOverHTTP(t *testing.T) {
	app := newTestApp(t)

	studentToken := signupAndSignin(t, app, "alice", "student")

	resp, envelope := doJSON(t, app, fiber.MethodPost, "/api/v1/courses", studentToken, fiber.Map{
		"name": "Nope",
	})
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	require.Equal(t, "forbidden", envelope.Code)

	resp, envelope = doJSON(t, app, fiber.MethodGet, "/api/v1/students", studentToken, nil)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	require.Equal(t, "forbidden", envelope.Code)
}

func TestCourseLifecycleOverHTTP(t *testing.T) {
	app := newTestApp(t)

	teacherToken := signupAndSignin(t, app, "prof", "teacher")
	studentToken := signupAndSignin(t, app, "alice", "student")

	resp, envelope := doJSON(t, app, fiber.MethodPost, "/api/v1/courses", teacherToken, fiber.Map{
		"name":             "Algebra",
		"description":      "Linear equations",
		"enrolledStudents": []string{"alice"},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var course models.Course
	dataField(t, envelope, "course", &course)
	require.Contains(t, course.ID, "course:")

	resp, envelope = doJSON(t, app, fiber.MethodGet, "/api/v1/courses", studentToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var listed []models.Course
	dataField(t, envelope, "courses", &listed)
	require.Len(t, listed, 1)
	require.Equal(t, course.ID, listed[0].ID)

	// Course ids carry a colon; the raw form must route fine.
	resp, _ = doJSON(t, app, fiber.MethodDelete, "/api/v1/courses/"+course.ID, teacherToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, envelope = doJSON(t, app, fiber.MethodGet, "/api/v1/courses", studentToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	dataField(t, envelope, "courses", &listed)
	require.Empty(t, listed)
}

func TestAssignmentFlowOverHTTP(t *testing.T) {
	app := newTestApp(t)

	teacherToken := signupAndSignin(t, app, "prof", "teacher")
	studentToken := signupAndSignin(t, app, "alice", "student")

	resp, envelope := doJSON(t, app, fiber.MethodPost, "/api/v1/assignments", teacherToken, fiber.Map{
		"title":    "Homework 1",
		"dueDate":  "2026-10-01",
		"maxScore": 100,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var assignment models.Assignment
	dataField(t, envelope, "assignment", &assignment)

	resp, envelope = doJSON(t, app, fiber.MethodPost, "/api/v1/submissions", studentToken, fiber.Map{
		"assignmentId": assignment.ID,
		"content":      "my answer",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var submission models.Submission
	dataField(t, envelope, "submission", &submission)
	require.Equal(t, "pending", submission.Status)

	status := studentAssignmentStatus(t, app, studentToken, assignment.ID)
	require.Equal(t, "submitted", status.Status)

	resp, _ = doJSON(t, app, fiber.MethodPost, "/api/v1/grade", teacherToken, fiber.Map{
		"submissionId": submission.ID,
		"score":        85,
		"feedback":     "solid work",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	status = studentAssignmentStatus(t, app, studentToken, assignment.ID)
	require.Equal(t, "graded", status.Status)
	require.NotNil(t, status.Score)
	require.Equal(t, 85, *status.Score)
	require.Equal(t, "solid work", status.Feedback)

	resp, envelope = doJSON(t, app, fiber.MethodGet, "/api/v1/assignments", teacherToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var teacherRows []struct {
		ID          string `json:"id"`
		Submissions int    `json:"submissions"`
	}
	dataField(t, envelope, "assignments", &teacherRows)
	require.Len(t, teacherRows, 1)
	require.Equal(t, 1, teacherRows[0].Submissions)
}

func TestGradeUnknownSubmissionOverHTTP(t *testing.T) {
	app := newTestApp(t)

	teacherToken := signupAndSignin(t, app, "prof", "teacher")

	resp, envelope := doJSON(t, app, fiber.MethodPost, "/api/v1/grade", teacherToken, fiber.Map{
		"submissionId": "submission:assignment:missing:alice",
		"score":        50,
	})
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	require.Equal(t, "not_found", envelope.Code)
}

type studentAssignmentRow struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Score    *int   `json:"score"`
	Feedback string `json:"feedback"`
}

func studentAssignmentStatus(t *testing.T, app *fiber.App, token, assignmentID string) studentAssignmentRow {
	t.Helper()

	resp, envelope := doJSON(t, app, fiber.MethodGet, "/api/v1/assignments", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var rows []studentAssignmentRow
	dataField(t, envelope, "assignments", &rows)

	for _, row := range rows {
		if row.ID == assignmentID {
			return row
		}
	}

	t.Fatalf("assignment %s not in listing", assignmentID)
	return studentAssignmentRow{}
}
