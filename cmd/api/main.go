package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/portal-go-api/internal/auth"
	"github.com/noah-isme/portal-go-api/internal/config"
	"github.com/noah-isme/portal-go-api/internal/database"
	"github.com/noah-isme/portal-go-api/internal/handler"
	"github.com/noah-isme/portal-go-api/internal/kv"
	"github.com/noah-isme/portal-go-api/internal/middleware"
	"github.com/noah-isme/portal-go-api/internal/repository"
	"github.com/noah-isme/portal-go-api/internal/router"
	"github.com/noah-isme/portal-go-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	store := kv.NewRedisStore(redisClient)
	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(store)
	courseRepo := repository.NewCourseRepository(store)
	assignmentRepo := repository.NewAssignmentRepository(store)
	submissionRepo := repository.NewSubmissionRepository(store)
	indexRepo := repository.NewIndexRepository(store)

	provider := auth.NewJWTProvider(store, cfg.JWTSecret, cfg.TokenTTL)
	resolver := service.NewIdentityResolver(provider, userRepo, logger)

	accountService := service.NewAccountService(userRepo, provider, validate, logger)
	courseService := service.NewCourseService(courseRepo, indexRepo, validate, logger)
	assignmentService := service.NewAssignmentService(assignmentRepo, submissionRepo, indexRepo, validate, logger)
	submissionService := service.NewSubmissionService(submissionRepo, assignmentRepo, indexRepo, validate, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:       handler.NewAuthHandler(accountService, logger),
		StudentHandler:    handler.NewStudentHandler(accountService, logger),
		CourseHandler:     handler.NewCourseHandler(courseService, logger),
		AssignmentHandler: handler.NewAssignmentHandler(assignmentService, logger),
		SubmissionHandler: handler.NewSubmissionHandler(submissionService, logger),
		Authenticate:      middleware.Authenticate(resolver, logger),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
