package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/orgbook/orgbook-api/src/internal/adapter/http/controller"
	"github.com/orgbook/orgbook-api/src/internal/adapter/http/middleware"
	"github.com/orgbook/orgbook-api/src/internal/adapter/http/router"
	"github.com/orgbook/orgbook-api/src/internal/adapter/repository/postgres"
	"github.com/orgbook/orgbook-api/src/internal/config"
	"github.com/orgbook/orgbook-api/src/internal/events/kafka"
	"github.com/orgbook/orgbook-api/src/internal/usecase/service_interfaces"
	"github.com/orgbook/orgbook-api/src/internal/usecase/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := postgres.RunMigrations(ctx, cfg.DatabaseDSN, cfg.MigrationsDir); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	db, err := postgres.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	store := postgres.NewStore(db)
	accountRepo := postgres.NewAccountRepository(db)
	organizationRepo := postgres.NewOrganizationRepository(db)
	membershipRepo := postgres.NewMembershipRepository(db)
	userRepo := postgres.NewUserRepository(db)
	activityRepo := postgres.NewActivityRepository(db)
	taskRepo := postgres.NewTaskRepository(db)

	var publisher service_interfaces.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}

	accessService := services.NewAccessService(membershipRepo)
	userService := services.NewUserService(userRepo, cfg.JWTSecret, cfg.BootstrapAdminEmail)
	organizationService := services.NewOrganizationService(organizationRepo, membershipRepo, accessService)
	accountService := services.NewAccountService(accountRepo, organizationRepo, accessService)
	ledgerService := services.NewLedgerService(store, accessService, publisher)
	activityService := services.NewActivityService(activityRepo, organizationRepo, accessService)
	taskService := services.NewTaskService(taskRepo, activityRepo, accessService)

	authMiddleware := middleware.BearerAuth(cfg.JWTSecret)
	mux := router.New(
		controller.NewAuthController(userService),
		controller.NewOrganizationController(organizationService),
		controller.NewAccountController(accountService),
		controller.NewTransactionController(ledgerService),
		controller.NewActivityController(activityService),
		controller.NewTaskController(taskService),
		authMiddleware,
	)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("listening on %s", cfg.HTTPAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("serve: %v", err)
	}
}
