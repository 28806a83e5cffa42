package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-otp-nosql/internal/application/auth"
	"github.com/go-otp-nosql/internal/config"
	"github.com/go-otp-nosql/internal/infrastructure/dynamo"
	"github.com/go-otp-nosql/internal/infrastructure/logmail"
	"github.com/go-otp-nosql/internal/infrastructure/sendgrid"
	"github.com/go-otp-nosql/internal/infrastructure/smtp"
	"github.com/go-otp-nosql/internal/infrastructure/sns"
	transporthttp "github.com/go-otp-nosql/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	if envErr != nil {
		slog.Info("no .env file found, reading from environment")
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dynamoClient, err := dynamo.NewClient(ctx, cfg)
	if err != nil {
		slog.Error("dynamo client", "error", err)
		os.Exit(1)
	}
	if cfg.DynamoBootstrap {
		dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables)
	}

	notifiers := map[string]auth.Notifier{
		config.NotifierLog:  logmail.New(logger),
		config.NotifierSMTP: smtp.NewMailer(cfg),
	}
	if cfg.SendGridEnabled() {
		sender, err := sendgrid.NewSender(cfg.SendGridAPIKey, cfg.SendGridSender)
		if err != nil {
			slog.Error("sendgrid sender", "error", err)
			os.Exit(1)
		}
		notifiers[config.NotifierSendGrid] = sender
	}

	// UserVerified publication is optional.
	var events auth.EventPublisher
	if cfg.SNSTopicARN != "" {
		snsClient, err := sns.NewClient(ctx, cfg)
		if err != nil {
			slog.Warn("SNS publisher not available", "error", err)
		} else {
			events = sns.NewPublisher(snsClient, cfg.SNSTopicARN)
		}
	}

	deps := &transporthttp.Deps{
		VerificationRepo: dynamo.NewVerificationRepo(dynamoClient, cfg.DynamoTables.AuthCodes),
		UserRepo:         dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users),
		Events:           events,
		Notifiers:        notifiers,
		DefaultNotifier:  cfg.Notifier,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.AppPort, "env", cfg.AppEnv, "notifier", cfg.Notifier)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
