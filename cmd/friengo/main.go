package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/friengo/friengo/internal/api"
	"github.com/friengo/friengo/internal/config"
	"github.com/friengo/friengo/internal/handlers"
	"github.com/friengo/friengo/internal/repository/postgres"
	"github.com/friengo/friengo/internal/service"
	"github.com/friengo/friengo/internal/telegram"
	"github.com/friengo/friengo/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	l := logger.New(cfg.LogLevel, cfg.LogFile)
	l.Info("Starting FrienGO...")

	// Database
	db, err := config.NewDatabase(cfg.DatabaseURL, l)
	if err != nil {
		l.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.Migrate("migrations"); err != nil {
		l.Fatalf("Failed to run migrations: %v", err)
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db.DB)
	pollRepo := postgres.NewPollRepository(db.DB)
	voteRepo := postgres.NewVoteRepository(db.DB)
	scheduleRepo := postgres.NewReminderScheduleRepository(db.DB)

	// Service layer
	svc := service.New(db.DB, l, userRepo, pollRepo, voteRepo, scheduleRepo)

	// Telegram bot
	bot, err := telegram.NewBot(cfg.TelegramToken, l)
	if err != nil {
		l.Fatalf("Failed to create Telegram bot: %v", err)
	}

	// Register command handlers
	bot.RegisterCommand("start", handlers.NewStartHandler(svc, l))
	bot.RegisterCommand("help", handlers.NewHelpHandler(l))
	bot.RegisterCommand("join", handlers.NewJoinHandler(svc, l))
	bot.RegisterCommand("users", handlers.NewUsersHandler(svc, l))
	bot.RegisterCommand("vote", handlers.NewCreatePollHandler(svc, l))
	bot.RegisterCommand("ping", handlers.NewPingHandler(svc, l))
	bot.RegisterCommand("close", handlers.NewCloseHandler(svc, l))

	// Vote toggle buttons
	bot.RegisterCallback(handlers.NewVoteCallbackHandler(svc, l))

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		l.Info("Received shutdown signal...")
		cancel()
	}()

	// Start reminder scheduler
	go svc.StartReminderScheduler(ctx, func(chatID, pollID int64, text string) error {
		return bot.SendMessage(chatID, text)
	})

	// Start HTTP status API
	apiServer := api.NewServer(svc, l)
	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: apiServer.Handler(),
	}

	go func() {
		l.Infof("HTTP server listening on :%s", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Errorf("HTTP server error: %v", err)
		}
	}()

	// Start Telegram bot polling
	go func() {
		if err := bot.Start(ctx); err != nil {
			l.Errorf("Bot error: %v", err)
		}
	}()

	l.Info("FrienGO started successfully")

	<-ctx.Done()

	l.Info("Shutting down HTTP server...")
	httpServer.Close()

	l.Info("FrienGO stopped")
}
