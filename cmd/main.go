package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/bhealthy/clinicbot/internal/clinic"
	"github.com/bhealthy/clinicbot/internal/config"
	"github.com/bhealthy/clinicbot/internal/logger"
	"github.com/bhealthy/clinicbot/internal/telegram"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zl := logger.New(cfg.LogPath, cfg.Production)
	defer zl.Sync()

	// --- Store: Postgres when DATABASE_URL is set, SQLite file otherwise ---
	var store clinic.Store
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			zl.Fatal("db open error", zap.Error(err))
		}
		defer db.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := db.PingContext(pingCtx); err != nil {
			cancel()
			zl.Fatal("db ping error", zap.Error(err))
		}
		cancel()

		store, err = clinic.NewPostgresStore(db)
		if err != nil {
			zl.Fatal("store init error", zap.Error(err))
		}
	} else {
		s, err := clinic.NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			zl.Fatal("store init error", zap.Error(err))
		}
		defer s.Close()
		store = s
	}

	// --- Telegram ---
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		zl.Fatal("telegram auth error", zap.Error(err))
	}
	zl.Info("authorized", zap.String("bot", api.Self.UserName))
	if cfg.OperatorID == 0 {
		zl.Warn("ADMIN_ID is unset or invalid; operator console and notifications are disabled")
	}

	// --- Module wiring ---
	client := telegram.NewClient(api)
	notifier := telegram.NewNotifier(api, cfg.OperatorID, zl)
	svc := clinic.NewService(store, client, notifier, cfg.OperatorID, zl)
	bot := telegram.NewBot(api, svc, zl)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})
	if cfg.Mode == config.ModeWebhook {
		telegram.RegisterRoutes(r, bot)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		zl.Info("listening", zap.String("port", cfg.Port))
		if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
			zl.Error("http server error", zap.Error(err))
		}
	}()

	if cfg.Mode == config.ModeWebhook {
		<-ctx.Done()
	} else {
		bot.Run(ctx)
	}
	zl.Info("shutting down")
}
