package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"stacy-ai/backend/internal/api"
	"stacy-ai/backend/internal/chat"
	"stacy-ai/backend/internal/config"
	"stacy-ai/backend/internal/database"
	"stacy-ai/backend/internal/llm"
	"stacy-ai/backend/internal/model"
	"stacy-ai/backend/internal/repository"
	"stacy-ai/backend/internal/session"
	"stacy-ai/backend/internal/settings"
	"stacy-ai/backend/internal/speech"
)

func Run() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		// slog is not yet configured; use the default logger for this
		// critical error.
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	setupLogger(cfg.LogLevel)
	logConfigSource()

	db, err := database.InitDB(cfg.DatabasePath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		return 1
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}()
	slog.Info("Successfully connected to SQLite database.")

	store := repository.NewSQLiteStore(db)

	ctx := context.Background()
	sessionStore := session.NewStore(ctx, store)
	settingsStore := settings.NewStore(ctx, store, defaultSettings(cfg))
	slog.Info("Hydrated application state",
		"sessions", len(sessionStore.List()),
		"language", settingsStore.Get().Language)

	provider := llm.NewHTTPProvider(cfg.CompletionURL, cfg.CompletionAPIKey)

	var speaker speech.Speaker = speech.NoopSpeaker{}
	if cfg.SpeechURL != "" {
		speaker = speech.NewHTTPSpeaker(cfg.SpeechURL)
	}

	chatService := chat.NewService(sessionStore, settingsStore, provider, speaker, chat.Config{
		Model: cfg.CompletionModel,
	})

	sessionHandler := api.NewSessionHandler(sessionStore, settingsStore, chatService)
	settingsHandler := api.NewSettingsHandler(settingsStore)
	router := api.NewRouter(sessionHandler, settingsHandler, cfg.StaticDir)

	server := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.AppPort),
		Handler:           router,
		ReadHeaderTimeout: 20 * time.Second,
		WriteTimeout:      0, // Disabled for streaming endpoints
		IdleTimeout:       120 * time.Second,
	}

	slog.Info("Starting server", "port", cfg.AppPort)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server failed", "error", err)
		return 1
	}

	return 0
}

// defaultSettings builds the first-run settings object; persisted state
// overrides it wholesale once present.
func defaultSettings(cfg *config.Config) model.UserSettings {
	return model.UserSettings{
		UserName:     cfg.DefaultUserName,
		APIKey:       nil,
		Theme:        model.ThemeDark,
		Personality:  cfg.DefaultPersonality,
		Language:     cfg.DefaultLanguage,
		Temperature:  cfg.DefaultTemperature,
		VoiceEnabled: false,
		Usage:        0,
		Quota:        cfg.DefaultQuota,
	}
}

func logConfigSource() {
	configFileUsed := viper.ConfigFileUsed()
	if configFileUsed != "" {
		slog.Info("Successfully loaded configuration from file.", "file", configFileUsed)
	} else {
		slog.Info("Configuration file not found. Using environment variables and defaults.")
	}
}

func setupLogger(logLevel string) {
	var level slog.Level
	switch strings.ToUpper(logLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}
