package server

import (
	"log/slog"
	"os"

	"github.com/danielledeleo/ayatembed/internal/config"
	"github.com/danielledeleo/ayatembed/internal/content"
	"github.com/danielledeleo/ayatembed/internal/embedded"
	"github.com/danielledeleo/ayatembed/internal/storage"
	"github.com/danielledeleo/ayatembed/quran/service"
	"github.com/danielledeleo/ayatembed/templater"
)

// Setup initializes the application from config.yaml and the environment.
// The returned App must be closed when the server stops.
func Setup() *App {
	conf := config.SetupConfig()

	t := templater.New()
	if err := t.LoadEmbedded(); err != nil {
		slog.Error("failed to load templates", "error", err)
		os.Exit(1)
	}

	docs, err := embedded.Load()
	if err != nil {
		slog.Error("failed to render docs", "error", err)
		os.Exit(1)
	}

	db, err := storage.Open(conf.DatabaseFile)
	if err != nil {
		slog.Error("failed to open database", "file", conf.DatabaseFile, "error", err)
		os.Exit(1)
	}
	chapters, err := storage.Init(db)
	if err != nil {
		slog.Error("failed to prepare statements", "error", err)
		os.Exit(1)
	}

	if conf.ClientID == "" || conf.ClientSecret == "" {
		slog.Warn("no upstream credentials configured, requests are sent unauthenticated",
			"hint", "set QF_CLIENT_ID and QF_CLIENT_SECRET")
	}
	client := content.NewClient(content.Config{
		APIBaseURL:    conf.APIBaseURL,
		TokenURL:      conf.TokenURL,
		ClientID:      conf.ClientID,
		ClientSecret:  conf.ClientSecret,
		TranslationID: conf.TranslationID,
		Timeout:       conf.FetchTimeout,
	})

	contentService := service.NewContentService(client, chapters, service.Options{
		Workers:      conf.FetchWorkers,
		VerseTTL:     conf.VerseCacheTTL,
		VerseEntries: conf.VerseCacheSize,
		ChapterTTL:   conf.ChapterCacheTTL,
	})
	slog.Info("content service initialized",
		"environment", conf.Environment,
		"api", conf.APIBaseURL,
		"workers", conf.FetchWorkers,
	)

	app := NewApp(conf, contentService, client, docs, t)
	app.DB = db
	return app
}
