// Package testutil provides test utilities for ayatembed integration tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/danielledeleo/ayatembed/internal/content"
	"github.com/danielledeleo/ayatembed/internal/embedded"
	"github.com/danielledeleo/ayatembed/internal/storage"
	"github.com/danielledeleo/ayatembed/quran"
	"github.com/danielledeleo/ayatembed/quran/repository"
	"github.com/danielledeleo/ayatembed/quran/service"
	"github.com/danielledeleo/ayatembed/templater"
	"github.com/jmoiron/sqlx"
)

// TestBaseURL is the public base URL test apps generate embed links for.
const TestBaseURL = "https://embed.example"

// TestApp wraps the full application for integration tests.
type TestApp struct {
	*templater.Templater
	Content  service.ContentService
	Client   *content.Client
	Docs     *embedded.Pages
	Config   *quran.Config
	Upstream *FakeUpstream
	DB       *sqlx.DB
}

// SetupTestDB creates an in-memory SQLite database with migrations applied.
func SetupTestDB(t *testing.T) (*sqlx.DB, repository.ChapterRepository, func()) {
	t.Helper()

	db, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}

	repo, err := storage.Init(db)
	if err != nil {
		db.Close()
		t.Fatalf("failed to initialize prepared statements: %v", err)
	}

	cleanup := func() {
		db.Close()
	}

	return db, repo, cleanup
}

// SetupTestApp creates a full application instance backed by a fake
// content provider.
func SetupTestApp(t *testing.T) (*TestApp, func()) {
	t.Helper()

	upstream := NewFakeUpstream(t)
	db, repo, dbCleanup := SetupTestDB(t)

	config := &quran.Config{
		DatabaseFile:    ":memory:",
		Host:            "localhost:8080",
		BaseURL:         TestBaseURL,
		Environment:     content.EnvPrelive,
		APIBaseURL:      upstream.APIBaseURL(),
		TokenURL:        upstream.TokenURL(),
		ClientID:        "test-client",
		ClientSecret:    "test-secret",
		TranslationID:   content.DefaultTranslationID,
		FetchWorkers:    4,
		FetchTimeout:    5 * time.Second,
		VerseCacheTTL:   time.Minute,
		VerseCacheSize:  100,
		ChapterCacheTTL: time.Minute,
		CookieSecret:    []byte("test-secret-key-for-sessions-32b"),
	}

	tmpl := templater.New()
	if err := tmpl.LoadEmbedded(); err != nil {
		dbCleanup()
		t.Fatalf("failed to load templates: %v", err)
	}

	docs, err := embedded.Load()
	if err != nil {
		dbCleanup()
		t.Fatalf("failed to load docs: %v", err)
	}

	client := content.NewClient(content.Config{
		APIBaseURL:    config.APIBaseURL,
		TokenURL:      config.TokenURL,
		ClientID:      config.ClientID,
		ClientSecret:  config.ClientSecret,
		TranslationID: config.TranslationID,
		Timeout:       config.FetchTimeout,
	})

	contentService := service.NewContentService(client, repo, service.Options{
		Workers:      config.FetchWorkers,
		VerseTTL:     config.VerseCacheTTL,
		VerseEntries: config.VerseCacheSize,
		ChapterTTL:   config.ChapterCacheTTL,
	})

	app := &TestApp{
		Templater: tmpl,
		Content:   contentService,
		Client:    client,
		Docs:      docs,
		Config:    config,
		Upstream:  upstream,
		DB:        db,
	}

	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := contentService.Close(ctx); err != nil {
			t.Errorf("failed to close content service: %v", err)
		}
		dbCleanup()
	}

	return app, cleanup
}
