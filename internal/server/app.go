package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/danielledeleo/ayatembed/internal/content"
	"github.com/danielledeleo/ayatembed/internal/embedded"
	"github.com/danielledeleo/ayatembed/quran"
	"github.com/danielledeleo/ayatembed/quran/service"
	"github.com/danielledeleo/ayatembed/templater"
	"github.com/gorilla/sessions"
	"github.com/gorilla/websocket"
	"github.com/jmoiron/sqlx"
	"go.uber.org/multierr"
)

// Proxy relays whitelisted read-only requests to the content provider.
type Proxy interface {
	Proxy(ctx context.Context, path string, query url.Values) (*content.ProxyResponse, error)
}

// App holds all application dependencies and services.
type App struct {
	*templater.Templater
	Content  service.ContentService
	Upstream Proxy
	Docs     *embedded.Pages
	Config   *quran.Config
	Sessions sessions.Store
	DB       *sqlx.DB

	started  time.Time
	upgrader websocket.Upgrader
}

// NewApp wires an App. The builder session store is keyed with
// conf.CookieSecret.
func NewApp(conf *quran.Config, contentService service.ContentService, upstream Proxy, docs *embedded.Pages, t *templater.Templater) *App {
	store := sessions.NewCookieStore(conf.CookieSecret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   builderSessionMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	return &App{
		Templater: t,
		Content:   contentService,
		Upstream:  upstream,
		Docs:      docs,
		Config:    conf,
		Sessions:  store,
		started:   time.Now(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
}

// Close stops the fetch workers and closes the database.
func (a *App) Close(ctx context.Context) error {
	err := a.Content.Close(ctx)
	if a.DB != nil {
		err = multierr.Append(err, a.DB.Close())
	}
	return err
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

// Hijack lets the live preview upgrade through the logging middleware.
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	rw.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

// SlogLoggingMiddleware logs HTTP requests using slog
func SlogLoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		slog.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.status,
			"size", wrapped.size,
			"duration", time.Since(start),
			"remote", r.RemoteAddr,
		)
	})
}

// recoveryLogger routes gorilla/handlers panic reports to slog.
type recoveryLogger struct{}

func (recoveryLogger) Println(v ...any) {
	slog.Error("recovered from panic", "error", fmt.Sprint(v...))
}

func check(err error) {
	if err != nil {
		slog.Error("unexpected error", "error", err)
	}
}
