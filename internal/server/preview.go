package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/danielledeleo/ayatembed/internal/preview"
	"github.com/danielledeleo/ayatembed/quran"
	"github.com/gorilla/websocket"
)

const (
	previewWriteWait  = 10 * time.Second
	previewMaxMessage = 4096
)

// previewMessage is what the builder sends on every form change: the form
// encoded exactly as the builder URL query.
type previewMessage struct {
	Query string `json:"query"`
}

// PreviewSocketHandler streams previews to the builder. Every message
// starts a new generation; only the latest one is ever sent back.
func (a *App) PreviewSocketHandler(rw http.ResponseWriter, req *http.Request) {
	conn, err := a.upgrader.Upgrade(rw, req, nil)
	if err != nil {
		slog.Warn("preview upgrade failed", "error", err, "remote", req.RemoteAddr)
		return
	}
	defer conn.Close()

	var writeMu sync.Mutex
	publish := func(p *preview.Preview) {
		writeMu.Lock()
		defer writeMu.Unlock()
		conn.SetWriteDeadline(time.Now().Add(previewWriteWait))
		if err := conn.WriteJSON(p); err != nil {
			slog.Debug("failed to send preview", "error", err)
		}
	}

	load := preview.NewLoader(a.Content, a.Config.BaseURL)
	session := preview.NewSession(func(ctx context.Context, r preview.Request) (*preview.Preview, error) {
		p, err := load(ctx, r)
		if err != nil && ctx.Err() == nil {
			f := describeFailure(err, quran.English)
			logFailure("preview failed", f, err)
			if f.Body != "" {
				return nil, errors.New(f.Title + ": " + f.Body)
			}
			return nil, errors.New(f.Title)
		}
		return p, err
	}, publish)
	defer session.Close()

	acceptLanguage := req.Header.Get("Accept-Language")
	conn.SetReadLimit(previewMaxMessage)
	for {
		var msg previewMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("preview connection closed", "error", err)
			}
			return
		}

		// Malformed pairs are skipped like in embed URLs.
		q, _ := url.ParseQuery(msg.Query)
		sel, opts, err := builderRequest(q, acceptLanguage)
		session.Select(req.Context(), preview.Request{
			Selection: sel,
			Style:     opts.Style,
			Language:  opts.Language,
			Err:       err,
		})
	}
}
