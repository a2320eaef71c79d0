package server

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gorilla/sessions"
)

const (
	builderSessionName   = "ayatembed-builder"
	builderQueryKey      = "query"
	builderSessionMaxAge = 30 * 24 * 60 * 60
)

// builderSession returns the visitor's builder session. A cookie that no
// longer decodes, e.g. after the secret changed, yields a fresh session.
func (a *App) builderSession(req *http.Request) *sessions.Session {
	session, err := a.Sessions.Get(req, builderSessionName)
	if err != nil {
		slog.Debug("discarding builder session", "error", err)
	}
	return session
}

// savedBuilderQuery returns the last query the visitor previewed.
func savedBuilderQuery(session *sessions.Session) (url.Values, bool) {
	raw, ok := session.Values[builderQueryKey].(string)
	if !ok || raw == "" {
		return nil, false
	}
	q, err := url.ParseQuery(raw)
	if err != nil {
		return nil, false
	}
	return q, true
}

func (a *App) saveBuilderQuery(rw http.ResponseWriter, req *http.Request, session *sessions.Session, query string) {
	session.Values[builderQueryKey] = query
	if err := session.Save(req, rw); err != nil {
		slog.Warn("failed to save builder session", "error", err)
	}
}
