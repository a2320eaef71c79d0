package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielledeleo/ayatembed/embedurl"
	"github.com/danielledeleo/ayatembed/internal/content"
	"github.com/danielledeleo/ayatembed/internal/fetchqueue"
	"github.com/danielledeleo/ayatembed/quran"
	"github.com/danielledeleo/ayatembed/render"
	"github.com/danielledeleo/ayatembed/snippet"
	"github.com/gorilla/mux"
)

// Snippet export formats.
const (
	FormatIframe = "iframe"
	FormatHTML   = "html"
)

// snippetResponse is the body of GET /snippet.
type snippetResponse struct {
	Format    string `json:"format"`
	Selection string `json:"selection"`
	ID        string `json:"id,omitempty"`
	URL       string `json:"url,omitempty"`
	Height    int    `json:"height,omitempty"`
	HTML      string `json:"html"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(rw http.ResponseWriter, status int, v any) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	if err := json.NewEncoder(rw).Encode(v); err != nil {
		slog.Warn("failed to write response", "error", err)
	}
}

// SnippetHandler returns copy-paste embed code for a selection, either the
// iframe snippet or standalone markup.
func (a *App) SnippetHandler(rw http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = FormatIframe
	}
	if format != FormatIframe && format != FormatHTML {
		writeJSON(rw, http.StatusBadRequest, errorResponse{"format must be iframe or html"})
		return
	}

	opts := embedurl.Decode(q)
	sel, err := embedurl.ParseSelection(q.Get("chapter"), q.Get("verses"))
	if err != nil {
		f := describeFailure(err, quran.English)
		writeJSON(rw, f.Status, errorResponse{err.Error()})
		return
	}

	// Even the iframe format resolves the passage so that a snippet is
	// never handed out for verses that do not exist.
	passage, err := a.Content.Passage(req.Context(), sel, fetchqueue.TierInteractive)
	if err != nil {
		f := describeFailure(err, quran.English)
		logFailure("snippet failed", f, err, "selection", sel.String())
		writeJSON(rw, f.Status, errorResponse{err.Error()})
		return
	}

	resp := snippetResponse{Format: format, Selection: passage.Selection.String()}
	switch format {
	case FormatHTML:
		resp.HTML = render.GenerateMarkup(passage.Verses, passage.Chapter, opts.Style, opts.Language).String()
	default:
		snip, err := snippet.Generate(a.Config.BaseURL, passage.Selection, opts.Style, opts.Language)
		if err != nil {
			slog.Error("failed to generate snippet", "selection", sel.String(), "error", err)
			writeJSON(rw, http.StatusInternalServerError, errorResponse{"failed to generate snippet"})
			return
		}
		resp.ID, resp.URL, resp.Height, resp.HTML = snip.ID, snip.URL, snip.Height, snip.HTML
	}

	rw.Header().Set("Cache-Control", "no-store")
	writeJSON(rw, http.StatusOK, resp)
}

// ChaptersHandler lists chapter metadata.
func (a *App) ChaptersHandler(rw http.ResponseWriter, req *http.Request) {
	chapters, err := a.Content.Chapters(req.Context())
	if err != nil {
		slog.Error("failed to load chapters", "error", err)
		writeJSON(rw, http.StatusBadGateway, errorResponse{"failed to load chapters"})
		return
	}

	setCacheStable(rw, a.started)
	writeJSON(rw, http.StatusOK, chapters)
}

// ProxyHandler relays whitelisted read-only provider paths.
func (a *App) ProxyHandler(rw http.ResponseWriter, req *http.Request) {
	path := mux.Vars(req)["path"]

	resp, err := a.Upstream.Proxy(req.Context(), path, req.URL.Query())
	if errors.Is(err, content.ErrPathNotAllowed) {
		slog.Warn("proxy path rejected", "path", path, "remote", req.RemoteAddr)
		writeJSON(rw, http.StatusForbidden, errorResponse{"Forbidden: This API path is not allowed"})
		return
	}
	if err != nil {
		slog.Error("proxy request failed", "path", path, "error", err)
		writeJSON(rw, http.StatusBadGateway, errorResponse{"upstream request failed"})
		return
	}

	if resp.Status < 200 || resp.Status > 299 {
		writeJSON(rw, resp.Status, errorResponse{"Upstream API Error: " + strconv.Itoa(resp.Status)})
		return
	}

	setCacheShared(rw)
	contentType := resp.ContentType
	if contentType == "" {
		contentType = "application/json"
	}
	rw.Header().Set("Content-Type", contentType)
	rw.WriteHeader(resp.Status)
	_, err = rw.Write(resp.Body)
	check(err)
}
