package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/danielledeleo/ayatembed/embedurl"
	"github.com/danielledeleo/ayatembed/heightsync"
	"github.com/danielledeleo/ayatembed/internal/fetchqueue"
	"github.com/danielledeleo/ayatembed/quran"
	"github.com/danielledeleo/ayatembed/render"
	"github.com/danielledeleo/ayatembed/snippet"
	"github.com/gorilla/mux"
)

// defaultSelection is what the builder shows on a first visit.
var defaultSelection = quran.Selection{Chapter: 1, From: 1, To: 7}

// failure is an error as shown to a visitor.
type failure struct {
	Status int
	Title  string
	Body   string
	Retry  bool
}

// describeFailure maps an error to what the visitor sees. Broken links and
// verses that do not exist are the visitor's to fix; everything else is
// the provider's and can be retried.
func describeFailure(err error, lang quran.Language) failure {
	var invalid *quran.InvalidSelectionError
	switch {
	case errors.As(err, &invalid) && errors.Is(err, quran.ErrMalformedNumber):
		return failure{http.StatusBadRequest, lang.T(quran.MsgInvalidLinkTitle), lang.T(quran.MsgInvalidLinkBody), false}
	case errors.As(err, &invalid), errors.Is(err, quran.ErrChapterNotFound):
		return failure{http.StatusBadRequest, lang.T(quran.MsgInvalidVerseTitle), lang.T(quran.MsgInvalidVerseBody), false}
	default:
		return failure{http.StatusBadGateway, lang.T(quran.MsgLoadFailed), "", true}
	}
}

func logFailure(msg string, f failure, err error, attrs ...any) {
	attrs = append(attrs, "status", f.Status, "error", err)
	if f.Status >= http.StatusInternalServerError {
		slog.Error(msg, attrs...)
		return
	}
	slog.Warn(msg, attrs...)
}

// builderRequest reads a selection and style from builder form values. An
// empty form is the default selection in the default style, in the
// visitor's language.
func builderRequest(q url.Values, acceptLanguage string) (quran.Selection, embedurl.Options, error) {
	if !q.Has("chapter") && !q.Has("verses") {
		return defaultSelection, embedurl.Options{
			Style:    quran.DefaultStyle(),
			Language: quran.NegotiateLanguage(acceptLanguage),
		}, nil
	}

	opts := embedurl.Decode(q)
	if !q.Has(embedurl.ParamLanguage) {
		opts.Language = quran.NegotiateLanguage(acceptLanguage)
	}
	sel, err := embedurl.ParseSelection(q.Get("chapter"), q.Get("verses"))
	return sel, opts, err
}

// builderQuery is the builder URL query for a selection and style.
func builderQuery(sel quran.Selection, opts embedurl.Options) string {
	return "chapter=" + strconv.Itoa(sel.Chapter) + "&verses=" + url.QueryEscape(sel.VerseRange()) + "&" + embedurl.Encode(opts.Style, opts.Language)
}

type builderFlag struct {
	Name  string
	Label string
	On    bool
}

func builderFlags(s quran.CardStyle) []builderFlag {
	return []builderFlag{
		{embedurl.ParamTranslation, "Translation", s.ShowTranslation},
		{embedurl.ParamReference, "Reference", s.ShowReference},
		{embedurl.ParamVerseNumbers, "Verse numbers", s.ShowVerseNumbers},
		{embedurl.ParamAccentLine, "Accent line", s.ShowAccentLine},
		{embedurl.ParamBrackets, "Ornate brackets", s.ShowBrackets},
		{embedurl.ParamContinuousLines, "Continuous lines", s.ContinuousLines},
		{embedurl.ParamTransparentBg, "Transparent background", s.TransparentBackground},
	}
}

// BuilderHandler serves the embed builder. Without a query it restores the
// visitor's last selection; ?random picks a random style and redirects to
// its shareable URL.
func (a *App) BuilderHandler(rw http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	session := a.builderSession(req)
	if !q.Has("chapter") && !q.Has("verses") {
		if saved, ok := savedBuilderQuery(session); ok {
			if q.Has("random") {
				saved.Set("random", "")
			}
			q = saved
		}
	}

	sel, opts, selErr := builderRequest(q, req.Header.Get("Accept-Language"))

	if q.Has("random") {
		if selErr != nil {
			sel = defaultSelection
		}
		opts.Style = quran.RandomStyle(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
		http.Redirect(rw, req, "/?"+builderQuery(sel, opts), http.StatusSeeOther)
		return
	}

	data := map[string]any{
		"Title":       "Builder",
		"Nav":         "builder",
		"MessageType": heightsync.MessageType,
		"Style":       opts.Style,
		"CardLang":    opts.Language,
		"Flags":       builderFlags(opts.Style),
		"Verses":      q.Get("verses"),
		"Error":       "",
		"Preview":     template.HTML(""),
		"IframeCode":  "",
		"MarkupCode":  "",
		"Query":       "",
	}

	status := http.StatusOK
	chapters, err := a.Content.Chapters(req.Context())
	if err != nil {
		f := describeFailure(err, quran.English)
		logFailure("failed to load chapters", f, err)
		status, data["Error"] = f.Status, f.Title
	}
	data["Chapters"] = chapters

	chapterNumber, _ := strconv.Atoi(q.Get("chapter"))
	if selErr != nil {
		f := describeFailure(selErr, quran.English)
		logFailure("invalid builder selection", f, selErr)
		status, data["Error"] = f.Status, f.Title+": "+f.Body
	} else {
		chapterNumber = sel.Chapter
		data["Verses"] = sel.VerseRange()
		if status == http.StatusOK {
			status = a.builderPreview(req.Context(), sel, opts, data)
		}
	}
	data["ChapterNumber"] = chapterNumber

	if status == http.StatusOK {
		a.saveBuilderQuery(rw, req, session, builderQuery(sel, opts))
	}

	rw.Header().Set("Content-Type", "text/html; charset=utf-8")
	rw.WriteHeader(status)
	err = a.RenderTemplate(rw, "index.html", "base", data)
	check(err)
}

// builderPreview fills data with the preview and both export formats.
func (a *App) builderPreview(ctx context.Context, sel quran.Selection, opts embedurl.Options, data map[string]any) int {
	passage, err := a.Content.Passage(ctx, sel, fetchqueue.TierInteractive)
	if err != nil {
		f := describeFailure(err, quran.English)
		logFailure("failed to load builder preview", f, err, "selection", sel.String())
		data["Error"] = f.Title
		if f.Body != "" {
			data["Error"] = f.Title + ": " + f.Body
		}
		return f.Status
	}

	snip, err := snippet.Generate(a.Config.BaseURL, passage.Selection, opts.Style, opts.Language)
	if err != nil {
		slog.Error("failed to generate snippet", "selection", passage.Selection.String(), "error", err)
		data["Error"] = "Failed to generate embed code"
		return http.StatusInternalServerError
	}
	frag := render.GenerateMarkup(passage.Verses, passage.Chapter, opts.Style, opts.Language)

	data["Selection"] = passage.Selection
	data["HasSelection"] = true
	data["Query"] = embedurl.Encode(opts.Style, opts.Language)
	data["Preview"] = template.HTML(snip.HTML)
	data["IframeCode"] = snip.HTML
	data["MarkupCode"] = frag.String()
	if passage.Selection != sel {
		data["Verses"] = passage.Selection.VerseRange()
	}
	return http.StatusOK
}

// EmbedHandler serves the document loaded inside the iframe.
func (a *App) EmbedHandler(rw http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)
	opts := embedurl.Decode(req.URL.Query())
	if raw := req.URL.Query().Get(embedurl.ParamEmbedID); raw != "" && opts.EmbedID == "" {
		slog.Warn("ignoring invalid embed id, height will not be reported", "embed_id", raw)
	}

	sel, err := embedurl.ParseSelection(vars["chapter"], vars["verses"])
	if err != nil {
		a.embedFailure(rw, req, opts, err)
		return
	}

	passage, err := a.Content.Passage(req.Context(), sel, fetchqueue.TierInteractive)
	if err != nil {
		if req.Context().Err() != nil {
			return
		}
		a.embedFailure(rw, req, opts, err)
		return
	}

	frag := render.GenerateMarkup(passage.Verses, passage.Chapter, opts.Style, opts.Language)
	title := render.FormatReference(passage.Chapter.NameLatin, passage.Chapter.NameNative,
		passage.Selection.Chapter, passage.Selection.From, passage.Selection.To, opts.Language.IsNative())

	var buf bytes.Buffer
	err = a.RenderTemplate(&buf, "embed.html", "embed", map[string]any{
		"Title":       title,
		"Lang":        opts.Language,
		"Markup":      template.HTML(frag.String()),
		"ChildScript": heightsync.ChildScript(opts.EmbedID),
	})
	if err != nil {
		slog.Error("failed to render embed", "selection", sel.String(), "error", err)
		http.Error(rw, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	etag := contentETag(buf.Bytes())
	setCacheConditional(rw, etag, time.Time{})
	if checkNotModified(rw, req, `W/"`+etag+`"`, time.Time{}) {
		return
	}
	rw.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err = buf.WriteTo(rw)
	check(err)
}

// MalformedEmbedHandler answers /embed/ links that do not have the
// /embed/{chapter}/{verses} shape with the invalid link panel.
func (a *App) MalformedEmbedHandler(rw http.ResponseWriter, req *http.Request) {
	opts := embedurl.Decode(req.URL.Query())
	err := &quran.InvalidSelectionError{
		Err: fmt.Errorf("%w: %q is not /embed/{chapter}/{verses}", quran.ErrMalformedNumber, req.URL.Path),
	}
	a.embedFailure(rw, req, opts, err)
}

func (a *App) embedFailure(rw http.ResponseWriter, req *http.Request, opts embedurl.Options, err error) {
	f := describeFailure(err, opts.Language)
	logFailure("embed failed", f, err, "path", req.URL.Path)

	data := map[string]any{
		"Title":       f.Title,
		"Lang":        opts.Language,
		"Status":      f.Status,
		"ErrorTitle":  f.Title,
		"ErrorBody":   f.Body,
		"ChildScript": heightsync.ChildScript(opts.EmbedID),
	}
	if f.Retry {
		data["RetryURL"] = req.URL.RequestURI()
	}

	rw.Header().Set("Cache-Control", "no-store")
	rw.Header().Set("Content-Type", "text/html; charset=utf-8")
	rw.WriteHeader(f.Status)
	err = a.RenderTemplate(rw, "embed_error.html", "embed", data)
	check(err)
}

// DocsHandler serves one embedded documentation page.
func (a *App) DocsHandler(slug string) http.HandlerFunc {
	return func(rw http.ResponseWriter, req *http.Request) {
		page := a.Docs.Get(slug)
		if page == nil {
			a.ErrorHandler(http.StatusNotFound, rw, req)
			return
		}

		setCacheStable(rw, a.started)
		if checkNotModified(rw, req, "", a.started) {
			return
		}

		err := a.RenderTemplate(rw, "docs.html", "base", map[string]any{
			"Title": page.Title,
			"Nav":   slug,
			"Page":  page,
		})
		check(err)
	}
}

func (a *App) ErrorHandler(responseCode int, rw http.ResponseWriter, req *http.Request, errs ...error) {
	message := ""
	if len(errs) > 0 {
		message = errors.Join(errs...).Error()
	}

	rw.Header().Set("Content-Type", "text/html; charset=utf-8")
	rw.WriteHeader(responseCode)
	err := a.RenderTemplate(rw, "error.html", "base", map[string]any{
		"Title":   http.StatusText(responseCode),
		"Status":  responseCode,
		"Message": message,
	})
	if err != nil {
		slog.Error("failed to render error page", "error", err)
	}
}
