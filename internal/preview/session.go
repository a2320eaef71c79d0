// Package preview drives the builder's live preview. Each change of
// selection or style starts a new generation; results of older generations
// are dropped so a slow fetch can never overwrite a newer selection.
package preview

import (
	"context"
	"log/slog"
	"sync"

	"github.com/danielledeleo/ayatembed/quran"
)

// Request is one preview of a selection in a style. Err, when set, is a
// failure to read the request; it is published in place of a preview so
// it still supersedes older generations.
type Request struct {
	Selection quran.Selection
	Style     quran.CardStyle
	Language  quran.Language
	Err       error
}

// Preview is what the builder shows for a request.
type Preview struct {
	Generation uint64 `json:"generation"`
	Selection  string `json:"selection"`
	Markup     string `json:"markup,omitempty"`
	Iframe     string `json:"iframe,omitempty"`
	Height     int    `json:"height,omitempty"`
	Error      string `json:"error,omitempty"`
}

// LoadFunc produces the preview for a request.
type LoadFunc func(ctx context.Context, req Request) (*Preview, error)

// PublishFunc receives previews of the current generation, in generation
// order. It is called with the session lock held and must not call back
// into the session.
type PublishFunc func(*Preview)

// Session tracks the current generation of one builder.
type Session struct {
	load    LoadFunc
	publish PublishFunc

	mu      sync.Mutex
	gen     uint64
	current Request
	cancel  context.CancelFunc
	closed  bool
	wg      sync.WaitGroup
}

// NewSession creates a session.
func NewSession(load LoadFunc, publish PublishFunc) *Session {
	return &Session{load: load, publish: publish}
}

// Select makes req current and starts loading it. Any load still running
// for an older generation is cancelled. It returns the new generation, or 0
// if the session is closed.
func (s *Session) Select(ctx context.Context, req Request) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0
	}
	if s.cancel != nil {
		s.cancel()
	}

	s.gen++
	gen := s.gen
	s.current = req
	loadCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.run(loadCtx, gen, req)
	return gen
}

func (s *Session) run(ctx context.Context, gen uint64, req Request) {
	defer s.wg.Done()

	p, err := s.load(ctx, req)
	if err != nil {
		p = &Preview{Selection: req.Selection.String(), Error: err.Error()}
	}
	p.Generation = gen

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || s.closed {
		slog.Debug("discarding stale preview", "generation", gen, "current", s.gen)
		return
	}
	s.publish(p)
}

// Current returns the current generation and its request.
func (s *Session) Current() (uint64, Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen, s.current
}

// Close cancels any running load and waits for it to finish. Nothing is
// published after Close returns.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()
	s.wg.Wait()
}
