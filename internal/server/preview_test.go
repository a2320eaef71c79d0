package server

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielledeleo/ayatembed/internal/preview"
	"github.com/gorilla/websocket"
)

func dialPreview(t *testing.T, app *App) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(app.Handler())
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/preview/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readPreview(t *testing.T, conn *websocket.Conn) preview.Preview {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var p preview.Preview
	if err := conn.ReadJSON(&p); err != nil {
		t.Fatalf("failed to read preview: %v", err)
	}
	return p
}

func TestPreviewSocket(t *testing.T) {
	app, _ := setupTestApp(t)
	conn := dialPreview(t, app)

	if err := conn.WriteJSON(previewMessage{Query: "chapter=2&verses=1-2&color=10b981&verseNumbers=true"}); err != nil {
		t.Fatalf("failed to send: %v", err)
	}
	p := readPreview(t, conn)

	if p.Generation != 1 || p.Error != "" {
		t.Fatalf("unexpected preview %+v", p)
	}
	if p.Selection != "2:1-2" {
		t.Errorf("expected selection 2:1-2, got %q", p.Selection)
	}
	if !strings.Contains(p.Markup, "Translation 2:1") || !strings.Contains(p.Markup, "10b981") {
		t.Error("expected styled markup for the selection")
	}
	if !strings.Contains(p.Iframe, "/embed/2/1-2?color=10b981") {
		t.Errorf("unexpected iframe %q", p.Iframe)
	}
}

func TestPreviewSocket_InvalidInput(t *testing.T) {
	app, _ := setupTestApp(t)
	conn := dialPreview(t, app)

	if err := conn.WriteJSON(previewMessage{Query: "chapter=2&verses=abc"}); err != nil {
		t.Fatalf("failed to send: %v", err)
	}
	p := readPreview(t, conn)
	if !strings.HasPrefix(p.Error, "Invalid embed link") {
		t.Errorf("expected an invalid link error, got %+v", p)
	}

	if err := conn.WriteJSON(previewMessage{Query: "chapter=112&verses=9"}); err != nil {
		t.Fatalf("failed to send: %v", err)
	}
	p = readPreview(t, conn)
	if p.Generation != 2 || !strings.HasPrefix(p.Error, "Invalid Verse") {
		t.Errorf("expected an invalid verse error for generation 2, got %+v", p)
	}
}

func TestPreviewSocket_RejectsForeignOrigin(t *testing.T) {
	app, _ := setupTestApp(t)

	srv := httptest.NewServer(app.Handler())
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/preview/ws"
	header := map[string][]string{"Origin": {"https://evil.example"}}
	if _, _, err := websocket.DefaultDialer.Dial(wsURL, header); err == nil {
		t.Error("expected cross-origin upgrade to be refused")
	}
}
