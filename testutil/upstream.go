package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/danielledeleo/ayatembed/quran"
)

// VerseCounts lists the verse count of every chapter.
var VerseCounts = [quran.ChapterCount]int{
	7, 286, 200, 176, 120, 165, 206, 75, 129, 109, 123, 111, 43, 52, 99, 128, 111, 110, 98, 135,
	112, 78, 118, 64, 77, 227, 93, 88, 69, 60, 34, 30, 73, 54, 45, 83, 182, 88, 75, 85,
	54, 53, 89, 59, 37, 35, 38, 29, 18, 45, 60, 49, 62, 55, 78, 96, 29, 22, 24, 13,
	14, 11, 11, 18, 12, 12, 30, 52, 52, 44, 28, 28, 20, 56, 40, 31, 50, 40, 46, 42,
	29, 19, 36, 25, 22, 17, 19, 26, 30, 20, 15, 21, 11, 8, 8, 19, 5, 8, 8, 11,
	11, 8, 3, 9, 5, 4, 7, 3, 6, 3, 5, 4, 5, 6,
}

var knownChapters = map[int][3]string{
	1:   {"Al-Fatihah", "الفاتحة", "The Opener"},
	2:   {"Al-Baqarah", "البقرة", "The Cow"},
	112: {"Al-Ikhlas", "الإخلاص", "The Sincerity"},
	114: {"An-Nas", "الناس", "Mankind"},
}

var medinan = map[int]bool{2: true, 3: true, 4: true, 5: true, 8: true, 9: true, 24: true, 33: true}

// FakeToken is the access token the fake token endpoint issues.
const FakeToken = "fake-access-token"

// FakeUpstream is an in-process stand-in for the content provider. Verses
// are synthesized: "c:v" has plain text "text c:v", one ligature word on
// page c and an end marker.
type FakeUpstream struct {
	*httptest.Server

	mu          sync.Mutex
	requests    []string
	tokenHits   int
	authHeaders []string
	failures    map[string]int
	bodies      map[string]string
	chapters    string
}

// NewFakeUpstream starts a fake provider that is closed with the test.
func NewFakeUpstream(t testing.TB) *FakeUpstream {
	t.Helper()
	f := &FakeUpstream{
		failures: make(map[string]int),
		bodies:   make(map[string]string),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/token", f.serveToken)
	mux.HandleFunc("/api/v4/chapters", f.serveChapters)
	mux.HandleFunc("/api/v4/verses/by_key/", f.serveVerse)
	mux.HandleFunc("/api/v4/verses/by_chapter/", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"verses":[]}`)
	})
	mux.HandleFunc("/api/v4/", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		http.Error(w, "not found", http.StatusNotFound)
	})

	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Close)
	return f
}

// APIBaseURL is the base URL to configure the content client with.
func (f *FakeUpstream) APIBaseURL() string { return f.URL + "/api/v4" }

// TokenURL is the fake OAuth2 token endpoint.
func (f *FakeUpstream) TokenURL() string { return f.URL + "/oauth2/token" }

// FailVerse makes requests for key answer with status.
func (f *FakeUpstream) FailVerse(key string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[key] = status
}

// SetVerseBody replaces the synthesized response body for key.
func (f *FakeUpstream) SetVerseBody(key, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bodies[key] = body
}

// SetChaptersBody replaces the synthesized chapter list.
func (f *FakeUpstream) SetChaptersBody(body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chapters = body
}

// Requests returns the API paths requested so far, in arrival order.
func (f *FakeUpstream) Requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

// VerseRequests returns the verse keys requested so far.
func (f *FakeUpstream) VerseRequests() []string {
	var keys []string
	for _, p := range f.Requests() {
		if k, ok := strings.CutPrefix(p, "/api/v4/verses/by_key/"); ok {
			keys = append(keys, k)
		}
	}
	return keys
}

// TokenRequests returns how many tokens were issued.
func (f *FakeUpstream) TokenRequests() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tokenHits
}

// AuthHeaders returns the x-auth-token header of every API request.
func (f *FakeUpstream) AuthHeaders() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.authHeaders...)
}

func (f *FakeUpstream) record(r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, r.URL.Path)
	f.authHeaders = append(f.authHeaders, r.Header.Get("x-auth-token"))
}

func (f *FakeUpstream) serveToken(w http.ResponseWriter, r *http.Request) {
	user, _, ok := r.BasicAuth()
	if !ok || user == "" || r.PostFormValue("grant_type") != "client_credentials" {
		http.Error(w, `{"error":"invalid_client"}`, http.StatusUnauthorized)
		return
	}
	f.mu.Lock()
	f.tokenHits++
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"access_token":%q,"token_type":"bearer","expires_in":3600,"scope":"content"}`, FakeToken)
}

// ChapterPayload synthesizes the upstream entry of chapter n.
func ChapterPayload(n int) map[string]any {
	names, ok := knownChapters[n]
	if !ok {
		names = [3]string{fmt.Sprintf("Surah %d", n), fmt.Sprintf("سورة %d", n), fmt.Sprintf("Chapter %d", n)}
	}
	place := "makkah"
	if medinan[n] {
		place = "madinah"
	}
	return map[string]any{
		"id":               n,
		"revelation_place": place,
		"name_simple":      names[0],
		"name_arabic":      names[1],
		"verses_count":     VerseCounts[n-1],
		"translated_name":  map[string]any{"language_name": "english", "name": names[2]},
	}
}

func (f *FakeUpstream) serveChapters(w http.ResponseWriter, r *http.Request) {
	f.record(r)
	f.mu.Lock()
	body := f.chapters
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if body != "" {
		fmt.Fprint(w, body)
		return
	}

	chapters := make([]map[string]any, 0, quran.ChapterCount)
	for n := 1; n <= quran.ChapterCount; n++ {
		chapters = append(chapters, ChapterPayload(n))
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"chapters": chapters})
}

// VersePayload synthesizes the upstream body of verse key.
func VersePayload(key quran.VerseKey) map[string]any {
	text := fmt.Sprintf("text %s", key)
	if key.Verse == 1 {
		text = quran.Basmala + " " + text
	}
	if key.Chapter == 1 && key.Verse == 1 {
		text = quran.Basmala
	}

	return map[string]any{
		"id":           key.Chapter*1000 + key.Verse,
		"verse_number": key.Verse,
		"verse_key":    key.String(),
		"page_number":  key.Chapter,
		"text_uthmani": text,
		"code_v2":      "&#xFB51;",
		"words": []map[string]any{
			{
				"id": 1, "position": 1, "page_number": key.Chapter,
				"code_v2": "&#xFB51;", "text_qpc_hafs": "كلمة", "char_type_name": "word",
				"translation": map[string]any{"text": "word", "language_name": "english"},
			},
			{
				"id": 2, "position": 2, "page_number": key.Chapter,
				"code_v2": "&#xFB52;", "text_qpc_hafs": strconv.Itoa(key.Verse), "char_type_name": "end",
			},
		},
		"translations": []map[string]any{
			{"id": 1, "resource_id": 20, "text": fmt.Sprintf("Translation %s<sup foot_note=\"1\">1</sup>", key)},
		},
	}
}

func (f *FakeUpstream) serveVerse(w http.ResponseWriter, r *http.Request) {
	f.record(r)
	raw := strings.TrimPrefix(r.URL.Path, "/api/v4/verses/by_key/")

	f.mu.Lock()
	status, failed := f.failures[raw]
	body, overridden := f.bodies[raw]
	f.mu.Unlock()

	if failed {
		http.Error(w, `{"error":"failure"}`, status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if overridden {
		fmt.Fprint(w, body)
		return
	}

	key, err := quran.ParseVerseKey(raw)
	if err != nil || key.Chapter < 1 || key.Chapter > quran.ChapterCount ||
		key.Verse < 1 || key.Verse > VerseCounts[key.Chapter-1] {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"verse": VersePayload(key)})
}
