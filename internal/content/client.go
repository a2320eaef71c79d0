// Package content is the client of the upstream verse-content provider.
//
// It owns authentication, payload decoding and validation. Everything it
// returns is already normalized to quran types; upstream shapes never leave
// the package.
package content

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/danielledeleo/ayatembed/quran"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Environments of the upstream provider.
const (
	EnvProduction = "production"
	EnvPrelive    = "prelive"
)

// Endpoints returns the API base and token URL of an environment. Anything
// but "production" selects prelive.
func Endpoints(env string) (apiBase, tokenURL string) {
	if strings.EqualFold(env, EnvProduction) {
		return "https://apis.quran.foundation/content/api/v4",
			"https://oauth2.quran.foundation/oauth2/token"
	}
	return "https://apis-prelive.quran.foundation/content/api/v4",
		"https://prelive-oauth2.quran.foundation/oauth2/token"
}

// TokenExpiryDelta renews tokens this long before they expire.
const TokenExpiryDelta = 60 * time.Second

// DefaultTranslationID is the preferred English translation resource.
const DefaultTranslationID = 20

// maxProxyBody bounds proxied response bodies.
const maxProxyBody = 8 << 20

var allowedPathPrefixes = []string{
	"chapters",
	"verses/by_key/",
	"verses/by_chapter/",
}

// ErrPathNotAllowed is returned by Proxy for paths outside the whitelist.
var ErrPathNotAllowed = errors.New("upstream path not allowed")

// IsPathAllowed reports whether a proxied path is on the whitelist.
func IsPathAllowed(path string) bool {
	if strings.Contains(path, "..") {
		return false
	}
	for _, prefix := range allowedPathPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// Config configures a Client.
type Config struct {
	APIBaseURL    string
	TokenURL      string
	ClientID      string
	ClientSecret  string
	TranslationID int
	Timeout       time.Duration
}

// Client fetches chapters and verses. It is safe for concurrent use.
type Client struct {
	base          string
	clientID      string
	translationID int
	http          *http.Client
	tokens        oauth2.TokenSource // nil when running without credentials
}

// NewClient creates a client. Without a client id and secret requests are
// sent unauthenticated, which is what local fakes expect.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	translationID := cfg.TranslationID
	if translationID <= 0 {
		translationID = DefaultTranslationID
	}
	httpClient := &http.Client{Timeout: timeout}

	c := &Client{
		base:          strings.TrimSuffix(cfg.APIBaseURL, "/"),
		clientID:      cfg.ClientID,
		translationID: translationID,
		http:          httpClient,
	}

	if cfg.ClientID != "" && cfg.ClientSecret != "" {
		cc := &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			Scopes:       []string{"content"},
			AuthStyle:    oauth2.AuthStyleInHeader,
		}
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
		c.tokens = oauth2.ReuseTokenSourceWithExpiry(nil, cc.TokenSource(ctx), TokenExpiryDelta)
	} else {
		slog.Warn("content client has no credentials, sending unauthenticated requests")
	}

	return c
}

// TranslationID returns the preferred translation resource id.
func (c *Client) TranslationID() int {
	return c.translationID
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (*http.Response, error) {
	u := c.base + "/" + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "building request for %s", path)
	}
	req.Header.Set("Accept", "application/json")

	if c.tokens != nil {
		tok, err := c.tokens.Token()
		if err != nil {
			return nil, errors.Wrap(err, "acquiring access token")
		}
		req.Header.Set("x-auth-token", tok.AccessToken)
		req.Header.Set("x-client-id", c.clientID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "requesting %s", path)
	}
	return resp, nil
}

func (c *Client) getJSON(ctx context.Context, resource, path string, query url.Values, v any) error {
	resp, err := c.get(ctx, path, query)
	if err != nil {
		return &quran.UpstreamFetchError{Resource: resource, Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Warn("failed to close upstream response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return &quran.UpstreamFetchError{
			Resource: resource,
			Status:   resp.StatusCode,
			Err:      fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return &quran.UpstreamFetchError{
			Resource: resource,
			Err:      fmt.Errorf("%w: %v", quran.ErrMalformedPayload, err),
		}
	}
	return nil
}

// Chapters lists every chapter in order. Any structurally invalid entry
// fails the whole list.
func (c *Client) Chapters(ctx context.Context) ([]*quran.Chapter, error) {
	var p chaptersPayload
	if err := c.getJSON(ctx, "chapters", "chapters", url.Values{"language": {"en"}}, &p); err != nil {
		return nil, err
	}

	if len(p.Chapters) == 0 {
		return nil, &quran.UpstreamFetchError{
			Resource: "chapters",
			Err:      fmt.Errorf("%w: empty chapter list", quran.ErrMalformedPayload),
		}
	}

	chapters := make([]*quran.Chapter, 0, len(p.Chapters))
	for _, raw := range p.Chapters {
		ch, err := mapChapter(raw)
		if err != nil {
			return nil, &quran.UpstreamFetchError{Resource: "chapters", Err: err}
		}
		chapters = append(chapters, ch)
	}
	return chapters, nil
}

// Verse fetches one verse with its words and preferred translation.
// Oversized text is reported as *quran.ValidationRejectError.
func (c *Client) Verse(ctx context.Context, key quran.VerseKey) (*quran.Verse, error) {
	query := url.Values{
		"words":        {"true"},
		"translations": {strconv.Itoa(c.translationID)},
		"fields":       {"text_uthmani,code_v2,page_number"},
		"word_fields":  {"code_v2,text_qpc_hafs,page_number"},
	}

	var p versePayload
	resource := "verse " + key.String()
	if err := c.getJSON(ctx, resource, "verses/by_key/"+key.String(), query, &p); err != nil {
		return nil, err
	}

	v, err := mapVerse(key, p.Verse, c.translationID)
	if err != nil {
		var reject *quran.ValidationRejectError
		if errors.As(err, &reject) {
			return nil, err
		}
		return nil, &quran.UpstreamFetchError{Resource: resource, Err: err}
	}
	return v, nil
}

// ProxyResponse is an upstream response relayed as-is.
type ProxyResponse struct {
	Status      int
	ContentType string
	Body        []byte
}

// Proxy relays a whitelisted GET to the upstream with credentials attached.
// Non-success statuses are returned, not turned into errors.
func (c *Client) Proxy(ctx context.Context, path string, query url.Values) (*ProxyResponse, error) {
	path = strings.TrimPrefix(path, "/")
	if !IsPathAllowed(path) {
		return nil, errors.Wrap(ErrPathNotAllowed, path)
	}

	resp, err := c.get(ctx, path, query)
	if err != nil {
		return nil, &quran.UpstreamFetchError{Resource: path, Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Warn("failed to close upstream response body", "error", err)
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxProxyBody))
	if err != nil {
		return nil, &quran.UpstreamFetchError{Resource: path, Status: resp.StatusCode, Err: errors.Wrap(err, "reading body")}
	}

	return &ProxyResponse{
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}
