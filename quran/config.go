package quran

import "time"

// Config holds the file- and environment-based configuration.
type Config struct {
	DatabaseFile string `yaml:"dbfile"`
	Host         string `yaml:"host"`
	BaseURL      string `yaml:"base_url"`
	LogFormat    string `yaml:"log_format"`
	LogLevel     string `yaml:"log_level"`

	// Upstream content provider
	Environment   string `yaml:"qf_env"`
	APIBaseURL    string `yaml:"api_base_url"`
	TokenURL      string `yaml:"oauth_token_url"`
	ClientID      string `yaml:"client_id,omitempty"`
	ClientSecret  string `yaml:"-"`
	TranslationID int    `yaml:"translation_id"`

	FetchWorkers    int           `yaml:"fetch_workers"`
	FetchTimeout    time.Duration `yaml:"fetch_timeout"`
	VerseCacheTTL   time.Duration `yaml:"verse_cache_ttl"`
	VerseCacheSize  int           `yaml:"verse_cache_size"`
	ChapterCacheTTL time.Duration `yaml:"chapter_cache_ttl"`

	CookieSecret []byte `yaml:"-"`
}
