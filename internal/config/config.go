package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/danielledeleo/ayatembed/internal/cache"
	"github.com/danielledeleo/ayatembed/internal/content"
	"github.com/danielledeleo/ayatembed/internal/fetchqueue"
	"github.com/danielledeleo/ayatembed/internal/logger"
	"github.com/danielledeleo/ayatembed/quran"
	"github.com/gorilla/securecookie"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const configFilename = "config.yaml"

func setDefaults(v *viper.Viper) {
	v.SetDefault("dbfile", "ayatembed.db")
	v.SetDefault("host", "0.0.0.0:8080")
	v.SetDefault("log_format", "pretty") // pretty, json, or text
	v.SetDefault("log_level", "info")    // debug, info, warn, error
	v.SetDefault("base_url", "http://localhost:8080")

	v.SetDefault("qf_env", content.EnvProduction)
	v.SetDefault("translation_id", content.DefaultTranslationID)
	v.SetDefault("fetch_workers", fetchqueue.DefaultWorkers)
	v.SetDefault("fetch_timeout", "10s")
	v.SetDefault("verse_cache_ttl", cache.DefaultVerseTTL.String())
	v.SetDefault("verse_cache_size", cache.DefaultVerseEntries)
	v.SetDefault("chapter_cache_ttl", cache.DefaultChapterTTL.String())
}

// newViper returns a viper instance reading path and the environment.
// Upstream credentials keep the provider's QF_ names; everything else can
// be overridden with AYATEMBED_<KEY>.
func newViper(path string) *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("ayatembed")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.BindEnv("client_id", "QF_CLIENT_ID", "AYATEMBED_CLIENT_ID")
	v.BindEnv("client_secret", "QF_CLIENT_SECRET", "AYATEMBED_CLIENT_SECRET")
	v.BindEnv("qf_env", "QF_ENV", "AYATEMBED_QF_ENV")
	v.BindEnv("api_base_url", "QF_API_BASE_URL", "AYATEMBED_API_BASE_URL")
	v.BindEnv("oauth_token_url", "QF_OAUTH_TOKEN_URL", "AYATEMBED_OAUTH_TOKEN_URL")

	v.SetConfigFile(path)
	return v
}

// Load reads the configuration at path. A missing file is not an error;
// the second return value reports whether the file existed.
func Load(path string) (*quran.Config, bool, error) {
	v := newViper(path)

	found := true
	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, false, err
		}
		found = false
	}

	env := v.GetString("qf_env")
	apiBase, tokenURL := content.Endpoints(env)
	if s := v.GetString("api_base_url"); s != "" {
		apiBase = s
	}
	if s := v.GetString("oauth_token_url"); s != "" {
		tokenURL = s
	}

	conf := &quran.Config{
		DatabaseFile: v.GetString("dbfile"),
		Host:         v.GetString("host"),
		BaseURL:      strings.TrimSuffix(v.GetString("base_url"), "/"),
		LogFormat:    v.GetString("log_format"),
		LogLevel:     v.GetString("log_level"),

		Environment:   env,
		APIBaseURL:    apiBase,
		TokenURL:      tokenURL,
		ClientID:      v.GetString("client_id"),
		ClientSecret:  v.GetString("client_secret"),
		TranslationID: v.GetInt("translation_id"),

		FetchWorkers:    v.GetInt("fetch_workers"),
		FetchTimeout:    v.GetDuration("fetch_timeout"),
		VerseCacheTTL:   v.GetDuration("verse_cache_ttl"),
		VerseCacheSize:  v.GetInt("verse_cache_size"),
		ChapterCacheTTL: v.GetDuration("chapter_cache_ttl"),
	}

	if secret := v.GetString("cookie_secret"); secret != "" {
		conf.CookieSecret = []byte(secret)
	}

	return conf, found, nil
}

// WriteDefaults writes conf to path. Secrets are never written.
func WriteDefaults(path string, conf *quran.Config) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	defer enc.Close()
	return enc.Encode(conf)
}

// SetupConfig loads config.yaml from the working directory, initializes
// the logger and writes a default file if none exists.
func SetupConfig() *quran.Config {
	conf, found, err := Load(configFilename)
	if err != nil {
		slog.Error("failed to read config", "error", err)
		os.Exit(1)
	}

	// Initialize logger with configured format and level
	logger.InitLogger(
		logger.ParseLogFormat(conf.LogFormat),
		logger.ParseLogLevel(conf.LogLevel),
	)

	if !found {
		slog.Info("config not found, writing defaults", "file", configFilename)
		if err := WriteDefaults(configFilename, conf); err != nil {
			slog.Error("failed to write config file", "error", err)
			os.Exit(1)
		}
	}

	if len(conf.CookieSecret) == 0 {
		slog.Warn("no cookie_secret configured, builder preferences reset on restart")
		conf.CookieSecret = securecookie.GenerateRandomKey(32)
	}

	return conf
}
