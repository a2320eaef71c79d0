package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/danielledeleo/ayatembed/embedurl"
	"github.com/danielledeleo/ayatembed/internal/config"
	"github.com/danielledeleo/ayatembed/internal/content"
	"github.com/danielledeleo/ayatembed/internal/fetchqueue"
	"github.com/danielledeleo/ayatembed/internal/logger"
	"github.com/danielledeleo/ayatembed/quran"
	"github.com/danielledeleo/ayatembed/quran/service"
	"github.com/danielledeleo/ayatembed/render"
	"github.com/danielledeleo/ayatembed/snippet"
	"github.com/gosimple/slug"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
)

const (
	formatIframe = "iframe"
	formatHTML   = "html"
)

type snippetOptions struct {
	Chapter string
	Verses  string
	Format  string
	Query   string
	Lang    string
	BaseURL string
	Save    bool
	Dir     string
}

func snippetCommand() *cli.Command {
	return &cli.Command{
		Name:  "snippet",
		Usage: "Print embed code for a verse selection",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "Configuration file", Value: "config.yaml"},
			&cli.StringFlag{Name: "chapter", Usage: "Chapter number (1-114)", Required: true},
			&cli.StringFlag{Name: "verses", Usage: "Verse or range, e.g. 255 or 1-5", Required: true},
			&cli.StringFlag{Name: "format", Usage: "Output format: iframe or html", Value: formatIframe},
			&cli.StringFlag{Name: "query", Usage: "Style query string, e.g. color=10b981&theme=dark"},
			&cli.StringFlag{Name: "lang", Usage: "Card language: en or ar"},
			&cli.StringFlag{Name: "base-url", Usage: "Public base URL for iframe links (defaults to base_url from config)"},
			&cli.BoolFlag{Name: "save", Usage: "Write the output to a file instead of stdout"},
			&cli.StringFlag{Name: "dir", Usage: "Directory for --save", Value: "."},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			conf, _, err := config.Load(c.String("config"))
			if err != nil {
				return errors.Wrap(err, "failed to read config")
			}
			logger.InitLogger(logger.ParseLogFormat(conf.LogFormat), logger.ParseLogLevel(conf.LogLevel))

			opts := snippetOptions{
				Chapter: c.String("chapter"),
				Verses:  c.String("verses"),
				Format:  c.String("format"),
				Query:   c.String("query"),
				Lang:    c.String("lang"),
				BaseURL: c.String("base-url"),
				Save:    c.Bool("save"),
				Dir:     c.String("dir"),
			}
			if opts.BaseURL == "" {
				opts.BaseURL = conf.BaseURL
			}

			svc := newContentService(conf)
			defer func() {
				closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := svc.Close(closeCtx); err != nil {
					slog.Warn("failed to close content service", "error", err)
				}
			}()

			return runSnippet(ctx, svc, opts, c.Root().Writer)
		},
	}
}

// newContentService builds a content service without chapter persistence
// for one-shot commands.
func newContentService(conf *quran.Config) service.ContentService {
	client := content.NewClient(content.Config{
		APIBaseURL:    conf.APIBaseURL,
		TokenURL:      conf.TokenURL,
		ClientID:      conf.ClientID,
		ClientSecret:  conf.ClientSecret,
		TranslationID: conf.TranslationID,
		Timeout:       conf.FetchTimeout,
	})
	return service.NewContentService(client, nil, service.Options{
		Workers:      conf.FetchWorkers,
		VerseTTL:     conf.VerseCacheTTL,
		VerseEntries: conf.VerseCacheSize,
		ChapterTTL:   conf.ChapterCacheTTL,
	})
}

// snippetFilename names saved output after the selection, e.g.
// "ayah-2-1-3-iframe.html".
func snippetFilename(sel quran.Selection, format string) string {
	return slug.Make(fmt.Sprintf("ayah %s %s", sel, format)) + ".html"
}

func runSnippet(ctx context.Context, svc service.ContentService, opts snippetOptions, out io.Writer) error {
	if opts.Format != formatIframe && opts.Format != formatHTML {
		return errors.Errorf("unknown format %q: must be iframe or html", opts.Format)
	}

	card := embedurl.DecodeString(opts.Query)
	if opts.Lang != "" {
		card.Language = quran.ParseLanguage(opts.Lang)
	}

	sel, err := embedurl.ParseSelection(opts.Chapter, opts.Verses)
	if err != nil {
		return err
	}

	passage, err := svc.Passage(ctx, sel, fetchqueue.TierInteractive)
	if err != nil {
		return err
	}

	var code string
	switch opts.Format {
	case formatHTML:
		code = render.GenerateMarkup(passage.Verses, passage.Chapter, card.Style, card.Language).String()
	default:
		if opts.BaseURL == "" {
			return errors.New("a base URL is required for iframe snippets (set base_url or --base-url)")
		}
		snip, err := snippet.Generate(opts.BaseURL, passage.Selection, card.Style, card.Language)
		if err != nil {
			return errors.Wrap(err, "failed to generate snippet")
		}
		code = snip.HTML
	}

	if !opts.Save {
		_, err := fmt.Fprintln(out, code)
		return err
	}

	path := filepath.Join(opts.Dir, snippetFilename(passage.Selection, opts.Format))
	if err := os.WriteFile(path, []byte(code+"\n"), 0o644); err != nil {
		return errors.Wrap(err, "failed to save snippet")
	}
	_, err = fmt.Fprintf(out, "saved %s\n", path)
	return err
}
