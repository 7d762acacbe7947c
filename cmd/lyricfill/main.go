package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.senan.xyz/lyricfill"
	"go.senan.xyz/lyricfill/cmd/internal/logging"
	"go.senan.xyz/lyricfill/cmd/internal/lyricflag"
	"go.senan.xyz/lyricfill/cmd/internal/report"
	"go.senan.xyz/lyricfill/credential"
	"go.senan.xyz/lyricfill/lyrics"
	"go.senan.xyz/lyricfill/notifications"
	"go.senan.xyz/lyricfill/prompt"
	"go.senan.xyz/lyricfill/tags"
)

func init() {
	flag := flag.CommandLine
	flag.Usage = func() {
		fmt.Fprintf(flag.Output(), "Usage:\n")
		fmt.Fprintf(flag.Output(), "  $ %s [<options>] [<dir>...]\n", flag.Name())
		fmt.Fprintf(flag.Output(), "\n")
		fmt.Fprintf(flag.Output(), "Adds lyrics to the flac and mp3 files directly inside each dir. Asks for a dir if none are given.\n")
		fmt.Fprintf(flag.Output(), "\n")
		fmt.Fprintf(flag.Output(), "Options:\n")
		flag.PrintDefaults()
	}
}

func main() {
	exit := logging.Logging()
	defer exit()

	var (
		cfg        = lyricflag.Config()
		lyricsConf = lyricflag.LyricsConfig()
		httpClient = lyricflag.HTTPClient()
		notifs     = lyricflag.Notifications()
		noColor    = flag.Bool("no-color", false, "Disable coloured output")
	)
	lyricflag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	in := prompt.NewReader(os.Stdin, os.Stdout)

	source, err := newSource(ctx, in, lyricsConf, httpClient)
	if err != nil {
		slog.ErrorContext(ctx, "setting up lyrics source", "err", err)
		return
	}

	dirs := flag.Args()
	if len(dirs) == 0 {
		dir, err := in.Prompt(ctx, "Please enter the directory path:")
		if err != nil {
			slog.ErrorContext(ctx, "reading directory path", "err", err)
			return
		}
		if dir == "" {
			slog.ErrorContext(ctx, "directory path is required")
			return
		}
		dirs = []string{dir}
	}

	printer := report.New(os.Stdout, *noColor)
	enricher := lyricfill.Enricher{
		Tags:   tags.TagLib{},
		Lyrics: source,
		Report: printer.Result,
	}

	start := time.Now()

	var results []lyricfill.Result
	var dirErrs []error
	for _, dir := range dirs {
		cfg := *cfg
		cfg.Dir = dir

		dirResults, err := enricher.Run(ctx, cfg)
		if err != nil {
			dirErrs = append(dirErrs, fmt.Errorf("%s: %w", dir, err))
			continue
		}
		results = append(results, dirResults...)
	}

	// a dir that can't be listed isn't an empty one
	if len(results) > 0 || len(dirErrs) == 0 {
		printer.Summary(results)
	}

	summary := notifications.Summary{
		Files:  len(results),
		Added:  lyricfill.Count(results, lyricfill.Added),
		Failed: lyricfill.Count(results, lyricfill.Failed),
		Err:    errors.Join(dirErrs...),
	}
	notifs.SendSummary(ctx, summary)

	slog := slog.With("took", time.Since(start), "files", summary.Files, "added", summary.Added, "errs", summary.Failed)
	switch {
	case summary.Err != nil:
		slog.ErrorContext(ctx, "run finished with errors", "err", summary.Err)
	case summary.Failed > 0:
		slog.WarnContext(ctx, "run finished with file errors")
	default:
		slog.InfoContext(ctx, "run finished")
	}
}

func newSource(ctx context.Context, p prompt.Prompter, conf *lyricflag.Lyrics, httpClient *http.Client) (lyrics.Source, error) {
	var token string
	if conf.NeedsToken() {
		acquirer := credential.Acquirer{
			Prompter:    p,
			MaxAttempts: conf.CredentialAttempts,
			Validate: func(ctx context.Context, token string) error {
				return lyrics.ValidateToken(ctx, conf.Genius(token, httpClient))
			},
		}
		var err error
		token, err = acquirer.Acquire(ctx, conf.GeniusToken)
		if err != nil {
			return nil, fmt.Errorf("acquire api token: %w", err)
		}
	}
	return conf.Source(token, httpClient)
}
