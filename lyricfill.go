// Package lyricfill fetches lyrics for the audio files in a directory and writes them
// into each file's tags.
package lyricfill

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sergi/go-diff/diffmatchpatch"
	"golang.org/x/sync/errgroup"

	"go.senan.xyz/lyricfill/fileutil"
	"go.senan.xyz/lyricfill/lyrics"
	"go.senan.xyz/lyricfill/tags"
)

type Outcome uint8

const (
	Added Outcome = iota
	SkippedMissingMetadata
	SkippedNotFound
	SkippedHasLyrics
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Added:
		return "added"
	case SkippedMissingMetadata:
		return "missing metadata"
	case SkippedNotFound:
		return "not found"
	case SkippedHasLyrics:
		return "has lyrics"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", o)
	}
}

type Stage string

const (
	StageRead   Stage = "read"
	StageLookup Stage = "lookup"
	StageWrite  Stage = "write"
)

type Result struct {
	File    fileutil.AudioFile
	Outcome Outcome

	// set when Outcome is Failed
	Stage Stage
	Err   error

	LyricsBytes int
}

type TagReadWriter interface {
	ReadTags(path string) (tags.Tags, error)
	WriteTags(path string, t tags.Tags) error
}

// Config is fixed for the whole run.
type Config struct {
	Dir string

	// Parallel is the number of files processed at once. Anything below 2 processes
	// files one by one in directory order.
	Parallel int

	// SkipExisting leaves files that already have lyrics alone. Otherwise lyrics are
	// replaced.
	SkipExisting bool
}

type Enricher struct {
	Tags   TagReadWriter
	Lyrics lyrics.Source

	// Report is called once per file as soon as its result is known. Calls are
	// serialised.
	Report func(Result)
}

// Run processes every audio file in cfg.Dir. A failure with one file never stops the
// others, so the only error returned is for the directory itself. Results are in
// directory order.
func (e *Enricher) Run(ctx context.Context, cfg Config) ([]Result, error) {
	files, err := fileutil.ListAudio(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("list audio files: %w", err)
	}

	var reportMu sync.Mutex
	process := func(file fileutil.AudioFile) Result {
		res := e.ProcessFile(ctx, cfg, file)
		if e.Report != nil {
			reportMu.Lock()
			e.Report(res)
			reportMu.Unlock()
		}
		return res
	}

	results := make([]Result, len(files))
	if cfg.Parallel < 2 {
		for i, file := range files {
			results[i] = process(file)
		}
		return results, nil
	}

	var g errgroup.Group
	g.SetLimit(cfg.Parallel)
	for i, file := range files {
		g.Go(func() error {
			results[i] = process(file)
			return nil
		})
	}
	_ = g.Wait()

	return results, nil
}

// ProcessFile reads the tags of file, looks up lyrics for its title and artist, and
// writes them back.
func (e *Enricher) ProcessFile(ctx context.Context, cfg Config, file fileutil.AudioFile) Result {
	res := Result{File: file}
	fail := func(stage Stage, err error) Result {
		res.Outcome, res.Stage, res.Err = Failed, stage, err
		return res
	}

	if err := ctx.Err(); err != nil {
		return fail(StageRead, err)
	}

	t, err := e.Tags.ReadTags(file.Path)
	if err != nil {
		return fail(StageRead, err)
	}

	title := strings.TrimSpace(t.Get(tags.Title))
	artist := strings.TrimSpace(t.Get(tags.Artist))
	if title == "" || artist == "" {
		res.Outcome = SkippedMissingMetadata
		return res
	}

	existing := t.Get(tags.Lyrics)
	if cfg.SkipExisting && strings.TrimSpace(existing) != "" {
		res.Outcome = SkippedHasLyrics
		return res
	}

	lyricData, err := e.Lyrics.Search(ctx, artist, title)
	if errors.Is(err, lyrics.ErrLyricsNotFound) || (err == nil && strings.TrimSpace(lyricData) == "") {
		res.Outcome = SkippedNotFound
		return res
	}
	if err != nil {
		return fail(StageLookup, err)
	}

	if existing != "" {
		logLyricsChange(ctx, file.Path, existing, lyricData)
	}

	t.Set(tags.Lyrics, lyricData)
	if err := e.Tags.WriteTags(file.Path, t); err != nil {
		return fail(StageWrite, err)
	}

	res.Outcome = Added
	res.LyricsBytes = len(lyricData)
	return res
}

// Count returns the number of results with outcome o.
func Count(results []Result, o Outcome) int {
	var n int
	for _, r := range results {
		if r.Outcome == o {
			n++
		}
	}
	return n
}

var dmp = diffmatchpatch.New()

func logLyricsChange(ctx context.Context, path string, before, after string) {
	if !slog.Default().Enabled(ctx, slog.LevelDebug) {
		return
	}
	distance, patch := lyricsDiff(before, after)
	slog.DebugContext(ctx, "replacing lyrics", "file", filepath.Base(path), "distance", distance, "diff", patch)
}

// lyricsDiff returns the edit distance from before to after and a patch between them.
func lyricsDiff(before, after string) (int, string) {
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(before, after, false))
	patch := dmp.PatchToText(dmp.PatchMake(before, diffs))
	return dmp.DiffLevenshtein(diffs), patch
}
