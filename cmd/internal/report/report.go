package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"go.senan.xyz/table/table"

	"go.senan.xyz/lyricfill"
	"go.senan.xyz/lyricfill/tags"
)

// Printer writes one human readable line per file, and a summary at the end.
type Printer struct {
	out io.Writer

	ok, skip, fail *color.Color
}

func New(out io.Writer, noColor bool) *Printer {
	p := &Printer{
		out:  out,
		ok:   color.New(color.FgGreen),
		skip: color.New(color.FgYellow),
		fail: color.New(color.FgRed),
	}
	if noColor {
		p.ok.DisableColor()
		p.skip.DisableColor()
		p.fail.DisableColor()
	}
	return p
}

func (p *Printer) Result(r lyricfill.Result) {
	name := r.File.Name()
	switch r.Outcome {
	case lyricfill.Added:
		p.ok.Fprintf(p.out, "lyrics added to %s\n", name)
	case lyricfill.SkippedMissingMetadata:
		p.skip.Fprintf(p.out, "skipping %s: missing title or artist\n", name)
	case lyricfill.SkippedHasLyrics:
		p.skip.Fprintf(p.out, "skipping %s: already has lyrics\n", name)
	case lyricfill.SkippedNotFound:
		p.skip.Fprintf(p.out, "no lyrics found for %s\n", name)
	case lyricfill.Failed:
		p.fail.Fprintf(p.out, "error %s %s: %s\n", stageVerb(r.Stage), name, errMessage(r.Err))
	}
}

func (p *Printer) Summary(results []lyricfill.Result) {
	if len(results) == 0 {
		fmt.Fprintln(p.out, "no audio files found")
		return
	}

	t := table.NewStringWriter()
	for _, o := range []lyricfill.Outcome{
		lyricfill.Added,
		lyricfill.SkippedNotFound,
		lyricfill.SkippedMissingMetadata,
		lyricfill.SkippedHasLyrics,
		lyricfill.Failed,
	} {
		if n := lyricfill.Count(results, o); n > 0 {
			fmt.Fprintf(t, "%s\t%d\n", o, n)
		}
	}
	fmt.Fprintf(t, "total\t%d\n", len(results))
	fmt.Fprint(p.out, t.String())
}

func stageVerb(s lyricfill.Stage) string {
	switch s {
	case lyricfill.StageRead:
		return "reading"
	case lyricfill.StageLookup:
		return "looking up lyrics for"
	case lyricfill.StageWrite:
		return "writing lyrics to"
	default:
		return "processing"
	}
}

func errMessage(err error) string {
	if err == nil {
		return "unknown error"
	}
	switch tags.KindOf(err) {
	case tags.KindPermission:
		return "permission denied, please check file permissions"
	case tags.KindMalformed:
		return "file is not a readable flac or mp3"
	}
	return strings.TrimSpace(err.Error())
}
