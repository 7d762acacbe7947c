// Package notifications tells shoutrrr services how a run went.
package notifications

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"slices"

	"github.com/containrrr/shoutrrr"
	shoutrrrtypes "github.com/containrrr/shoutrrr/pkg/types"

	"go.senan.xyz/lyricfill"
)

var (
	ErrInvalidURI   = errors.New("invalid URI")
	ErrUnknownEvent = errors.New("unknown event")
)

type Event string

const (
	Complete           Event = "complete"
	CompleteWithErrors Event = "complete-with-errors"
)

func (e Event) IsValid() bool {
	switch e {
	case Complete, CompleteWithErrors:
		return true
	}
	return false
}

// Summary is what a finished run reports.
type Summary struct {
	Files  int
	Added  int
	Failed int

	// Err is set when a whole directory could not be processed.
	Err error
}

func (s Summary) Event() Event {
	if s.Err != nil || s.Failed > 0 {
		return CompleteWithErrors
	}
	return Complete
}

func (s Summary) Message() string {
	switch {
	case s.Err != nil:
		return fmt.Sprintf("lyrics run failed: %v", s.Err)
	case s.Failed > 0:
		return fmt.Sprintf("lyrics added to %d of %d files, %d failed", s.Added, s.Files, s.Failed)
	default:
		return fmt.Sprintf("lyrics added to %d of %d files", s.Added, s.Files)
	}
}

type mapping struct {
	event Event
	uri   string
}

type Notifications struct {
	mappings []mapping
}

func (n *Notifications) AddURI(event Event, uri string) error {
	if !event.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownEvent, event)
	}
	if u, err := url.Parse(uri); err != nil || u.Scheme == "" {
		return fmt.Errorf("%w: %q", ErrInvalidURI, uri)
	}
	n.mappings = append(n.mappings, mapping{event, uri})
	return nil
}

// IterMappings calls f for every event and URI pair, grouped by event.
func (n *Notifications) IterMappings(f func(Event, string)) {
	sorted := slices.SortedStableFunc(slices.Values(n.mappings), func(a, b mapping) int {
		return cmp.Compare(a.event, b.event)
	})
	for _, m := range sorted {
		f(m.event, m.uri)
	}
}

func (n *Notifications) uris(event Event) []string {
	var uris []string
	for _, m := range n.mappings {
		if m.event == event {
			uris = append(uris, m.uri)
		}
	}
	return uris
}

// SendSummary sends the summary of a run to the URIs of its event.
func (n *Notifications) SendSummary(ctx context.Context, s Summary) {
	n.Send(ctx, s.Event(), s.Message())
}

// Send delivers message to every URI registered for event. Failures are logged but
// never fail the run.
func (n *Notifications) Send(ctx context.Context, event Event, message string) {
	uris := n.uris(event)
	if len(uris) == 0 {
		return
	}

	sender, err := shoutrrr.CreateSender(uris...)
	if err != nil {
		slog.WarnContext(ctx, "create notification sender", "event", event, "err", err)
		return
	}

	params := &shoutrrrtypes.Params{}
	params.SetTitle(lyricfill.Name)

	if err := errors.Join(sender.Send(message, params)...); err != nil {
		slog.WarnContext(ctx, "sending notifications", "event", event, "err", err)
		return
	}
	slog.DebugContext(ctx, "sent notifications", "event", event, "count", len(uris))
}
