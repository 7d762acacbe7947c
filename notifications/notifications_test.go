package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.senan.xyz/lyricfill/notifications"
)

func TestAddURI(t *testing.T) {
	t.Parallel()

	var n notifications.Notifications
	require.NoError(t, n.AddURI(notifications.CompleteWithErrors, "generic://example.com/errors"))
	require.NoError(t, n.AddURI(notifications.Complete, "generic://example.com/hook"))
	require.ErrorIs(t, n.AddURI("sync-complete", "generic://example.com/hook"), notifications.ErrUnknownEvent)
	require.ErrorIs(t, n.AddURI(notifications.Complete, "no scheme"), notifications.ErrInvalidURI)

	var events []notifications.Event
	var uris []string
	n.IterMappings(func(e notifications.Event, uri string) {
		events = append(events, e)
		uris = append(uris, uri)
	})
	assert.Equal(t, []notifications.Event{notifications.Complete, notifications.CompleteWithErrors}, events)
	assert.Equal(t, []string{"generic://example.com/hook", "generic://example.com/errors"}, uris)
}

func TestSummary(t *testing.T) {
	t.Parallel()

	ok := notifications.Summary{Files: 3, Added: 1}
	assert.Equal(t, notifications.Complete, ok.Event())
	assert.Equal(t, "lyrics added to 1 of 3 files", ok.Message())

	failed := notifications.Summary{Files: 3, Added: 1, Failed: 2}
	assert.Equal(t, notifications.CompleteWithErrors, failed.Event())
	assert.Equal(t, "lyrics added to 1 of 3 files, 2 failed", failed.Message())

	broken := notifications.Summary{Err: errors.New("music: list audio files: no such dir")}
	assert.Equal(t, notifications.CompleteWithErrors, broken.Event())
	assert.Equal(t, "lyrics run failed: music: list audio files: no such dir", broken.Message())
}

func TestSendSummary(t *testing.T) {
	t.Parallel()

	bodies := make(chan string, 2)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		bodies <- r.URL.Path + " " + string(b)
	}))
	t.Cleanup(srv.Close)

	host := strings.TrimPrefix(srv.URL, "http://")

	var n notifications.Notifications
	require.NoError(t, n.AddURI(notifications.Complete, "generic://"+host+"/complete?disabletls=yes"))
	require.NoError(t, n.AddURI(notifications.CompleteWithErrors, "generic://"+host+"/errors?disabletls=yes"))

	n.SendSummary(context.Background(), notifications.Summary{Files: 2, Added: 1, Failed: 1})

	require.Len(t, bodies, 1)
	got := <-bodies
	assert.True(t, strings.HasPrefix(got, "/errors "), got)
	assert.Contains(t, got, "lyrics added to 1 of 2 files, 1 failed")
}

func TestSendWithoutMappings(t *testing.T) {
	t.Parallel()

	var n notifications.Notifications
	n.Send(context.Background(), notifications.Complete, "3 files")
}
