package lyrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/net/html"
)

var (
	ErrLyricsNotFound = errors.New("lyrics not found")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrNoTestResult   = errors.New("test search returned no lyrics")
)

type Source interface {
	Search(ctx context.Context, artist, song string) (string, error)
}

// MultiSource tries each source in order and returns the first lyrics found. An error
// other than ErrLyricsNotFound stops the search.
type MultiSource []Source

func (ms MultiSource) Search(ctx context.Context, artist, song string) (string, error) {
	for _, src := range ms {
		lyricData, err := src.Search(ctx, artist, song)
		if err != nil && !errors.Is(err, ErrLyricsNotFound) {
			return "", err
		}
		if lyricData != "" {
			return lyricData, nil
		}
	}
	return "", ErrLyricsNotFound
}

func (ms MultiSource) String() string {
	var names []string
	for _, src := range ms {
		names = append(names, fmt.Sprint(src))
	}
	return strings.Join(names, ", ")
}

var SourceNames = []string{"genius", "lrclib", "musixmatch"}

// NewSource returns the source called name. token is only used by sources which need
// one.
func NewSource(name string, token string, httpClient *http.Client) (Source, error) {
	switch name {
	case "genius":
		return &Genius{Token: token, HTTPClient: httpClient}, nil
	case "lrclib":
		return &LRCLib{HTTPClient: httpClient}, nil
	case "musixmatch":
		return &Musixmatch{HTTPClient: httpClient}, nil
	default:
		return nil, fmt.Errorf("unknown lyrics source %q", name)
	}
}

const (
	sentinelArtist = "test"
	sentinelSong   = "test"
)

// ValidateToken makes a real search with src to check that it accepts its credentials.
// The token is only good if the search comes back with lyrics.
func ValidateToken(ctx context.Context, src Source) error {
	lyricData, err := src.Search(ctx, sentinelArtist, sentinelSong)
	switch {
	case errors.Is(err, ErrLyricsNotFound):
		return ErrNoTestResult
	case err != nil:
		return err
	case strings.TrimSpace(lyricData) == "":
		return ErrNoTestResult
	}
	return nil
}

func clientOrDefault(c *http.Client) *http.Client {
	if c == nil {
		return http.DefaultClient
	}
	return c
}

func iterText(n *html.Node, f func(string)) {
	if n == nil {
		return
	}
	if n.Type == html.TextNode {
		f(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		iterText(c, f)
	}
}
