package lyrics

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

var lrclibBaseURL = `https://lrclib.net`

type LRCLib struct {
	BaseURL string

	HTTPClient *http.Client
}

type lrclibTrack struct {
	TrackName    string `json:"trackName"`
	ArtistName   string `json:"artistName"`
	Instrumental bool   `json:"instrumental"`
	PlainLyrics  string `json:"plainLyrics"`
}

func (l *LRCLib) Search(ctx context.Context, artist, song string) (string, error) {
	baseURL := l.BaseURL
	if baseURL == "" {
		baseURL = lrclibBaseURL
	}

	url, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	url = url.JoinPath("api", "search")
	query := url.Query()
	query.Set("track_name", song)
	query.Set("artist_name", artist)
	url.RawQuery = query.Encode()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url.String(), nil)
	resp, err := clientOrDefault(l.HTTPClient).Do(req)
	if err != nil {
		return "", fmt.Errorf("req search: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", ErrLyricsNotFound
	case resp.StatusCode/100 != 2:
		return "", fmt.Errorf("search: unexpected status %d", resp.StatusCode)
	}

	var tracks []lrclibTrack
	if err := json.NewDecoder(resp.Body).Decode(&tracks); err != nil {
		return "", fmt.Errorf("decode search: %w", err)
	}
	for _, t := range tracks {
		if t.Instrumental || strings.TrimSpace(t.PlainLyrics) == "" {
			continue
		}
		return t.PlainLyrics, nil
	}
	return "", ErrLyricsNotFound
}

func (l *LRCLib) String() string {
	return "lrclib"
}
