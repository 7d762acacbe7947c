package lyrics

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/rainycape/unidecode"
	"golang.org/x/net/html"
)

var geniusBaseURL = `https://api.genius.com`
var geniusSelectContent = cascadia.MustCompile(`div[class^="Lyrics__Container-"]`)

// Genius searches the Genius API with an access token, then reads the lyrics from the
// matching song page.
type Genius struct {
	Token   string
	BaseURL string

	HTTPClient *http.Client
}

func (g *Genius) Search(ctx context.Context, artist, song string) (string, error) {
	pageURL, err := g.searchSong(ctx, artist, song)
	if err != nil {
		return "", err
	}

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	resp, err := clientOrDefault(g.HTTPClient).Do(req)
	if err != nil {
		return "", fmt.Errorf("req page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return "", ErrLyricsNotFound
	}

	node, err := html.Parse(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse page: %w", err)
	}

	var out strings.Builder
	for _, n := range cascadia.QueryAll(node, geniusSelectContent) {
		iterText(n, func(s string) {
			out.WriteString(s + "\n")
		})
	}
	if strings.TrimSpace(out.String()) == "" {
		return "", ErrLyricsNotFound
	}
	return out.String(), nil
}

func (g *Genius) String() string {
	return "genius"
}

type geniusSearchResponse struct {
	Response struct {
		Hits []geniusHit `json:"hits"`
	} `json:"response"`
}

type geniusHit struct {
	Type   string `json:"type"`
	Result struct {
		Title         string `json:"title"`
		URL           string `json:"url"`
		PrimaryArtist struct {
			Name string `json:"name"`
		} `json:"primary_artist"`
	} `json:"result"`
}

func (g *Genius) searchSong(ctx context.Context, artist, song string) (string, error) {
	baseURL := g.BaseURL
	if baseURL == "" {
		baseURL = geniusBaseURL
	}

	url, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	url = url.JoinPath("search")
	query := url.Query()
	query.Set("q", geniusQuery(artist, song))
	url.RawQuery = query.Encode()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url.String(), nil)
	req.Header.Set("Authorization", "Bearer "+g.Token)
	resp, err := clientOrDefault(g.HTTPClient).Do(req)
	if err != nil {
		return "", fmt.Errorf("req search: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return "", fmt.Errorf("search: %w", ErrUnauthorized)
	case resp.StatusCode/100 != 2:
		return "", fmt.Errorf("search: unexpected status %d", resp.StatusCode)
	}

	var sr geniusSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return "", fmt.Errorf("decode search: %w", err)
	}

	hit, ok := pickHit(sr.Response.Hits, artist)
	if !ok {
		return "", ErrLyricsNotFound
	}
	return hit.Result.URL, nil
}

// pickHit prefers a song hit whose primary artist matches artist, falling back to the
// first song hit.
func pickHit(hits []geniusHit, artist string) (geniusHit, bool) {
	var first *geniusHit
	want := normName(artist)
	for i, hit := range hits {
		if hit.Type != "song" || hit.Result.URL == "" {
			continue
		}
		if first == nil {
			first = &hits[i]
		}
		got := normName(hit.Result.PrimaryArtist.Name)
		if got != "" && want != "" && (strings.Contains(got, want) || strings.Contains(want, got)) {
			return hit, true
		}
	}
	if first == nil {
		return geniusHit{}, false
	}
	return *first, true
}

var (
	queryParens   = regexp.MustCompile(`\s*\([^)]*\)\s*`)
	queryBrackets = regexp.MustCompile(`\s*\[[^\]]*\]`)
	queryFeat     = regexp.MustCompile(`\b(?:feat|ft)\.`)
)

// genius search works best without featured artists or version notes
func geniusQuery(artist, song string) string {
	q := strings.ToLower(song + " " + artist)
	q = queryParens.ReplaceAllString(q, " ")
	q = queryBrackets.ReplaceAllString(q, "")
	q = queryFeat.ReplaceAllString(q, "")
	return strings.Join(strings.Fields(q), " ")
}

func normName(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(unidecode.Unidecode(s))), " ")
}
