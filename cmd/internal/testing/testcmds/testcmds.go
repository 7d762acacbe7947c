package testcmds

import (
	"io"
	"net/http"
	"strings"

	"go.senan.xyz/lyricfill/clientutil"
)

const (
	// GoodToken finds lyrics for every search.
	GoodToken = "good-token"
	// EmptyToken is accepted by the API but its searches never have hits.
	EmptyToken = "empty-token"
)

const songPage = `<html><body><div class="Lyrics__Container-sc-1">La la la</div></body></html>`

// RegisterTransport replaces the default transport with one that fakes the Genius and
// LRCLib APIs.
func RegisterTransport() {
	http.DefaultTransport = clientutil.RoundTripFunc(func(r *http.Request) (*http.Response, error) {
		switch {
		case r.URL.Host == "api.genius.com" && r.URL.Path == "/search":
			switch r.Header.Get("Authorization") {
			case "Bearer " + GoodToken:
				return respond(r, http.StatusOK, "application/json", `{"response":{"hits":[
					{"type":"song","result":{"url":"https://genius.com/songs/test","primary_artist":{"name":"Test"}}}
				]}}`), nil
			case "Bearer " + EmptyToken:
				return respond(r, http.StatusOK, "application/json", `{"response":{"hits":[]}}`), nil
			default:
				return respond(r, http.StatusUnauthorized, "application/json", `{"error":"invalid_token"}`), nil
			}
		case r.URL.Host == "genius.com" && r.URL.Path == "/songs/test":
			return respond(r, http.StatusOK, "text/html", songPage), nil
		case r.URL.Host == "lrclib.net" && r.URL.Path == "/api/search":
			return respond(r, http.StatusOK, "application/json", `[]`), nil
		default:
			return respond(r, http.StatusNotFound, "text/plain", ""), nil
		}
	})
}

func respond(r *http.Request, status int, contentType string, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Header:     http.Header{"Content-Type": {contentType}},
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    r,
	}
}
