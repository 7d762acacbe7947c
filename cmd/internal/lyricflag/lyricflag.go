package lyricflag

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.senan.xyz/flagconf"

	"go.senan.xyz/lyricfill"
	"go.senan.xyz/lyricfill/clientutil"
	"go.senan.xyz/lyricfill/credential"
	"go.senan.xyz/lyricfill/lyrics"
	"go.senan.xyz/lyricfill/notifications"
)

func Parse() {
	userConfig, err := os.UserConfigDir()
	if err != nil {
		panic(err)
	}

	defaultConfigPath := filepath.Join(userConfig, lyricfill.Name, "config")
	configPath := flag.String("config-path", defaultConfigPath, "Path to config file")

	printVersion := flag.Bool("version", false, "Print the version and exit")
	printConfig := flag.Bool("config", false, "Print the parsed config and exit")

	flag.Parse()
	flagconf.ReadEnvPrefix = func(_ *flag.FlagSet) string { return lyricfill.Name }
	flagconf.ParseEnv()
	flagconf.ParseConfig(*configPath)

	if *printVersion {
		fmt.Printf("%s %s\n", flag.CommandLine.Name(), lyricfill.Version)
		os.Exit(0)
	}
	if *printConfig {
		flag.VisitAll(func(f *flag.Flag) {
			fmt.Printf("%-20s %s\n", f.Name, f.Value)
		})
		os.Exit(0)
	}
}

func Config() *lyricfill.Config {
	var cfg lyricfill.Config
	flag.IntVar(&cfg.Parallel, "parallel", 1, "Number of files to process at once")
	flag.BoolVar(&cfg.SkipExisting, "skip-existing", false, "Leave files which already have lyrics alone instead of replacing them")
	return &cfg
}

// HTTPClient returns the client for lyrics providers. Requests are logged and carry our
// user agent.
func HTTPClient() *http.Client {
	c := clientutil.Wrap(nil, clientutil.Chain(
		clientutil.WithLogging(slog.Default()),
		clientutil.WithUserAgent(fmt.Sprintf(`%s/%s`, lyricfill.Name, lyricfill.Version)),
	))
	flag.DurationVar(&c.Timeout, "http-timeout", 30*time.Second, "Timeout for each request to a lyrics provider")
	return c
}

type Lyrics struct {
	Sources            []string
	GeniusToken        string
	GeniusBaseURL      string
	CredentialAttempts int
}

func LyricsConfig() *Lyrics {
	var l Lyrics
	flag.Var(&sourcesParser{&l.Sources}, "lyrics-source", fmt.Sprintf("Lyrics source to search, one of %s. Defaults to genius (stackable)", strings.Join(lyrics.SourceNames, ", ")))
	flag.Var(&secretParser{&l.GeniusToken}, "genius-token", "Genius API access token. Asked for interactively if empty")
	flag.StringVar(&l.GeniusBaseURL, "genius-base-url", "https://api.genius.com", "Genius API base URL")
	flag.IntVar(&l.CredentialAttempts, "credential-attempts", credential.DefaultMaxAttempts, "Number of API tokens to try before giving up. 0 for no limit")
	return &l
}

func (l *Lyrics) sources() []string {
	if len(l.Sources) == 0 {
		return []string{"genius"}
	}
	return l.Sources
}

// NeedsToken reports whether any configured source needs an API token.
func (l *Lyrics) NeedsToken() bool {
	return slices.Contains(l.sources(), "genius")
}

func (l *Lyrics) Genius(token string, c *http.Client) *lyrics.Genius {
	return &lyrics.Genius{Token: token, BaseURL: l.GeniusBaseURL, HTTPClient: c}
}

// Source builds the configured sources, to be searched in order.
func (l *Lyrics) Source(token string, c *http.Client) (lyrics.Source, error) {
	var ms lyrics.MultiSource
	for _, name := range l.sources() {
		if name == "genius" {
			ms = append(ms, l.Genius(token, c))
			continue
		}
		src, err := lyrics.NewSource(name, token, c)
		if err != nil {
			return nil, err
		}
		ms = append(ms, src)
	}
	if len(ms) == 1 {
		return ms[0], nil
	}
	return ms, nil
}

func Notifications() *notifications.Notifications {
	var n notifications.Notifications
	flag.Var(&notificationsParser{&n}, "notification-uri", "Add a shoutrrr notification URI for an event, eg \"complete,complete-with-errors uri\" (stackable)")
	return &n
}

var _ flag.Value = (*sourcesParser)(nil)
var _ flag.Value = (*notificationsParser)(nil)
var _ flag.Value = (*secretParser)(nil)

type sourcesParser struct{ names *[]string }

func (s *sourcesParser) Set(value string) error {
	for _, name := range strings.Fields(value) {
		if !slices.Contains(lyrics.SourceNames, name) {
			return fmt.Errorf("unknown lyrics source %q", name)
		}
		if !slices.Contains(*s.names, name) {
			*s.names = append(*s.names, name)
		}
	}
	return nil
}
func (s sourcesParser) String() string {
	if s.names == nil {
		return ""
	}
	return strings.Join(*s.names, ", ")
}

type secretParser struct{ s *string }

func (s *secretParser) Set(value string) error {
	*s.s = value
	return nil
}
func (s secretParser) String() string {
	if s.s == nil || *s.s == "" {
		return ""
	}
	return "[redacted]"
}

type notificationsParser struct{ *notifications.Notifications }

func (n *notificationsParser) Set(value string) error {
	eventsRaw, uri, ok := strings.Cut(value, " ")
	if !ok {
		return fmt.Errorf("invalid notification uri format. expected eg \"ev1,ev2 uri\"")
	}
	var lineErrs []error
	for _, ev := range strings.Split(eventsRaw, ",") {
		ev, uri = strings.TrimSpace(ev), strings.TrimSpace(uri)
		err := n.AddURI(notifications.Event(ev), uri)
		lineErrs = append(lineErrs, err)
	}
	return errors.Join(lineErrs...)
}
func (n notificationsParser) String() string {
	if n.Notifications == nil {
		return ""
	}
	var parts []string
	n.Notifications.IterMappings(func(e notifications.Event, uri string) {
		url, _ := url.Parse(uri)
		parts = append(parts, fmt.Sprintf("%s: %s://%s/...", e, url.Scheme, url.Host))
	})
	return strings.Join(parts, ", ")
}
