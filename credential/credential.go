// Package credential obtains an API token from the operator and checks it before a
// run starts.
package credential

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go.senan.xyz/lyricfill/lyrics"
	"go.senan.xyz/lyricfill/prompt"
)

var ErrTooManyAttempts = errors.New("too many attempts")

const DefaultMaxAttempts = 5

const question = "Please enter your Genius API token:"

// Validator returns nil if token can be used.
type Validator func(ctx context.Context, token string) error

type Acquirer struct {
	Prompter prompt.Prompter
	Validate Validator

	// MaxAttempts bounds the number of tokens validated. Empty answers don't count. 0
	// means no limit.
	MaxAttempts int
}

// Acquire returns the first valid token, starting with preset if it isn't empty and
// then asking the operator.
func (a *Acquirer) Acquire(ctx context.Context, preset string) (string, error) {
	var attempts int
	candidate := strings.TrimSpace(preset)
	for {
		if candidate == "" {
			answer, err := a.Prompter.Prompt(ctx, question)
			if err != nil {
				return "", fmt.Errorf("prompt: %w", err)
			}
			if candidate = strings.TrimSpace(answer); candidate == "" {
				slog.WarnContext(ctx, "an api token is required")
				continue
			}
		}

		attempts++
		err := a.Validate(ctx, candidate)
		if err == nil {
			return candidate, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}

		switch {
		case errors.Is(err, lyrics.ErrUnauthorized):
			slog.WarnContext(ctx, "invalid api token, please try again", "attempt", attempts)
		case errors.Is(err, lyrics.ErrNoTestResult):
			slog.WarnContext(ctx, "invalid api token, test search found no lyrics, please try again", "attempt", attempts)
		default:
			slog.WarnContext(ctx, "validating api token", "attempt", attempts, "err", err)
		}
		if a.MaxAttempts > 0 && attempts >= a.MaxAttempts {
			return "", fmt.Errorf("%w: %d", ErrTooManyAttempts, attempts)
		}
		candidate = ""
	}
}
