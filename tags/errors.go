package tags

import (
	"errors"
	"fmt"
	"io/fs"
)

var (
	ErrInvalidFile = errors.New("invalid or unsupported audio file")
	ErrWrite       = errors.New("error writing tags")
)

// Kind classifies a tag I/O failure so callers don't need to inspect messages.
type Kind uint8

const (
	KindOther Kind = iota
	KindNotFound
	KindPermission
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindPermission:
		return "permission denied"
	case KindMalformed:
		return "malformed"
	default:
		return "other"
	}
}

type Error struct {
	Op   string
	Path string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(op, path string, err error) *Error {
	return &Error{Op: op, Path: path, Kind: kindFromErr(err), Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain. Plain filesystem errors
// are classified too.
func KindOf(err error) Kind {
	if err == nil {
		return KindOther
	}
	if te := (*Error)(nil); errors.As(err, &te) {
		return te.Kind
	}
	return kindFromErr(err)
}

func kindFromErr(err error) Kind {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return KindNotFound
	case errors.Is(err, fs.ErrPermission):
		return KindPermission
	case errors.Is(err, ErrInvalidFile):
		return KindMalformed
	default:
		return KindOther
	}
}
