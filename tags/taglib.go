package tags

import (
	"fmt"
	"os"

	"github.com/sentriz/audiotags"
)

// TagLib reads and writes tags with taglib.
type TagLib struct{}

func (TagLib) ReadTags(path string) (Tags, error)   { return ReadTags(path) }
func (TagLib) WriteTags(path string, t Tags) error { return WriteTags(path, t) }

func ReadTags(path string) (Tags, error) {
	// taglib only tells us whether it could open the file, so check access ourselves
	// first to get a useful error kind
	if err := checkAccess(path, os.O_RDONLY); err != nil {
		return Tags{}, newError("read", path, err)
	}

	f, err := audiotags.Open(path)
	if err != nil {
		return Tags{}, newError("read", path, fmt.Errorf("%w: %w", ErrInvalidFile, err))
	}
	defer f.Close()

	return fromRaw(f.ReadTags()), nil
}

// WriteTags replaces the tags of the file at path with t. Keys missing from t
// are removed from the file, so t should start from ReadTags.
func WriteTags(path string, t Tags) error {
	if err := checkAccess(path, os.O_WRONLY); err != nil {
		return newError("write", path, err)
	}

	f, err := audiotags.Open(path)
	if err != nil {
		return newError("write", path, fmt.Errorf("%w: %w", ErrInvalidFile, err))
	}
	defer f.Close()

	raw := make(map[string][]string, t.Len())
	for k, vs := range t.Iter() {
		raw[k] = vs
	}
	if !f.WriteTags(raw) {
		return newError("write", path, ErrWrite)
	}
	return nil
}

func checkAccess(path string, flag int) error {
	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return err
	}
	return f.Close()
}
