package tags

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalise(t *testing.T) {
	t.Parallel()

	got := NewTags(
		"title", "Wings",
		"trackc", "14",
		"year", "1967",
		"unsyncedlyrics", "la la",
	)

	exp := map[string][]string{
		"TITLE":       {"Wings"},
		"TRACKNUMBER": {"14"},
		"DATE":        {"1967"},
		"LYRICS":      {"la la"},
	}

	require.Equal(t, exp, maps.Collect(got.Iter()))
}

func TestRawKeysKept(t *testing.T) {
	t.Parallel()

	raw := map[string][]string{
		"LYRICS":           {"canonical"},
		"USLT:DESCRIPTION": {"alt"},
		"DATE":             {"2001-04-01"},
		"YEAR":             {"2001"},
		"ALBUM ARTIST":     {"The Fall"},
		"comment":          {"kept"},
	}
	got := fromRaw(raw)

	assert.Equal(t, []string{"canonical"}, got.Values(Lyrics))
	assert.Equal(t, "2001-04-01", got.Get(Date))
	assert.Equal(t, "The Fall", got.Get(AlbumArtist))
	assert.Equal(t, "kept", got.Get("COMMENT"))
	assert.Equal(t, raw, maps.Collect(got.Iter()))

	got.Set(Lyrics, "new")
	assert.Equal(t, map[string][]string{
		"LYRICS":       {"new"},
		"DATE":         {"2001-04-01"},
		"YEAR":         {"2001"},
		"ALBUM ARTIST": {"The Fall"},
		"comment":      {"kept"},
	}, maps.Collect(got.Iter()))
}

func TestAlternativeOnly(t *testing.T) {
	t.Parallel()

	got := fromRaw(map[string][]string{"UNSYNCEDLYRICS": {"la la"}, "TRACK": {"3"}})
	assert.Equal(t, "la la", got.Get(Lyrics))
	assert.Equal(t, "3", got.Get(TrackNumber))
}

func TestCloneIndependent(t *testing.T) {
	t.Parallel()

	a := NewTags(Title, "a", Artist, "b")
	b := a.Clone()
	require.True(t, Equal(a, b))

	b.Set(Lyrics, "new")
	assert.False(t, Equal(a, b))
	assert.Empty(t, a.Get(Lyrics))
}

func TestGetEmpty(t *testing.T) {
	t.Parallel()

	var tg Tags
	assert.Equal(t, "", tg.Get(Title))
	assert.Nil(t, tg.Values(Artist))
	assert.Equal(t, 0, tg.Len())
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, KindOther, KindOf(nil))
	assert.Equal(t, KindOther, KindOf(errors.New("boom")))
	assert.Equal(t, KindNotFound, KindOf(fmt.Errorf("wrap: %w", fs.ErrNotExist)))
	assert.Equal(t, KindPermission, KindOf(&fs.PathError{Op: "open", Path: "x", Err: fs.ErrPermission}))

	err := fmt.Errorf("outer: %w", &Error{Op: "write", Path: "x", Kind: KindMalformed, Err: errors.New("bad")})
	assert.Equal(t, KindMalformed, KindOf(err))
	assert.Equal(t, "permission denied", KindPermission.String())
}

func TestReadTagsMissing(t *testing.T) {
	t.Parallel()

	_, err := ReadTags(filepath.Join(t.TempDir(), "missing.flac"))
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestWriteTagsMissing(t *testing.T) {
	t.Parallel()

	err := WriteTags(filepath.Join(t.TempDir(), "missing.mp3"), NewTags(Lyrics, "x"))
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestReadTagsMalformed(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "broken.flac")
	require.NoError(t, os.WriteFile(path, []byte("this is not a flac file"), 0o644))

	_, err := ReadTags(path)
	require.Error(t, err)
	assert.Equal(t, KindMalformed, KindOf(err))
	assert.ErrorIs(t, err, ErrInvalidFile)
}

func TestReadTagsPermission(t *testing.T) {
	t.Parallel()
	if os.Geteuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}

	path := filepath.Join(t.TempDir(), "locked.flac")
	require.NoError(t, os.WriteFile(path, nil, 0o000))

	_, err := ReadTags(path)
	require.Error(t, err)
	assert.Equal(t, KindPermission, KindOf(err))
}

func TestWriteLyrics(t *testing.T) {
	t.Parallel()

	for _, tf := range testFiles {
		t.Run(tf.name, func(t *testing.T) {
			t.Parallel()

			p := newFile(t, tf.data, tf.ext)
			withf(t, p, func(f *Tags) {
				f.Set(Title, "Wings")
				f.Set(Artist, "The Fall")
				f.Set(Album, "Hex Enduction Hour")
				f.Set(Date, "1982")
			})

			before, err := ReadTags(p)
			require.NoError(t, err)

			withf(t, p, func(f *Tags) {
				f.Set(Lyrics, "la la la")
			})

			after, err := ReadTags(p)
			require.NoError(t, err)
			assert.Equal(t, "la la la", after.Get(Lyrics))
			for k, vs := range before.Iter() {
				assert.Equal(t, vs, after.Values(k), k)
			}
			assert.Equal(t, before.Len()+1, after.Len())
		})
	}
}

func TestWriteLyricsKeepsOtherSpellings(t *testing.T) {
	t.Parallel()

	p := newFile(t, emptyFLAC, ".flac")
	require.NoError(t, WriteTags(p, fromRaw(map[string][]string{
		"TITLE":          {"Wings"},
		"ARTIST":         {"The Fall"},
		"DATE":           {"1982-03-08"},
		"YEAR":           {"1982"},
		"ALBUM ARTIST":   {"The Fall"},
		"UNSYNCEDLYRICS": {"old words"},
	})))

	withf(t, p, func(f *Tags) {
		assert.Equal(t, "old words", f.Get(Lyrics))
		f.Set(Lyrics, "new words")
	})

	got, err := ReadTags(p)
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{
		"TITLE":        {"Wings"},
		"ARTIST":       {"The Fall"},
		"DATE":         {"1982-03-08"},
		"YEAR":         {"1982"},
		"ALBUM ARTIST": {"The Fall"},
		"LYRICS":       {"new words"},
	}, maps.Collect(got.Iter()))
}

var testFiles = []struct {
	name string
	data []byte
	ext  string
}{
	{"flac", emptyFLAC, ".flac"},
	{"mp3", emptyMP3, ".mp3"},
}

var (
	//go:embed testdata/empty.flac
	emptyFLAC []byte
	//go:embed testdata/empty.mp3
	emptyMP3 []byte
)

func newFile(t *testing.T, data []byte, ext string) string {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "*"+ext)
	require.NoError(t, err)
	defer f.Close()

	_, err = io.Copy(f, bytes.NewReader(data))
	require.NoError(t, err)

	return f.Name()
}

func withf(t *testing.T, path string, fn func(*Tags)) {
	t.Helper()

	tags, err := ReadTags(path)
	require.NoError(t, err)

	fn(&tags)

	require.NoError(t, WriteTags(path, tags))
}
