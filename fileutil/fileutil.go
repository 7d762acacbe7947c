package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.senan.xyz/natcmp"
)

// Exts lists the audio file extensions we are willing to touch. Matching is
// case sensitive.
var Exts = []string{".flac", ".mp3"}

type AudioFile struct {
	Path string
	Ext  string
}

func (af AudioFile) Name() string {
	return filepath.Base(af.Path)
}

// AudioExt returns the allow-listed extension name ends with, if any.
func AudioExt(name string) (string, bool) {
	for _, ext := range Exts {
		if strings.HasSuffix(name, ext) {
			return ext, true
		}
	}
	return "", false
}

// ListAudio lists the regular audio files directly inside dir. Subdirectories are not
// descended into. Files are returned in natural name order.
func ListAudio(dir string) ([]AudioFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	var files []AudioFile
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		ext, ok := AudioExt(entry.Name())
		if !ok {
			continue
		}
		files = append(files, AudioFile{Path: filepath.Join(dir, entry.Name()), Ext: ext})
	}

	slices.SortFunc(files, func(a, b AudioFile) int {
		return natcmp.Compare(a.Name(), b.Name())
	})
	return files, nil
}
