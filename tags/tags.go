// tags wraps taglib to normalise known tag variants
package tags

import (
	"iter"
	"maps"
	"slices"
	"strings"
)

// https://taglib.org/api/p_propertymapping.html
// https://picard-docs.musicbrainz.org/downloads/MusicBrainz_Picard_Tag_Map.html

const (
	Album        = "ALBUM"
	AlbumArtist  = "ALBUMARTIST"
	Date         = "DATE"
	Title        = "TITLE"
	Artist       = "ARTIST"
	ArtistCredit = "ARTIST_CREDIT"
	Genre        = "GENRE"
	TrackNumber  = "TRACKNUMBER"
	DiscNumber   = "DISCNUMBER"

	Lyrics = "LYRICS"
)

var alternatives = map[string]string{
	"ALBUM_ARTIST":       AlbumArtist,
	"ALBUM ARTIST":       AlbumArtist,
	"YEAR":               Date,
	"ARTISTCREDIT":       ArtistCredit,
	"TRACK":              TrackNumber,
	"TRACKC":             TrackNumber,
	"UNSYNCEDLYRICS":     Lyrics,
	"UNSYNCED LYRICS":    Lyrics,
	"LYRICS:DESCRIPTION": Lyrics,
	"USLT:DESCRIPTION":   Lyrics,
	"©LYR":               Lyrics,
}

// Tags is the property map of a file. Keys keep the spelling they were read with so
// writing a file back leaves fields alone, while lookups also match alternatives.
type Tags struct {
	t map[string][]string
}

func NewTags(vs ...string) Tags {
	if len(vs)%2 != 0 {
		panic("vs should be kv pairs")
	}
	var t Tags
	for i := 0; i < len(vs)-1; i += 2 {
		t.Set(vs[i], vs[i+1])
	}
	return t
}

func fromRaw(raw map[string][]string) Tags {
	return Tags{t: maps.Clone(raw)}
}

func (t Tags) Iter() iter.Seq2[string, []string] {
	return func(yield func(string, []string) bool) {
		for _, k := range slices.Sorted(maps.Keys(t.t)) {
			if !yield(k, t.t[k]) {
				break
			}
		}
	}
}

// Set stores values under the canonical name of key, replacing any other spelling of it.
func (t *Tags) Set(key string, values ...string) {
	if t.t == nil {
		t.t = map[string][]string{}
	}
	nk := NormKey(key)
	for k := range t.t {
		if NormKey(k) == nk {
			delete(t.t, k)
		}
	}
	t.t[nk] = values
}

func (t Tags) Get(key string) string {
	if vs := t.Values(key); len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// Values returns the values for key. A canonical spelling wins over alternatives.
func (t Tags) Values(key string) []string {
	nk := NormKey(key)
	var alt []string
	for _, k := range slices.Sorted(maps.Keys(t.t)) {
		vs := t.t[k]
		if len(vs) == 0 || NormKey(k) != nk {
			continue
		}
		if strings.ToUpper(k) == nk {
			return vs
		}
		if alt == nil {
			alt = vs
		}
	}
	return alt
}

func (t Tags) Len() int {
	return len(t.t)
}

func (t Tags) Clone() Tags {
	c := Tags{t: make(map[string][]string, len(t.t))}
	for k, vs := range t.t {
		c.t[k] = slices.Clone(vs)
	}
	return c
}

func Equal(a, b Tags) bool {
	return maps.EqualFunc(a.t, b.t, slices.Equal)
}

func NormKey(k string) string {
	k = strings.ToUpper(k)
	if nk, ok := alternatives[k]; ok {
		return nk
	}
	return k
}
