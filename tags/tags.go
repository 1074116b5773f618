// tags reads track titles and artists from audio files and embeds lyrics into them
package tags

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/sentriz/audiotags"
)

var ErrWrite = errors.New("error writing tags")

const (
	Title       = "title"
	Artist      = "artist"
	AlbumArtist = "albumartist"
	Album       = "album"
	Lyrics      = "lyrics"
)

var alternatives = map[string]string{
	"album_artist":       AlbumArtist,
	"lyrics:description": Lyrics,
	"uslt:description":   Lyrics,
	"unsyncedlyrics":     Lyrics,
	"©lyr":               Lyrics,
}

func CanRead(absPath string) bool {
	switch ext := strings.ToLower(filepath.Ext(absPath)); ext {
	case ".mp3", ".flac", ".aac", ".m4a", ".m4b", ".ogg", ".opus", ".wma", ".wav", ".wv":
		return true
	}
	return false
}

type File struct {
	raw  map[string][]string
	file *audiotags.File
	path string
}

func Read(path string) (*File, error) {
	f, err := audiotags.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}

	raw := f.ReadTags()
	normalise(raw, alternatives) // tag replacements, case normalisation, etc

	return &File{raw: raw, file: f, path: path}, nil
}

func (f *File) Read(t string) string        { return first(f.raw[t]) }
func (f *File) ReadMulti(t string) []string { return f.raw[t] }

func (f *File) Write(t string, v ...string) {
	v = deleteZero(v)
	if len(v) == 0 {
		delete(f.raw, t)
		return
	}
	f.raw[t] = v
}

func (f *File) Save() error {
	if !f.file.WriteTags(f.raw) {
		return ErrWrite
	}
	return nil
}

func (f *File) Close() {
	f.file.Close()
}

func (f *File) Path() string {
	return f.path
}

// Write opens path, applies fn, and saves only if fn changed something.
func Write(path string, fn func(f *File) error) error {
	f, err := Read(path)
	if err != nil {
		return fmt.Errorf("read tag file: %w", err)
	}
	defer f.Close()

	before := maps.Clone(f.raw)
	if err := fn(f); err != nil {
		return err
	}

	// try avoid filesystem writes if we can
	if maps.EqualFunc(before, f.raw, slices.Equal) {
		return nil
	}

	if l := slog.Default(); l.Enabled(context.Background(), slog.LevelDebug) {
		pathBase := filepath.Base(path)
		for k := range f.raw {
			if before, after := before[k], f.raw[k]; !slices.Equal(before, after) {
				l.Debug("tag change", "file", pathBase, "key", k, "bytes_from", sumLen(before), "bytes_to", sumLen(after))
			}
		}
	}

	if err := f.Save(); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

// ReadTrack returns the title and artist of the audio file at path. The track artist is
// preferred, falling back to the album artist.
func ReadTrack(path string) (title, artist string, err error) {
	f, err := Read(path)
	if err != nil {
		return "", "", fmt.Errorf("read tag file: %w", err)
	}
	defer f.Close()

	return TrackOf(f.raw)
}

// TrackOf picks the title and artist out of normalised tags.
func TrackOf(raw map[string][]string) (title, artist string, err error) {
	title = strings.TrimSpace(first(raw[Title]))
	if title == "" {
		return "", "", fmt.Errorf("no %s tag", Title)
	}
	artist = strings.TrimSpace(first(raw[Artist]))
	if artist == "" {
		artist = strings.TrimSpace(first(raw[AlbumArtist]))
	}
	return title, artist, nil
}

func WriteLyrics(path string, content string) error {
	return Write(path, func(f *File) error {
		f.Write(Lyrics, content)
		return nil
	})
}

func first(vs []string) string {
	if len(vs) == 0 {
		return ""
	}
	return vs[0]
}

func sumLen(vs []string) int {
	var n int
	for _, v := range vs {
		n += len(v)
	}
	return n
}

func normalise(raw map[string][]string, alternatives map[string]string) {
	for k, vs := range raw {
		nk := strings.ReplaceAll(strings.ToLower(k), " ", "_")
		if nk == k {
			continue
		}
		delete(raw, k)
		raw[nk] = vs
	}
	for kbad, kgood := range alternatives {
		if _, ok := raw[kgood]; ok {
			continue
		}
		if v, ok := raw[kbad]; ok {
			raw[kgood] = v
			delete(raw, kbad)
			continue
		}
	}
}

func deleteZero[T comparable](elms []T) []T {
	var zero T
	return slices.DeleteFunc(elms, func(t T) bool { return t == zero })
}
