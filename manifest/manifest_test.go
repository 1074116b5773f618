package manifest_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.senan.xyz/ytlyric/manifest"
)

func TestDecode(t *testing.T) {
	t.Parallel()

	m, err := manifest.Decode(strings.NewReader(`
out-dir: lyrics
tracks:
  - title: " Bohemian Rhapsody (Official Video) "
    artist: Queen
  - title: Untitled
  - url: https://www.youtube.com/watch?v=abc
`))
	require.NoError(t, err)
	assert.Equal(t, "lyrics", m.OutDir)
	assert.Equal(t, []manifest.Entry{
		{Title: "Bohemian Rhapsody (Official Video)", Artist: "Queen"},
		{Title: "Untitled"},
		{URL: "https://www.youtube.com/watch?v=abc"},
	}, m.Tracks)

	assert.Equal(t, "Queen - Bohemian Rhapsody (Official Video)", m.Tracks[0].String())
	assert.Equal(t, "Untitled", m.Tracks[1].String())
	assert.Equal(t, "https://www.youtube.com/watch?v=abc", m.Tracks[2].String())
}

func TestDecodeEmpty(t *testing.T) {
	t.Parallel()

	m, err := manifest.Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, m.Tracks)
}

func TestDecodeInvalid(t *testing.T) {
	t.Parallel()

	_, err := manifest.Decode(strings.NewReader(`
tracks:
  - artist: Queen
  - title: Song
    url: https://www.youtube.com/watch?v=abc
`))
	require.ErrorIs(t, err, manifest.ErrInvalidEntry)
	assert.Contains(t, err.Error(), "track 1")
	assert.Contains(t, err.Error(), "track 2")

	_, err = manifest.Decode(strings.NewReader(`
tracks:
  - title: Song
    album: unknown field
`))
	assert.Error(t, err)

	_, err = manifest.Decode(strings.NewReader(`tracks: [`))
	assert.Error(t, err)
}

func TestParse(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tracks.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tracks:\n  - title: Song\n"), 0o644))

	m, err := manifest.Parse(path)
	require.NoError(t, err)
	assert.Equal(t, []manifest.Entry{{Title: "Song"}}, m.Tracks)

	_, err = manifest.Parse(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
