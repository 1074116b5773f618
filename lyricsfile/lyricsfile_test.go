package lyricsfile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.senan.xyz/ytlyric/lyrics"
	"go.senan.xyz/ytlyric/lyricsfile"
	"go.senan.xyz/ytlyric/pathformat"
)

func TestWrite(t *testing.T) {
	t.Parallel()

	var pf pathformat.Format
	require.NoError(t, pf.Parse(pathformat.Default))

	dir := t.TempDir()

	synced := lyrics.NewResult("[00:01.00]Hello", lyrics.SourceLRCLib)
	path, err := lyricsfile.Write(dir, &pf, "Song: Live", "Artist", synced)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Song Live.lrc"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[00:01.00]Hello", string(data))

	plain := lyrics.NewResult("Hello", lyrics.SourceGenius)
	path, err = lyricsfile.Write(dir, &pf, "Song: Live", "Artist", plain)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Song Live.txt"), path)

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[UNSYNCED LYRICS]\n\nHello", string(data))
}

func TestWriteNested(t *testing.T) {
	t.Parallel()

	var pf pathformat.Format
	require.NoError(t, pf.Parse(`{{ .Source }}/{{ .Artists | join " & " | safepath }} - {{ .Title | safepath }}{{ .Ext }}`))

	dir := t.TempDir()
	res := lyrics.NewResult("[00:01.00]Hello", lyrics.SourceLRCLib)

	path, err := lyricsfile.Write(dir, &pf, "Song", "A feat. B", res)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "lrclib", "A & B - Song.lrc"), path)
	assert.FileExists(t, path)
}

func TestWriteBadPath(t *testing.T) {
	t.Parallel()

	var pf pathformat.Format
	require.NoError(t, pf.Parse(`{{ .Artist }}/{{ .Title }}{{ .Ext }}`))

	_, err := lyricsfile.Write(t.TempDir(), &pf, "Song", "", lyrics.NewResult("Hello", lyrics.SourceGenius))
	assert.ErrorIs(t, err, pathformat.ErrBadData)
}
