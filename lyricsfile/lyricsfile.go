// Package lyricsfile writes resolved lyrics to sidecar files, .lrc for synced and .txt for plain.
package lyricsfile

import (
	"fmt"
	"path/filepath"

	"go.senan.xyz/ytlyric/fileutil"
	"go.senan.xyz/ytlyric/lyrics"
	"go.senan.xyz/ytlyric/pathformat"
)

// Write renders the destination path for title and artist with pf, relative to dir, and
// writes res there. It returns the path written.
func Write(dir string, pf *pathformat.Format, title, artist string, res lyrics.Result) (string, error) {
	rel, err := pf.Execute(pathformat.Data{
		Title:   title,
		Artist:  artist,
		Artists: lyrics.ArtistTokens(artist),
		Source:  string(res.Source),
		Kind:    res.Kind.String(),
		Ext:     res.Kind.Ext(),
	})
	if err != nil {
		return "", fmt.Errorf("gen path: %w", err)
	}

	path := filepath.Join(dir, rel)
	if err := fileutil.WriteFileAtomic(path, []byte(res.Content), 0o644); err != nil {
		return "", fmt.Errorf("write %q: %w", path, err)
	}
	return path, nil
}
