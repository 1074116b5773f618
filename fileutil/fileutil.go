package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/rainycape/unidecode"
)

var safePathReplacer = strings.NewReplacer(
	"/", " ",
	`\`, " ",
	"<", "",
	">", "",
	":", "",
	`"`, "",
	"|", "",
	"?", "",
	"*", "",
)

// SafePath makes name usable as a single path element on any common filesystem.
// It transliterates to ASCII, drops reserved and control characters, and turns
// separators into spaces.
func SafePath(name string) string {
	name = unidecode.Unidecode(name)
	name = safePathReplacer.Replace(name)
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)
	name = strings.Join(strings.Fields(name), " ")
	name = strings.Trim(name, ".")
	return strings.TrimSpace(name)
}

// WriteFileAtomic writes data to a temp file next to path and renames it into place,
// so readers never see a partial file.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return fmt.Errorf("make dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
