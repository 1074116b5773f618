package pathformat

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	texttemplate "text/template"

	"go.senan.xyz/ytlyric/fileutil"
)

var (
	ErrInvalidFormat   = errors.New("invalid path format")
	ErrAmbiguousFormat = errors.New("ambiguous format")
	ErrBadData         = errors.New("bad data for path")
)

const Default = `{{ .Title | safepath }}{{ .Ext }}`

type Data struct {
	Title   string
	Artist  string
	Artists []string
	Source  string
	Kind    string
	Ext     string
}

// Format is a text/template which renders to a path relative to some output directory.
type Format struct {
	raw  string
	tmpl *texttemplate.Template
}

func (pf *Format) Parse(str string) error {
	if strings.TrimSpace(str) == "" {
		return fmt.Errorf("%w: empty format", ErrInvalidFormat)
	}
	tmpl, err := texttemplate.
		New("template").
		Funcs(funcMap).
		Option("missingkey=error").
		Parse(str)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}

	next := Format{raw: str, tmpl: tmpl}
	if err := validate(next); err != nil {
		return err
	}
	*pf = next
	return nil
}

func (pf *Format) Execute(d Data) (string, error) {
	if pf.tmpl == nil {
		return "", fmt.Errorf("%w: not parsed", ErrInvalidFormat)
	}

	var sb strings.Builder
	if err := pf.tmpl.Execute(&sb, d); err != nil {
		return "", fmt.Errorf("%w: %w", ErrBadData, err)
	}
	path := sb.String()
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("%w: empty path", ErrBadData)
	}
	if strings.Contains(path, "//") || strings.HasSuffix(path, "/") {
		return "", fmt.Errorf("%w: empty path segment in %q", ErrBadData, path)
	}
	if !filepath.IsLocal(path) {
		return "", fmt.Errorf("%w: %q leaves the output directory", ErrBadData, path)
	}
	return filepath.Clean(path), nil
}

func (pf Format) String() string {
	return pf.raw
}

func validate(pf Format) error {
	a, err := pf.Execute(Data{Title: "Title One", Artist: "Artist", Artists: []string{"Artist"}, Source: "lrclib", Kind: "synced", Ext: ".lrc"})
	if err != nil {
		return err
	}
	b, err := pf.Execute(Data{Title: "Title Two", Artist: "Artist", Artists: []string{"Artist"}, Source: "lrclib", Kind: "synced", Ext: ".lrc"})
	if err != nil {
		return err
	}
	if a == b {
		return fmt.Errorf("%w: two tracks may have the same path %q", ErrAmbiguousFormat, a)
	}
	return nil
}

var funcMap = texttemplate.FuncMap{
	"join":     func(delim string, items []string) string { return strings.Join(items, delim) },
	"safepath": fileutil.SafePath,
	"lower":    strings.ToLower,
	"default": func(def, v string) string {
		if strings.TrimSpace(v) == "" {
			return def
		}
		return v
	},
}
