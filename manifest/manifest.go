// Package manifest reads YAML batch files listing tracks to find lyrics for.
//
//	out-dir: lyrics
//	tracks:
//	  - title: Bohemian Rhapsody (Official Video)
//	    artist: Queen
//	  - url: https://www.youtube.com/watch?v=fJ9rUzIMcZQ
package manifest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v2"
)

var ErrInvalidEntry = errors.New("invalid entry")

type Manifest struct {
	OutDir string  `yaml:"out-dir"`
	Tracks []Entry `yaml:"tracks"`
}

// Entry is either a title with an optional artist, or a URL to look up.
type Entry struct {
	Title  string `yaml:"title"`
	Artist string `yaml:"artist"`
	URL    string `yaml:"url"`
}

func (e Entry) String() string {
	if e.URL != "" {
		return e.URL
	}
	if e.Artist == "" {
		return e.Title
	}
	return fmt.Sprintf("%s - %s", e.Artist, e.Title)
}

func Parse(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

func Decode(r io.Reader) (*Manifest, error) {
	var res Manifest
	dec := yaml.NewDecoder(r)
	dec.SetStrict(true)
	if err := dec.Decode(&res); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	var errs []error
	for i, e := range res.Tracks {
		e.Title, e.Artist, e.URL = strings.TrimSpace(e.Title), strings.TrimSpace(e.Artist), strings.TrimSpace(e.URL)
		switch {
		case e.Title == "" && e.URL == "":
			errs = append(errs, fmt.Errorf("%w: track %d: needs a title or url", ErrInvalidEntry, i+1))
		case e.Title != "" && e.URL != "":
			errs = append(errs, fmt.Errorf("%w: track %d: title and url are exclusive", ErrInvalidEntry, i+1))
		}
		res.Tracks[i] = e
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &res, nil
}
