// Package ytdlp looks up video and playlist metadata with the external yt-dlp tool.
package ytdlp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os/exec"
	"strings"

	"github.com/google/shlex"
)

var ErrNoTitle = errors.New("no title in metadata")

const (
	musicHost = "music.youtube.com"
	wwwHost   = "www.youtube.com"
)

type Track struct {
	ID     string
	URL    string
	Title  string
	Artist string
}

type Client struct {
	Command string
	Args    []string
}

// NewClient splits args shell style, so a flag like "--cookies 'my cookies.txt'" works.
func NewClient(command string, args string) (*Client, error) {
	if command == "" {
		return nil, fmt.Errorf("no command provided")
	}
	parts, err := shlex.Split(args)
	if err != nil {
		return nil, fmt.Errorf("split args: %w", err)
	}
	return &Client{Command: command, Args: parts}, nil
}

// Fetch returns the tracks at rawURL. A playlist URL returns one track per entry, with only
// the uploader as artist. Callers wanting full metadata should Fetch each entry's URL again.
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]Track, error) {
	lookupURL, music := normaliseURL(rawURL)

	if IsPlaylist(lookupURL) {
		out, err := c.run(ctx, "--flat-playlist", "--dump-json", lookupURL)
		if err != nil {
			return nil, err
		}
		domain := wwwHost
		if music {
			domain = musicHost
		}
		tracks, err := parsePlaylist(out, domain)
		if err != nil {
			return nil, fmt.Errorf("parse playlist: %w", err)
		}
		return tracks, nil
	}

	out, err := c.run(ctx, "--no-warnings", "--dump-json", "--skip-download", lookupURL)
	if err != nil {
		return nil, err
	}
	track, err := parseVideo(out)
	if err != nil {
		return nil, fmt.Errorf("parse video: %w", err)
	}
	track.URL = rawURL
	return []Track{track}, nil
}

func (c *Client) run(ctx context.Context, args ...string) ([]byte, error) {
	args = append(append([]string(nil), c.Args...), args...)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.Command, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	slog.DebugContext(ctx, "running yt-dlp", "command", c.Command, "args", args)
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("run %s: %w: %s", c.Command, err, msg)
		}
		return nil, fmt.Errorf("run %s: %w", c.Command, err)
	}
	return stdout.Bytes(), nil
}

func IsPlaylist(rawURL string) bool {
	return strings.Contains(rawURL, "list=")
}

// normaliseURL points music.youtube.com links at www.youtube.com, which yt-dlp handles with
// richer metadata. It reports whether the link was originally on the music domain.
func normaliseURL(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host != musicHost {
		return rawURL, false
	}
	u.Host = wwwHost
	return u.String(), true
}

type videoInfo struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Uploader string `json:"uploader"`
}

func parseVideo(data []byte) (Track, error) {
	var info videoInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return Track{}, err
	}
	if info.Title == "" {
		return Track{}, ErrNoTitle
	}
	artist := info.Artist
	if artist == "" {
		artist = info.Uploader
	}
	return Track{ID: info.ID, Title: info.Title, Artist: artist}, nil
}

func parsePlaylist(data []byte, domain string) ([]Track, error) {
	var tracks []Track
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var info videoInfo
		if err := json.Unmarshal(line, &info); err != nil {
			return nil, err
		}
		tracks = append(tracks, Track{
			ID:     info.ID,
			URL:    fmt.Sprintf("https://%s/watch?v=%s", domain, url.QueryEscape(info.ID)),
			Title:  info.Title,
			Artist: info.Uploader,
		})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return tracks, nil
}
