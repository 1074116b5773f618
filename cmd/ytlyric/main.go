package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"syscall"
	"time"

	"go.senan.xyz/natcmp"
	"go.senan.xyz/table/table"
	"golang.org/x/sync/errgroup"

	"go.senan.xyz/ytlyric/cmd/internal/mainlib"
	"go.senan.xyz/ytlyric/lyrics"
	"go.senan.xyz/ytlyric/lyricsfile"
	"go.senan.xyz/ytlyric/manifest"
	"go.senan.xyz/ytlyric/notifications"
	"go.senan.xyz/ytlyric/researchlink"
	"go.senan.xyz/ytlyric/tags"
	"go.senan.xyz/ytlyric/ytdlp"
)

func init() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage:\n")
		fmt.Fprintf(flag.CommandLine.Output(), "  $ %s [<option>...] <url | path>...\n", flag.Name())
		fmt.Fprintf(flag.CommandLine.Output(), "  $ %s [<option>...] -title <title> [-artist <artist>]\n", flag.Name())
		fmt.Fprintf(flag.CommandLine.Output(), "  $ %s [<option>...] -manifest <tracks.yaml>\n", flag.Name())
		fmt.Fprintf(flag.CommandLine.Output(), "\n")
		fmt.Fprintf(flag.CommandLine.Output(), "Options:\n")
		flag.PrintDefaults()
	}
}

var (
	resolver   = mainlib.Resolver()
	pathFormat = mainlib.PathFormat()
	notifs     = mainlib.Notifications()
	research   = mainlib.ResearchLinks()
	httpConf   = mainlib.HTTP()

	outDir       = flag.String("out-dir", ".", "Directory to write lyrics files to")
	numWorkers   = flag.Int("workers", 1, "Number of tracks to resolve at once")
	embedLyrics  = flag.Bool("embed", false, "Also write lyrics into the LYRICS tag of audio file arguments")
	manifestPath = flag.String("manifest", "", "Path to a YAML manifest of tracks")
	singleTitle  = flag.String("title", "", "Resolve a single title")
	singleArtist = flag.String("artist", "", "Artist for -title")
	ytdlpCommand = flag.String("ytdlp-command", "yt-dlp", "Path to the yt-dlp executable")
	ytdlpArgs    = flag.String("ytdlp-args", "", "Extra shell quoted arguments for yt-dlp")
)

// track is one (title, artist) pair to resolve. path is set for local audio files.
type track struct {
	seq           int
	title, artist string
	path          string
}

type row struct {
	track
	status  string
	result  lyrics.Result
	outPath string
}

func main() {
	exit := mainlib.Logging()
	defer exit()

	mainlib.Parse()
	httpConf.WrapDefaultClient()

	if flag.NArg() == 0 && *singleTitle == "" && *manifestPath == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *numWorkers < 1 {
		*numWorkers = 1
	}

	ytdl, err := ytdlp.NewClient(*ytdlpCommand, *ytdlpArgs)
	if err != nil {
		slog.Error("setting up yt-dlp", "err", err)
		return
	}

	resolver.OnTransition = func(from, to lyrics.State) {
		slog.Debug("resolution state", "from", from, "to", to)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	dir := *outDir
	var entries []manifest.Entry
	if *manifestPath != "" {
		m, err := manifest.Parse(*manifestPath)
		if err != nil {
			slog.Error("reading manifest", "path", *manifestPath, "err", err)
			return
		}
		if m.OutDir != "" {
			dir = m.OutDir
			if !filepath.IsAbs(dir) {
				dir = filepath.Join(filepath.Dir(*manifestPath), dir)
			}
		}
		entries = m.Tracks
	}

	var (
		start = time.Now()
		mu    sync.Mutex
		rows  []row
	)

	tracks := make(chan track)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(tracks)
		return produce(ctx, ytdl, entries, flag.Args(), tracks)
	})
	for range *numWorkers {
		g.Go(func() error {
			for t := range tracks {
				r, err := processTrack(ctx, dir, t)
				if err != nil {
					if errors.Is(err, context.Canceled) {
						return err
					}
					slog.ErrorContext(ctx, "processing track", "title", t.title, "artist", t.artist, "err", err)
					r = row{track: t, status: "error"}
				}
				mu.Lock()
				rows = append(rows, r)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		slog.Error("stopped early", "err", err)
	}

	slices.SortFunc(rows, func(a, b row) int { return a.seq - b.seq })

	var numFound, numNotFound, numError int
	t := table.NewStringWriter()
	for _, r := range rows {
		switch r.status {
		case "found":
			numFound++
		case "not-found":
			numNotFound++
		default:
			numError++
		}
		fmt.Fprintf(t, "%s\t%s\t%s\t%s\t%s\n", r.title, orDash(r.artist), r.status, orDash(resultKind(r)), orDash(r.outPath))
	}
	if len(rows) > 0 {
		fmt.Print(t.String())
	}

	notifs.Sendf(context.WithoutCancel(ctx), notifications.Complete, "%d found, %d not found, %d errors", numFound, numNotFound, numError)

	var level = slog.LevelInfo
	if numError > 0 {
		level = slog.LevelError
	}
	slog.Log(context.WithoutCancel(ctx), level, "finished", "took", time.Since(start).Truncate(time.Millisecond), "found", numFound, "not_found", numNotFound, "errors", numError)
}

func produce(ctx context.Context, ytdl *ytdlp.Client, entries []manifest.Entry, args []string, out chan<- track) error {
	var seq int
	emit := func(t track) error {
		t.seq = seq
		seq++
		select {
		case out <- t:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if *singleTitle != "" {
		if err := emit(track{title: *singleTitle, artist: *singleArtist}); err != nil {
			return err
		}
	}

	var urls, paths []string
	for _, e := range entries {
		if e.URL != "" {
			urls = append(urls, e.URL)
			continue
		}
		if err := emit(track{title: e.Title, artist: e.Artist}); err != nil {
			return err
		}
	}
	for _, arg := range args {
		if isURL(arg) {
			urls = append(urls, arg)
			continue
		}
		paths = append(paths, arg)
	}

	for _, u := range urls {
		media, err := lookupURL(ctx, ytdl, u)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			slog.ErrorContext(ctx, "looking up url", "url", u, "err", err)
			continue
		}
		for _, m := range media {
			if err := emit(track{title: m.Title, artist: m.Artist}); err != nil {
				return err
			}
		}
	}

	for _, p := range paths {
		files, err := audioFiles(p)
		if err != nil {
			slog.ErrorContext(ctx, "finding audio files", "path", p, "err", err)
			continue
		}
		for _, f := range files {
			title, artist, err := tags.ReadTrack(f)
			if err != nil {
				slog.ErrorContext(ctx, "reading tags", "path", f, "err", err)
				continue
			}
			if err := emit(track{title: title, artist: artist, path: f}); err != nil {
				return err
			}
		}
	}
	return nil
}

// lookupURL fetches metadata for a video or playlist. Playlist entries only carry the uploader,
// so each one is looked up again for its full metadata.
func lookupURL(ctx context.Context, ytdl *ytdlp.Client, u string) ([]ytdlp.Track, error) {
	media, err := ytdl.Fetch(ctx, u)
	if err != nil {
		return nil, err
	}
	if !ytdlp.IsPlaylist(u) {
		return media, nil
	}

	var detailed []ytdlp.Track
	for _, entry := range media {
		full, err := ytdl.Fetch(ctx, entry.URL)
		if err != nil || len(full) == 0 {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			slog.WarnContext(ctx, "looking up playlist entry, using playlist metadata", "url", entry.URL, "err", err)
			detailed = append(detailed, entry)
			continue
		}
		detailed = append(detailed, full[0])
	}
	return detailed, nil
}

func processTrack(ctx context.Context, dir string, t track) (row, error) {
	res, err := resolver.Resolve(ctx, t.title, t.artist)
	if errors.Is(err, lyrics.ErrLyricsNotFound) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return row{}, ctxErr
		}
		slog.WarnContext(ctx, "no lyrics found", "title", t.title, "artist", t.artist)

		links, err := research.Build(researchlink.Query{Title: t.title, Artist: t.artist, Artists: lyrics.ArtistTokens(t.artist)})
		if err != nil {
			slog.ErrorContext(ctx, "build research links", "err", err)
		}
		var linkLines strings.Builder
		for _, l := range links {
			slog.InfoContext(ctx, "research link", "title", t.title, "name", l.Name, "url", l.URL)
			fmt.Fprintf(&linkLines, "\n%s: %s", l.Name, l.URL)
		}

		notifs.Sendf(ctx, notifications.NotFound, "no lyrics found for %q by %q%s", t.title, t.artist, linkLines.String())
		return row{track: t, status: "not-found"}, nil
	}
	if err != nil {
		return row{}, fmt.Errorf("resolve: %w", err)
	}

	outPath, err := lyricsfile.Write(dir, pathFormat, t.title, t.artist, res)
	if err != nil {
		return row{}, err
	}
	if *embedLyrics && t.path != "" {
		if err := tags.WriteLyrics(t.path, res.Content); err != nil {
			return row{}, fmt.Errorf("embed lyrics: %w", err)
		}
	}

	slog.InfoContext(ctx, "found lyrics", "title", t.title, "artist", t.artist, "kind", res.Kind, "source", res.Source, "path", outPath)
	notifs.Sendf(ctx, notifications.Found, "found %s lyrics for %q by %q from %s", res.Kind, t.title, t.artist, res.Source)
	return row{track: t, status: "found", result: res, outPath: outPath}, nil
}

func audioFiles(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		if !tags.CanRead(root) {
			return nil, fmt.Errorf("not a known audio file")
		}
		return []string{root}, nil
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && tags.CanRead(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk: %w", err)
	}
	slices.SortFunc(paths, natcmp.Compare)
	return paths, nil
}

func isURL(arg string) bool {
	return strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://")
}

func resultKind(r row) string {
	if r.status != "found" {
		return ""
	}
	return r.result.Kind.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
