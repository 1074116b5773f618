package mainlib

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"go.senan.xyz/flagconf"

	"go.senan.xyz/ytlyric"
	"go.senan.xyz/ytlyric/clientutil"
	"go.senan.xyz/ytlyric/lyrics"
	"go.senan.xyz/ytlyric/notifications"
	"go.senan.xyz/ytlyric/pathformat"
	"go.senan.xyz/ytlyric/researchlink"
)

func Logging() (exit func()) {
	var logLevel slog.LevelVar
	flag.TextVar(&logLevel, "log-level", &logLevel, "Set the logging level")

	h := &slogErrorHandler{
		Handler: slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: &logLevel}),
	}

	logger := slog.New(h)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(slog.LevelError)

	return func() {
		if h.hadSlogError.Load() {
			os.Exit(1)
		}
		os.Exit(0)
	}
}

type slogErrorHandler struct {
	slog.Handler
	hadSlogError atomic.Bool
}

func (n *slogErrorHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level == slog.LevelError {
		n.hadSlogError.Store(true)
	}
	return n.Handler.Handle(ctx, r)
}

func Parse() {
	userConfig, _ := os.UserConfigDir()
	defaultConfigPath := filepath.Join(userConfig, ytlyric.Name, "config")
	configPath := flag.String("config-path", defaultConfigPath, "Path to config file")

	printVersion := flag.Bool("version", false, "Print the version and exit")
	printConfig := flag.Bool("config", false, "Print the parsed config and exit")

	flag.Parse()
	flagconf.ReadEnvPrefix = func(_ *flag.FlagSet) string { return ytlyric.Name }
	flagconf.ParseEnv()
	flagconf.ParseConfig(*configPath)

	if *printVersion {
		fmt.Printf("%s %s\n", flag.CommandLine.Name(), ytlyric.Version)
		os.Exit(0)
	}
	if *printConfig {
		flag.VisitAll(func(f *flag.Flag) {
			fmt.Printf("%-20s %s\n", f.Name, f.Value)
		})
		os.Exit(0)
	}
}

type HTTPConfig struct {
	Cache     bool
	UserAgent string
}

func HTTP() *HTTPConfig {
	var c HTTPConfig
	flag.BoolVar(&c.Cache, "http-cache", true, "Keep cacheable HTTP responses in memory for the run")
	flag.StringVar(&c.UserAgent, "user-agent", fmt.Sprintf(`%s/%s`, ytlyric.Name, ytlyric.Version), "User agent for lookup requests")
	return &c
}

// WrapDefaultClient installs the middleware on [http.DefaultTransport]. Call after [Parse].
func (c *HTTPConfig) WrapDefaultClient() {
	var mw []clientutil.Middleware
	if c.Cache {
		mw = append(mw, clientutil.WithCache())
	}
	mw = append(mw,
		clientutil.WithLogging(slog.Default()),
		clientutil.WithUserAgent(c.UserAgent),
	)
	http.DefaultTransport = clientutil.Chain(mw...)(http.DefaultTransport)
}

// Resolver registers flags for both lookup services. The providers are shared by every
// resolution, so their rate limits hold across concurrent tracks.
func Resolver() *lyrics.Resolver {
	var lrclib lyrics.LRCLib
	flag.StringVar(&lrclib.BaseURL, "lrclib-base-url", `https://lrclib.net/api`, "LRCLIB API base URL")
	flag.DurationVar(&lrclib.RateLimit, "lrclib-rate-limit", 250*time.Millisecond, "LRCLIB rate limit duration")

	var genius lyrics.Genius
	flag.StringVar(&genius.BaseURL, "genius-base-url", `https://genius.com`, "Genius base URL")
	flag.DurationVar(&genius.RateLimit, "genius-rate-limit", 500*time.Millisecond, "Genius rate limit duration")

	return &lyrics.Resolver{Structured: &lrclib, Scraping: &genius}
}

func PathFormat() *pathformat.Format {
	var pf pathformat.Format
	if err := pf.Parse(pathformat.Default); err != nil {
		panic(err)
	}
	flag.Var(&pathFormatParser{&pf}, "path-format", "Go templated path format for lyrics files, relative to -out-dir")
	return &pf
}

func Notifications() *notifications.Notifications {
	var n notifications.Notifications
	flag.Var(&notificationsParser{&n}, "notification-uri", "Add a shoutrrr notification URI for an event (stackable)")
	return &n
}

func ResearchLinks() *researchlink.Builder {
	var r researchlink.Builder
	flag.Var(&researchLinkParser{&r}, "research-link", "Define a helper URL to help find lyrics for a track that wasn't found (stackable)")
	return &r
}
