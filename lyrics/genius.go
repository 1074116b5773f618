package lyrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/andybalholm/cascadia"
	"go.senan.xyz/ytlyric/clientutil"
	"golang.org/x/net/html"
)

const geniusBaseURL = `https://genius.com`

var geniusSelectLink = cascadia.MustCompile(`a[href]`)
var geniusSelectContent = []cascadia.Selector{
	cascadia.MustCompile(`.lyrics`),
	cascadia.MustCompile(`[data-lyrics-container]`),
}

// Genius scrapes the site search page. The first result link on the site's own
// domain is taken as the match, even if it's a sponsored or unrelated result.
type Genius struct {
	BaseURL   string
	RateLimit time.Duration

	initOnce   sync.Once
	HTTPClient *http.Client
}

var _ Provider = (*Genius)(nil)

func (*Genius) Source() Source { return SourceGenius }

func (g *Genius) Attempt(ctx context.Context, q Query) Outcome {
	g.initOnce.Do(func() {
		if g.BaseURL == "" {
			g.BaseURL = geniusBaseURL
		}
		g.BaseURL = strings.TrimSuffix(g.BaseURL, "/")
		g.HTTPClient = clientutil.Wrap(g.HTTPClient, clientutil.WithRateLimit(g.RateLimit))
	})

	u, err := url.Parse(g.BaseURL)
	if err != nil {
		return notFound(fmt.Errorf("parse base url: %w", err))
	}
	u = u.JoinPath("search")
	u.RawQuery = url.Values{"q": {strings.TrimSpace(q.Title + " " + q.Artist)}}.Encode()

	search, err := g.fetch(ctx, u.String())
	if err != nil {
		return g.failed(ctx, fmt.Errorf("search: %w", err))
	}

	var pageURL string
	for _, a := range cascadia.QueryAll(search, geniusSelectLink) {
		if href := attr(a, "href"); strings.HasPrefix(href, g.BaseURL) {
			pageURL = href
			break
		}
	}
	if pageURL == "" {
		return notFound(fmt.Errorf("%w: no result link", ErrNoMatch))
	}

	page, err := g.fetch(ctx, pageURL)
	if err != nil {
		return g.failed(ctx, fmt.Errorf("song page: %w", err))
	}

	for _, sel := range geniusSelectContent {
		var out strings.Builder
		for _, n := range cascadia.QueryAll(page, sel) {
			iterText(n, func(s string) {
				out.WriteString(s)
			})
			out.WriteString("\n")
		}
		if text := strings.TrimSpace(out.String()); text != "" {
			return found(NewResult(text, SourceGenius))
		}
	}
	return notFound(fmt.Errorf("%w: no lyrics container", ErrUnexpectedResponse))
}

func (g *Genius) fetch(ctx context.Context, rawURL string) (*html.Node, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("make request: %w", err)
	}
	resp, err := g.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("%w: status %d", ErrNoMatch, resp.StatusCode)
	}

	node, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: parse page: %w", ErrUnexpectedResponse, err)
	}
	return node, nil
}

func (g *Genius) failed(ctx context.Context, err error) Outcome {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return transient(ctxErr)
	}
	if errors.Is(err, ErrNetwork) {
		return transient(err)
	}
	return notFound(err)
}

// iterText walks text nodes in document order. <br> becomes a line break.
func iterText(n *html.Node, f func(string)) {
	if n == nil {
		return
	}
	switch {
	case n.Type == html.TextNode:
		f(n.Data)
	case n.Type == html.ElementNode && n.Data == "br":
		f("\n")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		iterText(c, f)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
