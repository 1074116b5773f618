package lyrics

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"sync"
	"time"

	"go.senan.xyz/ytlyric/clientutil"
)

// https://lrclib.net/docs

const lrclibBaseURL = `https://lrclib.net/api`

type LRCLib struct {
	BaseURL   string
	RateLimit time.Duration

	initOnce   sync.Once
	HTTPClient *http.Client
}

var _ Provider = (*LRCLib)(nil)

func (*LRCLib) Source() Source { return SourceLRCLib }

// lrclibHit is one search entry. Either field may be absent or null.
type lrclibHit struct {
	SyncedLyrics *string `json:"syncedLyrics"`
	PlainLyrics  *string `json:"plainLyrics"`
}

func (h lrclibHit) text() (string, bool) {
	if h.SyncedLyrics != nil && *h.SyncedLyrics != "" {
		return *h.SyncedLyrics, true
	}
	if h.PlainLyrics != nil && *h.PlainLyrics != "" {
		return *h.PlainLyrics, true
	}
	return "", false
}

func (l *LRCLib) Attempt(ctx context.Context, q Query) Outcome {
	l.initOnce.Do(func() {
		if l.BaseURL == "" {
			l.BaseURL = lrclibBaseURL
		}
		l.HTTPClient = clientutil.Wrap(l.HTTPClient, clientutil.WithRateLimit(l.RateLimit))
	})

	u, err := url.Parse(l.BaseURL)
	if err != nil {
		return notFound(fmt.Errorf("parse base url: %w", err))
	}
	u = u.JoinPath("search")
	u.RawQuery = url.Values{"track_name": {q.Title}, "artist_name": {q.Artist}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return notFound(fmt.Errorf("make request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.HTTPClient.Do(req)
	if err != nil {
		return requestOutcome(ctx, err)
	}
	defer resp.Body.Close()

	// the search endpoint answers misses with a mix of statuses and content types
	if resp.StatusCode/100 != 2 {
		return notFound(fmt.Errorf("%w: status %d", ErrNoMatch, resp.StatusCode))
	}
	if mt, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type")); mt != "application/json" {
		return notFound(fmt.Errorf("%w: content type %q", ErrUnexpectedResponse, mt))
	}

	var hits []lrclibHit
	if err := json.NewDecoder(resp.Body).Decode(&hits); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return transient(ctxErr)
		}
		return notFound(fmt.Errorf("%w: decode: %w", ErrUnexpectedResponse, err))
	}
	for _, h := range hits {
		if text, ok := h.text(); ok {
			return found(NewResult(text, SourceLRCLib))
		}
	}
	return notFound(ErrNoMatch)
}
