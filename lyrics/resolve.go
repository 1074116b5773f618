package lyrics

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

type State uint8

const (
	Idle State = iota
	ProbingStructured
	ProbingScraping
	Succeeded
	Exhausted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case ProbingStructured:
		return "probing-structured"
	case ProbingScraping:
		return "probing-scraping"
	case Succeeded:
		return "succeeded"
	case Exhausted:
		return "exhausted"
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// Resolver tries the structured provider over every query variant, then the
// scraping provider over the same variants from the start. Probes are strictly
// sequential and the first hit wins. A nil provider skips its phase.
type Resolver struct {
	Structured Provider
	Scraping   Provider

	// OnTransition, if set, is called on every state change.
	OnTransition func(from, to State)
}

// resolution is the state of one Resolve call.
type resolution struct {
	state   State
	queries []Query
	result  Result
	err     error
}

func (r *Resolver) Resolve(ctx context.Context, title, artist string) (Result, error) {
	if strings.TrimSpace(artist) == "" {
		slog.WarnContext(ctx, "no artist metadata, using title only", "title", title, "err", ErrIncompleteInput)
	}

	res := &resolution{state: Idle}
	for res.state != Succeeded && res.state != Exhausted {
		from := res.state
		res.state = r.step(ctx, res, title, artist)
		if r.OnTransition != nil {
			r.OnTransition(from, res.state)
		}
	}

	if res.state == Exhausted {
		slog.DebugContext(ctx, "no lyrics found", "title", title, "artist", artist, "queries", len(res.queries))
		if res.err != nil {
			return Result{}, fmt.Errorf("%w: %w", ErrLyricsNotFound, res.err)
		}
		return Result{}, ErrLyricsNotFound
	}
	return res.result, nil
}

func (r *Resolver) step(ctx context.Context, res *resolution, title, artist string) State {
	switch res.state {
	case Idle:
		res.queries = Generate(title, artist)
		return ProbingStructured
	case ProbingStructured:
		return r.probe(ctx, res, r.Structured, ProbingScraping)
	case ProbingScraping:
		return r.probe(ctx, res, r.Scraping, Exhausted)
	}
	return res.state
}

// probe runs one provider over all queries in order. It moves to Succeeded on the
// first hit, to next once the queries run out, and to Exhausted if ctx is done.
func (r *Resolver) probe(ctx context.Context, res *resolution, p Provider, next State) State {
	if p == nil {
		return next
	}
	for _, q := range res.queries {
		if err := ctx.Err(); err != nil {
			res.err = err
			return Exhausted
		}

		slog.DebugContext(ctx, "trying", "source", p.Source(), "query", q)

		out := p.Attempt(ctx, q)
		switch out.Status {
		case Found:
			slog.DebugContext(ctx, "found", "source", p.Source(), "query", q, "kind", out.Result.Kind)
			res.result = out.Result
			return Succeeded
		case Transient:
			slog.DebugContext(ctx, "transient error", "source", p.Source(), "query", q, "err", out.Err)
		}
	}
	if err := ctx.Err(); err != nil {
		res.err = err
		return Exhausted
	}
	return next
}
