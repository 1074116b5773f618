package lyrics

import (
	"context"
	"errors"
	"regexp"
	"strings"
)

var (
	ErrLyricsNotFound     = errors.New("lyrics not found")
	ErrNetwork            = errors.New("network failure")
	ErrUnexpectedResponse = errors.New("unexpected response shape")
	ErrNoMatch            = errors.New("no match")
	ErrIncompleteInput    = errors.New("incomplete input")
)

type Source string

const (
	SourceLRCLib Source = "lrclib"
	SourceGenius Source = "genius"
)

type Kind uint8

const (
	Plain Kind = iota
	Synced
)

func (k Kind) String() string {
	switch k {
	case Synced:
		return "synced"
	default:
		return "plain"
	}
}

// Ext is the file extension a sink should use for lyrics of this kind.
func (k Kind) Ext() string {
	switch k {
	case Synced:
		return ".lrc"
	default:
		return ".txt"
	}
}

const UnsyncedMarker = "[UNSYNCED LYRICS]"

// matches the opening of an LRC line tag like [00:01.00] or [1:02]
var timestampExpr = regexp.MustCompile(`\[\d+:\d`)

// Classify reports whether text carries synced line timestamps.
func Classify(text string) Kind {
	if timestampExpr.MatchString(text) {
		return Synced
	}
	return Plain
}

type Result struct {
	Kind    Kind
	Content string
	Source  Source
}

// NewResult classifies text by content alone. Plain content is prefixed with
// [UnsyncedMarker] so the distinction survives once the result is written out.
func NewResult(text string, src Source) Result {
	text = strings.TrimSpace(text)
	kind := Classify(text)
	if kind == Plain {
		text = UnsyncedMarker + "\n\n" + text
	}
	return Result{Kind: kind, Content: text, Source: src}
}

type Status uint8

const (
	NotFound Status = iota
	Found
	Transient
)

func (s Status) String() string {
	switch s {
	case Found:
		return "found"
	case Transient:
		return "transient"
	default:
		return "not-found"
	}
}

// Outcome is the result of a single provider attempt. Err holds the reason
// for NotFound and Transient outcomes and may be nil for a clean miss.
type Outcome struct {
	Status Status
	Result Result
	Err    error
}

func found(r Result) Outcome      { return Outcome{Status: Found, Result: r} }
func notFound(err error) Outcome  { return Outcome{Status: NotFound, Err: err} }
func transient(err error) Outcome { return Outcome{Status: Transient, Err: err} }

// requestOutcome maps an HTTP transport error to an outcome. Cancellation and
// network failures are transient, they say nothing about whether lyrics exist.
func requestOutcome(ctx context.Context, err error) Outcome {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return transient(ctxErr)
	}
	return transient(errors.Join(ErrNetwork, err))
}

type Provider interface {
	Attempt(ctx context.Context, q Query) Outcome
	Source() Source
}
