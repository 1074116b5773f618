package lyrics

import (
	"regexp"
	"slices"
	"strings"

	"github.com/rainycape/unidecode"
	"golang.org/x/text/unicode/norm"
)

var (
	parenExpr     = regexp.MustCompile(`\(.*?\)`)
	bracketExpr   = regexp.MustCompile(`\[.*?\]`)
	separatorExpr = regexp.MustCompile(`\s*[:-]\s*`)
	nonAlnumExpr  = regexp.MustCompile(`[^a-zA-Z0-9\s]`)
	spaceExpr     = regexp.MustCompile(`\s+`)

	// word separators only match whole words so "Daft Punk" or "Bobby" survive
	artistSepExpr = regexp.MustCompile(`(?i),|&|\bfeat\b\.?|\bft\b\.?|\bby\b|\bofficial\b|\baudio\b|\bvideo\b`)
	punctExpr     = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
)

var quoteReplacer = strings.NewReplacer(`"`, "", `'`, "")

// CleanTitle is the most aggressive title normalisation. Annotations like
// "(Official Video)" and "[HD]" are removed, and the result is folded to plain
// ASCII letters, digits and single spaces.
func CleanTitle(title string) string {
	title = parenExpr.ReplaceAllString(title, "")
	title = bracketExpr.ReplaceAllString(title, "")
	title = quoteReplacer.Replace(title)
	title = separatorExpr.ReplaceAllString(title, " ")
	title = unidecode.Unidecode(title)
	title = nonAlnumExpr.ReplaceAllString(title, "")
	title = spaceExpr.ReplaceAllString(title, " ")
	return strings.TrimSpace(title)
}

// TitleVariants returns the title candidates from heaviest to lightest
// normalisation. The original is always last, it's the weakest guess.
func TitleVariants(title string) []string {
	title = norm.NFC.String(title)
	raw := strings.TrimSpace(title)

	vs := uniq([]string{
		CleanTitle(title),
		strings.TrimSpace(parenExpr.ReplaceAllString(title, "")),
		strings.TrimSpace(quoteReplacer.Replace(title)),
		strings.TrimSpace(nonAlnumExpr.ReplaceAllString(title, "")),
	}, false)
	vs = slices.DeleteFunc(vs, func(v string) bool { return v == raw })
	if raw != "" {
		vs = append(vs, raw)
	}
	return vs
}

// ArtistTokens splits a credit like "A ft. B & C" into its individual artists.
func ArtistTokens(artist string) []string {
	var tokens []string
	for _, tok := range artistSepExpr.Split(norm.NFC.String(artist), -1) {
		if tok = strings.TrimSpace(tok); tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

func CleanArtist(artist string) string {
	joined := strings.Join(ArtistTokens(artist), " ")
	joined = punctExpr.ReplaceAllString(joined, "")
	joined = spaceExpr.ReplaceAllString(joined, " ")
	return strings.TrimSpace(joined)
}

// ArtistVariants returns artist candidates in priority order. Individual
// artists come first, then the combined credit in several join styles, both
// in the original and reversed order, then forms built from the raw string.
func ArtistVariants(artist string) []string {
	raw := strings.TrimSpace(norm.NFC.String(artist))
	tokens := ArtistTokens(raw)
	reversed := reverse(tokens)
	words := strings.Split(raw, " ")

	var vs []string
	vs = append(vs, tokens...)
	for _, ts := range [][]string{tokens, reversed} {
		vs = append(vs,
			strings.Join(ts, ", "),
			strings.Join(ts, "  "),
			strings.Join(ts, " "),
			strings.Join(ts, ""),
		)
	}
	vs = append(vs,
		strings.Join(words, ", "),
		strings.Join(reverse(words), ", "),
		CleanArtist(raw),
	)

	vs = uniq(vs, true)
	if len(vs) == 0 {
		return []string{""}
	}
	return vs
}

// uniq keeps the first of each non-empty string, optionally comparing case-insensitively.
func uniq(vs []string, fold bool) []string {
	seen := make(map[string]struct{}, len(vs))
	var out []string
	for _, v := range vs {
		if strings.TrimSpace(v) == "" {
			continue
		}
		k := v
		if fold {
			k = strings.ToLower(v)
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, v)
	}
	return out
}

func reverse[T any](s []T) []T {
	r := make([]T, len(s))
	for i, v := range s {
		r[len(s)-1-i] = v
	}
	return r
}
