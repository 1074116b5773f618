package lyrics

import (
	"fmt"
	"strings"
)

type Query struct {
	Title  string
	Artist string
}

func (q Query) String() string {
	return fmt.Sprintf("%q by %q", q.Title, q.Artist)
}

func (q Query) key() string {
	return strings.ToLower(q.Title) + "|" + strings.ToLower(q.Artist)
}

// Generate returns every title variant paired with every artist variant, titles
// in the outer loop. The order is the probe order, so the best guesses come first.
// No two queries are equal ignoring case.
func Generate(title, artist string) []Query {
	titles := TitleVariants(title)
	artists := ArtistVariants(artist)

	seen := make(map[string]struct{}, len(titles)*len(artists))
	queries := make([]Query, 0, len(titles)*len(artists))
	for _, t := range titles {
		for _, a := range artists {
			q := Query{Title: t, Artist: a}
			if _, ok := seen[q.key()]; ok {
				continue
			}
			seen[q.key()] = struct{}{}
			queries = append(queries, q)
		}
	}
	return queries
}
