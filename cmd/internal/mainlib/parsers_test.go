package mainlib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.senan.xyz/ytlyric/notifications"
	"go.senan.xyz/ytlyric/pathformat"
	"go.senan.xyz/ytlyric/researchlink"
)

func TestNotificationsParser(t *testing.T) {
	t.Parallel()

	var n notifications.Notifications
	p := notificationsParser{&n}

	require.NoError(t, p.Set("found,not-found ntfy://ntfy.sh/lyrics"))
	require.NoError(t, p.Set("complete logger://"))
	assert.Equal(t, "complete: logger:///..., found: ntfy://ntfy.sh/..., not-found: ntfy://ntfy.sh/...", p.String())

	assert.Error(t, p.Set("found"))
	assert.ErrorIs(t, p.Set("found,bogus ntfy://ntfy.sh/x"), notifications.ErrUnknownEvent)
}

func TestPathFormatParser(t *testing.T) {
	t.Parallel()

	var pf pathformat.Format
	p := pathFormatParser{&pf}

	require.NoError(t, p.Set(`{{ .Artist | safepath }}/{{ .Title | safepath }}{{ .Ext }}`))
	assert.Equal(t, `{{ .Artist | safepath }}/{{ .Title | safepath }}{{ .Ext }}`, p.String())

	assert.ErrorIs(t, p.Set(`static{{ .Ext }}`), pathformat.ErrAmbiguousFormat)
	assert.Equal(t, `{{ .Artist | safepath }}/{{ .Title | safepath }}{{ .Ext }}`, p.String()) // unchanged on error

	assert.Equal(t, "", pathFormatParser{}.String())
}

func TestResearchLinkParser(t *testing.T) {
	t.Parallel()

	var b researchlink.Builder
	p := researchLinkParser{&b}

	require.NoError(t, p.Set(`google https://www.google.com/search?q={{ .Title | query }}`))
	require.NoError(t, p.Set(` ddg   https://duckduckgo.com/?q={{ .Title | query }} `))
	assert.Equal(t, "google, ddg", p.String())

	results, err := b.Build(researchlink.Query{Title: "a b"})
	require.NoError(t, err)
	assert.Equal(t, "https://duckduckgo.com/?q=a+b", results[1].URL)

	assert.Error(t, p.Set(`bad {{ .Title`))
}
