package pathformat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.senan.xyz/ytlyric/pathformat"
)

func TestValidation(t *testing.T) {
	t.Parallel()

	var pf pathformat.Format
	_, err := pf.Execute(pathformat.Data{})
	assert.Error(t, err) // we didn't initalise with Parse() yet

	// bad/ambiguous format
	assert.ErrorIs(t, pf.Parse(""), pathformat.ErrInvalidFormat)
	assert.ErrorIs(t, pf.Parse(" "), pathformat.ErrInvalidFormat)
	assert.ErrorIs(t, pf.Parse("{{ .Title "), pathformat.ErrInvalidFormat)

	assert.ErrorIs(t, pf.Parse(`lyrics{{ .Ext }}`), pathformat.ErrAmbiguousFormat)
	assert.ErrorIs(t, pf.Parse(`{{ .Artist }}/lyrics{{ .Ext }}`), pathformat.ErrAmbiguousFormat)

	// bad data
	assert.ErrorIs(t, pf.Parse(`{{ .Nope }}`), pathformat.ErrBadData)
	assert.ErrorIs(t, pf.Parse(`{{ .Artist }}//{{ .Title }}`), pathformat.ErrBadData)
	assert.ErrorIs(t, pf.Parse(`../{{ .Title }}{{ .Ext }}`), pathformat.ErrBadData)
	assert.ErrorIs(t, pf.Parse(`/abs/{{ .Title }}{{ .Ext }}`), pathformat.ErrBadData)
	assert.ErrorIs(t, pf.Parse(`{{ .Title }}/`), pathformat.ErrBadData)

	// good
	assert.NoError(t, pf.Parse(pathformat.Default))
	assert.NoError(t, pf.Parse(`{{ .Artists | join "; " | safepath }}/{{ .Title | safepath }}{{ .Ext }}`))
}

func TestPathFormat(t *testing.T) {
	t.Parallel()

	var pf pathformat.Format
	require.NoError(t, pf.Parse(`{{ .Artists | join ", " | default "Unknown" | safepath }}/{{ .Title | safepath }}{{ .Ext }}`))

	path, err := pf.Execute(pathformat.Data{
		Title:   "Bohemian Rhapsody (Official Video)",
		Artist:  "Queen",
		Artists: []string{"Queen"},
		Ext:     ".lrc",
	})
	require.NoError(t, err)
	assert.Equal(t, `Queen/Bohemian Rhapsody (Official Video).lrc`, path)

	path, err = pf.Execute(pathformat.Data{Title: "AC/DC: Live?", Ext: ".txt"})
	require.NoError(t, err)
	assert.Equal(t, `Unknown/AC DC Live.txt`, path)
}

func TestPathFormatDefault(t *testing.T) {
	t.Parallel()

	var pf pathformat.Format
	require.NoError(t, pf.Parse(pathformat.Default))

	path, err := pf.Execute(pathformat.Data{Title: `Song "Live" <2020>`, Ext: ".txt"})
	require.NoError(t, err)
	assert.Equal(t, `Song Live 2020.txt`, path)

	_, err = pf.Execute(pathformat.Data{Title: "???", Ext: ""})
	assert.ErrorIs(t, err, pathformat.ErrBadData)

	assert.Equal(t, pathformat.Default, pf.String())
}
