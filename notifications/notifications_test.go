package notifications_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.senan.xyz/ytlyric/notifications"
)

func TestAddURI(t *testing.T) {
	t.Parallel()

	var n notifications.Notifications
	require.NoError(t, n.AddURI(notifications.NotFound, "ntfy://ntfy.sh/lyrics"))
	require.NoError(t, n.AddURI(notifications.Complete, "logger://"))
	require.NoError(t, n.AddURI(notifications.Found, "logger://"))

	assert.ErrorIs(t, n.AddURI("sync-error", "logger://"), notifications.ErrUnknownEvent)
	assert.ErrorIs(t, n.AddURI(notifications.Found, "no scheme"), notifications.ErrInvalidURI)
	assert.ErrorIs(t, n.AddURI(notifications.Found, "://bad"), notifications.ErrInvalidURI)

	var got []string
	n.IterMappings(func(e notifications.Event, uri string) {
		got = append(got, string(e)+" "+uri)
	})
	assert.Equal(t, []string{
		"complete logger://",
		"found logger://",
		"not-found ntfy://ntfy.sh/lyrics",
	}, got)
}

func TestSendNoMappings(t *testing.T) {
	t.Parallel()

	var n notifications.Notifications
	n.Send(context.Background(), notifications.Found, "nothing to do")

	var nilN *notifications.Notifications
	nilN.Sendf(context.Background(), notifications.Complete, "%d tracks", 3)
}
