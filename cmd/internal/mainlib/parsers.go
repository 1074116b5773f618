package mainlib

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"strings"

	"go.senan.xyz/ytlyric/notifications"
	"go.senan.xyz/ytlyric/pathformat"
	"go.senan.xyz/ytlyric/researchlink"
)

var _ flag.Value = (*pathFormatParser)(nil)
var _ flag.Value = (*notificationsParser)(nil)
var _ flag.Value = (*researchLinkParser)(nil)

type pathFormatParser struct{ *pathformat.Format }

func (pf *pathFormatParser) Set(value string) error {
	return pf.Parse(value)
}
func (pf pathFormatParser) String() string {
	if pf.Format == nil {
		return ""
	}
	return pf.Format.String()
}

type notificationsParser struct{ *notifications.Notifications }

func (n *notificationsParser) Set(value string) error {
	eventsRaw, uri, ok := strings.Cut(value, " ")
	if !ok {
		return fmt.Errorf("invalid notification uri format. expected eg \"ev1,ev2 uri\"")
	}
	var lineErrs []error
	for _, ev := range strings.Split(eventsRaw, ",") {
		ev, uri = strings.TrimSpace(ev), strings.TrimSpace(uri)
		err := n.AddURI(notifications.Event(ev), uri)
		lineErrs = append(lineErrs, err)
	}
	return errors.Join(lineErrs...)
}
func (n notificationsParser) String() string {
	if n.Notifications == nil {
		return ""
	}
	var parts []string
	n.Notifications.IterMappings(func(e notifications.Event, uri string) {
		url, _ := url.Parse(uri)
		parts = append(parts, fmt.Sprintf("%s: %s://%s/...", e, url.Scheme, url.Host))
	})
	return strings.Join(parts, ", ")
}

type researchLinkParser struct{ *researchlink.Builder }

func (r *researchLinkParser) Set(value string) error {
	name, value, _ := strings.Cut(strings.TrimSpace(value), " ")
	name, value = strings.TrimSpace(name), strings.TrimSpace(value)
	return r.AddSource(name, value)
}
func (r researchLinkParser) String() string {
	if r.Builder == nil {
		return ""
	}
	var names []string
	for name := range r.IterSources() {
		names = append(names, name)
	}
	return strings.Join(names, ", ")
}
