package tui

import (
	"fmt"
	"strings"

	"github.com/Mr-Dark-debug/tabkeep/internal/config"
	"github.com/Mr-Dark-debug/tabkeep/internal/eventbus"
	"github.com/Mr-Dark-debug/tabkeep/internal/tabs"
	"github.com/Mr-Dark-debug/tabkeep/pkg/timeutil"
)

// Component kinds a config can declare.
const (
	KindNote    = "note"
	KindCounter = "counter"
	KindInbox   = "inbox"
)

// EventPing is broadcast by the host; inbox tabs count what they receive.
const EventPing = "ping"

// Note shows a title and editable text.
type Note struct{}

func (Note) Name() string { return KindNote }

func (Note) View(ctx *tabs.Context, props tabs.Props) string {
	text, _ := ctx.Data()["text"].(string)
	if text == "" {
		text = labelStyle.Render("(empty: press enter to write)")
	} else {
		text = valueStyle.Render(text)
	}
	return strings.Join([]string{heading(ctx, props), "", text}, "\n")
}

// Counter shows an integer changed through UpdateTab.
type Counter struct{}

func (Counter) Name() string { return KindCounter }

func (Counter) View(ctx *tabs.Context, props tabs.Props) string {
	n := toInt(ctx.Data()["count"])
	return strings.Join([]string{
		heading(ctx, props),
		"",
		counterStyle.Render(fmt.Sprintf("%d", n)),
	}, "\n")
}

// Inbox records every ping it receives through its own context.
type Inbox struct{}

func (Inbox) Name() string { return KindInbox }

// Mount subscribes to pings for the life of the tab.
func (Inbox) Mount(ctx *tabs.Context) {
	ctx.On(EventPing, func(r eventbus.Received) {
		data := copyData(ctx.Data())
		data["received"] = toInt(data["received"]) + 1
		data["from"] = r.Sender
		if ns, ok := r.Payload.(int64); ok {
			data["last"] = ns
		}
		_, _ = ctx.Update(tabs.Patch{Data: data})
	})
}

// Unmount stops counting pings, e.g. when another component takes the tab.
func (Inbox) Unmount(ctx *tabs.Context) {
	ctx.UnsubscribeEvent(EventPing)
}

func (Inbox) View(ctx *tabs.Context, props tabs.Props) string {
	data := ctx.Data()
	lines := []string{
		heading(ctx, props),
		"",
		labelStyle.Render("received ") + valueStyle.Render(fmt.Sprintf("%d", toInt(data["received"]))),
	}
	if ns, ok := data["last"].(int64); ok {
		from, _ := data["from"].(string)
		if from == "" {
			from = "host"
		}
		lines = append(lines,
			labelStyle.Render("last     ")+valueStyle.Render(timeutil.FormatTimestamp(ns)+" from "+from))
	}
	return strings.Join(lines, "\n")
}

// heading renders the title line with the tab's activation state.
func heading(ctx *tabs.Context, props tabs.Props) string {
	badge := inactiveBadgeStyle.Render("○ inactive")
	if ctx.Active() {
		badge = activeBadgeStyle.Render("● active")
	}
	return titleStyle.Render(tabTitle(ctx.Key(), props)) + "  " + badge
}

// componentFor maps a config kind to its component.
func componentFor(kind string) (tabs.Component, error) {
	switch kind {
	case KindNote, "":
		return Note{}, nil
	case KindCounter:
		return Counter{}, nil
	case KindInbox:
		return Inbox{}, nil
	default:
		return nil, fmt.Errorf("unknown tab kind %q", kind)
	}
}

// specFromConfig builds the spec for a configured tab.
func specFromConfig(tc config.TabConfig) (tabs.Spec, error) {
	comp, err := componentFor(tc.Kind)
	if err != nil {
		return tabs.Spec{}, fmt.Errorf("tab %q: %w", tc.Key, err)
	}
	data := tabs.Data{}
	for k, v := range tc.Data {
		data[k] = v
	}
	return tabs.Spec{
		Key:       tc.Key,
		Component: comp,
		Props:     tabs.Props{"title": tc.Title},
		Data:      data,
	}, nil
}
