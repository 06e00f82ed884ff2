package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader produces the top bar with the tab strip:
//
//	TABKEEP │ 1 Notes  2 Counter  3 Inbox
func renderHeader(m *Model) string {
	brand := headerBrandStyle.Render("TABKEEP")
	sep := headerSepStyle.Render(" │ ")

	active := m.manager.ActiveTabKey()
	var items []string
	for i, tab := range m.manager.Tabs() {
		label := truncate(tabTitle(tab.Key, tab.Props), 18)
		if i < 9 {
			label = tabIndexStyle.Render(fmt.Sprintf("%d ", i+1)) + label
		}
		if tab.Key == active {
			items = append(items, tabActiveStyle.Render(label))
		} else {
			items = append(items, tabItemStyle.Render(label))
		}
	}

	strip := strings.Join(items, "")
	if strip == "" {
		strip = tabItemStyle.Render("no tabs")
	}

	return headerBarStyle.Width(m.width).Render(brand + sep + strip)
}

// renderFooter produces the bottom status bar with keyboard hints.
func renderFooter(m *Model) string {
	var left string
	switch {
	case m.editing:
		left = statusStyle.Render("edit: " + m.draft + cursorStyle.Render(" "))
	case m.err != nil:
		left = statusErrStyle.Render(m.err.Error())
	case m.statusMsg != "":
		left = statusStyle.Render(m.statusMsg)
	}

	var right string
	if m.editing {
		right = renderHints([]hint{{"enter", "save"}, {"esc", "cancel"}})
	} else {
		right = m.help.View(m.keys)
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return lipgloss.NewStyle().
		Background(colorBgSurface).
		Width(m.width).
		Render(bar)
}

type hint struct {
	key  string
	desc string
}

func renderHints(hints []hint) string {
	var parts []string
	for _, h := range hints {
		parts = append(parts,
			hintKeyStyle.Render(h.key)+" "+hintDescStyle.Render(h.desc))
	}
	return strings.Join(parts, hintDescStyle.Render("  "))
}
