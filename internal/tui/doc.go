// Package tui implements the tabkeep terminal user interface.
//
// The host is a BubbleTea model that owns a tabs.Manager and the
// surface.Container every tab pane is mounted in. Tabs stay mounted while
// hidden; switching only flips pane visibility.
//
// Component architecture:
//
//	model.go      root model, message routing, Init/Update/View
//	keys.go       keybindings and help
//	theme.go      centralized color + style definitions, pane classes
//	header.go     tab strip, status line and keyboard hints
//	components.go note, counter and inbox tab components
//	helpers.go    titles, conversions, truncation
package tui
