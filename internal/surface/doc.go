// Package surface is the terminal mounting layer for the tab manager.
//
// A Container is the shared content area, a Pane is one tab's mount point and
// a Renderer draws a tab's component into its pane. Pane styling uses
// CSS-like properties translated to lipgloss (see ToStyle), and a pane whose
// display is "none" stays attached to its container but is not drawn.
//
// Components that implement View produce the pane content; any other
// component is drawn as its name.
package surface
