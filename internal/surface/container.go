package surface

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Mr-Dark-debug/tabkeep/internal/tabs"
)

// Container is the content area tab panes are attached to. It is not safe
// for concurrent use; it lives on the same goroutine as the tab manager.
type Container struct {
	children []tabs.Surface
	classes  Classes
}

// NewContainer creates an empty container resolving classes against classes.
func NewContainer(classes Classes) *Container {
	if classes == nil {
		classes = Classes{}
	}
	return &Container{classes: classes}
}

// RegisterClass adds or replaces a named style.
func (c *Container) RegisterClass(name string, style lipgloss.Style) {
	c.classes[name] = style
}

// CreateSurface returns a new detached pane owned by the container.
func (c *Container) CreateSurface(key string) tabs.Surface {
	p := NewPane(key)
	p.owner = c
	return p
}

// Append attaches s as the last child.
func (c *Container) Append(s tabs.Surface) {
	if s == nil || c.Contains(s) {
		return
	}
	if p, ok := s.(*Pane); ok && p.owner == nil {
		p.owner = c
	}
	c.children = append(c.children, s)
}

// Remove detaches s.
func (c *Container) Remove(s tabs.Surface) {
	for i, child := range c.children {
		if child == s {
			c.children = append(c.children[:i:i], c.children[i+1:]...)
			return
		}
	}
}

// Contains reports whether s is attached.
func (c *Container) Contains(s tabs.Surface) bool {
	for _, child := range c.children {
		if child == s {
			return true
		}
	}
	return false
}

// Len returns the number of attached surfaces, hidden ones included.
func (c *Container) Len() int { return len(c.children) }

// Refresh redraws every mounted pane.
func (c *Container) Refresh() {
	for _, child := range c.children {
		if p, ok := child.(*Pane); ok && p.renderer != nil {
			p.renderer.Refresh()
		}
	}
}

// Render draws the visible panes. Consecutive "inline" or "inline-block"
// panes share a row; every other visible pane starts a new one.
func (c *Container) Render(width int) string {
	var rows []string
	var inline []string
	flush := func() {
		if len(inline) > 0 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, inline...))
			inline = nil
		}
	}

	for _, child := range c.children {
		p, ok := child.(*Pane)
		if !ok || p.Hidden() {
			continue
		}
		switch p.display {
		case "inline", "inline-block":
			inline = append(inline, p.Render(0))
		default:
			flush()
			rows = append(rows, p.Render(width))
		}
	}
	flush()
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
