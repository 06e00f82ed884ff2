package surface

import (
	"slices"

	"github.com/charmbracelet/lipgloss"

	"github.com/Mr-Dark-debug/tabkeep/internal/tabs"
)

// View is implemented by components that draw themselves.
type View interface {
	tabs.Component
	View(ctx *tabs.Context, props tabs.Props) string
}

// Pane is one tab's mount point inside a Container.
type Pane struct {
	key      string
	props    map[string]string
	classes  []string
	display  string
	content  string
	owner    *Container
	renderer *Renderer
}

// NewPane creates a detached pane. Panes made by Container.CreateSurface
// resolve classes against that container's registry.
func NewPane(key string) *Pane {
	return &Pane{key: key, props: map[string]string{}}
}

// Key returns the key the pane was created for.
func (p *Pane) Key() string { return p.key }

// ApplyStyle merges style properties into the pane.
func (p *Pane) ApplyStyle(style map[string]string) {
	for k, v := range style {
		p.props[k] = v
	}
}

// AddClass adds a class name once.
func (p *Pane) AddClass(class string) {
	if class == "" || slices.Contains(p.classes, class) {
		return
	}
	p.classes = append(p.classes, class)
}

// Classes returns the pane's class names.
func (p *Pane) Classes() []string { return slices.Clone(p.classes) }

// SetDisplay sets the display value.
func (p *Pane) SetDisplay(display string) { p.display = display }

// Display returns the display value.
func (p *Pane) Display() string { return p.display }

// Hidden reports whether the pane is not drawn.
func (p *Pane) Hidden() bool { return p.display == "none" }

// Content returns the last drawn component output.
func (p *Pane) Content() string { return p.content }

// CreateRenderer binds a new renderer to the pane, replacing any previous one.
func (p *Pane) CreateRenderer() tabs.Renderer {
	p.renderer = &Renderer{pane: p}
	return p.renderer
}

// Style resolves the pane's classes and inline properties.
func (p *Pane) Style() lipgloss.Style {
	base := lipgloss.NewStyle()
	if p.owner != nil {
		base = p.owner.classes.Resolve(p.classes)
	}
	return ToStyle(base, p.props)
}

// Render draws the pane's content. When width is positive and no width was
// styled, the pane fills it.
func (p *Pane) Render(width int) string {
	s := p.Style()
	if width > 0 && s.GetWidth() == 0 {
		inner := width - s.GetHorizontalBorderSize() - s.GetHorizontalMargins()
		if inner > 0 {
			s = s.Width(inner)
		}
	}
	return s.Render(p.content)
}

// Renderer draws one tab's element into its pane.
type Renderer struct {
	pane    *Pane
	el      tabs.Element
	mounted bool
	renders int
}

// Render draws el and keeps it for Refresh.
func (r *Renderer) Render(el tabs.Element) {
	r.el = el
	r.mounted = true
	r.renders++
	r.pane.content = draw(el)
}

// Refresh redraws the last element, e.g. after a resize.
func (r *Renderer) Refresh() {
	if r.mounted {
		r.pane.content = draw(r.el)
	}
}

// Unmount clears the pane and releases the element.
func (r *Renderer) Unmount() {
	r.mounted = false
	r.el = tabs.Element{}
	r.pane.content = ""
}

// Mounted reports whether the renderer holds an element.
func (r *Renderer) Mounted() bool { return r.mounted }

// Renders returns how many times Render was called.
func (r *Renderer) Renders() int { return r.renders }

func draw(el tabs.Element) string {
	switch c := el.Component.(type) {
	case nil:
		return ""
	case View:
		return c.View(el.Context, el.Props)
	default:
		return c.Name()
	}
}
