package tabs

// Data is the caller payload carried by a tab. The manager never reads it.
type Data map[string]any

// Props is the property bag handed to a tab's component on every render.
type Props map[string]any

// Component is an opaque renderable unit. The manager only passes it to a
// Renderer; Name is used for diagnostics and snapshots.
type Component interface {
	Name() string
}

// Mounter is implemented by components that set up subscriptions once they
// are bound to a tab. Mount runs on creation and when the component is
// swapped in by UpdateTab.
type Mounter interface {
	Mount(ctx *Context)
}

// Unmounter is implemented by components that release what Mount set up.
// Unmount runs on deletion and when UpdateTab replaces the component.
type Unmounter interface {
	Unmount(ctx *Context)
}

// Element is one render request: a component, its props and the context of
// the tab it is mounted in.
type Element struct {
	Component Component
	Props     Props
	Context   *Context
}

// Renderer renders elements into the surface it is bound to.
type Renderer interface {
	Render(el Element)
	Unmount()
}

// Surface is a tab's mount point.
type Surface interface {
	// ApplyStyle sets CSS-like style properties.
	ApplyStyle(style map[string]string)
	// AddClass adds a class name.
	AddClass(class string)
	// SetDisplay sets the display value. "none" hides the surface.
	SetDisplay(display string)
	// Display returns the current display value.
	Display() string
	// CreateRenderer returns a renderer bound to this surface.
	CreateRenderer() Renderer
}

// Container is the shared content area every tab surface is appended to.
type Container interface {
	CreateSurface(key string) Surface
	Append(s Surface)
	Remove(s Surface)
	Contains(s Surface) bool
}

// Tab is one persistently mounted unit of UI.
type Tab struct {
	Key       string
	Data      Data
	Component Component
	Props     Props
	Surface   Surface
	Renderer  Renderer

	ctx     *Context
	removed bool
}

// Context returns the binding handed to the tab's component.
func (t *Tab) Context() *Context {
	return t.ctx
}

// Spec describes a tab to create.
type Spec struct {
	// Key is optional; a key is generated when empty.
	Key       string
	Component Component
	Props     Props
	Data      Data
	// Surface and Renderer let a host supply existing mount infrastructure.
	Surface  Surface
	Renderer Renderer
}

// Patch carries the fields UpdateTab overwrites. Nil fields are kept.
type Patch struct {
	Data      Data
	Props     Props
	Component Component
}

// StyleConfig is applied to every tab surface at creation.
type StyleConfig struct {
	Style map[string]string
	Class string
}

// visibleDisplay is the display value of the active tab's surface.
func (c StyleConfig) visibleDisplay() string {
	if d, ok := c.Style["display"]; ok && d != "" && d != displayNone {
		return d
	}
	return displayBlock
}

const (
	displayNone  = "none"
	displayBlock = "block"
)
