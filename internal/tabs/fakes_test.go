package tabs

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/charmbracelet/log"
)

type fakeComponent string

func (c fakeComponent) Name() string { return string(c) }

// lifecycleComponent logs Mount/Unmount calls as "<name>:<call>:<key>".
type lifecycleComponent struct {
	name  string
	calls *[]string
}

func (c lifecycleComponent) Name() string { return c.name }

func (c lifecycleComponent) Mount(ctx *Context) {
	*c.calls = append(*c.calls, c.name+":mount:"+ctx.Key())
}

func (c lifecycleComponent) Unmount(ctx *Context) {
	*c.calls = append(*c.calls, c.name+":unmount:"+ctx.Key())
}

type fakeRenderer struct {
	surface   *fakeSurface
	renders   int
	last      Element
	unmounted bool
}

func (r *fakeRenderer) Render(el Element) {
	r.renders++
	r.last = el
}

func (r *fakeRenderer) Unmount() { r.unmounted = true }

type fakeSurface struct {
	id       string
	style    map[string]string
	classes  []string
	display  string
	renderer *fakeRenderer
}

func (s *fakeSurface) ApplyStyle(style map[string]string) {
	if s.style == nil {
		s.style = map[string]string{}
	}
	for k, v := range style {
		s.style[k] = v
	}
}

func (s *fakeSurface) AddClass(class string) { s.classes = append(s.classes, class) }
func (s *fakeSurface) SetDisplay(d string)   { s.display = d }
func (s *fakeSurface) Display() string       { return s.display }

func (s *fakeSurface) CreateRenderer() Renderer {
	s.renderer = &fakeRenderer{surface: s}
	return s.renderer
}

type fakeContainer struct {
	children []Surface
	created  int
}

func (c *fakeContainer) CreateSurface(key string) Surface {
	c.created++
	return &fakeSurface{id: key}
}

func (c *fakeContainer) Append(s Surface) { c.children = append(c.children, s) }

func (c *fakeContainer) Remove(s Surface) {
	for i, child := range c.children {
		if child == s {
			c.children = append(c.children[:i], c.children[i+1:]...)
			return
		}
	}
}

func (c *fakeContainer) Contains(s Surface) bool {
	for _, child := range c.children {
		if child == s {
			return true
		}
	}
	return false
}

type recorderFunc func(Lifecycle)

func (f recorderFunc) RecordLifecycle(rec Lifecycle) { f(rec) }

type harness struct {
	m         *Manager
	container *fakeContainer
	logs      *bytes.Buffer
	notified  int
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	h := &harness{container: &fakeContainer{}, logs: &bytes.Buffer{}}
	seq := 0
	base := []Option{
		WithLogger(log.New(h.logs)),
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("gen-%d", seq)
		}),
	}
	h.m = NewManager(func() { h.notified++ }, append(base, opts...)...)
	h.m.SetContentContainer(h.container)
	return h
}

func (h *harness) create(t *testing.T, key string) *Tab {
	t.Helper()
	tab, err := h.m.CreateTab(Spec{Key: key, Component: fakeComponent("view")})
	if err != nil {
		t.Fatalf("CreateTab(%q) failed: %v", key, err)
	}
	return tab
}

func surfaceOf(tab *Tab) *fakeSurface {
	return tab.Surface.(*fakeSurface)
}
