// Package tabs keeps a set of UI tabs mounted at once and switches between
// them by toggling visibility instead of destroying and recreating them.
//
// The Manager owns every tab's surface and renderer, tracks the single
// active tab and announces activation changes on its event bus. Rendering,
// surfaces and the content container are capabilities supplied by the host
// (see Renderer, Surface and Container).
//
// A Manager is not safe for concurrent use. Call it from one goroutine;
// listeners invoked during an operation may call back into it.
package tabs

import (
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/Mr-Dark-debug/tabkeep/internal/eventbus"
)

// Event names the manager emits to a tab's key.
const (
	EventActivate   = "activate"
	EventDeactivate = "deactivate"
)

// Lifecycle operations reported to a Recorder.
const (
	OpCreate    = "create"
	OpUpdate    = "update"
	OpSwitch    = "switch"
	OpDelete    = "delete"
	OpDuplicate = "duplicate"
)

// Lifecycle is a record of one externally observable state change.
type Lifecycle struct {
	Op string
	// Key is the tab the operation targeted.
	Key string
	// Active is the active key after the operation.
	Active string
	// Previous is the active key before a switch.
	Previous string
	// Data is the tab data after the operation.
	Data Data
	// PriorData is the tab data before an update.
	PriorData Data
}

// Recorder receives lifecycle records. It must not block.
type Recorder interface {
	RecordLifecycle(rec Lifecycle)
}

// Option configures a Manager.
type Option func(*Manager)

// WithStyle sets the style and class applied to every tab surface.
func WithStyle(style StyleConfig) Option {
	return func(m *Manager) { m.style = style }
}

// WithIDGenerator replaces the key generator used for specs without a key.
func WithIDGenerator(gen func() string) Option {
	return func(m *Manager) {
		if gen != nil {
			m.newKey = gen
		}
	}
}

// WithLogger sets the diagnostics logger for the manager and its bus.
func WithLogger(logger *log.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithRecorder attaches a lifecycle recorder.
func WithRecorder(r Recorder) Option {
	return func(m *Manager) { m.recorder = r }
}

// Manager is the single source of truth for the tab set and the active tab.
type Manager struct {
	tabs      []*Tab
	activeKey string
	container Container
	emitter   *eventbus.Bus

	notify   func()
	style    StyleConfig
	newKey   func() string
	logger   *log.Logger
	recorder Recorder
}

// NewManager creates a manager. notify is invoked after every externally
// observable state change so a host can redraw its tab strip; it may be nil.
func NewManager(notify func(), opts ...Option) *Manager {
	m := &Manager{
		notify: notify,
		newKey: uuid.NewString,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.emitter = eventbus.New(m.logger)
	m.emitUpdate()
	return m
}

// Emitter returns the manager's event bus.
func (m *Manager) Emitter() *eventbus.Bus {
	return m.emitter
}

// Tabs returns the live tabs in creation order. The slice is a copy.
func (m *Manager) Tabs() []*Tab {
	out := make([]*Tab, len(m.tabs))
	copy(out, m.tabs)
	return out
}

// ActiveTabKey returns the active key, or "" when no tab is active.
func (m *Manager) ActiveTabKey() string {
	return m.activeKey
}

// SetContentContainer binds the container tab surfaces are appended to.
func (m *Manager) SetContentContainer(c Container) {
	m.container = c
}

// InitializeTabs creates one tab per spec, then activates the first spec's
// declared key, or else the first tab this call created. Duplicate keys are
// logged and skipped; any other error stops initialization.
func (m *Manager) InitializeTabs(specs []Spec) error {
	first := ""
	for _, spec := range specs {
		tab, err := m.CreateTab(spec)
		if err != nil {
			if IsDuplicate(err) {
				continue
			}
			return err
		}
		if first == "" {
			first = tab.Key
		}
	}
	if len(specs) == 0 {
		return nil
	}
	if specs[0].Key != "" {
		first = specs[0].Key
	}
	m.SwitchTab(first)
	return nil
}

// GetTabByKey looks up a live tab.
func (m *Manager) GetTabByKey(key string) (*Tab, bool) {
	if i := m.indexOf(key); i >= 0 {
		return m.tabs[i], true
	}
	return nil, false
}

// CreateTab mounts a new, hidden tab. A duplicate key returns an
// ErrDuplicateKey error and leaves every tab untouched.
func (m *Manager) CreateTab(spec Spec) (*Tab, error) {
	if m.container == nil {
		return nil, &Error{Op: OpCreate, Key: spec.Key, Err: ErrNotReady}
	}
	if spec.Component == nil {
		return nil, &Error{Op: OpCreate, Key: spec.Key, Err: ErrInvalidSpec}
	}

	key := spec.Key
	if key == "" {
		key = m.newKey()
	}
	if m.indexOf(key) >= 0 {
		m.logger.Warn("tab already exists", "tab", key)
		m.record(Lifecycle{Op: OpDuplicate, Key: key, Active: m.activeKey})
		return nil, &Error{Op: OpCreate, Key: key, Err: ErrDuplicateKey}
	}

	surface := spec.Surface
	if surface == nil {
		surface = m.container.CreateSurface(key)
	}
	if len(m.style.Style) > 0 {
		surface.ApplyStyle(m.style.Style)
	}
	if m.style.Class != "" {
		surface.AddClass(m.style.Class)
	}
	surface.SetDisplay(displayNone)
	if !m.container.Contains(surface) {
		m.container.Append(surface)
	}

	renderer := spec.Renderer
	if renderer == nil {
		renderer = surface.CreateRenderer()
	}

	tab := &Tab{
		Key:       key,
		Data:      spec.Data,
		Component: spec.Component,
		Props:     spec.Props,
		Surface:   surface,
		Renderer:  renderer,
	}
	if tab.Data == nil {
		tab.Data = Data{}
	}
	tab.ctx = newContext(tab, m)
	tab.ctx.mount()
	mountComponent(tab)
	m.renderTab(tab)

	m.tabs = append(m.tabs, tab)
	m.logger.Debug("tab created", "tab", key, "component", spec.Component.Name())
	m.record(Lifecycle{Op: OpCreate, Key: key, Active: m.activeKey, Data: tab.Data})

	m.renderAll()
	return tab, nil
}

// UpdateTab overwrites the non-nil fields of patch on the tab and re-renders.
func (m *Manager) UpdateTab(key string, patch Patch) (*Tab, error) {
	tab, ok := m.GetTabByKey(key)
	if !ok {
		return nil, &Error{Op: OpUpdate, Key: key, Err: ErrNotFound}
	}

	prior := tab.Data
	if patch.Data != nil {
		tab.Data = patch.Data
	}
	if patch.Props != nil {
		tab.Props = patch.Props
	}
	if patch.Component != nil {
		unmountComponent(tab)
		tab.Component = patch.Component
		mountComponent(tab)
	}

	m.renderTab(tab)
	m.record(Lifecycle{Op: OpUpdate, Key: key, Active: m.activeKey, Data: tab.Data, PriorData: prior})

	m.renderAll()
	return tab, nil
}

// SwitchTab makes key the active tab. The previous active tab is sent
// "deactivate" before anything changes; key is then sent "activate", even
// when it was already active.
func (m *Manager) SwitchTab(key string) {
	if key == "" {
		return
	}

	previous := m.activeKey
	if previous != "" && previous != key {
		m.emitter.Emit(eventbus.Event{Key: previous, Name: EventDeactivate})
	}

	visible := m.style.visibleDisplay()
	for _, tab := range m.Tabs() {
		if tab.Key == key {
			tab.Surface.SetDisplay(visible)
		} else {
			tab.Surface.SetDisplay(displayNone)
		}
	}

	m.activeKey = key
	m.syncActive()
	m.emitter.Emit(eventbus.Event{Key: key, Name: EventActivate})

	m.record(Lifecycle{Op: OpSwitch, Key: key, Active: key, Previous: previous})
	m.emitUpdate()
}

// DeleteTab unmounts and removes a tab. When the active tab is deleted the
// last remaining tab becomes active.
func (m *Manager) DeleteTab(key string) {
	i := m.indexOf(key)
	if i < 0 {
		m.logger.Warn("cannot delete tab: tab does not exist", "tab", key)
		return
	}
	tab := m.tabs[i]

	unmountComponent(tab)
	tab.Renderer.Unmount()
	tab.ctx.unmount()
	if m.container != nil && m.container.Contains(tab.Surface) {
		m.container.Remove(tab.Surface)
	}
	tab.removed = true
	m.tabs = append(m.tabs[:i:i], m.tabs[i+1:]...)

	if m.activeKey == key {
		m.activeKey = ""
		if n := len(m.tabs); n > 0 {
			m.SwitchTab(m.tabs[n-1].Key)
		}
	}
	m.record(Lifecycle{Op: OpDelete, Key: key, Active: m.activeKey, Data: tab.Data})

	m.renderAll()
}

// Restyle replaces the style config and reapplies it to every surface,
// keeping each surface's current visibility.
func (m *Manager) Restyle(style StyleConfig) {
	m.style = style
	visible := style.visibleDisplay()
	for _, tab := range m.Tabs() {
		if len(style.Style) > 0 {
			tab.Surface.ApplyStyle(style.Style)
		}
		if style.Class != "" {
			tab.Surface.AddClass(style.Class)
		}
		if tab.Key == m.activeKey {
			tab.Surface.SetDisplay(visible)
		} else {
			tab.Surface.SetDisplay(displayNone)
		}
	}
	m.renderAll()
}

// renderTab renders one tab's current component bound to its context.
func (m *Manager) renderTab(tab *Tab) {
	tab.Renderer.Render(Element{Component: tab.Component, Props: tab.Props, Context: tab.ctx})
}

// renderAll re-renders every live tab, then notifies the host. Tabs are
// re-rendered unconditionally because siblings may read shared state
// through their contexts.
func (m *Manager) renderAll() {
	for _, tab := range m.Tabs() {
		if tab.removed {
			continue
		}
		m.renderTab(tab)
	}
	m.emitUpdate()
}

func mountComponent(tab *Tab) {
	if mc, ok := tab.Component.(Mounter); ok {
		mc.Mount(tab.ctx)
	}
}

func unmountComponent(tab *Tab) {
	if uc, ok := tab.Component.(Unmounter); ok {
		uc.Unmount(tab.ctx)
	}
}

// syncActive brings every context's active flag in line with activeKey.
// Each context reads activeKey itself, so a switch made from an
// OnActiveChange callback leaves the flags consistent.
func (m *Manager) syncActive() {
	for _, tab := range m.Tabs() {
		tab.ctx.sync()
	}
}

func (m *Manager) emitUpdate() {
	if m.notify != nil {
		m.notify()
	}
}

func (m *Manager) record(rec Lifecycle) {
	if m.recorder != nil {
		m.recorder.RecordLifecycle(rec)
	}
}

func (m *Manager) indexOf(key string) int {
	for i, tab := range m.tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
