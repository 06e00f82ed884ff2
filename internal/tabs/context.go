package tabs

import "github.com/Mr-Dark-debug/tabkeep/internal/eventbus"

// Context is the binding a mounted tab's component sees: its key and data,
// whether it is active, and event bus access scoped to its key.
type Context struct {
	tab      *Tab
	manager  *Manager
	active   bool
	mounted  bool
	onActive []func(active bool)
}

func newContext(tab *Tab, m *Manager) *Context {
	return &Context{tab: tab, manager: m}
}

// mount reads the initial active flag and resyncs it on activate/deactivate.
// The manager also syncs every context whenever the active key changes.
func (c *Context) mount() {
	if c.mounted {
		return
	}
	c.mounted = true
	c.active = c.manager.ActiveTabKey() == c.tab.Key
	c.On(EventActivate, func(eventbus.Received) { c.sync() })
	c.On(EventDeactivate, func(eventbus.Received) { c.sync() })
}

// unmount drops every subscription held under the tab's key.
func (c *Context) unmount() {
	if !c.mounted {
		return
	}
	c.mounted = false
	c.active = false
	c.UnsubscribeAll()
}

// sync derives the active flag from the manager's current active key. A
// listener may switch tabs again mid-dispatch, so the event that led here is
// not a reliable source.
func (c *Context) sync() {
	c.setActive(c.mounted && c.manager.activeKey == c.tab.Key)
}

func (c *Context) setActive(active bool) {
	if c.active == active {
		return
	}
	c.active = active
	for _, fn := range append([]func(bool){}, c.onActive...) {
		fn(active)
	}
}

// Key returns the tab key.
func (c *Context) Key() string { return c.tab.Key }

// Data returns the tab's current data.
func (c *Context) Data() Data { return c.tab.Data }

// Active reports whether the tab is the active one.
func (c *Context) Active() bool { return c.active }

// Tabs returns the manager's live tabs.
func (c *Context) Tabs() []*Tab { return c.manager.Tabs() }

// Manager returns the owning manager.
func (c *Context) Manager() *Manager { return c.manager }

// OnActiveChange registers fn to run whenever the tab becomes active or
// inactive.
func (c *Context) OnActiveChange(fn func(active bool)) {
	if fn != nil {
		c.onActive = append(c.onActive, fn)
	}
}

// Emit sends event to the tab with key to, or to every tab when to is empty.
// The sender is this tab.
func (c *Context) Emit(to, event string, payload any) {
	c.manager.emitter.Emit(eventbus.Event{Key: to, Sender: c.tab.Key, Name: event, Payload: payload})
}

// Subscribe registers l for event under this tab's key.
func (c *Context) Subscribe(event string, l *eventbus.Listener) {
	c.manager.emitter.Subscribe(c.tab.Key, event, l)
}

// On subscribes fn for event under this tab's key.
func (c *Context) On(event string, fn func(eventbus.Received)) *eventbus.Listener {
	return c.manager.emitter.On(c.tab.Key, event, fn)
}

// Unsubscribe removes l from event.
func (c *Context) Unsubscribe(event string, l *eventbus.Listener) {
	c.manager.emitter.Unsubscribe(c.tab.Key, event, l)
}

// UnsubscribeEvent removes every listener this tab has for event.
func (c *Context) UnsubscribeEvent(event string) {
	c.manager.emitter.UnsubscribeEvent(c.tab.Key, event)
}

// UnsubscribeAll removes every subscription of this tab. Active keeps
// tracking the manager through its own sync.
func (c *Context) UnsubscribeAll() {
	c.manager.emitter.UnsubscribeAll(c.tab.Key)
}

// Update patches this tab.
func (c *Context) Update(patch Patch) (*Tab, error) {
	return c.manager.UpdateTab(c.tab.Key, patch)
}

// CreateTab creates a sibling tab.
func (c *Context) CreateTab(spec Spec) (*Tab, error) { return c.manager.CreateTab(spec) }

// UpdateTab patches any tab.
func (c *Context) UpdateTab(key string, patch Patch) (*Tab, error) {
	return c.manager.UpdateTab(key, patch)
}

// SwitchTab activates key.
func (c *Context) SwitchTab(key string) { c.manager.SwitchTab(key) }

// DeleteTab deletes key.
func (c *Context) DeleteTab(key string) { c.manager.DeleteTab(key) }

// GetTabByKey looks up a live tab.
func (c *Context) GetTabByKey(key string) (*Tab, bool) { return c.manager.GetTabByKey(key) }
