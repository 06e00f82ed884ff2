package tabs

// TabSnapshot is a plain-data view of one tab.
type TabSnapshot struct {
	Key       string `json:"key" yaml:"key"`
	Component string `json:"component" yaml:"component"`
	Active    bool   `json:"active" yaml:"active"`
	Visible   bool   `json:"visible" yaml:"visible"`
	Data      Data   `json:"data,omitempty" yaml:"data,omitempty"`
}

// Snapshot is a plain-data view of the manager.
type Snapshot struct {
	Active string        `json:"active" yaml:"active"`
	Tabs   []TabSnapshot `json:"tabs" yaml:"tabs"`
}

// Snapshot returns the current tab set in creation order.
func (m *Manager) Snapshot() Snapshot {
	snap := Snapshot{Active: m.activeKey, Tabs: make([]TabSnapshot, 0, len(m.tabs))}
	for _, tab := range m.tabs {
		name := ""
		if tab.Component != nil {
			name = tab.Component.Name()
		}
		snap.Tabs = append(snap.Tabs, TabSnapshot{
			Key:       tab.Key,
			Component: name,
			Active:    tab.Key == m.activeKey,
			Visible:   tab.Surface.Display() != displayNone,
			Data:      tab.Data,
		})
	}
	return snap
}
