package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/Mr-Dark-debug/tabkeep/internal/config"
	"github.com/Mr-Dark-debug/tabkeep/internal/eventbus"
	"github.com/Mr-Dark-debug/tabkeep/internal/surface"
	"github.com/Mr-Dark-debug/tabkeep/internal/tabs"
	"github.com/Mr-Dark-debug/tabkeep/pkg/timeutil"
)

// errNoTabs is reported when an action needs an active tab.
var errNoTabs = errors.New("no active tab")

// ────────────────────────────────────────────────────────────
// Model
// ────────────────────────────────────────────────────────────

// Options configures NewModel.
type Options struct {
	Config config.Config
	// Recorder receives tab lifecycle records; nil disables recording.
	Recorder tabs.Recorder
	Logger   *log.Logger
	// IDGenerator overrides tab key generation for new tabs.
	IDGenerator func() string
}

// hostState is shared by every copy of the Model bubbletea passes around.
type hostState struct {
	revision int
	opened   int
}

// Model is the root BubbleTea model. It owns the tab manager and the
// surface container tab panes are mounted in; everything the user sees
// inside the body is drawn by the tabs themselves.
type Model struct {
	manager   *tabs.Manager
	container *surface.Container
	state     *hostState
	logger    *log.Logger

	keys KeyMap
	help help.Model

	width  int
	height int

	// Note editing
	editing bool
	draft   string

	statusMsg string
	err       error
}

// NewModel creates the host and opens the configured tabs.
func NewModel(opts Options) (Model, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	state := &hostState{}
	container := surface.NewContainer(Classes())

	managerOpts := []tabs.Option{
		tabs.WithStyle(opts.Config.TabStyle()),
		tabs.WithLogger(logger),
		tabs.WithIDGenerator(opts.IDGenerator),
	}
	if opts.Recorder != nil {
		managerOpts = append(managerOpts, tabs.WithRecorder(opts.Recorder))
	}
	manager := tabs.NewManager(func() { state.revision++ }, managerOpts...)
	manager.SetContentContainer(container)

	specs := make([]tabs.Spec, 0, len(opts.Config.Tabs))
	for _, tc := range opts.Config.Tabs {
		spec, err := specFromConfig(tc)
		if err != nil {
			return Model{}, err
		}
		specs = append(specs, spec)
	}
	if err := manager.InitializeTabs(specs); err != nil {
		return Model{}, fmt.Errorf("opening configured tabs: %w", err)
	}
	h := help.New()
	h.Styles.ShortKey = hintKeyStyle
	h.Styles.ShortDesc = hintDescStyle
	h.Styles.FullKey = hintKeyStyle
	h.Styles.FullDesc = hintDescStyle

	return Model{
		manager:   manager,
		container: container,
		state:     state,
		logger:    logger,
		keys:      DefaultKeyMap(),
		help:      h,
		statusMsg: fmt.Sprintf("%d tabs", len(manager.Tabs())),
	}, nil
}

// Manager returns the tab manager.
func (m Model) Manager() *tabs.Manager { return m.manager }

// Revision counts manager change notifications.
func (m Model) Revision() int { return m.state.revision }

// ────────────────────────────────────────────────────────────
// Messages
// ────────────────────────────────────────────────────────────

// ConfigReloadedMsg is sent by the config watcher after the file changes.
type ConfigReloadedMsg struct {
	Config config.Config
	Err    error
}

// ────────────────────────────────────────────────────────────
// Init
// ────────────────────────────────────────────────────────────

func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle("tabkeep")
}

// ────────────────────────────────────────────────────────────
// Update
// ────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case ConfigReloadedMsg:
		if msg.Err != nil {
			m.err = fmt.Errorf("config reload: %w", msg.Err)
			m.logger.Warn("config reload failed", "err", msg.Err)
			return m, nil
		}
		m.manager.Restyle(msg.Config.TabStyle())
		m.err = nil
		m.statusMsg = "config reloaded"
		m.logger.Info("config reloaded", "class", msg.Config.Style.Class)
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.handleEditKey(msg)
		}
		return m.handleKey(msg)
	}

	return m, nil
}

// handleKey routes keyboard input outside note editing.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Next):
		m.cycle(1)

	case key.Matches(msg, m.keys.Prev):
		m.cycle(-1)

	case key.Matches(msg, m.keys.Jump):
		i := int(msg.String()[0] - '1')
		all := m.manager.Tabs()
		if i < len(all) {
			m.manager.SwitchTab(all[i].Key)
		}

	case key.Matches(msg, m.keys.NewNote):
		m.state.opened++
		m.open(tabs.Spec{
			Component: Note{},
			Props:     tabs.Props{"title": fmt.Sprintf("Note %d", m.state.opened)},
			Data:      tabs.Data{"text": ""},
		})

	case key.Matches(msg, m.keys.NewCounter):
		m.state.opened++
		m.open(tabs.Spec{
			Component: Counter{},
			Props:     tabs.Props{"title": fmt.Sprintf("Counter %d", m.state.opened)},
			Data:      tabs.Data{"count": 0},
		})

	case key.Matches(msg, m.keys.Close):
		if active, ok := m.activeTab(); ok {
			title := tabTitle(active.Key, active.Props)
			m.manager.DeleteTab(active.Key)
			m.statusMsg = "closed " + title
		} else {
			m.err = errNoTabs
		}

	case key.Matches(msg, m.keys.Increment):
		m.bump(1)

	case key.Matches(msg, m.keys.Decrement):
		m.bump(-1)

	case key.Matches(msg, m.keys.Edit):
		if active, ok := m.activeTab(); ok {
			if _, isNote := active.Component.(Note); isNote {
				m.editing = true
				m.draft, _ = active.Data["text"].(string)
			}
		}

	case key.Matches(msg, m.keys.Ping):
		m.manager.Emitter().Emit(eventbus.Event{Name: EventPing, Payload: timeutil.NowNano()})
		m.statusMsg = "ping sent"
	}

	return m, nil
}

// handleEditKey edits the active note's draft text.
func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.editing = false
		if active, ok := m.activeTab(); ok {
			data := copyData(active.Data)
			data["text"] = m.draft
			if _, err := m.manager.UpdateTab(active.Key, tabs.Patch{Data: data}); err != nil {
				m.err = err
			}
		}
		m.draft = ""
	case tea.KeyEsc:
		m.editing = false
		m.draft = ""
	case tea.KeyBackspace:
		if r := []rune(m.draft); len(r) > 0 {
			m.draft = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.draft += " "
	case tea.KeyRunes:
		m.draft += string(msg.Runes)
	case tea.KeyCtrlC:
		return m, tea.Quit
	}
	return m, nil
}

// open creates a tab and shows it.
func (m *Model) open(spec tabs.Spec) {
	tab, err := m.manager.CreateTab(spec)
	if err != nil {
		m.err = err
		return
	}
	m.manager.SwitchTab(tab.Key)
	m.statusMsg = "opened " + tabTitle(tab.Key, tab.Props)
}

// cycle moves the active tab by delta, wrapping around.
func (m *Model) cycle(delta int) {
	all := m.manager.Tabs()
	if len(all) == 0 {
		return
	}
	cur := 0
	for i, tab := range all {
		if tab.Key == m.manager.ActiveTabKey() {
			cur = i
			break
		}
	}
	next := ((cur+delta)%len(all) + len(all)) % len(all)
	m.manager.SwitchTab(all[next].Key)
}

// bump changes the active counter through UpdateTab.
func (m *Model) bump(delta int) {
	active, ok := m.activeTab()
	if !ok {
		m.err = errNoTabs
		return
	}
	if _, isCounter := active.Component.(Counter); !isCounter {
		m.statusMsg = "not a counter"
		return
	}
	data := copyData(active.Data)
	data["count"] = toInt(data["count"]) + delta
	if _, err := m.manager.UpdateTab(active.Key, tabs.Patch{Data: data}); err != nil {
		m.err = err
	}
}

func (m *Model) activeTab() (*tabs.Tab, bool) {
	key := m.manager.ActiveTabKey()
	if key == "" {
		return nil, false
	}
	return m.manager.GetTabByKey(key)
}

// ────────────────────────────────────────────────────────────
// View
// ────────────────────────────────────────────────────────────

func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	header := renderHeader(&m)
	footer := renderFooter(&m)
	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if bodyHeight < 0 {
		bodyHeight = 0
	}

	// Activation changes do not re-render tabs, so redraw before showing.
	m.container.Refresh()

	var body string
	if len(m.manager.Tabs()) == 0 {
		body = emptyStateStyle.Render("No tabs open. Press n for a note or c for a counter.")
	} else {
		body = m.container.Render(m.width)
	}
	body = lipgloss.NewStyle().
		Width(m.width).
		Height(bodyHeight).
		MaxHeight(bodyHeight).
		Render(body)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

