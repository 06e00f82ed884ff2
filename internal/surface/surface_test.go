package surface

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/require"

	"github.com/Mr-Dark-debug/tabkeep/internal/tabs"
)

type named string

func (n named) Name() string { return string(n) }

type greeting struct{}

func (greeting) Name() string { return "greeting" }

func (greeting) View(ctx *tabs.Context, props tabs.Props) string {
	return "hello " + props["who"].(string)
}

func TestToStyle(t *testing.T) {
	s := ToStyle(lipgloss.NewStyle(), map[string]string{
		"bold":       "true",
		"padding":    "1 2",
		"width":      "30",
		"text-align": "center",
		"border":     "rounded",
		"display":    "flex",
		"unknown":    "ignored",
	})

	require.True(t, s.GetBold())
	require.Equal(t, 1, s.GetPaddingTop())
	require.Equal(t, 2, s.GetPaddingLeft())
	require.Equal(t, 30, s.GetWidth())
	require.Equal(t, lipgloss.Center, s.GetAlignHorizontal())
	require.Equal(t, lipgloss.RoundedBorder(), s.GetBorderStyle())
}

func TestToStyleIgnoresBadValues(t *testing.T) {
	s := ToStyle(lipgloss.NewStyle(), map[string]string{
		"bold":    "maybe",
		"padding": "1 2 3 4 5",
		"width":   "-3",
	})

	require.False(t, s.GetBold())
	require.Zero(t, s.GetPaddingTop())
	require.Zero(t, s.GetWidth())
}

func TestToStyleOverlappingNames(t *testing.T) {
	props := map[string]string{
		"background":       "#111111",
		"background-color": "#222222",
		"align":            "right",
		"text-align":       "center",
	}
	for i := 0; i < 50; i++ {
		s := ToStyle(lipgloss.NewStyle(), props)
		require.Equal(t, lipgloss.Color("#222222"), s.GetBackground())
		require.Equal(t, lipgloss.Center, s.GetAlignHorizontal())
	}
}

func TestParseSides(t *testing.T) {
	sides, ok := parseSides("1px 2")
	require.True(t, ok)
	require.Equal(t, []int{1, 2}, sides)

	_, ok = parseSides("")
	require.False(t, ok)
}

func TestClassesLaterWins(t *testing.T) {
	c := Classes{
		"base":   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
		"accent": lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	}

	s := c.Resolve([]string{"base", "accent", "missing"})

	require.True(t, s.GetBold())
	require.Equal(t, lipgloss.Color("4"), s.GetForeground())
}

func TestPaneAddClassOnce(t *testing.T) {
	p := NewPane("a")
	p.AddClass("tab")
	p.AddClass("tab")
	p.AddClass("")

	require.Equal(t, []string{"tab"}, p.Classes())
}

func TestRendererDrawsView(t *testing.T) {
	p := NewPane("a")
	r := p.CreateRenderer()

	r.Render(tabs.Element{Component: greeting{}, Props: tabs.Props{"who": "tabs"}})
	require.Equal(t, "hello tabs", p.Content())

	r.Render(tabs.Element{Component: named("plain")})
	require.Equal(t, "plain", p.Content())
	require.Equal(t, 2, r.(*Renderer).Renders())

	r.Unmount()
	require.Empty(t, p.Content())
	require.False(t, r.(*Renderer).Mounted())
}

func TestContainerRendersVisiblePanesOnly(t *testing.T) {
	c := NewContainer(nil)
	a := c.CreateSurface("a")
	b := c.CreateSurface("b")
	c.Append(a)
	c.Append(b)
	c.Append(a)
	a.CreateRenderer().Render(tabs.Element{Component: named("alpha")})
	b.CreateRenderer().Render(tabs.Element{Component: named("beta")})

	a.SetDisplay("none")
	b.SetDisplay("block")
	out := c.Render(20)

	require.Equal(t, 2, c.Len())
	require.Contains(t, out, "beta")
	require.NotContains(t, out, "alpha")
	require.Equal(t, 20, lipgloss.Width(out))
}

func TestContainerInlinePanesShareRow(t *testing.T) {
	c := NewContainer(nil)
	for _, key := range []string{"left", "right"} {
		p := c.CreateSurface(key)
		c.Append(p)
		p.SetDisplay("inline")
		p.CreateRenderer().Render(tabs.Element{Component: named(key)})
	}

	out := c.Render(0)

	require.Equal(t, 1, strings.Count(out, "\n")+1)
	require.Contains(t, out, "leftright")
}

func TestContainerRemove(t *testing.T) {
	c := NewContainer(nil)
	a := c.CreateSurface("a")
	c.Append(a)

	c.Remove(a)

	require.False(t, c.Contains(a))
	require.Zero(t, c.Len())
	require.Empty(t, c.Render(10))
}

func TestContainerAsTabHost(t *testing.T) {
	c := NewContainer(Classes{"tab": lipgloss.NewStyle().Bold(true)})
	m := tabs.NewManager(nil, tabs.WithStyle(tabs.StyleConfig{Class: "tab"}))
	m.SetContentContainer(c)

	require.NoError(t, m.InitializeTabs([]tabs.Spec{
		{Key: "one", Component: greeting{}, Props: tabs.Props{"who": "one"}},
		{Key: "two", Component: greeting{}, Props: tabs.Props{"who": "two"}},
	}))
	require.Contains(t, c.Render(0), "hello one")

	m.SwitchTab("two")
	out := c.Render(0)
	require.Contains(t, out, "hello two")
	require.NotContains(t, out, "hello one")

	two, _ := m.GetTabByKey("two")
	require.Equal(t, []string{"tab"}, two.Surface.(*Pane).Classes())
	require.True(t, two.Surface.(*Pane).Style().GetBold())
}
