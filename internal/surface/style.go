package surface

import (
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// borders maps the "border" property to lipgloss border sets.
var borders = map[string]lipgloss.Border{
	"normal":  lipgloss.NormalBorder(),
	"rounded": lipgloss.RoundedBorder(),
	"thick":   lipgloss.ThickBorder(),
	"double":  lipgloss.DoubleBorder(),
	"hidden":  lipgloss.HiddenBorder(),
	"block":   lipgloss.BlockBorder(),
}

// ToStyle converts CSS-like properties into a lipgloss style layered on base.
// Unknown properties and unparsable values are ignored; "display" is owned by
// the pane and never styled.
//
// Supported properties:
//
//	color, background, border-color   any lipgloss color ("#58a6ff", "12")
//	bold, italic, underline, faint     "true" / "false"
//	padding, margin                    one to four integers, CSS order
//	border                             normal|rounded|thick|double|hidden|block
//	width, height                      integer cells
//	text-align (or align)              left|center|right
//
// Properties apply in key order, so where two names set the same attribute
// the later one wins: background-color over background, text-align over
// align.
func ToStyle(base lipgloss.Style, props map[string]string) lipgloss.Style {
	s := base
	for _, prop := range slices.Sorted(maps.Keys(props)) {
		v := strings.TrimSpace(props[prop])
		switch strings.ToLower(prop) {
		case "color":
			s = s.Foreground(lipgloss.Color(v))
		case "background", "background-color":
			s = s.Background(lipgloss.Color(v))
		case "border-color":
			s = s.BorderForeground(lipgloss.Color(v))
		case "bold":
			if b, err := strconv.ParseBool(v); err == nil {
				s = s.Bold(b)
			}
		case "italic":
			if b, err := strconv.ParseBool(v); err == nil {
				s = s.Italic(b)
			}
		case "underline":
			if b, err := strconv.ParseBool(v); err == nil {
				s = s.Underline(b)
			}
		case "faint":
			if b, err := strconv.ParseBool(v); err == nil {
				s = s.Faint(b)
			}
		case "padding":
			if sides, ok := parseSides(v); ok {
				s = s.Padding(sides...)
			}
		case "margin":
			if sides, ok := parseSides(v); ok {
				s = s.Margin(sides...)
			}
		case "border":
			if b, ok := borders[strings.ToLower(v)]; ok {
				s = s.BorderStyle(b).BorderTop(true).BorderBottom(true).BorderLeft(true).BorderRight(true)
			} else if v == "none" {
				s = s.UnsetBorderStyle().BorderTop(false).BorderBottom(false).BorderLeft(false).BorderRight(false)
			}
		case "width":
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				s = s.Width(n)
			}
		case "height":
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				s = s.Height(n)
			}
		case "text-align", "align":
			switch strings.ToLower(v) {
			case "left":
				s = s.Align(lipgloss.Left)
			case "center":
				s = s.Align(lipgloss.Center)
			case "right":
				s = s.Align(lipgloss.Right)
			}
		}
	}
	return s
}

// parseSides parses "1", "1 2", "1 2 3" or "1 2 3 4".
func parseSides(v string) ([]int, bool) {
	fields := strings.Fields(v)
	if len(fields) == 0 || len(fields) > 4 {
		return nil, false
	}
	sides := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(strings.TrimSuffix(f, "px"))
		if err != nil || n < 0 {
			return nil, false
		}
		sides = append(sides, n)
	}
	return sides, true
}

// Classes is a registry of named styles, the terminal counterpart of a
// stylesheet. When a pane has several classes the later one wins; inline
// properties are applied on top of all of them.
type Classes map[string]lipgloss.Style

// Resolve merges the named classes. Padding and margin are not carried over
// from classes (lipgloss does not inherit them); set them inline instead.
func (c Classes) Resolve(names []string) lipgloss.Style {
	s := lipgloss.NewStyle()
	for i := len(names) - 1; i >= 0; i-- {
		if cls, ok := c[names[i]]; ok {
			s = s.Inherit(cls)
		}
	}
	return s
}
