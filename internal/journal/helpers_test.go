package journal

import (
	"encoding/json"

	"github.com/Mr-Dark-debug/tabkeep/internal/tabs"
)

func jsonUnmarshal(s string, v any) error { return json.Unmarshal([]byte(s), v) }

type nopComponent struct{}

func (nopComponent) Name() string { return "nop" }

type nopRenderer struct{}

func (nopRenderer) Render(tabs.Element) {}
func (nopRenderer) Unmount()            {}

type nopSurface struct{ display string }

func (s *nopSurface) ApplyStyle(map[string]string)  {}
func (s *nopSurface) AddClass(string)               {}
func (s *nopSurface) SetDisplay(d string)           { s.display = d }
func (s *nopSurface) Display() string               { return s.display }
func (s *nopSurface) CreateRenderer() tabs.Renderer { return nopRenderer{} }

type nopContainer struct{}

func (nopContainer) CreateSurface(string) tabs.Surface { return &nopSurface{} }
func (nopContainer) Append(tabs.Surface)               {}
func (nopContainer) Remove(tabs.Surface)               {}
func (nopContainer) Contains(tabs.Surface) bool        { return false }
