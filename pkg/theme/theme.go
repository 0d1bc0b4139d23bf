// Package theme defines the colour sets charts and exports are drawn with.
//
// Only text, background, grid and table-header colours are themed. Series
// colours always come from the dataset so a chart looks the same in every
// theme.
package theme

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Theme is a named colour set. Colours are #RRGGBB strings.
type Theme struct {
	Name       string `toml:"-" json:"name"`
	Background string `toml:"background" json:"background"`
	Text       string `toml:"text" json:"text"`
	Grid       string `toml:"grid" json:"grid"`
	Header     string `toml:"header" json:"header"`
}

var (
	Light = Theme{Name: "light", Background: "#ffffff", Text: "#333333", Grid: "#e0e0e0", Header: "#f0f0f0"}
	Dark  = Theme{Name: "dark", Background: "#1e1e1e", Text: "#e8e8e8", Grid: "#444444", Header: "#2c2c2c"}
)

// Set maps theme names to themes.
type Set map[string]Theme

// Defaults returns the built-in light and dark themes.
func Defaults() Set {
	return Set{Light.Name: Light, Dark.Name: Dark}
}

// Merge returns a copy of s with the non-empty colours of overrides applied.
func (s Set) Merge(overrides map[string]Theme) Set {
	out := make(Set, len(s)+len(overrides))
	for k, v := range s {
		out[k] = v
	}
	for name, o := range overrides {
		base := out[name]
		base.Name = name
		if o.Background != "" {
			base.Background = o.Background
		}
		if o.Text != "" {
			base.Text = o.Text
		}
		if o.Grid != "" {
			base.Grid = o.Grid
		}
		if o.Header != "" {
			base.Header = o.Header
		}
		out[name] = base
	}
	return out
}

// Get returns the named theme. An empty name selects light.
func (s Set) Get(name string) (Theme, error) {
	if name == "" {
		name = Light.Name
	}
	t, ok := s[strings.ToLower(name)]
	if !ok {
		return Theme{}, fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(s.Names(), ", "))
	}
	return t, nil
}

// Names returns the theme names in sorted order.
func (s Set) Names() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// RGB parses a #RGB or #RRGGBB colour. Malformed colours yield black.
func RGB(hex string) (r, g, b uint8) {
	h := strings.TrimPrefix(hex, "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return 0, 0, 0
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return 0, 0, 0
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v)
}
