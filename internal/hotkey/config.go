// Package hotkey models the hotkey daemon (skhd) configuration file: an
// ordered list of shortcuts, each a chord bound to a shell command.
package hotkey

import (
	"slices"
	"strings"
)

// Category groups shortcuts by what their action does.
type Category string

const (
	CategoryFocus  Category = "focus"
	CategoryMove   Category = "move"
	CategoryResize Category = "resize"
	CategoryLayout Category = "layout"
	CategorySpaces Category = "spaces"
	CategoryCustom Category = "custom"
)

// Categories lists every category in serialization order.
var Categories = []Category{
	CategoryFocus,
	CategoryMove,
	CategoryResize,
	CategoryLayout,
	CategorySpaces,
	CategoryCustom,
}

// Valid reports whether c is one of Categories.
func (c Category) Valid() bool {
	return slices.Contains(Categories, c)
}

// Label is the heading text used for c in the file.
func (c Category) Label() string {
	if c == "" {
		return ""
	}
	return strings.ToUpper(string(c[:1])) + string(c[1:])
}

// ParseCategory accepts a category name or label in any case.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	return c, c.Valid()
}

// Shortcut binds a chord to an action command.
type Shortcut struct {
	ID          string   `yaml:"id"`
	Modifiers   []string `yaml:"modifiers,omitempty"`
	Key         string   `yaml:"key"`
	Action      string   `yaml:"action"`
	Description string   `yaml:"description,omitempty"`
	Category    Category `yaml:"category"`
	Enabled     bool     `yaml:"enabled"`

	// ExplicitCategory is set once the user picked the category. Explicit
	// categories survive edits to the action; inferred ones are recomputed.
	ExplicitCategory bool `yaml:"explicit_category,omitempty"`
}

// Hotkey is the canonical chord string, e.g. "alt+shift-h". Two enabled
// shortcuts with the same Hotkey conflict.
func (s Shortcut) Hotkey() string {
	if len(s.Modifiers) == 0 {
		return s.Key
	}
	return strings.Join(s.Modifiers, "+") + "-" + s.Key
}

// Config is the structured form of the hotkey config file.
type Config struct {
	Shortcuts []Shortcut `yaml:"shortcuts"`
}

func NewConfig() *Config {
	return &Config{}
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	out := &Config{}
	if c.Shortcuts != nil {
		out.Shortcuts = make([]Shortcut, len(c.Shortcuts))
	}
	for i, s := range c.Shortcuts {
		s.Modifiers = slices.Clone(s.Modifiers)
		out.Shortcuts[i] = s
	}
	return out
}
