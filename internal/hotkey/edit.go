package hotkey

import (
	"fmt"
	"slices"
	"strings"

	"tilecfg/internal/core"
)

// NewShortcut builds an enabled shortcut from chord text and an action.
func NewShortcut(chord, action string) (Shortcut, error) {
	mods, key, err := ParseChord(chord)
	if err != nil {
		return Shortcut{}, err
	}
	return Shortcut{Modifiers: mods, Key: key, Action: strings.TrimSpace(action), Enabled: true}, nil
}

// Shortcut returns the shortcut with the given ID.
func (c *Config) Shortcut(id string) (Shortcut, bool) {
	i := c.index(id)
	if i < 0 {
		return Shortcut{}, false
	}
	return c.Shortcuts[i], true
}

// Add validates s and appends it enabled. A valid Category is kept as an
// explicit choice; otherwise the category is inferred from the action.
func (c *Config) Add(s Shortcut) (Shortcut, error) {
	s, err := normalize(s)
	if err != nil {
		return Shortcut{}, err
	}
	if s.ID == "" {
		for n := len(c.Shortcuts) + 1; ; n++ {
			id := fmt.Sprintf("shortcut-%d", n)
			if c.index(id) < 0 {
				s.ID = id
				break
			}
		}
	} else if c.index(s.ID) >= 0 {
		return Shortcut{}, core.Invalid("shortcut id", s.ID, "already in use")
	}

	if s.Category.Valid() {
		s.ExplicitCategory = true
	} else {
		s.Category = InferCategory(s.Action)
		s.ExplicitCategory = false
	}
	s.Enabled = true
	c.Shortcuts = append(c.Shortcuts, s)
	return s, nil
}

// Update replaces the chord, action and description of the shortcut with
// s.ID. The enabled flag is kept. The category is re-inferred from the new
// action unless the user chose it explicitly.
func (c *Config) Update(s Shortcut) error {
	i := c.index(s.ID)
	if i < 0 {
		return fmt.Errorf("shortcut %s: %w", s.ID, core.ErrNotFound)
	}
	s, err := normalize(s)
	if err != nil {
		return err
	}
	old := c.Shortcuts[i]
	s.Enabled = old.Enabled
	s.ExplicitCategory = old.ExplicitCategory
	if old.ExplicitCategory {
		s.Category = old.Category
	} else {
		s.Category = InferCategory(s.Action)
	}
	c.Shortcuts[i] = s
	return nil
}

// SetCategory assigns a category and marks it explicit.
func (c *Config) SetCategory(id string, cat Category) error {
	i := c.index(id)
	if i < 0 {
		return fmt.Errorf("shortcut %s: %w", id, core.ErrNotFound)
	}
	if !cat.Valid() {
		return core.Invalid("category", string(cat), "unknown category")
	}
	c.Shortcuts[i].Category = cat
	c.Shortcuts[i].ExplicitCategory = true
	return nil
}

func (c *Config) Delete(id string) error {
	i := c.index(id)
	if i < 0 {
		return fmt.Errorf("shortcut %s: %w", id, core.ErrNotFound)
	}
	c.Shortcuts = slices.Delete(c.Shortcuts, i, i+1)
	return nil
}

// Toggle flips a shortcut's enabled flag and returns the new value.
func (c *Config) Toggle(id string) (bool, error) {
	i := c.index(id)
	if i < 0 {
		return false, fmt.Errorf("shortcut %s: %w", id, core.ErrNotFound)
	}
	c.Shortcuts[i].Enabled = !c.Shortcuts[i].Enabled
	return c.Shortcuts[i].Enabled, nil
}

func (c *Config) index(id string) int {
	return slices.IndexFunc(c.Shortcuts, func(s Shortcut) bool { return s.ID == id })
}

// normalize validates the chord tokens, action and description of s and
// puts the modifiers in canonical order.
func normalize(s Shortcut) (Shortcut, error) {
	mods, key, err := ParseChord(FormatChord(s.Modifiers, s.Key))
	if err != nil {
		return Shortcut{}, err
	}
	s.Modifiers, s.Key = mods, key

	s.Action = strings.TrimSpace(s.Action)
	if s.Action == "" {
		return Shortcut{}, core.Invalid("action", "", "must not be empty")
	}
	if strings.ContainsAny(s.Action, "\r\n") {
		return Shortcut{}, core.Invalid("action", s.Action, "must be a single line")
	}
	s.Description = strings.TrimSpace(s.Description)
	if strings.ContainsAny(s.Description, "\r\n") {
		return Shortcut{}, core.Invalid("description", s.Description, "must be a single line")
	}
	return s, nil
}
