package wm

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"tilecfg/internal/core"
)

func (l Layer) valid() bool {
	switch l {
	case LayerNone, LayerBelow, LayerNormal, LayerAbove:
		return true
	}
	return false
}

// Rule returns the rule with the given ID.
func (c *Config) Rule(id string) (Rule, bool) {
	i := c.ruleIndex(id)
	if i < 0 {
		return Rule{}, false
	}
	return c.Rules[i], true
}

// AddRule validates r and appends it enabled. An empty ID is replaced by the
// next free ordinal.
func (c *Config) AddRule(r Rule) (Rule, error) {
	if err := validateRule(r); err != nil {
		return Rule{}, err
	}
	if r.ID == "" {
		r.ID = c.nextID("rule", func(id string) bool { return c.ruleIndex(id) >= 0 })
	} else if c.ruleIndex(r.ID) >= 0 {
		return Rule{}, core.Invalid("rule id", r.ID, "already in use")
	}
	r.Enabled = true
	c.Rules = append(c.Rules, r)
	return r, nil
}

// UpdateRule replaces the rule with r.ID, keeping its enabled state.
func (c *Config) UpdateRule(r Rule) error {
	i := c.ruleIndex(r.ID)
	if i < 0 {
		return fmt.Errorf("rule %s: %w", r.ID, core.ErrNotFound)
	}
	if c.Rules[i].IsProtected() {
		return fmt.Errorf("rule %s: %w", r.ID, core.ErrProtected)
	}
	if err := validateRule(r); err != nil {
		return err
	}
	r.Enabled = c.Rules[i].Enabled
	c.Rules[i] = r
	return nil
}

// DeleteRule removes a rule. The protected self rule is never removed.
func (c *Config) DeleteRule(id string) error {
	i := c.ruleIndex(id)
	if i < 0 {
		return fmt.Errorf("rule %s: %w", id, core.ErrNotFound)
	}
	if c.Rules[i].IsProtected() {
		return fmt.Errorf("rule %s: %w", id, core.ErrProtected)
	}
	c.Rules = append(c.Rules[:i], c.Rules[i+1:]...)
	return nil
}

// ToggleRule flips a rule's enabled flag and returns the new value.
// The protected self rule always stays enabled.
func (c *Config) ToggleRule(id string) (bool, error) {
	i := c.ruleIndex(id)
	if i < 0 {
		return false, fmt.Errorf("rule %s: %w", id, core.ErrNotFound)
	}
	if c.Rules[i].IsProtected() {
		return true, fmt.Errorf("rule %s: %w", id, core.ErrProtected)
	}
	c.Rules[i].Enabled = !c.Rules[i].Enabled
	return c.Rules[i].Enabled, nil
}

// MoveRule moves a rule to index, clamped to the valid range. Rule order
// matters to the window manager: later rules override earlier ones.
func (c *Config) MoveRule(id string, index int) error {
	i := c.ruleIndex(id)
	if i < 0 {
		return fmt.Errorf("rule %s: %w", id, core.ErrNotFound)
	}
	r := c.Rules[i]
	rest := append(c.Rules[:i:i], c.Rules[i+1:]...)
	if index < 0 {
		index = 0
	}
	if index > len(rest) {
		index = len(rest)
	}
	out := make([]Rule, 0, len(c.Rules))
	out = append(out, rest[:index]...)
	out = append(out, r)
	out = append(out, rest[index:]...)
	c.Rules = out
	return nil
}

// singleLine rejects values that would split a directive across lines.
func singleLine(field, value string) error {
	if strings.ContainsAny(value, "\r\n") {
		return core.Invalid(field, value, "must be a single line")
	}
	return nil
}

func validateRule(r Rule) error {
	for _, f := range []struct{ name, value string }{{"app", r.App}, {"title", r.Title}, {"label", r.Label}} {
		if err := singleLine(f.name, f.value); err != nil {
			return err
		}
	}
	if r.App == "" && r.Title == "" {
		return core.Invalid("rule", "", "needs an app or a title pattern")
	}
	if r.App == SelfApp {
		return core.Invalid("app", r.App, "reserved for the editor's own window")
	}
	if r.App != "" {
		if _, err := regexp.Compile(r.App); err != nil {
			return core.Invalid("app", r.App, "not a valid regular expression")
		}
	}
	if r.Title != "" {
		if _, err := regexp.Compile(r.Title); err != nil {
			return core.Invalid("title", r.Title, "not a valid regular expression")
		}
	}
	if !r.Layer.valid() {
		return core.Invalid("layer", string(r.Layer), "expected below, normal or above")
	}
	if r.Space != nil && *r.Space < 1 {
		return core.Invalid("space", strconv.Itoa(*r.Space), "spaces are numbered from 1")
	}
	return nil
}

func (c *Config) ruleIndex(id string) int {
	for i, r := range c.Rules {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// Signal returns the signal with the given ID.
func (c *Config) Signal(id string) (Signal, bool) {
	i := c.signalIndex(id)
	if i < 0 {
		return Signal{}, false
	}
	return c.Signals[i], true
}

// AddSignal validates s and appends it enabled.
func (c *Config) AddSignal(s Signal) (Signal, error) {
	if err := validateSignal(s); err != nil {
		return Signal{}, err
	}
	if s.ID == "" {
		s.ID = c.nextID("signal", func(id string) bool { return c.signalIndex(id) >= 0 })
	} else if c.signalIndex(s.ID) >= 0 {
		return Signal{}, core.Invalid("signal id", s.ID, "already in use")
	}
	s.Enabled = true
	c.Signals = append(c.Signals, s)
	return s, nil
}

// UpdateSignal replaces the signal with s.ID, keeping its enabled state.
func (c *Config) UpdateSignal(s Signal) error {
	i := c.signalIndex(s.ID)
	if i < 0 {
		return fmt.Errorf("signal %s: %w", s.ID, core.ErrNotFound)
	}
	if err := validateSignal(s); err != nil {
		return err
	}
	s.Enabled = c.Signals[i].Enabled
	c.Signals[i] = s
	return nil
}

func (c *Config) DeleteSignal(id string) error {
	i := c.signalIndex(id)
	if i < 0 {
		return fmt.Errorf("signal %s: %w", id, core.ErrNotFound)
	}
	c.Signals = append(c.Signals[:i], c.Signals[i+1:]...)
	return nil
}

// ToggleSignal flips a signal's enabled flag and returns the new value.
func (c *Config) ToggleSignal(id string) (bool, error) {
	i := c.signalIndex(id)
	if i < 0 {
		return false, fmt.Errorf("signal %s: %w", id, core.ErrNotFound)
	}
	c.Signals[i].Enabled = !c.Signals[i].Enabled
	return c.Signals[i].Enabled, nil
}

func validateSignal(s Signal) error {
	if err := singleLine("action", s.Action); err != nil {
		return err
	}
	if err := singleLine("label", s.Label); err != nil {
		return err
	}
	if !s.Event.Valid() {
		return core.Invalid("event", string(s.Event), "unknown event")
	}
	if s.Action == "" {
		return core.Invalid("action", "", "must not be empty")
	}
	return nil
}

func (c *Config) signalIndex(id string) int {
	for i, s := range c.Signals {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func (c *Config) nextID(prefix string, taken func(string) bool) string {
	for n := 1; ; n++ {
		id := fmt.Sprintf("%s-%d", prefix, n)
		if !taken(id) {
			return id
		}
	}
}
