package wm

import (
	"fmt"
	"strconv"
	"strings"

	"tilecfg/internal/scan"
)

// Parse builds a Config from the text of a window manager config file.
//
// Parse never fails. Unknown directives, unknown keys and values that do not
// convert to the field's type are skipped, leaving the default in place.
// Rules need an app or a title, and signals need a known event and an
// action; anything less is discarded.
func Parse(text string) *Config {
	c := NewConfig()
	c.Rules = nil

	ruleN, signalN := 0, 0
	for _, line := range scan.Lines(text) {
		if line.IsBlank() || line.IsComment() {
			continue
		}

		if args, ok := scan.MatchDirective(line.Text, ConfigPrefix); ok {
			parseSetting(c, args)
			continue
		}

		if args, ok := scan.MatchDirective(line.Text, RulePrefix); ok {
			if r, ok := parseRule(args); ok {
				if r.App == SelfApp {
					// replaced by withSelfRule; takes no ordinal
					c.Rules = append(c.Rules, r)
					continue
				}
				ruleN++
				r.ID = fmt.Sprintf("rule-%d", ruleN)
				c.Rules = append(c.Rules, r)
			}
			continue
		}

		if args, ok := scan.MatchDirective(line.Text, SignalPrefix); ok {
			if s, ok := parseSignal(args); ok {
				signalN++
				s.ID = fmt.Sprintf("signal-%d", signalN)
				c.Signals = append(c.Signals, s)
			}
		}
	}

	c.Rules = withSelfRule(c.Rules)
	return c
}

func parseSetting(c *Config, args string) {
	fields := scan.Fields(args)
	if len(fields) < 2 {
		return
	}
	s, ok := lookupSetting(fields[0])
	if !ok {
		return
	}
	// A rejected value keeps whatever the field held before.
	_ = s.set(c, fields[1])
}

func parseRule(args string) (Rule, bool) {
	m := scan.PairMap(args)
	r := Rule{
		Label:   m["label"],
		App:     m["app"],
		Title:   m["title"],
		Manage:  true,
		Enabled: true,
	}
	if r.App == "" && r.Title == "" {
		return Rule{}, false
	}

	if v, ok := m["manage"]; ok {
		if b, ok := parseBool(v); ok {
			r.Manage = b
		}
	}
	if v, ok := m["sticky"]; ok {
		if b, ok := parseBool(v); ok {
			r.Sticky = &b
		}
	}
	if v, ok := m["layer"]; ok {
		if l := Layer(v); l.valid() && l != LayerNone {
			r.Layer = l
		}
	}
	if v, ok := m["space"]; ok {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			r.Space = &n
		}
	}
	return r, true
}

func parseSignal(args string) (Signal, bool) {
	m := scan.PairMap(args)
	s := Signal{
		Event:   Event(m["event"]),
		Action:  m["action"],
		Label:   m["label"],
		Enabled: true,
	}
	if !s.Event.Valid() || s.Action == "" {
		return Signal{}, false
	}
	return s, true
}

// withSelfRule enforces the protected rule invariant: the first rule for
// SelfApp is replaced by the canonical self rule in place, later ones are
// dropped, and the rule is prepended when missing.
func withSelfRule(rules []Rule) []Rule {
	out := make([]Rule, 0, len(rules)+1)
	found := false
	for _, r := range rules {
		if r.App == SelfApp {
			if !found {
				out = append(out, selfRule())
				found = true
			}
			continue
		}
		out = append(out, r)
	}
	if !found {
		out = append([]Rule{selfRule()}, out...)
	}
	return out
}

// Serialize renders c as an executable shell script.
//
// Output order is fixed: settings in Keys() order, then enabled rules, then
// enabled signals. Disabled rules and signals stay in memory only.
func Serialize(c *Config) string {
	var b strings.Builder
	b.WriteString(Shebang + "\n")
	b.WriteString("# Generated by tilecfg. Comments and unrecognized lines are not preserved.\n\n")

	for _, s := range settings {
		v, ok := s.get(c)
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "%s %s %s\n", ConfigPrefix, s.key, scan.Quote(v))
	}

	b.WriteString("\n# rules\n")
	for _, r := range c.Rules {
		if r.Enabled {
			b.WriteString(FormatRule(r) + "\n")
		}
	}

	wroteHeader := false
	for _, s := range c.Signals {
		if !s.Enabled {
			continue
		}
		if !wroteHeader {
			b.WriteString("\n# signals\n")
			wroteHeader = true
		}
		b.WriteString(FormatSignal(s) + "\n")
	}

	return b.String()
}

// FormatRule renders a single rule directive.
func FormatRule(r Rule) string {
	parts := []string{RulePrefix}
	if r.Label != "" {
		parts = append(parts, "label="+scan.QuoteDouble(r.Label))
	}
	if r.App != "" {
		parts = append(parts, "app="+scan.QuoteDouble(r.App))
	}
	if r.Title != "" {
		parts = append(parts, "title="+scan.QuoteDouble(r.Title))
	}
	parts = append(parts, "manage="+formatBool(r.Manage))
	if r.Sticky != nil {
		parts = append(parts, "sticky="+formatBool(*r.Sticky))
	}
	if r.Layer != LayerNone {
		parts = append(parts, "layer="+string(r.Layer))
	}
	if r.Space != nil {
		parts = append(parts, "space="+strconv.Itoa(*r.Space))
	}
	return strings.Join(parts, " ")
}

// FormatSignal renders a single signal directive.
func FormatSignal(s Signal) string {
	parts := []string{SignalPrefix, "event=" + string(s.Event), "action=" + scan.QuoteDouble(s.Action)}
	if s.Label != "" {
		parts = append(parts, "label="+scan.QuoteDouble(s.Label))
	}
	return strings.Join(parts, " ")
}
