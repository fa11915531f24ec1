package hotkey

import (
	"fmt"
	"strings"

	"tilecfg/internal/scan"
)

// Comment markers understood by the codec.
const (
	DisabledPrefix = "# disabled:"
	DescPrefix     = "# desc:"
	headingOpen    = "# =="
	headingClose   = "=="
)

// Parse builds a Config from the text of a hotkey config file.
//
// Lines whose chord does not validate are skipped whole. A heading
// "# == Label ==" assigns its category to the shortcuts below it; shortcuts
// before any heading get an inferred category. Parse never fails.
func Parse(text string) *Config {
	c := NewConfig()

	var (
		heading Category
		desc    string
		ordinal int
	)
	for _, line := range scan.Lines(text) {
		if line.IsBlank() {
			continue
		}

		enabled := true
		body := line.Text
		if line.IsComment() {
			switch {
			case strings.HasPrefix(body, DisabledPrefix):
				enabled = false
				body = strings.TrimSpace(body[len(DisabledPrefix):])
			case strings.HasPrefix(body, DescPrefix):
				desc = strings.TrimSpace(body[len(DescPrefix):])
				continue
			default:
				if label, ok := parseHeading(body); ok {
					heading = ""
					if cat, ok := ParseCategory(label); ok {
						heading = cat
					}
					desc = ""
				}
				continue
			}
		}

		s, ok := parseBinding(body)
		if !ok {
			desc = ""
			continue
		}
		ordinal++
		s.ID = fmt.Sprintf("shortcut-%d", ordinal)
		s.Enabled = enabled
		s.Description = desc
		desc = ""

		inferred := InferCategory(s.Action)
		s.Category = inferred
		if heading != "" {
			s.Category = heading
			s.ExplicitCategory = heading != inferred
		}
		c.Shortcuts = append(c.Shortcuts, s)
	}
	return c
}

// parseHeading extracts Label from "# == Label ==".
func parseHeading(line string) (string, bool) {
	if !strings.HasPrefix(line, headingOpen) || !strings.HasSuffix(line, headingClose) || len(line) < len(headingOpen)+len(headingClose) {
		return "", false
	}
	return strings.TrimSpace(line[len(headingOpen) : len(line)-len(headingClose)]), true
}

// parseBinding splits "<chord> : <action>" at the first top-level colon.
func parseBinding(line string) (Shortcut, bool) {
	i := splitIndex(line)
	if i < 0 {
		return Shortcut{}, false
	}
	action := strings.TrimSpace(line[i+1:])
	if action == "" {
		return Shortcut{}, false
	}
	mods, key, err := ParseChord(line[:i])
	if err != nil {
		return Shortcut{}, false
	}
	return Shortcut{Modifiers: mods, Key: key, Action: action}, true
}

// splitIndex returns the index of the first ':' that is not part of "::".
func splitIndex(line string) int {
	for i := 0; i < len(line); i++ {
		if line[i] != ':' {
			continue
		}
		if i+1 < len(line) && line[i+1] == ':' {
			i++
			continue
		}
		return i
	}
	return -1
}

// Serialize renders c grouped by category in Categories order. Disabled
// shortcuts are written as "# disabled:" comments so they survive a reload.
func Serialize(c *Config) string {
	var b strings.Builder
	b.WriteString("# Generated by tilecfg. Comments other than headings and descriptions are not preserved.\n")

	for _, cat := range Categories {
		wroteHeading := false
		for _, s := range c.Shortcuts {
			if categoryOf(s) != cat {
				continue
			}
			if !wroteHeading {
				fmt.Fprintf(&b, "\n%s %s %s\n", headingOpen, cat.Label(), headingClose)
				wroteHeading = true
			}
			b.WriteString(FormatShortcut(s))
		}
	}
	return b.String()
}

func categoryOf(s Shortcut) Category {
	if s.Category.Valid() {
		return s.Category
	}
	return InferCategory(s.Action)
}

// FormatShortcut renders one shortcut, including its description line.
func FormatShortcut(s Shortcut) string {
	var b strings.Builder
	if s.Description != "" {
		b.WriteString(DescPrefix + " " + s.Description + "\n")
	}
	if !s.Enabled {
		b.WriteString(DisabledPrefix + " ")
	}
	b.WriteString(FormatChord(s.Modifiers, s.Key) + " : " + s.Action + "\n")
	return b.String()
}
