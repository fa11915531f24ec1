// Package scan tokenizes the line-oriented, shell-script-style config files
// of the window manager and the hotkey daemon.
//
// Scanning is deliberately permissive and lossy: anything that is not a
// recognizable directive or key=value pair is skipped without error.
package scan

import (
	"regexp"
	"strings"
)

// Line is one trimmed line of a config file.
type Line struct {
	Number int // 1-based
	Text   string
}

// IsBlank reports whether the line is empty after trimming.
func (l Line) IsBlank() bool { return l.Text == "" }

// IsComment reports whether the line is a full-line comment.
func (l Line) IsComment() bool { return strings.HasPrefix(l.Text, "#") }

// Lines splits text into trimmed lines. CRLF line endings are tolerated.
//
// A line ending in an unescaped backslash continues on the next line, as in
// sh: the pieces are joined with a single space into one Line numbered after
// its first physical line. Comment lines never continue.
func Lines(text string) []Line {
	if text == "" {
		return nil
	}
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]Line, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		l := Line{Number: i + 1, Text: strings.TrimSpace(raw[i])}
		for !l.IsComment() && continued(l.Text) {
			head := strings.TrimRight(l.Text[:len(l.Text)-1], " \t")
			if i+1 >= len(raw) {
				l.Text = head
				break
			}
			i++
			l.Text = strings.TrimSpace(head + " " + strings.TrimSpace(raw[i]))
		}
		lines = append(lines, l)
	}
	return lines
}

// continued reports whether s ends in an odd run of backslashes.
func continued(s string) bool {
	n := 0
	for n < len(s) && s[len(s)-1-n] == '\\' {
		n++
	}
	return n%2 == 1
}

// MatchDirective reports whether line invokes the command prefix (for example
// "yabai -m config") and returns the remaining arguments. Runs of whitespace
// in the line are treated as a single separator.
func MatchDirective(line, prefix string) (string, bool) {
	fields := strings.Fields(line)
	want := strings.Fields(prefix)
	if len(want) == 0 || len(fields) < len(want) {
		return "", false
	}
	for i, w := range want {
		if fields[i] != w {
			return "", false
		}
	}

	// Walk the original line past the prefix words so quoting in the
	// remainder is preserved exactly.
	rest := line
	for _, w := range want {
		rest = strings.TrimLeft(rest, " \t")
		rest = rest[len(w):]
	}
	return strings.TrimSpace(rest), true
}

// Pair is a key=value argument.
type Pair struct {
	Key   string
	Value string
}

var (
	pairPattern  = regexp.MustCompile(`(?:^|\s)([A-Za-z_][A-Za-z0-9_]*)=("(?:[^"\\]|\\.)*"|'[^']*'|\S+)`)
	fieldPattern = regexp.MustCompile(`"(?:[^"\\]|\\.)*"|'[^']*'|\S+`)
	barePattern  = regexp.MustCompile(`^[A-Za-z0-9_.,:+/@%-]+$`)
)

// Pairs extracts key=value arguments. Values may be double-quoted (with
// backslash escapes), single-quoted, or a bare token. Other tokens are skipped.
func Pairs(args string) []Pair {
	matches := pairPattern.FindAllStringSubmatch(args, -1)
	pairs := make([]Pair, 0, len(matches))
	for _, m := range matches {
		pairs = append(pairs, Pair{Key: m[1], Value: unquote(m[2])})
	}
	return pairs
}

// PairMap is Pairs collapsed into a map. Later duplicates win.
func PairMap(args string) map[string]string {
	m := make(map[string]string)
	for _, p := range Pairs(args) {
		m[p.Key] = p.Value
	}
	return m
}

// Fields splits args into positional arguments using the same quoting rules as Pairs.
func Fields(args string) []string {
	raw := fieldPattern.FindAllString(args, -1)
	fields := make([]string, 0, len(raw))
	for _, f := range raw {
		fields = append(fields, unquote(f))
	}
	return fields
}

// Quote renders a value so that Fields and Pairs read it back unchanged.
// Safe tokens are left bare.
func Quote(value string) string {
	if barePattern.MatchString(value) {
		return value
	}
	return QuoteDouble(value)
}

// QuoteDouble always wraps value in double quotes, escaping '"' and '\'.
func QuoteDouble(value string) string {
	var b strings.Builder
	b.Grow(len(value) + 2)
	b.WriteByte('"')
	for i := 0; i < len(value); i++ {
		c := value[i]
		if c == '"' || c == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	b.WriteByte('"')
	return b.String()
}

func unquote(s string) string {
	if len(s) >= 2 {
		switch {
		case s[0] == '"' && s[len(s)-1] == '"':
			return unescape(s[1 : len(s)-1])
		case s[0] == '\'' && s[len(s)-1] == '\'':
			return s[1 : len(s)-1]
		}
	}
	return s
}

func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && (s[i+1] == '"' || s[i+1] == '\\') {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
