// Package diff compares two versions of a config file line by line.
package diff

import (
	"fmt"
	"io"
	"strings"
)

// Kind classifies a line of a comparison.
type Kind uint8

const (
	Unchanged Kind = iota
	Added
	Removed
)

func (k Kind) String() string {
	switch k {
	case Unchanged:
		return "unchanged"
	case Added:
		return "added"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}

// Line is one line of a comparison and how it changed.
type Line struct {
	Content string
	Kind    Kind
}

// Result is the outcome of Compare. Lines interleave both inputs in
// reading order: removed lines come before the lines added in their place.
type Result struct {
	Identical bool
	Lines     []Line
}

// Stats counts added and removed lines.
func (r Result) Stats() (added, removed int) {
	for _, l := range r.Lines {
		switch l.Kind {
		case Added:
			added++
		case Removed:
			removed++
		}
	}
	return added, removed
}

// ANSI colors used by Unified when colored is set.
const (
	colorRed   = "\x1b[31m"
	colorGreen = "\x1b[32m"
	colorReset = "\x1b[0m"
)

// Unified writes r with "+", "-" and " " prefixes.
func (r Result) Unified(w io.Writer, colored bool) error {
	for _, l := range r.Lines {
		var prefix, start, end string
		switch l.Kind {
		case Added:
			prefix = "+"
			if colored {
				start, end = colorGreen, colorReset
			}
		case Removed:
			prefix = "-"
			if colored {
				start, end = colorRed, colorReset
			}
		default:
			prefix = " "
		}
		if _, err := fmt.Fprintf(w, "%s%s%s%s\n", start, prefix, l.Content, end); err != nil {
			return err
		}
	}
	return nil
}

// MaxLines bounds the LCS table to about 32MB. Inputs whose changed region
// exceeds it on either side are reported as a block removal followed by a
// block addition.
const MaxLines = 2000

// Compare diffs oldText against newText. Identical is true iff the two
// texts are byte-equal; the line diff is not guaranteed to be minimal.
func Compare(oldText, newText string) Result {
	a, b := splitLines(oldText), splitLines(newText)
	res := Result{Identical: oldText == newText}

	// shared prefix and suffix never need the table
	pre := 0
	for pre < len(a) && pre < len(b) && a[pre] == b[pre] {
		pre++
	}
	suf := 0
	for suf < len(a)-pre && suf < len(b)-pre && a[len(a)-1-suf] == b[len(b)-1-suf] {
		suf++
	}

	res.Lines = make([]Line, 0, len(a)+len(b))
	for _, l := range a[:pre] {
		res.Lines = append(res.Lines, Line{Content: l, Kind: Unchanged})
	}
	res.Lines = append(res.Lines, middle(a[pre:len(a)-suf], b[pre:len(b)-suf])...)
	for _, l := range a[len(a)-suf:] {
		res.Lines = append(res.Lines, Line{Content: l, Kind: Unchanged})
	}
	return res
}

func middle(a, b []string) []Line {
	if len(a) > MaxLines || len(b) > MaxLines {
		out := make([]Line, 0, len(a)+len(b))
		for _, l := range a {
			out = append(out, Line{Content: l, Kind: Removed})
		}
		for _, l := range b {
			out = append(out, Line{Content: l, Kind: Added})
		}
		return out
	}
	return lcs(a, b)
}

// lcs walks a longest-common-subsequence table. At each mismatch removals
// are emitted before additions.
func lcs(a, b []string) []Line {
	n, m := len(a), len(b)
	// t[i][j] is the LCS length of a[i:] and b[j:]
	t := make([][]int, n+1)
	for i := range t {
		t[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if a[i] == b[j] {
				t[i][j] = t[i+1][j+1] + 1
			} else {
				t[i][j] = max(t[i+1][j], t[i][j+1])
			}
		}
	}

	out := make([]Line, 0, n+m)
	i, j := 0, 0
	for i < n && j < m {
		switch {
		case a[i] == b[j]:
			out = append(out, Line{Content: a[i], Kind: Unchanged})
			i++
			j++
		case t[i+1][j] >= t[i][j+1]:
			out = append(out, Line{Content: a[i], Kind: Removed})
			i++
		default:
			out = append(out, Line{Content: b[j], Kind: Added})
			j++
		}
	}
	for ; i < n; i++ {
		out = append(out, Line{Content: a[i], Kind: Removed})
	}
	for ; j < m; j++ {
		out = append(out, Line{Content: b[j], Kind: Added})
	}
	return out
}

// splitLines splits on "\n". A trailing newline terminates the last line
// rather than starting an empty one.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}
