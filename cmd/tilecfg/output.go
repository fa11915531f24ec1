package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"tilecfg/internal/core"
	"tilecfg/internal/diff"

	"golang.org/x/term"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func duration(rec *core.OperationRecord) string {
	if rec.FinishedAt == nil {
		return ""
	}
	return rec.FinishedAt.Sub(rec.StartedAt).Truncate(time.Millisecond).String()
}

// isTerminal reports whether v is a terminal. Color and prompts are only
// used on terminals.
func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func printDiff(w io.Writer, res diff.Result) error {
	if res.Identical {
		_, err := fmt.Fprintln(w, "No differences.")
		return err
	}
	if err := res.Unified(w, isTerminal(w)); err != nil {
		return err
	}
	added, removed := res.Stats()
	_, err := fmt.Fprintf(w, "%d added, %d removed\n", added, removed)
	return err
}

var stdin = bufio.NewReader(os.Stdin)

// readPassphrase prompts on the terminal without echo. Off a terminal the
// passphrase is read as one line from stdin.
func readPassphrase(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := stdin.ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("reading passphrase: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return string(b), nil
}
