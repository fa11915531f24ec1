package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"tilecfg/internal/app"
	"tilecfg/internal/core"
	"tilecfg/internal/watch"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
)

func newShellCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Edit interactively; changes are saved automatically",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, "Shell", args, func(a *app.App) error {
				return runShell(cmd, &runner{verbose: r.verbose, app: a})
			})
		},
	}
}

func runShell(cmd *cobra.Command, inner *runner) error {
	a := inner.app
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "tilecfg> ",
		HistoryFile:     filepath.Join(a.Config().BaseDir, "shell_history"),
		AutoComplete:    completer(newRootCmd(inner)),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize readline: %w", err)
	}
	defer rl.Close()

	err = a.Watch(func(c watch.Change) {
		what := "changed"
		if c.Removed {
			what = "was removed"
		}
		fmt.Fprintf(rl.Stderr(), "warning: %s %s outside tilecfg; the next save overwrites it (backup restore undoes that)\n", c.Path, what)
	})
	if err != nil {
		a.Logger().Warn("watching tracked files failed", "error", err)
	}

	settings := a.Config().Settings()
	if settings.AutoSave {
		fmt.Fprintf(rl.Stdout(), "Edits are saved %s after the last change. Type 'help' or 'exit'.\n", settings.Delay)
	} else {
		fmt.Fprintln(rl.Stdout(), "Auto-save is off; use 'save'. Type 'help' or 'exit'.")
	}

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				break
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		words, err := splitWords(line)
		if err != nil {
			fmt.Fprintf(rl.Stderr(), "Error: %v\n", err)
			continue
		}
		if len(words) == 0 {
			continue
		}
		if words[0] == "exit" || words[0] == "quit" {
			break
		}

		root := newRootCmd(inner)
		root.SetArgs(words)
		root.SetOut(rl.Stdout())
		root.SetErr(rl.Stderr())
		root.SetContext(cmd.Context())
		// cobra has already printed the error
		_ = root.Execute()
	}
	return nil
}

// completer mirrors the command tree for tab completion.
func completer(root *cobra.Command) readline.AutoCompleter {
	var items func(c *cobra.Command) []readline.PrefixCompleterInterface
	items = func(c *cobra.Command) []readline.PrefixCompleterInterface {
		var out []readline.PrefixCompleterInterface
		for _, sub := range c.Commands() {
			if sub.Hidden {
				continue
			}
			out = append(out, readline.PcItem(sub.Name(), items(sub)...))
		}
		return out
	}
	all := append(items(root), readline.PcItem("exit"))
	return readline.NewPrefixCompleter(all...)
}

// splitWords splits a shell line into words. Single and double quotes group
// words; a backslash escapes the next character outside single quotes.
func splitWords(line string) ([]string, error) {
	var (
		words   []string
		cur     strings.Builder
		inWord  bool
		quote   rune
		escaped bool
	)
	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
			inWord = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
			inWord = true
		case r == ' ' || r == '\t':
			if inWord {
				words = append(words, cur.String())
				cur.Reset()
				inWord = false
			}
		default:
			cur.WriteRune(r)
			inWord = true
		}
	}
	if quote != 0 || escaped {
		return nil, core.Invalid("line", line, "unterminated quote or escape")
	}
	if inWord {
		words = append(words, cur.String())
	}
	return words, nil
}
