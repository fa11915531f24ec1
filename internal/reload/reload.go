// Package reload tells the window manager and hotkey daemon to pick up a
// rewritten config file.
package reload

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"tilecfg/internal/core"
)

// Default reload commands.
var (
	DefaultPrimaryCommand = []string{"yabai", "--restart-service"}
	DefaultHotkeysCommand = []string{"skhd", "--reload"}
)

// DefaultTimeout bounds a single reload command.
const DefaultTimeout = 10 * time.Second

// CommandReloader runs an external command per target. An empty command
// disables reloading for that target.
type CommandReloader struct {
	Primary []string
	Hotkeys []string
	Timeout time.Duration
}

func NewCommandReloader(primary, hotkeys []string) *CommandReloader {
	return &CommandReloader{Primary: primary, Hotkeys: hotkeys, Timeout: DefaultTimeout}
}

// Reload runs the command for target and returns its failure, including
// anything it printed, for the caller to log.
func (r *CommandReloader) Reload(ctx context.Context, target core.Target) error {
	var argv []string
	switch target {
	case core.TargetPrimary:
		argv = r.Primary
	case core.TargetHotkeys:
		argv = r.Hotkeys
	default:
		return fmt.Errorf("unknown reload target %q", target)
	}
	if len(argv) == 0 {
		return nil
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(out.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", strings.Join(argv, " "), err, msg)
		}
		return fmt.Errorf("%s: %w", strings.Join(argv, " "), err)
	}
	return nil
}

// NopReloader never signals anything.
type NopReloader struct{}

func (NopReloader) Reload(context.Context, core.Target) error { return nil }

var (
	_ core.Reloader = (*CommandReloader)(nil)
	_ core.Reloader = NopReloader{}
)
