package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"tilecfg/internal/app"
	"tilecfg/internal/config"
	"tilecfg/internal/core"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd(&runner{}).Execute(); err != nil {
		os.Exit(1)
	}
}

// runner owns the App a command works on. One-shot commands build a fresh
// App and save before exiting; inside the shell app is shared and edits are
// left to auto-save.
type runner struct {
	verbose bool
	app     *app.App
}

// withApp runs fn against an App. operation names the command in the log.
func (r *runner) withApp(cmd *cobra.Command, operation string, args []string, fn func(a *app.App) error) error {
	if r.app != nil {
		return fn(r.app)
	}

	defaults, err := app.GetDefaults()
	if err != nil {
		return fmt.Errorf("getting defaults: %w", err)
	}
	cfg, err := defaults.LoadConfig()
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := app.New(ctx, cfg, operation, strings.Join(args, " "), app.Options{Verbose: r.verbose})
	if err != nil {
		return fmt.Errorf("initializing app: %w", err)
	}

	err = fn(a)
	if err == nil && a.Editor().HasUnsavedChanges() {
		if err = a.Editor().SaveNow(ctx); err != nil {
			err = fmt.Errorf("saving: %w", err)
		}
	}
	if err != nil {
		a.Fail(err)
	}
	if cerr := a.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

func newRootCmd(r *runner) *cobra.Command {
	root := &cobra.Command{
		Use:          "tilecfg",
		Short:        "Edit yabai and skhd configuration",
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVarP(&r.verbose, "verbose", "v", false, "Log debug output to stderr")

	root.AddCommand(
		newConfigCmd(),
		newShowCmd(r),
		newGetCmd(r),
		newSetCmd(r),
		newRuleCmd(r),
		newSignalCmd(r),
		newHotkeyCmd(r),
		newSaveCmd(r),
		newStatusCmd(r),
		newBackupCmd(r),
		newHistoryCmd(r),
		newExportCmd(r),
		newKeysCmd(r),
	)
	if r.app == nil {
		root.AddCommand(newShellCmd(r))
	}
	return root
}

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			defaults, err := app.GetDefaults()
			if err != nil {
				return fmt.Errorf("failed to get defaults: %w", err)
			}
			if err := config.Init(defaults.ConfigPath, defaults.Config()); err != nil {
				return fmt.Errorf("failed to initialize config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration initialized at %s\n", defaults.ConfigPath)
			fmt.Fprintf(cmd.OutOrStdout(), "Base Dir: %s\n", defaults.BaseDir)
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			defaults, err := app.GetDefaults()
			if err != nil {
				return fmt.Errorf("failed to get defaults: %w", err)
			}
			cfg, err := defaults.LoadConfig()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", defaults.ConfigPath)
			m := &config.Manager{}
			return m.Write(cmd.OutOrStdout(), cfg)
		},
	}

	configCmd.AddCommand(initCmd, listCmd)
	return configCmd
}

// parseTarget accepts "primary"/"yabai" and "hotkeys"/"skhd".
func parseTarget(s string) (core.Target, error) {
	switch strings.ToLower(s) {
	case "primary", "yabai", "yabairc":
		return core.TargetPrimary, nil
	case "hotkeys", "skhd", "skhdrc":
		return core.TargetHotkeys, nil
	default:
		return "", core.Invalid("target", s, "expected primary or hotkeys")
	}
}

func targetArg(args []string, i int) (core.Target, error) {
	if len(args) <= i {
		return core.TargetPrimary, nil
	}
	return parseTarget(args[i])
}

func newSaveCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Write pending edits now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, "Save", args, func(a *app.App) error {
				if err := a.Editor().SaveNow(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Saved.")
				return nil
			})
		},
	}
}

func newStatusCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the state of both tracked files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, "Status", args, func(a *app.App) error {
				statuses, err := a.Editor().Status()
				if err != nil {
					return err
				}
				tw := newTable(cmd.OutOrStdout())
				fmt.Fprintln(tw, "TARGET\tPATH\tEXISTS\tUNSAVED\tSTATE\tDRIFT\tLAST ERROR")
				for _, s := range statuses {
					lastErr := ""
					if s.LastError != nil {
						lastErr = s.LastError.Error()
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
						s.Target, s.Path, yesNo(s.Exists), yesNo(s.Unsaved), s.State, yesNo(s.Drift), lastErr)
				}
				return tw.Flush()
			})
		},
	}
}

func newHistoryCmd(r *runner) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "View the operation journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, "History", args, func(a *app.App) error {
				recs, err := a.Editor().History(limit)
				if err != nil {
					return err
				}
				if len(recs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No operations recorded.")
					return nil
				}
				tw := newTable(cmd.OutOrStdout())
				for _, rec := range recs {
					fmt.Fprintf(tw, "#%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
						rec.ID,
						rec.Operation,
						rec.Target,
						rec.StartedAt.Format("2006-01-02 15:04:05"),
						rec.Status,
						duration(rec),
						rec.Detail,
					)
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "Maximum number of operations to show")
	return cmd
}
