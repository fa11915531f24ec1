package main

import (
	"fmt"
	"strconv"
	"strings"

	"tilecfg/internal/app"
	"tilecfg/internal/core"
	"tilecfg/internal/hotkey"
	"tilecfg/internal/wm"

	"github.com/spf13/cobra"
)

func newShowCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "show [primary|hotkeys]",
		Short: "Print the file content the current model serializes to",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := targetArg(args, 0)
			if err != nil {
				return err
			}
			return r.withApp(cmd, "Show", args, func(a *app.App) error {
				text, err := a.Editor().Text(target)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), text)
				return nil
			})
		},
	}
}

func newGetCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "get [KEY]",
		Short: "Print a window manager setting, or all of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, "GetSetting", args, func(a *app.App) error {
				keys := wm.Keys()
				if len(args) == 1 {
					keys = args
				}
				tw := newTable(cmd.OutOrStdout())
				for _, key := range keys {
					v, err := a.Editor().Setting(key)
					if err != nil {
						return err
					}
					if len(args) == 1 {
						fmt.Fprintln(cmd.OutOrStdout(), v)
						return nil
					}
					fmt.Fprintf(tw, "%s\t%s\n", key, v)
				}
				return tw.Flush()
			})
		},
	}
}

func newSetCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Change a window manager setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, "SetSetting", args, func(a *app.App) error {
				if err := a.Editor().SetSetting(args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], args[1])
				return nil
			})
		},
	}
}

func newRuleCmd(r *runner) *cobra.Command {
	ruleCmd := &cobra.Command{
		Use:   "rule",
		Short: "Manage window rules",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List window rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, "ListRules", args, func(a *app.App) error {
				tw := newTable(cmd.OutOrStdout())
				fmt.Fprintln(tw, "ID\tENABLED\tRULE")
				for _, rule := range a.Editor().Primary().Rules {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", rule.ID, onOff(rule.Enabled), wm.FormatRule(rule))
				}
				return tw.Flush()
			})
		},
	}

	var (
		label, appPattern, title, manage, sticky, layer string
		space                                           int
	)
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a window rule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rule := wm.Rule{
				Label: label,
				App:   appPattern,
				Title: title,
				Layer: wm.Layer(layer),
			}
			m, err := parseOnOff("manage", manage)
			if err != nil {
				return err
			}
			rule.Manage = m
			if sticky != "" {
				s, err := parseOnOff("sticky", sticky)
				if err != nil {
					return err
				}
				rule.Sticky = &s
			}
			if cmd.Flags().Changed("space") {
				rule.Space = &space
			}
			return r.withApp(cmd, "AddRule", args, func(a *app.App) error {
				added, err := a.Editor().AddRule(rule)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s: %s\n", added.ID, wm.FormatRule(added))
				return nil
			})
		},
	}
	addCmd.Flags().StringVar(&label, "label", "", "Rule label")
	addCmd.Flags().StringVar(&appPattern, "app", "", "Application name pattern (regex)")
	addCmd.Flags().StringVar(&title, "title", "", "Window title pattern (regex)")
	addCmd.Flags().StringVar(&manage, "manage", "off", "Tile matching windows (on|off)")
	addCmd.Flags().StringVar(&sticky, "sticky", "", "Show on all spaces (on|off)")
	addCmd.Flags().StringVar(&layer, "layer", "", "Window layer (below|normal|above)")
	addCmd.Flags().IntVar(&space, "space", 0, "Send matching windows to this space")

	rmCmd := &cobra.Command{
		Use:   "rm ID",
		Short: "Remove a window rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, "DeleteRule", args, func(a *app.App) error {
				return a.Editor().DeleteRule(args[0])
			})
		},
	}

	toggleCmd := &cobra.Command{
		Use:   "toggle ID",
		Short: "Enable or disable a window rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, "ToggleRule", args, func(a *app.App) error {
				enabled, err := a.Editor().ToggleRule(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", args[0], onOff(enabled))
				return nil
			})
		},
	}

	moveCmd := &cobra.Command{
		Use:   "move ID INDEX",
		Short: "Move a window rule to a 0-based position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return core.Invalid("index", args[1], "not a number")
			}
			return r.withApp(cmd, "MoveRule", args, func(a *app.App) error {
				return a.Editor().MoveRule(args[0], index)
			})
		},
	}

	ruleCmd.AddCommand(listCmd, addCmd, rmCmd, toggleCmd, moveCmd)
	return ruleCmd
}

func parseOnOff(field, s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "yes":
		return true, nil
	case "off", "false", "no":
		return false, nil
	default:
		return false, core.Invalid(field, s, "expected on or off")
	}
}

func newSignalCmd(r *runner) *cobra.Command {
	signalCmd := &cobra.Command{
		Use:   "signal",
		Short: "Manage window manager signals",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List signals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, "ListSignals", args, func(a *app.App) error {
				tw := newTable(cmd.OutOrStdout())
				fmt.Fprintln(tw, "ID\tENABLED\tSIGNAL")
				for _, s := range a.Editor().Primary().Signals {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", s.ID, onOff(s.Enabled), wm.FormatSignal(s))
				}
				return tw.Flush()
			})
		},
	}

	var label string
	addCmd := &cobra.Command{
		Use:   "add EVENT ACTION",
		Short: "Run ACTION when the window manager emits EVENT",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sig := wm.Signal{Event: wm.Event(args[0]), Action: args[1], Label: label}
			return r.withApp(cmd, "AddSignal", args, func(a *app.App) error {
				added, err := a.Editor().AddSignal(sig)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s: %s\n", added.ID, wm.FormatSignal(added))
				return nil
			})
		},
	}
	addCmd.Flags().StringVar(&label, "label", "", "Signal label")

	rmCmd := &cobra.Command{
		Use:   "rm ID",
		Short: "Remove a signal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, "DeleteSignal", args, func(a *app.App) error {
				return a.Editor().DeleteSignal(args[0])
			})
		},
	}

	toggleCmd := &cobra.Command{
		Use:   "toggle ID",
		Short: "Enable or disable a signal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, "ToggleSignal", args, func(a *app.App) error {
				enabled, err := a.Editor().ToggleSignal(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", args[0], onOff(enabled))
				return nil
			})
		},
	}

	signalCmd.AddCommand(listCmd, addCmd, rmCmd, toggleCmd)
	return signalCmd
}

func newHotkeyCmd(r *runner) *cobra.Command {
	hotkeyCmd := &cobra.Command{
		Use:   "hotkey",
		Short: "Manage keyboard shortcuts",
	}

	var filter string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List shortcuts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var want hotkey.Category
			if filter != "" {
				c, ok := hotkey.ParseCategory(filter)
				if !ok {
					return core.Invalid("category", filter, "unknown category")
				}
				want = c
			}
			return r.withApp(cmd, "ListShortcuts", args, func(a *app.App) error {
				tw := newTable(cmd.OutOrStdout())
				fmt.Fprintln(tw, "ID\tENABLED\tCATEGORY\tHOTKEY\tACTION\tDESCRIPTION")
				for _, s := range a.Editor().Hotkeys().Shortcuts {
					if want != "" && s.Category != want {
						continue
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
						s.ID, onOff(s.Enabled), s.Category, s.Hotkey(), s.Action, s.Description)
				}
				return tw.Flush()
			})
		},
	}
	listCmd.Flags().StringVarP(&filter, "category", "c", "", "Only show this category")

	var description, category string
	addCmd := &cobra.Command{
		Use:   "add CHORD ACTION",
		Short: `Bind CHORD (e.g. "alt + shift - h") to a shell ACTION`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := hotkey.NewShortcut(args[0], args[1])
			if err != nil {
				return err
			}
			s.Description = description
			if category != "" {
				c, ok := hotkey.ParseCategory(category)
				if !ok {
					return core.Invalid("category", category, "unknown category")
				}
				s.Category = c
			}
			return r.withApp(cmd, "AddShortcut", args, func(a *app.App) error {
				added, err := a.Editor().AddShortcut(s)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s: %s : %s [%s]\n",
					added.ID, hotkey.FormatChord(added.Modifiers, added.Key), added.Action, added.Category)
				return nil
			})
		},
	}
	addCmd.Flags().StringVarP(&description, "description", "d", "", "Shortcut description")
	addCmd.Flags().StringVarP(&category, "category", "c", "", "Category (inferred from the action when empty)")

	rmCmd := &cobra.Command{
		Use:   "rm ID",
		Short: "Remove a shortcut",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, "DeleteShortcut", args, func(a *app.App) error {
				return a.Editor().DeleteShortcut(args[0])
			})
		},
	}

	toggleCmd := &cobra.Command{
		Use:   "toggle ID",
		Short: "Enable or disable a shortcut",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, "ToggleShortcut", args, func(a *app.App) error {
				enabled, err := a.Editor().ToggleShortcut(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", args[0], onOff(enabled))
				return nil
			})
		},
	}

	categoryCmd := &cobra.Command{
		Use:   "category ID CATEGORY",
		Short: "Set a shortcut's category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ok := hotkey.ParseCategory(args[1])
			if !ok {
				return core.Invalid("category", args[1], "unknown category")
			}
			return r.withApp(cmd, "SetShortcutCategory", args, func(a *app.App) error {
				return a.Editor().SetShortcutCategory(args[0], c)
			})
		},
	}

	conflictsCmd := &cobra.Command{
		Use:   "conflicts",
		Short: "List chords bound more than once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, "Conflicts", args, func(a *app.App) error {
				conflicts := a.Editor().Conflicts()
				if len(conflicts) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No conflicts.")
					return nil
				}
				for _, c := range conflicts {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\n", c.Hotkey)
					for _, s := range c.Shortcuts {
						fmt.Fprintf(cmd.OutOrStdout(), "  %s  %s\n", s.ID, s.Action)
					}
				}
				return nil
			})
		},
	}

	hotkeyCmd.AddCommand(listCmd, addCmd, rmCmd, toggleCmd, categoryCmd, conflictsCmd)
	return hotkeyCmd
}
