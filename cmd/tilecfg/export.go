package main

import (
	"fmt"

	"tilecfg/internal/app"
	"tilecfg/internal/core"
	"tilecfg/internal/hotkey"
	"tilecfg/internal/wm"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// exportDoc is the structured form of both files as written by export.
type exportDoc struct {
	Primary *wm.Config     `yaml:"primary"`
	Hotkeys *hotkey.Config `yaml:"hotkeys"`
}

func newExportCmd(r *runner) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print both models in a structured format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "yaml" {
				return core.Invalid("format", format, "only yaml is supported")
			}
			return r.withApp(cmd, "Export", args, func(a *app.App) error {
				doc := exportDoc{
					Primary: a.Editor().Primary(),
					Hotkeys: a.Editor().Hotkeys(),
				}
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent(2)
				if err := enc.Encode(doc); err != nil {
					return fmt.Errorf("encoding export: %w", err)
				}
				return enc.Close()
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "Output format (yaml)")
	return cmd
}
