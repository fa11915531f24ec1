package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"tilecfg/internal/app"
	"tilecfg/internal/core"
	"tilecfg/internal/fs"

	"github.com/spf13/cobra"
)

func newBackupCmd(r *runner) *cobra.Command {
	backupCmd := &cobra.Command{
		Use:   "backup",
		Short: "Manage snapshots of the tracked files",
	}

	var description string
	createCmd := &cobra.Command{
		Use:   "create [primary|hotkeys]",
		Short: "Snapshot a tracked file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := targetArg(args, 0)
			if err != nil {
				return err
			}
			return r.withApp(cmd, "CreateBackup", args, func(a *app.App) error {
				b, err := a.Editor().CreateBackup(target, description)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", b.SnapshotPath)
				return nil
			})
		},
	}
	createCmd.Flags().StringVarP(&description, "description", "d", "", "Note stored with the snapshot")

	listCmd := &cobra.Command{
		Use:   "list [primary|hotkeys]",
		Short: "List snapshots, newest first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := targetArg(args, 0)
			if err != nil {
				return err
			}
			return r.withApp(cmd, "ListBackups", args, func(a *app.App) error {
				backups, err := a.Editor().ListBackups(target)
				if err != nil {
					return err
				}
				if len(backups) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No backups.")
					return nil
				}
				tw := newTable(cmd.OutOrStdout())
				for i, b := range backups {
					fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\n",
						i+1,
						b.CreatedAt.Format("2006-01-02 15:04:05"),
						b.Size,
						filepath.Base(b.SnapshotPath),
						b.Description,
					)
				}
				return tw.Flush()
			})
		},
	}

	restoreCmd := &cobra.Command{
		Use:   "restore TARGET REF",
		Short: "Replace a tracked file with a snapshot",
		Long: `Replace a tracked file with a snapshot and reload its model.
REF is a position from "backup list", a timestamp or a snapshot file name.
The current file is snapshotted first.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := parseTarget(args[0])
			if err != nil {
				return err
			}
			return r.withApp(cmd, "RestoreBackup", args, func(a *app.App) error {
				b, err := a.Editor().FindBackup(target, args[1])
				if err != nil {
					return err
				}
				if err := a.Editor().RestoreBackup(cmd.Context(), b); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Restored %s from %s\n", b.SourcePath, filepath.Base(b.SnapshotPath))
				return nil
			})
		},
	}

	rmCmd := &cobra.Command{
		Use:   "rm TARGET REF",
		Short: "Delete a snapshot",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := parseTarget(args[0])
			if err != nil {
				return err
			}
			return r.withApp(cmd, "DeleteBackup", args, func(a *app.App) error {
				b, err := a.Editor().FindBackup(target, args[1])
				if err != nil {
					return err
				}
				if err := a.Editor().DeleteBackup(b); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", filepath.Base(b.SnapshotPath))
				return nil
			})
		},
	}

	diffCmd := &cobra.Command{
		Use:   "diff TARGET [REF]",
		Short: "Compare a snapshot with the live file",
		Long: `Compare a snapshot with the live file. Without REF the live file is
compared with what the next save would write.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := parseTarget(args[0])
			if err != nil {
				return err
			}
			return r.withApp(cmd, "Diff", args, func(a *app.App) error {
				if len(args) == 1 {
					res, err := a.Editor().ComparePending(target)
					if err != nil {
						return err
					}
					return printDiff(cmd.OutOrStdout(), res)
				}
				b, err := a.Editor().FindBackup(target, args[1])
				if err != nil {
					return err
				}
				res, err := a.Editor().CompareBackup(b)
				if err != nil {
					return err
				}
				return printDiff(cmd.OutOrStdout(), res)
			})
		},
	}

	archiveCmd := &cobra.Command{
		Use:   "archive TARGET REF",
		Short: "Copy a snapshot to the configured archive",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := parseTarget(args[0])
			if err != nil {
				return err
			}
			return r.withApp(cmd, "ArchiveBackup", args, func(a *app.App) error {
				b, err := a.Editor().FindBackup(target, args[1])
				if err != nil {
					return err
				}
				checksum, err := a.Editor().ArchiveBackup(b)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Archived %s as %s\n", filepath.Base(b.SnapshotPath), checksum)
				return nil
			})
		},
	}

	var output string
	fetchCmd := &cobra.Command{
		Use:   "fetch CHECKSUM",
		Short: "Print or save archived content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, "FetchArchive", args, func(a *app.App) error {
				var passphrase string
				if a.Encryptor() != nil {
					p, err := readPassphrase("Passphrase: ")
					if err != nil {
						return err
					}
					passphrase = p
				}
				if output == "" {
					return a.Editor().FetchArchive(args[0], passphrase, cmd.OutOrStdout())
				}
				return fetchToFile(a, args[0], passphrase, output)
			})
		},
	}
	fetchCmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")

	backupCmd.AddCommand(createCmd, listCmd, restoreCmd, rmCmd, diffCmd, archiveCmd, fetchCmd)
	return backupCmd
}

// fetchToFile refuses to overwrite path. Content is verified before the
// atomic write, so a failed fetch leaves nothing behind.
func fetchToFile(a *app.App, checksum, passphrase, path string) error {
	if _, err := os.Stat(path); err == nil {
		return core.Invalid("output", path, "file exists")
	}
	var buf bytes.Buffer
	if err := a.Editor().FetchArchive(checksum, passphrase, &buf); err != nil {
		return err
	}
	return fs.WriteFileAtomic(path, buf.Bytes(), 0644)
}
