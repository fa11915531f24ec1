package main

import (
	"errors"
	"fmt"

	"tilecfg/internal/app"
	"tilecfg/internal/core"

	"github.com/spf13/cobra"
)

func newKeysCmd(r *runner) *cobra.Command {
	keysCmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage archive encryption keys",
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Generate the key pair used to encrypt archived snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, "KeysInit", args, func(a *app.App) error {
				enc := a.Encryptor()
				if enc == nil {
					return errors.New("encryption is disabled (encryption.type = \"none\")")
				}
				if enc.IsConfigured() {
					return fmt.Errorf("keys already exist at %s", a.Config().Encryption.PublicKeyPath)
				}

				passphrase, err := readPassphrase("New passphrase: ")
				if err != nil {
					return err
				}
				if isTerminal(cmd.InOrStdin()) {
					confirm, err := readPassphrase("Repeat passphrase: ")
					if err != nil {
						return err
					}
					if confirm != passphrase {
						return core.Invalid("passphrase", "", "passphrases do not match")
					}
				}
				if err := enc.Setup(passphrase); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Keys written to %s\n", a.Config().Encryption.PrivateKeyPath)
				return nil
			})
		},
	}

	keysCmd.AddCommand(initCmd)
	return keysCmd
}
