package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hashnet.dev/sdk/keys"
)

func newKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage local signing keys",
	}
	cmd.AddCommand(newKeyInitCmd(), newKeyListCmd(), newKeyShowCmd())
	return cmd
}

func newKeyInitCmd() *cobra.Command {
	var seedHex string
	var force bool

	cmd := &cobra.Command{
		Use:   "init <name>",
		Short: "Generate and store a new ed25519 key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ks, err := keys.OpenKeyStore(flagKeyStoreDir)
			if err != nil {
				return err
			}
			priv, err := ks.Init(args[0], seedHex, force)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "stored %s\npublic key: %s\n",
				args[0], priv.PublicKey().String())
			return nil
		},
	}
	cmd.Flags().StringVar(&seedHex, "seed", "", "import this hex seed instead of generating")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing key of the same name")
	return cmd
}

func newKeyListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ks, err := keys.OpenKeyStore(flagKeyStoreDir)
			if err != nil {
				return err
			}
			names, err := ks.List()
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newKeyShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Print the public key of a stored key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ks, err := keys.OpenKeyStore(flagKeyStoreDir)
			if err != nil {
				return err
			}
			priv, err := ks.Load(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), priv.PublicKey().String())
			return nil
		},
	}
}
