// Command hashnet-cli is a thin operational front end over the SDK: local key
// management, balance queries, and simple submissions against a configured
// node set.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"cosmossdk.io/log"
	"github.com/spf13/cobra"

	"hashnet.dev/sdk/client"
	"hashnet.dev/sdk/ident"
	"hashnet.dev/sdk/keys"
)

var (
	flagNodes       []string
	flagOperatorID  string
	flagOperatorKey string
	flagKeyName     string
	flagKeyStoreDir string
	flagLedger      string
	flagTimeout     time.Duration
	flagVerbose     bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "hashnet-cli",
		Short:         "Submit transactions and queries to a hashnet node set",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringArrayVar(&flagNodes, "node", nil,
		"candidate node as accountID=host:port (repeatable)")
	pf.StringVar(&flagOperatorID, "operator-id", "",
		"account id paying for operations")
	pf.StringVar(&flagOperatorKey, "operator-key", "",
		"operator ed25519 seed as hex (overrides --key-name)")
	pf.StringVar(&flagKeyName, "key-name", "",
		"named key from the key store to sign with")
	pf.StringVar(&flagKeyStoreDir, "keystore", "",
		"key store directory (default ~/.hashnet/keys)")
	pf.StringVar(&flagLedger, "ledger", "",
		"ledger to validate entity checksums against (mainnet, testnet, previewnet)")
	pf.DurationVar(&flagTimeout, "timeout", 30*time.Second,
		"overall deadline for one command")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false,
		"log every dispatch attempt to stderr")

	cmd.AddCommand(
		newKeyCmd(),
		newBalanceCmd(),
		newTransferCmd(),
		newSubmitCmd(),
	)
	return cmd
}

func newLogger() log.Logger {
	if flagVerbose {
		return log.NewLogger(os.Stderr)
	}
	return log.NewNopLogger()
}

func parseLedger(name string) (ident.LedgerID, error) {
	switch name {
	case "":
		return nil, nil
	case "mainnet":
		return ident.LedgerMainnet, nil
	case "testnet":
		return ident.LedgerTestnet, nil
	case "previewnet":
		return ident.LedgerPreviewnet, nil
	default:
		return nil, fmt.Errorf("unknown ledger %q", name)
	}
}

func parseNodes(specs []string) ([]client.Node, error) {
	nodes := make([]client.Node, 0, len(specs))
	for _, s := range specs {
		id, addr, ok := strings.Cut(s, "=")
		if !ok {
			return nil, fmt.Errorf("node %q: want accountID=host:port", s)
		}
		accountID, err := ident.ParseAccountID(id)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", s, err)
		}
		nodes = append(nodes, client.Node{AccountID: accountID, Address: addr})
	}
	return nodes, nil
}

func loadOperator() (*client.Operator, error) {
	if flagOperatorID == "" {
		return nil, nil
	}
	accountID, err := ident.ParseAccountID(flagOperatorID)
	if err != nil {
		return nil, fmt.Errorf("operator id: %w", err)
	}

	var priv keys.PrivateKey
	switch {
	case flagOperatorKey != "":
		priv, err = keys.PrivateKeyFromSeedHex(flagOperatorKey)
	case flagKeyName != "":
		var ks *keys.KeyStore
		ks, err = keys.OpenKeyStore(flagKeyStoreDir)
		if err == nil {
			priv, err = ks.Load(flagKeyName)
		}
	default:
		return nil, fmt.Errorf("--operator-id set but no signing key: pass --operator-key or --key-name")
	}
	if err != nil {
		return nil, err
	}
	return &client.Operator{AccountID: accountID, Signer: priv}, nil
}

// newClient assembles a client from the persistent flags. Commands that
// dispatch require at least one --node.
func newClient() (*client.Client, error) {
	nodes, err := parseNodes(flagNodes)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("no nodes configured: pass at least one --node")
	}
	ledgerID, err := parseLedger(flagLedger)
	if err != nil {
		return nil, err
	}
	operator, err := loadOperator()
	if err != nil {
		return nil, err
	}
	return client.New(client.Options{
		Nodes:    nodes,
		Operator: operator,
		LedgerID: ledgerID,
		Logger:   newLogger(),
	}), nil
}
