package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"hashnet.dev/sdk/ident"
	"hashnet.dev/sdk/query"
	"hashnet.dev/sdk/txn"
)

func newBalanceCmd() *cobra.Command {
	var costOnly bool

	cmd := &cobra.Command{
		Use:   "balance <account-id>",
		Short: "Query an account's balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			accountID, err := ident.ParseAccountID(args[0])
			if err != nil {
				return err
			}
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), flagTimeout)
			defer cancel()

			q := query.NewAccountBalanceQuery().SetAccountID(accountID)
			if costOnly {
				cost, err := q.GetCost(ctx, c)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "cost: %d\n", cost)
				return nil
			}
			balance, err := q.Execute(ctx, c)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", balance.AccountID, balance.Balance)
			return nil
		},
	}
	cmd.Flags().BoolVar(&costOnly, "cost-only", false, "print what the query would cost instead of running it")
	return cmd
}

func newTransferCmd() *cobra.Command {
	var to string
	var amount int64
	var memo string

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Transfer currency from the operator to another account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			receiver, err := ident.ParseAccountID(to)
			if err != nil {
				return fmt.Errorf("--to: %w", err)
			}
			if amount <= 0 {
				return fmt.Errorf("--amount must be positive, got %d", amount)
			}
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()
			operator := c.Operator()
			if operator == nil {
				return fmt.Errorf("transfer requires an operator: pass --operator-id and a signing key")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), flagTimeout)
			defer cancel()

			t := txn.NewTransferTransaction().
				AddTransfer(operator.AccountID, -amount).
				AddTransfer(receiver, amount)
			if memo != "" {
				t.SetMemo(memo)
			}
			resp, err := t.Execute(ctx, c)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "accepted by %s\ntransaction: %s\npayload: %s\n",
				resp.NodeAccountID, resp.TransactionID, resp.PayloadCID)
			return nil
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "receiving account id")
	cmd.Flags().Int64Var(&amount, "amount", 0, "amount in tiny-units")
	cmd.Flags().StringVar(&memo, "memo", "", "memo recorded with the transaction")
	return cmd
}

func newSubmitCmd() *cobra.Command {
	var topic string
	var message string

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a message to a topic",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			topicID, err := ident.ParseTopicID(topic)
			if err != nil {
				return fmt.Errorf("--topic: %w", err)
			}
			if message == "" {
				return fmt.Errorf("--message must not be empty")
			}
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), flagTimeout)
			defer cancel()

			t := txn.NewMessageSubmitTransaction().
				SetTopicID(topicID).
				SetMessage([]byte(message))
			responses, err := t.ExecuteAll(ctx, c)
			if err != nil {
				return err
			}
			for i, resp := range responses {
				fmt.Fprintf(cmd.OutOrStdout(), "chunk %d/%d accepted by %s (%s)\n",
					i+1, len(responses), resp.NodeAccountID, resp.TransactionID)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&topic, "topic", "", "topic id to submit to")
	cmd.Flags().StringVar(&message, "message", "", "message bytes as text")
	return cmd
}
