package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/citizenwallet/brussels-pay-wallet/internal/domain"
	"github.com/citizenwallet/brussels-pay-wallet/internal/usecase/transaction"
	"github.com/spf13/cobra"
)

func watchCmd(flags *globalFlags) *cobra.Command {
	var (
		account  string
		token    string
		interval time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow the transactions of an account as they arrive",
		RunE: func(cmd *cobra.Command, args []string) error {
			checkout, err := flags.checkout()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			out := cmd.OutOrStdout()
			uc := transaction.NewDefaultTransactionUsecase(checkout, nil, nil, transaction.Options{
				PollInterval: interval,
				OnUpsert: func(_ context.Context, _ string, txs []domain.Transaction) {
					for _, tx := range txs {
						printTransaction(out, tx)
					}
				},
			})

			unsubscribe := uc.Listen(ctx, account, token)
			defer unsubscribe()

			for _, tx := range uc.Store().Items() {
				printTransaction(out, tx)
			}
			fmt.Fprintf(out, "watching %s since %s\n", account, uc.Watermark().Format(time.RFC3339))

			<-ctx.Done()
			return nil
		},
	}
	cmd.Flags().StringVar(&account, "account", "", "account address")
	cmd.Flags().StringVar(&token, "token", "", "token address")
	cmd.Flags().DurationVar(&interval, "interval", transaction.DefaultPollInterval, "poll interval")
	cmd.MarkFlagRequired("account")
	return cmd
}

func printTransaction(w io.Writer, tx domain.Transaction) {
	fmt.Fprintf(w, "%s  %-9s  %s -> %s  %s  %s\n",
		tx.CreatedAt.Format("2006-01-02 15:04:05"), tx.Status, tx.From, tx.To, tx.Value, tx.Hash)
}
