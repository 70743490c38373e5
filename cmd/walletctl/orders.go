package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/citizenwallet/brussels-pay-wallet/internal/domain"
	"github.com/citizenwallet/brussels-pay-wallet/internal/state"
	"github.com/citizenwallet/brussels-pay-wallet/internal/usecase/order"
	"github.com/spf13/cobra"
)

func ordersCmd(flags *globalFlags) *cobra.Command {
	var (
		account string
		token   string
		status  string
		all     bool
	)
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List the orders of an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			checkout, err := flags.checkout()
			if err != nil {
				return err
			}
			uc := order.NewDefaultOrderUsecase(checkout, nil, nil, order.Options{})

			more := uc.GetOrders(cmd.Context(), account, token, true)
			for all && more {
				more = uc.GetOrders(cmd.Context(), account, token, false)
			}

			snap := uc.Store().Snapshot()
			if snap.Error != "" {
				return fmt.Errorf("fetch orders: %s", snap.Error)
			}
			printOrders(cmd.OutOrStdout(), state.SortedByDate(state.ByStatus(snap.Items, status)))
			if more {
				fmt.Fprintln(cmd.OutOrStdout(), "more orders available, use --all")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&account, "account", "", "account address")
	cmd.Flags().StringVar(&token, "token", "", "token address")
	cmd.Flags().StringVar(&status, "status", "", "only orders with this status")
	cmd.Flags().BoolVar(&all, "all", false, "fetch every page")
	cmd.MarkFlagRequired("account")
	return cmd
}

func printOrders(w io.Writer, orders []domain.Order) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tSTATUS\tTOTAL\tITEMS")
	for _, o := range orders {
		items := o.ResolveItems()
		summary := ""
		for i, it := range items {
			if i > 0 {
				summary += ", "
			}
			summary += fmt.Sprintf("%dx %s", it.Quantity, it.Name)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", o.ID, o.CreatedAt.Format("2006-01-02 15:04"), o.Status, o.Total, summary)
	}
	tw.Flush()
}
