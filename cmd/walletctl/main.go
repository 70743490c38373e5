package main

import (
	"fmt"
	"os"
	"time"

	"github.com/citizenwallet/brussels-pay-wallet/internal/client"
	"github.com/spf13/cobra"
)

var Version = "dev"

type globalFlags struct {
	checkoutURL string
	timeout     time.Duration
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	rootCmd := &cobra.Command{
		Use:     "walletctl",
		Short:   "Inspect Brussels Pay wallets through the checkout backend",
		Version: Version,
	}
	rootCmd.PersistentFlags().StringVar(&flags.checkoutURL, "checkout-url", os.Getenv("CHECKOUT_API_BASE_URL"), "checkout API base URL")
	rootCmd.PersistentFlags().DurationVar(&flags.timeout, "timeout", 10*time.Second, "request timeout")

	rootCmd.AddCommand(ordersCmd(flags))
	rootCmd.AddCommand(watchCmd(flags))
	rootCmd.AddCommand(balanceCmd(flags))
	return rootCmd
}

func (f *globalFlags) checkout() (*client.HTTPCheckoutClient, error) {
	return client.NewHTTPCheckoutClient(f.checkoutURL, f.timeout)
}
