package main

import (
	"fmt"

	"github.com/citizenwallet/brussels-pay-wallet/internal/infrastructure/chain"
	"github.com/citizenwallet/brussels-pay-wallet/internal/infrastructure/community"
	"github.com/citizenwallet/brussels-pay-wallet/internal/usecase/account"
	"github.com/spf13/cobra"
)

func balanceCmd(flags *globalFlags) *cobra.Command {
	var (
		communityPath string
		rpcURL        string
		instance      string
		serial        string
		accountAddr   string
		token         string
	)
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Show the balance of a card or an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := community.Load(communityPath)
			if err != nil {
				return err
			}
			eth, err := chain.Dial(cmd.Context(), rpcURL, cfg.CardManagerAddress(), instance)
			if err != nil {
				return err
			}
			checkout, err := flags.checkout()
			if err != nil {
				return err
			}
			uc := account.NewDefaultAccountUsecase(cfg, eth, checkout)

			if accountAddr == "" {
				card, err := uc.ResolveCard(cmd.Context(), serial)
				if err != nil {
					return err
				}
				accountAddr = card.Account
			}
			balance, err := uc.FetchBalance(cmd.Context(), accountAddr, token)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", balance.Account, balance.Formatted, balance.Token.Symbol)
			return nil
		},
	}
	cmd.Flags().StringVar(&communityPath, "community", "community.json", "community config file")
	cmd.Flags().StringVar(&rpcURL, "rpc", "", "chain RPC URL")
	cmd.Flags().StringVar(&instance, "instance", "", "card manager instance")
	cmd.Flags().StringVar(&serial, "serial", "", "card serial")
	cmd.Flags().StringVar(&accountAddr, "account", "", "account address, instead of --serial")
	cmd.Flags().StringVar(&token, "token", "", "token address, primary token when empty")
	cmd.MarkFlagRequired("rpc")
	cmd.MarkFlagsOneRequired("serial", "account")
	return cmd
}
