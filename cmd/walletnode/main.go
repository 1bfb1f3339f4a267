package main

import (
	"github.com/WalletTeam/wallet-go-node/cmd/utils"
	"github.com/WalletTeam/wallet-go-node/cmd/walletnode/cmd"
)

func main() {
	rootCmd := cmd.RootCmd
	rootCmd.PersistentFlags().StringVar(&utils.WalletHome, "home-dir", "", "base dir (default is $HOME/.walletnode)")
	rootCmd.PersistentFlags().Bool("testnet", false, "run on the testnet chain id")

	rootCmd.AddCommand(
		cmd.Version,
		cmd.ExportCommand,
		cmd.VerifyGenesisCommand)

	if err := cmd.RootCmd.Execute(); err != nil {
		panic(err)
	}
}
