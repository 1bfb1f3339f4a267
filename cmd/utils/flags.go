package utils

import (
	"os"
	"path/filepath"
)

var (
	WalletHome   string
	WalletConfig string
)

func GetWalletHome() string {
	if WalletHome != "" {
		return WalletHome
	}

	home := os.Getenv("WALLETNODEHOME")

	if home != "" {
		return home
	}

	return os.ExpandEnv(filepath.Join("$HOME", ".walletnode"))
}

func GetWalletConfigPath() string {
	if WalletConfig != "" {
		return WalletConfig
	}

	return GetWalletHome() + "/config/config.toml"
}
