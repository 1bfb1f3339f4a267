package cmd

import (
	"io/ioutil"

	eventsdb "github.com/WalletTeam/wallet-go-node/core/events"
	"github.com/WalletTeam/wallet-go-node/core/state"
	"github.com/WalletTeam/wallet-go-node/core/types"
	"github.com/WalletTeam/wallet-go-node/log"
	"github.com/spf13/cobra"
	"github.com/tendermint/go-amino"
	db "github.com/tendermint/tm-db"
)

var VerifyGenesisCommand = &cobra.Command{
	Use:   "verify_genesis",
	Short: "Verify a genesis file: structure, history digests and balance sheet",
	RunE:  verifyGenesis,
}

func init() {
	VerifyGenesisCommand.Flags().String("genesis", "", "path of the genesis file (default is the configured one)")
}

func verifyGenesis(cmd *cobra.Command, args []string) error {
	genesisPath, err := cmd.Flags().GetString("genesis")
	if err != nil {
		return err
	}
	if genesisPath == "" {
		genesisPath = cfg.GenesisFile()
	}

	jsonBytes, err := ioutil.ReadFile(genesisPath)
	if err != nil {
		return err
	}

	var appState types.AppState
	if err := amino.NewCodec().UnmarshalJSON(jsonBytes, &appState); err != nil {
		return err
	}

	if err := appState.Verify(); err != nil {
		log.Fatal("Failed to validate genesis structure", "err", err)
	}
	log.Info("Verify structure OK")

	// A dry-run import replays every history log and checks the declared
	// digests and the balance sheet.
	events := eventsdb.NewEventsStore(db.NewMemDB())
	memState, err := state.NewState(0, db.NewMemDB(), events, nil, 1024, 1, 0)
	if err != nil {
		return err
	}
	if err := memState.Import(appState); err != nil {
		log.Fatal("Failed to import genesis", "err", err)
	}
	if err := memState.Check(); err != nil {
		log.Fatal("Failed to check balance sheet", "err", err)
	}
	if _, err := memState.Commit(); err != nil {
		log.Fatal("Failed to commit imported state", "err", err)
	}

	log.Info("Verify genesis OK", "path", genesisPath)

	return nil
}
