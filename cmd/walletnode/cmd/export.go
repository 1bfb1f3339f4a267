package cmd

import (
	"fmt"
	"io/ioutil"
	"time"

	"github.com/WalletTeam/wallet-go-node/core/appdb"
	"github.com/WalletTeam/wallet-go-node/core/state"
	"github.com/WalletTeam/wallet-go-node/log"
	"github.com/WalletTeam/wallet-go-node/version"
	"github.com/spf13/cobra"
	"github.com/tendermint/go-amino"
	db "github.com/tendermint/tm-db"
)

var ExportCommand = &cobra.Command{
	Use:   "export",
	Short: "Export the ledger state at a given height to a genesis file",
	RunE:  export,
}

func init() {
	ExportCommand.Flags().Uint64("height", 0, "height to export at (0 for the latest committed)")
	ExportCommand.Flags().String("output", "genesis.json", "path of the resulting genesis file")
	ExportCommand.Flags().Bool("indent", false, "indent the resulting json")
}

func export(cmd *cobra.Command, args []string) error {
	height, err := cmd.Flags().GetUint64("height")
	if err != nil {
		return err
	}

	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	indent, err := cmd.Flags().GetBool("indent")
	if err != nil {
		return err
	}

	log.Info("Start exporting")

	ldb, err := db.NewDB("state", db.BackendType(cfg.DBBackend), cfg.DBDir())
	if err != nil {
		log.Fatal("Cannot load db", "err", err)
	}

	applicationDB := appdb.NewAppDB(cfg.RootDir, cfg)
	log.Info("Last committed state",
		"height", applicationDB.GetLastHeight(),
		"hash", fmt.Sprintf("%X", applicationDB.GetLastBlockHash()))

	if height == 0 {
		height = applicationDB.GetLastHeight()
	}

	currentState, err := state.NewCheckStateAtHeight(height, ldb)
	if err != nil {
		log.Fatal("Cannot create state at given height",
			"height", height, "last_height", applicationDB.GetLastHeight(), "err", err)
	}

	exportTimeStart := time.Now()
	appState := currentState.Export()
	log.Info("State has been exported", "took", time.Since(exportTimeStart))

	appState.StartHeight = height
	appState.Note = "export of " + version.Version

	if err := appState.Verify(); err != nil {
		log.Fatal("Failed to validate state", "err", err)
	}
	log.Info("Verify state OK")

	var jsonBytes []byte
	if indent {
		jsonBytes, err = amino.NewCodec().MarshalJSONIndent(appState, "", "	")
	} else {
		jsonBytes, err = amino.NewCodec().MarshalJSON(appState)
	}
	if err != nil {
		log.Fatal("Cannot marshal state to json", "err", err)
	}

	if err := ioutil.WriteFile(output, jsonBytes, 0644); err != nil {
		log.Fatal("Failed to save genesis file", "err", err)
	}
	log.Info("Saved genesis", "path", output)

	return nil
}
