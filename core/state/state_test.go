package state

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/WalletTeam/wallet-go-node/config"
	"github.com/WalletTeam/wallet-go-node/core/appdb"
	eventsdb "github.com/WalletTeam/wallet-go-node/core/events"
	"github.com/WalletTeam/wallet-go-node/core/state/history"
	"github.com/WalletTeam/wallet-go-node/core/types"
	db "github.com/tendermint/tm-db"
)

func newTestState(t *testing.T) (*State, db.DB) {
	t.Helper()

	memDB := db.NewMemDB()
	state, err := NewState(0, memDB, eventsdb.MockEvents{}, nil, 1024, 120, 0)
	if err != nil {
		t.Fatal(err)
	}

	return state, memDB
}

func TestStateCommit(t *testing.T) {
	t.Parallel()
	state, _ := newTestState(t)

	if err := state.Wallets.CreateWallet(types.Address{1}, "alice", types.Hash{1}); err != nil {
		t.Fatal(err)
	}
	if err := state.Check(); err != nil {
		t.Fatal(err)
	}

	hash, err := state.Commit()
	if err != nil {
		t.Fatal(err)
	}
	if len(hash) == 0 {
		t.Fatal("Empty app hash")
	}
	if state.Tree().Version() != 1 {
		t.Fatalf("Version is %d, want 1", state.Tree().Version())
	}

	// The app hash covers the whole ledger: another transition must move it.
	if err := state.Wallets.Mint(types.Address{1}, 10, types.Hash{2}); err != nil {
		t.Fatal(err)
	}

	hash2, err := state.Commit()
	if err != nil {
		t.Fatal(err)
	}
	if reflect.DeepEqual(hash, hash2) {
		t.Fatal("App hash did not change")
	}
}

func TestStateCommitPersistsLastBlock(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{BaseConfig: config.BaseConfig{DBBackend: "memdb"}}
	applicationDB := appdb.NewAppDB(t.TempDir(), cfg)
	defer applicationDB.Close()

	state, err := NewState(0, db.NewMemDB(), eventsdb.MockEvents{}, applicationDB, 1024, 120, 0)
	if err != nil {
		t.Fatal(err)
	}

	if err := state.Wallets.CreateWallet(types.Address{1}, "alice", types.Hash{1}); err != nil {
		t.Fatal(err)
	}

	hash, err := state.Commit()
	if err != nil {
		t.Fatal(err)
	}

	if applicationDB.GetLastHeight() != 1 {
		t.Fatalf("Last height is %d, want 1", applicationDB.GetLastHeight())
	}
	if !bytes.Equal(applicationDB.GetLastBlockHash(), hash) {
		t.Fatalf("Last block hash is %X, want %X", applicationDB.GetLastBlockHash(), hash)
	}
}

func TestStateCheckStateAtHeight(t *testing.T) {
	t.Parallel()
	state, memDB := newTestState(t)

	addr := types.Address{1}
	if err := state.Wallets.CreateWallet(addr, "alice", types.Hash{1}); err != nil {
		t.Fatal(err)
	}
	if _, err := state.Commit(); err != nil {
		t.Fatal(err)
	}

	if err := state.Wallets.Mint(addr, 10, types.Hash{2}); err != nil {
		t.Fatal(err)
	}
	if _, err := state.Commit(); err != nil {
		t.Fatal(err)
	}

	checkState, err := NewCheckStateAtHeight(1, memDB)
	if err != nil {
		t.Fatal(err)
	}

	wallet := checkState.Wallets().GetWallet(addr)
	if wallet == nil {
		t.Fatal("Wallet not found at height 1")
	}
	if wallet.GetBalance() != types.InitialBalance {
		t.Fatalf("Balance at height 1 is %d, want %d", wallet.GetBalance(), types.InitialBalance)
	}
}

func TestStateImportExportRoundTrip(t *testing.T) {
	t.Parallel()
	state, _ := newTestState(t)

	aliceHistory := []types.Hash{{1}, {2}, {3}}
	bobHistory := []types.Hash{{4}}

	genesis := types.AppState{
		Wallets: []types.Wallet{
			{
				Address:       types.Address{1},
				Name:          "alice",
				Balance:       175,
				FrozenBalance: 25,
				HistoryLen:    3,
				HistoryHash:   history.Digest(aliceHistory),
				History:       aliceHistory,
			},
			{
				Address:     types.Address{2},
				Name:        "bob",
				Balance:     types.InitialBalance,
				HistoryLen:  1,
				HistoryHash: history.Digest(bobHistory),
				History:     bobHistory,
			},
		},
		ConfirmedTransactions: []types.ConfirmedTransaction{
			{
				Hash:     types.Hash{0xee},
				From:     types.Address{1},
				To:       types.Address{2},
				Amount:   25,
				Approver: types.Address{3},
			},
		},
	}

	if err := genesis.Verify(); err != nil {
		t.Fatal(err)
	}
	if err := state.Import(genesis); err != nil {
		t.Fatal(err)
	}
	if err := state.Check(); err != nil {
		t.Fatal(err)
	}
	if _, err := state.Commit(); err != nil {
		t.Fatal(err)
	}

	exported := state.Export()
	if !reflect.DeepEqual(genesis.Wallets, exported.Wallets) {
		t.Fatalf("Exported wallets are %v, want %v", exported.Wallets, genesis.Wallets)
	}
	if !reflect.DeepEqual(genesis.ConfirmedTransactions, exported.ConfirmedTransactions) {
		t.Fatalf("Exported confirmed transactions are %v, want %v",
			exported.ConfirmedTransactions, genesis.ConfirmedTransactions)
	}
}

func TestStateImportRejectsBrokenDigest(t *testing.T) {
	t.Parallel()
	state, _ := newTestState(t)

	genesis := types.AppState{
		Wallets: []types.Wallet{
			{
				Address:     types.Address{1},
				Name:        "alice",
				Balance:     types.InitialBalance,
				HistoryLen:  1,
				HistoryHash: types.Hash{0xbb},
				History:     []types.Hash{{1}},
			},
		},
	}

	if err := state.Import(genesis); err == nil {
		t.Fatal("Import accepted a wallet with a mismatched history digest")
	}
}
