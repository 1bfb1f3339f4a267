package confirmed

import (
	"testing"

	"github.com/WalletTeam/wallet-go-node/core/state/bus"
	"github.com/WalletTeam/wallet-go-node/core/types"
	"github.com/WalletTeam/wallet-go-node/tree"
	db "github.com/tendermint/tm-db"
)

func newTestConfirmed(t *testing.T) (*Confirmed, tree.MTree) {
	t.Helper()

	b := bus.NewBus()
	mutableTree, err := tree.NewMutableTree(0, db.NewMemDB(), 1024, 0)
	if err != nil {
		t.Fatal(err)
	}

	return NewConfirmed(b, mutableTree.GetLastImmutable()), mutableTree
}

func TestConfirmedAddAndGet(t *testing.T) {
	t.Parallel()
	confirmed, _ := newTestConfirmed(t)

	txHash := types.Hash{0xee}
	record := bus.SendApprove{
		From:     types.Address{1},
		To:       types.Address{2},
		Amount:   75,
		Approver: types.Address{3},
	}

	if confirmed.Exists(txHash) {
		t.Fatal("Record exists before Add")
	}

	confirmed.Add(txHash, record)

	if !confirmed.Exists(txHash) {
		t.Fatal("Record not found")
	}

	model := confirmed.Get(txHash)
	if model == nil {
		t.Fatal("Record not found")
	}
	if model.Hash() != txHash {
		t.Fatal("Invalid record hash")
	}
	if model.From != record.From || model.To != record.To ||
		model.Amount != record.Amount || model.Approver != record.Approver {
		t.Fatal("Invalid record data")
	}
}

func TestConfirmedCommitAndReload(t *testing.T) {
	t.Parallel()
	confirmed, mutableTree := newTestConfirmed(t)

	txHash := types.Hash{0xee}
	confirmed.Add(txHash, bus.SendApprove{
		From:     types.Address{1},
		To:       types.Address{2},
		Amount:   75,
		Approver: types.Address{3},
	})

	if _, _, err := mutableTree.Commit(confirmed); err != nil {
		t.Fatal(err)
	}

	reloaded := NewConfirmed(bus.NewBus(), mutableTree.GetLastImmutable())

	model := reloaded.Get(txHash)
	if model == nil {
		t.Fatal("Record not found after reload")
	}
	if model.From != (types.Address{1}) || model.Amount != 75 {
		t.Fatal("Invalid record data after reload")
	}
}

func TestConfirmedExport(t *testing.T) {
	t.Parallel()
	confirmed, mutableTree := newTestConfirmed(t)

	second, first := types.Hash{2}, types.Hash{1}
	confirmed.Add(second, bus.SendApprove{From: types.Address{1}, To: types.Address{2}, Amount: 5, Approver: types.Address{3}})
	confirmed.Add(first, bus.SendApprove{From: types.Address{4}, To: types.Address{5}, Amount: 7, Approver: types.Address{6}})

	if _, _, err := mutableTree.Commit(confirmed); err != nil {
		t.Fatal(err)
	}

	state := new(types.AppState)
	confirmed.Export(state)

	if len(state.ConfirmedTransactions) != 2 {
		t.Fatalf("Exported %d records, want 2", len(state.ConfirmedTransactions))
	}
	if state.ConfirmedTransactions[0].Hash != first || state.ConfirmedTransactions[1].Hash != second {
		t.Fatal("Exported records are not sorted by hash")
	}
	if state.ConfirmedTransactions[1].Amount != 5 || state.ConfirmedTransactions[0].Amount != 7 {
		t.Fatal("Invalid exported record data")
	}
}
