package wallets

import (
	"math"
	"testing"

	eventsdb "github.com/WalletTeam/wallet-go-node/core/events"
	"github.com/WalletTeam/wallet-go-node/core/state/bus"
	"github.com/WalletTeam/wallet-go-node/core/state/checker"
	"github.com/WalletTeam/wallet-go-node/core/state/confirmed"
	"github.com/WalletTeam/wallet-go-node/core/state/history"
	"github.com/WalletTeam/wallet-go-node/core/types"
	"github.com/WalletTeam/wallet-go-node/tree"
	db "github.com/tendermint/tm-db"
)

func newTestWallets(t *testing.T) (*Wallets, *history.Histories, *confirmed.Confirmed, *checker.Checker, tree.MTree) {
	t.Helper()

	b := bus.NewBus()
	mutableTree, err := tree.NewMutableTree(0, db.NewMemDB(), 1024, 0)
	if err != nil {
		t.Fatal(err)
	}

	histories := history.NewHistories(b, mutableTree.GetLastImmutable())
	confirmedState := confirmed.NewConfirmed(b, mutableTree.GetLastImmutable())
	check := checker.NewChecker(b)
	b.SetEvents(eventsdb.MockEvents{})

	wallets := NewWallets(b, mutableTree.GetLastImmutable())

	return wallets, histories, confirmedState, check, mutableTree
}

func TestWalletsCreateWallet(t *testing.T) {
	t.Parallel()
	wallets, histories, _, check, _ := newTestWallets(t)

	addr, txHash := types.Address{1}, types.Hash{0xaa}

	if err := wallets.CreateWallet(addr, "alice", txHash); err != nil {
		t.Fatal(err)
	}

	wallet := wallets.GetWallet(addr)
	if wallet == nil {
		t.Fatal("Wallet not found")
	}

	if wallet.GetName() != "alice" {
		t.Fatalf("Name is %s, want alice", wallet.GetName())
	}
	if wallet.GetBalance() != types.InitialBalance {
		t.Fatalf("Balance is %d, want %d", wallet.GetBalance(), types.InitialBalance)
	}
	if wallet.GetFrozenBalance() != 0 {
		t.Fatalf("Frozen balance is %d, want 0", wallet.GetFrozenBalance())
	}
	if wallet.GetHistoryLen() != 1 {
		t.Fatalf("History length is %d, want 1", wallet.GetHistoryLen())
	}
	if wallet.GetHistoryHash() != history.Digest([]types.Hash{txHash}) {
		t.Fatal("History digest mismatch")
	}
	if got := histories.Entries(addr); len(got) != 1 || got[0] != txHash {
		t.Fatalf("History entries are %v, want [%s]", got, txHash.String())
	}

	if err := check.Check(); err != nil {
		t.Fatal(err)
	}
}

func TestWalletsCreateWalletTwice(t *testing.T) {
	t.Parallel()
	wallets, _, _, _, _ := newTestWallets(t)

	addr := types.Address{1}

	if err := wallets.CreateWallet(addr, "alice", types.Hash{1}); err != nil {
		t.Fatal(err)
	}

	err := wallets.CreateWallet(addr, "eve", types.Hash{2})
	if err != ErrWalletAlreadyExists {
		t.Fatalf("Error is %v, want %v", err, ErrWalletAlreadyExists)
	}

	wallet := wallets.GetWallet(addr)
	if wallet.GetName() != "alice" || wallet.GetHistoryLen() != 1 {
		t.Fatal("Rejected creation changed the wallet")
	}
}

func TestWalletsAddSubBalance(t *testing.T) {
	t.Parallel()
	wallets, _, _, check, _ := newTestWallets(t)

	addr := types.Address{1}
	if err := wallets.CreateWallet(addr, "alice", types.Hash{1}); err != nil {
		t.Fatal(err)
	}

	if err := wallets.Mint(addr, 400, types.Hash{2}); err != nil {
		t.Fatal(err)
	}
	if err := wallets.SubBalance(addr, 150, types.Hash{3}); err != nil {
		t.Fatal(err)
	}

	wallet := wallets.GetWallet(addr)
	if wallet.GetBalance() != types.InitialBalance+250 {
		t.Fatalf("Balance is %d, want %d", wallet.GetBalance(), types.InitialBalance+250)
	}
	if wallet.GetHistoryLen() != 3 {
		t.Fatalf("History length is %d, want 3", wallet.GetHistoryLen())
	}

	if err := check.Check(); err == nil {
		t.Fatal("SubBalance without a counterpart credit must break the balance sheet")
	}
}

func TestWalletsSubBalanceInsufficientFunds(t *testing.T) {
	t.Parallel()
	wallets, _, _, _, _ := newTestWallets(t)

	addr := types.Address{1}
	if err := wallets.CreateWallet(addr, "alice", types.Hash{1}); err != nil {
		t.Fatal(err)
	}

	err := wallets.SubBalance(addr, types.InitialBalance+1, types.Hash{2})
	if err != ErrInsufficientFunds {
		t.Fatalf("Error is %v, want %v", err, ErrInsufficientFunds)
	}

	wallet := wallets.GetWallet(addr)
	if wallet.GetBalance() != types.InitialBalance {
		t.Fatalf("Balance is %d, want %d", wallet.GetBalance(), types.InitialBalance)
	}
	if wallet.GetHistoryLen() != 1 {
		t.Fatal("Failed operation appended to the history")
	}
}

func TestWalletsAddBalanceOverflow(t *testing.T) {
	t.Parallel()
	wallets, _, _, _, _ := newTestWallets(t)

	addr := types.Address{1}
	if err := wallets.CreateWallet(addr, "alice", types.Hash{1}); err != nil {
		t.Fatal(err)
	}
	if err := wallets.Mint(addr, math.MaxUint64-types.InitialBalance, types.Hash{2}); err != nil {
		t.Fatal(err)
	}

	err := wallets.AddBalance(addr, 1, types.Hash{3})
	if err != ErrArithmeticOverflow {
		t.Fatalf("Error is %v, want %v", err, ErrArithmeticOverflow)
	}

	wallet := wallets.GetWallet(addr)
	if wallet.GetBalance() != math.MaxUint64 {
		t.Fatal("Failed operation changed the balance")
	}
	if wallet.GetHistoryLen() != 2 {
		t.Fatal("Failed operation appended to the history")
	}
}

func TestWalletsUnknownWallet(t *testing.T) {
	t.Parallel()
	wallets, _, _, _, _ := newTestWallets(t)

	addr := types.Address{9}

	if err := wallets.AddBalance(addr, 1, types.Hash{1}); err != ErrWalletNotFound {
		t.Fatalf("Error is %v, want %v", err, ErrWalletNotFound)
	}
	if err := wallets.SubBalance(addr, 1, types.Hash{1}); err != ErrWalletNotFound {
		t.Fatalf("Error is %v, want %v", err, ErrWalletNotFound)
	}
	if err := wallets.Freeze(addr, 1, types.Hash{1}); err != ErrWalletNotFound {
		t.Fatalf("Error is %v, want %v", err, ErrWalletNotFound)
	}
}

func TestWalletsFreezeUnfreeze(t *testing.T) {
	t.Parallel()
	wallets, _, _, check, _ := newTestWallets(t)

	addr := types.Address{1}
	if err := wallets.CreateWallet(addr, "alice", types.Hash{1}); err != nil {
		t.Fatal(err)
	}

	if err := wallets.Freeze(addr, 60, types.Hash{2}); err != nil {
		t.Fatal(err)
	}

	wallet := wallets.GetWallet(addr)
	if wallet.GetFrozenBalance() != 60 {
		t.Fatalf("Frozen balance is %d, want 60", wallet.GetFrozenBalance())
	}
	if wallet.GetBalance() != types.InitialBalance {
		t.Fatal("Freezing must not reduce the balance")
	}

	if err := wallets.Unfreeze(addr, 25, types.Hash{3}); err != nil {
		t.Fatal(err)
	}
	if wallet.GetFrozenBalance() != 35 {
		t.Fatalf("Frozen balance is %d, want 35", wallet.GetFrozenBalance())
	}

	if err := wallets.Unfreeze(addr, 36, types.Hash{4}); err != ErrInsufficientEscrow {
		t.Fatalf("Error is %v, want %v", err, ErrInsufficientEscrow)
	}
	if wallet.GetHistoryLen() != 3 {
		t.Fatal("Failed operation appended to the history")
	}

	if err := check.Check(); err != nil {
		t.Fatal(err)
	}
}

func TestWalletsFinalizeEscrow(t *testing.T) {
	t.Parallel()
	wallets, _, _, _, _ := newTestWallets(t)

	addr := types.Address{1}
	if err := wallets.CreateWallet(addr, "alice", types.Hash{1}); err != nil {
		t.Fatal(err)
	}
	if err := wallets.Freeze(addr, 60, types.Hash{2}); err != nil {
		t.Fatal(err)
	}

	if err := wallets.FinalizeEscrow(addr, 70, types.Hash{3}); err != ErrInsufficientEscrow {
		t.Fatalf("Error is %v, want %v", err, ErrInsufficientEscrow)
	}

	if err := wallets.FinalizeEscrow(addr, 40, types.Hash{3}); err != nil {
		t.Fatal(err)
	}

	wallet := wallets.GetWallet(addr)
	if wallet.GetBalance() != types.InitialBalance-40 {
		t.Fatalf("Balance is %d, want %d", wallet.GetBalance(), types.InitialBalance-40)
	}
	if wallet.GetFrozenBalance() != 20 {
		t.Fatalf("Frozen balance is %d, want 20", wallet.GetFrozenBalance())
	}
	if wallet.GetHistoryLen() != 3 {
		t.Fatalf("History length is %d, want 3", wallet.GetHistoryLen())
	}
}

func TestWalletsSendApproveFlow(t *testing.T) {
	t.Parallel()
	wallets, _, _, check, _ := newTestWallets(t)

	from, to, approver := types.Address{1}, types.Address{2}, types.Address{3}
	for i, addr := range []types.Address{from, to, approver} {
		if err := wallets.CreateWallet(addr, "", types.Hash{byte(i + 1)}); err != nil {
			t.Fatal(err)
		}
	}

	escrowHash := types.Hash{0xee}
	if err := wallets.CreateSendApprove(from, 75, to, approver, escrowHash); err != nil {
		t.Fatal(err)
	}

	record := wallets.bus.Confirmed().GetConfirmed(escrowHash)
	if record == nil {
		t.Fatal("Escrow is not registered")
	}
	if record.From != from || record.To != to || record.Amount != 75 || record.Approver != approver {
		t.Fatal("Invalid escrow record")
	}
	if wallets.GetWallet(from).GetFrozenBalance() != 75 {
		t.Fatal("Escrowed funds are not frozen")
	}

	approveHash := types.Hash{0xff}
	if err := wallets.ApproveEscrow(to, escrowHash, approveHash); err != ErrNotApprover {
		t.Fatal("Escrow released by a non-approver")
	}
	if err := wallets.ApproveEscrow(approver, types.Hash{0xde}, approveHash); err != ErrNotConfirmed {
		t.Fatal("Unknown escrow released")
	}

	if err := wallets.ApproveEscrow(approver, escrowHash, approveHash); err != nil {
		t.Fatal(err)
	}

	sender := wallets.GetWallet(from)
	if sender.GetBalance() != types.InitialBalance-75 || sender.GetFrozenBalance() != 0 {
		t.Fatalf("Sender balances are %d/%d, want %d/0",
			sender.GetBalance(), sender.GetFrozenBalance(), types.InitialBalance-75)
	}

	recipient := wallets.GetWallet(to)
	if recipient.GetBalance() != types.InitialBalance+75 {
		t.Fatalf("Recipient balance is %d, want %d", recipient.GetBalance(), types.InitialBalance+75)
	}

	// CreateWallet, CreateSendApprove, ApproveEscrow for the sender.
	if sender.GetHistoryLen() != 3 {
		t.Fatalf("Sender history length is %d, want 3", sender.GetHistoryLen())
	}
	// CreateWallet, ApproveEscrow for the recipient.
	if recipient.GetHistoryLen() != 2 {
		t.Fatalf("Recipient history length is %d, want 2", recipient.GetHistoryLen())
	}

	if err := check.Check(); err != nil {
		t.Fatal(err)
	}
}

func TestWalletsCommitAndReload(t *testing.T) {
	t.Parallel()
	wallets, histories, confirmedState, _, mutableTree := newTestWallets(t)

	addr := types.Address{1}
	hashes := []types.Hash{{1}, {2}, {3}}

	if err := wallets.CreateWallet(addr, "alice", hashes[0]); err != nil {
		t.Fatal(err)
	}
	if err := wallets.Mint(addr, 50, hashes[1]); err != nil {
		t.Fatal(err)
	}
	if err := wallets.Freeze(addr, 30, hashes[2]); err != nil {
		t.Fatal(err)
	}

	if _, _, err := mutableTree.Commit(wallets, histories, confirmedState); err != nil {
		t.Fatal(err)
	}

	b := bus.NewBus()
	reloadedHistories := history.NewHistories(b, mutableTree.GetLastImmutable())
	confirmed.NewConfirmed(b, mutableTree.GetLastImmutable())
	checker.NewChecker(b)
	b.SetEvents(eventsdb.MockEvents{})
	reloaded := NewWallets(b, mutableTree.GetLastImmutable())

	wallet := reloaded.GetWallet(addr)
	if wallet == nil {
		t.Fatal("Wallet not found after reload")
	}
	if wallet.GetName() != "alice" || wallet.GetBalance() != types.InitialBalance+50 || wallet.GetFrozenBalance() != 30 {
		t.Fatal("Invalid wallet data after reload")
	}
	if wallet.GetHistoryLen() != 3 || wallet.GetHistoryHash() != history.Digest(hashes) {
		t.Fatal("Invalid history metadata after reload")
	}

	entries := reloadedHistories.Entries(addr)
	if len(entries) != 3 {
		t.Fatalf("History has %d entries after reload, want 3", len(entries))
	}
	for i, h := range hashes {
		if entries[i] != h {
			t.Fatalf("History entry %d is %s, want %s", i, entries[i].String(), h.String())
		}
	}
}

func TestWalletsExport(t *testing.T) {
	t.Parallel()
	wallets, histories, confirmedState, _, mutableTree := newTestWallets(t)

	first, second := types.Address{2}, types.Address{1}
	if err := wallets.CreateWallet(first, "bob", types.Hash{1}); err != nil {
		t.Fatal(err)
	}
	if err := wallets.CreateWallet(second, "alice", types.Hash{2}); err != nil {
		t.Fatal(err)
	}

	if _, _, err := mutableTree.Commit(wallets, histories, confirmedState); err != nil {
		t.Fatal(err)
	}

	state := new(types.AppState)
	wallets.Export(state)

	if len(state.Wallets) != 2 {
		t.Fatalf("Exported %d wallets, want 2", len(state.Wallets))
	}
	if state.Wallets[0].Address != second || state.Wallets[1].Address != first {
		t.Fatal("Exported wallets are not sorted by address")
	}
	if state.Wallets[0].Name != "alice" || state.Wallets[0].Balance != types.InitialBalance {
		t.Fatal("Invalid exported wallet data")
	}
}
