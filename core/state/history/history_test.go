package history

import (
	"testing"

	"github.com/WalletTeam/wallet-go-node/core/state/bus"
	"github.com/WalletTeam/wallet-go-node/core/types"
	"github.com/WalletTeam/wallet-go-node/tree"
	"github.com/tendermint/tendermint/crypto/tmhash"
	db "github.com/tendermint/tm-db"
)

func newTestHistories(t *testing.T) (*Histories, tree.MTree) {
	t.Helper()

	b := bus.NewBus()
	mutableTree, err := tree.NewMutableTree(0, db.NewMemDB(), 1024, 0)
	if err != nil {
		t.Fatal(err)
	}

	return NewHistories(b, mutableTree.GetLastImmutable()), mutableTree
}

func TestHistoriesAppend(t *testing.T) {
	t.Parallel()
	histories, _ := newTestHistories(t)

	addr := types.Address{1}
	first, second := types.Hash{0xaa}, types.Hash{0xbb}

	length, digest := histories.Append(addr, first)
	if length != 1 {
		t.Fatalf("Length is %d, want 1", length)
	}

	var zero types.Hash
	want := types.BytesToHash(tmhash.Sum(append(zero.Bytes(), first.Bytes()...)))
	if digest != want {
		t.Fatalf("Digest is %s, want %s", digest.String(), want.String())
	}

	length, digest = histories.Append(addr, second)
	if length != 2 {
		t.Fatalf("Length is %d, want 2", length)
	}

	want = types.BytesToHash(tmhash.Sum(append(want.Bytes(), second.Bytes()...)))
	if digest != want {
		t.Fatalf("Digest is %s, want %s", digest.String(), want.String())
	}
}

func TestHistoriesDigestDependsOnOrder(t *testing.T) {
	t.Parallel()

	a, b := types.Hash{0xaa}, types.Hash{0xbb}

	if Digest([]types.Hash{a, b}) == Digest([]types.Hash{b, a}) {
		t.Fatal("Digest must depend on the order of entries")
	}
	if Digest([]types.Hash{a, b}) == Digest([]types.Hash{a}) {
		t.Fatal("Digest must depend on the length of the log")
	}
}

func TestHistoriesGetUnknownAddress(t *testing.T) {
	t.Parallel()
	histories, _ := newTestHistories(t)

	if histories.Get(types.Address{9}) != nil {
		t.Fatal("Unknown address has a history")
	}
	if histories.Entries(types.Address{9}) != nil {
		t.Fatal("Unknown address has history entries")
	}
}

func TestHistoriesCommitAndReload(t *testing.T) {
	t.Parallel()
	histories, mutableTree := newTestHistories(t)

	addr := types.Address{1}
	hashes := []types.Hash{{1}, {2}, {3}}

	histories.Append(addr, hashes[0])
	histories.Append(addr, hashes[1])

	if _, _, err := mutableTree.Commit(histories); err != nil {
		t.Fatal(err)
	}

	// A log keeps growing across commits from where it left off.
	histories.Append(addr, hashes[2])

	entries := histories.Entries(addr)
	if len(entries) != 3 {
		t.Fatalf("History has %d entries, want 3", len(entries))
	}
	for i, h := range hashes {
		if entries[i] != h {
			t.Fatalf("Entry %d is %s, want %s", i, entries[i].String(), h.String())
		}
	}

	if _, _, err := mutableTree.Commit(histories); err != nil {
		t.Fatal(err)
	}

	reloaded := NewHistories(bus.NewBus(), mutableTree.GetLastImmutable())

	model := reloaded.Get(addr)
	if model == nil {
		t.Fatal("History not found after reload")
	}
	if model.Length() != 3 {
		t.Fatalf("Length after reload is %d, want 3", model.Length())
	}
	if model.Digest() != Digest(hashes) {
		t.Fatal("Digest mismatch after reload")
	}
	if entries := reloaded.Entries(addr); len(entries) != 3 || entries[2] != hashes[2] {
		t.Fatal("Invalid entries after reload")
	}
}
