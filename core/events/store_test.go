package events

import (
	"testing"

	"github.com/WalletTeam/wallet-go-node/core/types"
	db "github.com/tendermint/tm-db"
)

func TestEventsStoreRoundTrip(t *testing.T) {
	t.Parallel()
	store := NewEventsStore(db.NewMemDB())

	store.AddEvent(&WalletCreatedEvent{
		Address: types.HexToAddress("Wx04bea23efb744dc93b4fda4c20bf4a21c6e195f1"),
		Name:    "alice",
		Balance: 100,
	})
	store.AddEvent(&EscrowFrozenEvent{
		Address:  types.HexToAddress("Wx04bea23efb744dc93b4fda4c20bf4a21c6e195f1"),
		To:       types.HexToAddress("Wx18467bbb36891c4686e8a61d90df28fbd045f7f0"),
		Approver: types.HexToAddress("Wx33bdd2071e87bd5d773003ed51ee40bc16a5c23c"),
		Amount:   75,
		TxHash:   types.Hash{0xee},
	})

	if err := store.CommitEvents(12); err != nil {
		t.Fatal(err)
	}

	store.AddEvent(&EscrowReleasedEvent{
		From:       types.HexToAddress("Wx04bea23efb744dc93b4fda4c20bf4a21c6e195f1"),
		To:         types.HexToAddress("Wx18467bbb36891c4686e8a61d90df28fbd045f7f0"),
		ApprovedBy: types.HexToAddress("Wx33bdd2071e87bd5d773003ed51ee40bc16a5c23c"),
		Amount:     75,
		TxHash:     types.Hash{0xee},
	})
	if err := store.CommitEvents(13); err != nil {
		t.Fatal(err)
	}

	loaded := store.LoadEvents(12)
	if len(loaded) != 2 {
		t.Fatalf("Height 12 has %d events, want 2", len(loaded))
	}

	created, ok := loaded[0].(*WalletCreatedEvent)
	if !ok {
		t.Fatalf("First event is %T, want *WalletCreatedEvent", loaded[0])
	}
	if created.Name != "alice" || created.Balance != 100 {
		t.Fatal("Invalid event data")
	}

	frozen, ok := loaded[1].(*EscrowFrozenEvent)
	if !ok {
		t.Fatalf("Second event is %T, want *EscrowFrozenEvent", loaded[1])
	}
	if frozen.Amount != 75 || frozen.TxHash != (types.Hash{0xee}) {
		t.Fatal("Invalid event data")
	}

	loaded = store.LoadEvents(13)
	if len(loaded) != 1 {
		t.Fatalf("Height 13 has %d events, want 1", len(loaded))
	}
	if _, ok := loaded[0].(*EscrowReleasedEvent); !ok {
		t.Fatalf("Event is %T, want *EscrowReleasedEvent", loaded[0])
	}

	if events := store.LoadEvents(14); len(events) != 0 {
		t.Fatal("Height 14 has events")
	}
}
