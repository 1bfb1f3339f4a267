package bus

import (
	eventsdb "github.com/WalletTeam/wallet-go-node/core/events"
)

// Bus ties the ledger state parts together without direct package
// dependencies between them.
type Bus struct {
	history   History
	confirmed Confirmed
	checker   Checker
	events    eventsdb.IEventsDB
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) SetHistory(history History) {
	b.history = history
}

func (b *Bus) History() History {
	return b.history
}

func (b *Bus) SetConfirmed(confirmed Confirmed) {
	b.confirmed = confirmed
}

func (b *Bus) Confirmed() Confirmed {
	return b.confirmed
}

func (b *Bus) SetChecker(checker Checker) {
	b.checker = checker
}

func (b *Bus) Checker() Checker {
	return b.checker
}

func (b *Bus) SetEvents(events eventsdb.IEventsDB) {
	b.events = events
}

func (b *Bus) Events() eventsdb.IEventsDB {
	return b.events
}
