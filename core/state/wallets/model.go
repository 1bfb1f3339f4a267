package wallets

import (
	"sync"

	"github.com/WalletTeam/wallet-go-node/core/types"
)

// Model is one wallet record. Balance fields and history metadata are only
// ever replaced together: every setter takes the new length and digest of
// the account's log, so a stored wallet can never disagree with its history.
type Model struct {
	Name          string
	Balance       uint64
	FrozenBalance uint64
	HistoryLen    uint64
	HistoryHash   types.Hash

	address   types.Address
	isDirty   bool
	isNew     bool
	markDirty func(types.Address)
	lock      sync.RWMutex
}

func (m *Model) Address() types.Address {
	return m.address
}

func (m *Model) GetName() string {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return m.Name
}

func (m *Model) GetBalance() uint64 {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return m.Balance
}

func (m *Model) GetFrozenBalance() uint64 {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return m.FrozenBalance
}

func (m *Model) GetHistoryLen() uint64 {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return m.HistoryLen
}

func (m *Model) GetHistoryHash() types.Hash {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return m.HistoryHash
}

func (m *Model) setBalance(balance uint64, historyLen uint64, historyHash types.Hash) {
	m.lock.Lock()
	m.Balance = balance
	m.HistoryLen = historyLen
	m.HistoryHash = historyHash
	m.isDirty = true
	m.lock.Unlock()

	m.markDirty(m.address)
}

func (m *Model) setFrozenBalance(frozenBalance uint64, historyLen uint64, historyHash types.Hash) {
	m.lock.Lock()
	m.FrozenBalance = frozenBalance
	m.HistoryLen = historyLen
	m.HistoryHash = historyHash
	m.isDirty = true
	m.lock.Unlock()

	m.markDirty(m.address)
}

func (m *Model) setBalances(balance uint64, frozenBalance uint64, historyLen uint64, historyHash types.Hash) {
	m.lock.Lock()
	m.Balance = balance
	m.FrozenBalance = frozenBalance
	m.HistoryLen = historyLen
	m.HistoryHash = historyHash
	m.isDirty = true
	m.lock.Unlock()

	m.markDirty(m.address)
}
