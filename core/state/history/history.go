package history

import (
	"encoding/binary"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/WalletTeam/wallet-go-node/core/state/bus"
	"github.com/WalletTeam/wallet-go-node/core/types"
	"github.com/cosmos/iavl"
	"github.com/tendermint/go-amino"
)

const mainPrefix = byte('h')
const entryPrefix = byte('H')

type RHistories interface {
	Get(address types.Address) *Model
	Entries(address types.Address) []types.Hash
}

// Histories is the per-account append-only log of applied transaction
// hashes. Every account's log carries an aggregate digest that is a
// function of the full ordered sequence of appended hashes, so any
// reordering or omission changes it.
type Histories struct {
	list  map[types.Address]*Model
	dirty map[types.Address]struct{}

	db  atomic.Value
	bus *bus.Bus

	lock sync.RWMutex
}

func NewHistories(stateBus *bus.Bus, db *iavl.ImmutableTree) *Histories {
	immutableTree := atomic.Value{}
	if db != nil {
		immutableTree.Store(db)
	}
	histories := &Histories{
		bus:   stateBus,
		db:    immutableTree,
		list:  map[types.Address]*Model{},
		dirty: map[types.Address]struct{}{},
	}
	histories.bus.SetHistory(NewBus(histories))

	return histories
}

func (h *Histories) immutableTree() *iavl.ImmutableTree {
	db := h.db.Load()
	if db == nil {
		return nil
	}
	return db.(*iavl.ImmutableTree)
}

func (h *Histories) SetImmutableTree(immutableTree *iavl.ImmutableTree) {
	h.db.Store(immutableTree)
}

// Append pushes the transaction hash to the account's log and returns the
// new length and aggregate digest. The entry is persisted on the next
// commit together with the rest of the state transition.
func (h *Histories) Append(address types.Address, txHash types.Hash) (uint64, types.Hash) {
	model := h.getOrNew(address)

	model.lock.Lock()
	model.Hash = chain(model.Hash, txHash)
	model.Len++
	model.pending = append(model.pending, txHash)
	length, hash := model.Len, model.Hash
	model.lock.Unlock()

	h.markDirty(address)

	return length, hash
}

// Get returns the head of the account's log or nil if nothing was ever
// appended for the address.
func (h *Histories) Get(address types.Address) *Model {
	return h.get(address)
}

// Entries loads the full ordered log of the account, including entries not
// yet flushed to the tree.
func (h *Histories) Entries(address types.Address) []types.Hash {
	model := h.get(address)
	if model == nil {
		return nil
	}

	model.lock.RLock()
	defer model.lock.RUnlock()

	entries := make([]types.Hash, 0, model.Len)
	committed := model.Len - uint64(len(model.pending))
	for i := uint64(0); i < committed; i++ {
		_, enc := h.immutableTree().Get(getEntryPath(address, i))
		if len(enc) == 0 {
			panic(fmt.Sprintf("history entry %d of address %s not found", i, address.String()))
		}
		entries = append(entries, types.BytesToHash(enc))
	}

	return append(entries, model.pending...)
}

func (h *Histories) Commit(db *iavl.MutableTree) error {
	addresses := h.getOrderedDirty()
	for _, address := range addresses {
		model := h.getFromMap(address)

		h.lock.Lock()
		delete(h.dirty, address)
		h.lock.Unlock()

		model.lock.Lock()
		first := model.Len - uint64(len(model.pending))
		for i, txHash := range model.pending {
			db.Set(getEntryPath(address, first+uint64(i)), txHash.Bytes())
		}
		model.pending = nil

		data, err := amino.MarshalBinaryBare(model)
		model.lock.Unlock()
		if err != nil {
			return fmt.Errorf("can't encode history of %x: %v", address[:], err)
		}

		db.Set(getPath(address), data)
	}

	return nil
}

func (h *Histories) getOrNew(address types.Address) *Model {
	model := h.get(address)
	if model == nil {
		model = &Model{
			address:   address,
			markDirty: h.markDirty,
		}
		h.setToMap(address, model)
	}

	return model
}

func (h *Histories) get(address types.Address) *Model {
	if model := h.getFromMap(address); model != nil {
		return model
	}

	_, enc := h.immutableTree().Get(getPath(address))
	if len(enc) == 0 {
		return nil
	}

	model := &Model{}
	if err := amino.UnmarshalBinaryBare(enc, model); err != nil {
		panic(fmt.Sprintf("failed to decode history of address %s: %s", address.String(), err))
	}

	model.address = address
	model.markDirty = h.markDirty

	h.setToMap(address, model)

	return model
}

func (h *Histories) markDirty(address types.Address) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.dirty[address] = struct{}{}
}

func (h *Histories) getOrderedDirty() []types.Address {
	h.lock.RLock()
	keys := make([]types.Address, 0, len(h.dirty))
	for k := range h.dirty {
		keys = append(keys, k)
	}
	h.lock.RUnlock()

	sortAddresses(keys)

	return keys
}

func (h *Histories) getFromMap(address types.Address) *Model {
	h.lock.RLock()
	defer h.lock.RUnlock()

	return h.list[address]
}

func (h *Histories) setToMap(address types.Address, model *Model) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.list[address] = model
}

// Digest recomputes the aggregate digest of an ordered log from scratch.
func Digest(entries []types.Hash) types.Hash {
	var hash types.Hash
	for _, entry := range entries {
		hash = chain(hash, entry)
	}

	return hash
}

func getPath(address types.Address) []byte {
	return append([]byte{mainPrefix}, address[:]...)
}

func getEntryPath(address types.Address, index uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, index)

	path := append([]byte{entryPrefix}, address[:]...)

	return append(path, b...)
}
