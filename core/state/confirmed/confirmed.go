package confirmed

import (
	"bytes"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/WalletTeam/wallet-go-node/core/state/bus"
	"github.com/WalletTeam/wallet-go-node/core/types"
	"github.com/cosmos/iavl"
	"github.com/tendermint/go-amino"
)

const mainPrefix = byte('t')

type RConfirmed interface {
	Get(txHash types.Hash) *Model
	Exists(txHash types.Hash) bool
	Export(state *types.AppState)
}

// Confirmed is the registry of escrow-release instructions, keyed by the
// hash of the transaction that created the escrow. Records are written once
// and never mutated.
type Confirmed struct {
	list  map[types.Hash]*Model
	dirty map[types.Hash]struct{}

	db  atomic.Value
	bus *bus.Bus

	lock sync.RWMutex
}

func NewConfirmed(stateBus *bus.Bus, db *iavl.ImmutableTree) *Confirmed {
	immutableTree := atomic.Value{}
	if db != nil {
		immutableTree.Store(db)
	}
	confirmed := &Confirmed{
		bus:   stateBus,
		db:    immutableTree,
		list:  map[types.Hash]*Model{},
		dirty: map[types.Hash]struct{}{},
	}
	confirmed.bus.SetConfirmed(NewBus(confirmed))

	return confirmed
}

func (c *Confirmed) immutableTree() *iavl.ImmutableTree {
	db := c.db.Load()
	if db == nil {
		return nil
	}
	return db.(*iavl.ImmutableTree)
}

func (c *Confirmed) SetImmutableTree(immutableTree *iavl.ImmutableTree) {
	c.db.Store(immutableTree)
}

func (c *Confirmed) Commit(db *iavl.MutableTree) error {
	hashes := c.getOrderedDirty()
	for _, hash := range hashes {
		model := c.getFromMap(hash)

		c.lock.Lock()
		delete(c.dirty, hash)
		c.lock.Unlock()

		data, err := amino.MarshalBinaryBare(model)
		if err != nil {
			return fmt.Errorf("can't encode confirmed transaction %x: %v", hash[:], err)
		}

		db.Set(getPath(hash), data)
	}

	return nil
}

// Get returns the escrow-release record for the transaction hash or nil.
func (c *Confirmed) Get(txHash types.Hash) *Model {
	return c.get(txHash)
}

func (c *Confirmed) Exists(txHash types.Hash) bool {
	return c.get(txHash) != nil
}

// Add registers an escrow-release instruction. Inserting under an already
// used hash replaces the record, which only happens on transaction replay.
func (c *Confirmed) Add(txHash types.Hash, record bus.SendApprove) {
	model := &Model{
		From:     record.From,
		To:       record.To,
		Amount:   record.Amount,
		Approver: record.Approver,
		hash:     txHash,
	}

	c.setToMap(txHash, model)
	c.markDirty(txHash)
}

func (c *Confirmed) Export(state *types.AppState) {
	c.immutableTree().IterateRange([]byte{mainPrefix}, []byte{mainPrefix + 1}, true, func(key []byte, value []byte) bool {
		hash := types.BytesToHash(key[1:])

		model := c.get(hash)
		if model == nil {
			return false
		}

		state.ConfirmedTransactions = append(state.ConfirmedTransactions, types.ConfirmedTransaction{
			Hash:     hash,
			From:     model.From,
			To:       model.To,
			Amount:   model.Amount,
			Approver: model.Approver,
		})

		return false
	})

	sort.SliceStable(state.ConfirmedTransactions, func(i, j int) bool {
		return bytes.Compare(state.ConfirmedTransactions[i].Hash.Bytes(), state.ConfirmedTransactions[j].Hash.Bytes()) == -1
	})
}

func (c *Confirmed) get(txHash types.Hash) *Model {
	if model := c.getFromMap(txHash); model != nil {
		return model
	}

	_, enc := c.immutableTree().Get(getPath(txHash))
	if len(enc) == 0 {
		return nil
	}

	model := &Model{}
	if err := amino.UnmarshalBinaryBare(enc, model); err != nil {
		panic(fmt.Sprintf("failed to decode confirmed transaction %s: %s", txHash.String(), err))
	}

	model.hash = txHash

	c.setToMap(txHash, model)

	return model
}

func (c *Confirmed) markDirty(txHash types.Hash) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.dirty[txHash] = struct{}{}
}

func (c *Confirmed) getOrderedDirty() []types.Hash {
	c.lock.RLock()
	keys := make([]types.Hash, 0, len(c.dirty))
	for k := range c.dirty {
		keys = append(keys, k)
	}
	c.lock.RUnlock()

	sort.SliceStable(keys, func(i, j int) bool {
		return bytes.Compare(keys[i].Bytes(), keys[j].Bytes()) == 1
	})

	return keys
}

func (c *Confirmed) getFromMap(txHash types.Hash) *Model {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.list[txHash]
}

func (c *Confirmed) setToMap(txHash types.Hash, model *Model) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.list[txHash] = model
}

func getPath(txHash types.Hash) []byte {
	return append([]byte{mainPrefix}, txHash[:]...)
}
