package history

import (
	"bytes"
	"sort"
	"sync"

	"github.com/WalletTeam/wallet-go-node/core/types"
	"github.com/tendermint/tendermint/crypto/tmhash"
)

// Model is the head of one account's log: its length and aggregate digest.
// Entries themselves live under separate keys of the authenticated tree.
type Model struct {
	Len  uint64
	Hash types.Hash

	address   types.Address
	pending   []types.Hash
	markDirty func(types.Address)
	lock      sync.RWMutex
}

func (m *Model) Length() uint64 {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return m.Len
}

func (m *Model) Digest() types.Hash {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return m.Hash
}

func chain(prev types.Hash, txHash types.Hash) types.Hash {
	return types.BytesToHash(tmhash.Sum(append(prev.Bytes(), txHash.Bytes()...)))
}

func sortAddresses(keys []types.Address) {
	sort.SliceStable(keys, func(i, j int) bool {
		return bytes.Compare(keys[i].Bytes(), keys[j].Bytes()) == 1
	})
}
