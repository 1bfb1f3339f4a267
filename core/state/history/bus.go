package history

import (
	"github.com/WalletTeam/wallet-go-node/core/types"
)

type Bus struct {
	histories *Histories
}

func NewBus(histories *Histories) *Bus {
	return &Bus{histories: histories}
}

func (b *Bus) Append(address types.Address, txHash types.Hash) (uint64, types.Hash) {
	return b.histories.Append(address, txHash)
}
