package confirmed

import (
	"github.com/WalletTeam/wallet-go-node/core/state/bus"
	"github.com/WalletTeam/wallet-go-node/core/types"
)

type Bus struct {
	confirmed *Confirmed
}

func NewBus(confirmed *Confirmed) *Bus {
	return &Bus{confirmed: confirmed}
}

func (b *Bus) AddConfirmed(txHash types.Hash, record bus.SendApprove) {
	b.confirmed.Add(txHash, record)
}

func (b *Bus) GetConfirmed(txHash types.Hash) *bus.SendApprove {
	model := b.confirmed.Get(txHash)
	if model == nil {
		return nil
	}

	return &bus.SendApprove{
		From:     model.From,
		To:       model.To,
		Amount:   model.Amount,
		Approver: model.Approver,
	}
}

func (b *Bus) ExistsConfirmed(txHash types.Hash) bool {
	return b.confirmed.Exists(txHash)
}
