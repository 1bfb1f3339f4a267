package bus

import (
	"github.com/WalletTeam/wallet-go-node/core/types"
)

type SendApprove struct {
	From     types.Address
	To       types.Address
	Amount   uint64
	Approver types.Address
}

type Confirmed interface {
	AddConfirmed(types.Hash, SendApprove)
	GetConfirmed(types.Hash) *SendApprove
	ExistsConfirmed(types.Hash) bool
}
