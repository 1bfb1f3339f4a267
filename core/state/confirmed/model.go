package confirmed

import (
	"github.com/WalletTeam/wallet-go-node/core/types"
)

// Model is one confirmed escrow-release instruction: `From` escrowed
// `Amount` for `To`, releasable by `Approver`.
type Model struct {
	From     types.Address
	To       types.Address
	Amount   uint64
	Approver types.Address

	hash types.Hash
}

func (m *Model) Hash() types.Hash {
	return m.hash
}
