package bus

import (
	"github.com/WalletTeam/wallet-go-node/core/types"
)

type History interface {
	// Append pushes the transaction hash to the account's log and returns
	// the new length and aggregate digest of the log.
	Append(types.Address, types.Hash) (uint64, types.Hash)
}
