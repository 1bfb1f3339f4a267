package bus

import (
	"math/big"
)

type Checker interface {
	AddBalance(*big.Int)
	AddEmission(*big.Int)
	AddFrozen(*big.Int)
	AddReserved(*big.Int)
}
