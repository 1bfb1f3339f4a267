package checker

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/WalletTeam/wallet-go-node/core/state/bus"
)

// Checker accumulates balance deltas over one state transition and verifies
// that the ledger neither created nor lost funds: every change of spendable
// balances must be covered by a matching emission (mint), and every change
// of frozen balances by a matching reservation.
type Checker struct {
	balance  *big.Int
	emission *big.Int
	frozen   *big.Int
	reserved *big.Int

	lock sync.RWMutex
}

func NewChecker(bus *bus.Bus) *Checker {
	checker := &Checker{
		balance:  big.NewInt(0),
		emission: big.NewInt(0),
		frozen:   big.NewInt(0),
		reserved: big.NewInt(0),
	}
	bus.SetChecker(checker)

	return checker
}

func (c *Checker) AddBalance(value *big.Int) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.balance.Add(c.balance, value)
}

func (c *Checker) AddEmission(value *big.Int) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.emission.Add(c.emission, value)
}

func (c *Checker) AddFrozen(value *big.Int) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.frozen.Add(c.frozen, value)
}

func (c *Checker) AddReserved(value *big.Int) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.reserved.Add(c.reserved, value)
}

// Reset resets checker data
func (c *Checker) Reset() {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.balance = big.NewInt(0)
	c.emission = big.NewInt(0)
	c.frozen = big.NewInt(0)
	c.reserved = big.NewInt(0)
}

func (c *Checker) Check() error {
	c.lock.RLock()
	defer c.lock.RUnlock()

	if c.balance.Cmp(c.emission) != 0 {
		return fmt.Errorf("invariants error on balance: %s", big.NewInt(0).Sub(c.emission, c.balance).String())
	}

	if c.frozen.Cmp(c.reserved) != 0 {
		return fmt.Errorf("invariants error on frozen balance: %s", big.NewInt(0).Sub(c.reserved, c.frozen).String())
	}

	return nil
}
