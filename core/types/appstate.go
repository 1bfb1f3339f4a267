package types

import (
	"fmt"
)

// AppState is a genesis / export representation of the full ledger state.
type AppState struct {
	Note                  string                 `json:"note"`
	StartHeight           uint64                 `json:"start_height"`
	Wallets               []Wallet               `json:"wallets,omitempty"`
	ConfirmedTransactions []ConfirmedTransaction `json:"confirmed_transactions,omitempty"`
}

// Wallet is a genesis representation of one account: its balances plus the
// full ordered list of applied transaction hashes.
type Wallet struct {
	Address       Address `json:"address"`
	Name          string  `json:"name"`
	Balance       uint64  `json:"balance"`
	FrozenBalance uint64  `json:"frozen_balance"`
	HistoryLen    uint64  `json:"history_len"`
	HistoryHash   Hash    `json:"history_hash"`
	History       []Hash  `json:"history,omitempty"`
}

// ConfirmedTransaction is a genesis representation of a registered
// escrow-release instruction.
type ConfirmedTransaction struct {
	Hash     Hash    `json:"hash"`
	From     Address `json:"from"`
	To       Address `json:"to"`
	Amount   uint64  `json:"amount"`
	Approver Address `json:"approver"`
}

// Verify performs basic consistency checks of the state
func (s *AppState) Verify() error {
	wallets := map[Address]struct{}{}
	for _, wallet := range s.Wallets {
		// check for wallet duplication
		if _, exists := wallets[wallet.Address]; exists {
			return fmt.Errorf("duplicated wallet %s", wallet.Address.String())
		}

		wallets[wallet.Address] = struct{}{}

		if wallet.HistoryLen != uint64(len(wallet.History)) {
			return fmt.Errorf("history length of wallet %s is %d, want %d",
				wallet.Address.String(), len(wallet.History), wallet.HistoryLen)
		}

		if wallet.HistoryLen == 0 {
			return fmt.Errorf("wallet %s has empty history", wallet.Address.String())
		}
	}

	confirmed := map[Hash]struct{}{}
	for _, tx := range s.ConfirmedTransactions {
		if _, exists := confirmed[tx.Hash]; exists {
			return fmt.Errorf("duplicated confirmed transaction %s", tx.Hash.String())
		}

		confirmed[tx.Hash] = struct{}{}

		if _, exists := wallets[tx.From]; !exists {
			return fmt.Errorf("wallet %s of confirmed transaction %s not found",
				tx.From.String(), tx.Hash.String())
		}
	}

	return nil
}
