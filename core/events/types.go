package events

import (
	"github.com/WalletTeam/wallet-go-node/core/types"
)

// Event type names
const (
	TypeWalletCreatedEvent  = "wallet/WalletCreatedEvent"
	TypeEscrowFrozenEvent   = "wallet/EscrowFrozenEvent"
	TypeEscrowReleasedEvent = "wallet/EscrowReleasedEvent"
)

type Event interface {
	Type() string
}

type Events []Event

// WalletCreatedEvent is fired once per account when its wallet record is
// created and the initial balance is minted.
type WalletCreatedEvent struct {
	Address types.Address `json:"address"`
	Name    string        `json:"name"`
	Balance uint64        `json:"balance"`
}

func (e *WalletCreatedEvent) Type() string {
	return TypeWalletCreatedEvent
}

// EscrowFrozenEvent is fired when funds are reserved for a pending
// third-party-approved transfer.
type EscrowFrozenEvent struct {
	Address  types.Address `json:"address"`
	To       types.Address `json:"to"`
	Approver types.Address `json:"approver"`
	Amount   uint64        `json:"amount"`
	TxHash   types.Hash    `json:"tx_hash"`
}

func (e *EscrowFrozenEvent) Type() string {
	return TypeEscrowFrozenEvent
}

// EscrowReleasedEvent is fired when an approver releases escrowed funds to
// the recipient.
type EscrowReleasedEvent struct {
	From       types.Address `json:"from"`
	To         types.Address `json:"to"`
	ApprovedBy types.Address `json:"approved_by"`
	Amount     uint64        `json:"amount"`
	TxHash     types.Hash    `json:"tx_hash"`
}

func (e *EscrowReleasedEvent) Type() string {
	return TypeEscrowReleasedEvent
}
