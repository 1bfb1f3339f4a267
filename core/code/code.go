package code

import (
	"strconv"
)

// Codes for transaction checks and delivers responses
const (
	// general
	OK                uint32 = 0
	TxTooLarge        uint32 = 102
	DecodeError       uint32 = 103
	InsufficientFunds uint32 = 104
	WrongChainID      uint32 = 105

	// wallet
	WalletNotFound      uint32 = 201
	WalletAlreadyExists uint32 = 202
	InvalidWalletName   uint32 = 203
	ArithmeticOverflow  uint32 = 204

	// escrow
	TxNotConfirmed      uint32 = 301
	TxAlreadyConfirmed  uint32 = 302
	IsNotApprover       uint32 = 303
	InsufficientEscrow  uint32 = 304
	SendToSelf          uint32 = 305
	ZeroSendAmount      uint32 = 306
)

type txTooLarge struct {
	Code        string `json:"code,omitempty"`
	MaxTxLength string `json:"max_tx_length,omitempty"`
	GotTxLength string `json:"got_tx_length,omitempty"`
}

func NewTxTooLarge(maxTxLength string, gotTxLength string) *txTooLarge {
	return &txTooLarge{Code: strconv.Itoa(int(TxTooLarge)), MaxTxLength: maxTxLength, GotTxLength: gotTxLength}
}

type decodeError struct {
	Code string `json:"code,omitempty"`
}

func NewDecodeError() *decodeError {
	return &decodeError{Code: strconv.Itoa(int(DecodeError))}
}

type wrongChainID struct {
	Code           string `json:"code,omitempty"`
	CurrentChainID string `json:"current_chain_id,omitempty"`
	GotChainID     string `json:"got_chain_id,omitempty"`
}

func NewWrongChainID(currentChainID string, gotChainID string) *wrongChainID {
	return &wrongChainID{Code: strconv.Itoa(int(WrongChainID)), CurrentChainID: currentChainID, GotChainID: gotChainID}
}

type insufficientFunds struct {
	Code        string `json:"code,omitempty"`
	Sender      string `json:"sender,omitempty"`
	NeededValue string `json:"needed_value,omitempty"`
}

func NewInsufficientFunds(sender string, neededValue string) *insufficientFunds {
	return &insufficientFunds{Code: strconv.Itoa(int(InsufficientFunds)), Sender: sender, NeededValue: neededValue}
}

type walletNotFound struct {
	Code    string `json:"code,omitempty"`
	Address string `json:"address,omitempty"`
}

func NewWalletNotFound(address string) *walletNotFound {
	return &walletNotFound{Code: strconv.Itoa(int(WalletNotFound)), Address: address}
}

type walletAlreadyExists struct {
	Code    string `json:"code,omitempty"`
	Address string `json:"address,omitempty"`
}

func NewWalletAlreadyExists(address string) *walletAlreadyExists {
	return &walletAlreadyExists{Code: strconv.Itoa(int(WalletAlreadyExists)), Address: address}
}

type invalidWalletName struct {
	Code string `json:"code,omitempty"`
	Name string `json:"name,omitempty"`
}

func NewInvalidWalletName(name string) *invalidWalletName {
	return &invalidWalletName{Code: strconv.Itoa(int(InvalidWalletName)), Name: name}
}

type arithmeticOverflow struct {
	Code    string `json:"code,omitempty"`
	Address string `json:"address,omitempty"`
	Amount  string `json:"amount,omitempty"`
}

func NewArithmeticOverflow(address string, amount string) *arithmeticOverflow {
	return &arithmeticOverflow{Code: strconv.Itoa(int(ArithmeticOverflow)), Address: address, Amount: amount}
}

type txNotConfirmed struct {
	Code   string `json:"code,omitempty"`
	TxHash string `json:"tx_hash,omitempty"`
}

func NewTxNotConfirmed(txHash string) *txNotConfirmed {
	return &txNotConfirmed{Code: strconv.Itoa(int(TxNotConfirmed)), TxHash: txHash}
}

type txAlreadyConfirmed struct {
	Code   string `json:"code,omitempty"`
	TxHash string `json:"tx_hash,omitempty"`
}

func NewTxAlreadyConfirmed(txHash string) *txAlreadyConfirmed {
	return &txAlreadyConfirmed{Code: strconv.Itoa(int(TxAlreadyConfirmed)), TxHash: txHash}
}

type isNotApprover struct {
	Code     string `json:"code,omitempty"`
	Sender   string `json:"sender,omitempty"`
	Approver string `json:"approver,omitempty"`
}

func NewIsNotApprover(sender string, approver string) *isNotApprover {
	return &isNotApprover{Code: strconv.Itoa(int(IsNotApprover)), Sender: sender, Approver: approver}
}

type insufficientEscrow struct {
	Code        string `json:"code,omitempty"`
	Address     string `json:"address,omitempty"`
	NeededValue string `json:"needed_value,omitempty"`
}

func NewInsufficientEscrow(address string, neededValue string) *insufficientEscrow {
	return &insufficientEscrow{Code: strconv.Itoa(int(InsufficientEscrow)), Address: address, NeededValue: neededValue}
}

type sendToSelf struct {
	Code    string `json:"code,omitempty"`
	Address string `json:"address,omitempty"`
}

func NewSendToSelf(address string) *sendToSelf {
	return &sendToSelf{Code: strconv.Itoa(int(SendToSelf)), Address: address}
}

type zeroSendAmount struct {
	Code string `json:"code,omitempty"`
}

func NewZeroSendAmount() *zeroSendAmount {
	return &zeroSendAmount{Code: strconv.Itoa(int(ZeroSendAmount))}
}
