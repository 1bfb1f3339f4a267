package transaction

import (
	"fmt"

	"github.com/WalletTeam/wallet-go-node/core/state"
	"github.com/WalletTeam/wallet-go-node/core/types"
	"github.com/tendermint/go-amino"
	"github.com/tendermint/tendermint/crypto/tmhash"
)

type TxType byte

const (
	TypeCreateWallet TxType = 0x01
	TypeIssue        TxType = 0x02
	TypeTransfer     TxType = 0x03
	TypeSendApprove  TxType = 0x04
	TypeApprove      TxType = 0x05
)

// Data is the type-specific payload of a transaction.
type Data interface {
	TxType() TxType
	String() string
	Run(tx *Transaction, context state.Interface) Response
}

// Transaction is the wire envelope of one ledger operation. Seed carries no
// meaning of its own: it differentiates otherwise identical transactions so
// each one gets a distinct hash in the history logs. The author is
// identified by the public key; the wallet address is derived from it.
type Transaction struct {
	Seed         uint64
	ChainID      types.ChainID
	Type         TxType
	Data         []byte
	SenderPubkey types.Pubkey

	decodedData Data
	sender      *types.Address
}

// Sender is the wallet address of the transaction author, derived from the
// public key carried in the envelope.
func (tx *Transaction) Sender() types.Address {
	if tx.sender == nil {
		sender := types.AddressFromPubkey(tx.SenderPubkey)
		tx.sender = &sender
	}

	return *tx.sender
}

func (tx *Transaction) GetDecodedData() Data {
	return tx.decodedData
}

func (tx *Transaction) SetDecodedData(data Data) {
	tx.decodedData = data
}

// Hash of the serialized transaction. This is the value appended to the
// history log of every wallet the transaction touches.
func (tx *Transaction) Hash() types.Hash {
	raw, err := tx.Serialize()
	if err != nil {
		panic(err)
	}

	return types.BytesToHash(tmhash.Sum(raw))
}

func (tx *Transaction) Serialize() ([]byte, error) {
	return amino.MarshalBinaryBare(tx)
}

func (tx *Transaction) String() string {
	sender := tx.Sender().String()

	switch t := tx.decodedData.(type) {
	case fmt.Stringer:
		return fmt.Sprintf("TX seed:%d from:%s data:%s", tx.Seed, sender, t.String())
	default:
		return fmt.Sprintf("TX seed:%d from:%s type:%d", tx.Seed, sender, tx.Type)
	}
}

// DecodeFromBytes deserializes the envelope and its type-specific payload.
func DecodeFromBytes(buf []byte) (*Transaction, error) {
	var tx Transaction
	if err := amino.UnmarshalBinaryBare(buf, &tx); err != nil {
		return nil, err
	}

	data, ok := GetData(tx.Type)
	if !ok {
		return nil, fmt.Errorf("tx type %x is not registered", tx.Type)
	}

	if err := amino.UnmarshalBinaryBare(tx.Data, data); err != nil {
		return nil, err
	}
	tx.SetDecodedData(data)

	return &tx, nil
}

// GetData returns an empty payload of the given type to decode into.
func GetData(txType TxType) (Data, bool) {
	switch txType {
	case TypeCreateWallet:
		return &CreateWalletData{}, true
	case TypeIssue:
		return &IssueData{}, true
	case TypeTransfer:
		return &TransferData{}, true
	case TypeSendApprove:
		return &SendApproveData{}, true
	case TypeApprove:
		return &ApproveData{}, true
	}

	return nil, false
}
