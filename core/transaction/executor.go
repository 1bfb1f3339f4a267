package transaction

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	abcTypes "github.com/tendermint/tendermint/abci/types"

	"github.com/WalletTeam/wallet-go-node/core/code"
	"github.com/WalletTeam/wallet-go-node/core/state"
	"github.com/WalletTeam/wallet-go-node/core/state/wallets"
	"github.com/WalletTeam/wallet-go-node/core/types"
)

const maxTxLength = 1024

// Response represents standard response from tx delivery/check
type Response struct {
	Code uint32                    `json:"code,omitempty"`
	Data []byte                    `json:"data,omitempty"`
	Log  string                    `json:"log,omitempty"`
	Info string                    `json:"-"`
	Tags []abcTypes.EventAttribute `json:"tags,omitempty"`
}

type Executor struct {
	decodeTxFunc func(txType TxType) (Data, bool)
}

func NewExecutor(decodeTxFunc func(txType TxType) (Data, bool)) *Executor {
	return &Executor{decodeTxFunc: decodeTxFunc}
}

// RunTx executes transaction in given context. A *state.State context
// applies the operation, a *state.CheckState context only validates it.
func (e *Executor) RunTx(context state.Interface, rawTx []byte) Response {
	lenRawTx := len(rawTx)
	if lenRawTx > maxTxLength {
		return Response{
			Code: code.TxTooLarge,
			Log:  fmt.Sprintf("TX length is over %d bytes", maxTxLength),
			Info: EncodeError(code.NewTxTooLarge(fmt.Sprintf("%d", maxTxLength), fmt.Sprintf("%d", lenRawTx))),
		}
	}

	tx, err := e.DecodeFromBytes(rawTx)
	if err != nil {
		return Response{
			Code: code.DecodeError,
			Log:  err.Error(),
			Info: EncodeError(code.NewDecodeError()),
		}
	}

	if tx.ChainID != types.CurrentChainID {
		return Response{
			Code: code.WrongChainID,
			Log:  "Wrong chain id",
			Info: EncodeError(code.NewWrongChainID(fmt.Sprintf("%d", types.CurrentChainID), fmt.Sprintf("%d", tx.ChainID))),
		}
	}

	response := tx.decodedData.Run(tx, context)

	if _, isCheck := context.(*state.CheckState); isCheck {
		response.Tags = nil
	} else if response.Code == code.OK {
		response.Tags = append(response.Tags,
			abcTypes.EventAttribute{Key: []byte("tx.from"), Value: []byte(tx.Sender().String()), Index: true},
			abcTypes.EventAttribute{Key: []byte("tx.type"), Value: []byte(hex.EncodeToString([]byte{byte(tx.Type)})), Index: true},
		)
	}

	return response
}

func (e *Executor) DecodeFromBytes(buf []byte) (*Transaction, error) {
	tx, err := DecodeFromBytes(buf)
	if err != nil {
		return nil, err
	}

	if _, ok := e.decodeTxFunc(tx.Type); !ok {
		return nil, fmt.Errorf("tx type %x is not registered", tx.Type)
	}

	return tx, nil
}

// EncodeError encodes error to json
func EncodeError(data interface{}) string {
	marshaled, err := json.Marshal(data)
	if err != nil {
		panic(err)
	}
	return string(marshaled)
}

// convertError maps an operation failure to a response. Payload-specific
// checks run before any operation is applied, so an error here on deliver
// means the check and the operation disagree. Still, the ledger state is
// untouched on any of these.
func convertError(sender types.Address, err error) Response {
	switch err {
	case wallets.ErrWalletNotFound:
		return Response{
			Code: code.WalletNotFound,
			Log:  fmt.Sprintf("Wallet %s not found", sender.String()),
			Info: EncodeError(code.NewWalletNotFound(sender.String())),
		}
	case wallets.ErrWalletAlreadyExists:
		return Response{
			Code: code.WalletAlreadyExists,
			Log:  fmt.Sprintf("Wallet %s already exists", sender.String()),
			Info: EncodeError(code.NewWalletAlreadyExists(sender.String())),
		}
	case wallets.ErrInsufficientFunds:
		return Response{
			Code: code.InsufficientFunds,
			Log:  fmt.Sprintf("Insufficient funds for sender account: %s", sender.String()),
			Info: EncodeError(code.NewInsufficientFunds(sender.String(), "")),
		}
	case wallets.ErrInsufficientEscrow:
		return Response{
			Code: code.InsufficientEscrow,
			Log:  fmt.Sprintf("Insufficient frozen balance for account: %s", sender.String()),
			Info: EncodeError(code.NewInsufficientEscrow(sender.String(), "")),
		}
	case wallets.ErrArithmeticOverflow:
		return Response{
			Code: code.ArithmeticOverflow,
			Log:  "Balance overflow",
			Info: EncodeError(code.NewArithmeticOverflow(sender.String(), "")),
		}
	case wallets.ErrNotConfirmed:
		return Response{
			Code: code.TxNotConfirmed,
			Log:  "Transaction is not confirmed",
			Info: EncodeError(code.NewTxNotConfirmed("")),
		}
	case wallets.ErrNotApprover:
		return Response{
			Code: code.IsNotApprover,
			Log:  fmt.Sprintf("Sender %s is not the approver of the escrow", sender.String()),
			Info: EncodeError(code.NewIsNotApprover(sender.String(), "")),
		}
	}

	panic(err)
}
