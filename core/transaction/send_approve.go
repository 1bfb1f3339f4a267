package transaction

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/WalletTeam/wallet-go-node/core/code"
	"github.com/WalletTeam/wallet-go-node/core/state"
	"github.com/WalletTeam/wallet-go-node/core/types"
	"github.com/WalletTeam/wallet-go-node/helpers"
	abcTypes "github.com/tendermint/tendermint/abci/types"
)

// SendApproveData escrows funds for the recipient until the approver
// releases them. The escrow is registered under this transaction's hash.
type SendApproveData struct {
	To       types.Address
	Approver types.Address
	Amount   uint64
}

func (data *SendApproveData) TxType() TxType {
	return TypeSendApprove
}

func (data *SendApproveData) String() string {
	return fmt.Sprintf("SEND APPROVE to:%s approver:%s amount:%d",
		data.To.String(), data.Approver.String(), data.Amount)
}

func (data *SendApproveData) basicCheck(tx *Transaction, context *state.CheckState) *Response {
	if data.Amount == 0 {
		return &Response{
			Code: code.ZeroSendAmount,
			Log:  "Amount must be positive",
			Info: EncodeError(code.NewZeroSendAmount()),
		}
	}

	if data.To == tx.Sender() {
		return &Response{
			Code: code.SendToSelf,
			Log:  "Sender and recipient are the same wallet",
			Info: EncodeError(code.NewSendToSelf(tx.Sender().String())),
		}
	}

	sender := context.Wallets().GetWallet(tx.Sender())
	if sender == nil {
		return &Response{
			Code: code.WalletNotFound,
			Log:  fmt.Sprintf("Wallet %s not found", tx.Sender().String()),
			Info: EncodeError(code.NewWalletNotFound(tx.Sender().String())),
		}
	}

	if !context.Wallets().Exists(data.To) {
		return &Response{
			Code: code.WalletNotFound,
			Log:  fmt.Sprintf("Wallet %s not found", data.To.String()),
			Info: EncodeError(code.NewWalletNotFound(data.To.String())),
		}
	}

	if context.Confirmed().Exists(tx.Hash()) {
		return &Response{
			Code: code.TxAlreadyConfirmed,
			Log:  fmt.Sprintf("Escrow %s is already registered", tx.Hash().String()),
			Info: EncodeError(code.NewTxAlreadyConfirmed(tx.Hash().String())),
		}
	}

	frozen, ok := helpers.AddUint64(sender.GetFrozenBalance(), data.Amount)
	if !ok {
		return &Response{
			Code: code.ArithmeticOverflow,
			Log:  fmt.Sprintf("Frozen balance of %s overflows", tx.Sender().String()),
			Info: EncodeError(code.NewArithmeticOverflow(tx.Sender().String(), strconv.FormatUint(data.Amount, 10))),
		}
	}

	// Everything frozen must stay covered by the balance, otherwise the
	// escrow could never be released.
	if frozen > sender.GetBalance() {
		return &Response{
			Code: code.InsufficientFunds,
			Log:  fmt.Sprintf("Insufficient funds for sender account: %s. Wanted %d", tx.Sender().String(), frozen),
			Info: EncodeError(code.NewInsufficientFunds(tx.Sender().String(), strconv.FormatUint(frozen, 10))),
		}
	}

	return nil
}

func (data *SendApproveData) Run(tx *Transaction, context state.Interface) Response {
	sender := tx.Sender()

	var checkState *state.CheckState
	var isCheck bool
	if checkState, isCheck = context.(*state.CheckState); !isCheck {
		checkState = state.NewCheckState(context.(*state.State))
	}

	if response := data.basicCheck(tx, checkState); response != nil {
		return *response
	}

	var tags []abcTypes.EventAttribute
	if deliverState, ok := context.(*state.State); ok {
		if err := deliverState.Wallets.CreateSendApprove(sender, data.Amount, data.To, data.Approver, tx.Hash()); err != nil {
			return convertError(sender, err)
		}

		tags = []abcTypes.EventAttribute{
			{Key: []byte("tx.to"), Value: []byte(hex.EncodeToString(data.To[:])), Index: true},
			{Key: []byte("tx.approver"), Value: []byte(hex.EncodeToString(data.Approver[:])), Index: true},
			{Key: []byte("tx.amount"), Value: []byte(strconv.FormatUint(data.Amount, 10))},
		}
	}

	return Response{
		Code: code.OK,
		Tags: tags,
	}
}
