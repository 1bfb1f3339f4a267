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

// TransferData moves funds from the sender's wallet to the recipient's,
// with no escrow in between.
type TransferData struct {
	To     types.Address
	Amount uint64
}

func (data *TransferData) TxType() TxType {
	return TypeTransfer
}

func (data *TransferData) String() string {
	return fmt.Sprintf("TRANSFER to:%s amount:%d", data.To.String(), data.Amount)
}

func (data *TransferData) basicCheck(tx *Transaction, context *state.CheckState) *Response {
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

	recipient := context.Wallets().GetWallet(data.To)
	if recipient == nil {
		return &Response{
			Code: code.WalletNotFound,
			Log:  fmt.Sprintf("Wallet %s not found", data.To.String()),
			Info: EncodeError(code.NewWalletNotFound(data.To.String())),
		}
	}

	if sender.GetBalance() < data.Amount {
		return &Response{
			Code: code.InsufficientFunds,
			Log:  fmt.Sprintf("Insufficient funds for sender account: %s. Wanted %d", tx.Sender().String(), data.Amount),
			Info: EncodeError(code.NewInsufficientFunds(tx.Sender().String(), strconv.FormatUint(data.Amount, 10))),
		}
	}

	if _, ok := helpers.AddUint64(recipient.GetBalance(), data.Amount); !ok {
		return &Response{
			Code: code.ArithmeticOverflow,
			Log:  fmt.Sprintf("Balance of %s overflows", data.To.String()),
			Info: EncodeError(code.NewArithmeticOverflow(data.To.String(), strconv.FormatUint(data.Amount, 10))),
		}
	}

	return nil
}

func (data *TransferData) Run(tx *Transaction, context state.Interface) Response {
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
		if err := deliverState.Wallets.SubBalance(sender, data.Amount, tx.Hash()); err != nil {
			return convertError(sender, err)
		}
		if err := deliverState.Wallets.AddBalance(data.To, data.Amount, tx.Hash()); err != nil {
			return convertError(data.To, err)
		}

		tags = []abcTypes.EventAttribute{
			{Key: []byte("tx.to"), Value: []byte(hex.EncodeToString(data.To[:])), Index: true},
			{Key: []byte("tx.amount"), Value: []byte(strconv.FormatUint(data.Amount, 10))},
		}
	}

	return Response{
		Code: code.OK,
		Tags: tags,
	}
}
