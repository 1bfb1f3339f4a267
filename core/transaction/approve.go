package transaction

import (
	"fmt"
	"strconv"

	"github.com/WalletTeam/wallet-go-node/core/code"
	"github.com/WalletTeam/wallet-go-node/core/state"
	"github.com/WalletTeam/wallet-go-node/core/types"
	"github.com/WalletTeam/wallet-go-node/helpers"
	abcTypes "github.com/tendermint/tendermint/abci/types"
)

// ApproveData releases the escrow registered under TxHash: the escrowed
// funds leave the original sender's wallet and land in the recipient's.
// Only the approver named in the escrow may send it.
type ApproveData struct {
	TxHash types.Hash
}

func (data *ApproveData) TxType() TxType {
	return TypeApprove
}

func (data *ApproveData) String() string {
	return fmt.Sprintf("APPROVE tx:%s", data.TxHash.String())
}

func (data *ApproveData) basicCheck(tx *Transaction, context *state.CheckState) *Response {
	record := context.Confirmed().Get(data.TxHash)
	if record == nil {
		return &Response{
			Code: code.TxNotConfirmed,
			Log:  fmt.Sprintf("Transaction %s is not confirmed", data.TxHash.String()),
			Info: EncodeError(code.NewTxNotConfirmed(data.TxHash.String())),
		}
	}

	if record.Approver != tx.Sender() {
		return &Response{
			Code: code.IsNotApprover,
			Log:  fmt.Sprintf("Sender %s is not the approver of the escrow", tx.Sender().String()),
			Info: EncodeError(code.NewIsNotApprover(tx.Sender().String(), record.Approver.String())),
		}
	}

	from := context.Wallets().GetWallet(record.From)
	if from == nil {
		return &Response{
			Code: code.WalletNotFound,
			Log:  fmt.Sprintf("Wallet %s not found", record.From.String()),
			Info: EncodeError(code.NewWalletNotFound(record.From.String())),
		}
	}

	recipient := context.Wallets().GetWallet(record.To)
	if recipient == nil {
		return &Response{
			Code: code.WalletNotFound,
			Log:  fmt.Sprintf("Wallet %s not found", record.To.String()),
			Info: EncodeError(code.NewWalletNotFound(record.To.String())),
		}
	}

	if from.GetFrozenBalance() < record.Amount {
		return &Response{
			Code: code.InsufficientEscrow,
			Log:  fmt.Sprintf("Insufficient frozen balance for account: %s. Wanted %d", record.From.String(), record.Amount),
			Info: EncodeError(code.NewInsufficientEscrow(record.From.String(), strconv.FormatUint(record.Amount, 10))),
		}
	}

	if from.GetBalance() < record.Amount {
		return &Response{
			Code: code.InsufficientFunds,
			Log:  fmt.Sprintf("Insufficient funds for sender account: %s. Wanted %d", record.From.String(), record.Amount),
			Info: EncodeError(code.NewInsufficientFunds(record.From.String(), strconv.FormatUint(record.Amount, 10))),
		}
	}

	if _, ok := helpers.AddUint64(recipient.GetBalance(), record.Amount); !ok {
		return &Response{
			Code: code.ArithmeticOverflow,
			Log:  fmt.Sprintf("Balance of %s overflows", record.To.String()),
			Info: EncodeError(code.NewArithmeticOverflow(record.To.String(), strconv.FormatUint(record.Amount, 10))),
		}
	}

	return nil
}

func (data *ApproveData) Run(tx *Transaction, context state.Interface) Response {
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
		if err := deliverState.Wallets.ApproveEscrow(sender, data.TxHash, tx.Hash()); err != nil {
			return convertError(sender, err)
		}

		tags = []abcTypes.EventAttribute{
			{Key: []byte("tx.escrow"), Value: []byte(data.TxHash.String()), Index: true},
		}
	}

	return Response{
		Code: code.OK,
		Tags: tags,
	}
}
