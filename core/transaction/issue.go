package transaction

import (
	"fmt"
	"strconv"

	"github.com/WalletTeam/wallet-go-node/core/code"
	"github.com/WalletTeam/wallet-go-node/core/state"
	"github.com/WalletTeam/wallet-go-node/helpers"
	abcTypes "github.com/tendermint/tendermint/abci/types"
)

// IssueData mints new funds to the sender's own wallet.
type IssueData struct {
	Amount uint64
}

func (data *IssueData) TxType() TxType {
	return TypeIssue
}

func (data *IssueData) String() string {
	return fmt.Sprintf("ISSUE amount:%d", data.Amount)
}

func (data *IssueData) basicCheck(tx *Transaction, context *state.CheckState) *Response {
	if data.Amount == 0 {
		return &Response{
			Code: code.ZeroSendAmount,
			Log:  "Amount must be positive",
			Info: EncodeError(code.NewZeroSendAmount()),
		}
	}

	wallet := context.Wallets().GetWallet(tx.Sender())
	if wallet == nil {
		return &Response{
			Code: code.WalletNotFound,
			Log:  fmt.Sprintf("Wallet %s not found", tx.Sender().String()),
			Info: EncodeError(code.NewWalletNotFound(tx.Sender().String())),
		}
	}

	if _, ok := helpers.AddUint64(wallet.GetBalance(), data.Amount); !ok {
		return &Response{
			Code: code.ArithmeticOverflow,
			Log:  fmt.Sprintf("Balance of %s overflows", tx.Sender().String()),
			Info: EncodeError(code.NewArithmeticOverflow(tx.Sender().String(), strconv.FormatUint(data.Amount, 10))),
		}
	}

	return nil
}

func (data *IssueData) Run(tx *Transaction, context state.Interface) Response {
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
		if err := deliverState.Wallets.Mint(sender, data.Amount, tx.Hash()); err != nil {
			return convertError(sender, err)
		}

		tags = []abcTypes.EventAttribute{
			{Key: []byte("tx.amount"), Value: []byte(strconv.FormatUint(data.Amount, 10))},
		}
	}

	return Response{
		Code: code.OK,
		Tags: tags,
	}
}
