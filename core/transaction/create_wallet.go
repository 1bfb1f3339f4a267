package transaction

import (
	"fmt"

	"github.com/WalletTeam/wallet-go-node/core/code"
	"github.com/WalletTeam/wallet-go-node/core/state"
	abcTypes "github.com/tendermint/tendermint/abci/types"
)

const maxWalletNameLength = 256

type CreateWalletData struct {
	Name string
}

func (data *CreateWalletData) TxType() TxType {
	return TypeCreateWallet
}

func (data *CreateWalletData) String() string {
	return fmt.Sprintf("CREATE WALLET name:%s", data.Name)
}

func (data *CreateWalletData) basicCheck(tx *Transaction, context *state.CheckState) *Response {
	if len(data.Name) > maxWalletNameLength {
		return &Response{
			Code: code.InvalidWalletName,
			Log:  fmt.Sprintf("Wallet name is over %d bytes", maxWalletNameLength),
			Info: EncodeError(code.NewInvalidWalletName(data.Name)),
		}
	}

	if context.Wallets().Exists(tx.Sender()) {
		return &Response{
			Code: code.WalletAlreadyExists,
			Log:  fmt.Sprintf("Wallet %s already exists", tx.Sender().String()),
			Info: EncodeError(code.NewWalletAlreadyExists(tx.Sender().String())),
		}
	}

	return nil
}

func (data *CreateWalletData) Run(tx *Transaction, context state.Interface) Response {
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
		if err := deliverState.Wallets.CreateWallet(sender, data.Name, tx.Hash()); err != nil {
			return convertError(sender, err)
		}

		tags = []abcTypes.EventAttribute{
			{Key: []byte("tx.wallet_name"), Value: []byte(data.Name), Index: true},
		}
	}

	return Response{
		Code: code.OK,
		Tags: tags,
	}
}
