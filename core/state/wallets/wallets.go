package wallets

import (
	"bytes"
	"fmt"
	"math/big"
	"sort"
	"sync"
	"sync/atomic"

	eventsdb "github.com/WalletTeam/wallet-go-node/core/events"
	"github.com/WalletTeam/wallet-go-node/core/state/bus"
	"github.com/WalletTeam/wallet-go-node/core/types"
	"github.com/WalletTeam/wallet-go-node/helpers"
	"github.com/cosmos/iavl"
	"github.com/pkg/errors"
	"github.com/tendermint/go-amino"
)

const mainPrefix = byte('a')

// Business-rule violations of the ledger operations. All of them are
// detected before any state is touched, so a failed operation leaves the
// wallet and its history log exactly as they were.
var (
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrInsufficientEscrow  = errors.New("insufficient frozen balance")
	ErrArithmeticOverflow  = errors.New("balance overflow")
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrWalletAlreadyExists = errors.New("wallet already exists")
	ErrNotConfirmed        = errors.New("transaction is not confirmed")
	ErrNotApprover         = errors.New("sender is not the approver of the escrow")
)

type RWallets interface {
	Export(state *types.AppState)
	GetWallet(address types.Address) *Model
	Exists(address types.Address) bool
}

// Wallets is the authenticated map of wallet records and the mutation API
// of the ledger. Every mutation appends exactly one entry to the account's
// history log and stores the new length and digest inside the wallet, as
// one unit of work.
type Wallets struct {
	list  map[types.Address]*Model
	dirty map[types.Address]struct{}

	db  atomic.Value
	bus *bus.Bus

	lock sync.RWMutex
}

func NewWallets(stateBus *bus.Bus, db *iavl.ImmutableTree) *Wallets {
	immutableTree := atomic.Value{}
	if db != nil {
		immutableTree.Store(db)
	}

	return &Wallets{
		bus:   stateBus,
		db:    immutableTree,
		list:  map[types.Address]*Model{},
		dirty: map[types.Address]struct{}{},
	}
}

func (w *Wallets) immutableTree() *iavl.ImmutableTree {
	db := w.db.Load()
	if db == nil {
		return nil
	}
	return db.(*iavl.ImmutableTree)
}

func (w *Wallets) SetImmutableTree(immutableTree *iavl.ImmutableTree) {
	w.db.Store(immutableTree)
}

func (w *Wallets) Commit(db *iavl.MutableTree) error {
	addresses := w.getOrderedDirty()
	for _, address := range addresses {
		wallet := w.getFromMap(address)

		w.lock.Lock()
		delete(w.dirty, address)
		w.lock.Unlock()

		wallet.lock.Lock()
		wallet.isDirty = false
		wallet.isNew = false
		data, err := amino.MarshalBinaryBare(wallet)
		wallet.lock.Unlock()
		if err != nil {
			return fmt.Errorf("can't encode wallet at %x: %v", address[:], err)
		}

		db.Set(getPath(address), data)
	}

	return nil
}

// GetWallet returns the wallet of the address or nil if none was created.
func (w *Wallets) GetWallet(address types.Address) *Model {
	return w.get(address)
}

func (w *Wallets) Exists(address types.Address) bool {
	return w.get(address) != nil
}

// CreateWallet creates a new wallet with the initial balance and appends
// the first record to its history. Re-creating an existing wallet is
// rejected: it would reset balances while the history log keeps growing.
func (w *Wallets) CreateWallet(address types.Address, name string, txHash types.Hash) error {
	if w.Exists(address) {
		return ErrWalletAlreadyExists
	}

	length, hash := w.bus.History().Append(address, txHash)

	wallet := &Model{
		Name:        name,
		Balance:     types.InitialBalance,
		HistoryLen:  length,
		HistoryHash: hash,
		address:     address,
		isDirty:     true,
		isNew:       true,
		markDirty:   w.markDirty,
	}
	w.setToMap(address, wallet)
	w.markDirty(address)

	amount := new(big.Int).SetUint64(types.InitialBalance)
	w.bus.Checker().AddBalance(amount)
	w.bus.Checker().AddEmission(amount)

	w.bus.Events().AddEvent(&eventsdb.WalletCreatedEvent{
		Address: address,
		Name:    name,
		Balance: types.InitialBalance,
	})

	return nil
}

// AddBalance increases the balance of the wallet and appends a record to
// its history. The counterpart decrease (or mint) is accounted by the
// caller.
func (w *Wallets) AddBalance(address types.Address, amount uint64, txHash types.Hash) error {
	wallet := w.get(address)
	if wallet == nil {
		return ErrWalletNotFound
	}

	balance, ok := helpers.AddUint64(wallet.GetBalance(), amount)
	if !ok {
		return ErrArithmeticOverflow
	}

	length, hash := w.bus.History().Append(address, txHash)
	wallet.setBalance(balance, length, hash)

	w.bus.Checker().AddBalance(new(big.Int).SetUint64(amount))

	return nil
}

// Mint is AddBalance for funds that legitimately enter the ledger.
func (w *Wallets) Mint(address types.Address, amount uint64, txHash types.Hash) error {
	if err := w.AddBalance(address, amount, txHash); err != nil {
		return err
	}

	w.bus.Checker().AddEmission(new(big.Int).SetUint64(amount))

	return nil
}

// SubBalance decreases the balance of the wallet and appends a record to
// its history.
func (w *Wallets) SubBalance(address types.Address, amount uint64, txHash types.Hash) error {
	wallet := w.get(address)
	if wallet == nil {
		return ErrWalletNotFound
	}

	balance, ok := helpers.SubUint64(wallet.GetBalance(), amount)
	if !ok {
		return ErrInsufficientFunds
	}

	length, hash := w.bus.History().Append(address, txHash)
	wallet.setBalance(balance, length, hash)

	w.bus.Checker().AddBalance(new(big.Int).Neg(new(big.Int).SetUint64(amount)))

	return nil
}

// Freeze reserves funds for a pending escrow. The frozen pool is an
// earmark on top of the balance: freezing does not reduce the spendable
// balance until the escrow is finalized.
func (w *Wallets) Freeze(address types.Address, amount uint64, txHash types.Hash) error {
	wallet := w.get(address)
	if wallet == nil {
		return ErrWalletNotFound
	}

	frozen, ok := helpers.AddUint64(wallet.GetFrozenBalance(), amount)
	if !ok {
		return ErrArithmeticOverflow
	}

	length, hash := w.bus.History().Append(address, txHash)
	wallet.setFrozenBalance(frozen, length, hash)

	value := new(big.Int).SetUint64(amount)
	w.bus.Checker().AddFrozen(value)
	w.bus.Checker().AddReserved(value)

	return nil
}

// Unfreeze returns reserved funds to the frozen-free state without
// spending them. No transaction type drives it yet; escrows are
// irrevocable at the wire level.
func (w *Wallets) Unfreeze(address types.Address, amount uint64, txHash types.Hash) error {
	wallet := w.get(address)
	if wallet == nil {
		return ErrWalletNotFound
	}

	frozen, ok := helpers.SubUint64(wallet.GetFrozenBalance(), amount)
	if !ok {
		return ErrInsufficientEscrow
	}

	length, hash := w.bus.History().Append(address, txHash)
	wallet.setFrozenBalance(frozen, length, hash)

	value := new(big.Int).Neg(new(big.Int).SetUint64(amount))
	w.bus.Checker().AddFrozen(value)
	w.bus.Checker().AddReserved(value)

	return nil
}

// FinalizeEscrow releases escrowed funds: the amount leaves both the
// frozen pool and the spendable balance in the same step. This is the
// spend of a previously reserved amount, not a plain unfreeze.
func (w *Wallets) FinalizeEscrow(address types.Address, amount uint64, txHash types.Hash) error {
	wallet := w.get(address)
	if wallet == nil {
		return ErrWalletNotFound
	}

	frozen, ok := helpers.SubUint64(wallet.GetFrozenBalance(), amount)
	if !ok {
		return ErrInsufficientEscrow
	}

	balance, ok := helpers.SubUint64(wallet.GetBalance(), amount)
	if !ok {
		return ErrInsufficientFunds
	}

	length, hash := w.bus.History().Append(address, txHash)
	wallet.setBalances(balance, frozen, length, hash)

	value := new(big.Int).SetUint64(amount)
	w.bus.Checker().AddBalance(new(big.Int).Neg(value))
	w.bus.Checker().AddFrozen(new(big.Int).Neg(value))
	w.bus.Checker().AddReserved(new(big.Int).Neg(value))

	return nil
}

// CreateSendApprove escrows the amount pending a third-party approver's
// release to the recipient: freezes the funds and registers the
// escrow-release instruction under the transaction hash, with one history
// append for the sender.
func (w *Wallets) CreateSendApprove(address types.Address, amount uint64, to types.Address, approver types.Address, txHash types.Hash) error {
	if err := w.Freeze(address, amount, txHash); err != nil {
		return err
	}

	w.bus.Confirmed().AddConfirmed(txHash, bus.SendApprove{
		From:     address,
		To:       to,
		Amount:   amount,
		Approver: approver,
	})

	w.bus.Events().AddEvent(&eventsdb.EscrowFrozenEvent{
		Address:  address,
		To:       to,
		Approver: approver,
		Amount:   amount,
		TxHash:   txHash,
	})

	return nil
}

// ApproveEscrow releases the escrow registered under escrowHash: finalizes
// the sender's frozen funds and credits the recipient, one history append
// for each affected wallet. Only the registered approver may release.
func (w *Wallets) ApproveEscrow(approver types.Address, escrowHash types.Hash, txHash types.Hash) error {
	record := w.bus.Confirmed().GetConfirmed(escrowHash)
	if record == nil {
		return ErrNotConfirmed
	}

	if record.Approver != approver {
		return ErrNotApprover
	}

	from := w.get(record.From)
	if from == nil {
		return ErrWalletNotFound
	}

	to := w.get(record.To)
	if to == nil {
		return ErrWalletNotFound
	}

	// Validate both wallets before mutating either one.
	if record.Amount > from.GetFrozenBalance() {
		return ErrInsufficientEscrow
	}
	if record.Amount > from.GetBalance() {
		return ErrInsufficientFunds
	}
	if _, ok := helpers.AddUint64(to.GetBalance(), record.Amount); !ok {
		return ErrArithmeticOverflow
	}

	if err := w.FinalizeEscrow(record.From, record.Amount, txHash); err != nil {
		return err
	}
	if err := w.AddBalance(record.To, record.Amount, txHash); err != nil {
		return err
	}

	w.bus.Events().AddEvent(&eventsdb.EscrowReleasedEvent{
		From:       record.From,
		To:         record.To,
		ApprovedBy: approver,
		Amount:     record.Amount,
		TxHash:     escrowHash,
	})

	return nil
}

// ImportWallet sets a wallet record as declared in a genesis state. The
// history log is replayed separately, so the record's history metadata is
// trusted as given.
func (w *Wallets) ImportWallet(wallet types.Wallet) {
	model := &Model{
		Name:          wallet.Name,
		Balance:       wallet.Balance,
		FrozenBalance: wallet.FrozenBalance,
		HistoryLen:    wallet.HistoryLen,
		HistoryHash:   wallet.HistoryHash,
		address:       wallet.Address,
		isDirty:       true,
		isNew:         true,
		markDirty:     w.markDirty,
	}
	w.setToMap(wallet.Address, model)
	w.markDirty(wallet.Address)

	balance := new(big.Int).SetUint64(wallet.Balance)
	w.bus.Checker().AddBalance(balance)
	w.bus.Checker().AddEmission(balance)

	frozen := new(big.Int).SetUint64(wallet.FrozenBalance)
	w.bus.Checker().AddFrozen(frozen)
	w.bus.Checker().AddReserved(frozen)
}

func (w *Wallets) Export(state *types.AppState) {
	w.immutableTree().IterateRange([]byte{mainPrefix}, []byte{mainPrefix + 1}, true, func(key []byte, value []byte) bool {
		addressPath := key[1:]
		if len(addressPath) > types.AddressLength {
			return false
		}

		address := types.BytesToAddress(addressPath)
		wallet := w.get(address)

		state.Wallets = append(state.Wallets, types.Wallet{
			Address:       address,
			Name:          wallet.GetName(),
			Balance:       wallet.GetBalance(),
			FrozenBalance: wallet.GetFrozenBalance(),
			HistoryLen:    wallet.GetHistoryLen(),
			HistoryHash:   wallet.GetHistoryHash(),
		})

		return false
	})

	sort.SliceStable(state.Wallets, func(i, j int) bool {
		return bytes.Compare(state.Wallets[i].Address.Bytes(), state.Wallets[j].Address.Bytes()) == -1
	})
}

func (w *Wallets) get(address types.Address) *Model {
	if wallet := w.getFromMap(address); wallet != nil {
		return wallet
	}

	_, enc := w.immutableTree().Get(getPath(address))
	if len(enc) == 0 {
		return nil
	}

	wallet := &Model{}
	if err := amino.UnmarshalBinaryBare(enc, wallet); err != nil {
		panic(fmt.Sprintf("failed to decode wallet at address %s: %s", address.String(), err))
	}

	wallet.address = address
	wallet.markDirty = w.markDirty

	w.setToMap(address, wallet)

	return wallet
}

func (w *Wallets) markDirty(address types.Address) {
	w.lock.Lock()
	defer w.lock.Unlock()

	w.dirty[address] = struct{}{}
}

func (w *Wallets) getOrderedDirty() []types.Address {
	w.lock.RLock()
	keys := make([]types.Address, 0, len(w.dirty))
	for k := range w.dirty {
		keys = append(keys, k)
	}
	w.lock.RUnlock()

	sort.SliceStable(keys, func(i, j int) bool {
		return bytes.Compare(keys[i].Bytes(), keys[j].Bytes()) == 1
	})

	return keys
}

func (w *Wallets) getFromMap(address types.Address) *Model {
	w.lock.RLock()
	defer w.lock.RUnlock()

	return w.list[address]
}

func (w *Wallets) setToMap(address types.Address, wallet *Model) {
	w.lock.Lock()
	defer w.lock.Unlock()

	w.list[address] = wallet
}

func getPath(address types.Address) []byte {
	return append([]byte{mainPrefix}, address[:]...)
}
