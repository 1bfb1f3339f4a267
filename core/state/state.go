package state

import (
	"fmt"
	"sync"

	"github.com/WalletTeam/wallet-go-node/core/appdb"
	eventsdb "github.com/WalletTeam/wallet-go-node/core/events"
	"github.com/WalletTeam/wallet-go-node/core/state/bus"
	"github.com/WalletTeam/wallet-go-node/core/state/checker"
	"github.com/WalletTeam/wallet-go-node/core/state/confirmed"
	"github.com/WalletTeam/wallet-go-node/core/state/history"
	"github.com/WalletTeam/wallet-go-node/core/state/wallets"
	"github.com/WalletTeam/wallet-go-node/core/types"
	"github.com/WalletTeam/wallet-go-node/log"
	"github.com/WalletTeam/wallet-go-node/tree"
	"github.com/cosmos/iavl"
	db "github.com/tendermint/tm-db"
)

type Interface interface {
	isValue_State()
}

// CheckState is a read-only view of the ledger.
type CheckState struct {
	state *State
}

func NewCheckState(state *State) *CheckState {
	return &CheckState{state: state}
}

func (cs *CheckState) isValue_State() {}

func (cs *CheckState) Wallets() wallets.RWallets {
	return cs.state.Wallets
}

func (cs *CheckState) Histories() history.RHistories {
	return cs.state.Histories
}

func (cs *CheckState) Confirmed() confirmed.RConfirmed {
	return cs.state.Confirmed
}

func (cs *CheckState) Export() types.AppState {
	appState := new(types.AppState)
	cs.Wallets().Export(appState)
	cs.Confirmed().Export(appState)

	for i, wallet := range appState.Wallets {
		appState.Wallets[i].History = cs.Histories().Entries(wallet.Address)
	}

	return *appState
}

// State is the full mutable ledger state: wallet records, per-account
// history logs and the confirmed escrow registry, all backed by one
// authenticated tree.
type State struct {
	Wallets   *wallets.Wallets
	Histories *history.Histories
	Confirmed *confirmed.Confirmed
	Checker   *checker.Checker

	db             db.DB
	events         eventsdb.IEventsDB
	applicationDB  *appdb.AppDB
	tree           tree.MTree
	keepLastStates int64

	bus            *bus.Bus
	lock           sync.RWMutex
	height         int64
	initialVersion int64
}

func (s *State) isValue_State() {}

// NewState loads the ledger at the given height. A nil applicationDB is
// allowed for throwaway states (dry runs, tests): the committed height and
// root hash are then not persisted outside the tree.
func NewState(height uint64, db db.DB, events eventsdb.IEventsDB, applicationDB *appdb.AppDB, cacheSize int, keepLastStates int64, initialVersion uint64) (*State, error) {
	iavlTree, err := tree.NewMutableTree(height, db, cacheSize, initialVersion)
	if err != nil {
		return nil, err
	}

	state := newStateForTree(iavlTree.GetLastImmutable(), events, db, keepLastStates)
	state.tree = iavlTree
	state.applicationDB = applicationDB
	state.height = int64(height)
	state.initialVersion = int64(initialVersion)

	return state, nil
}

func NewCheckStateAtHeight(height uint64, db db.DB) (*CheckState, error) {
	iavlTree, err := tree.NewImmutableTree(height, db)
	if err != nil {
		return nil, err
	}

	return newCheckStateForTree(iavlTree, nil, db, 0), nil
}

func (s *State) Tree() tree.MTree {
	return s.tree
}

func (s *State) Bus() *bus.Bus {
	return s.bus
}

func (s *State) Lock() {
	s.lock.Lock()
}

func (s *State) Unlock() {
	s.lock.Unlock()
}

func (s *State) RLock() {
	s.lock.RLock()
}

func (s *State) RUnlock() {
	s.lock.RUnlock()
}

// Check verifies the balance sheet of the current block: balance changes
// against emission and frozen changes against reservations.
func (s *State) Check() error {
	return s.Checker.Check()
}

// Commit flushes every dirty model into the authenticated tree and saves a
// new version. States older than keepLastStates are pruned.
func (s *State) Commit() ([]byte, error) {
	s.Checker.Reset()

	hash, version, err := s.tree.Commit(
		s.Wallets,
		s.Histories,
		s.Confirmed,
	)
	if err != nil {
		return hash, err
	}

	s.height = version

	if s.applicationDB != nil {
		s.applicationDB.SetLastBlockHash(hash)
		s.applicationDB.SetLastHeight(uint64(version))
	}

	versionToDelete := version - s.keepLastStates - 1
	if versionToDelete < s.initialVersion {
		return hash, nil
	}

	if err := s.tree.DeleteVersionIfExists(versionToDelete); err != nil {
		log.Error("Can't delete old state version", "version", versionToDelete, "err", err)
	}

	return hash, nil
}

// Import rebuilds the ledger from a genesis state: replays every account's
// history log, verifies the replayed digest against the declared one and
// sets the wallet records and the confirmed escrow registry as declared.
func (s *State) Import(state types.AppState) error {
	for _, wallet := range state.Wallets {
		var length uint64
		var digest types.Hash
		for _, txHash := range wallet.History {
			length, digest = s.Histories.Append(wallet.Address, txHash)
		}

		if length != wallet.HistoryLen {
			return fmt.Errorf("history length of wallet %s is %d, want %d",
				wallet.Address.String(), length, wallet.HistoryLen)
		}
		if digest != wallet.HistoryHash {
			return fmt.Errorf("history digest of wallet %s is %s, want %s",
				wallet.Address.String(), digest.String(), wallet.HistoryHash.String())
		}

		s.Wallets.ImportWallet(wallet)
	}

	for _, tx := range state.ConfirmedTransactions {
		s.Confirmed.Add(tx.Hash, bus.SendApprove{
			From:     tx.From,
			To:       tx.To,
			Amount:   tx.Amount,
			Approver: tx.Approver,
		})
	}

	return nil
}

func (s *State) Export() types.AppState {
	state, err := NewCheckStateAtHeight(uint64(s.tree.Version()), s.db)
	if err != nil {
		log.Fatal("Create new state at height failed", "height", s.tree.Version(), "err", err)
	}

	return state.Export()
}

func newCheckStateForTree(immutableTree *iavl.ImmutableTree, events eventsdb.IEventsDB, db db.DB, keepLastStates int64) *CheckState {
	return NewCheckState(newStateForTree(immutableTree, events, db, keepLastStates))
}

func newStateForTree(immutableTree *iavl.ImmutableTree, events eventsdb.IEventsDB, db db.DB, keepLastStates int64) *State {
	stateBus := bus.NewBus()
	stateBus.SetEvents(events)

	stateChecker := checker.NewChecker(stateBus)
	historiesState := history.NewHistories(stateBus, immutableTree)
	confirmedState := confirmed.NewConfirmed(stateBus, immutableTree)
	walletsState := wallets.NewWallets(stateBus, immutableTree)

	return &State{
		Wallets:   walletsState,
		Histories: historiesState,
		Confirmed: confirmedState,
		Checker:   stateChecker,

		height:         immutableTree.Version(),
		bus:            stateBus,
		db:             db,
		events:         events,
		keepLastStates: keepLastStates,
	}
}
