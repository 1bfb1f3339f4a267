package tree

import (
	"sync"

	"github.com/cosmos/iavl"
	"github.com/pkg/errors"
	dbm "github.com/tendermint/tm-db"
)

// Committer is one part of the ledger state that flushes its dirty models
// into the authenticated tree on commit.
type Committer interface {
	Commit(db *iavl.MutableTree) error
	SetImmutableTree(immutableTree *iavl.ImmutableTree)
}

type ReadOnlyTree interface {
	Version() int64
	Hash() []byte
	GetLastImmutable() *iavl.ImmutableTree
}

type MTree interface {
	ReadOnlyTree
	AvailableVersions() []int
	Commit(committers ...Committer) ([]byte, int64, error)
	DeleteVersionIfExists(version int64) error
	Close() error
}

// NewMutableTree loads the authenticated state tree at the given height
// (0 loads the latest saved version).
func NewMutableTree(height uint64, db dbm.DB, cacheSize int, initialVersion uint64) (MTree, error) {
	tree, err := iavl.NewMutableTreeWithOpts(db, cacheSize, &iavl.Options{InitialVersion: initialVersion})
	if err != nil {
		return nil, err
	}

	if _, err := tree.LazyLoadVersion(int64(height)); err != nil {
		return nil, errors.Wrapf(err, "can't load tree at height %d", height)
	}

	return &mutableTree{tree: tree, db: db}, nil
}

// NewImmutableTree returns a read-only view of the state tree at the given height.
func NewImmutableTree(height uint64, db dbm.DB) (*iavl.ImmutableTree, error) {
	tree, err := iavl.NewMutableTree(db, 1024)
	if err != nil {
		return nil, err
	}

	if _, err := tree.LazyLoadVersion(int64(height)); err != nil {
		return nil, errors.Wrapf(err, "can't load tree at height %d", height)
	}

	return tree.ImmutableTree, nil
}

type mutableTree struct {
	tree *iavl.MutableTree
	db   dbm.DB

	lock sync.RWMutex
}

func (t *mutableTree) Version() int64 {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.tree.Version()
}

func (t *mutableTree) Hash() []byte {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.tree.Hash()
}

func (t *mutableTree) GetLastImmutable() *iavl.ImmutableTree {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.tree.ImmutableTree
}

// Commit flushes all given committers into the tree, saves a new version and
// points the committers at the resulting immutable view. The tree changes as
// one unit: either every dirty model of every committer lands in the saved
// version, or the version is not saved at all.
func (t *mutableTree) Commit(committers ...Committer) ([]byte, int64, error) {
	t.lock.Lock()
	defer t.lock.Unlock()

	for _, committer := range committers {
		if err := committer.Commit(t.tree); err != nil {
			return nil, 0, err
		}
	}

	hash, version, err := t.tree.SaveVersion()
	if err != nil {
		return nil, 0, errors.Wrap(err, "can't save version")
	}

	immutable, err := t.tree.GetImmutable(version)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "can't get immutable tree at version %d", version)
	}

	for _, committer := range committers {
		committer.SetImmutableTree(immutable)
	}

	return hash, version, nil
}

func (t *mutableTree) DeleteVersionIfExists(version int64) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	if !t.tree.VersionExists(version) {
		return nil
	}

	return t.tree.DeleteVersion(version)
}

func (t *mutableTree) AvailableVersions() []int {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.tree.AvailableVersions()
}

func (t *mutableTree) Close() error {
	return t.db.Close()
}
