package events

import (
	"encoding/binary"
	"sync"

	"github.com/tendermint/go-amino"
	db "github.com/tendermint/tm-db"
)

// IEventsDB is an interface of Events
type IEventsDB interface {
	AddEvent(event Event)
	LoadEvents(height uint32) Events
	CommitEvents(height uint32) error
	Close() error
}

type MockEvents struct{}

func (e MockEvents) AddEvent(event Event)            {}
func (e MockEvents) LoadEvents(height uint32) Events { return nil }
func (e MockEvents) CommitEvents(height uint32) error {
	return nil
}
func (e MockEvents) Close() error { return nil }

type eventsStore struct {
	cdc *amino.Codec
	db  db.DB

	pending Events
	lock    sync.Mutex
}

// NewEventsStore creates new events store in given DB
func NewEventsStore(db db.DB) IEventsDB {
	codec := amino.NewCodec()
	codec.RegisterInterface((*Event)(nil), nil)
	codec.RegisterConcrete(&WalletCreatedEvent{}, TypeWalletCreatedEvent, nil)
	codec.RegisterConcrete(&EscrowFrozenEvent{}, TypeEscrowFrozenEvent, nil)
	codec.RegisterConcrete(&EscrowReleasedEvent{}, TypeEscrowReleasedEvent, nil)

	return &eventsStore{
		cdc: codec,
		db:  db,
	}
}

func (store *eventsStore) AddEvent(event Event) {
	store.lock.Lock()
	defer store.lock.Unlock()

	store.pending = append(store.pending, event)
}

func (store *eventsStore) LoadEvents(height uint32) Events {
	bytes, err := store.db.Get(getKeyForHeight(height))
	if err != nil {
		panic(err)
	}
	if len(bytes) == 0 {
		return Events{}
	}

	var events Events
	if err := store.cdc.UnmarshalBinaryBare(bytes, &events); err != nil {
		panic(err)
	}

	return events
}

func (store *eventsStore) CommitEvents(height uint32) error {
	store.lock.Lock()
	defer store.lock.Unlock()

	bytes, err := store.cdc.MarshalBinaryBare(store.pending)
	if err != nil {
		return err
	}

	if err := store.db.Set(getKeyForHeight(height), bytes); err != nil {
		return err
	}

	store.pending = Events{}

	return nil
}

func (store *eventsStore) Close() error {
	return store.db.Close()
}

func getKeyForHeight(height uint32) []byte {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], height)

	return buf[:]
}
