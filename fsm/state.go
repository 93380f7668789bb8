package fsm

import (
	"runtime/debug"

	"github.com/canopy-network/fundpolls/lib"
)

// StateMachine is the polls module: a deterministic state transition function over a key value store
// every mutating operation runs in an atomic scope that either writes all of its effects or none of them
type StateMachine struct {
	store     lib.LayeredStoreI
	height    uint64
	Config    lib.Config
	ledger    LedgerI
	scheduler SchedulerI
	resolver  ResolverI
	sink      EventSinkI
	events    *lib.EventsTracker
	log       lib.LoggerI
}

// New() creates a new instance of a StateMachine with the state backed collaborators
func New(c lib.Config, store lib.StoreI, log lib.LoggerI) (*StateMachine, lib.ErrorI) {
	sm := &StateMachine{
		Config: c,
		events: new(lib.EventsTracker),
		log:    log,
	}
	sm.ledger, sm.scheduler, sm.resolver = NewStateLedger(sm), NewStateScheduler(sm), NewResolver()
	sm.sink = NewEventLog(defaultEventLogSize, log)
	return sm, sm.Initialize(store)
}

// Initialize() initializes a StateMachine object using the StoreI
// a fresh store is populated from the genesis file and committed so the node starts at height 1
func (s *StateMachine) Initialize(db lib.StoreI) (err lib.ErrorI) {
	s.height, s.store = db.Version(), db
	if s.height != 0 {
		return nil
	}
	if err = s.NewFromGenesisFile(); err != nil {
		return
	}
	if err = db.Commit(); err != nil {
		return
	}
	s.height = db.Version()
	return nil
}

// atomic() executes the callback in a nested store transaction
// on error every write of the callback is discarded together with its events
// on success the writes flush to the parent store and the events are released
func (s *StateMachine) atomic(reference string, fn func() lib.ErrorI) (err lib.ErrorI) {
	parentStore, parentEvents := s.store, s.events
	txn := parentStore.NewTxn()
	s.store, s.events = txn, &lib.EventsTracker{Reference: reference}
	defer func() {
		if r := recover(); r != nil {
			s.log.Errorf("%s panicked: %v\n%s", reference, r, string(debug.Stack()))
			err = lib.ErrPanic()
		}
		events := s.events.Reset()
		s.store, s.events = parentStore, parentEvents
		if err != nil {
			txn.Discard()
			return
		}
		if err = txn.Write(); err != nil {
			return
		}
		s.release(reference, events)
	}()
	return fn()
}

// release() forwards committed events to the enclosing scope, or to the sink at the outermost scope
func (s *StateMachine) release(reference string, events lib.Events) {
	s.log.Debugf("%s committed at height %d with %d event(s)", reference, s.height, len(events))
	for _, e := range events {
		if s.events.GetReference() != "" {
			s.events.Add(e)
		} else if s.sink != nil {
			s.sink.Emit(e)
		}
	}
}

// emit() buffers an event in the current atomic scope
func (s *StateMachine) emit(eventType lib.EventType, pollId uint64, address []byte, amount uint64, msg any) {
	s.events.Add(&lib.Event{
		EventType: eventType,
		Height:    s.height,
		Reference: s.events.GetReference(),
		Address:   address,
		PollId:    pollId,
		Amount:    amount,
		Msg:       msg,
	})
}

// Height() returns the current height of the state machine
func (s *StateMachine) Height() uint64 { return s.height }

// SetHeight() updates the current height; used by the controller when a block is produced
func (s *StateMachine) SetHeight(h uint64) { s.height = h }

// Store() returns the current store being used by the state machine
func (s *StateMachine) Store() lib.RWStoreI { return s.store }

// SetStore() sets the underlying store for the state machine
func (s *StateMachine) SetStore(store lib.LayeredStoreI) { s.store = store }

func (s *StateMachine) Ledger() LedgerI              { return s.ledger }
func (s *StateMachine) Scheduler() SchedulerI        { return s.scheduler }
func (s *StateMachine) SetLedger(l LedgerI)          { s.ledger = l }
func (s *StateMachine) SetScheduler(sc SchedulerI)   { s.scheduler = sc }
func (s *StateMachine) SetResolver(r ResolverI)      { s.resolver = r }
func (s *StateMachine) SetEventSink(sink EventSinkI) { s.sink = sink }

// Commit() persists the state of the underlying store as the next version
func (s *StateMachine) Commit() lib.ErrorI {
	store, ok := s.store.(lib.StoreI)
	if !ok {
		return ErrWrongStoreType()
	}
	if err := store.Commit(); err != nil {
		return err
	}
	s.height = store.Version()
	return nil
}

// Discard() drops every uncommitted write of the underlying store
func (s *StateMachine) Discard() {
	if store, ok := s.store.(lib.StoreI); ok {
		store.Discard()
	}
}

// Set() upserts a key-value pair under a key
func (s *StateMachine) Set(k, v []byte) lib.ErrorI { return s.store.Set(k, v) }

// Get() retrieves a key-value pair under a key
// NOTE: returns (nil, nil) if no value is found for that key
func (s *StateMachine) Get(key []byte) ([]byte, lib.ErrorI) { return s.store.Get(key) }

// Delete() deletes a key-value pair under a key
func (s *StateMachine) Delete(key []byte) lib.ErrorI { return s.store.Delete(key) }

// Iterator() creates and returns an iterator for the state machine's underlying store
// starting at the specified key and iterating lexicographically
func (s *StateMachine) Iterator(key []byte) (lib.IteratorI, lib.ErrorI) { return s.store.Iterator(key) }

// RevIterator() creates and returns an iterator for the state machine's underlying store
// starting at the end-prefix of the specified key and iterating reverse lexicographically
func (s *StateMachine) RevIterator(key []byte) (lib.IteratorI, lib.ErrorI) {
	return s.store.RevIterator(key)
}

// IterateAndExecute() creates an iterator and executes a callback function for each key-value pair
// the iterator is open during the callback: the callback must not iterate the store again
func (s *StateMachine) IterateAndExecute(prefix []byte, callback func(key, value []byte) lib.ErrorI) lib.ErrorI {
	it, err := s.Iterator(prefix)
	if err != nil {
		return err
	}
	defer it.Close()
	for ; it.Valid(); it.Next() {
		if err = callback(it.Key(), it.Value()); err != nil {
			return err
		}
	}
	return nil
}

// DeleteAll() deletes all key-value pairs under a set of keys
func (s *StateMachine) DeleteAll(keys [][]byte) lib.ErrorI {
	for _, key := range keys {
		if err := s.Delete(key); err != nil {
			return err
		}
	}
	return nil
}

