package store

import (
	"encoding/binary"
	"math"
	"path/filepath"

	"github.com/canopy-network/fundpolls/lib"
	"github.com/dgraph-io/badger/v4"
)

const (
	latestVersion = math.MaxUint64 // the read timestamp of the writer; sees every committed version
)

var (
	statePrefix   = lib.JoinLenPrefix([]byte("s/")) // prefix designated for the polls and ledger state
	versionPrefix = lib.JoinLenPrefix([]byte("a/")) // prefix designated for the last committed version

	_ lib.StoreI = &Store{} // enforce the Store interface
)

/*
	The Store is a thin abstraction over a single managed BadgerDB instance.

	All state writes of a height go to one shared badger.Txn (the writer). Commit() saves the writer
	at the next version in a single badger commit and opens a fresh writer, so a crash never leaves
	a partially written height behind. Operations that need all-or-nothing semantics within a height
	layer a discardable in-memory Txn (see txn.go) on top of the Store with NewTxn().
*/

type Store struct {
	version uint64      // version of the store; the height
	db      *badger.DB  // underlying database
	writer  *badger.Txn // the shared writer that allows committing it all at once
	ss      *TxnWrapper // reference to the state store
	log     lib.LoggerI // logger
}

// New() creates a new instance of a StoreI either in memory or an actual disk DB
func New(config lib.Config, l lib.LoggerI) (lib.StoreI, lib.ErrorI) {
	if config.StoreConfig.InMemory {
		return NewStoreInMemory(l)
	}
	return NewStore(filepath.Join(config.DataDirPath, config.DBName), l)
}

// NewStore() creates a new instance of a disk DB
func NewStore(path string, log lib.LoggerI) (lib.StoreI, lib.ErrorI) {
	db, err := badger.OpenManaged(badger.DefaultOptions(path).WithNumVersionsToKeep(1).
		WithDetectConflicts(false).WithLogger(badgerLogger{log}).WithLoggingLevel(badger.ERROR))
	if err != nil {
		return nil, ErrOpenDB(err)
	}
	return NewStoreWithDB(db, log)
}

// NewStoreInMemory() creates a new instance of a mem DB
func NewStoreInMemory(log lib.LoggerI) (lib.StoreI, lib.ErrorI) {
	db, err := badger.OpenManaged(badger.DefaultOptions("").WithInMemory(true).
		WithDetectConflicts(false).WithLogger(badgerLogger{log}).WithLoggingLevel(badger.ERROR))
	if err != nil {
		return nil, ErrOpenDB(err)
	}
	return NewStoreWithDB(db, log)
}

// NewStoreWithDB() returns a Store object given a DB and a logger
func NewStoreWithDB(db *badger.DB, log lib.LoggerI) (*Store, lib.ErrorI) {
	version, err := getLatestVersion(db)
	if err != nil {
		return nil, err
	}
	writer := db.NewTransactionAt(latestVersion, true)
	return &Store{
		version: version,
		db:      db,
		writer:  writer,
		ss:      NewTxnWrapper(writer, log, statePrefix),
		log:     log,
	}, nil
}

// Get() returns the value bytes blob from the State Store
func (s *Store) Get(key []byte) ([]byte, lib.ErrorI) { return s.ss.Get(key) }

// Set() sets the value bytes blob in the State Store
func (s *Store) Set(k, v []byte) lib.ErrorI { return s.ss.Set(k, v) }

// Delete() removes the key from the State Store
func (s *Store) Delete(k []byte) lib.ErrorI { return s.ss.Delete(k) }

// Iterator() returns an object for scanning the State Store starting from the provided prefix
func (s *Store) Iterator(p []byte) (lib.IteratorI, lib.ErrorI) { return s.ss.Iterator(p) }

// RevIterator() returns an object for scanning the State Store starting from the provided prefix in reverse
func (s *Store) RevIterator(p []byte) (lib.IteratorI, lib.ErrorI) { return s.ss.RevIterator(p) }

// NewTxn() opens a discardable in-memory layer on top of the Store
func (s *Store) NewTxn() lib.StoreTxnI { return NewTxn(s) }

// Version() returns the last committed version (height) of the Store
func (s *Store) Version() uint64 { return s.version }

// Commit() writes the pending operations at the next version and resets the writer
func (s *Store) Commit() lib.ErrorI {
	next := s.version + 1
	if err := s.writer.Set(versionPrefix, binary.BigEndian.AppendUint64(nil, next)); err != nil {
		return ErrStoreSet(err)
	}
	if err := s.writer.CommitAt(next, nil); err != nil {
		return ErrCommitDB(err)
	}
	s.version = next
	s.resetWriter()
	return nil
}

// Discard() drops every uncommitted operation of the current version
func (s *Store) Discard() {
	s.writer.Discard()
	s.resetWriter()
}

// Close() discards the writer and gracefully closes the database
func (s *Store) Close() lib.ErrorI {
	s.writer.Discard()
	if err := s.db.Close(); err != nil {
		return ErrCloseDB(err)
	}
	return nil
}

// resetWriter() opens a new writer that sees every committed version
func (s *Store) resetWriter() {
	s.writer = s.db.NewTransactionAt(latestVersion, true)
	s.ss.setDB(s.writer)
}

// getLatestVersion() reads the last committed version from the database; zero for a new database
func getLatestVersion(db *badger.DB) (uint64, lib.ErrorI) {
	reader := db.NewTransactionAt(latestVersion, false)
	defer reader.Discard()
	item, err := reader.Get(versionPrefix)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return 0, nil
		}
		return 0, ErrStoreGet(err)
	}
	bz, err := item.ValueCopy(nil)
	if err != nil {
		return 0, ErrStoreGet(err)
	}
	if len(bz) != 8 {
		return 0, ErrInvalidKey()
	}
	return binary.BigEndian.Uint64(bz), nil
}

// badgerLogger adapts the node logger to the badger.Logger interface
type badgerLogger struct{ lib.LoggerI }

func (b badgerLogger) Warningf(format string, args ...interface{}) { b.Warnf(format, args...) }
