package lib

/* This file contains persistence module interfaces that are used throughout the app */

// StoreI defines the interface for interacting with the node storage
type StoreI interface {
	LayeredStoreI         // reading, writing and nesting
	Version() uint64      // access the height of the store
	Commit() (err ErrorI) // save the store and increment the height
	Discard()             // discard the uncommitted writes
	Close() ErrorI        // gracefully stop the database
}

// LayeredStoreI is a read/write store that is able to open a discardable layer on top of itself
type LayeredStoreI interface {
	RWStoreI
	NewTxn() StoreTxnI // wrap the store in a discardable nested store
}

// StoreTxnI is a discardable layer on top of a parent store; Write() flushes into the parent
type StoreTxnI interface {
	LayeredStoreI
	Write() ErrorI // flush all pending operations to the parent
	Discard()      // drop all pending operations
}

// RWStoreI defines the Read/Write interface for basic db CRUD operations
type RWStoreI interface {
	RStoreI
	WStoreI
}

// WStoreI defines an interface for basic write operations
type WStoreI interface {
	Set(key, value []byte) ErrorI // set value bytes referenced by key bytes
	Delete(key []byte) ErrorI
}

// RStoreI defines an interface for basic read operations
type RStoreI interface {
	Get(key []byte) ([]byte, ErrorI)               // access value bytes using key bytes
	Iterator(prefix []byte) (IteratorI, ErrorI)    // iterate through the data one KV pair at a time in lexicographical order
	RevIterator(prefix []byte) (IteratorI, ErrorI) // iterate through the date on KV pair at a time in reverse lexicographical order
}

// IteratorI defines an interface for iterating over key-value pairs in a data store
// NOTE: a badger write transaction supports only one open iterator; close before opening another
type IteratorI interface {
	Valid() bool           // if the item the iterator is pointing at is valid
	Next()                 // move to next item
	Key() (key []byte)     // retrieve key
	Value() (value []byte) // retrieve value
	Close()                // close the iterator when done, ensuring proper resource management
}
