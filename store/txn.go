package store

import (
	"bytes"
	"sort"
	"strings"

	"github.com/canopy-network/fundpolls/lib"
)

// enforce the StoreTxnI interface
var _ lib.StoreTxnI = &Txn{}

/*
	Txn acts like a database transaction
	It saves set/del operations in memory and allows the caller to Write() to the parent or Discard()
	When read from, it merges with the parent as if Write() had already been called

	BadgerDB has no nested transactions. Txns layer on top of each other (Txn.NewTxn()) so every polls
	operation, and every scheduled entry of a height, gets its own scope that is either written to the
	enclosing scope in full or dropped in full.

	CONTRACT:
	- not thread safe
	- a deleted key shadows the parent until Write()
	- iterators are a snapshot of the in-memory operations at creation time
*/

type Txn struct {
	parent lib.RWStoreI  // store to Write() to
	ops    map[string]op // [string(key)] -> set/del operations saved in memory
	sorted []string      // ops keys sorted lexicographically; needed for iteration
}

// op or Operation has the value portion of the operation and if it's a *delete* or a *set*
type op struct {
	value  []byte // value of key value pair
	delete bool   // is operation delete
}

// NewTxn() creates a new instance of a Txn with the specified parent store
func NewTxn(parent lib.RWStoreI) *Txn {
	return &Txn{parent: parent, ops: make(map[string]op)}
}

// NewTxn() opens a nested Txn on top of this one
func (c *Txn) NewTxn() lib.StoreTxnI { return NewTxn(c) }

// Get() retrieves the value for a given key from either the in-memory operations or the parent store
func (c *Txn) Get(key []byte) ([]byte, lib.ErrorI) {
	if v, found := c.ops[string(key)]; found {
		if v.delete {
			return nil, nil
		}
		return bytes.Clone(v.value), nil
	}
	return c.parent.Get(key)
}

// Set() adds or updates the value for a key in the in-memory operations
func (c *Txn) Set(key, value []byte) lib.ErrorI {
	c.update(string(key), bytes.Clone(value), false)
	return nil
}

// Delete() marks a key for deletion in the in-memory operations
func (c *Txn) Delete(key []byte) lib.ErrorI {
	c.update(string(key), nil, true)
	return nil
}

// update() modifies or adds an operation for a key in the in-memory operations and maintains order
func (c *Txn) update(key string, v []byte, delete bool) {
	if _, found := c.ops[key]; !found {
		i := sort.SearchStrings(c.sorted, key)
		c.sorted = append(c.sorted, "")
		copy(c.sorted[i+1:], c.sorted[i:])
		c.sorted[i] = key
	}
	c.ops[key] = op{value: v, delete: delete}
}

// Iterator() returns a new iterator for merged iteration of both the in-memory operations and parent store with the given prefix
func (c *Txn) Iterator(prefix []byte) (lib.IteratorI, lib.ErrorI) {
	parent, err := c.parent.Iterator(prefix)
	if err != nil {
		return nil, err
	}
	return newTxnIterator(parent, c.snapshot(prefix, false), false), nil
}

// RevIterator() returns a new reverse iterator for merged iteration of both the in-memory operations and parent store with the given prefix
func (c *Txn) RevIterator(prefix []byte) (lib.IteratorI, lib.ErrorI) {
	parent, err := c.parent.RevIterator(prefix)
	if err != nil {
		return nil, err
	}
	return newTxnIterator(parent, c.snapshot(prefix, true), true), nil
}

// snapshot() copies the in-memory operations under the prefix in iteration order
func (c *Txn) snapshot(prefix []byte, reverse bool) (entries []entry) {
	p := string(prefix)
	for i := sort.SearchStrings(c.sorted, p); i < len(c.sorted) && strings.HasPrefix(c.sorted[i], p); i++ {
		entries = append(entries, entry{key: []byte(c.sorted[i]), op: c.ops[c.sorted[i]]})
	}
	if reverse {
		for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
			entries[i], entries[j] = entries[j], entries[i]
		}
	}
	return
}

// Discard() clears all in-memory operations
func (c *Txn) Discard() { c.ops, c.sorted = make(map[string]op), nil }

// Write() flushes the in-memory operations to the parent store in key order and clears in-memory changes
func (c *Txn) Write() (err lib.ErrorI) {
	for _, k := range c.sorted {
		v := c.ops[k]
		if v.delete {
			err = c.parent.Delete([]byte(k))
		} else {
			err = c.parent.Set([]byte(k), v.value)
		}
		if err != nil {
			return
		}
	}
	c.Discard()
	return
}

// enforce the Iterator interface
var _ lib.IteratorI = &TxnIterator{}

// entry is a key with its pending operation
type entry struct {
	key []byte
	op
}

// TxnIterator is a reversible, merged iterator of the parent and the in-memory operations
// the in-memory operations shadow the parent when keys are equal
type TxnIterator struct {
	parent  lib.IteratorI
	entries []entry // in-memory operations in iteration order
	index   int     // next in-memory operation
	reverse bool
	key     []byte // current key
	value   []byte // current value
	valid   bool
}

// newTxnIterator() initializes a new merged iterator and positions it at the first live entry
func newTxnIterator(parent lib.IteratorI, entries []entry, reverse bool) *TxnIterator {
	it := &TxnIterator{parent: parent, entries: entries, reverse: reverse}
	it.Next()
	return it
}

// Next() advances the iterator to the next live entry, choosing between in-memory and parent store entries
func (c *TxnIterator) Next() {
	for {
		txnOk, parentOk := c.index < len(c.entries), c.parent.Valid()
		switch {
		case !txnOk && !parentOk:
			c.key, c.value, c.valid = nil, nil, false
			return
		case !txnOk:
			c.useParent()
			return
		case parentOk:
			cmp := c.compare(c.entries[c.index].key, c.parent.Key())
			if cmp > 0 {
				c.useParent()
				return
			}
			if cmp == 0 {
				// shadowed by the in-memory operation
				c.parent.Next()
			}
		}
		e := c.entries[c.index]
		c.index++
		if e.delete {
			continue
		}
		c.key, c.value, c.valid = e.key, bytes.Clone(e.value), true
		return
	}
}

// useParent() takes the current parent entry and advances the parent
func (c *TxnIterator) useParent() {
	c.key, c.value, c.valid = c.parent.Key(), c.parent.Value(), true
	c.parent.Next()
}

// compare() compares two byte slices, adjusting for reverse iteration if needed
func (c *TxnIterator) compare(a, b []byte) int {
	if c.reverse {
		return bytes.Compare(a, b) * -1
	}
	return bytes.Compare(a, b)
}

func (c *TxnIterator) Valid() bool   { return c.valid }
func (c *TxnIterator) Key() []byte   { return c.key }
func (c *TxnIterator) Value() []byte { return c.value }
func (c *TxnIterator) Close()        { c.parent.Close() }
