package store

import (
	"testing"

	"github.com/canopy-network/fundpolls/lib"
	"github.com/stretchr/testify/require"
)

func TestTxnWriteSetGet(t *testing.T) {
	parent, cleanup := testStore(t)
	defer cleanup()
	test := NewTxn(parent)
	require.NoError(t, test.Set([]byte("1/a"), []byte("a")))
	// test get from ops before write()
	val, err := test.Get([]byte("1/a"))
	require.NoError(t, err)
	require.Equal(t, []byte("a"), val)
	// test get from parent before write()
	val, err = parent.Get([]byte("1/a"))
	require.NoError(t, err)
	require.Nil(t, val)
	require.NoError(t, test.Write())
	// test get from parent after write()
	val, err = parent.Get([]byte("1/a"))
	require.NoError(t, err)
	require.Equal(t, []byte("a"), val)
	// test get from ops after write()
	val, err = test.Get([]byte("1/a"))
	require.NoError(t, err)
	require.Equal(t, []byte("a"), val)
}

func TestTxnWriteDelete(t *testing.T) {
	parent, cleanup := testStore(t)
	defer cleanup()
	test := NewTxn(parent)
	require.NoError(t, test.Set([]byte("1/a"), []byte("a")))
	require.NoError(t, test.Write())
	require.NoError(t, test.Delete([]byte("1/a")))
	val, err := test.Get([]byte("1/a"))
	require.NoError(t, err)
	require.Nil(t, val)
	val, err = parent.Get([]byte("1/a"))
	require.NoError(t, err)
	require.Equal(t, []byte("a"), val)
	require.NoError(t, test.Write())
	val, err = parent.Get([]byte("1/a"))
	require.NoError(t, err)
	require.Nil(t, val)
}

func TestTxnDiscard(t *testing.T) {
	parent, cleanup := testStore(t)
	defer cleanup()
	bulkSetKV(t, parent, "1/", "a")
	test := NewTxn(parent)
	bulkSetKV(t, test, "1/", "b")
	require.NoError(t, test.Delete([]byte("1/a")))
	test.Discard()
	// nothing reaches the parent
	require.NoError(t, test.Write())
	val, err := parent.Get([]byte("1/a"))
	require.NoError(t, err)
	require.Equal(t, []byte("1/a"), val)
	val, err = parent.Get([]byte("1/b"))
	require.NoError(t, err)
	require.Nil(t, val)
}

func TestTxnNested(t *testing.T) {
	parent, cleanup := testStore(t)
	defer cleanup()
	outer := parent.NewTxn()
	inner := outer.NewTxn()
	bulkSetKV(t, inner, "1/", "a")
	// inner write only reaches the outer txn
	require.NoError(t, inner.Write())
	val, err := outer.Get([]byte("1/a"))
	require.NoError(t, err)
	require.Equal(t, []byte("1/a"), val)
	val, err = parent.Get([]byte("1/a"))
	require.NoError(t, err)
	require.Nil(t, val)
	// a discarded inner txn leaves the outer untouched
	inner = outer.NewTxn()
	require.NoError(t, inner.Delete([]byte("1/a")))
	inner.Discard()
	require.NoError(t, outer.Write())
	val, err = parent.Get([]byte("1/a"))
	require.NoError(t, err)
	require.Equal(t, []byte("1/a"), val)
}

func TestTxnIterate(t *testing.T) {
	tests := []struct {
		name     string
		detail   string
		parent   []string
		txn      []string
		deleted  []string
		prefix   string
		expected []string
	}{
		{
			name:     "only txn",
			detail:   "the parent is empty",
			txn:      []string{"1/c", "1/a", "1/b", "2/a"},
			prefix:   "1/",
			expected: []string{"1/a", "1/b", "1/c"},
		},
		{
			name:     "only parent",
			detail:   "the txn is empty",
			parent:   []string{"1/c", "1/a", "1/b", "0/a"},
			prefix:   "1/",
			expected: []string{"1/a", "1/b", "1/c"},
		},
		{
			name:     "mixed",
			detail:   "the txn and the parent are merged in order",
			parent:   []string{"1/f", "1/e", "1/d"},
			txn:      []string{"1/i", "1/h", "1/g", "1/e"},
			prefix:   "1/",
			expected: []string{"1/d", "1/e", "1/f", "1/g", "1/h", "1/i"},
		},
		{
			name:     "mixed with deleted values",
			detail:   "a deleted key shadows the parent and removes pending sets",
			parent:   []string{"1/f", "1/e", "1/d"},
			txn:      []string{"1/h", "1/g", "1/f"},
			deleted:  []string{"1/f", "1/d", "1/h"},
			prefix:   "1/",
			expected: []string{"1/e", "1/g"},
		},
		{
			name:     "nil prefix",
			detail:   "everything is iterated",
			parent:   []string{"b"},
			txn:      []string{"c", "a"},
			expected: []string{"a", "b", "c"},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			parent, cleanup := testStore(t)
			defer cleanup()
			txn := NewTxn(parent)
			bulkSetKV(t, parent, "", test.parent...)
			bulkSetKV(t, txn, "", test.txn...)
			for _, d := range test.deleted {
				require.NoError(t, txn.Delete([]byte(d)))
			}
			var prefix []byte
			if test.prefix != "" {
				prefix = []byte(test.prefix)
			}
			// forward
			require.Equal(t, test.expected, collect(t, txn, prefix, false))
			// reverse
			reversed := make([]string, len(test.expected))
			for i, e := range test.expected {
				reversed[len(test.expected)-1-i] = e
			}
			require.Equal(t, reversed, collect(t, txn, prefix, true))
		})
	}
}

func collect(t *testing.T, store lib.RStoreI, prefix []byte, reverse bool) (keys []string) {
	var it lib.IteratorI
	var err lib.ErrorI
	if reverse {
		it, err = store.RevIterator(prefix)
	} else {
		it, err = store.Iterator(prefix)
	}
	require.NoError(t, err)
	defer it.Close()
	keys = []string{}
	for ; it.Valid(); it.Next() {
		require.Equal(t, it.Key(), it.Value())
		keys = append(keys, string(it.Key()))
	}
	return
}
