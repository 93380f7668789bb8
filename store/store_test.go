package store

import (
	"fmt"
	"testing"

	"github.com/canopy-network/fundpolls/lib"
	"github.com/stretchr/testify/require"
)

func TestStoreSetGetDelete(t *testing.T) {
	store, cleanup := testStore(t)
	defer cleanup()
	key, val := []byte("key"), []byte("val")
	require.NoError(t, store.Set(key, val))
	gotVal, err := store.Get(key)
	require.NoError(t, err)
	require.Equal(t, val, gotVal, fmt.Sprintf("wanted %s got %s", string(val), string(gotVal)))
	require.NoError(t, store.Delete(key))
	gotVal, err = store.Get(key)
	require.NoError(t, err)
	require.Nil(t, gotVal)
}

func TestStoreCommitAndDiscard(t *testing.T) {
	store, cleanup := testStore(t)
	defer cleanup()
	require.Zero(t, store.Version())
	require.NoError(t, store.Set([]byte("a"), []byte("a")))
	require.NoError(t, store.Commit())
	require.EqualValues(t, 1, store.Version())
	// an uncommitted write is dropped by discard
	require.NoError(t, store.Set([]byte("b"), []byte("b")))
	store.Discard()
	got, err := store.Get([]byte("b"))
	require.NoError(t, err)
	require.Nil(t, got)
	// the committed write survives
	got, err = store.Get([]byte("a"))
	require.NoError(t, err)
	require.Equal(t, []byte("a"), got)
}

func TestStoreReopen(t *testing.T) {
	path := t.TempDir()
	store, err := NewStore(path, lib.NewNullLogger())
	require.NoError(t, err)
	require.NoError(t, store.Set([]byte("a"), []byte("a")))
	require.NoError(t, store.Commit())
	require.NoError(t, store.Commit())
	require.NoError(t, store.Close())
	// the version and the data persist
	store, err = NewStore(path, lib.NewNullLogger())
	require.NoError(t, err)
	defer store.Close()
	require.EqualValues(t, 2, store.Version())
	got, err := store.Get([]byte("a"))
	require.NoError(t, err)
	require.Equal(t, []byte("a"), got)
}

func TestIteratorCommitBasic(t *testing.T) {
	parent, cleanup := testStore(t)
	defer cleanup()
	prefix := "a/"
	expectedVals := []string{prefix + "a", prefix + "b", prefix + "c", prefix + "d", prefix + "e", prefix + "f", prefix + "g", prefix + "i", prefix + "j"}
	expectedValsReverse := []string{prefix + "j", prefix + "i", prefix + "g", prefix + "f", prefix + "e", prefix + "d", prefix + "c", prefix + "b", prefix + "a"}
	bulkSetKV(t, parent, prefix, "a", "c", "e", "g")
	require.NoError(t, parent.Commit())
	bulkSetKV(t, parent, prefix, "b", "d", "f", "i", "j")
	// a key outside the prefix is never returned
	bulkSetKV(t, parent, "b/", "a")
	it, err := parent.Iterator([]byte(prefix))
	require.NoError(t, err)
	for i := 0; it.Valid(); it.Next() {
		require.Equal(t, expectedVals[i], string(it.Key()))
		require.Equal(t, expectedVals[i], string(it.Value()))
		i++
	}
	it.Close()
	rIt, err := parent.RevIterator([]byte(prefix))
	require.NoError(t, err)
	count := 0
	for ; rIt.Valid(); rIt.Next() {
		require.Equal(t, expectedValsReverse[count], string(rIt.Key()))
		count++
	}
	rIt.Close()
	require.Equal(t, len(expectedValsReverse), count)
}

func testStore(t *testing.T) (*Store, func()) {
	s, err := NewStoreInMemory(lib.NewNullLogger())
	require.NoError(t, err)
	store := s.(*Store)
	return store, func() { store.Close() }
}

func bulkSetKV(t *testing.T, store lib.WStoreI, prefix string, keyValue ...string) {
	for _, kv := range keyValue {
		require.NoError(t, store.Set([]byte(prefix+kv), []byte(prefix+kv)))
	}
}
