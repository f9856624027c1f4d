package keyvalue

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKeyValOperations(t *testing.T, kv *KeyVal) {
	// Test direct DB operations.
	key0 := []byte("sampleKey0")
	val0 := []byte("sampleValue0")
	err := kv.Put(key0, val0)
	assert.NoError(t, err, "Put() failed")
	receivedVal, err := kv.Get(key0)
	assert.NoError(t, err, "Get() failed")
	assert.Equal(t, val0, receivedVal, "saved and retrieved values for same key differ")
	has, err := kv.Has(key0)
	assert.NoError(t, err, "Has() failed")
	assert.Equal(t, has, true, "Has() returned false for value that was saved before")
	err = kv.Delete(key0)
	assert.NoError(t, err, "Delete() failed")
	has, err = kv.Has(key0)
	assert.NoError(t, err, "Has() failed")
	assert.Equal(t, has, false, "Has() returned true for deleted value")
	_, err = kv.Get(key0)
	assert.ErrorIs(t, err, ErrNotFound)
	// Test batch operations.
	key1 := []byte("sampleKey1")
	val1 := []byte("sampleValue1")
	batch, err := kv.NewBatch()
	assert.NoError(t, err, "NewBatch() failed")
	batch.Put(key0, val0)
	batch.Put(key1, val1)
	batch.Delete(key0)
	assert.Equal(t, 3, batch.Len())
	err = kv.Flush(batch)
	assert.NoError(t, err, "Flush() failed")
	assert.Equal(t, 0, batch.Len())
	receivedVal, err = kv.Get(key1)
	assert.NoError(t, err, "Get() failed")
	assert.Equal(t, val1, receivedVal, "saved and retrieved values for same key differ")
	has, err = kv.Has(key0)
	assert.NoError(t, err, "Has() failed")
	assert.Equal(t, has, false, "Has() returned false for value that was deleted from batch")
	// Test iterator.
	iter, err := kv.NewKeyIterator([]byte("sample"))
	assert.NoError(t, err, "NewKeyIterator() failed")
	count := 0
	for iter.Next() {
		key := SafeKey(iter)
		val := SafeValue(iter)
		receivedVal, err = kv.Get(key)
		assert.NoError(t, err, "Get() failed")
		assert.Equal(t, val, receivedVal, "Invalid value in iterator")
		count++
	}
	iter.Release()
	assert.NoError(t, iter.Error(), "iterator error")
	assert.Equal(t, 1, count)
}

func TestKeyVal(t *testing.T) {
	dbDir := t.TempDir()
	params := BloomFilterParams{N: n, FalsePositiveProbability: falsePositiveProbability}
	kv, err := NewKeyVal(dbDir, params, false)
	require.NoError(t, err, "NewKeyVal() failed")
	defer func() {
		assert.NoError(t, kv.Close(), "Close() failed")
	}()
	testKeyValOperations(t, kv)
}

func TestMemKeyVal(t *testing.T) {
	kv, err := NewMemKeyVal(BloomFilterParams{N: n, FalsePositiveProbability: falsePositiveProbability})
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, kv.Close())
	}()
	testKeyValOperations(t, kv)
}

func TestMemKeyValWithoutFilter(t *testing.T) {
	kv, err := NewMemKeyVal(BloomFilterParams{Disable: true})
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, kv.Close())
	}()
	testKeyValOperations(t, kv)
}

func TestKeyValReopenKeepsFilter(t *testing.T) {
	dir := t.TempDir()
	params := BloomFilterParams{
		N:                        n,
		FalsePositiveProbability: falsePositiveProbability,
		Path:                     filepath.Join(dir, "bloom"),
	}
	kv, err := NewKeyVal(filepath.Join(dir, "db"), params, true)
	require.NoError(t, err)
	require.NoError(t, kv.Put([]byte("k"), []byte("v")))
	require.NoError(t, kv.Close())

	kv, err = NewKeyVal(filepath.Join(dir, "db"), params, true)
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, kv.Close())
	}()
	v, err := kv.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)
}
