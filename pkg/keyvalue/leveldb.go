package keyvalue

import (
	"os"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
	"go.uber.org/zap"
)

type pair struct {
	key      []byte
	value    []byte
	deletion bool
}

type batch struct {
	pairs []pair
}

func (b *batch) Delete(key []byte) {
	keyCopy := make([]byte, len(key))
	copy(keyCopy, key)
	b.pairs = append(b.pairs, pair{key: keyCopy, deletion: true})
}

func (b *batch) Put(key, val []byte) {
	valCopy := make([]byte, len(val))
	copy(valCopy, val)
	keyCopy := make([]byte, len(key))
	copy(keyCopy, key)
	b.pairs = append(b.pairs, pair{key: keyCopy, value: valCopy, deletion: false})
}

func (b *batch) Len() int {
	return len(b.pairs)
}

func (b *batch) leveldbBatch() *leveldb.Batch {
	leveldbBatch := new(leveldb.Batch)
	for _, pair := range b.pairs {
		if pair.deletion {
			leveldbBatch.Delete(pair.key)
		} else {
			leveldbBatch.Put(pair.key, pair.value)
		}
	}
	return leveldbBatch
}

func (b *batch) Reset() {
	b.pairs = nil
}

// KeyVal is a LevelDB backed storage with an optional bloom filter in front of lookups.
type KeyVal struct {
	db        *leveldb.DB
	filter    *bloomFilter
	writeOpts *opt.WriteOptions
}

func initBloomFilter(kv *KeyVal, params BloomFilterParams) error {
	if params.Disable {
		return nil
	}
	if params.Path != "" {
		filter, err := newBloomFilterFromStore(params)
		if err == nil {
			kv.filter = filter
			return nil
		}
		if !os.IsNotExist(err) {
			zap.S().Warnf("Failed to load bloom filter from %q, rebuilding: %v", params.Path, err)
		}
	}
	filter, err := newBloomFilter(params)
	if err != nil {
		return err
	}
	iter, err := kv.NewKeyIterator(nil)
	if err != nil {
		return err
	}
	for iter.Next() {
		filter.add(iter.Key())
	}
	iter.Release()
	if err := iter.Error(); err != nil {
		return errors.Wrap(err, "failed to iterate keys for bloom filter")
	}
	kv.filter = filter
	return nil
}

// NewKeyVal opens or creates the database at path.
func NewKeyVal(path string, params BloomFilterParams, sync bool) (*KeyVal, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database at %q", path)
	}
	return newKeyVal(db, params, sync)
}

// NewMemKeyVal creates a database that lives in memory only.
func NewMemKeyVal(params BloomFilterParams) (*KeyVal, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open in-memory database")
	}
	params.Path = ""
	return newKeyVal(db, params, false)
}

func newKeyVal(db *leveldb.DB, params BloomFilterParams, sync bool) (*KeyVal, error) {
	kv := &KeyVal{db: db, writeOpts: &opt.WriteOptions{Sync: sync}}
	if err := initBloomFilter(kv, params); err != nil {
		_ = db.Close()
		return nil, err
	}
	return kv, nil
}

func (k *KeyVal) NewBatch() (Batch, error) {
	return &batch{}, nil
}

func (k *KeyVal) Get(key []byte) ([]byte, error) {
	if k.filter != nil && k.filter.notInTheSet(key) {
		return nil, ErrNotFound
	}
	val, err := k.db.Get(key, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return val, ErrNotFound
	}
	return val, err
}

func (k *KeyVal) Has(key []byte) (bool, error) {
	if k.filter != nil && k.filter.notInTheSet(key) {
		return false, nil
	}
	return k.db.Has(key, nil)
}

func (k *KeyVal) Delete(key []byte) error {
	return k.db.Delete(key, k.writeOpts)
}

func (k *KeyVal) Put(key, val []byte) error {
	if k.filter != nil {
		k.filter.add(key)
	}
	return k.db.Put(key, val, k.writeOpts)
}

// Flush atomically writes the batch and resets it.
func (k *KeyVal) Flush(b1 Batch) error {
	b, ok := b1.(*batch)
	if !ok {
		return errors.New("can't convert batch interface to leveldb's batch")
	}
	if k.filter != nil {
		for _, p := range b.pairs {
			if !p.deletion {
				k.filter.add(p.key)
			}
		}
	}
	if err := k.db.Write(b.leveldbBatch(), k.writeOpts); err != nil {
		return err
	}
	b.Reset()
	return nil
}

func (k *KeyVal) NewKeyIterator(prefix []byte) (Iterator, error) {
	if prefix != nil {
		return k.db.NewIterator(util.BytesPrefix(prefix), nil), nil
	}
	return k.db.NewIterator(nil, nil), nil
}

func (k *KeyVal) Close() error {
	if k.filter != nil && k.filter.params.Path != "" {
		if err := storeBloomFilter(k.filter); err != nil {
			zap.S().Warnf("Failed to store bloom filter to %q: %v", k.filter.params.Path, err)
		}
	}
	return k.db.Close()
}
