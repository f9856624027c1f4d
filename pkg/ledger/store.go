package ledger

import (
	"encoding/binary"
	"sync"

	"github.com/coocood/freecache"
	"github.com/im7mortal/kmutex"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/rentflow/rentflow/pkg/crypto"
	"github.com/rentflow/rentflow/pkg/keyvalue"
	"github.com/rentflow/rentflow/pkg/metrics"
	"github.com/rentflow/rentflow/pkg/proto"
)

var (
	ErrAccountExists   = errors.New("account already exists")
	ErrAccountNotFound = errors.New("account not found")
	ErrReadOnly        = errors.New("account handle is read only")
	ErrReleased        = errors.New("account handle is released")
	ErrDataTooLarge    = errors.New("data exceeds allocated account size")
)

const minCacheSize = 512 * 1024

// Handle gives access to one account. Writable handles hold the exclusive lock of the address
// until Release.
type Handle interface {
	Address() proto.Address
	Payer() crypto.PublicKey
	Size() int
	Data() []byte
	// Commit writes data and appends events in one atomic batch.
	Commit(data []byte, events ...[]byte) error
	Release()
}

// Store keeps accounts addressed by derived addresses together with their event logs.
type Store struct {
	program proto.ProgramID
	kv      keyvalue.IterableKeyVal
	locks   *kmutex.Kmutex
	cache   *freecache.Cache
	logger  *zap.Logger
}

// NewStore creates a store on top of kv. The cache size is in bytes, zero disables caching.
func NewStore(program proto.ProgramID, kv keyvalue.IterableKeyVal, cacheSize int, logger *zap.Logger) *Store {
	var cache *freecache.Cache
	if cacheSize > 0 {
		cache = freecache.NewCache(max(cacheSize, minCacheSize))
	}
	return &Store{
		program: program,
		kv:      kv,
		locks:   kmutex.New(),
		cache:   cache,
		logger:  logger,
	}
}

func (s *Store) ProgramID() proto.ProgramID {
	return s.program
}

// DeriveAddress returns the address for seeds under the store's program and its salt.
func (s *Store) DeriveAddress(seeds ...[]byte) (proto.Address, byte, error) {
	return proto.FindDerivedAddress(s.program, seeds...)
}

// Create locks the address and returns a writable handle of a new account. Nothing is stored
// until the handle is committed.
func (s *Store) Create(addr proto.Address, payer crypto.PublicKey, size int) (Handle, error) {
	sz, err := accountSize(size)
	if err != nil {
		return nil, err
	}
	s.locks.Lock(addr)
	exists, err := s.exists(addr)
	if err != nil {
		s.locks.Unlock(addr)
		return nil, err
	}
	if exists {
		s.locks.Unlock(addr)
		return nil, errors.Wrapf(ErrAccountExists, "address %s", addr)
	}
	return &handle{
		store:    s,
		address:  addr,
		account:  Account{Payer: payer, Size: sz},
		writable: true,
	}, nil
}

// LoadMut locks the address and returns a writable handle of an existing account.
func (s *Store) LoadMut(addr proto.Address) (Handle, error) {
	s.locks.Lock(addr)
	acc, err := s.account(addr)
	if err != nil {
		s.locks.Unlock(addr)
		return nil, err
	}
	return &handle{store: s, address: addr, account: *acc, writable: true}, nil
}

// Load returns a read only snapshot of an account.
func (s *Store) Load(addr proto.Address) (Handle, error) {
	acc, err := s.account(addr)
	if err != nil {
		return nil, err
	}
	return &handle{store: s, address: addr, account: *acc, released: true}, nil
}

// Events returns the raw events of the address in append order.
func (s *Store) Events(addr proto.Address) ([][]byte, error) {
	iter, err := s.kv.NewKeyIterator(eventsPrefix(addr))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create events iterator")
	}
	defer iter.Release()
	var res [][]byte
	for iter.Next() {
		res = append(res, keyvalue.SafeValue(iter))
	}
	if err := iter.Error(); err != nil {
		return nil, errors.Wrap(err, "events iterator failed")
	}
	return res, nil
}

// Addresses lists addresses of all stored accounts.
func (s *Store) Addresses() ([]proto.Address, error) {
	iter, err := s.kv.NewKeyIterator([]byte{accountKeyPrefix})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create accounts iterator")
	}
	defer iter.Release()
	var res []proto.Address
	for iter.Next() {
		var k accountKey
		if err := k.fromBytes(iter.Key()); err != nil {
			return nil, err
		}
		res = append(res, k.address)
	}
	if err := iter.Error(); err != nil {
		return nil, errors.Wrap(err, "accounts iterator failed")
	}
	return res, nil
}

func (s *Store) exists(addr proto.Address) (bool, error) {
	key := accountKey{address: addr}.bytes()
	if s.cache != nil {
		if _, err := s.cache.Get(key); err == nil {
			return true, nil
		}
	}
	ok, err := s.kv.Has(key)
	if err != nil {
		return false, errors.Wrapf(err, "failed to check account %s", addr)
	}
	return ok, nil
}

func (s *Store) account(addr proto.Address) (*Account, error) {
	key := accountKey{address: addr}.bytes()
	var raw []byte
	if s.cache != nil {
		if b, err := s.cache.Get(key); err == nil {
			raw = b
		}
	}
	if raw == nil {
		b, err := s.kv.Get(key)
		if err != nil {
			if errors.Is(err, keyvalue.ErrNotFound) {
				return nil, errors.Wrapf(ErrAccountNotFound, "address %s", addr)
			}
			return nil, errors.Wrapf(err, "failed to load account %s", addr)
		}
		raw = b
		s.cacheAccount(key, raw)
	}
	acc := new(Account)
	if err := acc.UnmarshalBinary(raw); err != nil {
		return nil, errors.Wrapf(err, "corrupted account %s", addr)
	}
	return acc, nil
}

func (s *Store) cacheAccount(key, raw []byte) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(key, raw, 0); err != nil {
		s.logger.Debug("Account is not cached", zap.Error(err))
	}
}

func (s *Store) nextEventSeq(addr proto.Address) (uint64, error) {
	b, err := s.kv.Get(eventCounterKey{address: addr}.bytes())
	if err != nil {
		if errors.Is(err, keyvalue.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	if len(b) != 8 {
		return 0, errors.Errorf("invalid event counter of %d bytes", len(b))
	}
	return binary.BigEndian.Uint64(b), nil
}

func (s *Store) commit(h *handle, data []byte, events [][]byte) error {
	if len(data) > int(h.account.Size) {
		return errors.Wrapf(ErrDataTooLarge, "%d bytes into %d", len(data), h.account.Size)
	}
	acc := Account{Payer: h.account.Payer, Size: h.account.Size, Data: data}
	raw, err := acc.MarshalBinary()
	if err != nil {
		return errors.Wrap(err, "failed to marshal account")
	}
	batch, err := s.kv.NewBatch()
	if err != nil {
		return err
	}
	key := accountKey{address: h.address}.bytes()
	batch.Put(key, raw)
	if len(events) > 0 {
		seq, err := s.nextEventSeq(h.address)
		if err != nil {
			return errors.Wrap(err, "failed to read event counter")
		}
		for _, e := range events {
			batch.Put(eventKey{address: h.address, seq: seq}.bytes(), e)
			seq++
		}
		counter := make([]byte, 8)
		binary.BigEndian.PutUint64(counter, seq)
		batch.Put(eventCounterKey{address: h.address}.bytes(), counter)
	}
	if err := s.kv.Flush(batch); err != nil {
		metrics.LedgerCommit(false)
		return errors.Wrapf(err, "failed to commit account %s", h.address)
	}
	metrics.LedgerCommit(true)
	h.account = acc
	s.cacheAccount(key, raw)
	s.logger.Debug("Account committed",
		zap.Stringer("address", h.address), zap.Int("size", len(data)), zap.Int("events", len(events)))
	return nil
}

type handle struct {
	store    *Store
	address  proto.Address
	account  Account
	writable bool
	once     sync.Once
	released bool
}

func (h *handle) Address() proto.Address {
	return h.address
}

func (h *handle) Payer() crypto.PublicKey {
	return h.account.Payer
}

func (h *handle) Size() int {
	return int(h.account.Size)
}

func (h *handle) Data() []byte {
	return h.account.Data
}

func (h *handle) Commit(data []byte, events ...[]byte) error {
	if !h.writable {
		return ErrReadOnly
	}
	if h.released {
		return ErrReleased
	}
	return h.store.commit(h, data, events)
}

func (h *handle) Release() {
	if !h.writable {
		return
	}
	h.once.Do(func() {
		h.released = true
		h.store.locks.Unlock(h.address)
	})
}
