package db

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"sync"

	"github.com/google/orderedcode"
	dbm "github.com/tendermint/tm-db"

	"github.com/tendermint/light-verifier/light/store"
	"github.com/tendermint/light-verifier/types"
)

const (
	prefixLightBlock = int64(11)
	prefixSize       = int64(12)
)

type dbs struct {
	db     dbm.DB
	prefix string

	mtx  sync.RWMutex
	size uint16
}

// New returns a Store that wraps any DB (with an optional prefix in case you
// want to use one DB with many light clients).
//
// Light blocks are stored as JSON under orderedcode keys, so iteration
// follows height order.
func New(db dbm.DB, prefix string) store.Store {
	s := &dbs{db: db, prefix: prefix}

	bz, err := db.Get(s.sizeKey())
	if err == nil && len(bz) == 2 {
		s.size = unmarshalSize(bz)
	}

	return s
}

// SaveLightBlock persists LightBlock to the db.
//
// Safe for concurrent use by multiple goroutines.
func (s *dbs) SaveLightBlock(lb *types.LightBlock) error {
	if lb == nil || lb.SignedHeader == nil || lb.Header == nil {
		return fmt.Errorf("saving light block: missing header")
	}
	if lb.Height <= 0 {
		return store.ErrInvalidHeight
	}

	lbBz, err := json.Marshal(lb)
	if err != nil {
		return fmt.Errorf("marshaling LightBlock: %w", err)
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	key := s.lbKey(lb.Height)
	exists, err := s.db.Has(key)
	if err != nil {
		return err
	}
	size := s.size
	if !exists {
		size++
	}

	b := s.db.NewBatch()
	defer b.Close()
	if err = b.Set(key, lbBz); err != nil {
		return err
	}
	if err = b.Set(s.sizeKey(), marshalSize(size)); err != nil {
		return err
	}
	if err = b.WriteSync(); err != nil {
		return err
	}
	s.size = size

	return nil
}

// DeleteLightBlock deletes the LightBlock from the db.
//
// Safe for concurrent use by multiple goroutines.
func (s *dbs) DeleteLightBlock(height int64) error {
	if height <= 0 {
		return store.ErrInvalidHeight
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	key := s.lbKey(height)
	exists, err := s.db.Has(key)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	b := s.db.NewBatch()
	defer b.Close()
	if err = b.Delete(key); err != nil {
		return err
	}
	if err = b.Set(s.sizeKey(), marshalSize(s.size-1)); err != nil {
		return err
	}
	if err = b.WriteSync(); err != nil {
		return err
	}
	s.size--

	return nil
}

// LightBlock retrieves the LightBlock at the given height.
//
// Safe for concurrent use by multiple goroutines.
func (s *dbs) LightBlock(height int64) (*types.LightBlock, error) {
	if height <= 0 {
		return nil, store.ErrInvalidHeight
	}

	bz, err := s.db.Get(s.lbKey(height))
	if err != nil {
		return nil, err
	}
	if len(bz) == 0 {
		return nil, store.ErrLightBlockNotFound
	}

	return decodeLightBlock(bz)
}

// LastLightBlockHeight returns the last LightBlock height stored.
//
// Safe for concurrent use by multiple goroutines.
func (s *dbs) LastLightBlockHeight() (int64, error) {
	itr, err := s.db.ReverseIterator(s.lbKey(1), s.lbKeyEnd())
	if err != nil {
		return -1, err
	}
	defer itr.Close()

	for ; itr.Valid(); itr.Next() {
		if height, ok := s.parseLbKey(itr.Key()); ok {
			return height, nil
		}
	}

	return -1, itr.Error()
}

// FirstLightBlockHeight returns the first LightBlock height stored.
//
// Safe for concurrent use by multiple goroutines.
func (s *dbs) FirstLightBlockHeight() (int64, error) {
	itr, err := s.db.Iterator(s.lbKey(1), s.lbKeyEnd())
	if err != nil {
		return -1, err
	}
	defer itr.Close()

	for ; itr.Valid(); itr.Next() {
		if height, ok := s.parseLbKey(itr.Key()); ok {
			return height, nil
		}
	}

	return -1, itr.Error()
}

// LightBlockBefore iterates over light blocks until it finds a block before
// the given height. It returns ErrLightBlockNotFound if no such block exists.
//
// Safe for concurrent use by multiple goroutines.
func (s *dbs) LightBlockBefore(height int64) (*types.LightBlock, error) {
	if height <= 0 {
		return nil, store.ErrInvalidHeight
	}

	itr, err := s.db.ReverseIterator(s.lbKey(1), s.lbKey(height))
	if err != nil {
		return nil, err
	}
	defer itr.Close()

	for ; itr.Valid(); itr.Next() {
		if _, ok := s.parseLbKey(itr.Key()); ok {
			return decodeLightBlock(itr.Value())
		}
	}
	if err := itr.Error(); err != nil {
		return nil, err
	}

	return nil, store.ErrLightBlockNotFound
}

// Prune prunes header & validator set pairs until there are only size pairs
// left.
//
// Safe for concurrent use by multiple goroutines.
func (s *dbs) Prune(size uint16) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	// 1) Check how many we need to prune.
	if s.size <= size { // nothing to prune
		return nil
	}
	numToPrune := s.size - size

	// 2) Iterate over headers and perform a batch operation.
	itr, err := s.db.Iterator(s.lbKey(1), s.lbKeyEnd())
	if err != nil {
		return err
	}

	b := s.db.NewBatch()
	defer b.Close()

	pruned := uint16(0)
	for ; itr.Valid() && numToPrune > 0; itr.Next() {
		if height, ok := s.parseLbKey(itr.Key()); ok {
			if err = b.Delete(s.lbKey(height)); err != nil {
				itr.Close()
				return err
			}
			numToPrune--
			pruned++
		}
	}
	if err = itr.Error(); err != nil {
		itr.Close()
		return err
	}
	if err = itr.Close(); err != nil {
		return err
	}

	// 3) Update size.
	if err = b.Set(s.sizeKey(), marshalSize(s.size-pruned)); err != nil {
		return err
	}
	if err = b.WriteSync(); err != nil {
		return fmt.Errorf("failed to prune: %w", err)
	}
	s.size -= pruned

	return nil
}

// Size returns the number of header & validator set pairs.
//
// Safe for concurrent use by multiple goroutines.
func (s *dbs) Size() uint16 {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.size
}

func (s *dbs) sizeKey() []byte {
	key, err := orderedcode.Append(nil, s.prefix, prefixSize)
	if err != nil {
		panic(err)
	}
	return key
}

func (s *dbs) lbKey(height int64) []byte {
	key, err := orderedcode.Append(nil, s.prefix, prefixLightBlock, height)
	if err != nil {
		panic(err)
	}
	return key
}

// lbKeyEnd is an exclusive upper bound past every light block key.
func (s *dbs) lbKeyEnd() []byte {
	return append(s.lbKey(math.MaxInt64), 0x00)
}

func (s *dbs) parseLbKey(key []byte) (int64, bool) {
	var (
		prefix string
		part   int64
		height int64
	)
	remaining, err := orderedcode.Parse(string(key), &prefix, &part, &height)
	if err != nil || len(remaining) != 0 {
		return 0, false
	}
	if prefix != s.prefix || part != prefixLightBlock {
		return 0, false
	}
	return height, true
}

func decodeLightBlock(bz []byte) (*types.LightBlock, error) {
	lb := new(types.LightBlock)
	if err := json.Unmarshal(bz, lb); err != nil {
		return nil, fmt.Errorf("unmarshal error: %w", err)
	}
	return lb, nil
}

func marshalSize(size uint16) []byte {
	bs := make([]byte, 2)
	binary.LittleEndian.PutUint16(bs, size)
	return bs
}

func unmarshalSize(bz []byte) uint16 {
	return binary.LittleEndian.Uint16(bz)
}
