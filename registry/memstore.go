package registry

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

type memRecord struct {
	kind    string
	payload []byte
}

// MemStore is an in-memory Store. A single mutex serializes transactions,
// which models the external sequencer: conflicting invocations are totally
// ordered and no reader ever observes a partial commit.
type MemStore struct {
	mu      sync.Mutex
	records map[common.Address]memRecord
}

func NewMemStore() *MemStore {
	return &MemStore{records: make(map[common.Address]memRecord)}
}

func (s *MemStore) Atomic(ctx context.Context, fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memTx{base: s.records, staged: make(map[common.Address]memRecord)}
	if err := fn(tx); err != nil {
		return err
	}
	for addr, rec := range tx.staged {
		s.records[addr] = rec
	}
	return nil
}

func (s *MemStore) Read(ctx context.Context, addr common.Address) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[addr]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), rec.payload...), nil
}

func (s *MemStore) List(ctx context.Context, kind string) ([][]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out [][]byte
	for _, rec := range s.records {
		if rec.kind == kind {
			out = append(out, append([]byte(nil), rec.payload...))
		}
	}
	return out, nil
}

// memTx stages writes in an overlay map and only its Atomic caller folds
// them into the base map, so an aborted transaction leaves no trace.
type memTx struct {
	base   map[common.Address]memRecord
	staged map[common.Address]memRecord
}

func (tx *memTx) get(addr common.Address) (memRecord, bool) {
	if rec, ok := tx.staged[addr]; ok {
		return rec, true
	}
	rec, ok := tx.base[addr]
	return rec, ok
}

func (tx *memTx) Create(ctx context.Context, addr common.Address, schema Schema, payload []byte) error {
	if _, ok := tx.get(addr); ok {
		return ErrAlreadyExists
	}
	if schema.MaxSize > 0 && len(payload) > schema.MaxSize {
		return ErrRecordTooLarge
	}
	tx.staged[addr] = memRecord{kind: schema.Kind, payload: append([]byte(nil), payload...)}
	return nil
}

func (tx *memTx) CreateIfAbsent(ctx context.Context, addr common.Address, schema Schema, payload []byte) ([]byte, bool, error) {
	if rec, ok := tx.get(addr); ok {
		return append([]byte(nil), rec.payload...), false, nil
	}
	if err := tx.Create(ctx, addr, schema, payload); err != nil {
		return nil, false, err
	}
	return append([]byte(nil), payload...), true, nil
}

func (tx *memTx) Read(ctx context.Context, addr common.Address) ([]byte, error) {
	rec, ok := tx.get(addr)
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), rec.payload...), nil
}

func (tx *memTx) Mutate(ctx context.Context, addr common.Address, fn func(payload []byte) ([]byte, error)) error {
	rec, ok := tx.get(addr)
	if !ok {
		return ErrNotFound
	}
	next, err := fn(append([]byte(nil), rec.payload...))
	if err != nil {
		return err
	}
	tx.staged[addr] = memRecord{kind: rec.kind, payload: next}
	return nil
}
