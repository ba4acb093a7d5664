// Package registry persists fixed-schema records at deterministically
// derived addresses. A record is created exactly once; after that it can
// only be read or mutated in place, and every mutation happens inside an
// atomic transaction so multi-record updates commit together or not at all.
package registry

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrAlreadyExists is returned by Create when the address already
	// holds a record.
	ErrAlreadyExists = errors.New("record already exists")
	// ErrNotFound is returned by Read and Mutate when no record exists
	// at the address.
	ErrNotFound = errors.New("record not found")
	// ErrRecordTooLarge is returned by Create when the payload exceeds
	// the schema's declared maximum. Size is enforced at creation, not
	// at mutation: the schema reserves the record's maximum footprint
	// up front.
	ErrRecordTooLarge = errors.New("record exceeds schema size")
)

// Schema declares a record's kind and reserved byte footprint.
type Schema struct {
	Kind    string
	MaxSize int
}

// Tx is one atomic unit of record work. Every operation sees the writes of
// earlier operations in the same transaction; nothing is visible outside
// the transaction until it commits.
type Tx interface {
	// Create materializes a record at addr, failing with ErrAlreadyExists
	// if one is present and ErrRecordTooLarge if payload exceeds the
	// schema maximum.
	Create(ctx context.Context, addr common.Address, schema Schema, payload []byte) error
	// CreateIfAbsent returns the existing payload if a record is present,
	// otherwise creates one with the default payload. The bool reports
	// whether a create happened.
	CreateIfAbsent(ctx context.Context, addr common.Address, schema Schema, payload []byte) ([]byte, bool, error)
	// Read returns the record payload at addr, or ErrNotFound.
	Read(ctx context.Context, addr common.Address) ([]byte, error)
	// Mutate loads the record at addr, applies fn, and writes the result
	// back. Fails with ErrNotFound if absent. The record is exclusively
	// held for the rest of the transaction.
	Mutate(ctx context.Context, addr common.Address, fn func(payload []byte) ([]byte, error)) error
}

// Store is the record persistence boundary.
type Store interface {
	// Atomic runs fn inside a transaction. If fn returns an error the
	// transaction aborts with zero record effects and the error is
	// returned unchanged.
	Atomic(ctx context.Context, fn func(tx Tx) error) error
	// Read is a single-record read outside any transaction.
	Read(ctx context.Context, addr common.Address) ([]byte, error)
	// List returns the payloads of every record of the given kind.
	List(ctx context.Context, kind string) ([][]byte, error)
}
