package badge

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"pop-backend/registry"
)

// Authority is the delegated-minting capability handed to the issuer. It is
// scoped to one Event record: the record's address plus its derivation
// proof. The event record, not any human principal, is the minting
// authority for its own credential line.
type Authority struct {
	Record common.Address
	Proof  registry.Proof
}

// Issuer mints exactly one unique, zero-decimal credential unit into a
// holding account owned by the recipient. Implementations are external;
// the core only consumes the returned credential identifier.
type Issuer interface {
	Mint(ctx context.Context, auth Authority, owner common.Address) (string, error)
}
