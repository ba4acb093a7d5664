package registry

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Record kinds. The kind participates in derivation, so records of
// different kinds can never collide on an address.
const (
	KindEvent      = "event"
	KindProfile    = "profile"
	KindAttendance = "attendance"
)

// Proof is the derivation proof for an address: reproducible only from the
// same derivation inputs, and used to authorize delegated actions performed
// "as" the record (credential minting). It is not a secret.
type Proof [32]byte

func (p Proof) MarshalText() ([]byte, error) {
	return []byte(hex.EncodeToString(p[:])), nil
}

func (p *Proof) UnmarshalText(text []byte) error {
	raw, err := hex.DecodeString(string(text))
	if err != nil {
		return errors.Wrap(err, "decode derivation proof")
	}
	if len(raw) != len(p) {
		return errors.Newf("derivation proof must be %d bytes, got %d", len(p), len(raw))
	}
	copy(p[:], raw)
	return nil
}

// Derive maps (kind, key fields) to a storage address and its derivation
// proof. Same inputs always produce the same outputs. Fields are
// length-prefixed before hashing so no two input sequences share a preimage.
func Derive(kind string, fields ...[]byte) (common.Address, Proof) {
	buf := make([]byte, 0, 64)
	buf = binary.AppendUvarint(buf, uint64(len(kind)))
	buf = append(buf, kind...)
	for _, f := range fields {
		buf = binary.AppendUvarint(buf, uint64(len(f)))
		buf = append(buf, f...)
	}

	sum := crypto.Keccak256(buf)
	addr := common.BytesToAddress(sum[12:])

	var proof Proof
	copy(proof[:], crypto.Keccak256(sum, []byte("pop-authority")))
	return addr, proof
}

// DeriveEvent derives the address of the Event record for an
// (organizer, event_id) pair.
func DeriveEvent(organizer common.Address, eventID string) (common.Address, Proof) {
	return Derive(KindEvent, []byte(eventID), organizer.Bytes())
}

// DeriveProfile derives the address of a user's UserProfile record.
func DeriveProfile(user common.Address) (common.Address, Proof) {
	return Derive(KindProfile, user.Bytes())
}

// DeriveAttendance derives the address of the per-(event, attendee) marker
// record that makes a second badge mint for the same pair detectable.
func DeriveAttendance(event, attendee common.Address) (common.Address, Proof) {
	return Derive(KindAttendance, event.Bytes(), attendee.Bytes())
}
