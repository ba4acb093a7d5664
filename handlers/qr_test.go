package handlers

import (
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	qrEvent     = common.HexToAddress("0x1000000000000000000000000000000000000001")
	qrOrganizer = common.HexToAddress("0x2000000000000000000000000000000000000002")
)

func TestQRSignVerify(t *testing.T) {
	signer := NewQRSigner("test-secret")

	p := signer.Sign(qrEvent, qrOrganizer)
	assert.Equal(t, qrEvent.Hex(), p.EventAddress)
	assert.NotEmpty(t, p.Nonce)
	require.NoError(t, signer.Verify(p))
}

func TestQRVerifyTampered(t *testing.T) {
	signer := NewQRSigner("test-secret")
	p := signer.Sign(qrEvent, qrOrganizer)

	tampered := p
	tampered.EventAddress = common.HexToAddress("0x3").Hex()
	assert.ErrorIs(t, signer.Verify(tampered), ErrQRInvalid)

	tampered = p
	tampered.Signature = strings.Repeat("0", len(p.Signature))
	assert.ErrorIs(t, signer.Verify(tampered), ErrQRInvalid)
}

func TestQRVerifyWrongSecret(t *testing.T) {
	p := NewQRSigner("secret-a").Sign(qrEvent, qrOrganizer)
	assert.ErrorIs(t, NewQRSigner("secret-b").Verify(p), ErrQRInvalid)
}

func TestQRVerifyExpired(t *testing.T) {
	signer := NewQRSigner("test-secret")
	p := signer.Sign(qrEvent, qrOrganizer)

	// Re-sign a payload dated past the expiry window.
	p.Timestamp = time.Now().Add(-25 * time.Hour).UnixMilli()
	p.Signature = signer.signature(p)
	assert.ErrorIs(t, signer.Verify(p), ErrQRExpired)
}
