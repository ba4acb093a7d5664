package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"

	"pop-backend/models"
)

const qrExpiry = 24 * time.Hour

var (
	ErrQRInvalid = errors.New("invalid qr signature")
	ErrQRExpired = errors.New("qr payload expired")
)

// QRSigner issues and verifies the signed check-in payloads organizers
// display at the door. The signature covers event address, organizer,
// timestamp and nonce, so a payload can neither be forged nor reused for a
// different event.
type QRSigner struct {
	secret []byte
}

func NewQRSigner(secret string) *QRSigner {
	return &QRSigner{secret: []byte(secret)}
}

func (s *QRSigner) Sign(eventAddr, organizer common.Address) models.QRPayload {
	p := models.QRPayload{
		EventAddress: eventAddr.Hex(),
		Organizer:    organizer.Hex(),
		Timestamp:    time.Now().UnixMilli(),
		Nonce:        uuid.NewString(),
	}
	p.Signature = s.signature(p)
	return p
}

func (s *QRSigner) Verify(p models.QRPayload) error {
	expected := s.signature(p)
	if !hmac.Equal([]byte(p.Signature), []byte(expected)) {
		return ErrQRInvalid
	}
	if time.Since(time.UnixMilli(p.Timestamp)) > qrExpiry {
		return ErrQRExpired
	}
	return nil
}

func (s *QRSigner) signature(p models.QRPayload) string {
	payload := fmt.Sprintf("%s:%s:%d:%s", p.EventAddress, p.Organizer, p.Timestamp, p.Nonce)
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
