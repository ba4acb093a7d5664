package models

import (
	"github.com/ethereum/go-ethereum/common"

	"pop-backend/registry"
)

// AttendanceSchema reserves the per-(event, attendee) marker footprint.
var AttendanceSchema = registry.Schema{Kind: registry.KindAttendance, MaxSize: 512}

// Attendance is the marker record created on first badge mint for an
// (event, attendee) pair. Its create-once semantics are what reject a
// second mint for the same pair.
type Attendance struct {
	EventAddress common.Address `json:"event_address"`
	Attendee     common.Address `json:"attendee"`
	CredentialID string         `json:"credential_id"`
	MintedAt     int64          `json:"minted_at"`
}

// QRPayload is the signed check-in token an organizer hands to attendees.
// The signature covers event address, organizer, timestamp and nonce.
type QRPayload struct {
	EventAddress string `json:"event_address"`
	Organizer    string `json:"organizer"`
	Timestamp    int64  `json:"timestamp"`
	Nonce        string `json:"nonce"`
	Signature    string `json:"signature"`
}

type MintBadgeRequest struct {
	EventAddress   string    `json:"event_address" binding:"required"`
	AttendeeWallet string    `json:"attendee_wallet" binding:"required"`
	QR             QRPayload `json:"qr" binding:"required"`
}
