package models

import (
	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"

	"pop-backend/registry"
)

// Schema byte limits, matching the on-record reservation: oversized fields
// fail at creation, never at mutation.
const (
	EventIDMaxLen     = 32
	EventNameMaxLen   = 100
	MetadataURIMaxLen = 200
)

// EventSchema reserves the Event record footprint: every string field at
// its maximum plus JSON framing.
var EventSchema = registry.Schema{Kind: registry.KindEvent, MaxSize: 1024}

// Event is the record for one (organizer, event_id) pair. Organizer and
// EventID are immutable after creation; they are the derivation inputs of
// the record's address.
type Event struct {
	Organizer        common.Address `json:"organizer"`
	EventID          string         `json:"event_id"`
	EventName        string         `json:"event_name"`
	EventDate        int64          `json:"event_date"`
	MaxAttendees     uint32         `json:"max_attendees"`
	CurrentAttendees uint32         `json:"current_attendees"`
	MetadataURI      string         `json:"metadata_uri"`
	IsActive         bool           `json:"is_active"`
	DerivationProof  registry.Proof `json:"derivation_proof"`
}

// Validate enforces the declared field maxima.
func (e *Event) Validate() error {
	if len(e.EventID) == 0 || len(e.EventID) > EventIDMaxLen {
		return errors.Wrapf(registry.ErrRecordTooLarge, "event_id must be 1-%d bytes", EventIDMaxLen)
	}
	if len(e.EventName) > EventNameMaxLen {
		return errors.Wrapf(registry.ErrRecordTooLarge, "event_name exceeds %d bytes", EventNameMaxLen)
	}
	if len(e.MetadataURI) > MetadataURIMaxLen {
		return errors.Wrapf(registry.ErrRecordTooLarge, "metadata_uri exceeds %d bytes", MetadataURIMaxLen)
	}
	return nil
}

// EventDetail is an Event plus its derived address, for API responses and
// listings.
type EventDetail struct {
	Address string `json:"address"`
	Event
}

type CreateEventRequest struct {
	OrganizerAddress string `json:"organizer_address" binding:"required"`
	EventID          string `json:"event_id" binding:"required"`
	EventName        string `json:"event_name" binding:"required"`
	EventDate        int64  `json:"event_date"`
	MaxAttendees     uint32 `json:"max_attendees" binding:"required"`
	MetadataURI      string `json:"metadata_uri"`
}

type CloseEventRequest struct {
	CallerAddress string `json:"caller_address" binding:"required"`
}
