package badge

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"

	"pop-backend/models"
	"pop-backend/registry"
)

// MintResult reports the committed effects of one badge mint.
type MintResult struct {
	EventAddress string             `json:"event_address"`
	CredentialID string             `json:"credential_id"`
	Attendance   models.Attendance  `json:"attendance"`
	Profile      models.UserProfile `json:"profile"`
}

// MintBadge runs the attendance transaction: validate the event, assert
// the event record's delegated minting authority, issue one credential to
// the attendee, then record occupancy, the attendance marker, and the
// profile update. All record writes commit together; any failure aborts
// with zero record effect.
func (s *Service) MintBadge(ctx context.Context, eventAddr, attendee common.Address) (*MintResult, error) {
	var result MintResult
	err := s.store.Atomic(ctx, func(tx registry.Tx) error {
		// Validating
		payload, err := tx.Read(ctx, eventAddr)
		if err != nil {
			return err
		}
		var event models.Event
		if err := json.Unmarshal(payload, &event); err != nil {
			return errors.Wrap(err, "decode event record")
		}
		if !event.IsActive {
			return errors.Wrapf(ErrEventInactive, "event %s", event.EventID)
		}
		if event.CurrentAttendees >= event.MaxAttendees {
			return errors.Wrapf(ErrEventFull, "event %s at %d attendees", event.EventID, event.MaxAttendees)
		}

		markerAddr, _ := registry.DeriveAttendance(eventAddr, attendee)
		if _, err := tx.Read(ctx, markerAddr); err == nil {
			return errors.Wrapf(ErrAlreadyAttended, "event %s attendee %s", event.EventID, attendee.Hex())
		} else if !errors.Is(err, registry.ErrNotFound) {
			return err
		}

		// Authorizing: the event record itself is the minting authority,
		// proven by its derivation proof. The capability never leaves
		// this call.
		auth := Authority{Record: eventAddr, Proof: event.DerivationProof}

		// Issuing
		credentialID, err := s.issuer.Mint(ctx, auth, attendee)
		if err != nil {
			return errors.Wrap(errors.WithSecondaryError(ErrIssuanceFailed, err), "mint credential")
		}

		// Recording
		attendance := models.Attendance{
			EventAddress: eventAddr,
			Attendee:     attendee,
			CredentialID: credentialID,
			MintedAt:     time.Now().Unix(),
		}
		markerPayload, err := json.Marshal(attendance)
		if err != nil {
			return errors.Wrap(err, "encode attendance record")
		}
		if err := tx.Create(ctx, markerAddr, models.AttendanceSchema, markerPayload); err != nil {
			if errors.Is(err, registry.ErrAlreadyExists) {
				return errors.Wrapf(ErrAlreadyAttended, "event %s attendee %s", event.EventID, attendee.Hex())
			}
			return err
		}

		err = tx.Mutate(ctx, eventAddr, func(payload []byte) ([]byte, error) {
			var ev models.Event
			if err := json.Unmarshal(payload, &ev); err != nil {
				return nil, errors.Wrap(err, "decode event record")
			}
			// Capacity re-check under the record lock.
			if ev.CurrentAttendees >= ev.MaxAttendees {
				return nil, errors.Wrapf(ErrEventFull, "event %s at %d attendees", ev.EventID, ev.MaxAttendees)
			}
			ev.CurrentAttendees++
			return json.Marshal(ev)
		})
		if err != nil {
			return err
		}

		profileAddr, _ := registry.DeriveProfile(attendee)
		defaultProfile, err := json.Marshal(models.UserProfile{User: attendee})
		if err != nil {
			return errors.Wrap(err, "encode profile record")
		}
		if _, _, err := tx.CreateIfAbsent(ctx, profileAddr, models.ProfileSchema, defaultProfile); err != nil {
			return err
		}

		var profile models.UserProfile
		err = tx.Mutate(ctx, profileAddr, func(payload []byte) ([]byte, error) {
			if err := json.Unmarshal(payload, &profile); err != nil {
				return nil, errors.Wrap(err, "decode profile record")
			}
			if len(profile.AttendedEvents) >= models.MaxAttendedEvents {
				return nil, errors.Wrapf(ErrAttendanceHistoryFull, "attendee %s", attendee.Hex())
			}
			profile.TotalBadges++
			profile.ReputationScore += models.BaseReputationAward
			profile.AttendedEvents = append(profile.AttendedEvents, eventAddr)
			return json.Marshal(profile)
		})
		if err != nil {
			return err
		}

		result = MintResult{
			EventAddress: eventAddr.Hex(),
			CredentialID: credentialID,
			Attendance:   attendance,
			Profile:      profile,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Infow("badge minted",
		"event", result.EventAddress,
		"attendee", attendee.Hex(),
		"credential", result.CredentialID,
		"total_badges", result.Profile.TotalBadges,
	)
	return &result, nil
}
