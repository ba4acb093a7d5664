// Package badge holds the state-transition core: event lifecycle, the
// attendance mint orchestrator, and reputation awards, all expressed as
// atomic transactions against the record registry.
package badge

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"pop-backend/models"
	"pop-backend/registry"
)

// Service owns every record transition. One external invocation maps to
// one Atomic call on the store, so each operation fully commits or has
// zero effect.
type Service struct {
	store  registry.Store
	issuer Issuer
	admins map[common.Address]bool
	log    *zap.SugaredLogger
}

func NewService(store registry.Store, issuer Issuer, admins []common.Address, log *zap.SugaredLogger) *Service {
	adminSet := make(map[common.Address]bool, len(admins))
	for _, a := range admins {
		adminSet[a] = true
	}
	return &Service{store: store, issuer: issuer, admins: adminSet, log: log}
}

// CreateEvent derives the event address from (organizer, event_id) and
// creates the record exactly once. A second create for the same pair fails
// with registry.ErrAlreadyExists and leaves the first record untouched.
func (s *Service) CreateEvent(ctx context.Context, req models.CreateEventRequest) (*models.EventDetail, error) {
	organizer := common.HexToAddress(req.OrganizerAddress)
	addr, proof := registry.DeriveEvent(organizer, req.EventID)

	event := models.Event{
		Organizer:       organizer,
		EventID:         req.EventID,
		EventName:       req.EventName,
		EventDate:       req.EventDate,
		MaxAttendees:    req.MaxAttendees,
		MetadataURI:     req.MetadataURI,
		IsActive:        true,
		DerivationProof: proof,
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return nil, errors.Wrap(err, "encode event record")
	}

	err = s.store.Atomic(ctx, func(tx registry.Tx) error {
		return tx.Create(ctx, addr, models.EventSchema, payload)
	})
	if err != nil {
		return nil, err
	}

	s.log.Infow("event created",
		"address", addr.Hex(),
		"event_id", event.EventID,
		"organizer", organizer.Hex(),
		"max_attendees", event.MaxAttendees,
	)
	return &models.EventDetail{Address: addr.Hex(), Event: event}, nil
}

// CloseEvent sets is_active to false. Only the organizer may close, and
// the transition is one-way: a closed event never reopens. Closing an
// already-closed event is a no-op success.
func (s *Service) CloseEvent(ctx context.Context, caller, eventAddr common.Address) (*models.Event, error) {
	var event models.Event
	err := s.store.Atomic(ctx, func(tx registry.Tx) error {
		return tx.Mutate(ctx, eventAddr, func(payload []byte) ([]byte, error) {
			if err := json.Unmarshal(payload, &event); err != nil {
				return nil, errors.Wrap(err, "decode event record")
			}
			if event.Organizer != caller {
				return nil, errors.Wrapf(ErrUnauthorized, "caller %s is not the organizer", caller.Hex())
			}
			event.IsActive = false
			return json.Marshal(event)
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Infow("event closed", "address", eventAddr.Hex(), "event_id", event.EventID)
	return &event, nil
}

// GetEvent loads an event by derived address.
func (s *Service) GetEvent(ctx context.Context, eventAddr common.Address) (*models.Event, error) {
	payload, err := s.store.Read(ctx, eventAddr)
	if err != nil {
		return nil, err
	}
	var event models.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, errors.Wrap(err, "decode event record")
	}
	return &event, nil
}

// ListEvents returns every event with its derived address, newest event
// date first.
func (s *Service) ListEvents(ctx context.Context) ([]models.EventDetail, error) {
	payloads, err := s.store.List(ctx, registry.KindEvent)
	if err != nil {
		return nil, err
	}

	events := make([]models.EventDetail, 0, len(payloads))
	for _, payload := range payloads {
		var event models.Event
		if err := json.Unmarshal(payload, &event); err != nil {
			return nil, errors.Wrap(err, "decode event record")
		}
		addr, _ := registry.DeriveEvent(event.Organizer, event.EventID)
		events = append(events, models.EventDetail{Address: addr.Hex(), Event: event})
	}
	sort.Slice(events, func(i, j int) bool { return events[i].EventDate > events[j].EventDate })
	return events, nil
}
