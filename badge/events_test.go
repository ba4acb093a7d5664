package badge

import (
	"context"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pop-backend/models"
	"pop-backend/registry"
)

func TestCreateEvent(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	detail, err := svc.CreateEvent(ctx, models.CreateEventRequest{
		OrganizerAddress: organizer.Hex(),
		EventID:          "evt1",
		EventName:        "Conf",
		EventDate:        1700000000,
		MaxAttendees:     100,
		MetadataURI:      "ipfs://x",
	})
	require.NoError(t, err)

	assert.Equal(t, organizer, detail.Organizer)
	assert.Equal(t, uint32(0), detail.CurrentAttendees)
	assert.True(t, detail.IsActive)

	wantAddr, wantProof := registry.DeriveEvent(organizer, "evt1")
	assert.Equal(t, wantAddr.Hex(), detail.Address)
	assert.Equal(t, wantProof, detail.DerivationProof)
}

func TestCreateEventDuplicate(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	eventAddr := createTestEvent(t, svc, "evt1", 100)

	_, err := svc.CreateEvent(ctx, models.CreateEventRequest{
		OrganizerAddress: organizer.Hex(),
		EventID:          "evt1",
		EventName:        "Other name",
		MaxAttendees:     5,
	})
	assert.ErrorIs(t, err, registry.ErrAlreadyExists)

	// First record untouched.
	event, err := svc.GetEvent(ctx, eventAddr)
	require.NoError(t, err)
	assert.Equal(t, "Conf", event.EventName)
	assert.Equal(t, uint32(100), event.MaxAttendees)
}

func TestCreateEventSameIDDifferentOrganizer(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	createTestEvent(t, svc, "evt1", 100)

	other := common.HexToAddress("0x2000000000000000000000000000000000000002")
	detail, err := svc.CreateEvent(ctx, models.CreateEventRequest{
		OrganizerAddress: other.Hex(),
		EventID:          "evt1",
		EventName:        "Conf",
		MaxAttendees:     100,
	})
	require.NoError(t, err, "same event id under a different organizer is a distinct record")

	wantAddr, _ := registry.DeriveEvent(organizer, "evt1")
	assert.NotEqual(t, wantAddr.Hex(), detail.Address)
}

func TestCreateEventFieldLimits(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	cases := []struct {
		name string
		req  models.CreateEventRequest
	}{
		{"event id too long", models.CreateEventRequest{
			OrganizerAddress: organizer.Hex(),
			EventID:          strings.Repeat("a", models.EventIDMaxLen+1),
			EventName:        "Conf",
			MaxAttendees:     10,
		}},
		{"event name too long", models.CreateEventRequest{
			OrganizerAddress: organizer.Hex(),
			EventID:          "evt1",
			EventName:        strings.Repeat("a", models.EventNameMaxLen+1),
			MaxAttendees:     10,
		}},
		{"metadata uri too long", models.CreateEventRequest{
			OrganizerAddress: organizer.Hex(),
			EventID:          "evt1",
			EventName:        "Conf",
			MaxAttendees:     10,
			MetadataURI:      strings.Repeat("a", models.MetadataURIMaxLen+1),
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateEvent(ctx, tc.req)
			assert.ErrorIs(t, err, registry.ErrRecordTooLarge)
		})
	}

	// Max-length fields are accepted.
	_, err := svc.CreateEvent(ctx, models.CreateEventRequest{
		OrganizerAddress: organizer.Hex(),
		EventID:          strings.Repeat("a", models.EventIDMaxLen),
		EventName:        strings.Repeat("b", models.EventNameMaxLen),
		MaxAttendees:     10,
		MetadataURI:      strings.Repeat("c", models.MetadataURIMaxLen),
	})
	require.NoError(t, err)
}

func TestCloseEventByOrganizer(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	eventAddr := createTestEvent(t, svc, "evt1", 100)

	event, err := svc.CloseEvent(ctx, organizer, eventAddr)
	require.NoError(t, err)
	assert.False(t, event.IsActive)

	// Closing is permanent: every later mint fails.
	_, err = svc.MintBadge(ctx, eventAddr, walletA)
	assert.ErrorIs(t, err, ErrEventInactive)
}

func TestCloseEventByNonOrganizer(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	eventAddr := createTestEvent(t, svc, "evt1", 100)

	_, err := svc.CloseEvent(ctx, walletA, eventAddr)
	assert.ErrorIs(t, err, ErrUnauthorized)

	event, err := svc.GetEvent(ctx, eventAddr)
	require.NoError(t, err)
	assert.True(t, event.IsActive, "failed close must not flip is_active")
}

func TestCloseEventTwiceIsNoOp(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	eventAddr := createTestEvent(t, svc, "evt1", 100)

	_, err := svc.CloseEvent(ctx, organizer, eventAddr)
	require.NoError(t, err)

	event, err := svc.CloseEvent(ctx, organizer, eventAddr)
	require.NoError(t, err)
	assert.False(t, event.IsActive)
}

func TestCloseEventMissing(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.CloseEvent(context.Background(), organizer, common.HexToAddress("0xdead"))
	assert.ErrorIs(t, err, registry.ErrNotFound)
}

func TestListEvents(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	_, err := svc.CreateEvent(ctx, models.CreateEventRequest{
		OrganizerAddress: organizer.Hex(),
		EventID:          "early",
		EventName:        "Early",
		EventDate:        100,
		MaxAttendees:     10,
	})
	require.NoError(t, err)
	_, err = svc.CreateEvent(ctx, models.CreateEventRequest{
		OrganizerAddress: organizer.Hex(),
		EventID:          "late",
		EventName:        "Late",
		EventDate:        200,
		MaxAttendees:     10,
	})
	require.NoError(t, err)

	events, err := svc.ListEvents(ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "late", events[0].EventID, "newest event date first")

	for _, ev := range events {
		wantAddr, _ := registry.DeriveEvent(ev.Organizer, ev.EventID)
		assert.Equal(t, wantAddr.Hex(), ev.Address)
	}
}
