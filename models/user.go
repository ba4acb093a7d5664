package models

import (
	"github.com/ethereum/go-ethereum/common"

	"pop-backend/registry"
)

const (
	// MaxAttendedEvents caps the attended_events history. A mint that
	// would push past the cap fails the whole transaction rather than
	// silently dropping the entry.
	MaxAttendedEvents = 50
	// BaseReputationAward is the reputation granted per badge mint.
	BaseReputationAward = 10
)

// ProfileSchema reserves the UserProfile footprint: counters plus a full
// 50-entry hex address history.
var ProfileSchema = registry.Schema{Kind: registry.KindProfile, MaxSize: 4096}

// UserProfile is the per-attendee record, created lazily on first badge
// mint. Counters are monotonically non-decreasing and the event history is
// append-only.
type UserProfile struct {
	User            common.Address   `json:"user"`
	TotalBadges     uint32           `json:"total_badges"`
	ReputationScore uint32           `json:"reputation_score"`
	AttendedEvents  []common.Address `json:"attended_events"`
}

// LeaderboardEntry is a profile with its rank by reputation.
type LeaderboardEntry struct {
	Rank int `json:"rank"`
	UserProfile
}

type UpdateReputationRequest struct {
	CallerAddress string `json:"caller_address" binding:"required"`
	UserWallet    string `json:"user_wallet" binding:"required"`
	// EventAddress lets an event organizer award bonuses for their own
	// event; admins may leave it empty.
	EventAddress string `json:"event_address"`
	Bonus        uint32 `json:"bonus" binding:"required"`
}
