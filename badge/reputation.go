package badge

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"

	"pop-backend/models"
	"pop-backend/registry"
)

// UpdateReputation adds bonus to a profile's reputation score. The caller
// must be a configured admin, or the organizer of the event named in
// eventAddr; any other signer fails ErrUnauthorized. Scores only ever go
// up — there is no penalty path.
func (s *Service) UpdateReputation(ctx context.Context, caller, user common.Address, eventAddr *common.Address, bonus uint32) (*models.UserProfile, error) {
	if !s.admins[caller] {
		if eventAddr == nil {
			return nil, errors.Wrapf(ErrUnauthorized, "caller %s is not a reputation admin", caller.Hex())
		}
		event, err := s.GetEvent(ctx, *eventAddr)
		if err != nil {
			return nil, err
		}
		if event.Organizer != caller {
			return nil, errors.Wrapf(ErrUnauthorized, "caller %s is not the organizer of %s", caller.Hex(), event.EventID)
		}
	}

	profileAddr, _ := registry.DeriveProfile(user)
	var profile models.UserProfile
	err := s.store.Atomic(ctx, func(tx registry.Tx) error {
		return tx.Mutate(ctx, profileAddr, func(payload []byte) ([]byte, error) {
			if err := json.Unmarshal(payload, &profile); err != nil {
				return nil, errors.Wrap(err, "decode profile record")
			}
			profile.ReputationScore += bonus
			return json.Marshal(profile)
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Infow("reputation awarded", "user", user.Hex(), "bonus", bonus, "score", profile.ReputationScore)
	return &profile, nil
}

// GetProfile loads a user's profile by wallet address.
func (s *Service) GetProfile(ctx context.Context, user common.Address) (*models.UserProfile, error) {
	profileAddr, _ := registry.DeriveProfile(user)
	payload, err := s.store.Read(ctx, profileAddr)
	if err != nil {
		return nil, err
	}
	var profile models.UserProfile
	if err := json.Unmarshal(payload, &profile); err != nil {
		return nil, errors.Wrap(err, "decode profile record")
	}
	return &profile, nil
}

// Leaderboard returns up to limit profiles ranked by reputation score.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	payloads, err := s.store.List(ctx, registry.KindProfile)
	if err != nil {
		return nil, err
	}

	profiles := make([]models.UserProfile, 0, len(payloads))
	for _, payload := range payloads {
		var profile models.UserProfile
		if err := json.Unmarshal(payload, &profile); err != nil {
			return nil, errors.Wrap(err, "decode profile record")
		}
		profiles = append(profiles, profile)
	}
	sort.Slice(profiles, func(i, j int) bool {
		if profiles[i].ReputationScore != profiles[j].ReputationScore {
			return profiles[i].ReputationScore > profiles[j].ReputationScore
		}
		return profiles[i].User.Hex() < profiles[j].User.Hex()
	})

	if limit > 0 && len(profiles) > limit {
		profiles = profiles[:limit]
	}
	entries := make([]models.LeaderboardEntry, len(profiles))
	for i, p := range profiles {
		entries[i] = models.LeaderboardEntry{Rank: i + 1, UserProfile: p}
	}
	return entries, nil
}
