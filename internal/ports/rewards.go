package ports

import "context"

// RewardGrant is a single currency award for one player.
type RewardGrant struct {
	PlayerID string
	Amount   int64
	Metadata map[string]interface{}
}

// RewardsPort settles raid rewards into player wallets.
type RewardsPort interface {
	// GrantRewards applies all grants. Used once per session, after a
	// victorious raid ends, to pay the survivors.
	GrantRewards(ctx context.Context, grants []RewardGrant) error
}
