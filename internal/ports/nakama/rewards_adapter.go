package nakama

import (
	"context"
	"fmt"

	"pokeraid/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// NakamaRewardsAdapter implements ports.RewardsPort using Nakama's wallet system.
type NakamaRewardsAdapter struct {
	nk runtime.NakamaModule
}

// NewNakamaRewardsAdapter creates a new rewards adapter.
func NewNakamaRewardsAdapter(nk runtime.NakamaModule) *NakamaRewardsAdapter {
	return &NakamaRewardsAdapter{
		nk: nk,
	}
}

// GrantRewards applies all grants to the players' coin wallets.
func (a *NakamaRewardsAdapter) GrantRewards(ctx context.Context, grants []ports.RewardGrant) error {
	for _, grant := range grants {
		if grant.Amount == 0 {
			continue
		}

		changes := map[string]int64{
			"coins": grant.Amount,
		}

		_, _, err := a.nk.WalletUpdate(ctx, grant.PlayerID, changes, grant.Metadata, true)
		if err != nil {
			return fmt.Errorf("failed to update wallet for player %s: %w", grant.PlayerID, err)
		}
	}
	return nil
}
