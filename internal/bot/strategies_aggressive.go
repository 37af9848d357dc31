package bot

import (
	"math/rand"

	"pokeraid/internal/domain"
)

// AggressiveStrategy ignores the attack deck and focuses fire: strongest
// non-area attack against the active player whose front Pokémon has the
// least HP remaining.
type AggressiveStrategy struct{}

func (s *AggressiveStrategy) Name() string { return StrategyAggressive }

func (s *AggressiveStrategy) SelectAction(session *domain.RaidSession, rng *rand.Rand) (Intention, error) {
	boss := session.Boss

	attack := boss.Attacks[0]
	for _, a := range boss.Attacks {
		if !a.Area && a.Damage > attack.Damage {
			attack = a
		}
	}

	var target *domain.PlayerState
	for _, pl := range session.ActivePlayers() {
		if target == nil || pl.Active.CurrentHP < target.Active.CurrentHP {
			target = pl
		}
	}

	return Intention{
		Attack:    attack,
		TargetIDs: []string{target.ID},
		Strikes:   boss.AttacksPerTurn,
	}, nil
}
