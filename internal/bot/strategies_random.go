package bot

import (
	"math/rand"

	"pokeraid/internal/domain"
)

// RandomStrategy picks a uniformly random attack and target each boss turn.
// Mostly useful for soak tests and low-stakes raid types.
type RandomStrategy struct{}

func (s *RandomStrategy) Name() string { return StrategyRandom }

func (s *RandomStrategy) SelectAction(session *domain.RaidSession, rng *rand.Rand) (Intention, error) {
	boss := session.Boss

	idx := 0
	if rng != nil {
		idx = rng.Intn(len(boss.Attacks))
	}
	attack := boss.Attacks[idx]

	intention := Intention{Attack: attack, Strikes: 1}
	if attack.Area {
		intention.TargetIDs = activeIDs(session)
	} else {
		intention.TargetIDs = []string{randomActiveID(session, rng)}
	}
	return intention, nil
}
