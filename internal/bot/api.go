package bot

import (
	"math/rand"

	"pokeraid/internal/domain"
)

// Intention is the boss's declared action for one boss turn. The AI never
// mutates HP directly; the engine executes the intention through the combat
// rules.
type Intention struct {
	Card      domain.BossCard
	Attack    domain.BossAttack
	TargetIDs []string
	Strikes   int
}

// Strategy is the interface all boss AI policies implement. Strategies may
// advance the boss attack deck but must not touch player or boss HP.
type Strategy interface {
	Name() string
	SelectAction(session *domain.RaidSession, rng *rand.Rand) (Intention, error)
}
