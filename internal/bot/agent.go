package bot

import (
	"errors"
	"math/rand"

	"pokeraid/internal/domain"
)

// Agent drives the boss for one session using its configured strategy.
type Agent struct {
	Strategy Strategy
}

// Act asks the agent for the boss's next action given the session state.
func (a *Agent) Act(session *domain.RaidSession, rng *rand.Rand) (Intention, error) {
	if session.Boss == nil {
		return Intention{}, errors.New("session has no boss")
	}
	if len(session.ActivePlayers()) == 0 {
		return Intention{}, errors.New("no active players to target")
	}
	return a.Strategy.SelectAction(session, rng)
}

// SwapStrategy replaces the agent's policy at runtime.
func (a *Agent) SwapStrategy(s Strategy) {
	a.Strategy = s
}
