package bot

import "fmt"

// Strategy names accepted by the factory.
const (
	StrategyDeck       = "deck"
	StrategyAggressive = "aggressive"
	StrategyRandom     = "random"
)

// NewStrategy builds a named boss strategy. The empty name selects the
// default deck-driven policy.
func NewStrategy(name string) (Strategy, error) {
	switch name {
	case "", StrategyDeck:
		return &DeckStrategy{}, nil
	case StrategyAggressive:
		return &AggressiveStrategy{}, nil
	case StrategyRandom:
		return &RandomStrategy{}, nil
	default:
		return nil, fmt.Errorf("unknown boss strategy: %s", name)
	}
}

// NewAgent builds an agent with the named strategy.
func NewAgent(strategyName string) (*Agent, error) {
	s, err := NewStrategy(strategyName)
	if err != nil {
		return nil, err
	}
	return &Agent{Strategy: s}, nil
}
