package app

import "pokeraid/internal/domain"

// ActionType is the closed set of player action variants.
type ActionType string

const (
	ActionAttack  ActionType = "attack"
	ActionRetreat ActionType = "retreat"
	ActionCheer   ActionType = "cheer"
)

// Action is a tagged player action payload. Required fields depend on the
// variant and are validated before dispatch.
type Action struct {
	Type ActionType `json:"type"`
	// AttackIndex selects an attack on the active Pokémon (attack only).
	AttackIndex int `json:"attackIndex,omitempty"`
	// Boost marks the once-per-raid GX-style boosted attack (attack only).
	Boost bool `json:"gx,omitempty"`
	// TargetPlayerID names the cheer recipient; empty means self (cheer only).
	TargetPlayerID string `json:"targetPlayerId,omitempty"`
}

// validate checks variant-specific requirements against the acting player.
func (a Action) validate(pl *domain.PlayerState) *Error {
	switch a.Type {
	case ActionAttack:
		if pl.Active == nil || len(pl.Active.Attacks) == 0 {
			return Validationf("active pokemon has no attacks")
		}
		if a.AttackIndex < 0 || a.AttackIndex >= len(pl.Active.Attacks) {
			return Validationf("attack index %d out of range", a.AttackIndex)
		}
		return nil
	case ActionRetreat:
		return nil
	case ActionCheer:
		return nil
	default:
		return Validationf("unknown action type: %s", a.Type)
	}
}
