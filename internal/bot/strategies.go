package bot

import (
	"math/rand"

	"pokeraid/internal/domain"
)

// DeckStrategy is the default boss policy: draw the next card from the boss
// attack deck, use the attack matching the card's tier, and target the slot
// the card names. Untargeted and area cards fall back to random or all
// active players.
type DeckStrategy struct{}

func (s *DeckStrategy) Name() string { return StrategyDeck }

func (s *DeckStrategy) SelectAction(session *domain.RaidSession, rng *rand.Rand) (Intention, error) {
	boss := session.Boss
	card := boss.DrawCard(rng)
	attack := boss.AttackForTier(card.Tier)

	strikes := card.Attacks
	if strikes <= 0 {
		strikes = boss.AttacksPerTurn
	}

	intention := Intention{Card: card, Attack: attack, Strikes: strikes}
	if card.Area || attack.Area {
		intention.Attack.Area = true
		intention.TargetIDs = activeIDs(session)
		intention.Strikes = 1
		return intention, nil
	}

	if target := session.PlayerAt(card.TargetSlot); card.TargetSlot >= 0 && target != nil && target.Status == domain.PlayerActive {
		intention.TargetIDs = []string{target.ID}
		return intention, nil
	}

	intention.TargetIDs = []string{randomActiveID(session, rng)}
	return intention, nil
}

// activeIDs lists active players in join order.
func activeIDs(session *domain.RaidSession) []string {
	players := session.ActivePlayers()
	ids := make([]string, len(players))
	for i, pl := range players {
		ids[i] = pl.ID
	}
	return ids
}

func randomActiveID(session *domain.RaidSession, rng *rand.Rand) string {
	ids := activeIDs(session)
	if rng == nil || len(ids) == 1 {
		return ids[0]
	}
	return ids[rng.Intn(len(ids))]
}
