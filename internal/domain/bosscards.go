package domain

import "math/rand"

// AttackTier buckets boss attacks by strength; boss cards declare the tier
// of the attack the boss uses that turn.
type AttackTier int

const (
	TierLight AttackTier = 1
	TierHeavy AttackTier = 2
	TierUltra AttackTier = 3
)

// BossCard is one card in the boss attack deck. TargetSlot addresses a
// player position in join order; -1 means the card is untargeted and the AI
// picks a random active player.
type BossCard struct {
	Name       string     `json:"name"`
	Tier       AttackTier `json:"tier"`
	Attacks    int        `json:"attacks"`
	TargetSlot int        `json:"targetSlot"`
	Area       bool       `json:"area"`
}

// BossAttack is an attack on the boss card, tagged with the tier boss cards
// refer to and an optional condition it inflicts.
type BossAttack struct {
	Attack
	Tier         AttackTier `json:"tier"`
	Area         bool       `json:"area"`
	Inflicts     StatusName `json:"inflicts,omitempty"`
	InflictTurns int        `json:"inflictTurns,omitempty"`
}

// BossTemplate is the static definition of a raid boss, loaded from
// configuration or compiled-in defaults.
type BossTemplate struct {
	Name    string       `json:"name"`
	Type    PokemonType  `json:"type"`
	BaseHP  int          `json:"baseHp"`
	Attacks []BossAttack `json:"attacks"`
	Cards   []BossCard   `json:"cards"`
}

// BossState is the live state of the raid boss. Deck and Discard are
// disjoint; their union stays constant in size: cards move deck to discard
// and are reshuffled back when the deck empties.
type BossState struct {
	Name           string       `json:"name"`
	Type           PokemonType  `json:"type"`
	Level          int          `json:"level"`
	CurrentHP      int          `json:"currentHp"`
	MaxHP          int          `json:"maxHp"`
	AttacksPerTurn int          `json:"attacksPerTurn"`
	Attacks        []BossAttack `json:"attacks"`
	Deck           []BossCard   `json:"-"`
	Discard        []BossCard   `json:"-"`
}

// Boss level thresholds on aggregate player attack strength. Preserved as
// given; above the bonus threshold the level-3 boss gains extra HP.
const (
	bossLevelTwoThreshold   = 250
	bossLevelThreeThreshold = 390
	bossBonusHPThreshold    = 590
)

var bossLevelHPScale = map[int]float64{1: 1.0, 2: 1.25, 3: 1.5}

// BossLevelForStrength derives the boss level (1..3) from aggregate player
// attack strength. Fixed once at session start.
func BossLevelForStrength(strength int) int {
	switch {
	case strength < bossLevelTwoThreshold:
		return 1
	case strength < bossLevelThreeThreshold:
		return 2
	default:
		return 3
	}
}

// AggregateAttackStrength sums every player's printed attack damage.
func AggregateAttackStrength(players []*PlayerState) int {
	total := 0
	for _, pl := range players {
		total += pl.AttackStrength()
	}
	return total
}

// NewBossState instantiates a boss from its template for the given party.
// HP scales with party size and level; parties over the bonus threshold
// face a 25% tougher boss.
func NewBossState(tmpl BossTemplate, strength, playerCount int, rng *rand.Rand) *BossState {
	level := BossLevelForStrength(strength)
	hp := float64(tmpl.BaseHP) * float64(playerCount) * bossLevelHPScale[level]
	if strength >= bossBonusHPThreshold {
		hp *= 1.25
	}
	maxHP := int(hp)

	attacksPerTurn := level
	if attacksPerTurn > 2 {
		attacksPerTurn = 2
	}

	deck := shuffleCards(rng, tmpl.Cards)
	return &BossState{
		Name:           tmpl.Name,
		Type:           tmpl.Type,
		Level:          level,
		CurrentHP:      maxHP,
		MaxHP:          maxHP,
		AttacksPerTurn: attacksPerTurn,
		Attacks:        tmpl.Attacks,
		Deck:           deck,
	}
}

// DrawCard takes the next card from the attack deck, moving it to the
// discard pile. An exhausted deck is reshuffled from the discard first.
func (b *BossState) DrawCard(rng *rand.Rand) BossCard {
	if len(b.Deck) == 0 {
		b.Deck = shuffleCards(rng, b.Discard)
		b.Discard = b.Discard[:0]
	}
	card := b.Deck[0]
	b.Deck = b.Deck[1:]
	b.Discard = append(b.Discard, card)
	return card
}

// AttackForTier returns the boss attack matching the card's declared tier,
// falling back to the last attack when no tier matches.
func (b *BossState) AttackForTier(tier AttackTier) BossAttack {
	for _, a := range b.Attacks {
		if a.Tier == tier {
			return a
		}
	}
	return b.Attacks[len(b.Attacks)-1]
}

func shuffleCards(rng *rand.Rand, cards []BossCard) []BossCard {
	out := make([]BossCard, len(cards))
	copy(out, cards)
	if rng != nil {
		rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	}
	return out
}
