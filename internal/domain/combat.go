package domain

import (
	"errors"
	"math"
	"math/rand"
)

// typeChart maps attack type -> defender type -> multiplier. Entries absent
// from the chart resolve to 1.0. 2.0 is super-effective, 0.5 resisted and
// 0.0 immune.
var typeChart = map[PokemonType]map[PokemonType]float64{
	TypeFire:      {TypeGrass: 2.0, TypeMetal: 2.0, TypeWater: 0.5, TypeFire: 0.5},
	TypeWater:     {TypeFire: 2.0, TypeWater: 0.5, TypeGrass: 0.5},
	TypeGrass:     {TypeWater: 2.0, TypeFire: 0.5, TypeGrass: 0.5},
	TypeLightning: {TypeWater: 2.0, TypeGrass: 0.5, TypeLightning: 0.5},
	TypePsychic:   {TypeFighting: 2.0, TypePsychic: 0.5, TypeDarkness: 0.0},
	TypeFighting:  {TypeDarkness: 2.0, TypeColorless: 2.0, TypePsychic: 0.5, TypeFairy: 0.5},
	TypeDarkness:  {TypePsychic: 2.0, TypeFighting: 0.5, TypeDarkness: 0.5},
	TypeMetal:     {TypeFairy: 2.0, TypeFire: 0.5, TypeMetal: 0.5},
	TypeFairy:     {TypeDragon: 2.0, TypeDarkness: 2.0, TypeMetal: 0.5},
	TypeDragon:    {TypeDragon: 2.0, TypeFairy: 0.0},
}

// TypeMultiplier resolves attack type vs defender type. Unknown or empty
// types on either side yield the 1.0 default.
func TypeMultiplier(attackType, defenderType PokemonType) float64 {
	row, ok := typeChart[attackType]
	if !ok {
		return 1.0
	}
	mult, ok := row[defenderType]
	if !ok {
		return 1.0
	}
	return mult
}

// Modifier is a multiplicative damage adjustment applied after the base
// calculation, in the order given.
type Modifier string

const (
	ModifierCheer    Modifier = "cheer"
	ModifierCritical Modifier = "critical"
	ModifierBoost    Modifier = "boost" // GX-style once-per-raid attack
)

var modifierScale = map[Modifier]float64{
	ModifierCheer:    1.2,
	ModifierCritical: 1.5,
	ModifierBoost:    1.8,
}

// DamageResult is the outcome of one damage calculation.
type DamageResult struct {
	Damage         int     `json:"damage"`
	TypeMultiplier float64 `json:"typeMultiplier"`
	Variance       float64 `json:"variance"`
	IsCritical     bool    `json:"isCritical"`
}

const critChance = 0.1

// Combat performs damage, healing and status resolution. The variance,
// critical and confusion rolls are function fields so callers can pin them.
type Combat struct {
	Variance      func() float64
	CritRoll      func() bool
	ConfusionRoll func() bool
}

// NewCombat constructs a Combat with rolls drawn from rng, or a time-free
// deterministic fallback when rng is nil (variance 1.0, never critical,
// confusion never misfires).
func NewCombat(rng *rand.Rand) *Combat {
	if rng == nil {
		return &Combat{
			Variance:      func() float64 { return 1.0 },
			CritRoll:      func() bool { return false },
			ConfusionRoll: func() bool { return false },
		}
	}
	return &Combat{
		Variance:      func() float64 { return 0.9 + rng.Float64()*0.2 },
		CritRoll:      func() bool { return rng.Float64() < critChance },
		ConfusionRoll: func() bool { return rng.Intn(2) == 0 },
	}
}

// CalculateDamage resolves attack damage against a defender. Modifiers are
// applied multiplicatively in order after the floor of base*type*variance.
// A zero type multiplier forces zero damage regardless of modifiers; any
// positive multiplier guarantees at least 1.
func (c *Combat) CalculateDamage(attacker, defender *PokemonState, attack Attack, modifiers []Modifier) DamageResult {
	mult := TypeMultiplier(attack.Type, defender.Type)
	variance := c.Variance()

	critical := false
	for _, m := range modifiers {
		if m == ModifierCritical {
			critical = true
		}
	}
	if !critical && c.CritRoll() {
		critical = true
		modifiers = append(modifiers, ModifierCritical)
	}

	damage := math.Floor(float64(attack.Damage) * mult * variance)
	for _, m := range modifiers {
		if scale, ok := modifierScale[m]; ok {
			damage = math.Floor(damage * scale)
		}
	}

	result := DamageResult{
		TypeMultiplier: mult,
		Variance:       variance,
		IsCritical:     critical,
	}
	switch {
	case mult == 0:
		result.Damage = 0
	case damage < 1:
		result.Damage = 1
	default:
		result.Damage = int(damage)
	}
	return result
}

// ApplyDamage subtracts the computed damage from the Pokémon's HP, floored
// at zero. Returns the HP actually removed.
func ApplyDamage(p *PokemonState, result DamageResult) int {
	dealt := result.Damage
	if dealt > p.CurrentHP {
		dealt = p.CurrentHP
	}
	p.CurrentHP -= dealt
	return dealt
}

// HealPokemon restores up to amount HP, capped at maxHP. Returns the HP
// restored and whether the Pokémon is now at full health.
func HealPokemon(p *PokemonState, amount int) (int, bool) {
	healed := p.MaxHP - p.CurrentHP
	if amount < healed {
		healed = amount
	}
	if healed < 0 {
		healed = 0
	}
	p.CurrentHP += healed
	return healed, p.CurrentHP == p.MaxHP
}

// ApplyStatusEffect applies a condition, replacing any existing effect of
// the same name. Conditions never stack.
func ApplyStatusEffect(p *PokemonState, name StatusName, duration int) {
	for i := range p.StatusEffects {
		if p.StatusEffects[i].Name == name {
			p.StatusEffects[i].RemainingDuration = duration
			return
		}
	}
	p.StatusEffects = append(p.StatusEffects, StatusEffect{Name: name, RemainingDuration: duration})
}

// statusBehavior is the fixed per-condition behavior applied on each
// end-of-turn tick.
type statusBehavior struct {
	damagePerTurn int
	skipsTurn     bool
	randomTarget  bool
}

var statusBehaviors = map[StatusName]statusBehavior{
	StatusPoisoned:  {damagePerTurn: 10},
	StatusBurned:    {damagePerTurn: 20},
	StatusAsleep:    {skipsTurn: true},
	StatusParalyzed: {skipsTurn: true},
	StatusConfused:  {randomTarget: true},
}

// StatusTick records what one condition did during an end-of-turn tick.
type StatusTick struct {
	Name    StatusName `json:"name"`
	Damage  int        `json:"damage,omitempty"`
	Expired bool       `json:"expired,omitempty"`
}

// TickStatusEffects runs one end-of-turn tick: applies damage-over-time,
// decrements durations and removes expired conditions.
func TickStatusEffects(p *PokemonState) []StatusTick {
	if len(p.StatusEffects) == 0 {
		return nil
	}
	ticks := make([]StatusTick, 0, len(p.StatusEffects))
	kept := p.StatusEffects[:0]
	for _, e := range p.StatusEffects {
		tick := StatusTick{Name: e.Name}
		if b, ok := statusBehaviors[e.Name]; ok && b.damagePerTurn > 0 {
			dot := b.damagePerTurn
			if dot > p.CurrentHP {
				dot = p.CurrentHP
			}
			p.CurrentHP -= dot
			tick.Damage = dot
		}
		e.RemainingDuration--
		if e.RemainingDuration <= 0 {
			tick.Expired = true
		} else {
			kept = append(kept, e)
		}
		ticks = append(ticks, tick)
	}
	p.StatusEffects = kept
	return ticks
}

// SkipsTurn reports whether an active condition forces the Pokémon's side to
// skip its turn.
func SkipsTurn(p *PokemonState) bool {
	for _, e := range p.StatusEffects {
		if b, ok := statusBehaviors[e.Name]; ok && b.skipsTurn {
			return true
		}
	}
	return false
}

// ForcesRandomTarget reports whether an active condition redirects the
// Pokémon's attacks.
func ForcesRandomTarget(p *PokemonState) bool {
	for _, e := range p.StatusEffects {
		if b, ok := statusBehaviors[e.Name]; ok && b.randomTarget {
			return true
		}
	}
	return false
}

var (
	ErrNoBenchPokemon = errors.New("no bench pokemon to retreat into")
	ErrRetreatKO      = errors.New("cannot retreat with a knocked out pokemon")
)

// ProcessRetreat swaps the player's active and bench Pokémon. It fails when
// either Pokémon is knocked out. Confusion and paralysis are cured on the
// Pokémon entering the active slot.
func ProcessRetreat(pl *PlayerState) error {
	if pl.Active == nil || pl.Bench == nil {
		return ErrNoBenchPokemon
	}
	if pl.Active.IsKO() || pl.Bench.IsKO() {
		return ErrRetreatKO
	}
	pl.Active, pl.Bench = pl.Bench, pl.Active
	pl.Active.ClearStatus(StatusConfused, StatusParalyzed)
	return nil
}

// Outcome is the terminal result of a raid.
type Outcome string

const (
	OutcomeVictory Outcome = "victory"
	OutcomeDefeat  Outcome = "defeat"
)

// IsGameOver checks the win/loss conditions: victory when the boss HP is
// depleted, defeat when no player is still active. Run after every
// HP-mutating action.
func IsGameOver(boss *BossState, players []*PlayerState) (bool, Outcome) {
	if boss != nil && boss.CurrentHP <= 0 {
		return true, OutcomeVictory
	}
	for _, pl := range players {
		if pl.Status == PlayerActive {
			return false, ""
		}
	}
	return true, OutcomeDefeat
}

const areaAttackScale = 0.75

// BossAttackDamage scales a boss attack's base damage by +20% per boss level
// above 1, with a fixed 75% multiplier for area-effect attacks.
func BossAttackDamage(base, level int, area bool) int {
	d := float64(base) * (1.0 + 0.2*float64(level-1))
	if area {
		d *= areaAttackScale
	}
	return int(math.Floor(d))
}
