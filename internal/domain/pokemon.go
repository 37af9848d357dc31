package domain

// PokemonType is the energy type of a Pokémon or attack.
type PokemonType string

const (
	TypeColorless PokemonType = "colorless"
	TypeFire      PokemonType = "fire"
	TypeWater     PokemonType = "water"
	TypeGrass     PokemonType = "grass"
	TypeLightning PokemonType = "lightning"
	TypePsychic   PokemonType = "psychic"
	TypeFighting  PokemonType = "fighting"
	TypeDarkness  PokemonType = "darkness"
	TypeMetal     PokemonType = "metal"
	TypeFairy     PokemonType = "fairy"
	TypeDragon    PokemonType = "dragon"
)

// Attack is a single usable attack on a Pokémon card.
type Attack struct {
	Name   string      `json:"name"`
	Damage int         `json:"damage"`
	Type   PokemonType `json:"type"`
}

// StatusName identifies a status condition.
type StatusName string

const (
	StatusPoisoned  StatusName = "poisoned"
	StatusBurned    StatusName = "burned"
	StatusAsleep    StatusName = "asleep"
	StatusParalyzed StatusName = "paralyzed"
	StatusConfused  StatusName = "confused"
)

// StatusEffect is an active condition with a remaining duration in turns.
type StatusEffect struct {
	Name              StatusName `json:"name"`
	RemainingDuration int        `json:"remainingDuration"`
}

// PokemonState is the live battle state of a single Pokémon.
type PokemonState struct {
	Name          string         `json:"name"`
	Type          PokemonType    `json:"type"`
	CurrentHP     int            `json:"currentHp"`
	MaxHP         int            `json:"maxHp"`
	Attacks       []Attack       `json:"attacks"`
	StatusEffects []StatusEffect `json:"statusEffects,omitempty"`
}

// IsKO reports whether the Pokémon has no HP left.
func (p *PokemonState) IsKO() bool {
	return p.CurrentHP <= 0
}

// HasStatus reports whether the named condition is active.
func (p *PokemonState) HasStatus(name StatusName) bool {
	for _, e := range p.StatusEffects {
		if e.Name == name {
			return true
		}
	}
	return false
}

// ClearStatus removes the named conditions if present.
func (p *PokemonState) ClearStatus(names ...StatusName) {
	if len(p.StatusEffects) == 0 {
		return
	}
	drop := make(map[StatusName]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	kept := p.StatusEffects[:0]
	for _, e := range p.StatusEffects {
		if !drop[e.Name] {
			kept = append(kept, e)
		}
	}
	p.StatusEffects = kept
}

// PlayerStatus is the participation state of a player within a session.
type PlayerStatus string

const (
	PlayerActive    PlayerStatus = "active"
	PlayerKO        PlayerStatus = "ko"
	PlayerSpectator PlayerStatus = "spectator"
)

// PlayerState holds one player's raid state. It is owned exclusively by its
// session and destroyed when the player leaves or the session ends.
type PlayerState struct {
	ID          string        `json:"id"`
	Username    string        `json:"username"`
	Active      *PokemonState `json:"active"`
	Bench       *PokemonState `json:"bench,omitempty"`
	Status      PlayerStatus  `json:"status"`
	CanUseCheer bool          `json:"canUseCheer"`
	UsedBoost   bool          `json:"usedBoost"`
}

// PromoteBench swaps a healthy bench Pokémon into the active slot after a
// knockout. Status effects do not carry over. Returns false when no healthy
// bench Pokémon is available, in which case the player is marked KO.
func (pl *PlayerState) PromoteBench() bool {
	if pl.Bench != nil && !pl.Bench.IsKO() {
		pl.Active, pl.Bench = pl.Bench, pl.Active
		pl.Active.StatusEffects = nil
		return true
	}
	pl.Status = PlayerKO
	return false
}

// AttackStrength sums the printed damage of every attack the player brought,
// across both active and bench Pokémon. Used to derive the boss level.
func (pl *PlayerState) AttackStrength() int {
	total := 0
	for _, p := range []*PokemonState{pl.Active, pl.Bench} {
		if p == nil {
			continue
		}
		for _, a := range p.Attacks {
			total += a.Damage
		}
	}
	return total
}
