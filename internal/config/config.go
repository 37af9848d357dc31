package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"pokeraid/internal/domain"
)

// RaidTuning is the server-side raid configuration loaded from the data
// folder. All fields have safe compiled-in defaults so a missing file only
// degrades to the stock boss catalog.
type RaidTuning struct {
	// CheerHeal is the HP restored by a cheer action.
	CheerHeal int `json:"cheer_heal"`
	// BossMinDelaySeconds / BossMaxDelaySeconds pace boss turns.
	BossMinDelaySeconds int `json:"boss_min_delay_seconds"`
	BossMaxDelaySeconds int `json:"boss_max_delay_seconds"`
	// VictoryReward is the base coin payout per surviving player, scaled by
	// boss level on settlement.
	VictoryReward int64 `json:"victory_reward"`
	// Bosses maps raid type to its boss definition.
	Bosses map[string]domain.BossTemplate `json:"bosses"`
}

var (
	cfg      *RaidTuning
	loadOnce sync.Once
	loadErr  error
)

// LoadRaidTuning loads the raid configuration from the given path.
func LoadRaidTuning(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read raid config: %w", err)
			return
		}

		var c RaidTuning
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal raid config: %w", err)
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetRaidTuning returns the loaded configuration, or defaults when no file
// was loaded.
func GetRaidTuning() RaidTuning {
	defaults := defaultTuning()
	if cfg == nil {
		return defaults
	}
	out := *cfg
	if out.CheerHeal <= 0 {
		out.CheerHeal = defaults.CheerHeal
	}
	if out.BossMinDelaySeconds <= 0 {
		out.BossMinDelaySeconds = defaults.BossMinDelaySeconds
	}
	if out.BossMaxDelaySeconds < out.BossMinDelaySeconds {
		out.BossMaxDelaySeconds = out.BossMinDelaySeconds + 2
	}
	if out.VictoryReward <= 0 {
		out.VictoryReward = defaults.VictoryReward
	}
	return out
}

// GetBossTemplate returns the boss for a raid type, falling back to the
// default boss when the type is unknown.
func GetBossTemplate(raidType string) domain.BossTemplate {
	if cfg != nil {
		if tmpl, ok := cfg.Bosses[raidType]; ok {
			return tmpl
		}
	}
	if tmpl, ok := defaultBosses[raidType]; ok {
		return tmpl
	}
	return defaultBosses["standard"]
}

func defaultTuning() RaidTuning {
	return RaidTuning{
		CheerHeal:           30,
		BossMinDelaySeconds: 1,
		BossMaxDelaySeconds: 3,
		VictoryReward:       100,
		Bosses:              defaultBosses,
	}
}

// defaultBosses is the compiled-in boss catalog used when no raid config
// file is deployed.
var defaultBosses = map[string]domain.BossTemplate{
	"standard": {
		Name:   "Gyarados",
		Type:   domain.TypeWater,
		BaseHP: 120,
		Attacks: []domain.BossAttack{
			{Attack: domain.Attack{Name: "Bite", Damage: 30, Type: domain.TypeWater}, Tier: domain.TierLight},
			{Attack: domain.Attack{Name: "Aqua Tail", Damage: 60, Type: domain.TypeWater}, Tier: domain.TierHeavy, Inflicts: domain.StatusConfused, InflictTurns: 2},
			{Attack: domain.Attack{Name: "Raging Storm", Damage: 110, Type: domain.TypeWater}, Tier: domain.TierUltra, Area: true},
		},
		Cards: []domain.BossCard{
			{Name: "Lunge", Tier: domain.TierLight, Attacks: 1, TargetSlot: 0},
			{Name: "Thrash", Tier: domain.TierLight, Attacks: 2, TargetSlot: -1},
			{Name: "Crunch", Tier: domain.TierHeavy, Attacks: 1, TargetSlot: 1},
			{Name: "Whirlpool", Tier: domain.TierHeavy, Attacks: 1, TargetSlot: -1},
			{Name: "Tempest", Tier: domain.TierUltra, Attacks: 1, TargetSlot: -1, Area: true},
		},
	},
	"legendary": {
		Name:   "Mewtwo",
		Type:   domain.TypePsychic,
		BaseHP: 150,
		Attacks: []domain.BossAttack{
			{Attack: domain.Attack{Name: "Confusion", Damage: 40, Type: domain.TypePsychic}, Tier: domain.TierLight, Inflicts: domain.StatusConfused, InflictTurns: 2},
			{Attack: domain.Attack{Name: "Psystrike", Damage: 80, Type: domain.TypePsychic}, Tier: domain.TierHeavy, Inflicts: domain.StatusAsleep, InflictTurns: 1},
			{Attack: domain.Attack{Name: "Psyburst", Damage: 130, Type: domain.TypePsychic}, Tier: domain.TierUltra, Area: true},
		},
		Cards: []domain.BossCard{
			{Name: "Probe", Tier: domain.TierLight, Attacks: 1, TargetSlot: -1},
			{Name: "Mind Crush", Tier: domain.TierHeavy, Attacks: 1, TargetSlot: 0},
			{Name: "Mind Crush+", Tier: domain.TierHeavy, Attacks: 2, TargetSlot: -1},
			{Name: "Cataclysm", Tier: domain.TierUltra, Attacks: 1, TargetSlot: -1, Area: true},
		},
	},
}
