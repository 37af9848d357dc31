package app

import "pokeraid/internal/domain"

// EventKind identifies emitted engine events for gateway dispatch.
type EventKind string

const (
	EventRaidCreated   EventKind = "raid_created"
	EventRaidJoined    EventKind = "raid_joined"
	EventPlayerJoined  EventKind = "player_joined_raid"
	EventPlayerLeft    EventKind = "player_left_raid"
	EventLayoutUpdated EventKind = "layout_updated"
	EventRaidStarted   EventKind = "raid_started"
	EventActionResult  EventKind = "raid_action_result"
	EventBossActed     EventKind = "boss_acted"
	EventTurnChanged   EventKind = "turn_changed"
	EventTurnSkipped   EventKind = "turn_skipped"
	EventRaidEnded     EventKind = "raid_ended"
)

// Event is an engine event scoped to the session that raised it. The gateway
// delivers it to Recipients when set, otherwise to every member of SessionID.
type Event struct {
	Kind       EventKind
	SessionID  string
	Payload    any
	Recipients []string // player ids; empty means all session members
}

// SessionSnapshot is the full session view sent to a joining player.
type SessionSnapshot struct {
	SessionID string                      `json:"sessionId"`
	Config    domain.RaidConfig           `json:"config"`
	Phase     domain.Phase                `json:"phase"`
	Players   []*domain.PlayerState       `json:"players"`
	Positions []domain.PositionAssignment `json:"positions"`
	Boss      *domain.BossState           `json:"boss,omitempty"`
	Turn      *domain.TurnState           `json:"turn,omitempty"`
	CheerPool int                         `json:"cheerPool"`
}

type RaidCreatedPayload struct {
	SessionID string            `json:"sessionId"`
	Config    domain.RaidConfig `json:"config"`
}

type RaidJoinedPayload struct {
	SessionID    string                      `json:"sessionId"`
	PlayerID     string                      `json:"playerId"`
	YourPosition domain.PositionAssignment   `json:"yourPosition"`
	AllPositions []domain.PositionAssignment `json:"allPositions"`
	State        SessionSnapshot             `json:"state"`
}

type PlayerJoinedPayload struct {
	SessionID    string                      `json:"sessionId"`
	PlayerID     string                      `json:"playerId"`
	Username     string                      `json:"username"`
	Position     domain.PositionAssignment   `json:"position"`
	AllPositions []domain.PositionAssignment `json:"allPositions"`
}

type PlayerLeftPayload struct {
	SessionID     string                      `json:"sessionId"`
	PlayerID      string                      `json:"playerId"`
	Positions     []domain.PositionAssignment `json:"positions"`
	SessionClosed bool                        `json:"sessionClosed"`
}

type LayoutUpdatedPayload struct {
	SessionID string                      `json:"sessionId"`
	Layout    domain.Layout               `json:"layout"`
	Positions []domain.PositionAssignment `json:"positions"`
	BossX     float64                     `json:"bossX"`
	BossY     float64                     `json:"bossY"`
}

type RaidStartedPayload struct {
	SessionID      string   `json:"sessionId"`
	BossName       string   `json:"bossName"`
	BossLevel      int      `json:"bossLevel"`
	BossMaxHP      int      `json:"bossMaxHp"`
	AttacksPerTurn int      `json:"attacksPerTurn"`
	TurnOrder      []string `json:"turnOrder"`
	Round          int      `json:"round"`
	CurrentActor   string   `json:"currentActor"`
}

// ActionResultPayload reports a successful player action. Fields are
// populated per action type.
type ActionResultPayload struct {
	SessionID     string               `json:"sessionId"`
	ActorID       string               `json:"actorId"`
	ActionType    ActionType           `json:"actionType"`
	AttackName    string               `json:"attackName,omitempty"`
	Result        *domain.DamageResult `json:"result,omitempty"`
	SelfInflicted bool                 `json:"selfInflicted,omitempty"`
	BossHP        int                  `json:"bossHp"`
	ActivePokemon string               `json:"activePokemon,omitempty"`
	HealedPlayer  string               `json:"healedPlayer,omitempty"`
	HealedAmount  int                  `json:"healedAmount,omitempty"`
	CheerPool     int                  `json:"cheerPool,omitempty"`
	StatusTicks   []domain.StatusTick  `json:"statusTicks,omitempty"`
}

// BossStrike is one boss hit against one player.
type BossStrike struct {
	TargetID      string              `json:"targetId"`
	AttackName    string              `json:"attackName"`
	Result        domain.DamageResult `json:"result"`
	TargetHP      int                 `json:"targetHp"`
	Inflicted     domain.StatusName   `json:"inflicted,omitempty"`
	PokemonKO     bool                `json:"pokemonKo,omitempty"`
	BenchPromoted bool                `json:"benchPromoted,omitempty"`
	PlayerKO      bool                `json:"playerKo,omitempty"`
}

type BossActedPayload struct {
	SessionID string       `json:"sessionId"`
	CardName  string       `json:"cardName,omitempty"`
	Strikes   []BossStrike `json:"strikes"`
}

type TurnChangedPayload struct {
	SessionID string `json:"sessionId"`
	Actor     string `json:"actor"`
	Round     int    `json:"round"`
	NewRound  bool   `json:"newRound,omitempty"`
}

type TurnSkippedPayload struct {
	SessionID   string              `json:"sessionId"`
	PlayerID    string              `json:"playerId"`
	Reason      string              `json:"reason"`
	StatusTicks []domain.StatusTick `json:"statusTicks,omitempty"`
}

type RaidEndedPayload struct {
	SessionID string         `json:"sessionId"`
	Outcome   domain.Outcome `json:"outcome"`
	BossLevel int            `json:"bossLevel"`
	Rounds    int            `json:"rounds"`
	BossHP    int            `json:"bossHp"`
	Survivors []string       `json:"survivors,omitempty"`
}
