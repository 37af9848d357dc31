package domain

import "time"

// Phase represents the lifecycle stage of a raid session.
type Phase string

const (
	// PhaseLobby is the pre-raid state where players can join.
	PhaseLobby Phase = "lobby"
	// PhaseActive is the in-progress state where actions are processed.
	PhaseActive Phase = "active"
	// PhaseEnded is the state after a win or loss condition.
	PhaseEnded Phase = "ended"
)

// RaidConfig is the immutable configuration a session is created with.
// Layout may still change while in the lobby.
type RaidConfig struct {
	Type               string `json:"raidType"`
	MinPlayers         int    `json:"minPlayers"`
	MaxPlayers         int    `json:"maxPlayers"`
	Layout             Layout `json:"layout"`
	Strategy           string `json:"strategy,omitempty"`
	TurnTimeoutSeconds int    `json:"turnTimeoutSeconds,omitempty"`
	CheerCharges       int    `json:"cheerCharges,omitempty"`
}

// Normalize fills unset fields with defaults and clamps inconsistent ones.
func (c *RaidConfig) Normalize() {
	if c.MaxPlayers <= 0 {
		c.MaxPlayers = 4
	}
	if c.MinPlayers <= 0 {
		c.MinPlayers = 1
	}
	if c.MinPlayers > c.MaxPlayers {
		c.MinPlayers = c.MaxPlayers
	}
	if c.Layout != LayoutVersus && c.Layout != LayoutCircular {
		c.Layout = LayoutVersus
	}
	if c.CheerCharges <= 0 {
		c.CheerCharges = c.MaxPlayers
	}
}

// RaidSession owns the full state of one multiplayer raid. Membership is
// mutated only through engine entry points; the session never touches
// another session's data.
type RaidSession struct {
	ID        string
	Config    RaidConfig
	Phase     Phase
	Players   map[string]*PlayerState
	JoinOrder []string
	Positions []PositionAssignment
	Boss      *BossState
	Turns     *TurnState
	CheerPool int
	// CheerBoost arms a one-shot damage modifier for the next player attack.
	CheerBoost bool
	Outcome    Outcome
	CreatedAt  time.Time
}

// NewRaidSession creates a session in the lobby phase.
func NewRaidSession(id string, cfg RaidConfig) *RaidSession {
	cfg.Normalize()
	return &RaidSession{
		ID:        id,
		Config:    cfg,
		Phase:     PhaseLobby,
		Players:   make(map[string]*PlayerState),
		CheerPool: cfg.CheerCharges,
		CreatedAt: time.Now(),
	}
}

// IsFull reports whether the session has reached its player cap.
func (s *RaidSession) IsFull() bool {
	return len(s.Players) >= s.Config.MaxPlayers
}

// AddPlayer appends a player in join order and recomputes positions.
func (s *RaidSession) AddPlayer(pl *PlayerState) {
	s.Players[pl.ID] = pl
	s.JoinOrder = append(s.JoinOrder, pl.ID)
	s.RecomputePositions()
}

// RemovePlayer deletes a player and recomputes positions. Returns false
// when the player is not a member.
func (s *RaidSession) RemovePlayer(playerID string) bool {
	if _, ok := s.Players[playerID]; !ok {
		return false
	}
	delete(s.Players, playerID)
	for i, id := range s.JoinOrder {
		if id == playerID {
			s.JoinOrder = append(s.JoinOrder[:i], s.JoinOrder[i+1:]...)
			break
		}
	}
	s.RecomputePositions()
	return true
}

// RecomputePositions refreshes position assignments from current membership
// and layout. positions count always equals player count.
func (s *RaidSession) RecomputePositions() {
	s.Positions = ComputePositions(s.JoinOrder, s.Config.Layout)
}

// PlayerAt returns the player occupying the given join-order slot, or nil.
func (s *RaidSession) PlayerAt(slot int) *PlayerState {
	if slot < 0 || slot >= len(s.JoinOrder) {
		return nil
	}
	return s.Players[s.JoinOrder[slot]]
}

// PositionOf returns the position assignment for a player.
func (s *RaidSession) PositionOf(playerID string) (PositionAssignment, bool) {
	for _, p := range s.Positions {
		if p.PlayerID == playerID {
			return p, true
		}
	}
	return PositionAssignment{}, false
}

// PlayersInJoinOrder returns all players ordered by join time.
func (s *RaidSession) PlayersInJoinOrder() []*PlayerState {
	out := make([]*PlayerState, 0, len(s.JoinOrder))
	for _, id := range s.JoinOrder {
		if pl, ok := s.Players[id]; ok {
			out = append(out, pl)
		}
	}
	return out
}

// ActivePlayers returns members still in the fight, in join order.
func (s *RaidSession) ActivePlayers() []*PlayerState {
	out := make([]*PlayerState, 0, len(s.JoinOrder))
	for _, pl := range s.PlayersInJoinOrder() {
		if pl.Status == PlayerActive {
			out = append(out, pl)
		}
	}
	return out
}
