package domain

import "errors"

// ActorKind distinguishes real players from the boss sentinel in the turn
// order.
type ActorKind string

const (
	ActorPlayer ActorKind = "player"
	ActorBoss   ActorKind = "boss"
)

// Actor is anything that can hold a turn.
type Actor struct {
	Kind     ActorKind `json:"kind"`
	PlayerID string    `json:"playerId,omitempty"`
}

// IsBoss reports whether the actor is the boss sentinel.
func (a Actor) IsBoss() bool {
	return a.Kind == ActorBoss
}

// Label is the wire name of the actor: the player id, or "boss".
func (a Actor) Label() string {
	if a.IsBoss() {
		return "boss"
	}
	return a.PlayerID
}

// TurnPhase is the state of the turn machine.
type TurnPhase string

const (
	TurnIdle          TurnPhase = "idle"
	TurnInProgress    TurnPhase = "inProgress"
	TurnRoundComplete TurnPhase = "roundComplete"
	TurnEnded         TurnPhase = "ended"
)

var (
	ErrTurnsNotStarted = errors.New("turn order not started")
	ErrTurnsEnded      = errors.New("turn order has ended")
	ErrActorNotInOrder = errors.New("actor not in turn order")
)

// TurnState tracks turn rotation for one session. The order is fixed at
// session start: players in join order, then the boss sentinel. Eliminated
// players stay in the order to keep rotation deterministic; callers advance
// past them without requiring an action.
type TurnState struct {
	State        TurnPhase `json:"state"`
	Round        int       `json:"round"`
	Order        []Actor   `json:"order"`
	CurrentIndex int       `json:"currentIndex"`
}

// NewTurnState builds the fixed turn order for the given players.
func NewTurnState(playerIDs []string) *TurnState {
	order := make([]Actor, 0, len(playerIDs)+1)
	for _, id := range playerIDs {
		order = append(order, Actor{Kind: ActorPlayer, PlayerID: id})
	}
	order = append(order, Actor{Kind: ActorBoss})
	return &TurnState{State: TurnIdle, Round: 1, Order: order}
}

// Start moves the machine from idle to inProgress with the first actor up.
func (t *TurnState) Start() error {
	if t.State != TurnIdle {
		return errors.New("turn order already started")
	}
	t.State = TurnInProgress
	t.CurrentIndex = 0
	return nil
}

// Advance moves to the next actor. Advancing past the end of the order
// wraps to index 0 and increments the round; the wrap is reported so
// callers can announce round boundaries.
func (t *TurnState) Advance() (newRound bool, err error) {
	switch t.State {
	case TurnIdle:
		return false, ErrTurnsNotStarted
	case TurnEnded:
		return false, ErrTurnsEnded
	}
	t.CurrentIndex++
	if t.CurrentIndex > len(t.Order)-1 {
		t.CurrentIndex = 0
		t.Round++
		t.State = TurnRoundComplete
		return true, nil
	}
	t.State = TurnInProgress
	return false, nil
}

// CurrentActor returns the actor whose turn it is.
func (t *TurnState) CurrentActor() Actor {
	return t.Order[t.CurrentIndex]
}

// IsPlayerTurn reports whether it is the given player's turn.
func (t *TurnState) IsPlayerTurn(playerID string) bool {
	if t.State == TurnIdle || t.State == TurnEnded {
		return false
	}
	cur := t.CurrentActor()
	return cur.Kind == ActorPlayer && cur.PlayerID == playerID
}

// IsBossTurn reports whether the boss sentinel holds the turn.
func (t *TurnState) IsBossTurn() bool {
	if t.State == TurnIdle || t.State == TurnEnded {
		return false
	}
	return t.CurrentActor().IsBoss()
}

// ForceTurn jumps the rotation to the given player. Privileged debug path;
// normal play always advances sequentially.
func (t *TurnState) ForceTurn(playerID string) error {
	if t.State == TurnEnded {
		return ErrTurnsEnded
	}
	for i, a := range t.Order {
		if a.Kind == ActorPlayer && a.PlayerID == playerID {
			t.CurrentIndex = i
			t.State = TurnInProgress
			return nil
		}
	}
	return ErrActorNotInOrder
}

// End puts the machine in its terminal state. No further Advance is
// permitted.
func (t *TurnState) End() {
	t.State = TurnEnded
}
