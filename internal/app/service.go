package app

import (
	"math/rand"
	"time"

	"pokeraid/internal/bot"
	"pokeraid/internal/domain"

	"github.com/google/uuid"
)

// Service is the raid engine: it owns every active session keyed by session
// id, routes actions to the owning session and emits the events the gateway
// broadcasts. Sessions are mutated only through Service entry points; the
// hosting match loop guarantees one action in flight per match.
type Service struct {
	rng       *rand.Rand
	combat    *domain.Combat
	cheerHeal int
	sessions  map[string]*domain.RaidSession
	agents    map[string]*bot.Agent
}

// NewService constructs a Service with the provided rng or a time-seeded
// default.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{
		rng:       rng,
		combat:    domain.NewCombat(rng),
		cheerHeal: DefaultCheerHeal,
		sessions:  make(map[string]*domain.RaidSession),
		agents:    make(map[string]*bot.Agent),
	}
}

// Combat exposes the combat calculator, mainly so tests can pin its rolls.
func (s *Service) Combat() *domain.Combat {
	return s.combat
}

// SetCheerHeal overrides the HP restored by cheer actions.
func (s *Service) SetCheerHeal(hp int) {
	if hp > 0 {
		s.cheerHeal = hp
	}
}

// Session returns the session with the given id.
func (s *Service) Session(id string) (*domain.RaidSession, bool) {
	sess, ok := s.sessions[id]
	return sess, ok
}

// Sessions returns all live sessions.
func (s *Service) Sessions() []*domain.RaidSession {
	out := make([]*domain.RaidSession, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess)
	}
	return out
}

// SessionIDsFor lists the sessions a player currently belongs to.
func (s *Service) SessionIDsFor(playerID string) []string {
	var out []string
	for id, sess := range s.sessions {
		if _, ok := sess.Players[playerID]; ok {
			out = append(out, id)
		}
	}
	return out
}

// CreateRaid registers a new session in the lobby phase. An empty id mints
// one. Fails with Conflict when the id already exists. The confirmation is
// addressed to the creator, who has not joined the session yet.
func (s *Service) CreateRaid(id, creatorID string, cfg domain.RaidConfig) (*domain.RaidSession, []Event, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if _, exists := s.sessions[id]; exists {
		return nil, nil, Conflictf("session %s already exists", id)
	}
	if cfg.MaxPlayers > MaxRaidPlayers {
		return nil, nil, Validationf("maxPlayers %d exceeds cap %d", cfg.MaxPlayers, MaxRaidPlayers)
	}

	sess := domain.NewRaidSession(id, cfg)
	s.sessions[id] = sess

	events := []Event{{
		Kind:       EventRaidCreated,
		SessionID:  id,
		Payload:    RaidCreatedPayload{SessionID: id, Config: sess.Config},
		Recipients: []string{creatorID},
	}}
	return sess, events, nil
}

// JoinRaid adds a player to a lobby-phase session and recomputes positions.
func (s *Service) JoinRaid(sessionID, playerID, username string, active, bench *domain.PokemonState) ([]Event, error) {
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, NotFoundf("unknown session: %s", sessionID)
	}
	if sess.Phase != domain.PhaseLobby {
		return nil, Conflictf("session %s is not accepting players", sessionID)
	}
	if sess.IsFull() {
		return nil, Conflictf("session %s is full", sessionID)
	}
	if _, member := sess.Players[playerID]; member {
		return nil, Conflictf("player %s already joined", playerID)
	}
	if err := validatePokemon(active); err != nil {
		return nil, err
	}
	if bench != nil {
		if err := validatePokemon(bench); err != nil {
			return nil, err
		}
	}

	pl := &domain.PlayerState{
		ID:          playerID,
		Username:    username,
		Active:      active,
		Bench:       bench,
		Status:      domain.PlayerActive,
		CanUseCheer: true,
	}
	sess.AddPlayer(pl)

	yours, _ := sess.PositionOf(playerID)
	events := []Event{
		{
			Kind:      EventRaidJoined,
			SessionID: sessionID,
			Payload: RaidJoinedPayload{
				SessionID:    sessionID,
				PlayerID:     playerID,
				YourPosition: yours,
				AllPositions: sess.Positions,
				State:        s.snapshot(sess),
			},
			Recipients: []string{playerID},
		},
		{
			Kind:      EventPlayerJoined,
			SessionID: sessionID,
			Payload: PlayerJoinedPayload{
				SessionID:    sessionID,
				PlayerID:     playerID,
				Username:     username,
				Position:     yours,
				AllPositions: sess.Positions,
			},
		},
	}
	return events, nil
}

func validatePokemon(p *domain.PokemonState) *Error {
	if p == nil {
		return Validationf("pokemon is required")
	}
	if p.MaxHP <= 0 {
		return Validationf("pokemon %s has no HP", p.Name)
	}
	if p.CurrentHP <= 0 || p.CurrentHP > p.MaxHP {
		p.CurrentHP = p.MaxHP
	}
	if len(p.Attacks) == 0 {
		return Validationf("pokemon %s has no attacks", p.Name)
	}
	p.StatusEffects = nil
	return nil
}

// StartRaid moves a session from lobby to active: derives the boss from the
// party's aggregate attack strength, fixes the turn order and arms the boss
// agent. Any member can start once minPlayers is met.
func (s *Service) StartRaid(sessionID, actorID string, tmpl domain.BossTemplate) ([]Event, error) {
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, NotFoundf("unknown session: %s", sessionID)
	}
	if _, member := sess.Players[actorID]; !member {
		return nil, Unauthorizedf("player %s is not a member of session %s", actorID, sessionID)
	}
	if sess.Phase != domain.PhaseLobby {
		return nil, Conflictf("session %s already started", sessionID)
	}
	if len(sess.Players) < sess.Config.MinPlayers {
		return nil, Conflictf("need %d players, have %d", sess.Config.MinPlayers, len(sess.Players))
	}
	if len(tmpl.Attacks) == 0 || len(tmpl.Cards) == 0 {
		return nil, Validationf("boss template %s is incomplete", tmpl.Name)
	}

	agent, err := bot.NewAgent(sess.Config.Strategy)
	if err != nil {
		return nil, Validationf("%v", err)
	}

	strength := domain.AggregateAttackStrength(sess.PlayersInJoinOrder())
	sess.Boss = domain.NewBossState(tmpl, strength, len(sess.Players), s.rng)
	sess.Turns = domain.NewTurnState(sess.JoinOrder)
	if err := sess.Turns.Start(); err != nil {
		return nil, Conflictf("%v", err)
	}
	sess.Phase = domain.PhaseActive
	s.agents[sessionID] = agent

	order := make([]string, len(sess.Turns.Order))
	for i, a := range sess.Turns.Order {
		order[i] = a.Label()
	}

	events := []Event{{
		Kind:      EventRaidStarted,
		SessionID: sessionID,
		Payload: RaidStartedPayload{
			SessionID:      sessionID,
			BossName:       sess.Boss.Name,
			BossLevel:      sess.Boss.Level,
			BossMaxHP:      sess.Boss.MaxHP,
			AttacksPerTurn: sess.Boss.AttacksPerTurn,
			TurnOrder:      order,
			Round:          sess.Turns.Round,
			CurrentActor:   sess.Turns.CurrentActor().Label(),
		},
	}}
	return events, nil
}

// UpdateLayout switches the geometric arrangement. Lobby phase only.
func (s *Service) UpdateLayout(sessionID string, layout domain.Layout) ([]Event, error) {
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, NotFoundf("unknown session: %s", sessionID)
	}
	if sess.Phase != domain.PhaseLobby {
		return nil, Conflictf("layout can only change in the lobby")
	}
	if layout != domain.LayoutVersus && layout != domain.LayoutCircular {
		return nil, Validationf("unknown layout: %s", layout)
	}

	sess.Config.Layout = layout
	sess.RecomputePositions()

	bx, by := domain.BossPosition(layout)
	events := []Event{{
		Kind:      EventLayoutUpdated,
		SessionID: sessionID,
		Payload: LayoutUpdatedPayload{
			SessionID: sessionID,
			Layout:    layout,
			Positions: sess.Positions,
			BossX:     bx,
			BossY:     by,
		},
	}}
	return events, nil
}

// ProcessAction validates and executes one player action, then advances the
// turn. All failures leave the session untouched.
func (s *Service) ProcessAction(sessionID, actorID string, action Action) ([]Event, error) {
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, NotFoundf("unknown session: %s", sessionID)
	}
	switch sess.Phase {
	case domain.PhaseEnded:
		return nil, GameOverf("session %s has ended", sessionID)
	case domain.PhaseLobby:
		return nil, Conflictf("session %s has not started", sessionID)
	}
	pl, member := sess.Players[actorID]
	if !member {
		return nil, NotFoundf("unknown player: %s", actorID)
	}
	if !sess.Turns.IsPlayerTurn(actorID) {
		return nil, Unauthorizedf("not %s's turn", actorID)
	}
	if pl.Status != domain.PlayerActive {
		return nil, Unauthorizedf("player %s is out of the fight", actorID)
	}
	if err := action.validate(pl); err != nil {
		return nil, err
	}

	var events []Event
	var err error
	switch action.Type {
	case ActionAttack:
		events, err = s.executeAttack(sess, pl, action)
	case ActionRetreat:
		events, err = s.executeRetreat(sess, pl)
	case ActionCheer:
		events, err = s.executeCheer(sess, pl, action)
	}
	if err != nil {
		return nil, err
	}

	// Victory can end the session mid-action; the attack path emits the
	// final events itself.
	if sess.Phase == domain.PhaseEnded {
		return events, nil
	}
	return append(events, s.endOfTurn(sess, pl)...), nil
}

func (s *Service) executeAttack(sess *domain.RaidSession, pl *domain.PlayerState, action Action) ([]Event, error) {
	attack := pl.Active.Attacks[action.AttackIndex]

	var modifiers []domain.Modifier
	if sess.CheerBoost {
		modifiers = append(modifiers, domain.ModifierCheer)
	}
	if action.Boost {
		if pl.UsedBoost {
			return nil, Conflictf("boosted attack already used")
		}
		modifiers = append(modifiers, domain.ModifierBoost)
	}

	payload := ActionResultPayload{
		SessionID:  sess.ID,
		ActorID:    pl.ID,
		ActionType: ActionAttack,
		AttackName: attack.Name,
	}

	// Modifiers are consumed even when the attack misfires or the boss
	// resists the hit.
	sess.CheerBoost = false
	if action.Boost {
		pl.UsedBoost = true
	}

	// Confusion: coin flip, attack strikes the player's own active Pokémon
	// at neutral effectiveness instead of the boss.
	if domain.ForcesRandomTarget(pl.Active) && s.combat.ConfusionRoll() {
		self := s.combat.CalculateDamage(pl.Active, pl.Active, domain.Attack{Name: attack.Name, Damage: attack.Damage}, nil)
		domain.ApplyDamage(pl.Active, self)
		payload.Result = &self
		payload.SelfInflicted = true
		payload.BossHP = sess.Boss.CurrentHP
		events := []Event{{Kind: EventActionResult, SessionID: sess.ID, Payload: payload}}
		if pl.Active.IsKO() {
			pl.PromoteBench()
		}
		if over, outcome := domain.IsGameOver(sess.Boss, sess.PlayersInJoinOrder()); over {
			events = append(events, s.endSession(sess, outcome))
		}
		return events, nil
	}

	defender := &domain.PokemonState{Name: sess.Boss.Name, Type: sess.Boss.Type, CurrentHP: sess.Boss.CurrentHP, MaxHP: sess.Boss.MaxHP}
	result := s.combat.CalculateDamage(pl.Active, defender, attack, modifiers)
	dealt := result.Damage
	if dealt > sess.Boss.CurrentHP {
		dealt = sess.Boss.CurrentHP
	}
	sess.Boss.CurrentHP -= dealt

	payload.Result = &result
	payload.BossHP = sess.Boss.CurrentHP
	events := []Event{{Kind: EventActionResult, SessionID: sess.ID, Payload: payload}}

	if over, outcome := domain.IsGameOver(sess.Boss, sess.PlayersInJoinOrder()); over {
		events = append(events, s.endSession(sess, outcome))
	}
	return events, nil
}

func (s *Service) executeRetreat(sess *domain.RaidSession, pl *domain.PlayerState) ([]Event, error) {
	if err := domain.ProcessRetreat(pl); err != nil {
		return nil, Conflictf("%v", err)
	}
	payload := ActionResultPayload{
		SessionID:     sess.ID,
		ActorID:       pl.ID,
		ActionType:    ActionRetreat,
		BossHP:        sess.Boss.CurrentHP,
		ActivePokemon: pl.Active.Name,
	}
	return []Event{{Kind: EventActionResult, SessionID: sess.ID, Payload: payload}}, nil
}

func (s *Service) executeCheer(sess *domain.RaidSession, pl *domain.PlayerState, action Action) ([]Event, error) {
	if !pl.CanUseCheer {
		return nil, Conflictf("player %s already cheered", pl.ID)
	}
	if sess.CheerPool <= 0 {
		return nil, Conflictf("cheer pool exhausted")
	}

	target := pl
	if action.TargetPlayerID != "" && action.TargetPlayerID != pl.ID {
		t, ok := sess.Players[action.TargetPlayerID]
		if !ok {
			return nil, NotFoundf("unknown player: %s", action.TargetPlayerID)
		}
		target = t
	}
	if target.Active == nil || target.Active.IsKO() {
		return nil, Conflictf("cheer target has no healthy active pokemon")
	}

	healed, _ := domain.HealPokemon(target.Active, s.cheerHeal)
	pl.CanUseCheer = false
	sess.CheerPool--
	sess.CheerBoost = true

	payload := ActionResultPayload{
		SessionID:    sess.ID,
		ActorID:      pl.ID,
		ActionType:   ActionCheer,
		BossHP:       sess.Boss.CurrentHP,
		HealedPlayer: target.ID,
		HealedAmount: healed,
		CheerPool:    sess.CheerPool,
	}
	return []Event{{Kind: EventActionResult, SessionID: sess.ID, Payload: payload}}, nil
}

// ProcessBossTurn runs the boss's turn through its agent. Boss actions are
// generated internally and never accepted from clients.
func (s *Service) ProcessBossTurn(sessionID string) ([]Event, error) {
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, NotFoundf("unknown session: %s", sessionID)
	}
	if sess.Phase != domain.PhaseActive {
		return nil, Conflictf("session %s is not active", sessionID)
	}
	if !sess.Turns.IsBossTurn() {
		return nil, Conflictf("it is not the boss's turn")
	}

	agent := s.agents[sessionID]
	intention, err := agent.Act(sess, s.rng)
	if err != nil {
		return nil, Conflictf("boss agent failed: %v", err)
	}

	attacker := &domain.PokemonState{Name: sess.Boss.Name, Type: sess.Boss.Type}
	base := domain.BossAttackDamage(intention.Attack.Damage, sess.Boss.Level, intention.Attack.Area)

	payload := BossActedPayload{SessionID: sessionID, CardName: intention.Card.Name}
	for strike := 0; strike < intention.Strikes; strike++ {
		for _, targetID := range intention.TargetIDs {
			target, ok := sess.Players[targetID]
			if !ok || target.Status != domain.PlayerActive {
				continue
			}
			hit := s.combat.CalculateDamage(attacker, target.Active, domain.Attack{
				Name:   intention.Attack.Name,
				Damage: base,
				Type:   intention.Attack.Type,
			}, nil)
			domain.ApplyDamage(target.Active, hit)

			rec := BossStrike{
				TargetID:   targetID,
				AttackName: intention.Attack.Name,
				Result:     hit,
				TargetHP:   target.Active.CurrentHP,
			}
			if intention.Attack.Inflicts != "" && !target.Active.IsKO() {
				domain.ApplyStatusEffect(target.Active, intention.Attack.Inflicts, intention.Attack.InflictTurns)
				rec.Inflicted = intention.Attack.Inflicts
			}
			if target.Active.IsKO() {
				rec.PokemonKO = true
				rec.BenchPromoted = target.PromoteBench()
				rec.PlayerKO = target.Status == domain.PlayerKO
			}
			payload.Strikes = append(payload.Strikes, rec)
		}
	}

	events := []Event{{Kind: EventBossActed, SessionID: sessionID, Payload: payload}}
	if over, outcome := domain.IsGameOver(sess.Boss, sess.PlayersInJoinOrder()); over {
		return append(events, s.endSession(sess, outcome)), nil
	}
	return append(events, s.advanceTurn(sess)...), nil
}

// SkipIdleTurn forcibly ends the current player's turn. Used by the gateway
// when a session enables turn timeouts.
func (s *Service) SkipIdleTurn(sessionID string) ([]Event, error) {
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, NotFoundf("unknown session: %s", sessionID)
	}
	if sess.Phase != domain.PhaseActive {
		return nil, Conflictf("session %s is not active", sessionID)
	}
	actor := sess.Turns.CurrentActor()
	if actor.IsBoss() {
		return nil, Conflictf("boss turns are never skipped")
	}

	events := []Event{{
		Kind:      EventTurnSkipped,
		SessionID: sessionID,
		Payload:   TurnSkippedPayload{SessionID: sessionID, PlayerID: actor.PlayerID, Reason: "timeout"},
	}}
	if pl, ok := sess.Players[actor.PlayerID]; ok && pl.Status == domain.PlayerActive {
		events = append(events, s.endOfTurn(sess, pl)...)
	} else {
		events = append(events, s.advanceTurn(sess)...)
	}
	return events, nil
}

// RemovePlayer detaches a player from a session. Zero remaining players
// destroy the session; otherwise positions are recomputed and the remaining
// members are notified.
func (s *Service) RemovePlayer(sessionID, playerID string) ([]Event, error) {
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, NotFoundf("unknown session: %s", sessionID)
	}
	wasTheirTurn := sess.Phase == domain.PhaseActive && sess.Turns.IsPlayerTurn(playerID)
	if !sess.RemovePlayer(playerID) {
		return nil, NotFoundf("unknown player: %s", playerID)
	}

	if len(sess.Players) == 0 {
		s.CloseSession(sessionID)
		return []Event{{
			Kind:       EventPlayerLeft,
			SessionID:  sessionID,
			Payload:    PlayerLeftPayload{SessionID: sessionID, PlayerID: playerID, SessionClosed: true},
			Recipients: []string{playerID},
		}}, nil
	}

	events := []Event{{
		Kind:      EventPlayerLeft,
		SessionID: sessionID,
		Payload:   PlayerLeftPayload{SessionID: sessionID, PlayerID: playerID, Positions: sess.Positions},
	}}

	if sess.Phase == domain.PhaseActive {
		if over, outcome := domain.IsGameOver(sess.Boss, sess.PlayersInJoinOrder()); over {
			return append(events, s.endSession(sess, outcome)), nil
		}
		if wasTheirTurn {
			events = append(events, s.advanceTurn(sess)...)
		}
	}
	return events, nil
}

// RemovePlayerEverywhere handles a disconnect: the player leaves every
// session they belong to.
func (s *Service) RemovePlayerEverywhere(playerID string) []Event {
	var events []Event
	for _, sessionID := range s.SessionIDsFor(playerID) {
		evs, err := s.RemovePlayer(sessionID, playerID)
		if err == nil {
			events = append(events, evs...)
		}
	}
	return events
}

// CurrentActor reports whose turn it is in the session.
func (s *Service) CurrentActor(sessionID string) (domain.Actor, error) {
	sess, ok := s.sessions[sessionID]
	if !ok {
		return domain.Actor{}, NotFoundf("unknown session: %s", sessionID)
	}
	if sess.Phase != domain.PhaseActive {
		return domain.Actor{}, Conflictf("session %s is not active", sessionID)
	}
	return sess.Turns.CurrentActor(), nil
}

// endOfTurn ticks the acting player's status effects and advances the turn.
func (s *Service) endOfTurn(sess *domain.RaidSession, pl *domain.PlayerState) []Event {
	var events []Event
	if ticks := domain.TickStatusEffects(pl.Active); len(ticks) > 0 {
		if pl.Active.IsKO() {
			pl.PromoteBench()
		}
		events = append(events, Event{
			Kind:      EventTurnSkipped,
			SessionID: sess.ID,
			Payload:   TurnSkippedPayload{SessionID: sess.ID, PlayerID: pl.ID, Reason: "status", StatusTicks: ticks},
		})
		if over, outcome := domain.IsGameOver(sess.Boss, sess.PlayersInJoinOrder()); over {
			return append(events, s.endSession(sess, outcome))
		}
	}
	return append(events, s.advanceTurn(sess)...)
}

// advanceTurn moves the rotation forward, auto-advancing past eliminated
// players and players whose active Pokémon forces a skip. The boss slot
// always stops the scan.
func (s *Service) advanceTurn(sess *domain.RaidSession) []Event {
	var events []Event
	newRound := false
	for range sess.Turns.Order {
		wrapped, err := sess.Turns.Advance()
		if err != nil {
			return events
		}
		newRound = newRound || wrapped

		actor := sess.Turns.CurrentActor()
		if actor.IsBoss() {
			break
		}

		pl, ok := sess.Players[actor.PlayerID]
		if !ok || pl.Status != domain.PlayerActive {
			events = append(events, Event{
				Kind:      EventTurnSkipped,
				SessionID: sess.ID,
				Payload:   TurnSkippedPayload{SessionID: sess.ID, PlayerID: actor.PlayerID, Reason: "eliminated"},
			})
			continue
		}
		if domain.SkipsTurn(pl.Active) {
			ticks := domain.TickStatusEffects(pl.Active)
			if pl.Active.IsKO() {
				pl.PromoteBench()
			}
			events = append(events, Event{
				Kind:      EventTurnSkipped,
				SessionID: sess.ID,
				Payload:   TurnSkippedPayload{SessionID: sess.ID, PlayerID: actor.PlayerID, Reason: "status", StatusTicks: ticks},
			})
			if over, outcome := domain.IsGameOver(sess.Boss, sess.PlayersInJoinOrder()); over {
				return append(events, s.endSession(sess, outcome))
			}
			continue
		}
		break
	}

	events = append(events, Event{
		Kind:      EventTurnChanged,
		SessionID: sess.ID,
		Payload: TurnChangedPayload{
			SessionID: sess.ID,
			Actor:     sess.Turns.CurrentActor().Label(),
			Round:     sess.Turns.Round,
			NewRound:  newRound,
		},
	})
	return events
}

// endSession moves the session to its terminal phase and reports the
// outcome. Survivors are listed so the gateway can settle rewards.
func (s *Service) endSession(sess *domain.RaidSession, outcome domain.Outcome) Event {
	sess.Phase = domain.PhaseEnded
	sess.Outcome = outcome
	sess.Turns.End()

	var survivors []string
	if outcome == domain.OutcomeVictory {
		for _, pl := range sess.ActivePlayers() {
			survivors = append(survivors, pl.ID)
		}
	}
	return Event{
		Kind:      EventRaidEnded,
		SessionID: sess.ID,
		Payload: RaidEndedPayload{
			SessionID: sess.ID,
			Outcome:   outcome,
			BossLevel: sess.Boss.Level,
			Rounds:    sess.Turns.Round,
			BossHP:    sess.Boss.CurrentHP,
			Survivors: survivors,
		},
	}
}

// CloseSession drops a session from the registry. Ended sessions stay
// queryable until the gateway closes them, so late actions fail with a
// game-over error rather than not-found.
func (s *Service) CloseSession(sessionID string) {
	delete(s.sessions, sessionID)
	delete(s.agents, sessionID)
}

func (s *Service) snapshot(sess *domain.RaidSession) SessionSnapshot {
	return SessionSnapshot{
		SessionID: sess.ID,
		Config:    sess.Config,
		Phase:     sess.Phase,
		Players:   sess.PlayersInJoinOrder(),
		Positions: sess.Positions,
		Boss:      sess.Boss,
		Turn:      sess.Turns,
		CheerPool: sess.CheerPool,
	}
}
