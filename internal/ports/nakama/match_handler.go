package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"math/rand"
	"strconv"
	"time"

	"pokeraid/internal/app"
	"pokeraid/internal/config"
	"pokeraid/internal/domain"
	"pokeraid/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// MatchLabel is the queryable label advertised for this match.
type MatchLabel struct {
	Game string `json:"game"`
	Open int    `json:"open"`
}

// turnTimer tracks the idle-turn deadline for one session's current actor.
type turnTimer struct {
	Actor    string
	Deadline int64
}

// MatchState holds the authoritative runtime state for the Nakama match handler.
// One match hosts many raid sessions; the engine keys them by session id.
type MatchState struct {
	Tick          int64                       `json:"tick"`
	Presences     map[string]runtime.Presence `json:"-"`
	Engine        *app.Service                `json:"-"`
	ActionLog     ports.ActionLogPort         `json:"-"`
	Store         ports.SessionStorePort      `json:"-"`
	Rewards       ports.RewardsPort           `json:"-"`
	Invites       *app.InviteService          `json:"-"`
	RequireInvite bool                        `json:"require_invite"`
	BossMinDelay  int                         `json:"boss_min_delay"`
	BossMaxDelay  int                         `json:"boss_max_delay"`
	VictoryReward int64                       `json:"victory_reward"`
	BossWaitUntil map[string]int64            `json:"-"` // session id -> tick the boss acts at
	TurnTimers    map[string]*turnTimer       `json:"-"` // session id -> idle-turn deadline
	rng           *rand.Rand
}

// openSessionCount reports how many lobby sessions still accept players.
func (ms *MatchState) openSessionCount() int {
	count := 0
	for _, sess := range ms.Engine.Sessions() {
		if sess.Phase == domain.PhaseLobby && !sess.IsFull() {
			count++
		}
	}
	return count
}

// NewMatch is the factory function registered with Nakama.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return &matchHandler{}, nil
}

type matchHandler struct{}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing raid match handler.")

	if err := config.LoadRaidTuning("data/raid_config.json"); err != nil {
		logger.Warn("MatchInit: Could not load raid config: %v", err)
	}
	tuning := config.GetRaidTuning()

	state := &MatchState{
		Tick:          time.Now().Unix(),
		Presences:     make(map[string]runtime.Presence),
		Engine:        app.NewService(nil),
		ActionLog:     NewNakamaActionLogAdapter(nk),
		Store:         NewNakamaSessionStoreAdapter(nk),
		Rewards:       NewNakamaRewardsAdapter(nk),
		BossMinDelay:  tuning.BossMinDelaySeconds,
		BossMaxDelay:  tuning.BossMaxDelaySeconds,
		VictoryReward: tuning.VictoryReward,
		BossWaitUntil: make(map[string]int64),
		TurnTimers:    make(map[string]*turnTimer),
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	state.Engine.SetCheerHeal(tuning.CheerHeal)

	env := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	if val, ok := env["pokeraid_boss_min_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BossMinDelay = i
		}
	}
	if val, ok := env["pokeraid_boss_max_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BossMaxDelay = i
		}
	}
	if val, ok := env["pokeraid_victory_reward"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.VictoryReward = int64(i)
		}
	}
	if secret, ok := env["pokeraid_invite_secret"]; ok && secret != "" {
		issuer := env["pokeraid_invite_issuer"]
		if issuer == "" {
			issuer = "pokeraid"
		}
		state.Invites = app.NewInviteService(secret, issuer, time.Hour)
		state.RequireInvite = env["pokeraid_require_invite"] == "true"
	}

	if state.BossMinDelay <= 0 {
		state.BossMinDelay = 1
	}
	if state.BossMaxDelay < state.BossMinDelay {
		state.BossMaxDelay = state.BossMinDelay
	}

	labelBytes, err := json.Marshal(&MatchLabel{Game: "pokeraid", Open: 1})
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	tickRate := 1
	return state, tickRate, string(labelBytes)
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	if matchState.RequireInvite {
		token := metadata["invite_token"]
		if token == "" {
			return matchState, false, "invite required"
		}
		claims, err := matchState.Invites.VerifyToken(token)
		if err != nil {
			logger.Warn("MatchJoinAttempt: Invalid invite from %s: %v", presence.GetUserId(), err)
			return matchState, false, "invalid invite"
		}
		if claims.PlayerID != presence.GetUserId() {
			return matchState, false, "invite issued to another player"
		}
	}

	return matchState, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		matchState.Presences[p.GetUserId()] = p
		logger.Debug("MatchJoin: User %s connected.", p.GetUserId())
	}
	return matchState
}

// MatchLeave is called when one or more players disconnect. The player is
// removed from every raid session they belong to.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		delete(matchState.Presences, p.GetUserId())
		events := matchState.Engine.RemovePlayerEverywhere(p.GetUserId())
		mh.handleEvents(ctx, matchState, dispatcher, logger, events)
		logger.Debug("MatchLeave: User %s disconnected.", p.GetUserId())
	}

	if len(matchState.Presences) == 0 {
		logger.Info("MatchLeave: Terminating match with no players.")
		return nil
	}

	mh.updateLabel(matchState, dispatcher, logger)
	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpCreateRaid:
			mh.handleCreateRaid(ctx, matchState, dispatcher, logger, msg)
		case OpJoinRaid:
			mh.handleJoinRaid(ctx, matchState, dispatcher, logger, msg)
		case OpStartRaid:
			mh.handleStartRaid(ctx, matchState, dispatcher, logger, msg)
		case OpUpdateRaidLayout:
			mh.handleUpdateLayout(ctx, matchState, dispatcher, logger, msg)
		case OpRaidAction:
			mh.handleRaidAction(ctx, matchState, dispatcher, logger, msg)
		case OpLeaveRaid:
			mh.handleLeaveRaid(ctx, matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	mh.processBossTurns(ctx, matchState, dispatcher, logger)
	mh.processTurnTimeouts(ctx, matchState, dispatcher, logger)

	return matchState
}

type createRaidRequest struct {
	SessionID string            `json:"sessionId,omitempty"`
	Config    domain.RaidConfig `json:"config"`
}

func (mh *matchHandler) handleCreateRaid(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()

	var request createRaidRequest
	if err := json.Unmarshal(msg.GetData(), &request); err != nil {
		logger.Warn("handleCreateRaid: Invalid payload from %s: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, app.KindValidation, "invalid create payload")
		return
	}

	sess, events, err := state.Engine.CreateRaid(request.SessionID, senderID, request.Config)
	if err != nil {
		logger.Warn("handleCreateRaid: User %s failed to create raid: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, app.KindOf(err), err.Error())
		return
	}

	logger.Info("handleCreateRaid: Session %s created by %s (layout=%s, max=%d)", sess.ID, senderID, sess.Config.Layout, sess.Config.MaxPlayers)
	mh.handleEvents(ctx, state, dispatcher, logger, events)
	mh.updateLabel(state, dispatcher, logger)
}

type joinRaidRequest struct {
	SessionID string               `json:"sessionId"`
	Active    *domain.PokemonState `json:"active"`
	Bench     *domain.PokemonState `json:"bench,omitempty"`
}

func (mh *matchHandler) handleJoinRaid(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()

	var request joinRaidRequest
	if err := json.Unmarshal(msg.GetData(), &request); err != nil {
		logger.Warn("handleJoinRaid: Invalid payload from %s: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, app.KindValidation, "invalid join payload")
		return
	}

	username := senderID
	if p, ok := state.Presences[senderID]; ok {
		username = p.GetUsername()
	}

	events, err := state.Engine.JoinRaid(request.SessionID, senderID, username, request.Active, request.Bench)
	if err != nil {
		logger.Warn("handleJoinRaid: User %s failed to join %s: %v", senderID, request.SessionID, err)
		mh.sendError(state, dispatcher, logger, senderID, app.KindOf(err), err.Error())
		return
	}

	mh.handleEvents(ctx, state, dispatcher, logger, events)
	mh.updateLabel(state, dispatcher, logger)
}

type startRaidRequest struct {
	SessionID string `json:"sessionId"`
}

func (mh *matchHandler) handleStartRaid(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()

	var request startRaidRequest
	if err := json.Unmarshal(msg.GetData(), &request); err != nil {
		logger.Warn("handleStartRaid: Invalid payload from %s: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, app.KindValidation, "invalid start payload")
		return
	}

	raidType := ""
	if sess, ok := state.Engine.Session(request.SessionID); ok {
		raidType = sess.Config.Type
	}
	tmpl := config.GetBossTemplate(raidType)

	events, err := state.Engine.StartRaid(request.SessionID, senderID, tmpl)
	if err != nil {
		logger.Warn("handleStartRaid: User %s failed to start %s: %v", senderID, request.SessionID, err)
		mh.sendError(state, dispatcher, logger, senderID, app.KindOf(err), err.Error())
		return
	}

	logger.Info("handleStartRaid: Session %s started against %s.", request.SessionID, tmpl.Name)
	mh.handleEvents(ctx, state, dispatcher, logger, events)
	mh.resetTurnTimer(state, request.SessionID)
	mh.updateLabel(state, dispatcher, logger)
}

type updateLayoutRequest struct {
	SessionID string        `json:"sessionId"`
	Layout    domain.Layout `json:"layout"`
}

func (mh *matchHandler) handleUpdateLayout(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()

	var request updateLayoutRequest
	if err := json.Unmarshal(msg.GetData(), &request); err != nil {
		logger.Warn("handleUpdateLayout: Invalid payload from %s: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, app.KindValidation, "invalid layout payload")
		return
	}

	events, err := state.Engine.UpdateLayout(request.SessionID, request.Layout)
	if err != nil {
		mh.sendError(state, dispatcher, logger, senderID, app.KindOf(err), err.Error())
		return
	}
	mh.handleEvents(ctx, state, dispatcher, logger, events)
}

type raidActionRequest struct {
	SessionID string     `json:"sessionId"`
	Action    app.Action `json:"action"`
}

func (mh *matchHandler) handleRaidAction(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()

	var request raidActionRequest
	if err := json.Unmarshal(msg.GetData(), &request); err != nil {
		logger.Warn("handleRaidAction: Invalid payload from %s: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, app.KindValidation, "invalid action payload")
		return
	}

	round := 0
	if sess, ok := state.Engine.Session(request.SessionID); ok && sess.Turns != nil {
		round = sess.Turns.Round
	}

	events, err := state.Engine.ProcessAction(request.SessionID, senderID, request.Action)
	if err != nil {
		logger.Warn("handleRaidAction: User %s action %s failed in %s: %v", senderID, request.Action.Type, request.SessionID, err)
		mh.sendError(state, dispatcher, logger, senderID, app.KindOf(err), err.Error())
		return
	}

	mh.logAction(state, logger, ports.ActionLogEntry{
		SessionID: request.SessionID,
		Round:     round,
		ActorID:   senderID,
		Kind:      string(request.Action.Type),
		Detail:    request.Action,
		Timestamp: time.Now().Unix(),
	})
	mh.handleEvents(ctx, state, dispatcher, logger, events)
}

type leaveRaidRequest struct {
	SessionID string `json:"sessionId"`
}

func (mh *matchHandler) handleLeaveRaid(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()

	var request leaveRaidRequest
	if err := json.Unmarshal(msg.GetData(), &request); err != nil {
		mh.sendError(state, dispatcher, logger, senderID, app.KindValidation, "invalid leave payload")
		return
	}

	events, err := state.Engine.RemovePlayer(request.SessionID, senderID)
	if err != nil {
		mh.sendError(state, dispatcher, logger, senderID, app.KindOf(err), err.Error())
		return
	}
	mh.handleEvents(ctx, state, dispatcher, logger, events)
	mh.updateLabel(state, dispatcher, logger)
}

// processBossTurns drives the boss in every session where it is the boss's
// turn, after a randomized think delay so turns feel paced to clients.
func (mh *matchHandler) processBossTurns(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	for _, sess := range state.Engine.Sessions() {
		if sess.Phase != domain.PhaseActive || !sess.Turns.IsBossTurn() {
			delete(state.BossWaitUntil, sess.ID)
			continue
		}

		waitUntil, scheduled := state.BossWaitUntil[sess.ID]
		if !scheduled {
			delay := state.rng.Intn(state.BossMaxDelay-state.BossMinDelay+1) + state.BossMinDelay
			state.BossWaitUntil[sess.ID] = state.Tick + int64(delay)
			logger.Debug("processBossTurns: Boss in %s acts at tick %d (current %d)", sess.ID, state.Tick+int64(delay), state.Tick)
			continue
		}
		if state.Tick < waitUntil {
			continue
		}
		delete(state.BossWaitUntil, sess.ID)

		events, err := state.Engine.ProcessBossTurn(sess.ID)
		if err != nil {
			logger.Error("processBossTurns: Boss turn failed in %s: %v", sess.ID, err)
			continue
		}
		mh.logAction(state, logger, ports.ActionLogEntry{
			SessionID: sess.ID,
			Round:     sess.Turns.Round,
			ActorID:   "boss",
			Kind:      "boss_attack",
			Timestamp: time.Now().Unix(),
		})
		mh.handleEvents(ctx, state, dispatcher, logger, events)
	}
}

// processTurnTimeouts skips players who sit on their turn past the session's
// configured timeout. Sessions without a timeout are never skipped.
func (mh *matchHandler) processTurnTimeouts(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	for _, sess := range state.Engine.Sessions() {
		if sess.Phase != domain.PhaseActive || sess.Config.TurnTimeoutSeconds <= 0 {
			delete(state.TurnTimers, sess.ID)
			continue
		}
		actor := sess.Turns.CurrentActor()
		if actor.IsBoss() {
			delete(state.TurnTimers, sess.ID)
			continue
		}

		timer, ok := state.TurnTimers[sess.ID]
		if !ok || timer.Actor != actor.PlayerID {
			state.TurnTimers[sess.ID] = &turnTimer{
				Actor:    actor.PlayerID,
				Deadline: state.Tick + int64(sess.Config.TurnTimeoutSeconds),
			}
			continue
		}
		if state.Tick < timer.Deadline {
			continue
		}
		delete(state.TurnTimers, sess.ID)

		logger.Info("processTurnTimeouts: Skipping idle player %s in %s.", actor.PlayerID, sess.ID)
		events, err := state.Engine.SkipIdleTurn(sess.ID)
		if err != nil {
			logger.Error("processTurnTimeouts: Skip failed in %s: %v", sess.ID, err)
			continue
		}
		mh.handleEvents(ctx, state, dispatcher, logger, events)
	}
}

// resetTurnTimer forgets any pending deadline so the next loop re-arms it
// against the current actor.
func (mh *matchHandler) resetTurnTimer(state *MatchState, sessionID string) {
	delete(state.TurnTimers, sessionID)
}

// handleEvents broadcasts engine events and settles end-of-raid side effects.
func (mh *matchHandler) handleEvents(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
	for _, ev := range events {
		mh.broadcastEvent(state, dispatcher, logger, ev)
		if ev.Kind == app.EventRaidEnded {
			mh.settleRaid(ctx, state, logger, ev.Payload.(app.RaidEndedPayload))
		}
	}
}

// settleRaid pays survivors, persists the session summary and releases the
// engine's session state.
func (mh *matchHandler) settleRaid(ctx context.Context, state *MatchState, logger runtime.Logger, ended app.RaidEndedPayload) {
	matchID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)

	if sess, ok := state.Engine.Session(ended.SessionID); ok && state.Store != nil {
		record := ports.SessionRecord{
			SessionID: ended.SessionID,
			RaidType:  sess.Config.Type,
			BossName:  sess.Boss.Name,
			BossLevel: ended.BossLevel,
			Outcome:   ended.Outcome,
			Rounds:    ended.Rounds,
			EndedAt:   time.Now().Unix(),
		}
		for _, pl := range sess.PlayersInJoinOrder() {
			record.Participants = append(record.Participants, ports.ParticipantRecord{
				PlayerID: pl.ID,
				Username: pl.Username,
				Status:   pl.Status,
			})
		}
		go func() {
			if err := state.Store.SaveSession(context.Background(), record); err != nil {
				logger.Error("settleRaid: Failed to save session %s: %v", record.SessionID, err)
			}
		}()
	}

	if ended.Outcome == domain.OutcomeVictory && state.Rewards != nil && state.VictoryReward > 0 {
		level := int64(ended.BossLevel)
		if level < 1 {
			level = 1
		}
		grants := make([]ports.RewardGrant, 0, len(ended.Survivors))
		for _, playerID := range ended.Survivors {
			grants = append(grants, ports.RewardGrant{
				PlayerID: playerID,
				Amount:   state.VictoryReward * level,
				Metadata: map[string]interface{}{
					"match_id": matchID,
					"raid_id":  ended.SessionID,
					"reason":   "raid_victory",
				},
			})
		}
		if err := state.Rewards.GrantRewards(ctx, grants); err != nil {
			logger.Error("settleRaid: Failed to grant rewards for %s: %v", ended.SessionID, err)
		}
	}

	state.Engine.CloseSession(ended.SessionID)
	delete(state.BossWaitUntil, ended.SessionID)
	delete(state.TurnTimers, ended.SessionID)
	logger.Info("settleRaid: Session %s ended with %s after %d rounds.", ended.SessionID, ended.Outcome, ended.Rounds)
}

// logAction appends one entry to the durable action log without blocking the
// match loop.
func (mh *matchHandler) logAction(state *MatchState, logger runtime.Logger, entry ports.ActionLogEntry) {
	if state.ActionLog == nil {
		return
	}
	go func() {
		if err := state.ActionLog.AppendAction(context.Background(), entry); err != nil {
			logger.Error("logAction: Failed to persist action for %s: %v", entry.SessionID, err)
		}
	}()
}

var eventOpCodes = map[app.EventKind]int64{
	app.EventRaidCreated:   OpRaidCreated,
	app.EventRaidJoined:    OpRaidJoined,
	app.EventPlayerJoined:  OpPlayerJoinedRaid,
	app.EventPlayerLeft:    OpPlayerLeftRaid,
	app.EventLayoutUpdated: OpLayoutUpdated,
	app.EventRaidStarted:   OpRaidStarted,
	app.EventActionResult:  OpRaidActionResult,
	app.EventBossActed:     OpBossActed,
	app.EventTurnChanged:   OpTurnChanged,
	app.EventTurnSkipped:   OpTurnSkipped,
	app.EventRaidEnded:     OpRaidEnded,
}

// broadcastEvent dispatches one engine event to its recipients, or to the
// members of its session. The match hosts many sessions, so a session event
// must never reach the whole match.
func (mh *matchHandler) broadcastEvent(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	opCode, ok := eventOpCodes[ev.Kind]
	if !ok {
		logger.Warn("Unknown event kind: %v", ev.Kind)
		return
	}

	bytes, err := json.Marshal(ev.Payload)
	if err != nil {
		logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
		return
	}

	var recipients []runtime.Presence
	switch {
	case len(ev.Recipients) > 0:
		for _, uid := range ev.Recipients {
			if p, ok := state.Presences[uid]; ok {
				recipients = append(recipients, p)
			}
		}
	case ev.SessionID != "":
		sess, ok := state.Engine.Session(ev.SessionID)
		if !ok {
			return
		}
		for uid := range sess.Players {
			if p, ok := state.Presences[uid]; ok {
				recipients = append(recipients, p)
			}
		}
	default:
		logger.Warn("Dropping unscoped event %v", ev.Kind)
		return
	}

	// The intended recipients are gone; never widen a scoped event into a
	// match broadcast.
	if len(recipients) == 0 {
		return
	}

	if err := dispatcher.BroadcastMessage(opCode, bytes, recipients, nil, true); err != nil {
		logger.Error("Failed to broadcast event %v: %v", ev.Kind, err)
	}
}

// raidErrorPayload is the unicast error envelope sent to the offending actor.
type raidErrorPayload struct {
	Kind    app.ErrorKind `json:"kind"`
	Message string        `json:"message"`
}

// sendError sends a raid error to a specific user.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, kind app.ErrorKind, message string) {
	bytes, err := json.Marshal(raidErrorPayload{Kind: kind, Message: message})
	if err != nil {
		logger.Error("Failed to marshal raid error: %v", err)
		return
	}

	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("Cannot send error to %s: Presence not found", userID)
		return
	}

	dispatcher.BroadcastMessage(OpRaidActionFailed, bytes, []runtime.Presence{presence}, nil, true)
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	// Joinable sessions plus one: the match always has room for a new raid.
	labelBytes, err := json.Marshal(&MatchLabel{Game: "pokeraid", Open: state.openSessionCount() + 1})
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(string(labelBytes)); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: Match terminated for reason %d", reason)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
