package app

import (
	"math"
	"math/rand"
	"testing"

	"pokeraid/internal/domain"
)

// newTestService pins the combat rolls so damage numbers are exact.
func newTestService() *Service {
	svc := NewService(rand.New(rand.NewSource(1)))
	svc.Combat().Variance = func() float64 { return 1.0 }
	svc.Combat().CritRoll = func() bool { return false }
	svc.Combat().ConfusionRoll = func() bool { return false }
	return svc
}

func testPokemon(name string, hp int, attacks ...domain.Attack) *domain.PokemonState {
	return &domain.PokemonState{
		Name:      name,
		Type:      domain.TypeColorless,
		CurrentHP: hp,
		MaxHP:     hp,
		Attacks:   attacks,
	}
}

func testBossTemplate(baseHP, attackDamage int) domain.BossTemplate {
	return domain.BossTemplate{
		Name:   "Gyarados",
		BaseHP: baseHP,
		Attacks: []domain.BossAttack{
			{Attack: domain.Attack{Name: "Bite", Damage: attackDamage}, Tier: domain.TierLight},
		},
		Cards: []domain.BossCard{
			{Name: "Lunge", Tier: domain.TierLight, Attacks: 1, TargetSlot: -1},
		},
	}
}

func mustCreateAndJoin(t *testing.T, svc *Service, cfg domain.RaidConfig, players ...string) *domain.RaidSession {
	t.Helper()
	sess, _, err := svc.CreateRaid("raid-1", players[0], cfg)
	if err != nil {
		t.Fatalf("create raid: %v", err)
	}
	for _, id := range players {
		_, err := svc.JoinRaid(sess.ID, id, id, testPokemon(id+"-mon", 100, domain.Attack{Name: "Tackle", Damage: 60}), nil)
		if err != nil {
			t.Fatalf("join %s: %v", id, err)
		}
	}
	return sess
}

func findEvent(events []Event, kind EventKind) (Event, bool) {
	for _, ev := range events {
		if ev.Kind == kind {
			return ev, true
		}
	}
	return Event{}, false
}

func TestVersusLayoutAssignsBandAngles(t *testing.T) {
	svc := newTestService()
	sess := mustCreateAndJoin(t, svc, domain.RaidConfig{Layout: domain.LayoutVersus, MaxPlayers: 2}, "alice", "bob")

	if len(sess.Positions) != 2 {
		t.Fatalf("positions = %d, want 2", len(sess.Positions))
	}
	wantAngles := []float64{30, 60}
	for i, pos := range sess.Positions {
		if math.Abs(pos.Angle-wantAngles[i]) > 1e-9 {
			t.Errorf("position %d angle = %v, want %v", i, pos.Angle, wantAngles[i])
		}
	}
	if _, err := svc.JoinRaid(sess.ID, "carol", "carol", testPokemon("carol-mon", 100, domain.Attack{Name: "Tackle", Damage: 60}), nil); KindOf(err) != KindConflict {
		t.Fatalf("join over capacity error kind = %v, want conflict", KindOf(err))
	}
}

func TestAttackReducesBossHP(t *testing.T) {
	svc := newTestService()
	sess := mustCreateAndJoin(t, svc, domain.RaidConfig{}, "alice")
	if _, err := svc.StartRaid(sess.ID, "alice", testBossTemplate(100, 10)); err != nil {
		t.Fatalf("start raid: %v", err)
	}
	if sess.Boss.MaxHP != 100 {
		t.Fatalf("boss hp = %d, want 100", sess.Boss.MaxHP)
	}

	events, err := svc.ProcessAction(sess.ID, "alice", Action{Type: ActionAttack, AttackIndex: 0})
	if err != nil {
		t.Fatalf("attack: %v", err)
	}
	ev, ok := findEvent(events, EventActionResult)
	if !ok {
		t.Fatal("missing action result event")
	}
	result := ev.Payload.(ActionResultPayload)
	if result.Result.Damage != 60 {
		t.Errorf("damage = %d, want 60", result.Result.Damage)
	}
	if result.BossHP != 40 {
		t.Errorf("boss hp = %d, want 40", result.BossHP)
	}
	if sess.Phase != domain.PhaseActive {
		t.Errorf("phase = %s, want active", sess.Phase)
	}
	if !sess.Turns.IsBossTurn() {
		t.Error("expected the boss turn after the only player acted")
	}
}

func TestVictoryEndsSession(t *testing.T) {
	svc := newTestService()
	sess := mustCreateAndJoin(t, svc, domain.RaidConfig{}, "alice")
	if _, err := svc.StartRaid(sess.ID, "alice", testBossTemplate(100, 10)); err != nil {
		t.Fatalf("start raid: %v", err)
	}

	if _, err := svc.ProcessAction(sess.ID, "alice", Action{Type: ActionAttack, AttackIndex: 0}); err != nil {
		t.Fatalf("first attack: %v", err)
	}
	if _, err := svc.ProcessBossTurn(sess.ID); err != nil {
		t.Fatalf("boss turn: %v", err)
	}

	events, err := svc.ProcessAction(sess.ID, "alice", Action{Type: ActionAttack, AttackIndex: 0})
	if err != nil {
		t.Fatalf("finishing attack: %v", err)
	}
	ev, ok := findEvent(events, EventRaidEnded)
	if !ok {
		t.Fatal("missing raid ended event")
	}
	ended := ev.Payload.(RaidEndedPayload)
	if ended.Outcome != domain.OutcomeVictory {
		t.Errorf("outcome = %s, want victory", ended.Outcome)
	}
	if len(ended.Survivors) != 1 || ended.Survivors[0] != "alice" {
		t.Errorf("survivors = %v, want [alice]", ended.Survivors)
	}
	if sess.Phase != domain.PhaseEnded {
		t.Errorf("phase = %s, want ended", sess.Phase)
	}

	// Late actions on an ended session report game over, not not-found.
	_, err = svc.ProcessAction(sess.ID, "alice", Action{Type: ActionAttack, AttackIndex: 0})
	if KindOf(err) != KindGameOver {
		t.Fatalf("post-game action error kind = %v, want game_over", KindOf(err))
	}

	svc.CloseSession(sess.ID)
	if _, err := svc.ProcessAction(sess.ID, "alice", Action{Type: ActionAttack, AttackIndex: 0}); KindOf(err) != KindNotFound {
		t.Fatalf("closed session error kind = %v, want not_found", KindOf(err))
	}
}

func TestBossWipeEndsInDefeat(t *testing.T) {
	svc := newTestService()
	sess := mustCreateAndJoin(t, svc, domain.RaidConfig{Strategy: "aggressive"}, "alice")
	if _, err := svc.StartRaid(sess.ID, "alice", testBossTemplate(100, 999)); err != nil {
		t.Fatalf("start raid: %v", err)
	}
	if _, err := svc.ProcessAction(sess.ID, "alice", Action{Type: ActionAttack, AttackIndex: 0}); err != nil {
		t.Fatalf("attack: %v", err)
	}

	events, err := svc.ProcessBossTurn(sess.ID)
	if err != nil {
		t.Fatalf("boss turn: %v", err)
	}
	acted, ok := findEvent(events, EventBossActed)
	if !ok {
		t.Fatal("missing boss acted event")
	}
	strikes := acted.Payload.(BossActedPayload).Strikes
	if len(strikes) != 1 {
		t.Fatalf("strikes = %d, want 1", len(strikes))
	}
	if !strikes[0].PokemonKO || !strikes[0].PlayerKO {
		t.Errorf("strike = %+v, want pokemon and player KO", strikes[0])
	}

	ev, ok := findEvent(events, EventRaidEnded)
	if !ok {
		t.Fatal("missing raid ended event")
	}
	if outcome := ev.Payload.(RaidEndedPayload).Outcome; outcome != domain.OutcomeDefeat {
		t.Errorf("outcome = %s, want defeat", outcome)
	}
}

func TestOutOfTurnActionRejectedWithoutMutation(t *testing.T) {
	svc := newTestService()
	sess := mustCreateAndJoin(t, svc, domain.RaidConfig{MinPlayers: 2}, "alice", "bob")
	if _, err := svc.StartRaid(sess.ID, "alice", testBossTemplate(100, 10)); err != nil {
		t.Fatalf("start raid: %v", err)
	}
	hpBefore := sess.Boss.CurrentHP

	_, err := svc.ProcessAction(sess.ID, "bob", Action{Type: ActionAttack, AttackIndex: 0})
	if KindOf(err) != KindUnauthorized {
		t.Fatalf("error kind = %v, want unauthorized", KindOf(err))
	}
	if sess.Boss.CurrentHP != hpBefore {
		t.Errorf("boss hp changed on a rejected action: %d -> %d", hpBefore, sess.Boss.CurrentHP)
	}
	if !sess.Turns.IsPlayerTurn("alice") {
		t.Error("turn moved on a rejected action")
	}
}

func TestCheerHealsAndArmsBoost(t *testing.T) {
	svc := newTestService()
	sess, _, err := svc.CreateRaid("raid-1", "alice", domain.RaidConfig{MinPlayers: 2})
	if err != nil {
		t.Fatalf("create raid: %v", err)
	}
	hurt := testPokemon("alice-mon", 100, domain.Attack{Name: "Tackle", Damage: 60})
	hurt.CurrentHP = 50
	if _, err := svc.JoinRaid(sess.ID, "alice", "alice", hurt, nil); err != nil {
		t.Fatalf("join alice: %v", err)
	}
	if _, err := svc.JoinRaid(sess.ID, "bob", "bob", testPokemon("bob-mon", 100, domain.Attack{Name: "Tackle", Damage: 60}), nil); err != nil {
		t.Fatalf("join bob: %v", err)
	}
	if _, err := svc.StartRaid(sess.ID, "alice", testBossTemplate(100, 10)); err != nil {
		t.Fatalf("start raid: %v", err)
	}
	poolBefore := sess.CheerPool

	events, err := svc.ProcessAction(sess.ID, "alice", Action{Type: ActionCheer})
	if err != nil {
		t.Fatalf("cheer: %v", err)
	}
	ev, _ := findEvent(events, EventActionResult)
	result := ev.Payload.(ActionResultPayload)
	if result.HealedAmount != 30 {
		t.Errorf("healed = %d, want 30", result.HealedAmount)
	}
	if hurt.CurrentHP != 80 {
		t.Errorf("hp after cheer = %d, want 80", hurt.CurrentHP)
	}
	if sess.CheerPool != poolBefore-1 {
		t.Errorf("cheer pool = %d, want %d", sess.CheerPool, poolBefore-1)
	}
	if !sess.CheerBoost {
		t.Error("cheer boost not armed")
	}
	if _, err := svc.ProcessAction(sess.ID, "alice", Action{Type: ActionCheer}); err == nil {
		t.Fatal("expected second cheer by the same player to fail")
	}

	// The boosted attack lands at floor(60 * 1.2) and consumes the boost.
	events, err = svc.ProcessAction(sess.ID, "bob", Action{Type: ActionAttack, AttackIndex: 0})
	if err != nil {
		t.Fatalf("attack: %v", err)
	}
	ev, _ = findEvent(events, EventActionResult)
	if dmg := ev.Payload.(ActionResultPayload).Result.Damage; dmg != 72 {
		t.Errorf("boosted damage = %d, want 72", dmg)
	}
	if sess.CheerBoost {
		t.Error("cheer boost not consumed")
	}
}

func TestBoostedAttackOncePerPlayer(t *testing.T) {
	svc := newTestService()
	sess := mustCreateAndJoin(t, svc, domain.RaidConfig{}, "alice")
	if _, err := svc.StartRaid(sess.ID, "alice", testBossTemplate(1000, 10)); err != nil {
		t.Fatalf("start raid: %v", err)
	}

	events, err := svc.ProcessAction(sess.ID, "alice", Action{Type: ActionAttack, AttackIndex: 0, Boost: true})
	if err != nil {
		t.Fatalf("boosted attack: %v", err)
	}
	ev, _ := findEvent(events, EventActionResult)
	if dmg := ev.Payload.(ActionResultPayload).Result.Damage; dmg != 108 {
		t.Errorf("boosted damage = %d, want floor(60*1.8) = 108", dmg)
	}

	if _, err := svc.ProcessBossTurn(sess.ID); err != nil {
		t.Fatalf("boss turn: %v", err)
	}
	_, err = svc.ProcessAction(sess.ID, "alice", Action{Type: ActionAttack, AttackIndex: 0, Boost: true})
	if KindOf(err) != KindConflict {
		t.Fatalf("second boost error kind = %v, want conflict", KindOf(err))
	}
}

func TestConfusedMisfireConsumesModifiers(t *testing.T) {
	svc := newTestService()
	sess := mustCreateAndJoin(t, svc, domain.RaidConfig{}, "alice")
	if _, err := svc.StartRaid(sess.ID, "alice", testBossTemplate(1000, 10)); err != nil {
		t.Fatalf("start raid: %v", err)
	}
	if _, err := svc.ProcessAction(sess.ID, "alice", Action{Type: ActionCheer}); err != nil {
		t.Fatalf("cheer: %v", err)
	}
	if _, err := svc.ProcessBossTurn(sess.ID); err != nil {
		t.Fatalf("boss turn: %v", err)
	}

	pl := sess.Players["alice"]
	hpBefore := pl.Active.CurrentHP
	bossBefore := sess.Boss.CurrentHP
	domain.ApplyStatusEffect(pl.Active, domain.StatusConfused, 2)
	svc.Combat().ConfusionRoll = func() bool { return true }

	events, err := svc.ProcessAction(sess.ID, "alice", Action{Type: ActionAttack, AttackIndex: 0, Boost: true})
	if err != nil {
		t.Fatalf("attack: %v", err)
	}
	ev, _ := findEvent(events, EventActionResult)
	result := ev.Payload.(ActionResultPayload)
	if !result.SelfInflicted {
		t.Fatal("expected a self-inflicted hit")
	}
	if pl.Active.CurrentHP != hpBefore-60 {
		t.Errorf("hp after self-hit = %d, want %d", pl.Active.CurrentHP, hpBefore-60)
	}
	if sess.Boss.CurrentHP != bossBefore {
		t.Errorf("boss hp changed on a misfire: %d -> %d", bossBefore, sess.Boss.CurrentHP)
	}

	// The armed cheer boost and the declared boost are spent on the misfire.
	if sess.CheerBoost {
		t.Error("cheer boost survived the misfire")
	}
	if !pl.UsedBoost {
		t.Error("boosted attack not marked used after the misfire")
	}
}

func TestRetreatSwapsActiveAndCuresConfusion(t *testing.T) {
	svc := newTestService()
	sess, _, err := svc.CreateRaid("raid-1", "alice", domain.RaidConfig{})
	if err != nil {
		t.Fatalf("create raid: %v", err)
	}
	active := testPokemon("front", 100, domain.Attack{Name: "Tackle", Damage: 60})
	bench := testPokemon("back", 100, domain.Attack{Name: "Slam", Damage: 40})
	if _, err := svc.JoinRaid(sess.ID, "alice", "alice", active, bench); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := svc.StartRaid(sess.ID, "alice", testBossTemplate(100, 10)); err != nil {
		t.Fatalf("start raid: %v", err)
	}
	domain.ApplyStatusEffect(bench, domain.StatusConfused, 2)

	events, err := svc.ProcessAction(sess.ID, "alice", Action{Type: ActionRetreat})
	if err != nil {
		t.Fatalf("retreat: %v", err)
	}
	ev, _ := findEvent(events, EventActionResult)
	if name := ev.Payload.(ActionResultPayload).ActivePokemon; name != "back" {
		t.Errorf("active after retreat = %s, want back", name)
	}
	pl := sess.Players["alice"]
	if pl.Active.HasStatus(domain.StatusConfused) {
		t.Error("confusion survived the retreat")
	}
	if pl.Bench.Name != "front" {
		t.Errorf("bench = %s, want front", pl.Bench.Name)
	}
}

func TestSleepingPlayerIsSkipped(t *testing.T) {
	svc := newTestService()
	sess := mustCreateAndJoin(t, svc, domain.RaidConfig{MinPlayers: 2}, "alice", "bob")
	if _, err := svc.StartRaid(sess.ID, "alice", testBossTemplate(100, 10)); err != nil {
		t.Fatalf("start raid: %v", err)
	}
	domain.ApplyStatusEffect(sess.Players["bob"].Active, domain.StatusAsleep, 1)

	events, err := svc.ProcessAction(sess.ID, "alice", Action{Type: ActionAttack, AttackIndex: 0})
	if err != nil {
		t.Fatalf("attack: %v", err)
	}
	skipped, ok := findEvent(events, EventTurnSkipped)
	if !ok {
		t.Fatal("missing turn skipped event")
	}
	if pid := skipped.Payload.(TurnSkippedPayload).PlayerID; pid != "bob" {
		t.Errorf("skipped player = %s, want bob", pid)
	}
	if !sess.Turns.IsBossTurn() {
		t.Error("expected the rotation to stop on the boss")
	}
	if sess.Players["bob"].Active.HasStatus(domain.StatusAsleep) {
		t.Error("sleep did not expire after the skipped turn")
	}
}

func TestRemovePlayerClosesEmptySession(t *testing.T) {
	svc := newTestService()
	sess := mustCreateAndJoin(t, svc, domain.RaidConfig{}, "alice", "bob")

	events, err := svc.RemovePlayer(sess.ID, "alice")
	if err != nil {
		t.Fatalf("remove alice: %v", err)
	}
	ev, _ := findEvent(events, EventPlayerLeft)
	if ev.Payload.(PlayerLeftPayload).SessionClosed {
		t.Error("session closed while a player remained")
	}
	if len(sess.Positions) != 1 {
		t.Errorf("positions = %d, want 1", len(sess.Positions))
	}

	events, err = svc.RemovePlayer(sess.ID, "bob")
	if err != nil {
		t.Fatalf("remove bob: %v", err)
	}
	ev, _ = findEvent(events, EventPlayerLeft)
	if !ev.Payload.(PlayerLeftPayload).SessionClosed {
		t.Error("session not closed after the last player left")
	}
	if _, ok := svc.Session(sess.ID); ok {
		t.Error("session still registered after closing")
	}
}

func TestRemovePlayerEverywhereCoversAllSessions(t *testing.T) {
	svc := newTestService()
	for _, id := range []string{"raid-1", "raid-2"} {
		if _, _, err := svc.CreateRaid(id, "alice", domain.RaidConfig{}); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
		if _, err := svc.JoinRaid(id, "alice", "alice", testPokemon("mon", 100, domain.Attack{Name: "Tackle", Damage: 60}), nil); err != nil {
			t.Fatalf("join %s: %v", id, err)
		}
	}

	svc.RemovePlayerEverywhere("alice")
	if got := len(svc.SessionIDsFor("alice")); got != 0 {
		t.Errorf("alice still in %d sessions", got)
	}
}

func TestCreateRaidRepliesToCreatorOnly(t *testing.T) {
	svc := newTestService()
	_, events, err := svc.CreateRaid("raid-1", "alice", domain.RaidConfig{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	ev, ok := findEvent(events, EventRaidCreated)
	if !ok {
		t.Fatal("missing raid created event")
	}
	if ev.SessionID != "raid-1" {
		t.Errorf("event session = %s, want raid-1", ev.SessionID)
	}
	if len(ev.Recipients) != 1 || ev.Recipients[0] != "alice" {
		t.Errorf("recipients = %v, want [alice]", ev.Recipients)
	}
}

func TestCreateRaidRejectsDuplicateID(t *testing.T) {
	svc := newTestService()
	if _, _, err := svc.CreateRaid("raid-1", "alice", domain.RaidConfig{}); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, _, err := svc.CreateRaid("raid-1", "alice", domain.RaidConfig{})
	if KindOf(err) != KindConflict {
		t.Fatalf("duplicate create error kind = %v, want conflict", KindOf(err))
	}
}

func TestStartRaidRequiresMinPlayers(t *testing.T) {
	svc := newTestService()
	sess := mustCreateAndJoin(t, svc, domain.RaidConfig{MinPlayers: 2}, "alice")
	_, err := svc.StartRaid(sess.ID, "alice", testBossTemplate(100, 10))
	if KindOf(err) != KindConflict {
		t.Fatalf("error kind = %v, want conflict", KindOf(err))
	}
}

func TestUpdateLayoutLobbyOnly(t *testing.T) {
	svc := newTestService()
	sess := mustCreateAndJoin(t, svc, domain.RaidConfig{}, "alice", "bob")

	events, err := svc.UpdateLayout(sess.ID, domain.LayoutCircular)
	if err != nil {
		t.Fatalf("update layout: %v", err)
	}
	ev, _ := findEvent(events, EventLayoutUpdated)
	payload := ev.Payload.(LayoutUpdatedPayload)
	if payload.Layout != domain.LayoutCircular {
		t.Errorf("layout = %s, want circular", payload.Layout)
	}
	if payload.BossX != 50 || payload.BossY != 50 {
		t.Errorf("boss position = (%v,%v), want (50,50)", payload.BossX, payload.BossY)
	}

	if _, err := svc.StartRaid(sess.ID, "alice", testBossTemplate(100, 10)); err != nil {
		t.Fatalf("start raid: %v", err)
	}
	if _, err := svc.UpdateLayout(sess.ID, domain.LayoutVersus); KindOf(err) != KindConflict {
		t.Fatalf("mid-raid layout change error kind = %v, want conflict", KindOf(err))
	}
}
