package scheduler

import (
	"fmt"
	"testing"
	"time"

	"github.com/nightfall-games/mafia-night/internal/config"
	"github.com/nightfall-games/mafia-night/internal/game"
)

type fakeRepo struct {
	games          map[uint]*game.Game
	players        map[uint]*game.Player
	actions        map[string]*game.NightAction
	votes          map[string]*game.Vote
	investigations []game.Investigation
	memories       []game.BotMemoryEntry
	nextID         uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		games:   map[uint]*game.Game{},
		players: map[uint]*game.Player{},
		actions: map[string]*game.NightAction{},
		votes:   map[string]*game.Vote{},
		nextID:  1,
	}
}

func key(gameID uint, day int, playerID uint) string {
	return fmt.Sprintf("%d:%d:%d", gameID, day, playerID)
}

func (f *fakeRepo) GetGameByID(id uint) (*game.Game, error) {
	g, ok := f.games[id]
	if !ok {
		return nil, fmt.Errorf("game %d not found", id)
	}
	cp := *g
	return &cp, nil
}

func (f *fakeRepo) UpdateGame(g *game.Game) error {
	cp := *g
	f.games[g.ID] = &cp
	return nil
}

func (f *fakeRepo) GetPlayerByID(id uint) (*game.Player, error) {
	p, ok := f.players[id]
	if !ok {
		return nil, fmt.Errorf("player %d not found", id)
	}
	cp := *p
	return &cp, nil
}

func (f *fakeRepo) UpdatePlayer(p *game.Player) error {
	cp := *p
	f.players[p.ID] = &cp
	return nil
}

func (f *fakeRepo) GetPlayersByGame(gameID uint) ([]game.Player, error) {
	var out []game.Player
	for id := uint(1); id < f.nextID; id++ {
		if p, ok := f.players[id]; ok && p.GameID == gameID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetAlivePlayers(gameID uint) ([]game.Player, error) {
	all, _ := f.GetPlayersByGame(gameID)
	var out []game.Player
	for _, p := range all {
		if p.IsAlive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetNightActions(gameID uint, day int) ([]game.NightAction, error) {
	var out []game.NightAction
	for _, a := range f.actions {
		if a.GameID == gameID && a.DayNumber == day {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetVotes(gameID uint, day int) ([]game.Vote, error) {
	var out []game.Vote
	for _, v := range f.votes {
		if v.GameID == gameID && v.DayNumber == day {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (f *fakeRepo) CreateInvestigation(rec *game.Investigation) error {
	f.investigations = append(f.investigations, *rec)
	return nil
}

func (f *fakeRepo) AppendBotMemory(e *game.BotMemoryEntry) error {
	f.memories = append(f.memories, *e)
	return nil
}

func (f *fakeRepo) addGame(g game.Game) *game.Game {
	g.ID = f.nextID
	f.nextID++
	f.games[g.ID] = &g
	return &g
}

func (f *fakeRepo) addPlayer(p game.Player) *game.Player {
	p.ID = f.nextID
	f.nextID++
	f.players[p.ID] = &p
	return &p
}

func (f *fakeRepo) addAction(a game.NightAction) {
	f.actions[key(a.GameID, a.DayNumber, a.PlayerID)] = &a
}

func (f *fakeRepo) addVote(v game.Vote) {
	f.votes[key(v.GameID, v.DayNumber, v.VoterID)] = &v
}

type recordingDispatcher struct {
	nights []int
	votes  []uint
	chats  []uint
}

func (r *recordingDispatcher) DispatchNightActions(gameID uint, day int) {
	r.nights = append(r.nights, day)
}

func (r *recordingDispatcher) DispatchVote(gameID, playerID uint, day int) {
	r.votes = append(r.votes, playerID)
}

func (r *recordingDispatcher) DispatchChat(gameID, playerID uint) {
	r.chats = append(r.chats, playerID)
}

func testConfig() *config.Config {
	return &config.Config{
		Phases: config.PhaseConfig{
			Night:      30 * time.Second,
			Discussion: 60 * time.Second,
			Voting:     45 * time.Second,
		},
		Decision: config.DecisionConfig{
			NightDispatchDelay: 2 * time.Second,
			VoteJitterMin:      2 * time.Second,
			VoteJitterMax:      12 * time.Second,
		},
	}
}

// newTestScheduler captures scheduled tasks instead of running timers.
func newTestScheduler(f *fakeRepo, bots BotDispatcher) (*Scheduler, *[]func()) {
	s := New(f, bots, testConfig())
	var pending []func()
	s.after = func(d time.Duration, fn func()) { pending = append(pending, fn) }
	return s, &pending
}

// seedNightGame builds a playing game in night phase for the given day.
// Roster: one mafia, one doctor, the rest citizens; one citizen is a bot.
func seedNightGame(f *fakeRepo, day, playerCount int) (*game.Game, []*game.Player) {
	g := f.addGame(game.Game{Status: game.StatusPlaying, Phase: game.PhaseNight, DayNumber: day})
	var players []*game.Player
	for i := 0; i < playerCount; i++ {
		role := game.RoleCitizen
		switch i {
		case 0:
			role = game.RoleMafia
		case 1:
			role = game.RoleDoctor
		}
		players = append(players, f.addPlayer(game.Player{
			GameID:  g.ID,
			Name:    fmt.Sprintf("P%d", i),
			Role:    role,
			IsAlive: true,
			IsBot:   i == playerCount-1,
		}))
	}
	return g, players
}

func TestStartNight_OpensPhaseAndSchedules(t *testing.T) {
	f := newFakeRepo()
	g := f.addGame(game.Game{Status: game.StatusPlaying, DayNumber: 0})
	d := &recordingDispatcher{}
	s, pending := newTestScheduler(f, d)

	s.StartNight(g.ID)

	updated, _ := f.GetGameByID(g.ID)
	if updated.Phase != game.PhaseNight || updated.DayNumber != 1 {
		t.Fatalf("expected night of day 1, got %q day %d", updated.Phase, updated.DayNumber)
	}
	if updated.PhaseDeadline.IsZero() {
		t.Fatalf("deadline not set")
	}
	// One task for the bot dispatch, one for resolution.
	if len(*pending) != 2 {
		t.Fatalf("expected 2 scheduled tasks, got %d", len(*pending))
	}
}

func TestStartNight_NoOpWhenNotPlaying(t *testing.T) {
	f := newFakeRepo()
	g := f.addGame(game.Game{Status: game.StatusFinished, DayNumber: 3})
	s, pending := newTestScheduler(f, nil)

	s.StartNight(g.ID)

	updated, _ := f.GetGameByID(g.ID)
	if updated.DayNumber != 3 || updated.Phase != game.PhaseNone {
		t.Fatalf("finished game must not advance: %+v", updated)
	}
	if len(*pending) != 0 {
		t.Fatalf("finished game must not schedule tasks")
	}
}

func TestResolveNight_KillAdvancesToDiscussion(t *testing.T) {
	f := newFakeRepo()
	g, players := seedNightGame(f, 1, 7)
	mafia, victim := players[0], players[3]
	f.addAction(game.NightAction{
		GameID: g.ID, DayNumber: 1, PlayerID: mafia.ID,
		Kind: game.ActionKill, TargetID: victim.ID,
	})
	s, _ := newTestScheduler(f, nil)

	s.ResolveNight(g.ID, 1)

	dead, _ := f.GetPlayerByID(victim.ID)
	if dead.IsAlive || !dead.IsSpectator {
		t.Fatalf("victim must be eliminated and moved to spectators: %+v", dead)
	}
	updated, _ := f.GetGameByID(g.ID)
	if updated.Phase != game.PhaseDayDiscussion {
		t.Fatalf("expected discussion phase, got %q", updated.Phase)
	}
	if updated.LastNightResult == "" || updated.LastDayResult != "" {
		t.Fatalf("night summary wrong: %+v", updated)
	}
}

func TestResolveNight_DuplicateFiringIsNoOp(t *testing.T) {
	f := newFakeRepo()
	g, players := seedNightGame(f, 1, 7)
	mafia, victim := players[0], players[3]
	f.addAction(game.NightAction{
		GameID: g.ID, DayNumber: 1, PlayerID: mafia.ID,
		Kind: game.ActionKill, TargetID: victim.ID,
	})
	s, _ := newTestScheduler(f, nil)

	s.ResolveNight(g.ID, 1)
	afterFirst, _ := f.GetGameByID(g.ID)
	memCount := len(f.memories)

	s.ResolveNight(g.ID, 1)

	afterSecond, _ := f.GetGameByID(g.ID)
	if afterSecond.Phase != afterFirst.Phase || afterSecond.DayNumber != afterFirst.DayNumber {
		t.Fatalf("duplicate firing changed state: %+v vs %+v", afterFirst, afterSecond)
	}
	if len(f.memories) != memCount {
		t.Fatalf("duplicate firing appended memories")
	}
	alive, _ := f.GetAlivePlayers(g.ID)
	if len(alive) != 6 {
		t.Fatalf("expected exactly one elimination, %d alive", len(alive))
	}
}

func TestResolveNight_StaleDayIsNoOp(t *testing.T) {
	f := newFakeRepo()
	g, _ := seedNightGame(f, 2, 7)
	s, _ := newTestScheduler(f, nil)

	s.ResolveNight(g.ID, 1)

	updated, _ := f.GetGameByID(g.ID)
	if updated.Phase != game.PhaseNight || updated.DayNumber != 2 {
		t.Fatalf("stale task must not touch the game: %+v", updated)
	}
}

func TestResolveNight_ProtectCancelsKill(t *testing.T) {
	f := newFakeRepo()
	g, players := seedNightGame(f, 1, 5)
	mafia, doctor, victim := players[0], players[1], players[2]
	f.addAction(game.NightAction{
		GameID: g.ID, DayNumber: 1, PlayerID: mafia.ID,
		Kind: game.ActionKill, TargetID: victim.ID,
	})
	f.addAction(game.NightAction{
		GameID: g.ID, DayNumber: 1, PlayerID: doctor.ID,
		Kind: game.ActionProtect, TargetID: victim.ID,
	})
	s, _ := newTestScheduler(f, nil)

	s.ResolveNight(g.ID, 1)

	saved, _ := f.GetPlayerByID(victim.ID)
	if !saved.IsAlive {
		t.Fatalf("protected target must survive")
	}
	updated, _ := f.GetGameByID(g.ID)
	if updated.LastNightResult != "No one died last night." {
		t.Fatalf("unexpected summary: %q", updated.LastNightResult)
	}
}

func TestResolveNight_StoresInvestigationAndBotMemory(t *testing.T) {
	f := newFakeRepo()
	g, players := seedNightGame(f, 1, 7)
	mafia := players[0]
	sheriff := players[2]
	sheriff.Role = game.RoleSheriff
	sheriff.IsBot = true
	if err := f.UpdatePlayer(sheriff); err != nil {
		t.Fatal(err)
	}
	f.addAction(game.NightAction{
		GameID: g.ID, DayNumber: 1, PlayerID: sheriff.ID,
		Kind: game.ActionInvestigate, TargetID: mafia.ID,
	})
	s, _ := newTestScheduler(f, nil)

	s.ResolveNight(g.ID, 1)

	if len(f.investigations) != 1 || !f.investigations[0].IsMafia {
		t.Fatalf("investigation not recorded: %+v", f.investigations)
	}
	found := false
	for _, m := range f.memories {
		if m.PlayerID == sheriff.ID && m.Event == "Investigated P0: Mafia." {
			found = true
		}
	}
	if !found {
		t.Fatalf("sheriff bot memory missing: %+v", f.memories)
	}
}

func TestResolveNight_MafiaParityFinishesGame(t *testing.T) {
	f := newFakeRepo()
	// 1 mafia vs 2 town; the kill reaches parity.
	g := f.addGame(game.Game{Status: game.StatusPlaying, Phase: game.PhaseNight, DayNumber: 1})
	mafia := f.addPlayer(game.Player{GameID: g.ID, Name: "M", Role: game.RoleMafia, IsAlive: true})
	f.addPlayer(game.Player{GameID: g.ID, Name: "C1", Role: game.RoleCitizen, IsAlive: true})
	victim := f.addPlayer(game.Player{GameID: g.ID, Name: "C2", Role: game.RoleCitizen, IsAlive: true})
	f.addAction(game.NightAction{
		GameID: g.ID, DayNumber: 1, PlayerID: mafia.ID,
		Kind: game.ActionKill, TargetID: victim.ID,
	})
	s, pending := newTestScheduler(f, nil)

	s.ResolveNight(g.ID, 1)

	updated, _ := f.GetGameByID(g.ID)
	if updated.Status != game.StatusFinished || updated.Winner != game.WinnerMafia {
		t.Fatalf("expected mafia win, got %+v", updated)
	}
	if updated.Phase != game.PhaseNone || !updated.PhaseDeadline.IsZero() {
		t.Fatalf("finished game must clear phase state: %+v", updated)
	}
	if len(*pending) != 0 {
		t.Fatalf("finished game must not schedule further tasks")
	}
}

func TestStartVoting_SchedulesBotVotes(t *testing.T) {
	f := newFakeRepo()
	g, _ := seedNightGame(f, 1, 7)
	g.Phase = game.PhaseDayDiscussion
	if err := f.UpdateGame(g); err != nil {
		t.Fatal(err)
	}
	d := &recordingDispatcher{}
	s, pending := newTestScheduler(f, d)

	s.StartVoting(g.ID, 1)

	updated, _ := f.GetGameByID(g.ID)
	if updated.Phase != game.PhaseDayVoting {
		t.Fatalf("expected voting phase, got %q", updated.Phase)
	}
	// One bot vote task plus the resolution task.
	if len(*pending) != 2 {
		t.Fatalf("expected 2 scheduled tasks, got %d", len(*pending))
	}
}

func TestResolveVoting_EliminationLoopsIntoNextNight(t *testing.T) {
	f := newFakeRepo()
	g, players := seedNightGame(f, 1, 7)
	g.Phase = game.PhaseDayVoting
	if err := f.UpdateGame(g); err != nil {
		t.Fatal(err)
	}
	accused := players[2]
	for _, voter := range players[3:7] {
		f.addVote(game.Vote{GameID: g.ID, DayNumber: 1, VoterID: voter.ID, TargetID: &accused.ID})
	}
	s, _ := newTestScheduler(f, nil)

	s.ResolveVoting(g.ID, 1)

	dead, _ := f.GetPlayerByID(accused.ID)
	if dead.IsAlive {
		t.Fatalf("accused must be eliminated")
	}
	updated, _ := f.GetGameByID(g.ID)
	if updated.Phase != game.PhaseNight || updated.DayNumber != 2 {
		t.Fatalf("expected night of day 2, got %q day %d", updated.Phase, updated.DayNumber)
	}
	if updated.LastDayResult == "" {
		t.Fatalf("day summary missing")
	}
}

func TestResolveVoting_TownWinFinishesGame(t *testing.T) {
	f := newFakeRepo()
	g := f.addGame(game.Game{Status: game.StatusPlaying, Phase: game.PhaseDayVoting, DayNumber: 2})
	mafia := f.addPlayer(game.Player{GameID: g.ID, Name: "M", Role: game.RoleMafia, IsAlive: true})
	var town []*game.Player
	for _, n := range []string{"A", "B", "C"} {
		town = append(town, f.addPlayer(game.Player{GameID: g.ID, Name: n, Role: game.RoleCitizen, IsAlive: true}))
	}
	for _, voter := range town {
		f.addVote(game.Vote{GameID: g.ID, DayNumber: 2, VoterID: voter.ID, TargetID: &mafia.ID})
	}
	s, _ := newTestScheduler(f, nil)

	s.ResolveVoting(g.ID, 2)

	updated, _ := f.GetGameByID(g.ID)
	if updated.Status != game.StatusFinished || updated.Winner != game.WinnerTown {
		t.Fatalf("expected town win, got %+v", updated)
	}
}

func TestResolveVoting_DuplicateFiringIsNoOp(t *testing.T) {
	f := newFakeRepo()
	g, players := seedNightGame(f, 1, 7)
	g.Phase = game.PhaseDayVoting
	if err := f.UpdateGame(g); err != nil {
		t.Fatal(err)
	}
	accused := players[2]
	for _, voter := range players[3:7] {
		f.addVote(game.Vote{GameID: g.ID, DayNumber: 1, VoterID: voter.ID, TargetID: &accused.ID})
	}
	s, _ := newTestScheduler(f, nil)

	s.ResolveVoting(g.ID, 1)
	first, _ := f.GetGameByID(g.ID)

	s.ResolveVoting(g.ID, 1)

	second, _ := f.GetGameByID(g.ID)
	if second.DayNumber != first.DayNumber || second.Phase != first.Phase {
		t.Fatalf("duplicate firing changed state: %+v vs %+v", first, second)
	}
	alive, _ := f.GetAlivePlayers(g.ID)
	if len(alive) != 6 {
		t.Fatalf("expected exactly one elimination, %d alive", len(alive))
	}
}
