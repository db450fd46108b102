// Package scheduler owns every phase transition of a running game. Each
// handler re-reads the game and no-ops unless (status, phase, day) still
// match the transition it was scheduled for, so duplicate or late timer
// firings are safe without locks.
package scheduler

import (
	"fmt"
	"time"

	"github.com/nightfall-games/mafia-night/internal/config"
	"github.com/nightfall-games/mafia-night/internal/constants"
	"github.com/nightfall-games/mafia-night/internal/engine"
	"github.com/nightfall-games/mafia-night/internal/game"
	"github.com/nightfall-games/mafia-night/internal/logging"
	"github.com/nightfall-games/mafia-night/internal/random"
)

// Repository is the slice of the storage surface the scheduler needs.
type Repository interface {
	GetGameByID(id uint) (*game.Game, error)
	UpdateGame(g *game.Game) error
	GetPlayerByID(id uint) (*game.Player, error)
	UpdatePlayer(p *game.Player) error
	GetPlayersByGame(gameID uint) ([]game.Player, error)
	GetAlivePlayers(gameID uint) ([]game.Player, error)
	GetNightActions(gameID uint, dayNumber int) ([]game.NightAction, error)
	GetVotes(gameID uint, dayNumber int) ([]game.Vote, error)
	CreateInvestigation(rec *game.Investigation) error
	AppendBotMemory(e *game.BotMemoryEntry) error
}

// BotDispatcher triggers autonomous-player submissions. Dispatches are
// fire-and-forget: failures are logged by the implementation and never
// block a phase.
type BotDispatcher interface {
	DispatchNightActions(gameID uint, dayNumber int)
	DispatchVote(gameID, playerID uint, dayNumber int)
	DispatchChat(gameID, playerID uint)
}

// chatWaves places bot discussion messages across the window.
var chatWaves = []float64{0.2, 0.5, 0.8}

const chatWaveStagger = 800 * time.Millisecond

type Scheduler struct {
	repo     Repository
	bots     BotDispatcher
	phases   config.PhaseConfig
	decision config.DecisionConfig

	now   func() time.Time
	after func(d time.Duration, f func())
}

// New builds a scheduler running real timers. A nil dispatcher disables
// autonomous players.
func New(repo Repository, bots BotDispatcher, cfg *config.Config) *Scheduler {
	return &Scheduler{
		repo:     repo,
		bots:     bots,
		phases:   cfg.Phases,
		decision: cfg.Decision,
		now:      time.Now,
		after:    func(d time.Duration, f func()) { time.AfterFunc(d, f) },
	}
}

// StartNight opens the next night round. Called by StartGame for round one
// and by ResolveVoting for every later round.
func (s *Scheduler) StartNight(gameID uint) {
	g, err := s.repo.GetGameByID(gameID)
	if err != nil || g.Status != game.StatusPlaying {
		return
	}

	day := g.DayNumber + 1
	g.Phase = game.PhaseNight
	g.DayNumber = day
	g.PhaseDeadline = s.now().Add(s.phases.Night)
	if err := s.repo.UpdateGame(g); err != nil {
		logging.Error("failed to open night phase", err, logging.Fields{constants.LogFieldGameID: gameID})
		return
	}
	logging.Info("night phase opened", logging.Fields{
		constants.LogFieldGameID: gameID,
		constants.LogFieldDay:    day,
	})

	if s.bots != nil {
		s.after(s.decision.NightDispatchDelay, func() {
			s.bots.DispatchNightActions(gameID, day)
		})
	}
	s.after(s.phases.Night, func() { s.ResolveNight(gameID, day) })
}

// ResolveNight runs the night resolution for one round. Safe against
// duplicate or late firings: a stale (phase, day) pair is a no-op.
func (s *Scheduler) ResolveNight(gameID uint, day int) {
	g, err := s.repo.GetGameByID(gameID)
	if err != nil || g.Status != game.StatusPlaying {
		return
	}
	if g.Phase != game.PhaseNight || g.DayNumber != day {
		s.logStale("resolve_night", g, day)
		return
	}

	players, err := s.repo.GetPlayersByGame(gameID)
	if err != nil {
		logging.Error("night resolution failed to load roster", err, logging.Fields{constants.LogFieldGameID: gameID})
		return
	}
	actions, err := s.repo.GetNightActions(gameID, day)
	if err != nil {
		logging.Error("night resolution failed to load actions", err, logging.Fields{constants.LogFieldGameID: gameID})
		return
	}

	out := engine.ResolveNight(gameID, day, players, actions)

	if out.KilledID != 0 {
		s.eliminate(out.KilledID)
	}

	for i := range out.Investigations {
		rec := out.Investigations[i]
		if err := s.repo.CreateInvestigation(&rec); err != nil {
			logging.Error("failed to store investigation", err, logging.Fields{constants.LogFieldGameID: gameID})
			continue
		}
		s.rememberInvestigation(&rec)
	}

	alive, err := s.repo.GetAlivePlayers(gameID)
	if err != nil {
		logging.Error("night resolution failed to load living roster", err, logging.Fields{constants.LogFieldGameID: gameID})
		return
	}

	if winner := engine.EvaluateWinner(alive); winner != game.WinnerNone {
		g.LastNightResult = out.Summary
		s.finish(g, winner, day, alive)
		return
	}

	g.Phase = game.PhaseDayDiscussion
	g.PhaseDeadline = s.now().Add(s.phases.Discussion)
	g.LastNightResult = out.Summary
	g.LastDayResult = ""
	if err := s.repo.UpdateGame(g); err != nil {
		logging.Error("failed to open discussion phase", err, logging.Fields{constants.LogFieldGameID: gameID})
		return
	}
	logging.Info("night resolved", logging.Fields{
		constants.LogFieldGameID: gameID,
		constants.LogFieldDay:    day,
		"summary":                out.Summary,
	})

	bots := botsOf(alive)
	s.remember(bots, gameID, day, "Night result: "+out.Summary)
	s.scheduleChatWaves(gameID, bots)
	s.after(s.phases.Discussion, func() { s.StartVoting(gameID, day) })
}

// StartVoting moves a game from discussion into voting.
func (s *Scheduler) StartVoting(gameID uint, day int) {
	g, err := s.repo.GetGameByID(gameID)
	if err != nil || g.Status != game.StatusPlaying {
		return
	}
	if g.Phase != game.PhaseDayDiscussion || g.DayNumber != day {
		s.logStale("start_voting", g, day)
		return
	}

	g.Phase = game.PhaseDayVoting
	g.PhaseDeadline = s.now().Add(s.phases.Voting)
	if err := s.repo.UpdateGame(g); err != nil {
		logging.Error("failed to open voting phase", err, logging.Fields{constants.LogFieldGameID: gameID})
		return
	}
	logging.Info("voting phase opened", logging.Fields{
		constants.LogFieldGameID: gameID,
		constants.LogFieldDay:    day,
	})

	if s.bots != nil {
		alive, err := s.repo.GetAlivePlayers(gameID)
		if err == nil {
			for _, bot := range botsOf(alive) {
				botID := bot.ID
				s.after(s.voteJitter(), func() {
					s.bots.DispatchVote(gameID, botID, day)
				})
			}
		}
	}
	s.after(s.phases.Voting, func() { s.ResolveVoting(gameID, day) })
}

// ResolveVoting tallies the day's votes, applies the elimination if any,
// and either finishes the game or loops back into the next night.
func (s *Scheduler) ResolveVoting(gameID uint, day int) {
	g, err := s.repo.GetGameByID(gameID)
	if err != nil || g.Status != game.StatusPlaying {
		return
	}
	if g.Phase != game.PhaseDayVoting || g.DayNumber != day {
		s.logStale("resolve_voting", g, day)
		return
	}

	votes, err := s.repo.GetVotes(gameID, day)
	if err != nil {
		logging.Error("vote resolution failed to load votes", err, logging.Fields{constants.LogFieldGameID: gameID})
		return
	}
	alive, err := s.repo.GetAlivePlayers(gameID)
	if err != nil {
		logging.Error("vote resolution failed to load living roster", err, logging.Fields{constants.LogFieldGameID: gameID})
		return
	}

	out := engine.TallyVotes(alive, votes)
	if out.EliminatedID != 0 {
		s.eliminate(out.EliminatedID)
	}

	updatedAlive, err := s.repo.GetAlivePlayers(gameID)
	if err != nil {
		logging.Error("vote resolution failed to reload roster", err, logging.Fields{constants.LogFieldGameID: gameID})
		return
	}

	if winner := engine.EvaluateWinner(updatedAlive); winner != game.WinnerNone {
		g.LastDayResult = out.Summary
		s.finish(g, winner, day, updatedAlive)
		return
	}

	g.LastDayResult = out.Summary
	if err := s.repo.UpdateGame(g); err != nil {
		logging.Error("failed to record day result", err, logging.Fields{constants.LogFieldGameID: gameID})
		return
	}
	logging.Info("voting resolved", logging.Fields{
		constants.LogFieldGameID: gameID,
		constants.LogFieldDay:    day,
		"summary":                out.Summary,
	})

	s.remember(botsOf(updatedAlive), gameID, day, fmt.Sprintf("Day %d: %s", day, out.Summary))
	s.StartNight(gameID)
}

// finish records the winner and clears the phase. Pending timers for this
// game become no-ops through the (phase, day) guard; they are not cancelled.
func (s *Scheduler) finish(g *game.Game, winner game.Winner, day int, alive []game.Player) {
	g.Status = game.StatusFinished
	g.Winner = winner
	g.Phase = game.PhaseNone
	g.PhaseDeadline = time.Time{}
	if err := s.repo.UpdateGame(g); err != nil {
		logging.Error("failed to finish game", err, logging.Fields{constants.LogFieldGameID: g.ID})
		return
	}
	logging.Info("game finished", logging.Fields{
		constants.LogFieldGameID: g.ID,
		constants.LogFieldDay:    day,
		constants.LogFieldWinner: string(winner),
	})
	s.remember(botsOf(alive), g.ID, day, fmt.Sprintf("Game over: %s wins.", winner))
}

func (s *Scheduler) eliminate(playerID uint) {
	p, err := s.repo.GetPlayerByID(playerID)
	if err != nil || !p.IsAlive {
		return
	}
	p.IsAlive = false
	p.IsSpectator = true
	if err := s.repo.UpdatePlayer(p); err != nil {
		logging.Error("failed to eliminate player", err, logging.Fields{constants.LogFieldPlayerID: playerID})
	}
}

func (s *Scheduler) rememberInvestigation(rec *game.Investigation) {
	sheriff, err := s.repo.GetPlayerByID(rec.SheriffID)
	if err != nil || !sheriff.IsBot {
		return
	}
	target, err := s.repo.GetPlayerByID(rec.TargetID)
	if err != nil {
		return
	}
	faction := "Town"
	if rec.IsMafia {
		faction = "Mafia"
	}
	s.remember([]game.Player{*sheriff}, rec.GameID, rec.DayNumber,
		fmt.Sprintf("Investigated %s: %s.", target.Name, faction))
}

// remember appends a private memory event to each given bot. Failures are
// logged and ignored; memory is advisory.
func (s *Scheduler) remember(bots []game.Player, gameID uint, day int, event string) {
	for i := range bots {
		err := s.repo.AppendBotMemory(&game.BotMemoryEntry{
			GameID:    gameID,
			PlayerID:  bots[i].ID,
			DayNumber: day,
			Event:     event,
		})
		if err != nil {
			logging.Error("failed to append bot memory", err, logging.Fields{
				constants.LogFieldGameID:   gameID,
				constants.LogFieldPlayerID: bots[i].ID,
			})
		}
	}
}

// scheduleChatWaves spreads bot discussion messages over the window in
// three staggered waves so replies feel paced rather than bursty.
func (s *Scheduler) scheduleChatWaves(gameID uint, bots []game.Player) {
	if s.bots == nil {
		return
	}
	for _, wave := range chatWaves {
		base := time.Duration(float64(s.phases.Discussion) * wave)
		for i := range bots {
			botID := bots[i].ID
			s.after(base+time.Duration(i)*chatWaveStagger, func() {
				s.bots.DispatchChat(gameID, botID)
			})
		}
	}
}

func (s *Scheduler) voteJitter() time.Duration {
	min, max := s.decision.VoteJitterMin, s.decision.VoteJitterMax
	if max <= min {
		return min
	}
	return min + time.Duration(random.Intn(int(max-min)))
}

func (s *Scheduler) logStale(task string, g *game.Game, day int) {
	logging.Info("stale scheduled task skipped", logging.Fields{
		constants.LogFieldTask:   task,
		constants.LogFieldGameID: g.ID,
		constants.LogFieldDay:    day,
		constants.LogFieldPhase:  string(g.Phase),
		"current_day":            g.DayNumber,
	})
}

func botsOf(players []game.Player) []game.Player {
	out := make([]game.Player, 0, len(players))
	for i := range players {
		if players[i].IsBot {
			out = append(out, players[i])
		}
	}
	return out
}
