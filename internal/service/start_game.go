package service

import (
	"github.com/nightfall-games/mafia-night/internal/constants"
	"github.com/nightfall-games/mafia-night/internal/game"
	"github.com/nightfall-games/mafia-night/internal/logging"
	"github.com/nightfall-games/mafia-night/internal/random"
)

// StartGame assigns roles and opens round one. Host only, lobby only, and
// the roster (spectators excluded) must hold at least MinPlayers. Roles are
// dealt over an unbiased crypto-backed shuffle so every ordering is equally
// likely, then the scheduler takes over.
func StartGame(repo Repository, starter PhaseStarter, gameID, requesterID uint, token string) error {
	requester, err := RequirePlayer(repo, gameID, requesterID, token)
	if err != nil {
		return err
	}
	g, err := repo.GetGameByID(gameID)
	if err != nil {
		return ErrGameNotFound
	}
	if g.HostPlayerID != requester.ID {
		return ErrNotHost
	}
	if g.Status != game.StatusLobby {
		return ErrGameAlreadyStarted
	}

	players, err := repo.GetPlayersByGame(gameID)
	if err != nil {
		return err
	}
	roster := make([]game.Player, 0, len(players))
	for i := range players {
		if !players[i].IsSpectator {
			roster = append(roster, players[i])
		}
	}
	if len(roster) < game.MinPlayers {
		return ErrTooFewPlayers
	}

	roles := game.BuildRoles(len(roster))
	random.Shuffle(len(roster), func(i, j int) {
		roster[i], roster[j] = roster[j], roster[i]
	})

	for i := range roster {
		roster[i].Role = roles[i]
		roster[i].IsAlive = true
		roster[i].IsSpectator = false
		if err := repo.UpdatePlayer(&roster[i]); err != nil {
			return err
		}
	}

	g.Status = game.StatusPlaying
	g.Winner = game.WinnerNone
	g.LastDayResult = ""
	g.LastNightResult = "Night falls. The town goes quiet..."
	if err := repo.UpdateGame(g); err != nil {
		return err
	}

	logging.Info("game started", logging.Fields{
		constants.LogFieldGameID: g.ID,
		"players":                len(roster),
	})

	starter.StartNight(gameID)
	return nil
}
