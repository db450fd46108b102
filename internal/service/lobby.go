package service

import (
	"fmt"

	"github.com/nightfall-games/mafia-night/internal/game"
	"github.com/nightfall-games/mafia-night/internal/random"

	"github.com/google/uuid"
)

// CreateLobby creates a new game in lobby state with the caller as host.
// Returns the game and the host player (including its freshly issued
// session token).
func CreateLobby(repo Repository, hostName string) (*game.Game, *game.Player, error) {
	code := random.JoinCode()
	for {
		if _, err := repo.FindGameByJoinCode(code); err != nil {
			break
		}
		code = random.JoinCode()
	}

	g := &game.Game{
		JoinCode: code,
		Status:   game.StatusLobby,
	}
	if err := repo.CreateGame(g); err != nil {
		return nil, nil, err
	}

	host := &game.Player{
		GameID:       g.ID,
		PublicID:     uuid.NewString(),
		Name:         hostName,
		SessionToken: random.SessionToken(),
		IsAlive:      true,
	}
	if err := repo.CreatePlayer(host); err != nil {
		return nil, nil, err
	}

	g.HostPlayerID = host.ID
	if err := repo.UpdateGame(g); err != nil {
		return nil, nil, err
	}
	return g, host, nil
}

// JoinLobby adds a player to a lobby by join code. A spectator joins with
// isSpectator set before any role assignment and never receives a role.
func JoinLobby(repo Repository, code, playerName string, asSpectator bool) (*game.Game, *game.Player, error) {
	g, err := repo.FindGameByJoinCode(code)
	if err != nil {
		return nil, nil, ErrGameNotFound
	}
	if g.Status != game.StatusLobby {
		return nil, nil, ErrGameAlreadyStarted
	}

	players, err := repo.GetPlayersByGame(g.ID)
	if err != nil {
		return nil, nil, err
	}
	if !asSpectator && countParticipants(players) >= game.MaxPlayers {
		return nil, nil, ErrLobbyFull
	}

	p := &game.Player{
		GameID:       g.ID,
		PublicID:     uuid.NewString(),
		Name:         playerName,
		SessionToken: random.SessionToken(),
		IsAlive:      !asSpectator,
		IsSpectator:  asSpectator,
	}
	if err := repo.CreatePlayer(p); err != nil {
		return nil, nil, err
	}
	return g, p, nil
}

// AddBots fills lobby slots with autonomous players. Host only; capped at
// the remaining capacity. Returns how many were added.
func AddBots(repo Repository, gameID, requesterID uint, token string, count int) (int, error) {
	requester, err := RequirePlayer(repo, gameID, requesterID, token)
	if err != nil {
		return 0, err
	}
	g, err := repo.GetGameByID(gameID)
	if err != nil {
		return 0, ErrGameNotFound
	}
	if g.HostPlayerID != requester.ID {
		return 0, ErrNotHost
	}
	if g.Status != game.StatusLobby {
		return 0, ErrGameAlreadyStarted
	}

	players, err := repo.GetPlayersByGame(gameID)
	if err != nil {
		return 0, err
	}

	available := game.MaxPlayers - countParticipants(players)
	if count < 0 {
		count = 0
	}
	if count > available {
		count = available
	}

	existingBots := 0
	for i := range players {
		if players[i].IsBot {
			existingBots++
		}
	}

	for i := 0; i < count; i++ {
		bot := &game.Player{
			GameID:       gameID,
			PublicID:     uuid.NewString(),
			Name:         fmt.Sprintf("Bot %d", existingBots+i+1),
			SessionToken: random.SessionToken(),
			IsBot:        true,
			IsAlive:      true,
		}
		if err := repo.CreatePlayer(bot); err != nil {
			return i, err
		}
	}
	return count, nil
}

// countParticipants counts players eligible for a role (spectators excluded).
func countParticipants(players []game.Player) int {
	n := 0
	for i := range players {
		if !players[i].IsSpectator {
			n++
		}
	}
	return n
}
