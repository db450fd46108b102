package service

import "github.com/nightfall-games/mafia-night/internal/game"

// Repository is the slice of the storage surface the service layer needs.
// storage.Repository satisfies it; tests use small in-memory fakes.
type Repository interface {
	CreateGame(g *game.Game) error
	GetGameByID(id uint) (*game.Game, error)
	FindGameByJoinCode(code string) (*game.Game, error)
	UpdateGame(g *game.Game) error

	CreatePlayer(p *game.Player) error
	UpdatePlayer(p *game.Player) error
	GetPlayerByID(id uint) (*game.Player, error)
	GetPlayersByGame(gameID uint) ([]game.Player, error)
	GetAlivePlayers(gameID uint) ([]game.Player, error)

	UpsertNightAction(a *game.NightAction) error
	GetNightActionByActor(gameID uint, dayNumber int, playerID uint) (*game.NightAction, error)

	UpsertVote(v *game.Vote) error

	CreateChatMessage(m *game.ChatMessage) error
}

// PhaseStarter opens round phases; the scheduler implements it. StartGame
// hands off to it once roles are assigned.
type PhaseStarter interface {
	StartNight(gameID uint)
}

// ChatNotifier schedules autonomous players to answer a human message with
// a randomized delay. A nil notifier disables replies.
type ChatNotifier interface {
	ScheduleReply(gameID, botPlayerID uint)
}
