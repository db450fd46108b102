package storage

import (
	"github.com/nightfall-games/mafia-night/internal/game"
)

// Repository is the persistence surface of the orchestrator. One row per
// (game, day, actor) for actions and votes; investigations, chat and bot
// memories are append-only.
type Repository interface {
	CreateGame(g *game.Game) error
	GetGameByID(id uint) (*game.Game, error)
	// FindGameByJoinCode resolves the human-entry code; players are not
	// preloaded.
	FindGameByJoinCode(code string) (*game.Game, error)
	UpdateGame(g *game.Game) error

	CreatePlayer(p *game.Player) error
	UpdatePlayer(p *game.Player) error
	GetPlayerByID(id uint) (*game.Player, error)
	GetPlayersByGame(gameID uint) ([]game.Player, error)
	GetAlivePlayers(gameID uint) ([]game.Player, error)

	// UpsertNightAction stores the latest action for (game, day, actor) as a
	// single atomic write.
	UpsertNightAction(a *game.NightAction) error
	GetNightActions(gameID uint, dayNumber int) ([]game.NightAction, error)
	GetNightActionByActor(gameID uint, dayNumber int, playerID uint) (*game.NightAction, error)

	// UpsertVote stores the latest vote for (game, day, voter) as a single
	// atomic write. A nil target is an abstention.
	UpsertVote(v *game.Vote) error
	GetVotes(gameID uint, dayNumber int) ([]game.Vote, error)

	CreateInvestigation(rec *game.Investigation) error
	GetInvestigationsBySheriff(gameID, sheriffID uint) ([]game.Investigation, error)

	CreateChatMessage(m *game.ChatMessage) error
	// GetChatMessages returns messages for one channel in ascending order.
	GetChatMessages(gameID uint, spectatorChat bool, limit int) ([]game.ChatMessage, error)
	// GetRecentPlayerChat returns the most recent non-spectator messages in
	// ascending order, capped at limit.
	GetRecentPlayerChat(gameID uint, limit int) ([]game.ChatMessage, error)

	AppendBotMemory(e *game.BotMemoryEntry) error
	GetBotMemory(playerID uint) ([]game.BotMemoryEntry, error)
}
