package storage

import (
	"errors"

	"github.com/nightfall-games/mafia-night/internal/game"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type sqliteRepository struct {
	db *gorm.DB
}

func NewSQLiteRepository(db *gorm.DB) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) CreateGame(g *game.Game) error {
	return r.db.Create(g).Error
}

func (r *sqliteRepository) GetGameByID(id uint) (*game.Game, error) {
	var g game.Game
	if err := r.db.First(&g, id).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *sqliteRepository) FindGameByJoinCode(code string) (*game.Game, error) {
	var g game.Game
	if err := r.db.Where("join_code = ?", code).First(&g).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *sqliteRepository) UpdateGame(g *game.Game) error {
	// Save the game row only; player rows are updated explicitly so a phase
	// transition never clobbers a concurrent submission.
	return r.db.Omit("Players").Save(g).Error
}

func (r *sqliteRepository) CreatePlayer(p *game.Player) error {
	return r.db.Create(p).Error
}

func (r *sqliteRepository) UpdatePlayer(p *game.Player) error {
	return r.db.Save(p).Error
}

func (r *sqliteRepository) GetPlayerByID(id uint) (*game.Player, error) {
	var p game.Player
	if err := r.db.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *sqliteRepository) GetPlayersByGame(gameID uint) ([]game.Player, error) {
	var players []game.Player
	if err := r.db.Where("game_id = ?", gameID).Order("id asc").Find(&players).Error; err != nil {
		return nil, err
	}
	return players, nil
}

func (r *sqliteRepository) GetAlivePlayers(gameID uint) ([]game.Player, error) {
	var players []game.Player
	err := r.db.Where("game_id = ? AND is_alive = ?", gameID, true).Order("id asc").Find(&players).Error
	if err != nil {
		return nil, err
	}
	return players, nil
}

func (r *sqliteRepository) UpsertNightAction(a *game.NightAction) error {
	// Single atomic write keyed by (game_id, day_number, player_id):
	// concurrent resubmissions from the same actor leave exactly one row,
	// last committed wins.
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "game_id"}, {Name: "day_number"}, {Name: "player_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"kind", "target_id", "updated_at"}),
	}).Create(a).Error
}

func (r *sqliteRepository) GetNightActions(gameID uint, dayNumber int) ([]game.NightAction, error) {
	var actions []game.NightAction
	err := r.db.Where("game_id = ? AND day_number = ?", gameID, dayNumber).Find(&actions).Error
	if err != nil {
		return nil, err
	}
	return actions, nil
}

func (r *sqliteRepository) GetNightActionByActor(gameID uint, dayNumber int, playerID uint) (*game.NightAction, error) {
	var a game.NightAction
	err := r.db.Where("game_id = ? AND day_number = ? AND player_id = ?", gameID, dayNumber, playerID).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *sqliteRepository) UpsertVote(v *game.Vote) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "game_id"}, {Name: "day_number"}, {Name: "voter_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"target_id", "updated_at"}),
	}).Create(v).Error
}

func (r *sqliteRepository) GetVotes(gameID uint, dayNumber int) ([]game.Vote, error) {
	var votes []game.Vote
	err := r.db.Where("game_id = ? AND day_number = ?", gameID, dayNumber).Find(&votes).Error
	if err != nil {
		return nil, err
	}
	return votes, nil
}

func (r *sqliteRepository) CreateInvestigation(rec *game.Investigation) error {
	return r.db.Create(rec).Error
}

func (r *sqliteRepository) GetInvestigationsBySheriff(gameID, sheriffID uint) ([]game.Investigation, error) {
	var recs []game.Investigation
	err := r.db.Where("game_id = ? AND sheriff_id = ?", gameID, sheriffID).Order("day_number asc").Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *sqliteRepository) CreateChatMessage(m *game.ChatMessage) error {
	return r.db.Create(m).Error
}

func (r *sqliteRepository) GetChatMessages(gameID uint, spectatorChat bool, limit int) ([]game.ChatMessage, error) {
	var msgs []game.ChatMessage
	q := r.db.Where("game_id = ? AND spectator_chat = ?", gameID, spectatorChat).Order("id asc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}

func (r *sqliteRepository) GetRecentPlayerChat(gameID uint, limit int) ([]game.ChatMessage, error) {
	var msgs []game.ChatMessage
	err := r.db.Where("game_id = ? AND spectator_chat = ?", gameID, false).
		Order("id desc").Limit(limit).Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	// reverse into chronological order
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

func (r *sqliteRepository) AppendBotMemory(e *game.BotMemoryEntry) error {
	return r.db.Create(e).Error
}

func (r *sqliteRepository) GetBotMemory(playerID uint) ([]game.BotMemoryEntry, error) {
	var entries []game.BotMemoryEntry
	err := r.db.Where("player_id = ?", playerID).Order("id asc").Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
