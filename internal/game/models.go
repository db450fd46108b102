package game

import (
	"time"

	"gorm.io/gorm"
)

// GameStatus tracks the lifecycle of a game from lobby to finish.
type GameStatus string

const (
	StatusLobby    GameStatus = "lobby"
	StatusPlaying  GameStatus = "playing"
	StatusFinished GameStatus = "finished"
)

// Phase is only meaningful while Status is StatusPlaying.
type Phase string

const (
	PhaseNone          Phase = ""
	PhaseNight         Phase = "night"
	PhaseDayDiscussion Phase = "day_discussion"
	PhaseDayVoting     Phase = "day_voting"
)

// Winner is recorded on the game once a faction has won.
type Winner string

const (
	WinnerNone  Winner = ""
	WinnerTown  Winner = "town"
	WinnerMafia Winner = "mafia"
)

type Game struct {
	gorm.Model
	JoinCode string     `json:"join_code" gorm:"uniqueIndex;size:6"`
	Status   GameStatus `json:"status"`
	// Phase and DayNumber only move forward; they are mutated exclusively by
	// StartGame and the scheduler's transition handlers.
	Phase     Phase `json:"phase"`
	DayNumber int   `json:"day_number"`
	// PhaseDeadline is the absolute wall-clock time at which the current
	// phase resolves. Zero while no phase is active.
	PhaseDeadline   time.Time `json:"phase_deadline"`
	HostPlayerID    uint      `json:"host_player_id"`
	Winner          Winner    `json:"winner"`
	LastNightResult string    `json:"last_night_result"`
	LastDayResult   string    `json:"last_day_result"`
	Players         []Player  `json:"players"`
}

type Player struct {
	gorm.Model
	GameID   uint   `json:"-" gorm:"index"`
	PublicID string `json:"public_id" gorm:"uniqueIndex;size:36"`
	Name     string `json:"name" gorm:"size:32"`
	// SessionToken is the opaque per-player credential issued at join. It is
	// returned once by create/join and never appears in any other response.
	SessionToken string `json:"-" gorm:"uniqueIndex;size:32"`
	IsBot        bool   `json:"is_bot"`
	IsAlive      bool   `json:"is_alive"`
	// IsSpectator is set when the player is eliminated or joined as an
	// observer. Once set by an elimination it never reverts.
	IsSpectator bool `json:"is_spectator"`
	// Role is assigned at game start and redacted from public responses.
	Role Role `json:"-"`
}

func (Player) TableName() string { return "game_players" }

// NightActionKind is derived from the actor's role at submission time.
type NightActionKind string

const (
	ActionKill        NightActionKind = "kill"
	ActionProtect     NightActionKind = "protect"
	ActionInvestigate NightActionKind = "investigate"
)

// NightAction holds at most one row per (game, day, actor). Resubmission
// replaces the stored row rather than appending.
type NightAction struct {
	gorm.Model
	GameID    uint            `json:"-" gorm:"uniqueIndex:idx_night_actions_game_day_actor"`
	DayNumber int             `json:"day_number" gorm:"uniqueIndex:idx_night_actions_game_day_actor"`
	PlayerID  uint            `json:"player_id" gorm:"uniqueIndex:idx_night_actions_game_day_actor"`
	Kind      NightActionKind `json:"kind"`
	TargetID  uint            `json:"target_id"`
}

// Vote holds at most one row per (game, day, voter). A nil TargetID is an
// abstention; it records the voter's latest intent without counting toward
// an elimination.
type Vote struct {
	gorm.Model
	GameID    uint  `json:"-" gorm:"uniqueIndex:idx_votes_game_day_voter"`
	DayNumber int   `json:"day_number" gorm:"uniqueIndex:idx_votes_game_day_voter"`
	VoterID   uint  `json:"voter_id" gorm:"uniqueIndex:idx_votes_game_day_voter"`
	TargetID  *uint `json:"target_id"`
}

// Investigation is the append-only result of a resolved investigate action.
// Rows are never updated or deleted and are visible only to the sheriff that
// produced them.
type Investigation struct {
	gorm.Model
	GameID    uint `json:"-" gorm:"index"`
	SheriffID uint `json:"-" gorm:"index"`
	TargetID  uint `json:"target_id"`
	IsMafia   bool `json:"is_mafia"`
	DayNumber int  `json:"day_number"`
}

func (Investigation) TableName() string { return "sheriff_reveals" }

type ChatMessage struct {
	gorm.Model
	GameID        uint   `json:"-" gorm:"index"`
	PlayerID      uint   `json:"player_id"`
	Content       string `json:"content" gorm:"size:280"`
	SpectatorChat bool   `json:"spectator_chat"`
}

// BotMemoryEntry is one private event recorded for an autonomous player
// (night outcomes, investigation results, game end). Entries are append-only
// and feed the decision prompts.
type BotMemoryEntry struct {
	gorm.Model
	GameID    uint   `json:"-" gorm:"index"`
	PlayerID  uint   `json:"-" gorm:"index"`
	DayNumber int    `json:"day_number"`
	Event     string `json:"event" gorm:"size:256"`
}

func (BotMemoryEntry) TableName() string { return "bot_memories" }
