package service

import "errors"

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrGameNotFound   = errors.New("game not found")
	ErrPlayerNotFound = errors.New("player not found")

	// Lobby control
	ErrGameAlreadyStarted = errors.New("game already started")
	ErrNotHost            = errors.New("not host")
	ErrTooFewPlayers      = errors.New("not enough players")
	ErrLobbyFull          = errors.New("lobby is full")

	// Phase gating
	ErrGameNotActive  = errors.New("game is not active")
	ErrNotNightPhase  = errors.New("not night phase")
	ErrNotVotingPhase = errors.New("not voting phase")

	// Submission rules
	ErrPlayerEliminated          = errors.New("player is eliminated")
	ErrTargetNotAlive            = errors.New("target is not alive")
	ErrInvalidTarget             = errors.New("invalid target")
	ErrNoNightAction             = errors.New("no night action available")
	ErrMafiaFriendlyFire         = errors.New("mafia cannot target fellow mafia")
	ErrSheriffSelfTarget         = errors.New("sheriff cannot investigate themselves")
	ErrDoctorRepeatedSelfProtect = errors.New("doctor cannot self-protect twice in a row")

	// Chat rules
	ErrNightChatForbidden = errors.New("cannot chat during night phase")
	ErrSpectatorChatOnly  = errors.New("spectators can only use spectator chat")
	ErrPlayerChatOnly     = errors.New("only spectators can send spectator chat")
)
