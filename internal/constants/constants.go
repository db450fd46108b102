package constants

// Centralized constants for headers, env keys and the decision provider.
const (
	// Environment variable keys
	EnvConfigPath   = "MAFIA_CONFIG"
	EnvDBPath       = "MAFIA_DB"
	EnvOpenAIAPIKey = "OPENAI_API_KEY"

	// HTTP headers and content types
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
	HeaderPlayerID      = "X-Player-Id"
	HeaderSessionToken  = "X-Session-Token"

	ContentTypeJSON = "application/json"

	BearerPrefix = "Bearer "

	// Decision provider (OpenAI-compatible chat completions)
	OpenAIBaseURL             = "https://api.openai.com"
	OpenAIChatCompletionsPath = "/v1/chat/completions"
	OpenAIChatModel           = "gpt-4o-mini"
)

// Routes used by the backend router
const (
	RouteAPIPrefix          = "/api"
	RouteGames              = "/games"
	RouteGamesJoin          = "/games/join"
	RouteGameByCode         = "/games/:gameCode"
	RouteGameBots           = "/games/:gameCode/bots"
	RouteGameStart          = "/games/:gameCode/start"
	RouteGameAction         = "/games/:gameCode/action"
	RouteGameVote           = "/games/:gameCode/vote"
	RouteGameChat           = "/games/:gameCode/chat"
	RouteGamePlayers        = "/games/:gameCode/players"
	RouteGameSelf           = "/games/:gameCode/me"
	RouteGameMafiaTeam      = "/games/:gameCode/mafia"
	RouteGameVotes          = "/games/:gameCode/votes"
	RouteGameInvestigations = "/games/:gameCode/investigations"
	RouteGameNightSummary   = "/games/:gameCode/night-summary"
	RouteGameRoles          = "/games/:gameCode/roles"
	RouteVersion            = "/version"
	RouteHealth             = "/healthz"
)

// Common JSON response keys
const (
	JSONKeyError   = "error"
	JSONKeyMessage = "message"
)

// Error messages returned directly by API handlers. Rule violations from
// the service layer surface through their sentinel error text instead.
const (
	ErrInvalidRequest  = "Invalid request"
	ErrInvalidGameCode = "Invalid game code"
	ErrGameNotFound    = "Game not found"
	ErrAuthRequired    = "Authentication required"
	ErrInvalidSession  = "Invalid session"

	ErrFailedCreateGame = "Failed to create game"
	ErrFailedSendChat   = "Failed to send message"
	ErrGameNotActive    = "Game is not active"
	ErrRolesNotVisible  = "Roles are hidden until the game ends"
)

// Logging field names
const (
	LogFieldGameID   = "game_id"
	LogFieldPlayerID = "player_id"
	LogFieldDay      = "day_number"
	LogFieldPhase    = "phase"
	LogFieldTask     = "task"
	LogFieldRole     = "role"
	LogFieldTarget   = "target_id"
	LogFieldWinner   = "winner"
	LogFieldAddr     = "addr"
	LogFieldSource   = "source"
)
