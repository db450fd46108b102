package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nightfall-games/mafia-night/internal/constants"
	"github.com/nightfall-games/mafia-night/internal/game"
	"github.com/nightfall-games/mafia-night/internal/service"
)

// joinCodeRegex matches the join-code charset (no I, O, 0 or 1).
var joinCodeRegex = regexp.MustCompile("^[A-HJ-NP-Z2-9]{6}$")

func normalizeJoinCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// resolveGame turns the :gameCode route param into a game row. It writes
// the error response itself; callers bail out on nil.
func (h *GameHandler) resolveGame(c *gin.Context) *game.Game {
	code := normalizeJoinCode(c.Param("gameCode"))
	if code == "" || !joinCodeRegex.MatchString(code) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidGameCode})
		return nil
	}
	g, err := h.repo.FindGameByJoinCode(code)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrGameNotFound})
		return nil
	}
	return g
}

// respondServiceError maps service sentinel errors onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrGameNotFound), errors.Is(err, service.ErrPlayerNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrNotHost):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrLobbyFull),
		errors.Is(err, service.ErrGameAlreadyStarted),
		errors.Is(err, service.ErrGameNotActive),
		errors.Is(err, service.ErrNotNightPhase),
		errors.Is(err, service.ErrNotVotingPhase),
		errors.Is(err, service.ErrNightChatForbidden):
		status = http.StatusConflict
	case errors.Is(err, service.ErrTooFewPlayers),
		errors.Is(err, service.ErrPlayerEliminated),
		errors.Is(err, service.ErrTargetNotAlive),
		errors.Is(err, service.ErrInvalidTarget),
		errors.Is(err, service.ErrNoNightAction),
		errors.Is(err, service.ErrMafiaFriendlyFire),
		errors.Is(err, service.ErrSheriffSelfTarget),
		errors.Is(err, service.ErrDoctorRepeatedSelfProtect),
		errors.Is(err, service.ErrSpectatorChatOnly),
		errors.Is(err, service.ErrPlayerChatOnly):
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{constants.JSONKeyError: err.Error()})
}

// normalizeTimestamps recursively renames GORM timestamp keys from CamelCase
// (CreatedAt, UpdatedAt, DeletedAt) to snake_case so clients consistently
// receive snake_case keys.
func normalizeTimestamps(v interface{}) interface{} {
	switch vv := v.(type) {
	case map[string]interface{}:
		for k, val := range vv {
			vv[k] = normalizeTimestamps(val)
		}
		if val, ok := vv["CreatedAt"]; ok {
			vv["created_at"] = val
			delete(vv, "CreatedAt")
		}
		if val, ok := vv["UpdatedAt"]; ok {
			vv["updated_at"] = val
			delete(vv, "UpdatedAt")
		}
		if val, ok := vv["DeletedAt"]; ok {
			vv["deleted_at"] = val
			delete(vv, "DeletedAt")
		}
		return vv
	case []interface{}:
		for i := range vv {
			vv[i] = normalizeTimestamps(vv[i])
		}
		return vv
	default:
		return v
	}
}

// MarshalIntoSnakeTimestamps marshals the given value into JSON, decodes it
// back and normalizes timestamp keys. Role and session token fields are
// already excluded by the model json tags, so this output is safe for any
// viewer.
func MarshalIntoSnakeTimestamps(v interface{}) (interface{}, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out interface{}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return normalizeTimestamps(out), nil
}
