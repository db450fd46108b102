package api

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/nightfall-games/mafia-night/internal/constants"
	"github.com/nightfall-games/mafia-night/internal/service"
)

const maxPlayerNameRunes = 32

type CreateGamePayload struct {
	PlayerName string `json:"player_name"`
}

// CreateGame creates a new lobby and returns the join code plus the host's
// credentials. The session token appears in this response only.
func (h *GameHandler) CreateGame(c *gin.Context) {
	var req CreateGamePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	name := strings.TrimSpace(req.PlayerName)
	if name == "" || utf8.RuneCountInString(name) > maxPlayerNameRunes {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	g, host, err := service.CreateLobby(h.repo, name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedCreateGame})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"game_id":       g.ID,
		"join_code":     g.JoinCode,
		"player_id":     host.ID,
		"public_id":     host.PublicID,
		"session_token": host.SessionToken,
	})
}

type JoinGamePayload struct {
	JoinCode   string `json:"join_code"`
	PlayerName string `json:"player_name"`
	Spectator  bool   `json:"spectator"`
}

// JoinGame adds a player (or spectator) to a lobby via join code.
func (h *GameHandler) JoinGame(c *gin.Context) {
	var req JoinGamePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	name := strings.TrimSpace(req.PlayerName)
	if name == "" || utf8.RuneCountInString(name) > maxPlayerNameRunes {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	code := normalizeJoinCode(req.JoinCode)
	if code == "" || !joinCodeRegex.MatchString(code) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidGameCode})
		return
	}

	g, p, err := service.JoinLobby(h.repo, code, name, req.Spectator)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"game_id":       g.ID,
		"join_code":     g.JoinCode,
		"player_id":     p.ID,
		"public_id":     p.PublicID,
		"session_token": p.SessionToken,
	})
}

type AddBotsPayload struct {
	Count int `json:"count"`
}

// AddBots fills remaining lobby slots with autonomous players. Host only.
func (h *GameHandler) AddBots(c *gin.Context) {
	g := h.resolveGame(c)
	if g == nil {
		return
	}
	var req AddBotsPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	playerID, token := sessionFrom(c)
	added, err := service.AddBots(h.repo, g.ID, playerID, token, req.Count)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"added": added})
}

// StartGame assigns roles and opens the first night. Host only.
func (h *GameHandler) StartGame(c *gin.Context) {
	g := h.resolveGame(c)
	if g == nil {
		return
	}
	playerID, token := sessionFrom(c)
	if err := service.StartGame(h.repo, h.starter, g.ID, playerID, token); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyMessage: "Game started"})
}
