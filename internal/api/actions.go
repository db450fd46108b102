package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nightfall-games/mafia-night/internal/constants"
	"github.com/nightfall-games/mafia-night/internal/service"
)

type NightActionPayload struct {
	TargetID uint `json:"target_id"`
}

// SubmitNightAction records the caller's night action for the current round.
// The action kind follows from the caller's role; resubmitting replaces the
// earlier choice.
func (h *GameHandler) SubmitNightAction(c *gin.Context) {
	g := h.resolveGame(c)
	if g == nil {
		return
	}
	var req NightActionPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	playerID, token := sessionFrom(c)
	if err := service.SubmitNightAction(h.repo, g.ID, playerID, token, req.TargetID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyMessage: "Action recorded"})
}

type VotePayload struct {
	// TargetID absent or null records an abstention.
	TargetID *uint `json:"target_id"`
}

// SubmitVote records the caller's vote for the current day.
func (h *GameHandler) SubmitVote(c *gin.Context) {
	g := h.resolveGame(c)
	if g == nil {
		return
	}
	var req VotePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	playerID, token := sessionFrom(c)
	if err := service.SubmitVote(h.repo, g.ID, playerID, token, req.TargetID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyMessage: "Vote recorded"})
}

type ChatPayload struct {
	Content   string `json:"content"`
	Spectator bool   `json:"spectator"`
}

// SendChat posts a message to the player or spectator channel.
func (h *GameHandler) SendChat(c *gin.Context) {
	g := h.resolveGame(c)
	if g == nil {
		return
	}
	var req ChatPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	playerID, token := sessionFrom(c)
	if err := service.SendChat(h.repo, h.notifier, g.ID, playerID, token, req.Content, req.Spectator); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyMessage: "Message sent"})
}
