package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nightfall-games/mafia-night/internal/constants"
	"github.com/nightfall-games/mafia-night/internal/game"
	"github.com/nightfall-games/mafia-night/internal/service"
)

const defaultChatLimit = 100

// GetGame returns the public view of a game: status, phase, deadline,
// summaries and the redacted roster. Roles and tokens never appear here.
func (h *GameHandler) GetGame(c *gin.Context) {
	short := h.resolveGame(c)
	if short == nil {
		return
	}
	g, err := h.repo.GetGameByID(short.ID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrGameNotFound})
		return
	}
	out, err := MarshalIntoSnakeTimestamps(g)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	c.JSON(http.StatusOK, out)
}

// ListPlayers returns the redacted roster.
func (h *GameHandler) ListPlayers(c *gin.Context) {
	g := h.resolveGame(c)
	if g == nil {
		return
	}
	players, err := h.repo.GetPlayersByGame(g.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrGameNotFound})
		return
	}
	out, err := MarshalIntoSnakeTimestamps(players)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	c.JSON(http.StatusOK, out)
}

// GetChat returns one chat channel in ascending order. ?spectator=true
// selects the spectator channel.
func (h *GameHandler) GetChat(c *gin.Context) {
	g := h.resolveGame(c)
	if g == nil {
		return
	}
	spectator := c.Query("spectator") == "true"
	limit := defaultChatLimit
	if s := c.Query("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}
	messages, err := h.repo.GetChatMessages(g.ID, spectator, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedSendChat})
		return
	}
	out, err := MarshalIntoSnakeTimestamps(messages)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	c.JSON(http.StatusOK, out)
}

// GetSelf returns the caller's own player record including the hidden role.
func (h *GameHandler) GetSelf(c *gin.Context) {
	g := h.resolveGame(c)
	if g == nil {
		return
	}
	playerID, token := sessionFrom(c)
	p, err := service.RequirePlayer(h.repo, g.ID, playerID, token)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"player_id":    p.ID,
		"public_id":    p.PublicID,
		"name":         p.Name,
		"role":         p.Role,
		"is_alive":     p.IsAlive,
		"is_spectator": p.IsSpectator,
		"is_host":      g.HostPlayerID == p.ID,
	})
}

// GetMafiaTeam reveals fellow mafia members to a mafia caller.
func (h *GameHandler) GetMafiaTeam(c *gin.Context) {
	g := h.resolveGame(c)
	if g == nil {
		return
	}
	playerID, token := sessionFrom(c)
	p, err := service.RequirePlayer(h.repo, g.ID, playerID, token)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !p.Role.IsMafia() {
		c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrRolesNotVisible})
		return
	}

	players, err := h.repo.GetPlayersByGame(g.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrGameNotFound})
		return
	}
	team := make([]gin.H, 0, 3)
	for i := range players {
		if players[i].Role.IsMafia() {
			team = append(team, gin.H{
				"player_id": players[i].ID,
				"public_id": players[i].PublicID,
				"name":      players[i].Name,
				"is_alive":  players[i].IsAlive,
			})
		}
	}
	c.JSON(http.StatusOK, gin.H{"team": team})
}

// GetVotes returns the current day's votes. Voting is open information, but
// only while the voting phase is running or after it resolved.
func (h *GameHandler) GetVotes(c *gin.Context) {
	g := h.resolveGame(c)
	if g == nil {
		return
	}
	if g.Status == game.StatusLobby || g.DayNumber == 0 {
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrGameNotActive})
		return
	}
	votes, err := h.repo.GetVotes(g.ID, g.DayNumber)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrGameNotFound})
		return
	}
	players, err := h.repo.GetPlayersByGame(g.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrGameNotFound})
		return
	}
	names := make(map[uint]string, len(players))
	for i := range players {
		names[players[i].ID] = players[i].Name
	}

	tallies := make(map[uint]int)
	rows := make([]gin.H, 0, len(votes))
	for _, v := range votes {
		row := gin.H{"voter_id": v.VoterID, "voter_name": names[v.VoterID]}
		if v.TargetID != nil {
			row["target_id"] = *v.TargetID
			row["target_name"] = names[*v.TargetID]
			tallies[*v.TargetID]++
		}
		rows = append(rows, row)
	}
	c.JSON(http.StatusOK, gin.H{
		"day_number": g.DayNumber,
		"votes":      rows,
		"tallies":    tallies,
	})
}

// GetInvestigations returns the caller's own investigation results. Sheriff
// only; nobody else ever sees these rows.
func (h *GameHandler) GetInvestigations(c *gin.Context) {
	g := h.resolveGame(c)
	if g == nil {
		return
	}
	playerID, token := sessionFrom(c)
	p, err := service.RequirePlayer(h.repo, g.ID, playerID, token)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if p.Role != game.RoleSheriff {
		c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrRolesNotVisible})
		return
	}
	records, err := h.repo.GetInvestigationsBySheriff(g.ID, p.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrGameNotFound})
		return
	}
	out := make([]gin.H, 0, len(records))
	for _, rec := range records {
		out = append(out, gin.H{
			"day_number": rec.DayNumber,
			"target_id":  rec.TargetID,
			"is_mafia":   rec.IsMafia,
		})
	}
	c.JSON(http.StatusOK, gin.H{"investigations": out})
}

// GetNightSummary exposes the current round's night actions. Spectators only
// while the game runs; anyone once it is finished.
func (h *GameHandler) GetNightSummary(c *gin.Context) {
	g := h.resolveGame(c)
	if g == nil {
		return
	}
	playerID, token := sessionFrom(c)
	p, err := service.RequirePlayer(h.repo, g.ID, playerID, token)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !p.IsSpectator && g.Status != game.StatusFinished {
		c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrRolesNotVisible})
		return
	}

	actions, err := h.repo.GetNightActions(g.ID, g.DayNumber)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrGameNotFound})
		return
	}
	rows := make([]gin.H, 0, len(actions))
	for _, a := range actions {
		rows = append(rows, gin.H{
			"player_id": a.PlayerID,
			"kind":      a.Kind,
			"target_id": a.TargetID,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"day_number":        g.DayNumber,
		"last_night_result": g.LastNightResult,
		"actions":           rows,
	})
}

// GetRoles reveals every player's role. Available to spectators during the
// game and to everyone once it is finished.
func (h *GameHandler) GetRoles(c *gin.Context) {
	g := h.resolveGame(c)
	if g == nil {
		return
	}
	playerID, token := sessionFrom(c)
	p, err := service.RequirePlayer(h.repo, g.ID, playerID, token)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !p.IsSpectator && g.Status != game.StatusFinished {
		c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrRolesNotVisible})
		return
	}

	players, err := h.repo.GetPlayersByGame(g.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrGameNotFound})
		return
	}
	roles := make([]gin.H, 0, len(players))
	for i := range players {
		if players[i].Role == game.RoleNone {
			continue
		}
		roles = append(roles, gin.H{
			"player_id": players[i].ID,
			"public_id": players[i].PublicID,
			"name":      players[i].Name,
			"role":      players[i].Role,
			"is_alive":  players[i].IsAlive,
		})
	}
	c.JSON(http.StatusOK, gin.H{"winner": g.Winner, "roles": roles})
}
