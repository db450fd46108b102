package api

import (
	"github.com/gin-gonic/gin"

	"github.com/nightfall-games/mafia-night/internal/constants"
)

// RegisterRoutes mounts every endpoint under /api. Public endpoints cover
// lobby entry and open game state; everything acting as a player requires
// session headers.
func RegisterRoutes(router *gin.Engine, h *GameHandler) {
	apiRoutes := router.Group(constants.RouteAPIPrefix)
	{
		// Public endpoints
		apiRoutes.GET(constants.RouteVersion, Version)
		apiRoutes.GET(constants.RouteHealth, Health)
		apiRoutes.POST(constants.RouteGames, h.CreateGame)
		apiRoutes.POST(constants.RouteGamesJoin, h.JoinGame)
		apiRoutes.GET(constants.RouteGameByCode, h.GetGame)
		apiRoutes.GET(constants.RouteGamePlayers, h.ListPlayers)
		apiRoutes.GET(constants.RouteGameVotes, h.GetVotes)
		apiRoutes.GET(constants.RouteGameChat, h.GetChat)

		// Session-bound endpoints
		protected := apiRoutes.Group("")
		protected.Use(SessionRequired())

		protected.POST(constants.RouteGameBots, h.AddBots)
		protected.POST(constants.RouteGameStart, h.StartGame)
		protected.POST(constants.RouteGameAction, h.SubmitNightAction)
		protected.POST(constants.RouteGameVote, h.SubmitVote)
		protected.POST(constants.RouteGameChat, h.SendChat)
		protected.GET(constants.RouteGameSelf, h.GetSelf)
		protected.GET(constants.RouteGameMafiaTeam, h.GetMafiaTeam)
		protected.GET(constants.RouteGameInvestigations, h.GetInvestigations)
		protected.GET(constants.RouteGameNightSummary, h.GetNightSummary)
		protected.GET(constants.RouteGameRoles, h.GetRoles)
	}
}
