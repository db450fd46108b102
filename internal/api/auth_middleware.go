package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nightfall-games/mafia-night/internal/constants"
)

const (
	ctxPlayerID     = "playerID"
	ctxSessionToken = "sessionToken"
)

// SessionRequired extracts the player credentials from the request headers.
// It only checks presence and shape; every operation validates the token
// against the stored player before acting.
func SessionRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		idHeader := c.GetHeader(constants.HeaderPlayerID)
		token := c.GetHeader(constants.HeaderSessionToken)
		if idHeader == "" || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrAuthRequired})
			return
		}
		id, err := strconv.ParseUint(idHeader, 10, 32)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrInvalidSession})
			return
		}
		c.Set(ctxPlayerID, uint(id))
		c.Set(ctxSessionToken, token)
		c.Next()
	}
}

// sessionFrom returns the credentials stored by SessionRequired.
func sessionFrom(c *gin.Context) (uint, string) {
	id, _ := c.Get(ctxPlayerID)
	token, _ := c.Get(ctxSessionToken)
	playerID, _ := id.(uint)
	sessionToken, _ := token.(string)
	return playerID, sessionToken
}
