package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nightfall-games/mafia-night/internal/version"
)

// Version returns build and VCS metadata injected at build time.
func Version(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version": version.Version,
		"commit":  version.Commit,
		"date":    version.Date,
		"dirty":   version.Dirty,
	})
}

// Health is the liveness endpoint used by the healthcheck binary.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
