package api

import (
	"github.com/nightfall-games/mafia-night/internal/service"
	"github.com/nightfall-games/mafia-night/internal/storage"
)

// GameHandler groups all game-related HTTP handlers.
type GameHandler struct {
	repo     storage.Repository
	starter  service.PhaseStarter
	notifier service.ChatNotifier
}

// NewGameHandler creates a new GameHandler. The starter opens the first
// night when a host starts a game; the notifier schedules bot chat replies.
func NewGameHandler(repo storage.Repository, starter service.PhaseStarter, notifier service.ChatNotifier) *GameHandler {
	return &GameHandler{repo: repo, starter: starter, notifier: notifier}
}
