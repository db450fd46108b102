package service

import (
	"crypto/subtle"

	"github.com/nightfall-games/mafia-night/internal/game"
)

// RequirePlayer validates the presented session token against the stored
// player record and the player's membership in the claimed game. It is a
// pure guard with no side effects; every mutating operation calls it first.
func RequirePlayer(repo Repository, gameID, playerID uint, token string) (*game.Player, error) {
	p, err := repo.GetPlayerByID(playerID)
	if err != nil || p == nil {
		return nil, ErrUnauthorized
	}
	if token == "" || subtle.ConstantTimeCompare([]byte(p.SessionToken), []byte(token)) != 1 {
		return nil, ErrUnauthorized
	}
	if p.GameID != gameID {
		return nil, ErrUnauthorized
	}
	return p, nil
}
