package service

import (
	"github.com/nightfall-games/mafia-night/internal/game"
)

// SubmitVote validates and stores a vote for the current round. A nil
// target is an abstention. Resubmission within the same round replaces the
// stored row.
func SubmitVote(repo Repository, gameID, voterID uint, token string, targetID *uint) error {
	voter, err := RequirePlayer(repo, gameID, voterID, token)
	if err != nil {
		return err
	}

	g, err := repo.GetGameByID(gameID)
	if err != nil {
		return ErrGameNotFound
	}
	if g.Status != game.StatusPlaying {
		return ErrGameNotActive
	}
	if g.Phase != game.PhaseDayVoting {
		return ErrNotVotingPhase
	}
	if !voter.IsAlive {
		return ErrPlayerEliminated
	}

	if targetID != nil {
		target, err := repo.GetPlayerByID(*targetID)
		if err != nil || target == nil || target.GameID != gameID {
			return ErrInvalidTarget
		}
		if !target.IsAlive {
			return ErrTargetNotAlive
		}
	}

	return repo.UpsertVote(&game.Vote{
		GameID:    gameID,
		DayNumber: g.DayNumber,
		VoterID:   voter.ID,
		TargetID:  targetID,
	})
}
