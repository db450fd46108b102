package service

import (
	"github.com/nightfall-games/mafia-night/internal/game"
)

// SubmitNightAction validates and stores a night action for the current
// round. The action kind is derived from the actor's role, never from the
// request. Resubmission within the same round replaces the stored row; a
// rejected submission leaves the game state untouched.
func SubmitNightAction(repo Repository, gameID, playerID uint, token string, targetID uint) error {
	actor, err := RequirePlayer(repo, gameID, playerID, token)
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
	if g.Phase != game.PhaseNight {
		return ErrNotNightPhase
	}
	if !actor.IsAlive {
		return ErrPlayerEliminated
	}

	kind := actor.Role.NightCapability()
	if kind == "" {
		return ErrNoNightAction
	}

	target, err := repo.GetPlayerByID(targetID)
	if err != nil || target == nil || target.GameID != gameID {
		return ErrInvalidTarget
	}
	if !target.IsAlive {
		return ErrTargetNotAlive
	}

	switch actor.Role {
	case game.RoleMafia:
		if target.Role.IsMafia() {
			return ErrMafiaFriendlyFire
		}
	case game.RoleSheriff:
		if target.ID == actor.ID {
			return ErrSheriffSelfTarget
		}
	case game.RoleDoctor:
		if target.ID == actor.ID {
			if err := checkRepeatedSelfProtect(repo, g, actor.ID); err != nil {
				return err
			}
		}
	}

	return repo.UpsertNightAction(&game.NightAction{
		GameID:    gameID,
		DayNumber: g.DayNumber,
		PlayerID:  actor.ID,
		Kind:      kind,
		TargetID:  target.ID,
	})
}

// checkRepeatedSelfProtect rejects a doctor self-protect when the previous
// round's stored action was already a self-protect. Enforced at submission,
// not at resolution.
func checkRepeatedSelfProtect(repo Repository, g *game.Game, doctorID uint) error {
	previousDay := g.DayNumber - 1
	if previousDay < 1 {
		return nil
	}
	previous, err := repo.GetNightActionByActor(g.ID, previousDay, doctorID)
	if err != nil {
		return err
	}
	if previous != nil && previous.Kind == game.ActionProtect && previous.TargetID == doctorID {
		return ErrDoctorRepeatedSelfProtect
	}
	return nil
}
