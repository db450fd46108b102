package engine

import (
	"testing"

	"github.com/nightfall-games/mafia-night/internal/game"
)

func TestEvaluateWinner_TownWinsAtZeroMafia(t *testing.T) {
	rosters := [][]game.Player{
		{
			mkPlayer(1, "A", game.RoleDoctor, true),
			mkPlayer(2, "B", game.RoleCitizen, true),
		},
		{
			mkPlayer(2, "B", game.RoleCitizen, true),
			mkPlayer(1, "A", game.RoleDoctor, true),
			mkPlayer(3, "C", game.RoleSheriff, true),
		},
		{
			mkPlayer(1, "A", game.RoleCitizen, true),
		},
	}
	for i, alive := range rosters {
		if w := EvaluateWinner(alive); w != game.WinnerTown {
			t.Fatalf("roster %d: expected town win with zero mafia, got %q", i, w)
		}
	}
}

func TestEvaluateWinner_MafiaDominance(t *testing.T) {
	alive := []game.Player{
		mkPlayer(1, "M", game.RoleMafia, true),
		mkPlayer(2, "A", game.RoleCitizen, true),
	}
	if w := EvaluateWinner(alive); w != game.WinnerMafia {
		t.Fatalf("expected mafia win at parity, got %q", w)
	}

	alive = append(alive, mkPlayer(3, "B", game.RoleCitizen, true))
	if w := EvaluateWinner(alive); w != game.WinnerNone {
		t.Fatalf("expected no winner while mafia is outnumbered, got %q", w)
	}
}

func TestEvaluateWinner_Undecided(t *testing.T) {
	alive := []game.Player{
		mkPlayer(1, "M", game.RoleMafia, true),
		mkPlayer(2, "D", game.RoleDoctor, true),
		mkPlayer(3, "A", game.RoleCitizen, true),
		mkPlayer(4, "B", game.RoleCitizen, true),
	}
	if w := EvaluateWinner(alive); w != game.WinnerNone {
		t.Fatalf("expected undecided game, got %q", w)
	}
}
