package engine

import "github.com/nightfall-games/mafia-night/internal/game"

// EvaluateWinner is a pure function over the living roster: town wins the
// moment no mafia remain; mafia wins when their count reaches or exceeds
// everyone else (dominance, evaluated after every elimination). Returns
// WinnerNone while the game is still undecided.
func EvaluateWinner(alive []game.Player) game.Winner {
	mafiaCount := 0
	for i := range alive {
		if alive[i].Role.IsMafia() {
			mafiaCount++
		}
	}
	townCount := len(alive) - mafiaCount

	if mafiaCount == 0 {
		return game.WinnerTown
	}
	if mafiaCount >= townCount {
		return game.WinnerMafia
	}
	return game.WinnerNone
}
