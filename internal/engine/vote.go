package engine

import (
	"fmt"

	"github.com/nightfall-games/mafia-night/internal/game"
)

// VoteOutcome is the pure result of tallying one day's votes.
type VoteOutcome struct {
	EliminatedID   uint
	EliminatedName string
	Summary        string
}

// TallyVotes counts votes from living players (abstentions excluded) and
// eliminates the top target only when it holds strictly more than half of
// the living-player count and is not tied at the top. Anything less leaves
// the town intact for the day.
func TallyVotes(alive []game.Player, votes []game.Vote) VoteOutcome {
	byID := make(map[uint]*game.Player, len(alive))
	for i := range alive {
		byID[alive[i].ID] = &alive[i]
	}

	counts := make(map[uint]int)
	for _, v := range votes {
		if v.TargetID == nil {
			continue
		}
		if byID[v.VoterID] == nil {
			continue
		}
		counts[*v.TargetID]++
	}

	var topID uint
	highest := 0
	tie := false
	for targetID, count := range counts {
		if count > highest {
			highest = count
			topID = targetID
			tie = false
		} else if count == highest {
			tie = true
		}
	}

	majority := len(alive)/2 + 1
	out := VoteOutcome{Summary: "No one was eliminated today."}
	if highest < majority || tie {
		return out
	}

	target := byID[topID]
	if target == nil || !target.IsAlive {
		return out
	}

	out.EliminatedID = topID
	out.EliminatedName = target.Name
	out.Summary = fmt.Sprintf("%s was voted out.", target.Name)
	return out
}
