package engine

import (
	"fmt"

	"github.com/nightfall-games/mafia-night/internal/game"
	"github.com/nightfall-games/mafia-night/internal/random"
)

// NightOutcome is the pure result of resolving one night: at most one
// elimination, the investigation records to append, and a human-readable
// summary for the morning announcement.
type NightOutcome struct {
	KilledID       uint
	KilledName     string
	Investigations []game.Investigation
	Summary        string
}

// ResolveNight aggregates the round's night actions over the given roster.
// The mafia kill lands on the majority target among kill actions from living
// mafia members, ties broken uniformly at random; any protect action on that
// target cancels the kill outright.
func ResolveNight(gameID uint, dayNumber int, players []game.Player, actions []game.NightAction) NightOutcome {
	byID := make(map[uint]*game.Player, len(players))
	for i := range players {
		byID[players[i].ID] = &players[i]
	}

	var killTargets []uint
	protected := make(map[uint]bool)
	var investigates []game.NightAction

	for _, a := range actions {
		actor := byID[a.PlayerID]
		if actor == nil {
			continue
		}
		switch a.Kind {
		case game.ActionKill:
			if actor.Role.IsMafia() && actor.IsAlive {
				killTargets = append(killTargets, a.TargetID)
			}
		case game.ActionProtect:
			protected[a.TargetID] = true
		case game.ActionInvestigate:
			investigates = append(investigates, a)
		}
	}

	out := NightOutcome{Summary: "No one died last night."}

	if killID := majorityTarget(killTargets); killID != 0 && !protected[killID] {
		if target := byID[killID]; target != nil && target.IsAlive {
			out.KilledID = killID
			out.KilledName = target.Name
			out.Summary = fmt.Sprintf("%s was eliminated during the night.", target.Name)
		}
	}

	for _, a := range investigates {
		target := byID[a.TargetID]
		if target == nil {
			continue
		}
		out.Investigations = append(out.Investigations, game.Investigation{
			GameID:    gameID,
			SheriffID: a.PlayerID,
			TargetID:  a.TargetID,
			IsMafia:   target.Role.IsMafia(),
			DayNumber: dayNumber,
		})
	}

	return out
}

// majorityTarget returns the most-voted target, breaking ties among the top
// targets uniformly at random. Zero means no target.
func majorityTarget(targets []uint) uint {
	if len(targets) == 0 {
		return 0
	}
	counts := make(map[uint]int)
	order := make([]uint, 0, len(targets))
	for _, t := range targets {
		if counts[t] == 0 {
			order = append(order, t)
		}
		counts[t]++
	}

	highest := 0
	var top []uint
	for _, t := range order {
		switch c := counts[t]; {
		case c > highest:
			highest = c
			top = []uint{t}
		case c == highest:
			top = append(top, t)
		}
	}

	if len(top) == 1 {
		return top[0]
	}
	return top[random.Intn(len(top))]
}
