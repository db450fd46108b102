package game

// Role is the closed set of hidden roles. Using a dedicated type instead of
// plain strings keeps the rule checks exhaustive and self-documenting.
type Role string

const (
	RoleNone    Role = ""
	RoleMafia   Role = "mafia"
	RoleDoctor  Role = "doctor"
	RoleSheriff Role = "sheriff"
	RoleCitizen Role = "citizen"
)

// IsMafia reports whether the role belongs to the hostile faction.
func (r Role) IsMafia() bool { return r == RoleMafia }

// NightCapability returns the night action a role may submit, or "" for
// roles with no night action.
func (r Role) NightCapability() NightActionKind {
	switch r {
	case RoleMafia:
		return ActionKill
	case RoleDoctor:
		return ActionProtect
	case RoleSheriff:
		return ActionInvestigate
	default:
		return ""
	}
}

const (
	MinPlayers = 4
	MaxPlayers = 10
)

// RoleCounts returns the role distribution for a roster size:
// one doctor always, one sheriff from five players up, and a mafia count
// that scales with the roster (1 for 4-5, 2 for 6-7, 3 for 8-10). The
// remainder are citizens.
func RoleCounts(playerCount int) (mafia, doctor, sheriff, citizens int) {
	mafia = 1
	doctor = 1
	switch {
	case playerCount >= 8:
		mafia = 3
		sheriff = 1
	case playerCount >= 6:
		mafia = 2
		sheriff = 1
	case playerCount >= 5:
		sheriff = 1
	}
	citizens = playerCount - mafia - doctor - sheriff
	if citizens < 0 {
		citizens = 0
	}
	return mafia, doctor, sheriff, citizens
}

// BuildRoles expands RoleCounts into a flat slice of roles, one per player.
// Callers shuffle the roster, not this slice, so every assignment ordering
// is equally likely.
func BuildRoles(playerCount int) []Role {
	mafia, doctor, sheriff, citizens := RoleCounts(playerCount)
	roles := make([]Role, 0, playerCount)
	for i := 0; i < mafia; i++ {
		roles = append(roles, RoleMafia)
	}
	for i := 0; i < doctor; i++ {
		roles = append(roles, RoleDoctor)
	}
	for i := 0; i < sheriff; i++ {
		roles = append(roles, RoleSheriff)
	}
	for i := 0; i < citizens; i++ {
		roles = append(roles, RoleCitizen)
	}
	return roles
}
