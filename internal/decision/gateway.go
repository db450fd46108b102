package decision

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/nightfall-games/mafia-night/internal/config"
	"github.com/nightfall-games/mafia-night/internal/constants"
	"github.com/nightfall-games/mafia-night/internal/game"
	"github.com/nightfall-games/mafia-night/internal/logging"
	"github.com/nightfall-games/mafia-night/internal/random"
	"github.com/nightfall-games/mafia-night/internal/service"
)

// Repository extends the service surface with the private context the
// prompts are built from. storage.Repository satisfies it.
type Repository interface {
	service.Repository
	GetRecentPlayerChat(gameID uint, limit int) ([]game.ChatMessage, error)
	GetBotMemory(playerID uint) ([]game.BotMemoryEntry, error)
}

const (
	recentChatWindow    = 10
	maxChatPerBotWindow = 4
)

// Gateway drives every autonomous submission. It implements the scheduler's
// BotDispatcher and the service's ChatNotifier.
type Gateway struct {
	repo  Repository
	cfg   config.DecisionConfig
	chat  ChatFunc
	group singleflight.Group
	after func(d time.Duration, f func())
}

// NewGateway wires a gateway around the real provider client.
func NewGateway(repo Repository, cfg config.DecisionConfig) *Gateway {
	return &Gateway{
		repo:  repo,
		cfg:   cfg,
		chat:  NewClient(cfg).Complete,
		after: func(d time.Duration, f func()) { time.AfterFunc(d, f) },
	}
}

// DispatchNightActions asks every living bot with a night capability for a
// target and submits through the same validated path humans use. The
// singleflight key collapses duplicate dispatches for the same round.
func (gw *Gateway) DispatchNightActions(gameID uint, dayNumber int) {
	key := fmt.Sprintf("night:%d:%d", gameID, dayNumber)
	gw.group.Do(key, func() (interface{}, error) {
		g, err := gw.repo.GetGameByID(gameID)
		if err != nil || g.Status != game.StatusPlaying || g.Phase != game.PhaseNight || g.DayNumber != dayNumber {
			return nil, nil
		}
		alive, err := gw.repo.GetAlivePlayers(gameID)
		if err != nil {
			return nil, nil
		}
		for i := range alive {
			bot := alive[i]
			if !bot.IsBot || bot.Role.NightCapability() == "" {
				continue
			}
			gw.submitNightAction(g, &bot, alive)
		}
		return nil, nil
	})
}

func (gw *Gateway) submitNightAction(g *game.Game, bot *game.Player, alive []game.Player) {
	legal := gw.legalNightTargets(g, bot, alive)
	if len(legal) == 0 {
		return
	}

	target := gw.chooseTarget(g, bot, legal, nightPromptFor(bot.Role))
	err := service.SubmitNightAction(gw.repo, g.ID, bot.ID, bot.SessionToken, target.ID)
	if err != nil {
		logging.Error("bot night action rejected", err, logging.Fields{
			constants.LogFieldGameID:   g.ID,
			constants.LogFieldPlayerID: bot.ID,
			constants.LogFieldTarget:   target.ID,
		})
		return
	}
	logging.Info("bot night action submitted", logging.Fields{
		constants.LogFieldGameID:   g.ID,
		constants.LogFieldPlayerID: bot.ID,
		constants.LogFieldRole:     string(bot.Role),
		constants.LogFieldTarget:   target.ID,
	})
}

// legalNightTargets mirrors the submission rules so a fallback pick never
// bounces: mafia exclude fellow mafia, the sheriff excludes themselves, and
// the doctor drops self after a previous-night self-protect.
func (gw *Gateway) legalNightTargets(g *game.Game, bot *game.Player, alive []game.Player) []game.Player {
	var out []game.Player
	for _, p := range alive {
		switch bot.Role {
		case game.RoleMafia:
			if p.Role.IsMafia() {
				continue
			}
		case game.RoleSheriff:
			if p.ID == bot.ID {
				continue
			}
		case game.RoleDoctor:
			if p.ID == bot.ID && gw.selfProtectedLastNight(g, bot.ID) {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

func (gw *Gateway) selfProtectedLastNight(g *game.Game, doctorID uint) bool {
	if g.DayNumber <= 1 {
		return false
	}
	prev, err := gw.repo.GetNightActionByActor(g.ID, g.DayNumber-1, doctorID)
	if err != nil || prev == nil {
		return false
	}
	return prev.Kind == game.ActionProtect && prev.TargetID == doctorID
}

// DispatchVote asks one bot for its day vote. Invalid or missing provider
// output falls back to abstaining with the configured probability, otherwise
// a random living player.
func (gw *Gateway) DispatchVote(gameID, playerID uint, dayNumber int) {
	g, err := gw.repo.GetGameByID(gameID)
	if err != nil || g.Status != game.StatusPlaying || g.Phase != game.PhaseDayVoting || g.DayNumber != dayNumber {
		return
	}
	bot, err := gw.repo.GetPlayerByID(playerID)
	if err != nil || !bot.IsBot || !bot.IsAlive {
		return
	}
	alive, err := gw.repo.GetAlivePlayers(gameID)
	if err != nil {
		return
	}

	var legal []game.Player
	for _, p := range alive {
		if p.ID != bot.ID {
			legal = append(legal, p)
		}
	}
	if len(legal) == 0 {
		return
	}

	var targetID *uint
	if target, ok := gw.askForTarget(g, bot, legal, votePrompt); ok {
		targetID = &target.ID
	} else if !gw.shouldAbstain() {
		pick := legal[random.Intn(len(legal))]
		targetID = &pick.ID
	}

	if err := service.SubmitVote(gw.repo, gameID, bot.ID, bot.SessionToken, targetID); err != nil {
		logging.Error("bot vote rejected", err, logging.Fields{
			constants.LogFieldGameID:   gameID,
			constants.LogFieldPlayerID: bot.ID,
		})
		return
	}
	logging.Info("bot vote submitted", logging.Fields{
		constants.LogFieldGameID:   gameID,
		constants.LogFieldPlayerID: bot.ID,
		"abstained":                targetID == nil,
	})
}

// DispatchChat has one bot say something in the discussion channel. The bot
// stays quiet when it spoke last or has already talked a lot this window.
func (gw *Gateway) DispatchChat(gameID, playerID uint) {
	g, err := gw.repo.GetGameByID(gameID)
	if err != nil || g.Status != game.StatusPlaying || g.Phase != game.PhaseDayDiscussion {
		return
	}
	bot, err := gw.repo.GetPlayerByID(playerID)
	if err != nil || !bot.IsBot || !bot.IsAlive {
		return
	}

	recent, err := gw.repo.GetRecentPlayerChat(gameID, recentChatWindow)
	if err != nil {
		return
	}
	if len(recent) > 0 && recent[len(recent)-1].PlayerID == bot.ID {
		return
	}
	own := 0
	for _, m := range recent {
		if m.PlayerID == bot.ID {
			own++
		}
	}
	if own >= maxChatPerBotWindow {
		return
	}

	reply, err := gw.chat(chatSystemPrompt, gw.buildChatPrompt(g, bot, recent))
	if err != nil {
		logging.Warn("bot chat generation failed, staying quiet", logging.Fields{
			constants.LogFieldGameID:   gameID,
			constants.LogFieldPlayerID: bot.ID,
			"error":                    err.Error(),
		})
		return
	}
	message := parseChatReply(reply)
	if message == "" {
		return
	}

	if err := service.SendChat(gw.repo, nil, gameID, bot.ID, bot.SessionToken, message, false); err != nil {
		logging.Error("bot chat rejected", err, logging.Fields{
			constants.LogFieldGameID:   gameID,
			constants.LogFieldPlayerID: bot.ID,
		})
	}
}

// ScheduleReply queues a jittered DispatchChat so bot answers to humans feel
// typed rather than instantaneous.
func (gw *Gateway) ScheduleReply(gameID, botPlayerID uint) {
	min, max := gw.cfg.ChatReplyJitterMin, gw.cfg.ChatReplyJitterMax
	delay := min
	if max > min {
		delay = min + time.Duration(random.Intn(int(max-min)))
	}
	gw.after(delay, func() { gw.DispatchChat(gameID, botPlayerID) })
}

// chooseTarget asks the provider and falls back to a random legal target on
// any failure or illegal answer.
func (gw *Gateway) chooseTarget(g *game.Game, bot *game.Player, legal []game.Player, prompt string) *game.Player {
	if target, ok := gw.askForTarget(g, bot, legal, prompt); ok {
		return target
	}
	return &legal[random.Intn(len(legal))]
}

func (gw *Gateway) askForTarget(g *game.Game, bot *game.Player, legal []game.Player, prompt string) (*game.Player, bool) {
	reply, err := gw.chat(targetSystemPrompt, gw.buildTargetPrompt(g, bot, legal, prompt))
	if err != nil {
		logging.Warn("bot target generation failed, falling back", logging.Fields{
			constants.LogFieldGameID:   g.ID,
			constants.LogFieldPlayerID: bot.ID,
			"error":                    err.Error(),
		})
		return nil, false
	}

	var parsed struct {
		Target string `json:"target"`
	}
	if err := json.Unmarshal([]byte(extractJSON(reply)), &parsed); err != nil {
		return nil, false
	}
	name := strings.TrimSpace(parsed.Target)
	if name == "" {
		return nil, false
	}
	for i := range legal {
		if strings.EqualFold(legal[i].Name, name) {
			return &legal[i], true
		}
	}
	return nil, false
}

func (gw *Gateway) shouldAbstain() bool {
	return random.Intn(1000) < int(gw.cfg.AbstainProbability*1000)
}

const (
	targetSystemPrompt = "You are playing a hidden-role social deduction game. " +
		"Answer with a single JSON object and nothing else."
	chatSystemPrompt = "You are a player in a hidden-role social deduction game chatting " +
		"during the day. Stay in character, keep it short and conversational. " +
		"Never reveal your own role. Answer with a single JSON object and nothing else."
	votePrompt = "It is voting time. Pick the player you want to eliminate, " +
		"or pick no one if you are unsure."
)

func nightPromptFor(role game.Role) string {
	switch role {
	case game.RoleMafia:
		return "It is night. As mafia, pick the player to eliminate."
	case game.RoleDoctor:
		return "It is night. As the doctor, pick the player to protect."
	case game.RoleSheriff:
		return "It is night. As the sheriff, pick the player to investigate."
	default:
		return ""
	}
}

func (gw *Gateway) buildTargetPrompt(g *game.Game, bot *game.Player, legal []game.Player, prompt string) string {
	names := make([]string, len(legal))
	for i, p := range legal {
		names[i] = p.Name
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are %s, a %s. Day %d.\n", bot.Name, bot.Role, g.DayNumber)
	if g.LastNightResult != "" {
		fmt.Fprintf(&b, "Last night: %s\n", g.LastNightResult)
	}
	if g.LastDayResult != "" {
		fmt.Fprintf(&b, "Last vote: %s\n", g.LastDayResult)
	}
	gw.writeMemory(&b, bot.ID)
	fmt.Fprintf(&b, "%s\nChoices: %s\n", prompt, strings.Join(names, ", "))
	b.WriteString(`Reply with {"target":"<name>"} or {"target":null}.`)
	return b.String()
}

func (gw *Gateway) buildChatPrompt(g *game.Game, bot *game.Player, recent []game.ChatMessage) string {
	players, _ := gw.repo.GetPlayersByGame(g.ID)
	byID := make(map[uint]string, len(players))
	for _, p := range players {
		byID[p.ID] = p.Name
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are %s, a %s. Day %d.\n", bot.Name, bot.Role, g.DayNumber)
	if g.LastNightResult != "" {
		fmt.Fprintf(&b, "This morning: %s\n", g.LastNightResult)
	}
	gw.writeMemory(&b, bot.ID)
	if len(recent) > 0 {
		b.WriteString("Recent chat:\n")
		for _, m := range recent {
			fmt.Fprintf(&b, "%s: %s\n", byID[m.PlayerID], m.Content)
		}
	}
	b.WriteString(`Say one short thing to the group. Reply with {"message":"<text>"}.`)
	return b.String()
}

func (gw *Gateway) writeMemory(b *strings.Builder, botID uint) {
	memory, err := gw.repo.GetBotMemory(botID)
	if err != nil || len(memory) == 0 {
		return
	}
	b.WriteString("What you know:\n")
	for _, m := range memory {
		fmt.Fprintf(b, "- %s\n", m.Event)
	}
}

func parseChatReply(reply string) string {
	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(extractJSON(reply)), &parsed); err != nil {
		// Plain-text replies are still usable; take the first line.
		line := strings.TrimSpace(reply)
		if idx := strings.Index(line, "\n"); idx >= 0 {
			line = line[:idx]
		}
		return strings.Trim(line, "\"' ")
	}
	return strings.TrimSpace(parsed.Message)
}
