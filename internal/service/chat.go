package service

import (
	"strings"

	"github.com/nightfall-games/mafia-night/internal/game"
	"github.com/nightfall-games/mafia-night/internal/random"
)

const maxChatRunes = 280

// SendChat stores a chat message after channel and phase checks: no chat at
// night, spectators only in the spectator channel and vice versa. When a
// human speaks during discussion, one or two living bots are scheduled to
// reply through the notifier.
func SendChat(repo Repository, notifier ChatNotifier, gameID, playerID uint, token, content string, spectatorChat bool) error {
	sender, err := RequirePlayer(repo, gameID, playerID, token)
	if err != nil {
		return err
	}

	g, err := repo.GetGameByID(gameID)
	if err != nil {
		return ErrGameNotFound
	}

	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil
	}
	if runes := []rune(trimmed); len(runes) > maxChatRunes {
		trimmed = string(runes[:maxChatRunes])
	}

	if g.Phase == game.PhaseNight {
		return ErrNightChatForbidden
	}
	if sender.IsSpectator && !spectatorChat {
		return ErrSpectatorChatOnly
	}
	if !sender.IsSpectator && spectatorChat {
		return ErrPlayerChatOnly
	}

	if err := repo.CreateChatMessage(&game.ChatMessage{
		GameID:        gameID,
		PlayerID:      sender.ID,
		Content:       trimmed,
		SpectatorChat: spectatorChat,
	}); err != nil {
		return err
	}

	if notifier != nil && !sender.IsBot && !spectatorChat && g.Phase == game.PhaseDayDiscussion {
		scheduleBotReplies(repo, notifier, gameID)
	}
	return nil
}

// scheduleBotReplies picks one or two random living bots to answer. Failures
// here never fail the chat submission.
func scheduleBotReplies(repo Repository, notifier ChatNotifier, gameID uint) {
	alive, err := repo.GetAlivePlayers(gameID)
	if err != nil {
		return
	}
	bots := make([]game.Player, 0, len(alive))
	for i := range alive {
		if alive[i].IsBot {
			bots = append(bots, alive[i])
		}
	}
	if len(bots) == 0 {
		return
	}

	random.Shuffle(len(bots), func(i, j int) {
		bots[i], bots[j] = bots[j], bots[i]
	})
	responders := 1 + random.Intn(2)
	if responders > len(bots) {
		responders = len(bots)
	}
	for i := 0; i < responders; i++ {
		notifier.ScheduleReply(gameID, bots[i].ID)
	}
}
