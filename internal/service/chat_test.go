package service

import (
	"strings"
	"testing"

	"github.com/nightfall-games/mafia-night/internal/game"
)

type recordingNotifier struct {
	replies []uint
}

func (r *recordingNotifier) ScheduleReply(gameID, botPlayerID uint) {
	r.replies = append(r.replies, botPlayerID)
}

func seedChatGame(f *fakeRepo, phase game.Phase) (*game.Game, *game.Player, *game.Player) {
	g := f.addGame(game.Game{Status: game.StatusPlaying, Phase: phase, DayNumber: 1})
	human := f.addPlayer(game.Player{GameID: g.ID, Name: "Alice", Role: game.RoleCitizen, IsAlive: true})
	bot := f.addPlayer(game.Player{GameID: g.ID, Name: "Bot 1", Role: game.RoleCitizen, IsAlive: true, IsBot: true})
	return g, human, bot
}

func TestSendChat_StoresAndNotifiesBots(t *testing.T) {
	f := newFakeRepo()
	g, human, bot := seedChatGame(f, game.PhaseDayDiscussion)
	n := &recordingNotifier{}

	if err := SendChat(f, n, g.ID, human.ID, human.SessionToken, "  who seems off today? ", false); err != nil {
		t.Fatalf("chat failed: %v", err)
	}
	if len(f.chats) != 1 || f.chats[0].Content != "who seems off today?" {
		t.Fatalf("message not stored trimmed: %+v", f.chats)
	}
	if len(n.replies) == 0 || n.replies[0] != bot.ID {
		t.Fatalf("expected a bot reply scheduled, got %v", n.replies)
	}
}

func TestSendChat_NightAndChannelRules(t *testing.T) {
	f := newFakeRepo()
	g, human, _ := seedChatGame(f, game.PhaseNight)

	if err := SendChat(f, nil, g.ID, human.ID, human.SessionToken, "hello?", false); err != ErrNightChatForbidden {
		t.Fatalf("expected ErrNightChatForbidden, got %v", err)
	}

	g.Phase = game.PhaseDayDiscussion
	if err := f.UpdateGame(g); err != nil {
		t.Fatal(err)
	}
	if err := SendChat(f, nil, g.ID, human.ID, human.SessionToken, "boo", true); err != ErrPlayerChatOnly {
		t.Fatalf("expected ErrPlayerChatOnly, got %v", err)
	}

	human.IsAlive = false
	human.IsSpectator = true
	if err := f.UpdatePlayer(human); err != nil {
		t.Fatal(err)
	}
	if err := SendChat(f, nil, g.ID, human.ID, human.SessionToken, "from beyond", false); err != ErrSpectatorChatOnly {
		t.Fatalf("expected ErrSpectatorChatOnly, got %v", err)
	}
	if err := SendChat(f, nil, g.ID, human.ID, human.SessionToken, "from beyond", true); err != nil {
		t.Fatalf("spectator channel must accept spectators: %v", err)
	}
}

func TestSendChat_TruncatesLongMessages(t *testing.T) {
	f := newFakeRepo()
	g, human, _ := seedChatGame(f, game.PhaseDayDiscussion)

	long := strings.Repeat("a", 500)
	if err := SendChat(f, nil, g.ID, human.ID, human.SessionToken, long, false); err != nil {
		t.Fatalf("chat failed: %v", err)
	}
	if got := len([]rune(f.chats[0].Content)); got != 280 {
		t.Fatalf("expected truncation to 280 runes, got %d", got)
	}

	// Blank messages are dropped silently.
	if err := SendChat(f, nil, g.ID, human.ID, human.SessionToken, "   ", false); err != nil {
		t.Fatalf("blank message must be a no-op: %v", err)
	}
	if len(f.chats) != 1 {
		t.Fatalf("blank message must not be stored")
	}
}

func TestSendChat_BotMessagesDoNotTriggerReplies(t *testing.T) {
	f := newFakeRepo()
	g, _, bot := seedChatGame(f, game.PhaseDayDiscussion)
	n := &recordingNotifier{}

	if err := SendChat(f, n, g.ID, bot.ID, bot.SessionToken, "I agree", false); err != nil {
		t.Fatalf("bot chat failed: %v", err)
	}
	if len(n.replies) != 0 {
		t.Fatalf("bot messages must not schedule replies, got %v", n.replies)
	}
}
