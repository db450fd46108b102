package service

import (
	"testing"

	"github.com/nightfall-games/mafia-night/internal/game"
)

type recordingStarter struct {
	started []uint
}

func (r *recordingStarter) StartNight(gameID uint) {
	r.started = append(r.started, gameID)
}

func seedLobby(f *fakeRepo, playerCount int) (*game.Game, []*game.Player) {
	g := f.addGame(game.Game{Status: game.StatusLobby, JoinCode: "ABCDEF"})
	var players []*game.Player
	for i := 0; i < playerCount; i++ {
		players = append(players, f.addPlayer(game.Player{
			GameID: g.ID, Name: string(rune('A' + i)), IsAlive: true,
		}))
	}
	g.HostPlayerID = players[0].ID
	f.games[g.ID] = g
	return g, players
}

func TestStartGame_AssignsRolesAndOpensNight(t *testing.T) {
	for _, tc := range []struct {
		players                         int
		mafia, doctor, sheriff, citizen int
	}{
		{4, 1, 1, 0, 2},
		{5, 1, 1, 1, 2},
		{7, 2, 1, 1, 3},
		{10, 3, 1, 1, 5},
	} {
		f := newFakeRepo()
		g, players := seedLobby(f, tc.players)
		host := players[0]
		starter := &recordingStarter{}

		if err := StartGame(f, starter, g.ID, host.ID, host.SessionToken); err != nil {
			t.Fatalf("%d players: start failed: %v", tc.players, err)
		}

		counts := map[game.Role]int{}
		stored, _ := f.GetPlayersByGame(g.ID)
		for _, p := range stored {
			counts[p.Role]++
			if !p.IsAlive || p.IsSpectator {
				t.Fatalf("%d players: everyone must start alive: %+v", tc.players, p)
			}
		}
		if counts[game.RoleMafia] != tc.mafia || counts[game.RoleDoctor] != tc.doctor ||
			counts[game.RoleSheriff] != tc.sheriff || counts[game.RoleCitizen] != tc.citizen {
			t.Fatalf("%d players: wrong distribution: %v", tc.players, counts)
		}

		updated, _ := f.GetGameByID(g.ID)
		if updated.Status != game.StatusPlaying {
			t.Fatalf("%d players: expected playing status, got %q", tc.players, updated.Status)
		}
		if len(starter.started) != 1 || starter.started[0] != g.ID {
			t.Fatalf("%d players: scheduler handoff missing: %v", tc.players, starter.started)
		}
	}
}

func TestStartGame_LobbyErrors(t *testing.T) {
	f := newFakeRepo()
	g, players := seedLobby(f, 5)
	host, guest := players[0], players[1]
	starter := &recordingStarter{}

	if err := StartGame(f, starter, g.ID, guest.ID, guest.SessionToken); err != ErrNotHost {
		t.Fatalf("expected ErrNotHost, got %v", err)
	}

	g.Status = game.StatusPlaying
	f.games[g.ID] = g
	if err := StartGame(f, starter, g.ID, host.ID, host.SessionToken); err != ErrGameAlreadyStarted {
		t.Fatalf("expected ErrGameAlreadyStarted, got %v", err)
	}

	f2 := newFakeRepo()
	g2, players2 := seedLobby(f2, 3)
	host2 := players2[0]
	if err := StartGame(f2, starter, g2.ID, host2.ID, host2.SessionToken); err != ErrTooFewPlayers {
		t.Fatalf("expected ErrTooFewPlayers, got %v", err)
	}
	if len(starter.started) != 0 {
		t.Fatalf("failed starts must not hand off to the scheduler")
	}
}

func TestStartGame_SpectatorsExcludedFromRoster(t *testing.T) {
	f := newFakeRepo()
	g, players := seedLobby(f, 4)
	host := players[0]
	spectator := f.addPlayer(game.Player{GameID: g.ID, Name: "Watcher", IsSpectator: true})
	starter := &recordingStarter{}

	if err := StartGame(f, starter, g.ID, host.ID, host.SessionToken); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	stored, _ := f.GetPlayerByID(spectator.ID)
	if stored.Role != game.RoleNone || !stored.IsSpectator {
		t.Fatalf("spectator must not receive a role: %+v", stored)
	}
}
