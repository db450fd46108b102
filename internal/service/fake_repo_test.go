package service

import (
	"errors"
	"fmt"

	"github.com/nightfall-games/mafia-night/internal/game"
)

// fakeRepo is an in-memory Repository for service tests. Reads return
// copies so mutations only land through the Update/Upsert calls, matching
// how the real store behaves.
type fakeRepo struct {
	games   map[uint]*game.Game
	players map[uint]*game.Player
	actions map[string]*game.NightAction
	votes   map[string]*game.Vote
	chats   []game.ChatMessage
	nextID  uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		games:   map[uint]*game.Game{},
		players: map[uint]*game.Player{},
		actions: map[string]*game.NightAction{},
		votes:   map[string]*game.Vote{},
	}
}

var errNotFound = errors.New("not found")

func (f *fakeRepo) id() uint {
	f.nextID++
	return f.nextID
}

func (f *fakeRepo) CreateGame(g *game.Game) error {
	if g.ID == 0 {
		g.ID = f.id()
	}
	cp := *g
	f.games[g.ID] = &cp
	return nil
}

func (f *fakeRepo) GetGameByID(id uint) (*game.Game, error) {
	g, ok := f.games[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *g
	return &cp, nil
}

func (f *fakeRepo) FindGameByJoinCode(code string) (*game.Game, error) {
	for _, g := range f.games {
		if g.JoinCode == code {
			cp := *g
			return &cp, nil
		}
	}
	return nil, errNotFound
}

func (f *fakeRepo) UpdateGame(g *game.Game) error {
	cp := *g
	f.games[g.ID] = &cp
	return nil
}

func (f *fakeRepo) CreatePlayer(p *game.Player) error {
	if p.ID == 0 {
		p.ID = f.id()
	}
	cp := *p
	f.players[p.ID] = &cp
	return nil
}

func (f *fakeRepo) UpdatePlayer(p *game.Player) error {
	cp := *p
	f.players[p.ID] = &cp
	return nil
}

func (f *fakeRepo) GetPlayerByID(id uint) (*game.Player, error) {
	p, ok := f.players[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeRepo) GetPlayersByGame(gameID uint) ([]game.Player, error) {
	var out []game.Player
	for id := uint(1); id <= f.nextID; id++ {
		if p, ok := f.players[id]; ok && p.GameID == gameID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetAlivePlayers(gameID uint) ([]game.Player, error) {
	var out []game.Player
	for id := uint(1); id <= f.nextID; id++ {
		if p, ok := f.players[id]; ok && p.GameID == gameID && p.IsAlive {
			out = append(out, *p)
		}
	}
	return out, nil
}

func actionKey(gameID uint, day int, playerID uint) string {
	return fmt.Sprintf("%d:%d:%d", gameID, day, playerID)
}

func (f *fakeRepo) UpsertNightAction(a *game.NightAction) error {
	cp := *a
	f.actions[actionKey(a.GameID, a.DayNumber, a.PlayerID)] = &cp
	return nil
}

func (f *fakeRepo) GetNightActionByActor(gameID uint, day int, playerID uint) (*game.NightAction, error) {
	a, ok := f.actions[actionKey(gameID, day, playerID)]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (f *fakeRepo) UpsertVote(v *game.Vote) error {
	cp := *v
	f.votes[actionKey(v.GameID, v.DayNumber, v.VoterID)] = &cp
	return nil
}

func (f *fakeRepo) CreateChatMessage(m *game.ChatMessage) error {
	f.chats = append(f.chats, *m)
	return nil
}

// addGame and addPlayer are test seeding helpers.
func (f *fakeRepo) addGame(g game.Game) *game.Game {
	if g.ID == 0 {
		g.ID = f.id()
	}
	f.games[g.ID] = &g
	return &g
}

func (f *fakeRepo) addPlayer(p game.Player) *game.Player {
	if p.ID == 0 {
		p.ID = f.id()
	}
	if p.SessionToken == "" {
		p.SessionToken = fmt.Sprintf("token-%d", p.ID)
	}
	f.players[p.ID] = &p
	return &p
}
