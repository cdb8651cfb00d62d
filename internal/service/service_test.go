package service

import (
	"errors"

	"github.com/doktorshnaps/elves-dragons-adventure-sub002/internal/engine"
	"github.com/doktorshnaps/elves-dragons-adventure-sub002/internal/game"
)

// mockRepo is an in-memory MatchRepo. GetMatchByID hands out deep copies
// so tests can assert that rejected moves never leak mutations into the
// stored match.
type mockRepo struct {
	matches   map[string]*game.Match
	moves     []*game.MoveRecord
	commits   int
	commitErr error
	// failOnCommit fails the n-th commit attempt (1-based); 0 never fails.
	failOnCommit int
}

func newMockRepo() *mockRepo {
	return &mockRepo{matches: make(map[string]*game.Match)}
}

func cloneMatch(m *game.Match) *game.Match {
	out := *m
	out.State.TeamA = game.ClonePairs(m.State.TeamA)
	out.State.TeamB = game.ClonePairs(m.State.TeamB)
	return &out
}

func (r *mockRepo) CreateMatch(m *game.Match) error {
	r.matches[m.ID] = cloneMatch(m)
	return nil
}

func (r *mockRepo) GetMatchByID(id string) (*game.Match, error) {
	m, ok := r.matches[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return cloneMatch(m), nil
}

func (r *mockRepo) CommitTurn(m *game.Match, mv *game.MoveRecord) error {
	if r.commitErr != nil {
		return r.commitErr
	}
	if r.failOnCommit > 0 && r.commits+1 == r.failOnCommit {
		return errors.New("commit failed")
	}
	r.commits++
	r.matches[m.ID] = cloneMatch(m)
	if mv != nil {
		r.moves = append(r.moves, mv)
	}
	return nil
}

type ratingCall struct {
	winner, loser string
	delta         int
	surrendered   bool
}

type mockRating struct {
	calls []ratingCall
}

func (r *mockRating) UpdateRating(winner, loser string, delta int, surrendered bool) error {
	r.calls = append(r.calls, ratingCall{winner, loser, delta, surrendered})
	return nil
}

type balanceCall struct {
	wallet string
	amount float64
}

type mockBalance struct {
	calls []balanceCall
}

func (b *mockBalance) AddBalance(wallet string, amount float64) error {
	b.calls = append(b.calls, balanceCall{wallet, amount})
	return nil
}

type testEnv struct {
	svc     *MatchService
	repo    *mockRepo
	rating  *mockRating
	balance *mockBalance
}

func newTestEnv(roll engine.Roller) *testEnv {
	env := &testEnv{
		repo:    newMockRepo(),
		rating:  &mockRating{},
		balance: &mockBalance{},
	}
	env.svc = NewMatchService(env.repo, env.rating, env.balance, Options{Roller: roll})
	return env
}

func heroSpec(name string, power, defense, maxHealth int) PairSpec {
	return PairSpec{Hero: game.Combatant{Name: name, Power: power, Defense: defense, MaxHealth: maxHealth}}
}

// seedMatch creates a ready-to-play match through the service so tests
// exercise the same snapshot path production does.
func (env *testEnv) seedMatch(playerA, playerB string, fee float64, teamA, teamB []PairSpec) *game.Match {
	m, err := env.svc.CreateMatch(CreateMatchRequest{
		PlayerA:  playerA,
		PlayerB:  playerB,
		EntryFee: fee,
		TeamA:    teamA,
		TeamB:    teamB,
	})
	if err != nil {
		panic(err)
	}
	return m
}
