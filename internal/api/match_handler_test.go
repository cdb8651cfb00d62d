package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/doktorshnaps/elves-dragons-adventure-sub002/internal/constants"
	"github.com/doktorshnaps/elves-dragons-adventure-sub002/internal/engine"
	"github.com/doktorshnaps/elves-dragons-adventure-sub002/internal/game"
	"github.com/doktorshnaps/elves-dragons-adventure-sub002/internal/service"
	"github.com/doktorshnaps/elves-dragons-adventure-sub002/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type nopBalance struct{}

func (nopBalance) AddBalance(string, float64) error { return nil }

func newTestRouter(t *testing.T, roll engine.Roller) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := storage.OpenAndMigrate(dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	repo := storage.NewSQLiteRepository(db)

	svc := service.NewMatchService(repo, repo, nopBalance{}, service.Options{Roller: roll})
	handler := NewMatchHandler(svc, repo, zap.NewNop())

	router := gin.New()
	apiRoutes := router.Group(constants.RouteAPIPrefix)
	apiRoutes.GET(constants.RouteLeaderboard, handler.ListLeaderboard)
	apiRoutes.GET(constants.RoutePlayerByWallet, handler.GetPlayer)
	apiRoutes.POST(constants.RouteMatches, handler.CreateMatch)
	apiRoutes.GET(constants.RouteMatchByID, handler.GetMatch)
	apiRoutes.GET(constants.RouteMatchMoves, handler.ListMoves)
	apiRoutes.POST(constants.RouteMatchMove, handler.SubmitMove)
	return router
}

func doJSON(router *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createMatchRequest(playerA, playerB string, targetHealth int) service.CreateMatchRequest {
	return service.CreateMatchRequest{
		PlayerA:  playerA,
		PlayerB:  playerB,
		EntryFee: 10,
		TeamA: []service.PairSpec{{
			Hero: game.Combatant{Name: "knight", Power: 10, Defense: 2, MaxHealth: 30},
		}},
		TeamB: []service.PairSpec{{
			Hero: game.Combatant{Name: "rogue", Power: 8, Defense: 1, MaxHealth: targetHealth},
		}},
	}
}

func createMatch(t *testing.T, router *gin.Engine, req service.CreateMatchRequest) game.Match {
	t.Helper()
	w := doJSON(router, http.MethodPost, "/api/matches", req, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var m game.Match
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	return m
}

func TestCreateMatchEndpoint(t *testing.T) {
	router := newTestRouter(t, engine.FixedRoller(4))

	m := createMatch(t, router, createMatchRequest("alice", "bob", 25))
	assert.Equal(t, game.StatusActive, m.Status)
	assert.Equal(t, "alice", m.CurrentTurn)
	assert.Equal(t, 30, m.State.TeamA[0].CurrentHealth)

	w := doJSON(router, http.MethodPost, "/api/matches", "not an object", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPost, "/api/matches", createMatchRequest("alice", "alice", 25), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "differ")
}

func TestGetMatchEndpoint(t *testing.T) {
	router := newTestRouter(t, engine.FixedRoller(4))
	m := createMatch(t, router, createMatchRequest("alice", "bob", 25))

	w := doJSON(router, http.MethodGet, "/api/matches/"+m.ID, nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodGet, "/api/matches/not-a-uuid", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodGet, "/api/matches/"+uuid.NewString(), nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubmitMoveEndpoint(t *testing.T) {
	router := newTestRouter(t, engine.FixedRoller(4))
	m := createMatch(t, router, createMatchRequest("alice", "bob", 25))

	zero := 0
	w := doJSON(router, http.MethodPost, "/api/matches/"+m.ID+"/move", MoveRequest{
		WalletAddress:     "alice",
		ActionType:        service.ActionAttack,
		AttackerPairIndex: &zero,
		TargetPairIndex:   &zero,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res MoveResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.True(t, res.Success)
	assert.Equal(t, 4, res.DiceRoll)
	assert.Equal(t, 9, res.DamageDealt)
	assert.Equal(t, "bob", res.NextTurn)
	assert.Equal(t, game.StatusActive, res.MatchStatus)

	// Wrong turn maps to a 400 with the service error text.
	w = doJSON(router, http.MethodPost, "/api/matches/"+m.ID+"/move", MoveRequest{
		WalletAddress:     "alice",
		ActionType:        service.ActionAttack,
		AttackerPairIndex: &zero,
		TargetPairIndex:   &zero,
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "not your turn")
}

func TestSubmitMoveEndpoint_WalletFromHeader(t *testing.T) {
	router := newTestRouter(t, engine.FixedRoller(4))
	m := createMatch(t, router, createMatchRequest("alice", "bob", 25))

	zero := 0
	w := doJSON(router, http.MethodPost, "/api/matches/"+m.ID+"/move", MoveRequest{
		ActionType:        service.ActionAttack,
		AttackerPairIndex: &zero,
		TargetPairIndex:   &zero,
	}, map[string]string{constants.HeaderWalletAddress: "alice"})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestSubmitMoveEndpoint_Validation(t *testing.T) {
	router := newTestRouter(t, engine.FixedRoller(4))
	m := createMatch(t, router, createMatchRequest("alice", "bob", 25))

	w := doJSON(router, http.MethodPost, "/api/matches/nope/move", MoveRequest{ActionType: service.ActionAttack}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), constants.ErrInvalidMatchID)

	// No wallet in body or header.
	w = doJSON(router, http.MethodPost, "/api/matches/"+m.ID+"/move", MoveRequest{ActionType: service.ActionAttack}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), constants.ErrWalletRequired)

	w = doJSON(router, http.MethodPost, "/api/matches/"+uuid.NewString()+"/move", MoveRequest{
		WalletAddress: "alice",
		ActionType:    service.ActionAttack,
	}, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Omitted pair indices default to -1 and are rejected as out of range.
	w = doJSON(router, http.MethodPost, "/api/matches/"+m.ID+"/move", MoveRequest{
		WalletAddress: "alice",
		ActionType:    service.ActionAttack,
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "out of range")
}

func TestSubmitMoveEndpoint_CompletedMatchPayload(t *testing.T) {
	router := newTestRouter(t, engine.FixedRoller(4))
	m := createMatch(t, router, createMatchRequest("alice", "bob", 5))

	zero := 0
	w := doJSON(router, http.MethodPost, "/api/matches/"+m.ID+"/move", MoveRequest{
		WalletAddress:     "alice",
		ActionType:        service.ActionAttack,
		AttackerPairIndex: &zero,
		TargetPairIndex:   &zero,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res MoveResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, game.StatusCompleted, res.MatchStatus)
	assert.Equal(t, "alice", res.Winner)
	assert.Equal(t, "bob", res.Loser)
	assert.Equal(t, 25, res.EloChange)
	assert.InDelta(t, 18.0, res.Reward, 1e-9)
	assert.Empty(t, res.NextTurn)

	// Rating landed on both profiles.
	w = doJSON(router, http.MethodGet, "/api/players/alice", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var p game.PlayerProfile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, 25, p.Rating)
	assert.Equal(t, 1, p.Wins)
}

func TestListMovesEndpoint(t *testing.T) {
	router := newTestRouter(t, engine.FixedRoller(4))
	m := createMatch(t, router, createMatchRequest("alice", "bob", 25))

	zero := 0
	w := doJSON(router, http.MethodPost, "/api/matches/"+m.ID+"/move", MoveRequest{
		WalletAddress:     "alice",
		ActionType:        service.ActionAttack,
		AttackerPairIndex: &zero,
		TargetPairIndex:   &zero,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodGet, "/api/matches/"+m.ID+"/moves", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var payload struct {
		Moves []game.MoveRecord `json:"moves"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	require.Len(t, payload.Moves, 1)
	assert.Equal(t, "alice", payload.Moves[0].Wallet)
	assert.Equal(t, 4, payload.Moves[0].DiceRoll)
}

func TestLeaderboardEndpoint(t *testing.T) {
	router := newTestRouter(t, engine.FixedRoller(4))
	m := createMatch(t, router, createMatchRequest("alice", "bob", 5))

	zero := 0
	w := doJSON(router, http.MethodPost, "/api/matches/"+m.ID+"/move", MoveRequest{
		WalletAddress:     "alice",
		ActionType:        service.ActionAttack,
		AttackerPairIndex: &zero,
		TargetPairIndex:   &zero,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodGet, "/api/leaderboard?limit=1", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var payload struct {
		Players []game.PlayerProfile `json:"players"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	require.Len(t, payload.Players, 1)
	assert.Equal(t, "alice", payload.Players[0].Wallet)
}

func TestGetPlayerEndpoint_UnknownWalletZeroed(t *testing.T) {
	router := newTestRouter(t, engine.FixedRoller(4))

	w := doJSON(router, http.MethodGet, "/api/players/nobody", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var p game.PlayerProfile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, "nobody", p.Wallet)
	assert.Zero(t, p.Rating)
}
