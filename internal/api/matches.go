package api

import (
	"errors"
	"net/http"

	"github.com/doktorshnaps/elves-dragons-adventure-sub002/internal/constants"
	"github.com/doktorshnaps/elves-dragons-adventure-sub002/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CreateMatch handles POST /api/matches. Matchmaking itself is external;
// this endpoint snapshots two already-resolved rosters into an active
// match.
func (h *MatchHandler) CreateMatch(c *gin.Context) {
	var req service.CreateMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	m, err := h.svc.CreateMatch(req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPlayerRequired),
			errors.Is(err, service.ErrSamePlayers),
			errors.Is(err, service.ErrInvalidTeamSize),
			errors.Is(err, service.ErrInvalidCombatant):
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: err.Error()})
		default:
			h.log.Error("match creation failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrInternal})
		}
		return
	}
	c.JSON(http.StatusCreated, m)
}

// GetMatch handles GET /api/matches/:matchID.
func (h *MatchHandler) GetMatch(c *gin.Context) {
	matchID := c.Param("matchID")
	if _, err := uuid.Parse(matchID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidMatchID})
		return
	}
	m, err := h.repo.GetMatchByID(matchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrMatchNotFound})
			return
		}
		h.log.Error("match lookup failed", zap.String(constants.LogFieldMatchID, matchID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrInternal})
		return
	}
	c.JSON(http.StatusOK, m)
}

// ListMoves handles GET /api/matches/:matchID/moves — the append-only
// audit log of resolved attacks.
func (h *MatchHandler) ListMoves(c *gin.Context) {
	matchID := c.Param("matchID")
	if _, err := uuid.Parse(matchID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidMatchID})
		return
	}
	moves, err := h.repo.ListMoves(matchID)
	if err != nil {
		h.log.Error("move history lookup failed", zap.String(constants.LogFieldMatchID, matchID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrInternal})
		return
	}
	c.JSON(http.StatusOK, gin.H{"moves": moves})
}
