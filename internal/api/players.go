package api

import (
	"net/http"
	"strconv"

	"github.com/doktorshnaps/elves-dragons-adventure-sub002/internal/constants"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ListLeaderboard handles GET /api/leaderboard.
func (h *MatchHandler) ListLeaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	players, err := h.repo.GetTopPlayers(limit)
	if err != nil {
		h.log.Error("leaderboard lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrInternal})
		return
	}
	c.JSON(http.StatusOK, gin.H{"players": players})
}

// GetPlayer handles GET /api/players/:wallet. Unknown wallets return a
// zeroed profile rather than 404 so new players always resolve.
func (h *MatchHandler) GetPlayer(c *gin.Context) {
	wallet := c.Param("wallet")
	if wallet == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrWalletRequired})
		return
	}
	p, err := h.repo.GetProfileByWallet(wallet)
	if err != nil {
		h.log.Error("profile lookup failed", zap.String(constants.LogFieldWallet, wallet), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrInternal})
		return
	}
	c.JSON(http.StatusOK, p)
}
