package api

import (
	"errors"
	"net/http"

	"github.com/doktorshnaps/elves-dragons-adventure-sub002/internal/constants"
	"github.com/doktorshnaps/elves-dragons-adventure-sub002/internal/service"
	"github.com/doktorshnaps/elves-dragons-adventure-sub002/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MoveRequest is the move-submission payload. The wallet may also arrive
// via the X-Wallet-Address header instead of the body.
type MoveRequest struct {
	WalletAddress     string `json:"wallet_address"`
	ActionType        string `json:"action_type"`
	AttackerPairIndex *int   `json:"attacker_pair_index"`
	TargetPairIndex   *int   `json:"target_pair_index"`
}

// MoveResponse mirrors service.MoveResult on the wire.
type MoveResponse struct {
	Success         bool    `json:"success"`
	MatchStatus     string  `json:"match_status"`
	ActionType      string  `json:"action_type"`
	DiceRoll        int     `json:"dice_roll"`
	DamageDealt     int     `json:"damage_dealt"`
	DamagePercent   int     `json:"damage_percent"`
	IsMiss          bool    `json:"is_miss"`
	IsCritical      bool    `json:"is_critical"`
	IsCounterAttack bool    `json:"is_counter_attack"`
	CounterDamage   int     `json:"counter_attack_damage"`
	Description     string  `json:"description"`
	NextTurn        string  `json:"next_turn,omitempty"`
	Winner          string  `json:"winner,omitempty"`
	Loser           string  `json:"loser,omitempty"`
	EloChange       int     `json:"elo_change,omitempty"`
	Reward          float64 `json:"reward"`
}

// SubmitMove handles POST /api/matches/:matchID/move.
func (h *MatchHandler) SubmitMove(c *gin.Context) {
	matchID := c.Param("matchID")
	if _, err := uuid.Parse(matchID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidMatchID})
		return
	}

	var req MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	wallet := req.WalletAddress
	if wallet == "" {
		wallet = c.GetHeader(constants.HeaderWalletAddress)
	}
	if wallet == "" && req.ActionType != service.ActionTriggerBotTurn {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrWalletRequired})
		return
	}

	moveReq := service.MoveRequest{
		MatchID:           matchID,
		Wallet:            wallet,
		ActionType:        req.ActionType,
		AttackerPairIndex: -1,
		TargetPairIndex:   -1,
	}
	if req.AttackerPairIndex != nil {
		moveReq.AttackerPairIndex = *req.AttackerPairIndex
	}
	if req.TargetPairIndex != nil {
		moveReq.TargetPairIndex = *req.TargetPairIndex
	}

	res, err := h.svc.SubmitMove(moveReq)
	if err != nil {
		h.renderMoveError(c, matchID, err)
		return
	}

	c.JSON(http.StatusOK, MoveResponse{
		Success:         true,
		MatchStatus:     res.MatchStatus,
		ActionType:      res.ActionType,
		DiceRoll:        res.DiceRoll,
		DamageDealt:     res.DamageDealt,
		DamagePercent:   res.DamagePercent,
		IsMiss:          res.IsMiss,
		IsCritical:      res.IsCritical,
		IsCounterAttack: res.IsCounterAttack,
		CounterDamage:   res.CounterDamage,
		Description:     res.Description,
		NextTurn:        res.NextTurn,
		Winner:          res.Winner,
		Loser:           res.Loser,
		EloChange:       res.EloChange,
		Reward:          res.Reward,
	})
}

func (h *MatchHandler) renderMoveError(c *gin.Context, matchID string, err error) {
	switch {
	case errors.Is(err, service.ErrMatchNotFound):
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrMatchNotFound})
	case errors.Is(err, storage.ErrVersionConflict):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrConflictRetryMove})
	case errors.Is(err, service.ErrMatchNotActive),
		errors.Is(err, service.ErrPlayerNotInMatch),
		errors.Is(err, service.ErrNotYourTurn),
		errors.Is(err, service.ErrInvalidPairIndex),
		errors.Is(err, service.ErrAttackerPairDefeated),
		errors.Is(err, service.ErrTargetPairDefeated),
		errors.Is(err, service.ErrNotBotMatch),
		errors.Is(err, service.ErrNotBotTurn),
		errors.Is(err, service.ErrInvalidAction):
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: err.Error()})
	default:
		h.log.Error("move submission failed",
			zap.String(constants.LogFieldMatchID, matchID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrInternal})
	}
}
