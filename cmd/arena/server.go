package main

import (
	"net/http"

	"github.com/doktorshnaps/elves-dragons-adventure-sub002/internal/api"
	"github.com/doktorshnaps/elves-dragons-adventure-sub002/internal/config"
	"github.com/doktorshnaps/elves-dragons-adventure-sub002/internal/constants"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func newRouter(cfg *config.Config, handler *api.MatchHandler, log *zap.Logger) *gin.Engine {
	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(api.RequestLogger(log))

	router.GET(constants.RouteHealthz, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET(constants.RouteVersion, api.Version)

	apiRoutes := router.Group(constants.RouteAPIPrefix)
	{
		apiRoutes.GET(constants.RouteLeaderboard, handler.ListLeaderboard)
		apiRoutes.GET(constants.RoutePlayerByWallet, handler.GetPlayer)

		apiRoutes.POST(constants.RouteMatches, handler.CreateMatch)
		apiRoutes.GET(constants.RouteMatchByID, handler.GetMatch)
		apiRoutes.GET(constants.RouteMatchMoves, handler.ListMoves)
		apiRoutes.POST(constants.RouteMatchMove,
			api.RateLimit(cfg.Game.RateLimitRPS, cfg.Game.RateLimitBurst),
			handler.SubmitMove,
		)
	}
	return router
}
