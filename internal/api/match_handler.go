package api

import (
	"github.com/doktorshnaps/elves-dragons-adventure-sub002/internal/service"
	"github.com/doktorshnaps/elves-dragons-adventure-sub002/internal/storage"

	"go.uber.org/zap"
)

// MatchHandler groups all match-related HTTP handlers.
type MatchHandler struct {
	svc  *service.MatchService
	repo storage.Repository
	log  *zap.Logger
}

func NewMatchHandler(svc *service.MatchService, repo storage.Repository, log *zap.Logger) *MatchHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &MatchHandler{svc: svc, repo: repo, log: log}
}
