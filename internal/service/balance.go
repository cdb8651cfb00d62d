package service

import (
	"github.com/doktorshnaps/elves-dragons-adventure-sub002/internal/constants"

	"go.uber.org/zap"
)

// LoggedBalance is the stand-in for the external economy procedure: it
// records the credit and trusts the real RPC to be wired in deployment.
type LoggedBalance struct {
	Log *zap.Logger
}

func NewLoggedBalance(log *zap.Logger) *LoggedBalance {
	if log == nil {
		log = zap.NewNop()
	}
	return &LoggedBalance{Log: log}
}

func (b *LoggedBalance) AddBalance(wallet string, amount float64) error {
	b.Log.Info("balance credit requested",
		zap.String(constants.LogFieldWallet, wallet),
		zap.Float64("amount", amount),
	)
	return nil
}
