package logging

import (
	"go.uber.org/zap"
)

// New builds the process logger: human-readable in debug mode, JSON in
// production.
func New(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// Nop returns a logger that discards everything. Library code that
// accepts an optional logger defaults to this.
func Nop() *zap.Logger { return zap.NewNop() }
