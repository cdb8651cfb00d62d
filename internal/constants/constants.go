package constants

// Environment variable keys
const (
	EnvConfigPath = "ARENA_CONFIG"
	EnvDBPath     = "ARENA_DB"
)

// HTTP headers
const (
	HeaderWalletAddress = "X-Wallet-Address"
)

// Routes used by the backend router
const (
	RouteAPIPrefix      = "/api"
	RouteMatches        = "/matches"
	RouteMatchByID      = "/matches/:matchID"
	RouteMatchMove      = "/matches/:matchID/move"
	RouteMatchMoves     = "/matches/:matchID/moves"
	RouteLeaderboard    = "/leaderboard"
	RoutePlayerByWallet = "/players/:wallet"
	RouteHealthz        = "/healthz"
	RouteVersion        = "/version"
)

// Common JSON response keys
const (
	JSONKeyError = "error"
)

// Error strings surfaced to clients
const (
	ErrInvalidMatchID    = "invalid match id"
	ErrMatchNotFound     = "match not found"
	ErrInvalidRequest    = "invalid request payload"
	ErrWalletRequired    = "wallet_address is required"
	ErrInternal          = "internal server error"
	ErrTooManyRequests   = "too many requests"
	ErrConflictRetryMove = "match changed concurrently, re-submit the move"
)

// Log field names
const (
	LogFieldMatchID = "match_id"
	LogFieldWallet  = "wallet"
	LogFieldAddr    = "addr"
)
