package version

// Overridden at build time via -ldflags; defaults cover local runs.
var (
	Version = "dev"
	Commit  = "none"
	Date    = ""
)
