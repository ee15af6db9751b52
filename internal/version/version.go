package version

// These variables are overridden at build time using -ldflags.
// Defaults are kept usable for local development builds.
var (
	Version = "dev"
	Commit  = "none"
	Date    = ""
)
