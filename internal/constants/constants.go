// Package constants holds names shared by the CLI, configuration and UI.
package constants

// AppName names the data directory, the window title and the flag set.
const AppName = "retest"

// SyntaxTheme is the Chroma theme the UI chrome colors derive from when the
// config does not name one. Any name from chroma's styles registry works,
// e.g. monokai, dracula, nord, gruvbox, github-dark or solarized-light.
const SyntaxTheme = "vulcan"

// Files inside the data directory.
const (
	ConfigFile  = "config.toml"
	SessionFile = "session.db"
	LogFile     = "retest.log"
)
