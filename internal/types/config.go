package types

type RunMode string

const (
	// ModeLocal is the mode for running the catalog service locally
	ModeLocal RunMode = "local"
	// ModeAPI is the mode for running the catalog service behind an API server
	ModeAPI RunMode = "api"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
)
