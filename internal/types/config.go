package types

type RunMode string

const (
	// ModeLocal runs the API server against a local store
	ModeLocal RunMode = "local"
	// ModeAPI is the mode for running just the API server
	ModeAPI RunMode = "api"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// DatabaseDriver selects the store backing the repositories
type DatabaseDriver string

const (
	DatabaseDriverPostgres DatabaseDriver = "postgres"
	DatabaseDriverSQLite   DatabaseDriver = "sqlite"
	DatabaseDriverMemory   DatabaseDriver = "memory"
)

// IsSQL reports whether the driver is backed by database/sql
func (d DatabaseDriver) IsSQL() bool {
	return d == DatabaseDriverPostgres || d == DatabaseDriverSQLite
}
