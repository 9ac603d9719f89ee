package types

import "errors"

// Config holds backend selection and parameters used to open a Backend.
type Config struct {
	Backend string `json:"backend" yaml:"backend"`
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// DSN is the connection string for networked backends (postgres).
	DSN string `json:"dsn,omitempty" yaml:"dsn,omitempty"`
}

// Supported backend names.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendBolt     = "bolt"
	BackendPostgres = "postgres"
)

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
	ErrDSNEmpty       = errors.New("dsn must not be empty for postgres backend")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendMemory:   true,
	BackendSQLite:   true,
	BackendBolt:     true,
	BackendPostgres: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.Backend == BackendPostgres && c.DSN == "" {
		return ErrDSNEmpty
	}
	return nil
}
