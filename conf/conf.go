// Package conf holds the host-visible settings of the DuckDB execution bridge. The
// host embeds a Config and hands it to the scan layer; there is no flag or file
// parsing here.
package conf

import (
	"github.com/japinli/pg-duckdb/errors"
)

const (
	DefaultMaxThreadsPerQuery = 1
	MaxMaxThreadsPerQuery     = 64
	DefaultBackgroundWorkerDB = "postgres"
)

type Config struct {
	// Execution enables DuckDB query execution. Off by default so installing the
	// extension does not change query behaviour until opted in.
	Execution          bool   `json:"execution,omitempty"`
	MaxThreadsPerQuery int    `json:"max_threads_per_query,omitempty"`
	DefaultDB          string `json:"default_db,omitempty"`
	BackgroundWorkerDB string `json:"background_worker_db,omitempty"`
}

func NewDefaultConfig() *Config {
	return &Config{
		MaxThreadsPerQuery: DefaultMaxThreadsPerQuery,
		BackgroundWorkerDB: DefaultBackgroundWorkerDB,
	}
}

func (c *Config) Validate() error {
	if c.MaxThreadsPerQuery < 1 {
		return errors.NewInvalidConfigurationError("MaxThreadsPerQuery must be >= 1")
	}
	if c.MaxThreadsPerQuery > MaxMaxThreadsPerQuery {
		return errors.NewInvalidConfigurationError("MaxThreadsPerQuery must be <= 64")
	}
	if c.BackgroundWorkerDB == "" {
		return errors.NewInvalidConfigurationError("BackgroundWorkerDB must be specified")
	}
	return nil
}
