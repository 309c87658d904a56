// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// SessionConfig holds settings for the session store.
type SessionConfig struct {
	// SessionDir is the base directory for session state (contains the
	// SQLite database).
	SessionDir string `json:"session_dir" yaml:"session_dir"`

	// MaxSessions caps how many sessions `sessions list` returns (default 50).
	MaxSessions int `json:"max_sessions" yaml:"max_sessions"`
}

// ExportConfig holds settings for document materialization.
type ExportConfig struct {
	// OutputDir is the directory exported documents are written to
	// (default "output").
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// PollConfig holds settings for waiting on upstream extraction output.
type PollConfig struct {
	// BaseDelay is the initial backoff between probe attempts (default 1s).
	BaseDelay time.Duration `json:"base_delay" yaml:"base_delay"`

	// MaxAttempts caps the number of probe attempts (default 5).
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts"`
}

// EngineConfig groups all configuration for the citation engine CLI.
type EngineConfig struct {
	Session SessionConfig `json:"session" yaml:"session"`
	Export  ExportConfig  `json:"export" yaml:"export"`
	Poll    PollConfig    `json:"poll" yaml:"poll"`
}
