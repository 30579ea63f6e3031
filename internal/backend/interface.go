package backend

import (
	"context"
	"time"

	"finsafe/internal/cache"
	"finsafe/internal/session"
)

// CleanupFunc releases resources held by a backend
type CleanupFunc func() error

// BackendResult contains the session store and what the caller must manage
// around it
type BackendResult struct {
	Store session.Store
	// Cleaner purges expired sessions; nil when the backend expires them itself
	Cleaner cache.Cleaner
	Cleanup CleanupFunc
}

// Factory creates session stores based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for session store creation
type Config struct {
	Type BackendType

	// Memory specific
	MaxEntries int
	TTL        time.Duration

	// SQLite specific
	SQLiteDBPath string

	// Redis specific
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// BackendType represents the type of session backend
type BackendType string

const (
	MemoryBackend BackendType = "memory"
	SQLiteBackend BackendType = "sqlite"
	RedisBackend  BackendType = "redis"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case MemoryBackend, SQLiteBackend, RedisBackend:
		return true
	default:
		return false
	}
}
