// internal/app/system/timeouts/timeouts.go
package timeouts

import (
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Default timeout values (used if Configure is not called).
const (
	DefaultPing   = 2 * time.Second
	DefaultShort  = 5 * time.Second
	DefaultMedium = 10 * time.Second
	DefaultLong   = 30 * time.Second
)

var mu sync.RWMutex

var (
	ping   = DefaultPing
	short  = DefaultShort
	medium = DefaultMedium
	long   = DefaultLong
)

// Ping returns the timeout for health checks and connectivity verification.
func Ping() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return ping
}

// Short returns the timeout for single-document reads and writes.
// Examples: get group by name, insert one comment.
func Short() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return short
}

// Medium returns the timeout for list queries and simple multi-step writes.
// Examples: list all groups, join a group (read then update).
func Medium() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return medium
}

// Long returns the timeout for operations touching many documents.
// Examples: cascading comment deletion, group delete with cleanup.
func Long() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return long
}

// Configure overrides timeouts from environment variables of the form
// SHELFSHARE_TIMEOUT_PING, ..._SHORT, ..._MEDIUM, ..._LONG (Go duration
// syntax). Invalid values are logged and ignored.
func Configure(logger *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()

	set := func(env string, dst *time.Duration) {
		raw := os.Getenv(env)
		if raw == "" {
			return
		}
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			logger.Warn("ignoring invalid timeout override",
				zap.String("env", env), zap.String("value", raw))
			return
		}
		*dst = d
	}

	set("SHELFSHARE_TIMEOUT_PING", &ping)
	set("SHELFSHARE_TIMEOUT_SHORT", &short)
	set("SHELFSHARE_TIMEOUT_MEDIUM", &medium)
	set("SHELFSHARE_TIMEOUT_LONG", &long)
}
