package store

import (
	"fmt"
	"strings"
)

// Open opens a backend from a DSN:
//
//	memory://
//	redis://[:password@]host:port[/db]
//	rediss://...
//	bolt://<path>
//	sqlite://<path>
//
// A bare path without a scheme opens a bbolt file.
func Open(dsn string) (Backend, error) {
	scheme, rest, ok := strings.Cut(dsn, "://")
	if !ok {
		if dsn == "" {
			return nil, fmt.Errorf("store DSN is required")
		}
		return OpenBolt(dsn)
	}

	switch strings.ToLower(scheme) {
	case "memory", "mem":
		return NewMemoryStore(), nil
	case "redis", "rediss":
		return NewRedisStore(RedisConfig{URL: dsn})
	case "bolt", "bbolt":
		if rest == "" {
			return nil, fmt.Errorf("bolt store requires a path")
		}
		return OpenBolt(rest)
	case "sqlite", "sqlite3":
		return OpenSQLite(rest)
	default:
		return nil, fmt.Errorf("unsupported store scheme %q", scheme)
	}
}
