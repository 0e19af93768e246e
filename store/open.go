package store

import (
	"context"
	"fmt"
)

// Options carries the per-driver settings used by Open.
type Options struct {
	FilePath      string
	SQLitePath    string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	MongoURI      string
	MongoDB       string
}

// Open builds the backend named by driver: "memory", "file", "sqlite",
// "redis" or "mongo".
func Open(ctx context.Context, driver string, opts Options) (KV, error) {
	switch driver {
	case "memory":
		return NewMemory(), nil
	case "file", "":
		return NewFile(opts.FilePath)
	case "sqlite":
		return NewSQLite(opts.SQLitePath)
	case "redis":
		return NewRedis(ctx, opts.RedisAddr, opts.RedisPassword, opts.RedisDB)
	case "mongo":
		return NewMongo(ctx, opts.MongoURI, opts.MongoDB)
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}
