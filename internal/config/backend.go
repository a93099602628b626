package config

import (
	"context"
	"path/filepath"

	"github.com/matzehuels/bottlenose/pkg/cache"
	"github.com/matzehuels/bottlenose/pkg/errors"
)

// OpenCache opens the configured backend. The caller closes it.
func (c CacheConfig) OpenCache(ctx context.Context) (cache.Cache, error) {
	switch c.Backend {
	case BackendNone:
		return cache.NewNullCache(), nil
	case BackendMemory:
		return cache.NewMemoryCache(), nil
	case BackendFile, "":
		return cache.NewFileCache(c.Dir)
	case BackendBadger:
		dir, err := c.Path()
		if err != nil {
			return nil, err
		}
		return cache.NewBadgerCache(dir)
	case BackendRedis:
		return cache.NewRedisCache(ctx, c.RedisAddr, c.RedisPassword, c.RedisDB)
	case BackendMongo:
		return cache.NewMongoCache(ctx, c.MongoURI, c.MongoDatabase, c.MongoCollection)
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Backend)
}

// Path returns the on-disk location of the file and badger backends.
// Badger keeps its files in a "badger" subdirectory of the default dir.
func (c CacheConfig) Path() (string, error) {
	switch c.Backend {
	case BackendFile, BackendBadger, "":
	default:
		return "", errors.New(errors.ErrCodeUnsupported, "the %s cache backend has no local path", c.Backend)
	}

	if c.Dir != "" {
		return c.Dir, nil
	}
	base, err := cache.DefaultDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidConfig, err, "resolve cache dir")
	}
	if c.Backend == BackendBadger {
		return filepath.Join(base, "badger"), nil
	}
	return base, nil
}
