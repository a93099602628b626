// Package config loads bottlenose settings from a TOML file and the
// environment.
//
// The file lives at $XDG_CONFIG_HOME/bottlenose/config.toml unless a path
// is given explicitly. Every setting can be overridden by an environment
// variable named after its section and key, for example
// BOTTLENOSE_CLIENT_MAX_QPS or BOTTLENOSE_CACHE_BACKEND.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"

	"github.com/matzehuels/bottlenose/pkg/errors"
	"github.com/matzehuels/bottlenose/pkg/integrations"
)

const (
	appName = "bottlenose"

	// EnvPrefix prefixes environment overrides.
	EnvPrefix = "BOTTLENOSE"
)

// Cache backends.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendBadger = "badger"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendNone   = "none"
)

// Config is the complete bottlenose configuration.
type Config struct {
	Client    ClientConfig    `toml:"client" envconfig:"CLIENT"`
	Cache     CacheConfig     `toml:"cache" envconfig:"CACHE"`
	Amazon    AmazonConfig    `toml:"amazon" envconfig:"AMAZON"`
	Goodreads GoodreadsConfig `toml:"goodreads" envconfig:"GOODREADS"`
	Server    ServerConfig    `toml:"server" envconfig:"SERVER"`
}

// ClientConfig holds dispatcher settings shared by every provider.
type ClientConfig struct {
	Timeout    time.Duration `toml:"timeout" envconfig:"TIMEOUT"`
	MaxQPS     float64       `toml:"max_qps" envconfig:"MAX_QPS"`
	MaxRetries int           `toml:"max_retries" envconfig:"MAX_RETRIES"`
}

// CacheConfig selects and configures the response cache.
type CacheConfig struct {
	Backend         string        `toml:"backend" envconfig:"BACKEND"`
	Dir             string        `toml:"dir" envconfig:"DIR"`
	TTL             time.Duration `toml:"ttl" envconfig:"TTL"`
	RedisAddr       string        `toml:"redis_addr" envconfig:"REDIS_ADDR"`
	RedisPassword   string        `toml:"redis_password" envconfig:"REDIS_PASSWORD"`
	RedisDB         int           `toml:"redis_db" envconfig:"REDIS_DB"`
	MongoURI        string        `toml:"mongo_uri" envconfig:"MONGO_URI"`
	MongoDatabase   string        `toml:"mongo_database" envconfig:"MONGO_DATABASE"`
	MongoCollection string        `toml:"mongo_collection" envconfig:"MONGO_COLLECTION"`
}

// AmazonConfig holds Product Advertising API settings. Empty credentials
// fall back to the AWS_* environment variables read by the provider.
type AmazonConfig struct {
	AccessKeyID     string `toml:"access_key_id" envconfig:"ACCESS_KEY_ID"`
	SecretAccessKey string `toml:"secret_access_key" envconfig:"SECRET_ACCESS_KEY"`
	AssociateTag    string `toml:"associate_tag" envconfig:"ASSOCIATE_TAG"`
	Region          string `toml:"region" envconfig:"REGION"`
	Version         string `toml:"version" envconfig:"VERSION"`
}

// GoodreadsConfig holds Goodreads settings.
type GoodreadsConfig struct {
	APIKey string `toml:"api_key" envconfig:"API_KEY"`
}

// ServerConfig configures the serve gateway.
type ServerConfig struct {
	Addr    string `toml:"addr" envconfig:"ADDR"`
	Metrics bool   `toml:"metrics" envconfig:"METRICS"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Client: ClientConfig{
			Timeout:    integrations.DefaultTimeout,
			MaxRetries: integrations.DefaultMaxRetries,
		},
		Cache: CacheConfig{
			Backend:         BackendFile,
			TTL:             24 * time.Hour,
			MongoDatabase:   appName,
			MongoCollection: "responses",
		},
		Amazon: AmazonConfig{Region: "US"},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/bottlenose/config.toml, falling back
// to the platform config directory.
func DefaultPath() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName, "config.toml"), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName, "config.toml"), nil
}

// Load reads the file at path over the defaults and applies environment
// overrides. An empty path reads the default location, which may be
// absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}

	if path != "" {
		md, err := toml.DecodeFile(path, cfg)
		switch {
		case err == nil:
			if undecoded := md.Undecoded(); len(undecoded) > 0 {
				return nil, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
			}
		case os.IsNotExist(err) && !explicit:
		default:
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read environment overrides")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and the cache backend name.
func (c *Config) Validate() error {
	switch {
	case c.Client.Timeout < 0:
		return invalid("client.timeout must not be negative")
	case c.Client.MaxQPS < 0:
		return invalid("client.max_qps must not be negative")
	case c.Client.MaxRetries < 0:
		return invalid("client.max_retries must not be negative")
	case c.Cache.TTL < 0:
		return invalid("cache.ttl must not be negative")
	}

	switch c.Cache.Backend {
	case BackendFile, BackendMemory, BackendBadger, BackendNone:
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			return invalid("cache.redis_addr is required for the redis backend")
		}
	case BackendMongo:
		if c.Cache.MongoURI == "" {
			return invalid("cache.mongo_uri is required for the mongo backend")
		}
	default:
		return invalid(fmt.Sprintf("unknown cache backend %q", c.Cache.Backend))
	}
	return nil
}

func invalid(msg string) error {
	return errors.New(errors.ErrCodeInvalidConfig, "%s", msg)
}
