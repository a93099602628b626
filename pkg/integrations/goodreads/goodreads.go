// Package goodreads provides the Goodreads API provider.
//
// An operation is the API path, for example "book/isbn" or "search", and the
// request goes to https://www.goodreads.com/<operation>/index.xml. The API
// key is appended after the canonical query and left out of the cache key.
package goodreads

import (
	"github.com/kelseyhightower/envconfig"

	"github.com/matzehuels/bottlenose/pkg/errors"
	"github.com/matzehuels/bottlenose/pkg/integrations"
	"github.com/matzehuels/bottlenose/pkg/query"
)

// Host is the Goodreads API host.
const Host = "www.goodreads.com"

// KeyParam carries the API key.
const KeyParam = "key"

type env struct {
	APIKey string `envconfig:"GOODREADS_API_KEY"`
}

// Config configures the provider. An empty APIKey falls back to
// GOODREADS_API_KEY.
type Config struct {
	APIKey string
}

// Provider implements integrations.Provider for Goodreads.
type Provider struct {
	apiKey string
}

// New returns a Goodreads provider.
func New(cfg Config) (*Provider, error) {
	p := &Provider{apiKey: cfg.APIKey}
	if p.apiKey == "" {
		var e env
		if err := envconfig.Process("", &e); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read goodreads key from environment")
		}
		p.apiKey = e.APIKey
	}
	return p, nil
}

// Name implements integrations.Provider.
func (p *Provider) Name() string { return "goodreads" }

// Validate rejects a caller supplied key parameter.
func (p *Provider) Validate(operation string, params query.Params) error {
	if params.Has(KeyParam) {
		return errors.New(errors.ErrCodeInvalidParameter, "the %q parameter is set from the configured API key", KeyParam)
	}
	return nil
}

// QueryURL returns the request URL with the API key appended last.
func (p *Provider) QueryURL(operation string, params query.Params) (string, error) {
	if p.apiKey == "" {
		return "", errors.New(errors.ErrCodeMissingCredentials,
			"goodreads requests need an API key (set GOODREADS_API_KEY)")
	}
	base, err := p.CacheKey(operation, params)
	if err != nil {
		return "", err
	}
	return base + "&" + KeyParam + "=" + query.Escape(p.apiKey), nil
}

// CacheKey returns the request URL without the API key.
func (p *Provider) CacheKey(operation string, params query.Params) (string, error) {
	return "https://" + Host + "/" + operation + "/index.xml?" + query.Encode(params), nil
}

var _ integrations.Provider = (*Provider)(nil)
