// Package scraper provides a provider for arbitrary URLs.
//
// The "url" parameter is both the request URL and the cache key; other
// parameters are ignored. Requests carry no credentials.
//
//	client, _ := integrations.NewClient(scraper.New(), scraper.Markdown)
//	md, err := client.ForOperation(scraper.Operation).Invoke(ctx, query.Params{"url": "https://go.dev/"})
package scraper

import (
	"fmt"

	"github.com/matzehuels/bottlenose/pkg/errors"
	"github.com/matzehuels/bottlenose/pkg/integrations"
	"github.com/matzehuels/bottlenose/pkg/query"
)

// URLParam names the parameter holding the target URL.
const URLParam = "url"

// Operation is the conventional operation name for scraper calls. Any valid
// name works; it does not affect the request.
const Operation = "get"

// Provider implements integrations.Provider for plain URLs.
type Provider struct{}

// New returns a scraper provider.
func New() *Provider { return &Provider{} }

// Name implements integrations.Provider.
func (*Provider) Name() string { return "scraper" }

// Validate requires an http or https url parameter.
func (*Provider) Validate(operation string, params query.Params) error {
	v, ok := params[URLParam]
	if !ok || v == nil {
		return errors.New(errors.ErrCodeInvalidParameter, "the %q parameter is required", URLParam)
	}
	return errors.ValidateURL(fmt.Sprint(v))
}

// QueryURL returns the url parameter.
func (p *Provider) QueryURL(operation string, params query.Params) (string, error) {
	return fmt.Sprint(params[URLParam]), nil
}

// CacheKey returns the url parameter.
func (p *Provider) CacheKey(operation string, params query.Params) (string, error) {
	return p.QueryURL(operation, params)
}

var _ integrations.Provider = (*Provider)(nil)
