// Package amazon provides the Amazon Product Advertising API provider.
//
// Requests go to https://webservices.amazon.<tld>/onca/xml and are signed
// with HMAC-SHA256 over the canonical query. Every request URL carries a
// fresh Timestamp and Signature; the cache key carries neither, so the same
// lookup maps to the same cache entry no matter when it runs.
//
//	p, err := amazon.New(amazon.Config{Region: "UK"})
//	client, err := integrations.NewRawClient(p, integrations.WithMaxQPS(1))
//	xml, err := client.ForOperation("ItemLookup").Invoke(ctx, query.Params{
//	    "ItemId":        "0679722769",
//	    "ResponseGroup": "ItemAttributes,Images",
//	})
//
// Credentials not set in [Config] are read from AWS_ACCESS_KEY_ID,
// AWS_SECRET_ACCESS_KEY and AWS_ASSOCIATE_TAG.
package amazon

import (
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/matzehuels/bottlenose/pkg/errors"
	"github.com/matzehuels/bottlenose/pkg/integrations"
	"github.com/matzehuels/bottlenose/pkg/query"
	"github.com/matzehuels/bottlenose/pkg/signing"
)

const (
	// DefaultVersion is the API version sent when Config.Version is empty.
	DefaultVersion = "2013-08-01"

	// DefaultRegion is used when Config.Region is empty.
	DefaultRegion = "US"

	// Service is the fixed Service parameter of every request.
	Service = "AWSECommerceService"

	// Path is the request path on every regional host.
	Path = "/onca/xml"

	timestampLayout = "2006-01-02T15:04:05Z"
)

var hosts = map[string]string{
	"CA": "webservices.amazon.ca",
	"CN": "webservices.amazon.cn",
	"DE": "webservices.amazon.de",
	"ES": "webservices.amazon.es",
	"FR": "webservices.amazon.fr",
	"IN": "webservices.amazon.in",
	"IT": "webservices.amazon.it",
	"JP": "webservices.amazon.co.jp",
	"UK": "webservices.amazon.co.uk",
	"US": "webservices.amazon.com",
	"BR": "webservices.amazon.com.br",
	"MX": "webservices.amazon.com.mx",
}

// discontinued lists parameters Amazon no longer accepts.
var discontinued = map[string]string{
	"Style": "the Style parameter has been discontinued by AWS; remove all references to it and retry",
}

// Regions returns the supported region codes in sorted order.
func Regions() []string {
	return slices.Sorted(maps.Keys(hosts))
}

// Host returns the API host for region.
func Host(region string) (string, bool) {
	h, ok := hosts[region]
	return h, ok
}

// Credentials are read from the environment when not given explicitly.
type Credentials struct {
	AccessKeyID     string `envconfig:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey string `envconfig:"AWS_SECRET_ACCESS_KEY"`
	AssociateTag    string `envconfig:"AWS_ASSOCIATE_TAG"`
}

// LoadCredentials reads AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and
// AWS_ASSOCIATE_TAG.
func LoadCredentials() (Credentials, error) {
	var c Credentials
	if err := envconfig.Process("", &c); err != nil {
		return c, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read amazon credentials from environment")
	}
	return c, nil
}

// Config configures the provider. Empty credential fields fall back to the
// environment.
type Config struct {
	AccessKeyID     string
	SecretAccessKey string
	AssociateTag    string
	Region          string // Region code such as "US" or "UK"; default US
	Version         string // API version; default 2013-08-01

	// Now supplies request timestamps. Defaults to time.Now.
	Now func() time.Time
}

// Provider implements integrations.Provider for Amazon.
type Provider struct {
	accessKeyID  string
	secret       []byte
	associateTag string
	region       string
	host         string
	version      string
	now          func() time.Time
}

// New validates cfg and returns a provider. An unknown region is rejected
// here, before any request can be built.
func New(cfg Config) (*Provider, error) {
	env, err := LoadCredentials()
	if err != nil {
		return nil, err
	}

	region := strings.ToUpper(strings.TrimSpace(cfg.Region))
	if region == "" {
		region = DefaultRegion
	}
	host, ok := hosts[region]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidRegion,
			"unknown amazon region %q (supported: %s)", cfg.Region, strings.Join(Regions(), ", "))
	}

	p := &Provider{
		accessKeyID:  firstNonEmpty(cfg.AccessKeyID, env.AccessKeyID),
		secret:       []byte(firstNonEmpty(cfg.SecretAccessKey, env.SecretAccessKey)),
		associateTag: firstNonEmpty(cfg.AssociateTag, env.AssociateTag),
		region:       region,
		host:         host,
		version:      firstNonEmpty(cfg.Version, DefaultVersion),
		now:          cfg.Now,
	}
	if p.now == nil {
		p.now = time.Now
	}
	return p, nil
}

// Name implements integrations.Provider.
func (p *Provider) Name() string { return "amazon" }

// Region returns the region code.
func (p *Provider) Region() string { return p.region }

// Host returns the regional API host.
func (p *Provider) Host() string { return p.host }

// Validate rejects discontinued and reserved parameters.
func (p *Provider) Validate(operation string, params query.Params) error {
	for key, msg := range discontinued {
		if params.Has(key) {
			return errors.New(errors.ErrCodeInvalidParameter, "%s", msg)
		}
	}
	if params.Has(signing.Param) {
		return errors.New(errors.ErrCodeInvalidParameter, "the %s parameter is computed and cannot be supplied", signing.Param)
	}
	return nil
}

// QueryURL returns a signed request URL stamped with the current time.
func (p *Provider) QueryURL(operation string, params query.Params) (string, error) {
	if p.accessKeyID == "" || len(p.secret) == 0 {
		return "", errors.New(errors.ErrCodeMissingCredentials,
			"amazon requests need an access key and secret key (set AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY)")
	}

	q := p.baseParams(operation)
	maps.Copy(q, params)
	q["AWSAccessKeyId"] = p.accessKeyID
	q["Timestamp"] = p.now().UTC().Format(timestampLayout)
	if p.associateTag != "" {
		q["AssociateTag"] = p.associateTag
	}

	canonical := query.Encode(q)
	sig := signing.Sign("GET", p.host, Path, canonical, p.secret)
	return "https://" + p.host + Path + "?" + signing.AppendSignature(canonical, sig), nil
}

// CacheKey returns the request URL without credentials, timestamp or
// signature.
func (p *Provider) CacheKey(operation string, params query.Params) (string, error) {
	q := p.baseParams(operation)
	maps.Copy(q, params)
	return "https://" + p.host + Path + "?" + query.Encode(q), nil
}

func (p *Provider) baseParams(operation string) query.Params {
	return query.Params{
		"Operation": operation,
		"Service":   Service,
		"Version":   p.version,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

var _ integrations.Provider = (*Provider)(nil)
