package config

import (
	"github.com/matzehuels/bottlenose/pkg/integrations/amazon"
	"github.com/matzehuels/bottlenose/pkg/integrations/goodreads"
)

// AmazonProvider builds the Amazon provider from c.Amazon.
func (c *Config) AmazonProvider() (*amazon.Provider, error) {
	return amazon.New(amazon.Config{
		AccessKeyID:     c.Amazon.AccessKeyID,
		SecretAccessKey: c.Amazon.SecretAccessKey,
		AssociateTag:    c.Amazon.AssociateTag,
		Region:          c.Amazon.Region,
		Version:         c.Amazon.Version,
	})
}

// GoodreadsProvider builds the Goodreads provider from c.Goodreads.
func (c *Config) GoodreadsProvider() (*goodreads.Provider, error) {
	return goodreads.New(goodreads.Config{APIKey: c.Goodreads.APIKey})
}
