package cache

import (
	"github.com/matzehuels/bottlenose/pkg/errors"
)

func wrapErr(err error, op, key string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(errors.ErrCodeCache, err, "cache %s %q", op, key)
}
