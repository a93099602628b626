package cli

import (
	"strings"

	"github.com/matzehuels/bottlenose/pkg/errors"
	"github.com/matzehuels/bottlenose/pkg/query"
)

// parseParams turns Key=Value arguments into call parameters. Values may
// contain further '=' characters; a repeated key keeps its last value.
func parseParams(args []string) (query.Params, error) {
	params := make(query.Params, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "expected Key=Value, got %q", arg)
		}
		params[key] = value
	}
	return params, nil
}
