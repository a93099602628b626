package httputil

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"strings"

	bnerrors "github.com/matzehuels/bottlenose/pkg/errors"
)

// Decode returns the response body with any gzip content encoding removed.
// Bodies without a gzip Content-Encoding are returned unchanged. Decoded
// output is capped at MaxBodySize.
func Decode(header http.Header, body []byte) ([]byte, error) {
	if !isGzip(header) {
		return body, nil
	}

	zr, err := gzip.NewReader(bytes.NewReader(body))
	if err != nil {
		return nil, bnerrors.Wrap(bnerrors.ErrCodeDecode, err, "invalid gzip body")
	}
	defer zr.Close()

	out, err := io.ReadAll(io.LimitReader(zr, MaxBodySize+1))
	if err != nil {
		return nil, bnerrors.Wrap(bnerrors.ErrCodeDecode, err, "invalid gzip body")
	}
	if len(out) > MaxBodySize {
		return nil, bnerrors.New(bnerrors.ErrCodeBodyTooLarge, "decoded body exceeds %d bytes", MaxBodySize)
	}
	return out, nil
}

func isGzip(header http.Header) bool {
	for _, v := range header.Values("Content-Encoding") {
		if strings.Contains(strings.ToLower(v), "gzip") {
			return true
		}
	}
	return false
}
