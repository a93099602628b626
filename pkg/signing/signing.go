// Package signing computes request signatures for providers that
// authenticate queries with a shared secret.
//
// The scheme is the one used by the Amazon Product Advertising API: an
// HMAC-SHA256 over "METHOD\nHOST\nPATH\nQUERY", base64 encoded and then
// percent-encoded so it can be appended to the query string.
//
//	canonical := query.Encode(params)
//	sig := signing.Sign(http.MethodGet, "webservices.amazon.com", "/onca/xml", canonical, secret)
//	rawQuery := signing.AppendSignature(canonical, sig)
package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"

	"github.com/matzehuels/bottlenose/pkg/query"
)

// Param is the query parameter that carries the signature.
const Param = "Signature"

// StringToSign returns the exact text that [Sign] authenticates.
func StringToSign(method, host, path, canonicalQuery string) string {
	return method + "\n" + host + "\n" + path + "\n" + canonicalQuery
}

// Sign returns the URL-safe signature for the request described by method,
// host, path and the already canonical query string.
//
// "/" is left literal in the escaped base64 text; "+" and "=" are encoded.
func Sign(method, host, path, canonicalQuery string, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(StringToSign(method, host, path, canonicalQuery)))
	encoded := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return query.EscapeKeep(encoded, "/")
}

// AppendSignature adds the signature as the final query component. It is
// never part of the sorted canonical string.
func AppendSignature(canonicalQuery, signature string) string {
	if canonicalQuery == "" {
		return Param + "=" + signature
	}
	return canonicalQuery + "&" + Param + "=" + signature
}
