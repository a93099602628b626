// Package query builds canonical query strings for provider requests.
//
// # Overview
//
// Every provider URL in bottlenose starts from the same serialization:
// parameters sorted by key, values percent-encoded, joined with "&". The
// same string feeds both request signing and cache-key derivation, so it
// must be byte-for-byte deterministic.
//
//	q := query.Encode(query.Params{
//	    "Operation": "ItemLookup",
//	    "ItemId":    "0679722769",
//	})
//	// ItemId=0679722769&Operation=ItemLookup
//
// # Escaping
//
// [Escape] leaves the RFC 3986 unreserved characters (letters, digits and
// "-_.~") as they are and writes every other byte of the UTF-8 form as an
// uppercase %XX triplet. Spaces become %20, never "+".
package query
