// Package utils provides small helpers shared across the agent: change-hash
// computation for replicated records, id generation and HTTP client
// construction.
package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"sort"
	"sync"
)

// hasherPool is a package-level pool of reusable SHA-256 hash instances.
var hasherPool = sync.Pool{
	New: func() any {
		return sha256.New()
	},
}

// fieldSeparator and pairSeparator cannot appear in XML character data, so a
// value can never be confused with a boundary.
const (
	fieldSeparator = "\x00"
	pairSeparator  = "\x01"
)

// ChangeHash computes a stable, order-independent digest over a record's
// payload fields and returns it hex-encoded.
//
// Field names are sorted before hashing, so two maps with the same content
// always produce the same hash regardless of iteration or wire order. The
// caller must not include the record revision in fields.
//
// Example usage:
//
//	h := utils.ChangeHash(map[string]string{"EmployeeID": "E1", "FirstName": "Ann"})
func ChangeHash(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := hasherPool.Get().(hash.Hash)
	h.Reset()

	for _, k := range keys {
		h.Write([]byte(k))
		h.Write([]byte(pairSeparator))
		h.Write([]byte(fields[k]))
		h.Write([]byte(fieldSeparator))
	}
	sum := h.Sum(nil)

	h.Reset()
	hasherPool.Put(h)

	return hex.EncodeToString(sum)
}
