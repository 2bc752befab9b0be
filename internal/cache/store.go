// Package cache keeps analysis and lead results for a day so repeat runs
// against the same domain skip the model.
package cache

import (
	"context"
	"crypto/md5" //nolint:gosec // used for key naming, not security
	"encoding/hex"
	"encoding/json"
	"time"
)

// Namespaces.
const (
	NamespaceScrape   = "scrape"
	NamespaceAnalysis = "analysis"
	NamespaceLeads    = "leads"
)

// Namespaces returns every namespace in use.
func Namespaces() []string {
	return []string{NamespaceScrape, NamespaceAnalysis, NamespaceLeads}
}

// Entry is a cached payload and the time it was written.
type Entry struct {
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

// Store persists entries by namespace and hashed key. Get returns nil, nil
// on a miss. Put overwrites. Clear with an empty namespace clears all of
// them and returns the number of entries removed.
type Store interface {
	Get(ctx context.Context, namespace, key string) (*Entry, error)
	Put(ctx context.Context, namespace, key string, e Entry) error
	Clear(ctx context.Context, namespace string) (int, error)
	Close() error
}

// HashKey returns the hex md5 of a semantic key such as "analysis_acme.com".
func HashKey(key string) string {
	sum := md5.Sum([]byte(key)) //nolint:gosec
	return hex.EncodeToString(sum[:])
}
