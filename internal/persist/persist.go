// Package persist snapshots store state under fixed namespace keys so it
// survives process restarts. Each store persists independently; transient
// flags are never written.
package persist

import "context"

// Namespaces for the three persisted stores.
const (
	NamespaceForm    = "form-store"
	NamespaceHistory = "ad-history"
	NamespaceCurated = "ad-generator-store"
)

// Saver persists one JSON-serializable snapshot per namespace.
type Saver interface {
	// Save replaces the snapshot stored under namespace.
	Save(ctx context.Context, namespace string, v any) error
	// Load reads the snapshot stored under namespace into v. The bool
	// reports whether a snapshot existed.
	Load(ctx context.Context, namespace string, v any) (bool, error)
}
