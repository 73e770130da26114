// Package addoc is the remote per-user saved-ad document collection. It
// is the durable source of truth for saved ads when a user is signed in;
// the in-process cache in internal/saved reads through it.
package addoc

import (
	"context"
	"errors"

	"adsmith/pkg/domain"
)

// ErrNotFound reports a delete or lookup against a document id that does
// not exist in the user's collection.
var ErrNotFound = errors.New("saved ad not found")

// Store defines the document operations: create (returns the generated
// document id), list-all for a user, delete-by-id.
type Store interface {
	SaveAd(ctx context.Context, userID string, ad domain.SavedAd) (string, error)
	ListAds(ctx context.Context, userID string) ([]domain.SavedAd, error)
	DeleteAd(ctx context.Context, userID, adID string) error
}
