package addoc

import (
	"context"
	"errors"
	"testing"

	"adsmith/pkg/domain"
)

func TestMemoryStoreCollectionIsPerUser(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	id1, err := s.SaveAd(ctx, "user-1", domain.SavedAd{GeneratedAd: domain.GeneratedAd{Headline: "A"}})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := s.SaveAd(ctx, "user-2", domain.SavedAd{GeneratedAd: domain.GeneratedAd{Headline: "B"}}); err != nil {
		t.Fatalf("save: %v", err)
	}

	ads, err := s.ListAds(ctx, "user-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ads) != 1 || ads[0].Headline != "A" || ads[0].ID != id1 {
		t.Fatalf("user-1 ads = %+v", ads)
	}

	// Deleting across the namespace boundary must not work.
	if err := s.DeleteAd(ctx, "user-2", id1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross-user delete = %v, want ErrNotFound", err)
	}
	if err := s.DeleteAd(ctx, "user-1", id1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	ads, _ = s.ListAds(ctx, "user-1")
	if len(ads) != 0 {
		t.Fatalf("ads after delete = %+v", ads)
	}
}

func TestMemoryStoreAssignsFreshIDs(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	id, err := s.SaveAd(ctx, "u", domain.SavedAd{GeneratedAd: domain.GeneratedAd{ID: "client-chosen"}})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if id == "client-chosen" {
		t.Fatal("store must assign the document id")
	}
	ads, _ := s.ListAds(ctx, "u")
	if ads[0].ID != id {
		t.Fatalf("listed id %q != returned id %q", ads[0].ID, id)
	}
}

func TestMemoryStorePreservesInsertionOrder(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	for _, h := range []string{"one", "two", "three"} {
		if _, err := s.SaveAd(ctx, "u", domain.SavedAd{GeneratedAd: domain.GeneratedAd{Headline: h}}); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	ads, _ := s.ListAds(ctx, "u")
	if len(ads) != 3 || ads[0].Headline != "one" || ads[2].Headline != "three" {
		t.Fatalf("order lost: %+v", ads)
	}
}
