package persist

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

type snapshot struct {
	Names []string `json:"names"`
	Count int      `json:"count"`
}

func TestRedisSaverRoundTrip(t *testing.T) {
	srv := miniredis.RunT(t)
	saver := NewRedisSaver(srv.Addr(), "")
	ctx := context.Background()

	var missing snapshot
	ok, err := saver.Load(ctx, NamespaceHistory, &missing)
	if err != nil {
		t.Fatalf("load empty: %v", err)
	}
	if ok {
		t.Fatal("load reported a snapshot before any save")
	}

	want := snapshot{Names: []string{"a", "b"}, Count: 2}
	if err := saver.Save(ctx, NamespaceHistory, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	var got snapshot
	ok, err = saver.Load(ctx, NamespaceHistory, &got)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !ok {
		t.Fatal("snapshot not found after save")
	}
	if got.Count != want.Count || len(got.Names) != 2 || got.Names[0] != "a" {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestRedisSaverNamespacesAreIndependent(t *testing.T) {
	srv := miniredis.RunT(t)
	saver := NewRedisSaver(srv.Addr(), "")
	ctx := context.Background()

	if err := saver.Save(ctx, NamespaceForm, snapshot{Count: 1}); err != nil {
		t.Fatalf("save form: %v", err)
	}
	if err := saver.Save(ctx, NamespaceCurated, snapshot{Count: 2}); err != nil {
		t.Fatalf("save curated: %v", err)
	}

	var form, curated snapshot
	if _, err := saver.Load(ctx, NamespaceForm, &form); err != nil {
		t.Fatalf("load form: %v", err)
	}
	if _, err := saver.Load(ctx, NamespaceCurated, &curated); err != nil {
		t.Fatalf("load curated: %v", err)
	}
	if form.Count != 1 || curated.Count != 2 {
		t.Fatalf("namespaces bled together: form=%+v curated=%+v", form, curated)
	}
}

func TestMemorySaverRoundTrip(t *testing.T) {
	saver := NewMemorySaver()
	ctx := context.Background()

	if err := saver.Save(ctx, NamespaceForm, snapshot{Count: 7}); err != nil {
		t.Fatalf("save: %v", err)
	}
	var got snapshot
	ok, err := saver.Load(ctx, NamespaceForm, &got)
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if got.Count != 7 {
		t.Fatalf("got %+v", got)
	}
}
