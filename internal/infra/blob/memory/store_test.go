package memory

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"guildcore/internal/blob/core"
)

func TestStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := New()
	if store.Driver() != core.DriverMemory {
		t.Fatalf("unexpected driver %s", store.Driver())
	}
	info, err := store.Put(ctx, "datasets/one.csv", bytes.NewReader([]byte("abc")), core.PutOptions{ContentType: "text/csv", Metadata: map[string]string{"k": "v"}})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Size != 3 || info.ContentType != "text/csv" {
		t.Fatalf("unexpected info %+v", info)
	}
	if _, err := store.Put(ctx, "datasets/one.csv", bytes.NewReader(nil), core.PutOptions{}); err == nil {
		t.Fatalf("expected duplicate error")
	}
	got, rc, err := store.Get(ctx, "datasets/one.csv")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	b, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(b) != "abc" || got.Key != "datasets/one.csv" {
		t.Fatalf("get mismatch: %q %+v", b, got)
	}
	if _, err := store.Head(ctx, "datasets/one.csv"); err != nil {
		t.Fatalf("head: %v", err)
	}
	if _, err := store.Head(ctx, "missing"); err == nil {
		t.Fatalf("expected head miss")
	}
	if _, _, err := store.Get(ctx, "missing"); err == nil {
		t.Fatalf("expected get miss")
	}
	ok, err := store.Delete(ctx, "datasets/one.csv")
	if err != nil || !ok {
		t.Fatalf("delete: %v %v", ok, err)
	}
	ok, err = store.Delete(ctx, "datasets/one.csv")
	if err != nil || ok {
		t.Fatalf("second delete should be false")
	}
}

func TestStoreListPrefixAndOrder(t *testing.T) {
	ctx := context.Background()
	store := New()
	for _, key := range []string{"datasets/b.csv", "datasets/a.csv", "other/c.csv"} {
		if _, err := store.Put(ctx, key, bytes.NewReader([]byte("x")), core.PutOptions{}); err != nil {
			t.Fatalf("put %s: %v", key, err)
		}
	}
	list, err := store.List(ctx, "datasets/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Key != "datasets/a.csv" || list[1].Key != "datasets/b.csv" {
		t.Fatalf("unexpected list %+v", list)
	}
	all, err := store.List(ctx, "")
	if err != nil || len(all) != 3 {
		t.Fatalf("list all: %v len=%d", err, len(all))
	}
}

func TestStorePresignUnsupported(t *testing.T) {
	store := New()
	if _, err := store.PresignURL(context.Background(), "k", core.SignedURLOptions{}); !errors.Is(err, core.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestStoreCopiesAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := New()
	md := map[string]string{"a": "1"}
	if _, err := store.Put(ctx, "iso", bytes.NewReader([]byte("data")), core.PutOptions{Metadata: md}); err != nil {
		t.Fatalf("put: %v", err)
	}
	md["a"] = "2"
	info, rc, err := store.Get(ctx, "iso")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	_ = rc.Close()
	if info.Metadata["a"] != "1" {
		t.Fatalf("metadata not isolated: %+v", info.Metadata)
	}
	info.Metadata["a"] = "3"
	again, err := store.Head(ctx, "iso")
	if err != nil {
		t.Fatalf("head: %v", err)
	}
	if again.Metadata["a"] != "1" {
		t.Fatalf("stored metadata mutated: %+v", again.Metadata)
	}
}
