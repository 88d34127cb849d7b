package fs

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"guildcore/internal/blob/core"
)

func newTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return store
}

func TestStorePutGetHeadListDelete(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)
	info, err := store.Put(ctx, "datasets/native.csv", bytes.NewReader([]byte("hello")), core.PutOptions{ContentType: "text/csv", Metadata: map[string]string{"source": "scrape"}})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Key != "datasets/native.csv" || info.Size != 5 {
		t.Fatalf("unexpected info %+v", info)
	}
	if _, err := store.Put(ctx, "datasets/native.csv", bytes.NewReader([]byte("x")), core.PutOptions{}); err == nil {
		t.Fatalf("expected duplicate failure")
	}
	h, err := store.Head(ctx, "datasets/native.csv")
	if err != nil {
		t.Fatalf("head: %v", err)
	}
	g, rc, err := store.Get(ctx, "datasets/native.csv")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	b, _ := io.ReadAll(rc)
	if err := rc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if string(b) != "hello" || g.ETag != h.ETag {
		t.Fatalf("get mismatch: %q etag %q vs %q", b, g.ETag, h.ETag)
	}
	list, err := store.List(ctx, "datasets/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Key != "datasets/native.csv" {
		t.Fatalf("unexpected list %+v", list)
	}
	url, err := store.PresignURL(ctx, "datasets/native.csv", core.SignedURLOptions{})
	if err != nil || url == "" {
		t.Fatalf("presign url: %v %s", err, url)
	}
	ok, err := store.Delete(ctx, "datasets/native.csv")
	if err != nil || !ok {
		t.Fatalf("delete: %v %v", ok, err)
	}
	ok, err = store.Delete(ctx, "datasets/native.csv")
	if err != nil || ok {
		t.Fatalf("second delete should be false")
	}
}

func TestStorePathTraversal(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)
	if _, err := store.Put(ctx, "../escape.txt", bytes.NewReader([]byte("x")), core.PutOptions{}); err == nil {
		t.Fatalf("expected traversal error")
	}
	if _, err := store.Put(ctx, "/abs.txt", bytes.NewReader([]byte("x")), core.PutOptions{}); err == nil {
		t.Fatalf("expected absolute error")
	}
}

func TestSanitizeKeyErrors(t *testing.T) {
	for _, key := range []string{"", "../escape", "/abs", "a/../b"} {
		if _, err := sanitizeKey(key); err == nil {
			t.Fatalf("expected error for key %q", key)
		}
	}
}

func TestStoreMetadataSidecar(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)
	if _, err := store.Put(ctx, "meta/data.bin", bytes.NewReader([]byte("abc")), core.PutOptions{ContentType: "application/octet-stream", Metadata: map[string]string{"a": "1"}}); err != nil {
		t.Fatalf("put: %v", err)
	}
	dataPath, metaPath, _ := store.pathFor("meta/data.bin")
	if _, err := os.Stat(dataPath); err != nil {
		t.Fatalf("expected data path: %v", err)
	}
	b, err := os.ReadFile(metaPath)
	if err != nil {
		t.Fatalf("read meta: %v", err)
	}
	if !bytes.Contains(b, []byte("application/octet-stream")) {
		t.Fatalf("meta missing content type")
	}
	if filepath.Ext(metaPath) != ".meta" {
		t.Fatalf("meta path extension mismatch")
	}
}

type errorReader struct{}

func (errorReader) Read(p []byte) (int, error) { return 0, errors.New("boom") }

func TestStorePutCopyError(t *testing.T) {
	store := newTempStore(t)
	if _, err := store.Put(context.Background(), "bad.bin", errorReader{}, core.PutOptions{}); err == nil {
		t.Fatalf("expected copy error")
	}
}

func TestStoreMissingMetaFails(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)
	if _, err := store.Put(ctx, "orphan/data.txt", bytes.NewReader([]byte("data")), core.PutOptions{}); err != nil {
		t.Fatalf("put: %v", err)
	}
	_, metaPath, _ := store.pathFor("orphan/data.txt")
	if err := os.Remove(metaPath); err != nil {
		t.Fatalf("rm meta: %v", err)
	}
	if _, _, err := store.Get(ctx, "orphan/data.txt"); err == nil {
		t.Fatalf("expected get meta error")
	}
	if _, err := store.Head(ctx, "orphan/data.txt"); err == nil {
		t.Fatalf("expected head meta error")
	}
}

func TestStorePresignVariantsAndListOrder(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)
	if _, err := store.Put(ctx, "b/2.csv", bytes.NewReader([]byte("b2")), core.PutOptions{}); err != nil {
		t.Fatalf("put1: %v", err)
	}
	if _, err := store.Put(ctx, "a/1.csv", bytes.NewReader([]byte("a1")), core.PutOptions{}); err != nil {
		t.Fatalf("put2: %v", err)
	}
	if url, err := store.PresignURL(ctx, "a/1.csv", core.SignedURLOptions{Method: "get"}); err != nil || url == "" {
		t.Fatalf("presign lower: %v %s", err, url)
	}
	if _, err := store.PresignURL(ctx, "a/1.csv", core.SignedURLOptions{Method: "PUT"}); err == nil {
		t.Fatalf("expected unsupported for PUT")
	}
	list, err := store.List(ctx, "")
	if err != nil || len(list) != 2 {
		t.Fatalf("list root: %v %+v", err, list)
	}
	if list[0].Key != "a/1.csv" || list[1].Key != "b/2.csv" {
		t.Fatalf("expected sorted order: %+v", list)
	}
}

func TestListCorruptMeta(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	data := filepath.Join(dir, "bad.txt")
	if err := os.WriteFile(data, []byte("data"), 0o644); err != nil {
		t.Fatalf("write data: %v", err)
	}
	if err := os.WriteFile(data+".meta", []byte("{"), 0o644); err != nil {
		t.Fatalf("write meta: %v", err)
	}
	if _, err := store.List(context.Background(), ""); err == nil {
		t.Fatalf("expected list error on corrupt meta")
	}
}

func TestCloneMetadata(t *testing.T) {
	if cloneMetadata(nil) != nil {
		t.Fatalf("expected nil pass-through")
	}
	src := map[string]string{"a": "1"}
	cp := cloneMetadata(src)
	src["a"] = "2"
	if cp["a"] != "1" {
		t.Fatalf("expected copy isolation: %#v", cp)
	}
}

func TestNewRejectsFileRoot(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "afile")
	if err := os.WriteFile(filePath, []byte("x"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := New(filePath); err == nil {
		t.Fatalf("expected error when root is file")
	}
}

func TestStoreLocalURLStable(t *testing.T) {
	store := &Store{root: t.TempDir()}
	if url := store.localURL("datasets/to.obj"); url != "http://local.blob/datasets/to.obj" {
		t.Fatalf("unexpected url: %s", url)
	}
}

func TestStoreTimestampsUTC(t *testing.T) {
	ctx := context.Background()
	store := newTempStore(t)
	info, err := store.Put(ctx, "time/test", bytes.NewReader([]byte("abc")), core.PutOptions{})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if !info.LastModified.Equal(info.LastModified.UTC()) {
		t.Fatalf("expected UTC timestamp")
	}
}
