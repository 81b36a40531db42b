package datastore

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/CTAG07/Sometimes/pkg/sometimes"
	"github.com/google/go-cmp/cmp"
)

func TestPutGetDelete(t *testing.T) {
	_, ds := setupTestDB(t)
	ctx := context.Background()

	if err := ds.Put(ctx, "title", "Hello"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := ds.Put(ctx, "title", "Hello again"); err != nil {
		t.Fatalf("Put (overwrite) failed: %v", err)
	}
	v, ok, err := ds.Get(ctx, "title")
	if err != nil || !ok || v != "Hello again" {
		t.Errorf("Get(title) = %v, %v, %v", v, ok, err)
	}

	if err := ds.Delete(ctx, "title"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	v, ok, err = ds.Get(ctx, "title")
	if err != nil || ok || v != nil {
		t.Errorf("Get after delete = %v, %v, %v; want nil, false, nil", v, ok, err)
	}
	if err := ds.Delete(ctx, "never-set"); err != nil {
		t.Errorf("deleting a missing key should not fail: %v", err)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	_, ds := setupTestDB(t)
	ctx := context.Background()

	src := sometimes.NewStore()
	src.Set("bold", true)
	src.Set("count", 3)
	src.Set("items", []string{"a", "b"})
	if err := ds.SaveFrom(ctx, src); err != nil {
		t.Fatalf("SaveFrom failed: %v", err)
	}

	dst := sometimes.NewStore()
	dst.Set("stale", "kept")
	n, err := ds.LoadInto(ctx, dst)
	if err != nil {
		t.Fatalf("LoadInto failed: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 entries loaded, got %d", n)
	}
	want := map[string]any{
		"bold":  true,
		"count": float64(3),
		"items": []any{"a", "b"},
		"stale": "kept",
	}
	if diff := cmp.Diff(want, dst.Snapshot()); diff != "" {
		t.Errorf("store mismatch after load (-want +got):\n%s", diff)
	}

	// Saving again replaces the table rather than merging into it.
	src.Delete("items")
	if err := ds.SaveFrom(ctx, src); err != nil {
		t.Fatalf("second SaveFrom failed: %v", err)
	}
	all, err := ds.All(ctx)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if _, ok := all["items"]; ok {
		t.Error("expected items to be removed by the second save")
	}
}

func TestPatch(t *testing.T) {
	_, ds := setupTestDB(t)
	ctx := context.Background()
	_ = ds.Put(ctx, "keep", "yes")
	_ = ds.Put(ctx, "drop", 1)
	_ = ds.Put(ctx, "nested", map[string]any{"a": 1, "b": 2})

	if err := ds.Patch(ctx, []byte(`{"drop": null, "nested": {"b": null, "c": 3}, "new": [1]}`)); err != nil {
		t.Fatalf("Patch failed: %v", err)
	}
	all, err := ds.All(ctx)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	want := map[string]any{
		"keep":   "yes",
		"nested": map[string]any{"a": float64(1), "c": float64(3)},
		"new":    []any{float64(1)},
	}
	if diff := cmp.Diff(want, all); diff != "" {
		t.Errorf("data mismatch after patch (-want +got):\n%s", diff)
	}

	if err := ds.Patch(ctx, []byte(`not json`)); err == nil {
		t.Error("expected an invalid patch to fail")
	}
}

func TestLoadedDataDrivesConditions(t *testing.T) {
	_, ds := setupTestDB(t)
	ctx := context.Background()
	_ = ds.Put(ctx, "bold", true)
	_ = ds.Put(ctx, "name", "Ada")

	store := sometimes.NewStore()
	if _, err := ds.LoadInto(ctx, store); err != nil {
		t.Fatalf("LoadInto failed: %v", err)
	}
	tree := sometimes.P(sometimes.Strong(sometimes.If("bold"), sometimes.Data("name")))
	if got := sometimes.NewRenderer(nil, store).String(tree); got != "<p><strong>Ada</strong></p>" {
		t.Errorf("got %q", got)
	}
}

func TestKeys(t *testing.T) {
	_, ds := setupTestDB(t)
	ctx := context.Background()
	for _, k := range []string{"b", "c", "a"} {
		if err := ds.Put(ctx, k, k); err != nil {
			t.Fatalf("Put(%s) failed: %v", k, err)
		}
	}
	keys, err := ds.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, keys); diff != "" {
		t.Errorf("Keys mismatch (-want +got):\n%s", diff)
	}
}

func TestPatch_ConcurrentWritesAreKept(t *testing.T) {
	_, ds := setupTestDB(t)
	ctx := context.Background()

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, 2*writers)
	for i := 0; i < writers; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			errs <- ds.Patch(ctx, []byte(fmt.Sprintf(`{"patched_%d": %d}`, i, i)))
		}(i)
		go func(i int) {
			defer wg.Done()
			errs <- ds.Put(ctx, fmt.Sprintf("put_%d", i), i)
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent write failed: %v", err)
		}
	}

	all, err := ds.All(ctx)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	for i := 0; i < writers; i++ {
		for _, key := range []string{fmt.Sprintf("patched_%d", i), fmt.Sprintf("put_%d", i)} {
			if _, ok := all[key]; !ok {
				t.Errorf("write to %q was lost", key)
			}
		}
	}
}
