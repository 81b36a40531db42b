package sometimes

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStore_GetSetDelete(t *testing.T) {
	s := NewStore()
	if v := s.Get("missing"); v != nil {
		t.Errorf("Get(missing) = %v, want nil", v)
	}
	s.Set("b", 2)
	s.Set("a", "one")
	if v, ok := s.Lookup("a"); !ok || v != "one" {
		t.Errorf("Lookup(a) = %v, %v", v, ok)
	}
	if diff := cmp.Diff([]string{"a", "b"}, s.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
	s.Delete("a")
	s.Delete("never-set")
	if s.Has("a") || s.Len() != 1 {
		t.Errorf("unexpected contents after delete: %v", s.Snapshot())
	}
	s.Clear()
	if s.Len() != 0 {
		t.Errorf("Clear left %d entries", s.Len())
	}
}

func TestStore_GlobalFunctions(t *testing.T) {
	t.Cleanup(Global().Clear)
	Set("foo", "bar")
	if Get("foo") != "bar" || !Global().Has("foo") {
		t.Error("package-level Set did not reach the global store")
	}
	Delete("foo")
	if Global().Has("foo") {
		t.Error("package-level Delete did not reach the global store")
	}
}

func TestTruthy(t *testing.T) {
	var nilMap map[string]int
	var nilPtr *int
	one := 1
	testCases := []struct {
		name string
		v    any
		want bool
	}{
		{"nil", nil, false},
		{"false", false, false},
		{"true", true, true},
		{"empty string", "", false},
		{"zero string", "0", false},
		{"string", "no", true},
		{"zero int", 0, false},
		{"int", -3, true},
		{"zero uint", uint8(0), false},
		{"zero float", 0.0, false},
		{"float", 0.5, true},
		{"empty slice", []int{}, false},
		{"slice", []int{0}, true},
		{"nil map", nilMap, false},
		{"map", map[string]int{"a": 0}, true},
		{"nil pointer", nilPtr, false},
		{"pointer", &one, true},
		{"struct", struct{}{}, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Truthy(tc.v); got != tc.want {
				t.Errorf("Truthy(%#v) = %v, want %v", tc.v, got, tc.want)
			}
		})
	}
}

func TestStore_ConcurrentForEach(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	results := make([]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			list := ForEachIn(s, []int{i, i, i}, "v", Data("v"))
			results[i] = NewRenderer(nil, s).String(list)
		}(i)
	}
	wg.Wait()
	for i, got := range results {
		want := ""
		for j := 0; j < 3; j++ {
			want += string(rune('0' + i))
		}
		if got != want {
			t.Errorf("goroutine %d rendered %q, want %q", i, got, want)
		}
	}
}

func TestStore_ReplaceAndClone(t *testing.T) {
	s := NewStore()
	s.Set("old", 1)
	src := map[string]any{"a": "x", "b": true}
	s.Replace(src)
	src["a"] = "changed"

	want := map[string]any{"a": "x", "b": true}
	if diff := cmp.Diff(want, s.Snapshot()); diff != "" {
		t.Errorf("store after Replace mismatch (-want +got):\n%s", diff)
	}

	c := s.Clone()
	c.Set("c", 3)
	c.Delete("a")
	if diff := cmp.Diff(want, s.Snapshot()); diff != "" {
		t.Errorf("clone changes leaked into the original (-want +got):\n%s", diff)
	}
}

func TestStore_ReplaceIsAtomicForReaders(t *testing.T) {
	s := NewStore()
	data := map[string]any{"title": "Hello", "bold": true}
	s.Replace(data)
	tree := P(Strong(If("bold"), "bold"), Span(Unless("bold"), "plain"), Data("title"))
	want := "<p><strong>bold</strong>Hello</p>"

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
				s.Replace(data)
			}
		}
	}()

	r := NewRenderer(nil, s)
	for i := 0; i < 2000; i++ {
		if got := r.String(tree.Clone()); got != want {
			t.Errorf("render %d during Replace = %q, want %q", i, got, want)
			break
		}
	}
	close(done)
	wg.Wait()
}
