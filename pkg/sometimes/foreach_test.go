package sometimes

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestForEach_BindsEachIterationAndCleansUp(t *testing.T) {
	s := NewStore()
	s.Set("x", "user value")
	collection := []Pair{{Key: "a", Value: 1}, {Key: "b", Value: 2}, {Key: "c", Value: 3}}

	list := ForEachIn(s, collection, "i", "x", Li(Data("i"), ":", Data("x")))

	if s.Has("i") || s.Has("x") {
		t.Errorf("loop variables leaked into the store: %v", s.Keys())
	}
	clones := list.Children()
	if len(clones) != 3 {
		t.Fatalf("expected 3 clones, got %d", len(clones))
	}
	var values []any
	for _, c := range clones {
		li := c.(*Node).Children()[0].(*Node)
		values = append(values, li.Children()[2].(*DataNode).Value())
	}
	if diff := cmp.Diff([]any{1, 2, 3}, values); diff != "" {
		t.Errorf("bound values mismatch (-want +got):\n%s", diff)
	}
	if got := NewRenderer(nil, s).String(Ul(list)); got != "<ul><li>a:1</li><li>b:2</li><li>c:3</li></ul>" {
		t.Errorf("unexpected render: %q", got)
	}
}

func TestForEach_LoopVariableNames(t *testing.T) {
	testCases := []struct {
		name string
		args []any
		want string
	}{
		{name: "defaults", args: []any{P(Data("_k"), "=", Data("_v"))}, want: "<p>0=x</p><p>1=y</p>"},
		{name: "value only", args: []any{"item", P(Data("_k"), "=", Data("item"))}, want: "<p>0=x</p><p>1=y</p>"},
		{name: "key and value", args: []any{"n", "item", P(Data("n"), "=", Data("item"))}, want: "<p>0=x</p><p>1=y</p>"},
		{name: "extras ignored", args: []any{"n", "item", "extra", P(Data("n"), Data("extra"))}, want: "<p>0</p><p>1</p>"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewStore()
			got := NewRenderer(nil, s).String(ForEachIn(s, []string{"x", "y"}, tc.args...))
			if got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
			if s.Len() != 0 {
				t.Errorf("store not empty after loop: %v", s.Keys())
			}
		})
	}
}

func TestForEach_EmptyCollection(t *testing.T) {
	s := NewStore()
	list := ForEachIn(s, map[string]int{}, P(Data("_v")))
	if len(list.Children()) != 0 {
		t.Errorf("expected no clones, got %d", len(list.Children()))
	}
	if got := NewRenderer(nil, s).String(list); got != "" {
		t.Errorf("empty loop rendered %q", got)
	}
}

func TestForEach_TemplateConditionsAndMapOrder(t *testing.T) {
	s := NewStore()
	list := ForEachIn(s, map[string]string{"b": "2", "a": "1"}, "k", "v", If("show"), Span(Data("k"), Data("v")))
	r := NewRenderer(nil, s)
	if got := r.String(list, If("show")); got != "<span>a1</span><span>b2</span>" {
		t.Errorf("got %q", got)
	}
	if got := r.String(list); got != "" {
		t.Errorf("expected conditions from the body to hide every clone, got %q", got)
	}
}

func TestForEach_GlobalStore(t *testing.T) {
	t.Cleanup(Global().Clear)
	list := ForEach([]int{7}, "v", Em(Data("v")))
	if got := String(list); got != "<em>7</em>" {
		t.Errorf("got %q", got)
	}
	if Global().Has("v") || Global().Has(DefaultKeyVar) {
		t.Error("loop variables leaked into the global store")
	}
}

func TestEntries(t *testing.T) {
	testCases := []struct {
		name       string
		collection any
		want       []Pair
	}{
		{name: "pairs", collection: []Pair{{Key: "z", Value: 1}, {Key: "a", Value: 2}}, want: []Pair{{Key: "z", Value: 1}, {Key: "a", Value: 2}}},
		{name: "slice", collection: []string{"p", "q"}, want: []Pair{{Key: 0, Value: "p"}, {Key: 1, Value: "q"}}},
		{name: "array", collection: [1]bool{true}, want: []Pair{{Key: 0, Value: true}}},
		{name: "map", collection: map[int]string{2: "b", 1: "a"}, want: []Pair{{Key: 1, Value: "a"}, {Key: 2, Value: "b"}}},
		{name: "map with many int keys", collection: manyIntKeys(11), want: manyIntPairs(11)},
		{name: "map with uint keys", collection: map[uint8]bool{10: true, 9: false}, want: []Pair{{Key: uint8(9), Value: false}, {Key: uint8(10), Value: true}}},
		{name: "map with float keys", collection: map[float64]string{10.5: "b", 2.25: "a"}, want: []Pair{{Key: 2.25, Value: "a"}, {Key: 10.5, Value: "b"}}},
		{name: "map with string keys", collection: map[string]int{"b": 2, "a": 1, "B": 0}, want: []Pair{{Key: "B", Value: 0}, {Key: "a", Value: 1}, {Key: "b", Value: 2}}},
		{name: "map with interface keys", collection: map[any]string{10: "ten", 2: "two"}, want: []Pair{{Key: 2, Value: "two"}, {Key: 10, Value: "ten"}}},
		{name: "scalar", collection: 5, want: nil},
		{name: "nil", collection: nil, want: nil},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, Entries(tc.collection)); diff != "" {
				t.Errorf("Entries() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func manyIntKeys(n int) map[int]string {
	m := make(map[int]string, n)
	for i := 1; i <= n; i++ {
		m[i] = fmt.Sprint("v", i)
	}
	return m
}

func manyIntPairs(n int) []Pair {
	out := make([]Pair, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, Pair{Key: i, Value: fmt.Sprint("v", i)})
	}
	return out
}
