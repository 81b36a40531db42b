package sometimes

import (
	"fmt"
	"reflect"
	"sort"
)

const (
	// DefaultKeyVar and DefaultValueVar name the loop variables when ForEach
	// is given no names.
	DefaultKeyVar   = "_k"
	DefaultValueVar = "_v"
)

// Pair is one entry of an ordered collection.
type Pair struct {
	Key   any
	Value any
}

// ForEach iterates collection using the global store. See ForEachIn.
func ForEach(collection any, args ...any) *Node {
	return ForEachIn(globalStore, collection, args...)
}

// ForEachIn clones a body once per entry of collection and returns the clones
// inside an invisible wrapper.
//
// Plain string arguments name the loop variables: none selects (_k, _v), one
// names the value variable, two or more name the key and value variables and
// extras are ignored. All other arguments make up the body and are classified
// as in New.
//
// For each entry the loop variables are set in store, the body is cloned and
// every Data node in the clone is bound. Both variables are deleted from
// store afterwards, whatever they held before the loop.
func ForEachIn(store *Store, collection any, args ...any) *Node {
	keyVar, valueVar := DefaultKeyVar, DefaultValueVar
	var names []string
	var body []any
	for _, arg := range args {
		if name, ok := arg.(string); ok {
			names = append(names, name)
			continue
		}
		body = append(body, arg)
	}
	switch len(names) {
	case 0:
	case 1:
		valueVar = names[0]
	default:
		keyVar, valueVar = names[0], names[1]
	}

	template := Wrap(body...)
	out := Wrap()

	store.iter.Lock()
	defer store.iter.Unlock()
	for _, p := range Entries(collection) {
		store.Set(keyVar, p.Key)
		store.Set(valueVar, p.Value)
		c := template.Clone()
		c.Bind(store)
		out.children = append(out.children, c)
	}
	store.Delete(keyVar)
	store.Delete(valueVar)
	return out
}

// keyLess orders map keys of the same kind by value. Integers, floats and
// strings compare natively; other kinds fall back to their printed form.
func keyLess(a, b reflect.Value) bool {
	if a.Kind() == reflect.Interface {
		a = a.Elem()
	}
	if b.Kind() == reflect.Interface {
		b = b.Elem()
	}
	if a.Kind() == b.Kind() {
		switch a.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return a.Int() < b.Int()
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			return a.Uint() < b.Uint()
		case reflect.Float32, reflect.Float64:
			return a.Float() < b.Float()
		case reflect.String:
			return a.String() < b.String()
		}
	}
	return fmt.Sprint(valueOf(a)) < fmt.Sprint(valueOf(b))
}

func valueOf(v reflect.Value) any {
	if !v.IsValid() {
		return nil
	}
	return v.Interface()
}

// Entries lists the entries of a collection in iteration order. []Pair is
// returned as is, slices and arrays are keyed by index, and maps are ordered
// by key (see keyLess). Any other value has no entries.
func Entries(collection any) []Pair {
	if pairs, ok := collection.([]Pair); ok {
		return pairs
	}
	rv := reflect.ValueOf(collection)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]Pair, rv.Len())
		for i := range out {
			out[i] = Pair{Key: i, Value: rv.Index(i).Interface()}
		}
		return out
	case reflect.Map:
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool {
			return keyLess(keys[i], keys[j])
		})
		out := make([]Pair, len(keys))
		for i, k := range keys {
			out[i] = Pair{Key: k.Interface(), Value: rv.MapIndex(k).Interface()}
		}
		return out
	}
	return nil
}
