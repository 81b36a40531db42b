package sometimes

import (
	"reflect"
	"sort"
	"sync"
)

// Store maps variable names to arbitrary values. It is the truth source for
// conditions a render call does not pin and the value source for Data nodes.
// All methods are concurrent-safe.
type Store struct {
	mu      sync.RWMutex
	entries map[string]any

	// iter serializes ForEach runs, which set, bind and delete loop variables
	// as one sequence.
	iter sync.Mutex
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{entries: make(map[string]any)}
}

var globalStore = NewStore()

// Global returns the process-wide Store used by Render, String, ForEach and
// the package-level Get, Set and Delete.
func Global() *Store {
	return globalStore
}

// Get returns the value for key in the global store, or nil.
func Get(key string) any {
	return globalStore.Get(key)
}

// Set stores value under key in the global store.
func Set(key string, value any) {
	globalStore.Set(key, value)
}

// Delete removes key from the global store.
func Delete(key string) {
	globalStore.Delete(key)
}

// Get returns the value stored under key, or nil if there is none.
func (s *Store) Get(key string) any {
	v, _ := s.Lookup(key)
	return v
}

// Lookup returns the value stored under key and whether it was present.
func (s *Store) Lookup(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.entries[key]
	return v, ok
}

// Has reports whether key is present.
func (s *Store) Has(key string) bool {
	_, ok := s.Lookup(key)
	return ok
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
}

// Delete removes key. Deleting a missing key is a no-op.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// Bool returns the truthiness of the value stored under key. A missing key
// is false.
func (s *Store) Bool(key string) bool {
	return Truthy(s.Get(key))
}

// Keys returns the stored keys in sorted order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of stored keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Snapshot returns a shallow copy of the stored entries.
func (s *Store) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]any, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out
}

// Replace swaps the whole entry set for a copy of entries in one step, so
// readers see either the old set or the new one. It waits for running
// ForEach calls to finish.
func (s *Store) Replace(entries map[string]any) {
	next := make(map[string]any, len(entries))
	for k, v := range entries {
		next[k] = v
	}
	s.iter.Lock()
	defer s.iter.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = next
}

// Clone returns an independent store holding a shallow copy of the entries.
func (s *Store) Clone() *Store {
	return &Store{entries: s.Snapshot()}
}

// Clear removes every entry.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]any)
}

// Truthy coerces an arbitrary value to a boolean. nil, false, numeric zero,
// the strings "" and "0", and empty slices, maps and arrays are false.
// Everything else is true.
func Truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != "" && v != "0"
	case Raw:
		return v != "" && v != "0"
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() != 0
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	case reflect.String:
		s := rv.String()
		return s != "" && s != "0"
	case reflect.Bool:
		return rv.Bool()
	}
	return true
}
