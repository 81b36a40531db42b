package sometimes

// Ambient is an entry of the condition list handed to a render call. It is
// either a single Condition or a nested Group of further entries.
type Ambient interface {
	ambient()
}

// Condition is a named boolean requirement. Attached to an element it states
// when the element is visible; passed to a render call it pins the value of
// the condition for the whole render.
type Condition struct {
	Key   string
	Value bool
}

func (Condition) ambient() {}

// Group is a nested list of ambient entries. A Group is evaluated against the
// same working set as its parent list and fails the evaluation as soon as any
// of its entries does.
type Group []Ambient

func (Group) ambient() {}

// If returns a Condition requiring key to be true.
func If(key string) Condition {
	return Condition{Key: key, Value: true}
}

// Unless returns a Condition requiring key to be false.
func Unless(key string) Condition {
	return Condition{Key: key, Value: false}
}

// Cond returns a Condition requiring key to equal value.
func Cond(key string, value bool) Condition {
	return Condition{Key: key, Value: value}
}

// normalizeAmbient unwraps a list whose only entry is itself a Group, so a
// flat list and a pre-wrapped list are treated the same.
func normalizeAmbient(ambient []Ambient) []Ambient {
	if len(ambient) == 1 {
		if g, ok := ambient[0].(Group); ok {
			return g
		}
	}
	return ambient
}

// consume matches ambient entries against the working set. Matching entries
// are removed from the set; a mismatch fails immediately. Keys the set does
// not name are ignored.
func consume(working map[string]bool, ambient []Ambient) bool {
	for _, a := range normalizeAmbient(ambient) {
		switch a := a.(type) {
		case Group:
			if !consume(working, a) {
				return false
			}
		case Condition:
			want, ok := working[a.Key]
			if !ok {
				continue
			}
			if want != a.Value {
				return false
			}
			delete(working, a.Key)
		}
	}
	return true
}

// conditionsMet reports whether the conditions in own hold. Ambient entries are
// consumed first; whatever remains is checked against the store, where a
// missing key counts as false.
func conditionsMet(own map[string]bool, store *Store, ambient []Ambient) bool {
	if len(own) == 0 {
		return true
	}
	working := make(map[string]bool, len(own))
	for k, v := range own {
		working[k] = v
	}
	if !consume(working, ambient) {
		return false
	}
	for key, want := range working {
		if store.Bool(key) != want {
			return false
		}
	}
	return true
}
