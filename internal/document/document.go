package document

import (
	"fmt"
	"slices"

	"github.com/go-json-experiment/json/jsontext"
)

// Object is a JSON object whose members keep the order they were read in.
type Object struct {
	members []Member
	index   map[string]int
}

// Member is a single name/value pair of an Object.
type Member struct {
	Name  string
	Value any
	// raw is the name exactly as it appeared in the source, escapes included.
	raw jsontext.Value
}

// Array is a JSON array.
type Array []any

// Literal is a scalar JSON value (string, number, true, false or null) kept
// byte-for-byte as it was read so numbers and escapes round-trip unchanged.
type Literal jsontext.Value

func NewObject() *Object {
	return &Object{index: map[string]int{}}
}

func (o *Object) Len() int { return len(o.members) }

func (o *Object) Has(name string) bool {
	_, ok := o.index[name]
	return ok
}

// HasAll reports whether every one of names is a member.
func (o *Object) HasAll(names ...string) bool {
	for _, n := range names {
		if !o.Has(n) {
			return false
		}
	}
	return true
}

// HasAny reports whether at least one of names is a member.
func (o *Object) HasAny(names ...string) bool {
	for _, n := range names {
		if o.Has(n) {
			return true
		}
	}
	return false
}

func (o *Object) Get(name string) (any, bool) {
	i, ok := o.index[name]
	if !ok {
		return nil, false
	}
	return o.members[i].Value, true
}

// Set replaces the value of an existing member in place or appends a new one.
func (o *Object) Set(name string, v any) {
	if i, ok := o.index[name]; ok {
		o.members[i].Value = v
		return
	}
	o.index[name] = len(o.members)
	o.members = append(o.members, Member{Name: name, Value: v})
}

func (o *Object) add(m Member) error {
	if _, ok := o.index[m.Name]; ok {
		return &Err{Code: CodeBadJSON, Message: fmt.Sprintf("duplicate object member %q", m.Name)}
	}
	o.index[m.Name] = len(o.members)
	o.members = append(o.members, m)
	return nil
}

// Keys returns the member names in their current order.
func (o *Object) Keys() []string {
	out := make([]string, len(o.members))
	for i, m := range o.members {
		out[i] = m.Name
	}
	return out
}

// Members returns a copy of the members in their current order.
func (o *Object) Members() []Member { return slices.Clone(o.members) }

// Clone returns a shallow copy: member values are shared with o.
func (o *Object) Clone() *Object {
	c := &Object{members: slices.Clone(o.members), index: make(map[string]int, len(o.index))}
	for k, v := range o.index {
		c.index[k] = v
	}
	return c
}

// Reordered returns a new object holding the same members as o in the order
// given by names. names must be a permutation of o.Keys().
func (o *Object) Reordered(names []string) (*Object, error) {
	if len(names) != len(o.members) {
		return nil, fmt.Errorf("reorder: got %d names for %d members", len(names), len(o.members))
	}
	out := &Object{members: make([]Member, 0, len(names)), index: make(map[string]int, len(names))}
	for _, n := range names {
		i, ok := o.index[n]
		if !ok {
			return nil, fmt.Errorf("reorder: unknown member %q", n)
		}
		if err := out.add(o.members[i]); err != nil {
			return nil, fmt.Errorf("reorder: %w", err)
		}
	}
	return out, nil
}

func (l Literal) Kind() jsontext.Kind { return jsontext.Value(l).Kind() }

func (l Literal) String() string { return string(l) }

// Equal reports whether a and b hold the same JSON value, ignoring the order
// of object members. Literals compare by their raw bytes.
func Equal(a, b any) bool {
	switch x := a.(type) {
	case *Object:
		y, ok := b.(*Object)
		if !ok || x.Len() != y.Len() {
			return false
		}
		for _, m := range x.members {
			v, ok := y.Get(m.Name)
			if !ok || !Equal(m.Value, v) {
				return false
			}
		}
		return true
	case Array:
		y, ok := b.(Array)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case Literal:
		y, ok := b.(Literal)
		return ok && string(x) == string(y)
	default:
		return a == b
	}
}
