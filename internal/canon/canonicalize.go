package canon

import (
	"fmt"
	"slices"

	"github.com/example/hapi-sorter/internal/document"
)

// Stats summarises a single walk.
type Stats struct {
	Objects   int
	Reordered int
	MaxDepth  int
	Shapes    map[ShapeKind]int
}

// Canonicalizer reorders object keys into canonical order. The input tree is
// never modified: objects whose subtree changed are copied. A Canonicalizer
// accumulates Stats and is not safe for concurrent use.
type Canonicalizer struct {
	// Trace, when set, is called once per object after it has been classified.
	Trace func(shape ShapeKind, name string, depth int)

	stats Stats
}

func New() *Canonicalizer {
	return &Canonicalizer{stats: Stats{Shapes: map[ShapeKind]int{}}}
}

// Canonicalize sorts a whole document with a fresh Canonicalizer.
func Canonicalize(root any) (any, FileType, error) {
	return New().Document(root)
}

func (c *Canonicalizer) Stats() Stats {
	s := c.stats
	s.Shapes = make(map[ShapeKind]int, len(c.stats.Shapes))
	for k, v := range c.stats.Shapes {
		s.Shapes[k] = v
	}
	return s
}

// Document detects the file type of root and sorts it. root must be an object.
func (c *Canonicalizer) Document(root any) (any, FileType, error) {
	obj, ok := root.(*document.Object)
	if !ok {
		return nil, HapiResponse, &document.Err{Code: document.CodeBadRoot, Message: fmt.Sprintf("top-level value must be an object, got %s", kindOf(root))}
	}
	ft := DetectFileType(obj)
	return c.Object(ft, "", obj, 0), ft, nil
}

// Object sorts obj, reached under key name at the given depth, children first.
func (c *Canonicalizer) Object(ft FileType, name string, obj *document.Object, depth int) *document.Object {
	shape := Classify(ft, name, obj)
	childType := ft
	if childType == HapiCombinedSchema {
		childType = HapiSchema
	}

	out := obj
	for _, m := range obj.Members() {
		v, changed := c.value(childType, m.Name, m.Value, depth)
		if !changed {
			continue
		}
		if out == obj {
			out = obj.Clone()
		}
		out.Set(m.Name, v)
	}

	if shape == GenericMap {
		shape = Classify(ft, name, out)
	}
	c.record(shape, name, depth)

	keys := out.Keys()
	sorted := order(shape, keys)
	if slices.Equal(sorted, keys) {
		return out
	}
	reordered, err := out.Reordered(sorted)
	if err != nil {
		// order only ever permutes the existing keys
		panic(err)
	}
	c.stats.Reordered++
	return reordered
}

func (c *Canonicalizer) value(ft FileType, name string, v any, depth int) (any, bool) {
	switch x := v.(type) {
	case *document.Object:
		sorted := c.Object(ft, name, x, depth+1)
		return sorted, sorted != x
	case document.Array:
		var out document.Array
		for i, e := range x {
			child, ok := e.(*document.Object)
			if !ok {
				continue
			}
			sorted := c.Object(ft, "element of "+name, child, depth+1)
			if sorted == child {
				continue
			}
			if out == nil {
				out = slices.Clone(x)
			}
			out[i] = sorted
		}
		if out == nil {
			return x, false
		}
		return out, true
	default:
		return v, false
	}
}

func (c *Canonicalizer) record(shape ShapeKind, name string, depth int) {
	c.stats.Objects++
	c.stats.Shapes[shape]++
	if depth > c.stats.MaxDepth {
		c.stats.MaxDepth = depth
	}
	if c.Trace != nil {
		c.Trace(shape, name, depth)
	}
}

// order moves the shape's prefix keys that are present to the front, in
// table order, and keeps every other key in its original relative order.
func order(shape ShapeKind, keys []string) []string {
	prefix := prefixes[shape]
	if len(prefix) == 0 {
		return keys
	}
	out := make([]string, 0, len(keys))
	taken := make(map[string]bool, len(prefix))
	for _, p := range prefix {
		if slices.Contains(keys, p) {
			out = append(out, p)
			taken[p] = true
		}
	}
	for _, k := range keys {
		if !taken[k] {
			out = append(out, k)
		}
	}
	return out
}

func kindOf(v any) string {
	switch x := v.(type) {
	case document.Array:
		return "array"
	case document.Literal:
		switch x.Kind() {
		case '"':
			return "string"
		case '0':
			return "number"
		case 't', 'f':
			return "boolean"
		case 'n':
			return "null"
		}
	}
	return fmt.Sprintf("%T", v)
}
