package canon

import (
	"slices"
	"testing"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		ft   FileType
		key  string
		obj  string
		want ShapeKind
	}{
		{"info wins over status", HapiResponse, "", `{"HAPI":"3.0","status":{},"parameters":[]}`, Info},
		{"status only", HapiResponse, "", `{"HAPI":"3.0","status":{}}`, HapiStatus},
		{"parameter", HapiResponse, "element of parameters", `{"type":"double","name":"x"}`, Parameter},
		{"bins centers", HapiResponse, "element of bins", `{"name":"e","centers":[1]}`, ParameterBins},
		{"bins ranges", HapiResponse, "element of bins", `{"ranges":[[0,1]],"name":"e"}`, ParameterBins},
		{"bins with type is a parameter", HapiResponse, "", `{"name":"e","type":"x","centers":[1]}`, Parameter},
		{"schema property by keys", HapiResponse, "", `{"type":"x","description":"d"}`, SchemaProperty},
		{"request status", HapiResponse, "status", `{"message":"OK","code":1200}`, RequestStatus},
		{"generic", HapiResponse, "", `{"a":1}`, GenericMap},
		{"schema anyOf", HapiSchema, "anyOf", `{"code":1,"message":"m"}`, SchemaProperty},
		{"schema definitions", HapiSchema, "definitions", `{"HAPI":{}}`, SchemaDefinitions},
		{"schema definitions without HAPI", HapiSchema, "definitions", `{"info":{}}`, SchemaNode},
		{"schema node", HapiSchema, "items", `{"HAPI":1,"parameters":2}`, SchemaNode},
		{"schema properties falls through", HapiSchema, "properties", `{"HAPI":{},"parameters":{}}`, Info},
		{"schema properties generic", HapiSchema, "properties", `{"x":{}}`, GenericMap},
		{"combined root", HapiCombinedSchema, "", `{"HAPI":1,"parameters":2}`, GenericMap},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Classify(c.ft, c.key, mustObject(t, c.obj)); got != c.want {
				t.Fatalf("got %v want %v", got, c.want)
			}
		})
	}
}

func TestOrder(t *testing.T) {
	got := order(Parameter, []string{"x", "description", "type", "y", "name"})
	want := []string{"name", "type", "description", "x", "y"}
	if !slices.Equal(got, want) { t.Fatalf("got %v want %v", got, want) }
	keys := []string{"b", "a"}
	if got := order(GenericMap, keys); !slices.Equal(got, keys) { t.Fatalf("generic reordered: %v", got) }
}

func TestPrefixTables(t *testing.T) {
	for _, s := range Shapes() {
		p := Prefix(s)
		seen := map[string]bool{}
		for _, k := range p {
			if seen[k] { t.Fatalf("%v: duplicate key %s", s, k) }
			seen[k] = true
		}
		if s == GenericMap && len(p) != 0 { t.Fatalf("generic map must have no prefix") }
		if s != GenericMap && len(p) == 0 { t.Fatalf("%v: empty prefix", s) }
		if s.String() == "unknown" { t.Fatalf("missing name for shape %d", s) }
	}
	p := Prefix(Info)
	p[0] = "mutated"
	if Prefix(Info)[0] != "$schema" { t.Fatalf("Prefix must return a copy") }
}
