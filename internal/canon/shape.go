package canon

import (
	"slices"

	"github.com/example/hapi-sorter/internal/document"
)

// FileType is the kind of document being sorted, fixed from the root.
type FileType int

const (
	HapiResponse FileType = iota
	HapiSchema
	// HapiCombinedSchema holds every schema under one file; recognised by a
	// root-level HAPIDateTime definition.
	HapiCombinedSchema
)

func (t FileType) String() string {
	switch t {
	case HapiSchema:
		return "hapi_schema"
	case HapiCombinedSchema:
		return "hapi_combined_schema"
	default:
		return "hapi"
	}
}

// ShapeKind is the structural category of an object; it selects the
// canonical key order.
type ShapeKind int

const (
	GenericMap ShapeKind = iota
	Parameter
	ParameterBins
	Info
	SchemaProperty
	SchemaNode
	SchemaDefinitions
	RequestStatus
	HapiStatus
)

var shapeNames = [...]string{
	GenericMap:        "generic_map",
	Parameter:         "parameter",
	ParameterBins:     "parameter_bins",
	Info:              "info",
	SchemaProperty:    "schema_property",
	SchemaNode:        "schema_node",
	SchemaDefinitions: "schema_definitions",
	RequestStatus:     "request_status",
	HapiStatus:        "hapi_status",
}

func (s ShapeKind) String() string {
	if s < 0 || int(s) >= len(shapeNames) {
		return "unknown"
	}
	return shapeNames[s]
}

// Shapes lists every ShapeKind.
func Shapes() []ShapeKind {
	out := make([]ShapeKind, len(shapeNames))
	for i := range shapeNames {
		out[i] = ShapeKind(i)
	}
	return out
}

var prefixes = map[ShapeKind][]string{
	Parameter: {"name", "type", "length", "size", "units",
		"coordinateSystemName", "vectorComponents", "fill",
		"description", "label", "bins"},
	ParameterBins: {"name", "centers", "ranges", "units", "label", "description"},
	Info: {"$schema", "HAPI", "status", "format", "parameters",
		"startDate", "stopDate", "timeStampLocation", "cadence",
		"sampleStartDate", "sampleStopDate", "maxRequestDuration",
		"description", "unitsSchema", "coordinateSystemSchema",
		"resourceURL", "resourceID", "creationDate", "citation",
		"modificationDate", "contact", "contactID", "additionalMetadata"},
	SchemaProperty: {"description", "id", "title", "pattern", "type", "enum", "required", "items",
		"patternProperties", "additionalProperties",
		"minItems", "additionalItems", "uniqueItems"},
	SchemaNode: {"description", "id", "title", "pattern", "type", "required", "items",
		"patternProperties", "additionalProperties",
		"minItems", "additionalItems", "uniqueItems"},
	SchemaDefinitions: {"$schema", "HAPI", "HAPIDateTime", "HAPIStatus", "UnitsAndLabel",
		"Ref", "about", "capabilities", "catalog", "info"},
	RequestStatus: {"code", "message"},
	HapiStatus:    {"HAPI", "status"},
}

// Prefix returns the keys that lead an object of the given shape, in order.
// GenericMap has none.
func Prefix(shape ShapeKind) []string { return slices.Clone(prefixes[shape]) }

// signatures are tried in order; several can match the same object (an info
// response also carries HAPI and status) so the order is significant.
var signatures = []struct {
	all   []string
	any   []string
	shape ShapeKind
}{
	{all: []string{"HAPI", "parameters"}, shape: Info},
	{all: []string{"name", "type"}, shape: Parameter},
	{all: []string{"name"}, any: []string{"centers", "ranges"}, shape: ParameterBins},
	{all: []string{"description", "type"}, shape: SchemaProperty},
	{all: []string{"code", "message"}, shape: RequestStatus},
	{all: []string{"HAPI", "status"}, shape: HapiStatus},
}

// Classify derives the shape of obj from the file type, the key it was
// reached under in its parent, and its own member names.
func Classify(ft FileType, name string, obj *document.Object) ShapeKind {
	switch ft {
	case HapiSchema:
		switch {
		case name == "anyOf":
			return SchemaProperty
		case name == "definitions" && obj.Has("HAPI"):
			return SchemaDefinitions
		case name != "properties":
			return SchemaNode
		}
	case HapiCombinedSchema:
		return GenericMap
	}
	for _, sig := range signatures {
		if obj.HasAll(sig.all...) && (len(sig.any) == 0 || obj.HasAny(sig.any...)) {
			return sig.shape
		}
	}
	return GenericMap
}

// DetectFileType picks the file type from the root object.
func DetectFileType(root *document.Object) FileType {
	switch {
	case root.HasAny("type", "definitions"):
		return HapiSchema
	case root.Has("HAPIDateTime"):
		return HapiCombinedSchema
	default:
		return HapiResponse
	}
}
