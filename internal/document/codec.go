package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-json-experiment/json/jsontext"
)

const (
	CodeBadJSON = "bad_json"
	CodeBadRoot = "bad_root"
)

type Err struct {
	Code    string
	Message string
}

func (e *Err) Error() string { return e.Code + ": " + e.Message }

// Parse decodes a single JSON value from b.
func Parse(b []byte) (any, error) {
	return Decode(bytes.NewReader(b))
}

// Decode reads exactly one JSON value from r into an order-preserving tree of
// *Object, Array and Literal. Trailing non-whitespace data is an error.
func Decode(r io.Reader) (any, error) {
	dec := jsontext.NewDecoder(r)
	v, err := decodeValue(dec)
	if err != nil {
		return nil, wrapSyntax(err)
	}
	if _, err := dec.ReadToken(); err != io.EOF {
		if err == nil {
			return nil, &Err{Code: CodeBadJSON, Message: "unexpected data after top-level value"}
		}
		return nil, wrapSyntax(err)
	}
	return v, nil
}

func wrapSyntax(err error) error {
	var de *Err
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &Err{Code: CodeBadJSON, Message: "unexpected end of input"}
	}
	var se *jsontext.SyntacticError
	if errors.As(err, &se) {
		return &Err{Code: CodeBadJSON, Message: se.Error()}
	}
	return err
}

func decodeValue(dec *jsontext.Decoder) (any, error) {
	switch dec.PeekKind() {
	case '{':
		if _, err := dec.ReadToken(); err != nil {
			return nil, err
		}
		obj := NewObject()
		for dec.PeekKind() != '}' {
			raw, err := dec.ReadValue()
			if err != nil {
				return nil, err
			}
			raw = raw.Clone()
			name, err := jsontext.AppendUnquote(nil, raw)
			if err != nil {
				return nil, err
			}
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			if err := obj.add(Member{Name: string(name), Value: v, raw: raw}); err != nil {
				return nil, err
			}
		}
		if _, err := dec.ReadToken(); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		if _, err := dec.ReadToken(); err != nil {
			return nil, err
		}
		arr := Array{}
		for dec.PeekKind() != ']' {
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		if _, err := dec.ReadToken(); err != nil {
			return nil, err
		}
		return arr, nil
	default:
		v, err := dec.ReadValue()
		if err != nil {
			return nil, err
		}
		return Literal(v.Clone()), nil
	}
}

// Encode writes v to w. A non-empty indent produces one member or element per
// line, indented by depth; an empty indent produces compact output. Raw
// literals are written without re-escaping or number normalization.
func Encode(w io.Writer, v any, indent string) error {
	opts := []jsontext.Options{jsontext.PreserveRawStrings(true)}
	if indent != "" {
		opts = append(opts, jsontext.WithIndent(indent), jsontext.SpaceAfterColon(true))
	}
	enc := jsontext.NewEncoder(w, opts...)
	return encodeValue(enc, v)
}

// Marshal is Encode into a byte slice, without the trailing newline the
// encoder appends after a top-level value.
func Marshal(v any, indent string) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, v, indent); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func encodeValue(enc *jsontext.Encoder, v any) error {
	switch x := v.(type) {
	case *Object:
		if err := enc.WriteToken(jsontext.BeginObject); err != nil {
			return err
		}
		for _, m := range x.members {
			var err error
			if m.raw != nil {
				err = enc.WriteValue(m.raw)
			} else {
				err = enc.WriteToken(jsontext.String(m.Name))
			}
			if err != nil {
				return err
			}
			if err := encodeValue(enc, m.Value); err != nil {
				return err
			}
		}
		return enc.WriteToken(jsontext.EndObject)
	case Array:
		if err := enc.WriteToken(jsontext.BeginArray); err != nil {
			return err
		}
		for _, e := range x {
			if err := encodeValue(enc, e); err != nil {
				return err
			}
		}
		return enc.WriteToken(jsontext.EndArray)
	case Literal:
		return enc.WriteValue(jsontext.Value(x))
	case string:
		return enc.WriteToken(jsontext.String(x))
	case bool:
		return enc.WriteToken(jsontext.Bool(x))
	case nil:
		return enc.WriteToken(jsontext.Null)
	default:
		return fmt.Errorf("encode: unsupported value of type %T", v)
	}
}
