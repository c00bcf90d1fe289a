package onboarding

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// Field is one key/value pair of Data.
type Field struct {
	Key   string
	Value any
}

// Data is a free-form JSON object that keeps its keys in arrival order.
//
// Values are string, json.Number, bool, nil, Data, []any or, when built in
// code, any value encoding/json can marshal.
type Data struct {
	fields []Field
}

// NewData builds Data from fields, in order. A repeated key overwrites the
// earlier value but keeps its position.
func NewData(fields ...Field) Data {
	var d Data
	for _, f := range fields {
		d.Set(f.Key, f.Value)
	}
	return d
}

func (d *Data) Set(key string, value any) {
	for i := range d.fields {
		if d.fields[i].Key == key {
			d.fields[i].Value = value
			return
		}
	}
	d.fields = append(d.fields, Field{Key: key, Value: value})
}

func (d Data) Get(key string) (any, bool) {
	for _, f := range d.fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

func (d Data) Len() int {
	return len(d.fields)
}

// Fields returns a copy of the pairs in order.
func (d Data) Fields() []Field {
	out := make([]Field, len(d.fields))
	copy(out, d.fields)
	return out
}

// String is the textual form used in prompts: compact JSON, keys in order,
// no HTML escaping.
func (d Data) String() string {
	b, err := d.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("%v", d.fields)
	}
	return string(b)
}

func (d Data) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range d.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeValue(&buf, f.Key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeValue(&buf, f.Value); err != nil {
			return nil, fmt.Errorf("onboarding: field %q: %w", f.Key, err)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeValue(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	// Encode always terminates with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}

func (d *Data) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		return nil
	}
	v, err := Decode(b)
	if err != nil {
		return err
	}
	obj, ok := v.(Data)
	if !ok {
		return fmt.Errorf("onboarding: expected JSON object, got %T", v)
	}
	*d = obj
	return nil
}

// ErrTrailingData is returned by Decode when input continues after the first
// JSON value.
var ErrTrailingData = errors.New("onboarding: trailing data after JSON value")

// Decode parses one JSON value. Objects become Data, arrays []any and numbers
// json.Number.
func Decode(b []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, ErrTrailingData
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		var d Data
		for dec.More() {
			kt, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := kt.(string)
			if !ok {
				return nil, fmt.Errorf("onboarding: unexpected object key %v", kt)
			}
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			d.Set(key, v)
		}
		if err := closing(dec, '}'); err != nil {
			return nil, err
		}
		return d, nil

	case '[':
		arr := []any{}
		for dec.More() {
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		if err := closing(dec, ']'); err != nil {
			return nil, err
		}
		return arr, nil
	}

	return nil, fmt.Errorf("onboarding: unexpected delimiter %q", delim)
}

func closing(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return io.ErrUnexpectedEOF
		}
		return err
	}
	if tok != want {
		return fmt.Errorf("onboarding: expected %q, got %v", want, tok)
	}
	return nil
}

// Text is the textual form of any decoded payload value: Data renders via
// String, everything else as compact JSON.
func Text(v any) string {
	if d, ok := v.(Data); ok {
		return d.String()
	}
	var buf bytes.Buffer
	if err := writeValue(&buf, v); err != nil {
		return fmt.Sprintf("%v", v)
	}
	return buf.String()
}

// Truthy reports whether v counts as a present value: null, false, zero,
// empty strings, empty objects and empty arrays do not.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case json.Number:
		f, err := strconv.ParseFloat(t.String(), 64)
		return err != nil || f != 0
	case Data:
		return t.Len() > 0
	case []any:
		return len(t) > 0
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0
	}
	return true
}
