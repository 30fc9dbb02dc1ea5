// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package event

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Kind identifies the dynamic type held by a Scalar.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
)

// Scalar is a primitive property value: a string, an integer, a float, a
// bool or null. The zero Scalar is null.
type Scalar struct {
	kind Kind
	s    string
	n    int64
	f    float64
	b    bool
}

func String(s string) Scalar { return Scalar{kind: KindString, s: s} }
func Int(n int64) Scalar { return Scalar{kind: KindInt, n: n} }
func Float(f float64) Scalar { return Scalar{kind: KindFloat, f: f} }
func Bool(b bool) Scalar { return Scalar{kind: KindBool, b: b} }
func Null() Scalar { return Scalar{} }

func (s Scalar) Kind() Kind { return s.kind }
func (s Scalar) IsNull() bool { return s.kind == KindNull }

// Text renders the scalar as plain text. Null renders as the empty string.
func (s Scalar) Text() string {
	switch s.kind {
	case KindString:
		return s.s
	case KindInt:
		return strconv.FormatInt(s.n, 10)
	case KindFloat:
		return strconv.FormatFloat(s.f, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(s.b)
	default:
		return ""
	}
}

// Any returns the scalar as a plain Go value (nil for null).
func (s Scalar) Any() any {
	switch s.kind {
	case KindString:
		return s.s
	case KindInt:
		return s.n
	case KindFloat:
		return s.f
	case KindBool:
		return s.b
	default:
		return nil
	}
}

// MarshalJSON encodes the scalar as its native JSON type. NaN and infinite
// floats have no JSON representation and fail.
func (s Scalar) MarshalJSON() ([]byte, error) {
	if s.kind == KindFloat && (math.IsNaN(s.f) || math.IsInf(s.f, 0)) {
		return nil, fmt.Errorf("unsupported float property value %v", s.f)
	}
	return json.Marshal(s.Any())
}

// UnmarshalJSON decodes a JSON string, number, bool or null. Integral numbers
// that fit in an int64 become KindInt; other numbers become KindFloat.
func (s *Scalar) UnmarshalJSON(b []byte) error {
	v, err := decodeJSONValue(b)
	if err != nil {
		return err
	}
	sc, ok := v.Scalar()
	if !ok {
		return fmt.Errorf("property value %s is not a scalar", string(b))
	}
	*s = sc
	return nil
}

// Value is a property value: either a Scalar or a structured value (a nested
// property map or a sequence of values).
type Value struct {
	scalar   Scalar
	nested   Properties
	sequence []Value
	kind     valueKind
}

type valueKind int

const (
	valueScalar valueKind = iota
	valueNested
	valueSequence
)

// ScalarValue wraps a scalar.
func ScalarValue(s Scalar) Value {
	return Value{scalar: s}
}

// NestedValue wraps a nested property map.
func NestedValue(p Properties) Value {
	return Value{nested: p.Clone(), kind: valueNested}
}

// SequenceValue wraps an ordered sequence of values.
func SequenceValue(vs ...Value) Value {
	return Value{sequence: append([]Value(nil), vs...), kind: valueSequence}
}

// Scalar returns the scalar held by v. ok is false for structured values.
func (v Value) Scalar() (s Scalar, ok bool) {
	if v.kind != valueScalar {
		return Scalar{}, false
	}
	return v.scalar, true
}

// IsStructured reports whether v holds a nested map or a sequence.
func (v Value) IsStructured() bool {
	return v.kind != valueScalar
}

// Nested returns the property map held by v, if it is a nested value.
func (v Value) Nested() (Properties, bool) {
	if v.kind != valueNested {
		return nil, false
	}
	return v.nested.Clone(), true
}

// Sequence returns the values held by v, if it is a sequence.
func (v Value) Sequence() ([]Value, bool) {
	if v.kind != valueSequence {
		return nil, false
	}
	return append([]Value(nil), v.sequence...), true
}

// Any converts v to plain Go values: scalars via Scalar.Any, nested values
// to map[string]any and sequences to []any.
func (v Value) Any() any {
	switch v.kind {
	case valueNested:
		m := make(map[string]any, len(v.nested))
		for k, e := range v.nested {
			m[k] = e.Any()
		}
		return m
	case valueSequence:
		out := make([]any, len(v.sequence))
		for i, e := range v.sequence {
			out[i] = e.Any()
		}
		return out
	default:
		return v.scalar.Any()
	}
}

// Text renders v for humans. Structured values render as {k: v} and [a, b]
// with map keys in sorted order.
func (v Value) Text() string {
	switch v.kind {
	case valueNested:
		keys := v.nested.Keys()
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+": "+v.nested[k].Text())
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case valueSequence:
		parts := make([]string, 0, len(v.sequence))
		for _, e := range v.sequence {
			parts = append(parts, e.Text())
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return v.scalar.Text()
	}
}

// MarshalJSON encodes scalars natively, nested maps as objects and
// sequences as arrays.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case valueNested:
		return json.Marshal(v.nested)
	case valueSequence:
		return json.Marshal(v.sequence)
	default:
		return v.scalar.MarshalJSON()
	}
}

// UnmarshalJSON is the inverse of MarshalJSON: objects become nested values
// and arrays become sequences.
func (v *Value) UnmarshalJSON(b []byte) error {
	decoded, err := decodeJSONValue(b)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}

func decodeJSONValue(b []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return Value{}, fmt.Errorf("invalid property value: %w", err)
	}
	return fromJSON(raw), nil
}

// fromJSON converts the output of a json.Decoder using UseNumber.
func fromJSON(raw any) Value {
	switch t := raw.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return ScalarValue(Int(n))
		}
		if f, err := t.Float64(); err == nil {
			return ScalarValue(Float(f))
		}
		return ScalarValue(String(t.String()))
	case map[string]any:
		p := make(Properties, len(t))
		for k, e := range t {
			p[k] = fromJSON(e)
		}
		return Value{nested: p, kind: valueNested}
	case []any:
		seq := make([]Value, len(t))
		for i, e := range t {
			seq[i] = fromJSON(e)
		}
		return Value{sequence: seq, kind: valueSequence}
	default:
		return ValueOf(t)
	}
}

// ValueOf converts an arbitrary Go value. Strings, bools and numbers become
// scalars; maps with string keys become nested values; slices and arrays
// become sequences; errors, times, durations and fmt.Stringers are rendered
// as strings. Anything else is formatted with fmt.
func ValueOf(x any) Value {
	switch t := x.(type) {
	case nil:
		return ScalarValue(Null())
	case Value:
		return t
	case Scalar:
		return ScalarValue(t)
	case string:
		return ScalarValue(String(t))
	case bool:
		return ScalarValue(Bool(t))
	case int:
		return ScalarValue(Int(int64(t)))
	case int8:
		return ScalarValue(Int(int64(t)))
	case int16:
		return ScalarValue(Int(int64(t)))
	case int32:
		return ScalarValue(Int(int64(t)))
	case int64:
		return ScalarValue(Int(t))
	case uint8:
		return ScalarValue(Int(int64(t)))
	case uint16:
		return ScalarValue(Int(int64(t)))
	case uint32:
		return ScalarValue(Int(int64(t)))
	case uint:
		return uintValue(uint64(t))
	case uint64:
		return uintValue(t)
	case float32:
		return ScalarValue(Float(float64(t)))
	case float64:
		return ScalarValue(Float(t))
	case time.Time:
		return ScalarValue(String(t.UTC().Format(time.RFC3339Nano)))
	case time.Duration:
		return ScalarValue(String(t.String()))
	case slog.Value:
		return FromSlogValue(t)
	case error:
		return ScalarValue(String(t.Error()))
	case fmt.Stringer:
		return ScalarValue(String(t.String()))
	case map[string]any:
		p := make(Properties, len(t))
		for k, e := range t {
			p[k] = ValueOf(e)
		}
		return Value{nested: p, kind: valueNested}
	}

	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		seq := make([]Value, rv.Len())
		for i := range seq {
			seq[i] = ValueOf(rv.Index(i).Interface())
		}
		return Value{sequence: seq, kind: valueSequence}
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			p := make(Properties, rv.Len())
			iter := rv.MapRange()
			for iter.Next() {
				p[iter.Key().String()] = ValueOf(iter.Value().Interface())
			}
			return Value{nested: p, kind: valueNested}
		}
	case reflect.Pointer:
		if rv.IsNil() {
			return ScalarValue(Null())
		}
	}
	return ScalarValue(String(fmt.Sprint(x)))
}

func uintValue(u uint64) Value {
	if u > math.MaxInt64 {
		return ScalarValue(String(strconv.FormatUint(u, 10)))
	}
	return ScalarValue(Int(int64(u)))
}

// FromSlogValue converts a slog value, resolving LogValuers first.
func FromSlogValue(v slog.Value) Value {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return ScalarValue(String(v.String()))
	case slog.KindInt64:
		return ScalarValue(Int(v.Int64()))
	case slog.KindUint64:
		return uintValue(v.Uint64())
	case slog.KindFloat64:
		return ScalarValue(Float(v.Float64()))
	case slog.KindBool:
		return ScalarValue(Bool(v.Bool()))
	case slog.KindDuration:
		return ScalarValue(String(v.Duration().String()))
	case slog.KindTime:
		return ScalarValue(String(v.Time().UTC().Format(time.RFC3339Nano)))
	case slog.KindGroup:
		b := &PropertyBuilder{root: node{}, nested: true}
		b.Add(nil, v.Group()...)
		return Value{nested: b.Properties(), kind: valueNested}
	default:
		return ValueOf(v.Any())
	}
}

// Properties maps property names to values.
type Properties map[string]Value

// Get looks up a property by name.
func (p Properties) Get(name string) (Value, bool) {
	v, ok := p[name]
	return v, ok
}

// Keys returns the property names in sorted order.
func (p Properties) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a shallow copy of p. Values are immutable, so a shallow copy
// is independent of the original.
func (p Properties) Clone() Properties {
	if p == nil {
		return nil
	}
	c := make(Properties, len(p))
	for k, v := range p {
		c[k] = v
	}
	return c
}
