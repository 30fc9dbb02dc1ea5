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
	"errors"
	"log/slog"
	"slices"
)

// FailureKey is the attribute key whose error value becomes the failure
// attached to an event.
const FailureKey = "error"

// SourceContextKey names the property that identifies the component that
// emitted an event. Sink filters match against it.
const SourceContextKey = "SourceContext"

// PropertyBuilder accumulates slog attributes into Properties, nesting each
// attribute under its group path. The first top-level error-valued attribute
// with key FailureKey is captured as the event failure instead of a property.
// A PropertyBuilder is not safe for concurrent use.
type PropertyBuilder struct {
	root    node
	failure *Failure

	// nested builders render group values and never capture failures.
	nested bool
}

// node values are either Value or node.
type node map[string]any

// NewPropertyBuilder returns an empty builder.
func NewPropertyBuilder() *PropertyBuilder {
	return &PropertyBuilder{root: node{}}
}

// Add adds attrs under the given group path, outermost group first. Later
// attributes replace earlier ones with the same key. Empty groups are dropped.
func (b *PropertyBuilder) Add(groups []string, attrs ...slog.Attr) {
	b.add(groups, attrs, false)
}

// AddIfAbsent adds top-level attrs whose keys are not already present.
func (b *PropertyBuilder) AddIfAbsent(attrs ...slog.Attr) {
	b.add(nil, attrs, true)
}

func (b *PropertyBuilder) add(groups []string, attrs []slog.Attr, ifAbsent bool) {
	var n node
	for _, a := range attrs {
		a.Value = a.Value.Resolve()
		if a.Equal(slog.Attr{}) {
			continue
		}
		if a.Value.Kind() == slog.KindGroup {
			members := a.Value.Group()
			if len(members) == 0 {
				continue
			}
			if a.Key == "" {
				b.add(groups, members, ifAbsent)
				continue
			}
			b.add(append(slices.Clone(groups), a.Key), members, ifAbsent)
			continue
		}
		if a.Key == "" {
			continue
		}
		if len(groups) == 0 && b.captureFailure(a) {
			continue
		}
		if n == nil {
			n = b.path(groups)
		}
		if ifAbsent {
			if _, ok := n[a.Key]; ok {
				continue
			}
		}
		n[a.Key] = FromSlogValue(a.Value)
	}
}

func (b *PropertyBuilder) captureFailure(a slog.Attr) bool {
	if b.nested || b.failure != nil || a.Key != FailureKey || a.Value.Kind() != slog.KindAny {
		return false
	}
	err, ok := a.Value.Any().(error)
	if !ok || err == nil {
		return false
	}
	b.failure = FailureFromError(err)
	return true
}

func (b *PropertyBuilder) path(groups []string) node {
	n := b.root
	for _, g := range groups {
		child, ok := n[g].(node)
		if !ok {
			child = node{}
			n[g] = child
		}
		n = child
	}
	return n
}

// Properties returns the accumulated properties.
func (b *PropertyBuilder) Properties() Properties {
	return b.root.properties()
}

// Failure returns the captured failure, or nil.
func (b *PropertyBuilder) Failure() *Failure {
	return b.failure
}

func (n node) properties() Properties {
	p := make(Properties, len(n))
	for k, v := range n {
		switch t := v.(type) {
		case node:
			if len(t) > 0 {
				p[k] = Value{nested: t.properties(), kind: valueNested}
			}
		case Value:
			p[k] = t
		}
	}
	return p
}

// Failure describes an exceptional condition attached to a log event.
type Failure struct {
	// Summary is the human-readable failure message.
	Summary string `json:"Message"`
	// Kind is the failure category, the error's type name.
	Kind string `json:"Type"`
	// Trace is an optional multi-line diagnostic trace.
	Trace string `json:"StackTrace,omitempty"`
}

type stackTracer interface {
	StackTrace() string
}

// FailureFromError describes err. The kind is the name of err's dynamic type
// without package path or pointer; the trace is the first non-empty
// StackTrace() found along err's Unwrap chain. Returns nil for a nil error.
func FailureFromError(err error) *Failure {
	if err == nil {
		return nil
	}
	f := &Failure{
		Summary: err.Error(),
		Kind:    typeName(err),
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		if st, ok := e.(stackTracer); ok {
			if trace := st.StackTrace(); trace != "" {
				f.Trace = trace
				break
			}
		}
	}
	return f
}
