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
	"log/slog"
	"reflect"
	"strings"
	"time"
)

// Event is a single emitted log record. Events are immutable: accessors
// return copies, and nothing in the pipeline mutates an Event after New.
type Event struct {
	severity   Severity
	template   string
	timestamp  time.Time
	properties Properties
	failure    *Failure
}

// New creates an event. The properties and failure are copied; the
// timestamp is stored in UTC.
func New(severity Severity, template string, timestamp time.Time, properties Properties, failure *Failure) Event {
	e := Event{
		severity:   severity,
		template:   template,
		timestamp:  timestamp.UTC(),
		properties: properties.Clone(),
	}
	if e.properties == nil {
		e.properties = Properties{}
	}
	if failure != nil {
		f := *failure
		e.failure = &f
	}
	return e
}

// FromRecord converts a slog record. The record's attributes are added to b
// under groups, on top of whatever b already holds. The enrich attributes are
// then added at the top level, only where no property of that name exists.
func FromRecord(r slog.Record, b *PropertyBuilder, groups []string, enrich ...slog.Attr) Event {
	attrs := make([]slog.Attr, 0, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)
		return true
	})
	b.Add(groups, attrs...)
	b.AddIfAbsent(enrich...)
	return New(SeverityFromLevel(r.Level), r.Message, r.Time, b.Properties(), b.Failure())
}

func (e Event) Severity() Severity { return e.severity }

// MessageTemplate returns the unrendered message template.
func (e Event) MessageTemplate() string { return e.template }

func (e Event) Timestamp() time.Time { return e.timestamp }

// Properties returns a copy of the event's properties.
func (e Event) Properties() Properties { return e.properties.Clone() }

// Property looks up a single property.
func (e Event) Property(name string) (Value, bool) {
	return e.properties.Get(name)
}

// Failure returns the attached failure, if any.
func (e Event) Failure() (Failure, bool) {
	if e.failure == nil {
		return Failure{}, false
	}
	return *e.failure, true
}

// RenderedMessage renders the message template against the properties.
func (e Event) RenderedMessage() string {
	return RenderTemplate(e.template, e.properties)
}

// SourceContext returns the text of the SourceContext property, or "" when
// it is absent or not a scalar.
func (e Event) SourceContext() string {
	v, ok := e.properties.Get(SourceContextKey)
	if !ok {
		return ""
	}
	s, ok := v.Scalar()
	if !ok {
		return ""
	}
	return s.Text()
}

func typeName(x any) string {
	t := reflect.TypeOf(x)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if name := t.Name(); name != "" {
		return name
	}
	s := t.String()
	if i := strings.LastIndex(s, "."); i >= 0 {
		return s[i+1:]
	}
	return s
}
