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

package logging

import (
	"context"
	"log/slog"

	"github.com/NVIDIA/logfan/pkg/event"
)

// See the comments for context.Context.Value.
type contextKey int

const propertiesKey contextKey = 1

// propertyFrame is one pushed property, linked to the frames pushed before it.
type propertyFrame struct {
	attr   slog.Attr
	parent *propertyFrame
}

// WithProperty returns a context that carries an additional log property.
// Handlers that enrich from the context add it to every record logged with
// the returned context (or a context derived from it). A property pushed
// later shadows an earlier one with the same name.
func WithProperty(ctx context.Context, name string, value any) context.Context {
	parent, _ := ctx.Value(propertiesKey).(*propertyFrame)
	return context.WithValue(ctx, propertiesKey, &propertyFrame{
		attr:   slog.Any(name, value),
		parent: parent,
	})
}

// PropertiesFromContext returns the properties pushed onto ctx, innermost
// first, without shadowed duplicates.
func PropertiesFromContext(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	f, _ := ctx.Value(propertiesKey).(*propertyFrame)
	var attrs []slog.Attr
	seen := map[string]bool{}
	for ; f != nil; f = f.parent {
		if seen[f.attr.Key] {
			continue
		}
		seen[f.attr.Key] = true
		attrs = append(attrs, f.attr)
	}
	return attrs
}

// ForSource returns a logger whose records carry the SourceContext property,
// which sink filters use to select records by emitting component.
func ForSource(l *slog.Logger, source string) *slog.Logger {
	return l.With(slog.String(event.SourceContextKey, source))
}
