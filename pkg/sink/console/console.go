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

// Package console writes log events to a stream as JSON lines, in the same
// format the service uses for its own structured logs.
package console

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/NVIDIA/logfan/pkg/event"
	"github.com/NVIDIA/logfan/pkg/logging"
)

// Name is the sink name used in metrics and self-log entries.
const Name = "console"

// Sink writes each event as one JSON object per line.
type Sink struct {
	handler slog.Handler
}

// New returns a sink writing to w, or to os.Stdout when w is nil.
func New(w io.Writer) *Sink {
	if w == nil {
		w = os.Stdout
	}
	return &Sink{
		handler: slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:       event.LevelVerbose,
			ReplaceAttr: logging.ReplaceLevelNames,
		}),
	}
}

func (s *Sink) Name() string { return Name }

// Emit writes e with its rendered message as msg, its properties as
// top-level attributes and its failure, if any, as an "error" group.
func (s *Sink) Emit(ctx context.Context, e event.Event) error {
	r := slog.NewRecord(e.Timestamp(), e.Severity().Level(), e.RenderedMessage(), 0)
	props := e.Properties()
	for _, k := range props.Keys() {
		r.AddAttrs(slog.Any(k, props[k]))
	}
	if f, ok := e.Failure(); ok {
		attrs := []any{slog.String("message", f.Summary), slog.String("type", f.Kind)}
		if f.Trace != "" {
			attrs = append(attrs, slog.String("stackTrace", f.Trace))
		}
		r.AddAttrs(slog.Group(event.FailureKey, attrs...))
	}
	return s.handler.Handle(ctx, r)
}

// Close is a no-op; the underlying writer is owned by the caller.
func (s *Sink) Close(context.Context) error { return nil }
