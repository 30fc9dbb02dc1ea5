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

package sink

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/NVIDIA/logfan/pkg/event"
	"github.com/NVIDIA/logfan/pkg/logging"
)

// Router is a slog.Handler that converts each record into an event.Event
// once and offers it to every route whose filter accepts it. It is safe for
// concurrent use.
type Router struct {
	routes  []Route
	selfLog *slog.Logger

	attrs  []groupedAttrs
	groups []string
}

// groupedAttrs are attributes from WithAttrs together with the group path
// that was open when they were added.
type groupedAttrs struct {
	groups []string
	attrs  []slog.Attr
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithSelfLog sets the writer that receives the router's own diagnostics,
// such as sink emission failures. Defaults to os.Stderr.
func WithSelfLog(w io.Writer) RouterOption {
	return func(r *Router) {
		r.selfLog = slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
			ReplaceAttr: logging.ReplaceLevelNames,
		})).With("module", "logfan-selflog")
	}
}

// NewRouter returns a router over routes. Routes with a nil sink are skipped.
func NewRouter(routes []Route, opts ...RouterOption) *Router {
	r := &Router{}
	for _, rt := range routes {
		if rt.Sink != nil {
			r.routes = append(r.routes, rt)
		}
	}
	WithSelfLog(os.Stderr)(r)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Routes returns a copy of the router's routes.
func (h *Router) Routes() []Route {
	return slices.Clone(h.routes)
}

// Enabled reports whether any route accepts records at level l.
func (h *Router) Enabled(_ context.Context, l slog.Level) bool {
	sev := event.SeverityFromLevel(l)
	for _, rt := range h.routes {
		if sev >= rt.Filter.MinSeverity {
			return true
		}
	}
	return false
}

// Handle converts r and emits it to every accepting route. Properties pushed
// with logging.WithProperty are added where the record does not already
// carry a property of the same name. Sink errors are reported to the
// self-log and returned joined.
func (h *Router) Handle(ctx context.Context, r slog.Record) error {
	b := event.NewPropertyBuilder()
	for _, ga := range h.attrs {
		b.Add(ga.groups, ga.attrs...)
	}
	e := event.FromRecord(r, b, h.groups, logging.PropertiesFromContext(ctx)...)
	return h.Emit(ctx, e)
}

// Emit offers an already built event to every accepting route. Each event
// is counted once per route: filtered, or else emitted or failed unless the
// sink records its own outcomes.
func (h *Router) Emit(ctx context.Context, e event.Event) error {
	var errs []error
	for _, rt := range h.routes {
		name := rt.Sink.Name()
		if !rt.Filter.Allows(e) {
			RecordOutcome(name, OutcomeFiltered)
			continue
		}
		counted := recordsOutcomes(rt.Sink)
		if err := rt.Sink.Emit(ctx, e); err != nil {
			if !counted {
				RecordOutcome(name, OutcomeFailed)
			}
			h.selfLog.Error("failed to emit event",
				"sink", name,
				"severity", e.Severity().String(),
				"error", err,
			)
			errs = append(errs, err)
			continue
		}
		if !counted {
			RecordOutcome(name, OutcomeEmitted)
		}
	}
	return stderrors.Join(errs...)
}

// WithAttrs implements slog.Handler.
func (h *Router) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	r := h.clone()
	r.attrs = append(r.attrs, groupedAttrs{
		groups: slices.Clone(h.groups),
		attrs:  slices.Clone(attrs),
	})
	return r
}

// WithGroup implements slog.Handler.
func (h *Router) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	r := h.clone()
	r.groups = append(r.groups, name)
	return r
}

func (h *Router) clone() *Router {
	r := *h
	r.attrs = slices.Clone(h.attrs)
	r.groups = slices.Clone(h.groups)
	return &r
}

// Close closes every sink, collecting their errors.
func (h *Router) Close(ctx context.Context) error {
	var errs []error
	for _, rt := range h.routes {
		if err := rt.Sink.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}
