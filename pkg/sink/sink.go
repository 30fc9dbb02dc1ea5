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
	"strings"

	"golang.org/x/text/cases"

	"github.com/NVIDIA/logfan/pkg/event"
)

// Sink receives events from the router. Implementations must be safe for
// concurrent use; Emit may be called from many request goroutines at once.
type Sink interface {
	// Name identifies the sink in metrics and self-log entries.
	Name() string
	// Emit hands one event to the sink's transport.
	Emit(ctx context.Context, e event.Event) error
	// Close flushes buffered events and releases resources.
	Close(ctx context.Context) error
}

// OutcomeRecorder is implemented by sinks that queue events and deliver them
// later. When RecordsOutcomes is true the sink counts each event exactly once
// as emitted, failed or dropped when it settles, and the router only counts
// the events it filters out.
type OutcomeRecorder interface {
	RecordsOutcomes() bool
}

func recordsOutcomes(s Sink) bool {
	r, ok := s.(OutcomeRecorder)
	return ok && r.RecordsOutcomes()
}

// Filter decides which events a route accepts.
type Filter struct {
	// MinSeverity is the lowest severity accepted.
	MinSeverity event.Severity `json:"minSeverity" yaml:"minSeverity"`
	// SourceContains, when set, requires the SourceContext property to
	// contain it, compared case-insensitively.
	SourceContains string `json:"sourceContains,omitempty" yaml:"sourceContains,omitempty"`
}

// Allows reports whether e passes the filter. An event without a scalar
// SourceContext fails a filter that sets SourceContains.
func (f Filter) Allows(e event.Event) bool {
	if e.Severity() < f.MinSeverity {
		return false
	}
	if f.SourceContains == "" {
		return true
	}
	src := e.SourceContext()
	if src == "" {
		return false
	}
	// Casers carry state and are not shared between goroutines.
	fold := cases.Fold()
	return strings.Contains(fold.String(src), fold.String(f.SourceContains))
}

// Route binds a sink to the filter guarding it.
type Route struct {
	Sink   Sink
	Filter Filter
}
