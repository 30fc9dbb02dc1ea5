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

// Package sink fans log records out to independent destinations.
//
// A Router is a slog.Handler. It converts each record into an event.Event
// once, adds the properties carried by the context (see
// logging.WithProperty) and offers the event to every Route whose Filter
// accepts it:
//
//	router := sink.NewRouter([]sink.Route{
//	    {Sink: console.New(os.Stdout), Filter: sink.Filter{MinSeverity: event.Debug}},
//	    {Sink: sink.NewAsync(webhook, 0), Filter: sink.Filter{MinSeverity: event.Fatal}},
//	})
//	logger := slog.New(router)
//
// A failing sink does not stop delivery to the others. Its error is written
// to the router's self-log (stderr unless WithSelfLog is given) and returned
// from Handle joined with any other failures.
//
// Async decouples a slow sink from the logging call with a bounded queue.
// Events that do not fit are dropped and counted.
//
// # Metrics
//
//   - logfan_sink_events_total{sink,outcome}: outcome is emitted, failed,
//     dropped or filtered.
//   - logfan_sink_queue_depth{sink}: events waiting in a sink queue.
package sink
