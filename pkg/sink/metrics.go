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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for the sink events counter.
const (
	OutcomeEmitted  = "emitted"
	OutcomeFailed   = "failed"
	OutcomeDropped  = "dropped"
	OutcomeFiltered = "filtered"
)

var (
	sinkEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logfan_sink_events_total",
			Help: "Total number of log events offered to sinks, by outcome",
		},
		[]string{"sink", "outcome"},
	)

	sinkQueueDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "logfan_sink_queue_depth",
			Help: "Current number of events waiting in a sink queue",
		},
		[]string{"sink"},
	)
)

// RecordOutcome counts one event for the named sink. Sinks that deliver in
// the background use it to report drops and late failures.
func RecordOutcome(sink, outcome string) {
	sinkEvents.WithLabelValues(sink, outcome).Inc()
}

// SetQueueDepth reports the number of events buffered by the named sink.
func SetQueueDepth(sink string, depth int) {
	sinkQueueDepth.WithLabelValues(sink).Set(float64(depth))
}
