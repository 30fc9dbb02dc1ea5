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
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/NVIDIA/logfan/pkg/defaults"
	"github.com/NVIDIA/logfan/pkg/errors"
	"github.com/NVIDIA/logfan/pkg/event"
	"github.com/NVIDIA/logfan/pkg/logging"
)

// Async wraps a sink with a bounded queue drained by a single worker, so
// callers never wait on the wrapped sink's transport. When the queue is full
// new events are dropped and counted. Async records its own outcomes: an
// event counts as emitted or failed once the worker has delivered it.
type Async struct {
	sink        Sink
	queue       chan event.Event
	done        chan struct{}
	emitTimeout time.Duration
	selfLog     *slog.Logger

	failures FailureTally

	mu     sync.RWMutex
	closed bool
}

// AsyncOption configures an Async sink.
type AsyncOption func(*Async)

// WithEmitTimeout bounds each delivery by the wrapped sink.
func WithEmitTimeout(d time.Duration) AsyncOption {
	return func(a *Async) {
		if d > 0 {
			a.emitTimeout = d
		}
	}
}

// WithAsyncSelfLog sets where background delivery failures are reported.
func WithAsyncSelfLog(w io.Writer) AsyncOption {
	return func(a *Async) {
		a.selfLog = slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
			ReplaceAttr: logging.ReplaceLevelNames,
		})).With("module", "logfan-selflog")
	}
}

// NewAsync starts a worker that delivers queued events to s. A queueSize
// below one uses defaults.SinkQueueSize.
func NewAsync(s Sink, queueSize int, opts ...AsyncOption) *Async {
	if queueSize < 1 {
		queueSize = defaults.SinkQueueSize
	}
	a := &Async{
		sink:        s,
		queue:       make(chan event.Event, queueSize),
		done:        make(chan struct{}),
		emitTimeout: defaults.SinkEmitTimeout,
	}
	WithAsyncSelfLog(os.Stderr)(a)
	for _, opt := range opts {
		opt(a)
	}
	go a.run()
	return a
}

// Name returns the wrapped sink's name.
func (a *Async) Name() string { return a.sink.Name() }

// RecordsOutcomes implements OutcomeRecorder.
func (a *Async) RecordsOutcomes() bool { return true }

// Emit queues e. It does not block; a full queue drops the event and
// returns an ErrCodeUnavailable error.
func (a *Async) Emit(_ context.Context, e event.Event) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		RecordOutcome(a.Name(), OutcomeDropped)
		return errors.New(errors.ErrCodeUnavailable, fmt.Sprintf("sink %s is closed", a.Name()))
	}
	select {
	case a.queue <- e:
		SetQueueDepth(a.Name(), len(a.queue))
		return nil
	default:
		RecordOutcome(a.Name(), OutcomeDropped)
		return errors.New(errors.ErrCodeUnavailable, fmt.Sprintf("sink %s queue is full", a.Name()))
	}
}

func (a *Async) run() {
	defer close(a.done)
	for e := range a.queue {
		SetQueueDepth(a.Name(), len(a.queue))
		ctx, cancel := context.WithTimeout(context.Background(), a.emitTimeout)
		err := a.sink.Emit(ctx, e)
		cancel()
		if err != nil {
			RecordOutcome(a.Name(), OutcomeFailed)
			a.failures.Add(1, err)
			a.selfLog.Error("background delivery failed",
				"sink", a.Name(),
				"severity", e.Severity().String(),
				"error", err,
			)
			continue
		}
		RecordOutcome(a.Name(), OutcomeEmitted)
	}
}

// Close stops accepting events, waits for the queue to drain within ctx and
// then closes the wrapped sink. Events that failed background delivery are
// reported as one ErrCodeDelivery error joined with the close error.
func (a *Async) Close(ctx context.Context) error {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.queue)
	}
	a.mu.Unlock()

	select {
	case <-a.done:
	case <-ctx.Done():
		return errors.Wrap(errors.ErrCodeTimeout,
			fmt.Sprintf("sink %s did not drain before shutdown", a.Name()), ctx.Err())
	}
	return stderrors.Join(a.failures.Err(a.Name()), a.sink.Close(ctx))
}
