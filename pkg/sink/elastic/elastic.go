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

// Package elastic batches log events and bulk-indexes them into
// Elasticsearch.
//
// Events are queued by Emit and written by a single background worker,
// either when a batch fills or when the flush period elapses. A failed batch
// is retried a fixed number of times and then reported to the self-log; the
// events are not kept, and Close reports how many were lost.
package elastic

import (
	"context"
	"encoding/json"
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
	"github.com/NVIDIA/logfan/pkg/sink"
)

// Name is the sink name used in metrics and self-log entries.
const Name = "elastic"

// Config configures the Elasticsearch sink.
type Config struct {
	Addresses []string
	Index     string
	Username  string
	Password  string
	APIKey    string

	// BatchSize is the most events sent in one bulk request.
	BatchSize int
	// QueueSize bounds the events waiting to be sent.
	QueueSize int
	// Period is the longest an event waits before its batch is sent.
	Period time.Duration
	// RetryAttempts is how many times a failed batch is resent.
	RetryAttempts int
	// SelfLog receives batch failures. Defaults to os.Stderr.
	SelfLog io.Writer
}

func (c *Config) applyDefaults() {
	if c.BatchSize < 1 {
		c.BatchSize = defaults.SinkBatchSize
	}
	if c.QueueSize < 1 {
		c.QueueSize = defaults.SinkQueueSize
	}
	if c.Period <= 0 {
		c.Period = defaults.SinkFlushPeriod
	}
	if c.RetryAttempts < 0 {
		c.RetryAttempts = 0
	}
	if c.SelfLog == nil {
		c.SelfLog = os.Stderr
	}
}

// Sink queues events and indexes them in batches.
type Sink struct {
	indexer Indexer
	cfg     Config
	queue   chan event.Event
	done    chan struct{}
	selfLog *slog.Logger

	failures sink.FailureTally

	mu     sync.RWMutex
	closed bool
}

// New connects to the cluster named by cfg and starts the batching worker.
func New(cfg Config) (*Sink, error) {
	if len(cfg.Addresses) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "elasticsearch addresses are required")
	}
	if cfg.Index == "" {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "elasticsearch index is required")
	}
	ix, err := NewClientIndexer(cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid elasticsearch configuration", err)
	}
	return NewWithIndexer(ix, cfg), nil
}

// NewWithIndexer starts a batching sink over an existing indexer.
func NewWithIndexer(ix Indexer, cfg Config) *Sink {
	cfg.applyDefaults()
	s := &Sink{
		indexer: ix,
		cfg:     cfg,
		queue:   make(chan event.Event, cfg.QueueSize),
		done:    make(chan struct{}),
		selfLog: slog.New(slog.NewJSONHandler(cfg.SelfLog, &slog.HandlerOptions{
			ReplaceAttr: logging.ReplaceLevelNames,
		})).With("module", "logfan-selflog", "sink", Name),
	}
	go s.run()
	return s
}

func (s *Sink) Name() string { return Name }

// RecordsOutcomes implements sink.OutcomeRecorder: events are counted when
// their batch is indexed or given up on.
func (s *Sink) RecordsOutcomes() bool { return true }

// Emit queues e without blocking. A full queue drops the event.
func (s *Sink) Emit(_ context.Context, e event.Event) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		sink.RecordOutcome(Name, sink.OutcomeDropped)
		return errors.New(errors.ErrCodeUnavailable, "elasticsearch sink is closed")
	}
	select {
	case s.queue <- e:
		sink.SetQueueDepth(Name, len(s.queue))
		return nil
	default:
		sink.RecordOutcome(Name, sink.OutcomeDropped)
		return errors.New(errors.ErrCodeUnavailable, "elasticsearch sink queue is full")
	}
}

func (s *Sink) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.cfg.Period)
	defer ticker.Stop()

	batch := make([]event.Event, 0, s.cfg.BatchSize)
	for {
		select {
		case e, ok := <-s.queue:
			if !ok {
				s.flush(batch)
				return
			}
			batch = append(batch, e)
			if len(batch) >= s.cfg.BatchSize {
				s.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				s.flush(batch)
				batch = batch[:0]
			}
		}
		sink.SetQueueDepth(Name, len(s.queue))
	}
}

func (s *Sink) flush(batch []event.Event) {
	if len(batch) == 0 {
		return
	}

	docs := make([]json.RawMessage, 0, len(batch))
	for _, e := range batch {
		b, err := json.Marshal(sink.NewDocument(e))
		if err != nil {
			sink.RecordOutcome(Name, sink.OutcomeFailed)
			s.failures.Add(1, err)
			s.selfLog.Error("failed to encode event", "template", e.MessageTemplate(), "error", err)
			continue
		}
		docs = append(docs, b)
	}
	if len(docs) == 0 {
		return
	}

	var err error
	for attempt := 0; attempt <= s.cfg.RetryAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), defaults.SinkEmitTimeout)
		err = s.indexer.BulkIndex(ctx, s.cfg.Index, docs)
		cancel()
		if err == nil {
			for range docs {
				sink.RecordOutcome(Name, sink.OutcomeEmitted)
			}
			return
		}
		s.selfLog.Warn("bulk index attempt failed",
			"attempt", attempt+1,
			"documents", len(docs),
			"error", err,
		)
	}

	for range docs {
		sink.RecordOutcome(Name, sink.OutcomeFailed)
	}
	s.failures.Add(len(docs), err)
	s.selfLog.Error("dropping batch after failed bulk index",
		"documents", len(docs),
		"error", err,
	)
}

// Close stops accepting events and waits, within ctx, for queued events to
// be sent. Events lost to failed batches are reported as an ErrCodeDelivery
// error.
func (s *Sink) Close(ctx context.Context) error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.queue)
	}
	s.mu.Unlock()

	select {
	case <-s.done:
		return s.failures.Err(Name)
	case <-ctx.Done():
		return errors.Wrap(errors.ErrCodeTimeout,
			fmt.Sprintf("%s sink did not flush before shutdown", Name), ctx.Err())
	}
}
