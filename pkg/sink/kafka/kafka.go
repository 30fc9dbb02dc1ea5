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

// Package kafka publishes log events as JSON documents to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/NVIDIA/logfan/pkg/errors"
	"github.com/NVIDIA/logfan/pkg/event"
	"github.com/NVIDIA/logfan/pkg/logging"
	"github.com/NVIDIA/logfan/pkg/sink"
)

// Name is the sink name used in metrics and self-log entries.
const Name = "kafka"

// KeyProperty is the event property used as the message key, so events of
// one session land on one partition in order.
const KeyProperty = "SessionId"

const (
	defaultBatchTimeout = 100 * time.Millisecond
	defaultWriteTimeout = 5 * time.Second
)

// Config configures the Kafka sink.
type Config struct {
	Brokers []string
	Topic   string
	// RequiredAcks is "none", "one" or "all". Defaults to "one".
	RequiredAcks string
	// Async makes Emit return once the message is buffered rather than
	// acknowledged. Delivery failures are then reported to SelfLog and
	// returned from Close.
	Async        bool
	BatchTimeout time.Duration
	WriteTimeout time.Duration
	// SelfLog receives writer errors. Defaults to os.Stderr.
	SelfLog io.Writer
}

// MessageWriter is the subset of *kafka.Writer the sink uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Sink writes one message per event.
type Sink struct {
	writer MessageWriter
	topic  string

	async    bool
	failures sink.FailureTally
}

// New validates cfg and returns a sink with its own writer.
func New(cfg Config) (*Sink, error) {
	if len(cfg.Brokers) == 0 || cfg.Topic == "" {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "kafka brokers and topic are required")
	}

	var requiredAcks kafka.RequiredAcks
	switch cfg.RequiredAcks {
	case "none":
		requiredAcks = kafka.RequireNone
	case "all":
		requiredAcks = kafka.RequireAll
	case "", "one":
		requiredAcks = kafka.RequireOne
	default:
		return nil, errors.New(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("kafka requiredAcks must be none, one or all, got %q", cfg.RequiredAcks))
	}

	batchTimeout := cfg.BatchTimeout
	if batchTimeout <= 0 {
		batchTimeout = defaultBatchTimeout
	}
	writeTimeout := cfg.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = defaultWriteTimeout
	}

	selfLogOut := cfg.SelfLog
	if selfLogOut == nil {
		selfLogOut = os.Stderr
	}
	selfLog := slog.New(slog.NewJSONHandler(selfLogOut, &slog.HandlerOptions{
		ReplaceAttr: logging.ReplaceLevelNames,
	})).With("module", "logfan-selflog", "sink", Name)

	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: batchTimeout,
		WriteTimeout: writeTimeout,
		RequiredAcks: requiredAcks,
		Async:        cfg.Async,
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
			selfLog.Error(fmt.Sprintf(msg, args...))
		}),
	}
	s := NewWithWriter(w, cfg.Topic)
	if cfg.Async {
		s.async = true
		w.Completion = func(msgs []kafka.Message, err error) {
			s.complete(len(msgs), err)
			if err != nil {
				selfLog.Error("async kafka write failed", "messages", len(msgs), "error", err)
			}
		}
	}
	return s, nil
}

// NewWithWriter returns a sink over an existing writer.
func NewWithWriter(w MessageWriter, topic string) *Sink {
	return &Sink{writer: w, topic: topic}
}

func (s *Sink) Name() string { return Name }

// RecordsOutcomes implements sink.OutcomeRecorder. In async mode messages
// are counted when the writer reports their completion.
func (s *Sink) RecordsOutcomes() bool { return s.async }

// complete accounts for n messages whose asynchronous write finished with err.
func (s *Sink) complete(n int, err error) {
	outcome := sink.OutcomeEmitted
	if err != nil {
		outcome = sink.OutcomeFailed
		s.failures.Add(n, err)
	}
	for range n {
		sink.RecordOutcome(Name, outcome)
	}
}

// Emit encodes e as a sink.Document and writes it, keyed by the event's
// SessionId when it has one.
func (s *Sink) Emit(ctx context.Context, e event.Event) error {
	msg, err := NewMessage(e)
	if err != nil {
		return err
	}
	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		return errors.Wrap(errors.ErrCodeDelivery,
			fmt.Sprintf("failed to write to kafka topic %s", s.topic), err)
	}
	return nil
}

// NewMessage converts e into a Kafka message.
func NewMessage(e event.Event) (kafka.Message, error) {
	value, err := json.Marshal(sink.NewDocument(e))
	if err != nil {
		return kafka.Message{}, errors.Wrap(errors.ErrCodeInternal, "failed to encode event", err)
	}
	msg := kafka.Message{
		Value: value,
		Time:  e.Timestamp(),
		Headers: []kafka.Header{
			{Key: "level", Value: []byte(e.Severity().String())},
		},
	}
	if v, ok := e.Property(KeyProperty); ok {
		if sc, ok := v.Scalar(); ok && !sc.IsNull() {
			msg.Key = []byte(sc.Text())
		}
	}
	return msg, nil
}

// Close flushes buffered messages and closes the writer. In async mode,
// messages whose writes failed are reported as an ErrCodeDelivery error.
func (s *Sink) Close(context.Context) error {
	if err := s.writer.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeDelivery, "failed to close kafka writer", err)
	}
	return s.failures.Err(Name)
}
