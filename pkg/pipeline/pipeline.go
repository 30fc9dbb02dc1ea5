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

// Package pipeline assembles the configured sinks behind a sink.Router and
// owns their lifecycle.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/NVIDIA/logfan/pkg/config"
	"github.com/NVIDIA/logfan/pkg/errors"
	"github.com/NVIDIA/logfan/pkg/sink"
	"github.com/NVIDIA/logfan/pkg/sink/console"
	"github.com/NVIDIA/logfan/pkg/sink/elastic"
	"github.com/NVIDIA/logfan/pkg/sink/kafka"
	"github.com/NVIDIA/logfan/pkg/sink/slack"
)

// Pipeline is a built set of sinks and the router that feeds them.
type Pipeline struct {
	router *sink.Router
	logger *slog.Logger
}

type options struct {
	console    io.Writer
	selfLog    io.Writer
	httpClient *http.Client
}

// Option customizes Build.
type Option func(*options)

// WithConsoleWriter sets the console sink's output. Defaults to os.Stdout.
func WithConsoleWriter(w io.Writer) Option {
	return func(o *options) { o.console = w }
}

// WithSelfLog sets where sinks report their own failures. Defaults to
// os.Stderr.
func WithSelfLog(w io.Writer) Option {
	return func(o *options) { o.selfLog = w }
}

// WithHTTPClient sets the client used by the webhook sink.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// Build constructs every enabled sink in cfg. If any sink fails to build,
// those already built are closed and the error is returned.
func Build(ctx context.Context, cfg *config.Config, opts ...Option) (*Pipeline, error) {
	if cfg == nil {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "pipeline configuration is nil")
	}
	o := &options{console: os.Stdout, selfLog: os.Stderr}
	for _, opt := range opts {
		opt(o)
	}

	var routes []sink.Route
	fail := func(err error) (*Pipeline, error) {
		_ = sink.NewRouter(routes, sink.WithSelfLog(o.selfLog)).Close(ctx)
		return nil, err
	}

	if cfg.Console.Enabled {
		routes = append(routes, sink.Route{Sink: console.New(o.console), Filter: cfg.Console.Filter})
	}

	if cfg.Slack.Enabled() {
		s, err := slack.New(slack.Config{
			WebhookURL: cfg.Slack.WebhookURL,
			Username:   cfg.Slack.Username,
			IconEmoji:  cfg.Slack.IconEmoji,
			Properties: cfg.Slack.Properties,
			RateLimit:  cfg.Slack.RateLimit,
			Client:     o.httpClient,
		})
		if err != nil {
			return fail(err)
		}
		var target sink.Sink = s
		if cfg.Slack.Async {
			target = sink.NewAsync(s, cfg.Slack.QueueSize, sink.WithAsyncSelfLog(o.selfLog))
		}
		routes = append(routes, sink.Route{Sink: target, Filter: cfg.Slack.Filter})
	}

	if cfg.Elastic.Enabled() {
		s, err := elastic.New(elastic.Config{
			Addresses:     cfg.Elastic.Addresses,
			Index:         cfg.Elastic.Index,
			Username:      cfg.Elastic.Username,
			Password:      cfg.Elastic.Password,
			APIKey:        cfg.Elastic.APIKey,
			BatchSize:     cfg.Elastic.BatchSize,
			QueueSize:     cfg.Elastic.QueueSize,
			Period:        cfg.Elastic.Period.Std(),
			RetryAttempts: cfg.Elastic.RetryAttempts,
			SelfLog:       o.selfLog,
		})
		if err != nil {
			return fail(err)
		}
		routes = append(routes, sink.Route{Sink: s, Filter: cfg.Elastic.Filter})
	}

	if cfg.Kafka.Enabled() {
		s, err := kafka.New(kafka.Config{
			Brokers:      cfg.Kafka.Brokers,
			Topic:        cfg.Kafka.Topic,
			RequiredAcks: cfg.Kafka.RequiredAcks,
			Async:        cfg.Kafka.Async,
			SelfLog:      o.selfLog,
		})
		if err != nil {
			return fail(err)
		}
		routes = append(routes, sink.Route{Sink: s, Filter: cfg.Kafka.Filter})
	}

	router := sink.NewRouter(routes, sink.WithSelfLog(o.selfLog))
	for _, rt := range router.Routes() {
		slog.DebugContext(ctx, "sink enabled",
			"sink", rt.Sink.Name(),
			"minSeverity", rt.Filter.MinSeverity.String(),
			"sourceContains", rt.Filter.SourceContains,
		)
	}

	return &Pipeline{
		router: router,
		logger: slog.New(router),
	}, nil
}

// Logger returns a logger that writes through the pipeline.
func (p *Pipeline) Logger() *slog.Logger { return p.logger }

// Router returns the pipeline's handler.
func (p *Pipeline) Router() *sink.Router { return p.router }

// SinkNames lists the enabled sinks in routing order.
func (p *Pipeline) SinkNames() []string {
	routes := p.router.Routes()
	names := make([]string, len(routes))
	for i, rt := range routes {
		names[i] = rt.Sink.Name()
	}
	return names
}

// Close flushes and closes every sink within ctx.
func (p *Pipeline) Close(ctx context.Context) error {
	if err := p.router.Close(ctx); err != nil {
		return fmt.Errorf("failed to close pipeline: %w", err)
	}
	return nil
}
