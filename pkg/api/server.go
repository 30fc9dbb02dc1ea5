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

package api

import (
	"context"
	"log/slog"

	"github.com/NVIDIA/logfan/pkg/config"
	"github.com/NVIDIA/logfan/pkg/defaults"
	"github.com/NVIDIA/logfan/pkg/demo"
	"github.com/NVIDIA/logfan/pkg/logging"
	"github.com/NVIDIA/logfan/pkg/pipeline"
	"github.com/NVIDIA/logfan/pkg/server"
)

const (
	name           = "logfand"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags to reflect actual version info
	// e.g., -X "github.com/NVIDIA/logfan/pkg/api.version=1.0.0"
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Serve loads the configuration (from LOGFAN_CONFIG and the environment),
// starts the API server and blocks until shutdown.
func Serve() error {
	logging.SetDefaultStructuredLogger(name, version)
	slog.Info("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
	)

	cfg, err := config.Load("")
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		return err
	}

	if err := Run(context.Background(), cfg); err != nil {
		slog.Error("server exited with error", "error", err)
		return err
	}

	return nil
}

// Run builds the sink pipeline for cfg, serves the demo routes until ctx is
// cancelled or a termination signal arrives, then drains the sinks.
func Run(ctx context.Context, cfg *config.Config, opts ...pipeline.Option) error {
	p, err := pipeline.Build(ctx, cfg, opts...)
	if err != nil {
		return err
	}
	slog.Info("pipeline ready", "sinks", p.SinkNames())

	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), defaults.SinkCloseTimeout)
		defer cancel()
		if err := p.Close(closeCtx); err != nil {
			slog.Error("failed to drain sinks", "error", err)
		}
	}()

	h := demo.NewHandler(p.Logger())
	h.Announce(ctx)

	s := server.New(
		server.WithName(name),
		server.WithVersion(version),
		server.WithPort(cfg.Server.Port),
		server.WithRateLimit(cfg.Server.RateLimit, cfg.Server.RateLimitBurst),
		server.WithShutdownTimeout(cfg.Server.ShutdownTimeout.Std()),
		server.WithHandler(h.Routes()),
	)

	return s.Run(ctx)
}
