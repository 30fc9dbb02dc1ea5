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

// Package api wires the logfan service together: configuration, the sink
// pipeline, the demo routes and the HTTP server.
//
// # Usage
//
//	import (
//	    "log"
//	    "github.com/NVIDIA/logfan/pkg/api"
//	)
//
//	func main() {
//	    if err := api.Serve(); err != nil {
//	        log.Fatalf("server error: %v", err)
//	    }
//	}
//
// # Architecture
//
// The API layer is responsible for:
//   - Configuring structured logging with application name and version
//   - Loading configuration from LOGFAN_CONFIG and the environment
//   - Building the sink pipeline and draining it on shutdown
//   - Registering the demo routes
//
// The pkg/server package handles:
//   - HTTP server setup and graceful shutdown
//   - Middleware (rate limiting, logging, metrics, panic recovery)
//   - Health and readiness endpoints
//   - Prometheus metrics
//
// # Endpoints
//
// Application Endpoints (with rate limiting):
//   - GET /log/{message} - Log the demo events for message (?source= sets SourceContext)
//
// System Endpoints (no rate limiting):
//   - GET /health  - Health check (liveness probe)
//   - GET /ready   - Readiness check
//   - GET /metrics - Prometheus metrics
//
// Example:
//
//	curl http://localhost:8080/log/hello
//	curl "http://localhost:8080/log/hello?source=Worker.Background"
//
// Operational logs go to stderr as JSON; the demo events flow through the
// configured sinks. Sinks get defaults.SinkCloseTimeout to drain on exit.
package api
