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

// Package server provides the HTTP server that hosts the logfan demo API.
//
// # Architecture
//
// The server is a stateless net/http server with the following pieces:
//
//   - Route patterns using the Go 1.22 ServeMux syntax ("GET /log/{message}")
//   - Rate limiting using token bucket algorithm (golang.org/x/time/rate)
//   - Request ID tracking, pushed into the log context as the RequestId property
//   - Panic recovery
//   - Prometheus metrics served on /metrics
//   - Graceful shutdown with service manager notifications (sd_notify)
//   - Health and readiness probes
//
// # Usage
//
//	s := server.New(
//	    server.WithName("logfand"),
//	    server.WithVersion(version),
//	    server.WithHandler(map[string]http.HandlerFunc{
//	        "GET /log/{message}": h.HandleLog,
//	    }),
//	)
//	if err := s.Run(ctx); err != nil {
//	    return err
//	}
//
// # System Endpoints
//
// GET / lists the registered routes.
//
// GET /health always returns 200 OK with {"status": "healthy", "timestamp": "..."}.
//
// GET /ready returns 200 OK while serving and 503 before start and during shutdown.
//
// GET /metrics exposes the default Prometheus registry, including the sink
// delivery counters.
//
// # Observability
//
// Request ID Tracking:
//
//	All requests accept an optional X-Request-Id header (UUID format).
//	If not provided, the server generates one automatically.
//	The request ID is returned in the X-Request-Id response header,
//	included in all error responses and attached to every log event
//	written while handling the request.
//
// Rate Limiting:
//
//	Response headers indicate rate limit status:
//	  X-RateLimit-Limit: Total requests allowed per window
//	  X-RateLimit-Remaining: Requests remaining in current window
//	  X-RateLimit-Reset: Unix timestamp when window resets
//
//	When rate limited, returns 429 with Retry-After header.
//
// # Error Handling
//
// All errors return a consistent JSON structure:
//
//	{
//	  "code": "DELIVERY_FAILED",
//	  "message": "slack webhook returned non-success status",
//	  "details": {"status": 500},
//	  "requestId": "550e8400-e29b-41d4-a716-446655440000",
//	  "timestamp": "2025-12-22T12:00:00Z",
//	  "retryable": true
//	}
//
// Status codes are derived from the pkg/errors code with HTTPStatusFromCode.
package server
