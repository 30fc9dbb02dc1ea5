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

package defaults

import "time"

// Server timeouts for HTTP server configuration.
const (
	// ServerReadTimeout is the maximum duration for reading request headers.
	ServerReadTimeout = 10 * time.Second

	// ServerReadHeaderTimeout prevents slow header attacks.
	ServerReadHeaderTimeout = 5 * time.Second

	// ServerWriteTimeout is the maximum duration for writing a response.
	ServerWriteTimeout = 30 * time.Second

	// ServerIdleTimeout is the maximum duration to wait for the next request.
	ServerIdleTimeout = 120 * time.Second

	// ServerShutdownTimeout is the maximum duration for graceful shutdown.
	ServerShutdownTimeout = 30 * time.Second
)

// Handler timeouts for HTTP request processing.
const (
	// LogHandlerTimeout bounds a /log request, including synchronous sink delivery.
	LogHandlerTimeout = 15 * time.Second
)

// HTTP client timeouts for outbound webhook requests.
const (
	// HTTPClientTimeout is the default total timeout for HTTP requests.
	HTTPClientTimeout = 10 * time.Second

	// HTTPConnectTimeout is the timeout for establishing connections.
	HTTPConnectTimeout = 5 * time.Second

	// HTTPTLSHandshakeTimeout is the timeout for TLS handshake.
	HTTPTLSHandshakeTimeout = 5 * time.Second

	// HTTPResponseHeaderTimeout is the timeout for reading response headers.
	HTTPResponseHeaderTimeout = 10 * time.Second

	// HTTPIdleConnTimeout is the timeout for idle connections in the pool.
	HTTPIdleConnTimeout = 90 * time.Second

	// HTTPKeepAlive is the keep-alive duration for connections.
	HTTPKeepAlive = 30 * time.Second
)

// Sink timeouts and sizes for log delivery.
const (
	// SinkEmitTimeout bounds a single delivery attempt to a remote sink.
	SinkEmitTimeout = 10 * time.Second

	// SinkFlushPeriod is how often batching sinks flush pending events.
	SinkFlushPeriod = 5 * time.Second

	// SinkCloseTimeout bounds draining all sinks during shutdown.
	SinkCloseTimeout = 15 * time.Second

	// SinkBatchSize is the maximum number of events per batch.
	SinkBatchSize = 100

	// SinkQueueSize is the maximum number of events buffered per sink.
	SinkQueueSize = 1000

	// SinkRetryAttempts is the number of retries after a failed batch.
	SinkRetryAttempts = 1
)
