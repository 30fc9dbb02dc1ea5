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

// Package defaults provides centralized configuration constants for logfan.
//
// This package defines timeout values, batch sizes, and other configuration
// defaults used across the codebase. Centralizing these values ensures consistency
// and makes tuning easier.
//
// # Timeout Categories
//
// Timeouts are organized by component:
//
//   - Server timeouts: For HTTP server configuration
//   - Handler timeouts: For HTTP request processing
//   - HTTP client timeouts: For outbound webhook requests
//   - Sink timeouts: For log delivery, batching and shutdown draining
//
// # Usage
//
// Import and use constants directly:
//
//	import "github.com/NVIDIA/logfan/pkg/defaults"
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.SinkEmitTimeout)
//	defer cancel()
//
// # Timeout Guidelines
//
// When choosing timeout values:
//
//   - Sink delivery: 10s per attempt, shorter than the /log handler timeout
//   - Batching sinks: flush every 5s or when 100 events are pending
//   - Server shutdown: 30s, long enough to drain all sinks
package defaults
