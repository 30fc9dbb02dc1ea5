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

package server

import (
	"net/http"
	"time"

	"github.com/NVIDIA/logfan/pkg/defaults"
	"golang.org/x/time/rate"
)

// Config holds the HTTP server configuration.
type Config struct {
	// Server identity
	Name    string
	Version string

	// Handlers are registered on the server mux keyed by their route pattern
	// (for example "GET /log/{message}") and wrapped in the middleware chain.
	Handlers map[string]http.HandlerFunc

	// Server configuration
	Address string
	Port    int

	// Rate limiting configuration. rate.Inf disables the limiter.
	RateLimit      rate.Limit // requests per second
	RateLimitBurst int        // burst size

	// Timeouts
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Default rate limiting applied when no WithRateLimit option is given.
const (
	DefaultRateLimit      = 100
	DefaultRateLimitBurst = 200
)

func defaultConfig() *Config {
	return &Config{
		Name:            "server",
		Version:         "undefined",
		Handlers:        map[string]http.HandlerFunc{},
		Port:            8080,
		RateLimit:       DefaultRateLimit,
		RateLimitBurst:  DefaultRateLimitBurst,
		ReadTimeout:     defaults.ServerReadTimeout,
		WriteTimeout:    defaults.ServerWriteTimeout,
		IdleTimeout:     defaults.ServerIdleTimeout,
		ShutdownTimeout: defaults.ServerShutdownTimeout,
	}
}

// Option configures a Server.
type Option func(*Server)

// WithName sets the server name reported by the root route and logs.
func WithName(name string) Option {
	return func(s *Server) {
		s.config.Name = name
	}
}

// WithVersion sets the server version.
func WithVersion(version string) Option {
	return func(s *Server) {
		s.config.Version = version
	}
}

// WithPort overrides the listen port. Zero asks the kernel for a free port;
// negative values are ignored.
func WithPort(port int) Option {
	return func(s *Server) {
		if port >= 0 {
			s.config.Port = port
		}
	}
}

// WithRateLimit sets the request rate allowed across all handlers. A limit of
// zero or less disables rate limiting.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(s *Server) {
		if perSecond <= 0 {
			s.config.RateLimit = rate.Inf
			s.config.RateLimitBurst = 0
			return
		}
		s.config.RateLimit = rate.Limit(perSecond)
		s.config.RateLimitBurst = max(burst, 1)
	}
}

// WithShutdownTimeout bounds graceful shutdown. Non-positive values keep the
// default.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.config.ShutdownTimeout = d
		}
	}
}

// WithHandler adds route handlers. Later registrations of the same pattern win.
func WithHandler(handlers map[string]http.HandlerFunc) Option {
	return func(s *Server) {
		if s.config.Handlers == nil {
			s.config.Handlers = map[string]http.HandlerFunc{}
		}
		for pattern, h := range handlers {
			s.config.Handlers[pattern] = h
		}
	}
}
