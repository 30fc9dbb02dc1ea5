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
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Address != "" {
		t.Errorf("expected empty address, got %s", cfg.Address)
	}
	if cfg.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Port)
	}
	if cfg.RateLimit != DefaultRateLimit || cfg.RateLimitBurst != DefaultRateLimitBurst {
		t.Errorf("expected rate limit %d/%d, got %v/%d",
			DefaultRateLimit, DefaultRateLimitBurst, cfg.RateLimit, cfg.RateLimitBurst)
	}
	if cfg.ReadTimeout != 10*time.Second {
		t.Errorf("expected read timeout 10s, got %v", cfg.ReadTimeout)
	}
	if cfg.WriteTimeout != 30*time.Second {
		t.Errorf("expected write timeout 30s, got %v", cfg.WriteTimeout)
	}
	if cfg.IdleTimeout != 120*time.Second {
		t.Errorf("expected idle timeout 120s, got %v", cfg.IdleTimeout)
	}
	if cfg.ShutdownTimeout != 30*time.Second {
		t.Errorf("expected shutdown timeout 30s, got %v", cfg.ShutdownTimeout)
	}
}

func TestDefaultConfig_IgnoresEnvironment(t *testing.T) {
	// The port comes from the logfan configuration, never from the server
	// package reading PORT itself.
	t.Setenv("PORT", "9090")

	if cfg := defaultConfig(); cfg.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Port)
	}
}

func TestWithRateLimit(t *testing.T) {
	tests := []struct {
		name      string
		perSecond float64
		burst     int
		wantLimit rate.Limit
		wantBurst int
	}{
		{name: "explicit", perSecond: 5, burst: 10, wantLimit: 5, wantBurst: 10},
		{name: "burst raised to one", perSecond: 5, burst: 0, wantLimit: 5, wantBurst: 1},
		{name: "zero disables", perSecond: 0, burst: 10, wantLimit: rate.Inf, wantBurst: 0},
		{name: "negative disables", perSecond: -1, burst: 10, wantLimit: rate.Inf, wantBurst: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Server{config: defaultConfig()}
			WithRateLimit(tt.perSecond, tt.burst)(s)
			if s.config.RateLimit != tt.wantLimit {
				t.Errorf("expected limit %v, got %v", tt.wantLimit, s.config.RateLimit)
			}
			if s.config.RateLimitBurst != tt.wantBurst {
				t.Errorf("expected burst %d, got %d", tt.wantBurst, s.config.RateLimitBurst)
			}
		})
	}
}

func TestWithHandler_Merges(t *testing.T) {
	ok := func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }
	s := &Server{config: defaultConfig()}
	WithHandler(map[string]http.HandlerFunc{"GET /a": ok})(s)
	WithHandler(map[string]http.HandlerFunc{"GET /b": ok})(s)

	for _, pattern := range []string{"GET /a", "GET /b"} {
		if _, exists := s.config.Handlers[pattern]; !exists {
			t.Errorf("expected handler for %q", pattern)
		}
	}
}
