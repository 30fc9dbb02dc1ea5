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
	"bytes"
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/NVIDIA/logfan/pkg/config"
	"github.com/NVIDIA/logfan/pkg/pipeline"
)

// TestConstants verifies package constants are properly defined
func TestConstants(t *testing.T) {
	if name != "logfand" {
		t.Errorf("name = %q, want %q", name, "logfand")
	}

	if versionDefault != "dev" {
		t.Errorf("versionDefault = %q, want %q", versionDefault, "dev")
	}

	// Verify buildtime variables exist (they may have default values)
	if version == "" {
		t.Error("version should not be empty")
	}
	if commit == "" {
		t.Error("commit should not be empty")
	}
	if date == "" {
		t.Error("date should not be empty")
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}

func TestRun_AnnouncesAndStops(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Port = freePort(t)

	var out syncBuffer
	ctx, cancel := context.WithCancel(context.Background())

	errChan := make(chan error, 1)
	go func() {
		errChan <- Run(ctx, cfg, pipeline.WithConsoleWriter(&out), pipeline.WithSelfLog(&out))
	}()

	deadline := time.Now().Add(2 * time.Second)
	for !strings.Contains(out.String(), "Added Slack!") && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if !strings.Contains(out.String(), "Added Slack!") {
		t.Fatalf("expected startup notice on the console sink, got %q", out.String())
	}

	cancel()

	select {
	case err := <-errChan:
		if err != nil {
			t.Fatalf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRun_InvalidPipeline(t *testing.T) {
	cfg := config.Default()
	cfg.Slack.WebhookURL = "not a url"

	if err := Run(context.Background(), cfg); err == nil {
		t.Fatal("expected error for invalid webhook URL")
	}
}

func TestRun_AppliesServerConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Port = freePort(t)
	cfg.Server.RateLimit = 0.001
	cfg.Server.RateLimitBurst = 1
	cfg.Server.ShutdownTimeout = config.Duration(time.Second)

	var out syncBuffer
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		errChan <- Run(ctx, cfg, pipeline.WithConsoleWriter(&out), pipeline.WithSelfLog(&out))
	}()

	url := fmt.Sprintf("http://127.0.0.1:%d/log/hello", cfg.Server.Port)
	get := func() (int, error) {
		resp, err := http.Get(url)
		if err != nil {
			return 0, err
		}
		resp.Body.Close()
		return resp.StatusCode, nil
	}

	var first int
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		code, err := get()
		if err == nil {
			first = code
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if first != http.StatusAccepted {
		t.Fatalf("first request: expected status %d, got %d", http.StatusAccepted, first)
	}

	second, err := get()
	if err != nil {
		t.Fatalf("second request failed: %v", err)
	}
	if second != http.StatusTooManyRequests {
		t.Errorf("second request: expected status %d, got %d", http.StatusTooManyRequests, second)
	}

	cancel()
	select {
	case err := <-errChan:
		if err != nil {
			t.Fatalf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
