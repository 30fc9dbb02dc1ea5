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

// Package slack posts log events to a chat webhook as attachment payloads
// rendered by pkg/notify.
package slack

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"golang.org/x/time/rate"

	"github.com/NVIDIA/logfan/pkg/errors"
	"github.com/NVIDIA/logfan/pkg/event"
	"github.com/NVIDIA/logfan/pkg/notify"
	"github.com/NVIDIA/logfan/pkg/serializer"
)

// Name is the sink name used in metrics and self-log entries.
const Name = "slack"

// maxErrorBody bounds how much of a failed response is kept in the error.
const maxErrorBody = 512

// Config configures the webhook sink.
type Config struct {
	// WebhookURL is the incoming webhook endpoint. Required.
	WebhookURL string
	// Username and IconEmoji override the webhook's defaults when set.
	Username  string
	IconEmoji string
	// Properties is the attachment field allow-list; nil selects
	// notify.DefaultProperties.
	Properties []notify.PropertySpec
	// RateLimit caps posts per second; zero disables the limit.
	RateLimit float64
	// Client overrides the HTTP client built by serializer.NewHTTPClient.
	Client *http.Client
}

// Sink posts one payload per event.
type Sink struct {
	url       string
	username  string
	iconEmoji string
	renderer  *notify.Renderer
	client    *http.Client
	limiter   *rate.Limiter
}

// New validates cfg and returns a sink.
func New(cfg Config) (*Sink, error) {
	u, err := url.Parse(cfg.WebhookURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "slack webhook URL must be an absolute http(s) URL")
	}

	client := cfg.Client
	if client == nil {
		client = serializer.NewHTTPClient()
	}

	s := &Sink{
		url:       cfg.WebhookURL,
		username:  cfg.Username,
		iconEmoji: cfg.IconEmoji,
		renderer:  notify.NewRenderer(&notify.Options{Properties: cfg.Properties}),
		client:    client,
	}
	if cfg.RateLimit > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}
	return s, nil
}

func (s *Sink) Name() string { return Name }

// Emit renders e and posts it. Responses outside 2xx are ErrCodeDelivery
// errors carrying the status and the start of the response body.
func (s *Sink) Emit(ctx context.Context, e event.Event) error {
	body, err := s.renderer.Render(e, s.username, s.iconEmoji)
	if err != nil {
		return err
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return errors.Wrap(errors.ErrCodeRateLimitExceeded, "webhook rate limit wait aborted", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to create webhook request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", serializer.UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return errors.Wrap(errors.ErrCodeDelivery, "webhook request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return errors.NewWithContext(errors.ErrCodeDelivery,
			fmt.Sprintf("webhook returned %s", resp.Status),
			map[string]any{
				"status": resp.StatusCode,
				"body":   string(excerpt),
			})
	}

	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// Close releases idle connections.
func (s *Sink) Close(context.Context) error {
	s.client.CloseIdleConnections()
	return nil
}
