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

package serializer

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/NVIDIA/logfan/pkg/defaults"
)

// RespondJSON writes data as a JSON response with the given status code.
func RespondJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")

	// Serialize first to detect errors before writing headers
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(data); err != nil {
		slog.Error("json encoding failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(statusCode)
	if _, err := w.Write(buf.Bytes()); err != nil {
		// Connection is broken, log but can't recover
		slog.Warn("response write failed", "error", err)
	}
}

// UserAgent is sent on every request made by clients from NewHTTPClient.
const UserAgent = "logfan/1.0"

const (
	defaultMaxIdleConns        = 100
	defaultMaxIdleConnsPerHost = 10
)

// HTTPClientOption configures NewHTTPClient.
type HTTPClientOption func(*httpClientConfig)

type httpClientConfig struct {
	totalTimeout          time.Duration
	connectTimeout        time.Duration
	tlsHandshakeTimeout   time.Duration
	responseHeaderTimeout time.Duration
	idleConnTimeout       time.Duration
	insecureSkipVerify    bool
}

// WithTotalTimeout bounds each request end to end.
func WithTotalTimeout(d time.Duration) HTTPClientOption {
	return func(c *httpClientConfig) {
		if d > 0 {
			c.totalTimeout = d
		}
	}
}

// WithConnectTimeout bounds TCP connection establishment.
func WithConnectTimeout(d time.Duration) HTTPClientOption {
	return func(c *httpClientConfig) {
		if d > 0 {
			c.connectTimeout = d
		}
	}
}

// WithResponseHeaderTimeout bounds the wait for response headers.
func WithResponseHeaderTimeout(d time.Duration) HTTPClientOption {
	return func(c *httpClientConfig) {
		if d > 0 {
			c.responseHeaderTimeout = d
		}
	}
}

// WithInsecureSkipVerify disables TLS certificate verification.
func WithInsecureSkipVerify(skip bool) HTTPClientOption {
	return func(c *httpClientConfig) {
		c.insecureSkipVerify = skip
	}
}

// NewHTTPClient returns a client with pooled connections, TLS 1.2 or later
// and the timeouts from pkg/defaults unless overridden.
func NewHTTPClient(opts ...HTTPClientOption) *http.Client {
	c := &httpClientConfig{
		totalTimeout:          defaults.HTTPClientTimeout,
		connectTimeout:        defaults.HTTPConnectTimeout,
		tlsHandshakeTimeout:   defaults.HTTPTLSHandshakeTimeout,
		responseHeaderTimeout: defaults.HTTPResponseHeaderTimeout,
		idleConnTimeout:       defaults.HTTPIdleConnTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	t := &http.Transport{
		// Connection pooling
		MaxIdleConns:        defaultMaxIdleConns,
		MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,

		// Timeouts
		DialContext: (&net.Dialer{
			Timeout:   c.connectTimeout,
			KeepAlive: defaults.HTTPKeepAlive,
		}).DialContext,
		TLSHandshakeTimeout:   c.tlsHandshakeTimeout,
		ResponseHeaderTimeout: c.responseHeaderTimeout,
		ExpectContinueTimeout: 1 * time.Second,
		IdleConnTimeout:       c.idleConnTimeout,
		ForceAttemptHTTP2:     true,
		Proxy:                 http.ProxyFromEnvironment,

		TLSClientConfig: &tls.Config{
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: c.insecureSkipVerify, //nolint:gosec // opt-in for test endpoints
		},
	}

	return &http.Client{
		Timeout:   c.totalTimeout,
		Transport: t,
	}
}

// ReadURL fetches url and returns the body. Non-200 responses are errors.
func ReadURL(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("url is empty")
	}
	if client == nil {
		return nil, fmt.Errorf("http client is nil")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for url %s: %w", url, err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed for url %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch data: status %s", resp.Status)
	}

	return io.ReadAll(resp.Body)
}
