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

// Package config loads the service configuration: which sinks are enabled,
// where they deliver and which events each accepts.
//
// Load starts from Default, decodes an optional YAML or JSON file over it
// and then applies environment overrides:
//
//	PORT                      server.port
//	SHUTDOWN_TIMEOUT_SECONDS  server.shutdownTimeout
//	SLACK_WEBHOOK             slack.webhookUrl
//	SLACK_USERNAME            slack.username
//	SLACK_ICON_EMOJI          slack.iconEmoji
//	ELASTICSEARCH_URLS        elastic.addresses (comma separated)
//	ELASTICSEARCH_INDEX       elastic.index
//	KAFKA_BROKERS             kafka.brokers (comma separated)
//	KAFKA_TOPIC               kafka.topic
//
// The file path comes from the caller or, when empty, from LOGFAN_CONFIG.
// A sink whose destination is not configured is disabled rather than
// rejected, so the service runs with the console sink alone.
//
// Example file:
//
//	slack:
//	  webhookUrl: https://hooks.slack.com/services/T000/B000/XXXX
//	  minSeverity: Fatal
//	  properties:
//	    - name: SessionId
//	      short: true
//	elastic:
//	  addresses: [http://localhost:9200]
//	  index: logfan
//	  minSeverity: Error
//	  sourceContains: Background
//	  period: 5s
//
// Durations are written as Go duration strings ("5s") in YAML and JSON
// alike; see Duration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/NVIDIA/logfan/pkg/defaults"
	"github.com/NVIDIA/logfan/pkg/errors"
	"github.com/NVIDIA/logfan/pkg/event"
	"github.com/NVIDIA/logfan/pkg/notify"
	"github.com/NVIDIA/logfan/pkg/serializer"
	"github.com/NVIDIA/logfan/pkg/sink"
)

// Environment variables read by Load.
const (
	EnvConfigPath    = "LOGFAN_CONFIG"
	EnvPort          = "PORT"
	EnvShutdownSecs  = "SHUTDOWN_TIMEOUT_SECONDS"
	EnvSlackWebhook  = "SLACK_WEBHOOK"
	EnvSlackUsername = "SLACK_USERNAME"
	EnvSlackIcon     = "SLACK_ICON_EMOJI"
	EnvElasticURLs   = "ELASTICSEARCH_URLS"
	EnvElasticIndex  = "ELASTICSEARCH_INDEX"
	EnvKafkaBrokers  = "KAFKA_BROKERS"
	EnvKafkaTopic    = "KAFKA_TOPIC"
)

// Config is the full service configuration.
type Config struct {
	Server  ServerConfig  `json:"server" yaml:"server"`
	Console ConsoleConfig `json:"console" yaml:"console"`
	Slack   SlackConfig   `json:"slack" yaml:"slack"`
	Elastic ElasticConfig `json:"elastic" yaml:"elastic"`
	Kafka   KafkaConfig   `json:"kafka" yaml:"kafka"`
}

type ServerConfig struct {
	Port int `json:"port" yaml:"port"`
	// RateLimit caps requests per second across all routes; zero disables
	// the limit.
	RateLimit      float64 `json:"rateLimit" yaml:"rateLimit"`
	RateLimitBurst int     `json:"rateLimitBurst" yaml:"rateLimitBurst"`
	// ShutdownTimeout bounds graceful shutdown; match it to the supervisor's
	// stop grace period.
	ShutdownTimeout Duration `json:"shutdownTimeout" yaml:"shutdownTimeout"`
}

type ConsoleConfig struct {
	Enabled     bool `json:"enabled" yaml:"enabled"`
	sink.Filter `yaml:",inline"`
}

type SlackConfig struct {
	WebhookURL string                `json:"webhookUrl,omitempty" yaml:"webhookUrl,omitempty"`
	Username   string                `json:"username,omitempty" yaml:"username,omitempty"`
	IconEmoji  string                `json:"iconEmoji,omitempty" yaml:"iconEmoji,omitempty"`
	Properties []notify.PropertySpec `json:"properties,omitempty" yaml:"properties,omitempty"`
	// RateLimit caps webhook posts per second; zero disables the limit.
	RateLimit float64 `json:"rateLimit,omitempty" yaml:"rateLimit,omitempty"`
	// Async posts from a background queue instead of the logging goroutine.
	Async       bool `json:"async" yaml:"async"`
	QueueSize   int  `json:"queueSize,omitempty" yaml:"queueSize,omitempty"`
	sink.Filter `yaml:",inline"`
}

// Enabled reports whether a webhook is configured.
func (c SlackConfig) Enabled() bool { return c.WebhookURL != "" }

type ElasticConfig struct {
	Addresses     []string `json:"addresses,omitempty" yaml:"addresses,omitempty"`
	Index         string   `json:"index" yaml:"index"`
	Username      string   `json:"username,omitempty" yaml:"username,omitempty"`
	Password      string   `json:"password,omitempty" yaml:"password,omitempty"`
	APIKey        string   `json:"apiKey,omitempty" yaml:"apiKey,omitempty"`
	BatchSize     int      `json:"batchSize" yaml:"batchSize"`
	QueueSize     int      `json:"queueSize" yaml:"queueSize"`
	Period        Duration `json:"period" yaml:"period"`
	RetryAttempts int      `json:"retryAttempts" yaml:"retryAttempts"`
	sink.Filter   `yaml:",inline"`
}

// Enabled reports whether any cluster address is configured.
func (c ElasticConfig) Enabled() bool { return len(c.Addresses) > 0 }

type KafkaConfig struct {
	Brokers      []string `json:"brokers,omitempty" yaml:"brokers,omitempty"`
	Topic        string   `json:"topic,omitempty" yaml:"topic,omitempty"`
	RequiredAcks string   `json:"requiredAcks,omitempty" yaml:"requiredAcks,omitempty"`
	Async        bool     `json:"async" yaml:"async"`
	sink.Filter  `yaml:",inline"`
}

// Enabled reports whether both brokers and a topic are configured.
func (c KafkaConfig) Enabled() bool { return len(c.Brokers) > 0 && c.Topic != "" }

// Default returns the built-in configuration: console at Debug, the webhook
// at Fatal, Elasticsearch at Error for background sources and Kafka at
// Warning. Only the console has a destination by default.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			RateLimit:       100,
			RateLimitBurst:  200,
			ShutdownTimeout: Duration(defaults.ServerShutdownTimeout),
		},
		Console: ConsoleConfig{
			Enabled: true,
			Filter:  sink.Filter{MinSeverity: event.Debug},
		},
		Slack: SlackConfig{
			Async:  true,
			Filter: sink.Filter{MinSeverity: event.Fatal},
		},
		Elastic: ElasticConfig{
			Index:         "logfan",
			BatchSize:     defaults.SinkBatchSize,
			QueueSize:     defaults.SinkQueueSize,
			Period:        Duration(defaults.SinkFlushPeriod),
			RetryAttempts: defaults.SinkRetryAttempts,
			Filter:        sink.Filter{MinSeverity: event.Error, SourceContains: "Background"},
		},
		Kafka: KafkaConfig{
			RequiredAcks: "one",
			Filter:       sink.Filter{MinSeverity: event.Warning},
		},
	}
}

// Load builds the configuration from defaults, the file at path (or at
// LOGFAN_CONFIG when path is empty) and the environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		if err := serializer.DecodeFile(path, cfg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidRequest,
				fmt.Sprintf("failed to load configuration from %s", path), err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvPort); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidRequest, fmt.Sprintf("invalid %s %q", EnvPort, v), err)
		}
		c.Server.Port = port
	}
	if v, ok := lookup(EnvShutdownSecs); ok && v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs < 1 {
			return errors.New(errors.ErrCodeInvalidRequest,
				fmt.Sprintf("invalid %s %q: want a positive number of seconds", EnvShutdownSecs, v))
		}
		c.Server.ShutdownTimeout = Duration(time.Duration(secs) * time.Second)
	}
	if v, ok := lookup(EnvSlackWebhook); ok {
		c.Slack.WebhookURL = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvSlackUsername); ok {
		c.Slack.Username = v
	}
	if v, ok := lookup(EnvSlackIcon); ok {
		c.Slack.IconEmoji = v
	}
	if v, ok := lookup(EnvElasticURLs); ok {
		c.Elastic.Addresses = splitList(v)
	}
	if v, ok := lookup(EnvElasticIndex); ok && v != "" {
		c.Elastic.Index = v
	}
	if v, ok := lookup(EnvKafkaBrokers); ok {
		c.Kafka.Brokers = splitList(v)
	}
	if v, ok := lookup(EnvKafkaTopic); ok {
		c.Kafka.Topic = v
	}
	return nil
}

// splitList splits a comma separated list, dropping blank entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks value ranges. Destinations themselves are validated when
// the sinks are built.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return errors.New(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("server port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Server.RateLimit < 0 || c.Server.RateLimitBurst < 0 {
		return errors.New(errors.ErrCodeInvalidRequest, "server rateLimit and rateLimitBurst must not be negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return errors.New(errors.ErrCodeInvalidRequest, "server shutdownTimeout must be positive")
	}

	filters := map[string]sink.Filter{
		"console": c.Console.Filter,
		"slack":   c.Slack.Filter,
		"elastic": c.Elastic.Filter,
		"kafka":   c.Kafka.Filter,
	}
	for name, f := range filters {
		if !f.MinSeverity.IsValid() {
			return errors.New(errors.ErrCodeInvalidRequest,
				fmt.Sprintf("%s minSeverity is not a valid severity", name))
		}
	}

	for i, p := range c.Slack.Properties {
		if strings.TrimSpace(p.Name) == "" {
			return errors.New(errors.ErrCodeInvalidRequest,
				fmt.Sprintf("slack properties[%d] has an empty name", i))
		}
	}
	if c.Slack.RateLimit < 0 {
		return errors.New(errors.ErrCodeInvalidRequest, "slack rateLimit must not be negative")
	}
	if c.Elastic.Enabled() && c.Elastic.Index == "" {
		return errors.New(errors.ErrCodeInvalidRequest, "elastic index is required when addresses are set")
	}
	if c.Elastic.Period < 0 {
		return errors.New(errors.ErrCodeInvalidRequest, "elastic period must not be negative")
	}
	if c.Elastic.RetryAttempts < 0 {
		return errors.New(errors.ErrCodeInvalidRequest, "elastic retryAttempts must not be negative")
	}
	switch c.Kafka.RequiredAcks {
	case "", "none", "one", "all":
	default:
		return errors.New(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("kafka requiredAcks must be none, one or all, got %q", c.Kafka.RequiredAcks))
	}
	return nil
}

const redactedValue = "****"

// Redacted returns a copy of c with credentials and the webhook URL masked,
// suitable for printing.
func (c *Config) Redacted() *Config {
	out := *c
	mask := func(s string) string {
		if s == "" {
			return ""
		}
		return redactedValue
	}
	out.Slack.WebhookURL = mask(c.Slack.WebhookURL)
	out.Elastic.Password = mask(c.Elastic.Password)
	out.Elastic.APIKey = mask(c.Elastic.APIKey)
	return &out
}
