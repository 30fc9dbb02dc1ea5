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

package cli

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/logfan/pkg/demo"
	"github.com/NVIDIA/logfan/pkg/event"
)

func severityFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "severity",
		Aliases: []string{"s"},
		Usage:   "Event severity (verbose, debug, information, warning, error, fatal)",
	}
}

func propertyFlag() cli.Flag {
	return &cli.StringSliceFlag{
		Name:    "property",
		Aliases: []string{"p"},
		Usage:   "Event property as name=value; repeatable. Numbers and booleans keep their type",
	}
}

func sourceFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "source",
		Usage: "SourceContext of the event, matched by sink source filters",
	}
}

func failureFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "failure",
		Usage: "Attach a failure with this message to the event",
	}
}

// parseProperty splits name=value and types the value: integers, floats and
// booleans are kept as such, everything else is a string.
func parseProperty(s string) (slog.Attr, error) {
	name, value, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return slog.Attr{}, fmt.Errorf("invalid property %q, expected name=value", s)
	}
	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return slog.Int64(name, n), nil
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return slog.Float64(name, f), nil
	}
	switch value {
	case "true", "false":
		return slog.Bool(name, value == "true"), nil
	}
	return slog.String(name, value), nil
}

// eventAttrs collects the property, source and failure flags as record attributes.
func eventAttrs(cmd *cli.Command) ([]slog.Attr, error) {
	var attrs []slog.Attr
	for _, p := range cmd.StringSlice("property") {
		a, err := parseProperty(p)
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, a)
	}
	if src := cmd.String("source"); src != "" {
		attrs = append(attrs, slog.String(event.SourceContextKey, src))
	}
	if msg := cmd.String("failure"); msg != "" {
		attrs = append(attrs, slog.Any(event.FailureKey, demo.NewSimulatedFailure(msg)))
	}
	return attrs, nil
}

func parseSeverity(cmd *cli.Command, fallback event.Severity) (event.Severity, error) {
	s := cmd.String("severity")
	if s == "" {
		return fallback, nil
	}
	sev, err := event.ParseSeverity(s)
	if err != nil {
		return 0, fmt.Errorf("invalid severity %q: %w", s, err)
	}
	return sev, nil
}

func templateArg(cmd *cli.Command) (string, error) {
	if cmd.Args().Len() == 0 {
		return "", fmt.Errorf("a message template argument is required")
	}
	return strings.Join(cmd.Args().Slice(), " "), nil
}
