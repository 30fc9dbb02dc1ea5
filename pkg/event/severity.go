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

package event

import (
	"fmt"
	"log/slog"
	"strings"
)

// Severity is the ordered importance of a log event, from Verbose (lowest)
// to Fatal (highest).
type Severity int

const (
	Verbose Severity = iota
	Debug
	Information
	Warning
	Error
	Fatal
)

// Additional slog levels for the severities slog does not name.
const (
	LevelVerbose slog.Level = -8
	LevelFatal   slog.Level = 12
)

var severityNames = [...]string{
	Verbose:     "Verbose",
	Debug:       "Debug",
	Information: "Information",
	Warning:     "Warning",
	Error:       "Error",
	Fatal:       "Fatal",
}

var severityAliases = map[string]Severity{
	"verbose":     Verbose,
	"vrb":         Verbose,
	"trace":       Verbose,
	"debug":       Debug,
	"dbg":         Debug,
	"information": Information,
	"info":        Information,
	"inf":         Information,
	"warning":     Warning,
	"warn":        Warning,
	"wrn":         Warning,
	"error":       Error,
	"err":         Error,
	"fatal":       Fatal,
	"ftl":         Fatal,
}

// Severities returns all severities in ascending order.
func Severities() []Severity {
	return []Severity{Verbose, Debug, Information, Warning, Error, Fatal}
}

// IsValid reports whether s is one of the defined severities.
func (s Severity) IsValid() bool {
	return s >= Verbose && s <= Fatal
}

func (s Severity) String() string {
	if !s.IsValid() {
		return fmt.Sprintf("Severity(%d)", int(s))
	}
	return severityNames[s]
}

// Level returns the slog level used to emit events of this severity.
func (s Severity) Level() slog.Level {
	switch s {
	case Verbose:
		return LevelVerbose
	case Debug:
		return slog.LevelDebug
	case Information:
		return slog.LevelInfo
	case Warning:
		return slog.LevelWarn
	case Error:
		return slog.LevelError
	default:
		return LevelFatal
	}
}

// SeverityFromLevel maps a slog level to a severity. Levels between two
// named levels map to the next-higher severity, so slog.LevelWarn+1 is Error.
func SeverityFromLevel(l slog.Level) Severity {
	switch {
	case l <= LevelVerbose:
		return Verbose
	case l <= slog.LevelDebug:
		return Debug
	case l <= slog.LevelInfo:
		return Information
	case l <= slog.LevelWarn:
		return Warning
	case l <= slog.LevelError:
		return Error
	default:
		return Fatal
	}
}

// ParseSeverity parses a severity name case-insensitively. Besides the full
// names it accepts the usual short forms (inf, wrn, err, ftl, warn, info, ...).
func ParseSeverity(s string) (Severity, error) {
	if sev, ok := severityAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return sev, nil
	}
	return Verbose, fmt.Errorf("unknown severity %q, supported values: %v", s, Severities())
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("invalid severity %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(b []byte) error {
	sev, err := ParseSeverity(string(b))
	if err != nil {
		return err
	}
	*s = sev
	return nil
}
