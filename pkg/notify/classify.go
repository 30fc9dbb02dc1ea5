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

package notify

import "github.com/NVIDIA/logfan/pkg/event"

// Attachment colors.
const (
	InfoColor    = "#5bc0de"
	WarningColor = "#f0ad4e"
	AlarmColor   = "#d9534f"
	DefaultColor = "#777"
)

// ColorFor returns the attachment color for a severity. Error and Fatal
// share the alarm color; Verbose and Debug use the neutral default.
func ColorFor(s event.Severity) string {
	switch s {
	case event.Information:
		return InfoColor
	case event.Warning:
		return WarningColor
	case event.Error, event.Fatal:
		return AlarmColor
	default:
		return DefaultColor
	}
}

// Extract returns the text of a scalar property, or "" when the property is
// absent, null or structured.
func Extract(e event.Event, name string) string {
	v, ok := e.Property(name)
	if !ok {
		return ""
	}
	s, ok := v.Scalar()
	if !ok {
		return ""
	}
	return s.Text()
}
