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

// Package event defines the log event model shared by every sink.
//
// An Event carries a Severity, a message template with its bound
// Properties, a UTC timestamp and an optional Failure. Property values are a
// closed set: a Scalar (string, integer, float, bool or null) or a
// structured value (a nested property map or a sequence). Consumers that only
// understand primitives call Value.Scalar and treat structured values as
// absent.
//
// Events are usually built from slog records by the sink router:
//
//	b := event.NewPropertyBuilder()
//	b.Add(nil, slog.String("SessionId", id))
//	e := event.FromRecord(record, b, nil, logging.PropertiesFromContext(ctx)...)
//
// An attribute with key "error" holding an error value becomes the event's
// Failure; its kind is the error's type name and its trace comes from a
// StackTrace() method when the error provides one.
//
// Severities map onto slog levels. Verbose and Fatal use the additional
// levels LevelVerbose (-8) and LevelFatal (12); unnamed levels map to the
// next-higher severity.
package event
