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

// Package errors provides structured error types for better observability
// and programmatic error handling across the application.
//
// Every StructuredError records the call stack at construction time. The log
// pipeline uses StackTrace to populate the trace of a failure attached to a
// log event, so chat notifications and aggregated documents carry the origin
// of the error.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeDelivery,
//	    "failed to post chat notification",
//	    err,
//	    map[string]any{
//	        "sink":   "slack",
//	        "status": resp.StatusCode,
//	    },
//	)
package errors
