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

// Package serializer encodes and decodes configuration and API payloads.
//
// # Formats
//
// JSON and YAML are supported in both directions. Table output flattens a
// value into sorted FIELD/VALUE rows for terminal viewing and cannot be read
// back.
//
// # Reading
//
// FromFile decodes a file into a new value, choosing the format from the
// file extension. DecodeFile decodes into an existing value, which lets
// callers pre-populate defaults that the file only partially overrides:
//
//	cfg := config.Default()
//	if err := serializer.DecodeFile(path, cfg); err != nil {
//	    return err
//	}
//
// Paths starting with http:// or https:// are fetched with a client built by
// NewHTTPClient.
//
// # Writing
//
//	w := serializer.NewWriter(serializer.FormatYAML, os.Stdout)
//	if err := w.Serialize(ctx, cfg); err != nil {
//	    return err
//	}
//
// # HTTP
//
// RespondJSON writes a JSON response body after encoding it fully, so an
// encoding failure still produces a clean 500. NewHTTPClient returns a client
// with connection, TLS and response header timeouts from pkg/defaults; the
// webhook sink uses it for outbound posts.
package serializer
