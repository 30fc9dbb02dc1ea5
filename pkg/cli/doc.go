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

// Package cli implements the logfan command-line tool.
//
// # Commands
//
// serve - Run the HTTP service:
//
//	logfan serve --config logfan.yaml --port 8080
//
// Starts the demo API (GET /log/{message}) with the configured sinks and
// drains them on shutdown.
//
// emit - Push one event through the configured sinks:
//
//	logfan emit -s fatal -p Message=hello --failure "Something bad just happened..." "Testing FTL: {Message}"
//
// The command fails when any sink rejects the event, which makes it handy for
// checking webhook and cluster credentials.
//
// render - Print the webhook payload for a sample event without sending it:
//
//	logfan render -s error -p SessionId=abc123 "Testing ERR: {Message}"
//
// config - Print the effective configuration with credentials masked:
//
//	logfan config --format json
//
// # Global Flags
//
//	--log-level    Operational log level (default: info, env LOG_LEVEL)
//	--help, -h     Show command help
//	--version, -v  Show version information
//
// Most commands also accept --config, -c (env LOGFAN_CONFIG). render and
// config accept --output, -o; config accepts --format, -t (yaml, json, table).
//
// # Exit Codes
//
//	0  Success
//	1  General error (invalid arguments, execution failure)
//	2  Interrupted
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/NVIDIA/logfan/pkg/cli.version=1.0.0'"
package cli
