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

// Package notify renders log events into chat webhook payloads.
//
// A payload has a text, an optional bot username and icon, and an ordered
// list of attachments:
//
//	{
//	  "text": "Testing FTL: hi",
//	  "username": "bot",
//	  "icon_emoji": ":x:",
//	  "attachments": [
//	    {"fallback": "[Fatal] Testing FTL: hi", "color": "#d9534f",
//	     "fields": [{"title": "Level", "value": "Fatal", "short": true}, ...]},
//	    {"title": "Exception", "fallback": "Exception: ...", "color": "#d9534f",
//	     "fields": [...], "mrkdwn_in": ["fields"]}
//	  ]
//	}
//
// The first attachment summarizes the event: level, timestamp and each
// allow-listed property with a non-empty scalar value, wrapped as inline code.
// When the event carries a failure a second attachment describes it with its
// message, its type and its stack trace as a code block.
//
// Rendering is pure. A Renderer holds only its configuration and may be
// shared by any number of goroutines.
package notify
