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

// Package demo implements the log trigger endpoint used to exercise the
// sink pipeline by hand.
//
// A GET /log/{message} request opens a session, tagged with a SessionId
// property, and logs three events for the message: one at Information, one
// at Error and one at Fatal carrying a simulated failure. With the default
// configuration the console sees all three, the aggregation backend sees
// none (its source filter wants "Background") and the chat webhook receives
// only the Fatal one. Pass ?source=Background to route the Error and Fatal
// events to the aggregation backend as well.
package demo
