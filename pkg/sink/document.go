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

package sink

import (
	"context"
	"time"

	"github.com/NVIDIA/logfan/pkg/event"
)

// Document is the JSON shape that aggregation and streaming sinks store for
// an event.
type Document struct {
	Timestamp       time.Time        `json:"Timestamp"`
	Level           string           `json:"Level"`
	MessageTemplate string           `json:"MessageTemplate"`
	RenderedMessage string           `json:"RenderedMessage"`
	Properties      event.Properties `json:"Properties,omitempty"`
	Exception       *event.Failure   `json:"Exception,omitempty"`
}

// NewDocument converts e into its stored form.
func NewDocument(e event.Event) Document {
	d := Document{
		Timestamp:       e.Timestamp(),
		Level:           e.Severity().String(),
		MessageTemplate: e.MessageTemplate(),
		RenderedMessage: e.RenderedMessage(),
		Properties:      e.Properties(),
	}
	if f, ok := e.Failure(); ok {
		d.Exception = &f
	}
	return d
}

// Func adapts a function to the Sink interface. Close is a no-op.
type Func struct {
	SinkName string
	EmitFunc func(ctx context.Context, e event.Event) error
}

func (f Func) Name() string { return f.SinkName }

func (f Func) Emit(ctx context.Context, e event.Event) error { return f.EmitFunc(ctx, e) }

func (f Func) Close(context.Context) error { return nil }
