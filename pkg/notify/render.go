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

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/NVIDIA/logfan/pkg/errors"
	"github.com/NVIDIA/logfan/pkg/event"
)

// TimestampFormat is the layout of the Timestamp field.
const TimestampFormat = "2006-01-02T15:04:05.000Z07:00"

// Options configures a Renderer.
type Options struct {
	// Properties lists, in order, the event properties rendered as fields
	// on the event attachment. Nil selects DefaultProperties.
	Properties []PropertySpec
}

// Renderer turns log events into chat webhook payloads. A Renderer is
// immutable and safe for concurrent use.
type Renderer struct {
	properties []PropertySpec
}

// NewRenderer creates a Renderer. A nil opts selects the defaults.
func NewRenderer(opts *Options) *Renderer {
	props := DefaultProperties()
	if opts != nil && opts.Properties != nil {
		props = slices.Clone(opts.Properties)
	}
	return &Renderer{properties: props}
}

// Properties returns the configured property allow-list.
func (r *Renderer) Properties() []PropertySpec {
	return slices.Clone(r.properties)
}

// BuildEventAttachment summarizes an event: its level, its timestamp and
// each allow-listed property that has a non-empty scalar value.
func (r *Renderer) BuildEventAttachment(e event.Event) Attachment {
	fields := []Field{
		{Title: "Level", Value: e.Severity().String(), Short: true},
		{Title: "Timestamp", Value: e.Timestamp().Format(TimestampFormat), Short: true},
	}
	for _, p := range r.properties {
		text := Extract(e, p.Name)
		if text == "" {
			continue
		}
		fields = append(fields, Field{Title: p.Name, Value: inlineCode(text), Short: p.Short})
	}
	return Attachment{
		Fallback: fmt.Sprintf("[%s] %s", e.Severity(), e.RenderedMessage()),
		Color:    ColorFor(e.Severity()),
		Fields:   fields,
	}
}

// BuildFailureAttachment describes a failure. It is always rendered with the
// alarm color, whatever the severity of the event that carried it.
func (r *Renderer) BuildFailureAttachment(f event.Failure) Attachment {
	return Attachment{
		Title:    "Exception",
		Fallback: fmt.Sprintf("Exception: %s \n %s", f.Summary, f.Trace),
		Color:    ColorFor(event.Fatal),
		Fields: []Field{
			{Title: "Message", Value: f.Summary, Short: true},
			{Title: "Type", Value: inlineCode(f.Kind), Short: true},
			{Title: "Stack Trace", Value: codeBlock(f.Trace), Short: false},
		},
		MrkdwnIn: []string{"fields"},
	}
}

// BuildAttachments returns the event attachment, followed by the failure
// attachment when the event carries a failure.
func (r *Renderer) BuildAttachments(e event.Event) []Attachment {
	attachments := []Attachment{r.BuildEventAttachment(e)}
	if f, ok := e.Failure(); ok {
		attachments = append(attachments, r.BuildFailureAttachment(f))
	}
	return attachments
}

// BuildPayload assembles the payload for an event. Blank or whitespace-only
// username and icon are left out.
func (r *Renderer) BuildPayload(e event.Event, username, iconEmoji string) Payload {
	return Payload{
		Text:        e.RenderedMessage(),
		Username:    optional(username),
		IconEmoji:   optional(iconEmoji),
		Attachments: r.BuildAttachments(e),
	}
}

// Render builds the payload for an event and encodes it as JSON. The output
// depends only on the arguments, so repeated calls for the same event are
// byte-identical.
func (r *Renderer) Render(e event.Event, username, iconEmoji string) ([]byte, error) {
	b, err := json.Marshal(r.BuildPayload(e, username, iconEmoji))
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeInternal, "failed to encode chat payload", err,
			map[string]any{"severity": e.Severity().String()})
	}
	return b, nil
}

func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func inlineCode(s string) string {
	return "`" + s + "`"
}

func codeBlock(s string) string {
	return "```" + s + "```"
}
