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

// Payload is the JSON body posted to a chat webhook.
type Payload struct {
	Text        string       `json:"text"`
	Username    *string      `json:"username,omitempty"`
	IconEmoji   *string      `json:"icon_emoji,omitempty"`
	Attachments []Attachment `json:"attachments"`
}

// Attachment is a structured block within a payload.
type Attachment struct {
	Title    string   `json:"title,omitempty"`
	Fallback string   `json:"fallback"`
	Color    string   `json:"color"`
	Fields   []Field  `json:"fields"`
	MrkdwnIn []string `json:"mrkdwn_in,omitempty"`
}

// Field is a single title/value pair within an attachment. Short fields may
// be laid out side by side; long fields take the full width.
type Field struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

// PropertySpec names an event property to surface as an attachment field.
type PropertySpec struct {
	Name  string `json:"name" yaml:"name"`
	Short bool   `json:"short" yaml:"short"`
}

// DefaultProperties is the allow-list used when none is configured.
func DefaultProperties() []PropertySpec {
	return []PropertySpec{{Name: "SessionId", Short: true}}
}
