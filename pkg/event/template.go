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

package event

import "strings"

// RenderTemplate substitutes {Name} holes in template with the text of the
// matching property. "{{" and "}}" render literal braces. A hole may carry
// a capture prefix ("@" or "$") and an alignment or format suffix
// (",10" or ":x"); both are accepted and ignored. Holes naming an unknown
// property, and unterminated holes, are kept verbatim.
func RenderTemplate(template string, props Properties) string {
	if !strings.ContainsAny(template, "{}") {
		return template
	}
	var b strings.Builder
	b.Grow(len(template))
	for i := 0; i < len(template); {
		c := template[i]
		switch {
		case c == '{' && i+1 < len(template) && template[i+1] == '{':
			b.WriteByte('{')
			i += 2
		case c == '}' && i+1 < len(template) && template[i+1] == '}':
			b.WriteByte('}')
			i += 2
		case c == '{':
			end := strings.IndexByte(template[i+1:], '}')
			if end < 0 {
				b.WriteString(template[i:])
				return b.String()
			}
			hole := template[i : i+end+2]
			if v, ok := props.Get(holeName(hole[1 : len(hole)-1])); ok {
				b.WriteString(v.Text())
			} else {
				b.WriteString(hole)
			}
			i += len(hole)
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}

func holeName(token string) string {
	token = strings.TrimLeft(token, "@$")
	if i := strings.IndexAny(token, ",:"); i >= 0 {
		token = token[:i]
	}
	return strings.TrimSpace(token)
}
