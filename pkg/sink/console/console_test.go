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

package console

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/logfan/pkg/event"
)

func TestSink_Emit(t *testing.T) {
	var buf bytes.Buffer
	s := New(&buf)
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	e := event.New(event.Fatal, "Testing FTL: {Message}", ts, event.Properties{
		"Message":   event.ScalarValue(event.String("hello")),
		"SessionId": event.ScalarValue(event.String("abc")),
		"Request":   event.NestedValue(event.Properties{"Path": event.ScalarValue(event.String("/log/hello"))}),
	}, &event.Failure{Summary: "Something bad just happened...", Kind: "Exception", Trace: "main.go:1"})

	require.NoError(t, s.Emit(context.Background(), e))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "FATAL", got["level"])
	assert.Equal(t, "Testing FTL: hello", got["msg"])
	assert.Equal(t, "abc", got["SessionId"])
	assert.Equal(t, map[string]any{"Path": "/log/hello"}, got["Request"])
	assert.Equal(t, map[string]any{
		"message":    "Something bad just happened...",
		"type":       "Exception",
		"stackTrace": "main.go:1",
	}, got["error"])
	assert.Equal(t, "2024-05-01T12:00:00Z", got["time"])
}

func TestSink_EmitVerbose(t *testing.T) {
	var buf bytes.Buffer
	s := New(&buf)
	require.NoError(t, s.Emit(context.Background(), event.New(event.Verbose, "trace", time.Now(), nil, nil)))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "VERBOSE", got["level"])
	assert.NotContains(t, got, "error")
}

func TestSink_Name(t *testing.T) {
	s := New(nil)
	assert.Equal(t, Name, s.Name())
	assert.NoError(t, s.Close(context.Background()))
}
