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

package config

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Duration
		wantErr bool
	}{
		{name: "duration string", input: `"5s"`, want: 5 * time.Second},
		{name: "compound string", input: `"1m30s"`, want: 90 * time.Second},
		{name: "nanoseconds", input: `1000000`, want: time.Millisecond},
		{name: "integer string", input: `"250"`, want: 250 * time.Nanosecond},
		{name: "garbage", input: `"soon"`, wantErr: true},
		{name: "bool", input: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := json.Unmarshal([]byte(tt.input), &d)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Std())
		})
	}
}

func TestDuration_UnmarshalYAML(t *testing.T) {
	var v struct {
		Period Duration `yaml:"period"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("period: 2m\n"), &v))
	assert.Equal(t, 2*time.Minute, v.Period.Std())

	require.NoError(t, yaml.Unmarshal([]byte("period: 1000\n"), &v))
	assert.Equal(t, time.Microsecond, v.Period.Std())

	assert.Error(t, yaml.Unmarshal([]byte("period: [1]\n"), &v))
}

func TestDuration_MarshalsAsString(t *testing.T) {
	d := Duration(1500 * time.Millisecond)

	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `"1.5s"`, string(b))

	y, err := yaml.Marshal(map[string]Duration{"period": d})
	require.NoError(t, err)
	assert.Equal(t, "period: 1.5s\n", string(y))
}

func TestConfig_JSONRoundTrip(t *testing.T) {
	cfg := Default()
	b, err := json.Marshal(cfg)
	require.NoError(t, err)

	var back Config
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, cfg.Elastic.Period, back.Elastic.Period)
	assert.Equal(t, cfg.Server.ShutdownTimeout, back.Server.ShutdownTimeout)
}
