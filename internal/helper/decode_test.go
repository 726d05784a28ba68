// canary
// (C) 2024, Deutsche Telekom IT GmbH
//
// Deutsche Telekom IT GmbH and all other contributors /
// copyright owners license this file to you under the Apache
// License, Version 2.0 (the "License"); you may not use this
// file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package helper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type testViewport struct {
	Label  string
	Width  int
	Height int
}

type testConfig struct {
	Target    string
	Headless  bool `mapstructure:"headless"`
	Selectors []string
	Poll      PollConfig
	Viewports []testViewport
}

func TestDecodeInto(t *testing.T) {
	tests := []struct {
		name      string
		input     any
		want      testConfig
		expectErr bool
	}{
		{
			name: "valid input",
			input: map[string]any{
				"target":    "https://example.com",
				"headless":  "true",
				"selectors": ".answer,.result",
				"poll": map[string]any{
					"interval": "1s",
					"attempts": "45",
				},
				"viewports": []any{
					map[string]any{"label": "tablet", "width": 768, "height": "1024"},
				},
			},
			want: testConfig{
				Target:    "https://example.com",
				Headless:  true,
				Selectors: []string{".answer", ".result"},
				Poll:      PollConfig{Interval: time.Second, Attempts: 45},
				Viewports: []testViewport{{Label: "tablet", Width: 768, Height: 1024}},
			},
		},
		{
			name:      "invalid input type",
			input:     "invalid input",
			want:      testConfig{},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got testConfig
			err := DecodeInto(tt.input, &got)
			if (err != nil) != tt.expectErr {
				t.Errorf("DecodeInto() error = %v, expectErr %v", err, tt.expectErr)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeInto_KeepsDefaults(t *testing.T) {
	cfg := testConfig{
		Target:    "https://default.example.com",
		Selectors: []string{"a", "b", "c"},
		Poll:      PollConfig{Interval: time.Second, Attempts: 45},
	}

	err := DecodeInto(map[string]any{
		"selectors": []any{"x"},
		"poll":      map[string]any{"attempts": 10},
	}, &cfg)

	assert.NoError(t, err)
	assert.Equal(t, "https://default.example.com", cfg.Target)
	assert.Equal(t, []string{"x"}, cfg.Selectors)
	assert.Equal(t, PollConfig{Interval: time.Second, Attempts: 10}, cfg.Poll)
}
