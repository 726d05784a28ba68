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

package checks

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVerdict_Result(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		verdict Verdict
		want    Result
	}{
		{
			name:    "pass uses default priority",
			verdict: Pass("loaded"),
			want:    Result{TestName: "page load", Status: StatusPass, Details: "loaded", Priority: PriorityMedium, Timestamp: at},
		},
		{
			name:    "fail keeps priority",
			verdict: Fail(PriorityCritical, "HTTP error: 500"),
			want:    Result{TestName: "page load", Status: StatusFail, Details: "HTTP error: 500", Priority: PriorityCritical, Timestamp: at},
		},
		{
			name:    "warning keeps priority",
			verdict: Warn(PriorityLow, "slow"),
			want:    Result{TestName: "page load", Status: StatusWarning, Details: "slow", Priority: PriorityLow, Timestamp: at},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.verdict.Result("page load", at))
		})
	}
}

func TestFaultResult(t *testing.T) {
	at := time.Now()
	r := FaultResult("page reload speed", PriorityLow, errors.New("reload failed: timeout"), at)
	assert.Equal(t, StatusFail, r.Status)
	assert.Equal(t, PriorityLow, r.Priority)
	assert.Equal(t, "reload failed: timeout", r.Details)
	assert.True(t, r.Fault)
}

func TestValid(t *testing.T) {
	assert.True(t, StatusWarning.Valid())
	assert.False(t, Status("skipped").Valid())
	assert.True(t, CategoryDataIntegrity.Valid())
	assert.False(t, Category("summary").Valid())
}

func TestDefaultSelectors(t *testing.T) {
	s := DefaultSelectors()
	assert.Equal(t, Selectors{`input[type="text"]`, `textarea`}, s.TextInput)
	assert.Equal(t, `button[type="submit"]`, s.Submit[0])
	assert.Len(t, s.Answer, 8)
	assert.Len(t, s.Validation, len(s.Error)+2)
	assert.Subset(t, s.Validation, s.Error)

	s.Validation[0] = "changed"
	assert.NotEqual(t, "changed", s.Error[0])
}
