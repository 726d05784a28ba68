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

package browser_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caas-team/canary/pkg/browser"
	browsermock "github.com/caas-team/canary/pkg/browser/test"
)

func TestFirst(t *testing.T) {
	generic := browsermock.NewElement("generic")
	specific := browsermock.NewElement("specific")
	s := browsermock.New(200).
		Add(`button`, generic).
		Add(`button[type="submit"]`, specific)
	ctx := context.Background()

	tests := []struct {
		name      string
		selectors []string
		want      *browsermock.Element
		wantSel   string
	}{
		{name: "earlier selector wins", selectors: []string{`button[type="submit"]`, `button`}, want: specific, wantSel: `button[type="submit"]`},
		{name: "falls back", selectors: []string{`input`, `button`}, want: generic, wantSel: `button`},
		{name: "nothing matches", selectors: []string{`input`, `textarea`}},
		{name: "no selectors"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el, sel, err := browser.First(ctx, s, tt.selectors)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSel, sel)
			if tt.want == nil {
				assert.Nil(t, el)
				return
			}
			assert.Same(t, tt.want, el)
		})
	}
}

func TestFirst_error(t *testing.T) {
	s := browsermock.New(200)
	s.LocateErr = errors.New("detached")

	_, _, err := browser.First(context.Background(), s, []string{`button`})
	assert.Error(t, err)

	ok, err := browser.Exists(context.Background(), s, []string{`button`})
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestCount(t *testing.T) {
	shared := browsermock.NewElement("shared")
	s := browsermock.New(200).
		Add(`input[type="text"]`, browsermock.NewElement("a"), shared).
		Add(`textarea`, shared)
	ctx := context.Background()

	n, err := browser.Count(ctx, s, []string{`input[type="text"]`, `textarea`})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{`input[type="text"], textarea`}, s.Located)

	n, err = browser.Count(ctx, s, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestGroup(t *testing.T) {
	assert.Equal(t, `a, b[c="d"]`, browser.Group([]string{`a`, `b[c="d"]`}))
	assert.Equal(t, "", browser.Group(nil))
}
