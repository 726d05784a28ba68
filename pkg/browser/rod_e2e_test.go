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

//go:build e2e

package browser_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caas-team/canary/pkg/browser"
)

const page = `<!doctype html>
<html>
<head><title>Canary E2E</title></head>
<body>
  <form onsubmit="event.preventDefault(); document.querySelector('.answer').textContent = 'You asked: ' + document.querySelector('textarea').value;">
    <textarea></textarea>
    <button type="submit">send</button>
  </form>
  <div class="answer"></div>
</body>
</html>`

func TestRodSession_E2E(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test in short mode")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page))
	})
	mux.HandleFunc("/protected", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	s, err := browser.Launch(ctx, browser.Options{Headless: true, ViewportWidth: 1280, ViewportHeight: 800})
	require.NoError(t, err)
	defer func() { assert.NoError(t, s.Close()) }()

	status, err := s.Navigate(ctx, srv.URL+"/protected", 10*time.Second)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, err = s.Navigate(ctx, srv.URL, 10*time.Second)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)

	title, err := s.Title(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Canary E2E", title)

	input, _, err := browser.First(ctx, s, []string{`input[type="text"]`, `textarea`})
	require.NoError(t, err)
	require.NotNil(t, input)
	require.NoError(t, input.Fill("<script>alert('XSS')</script>"))
	value, err := input.Value()
	require.NoError(t, err)
	assert.Equal(t, "<script>alert('XSS')</script>", value)

	require.NoError(t, input.Fill("hello"))
	submit, _, err := browser.First(ctx, s, []string{`button[type="submit"]`})
	require.NoError(t, err)
	require.NoError(t, submit.Click())

	answers, err := s.Locate(ctx, ".answer")
	require.NoError(t, err)
	require.Len(t, answers, 1)
	text, err := answers[0].Text()
	require.NoError(t, err)
	assert.Equal(t, "You asked: hello", text)

	require.NoError(t, s.Resize(ctx, 375, 667))
	visible, err := input.Visible()
	require.NoError(t, err)
	assert.True(t, visible)

	require.NoError(t, s.Reload(ctx, 10*time.Second))

	shot := filepath.Join(t.TempDir(), "shots", "page.png")
	require.NoError(t, s.Screenshot(ctx, shot))
	assert.FileExists(t, shot)

	require.NoError(t, s.Close())
	_, err = s.Title(ctx)
	assert.ErrorIs(t, err, browser.ErrClosed)
}

func TestRodSession_E2E_disabledControl(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test in short mode")
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<!doctype html><html><body>
  <textarea disabled></textarea>
  <button type="submit" disabled>send</button>
</body></html>`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	const action = 2 * time.Second
	s, err := browser.Launch(ctx, browser.Options{Headless: true, ActionTimeout: action})
	require.NoError(t, err)
	defer func() { assert.NoError(t, s.Close()) }()

	_, err = s.Navigate(ctx, srv.URL, 10*time.Second)
	require.NoError(t, err)

	submit, _, err := browser.First(ctx, s, []string{`button[type="submit"]`})
	require.NoError(t, err)
	require.NotNil(t, submit)

	start := time.Now()
	assert.Error(t, submit.Click())
	assert.Less(t, time.Since(start), action+5*time.Second)

	input, _, err := browser.First(ctx, s, []string{`textarea`})
	require.NoError(t, err)
	require.NotNil(t, input)

	start = time.Now()
	assert.Error(t, input.Fill("hello"))
	assert.Less(t, time.Since(start), action+5*time.Second)

	_, err = s.Title(ctx)
	assert.NoError(t, err, "the session stays usable after a timed out action")
}
