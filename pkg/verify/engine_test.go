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

package verify

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caas-team/canary/internal/helper"
	"github.com/caas-team/canary/pkg/browser"
	browsermock "github.com/caas-team/canary/pkg/browser/test"
	"github.com/caas-team/canary/pkg/checks"
	"github.com/caas-team/canary/pkg/config"
	"github.com/caas-team/canary/pkg/report"
)

const longAnswer = "Upgrade your equipment at the blacksmith in the capital."

// testConfig returns the default plan without any waits
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Target = "https://app.example.com"
	cfg.Timing = config.Timing{
		Navigation: time.Second,
		Answer:     helper.PollConfig{Interval: time.Millisecond, Attempts: 45},
		Reload:     time.Second,
		ReloadPass: time.Second,
		ReloadWarn: 2 * time.Second,
	}
	dir := t.TempDir()
	cfg.Artifacts = config.Artifacts{
		Report:          filepath.Join(dir, "report.json"),
		Screenshot:      filepath.Join(dir, "screenshot.png"),
		FinalScreenshot: filepath.Join(dir, "final.png"),
	}
	return &cfg
}

// healthyPage returns a page that answers every question
func healthyPage() *browsermock.Session {
	s := browsermock.New(200)
	s.PageTitle = "SmartKnowledgeBot"
	s.Add(`textarea`, &browsermock.Element{})
	s.Add(`button`, browsermock.NewElement("send"))
	s.Add(`.loading`, browsermock.NewElement(""))
	s.Add(`.answer`, browsermock.NewElement(longAnswer))
	s.Add(`.validation-error`, browsermock.NewElement("please enter a question"))
	return s
}

func launchWith(s browser.Session) LaunchFunc {
	return func(context.Context) (browser.Session, error) {
		return s, nil
	}
}

func names(results []checks.Result) []string {
	var n []string
	for _, r := range results {
		n = append(n, r.TestName)
	}
	return n
}

func TestEngine_Run_healthy(t *testing.T) {
	cfg := testConfig(t)
	session := healthyPage()
	var out bytes.Buffer

	store, err := New(cfg, launchWith(session), &out).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"page load", "page title", "core ui elements", "answer basic question", "answer short question"},
		names(store.Results(checks.CategoryBasicFunctionality)))
	assert.Equal(t, []string{
		"responsive desktop", "responsive tablet", "responsive smartphone",
		"loading indicator basic question", "loading indicator short question",
	}, names(store.Results(checks.CategoryUIUX)))
	assert.Equal(t, []string{"empty input validation"}, names(store.Results(checks.CategoryErrorCases)))
	assert.Equal(t, []string{"xss input handling"}, names(store.Results(checks.CategorySecurity)))
	assert.Equal(t, []string{"page reload speed"}, names(store.Results(checks.CategoryPerformance)))
	assert.Empty(t, store.Results(checks.CategoryDataIntegrity))

	sum, ok := store.Summary()
	require.True(t, ok)
	assert.Equal(t, 13, sum.TotalTests)
	assert.Equal(t, 12, sum.Passed)
	assert.Equal(t, 1, sum.Warnings)
	assert.Equal(t, "92.3%", sum.SuccessRate)
	assert.Equal(t, cfg.Target, sum.Target)
	assert.NotEmpty(t, sum.RunID)
	assert.False(t, store.Critical())

	assert.True(t, session.Closed)
	assert.Equal(t, []string{cfg.Target}, session.Navigations)
	assert.Equal(t, []string{cfg.Artifacts.Screenshot, cfg.Artifacts.FinalScreenshot}, session.Screenshots)
	assert.Equal(t, [][2]int{{1920, 1080}, {768, 1024}, {375, 667}, {1920, 1080}}, session.Resizes)
	assert.Equal(t, 1, session.Reloads)

	assert.Contains(t, out.String(), "[PASS] page load: loaded in")
	assert.Contains(t, out.String(), "[WARNING] xss input handling: script tag is accepted unchanged")
}

func TestEngine_Run_pageLoadFailure(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		err       error
		wantFault bool
		details   string
	}{
		{name: "unauthorized", status: 401, details: "HTTP error: 401 (auth error)"},
		{name: "server error", status: 500, details: "HTTP error: 500"},
		{name: "no response", status: 0, details: "HTTP error: no response"},
		{name: "navigation error", err: errors.New("net::ERR_NAME_NOT_RESOLVED"), wantFault: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := healthyPage()
			session.Status = tt.status
			session.NavigateErr = tt.err

			store, err := New(testConfig(t), launchWith(session), io.Discard).Run(context.Background())
			assert.ErrorIs(t, err, ErrPageLoad)
			require.Equal(t, 1, store.Len())

			res := store.Results(checks.CategoryBasicFunctionality)[0]
			assert.Equal(t, "page load", res.TestName)
			assert.Equal(t, checks.StatusFail, res.Status)
			assert.Equal(t, checks.PriorityCritical, res.Priority)
			assert.Equal(t, tt.wantFault, res.Fault)
			if tt.details != "" {
				assert.Equal(t, tt.details, res.Details)
			}
			assert.True(t, store.Critical())
			assert.True(t, session.Closed)
			assert.Empty(t, session.Screenshots)
		})
	}
}

func TestEngine_Run_missingUI(t *testing.T) {
	session := browsermock.New(200)
	session.PageTitle = ""

	store, err := New(testConfig(t), launchWith(session), io.Discard).Run(context.Background())
	assert.ErrorIs(t, err, ErrMissingUI)

	results := store.Results(checks.CategoryBasicFunctionality)
	assert.Equal(t, []string{"page load", "page title", "core ui elements"}, names(results))
	assert.Equal(t, checks.StatusWarning, results[1].Status)
	assert.Equal(t, checks.StatusFail, results[2].Status)
	assert.Equal(t, "form elements missing (inputs: 0, buttons: 0)", results[2].Details)
	assert.Equal(t, 3, store.Len())
	assert.Empty(t, session.Resizes)
	assert.True(t, session.Closed)
}

func TestEngine_Run_browserInitFailure(t *testing.T) {
	launch := func(context.Context) (browser.Session, error) {
		return nil, errors.New("chromium not found")
	}

	store, err := New(testConfig(t), launch, io.Discard).Run(context.Background())
	assert.ErrorIs(t, err, ErrBrowserInit)
	assert.Equal(t, 0, store.Len())

	sum, ok := store.Summary()
	require.True(t, ok)
	assert.Contains(t, sum.CriticalError, "chromium not found")
	assert.Equal(t, "0%", sum.SuccessRate)
	assert.True(t, store.Critical())
}

func TestEngine_Run_canceled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Timing.ResizeSettle = time.Hour
	session := healthyPage()
	ctx, cancel := context.WithCancel(context.Background())
	session.OnResize = func(int, int) { cancel() }

	store, err := New(cfg, launchWith(session), io.Discard).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	uiux := store.Results(checks.CategoryUIUX)
	require.Len(t, uiux, 1)
	assert.True(t, uiux[0].Fault)
	assert.Empty(t, store.Results(checks.CategoryPerformance))
	assert.True(t, session.Closed)
}

func TestEngine_Run_actionTimeout(t *testing.T) {
	session := browsermock.New(200)
	session.PageTitle = "SmartKnowledgeBot"
	session.Add(`textarea`, &browsermock.Element{})
	session.Add(`button`, &browsermock.Element{Texts: []string{"send"}, ClickErr: context.DeadlineExceeded})
	cfg := testConfig(t)
	var out bytes.Buffer

	store, err := New(cfg, launchWith(session), &out).Run(context.Background())
	require.NoError(t, err)

	basic := store.Results(checks.CategoryBasicFunctionality)
	assert.Equal(t, []string{
		"page load", "page title", "core ui elements",
		"question submission basic question", "question submission short question",
	}, names(basic))
	for _, res := range basic[3:] {
		assert.True(t, res.Fault)
		assert.Equal(t, checks.PriorityHigh, res.Priority)
		assert.Contains(t, res.Details, context.DeadlineExceeded.Error())
	}

	errs := store.Results(checks.CategoryErrorCases)
	require.Len(t, errs, 1)
	assert.True(t, errs[0].Fault)
	assert.Equal(t, checks.PriorityMedium, errs[0].Priority)

	assert.Len(t, store.Results(checks.CategorySecurity), 1)
	assert.Len(t, store.Results(checks.CategoryPerformance), 1)
	assert.Equal(t, []string{cfg.Artifacts.Screenshot, cfg.Artifacts.FinalScreenshot}, session.Screenshots)
	assert.Contains(t, out.String(), "[FAIL] empty input validation: failed to click submit")
}

type panickingSession struct {
	*browsermock.Session
}

func (panickingSession) Reload(context.Context, time.Duration) error {
	panic("target crashed")
}

func TestEngine_Run_sessionBreakdown(t *testing.T) {
	session := healthyPage()

	store, err := New(testConfig(t), launchWith(panickingSession{session}), io.Discard).Run(context.Background())
	assert.ErrorIs(t, err, ErrSession)

	results := store.Results(checks.CategoryBasicFunctionality)
	last := results[len(results)-1]
	assert.Equal(t, "browser session", last.TestName)
	assert.Equal(t, checks.PriorityHigh, last.Priority)
	assert.True(t, last.Fault)
	assert.True(t, session.Closed)
}

func TestExecute(t *testing.T) {
	cfg := testConfig(t)
	cfg.Artifacts.Metrics = filepath.Join(t.TempDir(), "canary.prom")
	var out bytes.Buffer

	store, err := Execute(context.Background(), cfg, launchWith(healthyPage()), &out)
	require.NoError(t, err)

	doc, err := report.ReadFile(cfg.Artifacts.Report)
	require.NoError(t, err)
	want, _ := store.Summary()
	assert.Equal(t, want.TotalTests, doc.Summary.TotalTests)
	assert.Equal(t, want.SuccessRate, doc.Summary.SuccessRate)
	assert.Len(t, doc.UIUX, 5)
	assert.FileExists(t, cfg.Artifacts.Metrics)

	assert.Contains(t, out.String(), "Verification summary")
	assert.Contains(t, out.String(), "WARNINGS (1)")
	assert.Contains(t, out.String(), "Detailed results saved: "+cfg.Artifacts.Report)
}
