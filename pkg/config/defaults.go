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

package config

import (
	"time"

	"github.com/caas-team/canary/internal/helper"
	"github.com/caas-team/canary/internal/httpclient"
	"github.com/caas-team/canary/pkg/browser"
	"github.com/caas-team/canary/pkg/checks"
)

const (
	// DefaultTarget is the deployment verified when nothing else is configured
	DefaultTarget = "https://smartknowledgebot-frontend-cyqgu1xrd-hirohgxxs-projects.vercel.app"
	// DefaultDashboard is the settings page of the project on the deployment platform
	DefaultDashboard = "https://vercel.com/hirohgxxs-projects/smartknowledgebot-frontend/settings"
	// DefaultXSSPayload is typed into the question input by the security check
	DefaultXSSPayload = "<script>alert('XSS')</script>"

	DefaultReportPath          = "verification_results.json"
	DefaultScreenshotPath      = "verification_screenshot.png"
	DefaultFinalScreenshotPath = "verification_final.png"

	DefaultViewportWidth  = 1920
	DefaultViewportHeight = 1080
)

// Default returns the configuration used when no config source overrides anything
func Default() Config {
	return Config{
		Target:    DefaultTarget,
		Dashboard: DefaultDashboard,
		Browser: browser.Options{
			Headless:       true,
			ViewportWidth:  DefaultViewportWidth,
			ViewportHeight: DefaultViewportHeight,
			UserAgent:      httpclient.UserAgent,
		},
		Plan: Plan{
			Questions: []Question{
				{Label: "basic question", Text: "装備の強化方法を教えてください"},
				{Label: "short question", Text: "こんにちは"},
			},
			Viewports: []Viewport{
				{Label: "desktop", Width: 1920, Height: 1080},
				{Label: "tablet", Width: 768, Height: 1024},
				{Label: "smartphone", Width: 375, Height: 667},
			},
			Selectors:  checks.DefaultSelectors(),
			XSSPayload: DefaultXSSPayload,
		},
		Timing: Timing{
			Navigation:       30 * time.Second,
			ResizeSettle:     2 * time.Second,
			RestoreSettle:    time.Second,
			SubmitSettle:     5 * time.Second,
			Answer:           helper.PollConfig{Interval: time.Second, Attempts: 45},
			BetweenQuestions: 3 * time.Second,
			ValidationSettle: 3 * time.Second,
			Reload:           30 * time.Second,
			ReloadPass:       5 * time.Second,
			ReloadWarn:       10 * time.Second,
			Action:           30 * time.Second,
			Connectivity:     10 * time.Second,
			Verification:     5 * time.Minute,
		},
		Artifacts: Artifacts{
			Report:          DefaultReportPath,
			Screenshot:      DefaultScreenshotPath,
			FinalScreenshot: DefaultFinalScreenshotPath,
		},
	}
}
