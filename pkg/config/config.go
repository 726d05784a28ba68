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
	"github.com/caas-team/canary/pkg/browser"
	"github.com/caas-team/canary/pkg/checks"
)

// Config is the complete configuration of a verification or remediation run
type Config struct {
	// Target is the url of the application under test
	Target string `json:"target" yaml:"target" mapstructure:"target"`
	// Dashboard is the settings page of the deployment platform opened by the remediation guide
	Dashboard string `json:"dashboard" yaml:"dashboard" mapstructure:"dashboard"`
	// FailOnCritical makes the verify command exit non-zero when a critical check failed
	FailOnCritical bool `json:"failOnCritical" yaml:"failOnCritical" mapstructure:"failOnCritical"`

	Browser   browser.Options `json:"browser" yaml:"browser" mapstructure:"browser"`
	Plan      Plan            `json:"plan" yaml:"plan" mapstructure:"plan"`
	Timing    Timing          `json:"timing" yaml:"timing" mapstructure:"timing"`
	Artifacts Artifacts       `json:"artifacts" yaml:"artifacts" mapstructure:"artifacts"`
}

// BrowserOptions returns the browser options with the element action bound applied
func (c *Config) BrowserOptions() browser.Options {
	opts := c.Browser
	opts.ActionTimeout = c.Timing.Action
	return opts
}

// Plan describes what the verification does on the page
type Plan struct {
	Questions []Question         `json:"questions" yaml:"questions" mapstructure:"questions"`
	Viewports []Viewport         `json:"viewports" yaml:"viewports" mapstructure:"viewports"`
	Selectors checks.SelectorSet `json:"selectors" yaml:"selectors" mapstructure:"selectors"`
	// XSSPayload is typed into the question input by the security check
	XSSPayload string `json:"xssPayload" yaml:"xssPayload" mapstructure:"xssPayload"`
}

// Question is submitted to the application by the submission check
type Question struct {
	Label string `json:"label" yaml:"label" mapstructure:"label"`
	Text  string `json:"text" yaml:"text" mapstructure:"text"`
}

// Viewport is a screen size the layout is checked at
type Viewport struct {
	Label  string `json:"label" yaml:"label" mapstructure:"label"`
	Width  int    `json:"width" yaml:"width" mapstructure:"width"`
	Height int    `json:"height" yaml:"height" mapstructure:"height"`
}

// Timing holds every wait and bound of a run
type Timing struct {
	// Navigation bounds the initial page load
	Navigation time.Duration `json:"navigation" yaml:"navigation" mapstructure:"navigation"`
	// ResizeSettle is waited after every viewport change
	ResizeSettle time.Duration `json:"resizeSettle" yaml:"resizeSettle" mapstructure:"resizeSettle"`
	// RestoreSettle is waited after the default viewport was restored
	RestoreSettle time.Duration `json:"restoreSettle" yaml:"restoreSettle" mapstructure:"restoreSettle"`
	// SubmitSettle is waited after a question was sent before looking for a loading indicator
	SubmitSettle time.Duration `json:"submitSettle" yaml:"submitSettle" mapstructure:"submitSettle"`
	// Answer is the cadence and bound of the answer polling
	Answer helper.PollConfig `json:"answer" yaml:"answer" mapstructure:"answer"`
	// BetweenQuestions is waited after each question
	BetweenQuestions time.Duration `json:"betweenQuestions" yaml:"betweenQuestions" mapstructure:"betweenQuestions"`
	// ValidationSettle is waited after submitting an empty question
	ValidationSettle time.Duration `json:"validationSettle" yaml:"validationSettle" mapstructure:"validationSettle"`
	// Reload bounds the page reload of the performance check
	Reload time.Duration `json:"reload" yaml:"reload" mapstructure:"reload"`
	// ReloadPass and ReloadWarn are the upper bounds for a passing and a warned reload
	ReloadPass time.Duration `json:"reloadPass" yaml:"reloadPass" mapstructure:"reloadPass"`
	ReloadWarn time.Duration `json:"reloadWarn" yaml:"reloadWarn" mapstructure:"reloadWarn"`
	// Action bounds every single element operation like a click or typing into an input
	Action time.Duration `json:"action" yaml:"action" mapstructure:"action"`
	// Connectivity bounds the http access check
	Connectivity time.Duration `json:"connectivity" yaml:"connectivity" mapstructure:"connectivity"`
	// Verification bounds a verification started by the remediation guide
	Verification time.Duration `json:"verification" yaml:"verification" mapstructure:"verification"`
}

// Artifacts are the files written by a verification
type Artifacts struct {
	Report          string `json:"report" yaml:"report" mapstructure:"report"`
	Screenshot      string `json:"screenshot" yaml:"screenshot" mapstructure:"screenshot"`
	FinalScreenshot string `json:"finalScreenshot" yaml:"finalScreenshot" mapstructure:"finalScreenshot"`
	// Metrics is optional, metrics are only written when set
	Metrics string `json:"metrics,omitempty" yaml:"metrics,omitempty" mapstructure:"metrics"`
}
