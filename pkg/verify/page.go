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
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/caas-team/canary/pkg/browser"
	"github.com/caas-team/canary/pkg/checks"
)

// pageLoad opens the target and classifies the status of the main document
func (r *run) pageLoad(ctx context.Context) (checks.Verdict, error) {
	start := time.Now()
	status, err := r.session.Navigate(ctx, r.cfg.Target, r.cfg.Timing.Navigation)
	if err != nil {
		return checks.Verdict{}, fmt.Errorf("navigation to %s failed: %w", r.cfg.Target, err)
	}

	switch status {
	case http.StatusOK:
		return checks.Pass(fmt.Sprintf("loaded in %.2fs", time.Since(start).Seconds())), nil
	case http.StatusUnauthorized:
		return checks.Fail(checks.PriorityCritical, "HTTP error: 401 (auth error)"), nil
	case 0:
		return checks.Fail(checks.PriorityCritical, "HTTP error: no response"), nil
	default:
		return checks.Fail(checks.PriorityCritical, fmt.Sprintf("HTTP error: %d", status)), nil
	}
}

func (r *run) pageTitle(ctx context.Context) (checks.Verdict, error) {
	title, err := r.session.Title(ctx)
	if err != nil {
		return checks.Verdict{}, fmt.Errorf("failed to read title: %w", err)
	}
	if title == "" {
		return checks.Warn(checks.PriorityMedium, "title missing or empty"), nil
	}
	return checks.Pass(fmt.Sprintf("title: %q", title)), nil
}

// coreUI confirms the question form is rendered
func (r *run) coreUI(ctx context.Context) (checks.Verdict, error) {
	sel := r.cfg.Plan.Selectors
	inputs, err := browser.Count(ctx, r.session, sel.TextInput)
	if err != nil {
		return checks.Verdict{}, fmt.Errorf("failed to locate text inputs: %w", err)
	}
	buttons, err := browser.Count(ctx, r.session, sel.Button)
	if err != nil {
		return checks.Verdict{}, fmt.Errorf("failed to locate buttons: %w", err)
	}

	details := fmt.Sprintf("inputs: %d, buttons: %d", inputs, buttons)
	if inputs > 0 && buttons > 0 {
		return checks.Pass("form elements present (" + details + ")"), nil
	}
	return checks.Fail(checks.PriorityCritical, "form elements missing ("+details+")"), nil
}
