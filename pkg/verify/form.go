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
	"strings"

	"github.com/caas-team/canary/internal/helper"
	"github.com/caas-team/canary/pkg/browser"
	"github.com/caas-team/canary/pkg/checks"
)

func (r *run) emptyInputStep(ctx context.Context) {
	r.check(ctx, checks.CategoryErrorCases, "empty input validation", checks.PriorityMedium, r.emptyInput)
}

// emptyInput submits an empty question and expects a validation message
func (r *run) emptyInput(ctx context.Context) (checks.Verdict, error) {
	input, submit, err := r.form(ctx)
	if err != nil {
		return checks.Verdict{}, err
	}
	if input == nil || submit == nil {
		return checks.Fail(checks.PriorityHigh, "question form not found"), nil
	}

	if err := input.Clear(); err != nil {
		return checks.Verdict{}, fmt.Errorf("failed to clear input: %w", err)
	}
	if err := submit.Click(); err != nil {
		return checks.Verdict{}, fmt.Errorf("failed to click submit: %w", err)
	}
	if err := helper.Wait(ctx, r.cfg.Timing.ValidationSettle); err != nil {
		return checks.Verdict{}, err
	}

	shown, err := browser.Exists(ctx, r.session, r.cfg.Plan.Selectors.Validation)
	if err != nil {
		return checks.Verdict{}, fmt.Errorf("failed to locate validation message: %w", err)
	}
	if shown {
		return checks.Pass("empty input is rejected with a message"), nil
	}
	return checks.Warn(checks.PriorityMedium, "no validation message for empty input"), nil
}

func (r *run) xssStep(ctx context.Context) {
	r.check(ctx, checks.CategorySecurity, "xss input handling", checks.PriorityLow, r.xssEcho)
}

// xssEcho types a script payload into the question input without sending it
// and checks whether the input keeps it unchanged. It only observes the client
// side handling of the input.
func (r *run) xssEcho(ctx context.Context) (checks.Verdict, error) {
	input, _, err := browser.First(ctx, r.session, r.cfg.Plan.Selectors.TextInput)
	if err != nil {
		return checks.Verdict{}, fmt.Errorf("failed to locate text input: %w", err)
	}
	if input == nil {
		return checks.Fail(checks.PriorityMedium, "text input not found"), nil
	}

	payload := r.cfg.Plan.XSSPayload
	if err := input.Clear(); err != nil {
		return checks.Verdict{}, fmt.Errorf("failed to clear input: %w", err)
	}
	if err := input.Fill(payload); err != nil {
		return checks.Verdict{}, fmt.Errorf("failed to fill input: %w", err)
	}
	value, err := input.Value()
	if err != nil {
		return checks.Verdict{}, fmt.Errorf("failed to read input value: %w", err)
	}

	if strings.Contains(value, payload) {
		return checks.Warn(checks.PriorityMedium, "script tag is accepted unchanged"), nil
	}
	return checks.Pass("input value is sanitized"), nil
}
