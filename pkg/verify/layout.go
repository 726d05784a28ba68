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

	"github.com/caas-team/canary/internal/helper"
	"github.com/caas-team/canary/internal/logger"
	"github.com/caas-team/canary/pkg/browser"
	"github.com/caas-team/canary/pkg/checks"
	"github.com/caas-team/canary/pkg/config"
)

// responsive records one result per configured viewport and restores
// the default viewport afterwards
func (r *run) responsive(ctx context.Context) {
	for _, vp := range r.cfg.Plan.Viewports {
		if ctx.Err() != nil {
			return
		}
		r.check(ctx, checks.CategoryUIUX, "responsive "+vp.Label, checks.PriorityMedium, func(ctx context.Context) (checks.Verdict, error) {
			return r.viewport(ctx, vp)
		})
	}

	w, h := r.cfg.Browser.ViewportWidth, r.cfg.Browser.ViewportHeight
	if err := r.session.Resize(ctx, w, h); err != nil {
		logger.FromContext(ctx).Warn("Failed to restore viewport", "width", w, "height", h, "error", err)
		return
	}
	_ = helper.Wait(ctx, r.cfg.Timing.RestoreSettle)
}

func (r *run) viewport(ctx context.Context, vp config.Viewport) (checks.Verdict, error) {
	if err := r.session.Resize(ctx, vp.Width, vp.Height); err != nil {
		return checks.Verdict{}, fmt.Errorf("failed to resize to %dx%d: %w", vp.Width, vp.Height, err)
	}
	if err := helper.Wait(ctx, r.cfg.Timing.ResizeSettle); err != nil {
		return checks.Verdict{}, err
	}

	inputVisible, err := r.firstVisible(ctx, r.cfg.Plan.Selectors.TextInput)
	if err != nil {
		return checks.Verdict{}, err
	}
	buttonVisible, err := r.firstVisible(ctx, r.cfg.Plan.Selectors.Button)
	if err != nil {
		return checks.Verdict{}, err
	}

	if inputVisible && buttonVisible {
		return checks.Pass(fmt.Sprintf("%s (%dx%d) renders the form", vp.Label, vp.Width, vp.Height)), nil
	}
	return checks.Fail(checks.PriorityHigh,
		fmt.Sprintf("%s (%dx%d) hides form elements (input visible: %t, button visible: %t)",
			vp.Label, vp.Width, vp.Height, inputVisible, buttonVisible)), nil
}

// firstVisible reports whether the first element found by the selectors is visible
func (r *run) firstVisible(ctx context.Context, selectors checks.Selectors) (bool, error) {
	el, _, err := browser.First(ctx, r.session, selectors)
	if err != nil {
		return false, fmt.Errorf("failed to locate element: %w", err)
	}
	if el == nil {
		return false, nil
	}
	visible, err := el.Visible()
	if err != nil {
		return false, fmt.Errorf("failed to check visibility: %w", err)
	}
	return visible, nil
}
