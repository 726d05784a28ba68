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
	"time"

	"github.com/caas-team/canary/pkg/checks"
)

func (r *run) reloadStep(ctx context.Context) {
	r.check(ctx, checks.CategoryPerformance, "page reload speed", checks.PriorityLow, r.reload)
}

// reload measures how long reloading the page takes until the network is idle
func (r *run) reload(ctx context.Context) (checks.Verdict, error) {
	t := r.cfg.Timing
	start := time.Now()
	if err := r.session.Reload(ctx, t.Reload); err != nil {
		return checks.Verdict{}, fmt.Errorf("reload failed: %w", err)
	}
	elapsed := time.Since(start)

	details := fmt.Sprintf("reload took %.2fs", elapsed.Seconds())
	switch {
	case elapsed < t.ReloadPass:
		return checks.Pass(details), nil
	case elapsed < t.ReloadWarn:
		return checks.Warn(checks.PriorityLow, details), nil
	default:
		return checks.Fail(checks.PriorityMedium, details), nil
	}
}
