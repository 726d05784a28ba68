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
	"errors"
	"fmt"
	"io"

	"github.com/caas-team/canary/internal/logger"
	"github.com/caas-team/canary/pkg/config"
	"github.com/caas-team/canary/pkg/report"
)

// Execute runs a verification, prints its summary and prioritized issues to out
// and writes the report and the optional metrics file. The returned error joins
// the run error with any error writing the artifacts.
func Execute(ctx context.Context, cfg *config.Config, launch LaunchFunc, out io.Writer) (*report.Store, error) {
	log := logger.FromContext(ctx)
	store, runErr := New(cfg, launch, out).Run(ctx)

	sum, _ := store.Summary()
	fmt.Fprintln(out)
	report.PrintSummary(out, store, sum.Timestamp)
	report.PrintIssues(out, store)

	var errs []error
	if runErr != nil {
		errs = append(errs, runErr)
	}
	doc := store.Document()
	if err := doc.WriteFile(cfg.Artifacts.Report); err != nil {
		log.Error("Failed to write report", "path", cfg.Artifacts.Report, "error", err)
		errs = append(errs, err)
	} else {
		fmt.Fprintf(out, "\nDetailed results saved: %s\n", cfg.Artifacts.Report)
	}

	if cfg.Artifacts.Metrics != "" {
		m := report.NewMetrics(false)
		m.Observe(store)
		if err := m.WriteFile(cfg.Artifacts.Metrics); err != nil {
			log.Error("Failed to write metrics", "path", cfg.Artifacts.Metrics, "error", err)
			errs = append(errs, err)
		}
	}
	return store, errors.Join(errs...)
}
