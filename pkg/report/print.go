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

package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/caas-team/canary/pkg/checks"
)

const ruler = "============================================================"

var titles = map[checks.Category]string{
	checks.CategoryBasicFunctionality: "Basic functionality",
	checks.CategoryErrorCases:         "Error cases",
	checks.CategoryUIUX:               "UI/UX",
	checks.CategoryDataIntegrity:      "Data integrity",
	checks.CategorySecurity:           "Security",
	checks.CategoryPerformance:        "Performance",
}

// Title returns the display name of the category
func Title(c checks.Category) string {
	if t, ok := titles[c]; ok {
		return t
	}
	return string(c)
}

// PrintResult writes the one-line form of a result, e.g. "[FAIL] page title: empty title"
func PrintResult(w io.Writer, r checks.Result) {
	fmt.Fprintf(w, "[%s] %s: %s\n", strings.ToUpper(string(r.Status)), r.TestName, r.Details)
}

// PrintSummary writes the per-category tallies, the overall tallies,
// the success rate with its quality band and the completion time
func PrintSummary(w io.Writer, s *Store, finished time.Time) {
	fmt.Fprintln(w, ruler)
	fmt.Fprintln(w, "Verification summary")
	fmt.Fprintln(w, ruler)

	for _, c := range checks.Categories {
		results := s.Results(c)
		if len(results) == 0 {
			continue
		}
		cnt := Count(results)
		fmt.Fprintf(w, "%-20s %d passed, %d failed, %d warnings\n", Title(c)+":", cnt.Passed, cnt.Failed, cnt.Warnings)
	}

	total := Count(s.All())
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Total: %d checks, %d passed, %d failed, %d warnings\n", total.Total, total.Passed, total.Failed, total.Warnings)
	if total.Total > 0 {
		fmt.Fprintf(w, "Success rate: %s (%s)\n", FormatRate(total), Rate(total.SuccessRate()))
	}
	if ce := s.CriticalError(); ce != "" {
		fmt.Fprintf(w, "Critical error: %s\n", ce)
	}
	fmt.Fprintf(w, "Completed at: %s\n", finished.Format(time.DateTime))
}

// PrintIssues writes all failures grouped by priority, most urgent first,
// followed by the warnings. Nothing is written when there are no issues.
func PrintIssues(w io.Writer, s *Store) {
	issues := Prioritize(s.All())
	if len(issues.Failures) == 0 && len(issues.Warnings) == 0 {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, ruler)
	fmt.Fprintln(w, "Issues by priority")
	fmt.Fprintln(w, ruler)
	for _, p := range checks.Priorities {
		failures := issues.Failures[p]
		if len(failures) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s (%d):\n", strings.ToUpper(string(p)), len(failures))
		for _, r := range failures {
			fmt.Fprintf(w, "  - %s: %s\n", r.TestName, r.Details)
		}
	}
	if len(issues.Warnings) > 0 {
		fmt.Fprintf(w, "\nWARNINGS (%d):\n", len(issues.Warnings))
		for _, r := range issues.Warnings {
			fmt.Fprintf(w, "  - %s: %s\n", r.TestName, r.Details)
		}
	}
}
