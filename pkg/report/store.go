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

// Package report aggregates check results, renders them for humans and persists them.
package report

import (
	"fmt"
	"time"

	"github.com/caas-team/canary/pkg/checks"
)

// Store accumulates the results of one run, grouped by category.
// It has a single writer and is not safe for concurrent use.
type Store struct {
	results       map[checks.Category][]checks.Result
	criticalError string
	summary       *Summary
}

// NewStore returns an empty store
func NewStore() *Store {
	return &Store{results: map[checks.Category][]checks.Result{}}
}

// Add appends a result to the category
func (s *Store) Add(c checks.Category, r checks.Result) {
	s.results[c] = append(s.results[c], r)
}

// Results returns a copy of the results of the category in insertion order
func (s *Store) Results(c checks.Category) []checks.Result {
	return append([]checks.Result{}, s.results[c]...)
}

// All returns every result, ordered by category and insertion
func (s *Store) All() []checks.Result {
	var all []checks.Result
	for _, c := range checks.Categories {
		all = append(all, s.results[c]...)
	}
	return all
}

// Len returns the amount of stored results
func (s *Store) Len() int {
	n := 0
	for _, rs := range s.results {
		n += len(rs)
	}
	return n
}

// SetCriticalError records a failure that prevented the checks from running
func (s *Store) SetCriticalError(err error) {
	if err != nil {
		s.criticalError = err.Error()
	}
}

// CriticalError returns the recorded critical error, if any
func (s *Store) CriticalError() string {
	return s.criticalError
}

// Finalize computes the summary of all stored results. It is meant to be called
// once at the end of a run; the summary is returned by [Store.Summary] afterwards.
func (s *Store) Finalize(runID, target string, at time.Time) Summary {
	c := Count(s.All())
	sum := Summary{
		RunID:         runID,
		Target:        target,
		TotalTests:    c.Total,
		Passed:        c.Passed,
		Failed:        c.Failed,
		Warnings:      c.Warnings,
		SuccessRate:   FormatRate(c),
		Timestamp:     at,
		CriticalError: s.criticalError,
	}
	s.summary = &sum
	return sum
}

// Summary returns the summary computed by [Store.Finalize]
// and false if the store was not finalized yet
func (s *Store) Summary() (Summary, bool) {
	if s.summary == nil {
		return Summary{}, false
	}
	return *s.summary, true
}

// Summary is the overall outcome of a run
type Summary struct {
	RunID       string `json:"run_id,omitempty"`
	Target      string `json:"target,omitempty"`
	TotalTests  int    `json:"total_tests"`
	Passed      int    `json:"passed"`
	Failed      int    `json:"failed"`
	Warnings    int    `json:"warnings"`
	SuccessRate string `json:"success_rate"`
	// Timestamp is the time the run finished
	Timestamp time.Time `json:"timestamp"`
	// CriticalError is set when the run could not execute its checks
	CriticalError string `json:"critical_error,omitempty"`
}

// Counts tallies results by status
type Counts struct {
	Total    int
	Passed   int
	Failed   int
	Warnings int
}

// Count tallies the results
func Count(results []checks.Result) Counts {
	var c Counts
	for _, r := range results {
		c.Total++
		switch r.Status {
		case checks.StatusPass:
			c.Passed++
		case checks.StatusFail:
			c.Failed++
		case checks.StatusWarning:
			c.Warnings++
		}
	}
	return c
}

// SuccessRate returns passed / total * 100, or 0 when there are no results
func (c Counts) SuccessRate() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Passed) / float64(c.Total) * 100
}

// FormatRate renders the success rate with one decimal, e.g. "66.7%".
// Without results it renders "0%".
func FormatRate(c Counts) string {
	if c.Total == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.1f%%", c.SuccessRate())
}

// Quality is the overall rating of a run
type Quality string

const (
	QualityGood             Quality = "good"
	QualityNeedsImprovement Quality = "needs improvement"
	QualityPoor             Quality = "poor"
)

// Rate maps a success rate in percent to its quality band
func Rate(successRate float64) Quality {
	switch {
	case successRate >= 80:
		return QualityGood
	case successRate >= 60:
		return QualityNeedsImprovement
	default:
		return QualityPoor
	}
}

// Issues groups the failed results by priority, most urgent first,
// and lists all warnings separately
type Issues struct {
	Failures map[checks.Priority][]checks.Result
	Warnings []checks.Result
}

// Prioritize groups the results into [Issues]. Failures with an unknown
// priority are treated as low priority.
func Prioritize(results []checks.Result) Issues {
	issues := Issues{Failures: map[checks.Priority][]checks.Result{}}
	for _, r := range results {
		switch r.Status {
		case checks.StatusFail:
			p := r.Priority
			switch p {
			case checks.PriorityCritical, checks.PriorityHigh, checks.PriorityMedium:
			default:
				p = checks.PriorityLow
			}
			issues.Failures[p] = append(issues.Failures[p], r)
		case checks.StatusWarning:
			issues.Warnings = append(issues.Warnings, r)
		}
	}
	return issues
}

// Critical reports whether the run failed critically, either through a
// critical error or a failed check of critical priority
func (s *Store) Critical() bool {
	if s.criticalError != "" {
		return true
	}
	for _, r := range s.All() {
		if r.Status == checks.StatusFail && r.Priority == checks.PriorityCritical {
			return true
		}
	}
	return false
}
