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

// Package checks contains the result types shared by all verification checks.
package checks

import (
	"time"
)

// Status is the outcome of a single check
type Status string

const (
	StatusPass    Status = "pass"
	StatusFail    Status = "fail"
	StatusWarning Status = "warning"
)

// Valid reports whether s is a known status
func (s Status) Valid() bool {
	switch s {
	case StatusPass, StatusFail, StatusWarning:
		return true
	}
	return false
}

// Priority ranks failed and warned checks in the report
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// DefaultPriority is used for results that do not state their own priority
const DefaultPriority = PriorityMedium

// Priorities lists all priorities from the most to the least urgent
var Priorities = []Priority{PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow}

// Category groups results in the report
type Category string

const (
	CategoryBasicFunctionality Category = "basic_functionality"
	CategoryErrorCases         Category = "error_cases"
	CategoryUIUX               Category = "ui_ux"
	CategoryDataIntegrity      Category = "data_integrity"
	CategorySecurity           Category = "security"
	CategoryPerformance        Category = "performance"
)

// Categories lists the fixed set of categories in report order
var Categories = []Category{
	CategoryBasicFunctionality,
	CategoryErrorCases,
	CategoryUIUX,
	CategoryDataIntegrity,
	CategorySecurity,
	CategoryPerformance,
}

// Valid reports whether c is one of [Categories]
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Result is the immutable record of one executed check
type Result struct {
	// TestName identifies the check and its variant, e.g. "responsive desktop"
	TestName string `json:"test_name"`
	Status   Status `json:"status"`
	// Details is the human readable explanation of the status
	Details  string   `json:"details"`
	Priority Priority `json:"priority"`
	// Fault is set when the check could not run at all
	Fault     bool      `json:"fault,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Verdict is what a check concludes about the application under test
type Verdict struct {
	Status   Status
	Priority Priority
	Details  string
}

// Pass returns a passing verdict with the default priority
func Pass(details string) Verdict {
	return Verdict{Status: StatusPass, Priority: DefaultPriority, Details: details}
}

// Fail returns a failing verdict with the given priority
func Fail(p Priority, details string) Verdict {
	return Verdict{Status: StatusFail, Priority: p, Details: details}
}

// Warn returns a warning verdict with the given priority
func Warn(p Priority, details string) Verdict {
	return Verdict{Status: StatusWarning, Priority: p, Details: details}
}

// Result turns the verdict into a result of the named check
func (v Verdict) Result(name string, at time.Time) Result {
	return Result{
		TestName:  name,
		Status:    v.Status,
		Details:   v.Details,
		Priority:  v.Priority,
		Timestamp: at,
	}
}

// FaultResult records that the named check could not run because of err.
// The error message becomes the details.
func FaultResult(name string, p Priority, err error, at time.Time) Result {
	return Result{
		TestName:  name,
		Status:    StatusFail,
		Details:   err.Error(),
		Priority:  p,
		Fault:     true,
		Timestamp: at,
	}
}
