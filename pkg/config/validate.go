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
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/caas-team/canary/internal/logger"
)

// Validate checks the configuration and returns all problems found
func (c *Config) Validate(ctx context.Context) error {
	ctx, cancel := logger.NewContextWithLogger(ctx, "configValidation")
	defer cancel()
	log := logger.FromContext(ctx)

	var errs []error
	invalid := func(field, reason string) {
		log.ErrorContext(ctx, "Invalid configuration", "field", field, "reason", reason)
		errs = append(errs, ErrInvalidConfig{Field: field, Reason: reason})
	}

	if !isHttpURL(c.Target) {
		invalid("target", "must be an absolute http or https url")
	}
	if c.Dashboard != "" && !isHttpURL(c.Dashboard) {
		invalid("dashboard", "must be an absolute http or https url")
	}

	for i, q := range c.Plan.Questions {
		if q.Label == "" {
			invalid(fmt.Sprintf("plan.questions[%d].label", i), "must not be empty")
		}
		if q.Text == "" {
			invalid(fmt.Sprintf("plan.questions[%d].text", i), "must not be empty")
		}
	}
	for i, v := range c.Plan.Viewports {
		if v.Width <= 0 || v.Height <= 0 {
			invalid(fmt.Sprintf("plan.viewports[%d]", i), "width and height must be positive")
		}
	}

	s := c.Plan.Selectors
	for field, sel := range map[string][]string{
		"plan.selectors.textInput": s.TextInput,
		"plan.selectors.button":    s.Button,
		"plan.selectors.submit":    s.Submit,
		"plan.selectors.answer":    s.Answer,
	} {
		if len(sel) == 0 {
			invalid(field, "at least one selector is required")
		}
	}

	if c.Timing.Answer.Attempts < 1 {
		invalid("timing.answer.attempts", "must be at least 1")
	}
	if c.Timing.Answer.Interval <= 0 {
		invalid("timing.answer.interval", "must be positive")
	}
	if c.Timing.Navigation <= 0 {
		invalid("timing.navigation", "must be positive")
	}
	if c.Timing.Action <= 0 {
		invalid("timing.action", "must be positive")
	}
	if c.Timing.ReloadPass > c.Timing.ReloadWarn {
		invalid("timing.reloadPass", "must not exceed timing.reloadWarn")
	}

	if c.Artifacts.Report == "" {
		invalid("artifacts.report", "must not be empty")
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation of configuration failed: %w", errors.Join(errs...))
	}
	return nil
}

func isHttpURL(raw string) bool {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
