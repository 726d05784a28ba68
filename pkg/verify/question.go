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
	"strings"
	"time"
	"unicode/utf8"

	"github.com/caas-team/canary/internal/helper"
	"github.com/caas-team/canary/internal/logger"
	"github.com/caas-team/canary/pkg/browser"
	"github.com/caas-team/canary/pkg/checks"
	"github.com/caas-team/canary/pkg/config"
)

// minAnswerLength is the amount of characters an element's text must exceed
// to count as a generated answer
const minAnswerLength = 20

// questions submits every configured question and waits for its answer
func (r *run) questions(ctx context.Context) {
	for _, q := range r.cfg.Plan.Questions {
		if ctx.Err() != nil {
			return
		}
		r.ask(ctx, q)
		if err := helper.Wait(ctx, r.cfg.Timing.BetweenQuestions); err != nil {
			return
		}
	}
}

// ask submits one question and records the loading indicator and answer checks
func (r *run) ask(ctx context.Context, q config.Question) {
	log := logger.FromContext(ctx).With("question", q.Label)
	sel := r.cfg.Plan.Selectors

	input, submit, err := r.form(ctx)
	if err != nil {
		r.record(ctx, checks.CategoryBasicFunctionality, "question submission "+q.Label, checks.PriorityHigh, checks.Verdict{}, err)
		return
	}
	if input == nil || submit == nil {
		r.record(ctx, checks.CategoryBasicFunctionality, "form elements "+q.Label, checks.PriorityCritical,
			checks.Fail(checks.PriorityCritical, "question form not found"), nil)
		return
	}

	log.Debug("Submitting question", "text", q.Text)
	if err := submitText(input, submit, q.Text); err != nil {
		r.record(ctx, checks.CategoryBasicFunctionality, "question submission "+q.Label, checks.PriorityHigh, checks.Verdict{}, err)
		return
	}
	if err := helper.Wait(ctx, r.cfg.Timing.SubmitSettle); err != nil {
		return
	}

	r.check(ctx, checks.CategoryUIUX, "loading indicator "+q.Label, checks.PriorityLow, func(ctx context.Context) (checks.Verdict, error) {
		shown, err := browser.Exists(ctx, r.session, sel.Loading)
		if err != nil {
			return checks.Verdict{}, fmt.Errorf("failed to locate loading indicator: %w", err)
		}
		if shown {
			return checks.Pass("loading state is shown"), nil
		}
		return checks.Warn(checks.PriorityLow, "no loading state found"), nil
	})

	log.Debug("Waiting for answer", "timeout", r.cfg.Timing.Answer.Deadline())
	r.check(ctx, checks.CategoryBasicFunctionality, "answer "+q.Label, checks.PriorityHigh, func(ctx context.Context) (checks.Verdict, error) {
		return r.awaitAnswer(ctx, q)
	})
}

// form returns the first question input and submit button, nil if not found
func (r *run) form(ctx context.Context) (input, submit browser.Element, err error) {
	sel := r.cfg.Plan.Selectors
	input, _, err = browser.First(ctx, r.session, sel.TextInput)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to locate text input: %w", err)
	}
	submit, _, err = browser.First(ctx, r.session, sel.Submit)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to locate submit button: %w", err)
	}
	return input, submit, nil
}

func submitText(input, submit browser.Element, text string) error {
	if err := input.Clear(); err != nil {
		return fmt.Errorf("failed to clear input: %w", err)
	}
	if err := input.Fill(text); err != nil {
		return fmt.Errorf("failed to fill input: %w", err)
	}
	if err := submit.Click(); err != nil {
		return fmt.Errorf("failed to click submit: %w", err)
	}
	return nil
}

// awaitAnswer polls the page until an answer is shown or the poll attempts are used up.
// An error message shown by the application does not stop the polling. It is recorded
// as a warning only the first time it is seen for a question, not on every attempt
// it stays visible.
func (r *run) awaitAnswer(ctx context.Context, q config.Question) (checks.Verdict, error) {
	log := logger.FromContext(ctx)
	pc := r.cfg.Timing.Answer
	start := time.Now()

	var answer string
	errorShown := false
	attempt, err := helper.Poll(ctx, func(ctx context.Context, attempt int) (bool, error) {
		text, err := r.answerText(ctx)
		if err != nil {
			return false, err
		}
		if text != "" {
			answer = text
			return true, nil
		}

		if !errorShown {
			msg, err := r.errorText(ctx)
			if err != nil {
				return false, err
			}
			if msg != "" {
				errorShown = true
				r.record(ctx, checks.CategoryErrorCases, "api error "+q.Label, checks.PriorityMedium,
					checks.Warn(checks.PriorityMedium, "error shown: "+msg), nil)
			}
		}
		log.Debug("Waiting for answer", "attempt", attempt, "attempts", pc.Attempts)
		return false, nil
	}, pc)

	switch {
	case err == nil:
		log.Debug("Answer received", "attempt", attempt)
		return checks.Pass(fmt.Sprintf("answer received in %.1fs (%d characters)",
			time.Since(start).Seconds(), utf8.RuneCountInString(answer))), nil
	case errors.Is(err, helper.ErrPollExhausted):
		return checks.Fail(checks.PriorityHigh, fmt.Sprintf("no answer within %s", pc.Deadline())), nil
	default:
		return checks.Verdict{}, fmt.Errorf("failed to poll for answer: %w", err)
	}
}

// answerText returns the text of the first visible element long enough to be an answer.
// Selectors are scanned in order, so earlier selectors win.
func (r *run) answerText(ctx context.Context) (string, error) {
	for _, sel := range r.cfg.Plan.Selectors.Answer {
		els, err := r.session.Locate(ctx, sel)
		if err != nil {
			return "", fmt.Errorf("failed to locate answer: %w", err)
		}
		for _, el := range els {
			visible, err := el.Visible()
			if err != nil || !visible {
				continue
			}
			text, err := el.Text()
			if err != nil {
				continue
			}
			text = strings.TrimSpace(text)
			if utf8.RuneCountInString(text) > minAnswerLength {
				return text, nil
			}
		}
	}
	return "", nil
}

// errorText returns the text of the first non empty element matching the error selectors
func (r *run) errorText(ctx context.Context) (string, error) {
	for _, sel := range r.cfg.Plan.Selectors.Error {
		els, err := r.session.Locate(ctx, sel)
		if err != nil {
			return "", fmt.Errorf("failed to locate error message: %w", err)
		}
		for _, el := range els {
			text, err := el.Text()
			if err != nil {
				continue
			}
			if text = strings.TrimSpace(text); text != "" {
				return text, nil
			}
		}
	}
	return "", nil
}
