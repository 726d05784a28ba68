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

package helper

import (
	"context"
	"errors"
	"time"
)

// ErrPollExhausted is returned by [Poll] when the condition was not met within the configured attempts
var ErrPollExhausted = errors.New("condition not met within poll attempts")

// PollConfig configures the cadence and the upper bound of [Poll]
type PollConfig struct {
	// Interval is waited before every attempt
	Interval time.Duration `json:"interval" yaml:"interval" mapstructure:"interval"`
	// Attempts is the maximum amount of times the condition is evaluated
	Attempts int `json:"attempts" yaml:"attempts" mapstructure:"attempts"`
}

// Deadline returns the longest time a [Poll] with this configuration can take
func (pc PollConfig) Deadline() time.Duration {
	return time.Duration(pc.Attempts) * pc.Interval
}

// Condition is evaluated once per poll attempt, attempt starts at 1.
// Returning done stops the polling, returning an error aborts it.
type Condition func(ctx context.Context, attempt int) (done bool, err error)

// Poll evaluates the condition after every interval until it is done,
// the attempts are used up or the context is canceled.
// It returns the attempt the condition was met at. If the attempts are used up
// the returned error is ErrPollExhausted and the attempt equals pc.Attempts.
func Poll(ctx context.Context, cond Condition, pc PollConfig) (int, error) {
	for attempt := 1; attempt <= pc.Attempts; attempt++ {
		if err := Wait(ctx, pc.Interval); err != nil {
			return attempt - 1, err
		}

		done, err := cond(ctx, attempt)
		if err != nil {
			return attempt, err
		}
		if done {
			return attempt, nil
		}
	}
	return pc.Attempts, ErrPollExhausted
}

// Wait blocks for the given duration or until the context is done
func Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
