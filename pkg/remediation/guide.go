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

// Package remediation guides an operator through lifting the access protection
// of a deployment and verifies the result.
package remediation

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/caas-team/canary/internal/logger"
	"github.com/caas-team/canary/pkg/config"
	"github.com/caas-team/canary/pkg/connectivity"
	"github.com/caas-team/canary/pkg/report"
	"github.com/caas-team/canary/pkg/verify"
)

// Steps are the manual steps shown to the operator
var Steps = []string{
	"Sign in to Vercel",
	"Click 'Settings' in the left sidebar",
	"Select the 'General' tab",
	"Find the 'Protection' section",
	"Disable any authentication or password protection",
	"Check the 'Security' tab and lift restrictions that are not needed",
	"Save the changes",
}

// Guide runs the remediation flow
type Guide struct {
	cfg *config.Config
	// dashboard opens a visible browser for the operator
	dashboard verify.LaunchFunc
	// verification starts the browser of the verification run
	verification verify.LaunchFunc
	in           io.Reader
	out          io.Writer
}

// Outcome describes what the guide did
type Outcome struct {
	// Before is the access check done before anything else
	Before connectivity.Result
	// After is the access check done after the manual steps, nil if they were not needed
	After *connectivity.Result
	// Store holds the verification results if the target was reachable right away
	Store *report.Store
}

// NewGuide creates a guide. The dashboard browser is started with dashboard,
// the verification browser with verification. Confirmation is read from in.
func NewGuide(cfg *config.Config, dashboard, verification verify.LaunchFunc, in io.Reader, out io.Writer) *Guide {
	return &Guide{
		cfg:          cfg,
		dashboard:    dashboard,
		verification: verification,
		in:           in,
		out:          out,
	}
}

// Run checks the target and either verifies it right away or walks the
// operator through the manual steps and checks again afterwards
func (g *Guide) Run(ctx context.Context) (Outcome, error) {
	ctx, cancel := logger.NewContextWithLogger(ctx, "remediation")
	defer cancel()

	fmt.Fprintln(g.out, "Checking current access to the deployment...")
	before := g.check(ctx)
	outcome := Outcome{Before: before}

	if before.Reachable {
		fmt.Fprintln(g.out, "The deployment is reachable, running the verification...")
		store, err := g.verify(ctx)
		outcome.Store = store
		return outcome, err
	}

	fmt.Fprintln(g.out, "The deployment is not reachable, starting the manual fix...")
	if err := g.manualFix(ctx); err != nil {
		return outcome, err
	}

	fmt.Fprintln(g.out, "\nTesting access after the fix...")
	after := g.check(ctx)
	outcome.After = &after
	return outcome, nil
}

// check runs the access check and prints its outcome. Transport errors
// are printed and count as not reachable.
func (g *Guide) check(ctx context.Context) connectivity.Result {
	fmt.Fprintf(g.out, "Access test: %s\n", g.cfg.Target)
	res, err := connectivity.Check(ctx, g.cfg.Target, g.cfg.Timing.Connectivity)
	switch {
	case err != nil:
		fmt.Fprintf(g.out, "Access test failed: %v\n", err)
	case res.Reachable:
		fmt.Fprintf(g.out, "Success: the site is reachable (status %d)\n", res.Status)
	default:
		fmt.Fprintf(g.out, "Status code: %d\n", res.Status)
		if res.Note != "" {
			fmt.Fprintf(g.out, "Still blocked: %s\n", res.Note)
		}
	}
	return res
}

// verify runs the verification in process, bounded by the verification timeout
func (g *Guide) verify(ctx context.Context) (*report.Store, error) {
	if g.cfg.Timing.Verification > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timing.Verification)
		defer cancel()
	}

	store, err := verify.Execute(ctx, g.cfg, g.verification, g.out)
	if errors.Is(err, context.DeadlineExceeded) {
		fmt.Fprintf(g.out, "The verification timed out after %s\n", g.cfg.Timing.Verification)
	}
	return store, err
}

// manualFix opens the dashboard in a visible browser, prints the steps
// and blocks until the operator confirms
func (g *Guide) manualFix(ctx context.Context) error {
	log := logger.FromContext(ctx)

	fmt.Fprintf(g.out, "Opening the dashboard: %s\n", g.cfg.Dashboard)
	session, err := g.dashboard(ctx)
	if err != nil {
		return fmt.Errorf("failed to open dashboard browser: %w", err)
	}
	defer func() {
		if cErr := session.Close(); cErr != nil {
			log.Warn("Failed to close dashboard browser", "error", cErr)
		}
	}()

	if _, err := session.Navigate(ctx, g.cfg.Dashboard, g.cfg.Timing.Navigation); err != nil {
		log.Warn("Failed to open dashboard, the operator has to navigate manually", "error", err)
		fmt.Fprintf(g.out, "Could not open the dashboard automatically, please open %s\n", g.cfg.Dashboard)
	}

	fmt.Fprintln(g.out, "\nManual steps:")
	for i, step := range Steps {
		fmt.Fprintf(g.out, "%d. %s\n", i+1, step)
	}
	fmt.Fprintln(g.out, "\nChange the settings in the opened browser.")
	fmt.Fprint(g.out, "Press Enter once the settings are saved...")

	return g.awaitEnter(ctx)
}

// awaitEnter blocks until a line or EOF was read or the context is done
func (g *Guide) awaitEnter(ctx context.Context) error {
	done := make(chan error, 1)
	// The reader cannot be interrupted. On cancellation the goroutine stays
	// blocked until input arrives or the process exits.
	go func() {
		_, err := bufio.NewReader(g.in).ReadString('\n')
		if errors.Is(err, io.EOF) {
			err = nil
		}
		done <- err
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		fmt.Fprintln(g.out)
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		return nil
	}
}
