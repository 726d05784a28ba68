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

// Package verify drives a browser through the deployed application and records
// the outcome of every check in a [report.Store].
package verify

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/caas-team/canary/internal/logger"
	"github.com/caas-team/canary/pkg/browser"
	"github.com/caas-team/canary/pkg/checks"
	"github.com/caas-team/canary/pkg/config"
	"github.com/caas-team/canary/pkg/report"
)

// LaunchFunc starts the browser session a run is executed in
type LaunchFunc func(ctx context.Context) (browser.Session, error)

// Launcher returns a [LaunchFunc] starting a rod controlled chromium with the options
func Launcher(opts browser.Options) LaunchFunc {
	return func(ctx context.Context) (browser.Session, error) {
		s, err := browser.Launch(ctx, opts)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

// Engine executes the ordered verification checks against one target
type Engine struct {
	cfg    *config.Config
	launch LaunchFunc
	out    io.Writer
	now    func() time.Time
}

// New creates an engine. Every result is printed to out as soon as it is recorded.
func New(cfg *config.Config, launch LaunchFunc, out io.Writer) *Engine {
	if out == nil {
		out = io.Discard
	}
	return &Engine{cfg: cfg, launch: launch, out: out, now: time.Now}
}

// Run executes all checks and returns the finalized store. The store is returned
// even when the run was aborted; the error then tells why. Aborts caused by the
// application wrap [ErrPageLoad] or [ErrMissingUI], a browser that could not be
// started wraps [ErrBrowserInit] and leaves the store without results.
func (e *Engine) Run(ctx context.Context) (*report.Store, error) {
	ctx, cancel := logger.NewContextWithLogger(ctx, "verify")
	defer cancel()
	log := logger.FromContext(ctx)

	store := report.NewStore()
	runID := uuid.NewString()
	log.Info("Starting verification", "target", e.cfg.Target, "run", runID)

	err := e.execute(ctx, store)
	if err != nil {
		log.Error("Verification aborted", "error", err)
	}
	sum := store.Finalize(runID, e.cfg.Target, e.now())
	log.Info("Verification finished", "total", sum.TotalTests, "passed", sum.Passed, "failed", sum.Failed, "warnings", sum.Warnings)
	return store, err
}

func (e *Engine) execute(ctx context.Context, store *report.Store) (err error) {
	session, err := e.launch(ctx)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrBrowserInit, err)
		store.SetCriticalError(err)
		return err
	}
	defer func() {
		if cErr := session.Close(); cErr != nil {
			logger.FromContext(ctx).Warn("Failed to close browser session", "error", cErr)
		}
	}()

	r := &run{
		cfg:     e.cfg,
		session: session,
		store:   store,
		out:     e.out,
		now:     e.now,
	}
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", ErrSession, p)
			r.record(ctx, checks.CategoryBasicFunctionality, "browser session", checks.PriorityHigh, checks.Verdict{}, err)
		}
	}()
	return r.all(ctx)
}

// run holds the state of a single verification
type run struct {
	cfg     *config.Config
	session browser.Session
	store   *report.Store
	out     io.Writer
	now     func() time.Time
}

// all executes the checks in order. It stops early if the page did not load,
// the question form is missing or the context is done.
func (r *run) all(ctx context.Context) error {
	log := logger.FromContext(ctx)

	if res := r.check(ctx, checks.CategoryBasicFunctionality, "page load", checks.PriorityCritical, r.pageLoad); res.Status == checks.StatusFail {
		return fmt.Errorf("%w: %s", ErrPageLoad, res.Details)
	}
	r.screenshot(ctx, r.cfg.Artifacts.Screenshot)

	r.check(ctx, checks.CategoryBasicFunctionality, "page title", checks.PriorityLow, r.pageTitle)
	if res := r.check(ctx, checks.CategoryBasicFunctionality, "core ui elements", checks.PriorityCritical, r.coreUI); res.Status == checks.StatusFail {
		return fmt.Errorf("%w: %s", ErrMissingUI, res.Details)
	}

	steps := []struct {
		name string
		fn   func(context.Context)
	}{
		{name: "responsive layout", fn: r.responsive},
		{name: "question submission", fn: r.questions},
		{name: "empty input validation", fn: r.emptyInputStep},
		{name: "xss input handling", fn: r.xssStep},
		{name: "reload performance", fn: r.reloadStep},
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		log.Debug("Running step", "step", step.name)
		step.fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.screenshot(ctx, r.cfg.Artifacts.FinalScreenshot)
	return nil
}

// checkFunc evaluates one check. A returned error means the check could not run.
type checkFunc func(ctx context.Context) (checks.Verdict, error)

// check runs fn and records its outcome under name. Faults are recorded
// as failures with the fault priority.
func (r *run) check(ctx context.Context, c checks.Category, name string, fault checks.Priority, fn checkFunc) checks.Result {
	v, err := fn(ctx)
	return r.record(ctx, c, name, fault, v, err)
}

// record adds exactly one result to the store and prints it
func (r *run) record(ctx context.Context, c checks.Category, name string, fault checks.Priority, v checks.Verdict, err error) checks.Result {
	var res checks.Result
	if err != nil {
		res = checks.FaultResult(name, fault, err, r.now())
	} else {
		res = v.Result(name, r.now())
	}
	r.store.Add(c, res)
	report.PrintResult(r.out, res)
	logger.FromContext(ctx).Debug("Check recorded",
		"category", c,
		"check", name,
		"status", res.Status,
		"priority", res.Priority,
		"fault", res.Fault,
	)
	return res
}

// screenshot saves the current viewport. Failures are only logged.
func (r *run) screenshot(ctx context.Context, path string) {
	log := logger.FromContext(ctx)
	if path == "" {
		return
	}
	if err := r.session.Screenshot(ctx, path); err != nil {
		log.Warn("Failed to take screenshot", "path", path, "error", err)
		return
	}
	fmt.Fprintf(r.out, "Screenshot saved: %s\n", path)
	log.Debug("Screenshot saved", "path", path)
}
