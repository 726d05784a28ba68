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

package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/caas-team/canary/internal/httpclient"
	"github.com/caas-team/canary/internal/logger"
	"github.com/caas-team/canary/pkg/config"
	"github.com/caas-team/canary/pkg/verify"
)

// NewCmdVerify creates a new verify command
func NewCmdVerify() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify the deployment",
		Long: "Runs all checks against the target in a browser, prints the prioritized\n" +
			"summary and writes the json report and screenshots.",
		RunE: runVerify,
	}

	defaults := config.Default()
	NewFlag(config.KeyFailOnCritical, "fail-on-critical").Bool().Bind(cmd, defaults.FailOnCritical,
		"exit with code 1 if a critical check failed")
	NewFlag(config.KeyMetrics, "metrics-file").String().Bind(cmd, defaults.Artifacts.Metrics,
		"write the results in the prometheus text format to this file")
	NewFlag(config.KeyScreenshot, "screenshot").String().Bind(cmd, defaults.Artifacts.Screenshot,
		"path of the screenshot taken after the page loaded")
	NewFlag(config.KeyFinalScreenshot, "final-screenshot").String().Bind(cmd, defaults.Artifacts.FinalScreenshot,
		"path of the screenshot taken after all checks")

	return cmd
}

// runVerify is the entry point of a verification
func runVerify(cmd *cobra.Command, _ []string) error {
	ctx, cancel := signalContext()
	defer cancel()
	log := logger.FromContext(ctx)

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	ctx = withHTTPClient(ctx, cfg)

	store, err := verify.Execute(ctx, cfg, verify.Launcher(cfg.BrowserOptions()), cmd.OutOrStdout())
	if err != nil && !errors.Is(err, verify.ErrPageLoad) && !errors.Is(err, verify.ErrMissingUI) {
		log.Error("Verification did not complete", "error", err)
	}

	if cfg.FailOnCritical && store.Critical() {
		return exitError{code: 1, msg: "verification found critical failures"}
	}
	return nil
}

// signalContext returns a context carrying the logger and a http client that is canceled
// on SIGINT and SIGTERM. The client is used to load a remote config.
func signalContext() (context.Context, context.CancelFunc) {
	ctx := logger.IntoContext(context.Background(), logger.NewLogger())
	ctx = httpclient.IntoContext(ctx, httpclient.New(config.Default().Timing.Connectivity))
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}
