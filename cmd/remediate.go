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
	"github.com/spf13/cobra"

	"github.com/caas-team/canary/pkg/config"
	"github.com/caas-team/canary/pkg/remediation"
	"github.com/caas-team/canary/pkg/verify"
)

// NewCmdRemediate creates a new remediate command
func NewCmdRemediate() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remediate",
		Short: "Guide through lifting the access protection of the deployment",
		Long: "Checks whether the target can be reached. If it can, the verification is run.\n" +
			"Otherwise the dashboard is opened in a browser window and the manual steps are shown.\n" +
			"After confirming with Enter the access is checked again.",
		RunE: runRemediate,
	}

	NewFlag(config.KeyDashboard, "dashboard").String().Bind(cmd, config.Default().Dashboard,
		"settings page of the deployment opened for the manual steps")

	return cmd
}

func runRemediate(cmd *cobra.Command, _ []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	ctx = withHTTPClient(ctx, cfg)

	dashboard := cfg.BrowserOptions()
	dashboard.Headless = false

	guide := remediation.NewGuide(cfg,
		verify.Launcher(dashboard),
		verify.Launcher(cfg.BrowserOptions()),
		cmd.InOrStdin(),
		cmd.OutOrStdout(),
	)
	_, err = guide.Run(ctx)
	return err
}
