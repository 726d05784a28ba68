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
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/caas-team/canary/internal/httpclient"
	"github.com/caas-team/canary/internal/logger"
	"github.com/caas-team/canary/pkg/config"
)

// NewCmdRoot creates a new root command
func NewCmdRoot(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "canary",
		Short: "Canary, the browser driven deployment verifier",
		Long: "Canary drives a headless browser through a deployed question answering frontend\n" +
			"and reports which checks passed, failed or raised a warning.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaults := config.Default()
	NewFlag(config.KeyConfig, "config").StringP("c").Bind(rootCmd, "",
		"path or http(s) url of a yaml config file")
	NewFlag(config.KeyConfigToken, "config-token").String().Bind(rootCmd, "",
		"bearer token sent when the config is loaded over http")
	NewFlag(config.KeyTarget, "target").StringP("t").Bind(rootCmd, defaults.Target,
		"url of the deployment to verify")
	NewFlag(config.KeyHeadless, "headless").Bool().Bind(rootCmd, defaults.Browser.Headless,
		"run the verification browser without a window")
	NewFlag(config.KeyBrowserBin, "browser-bin").String().Bind(rootCmd, defaults.Browser.Bin,
		"path of the chromium binary, downloaded if empty")
	NewFlag(config.KeyReport, "report").String().Bind(rootCmd, defaults.Artifacts.Report,
		"path of the json report")

	return rootCmd
}

// BuildCmd creates the root command with all child commands
func BuildCmd(version string) *cobra.Command {
	cmd := NewCmdRoot(version)
	cmd.AddCommand(NewCmdVerify())
	cmd.AddCommand(NewCmdRemediate())
	cmd.AddCommand(NewCmdServe())
	cmd.AddCommand(NewCmdSchema())
	cmd.AddCommand(NewCmdGenDocs(cmd))
	return cmd
}

// Execute builds the cmd tree and executes it
func Execute(version string) {
	cmd := BuildCmd(version)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		var exit exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		os.Exit(1)
	}
}

// exitError ends the process with a specific exit code
type exitError struct {
	code int
	msg  string
}

func (e exitError) Error() string {
	return e.msg
}

// loadConfig builds and validates the configuration from the bound flags and the config source
func loadConfig(ctx context.Context) (*config.Config, error) {
	log := logger.FromContext(ctx)
	cfg, err := config.FromViper(ctx, viper.GetViper())
	if err != nil {
		log.Error("Failed to load config", "error", err)
		return nil, err
	}
	if err := cfg.Validate(ctx); err != nil {
		log.Error("Error while validating the config", "error", err)
		return nil, err
	}
	return cfg, nil
}

// withHTTPClient returns ctx carrying a http client bound by the connectivity timeout of cfg
func withHTTPClient(ctx context.Context, cfg *config.Config) context.Context {
	return httpclient.IntoContext(ctx, httpclient.New(cfg.Timing.Connectivity))
}
