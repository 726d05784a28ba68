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
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/caas-team/canary/internal/logger"
	"github.com/caas-team/canary/pkg/api"
	"github.com/caas-team/canary/pkg/report"
)

const keyApiAddress = "api.address"

// NewCmdServe creates a new serve command
func NewCmdServe() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the last report over http",
		Long: "Serves the json report written by the last verification, its OpenAPI\n" +
			"document and prometheus metrics until SIGINT or SIGTERM.",
		RunE: runServe,
	}

	NewFlag(keyApiAddress, "address").String().Bind(cmd, ":8080", "api: The address the server is listening on")

	return cmd
}

func runServe(_ *cobra.Command, _ []string) error {
	ctx, cancel := signalContext()
	defer cancel()
	log := logger.FromContext(ctx)

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	a := api.New(api.Config{ListeningAddress: viper.GetString(keyApiAddress)})
	h := api.NewHandlers(api.FileSource(cfg.Artifacts.Report), report.NewMetrics(true))
	if err := a.RegisterRoutes(ctx, h.Routes()...); err != nil {
		log.Error("Failed to register routes", "error", err)
		return err
	}

	log.Info("Serving report", "report", cfg.Artifacts.Report)
	err = a.Run(ctx)
	if ctx.Err() == nil {
		return err
	}

	log.Info("Shutting down")
	if sErr := a.Shutdown(context.WithoutCancel(ctx)); sErr != nil {
		return fmt.Errorf("failed to shut down: %w", sErr)
	}
	return nil
}
