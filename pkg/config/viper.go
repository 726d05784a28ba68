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
	"fmt"

	"github.com/spf13/viper"

	"github.com/caas-team/canary/internal/helper"
	"github.com/caas-team/canary/internal/logger"
)

// Keys of the settings that can be set with flags
const (
	KeyConfig          = "config"
	KeyConfigToken     = "configToken"
	KeyTarget          = "target"
	KeyDashboard       = "dashboard"
	KeyFailOnCritical  = "failOnCritical"
	KeyHeadless        = "browser.headless"
	KeyBrowserBin      = "browser.bin"
	KeyReport          = "artifacts.report"
	KeyScreenshot      = "artifacts.screenshot"
	KeyFinalScreenshot = "artifacts.finalScreenshot"
	KeyMetrics         = "artifacts.metrics"
)

// FromViper builds the configuration from the defaults, the config source named by the
// [KeyConfig] setting and the remaining settings of v, in increasing precedence.
func FromViper(ctx context.Context, v *viper.Viper) (*Config, error) {
	log := logger.FromContext(ctx)

	if source := v.GetString(KeyConfig); source != "" {
		m, err := NewLoader(source, v.GetString(KeyConfigToken)).Load(ctx)
		if err != nil {
			return nil, err
		}
		if err = v.MergeConfigMap(m); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParseConfig, err)
		}
		log.DebugContext(ctx, "Merged config source", "source", source)
	}

	cfg := Default()
	if err := helper.DecodeInto(v.AllSettings(), &cfg); err != nil {
		log.ErrorContext(ctx, "Failed to decode config", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrParseConfig, err)
	}
	return &cfg, nil
}
