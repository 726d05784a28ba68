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
	"os"

	"github.com/caas-team/canary/internal/logger"
)

var _ Loader = (*FileLoader)(nil)

// FileLoader reads the configuration from a yaml file
type FileLoader struct {
	path string
}

func NewFileLoader(path string) *FileLoader {
	return &FileLoader{path: path}
}

// Load reads and parses the file
func (f *FileLoader) Load(ctx context.Context) (map[string]any, error) {
	log := logger.FromContext(ctx).With("path", f.path)
	log.DebugContext(ctx, "Reading config from file")

	b, err := os.ReadFile(f.path)
	if err != nil {
		log.ErrorContext(ctx, "Failed to read config file", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	m, err := parse(b)
	if err != nil {
		log.ErrorContext(ctx, "Failed to parse config file", "error", err)
		return nil, err
	}
	return m, nil
}
