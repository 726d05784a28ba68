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
	"net/url"

	"gopkg.in/yaml.v3"
)

// Loader reads a config source into its raw key value form
type Loader interface {
	Load(ctx context.Context) (map[string]any, error)
}

// NewLoader returns the loader for source. Sources with an http or https scheme
// are fetched with the [HttpLoader], everything else is read with the [FileLoader].
func NewLoader(source, token string) Loader {
	if u, err := url.Parse(source); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return NewHttpLoader(source, token)
	}
	return NewFileLoader(source)
}

// parse unmarshals a yaml document into a map
func parse(b []byte) (map[string]any, error) {
	m := map[string]any{}
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseConfig, err)
	}
	return m, nil
}
