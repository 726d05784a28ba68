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
	"io"
	"net/http"

	"github.com/caas-team/canary/internal/httpclient"
	"github.com/caas-team/canary/internal/logger"
)

var _ Loader = (*HttpLoader)(nil)

// HttpLoader fetches the configuration from a remote endpoint.
// The client is taken from the context, see [httpclient.FromContext].
type HttpLoader struct {
	url   string
	token string
}

func NewHttpLoader(url, token string) *HttpLoader {
	return &HttpLoader{url: url, token: token}
}

// Load gets the remote configuration once
func (hl *HttpLoader) Load(ctx context.Context) (map[string]any, error) {
	log := logger.FromContext(ctx).With("url", hl.url)
	client := httpclient.FromContext(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, hl.url, http.NoBody)
	if err != nil {
		log.ErrorContext(ctx, "Could not create http GET request", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	if hl.token != "" {
		req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", hl.token))
	}

	res, err := client.Do(req) //nolint:bodyclose // closed in defer
	if err != nil {
		log.ErrorContext(ctx, "Http get request failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	defer func(Body io.ReadCloser) {
		if cErr := Body.Close(); cErr != nil {
			log.ErrorContext(ctx, "Failed to close response body", "error", cErr)
		}
	}(res.Body)

	if res.StatusCode != http.StatusOK {
		log.ErrorContext(ctx, "Http get request failed", "status", res.Status)
		return nil, fmt.Errorf("%w: request failed, status is %s", ErrLoadConfig, res.Status)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		log.ErrorContext(ctx, "Could not read response body", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	log.DebugContext(ctx, "Successfully got remote config")

	return parse(body)
}
