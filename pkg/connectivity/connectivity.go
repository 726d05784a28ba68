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

// Package connectivity checks whether a deployment can be reached without authentication.
package connectivity

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/caas-team/canary/internal/httpclient"
	"github.com/caas-team/canary/internal/logger"
)

// NoteAuthBlocked explains a 401 answer of the target
const NoteAuthBlocked = "authentication is still blocking access"

// Result is the outcome of a single access check
type Result struct {
	URL    string
	Status int
	// Reachable is true if the target answered with 200
	Reachable bool
	// Note explains why the target is not reachable
	Note string
}

// Check performs one GET request against url with the http client of the context.
// The request is bounded by timeout. It is not retried.
// An error is only returned if no response was received.
func Check(ctx context.Context, url string, timeout time.Duration) (Result, error) {
	log := logger.FromContext(ctx).With("url", url)
	res := Result{URL: url}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		log.Error("Error while creating request", "error", err)
		return res, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := httpclient.FromContext(ctx).Do(req)
	if err != nil {
		log.Error("Error while requesting target", "error", err)
		return res, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	res.Status = resp.StatusCode
	switch resp.StatusCode {
	case http.StatusOK:
		res.Reachable = true
	case http.StatusUnauthorized:
		res.Note = NoteAuthBlocked
		log.Warn("Target still requires authentication", "status", resp.Status)
	default:
		res.Note = fmt.Sprintf("unexpected status %d", resp.StatusCode)
		log.Warn("Target request was not ok (HTTP Status 200)", "status", resp.Status)
	}
	return res, nil
}
