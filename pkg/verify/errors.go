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

package verify

import "errors"

var (
	// ErrBrowserInit is returned when no browser session could be started
	ErrBrowserInit = errors.New("browser initialization failed")
	// ErrPageLoad is returned when the target did not load, the remaining checks are skipped
	ErrPageLoad = errors.New("page load failed")
	// ErrMissingUI is returned when the question form is missing, the remaining checks are skipped
	ErrMissingUI = errors.New("required ui elements missing")
	// ErrSession is returned when the browser session broke down during the run
	ErrSession = errors.New("browser session failed")
)
