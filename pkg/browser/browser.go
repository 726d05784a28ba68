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

// Package browser defines the browser capabilities the verification relies on
// and implements them on top of a Chromium instance controlled with rod.
package browser

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrClosed is returned when a session is used after it was closed
var ErrClosed = errors.New("browser session is closed")

// Session is a single browser tab
type Session interface {
	// Navigate opens the url, waits until the network is idle and returns
	// the HTTP status of the main document
	Navigate(ctx context.Context, url string, timeout time.Duration) (int, error)
	// Reload reloads the current page and waits until the network is idle
	Reload(ctx context.Context, timeout time.Duration) error
	// Title returns the title of the current page
	Title(ctx context.Context) (string, error)
	// Locate returns all elements currently matching the css selector, in document order.
	// It does not wait for elements to appear.
	Locate(ctx context.Context, selector string) ([]Element, error)
	// Resize sets the viewport size
	Resize(ctx context.Context, width, height int) error
	// Screenshot writes a png of the visible viewport to path
	Screenshot(ctx context.Context, path string) error
	// Close releases the tab and the browser behind it
	Close() error
}

// Element is a handle to a DOM element
type Element interface {
	Visible() (bool, error)
	// Text returns the rendered text of the element
	Text() (string, error)
	Click() error
	// Fill replaces the value of an input with text
	Fill(text string) error
	// Clear empties the value of an input
	Clear() error
	// Value returns the current value of an input
	Value() (string, error)
}

// First returns the first element of the first selector that matches anything.
// Selectors are tried in order, so earlier selectors take precedence over later ones
// regardless of document order. It returns a nil element when nothing matches.
func First(ctx context.Context, s Session, selectors []string) (Element, string, error) {
	for _, sel := range selectors {
		els, err := s.Locate(ctx, sel)
		if err != nil {
			return nil, sel, err
		}
		if len(els) > 0 {
			return els[0], sel, nil
		}
	}
	return nil, "", nil
}

// Exists reports whether any of the selectors matches at least one element
func Exists(ctx context.Context, s Session, selectors []string) (bool, error) {
	el, _, err := First(ctx, s, selectors)
	return el != nil, err
}

// Count returns the amount of distinct elements matching any of the selectors
func Count(ctx context.Context, s Session, selectors []string) (int, error) {
	if len(selectors) == 0 {
		return 0, nil
	}
	els, err := s.Locate(ctx, Group(selectors))
	return len(els), err
}

// Group joins selectors to a single css selector list matching any of them
func Group(selectors []string) string {
	return strings.Join(selectors, ", ")
}
