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

// Package browsermock provides a scripted in-memory browser session for tests
package browsermock

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/caas-team/canary/pkg/browser"
)

var (
	_ browser.Session = (*Session)(nil)
	_ browser.Element = (*Element)(nil)
)

// Session is a scripted [browser.Session]. The zero value is a page without any elements
// that answers every navigation with status 0.
type Session struct {
	mu sync.Mutex

	// Status is returned by Navigate
	Status int
	// NavigateErr is returned by Navigate
	NavigateErr error
	// PageTitle is returned by Title
	PageTitle string
	// TitleErr is returned by Title
	TitleErr error
	// ReloadDelay is slept by Reload
	ReloadDelay time.Duration
	// ReloadErr is returned by Reload
	ReloadErr error
	// ScreenshotErr is returned by Screenshot
	ScreenshotErr error
	// LocateErr is returned by Locate for every selector
	LocateErr error
	// OnResize is called with the new viewport size
	OnResize func(width, height int)

	elements map[string][]*Element

	Navigations []string
	Reloads     int
	Resizes     [][2]int
	Screenshots []string
	Located     []string
	Closed      bool
}

// New returns an empty session answering navigations with status
func New(status int) *Session {
	return &Session{Status: status, elements: map[string][]*Element{}}
}

// Add registers elements matched by selector and returns the session
func (s *Session) Add(selector string, els ...*Element) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.elements == nil {
		s.elements = map[string][]*Element{}
	}
	s.elements[selector] = append(s.elements[selector], els...)
	return s
}

func (s *Session) Navigate(_ context.Context, url string, _ time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Navigations = append(s.Navigations, url)
	if s.NavigateErr != nil {
		return 0, s.NavigateErr
	}
	return s.Status, nil
}

func (s *Session) Reload(ctx context.Context, _ time.Duration) error {
	s.mu.Lock()
	s.Reloads++
	delay, err := s.ReloadDelay, s.ReloadErr
	s.mu.Unlock()

	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	return err
}

func (s *Session) Title(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.PageTitle, s.TitleErr
}

// Locate returns the registered elements. A comma separated selector list
// returns the union of its members' elements.
func (s *Session) Locate(_ context.Context, selector string) ([]browser.Element, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Located = append(s.Located, selector)
	if s.LocateErr != nil {
		return nil, s.LocateErr
	}

	seen := map[*Element]bool{}
	var els []browser.Element
	for _, sel := range strings.Split(selector, ",") {
		for _, el := range s.elements[strings.TrimSpace(sel)] {
			if seen[el] {
				continue
			}
			seen[el] = true
			els = append(els, el)
		}
	}
	return els, nil
}

func (s *Session) Resize(_ context.Context, width, height int) error {
	s.mu.Lock()
	s.Resizes = append(s.Resizes, [2]int{width, height})
	onResize := s.OnResize
	s.mu.Unlock()

	if onResize != nil {
		onResize(width, height)
	}
	return nil
}

func (s *Session) Screenshot(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ScreenshotErr != nil {
		return s.ScreenshotErr
	}
	s.Screenshots = append(s.Screenshots, path)
	return nil
}

func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Closed = true
	return nil
}

// Element is a scripted [browser.Element]
type Element struct {
	mu sync.Mutex

	// Hidden makes Visible report false
	Hidden bool
	// Texts are returned by consecutive Text calls, the last one is repeated
	Texts []string
	// Sanitize transforms filled text before it is stored as value
	Sanitize func(string) string
	// OnClick is called on every click
	OnClick func()
	// Err is returned by every operation
	Err error
	// ClickErr is returned by Click, e.g. for a control that stays disabled
	ClickErr error

	value     string
	textCalls int
	clicks    int
}

// NewElement returns a visible element displaying text
func NewElement(text string) *Element {
	return &Element{Texts: []string{text}}
}

// TextAfter returns a visible element whose text is before for the first n-1
// Text calls and after from the n-th call on
func TextAfter(n int, before, after string) *Element {
	texts := make([]string, 0, n)
	for i := 1; i < n; i++ {
		texts = append(texts, before)
	}
	return &Element{Texts: append(texts, after)}
}

func (e *Element) Visible() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.Hidden, e.Err
}

func (e *Element) SetHidden(hidden bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Hidden = hidden
}

func (e *Element) Text() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Err != nil {
		return "", e.Err
	}
	e.textCalls++
	if len(e.Texts) == 0 {
		return "", nil
	}
	i := e.textCalls - 1
	if i >= len(e.Texts) {
		i = len(e.Texts) - 1
	}
	return e.Texts[i], nil
}

func (e *Element) Click() error {
	e.mu.Lock()
	if e.Err != nil {
		e.mu.Unlock()
		return e.Err
	}
	if e.ClickErr != nil {
		e.mu.Unlock()
		return e.ClickErr
	}
	e.clicks++
	onClick := e.OnClick
	e.mu.Unlock()

	if onClick != nil {
		onClick()
	}
	return nil
}

func (e *Element) Fill(text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Err != nil {
		return e.Err
	}
	if e.Sanitize != nil {
		text = e.Sanitize(text)
	}
	e.value = text
	return nil
}

func (e *Element) Clear() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Err != nil {
		return e.Err
	}
	e.value = ""
	return nil
}

func (e *Element) Value() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.value, e.Err
}

// TextCalls returns how often Text was called
func (e *Element) TextCalls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.textCalls
}

// Clicks returns how often the element was clicked
func (e *Element) Clicks() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clicks
}
