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

package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/caas-team/canary/internal/logger"
)

var _ Session = (*RodSession)(nil)

// requestIdleWindow is how long no request may be in flight for the network to count as idle
const requestIdleWindow = 500 * time.Millisecond

// streamingTypes never settle and are ignored while waiting for the network to become idle
var streamingTypes = []proto.NetworkResourceType{
	proto.NetworkResourceTypeWebSocket,
	proto.NetworkResourceTypeEventSource,
}

// Options configures the browser started by [Launch]
type Options struct {
	// Headless hides the browser window
	Headless bool `json:"headless" yaml:"headless" mapstructure:"headless"`
	// Bin is the path to a chromium binary. Rod downloads one when empty.
	Bin string `json:"bin,omitempty" yaml:"bin,omitempty" mapstructure:"bin"`
	// ViewportWidth and ViewportHeight set the initial viewport
	ViewportWidth  int `json:"viewportWidth" yaml:"viewportWidth" mapstructure:"viewportWidth"`
	ViewportHeight int `json:"viewportHeight" yaml:"viewportHeight" mapstructure:"viewportHeight"`
	// UserAgent overrides the browser's user agent when set
	UserAgent string `json:"userAgent,omitempty" yaml:"userAgent,omitempty" mapstructure:"userAgent"`
	// ActionTimeout bounds every element operation. Zero leaves them bound by the context only.
	ActionTimeout time.Duration `json:"-" yaml:"-" mapstructure:"-"`
}

// RodSession is a [Session] backed by a chromium tab controlled with rod
type RodSession struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	action   time.Duration

	mu     sync.Mutex
	closed bool
}

// Launch starts a chromium instance and opens a blank tab in it.
// The returned session must be closed by the caller.
func Launch(ctx context.Context, opts Options) (*RodSession, error) {
	log := logger.FromContext(ctx)

	l := launcher.New().Headless(opts.Headless)
	if opts.Bin != "" {
		l = l.Bin(opts.Bin)
	}

	log.DebugContext(ctx, "Launching browser", "headless", opts.Headless, "bin", opts.Bin)
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	b := rod.New().ControlURL(controlURL).Context(ctx)
	if err = b.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connect to browser: %w", err)
	}

	s := &RodSession{launcher: l, browser: b, action: opts.ActionTimeout}
	s.page, err = b.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("open tab: %w", err)
	}

	if opts.UserAgent != "" {
		if err = s.page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: opts.UserAgent}); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("set user agent: %w", err)
		}
	}

	if opts.ViewportWidth > 0 && opts.ViewportHeight > 0 {
		if err = s.Resize(ctx, opts.ViewportWidth, opts.ViewportHeight); err != nil {
			_ = s.Close()
			return nil, err
		}
	}

	log.DebugContext(ctx, "Browser ready", "controlURL", controlURL)
	return s, nil
}

// Navigate opens url and returns the status of the main document response.
// A status of 0 means no document response was observed before the timeout.
func (s *RodSession) Navigate(ctx context.Context, url string, timeout time.Duration) (int, error) {
	if s.isClosed() {
		return 0, ErrClosed
	}
	p := s.page.Context(ctx).Timeout(timeout)
	defer p.CancelTimeout()

	status := 0
	waitDocument := p.EachEvent(func(e *proto.NetworkResponseReceived) bool {
		if e.Type != proto.NetworkResourceTypeDocument || e.Response == nil {
			return false
		}
		status = e.Response.Status
		return true
	})
	waitIdle := p.WaitRequestIdle(requestIdleWindow, nil, nil, streamingTypes)

	if err := p.Navigate(url); err != nil {
		return 0, fmt.Errorf("navigate to %s: %w", url, err)
	}
	waitDocument()
	waitIdle()

	if err := p.GetContext().Err(); err != nil {
		return status, fmt.Errorf("navigate to %s: %w", url, err)
	}
	return status, nil
}

// Reload reloads the page and waits for the network to become idle
func (s *RodSession) Reload(ctx context.Context, timeout time.Duration) error {
	if s.isClosed() {
		return ErrClosed
	}
	p := s.page.Context(ctx).Timeout(timeout)
	defer p.CancelTimeout()

	waitIdle := p.WaitRequestIdle(requestIdleWindow, nil, nil, streamingTypes)
	if err := p.Reload(); err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	waitIdle()

	if err := p.GetContext().Err(); err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	return nil
}

// Title returns the document title
func (s *RodSession) Title(ctx context.Context) (string, error) {
	if s.isClosed() {
		return "", ErrClosed
	}
	p, done := s.bounded(ctx)
	defer done()
	info, err := p.Info()
	if err != nil {
		return "", fmt.Errorf("page info: %w", err)
	}
	return info.Title, nil
}

// Locate returns the elements matching selector without waiting for them
func (s *RodSession) Locate(ctx context.Context, selector string) ([]Element, error) {
	if s.isClosed() {
		return nil, ErrClosed
	}
	found, err := s.page.Context(ctx).Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("locate %q: %w", selector, err)
	}

	els := make([]Element, 0, len(found))
	for _, el := range found {
		els = append(els, &rodElement{el: el, timeout: s.action})
	}
	return els, nil
}

// Resize overrides the device metrics of the tab
func (s *RodSession) Resize(ctx context.Context, width, height int) error {
	if s.isClosed() {
		return ErrClosed
	}
	p, done := s.bounded(ctx)
	defer done()
	err := p.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             width,
		Height:            height,
		DeviceScaleFactor: 1,
	})
	if err != nil {
		return fmt.Errorf("resize viewport to %dx%d: %w", width, height, err)
	}
	return nil
}

// Screenshot captures the viewport as png into path, creating parent directories
func (s *RodSession) Screenshot(ctx context.Context, path string) error {
	if s.isClosed() {
		return ErrClosed
	}
	p, done := s.bounded(ctx)
	defer done()
	img, err := p.Screenshot(false, nil)
	if err != nil {
		return fmt.Errorf("capture screenshot: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err = os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create screenshot directory: %w", err)
		}
	}
	return os.WriteFile(path, img, 0o644) //nolint:gosec // screenshots are not sensitive
}

// Close closes the browser and removes its temporary profile.
// Closing an already closed session is a no-op.
func (s *RodSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	err := s.browser.Close()
	if err != nil {
		s.launcher.Kill()
	}
	s.launcher.Cleanup()
	if err != nil {
		return fmt.Errorf("close browser: %w", err)
	}
	return nil
}

// bounded returns the page bound to ctx and the action timeout
func (s *RodSession) bounded(ctx context.Context) (*rod.Page, func()) {
	p := s.page.Context(ctx)
	if s.action <= 0 {
		return p, func() {}
	}
	p = p.Timeout(s.action)
	return p, func() { p.CancelTimeout() }
}

func (s *RodSession) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// setValue assigns through the native value setter and emits an input event,
// so frameworks that track input state (e.g. react) observe the change.
const setValue = `(v) => {
	const proto = this instanceof HTMLTextAreaElement ? HTMLTextAreaElement.prototype : HTMLInputElement.prototype;
	Object.getOwnPropertyDescriptor(proto, 'value').set.call(this, v);
	this.dispatchEvent(new Event('input', { bubbles: true }));
}`

// rodElement bounds every operation by its timeout. Rod waits for clicked elements
// to become enabled and for filled ones to become writable, which otherwise never
// ends on a disabled control.
type rodElement struct {
	el      *rod.Element
	timeout time.Duration
}

func (e *rodElement) bounded() (*rod.Element, func()) {
	if e.timeout <= 0 {
		return e.el, func() {}
	}
	el := e.el.Timeout(e.timeout)
	return el, func() { el.CancelTimeout() }
}

func (e *rodElement) Visible() (bool, error) {
	el, done := e.bounded()
	defer done()
	return el.Visible()
}

func (e *rodElement) Text() (string, error) {
	el, done := e.bounded()
	defer done()
	return el.Text()
}

func (e *rodElement) Click() error {
	el, done := e.bounded()
	defer done()
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click: %w", err)
	}
	return nil
}

func (e *rodElement) Fill(text string) error {
	el, done := e.bounded()
	defer done()
	if _, err := el.Eval(setValue, ""); err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	if err := el.Input(text); err != nil {
		return fmt.Errorf("input: %w", err)
	}
	return nil
}

func (e *rodElement) Clear() error {
	el, done := e.bounded()
	defer done()
	_, err := el.Eval(setValue, "")
	return err
}

func (e *rodElement) Value() (string, error) {
	el, done := e.bounded()
	defer done()
	obj, err := el.Eval(`() => this.value`)
	if err != nil {
		return "", err
	}
	return obj.Value.Str(), nil
}
