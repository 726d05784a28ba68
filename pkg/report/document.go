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

package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/caas-team/canary/pkg/checks"
)

// Document is the persisted form of a run. The category fields keep the
// fixed report order when encoded.
type Document struct {
	BasicFunctionality []checks.Result `json:"basic_functionality"`
	ErrorCases         []checks.Result `json:"error_cases"`
	UIUX               []checks.Result `json:"ui_ux"`
	DataIntegrity      []checks.Result `json:"data_integrity"`
	Security           []checks.Result `json:"security"`
	Performance        []checks.Result `json:"performance"`
	Summary            Summary         `json:"summary"`
}

// Category returns the results of the category and false for unknown categories
func (d *Document) Category(c checks.Category) ([]checks.Result, bool) {
	p := d.field(c)
	if p == nil {
		return nil, false
	}
	return *p, true
}

func (d *Document) field(c checks.Category) *[]checks.Result {
	switch c {
	case checks.CategoryBasicFunctionality:
		return &d.BasicFunctionality
	case checks.CategoryErrorCases:
		return &d.ErrorCases
	case checks.CategoryUIUX:
		return &d.UIUX
	case checks.CategoryDataIntegrity:
		return &d.DataIntegrity
	case checks.CategorySecurity:
		return &d.Security
	case checks.CategoryPerformance:
		return &d.Performance
	}
	return nil
}

// Document builds the persisted form of the store. Empty categories are
// encoded as empty lists. The summary is only present after [Store.Finalize].
func (s *Store) Document() Document {
	var d Document
	for _, c := range checks.Categories {
		*d.field(c) = s.Results(c)
	}
	if sum, ok := s.Summary(); ok {
		d.Summary = sum
	}
	return d
}

// Encode writes the document as indented JSON. Non-ASCII text is kept as is.
func (d *Document) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(d)
}

// WriteFile persists the document at path, creating missing parent directories
func (d *Document) WriteFile(path string) (err error) {
	if dir := filepath.Dir(path); dir != "" {
		if err = os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	f, err := os.Create(path) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer func() {
		if cErr := f.Close(); err == nil && cErr != nil {
			err = fmt.Errorf("failed to close report file: %w", cErr)
		}
	}()
	if err = d.Encode(f); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// ReadFile loads a document written by [Document.WriteFile]
func ReadFile(path string) (Document, error) {
	var d Document
	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return d, fmt.Errorf("failed to open report file: %w", err)
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(&d); err != nil {
		return d, fmt.Errorf("failed to decode report: %w", err)
	}
	return d, nil
}

// Store rebuilds a store holding the results and summary of the document
func (d *Document) Store() *Store {
	s := NewStore()
	for _, c := range checks.Categories {
		for _, r := range *d.field(c) {
			s.Add(c, r)
		}
	}
	s.criticalError = d.Summary.CriticalError
	sum := d.Summary
	s.summary = &sum
	return s
}
