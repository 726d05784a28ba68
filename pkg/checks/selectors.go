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

package checks

// Selectors is a prioritized list of css selectors.
// When looking up an element the first selector that matches anything wins,
// independent of where its elements appear in the document.
type Selectors []string

// SelectorSet holds the selector lists used to find the parts of the page under test
type SelectorSet struct {
	// TextInput finds the question input
	TextInput Selectors `json:"textInput" yaml:"textInput" mapstructure:"textInput"`
	// Button finds any button, used to confirm the form is rendered
	Button Selectors `json:"button" yaml:"button" mapstructure:"button"`
	// Submit finds the button sending the question
	Submit Selectors `json:"submit" yaml:"submit" mapstructure:"submit"`
	// Loading finds an indicator shown while an answer is generated
	Loading Selectors `json:"loading" yaml:"loading" mapstructure:"loading"`
	// Answer finds the element holding the generated answer
	Answer Selectors `json:"answer" yaml:"answer" mapstructure:"answer"`
	// Error finds error messages surfaced by the application
	Error Selectors `json:"error" yaml:"error" mapstructure:"error"`
	// Validation finds messages shown for invalid input
	Validation Selectors `json:"validation" yaml:"validation" mapstructure:"validation"`
}

// DefaultSelectors returns selectors matching common chat style frontends
func DefaultSelectors() SelectorSet {
	errorSelectors := Selectors{
		`[data-testid="error"]`,
		`.error`,
		`.alert-error`,
		`.text-red-500`,
		`.text-red-600`,
	}

	return SelectorSet{
		TextInput: Selectors{`input[type="text"]`, `textarea`},
		Button:    Selectors{`button`},
		Submit:    Selectors{`button[type="submit"]`, `button`},
		Loading: Selectors{
			`[data-testid="loading"]`,
			`.loading`,
			`.spinner`,
			`[aria-label*="loading"]`,
			`[aria-label*="Loading"]`,
			`.animate-spin`,
		},
		Answer: Selectors{
			`[data-testid="response"]`,
			`.response`,
			`.answer`,
			`.result`,
			`div[role="region"]`,
			`main div div`,
			`article`,
			`section`,
		},
		Error:      errorSelectors,
		Validation: append(append(Selectors{}, errorSelectors...), `[data-testid="validation"]`, `.validation-error`),
	}
}
