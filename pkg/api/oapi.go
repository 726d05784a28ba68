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

package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3gen"

	"github.com/caas-team/canary/internal/logger"
	"github.com/caas-team/canary/pkg/checks"
	"github.com/caas-team/canary/pkg/report"
)

const (
	PathReport   = "/v1/report"
	PathCategory = "/v1/report/{category}"
	PathSummary  = "/v1/summary"
	PathOpenAPI  = "/openapi"
	PathMetrics  = "/metrics"
)

func newDocument() openapi3.T {
	return openapi3.T{
		OpenAPI: "3.0.0",
		Info: &openapi3.Info{
			Title:       "Canary Report API",
			Description: "Serves the results of the last verification run",
			Version:     "v1",
			Contact: &openapi3.Contact{
				URL:   "https://caas.telekom.de",
				Email: "caas-request@telekom.de",
				Name:  "CaaS Team",
			},
		},
		Paths:      make(openapi3.Paths),
		Extensions: make(map[string]any),
		Components: &openapi3.Components{
			Schemas: make(openapi3.Schemas),
		},
		Servers: openapi3.Servers{},
	}
}

// OpenAPI generates the OpenAPI specification of the report api
func OpenAPI(ctx context.Context) (openapi3.T, error) {
	log := logger.FromContext(ctx)
	doc := newDocument()

	endpoints := []struct {
		path        string
		name        string
		description string
		value       any
		params      openapi3.Parameters
	}{
		{
			path:        PathReport,
			name:        "report",
			description: "Returns all results of the last verification run grouped by category",
			value:       report.Document{},
		},
		{
			path:        PathCategory,
			name:        "category",
			description: "Returns the results of one category of the last verification run",
			value:       []checks.Result{},
			params:      openapi3.Parameters{{Value: categoryParameter()}},
		},
		{
			path:        PathSummary,
			name:        "summary",
			description: "Returns the summary of the last verification run",
			value:       report.Summary{},
		},
	}

	for _, e := range endpoints {
		ref, err := openapi3gen.NewSchemaRefForValue(e.value, openapi3.Schemas{})
		if err != nil {
			log.Error("Failed to generate schema", "name", e.name, "error", err)
			return openapi3.T{}, &ErrCreateOpenapiSchema{name: e.name, err: err}
		}

		bodyDesc := fmt.Sprintf("The %s of the last verification run", e.name)
		responses := openapi3.Responses{
			fmt.Sprint(http.StatusOK): &openapi3.ResponseRef{
				Value: &openapi3.Response{
					Description: &bodyDesc,
					Content:     openapi3.NewContentWithSchemaRef(ref, []string{"application/json"}),
				},
			},
		}
		notFound := "No report available or unknown category"
		responses[fmt.Sprint(http.StatusNotFound)] = &openapi3.ResponseRef{
			Value: &openapi3.Response{Description: &notFound},
		}

		doc.Paths[e.path] = &openapi3.PathItem{
			Description: e.name,
			Get: &openapi3.Operation{
				Description: e.description,
				Tags:        []string{"Report"},
				Parameters:  e.params,
				Responses:   responses,
			},
		}
	}

	return doc, nil
}

func categoryParameter() *openapi3.Parameter {
	enum := make([]any, 0, len(checks.Categories))
	for _, c := range checks.Categories {
		enum = append(enum, string(c))
	}
	return openapi3.NewPathParameter("category").
		WithDescription("Result category").
		WithSchema(openapi3.NewStringSchema().WithEnum(enum...))
}
