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
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/caas-team/canary/pkg/checks"
	"github.com/caas-team/canary/pkg/report"
)

func testDocument() report.Document {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := report.NewStore()
	s.Add(checks.CategoryBasicFunctionality, checks.Pass("loaded in 1.20s").Result("page load", at))
	s.Add(checks.CategorySecurity, checks.Warn(checks.PriorityMedium, "script tag is accepted unchanged").Result("xss input handling", at))
	s.Finalize("run", "https://app.example.com", at)
	return s.Document()
}

func newRouter(t *testing.T, source Source) chi.Router {
	t.Helper()
	a := &api{server: &http.Server{}, router: chi.NewRouter()} //nolint:gosec
	h := NewHandlers(source, report.NewMetrics(false))
	require.NoError(t, a.RegisterRoutes(context.Background(), h.Routes()...))
	return a.router
}

func serve(r chi.Router, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func staticSource(doc report.Document) Source {
	return func(context.Context) (report.Document, error) {
		return doc, nil
	}
}

func TestHandlers_report(t *testing.T) {
	r := newRouter(t, staticSource(testDocument()))

	rec := serve(r, PathReport, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got report.Document
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got.BasicFunctionality, 1)
	assert.Equal(t, 2, got.Summary.TotalTests)
	assert.Equal(t, "50.0%", got.Summary.SuccessRate)
}

func TestHandlers_category(t *testing.T) {
	r := newRouter(t, staticSource(testDocument()))

	tests := []struct {
		category string
		status   int
		results  int
	}{
		{category: "security", status: http.StatusOK, results: 1},
		{category: "performance", status: http.StatusOK, results: 0},
		{category: "unknown", status: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			rec := serve(r, "/v1/report/"+tt.category, nil)
			require.Equal(t, tt.status, rec.Code)
			if tt.status != http.StatusOK {
				return
			}
			var got []checks.Result
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.NotNil(t, got)
			assert.Len(t, got, tt.results)
		})
	}
}

func TestHandlers_summary(t *testing.T) {
	r := newRouter(t, staticSource(testDocument()))

	rec := serve(r, PathSummary, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got report.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "run", got.RunID)
	assert.Equal(t, 1, got.Passed)
	assert.Equal(t, 1, got.Warnings)
}

func TestHandlers_noReport(t *testing.T) {
	tests := []struct {
		name   string
		source Source
		status int
	}{
		{name: "missing file", source: FileSource(filepath.Join(t.TempDir(), "missing.json")), status: http.StatusNotFound},
		{name: "broken source", source: func(context.Context) (report.Document, error) {
			return report.Document{}, errors.New("broken")
		}, status: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(t, tt.source)
			for _, path := range []string{PathReport, PathSummary, "/v1/report/ui_ux"} {
				assert.Equal(t, tt.status, serve(r, path, nil).Code, path)
			}
		})
	}
}

func TestHandlers_fileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	doc := testDocument()
	require.NoError(t, doc.WriteFile(path))

	rec := serve(newRouter(t, FileSource(path)), PathSummary, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success_rate": "50.0%"`)
}

func TestHandlers_openAPI(t *testing.T) {
	r := newRouter(t, staticSource(testDocument()))

	rec := serve(r, PathOpenAPI, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/yaml", rec.Header().Get("Content-Type"))
	var y map[string]any
	require.NoError(t, yaml.Unmarshal(rec.Body.Bytes(), &y))
	assert.Contains(t, y["paths"], PathCategory)

	rec = serve(r, PathOpenAPI, http.Header{"Accept": []string{"application/json"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var j map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &j))
	assert.Contains(t, j["paths"], PathSummary)
}

func TestHandlers_metrics(t *testing.T) {
	r := newRouter(t, staticSource(testDocument()))

	rec := serve(r, PathMetrics, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "canary_checks_total 2")
	assert.Contains(t, body, "canary_success_rate 50")
	assert.True(t, strings.Contains(body, `canary_check_results{category="security",status="warning"} 1`))
}

func TestOpenAPI(t *testing.T) {
	doc, err := OpenAPI(context.Background())
	require.NoError(t, err)

	for _, path := range []string{PathReport, PathCategory, PathSummary} {
		item, ok := doc.Paths[path]
		require.True(t, ok, path)
		require.NotNil(t, item.Get)
		assert.Contains(t, item.Get.Responses, "200")
	}
	params := doc.Paths[PathCategory].Get.Parameters
	require.Len(t, params, 1)
	assert.Equal(t, "category", params[0].Value.Name)
	assert.Len(t, params[0].Value.Schema.Value.Enum, len(checks.Categories))

	other, err := OpenAPI(context.Background())
	require.NoError(t, err)
	delete(other.Paths, PathReport)
	assert.Contains(t, doc.Paths, PathReport)
}
