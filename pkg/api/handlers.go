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
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gopkg.in/yaml.v3"

	"github.com/caas-team/canary/internal/logger"
	"github.com/caas-team/canary/pkg/checks"
	"github.com/caas-team/canary/pkg/report"
)

const urlParamCategory = "category"

// Source loads the report to serve. It is called on every request,
// so a report written by a later run is picked up.
type Source func(ctx context.Context) (report.Document, error)

// FileSource reads the report written by a verification run at path
func FileSource(path string) Source {
	return func(context.Context) (report.Document, error) {
		return report.ReadFile(path)
	}
}

type encoder interface {
	Encode(v any) error
}

// Handlers serves the report of a [Source]
type Handlers struct {
	source  Source
	metrics *report.Metrics
}

// NewHandlers creates the handlers. The metrics are updated from the report on every scrape.
func NewHandlers(source Source, metrics *report.Metrics) *Handlers {
	return &Handlers{source: source, metrics: metrics}
}

// Routes returns the routes of the report api
func (h *Handlers) Routes() []Route {
	return []Route{
		{Path: PathReport, Method: http.MethodGet, Handler: h.handleReport},
		{Path: PathCategory, Method: http.MethodGet, Handler: h.handleCategory},
		{Path: PathSummary, Method: http.MethodGet, Handler: h.handleSummary},
		{Path: PathOpenAPI, Method: http.MethodGet, Handler: h.handleOpenAPI},
		{Path: PathMetrics, Method: "Handle", Handler: h.handleMetrics},
	}
}

func (h *Handlers) handleReport(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, doc)
}

func (h *Handlers) handleCategory(w http.ResponseWriter, r *http.Request) {
	c := checks.Category(chi.URLParam(r, urlParamCategory))
	if !c.Valid() {
		writeStatus(w, r, http.StatusNotFound)
		return
	}
	doc, ok := h.load(w, r)
	if !ok {
		return
	}
	results, _ := doc.Category(c)
	if results == nil {
		results = []checks.Result{}
	}
	writeJSON(w, r, results)
}

func (h *Handlers) handleSummary(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, doc.Summary)
}

func (h *Handlers) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	oapi, err := OpenAPI(r.Context())
	if err != nil {
		log.Error("failed to create openapi", "error", err)
		writeStatus(w, r, http.StatusInternalServerError)
		return
	}

	mime := r.Header.Get("Accept")

	var marshaler encoder
	switch mime {
	case "application/json":
		marshaler = json.NewEncoder(w)
		w.Header().Add("Content-Type", "application/json")
	default:
		marshaler = yaml.NewEncoder(w)
		w.Header().Add("Content-Type", "text/yaml")
	}

	err = marshaler.Encode(oapi)
	if err != nil {
		log.Error("failed to marshal openapi", "error", err)
		writeStatus(w, r, http.StatusInternalServerError)
		return
	}
}

// handleMetrics refreshes the gauges from the current report before serving them.
// Without a report the gauges keep their last values.
func (h *Handlers) handleMetrics(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	doc, err := h.source(r.Context())
	if err != nil {
		log.Warn("No report to update the metrics from", "error", err)
	} else {
		h.metrics.Observe(doc.Store())
	}
	promhttp.HandlerFor(h.metrics.GetRegistry(), promhttp.HandlerOpts{Registry: h.metrics.GetRegistry()}).ServeHTTP(w, r)
}

// load reads the report and writes an error response if that fails
func (h *Handlers) load(w http.ResponseWriter, r *http.Request) (report.Document, bool) {
	log := logger.FromContext(r.Context())
	doc, err := h.source(r.Context())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Debug("No report available", "error", err)
			writeStatus(w, r, http.StatusNotFound)
			return doc, false
		}
		log.Error("Failed to load report", "error", err)
		writeStatus(w, r, http.StatusInternalServerError)
		return doc, false
	}
	return doc, true
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	log := logger.FromContext(r.Context())
	w.Header().Add("Content-Type", "application/json")

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		log.Error("failed to encode response", "error", err)
		writeStatus(w, r, http.StatusInternalServerError)
	}
}

func writeStatus(w http.ResponseWriter, r *http.Request, status int) {
	w.WriteHeader(status)
	_, err := w.Write([]byte(http.StatusText(status)))
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to write response", "error", err)
	}
}
