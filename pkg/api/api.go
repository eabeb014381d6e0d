// Package api exposes the sandbox dispatcher over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/gorilla/mux"
	jsoniter "github.com/json-iterator/go"
	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alside/httpsandbox/pkg/sandbox"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Responses smaller than this are sent uncompressed.
const gzipMinSize = 256

// Sandbox is the part of the sandbox service the API needs.
type Sandbox interface {
	Run(ctx context.Context, mode string) error
	ImportOrgRepositories(ctx context.Context, mode string) int
}

type RunResponse struct {
	Mode  string `json:"mode"`
	Error string `json:"error,omitempty"`
}

type ReposResponse struct {
	Forwarded int `json:"forwarded"`
}

type API struct {
	logger  log.Logger
	sandbox Sandbox
}

func New(logger log.Logger, s Sandbox) *API {
	return &API{logger: logger, sandbox: s}
}

// Router registers every route, including /metrics served from gatherer.
// API responses are gzip compressed when the client accepts it.
func (a *API) Router(gatherer prometheus.Gatherer) (http.Handler, error) {
	gzip, err := gzhttp.NewWrapper(gzhttp.MinSize(gzipMinSize))
	if err != nil {
		return nil, err
	}

	r := mux.NewRouter()
	r.Use(a.logRequests)

	v1 := r.PathPrefix("/api/v1").Subrouter()
	v1.Use(func(next http.Handler) http.Handler { return gzip(next) })
	v1.HandleFunc("/sandbox", a.run).Methods(http.MethodPost)
	v1.HandleFunc("/repos", a.repos).Methods(http.MethodPost)
	v1.HandleFunc("/modes", a.modes).Methods(http.MethodGet)

	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return r, nil
}

func (a *API) run(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("mode")
	res := RunResponse{Mode: mode}
	status := http.StatusOK
	if err := a.sandbox.Run(r.Context(), mode); err != nil {
		res.Error = err.Error()
		status = http.StatusBadGateway
	}
	a.writeJSON(w, status, res)
}

func (a *API) repos(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("mode")
	n := a.sandbox.ImportOrgRepositories(r.Context(), mode)
	a.writeJSON(w, http.StatusOK, ReposResponse{Forwarded: n})
}

func (a *API) modes(w http.ResponseWriter, _ *http.Request) {
	a.writeJSON(w, http.StatusOK, sandbox.Modes())
}

func (a *API) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		level.Warn(a.logger).Log("msg", "failed to write response", "err", err)
	}
}

func (a *API) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		level.Debug(a.logger).Log(
			"msg", "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", m.Code,
			"duration", m.Duration.Round(time.Millisecond),
		)
	})
}
