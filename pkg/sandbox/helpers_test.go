package sandbox

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-kit/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/alside/httpsandbox/pkg/config"
	"github.com/alside/httpsandbox/pkg/dto"
	"github.com/alside/httpsandbox/pkg/sandbox/github"
)

var testDevice = dto.DeviceState{Station: "line-3", ReaderID: "rfid-07", Location: "dock"}

type alwinImport struct {
	Data dto.AlwinData
	Mode string
}

type recordingImporter struct {
	mu sync.Mutex

	alwin  []alwinImport
	repos  []dto.GitHubRepo
	webAPI []dto.WebAPIClientExample
	json   []string
	modes  []string

	err error
}

func (r *recordingImporter) DeviceState(context.Context) (dto.DeviceState, error) {
	return testDevice, nil
}

func (r *recordingImporter) AlwinData(ctx context.Context) (dto.AlwinData, error) {
	state, _ := r.DeviceState(ctx)
	return dto.AlwinData{DeviceState: state}, nil
}

func (r *recordingImporter) ImportAlwinData(_ context.Context, data dto.AlwinData, mode string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.alwin = append(r.alwin, alwinImport{Data: data, Mode: mode})
	return nil
}

func (r *recordingImporter) ImportGitHubRepo(_ context.Context, repo dto.GitHubRepo, mode string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.repos = append(r.repos, repo)
	r.modes = append(r.modes, mode)
	return nil
}

func (r *recordingImporter) ImportWebAPIClient(_ context.Context, repo dto.WebAPIClientExample, mode string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.webAPI = append(r.webAPI, repo)
	r.modes = append(r.modes, mode)
	return nil
}

func (r *recordingImporter) ImportJSON(_ context.Context, text string, mode string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.json = append(r.json, text)
	r.modes = append(r.modes, mode)
	return nil
}

func (r *recordingImporter) total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.alwin) + len(r.repos) + len(r.webAPI) + len(r.json)
}

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   string
}

const (
	todo3JSON = `{
  "userId": 1,
  "id": 3,
  "title": "fugiat veniam minus",
  "completed": false
}`
	putResponseJSON = `{
  "userId": 1,
  "id": 1,
  "title": "foo bar",
  "completed": false
}`
	openTodosJSON = `[
  {"userId": 1, "id": 1, "title": "delectus aut autem", "completed": false},
  {"userId": 1, "id": 2, "title": "quis ut nam facilis et officia qui", "completed": false},
  {"userId": 1, "id": 3, "title": "fugiat veniam minus", "completed": false}
]`
)

// fakeAPI serves the placeholder todos endpoints and the organization
// repository listing.
type fakeAPI struct {
	mu       sync.Mutex
	requests []recordedRequest

	status   int
	override string
	repos    string
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Header: r.Header.Clone(),
		Body:   string(body),
	})
	status, override, repos := f.status, f.override, f.repos
	f.mu.Unlock()

	if status != 0 {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, `{}`)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if override != "" {
		_, _ = io.WriteString(w, override)
		return
	}
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/todos/3":
		_, _ = io.WriteString(w, todo3JSON)
	case r.Method == http.MethodGet && r.URL.Path == "/todos":
		_, _ = io.WriteString(w, openTodosJSON)
	case r.Method == http.MethodPost && r.URL.Path == "/todos":
		var todo dto.Todo
		if err := json.Unmarshal(body, &todo); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		todo.ID = 201
		out, _ := json.MarshalIndent(todo, "", "  ")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write(out)
	case r.Method == http.MethodPut && r.URL.Path == "/todos/1":
		_, _ = io.WriteString(w, putResponseJSON)
	case r.Method == http.MethodGet && r.URL.Path == "/orgs/dotnet/repos":
		_, _ = io.WriteString(w, repos)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeAPI) recorded() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

type fakeGitHub struct {
	mu sync.Mutex

	repo      github.Repository
	getErr    error
	search    github.CodeSearchResult
	searchErr error

	gets     []string
	searches []github.SearchCodeParams
}

func (f *fakeGitHub) GetRepository(_ context.Context, owner, name string) (github.Repository, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets = append(f.gets, owner+"/"+name)
	return f.repo, f.getErr
}

func (f *fakeGitHub) SearchCode(_ context.Context, params github.SearchCodeParams) (github.CodeSearchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches = append(f.searches, params)
	return f.search, f.searchErr
}

type testEnv struct {
	svc      *Service
	api      *fakeAPI
	srv      *httptest.Server
	importer *recordingImporter
	github   *fakeGitHub
	out      *bytes.Buffer
	reg      *prometheus.Registry
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	api := &fakeAPI{}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.Placeholder.BaseURL = srv.URL
	cfg.GitHub.APIURL = srv.URL
	cfg.GitHub.Token.Set("ghp_test")

	env := &testEnv{
		api:      api,
		srv:      srv,
		importer: &recordingImporter{},
		github: &fakeGitHub{
			repo: github.Repository{
				ID:          42,
				Name:        "Youngj2TestRepoTwo",
				FullName:    "Youngj2/Youngj2TestRepoTwo",
				Description: "test repo",
				CloneURL:    "https://github.com/Youngj2/Youngj2TestRepoTwo.git",
				HTMLURL:     "https://github.com/Youngj2/Youngj2TestRepoTwo",
				URL:         "https://api.github.com/repos/Youngj2/Youngj2TestRepoTwo",
				Owner:       github.Owner{ID: 7, Login: "Youngj2"},
			},
			search: github.CodeSearchResult{Total: 1, Files: []github.CodeFile{{Name: "Program.cs"}}},
		},
		out: &bytes.Buffer{},
		reg: prometheus.NewRegistry(),
	}

	svc, err := New(cfg, env.importer, log.NewNopLogger(), env.reg,
		WithOutput(env.out),
		WithHTTPClient(srv.Client()),
		WithGitHubClient(env.github),
		WithSearchLimiter(rate.NewLimiter(rate.Inf, 1)),
	)
	require.NoError(t, err)
	env.svc = svc
	return env
}

var errImport = errors.New("staging table unavailable")
