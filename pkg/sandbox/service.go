// Package sandbox issues the demonstration HTTP calls against the JSON
// placeholder and GitHub APIs and forwards every response to an importer.
package sandbox

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	jsoniter "github.com/json-iterator/go"
	giturl "github.com/kubescape/go-git-url"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/alside/httpsandbox/pkg/config"
	"github.com/alside/httpsandbox/pkg/importer"
	"github.com/alside/httpsandbox/pkg/sandbox/github"
	"github.com/alside/httpsandbox/pkg/sandbox/source"
)

var (
	json = jsoniter.ConfigCompatibleWithStandardLibrary

	supportedGitProviders = []string{
		"github",
	}
)

type Option func(*Service)

// WithOutput sets where request lines and response bodies are printed.
func WithOutput(w io.Writer) Option {
	return func(s *Service) { s.out = w }
}

// WithHTTPClient replaces the client used for the placeholder API and the
// organization repository listing.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Service) { s.httpClient = c }
}

// WithGitHubClient replaces the client built from the configuration.
func WithGitHubClient(c github.Client) Option {
	return func(s *Service) { s.githubClient = c }
}

// WithSearchLimiter paces the walkthrough's code searches.
func WithSearchLimiter(l *rate.Limiter) Option {
	return func(s *Service) { s.searchLimiter = l }
}

type Service struct {
	logger   log.Logger
	out      io.Writer
	cfg      config.GitHubConfig
	importer importer.Importer
	metrics  *metrics

	httpClient   *http.Client
	baseURL      *url.URL
	githubAPI    *url.URL
	githubClient github.Client
	finder       source.Finder
	repoURL      giturl.IGitURL

	searchLimiter *rate.Limiter
}

func New(cfg config.Config, imp importer.Importer, logger log.Logger, reg prometheus.Registerer, opts ...Option) (*Service, error) {
	if imp == nil {
		return nil, errors.New("importer is required")
	}

	s := &Service{
		logger:   logger,
		out:      os.Stdout,
		cfg:      cfg.GitHub,
		importer: imp,
		metrics:  newMetrics(reg),
	}
	for _, o := range opts {
		o(s)
	}
	if s.httpClient == nil {
		s.httpClient = &http.Client{Timeout: cfg.Placeholder.Timeout}
	}

	if cfg.GitHub.Organization == "" {
		return nil, errors.New("github organization must not be empty")
	}

	var err error
	if s.baseURL, err = parseBaseURL(cfg.Placeholder.BaseURL); err != nil {
		return nil, errors.Wrap(err, "placeholder base url")
	}
	if s.githubAPI, err = parseBaseURL(cfg.GitHub.APIURL); err != nil {
		return nil, errors.Wrap(err, "github api url")
	}
	if s.repoURL, err = getGitProviderURL(cfg.GitHub.RepositoryURL); err != nil {
		return nil, errors.Wrapf(err, "invalid repository url: %s", cfg.GitHub.RepositoryURL)
	}

	if s.githubClient == nil {
		token, err := githubToken(cfg.GitHub)
		if err != nil {
			return nil, err
		}
		s.githubClient, err = github.NewClient(github.ClientConfig{
			BaseURL:    cfg.GitHub.APIURL,
			UserAgent:  cfg.GitHub.Identity,
			AuthMode:   github.AuthMode(cfg.GitHub.AuthMode),
			Username:   cfg.GitHub.Identity,
			Password:   cfg.GitHub.Password.String(),
			Token:      token,
			HTTPClient: s.httpClient,
		})
		if err != nil {
			return nil, errors.Wrap(err, "github client")
		}
	}

	if s.finder, err = source.NewFinder(logger, s.githubClient, s.searchLimiter); err != nil {
		return nil, err
	}
	return s, nil
}

// githubToken resolves the personal access token, opening the sealed one
// when no plain token is configured.
func githubToken(cfg config.GitHubConfig) (*oauth2.Token, error) {
	if cfg.AuthMode != config.AuthModeToken {
		return nil, nil
	}
	if cfg.Token.String() != "" {
		return &oauth2.Token{AccessToken: cfg.Token.String()}, nil
	}
	if cfg.SealedToken == "" {
		return nil, errors.New("no github token configured")
	}
	token, err := OpenToken(cfg.SealedToken, []byte(cfg.SealKey.String()))
	if err != nil {
		return nil, errors.Wrap(err, "open sealed github token")
	}
	return token, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("url must be absolute: %q", raw)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u, nil
}

func getGitProviderURL(repoURL string) (giturl.IGitURL, error) {
	url, err := giturl.NewGitURL(repoURL)
	if err != nil {
		return nil, err
	}

	for _, provider := range supportedGitProviders {
		if url.GetProvider() == provider {
			return url, nil
		}
	}
	return nil, fmt.Errorf("unsupported git provider, supported providers: %v", supportedGitProviders)
}

// do sends one request to the placeholder API. ref is resolved against
// the base URL and may carry a query. A non-nil body is sent as JSON.
func (s *Service) do(ctx context.Context, method string, ref string, body interface{}) (*http.Response, error) {
	target, err := url.Parse(ref)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %q", ref)
	}
	return s.send(ctx, method, s.baseURL.ResolveReference(target), body, nil)
}

func (s *Service) send(ctx context.Context, method string, target *url.URL, body interface{}, header http.Header) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "encode request body")
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return nil, err
	}
	for k, v := range header {
		req.Header[k] = v
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.metrics.requests.WithLabelValues(method, "error").Inc()
		return nil, err
	}
	s.metrics.requests.WithLabelValues(method, fmt.Sprint(resp.StatusCode)).Inc()
	level.Debug(s.logger).Log("msg", "request done", "method", method, "url", target.String(), "status", resp.StatusCode)
	return resp, nil
}
