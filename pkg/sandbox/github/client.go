package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	gogithub "github.com/google/go-github/v58/github"
	"golang.org/x/oauth2"
)

// AuthMode selects how requests are authenticated.
type AuthMode string

const (
	AuthModeNone  AuthMode = "none"
	AuthModeBasic AuthMode = "basic"
	AuthModeToken AuthMode = "token"
)

// ErrNotFound is returned when the requested resource does not exist or
// is not visible to the configured credentials.
var ErrNotFound = errors.New("not found")

type Client interface {
	// GetRepository fetches repository metadata by owner and name.
	GetRepository(ctx context.Context, owner, name string) (Repository, error)

	// SearchCode runs a code search.
	SearchCode(ctx context.Context, params SearchCodeParams) (CodeSearchResult, error)
}

// ClientConfig selects one of the three authentication modes:
// unauthenticated, basic (username and password) or personal access token.
type ClientConfig struct {
	BaseURL   string
	UserAgent string

	AuthMode AuthMode
	Username string
	Password string
	Token    *oauth2.Token

	// HTTPClient is the base client. Defaults to http.DefaultClient.
	HTTPClient *http.Client
}

// NewClient builds a new Client.
func NewClient(cfg ClientConfig) (Client, error) {
	base := cfg.HTTPClient
	if base == nil {
		base = http.DefaultClient
	}

	var httpClient *http.Client
	switch cfg.AuthMode {
	case AuthModeNone:
		httpClient = base
	case AuthModeBasic:
		tp := &gogithub.BasicAuthTransport{
			Username:  cfg.Username,
			Password:  cfg.Password,
			Transport: base.Transport,
		}
		httpClient = &http.Client{Transport: tp, Timeout: base.Timeout}
	case AuthModeToken:
		if cfg.Token == nil || cfg.Token.AccessToken == "" {
			return nil, errors.New("token auth requires an access token")
		}
		httpClient = &http.Client{
			Transport: &oauth2.Transport{
				Source: oauth2.StaticTokenSource(cfg.Token),
				Base:   base.Transport,
			},
			Timeout: base.Timeout,
		}
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.AuthMode)
	}

	client := gogithub.NewClient(httpClient)
	if cfg.BaseURL != "" {
		baseURL := cfg.BaseURL
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid base url: %w", err)
		}
		client.BaseURL = u
	}
	if cfg.UserAgent != "" {
		client.UserAgent = cfg.UserAgent
	}

	return &githubClient{client: client}, nil
}

type githubClient struct {
	client *gogithub.Client
}

func (g *githubClient) GetRepository(ctx context.Context, owner, name string) (Repository, error) {
	repo, _, err := g.client.Repositories.Get(ctx, owner, name)
	if err != nil {
		return Repository{}, mapError(err, fmt.Sprintf("repository %s/%s", owner, name))
	}

	return Repository{
		ID:          repo.GetID(),
		Name:        repo.GetName(),
		FullName:    repo.GetFullName(),
		Description: repo.GetDescription(),
		CloneURL:    repo.GetCloneURL(),
		HTMLURL:     repo.GetHTMLURL(),
		URL:         repo.GetURL(),
		Owner: Owner{
			ID:    repo.GetOwner().GetID(),
			Login: repo.GetOwner().GetLogin(),
		},
	}, nil
}

func (g *githubClient) SearchCode(ctx context.Context, params SearchCodeParams) (CodeSearchResult, error) {
	opts := &gogithub.SearchOptions{
		ListOptions: gogithub.ListOptions{PerPage: params.PerPage},
	}
	res, _, err := g.client.Search.Code(ctx, params.Query(), opts)
	if err != nil {
		return CodeSearchResult{}, mapError(err, "code search")
	}

	result := CodeSearchResult{
		Total:      res.GetTotal(),
		Incomplete: res.GetIncompleteResults(),
		Files:      make([]CodeFile, 0, len(res.CodeResults)),
	}
	for _, c := range res.CodeResults {
		result.Files = append(result.Files, CodeFile{
			Name:    c.GetName(),
			Path:    c.GetPath(),
			SHA:     c.GetSHA(),
			HTMLURL: c.GetHTMLURL(),
		})
	}
	return result, nil
}

func mapError(err error, what string) error {
	var errResp *gogithub.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil && errResp.Response.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", what, err)
}
