package source

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"golang.org/x/time/rate"

	"github.com/alside/httpsandbox/pkg/sandbox/github"
)

const (
	qualifierPath  = "path"
	defaultPerPage = 30

	// GitHub allows ten authenticated code searches per minute.
	searchesPerMinute = 10
)

var (
	ErrNoMatches = errors.New("no matches")
)

type Result struct {
	Query string
	Total int
	Files []github.CodeFile
}

// Finder searches the code of a single repository.
type Finder interface {
	Find(ctx context.Context, repoFullName string, term string, language string) (Result, error)
}

// NewFinder returns a Finder that paces searches with limiter. A nil
// limiter uses GitHub's code search allowance.
func NewFinder(logger log.Logger, client github.Client, limiter *rate.Limiter) (Finder, error) {
	if client == nil {
		return nil, errors.New("github client is required")
	}
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Every(time.Minute/searchesPerMinute), 1)
	}

	f := &finder{
		logger:       logger,
		githubClient: client,
		limiter:      limiter,
	}
	return f, nil
}

type finder struct {
	logger       log.Logger
	githubClient github.Client
	limiter      *rate.Limiter
}

// Find searches for term in the paths of files of the given repository,
// filtered by language. ErrNoMatches is returned alongside an empty result.
func (f *finder) Find(ctx context.Context, repoFullName string, term string, language string) (Result, error) {
	params := github.SearchCodeParams{
		Term:     term,
		In:       []string{qualifierPath},
		Language: searchLanguage(language),
		Repos:    []string{repoFullName},
		PerPage:  defaultPerPage,
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return Result{}, fmt.Errorf("code search rate limit: %w", err)
	}
	res, err := f.githubClient.SearchCode(ctx, params)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		Query: params.Query(),
		Total: res.Total,
		Files: res.Files,
	}
	level.Debug(f.logger).Log("msg", "code search done", "query", result.Query, "total", result.Total, "incomplete", res.Incomplete)
	if result.Total == 0 {
		return result, ErrNoMatches
	}
	return result, nil
}

// searchLanguage maps common spellings and file extensions to the
// language qualifier GitHub expects.
func searchLanguage(language string) string {
	switch l := strings.ToLower(strings.TrimSpace(language)); l {
	case "c#", "cs", ".cs", "csharp":
		return "csharp"
	case "go", ".go", "golang":
		return "go"
	case "f#", "fs", ".fs", "fsharp":
		return "fsharp"
	case "js", ".js", "javascript":
		return "javascript"
	case "ts", ".ts", "typescript":
		return "typescript"
	case "py", ".py", "python":
		return "python"
	default:
		return strings.TrimPrefix(l, ".")
	}
}
