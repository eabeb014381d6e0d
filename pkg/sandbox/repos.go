package sandbox

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"

	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/alside/httpsandbox/pkg/dto"
)

const (
	// maxForwardedRepositories caps how many listed repositories are imported.
	maxForwardedRepositories = 6
	reposRespLimit           = 8 << 20
)

// ImportOrgRepositories lists the configured organization's repositories
// and imports at most six of them. Failures are logged and printed, never
// returned; the result is the number of repositories imported.
func (s *Service) ImportOrgRepositories(ctx context.Context, mode string) int {
	n, err := s.importOrgRepositories(ctx, mode)
	if err != nil {
		level.Error(s.logger).Log("msg", "failed to import organization repositories", "org", s.cfg.Organization, "mode", mode, "err", err)
		fmt.Fprintln(s.out, err.Error())
	}
	return n
}

func (s *Service) importOrgRepositories(ctx context.Context, mode string) (int, error) {
	repos, err := s.listOrgRepositories(ctx, s.cfg.Organization)
	if err != nil {
		return 0, err
	}

	items := lo.Map(lo.Subset(repos, 0, maxForwardedRepositories), func(r dto.Repository, _ int) dto.WebAPIClientExample {
		return dto.NewWebAPIClientExample(r)
	})
	for i, item := range items {
		if err := s.importer.ImportWebAPIClient(ctx, item, mode); err != nil {
			return i, errors.Wrapf(err, "import repository %s", repos[i].Name)
		}
		s.metrics.forwarded.Inc()
	}
	return len(items), nil
}

func (s *Service) listOrgRepositories(ctx context.Context, org string) ([]dto.Repository, error) {
	target := s.githubAPI.ResolveReference(&url.URL{Path: path.Join("orgs", org, "repos")})
	header := http.Header{
		"Accept":     {"application/vnd.github.v3+json"},
		"User-Agent": {s.cfg.UserAgent},
	}

	resp, err := s.send(ctx, http.MethodGet, target, nil, header)
	if err != nil {
		return nil, errors.Wrapf(err, "list repositories of %s", org)
	}
	defer resp.Body.Close()

	if _, err := ensureSuccess(resp); err != nil {
		return nil, err
	}

	raw, err := readBody(resp, reposRespLimit)
	if err != nil {
		return nil, err
	}
	var repos []dto.Repository
	if err := json.Unmarshal(raw, &repos); err != nil {
		return nil, errors.Wrap(err, "decode repositories")
	}
	if repos == nil {
		repos = []dto.Repository{}
	}
	return repos, nil
}
