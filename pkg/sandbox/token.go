package sandbox

import (
	"context"
	"fmt"

	"github.com/go-kit/log/level"
	"github.com/pkg/errors"

	"github.com/alside/httpsandbox/pkg/dto"
	"github.com/alside/httpsandbox/pkg/sandbox/source"
)

// TokenWalkthrough looks up the configured repository with the configured
// GitHub credentials, searches its code and imports the repository
// metadata. A failure at any step stops the walkthrough; it is logged and
// printed but not returned.
func (s *Service) TokenWalkthrough(ctx context.Context, mode string) error {
	if err := s.tokenWalkthrough(ctx, mode); err != nil {
		level.Error(s.logger).Log("msg", "github walkthrough failed", "repository", s.cfg.RepositoryURL, "mode", mode, "err", err)
		fmt.Fprintln(s.out, err.Error())
	}
	return nil
}

func (s *Service) tokenWalkthrough(ctx context.Context, mode string) error {
	owner, name := s.repoURL.GetOwnerName(), s.repoURL.GetRepoName()

	repo, err := s.githubClient.GetRepository(ctx, owner, name)
	if err != nil {
		return errors.Wrap(err, "get repository")
	}

	res, err := s.finder.Find(ctx, repo.FullName, s.cfg.SearchTerm, s.cfg.SearchLanguage)
	switch {
	case errors.Is(err, source.ErrNoMatches):
		level.Info(s.logger).Log("msg", "code search found nothing", "query", res.Query)
	case err != nil:
		return errors.Wrap(err, "search code")
	default:
		level.Info(s.logger).Log("msg", "code search done", "query", res.Query, "total", res.Total)
	}
	fmt.Fprintln(s.out, "done")

	record := dto.NewGitHubRepo(
		repo.ID,
		repo.CloneURL,
		repo.Description,
		repo.FullName,
		repo.HTMLURL,
		repo.Name,
		repo.Owner.ID,
		repo.Owner.Login,
		repo.URL,
	)
	return errors.Wrap(s.importer.ImportGitHubRepo(ctx, record, mode), "import repository")
}
