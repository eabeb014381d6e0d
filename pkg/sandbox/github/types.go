package github

import (
	"strings"
)

// Repository is the subset of repository metadata the sandbox imports.
type Repository struct {
	ID          int64
	Name        string
	FullName    string
	Description string
	CloneURL    string
	HTMLURL     string
	URL         string
	Owner       Owner
}

type Owner struct {
	ID    int64
	Login string
}

// SearchCodeParams are the qualifiers of a code search.
type SearchCodeParams struct {
	Term     string
	In       []string
	Language string
	Repos    []string
	PerPage  int
}

// Query renders the search query string, e.g.
// "await in:path language:csharp repo:octokit/octokit.net".
func (p SearchCodeParams) Query() string {
	parts := []string{p.Term}
	if len(p.In) > 0 {
		parts = append(parts, "in:"+strings.Join(p.In, ","))
	}
	if p.Language != "" {
		parts = append(parts, "language:"+p.Language)
	}
	for _, repo := range p.Repos {
		parts = append(parts, "repo:"+repo)
	}
	return strings.Join(parts, " ")
}

type CodeSearchResult struct {
	Total      int
	Incomplete bool
	Files      []CodeFile
}

type CodeFile struct {
	Name    string
	Path    string
	SHA     string
	HTMLURL string
}
