package dto

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
)

// GitHubRepo describes a GitHub repository as labeled strings.
type GitHubRepo struct {
	RepositoryID string
	CloneURL     string
	Description  string
	FullName     string
	HTMLURL      string
	Name         string
	UserID       string
	UserLogin    string
	URL          string
}

// NewGitHubRepo labels every field of the repository.
func NewGitHubRepo(id int64, cloneURL, description, fullName, htmlURL, name string, ownerID int64, ownerLogin, url string) GitHubRepo {
	return GitHubRepo{
		RepositoryID: "Repository ID: " + strconv.FormatInt(id, 10),
		CloneURL:     "Clone Url: " + cloneURL,
		Description:  "Description: " + description,
		FullName:     "Full Name: " + fullName,
		HTMLURL:      "Html Url: " + htmlURL,
		Name:         "Name: " + name,
		UserID:       "User ID: " + strconv.FormatInt(ownerID, 10),
		UserLogin:    "User Login: " + ownerLogin,
		URL:          "Url: " + url,
	}
}

// Repository is one entry of the organization repositories listing.
type Repository struct {
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	GitHubHomeURL string    `json:"html_url"`
	Homepage      string    `json:"homepage"`
	Watchers      int       `json:"watchers"`
	LastPush      time.Time `json:"pushed_at"`
}

// WebAPIClientExample describes one organization repository as labeled
// strings.
type WebAPIClientExample struct {
	RepoName          string
	RepoHomePage      string
	RepoGitHubHomeURL string
	RepoDescription   string
	RepoWatchers      string
	RepoLastPush      string
}

// NewWebAPIClientExample labels a listed repository. Watchers are
// rendered with a thousands separator.
func NewWebAPIClientExample(r Repository) WebAPIClientExample {
	var lastPush string
	if !r.LastPush.IsZero() {
		lastPush = r.LastPush.UTC().Format(time.RFC3339)
	}
	return WebAPIClientExample{
		RepoName:          fmt.Sprintf("Name: %s", r.Name),
		RepoHomePage:      fmt.Sprintf("Homepage: %s", r.Homepage),
		RepoGitHubHomeURL: fmt.Sprintf("GitHub: %s", r.GitHubHomeURL),
		RepoDescription:   fmt.Sprintf("Description: %s", r.Description),
		RepoWatchers:      fmt.Sprintf("Watchers: %s", humanize.Comma(int64(r.Watchers))),
		RepoLastPush:      lastPush,
	}
}
