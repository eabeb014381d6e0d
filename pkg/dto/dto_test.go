package dto

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestTodo_String(t *testing.T) {
	tests := []struct {
		Name string
		Todo Todo
		Want string
	}{
		{
			Name: "open",
			Todo: Todo{UserID: 1, ID: 3, Title: "fugiat veniam minus"},
			Want: "Todo { UserId = 1, Id = 3, Title = fugiat veniam minus, Completed = False }",
		},
		{
			Name: "completed",
			Todo: Todo{UserID: 9, ID: 201, Title: "Show extensions", Completed: true},
			Want: "Todo { UserId = 9, Id = 201, Title = Show extensions, Completed = True }",
		},
	}

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			require.Equal(t, tt.Want, tt.Todo.String())
		})
	}
}

func TestNewGitHubRepo(t *testing.T) {
	got := NewGitHubRepo(42, "https://github.com/o/r.git", "desc", "o/r", "https://github.com/o/r", "r", 7, "o", "https://api.github.com/repos/o/r")
	want := GitHubRepo{
		RepositoryID: "Repository ID: 42",
		CloneURL:     "Clone Url: https://github.com/o/r.git",
		Description:  "Description: desc",
		FullName:     "Full Name: o/r",
		HTMLURL:      "Html Url: https://github.com/o/r",
		Name:         "Name: r",
		UserID:       "User ID: 7",
		UserLogin:    "User Login: o",
		URL:          "Url: https://api.github.com/repos/o/r",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("NewGitHubRepo() mismatch (-want +got):\n%s", diff)
	}
}

func TestNewWebAPIClientExample(t *testing.T) {
	got := NewWebAPIClientExample(Repository{
		Name:          "runtime",
		Description:   ".NET runtime",
		GitHubHomeURL: "https://github.com/dotnet/runtime",
		Homepage:      "https://dot.net",
		Watchers:      14532,
		LastPush:      time.Date(2024, 4, 16, 20, 22, 27, 0, time.UTC),
	})
	want := WebAPIClientExample{
		RepoName:          "Name: runtime",
		RepoHomePage:      "Homepage: https://dot.net",
		RepoGitHubHomeURL: "GitHub: https://github.com/dotnet/runtime",
		RepoDescription:   "Description: .NET runtime",
		RepoWatchers:      "Watchers: 14,532",
		RepoLastPush:      "2024-04-16T20:22:27Z",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("NewWebAPIClientExample() mismatch (-want +got):\n%s", diff)
	}

	empty := NewWebAPIClientExample(Repository{})
	require.Equal(t, "Watchers: 0", empty.RepoWatchers)
	require.Empty(t, empty.RepoLastPush)
}
