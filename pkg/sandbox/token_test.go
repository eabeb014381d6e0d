package sandbox

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alside/httpsandbox/pkg/dto"
	"github.com/alside/httpsandbox/pkg/sandbox/github"
)

func TestService_TokenWalkthrough(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.svc.Run(context.Background(), ModeToken))

	require.Equal(t, []string{"Youngj2/Youngj2TestRepoTwo"}, env.github.gets)
	require.Len(t, env.github.searches, 1)
	require.Equal(t, "await in:path language:csharp repo:Youngj2/Youngj2TestRepoTwo", env.github.searches[0].Query())

	require.Equal(t, []dto.GitHubRepo{{
		RepositoryID: "Repository ID: 42",
		CloneURL:     "Clone Url: https://github.com/Youngj2/Youngj2TestRepoTwo.git",
		Description:  "Description: test repo",
		FullName:     "Full Name: Youngj2/Youngj2TestRepoTwo",
		HTMLURL:      "Html Url: https://github.com/Youngj2/Youngj2TestRepoTwo",
		Name:         "Name: Youngj2TestRepoTwo",
		UserID:       "User ID: 7",
		UserLogin:    "User Login: Youngj2",
		URL:          "Url: https://api.github.com/repos/Youngj2/Youngj2TestRepoTwo",
	}}, env.importer.repos)
	require.Equal(t, []string{ModeToken}, env.importer.modes)
	require.Equal(t, "done\n", env.out.String())

	// The walkthrough never touches the placeholder API.
	require.Empty(t, env.api.recorded())
}

func TestService_TokenWalkthrough_NoMatches(t *testing.T) {
	env := newTestEnv(t)
	env.github.search = github.CodeSearchResult{}

	require.NoError(t, env.svc.TokenWalkthrough(context.Background(), ModeToken))
	require.Len(t, env.importer.repos, 1)
}

func TestService_TokenWalkthrough_Failures(t *testing.T) {
	tests := []struct {
		Name    string
		Setup   func(env *testEnv)
		WantOut string
	}{
		{
			Name: "repository not found",
			Setup: func(env *testEnv) {
				env.github.getErr = github.ErrNotFound
			},
			WantOut: "get repository: not found\n",
		},
		{
			Name: "search failed",
			Setup: func(env *testEnv) {
				env.github.searchErr = errors.New("validation failed")
			},
			WantOut: "search code: validation failed\n",
		},
		{
			Name: "import failed",
			Setup: func(env *testEnv) {
				env.importer.err = errImport
			},
			WantOut: "done\nimport repository: staging table unavailable\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			env := newTestEnv(t)
			tt.Setup(env)

			task := env.svc.Dispatch(context.Background(), ModeToken)
			require.NoError(t, task.Wait())
			require.Empty(t, env.importer.repos)
			require.Equal(t, tt.WantOut, env.out.String())
		})
	}
}

func TestService_TokenWalkthrough_StopsAfterLookupFailure(t *testing.T) {
	env := newTestEnv(t)
	env.github.getErr = github.ErrNotFound

	require.NoError(t, env.svc.TokenWalkthrough(context.Background(), ModeToken))
	require.Empty(t, env.github.searches)
}
