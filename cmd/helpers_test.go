package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/douhashi/conflictlabel/internal/config"
	"github.com/douhashi/conflictlabel/internal/logger"
	"github.com/douhashi/conflictlabel/internal/testutil/helpers"
	"github.com/douhashi/conflictlabel/internal/testutil/mocks"
)

// setupTestEnv は実環境の設定ファイルやトークンを読まないようにする
func setupTestEnv(t *testing.T) {
	t.Helper()
	helpers.IsolateConfig(t)
	t.Setenv("GITHUB_TOKEN", "test-token")
	t.Setenv("GITHUB_REPOSITORY", "octo/hello")
}

// stubGitHubClient はGitHubクライアントの生成をモックに差し替える
func stubGitHubClient(t *testing.T, client *mocks.MockGitHubClient) *config.Config {
	t.Helper()
	var captured config.Config
	original := createGitHubClientFunc
	createGitHubClientFunc = func(_ context.Context, cfg *config.Config, _ logger.Logger) (githubInterface, error) {
		captured = *cfg
		return client, nil
	}
	t.Cleanup(func() { createGitHubClientFunc = original })
	return &captured
}

func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cfgFile, verbose = "", false

	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	cmd := NewRootCmd()
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}
