package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/douhashi/conflictlabel/internal/github"
	"github.com/douhashi/conflictlabel/internal/logger"
)

// ErrNotGitRepository はGitリポジトリの外で実行された場合のエラー
var ErrNotGitRepository = errors.New("not a git repository")

// DetectError はどの段階でリポジトリの検出に失敗したかを保持する
type DetectError struct {
	Step    string
	Cause   error
	Message string
}

func (e *DetectError) Error() string {
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e *DetectError) Unwrap() error {
	return e.Cause
}

// RemoteDetector はgitのリモートURLから対象リポジトリを検出する
type RemoteDetector struct {
	runner Runner
	remote string
}

// NewRemoteDetector creates a detector that reads the "origin" remote.
func NewRemoteDetector(log logger.Logger) *RemoteDetector {
	return NewRemoteDetectorWithRunner(NewCommand(log), "origin")
}

// NewRemoteDetectorWithRunner creates a detector with an explicit runner and remote name.
func NewRemoteDetectorWithRunner(runner Runner, remote string) *RemoteDetector {
	return &RemoteDetector{runner: runner, remote: remote}
}

// Detect はdirを含むGitリポジトリのリモートURLを解析する
func (d *RemoteDetector) Detect(ctx context.Context, dir string) (github.Repository, error) {
	root := findRepositoryRoot(dir)
	if root == "" {
		return github.Repository{}, &DetectError{
			Step:    "git_directory",
			Cause:   ErrNotGitRepository,
			Message: "Gitリポジトリが見つかりません。--repoまたはGITHUB_REPOSITORYを指定してください",
		}
	}

	url, err := d.runner.Run(ctx, "git", []string{"remote", "get-url", d.remote}, root)
	if err != nil {
		return github.Repository{}, &DetectError{
			Step:    "remote_url",
			Cause:   err,
			Message: fmt.Sprintf("リモートURLの取得に失敗しました。'%s' リモートが設定されているか確認してください", d.remote),
		}
	}

	repo, err := github.ParseRepository(url)
	if err != nil {
		return github.Repository{}, &DetectError{
			Step:    "url_parsing",
			Cause:   err,
			Message: fmt.Sprintf("GitHub URLの解析に失敗しました。URL: %s", url),
		}
	}
	return repo, nil
}

// DetectFromWorkingDir は作業ディレクトリからリポジトリを検出する
func (d *RemoteDetector) DetectFromWorkingDir(ctx context.Context) (github.Repository, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return github.Repository{}, &DetectError{
			Step:    "working_directory",
			Cause:   err,
			Message: "作業ディレクトリの取得に失敗しました",
		}
	}
	return d.Detect(ctx, cwd)
}

// findRepositoryRoot は.gitを含むディレクトリを親に向かって探す
// worktreeでは.gitがファイルになるため、ディレクトリかどうかは問わない
func findRepositoryRoot(start string) string {
	path := start
	for {
		if _, err := os.Stat(filepath.Join(path, ".git")); err == nil {
			return path
		}
		parent := filepath.Dir(path)
		if parent == path {
			return ""
		}
		path = parent
	}
}
