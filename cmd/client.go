package cmd

import (
	"context"
	"fmt"

	"github.com/douhashi/conflictlabel/internal/config"
	"github.com/douhashi/conflictlabel/internal/git"
	"github.com/douhashi/conflictlabel/internal/github"
	"github.com/douhashi/conflictlabel/internal/logger"
	"github.com/douhashi/conflictlabel/internal/reconciler"
)

// githubInterface はコマンドが使うGitHubクライアントのインターフェース
type githubInterface interface {
	reconciler.API
	EnsureLabel(ctx context.Context, repo github.Repository, def github.LabelDefinition) (bool, error)
	GetRateLimit(ctx context.Context) (*github.RateBudget, error)
}

var _ githubInterface = (*github.Client)(nil)

// テスト時にモック可能な関数変数
var createGitHubClientFunc = func(ctx context.Context, cfg *config.Config, log logger.Logger) (githubInterface, error) {
	opts := []github.Option{github.WithLogger(log)}
	if cfg.GitHub.BaseURL != "" {
		opts = append(opts, github.WithBaseURL(cfg.GitHub.BaseURL))
	}
	return github.NewClient(ctx, cfg.GitHub.Token, opts...)
}

// 作業ディレクトリのgitリモートから対象リポジトリを検出する
var detectRepositoryFunc = func(ctx context.Context, log logger.Logger) (github.Repository, error) {
	return git.NewRemoteDetector(log).DetectFromWorkingDir(ctx)
}

// fillRepository はリポジトリが未設定の場合にgitリモートから補完する
func fillRepository(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	if cfg.GitHub.Repository != "" {
		return nil
	}
	repo, err := detectRepositoryFunc(ctx, log)
	if err != nil {
		return fmt.Errorf("リポジトリが指定されておらず、gitリモートからも検出できません: %w", err)
	}
	log.Debug("Detected repository from git remote", "repository", repo.String())
	cfg.GitHub.Repository = repo.String()
	return nil
}

// loadConfig は設定ファイルと環境変数から設定を読み込む
// --configが指定されていない場合は既定のパスを探し、なければ環境変数だけを使う
func loadConfig() (*config.Config, error) {
	cfg := config.NewConfig()
	if cfgFile != "" {
		if err := cfg.Load(cfgFile); err != nil {
			return nil, fmt.Errorf("設定ファイルの読み込みに失敗: %w", err)
		}
		return cfg, nil
	}
	if err := cfg.LoadOrDefault(config.DefaultConfigPath()); err != nil {
		return nil, fmt.Errorf("設定ファイルの読み込みに失敗: %w", err)
	}
	return cfg, nil
}

// logRateBudget はAPIの残量をログに出す。取得に失敗しても処理は続行する
func logRateBudget(ctx context.Context, client githubInterface, log logger.Logger) {
	budget, err := client.GetRateLimit(ctx)
	if err != nil {
		log.Warn("Failed to get rate limit", "error", err)
		return
	}
	log.Info("GitHub API rate limit",
		"core_remaining", budget.Core.Remaining,
		"core_limit", budget.Core.Limit,
		"graphql_remaining", budget.GraphQL.Remaining,
		"graphql_limit", budget.GraphQL.Limit,
		"graphql_reset", budget.GraphQL.Reset,
	)
}
