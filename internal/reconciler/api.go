package reconciler

import (
	"context"

	"github.com/douhashi/conflictlabel/internal/github"
)

// LabelFetcher はラベル名で候補を検索する
type LabelFetcher interface {
	FetchLabels(ctx context.Context, repo github.Repository, query string) ([]github.Label, error)
}

// PullRequestFetcher はオープンPRのスナップショットを取得する
type PullRequestFetcher interface {
	FetchOpenPullRequests(ctx context.Context, repo github.Repository) ([]*github.PullRequest, error)
}

// LabelMutator はPRのラベルを付け外しする
type LabelMutator interface {
	AddLabel(ctx context.Context, pullRequestID, labelID string) error
	RemoveLabel(ctx context.Context, pullRequestID, labelID string) error
}

// Commenter はPRにコメントを投稿する
type Commenter interface {
	CreateComment(ctx context.Context, repo github.Repository, number int, body string) error
}

// API is everything a run needs from GitHub. *github.Client satisfies it.
type API interface {
	LabelFetcher
	PullRequestFetcher
	LabelMutator
	Commenter
}

var _ API = (*github.Client)(nil)
