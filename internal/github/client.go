package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/douhashi/conflictlabel/internal/logger"
	"github.com/google/go-github/v67/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"
)

// Client はGitHub REST/GraphQL APIクライアントのラッパー
// ラベル検索・PR取得・ラベル付け外しはGraphQL、ラベル作成・コメント・レート制限はRESTを使う
type Client struct {
	rest    *github.Client
	graphql *githubv4.Client
	logger  logger.Logger
	retry   RetryStrategy
}

type clientOptions struct {
	baseURL string
	logger  logger.Logger
	retry   RetryStrategy
}

// Option はClientの設定オプション
type Option func(*clientOptions)

// WithBaseURL はGitHub Enterprise ServerのURLを設定する
// 例: https://ghe.example.com/
func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) {
		o.baseURL = baseURL
	}
}

// WithLogger はHTTPログ出力用のロガーを設定する
func WithLogger(l logger.Logger) Option {
	return func(o *clientOptions) {
		o.logger = l
	}
}

// WithRetryStrategy はラベル操作のリトライ戦略を設定する
func WithRetryStrategy(rs RetryStrategy) Option {
	return func(o *clientOptions) {
		o.retry = rs
	}
}

// NewClient は新しいGitHub APIクライアントを作成する
func NewClient(ctx context.Context, token string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, errors.New("GitHub token is required")
	}

	o := &clientOptions{
		logger: logger.NewNop(),
		retry:  DefaultRetryStrategy(),
	}
	for _, opt := range opts {
		opt(o)
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	hc := oauth2.NewClient(ctx, ts)
	hc.Transport = &loggingRoundTripper{
		base:   hc.Transport,
		logger: o.logger,
	}

	rest := github.NewClient(hc)
	gql := githubv4.NewClient(rest.Client())

	if o.baseURL != "" {
		base := strings.TrimSuffix(o.baseURL, "/") + "/"
		var err error
		rest, err = rest.WithEnterpriseURLs(base, base)
		if err != nil {
			return nil, fmt.Errorf("invalid base URL: %w", err)
		}
		gql = githubv4.NewEnterpriseClient(base+"api/graphql", rest.Client())
	}

	return &Client{
		rest:    rest,
		graphql: gql,
		logger:  o.logger,
		retry:   o.retry,
	}, nil
}

// HTTPClient returns the authenticated HTTP client shared by REST and GraphQL calls.
func (c *Client) HTTPClient() *http.Client {
	return c.rest.Client()
}
