package github

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-github/v67/github"
)

// EnsureLabel はラベルが存在しなければ作成する
// 作成した場合はtrueを返す
func (c *Client) EnsureLabel(ctx context.Context, repo Repository, def LabelDefinition) (bool, error) {
	_, resp, err := c.rest.Issues.GetLabel(ctx, repo.Owner, repo.Name, def.Name)
	if err == nil {
		c.logger.Debug("Label already exists",
			"repository", repo.String(),
			"label", def.Name,
		)
		return false, nil
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		return false, fmt.Errorf("getting label %q: %w", def.Name, ClassifyError(err))
	}

	label := &github.Label{
		Name:  github.String(def.Name),
		Color: github.String(def.Color),
	}
	if def.Description != "" {
		label.Description = github.String(def.Description)
	}

	if _, _, err := c.rest.Issues.CreateLabel(ctx, repo.Owner, repo.Name, label); err != nil {
		return false, fmt.Errorf("creating label %q: %w", def.Name, ClassifyError(err))
	}

	c.logger.Info("Created label",
		"repository", repo.String(),
		"label", def.Name,
		"color", def.Color,
	)
	return true, nil
}

// CreateComment はPRにコメントを投稿する
func (c *Client) CreateComment(ctx context.Context, repo Repository, number int, body string) error {
	comment := &github.IssueComment{Body: github.String(body)}
	return RetryWithStrategy(ctx, c.retry, func() error {
		if _, _, err := c.rest.Issues.CreateComment(ctx, repo.Owner, repo.Name, number, comment); err != nil {
			return ClassifyError(err)
		}
		return nil
	})
}

// RateBudget はAPIのレート制限の残量
type RateBudget struct {
	Core    RateLimit
	GraphQL RateLimit
}

// GetRateLimit はREST/GraphQLのレート制限情報を取得する
func (c *Client) GetRateLimit(ctx context.Context) (*RateBudget, error) {
	limits, _, err := c.rest.RateLimit.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting rate limit: %w", ClassifyError(err))
	}

	budget := &RateBudget{}
	if core := limits.GetCore(); core != nil {
		budget.Core = RateLimit{Limit: core.Limit, Remaining: core.Remaining, Reset: core.Reset.Time}
	}
	if gql := limits.GetGraphQL(); gql != nil {
		budget.GraphQL = RateLimit{Limit: gql.Limit, Remaining: gql.Remaining, Reset: gql.Reset.Time}
	}
	return budget, nil
}
