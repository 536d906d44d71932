package github

import (
	"context"
	"fmt"

	"github.com/shurcooL/githubv4"
)

const (
	// pageSize はGraphQLの1ページあたりの取得件数（APIの上限）
	pageSize = 100
	// prLabelLimit はPRごとに取得するラベル数の上限
	prLabelLimit = 100
)

type labelNode struct {
	ID   string
	Name string
}

type pageInfo struct {
	HasNextPage bool
	EndCursor   githubv4.String
}

type labelsQuery struct {
	Repository struct {
		Labels struct {
			Nodes    []labelNode
			PageInfo pageInfo
		} `graphql:"labels(first: $first, query: $query, after: $cursor)"`
	} `graphql:"repository(owner: $owner, name: $name)"`
}

type pullRequestsQuery struct {
	Repository struct {
		PullRequests struct {
			Nodes []struct {
				ID        string
				Number    int
				Title     string
				URL       string
				Mergeable string // MERGEABLE, CONFLICTING, UNKNOWN
				Labels    struct {
					Nodes []labelNode
				} `graphql:"labels(first: $labelLimit)"`
			}
			PageInfo pageInfo
		} `graphql:"pullRequests(first: $first, after: $cursor, states: [OPEN])"`
	} `graphql:"repository(owner: $owner, name: $name)"`
}

// FetchLabels はリポジトリのラベルを名前で検索する
// GitHubのlabels(query:)は部分一致・あいまい検索なので、結果は完全一致を保証しない
func (c *Client) FetchLabels(ctx context.Context, repo Repository, query string) ([]Label, error) {
	variables := map[string]any{
		"owner":  githubv4.String(repo.Owner),
		"name":   githubv4.String(repo.Name),
		"query":  githubv4.String(query),
		"first":  githubv4.Int(pageSize),
		"cursor": (*githubv4.String)(nil),
	}

	var labels []Label
	for {
		var q labelsQuery
		if err := c.graphql.Query(ctx, &q, variables); err != nil {
			return nil, fmt.Errorf("querying labels of %s: %w", repo, ClassifyError(err))
		}
		for _, n := range q.Repository.Labels.Nodes {
			labels = append(labels, Label{ID: n.ID, Name: n.Name})
		}
		if !q.Repository.Labels.PageInfo.HasNextPage {
			break
		}
		variables["cursor"] = githubv4.NewString(q.Repository.Labels.PageInfo.EndCursor)
	}

	c.logger.Debug("Fetched label candidates",
		"repository", repo.String(),
		"query", query,
		"count", len(labels),
	)

	return labels, nil
}

// FetchOpenPullRequests はオープンなPRをマージ可能性とラベル付きで全件取得する
func (c *Client) FetchOpenPullRequests(ctx context.Context, repo Repository) ([]*PullRequest, error) {
	variables := map[string]any{
		"owner":      githubv4.String(repo.Owner),
		"name":       githubv4.String(repo.Name),
		"first":      githubv4.Int(pageSize),
		"labelLimit": githubv4.Int(prLabelLimit),
		"cursor":     (*githubv4.String)(nil),
	}

	var prs []*PullRequest
	for {
		var q pullRequestsQuery
		if err := c.graphql.Query(ctx, &q, variables); err != nil {
			return nil, fmt.Errorf("querying open pull requests of %s: %w", repo, ClassifyError(err))
		}

		for _, n := range q.Repository.PullRequests.Nodes {
			pr := &PullRequest{
				ID:        n.ID,
				Number:    n.Number,
				Title:     n.Title,
				URL:       n.URL,
				Mergeable: ParseMergeableState(n.Mergeable),
				Labels:    make([]Label, 0, len(n.Labels.Nodes)),
			}
			for _, l := range n.Labels.Nodes {
				pr.Labels = append(pr.Labels, Label{ID: l.ID, Name: l.Name})
			}
			prs = append(prs, pr)
		}

		if !q.Repository.PullRequests.PageInfo.HasNextPage {
			break
		}
		variables["cursor"] = githubv4.NewString(q.Repository.PullRequests.PageInfo.EndCursor)
	}

	c.logger.Debug("Fetched open pull requests",
		"repository", repo.String(),
		"count", len(prs),
	)

	return prs, nil
}

// AddLabel はPRにラベルを付与する
func (c *Client) AddLabel(ctx context.Context, pullRequestID, labelID string) error {
	var m struct {
		AddLabelsToLabelable struct {
			ClientMutationID *string
		} `graphql:"addLabelsToLabelable(input: $input)"`
	}

	input := githubv4.AddLabelsToLabelableInput{
		LabelableID: githubv4.ID(pullRequestID),
		LabelIDs:    []githubv4.ID{githubv4.ID(labelID)},
	}

	return RetryWithStrategy(ctx, c.retry, func() error {
		if err := c.graphql.Mutate(ctx, &m, input, nil); err != nil {
			return ClassifyError(err)
		}
		return nil
	})
}

// RemoveLabel はPRからラベルを外す
func (c *Client) RemoveLabel(ctx context.Context, pullRequestID, labelID string) error {
	var m struct {
		RemoveLabelsFromLabelable struct {
			ClientMutationID *string
		} `graphql:"removeLabelsFromLabelable(input: $input)"`
	}

	input := githubv4.RemoveLabelsFromLabelableInput{
		LabelableID: githubv4.ID(pullRequestID),
		LabelIDs:    []githubv4.ID{githubv4.ID(labelID)},
	}

	return RetryWithStrategy(ctx, c.retry, func() error {
		if err := c.graphql.Mutate(ctx, &m, input, nil); err != nil {
			return ClassifyError(err)
		}
		return nil
	})
}
