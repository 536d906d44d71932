package builders

import (
	"fmt"

	"github.com/douhashi/conflictlabel/internal/github"
)

// ConflictLabel is the label fixture used across tests.
var ConflictLabel = github.Label{ID: "LA_conflict", Name: "merge conflict"}

// PullRequestBuilder builds github.PullRequest instances for testing
type PullRequestBuilder struct {
	pr *github.PullRequest
}

// NewPullRequestBuilder creates a new PullRequestBuilder with sensible defaults
func NewPullRequestBuilder() *PullRequestBuilder {
	return &PullRequestBuilder{
		pr: &github.PullRequest{
			ID:        "PR_1",
			Number:    1,
			Title:     "Default Pull Request",
			Mergeable: github.MergeableStateUnknown,
			Labels:    []github.Label{},
		},
	}
}

// WithNumber sets the number and derives the node ID from it
func (b *PullRequestBuilder) WithNumber(number int) *PullRequestBuilder {
	b.pr.Number = number
	b.pr.ID = fmt.Sprintf("PR_%d", number)
	b.pr.URL = fmt.Sprintf("https://github.com/octo/hello/pull/%d", number)
	return b
}

// WithID overrides the node ID
func (b *PullRequestBuilder) WithID(id string) *PullRequestBuilder {
	b.pr.ID = id
	return b
}

// WithTitle sets the title
func (b *PullRequestBuilder) WithTitle(title string) *PullRequestBuilder {
	b.pr.Title = title
	return b
}

// WithMergeable sets the mergeability fact
func (b *PullRequestBuilder) WithMergeable(state github.MergeableState) *PullRequestBuilder {
	b.pr.Mergeable = state
	return b
}

// Conflicting marks the pull request as CONFLICTING
func (b *PullRequestBuilder) Conflicting() *PullRequestBuilder {
	return b.WithMergeable(github.MergeableStateConflicting)
}

// Mergeable marks the pull request as MERGEABLE
func (b *PullRequestBuilder) Mergeable() *PullRequestBuilder {
	return b.WithMergeable(github.MergeableStateMergeable)
}

// Unknown marks the pull request as UNKNOWN
func (b *PullRequestBuilder) Unknown() *PullRequestBuilder {
	return b.WithMergeable(github.MergeableStateUnknown)
}

// WithLabel adds a label
func (b *PullRequestBuilder) WithLabel(label github.Label) *PullRequestBuilder {
	b.pr.Labels = append(b.pr.Labels, label)
	return b
}

// Build returns a copy so one builder can produce several snapshots
func (b *PullRequestBuilder) Build() *github.PullRequest {
	pr := *b.pr
	pr.Labels = append([]github.Label(nil), b.pr.Labels...)
	return &pr
}
