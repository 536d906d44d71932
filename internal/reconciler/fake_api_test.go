package reconciler

import (
	"context"
	"sync"

	"github.com/douhashi/conflictlabel/internal/github"
)

// fakeAPI はラベルの状態をメモリ上に持つGitHubのフェイク
// FetchOpenPullRequestsは毎回新しいスナップショットを返す
type fakeAPI struct {
	mu        sync.Mutex
	labels    []github.Label
	prs       []github.PullRequest
	mutations int
	comments  []string
}

func newFakeAPI(labels []github.Label, prs ...*github.PullRequest) *fakeAPI {
	f := &fakeAPI{labels: labels}
	for _, pr := range prs {
		f.prs = append(f.prs, *pr)
	}
	return f
}

func (f *fakeAPI) FetchLabels(_ context.Context, _ github.Repository, _ string) ([]github.Label, error) {
	return f.labels, nil
}

func (f *fakeAPI) FetchOpenPullRequests(_ context.Context, _ github.Repository) ([]*github.PullRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	snapshot := make([]*github.PullRequest, 0, len(f.prs))
	for _, pr := range f.prs {
		cp := pr
		cp.Labels = append([]github.Label(nil), pr.Labels...)
		snapshot = append(snapshot, &cp)
	}
	return snapshot, nil
}

func (f *fakeAPI) AddLabel(_ context.Context, pullRequestID, labelID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.mutations++
	for i := range f.prs {
		if f.prs[i].ID == pullRequestID && !f.prs[i].HasLabel(labelID) {
			f.prs[i].Labels = append(f.prs[i].Labels, f.label(labelID))
		}
	}
	return nil
}

func (f *fakeAPI) RemoveLabel(_ context.Context, pullRequestID, labelID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.mutations++
	for i := range f.prs {
		if f.prs[i].ID != pullRequestID {
			continue
		}
		kept := f.prs[i].Labels[:0]
		for _, l := range f.prs[i].Labels {
			if l.ID != labelID {
				kept = append(kept, l)
			}
		}
		f.prs[i].Labels = kept
	}
	return nil
}

func (f *fakeAPI) CreateComment(_ context.Context, _ github.Repository, _ int, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.comments = append(f.comments, body)
	return nil
}

func (f *fakeAPI) label(id string) github.Label {
	for _, l := range f.labels {
		if l.ID == id {
			return l
		}
	}
	return github.Label{ID: id}
}

func (f *fakeAPI) pr(id string) github.PullRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, pr := range f.prs {
		if pr.ID == id {
			return pr
		}
	}
	return github.PullRequest{}
}
