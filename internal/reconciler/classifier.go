package reconciler

import "github.com/douhashi/conflictlabel/internal/github"

// Classification partitions pull requests by their mergeability fact.
type Classification struct {
	Conflicting []*github.PullRequest
	Mergeable   []*github.PullRequest
	Unknown     []*github.PullRequest
}

// Classify はPRをマージ可能性で振り分ける。入力の順序は保持する
func Classify(prs []*github.PullRequest) Classification {
	var c Classification
	for _, pr := range prs {
		if pr == nil {
			continue
		}
		switch pr.Mergeable {
		case github.MergeableStateConflicting:
			c.Conflicting = append(c.Conflicting, pr)
		case github.MergeableStateMergeable:
			c.Mergeable = append(c.Mergeable, pr)
		default:
			c.Unknown = append(c.Unknown, pr)
		}
	}
	return c
}

// Total returns the number of classified pull requests.
func (c Classification) Total() int {
	return len(c.Conflicting) + len(c.Mergeable) + len(c.Unknown)
}
