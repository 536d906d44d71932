package github

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// MergeableState はGitHubが非同期に計算するPRのマージ可能性
type MergeableState string

const (
	// MergeableStateMergeable はコンフリクトなし
	MergeableStateMergeable MergeableState = "MERGEABLE"
	// MergeableStateConflicting はコンフリクトあり
	MergeableStateConflicting MergeableState = "CONFLICTING"
	// MergeableStateUnknown はGitHub側でまだ判定中
	MergeableStateUnknown MergeableState = "UNKNOWN"
)

// ParseMergeableState はGraphQLの値をMergeableStateに変換する
// 想定外の値はUNKNOWNとして扱う
func ParseMergeableState(s string) MergeableState {
	switch MergeableState(strings.ToUpper(strings.TrimSpace(s))) {
	case MergeableStateMergeable:
		return MergeableStateMergeable
	case MergeableStateConflicting:
		return MergeableStateConflicting
	default:
		return MergeableStateUnknown
	}
}

// Label represents a repository label. ID is the GraphQL node ID.
type Label struct {
	ID   string
	Name string
}

// PullRequest はフェッチ時点のオープンPRのスナップショット
type PullRequest struct {
	ID        string
	Number    int
	Title     string
	URL       string
	Mergeable MergeableState
	Labels    []Label
}

// HasLabel はPRに指定IDのラベルが付いているかを返す
func (pr *PullRequest) HasLabel(labelID string) bool {
	if pr == nil {
		return false
	}
	for _, l := range pr.Labels {
		if l.ID == labelID {
			return true
		}
	}
	return false
}

// LabelNames returns the names of the labels applied to the pull request.
func (pr *PullRequest) LabelNames() []string {
	names := make([]string, 0, len(pr.Labels))
	for _, l := range pr.Labels {
		names = append(names, l.Name)
	}
	return names
}

// Repository はowner/nameの組
type Repository struct {
	Owner string
	Name  string
}

func (r Repository) String() string {
	return r.Owner + "/" + r.Name
}

var (
	shortRepoPattern = regexp.MustCompile(`^([A-Za-z0-9_.-]+)/([A-Za-z0-9_.-]+)$`)
	httpsRepoPattern = regexp.MustCompile(`^https?://[^/]+/([^/]+)/([^/]+?)(?:\.git)?/?$`)
	sshRepoPattern   = regexp.MustCompile(`^(?:ssh://)?git@[^:/]+[:/]([^/]+)/([^/]+?)(?:\.git)?$`)
)

// ParseRepository はリポジトリ指定を解析する
// 以下の形式に対応:
// - owner/repo
// - https://github.com/owner/repo(.git)
// - git@github.com:owner/repo(.git)
func ParseRepository(s string) (Repository, error) {
	s = strings.TrimSpace(s)
	for _, pattern := range []*regexp.Regexp{shortRepoPattern, httpsRepoPattern, sshRepoPattern} {
		if matches := pattern.FindStringSubmatch(s); len(matches) == 3 {
			return Repository{
				Owner: matches[1],
				Name:  strings.TrimSuffix(matches[2], ".git"),
			}, nil
		}
	}
	return Repository{}, fmt.Errorf("invalid repository format: %q", s)
}

// LabelDefinition defines a GitHub label with its properties
type LabelDefinition struct {
	Name        string
	Color       string
	Description string
}

// RateLimit represents the rate limit for a specific GitHub API category.
type RateLimit struct {
	Limit     int
	Remaining int
	Reset     time.Time
}
