package mocks

import (
	"context"

	"github.com/douhashi/conflictlabel/internal/github"
	"github.com/stretchr/testify/mock"
)

// MockGitHubClient is a mock implementation of reconciler.API
type MockGitHubClient struct {
	mock.Mock
}

// NewMockGitHubClient creates a new instance of MockGitHubClient
func NewMockGitHubClient() *MockGitHubClient {
	return &MockGitHubClient{}
}

// FetchLabels mocks the FetchLabels method
func (m *MockGitHubClient) FetchLabels(ctx context.Context, repo github.Repository, query string) ([]github.Label, error) {
	args := m.Called(ctx, repo, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]github.Label), args.Error(1)
}

// FetchOpenPullRequests mocks the FetchOpenPullRequests method
func (m *MockGitHubClient) FetchOpenPullRequests(ctx context.Context, repo github.Repository) ([]*github.PullRequest, error) {
	args := m.Called(ctx, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*github.PullRequest), args.Error(1)
}

// AddLabel mocks the AddLabel method
func (m *MockGitHubClient) AddLabel(ctx context.Context, pullRequestID, labelID string) error {
	args := m.Called(ctx, pullRequestID, labelID)
	return args.Error(0)
}

// RemoveLabel mocks the RemoveLabel method
func (m *MockGitHubClient) RemoveLabel(ctx context.Context, pullRequestID, labelID string) error {
	args := m.Called(ctx, pullRequestID, labelID)
	return args.Error(0)
}

// CreateComment mocks the CreateComment method
func (m *MockGitHubClient) CreateComment(ctx context.Context, repo github.Repository, number int, body string) error {
	args := m.Called(ctx, repo, number, body)
	return args.Error(0)
}

// WithLabels はFetchLabelsの戻り値を設定する
func (m *MockGitHubClient) WithLabels(labels ...github.Label) *MockGitHubClient {
	m.On("FetchLabels", mock.Anything, mock.Anything, mock.Anything).Return(labels, nil)
	return m
}

// WithSnapshot はFetchOpenPullRequestsの戻り値を1回分追加する
// 複数回呼ぶと呼び出し順に返す
func (m *MockGitHubClient) WithSnapshot(prs ...*github.PullRequest) *MockGitHubClient {
	m.On("FetchOpenPullRequests", mock.Anything, mock.Anything).Return(prs, nil).Once()
	return m
}

// WithAddLabelSuccess は成功するAddLabelの期待値を設定
func (m *MockGitHubClient) WithAddLabelSuccess(pullRequestID, labelID string) *MockGitHubClient {
	m.On("AddLabel", mock.Anything, pullRequestID, labelID).Return(nil).Once()
	return m
}

// WithAddLabelError はエラーを返すAddLabelの期待値を設定
func (m *MockGitHubClient) WithAddLabelError(pullRequestID, labelID string, err error) *MockGitHubClient {
	m.On("AddLabel", mock.Anything, pullRequestID, labelID).Return(err).Once()
	return m
}

// WithRemoveLabelSuccess は成功するRemoveLabelの期待値を設定
func (m *MockGitHubClient) WithRemoveLabelSuccess(pullRequestID, labelID string) *MockGitHubClient {
	m.On("RemoveLabel", mock.Anything, pullRequestID, labelID).Return(nil).Once()
	return m
}

// WithRemoveLabelError はエラーを返すRemoveLabelの期待値を設定
func (m *MockGitHubClient) WithRemoveLabelError(pullRequestID, labelID string, err error) *MockGitHubClient {
	m.On("RemoveLabel", mock.Anything, pullRequestID, labelID).Return(err).Once()
	return m
}

// EnsureLabel mocks the EnsureLabel method
func (m *MockGitHubClient) EnsureLabel(ctx context.Context, repo github.Repository, def github.LabelDefinition) (bool, error) {
	args := m.Called(ctx, repo, def)
	return args.Bool(0), args.Error(1)
}

// GetRateLimit mocks the GetRateLimit method
func (m *MockGitHubClient) GetRateLimit(ctx context.Context) (*github.RateBudget, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*github.RateBudget), args.Error(1)
}
