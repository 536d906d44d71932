package reconciler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/douhashi/conflictlabel/internal/github"
	"github.com/douhashi/conflictlabel/internal/testutil/builders"
	"github.com/douhashi/conflictlabel/internal/testutil/helpers"
	"github.com/douhashi/conflictlabel/internal/testutil/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testPolicy(maxAttempts int) PollPolicy {
	return PollPolicy{
		MaxAttempts: maxAttempts,
		Backoff:     Backoff{Interval: time.Second, Multiplier: 1},
	}
}

func TestPoller_StopsWhenResolved(t *testing.T) {
	pending := builders.NewPullRequestBuilder().WithNumber(7).Unknown()
	resolved := builders.NewPullRequestBuilder().WithNumber(7).Conflicting().Build()

	api := mocks.NewMockGitHubClient().
		WithSnapshot(pending.Build()).
		WithSnapshot(pending.Build()).
		WithSnapshot(pending.Build()).
		WithSnapshot(resolved)
	sleep := &helpers.SleepRecorder{}

	result, err := NewPoller(api, testPolicy(60), nil, WithSleep(sleep.Sleep)).Poll(context.Background(), testRepo)
	require.NoError(t, err)

	assert.Equal(t, 4, result.Attempts)
	assert.Zero(t, result.UnresolvedCount())
	assert.Equal(t, []*github.PullRequest{resolved}, result.PullRequests)
	assert.Equal(t, []time.Duration{time.Second, time.Second, time.Second}, sleep.Delays())
	api.AssertNumberOfCalls(t, "FetchOpenPullRequests", 4)
}

func TestPoller_BudgetExhausted(t *testing.T) {
	pending := builders.NewPullRequestBuilder().WithNumber(9).Unknown()
	done := builders.NewPullRequestBuilder().WithNumber(10).Mergeable()

	api := mocks.NewMockGitHubClient()
	for i := 0; i < 3; i++ {
		api.WithSnapshot(pending.Build(), done.Build())
	}
	sleep := &helpers.SleepRecorder{}

	result, err := NewPoller(api, testPolicy(3), nil, WithSleep(sleep.Sleep)).Poll(context.Background(), testRepo)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Attempts)
	assert.Equal(t, 1, result.UnresolvedCount())
	assert.Equal(t, 9, result.Unresolved[0].Number)
	assert.Len(t, result.PullRequests, 2)
	// 最後の試行の後は待たない
	assert.Len(t, sleep.Delays(), 2)
	api.AssertNumberOfCalls(t, "FetchOpenPullRequests", 3)
}

func TestPoller_FetchesAtLeastOnce(t *testing.T) {
	api := mocks.NewMockGitHubClient().WithSnapshot()
	sleep := &helpers.SleepRecorder{}

	result, err := NewPoller(api, testPolicy(0), nil, WithSleep(sleep.Sleep)).Poll(context.Background(), testRepo)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Attempts)
	assert.Empty(t, result.PullRequests)
	assert.Empty(t, sleep.Delays())
}

func TestPoller_ReplacesSnapshot(t *testing.T) {
	// 1回目はMERGEABLEだったPRが2回目にUNKNOWNへ戻るケース
	first := []*github.PullRequest{
		builders.NewPullRequestBuilder().WithNumber(1).Mergeable().Build(),
		builders.NewPullRequestBuilder().WithNumber(2).Unknown().Build(),
	}
	second := []*github.PullRequest{
		builders.NewPullRequestBuilder().WithNumber(1).Unknown().Build(),
		builders.NewPullRequestBuilder().WithNumber(2).Conflicting().Build(),
	}
	third := []*github.PullRequest{
		builders.NewPullRequestBuilder().WithNumber(1).Mergeable().Build(),
		builders.NewPullRequestBuilder().WithNumber(2).Conflicting().Build(),
	}
	api := mocks.NewMockGitHubClient().WithSnapshot(first...).WithSnapshot(second...).WithSnapshot(third...)
	sleep := &helpers.SleepRecorder{}

	result, err := NewPoller(api, testPolicy(5), nil, WithSleep(sleep.Sleep)).Poll(context.Background(), testRepo)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Attempts)
	assert.Equal(t, third, result.PullRequests)
}

func TestPoller_FetchErrorAborts(t *testing.T) {
	fetchErr := errors.New("connection reset")
	api := mocks.NewMockGitHubClient().WithSnapshot(builders.NewPullRequestBuilder().Unknown().Build())
	api.On("FetchOpenPullRequests", mock.Anything, testRepo).Return(nil, fetchErr).Once()
	sleep := &helpers.SleepRecorder{}

	result, err := NewPoller(api, testPolicy(60), nil, WithSleep(sleep.Sleep)).Poll(context.Background(), testRepo)
	require.Error(t, err)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, fetchErr)
	assert.Contains(t, err.Error(), "attempt 2/60")
	api.AssertNumberOfCalls(t, "FetchOpenPullRequests", 2)
}

func TestPoller_SleepInterrupted(t *testing.T) {
	api := mocks.NewMockGitHubClient().WithSnapshot(builders.NewPullRequestBuilder().Unknown().Build())
	sleep := &helpers.SleepRecorder{Err: context.Canceled}

	result, err := NewPoller(api, testPolicy(60), nil, WithSleep(sleep.Sleep)).Poll(context.Background(), testRepo)

	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, result)
	assert.Equal(t, 1, result.Attempts)
}

func TestPoller_LogsEachAttempt(t *testing.T) {
	log, logs := helpers.NewObservedLogger(zap.DebugLevel)

	pending := builders.NewPullRequestBuilder().WithNumber(3).Unknown()
	api := mocks.NewMockGitHubClient().WithSnapshot(pending.Build()).WithSnapshot(pending.Build())
	sleep := &helpers.SleepRecorder{}

	_, err := NewPoller(api, testPolicy(2), log, WithSleep(sleep.Sleep)).Poll(context.Background(), testRepo)
	require.NoError(t, err)

	attempts := logs.FilterMessage("Polled mergeability").All()
	require.Len(t, attempts, 2)
	assert.EqualValues(t, 2, attempts[1].ContextMap()["attempt"])
	assert.EqualValues(t, 1, attempts[1].ContextMap()["unresolved"])
	assert.Equal(t, 1, logs.FilterMessage("Retry budget exhausted with unresolved mergeability").Len())
}
