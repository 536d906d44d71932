// Package testutil provides common test utilities, mocks, and builders for testing conflictlabel components.
//
// This package is organized into the following sub-packages:
//
//   - mocks: testify/mock implementations of the GitHub API used by the reconciler
//   - builders: Test data builders using the builder pattern for creating test fixtures
//   - helpers: environment isolation, an observed logger and a sleep recorder
//
// # Example
//
//	api := mocks.NewMockGitHubClient()
//	api.On("FetchOpenPullRequests", mock.Anything, mock.Anything).
//	    Return([]*github.PullRequest{
//	        builders.NewPullRequestBuilder().WithNumber(1).Conflicting().Build(),
//	    }, nil)
package testutil
