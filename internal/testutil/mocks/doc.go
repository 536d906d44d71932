// Package mocks provides testify/mock implementations for interfaces used throughout conflictlabel.
//
// # Available Mocks
//
//   - MockGitHubClient: Mock for reconciler.API (labels, pull requests, comments)
package mocks
