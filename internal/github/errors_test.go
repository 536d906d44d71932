package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-github/v67/github"
	"github.com/stretchr/testify/assert"
)

func TestGitHubErrorType_String(t *testing.T) {
	assert.Equal(t, "RateLimit", ErrorTypeRateLimit.String())
	assert.Equal(t, "NetworkTimeout", ErrorTypeNetworkTimeout.String())
	assert.Equal(t, "Authentication", ErrorTypeAuthentication.String())
	assert.Equal(t, "NotFound", ErrorTypeNotFound.String())
	assert.Equal(t, "ServerError", ErrorTypeServerError.String())
	assert.Equal(t, "Unknown", ErrorTypeUnknown.String())
}

func TestGitHubError_IsRetryable(t *testing.T) {
	tests := []struct {
		errType GitHubErrorType
		want    bool
	}{
		{ErrorTypeRateLimit, true},
		{ErrorTypeNetworkTimeout, true},
		{ErrorTypeServerError, true},
		{ErrorTypeAuthentication, false},
		{ErrorTypeNotFound, false},
		{ErrorTypeUnknown, false},
	}
	for _, tt := range tests {
		t.Run(tt.errType.String(), func(t *testing.T) {
			err := &GitHubError{Type: tt.errType}
			assert.Equal(t, tt.want, err.IsRetryable())
		})
	}
}

func TestGitHubError_Unwrap(t *testing.T) {
	original := errors.New("boom")
	err := fmt.Errorf("wrapped: %w", &GitHubError{Type: ErrorTypeUnknown, Message: "boom", OriginalErr: original})
	assert.ErrorIs(t, err, original)
}

func TestClassifyError(t *testing.T) {
	resp := func(code int) *http.Response {
		return &http.Response{StatusCode: code, Request: &http.Request{Method: http.MethodGet}}
	}

	tests := []struct {
		name     string
		err      error
		wantType GitHubErrorType
	}{
		{
			name:     "RateLimitError",
			err:      &github.RateLimitError{Message: "API rate limit exceeded", Response: resp(403)},
			wantType: ErrorTypeRateLimit,
		},
		{
			name:     "AbuseRateLimitError",
			err:      &github.AbuseRateLimitError{Message: "secondary rate limit", Response: resp(403)},
			wantType: ErrorTypeRateLimit,
		},
		{
			name:     "ErrorResponse 401",
			err:      &github.ErrorResponse{Response: resp(401), Message: "Bad credentials"},
			wantType: ErrorTypeAuthentication,
		},
		{
			name:     "ErrorResponse 404",
			err:      &github.ErrorResponse{Response: resp(404), Message: "Not Found"},
			wantType: ErrorTypeNotFound,
		},
		{
			name:     "ErrorResponse 503",
			err:      &github.ErrorResponse{Response: resp(503), Message: "Service Unavailable"},
			wantType: ErrorTypeServerError,
		},
		{
			name:     "GraphQLのnon-200",
			err:      errors.New(`non-200 OK status code: 502 Bad Gateway body: ""`),
			wantType: ErrorTypeServerError,
		},
		{
			name:     "GraphQLのリポジトリ解決失敗",
			err:      errors.New("Could not resolve to a Repository with the name 'octo/none'."),
			wantType: ErrorTypeNotFound,
		},
		{
			name:     "ネットワークエラー",
			err:      errors.New("dial tcp: lookup api.github.com: no such host"),
			wantType: ErrorTypeNetworkTimeout,
		},
		{
			name:     "不明なエラー",
			err:      errors.New("something odd"),
			wantType: ErrorTypeUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classified := ClassifyError(tt.err)
			var ghErr *GitHubError
			if assert.ErrorAs(t, classified, &ghErr) {
				assert.Equal(t, tt.wantType, ghErr.Type)
				assert.ErrorIs(t, classified, tt.err)
			}
		})
	}
}

func TestClassifyError_PassThrough(t *testing.T) {
	assert.NoError(t, ClassifyError(nil))
	assert.ErrorIs(t, ClassifyError(context.Canceled), context.Canceled)

	already := &GitHubError{Type: ErrorTypeNotFound}
	assert.Same(t, already, ClassifyError(already))
}

func TestClassifyError_AbuseRetryAfter(t *testing.T) {
	retryAfter := 42 * time.Second
	err := ClassifyError(&github.AbuseRateLimitError{
		Response:   &http.Response{StatusCode: 403, Request: &http.Request{Method: http.MethodPost}},
		Message:    "slow down",
		RetryAfter: &retryAfter,
	})

	var ghErr *GitHubError
	if assert.ErrorAs(t, err, &ghErr) {
		assert.Equal(t, retryAfter, ghErr.RetryAfter)
	}
}
