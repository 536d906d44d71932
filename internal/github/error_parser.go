package github

import (
	"context"
	"errors"
	"net"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/go-github/v67/github"
)

var (
	// githubv4はHTTPステータスやGraphQLエラーを文字列で返すため、メッセージから種別を推定する
	rateLimitRegex   = regexp.MustCompile(`(?i)(rate limit|API rate limit exceeded|secondary rate limit)`)
	notFoundRegex    = regexp.MustCompile(`(?i)(not found|could not resolve to)`)
	authRegex        = regexp.MustCompile(`(?i)(unauthorized|bad credentials|requires authentication|resource not accessible)`)
	networkRegex     = regexp.MustCompile(`(?i)(timeout|connection refused|connection reset|no such host)`)
	serverErrorRegex = regexp.MustCompile(`(?i)(internal server error|bad gateway|service unavailable|gateway timeout)`)
	statusCodeRegex  = regexp.MustCompile(`(?:HTTP|status code:?)\s*(\d{3})`)
)

// ClassifyError はエラーをGitHubErrorに分類する
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}

	var ghErr *GitHubError
	if errors.As(err, &ghErr) {
		return err
	}

	// context由来のエラーはそのまま返す
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		retryAfter := time.Until(rateErr.Rate.Reset.Time)
		if retryAfter < 0 {
			retryAfter = 0
		}
		return &GitHubError{
			Type:        ErrorTypeRateLimit,
			StatusCode:  http.StatusForbidden,
			Message:     rateErr.Message,
			RetryAfter:  retryAfter,
			OriginalErr: err,
		}
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return &GitHubError{
			Type:        ErrorTypeRateLimit,
			StatusCode:  http.StatusForbidden,
			Message:     abuseErr.Message,
			RetryAfter:  abuseErr.GetRetryAfter(),
			OriginalErr: err,
		}
	}

	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		return fromStatus(respErr.Response.StatusCode, respErr.Message, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &GitHubError{
			Type:        ErrorTypeNetworkTimeout,
			Message:     err.Error(),
			OriginalErr: err,
		}
	}

	return ParseErrorMessage(err.Error(), err)
}

// fromStatus はHTTPステータスコードから種別を決める
func fromStatus(status int, message string, err error) *GitHubError {
	ghErr := &GitHubError{
		StatusCode:  status,
		Message:     message,
		OriginalErr: err,
	}

	switch {
	case status == http.StatusTooManyRequests:
		ghErr.Type = ErrorTypeRateLimit
	case status == http.StatusUnauthorized:
		ghErr.Type = ErrorTypeAuthentication
	case status == http.StatusForbidden:
		if rateLimitRegex.MatchString(message) {
			ghErr.Type = ErrorTypeRateLimit
		} else {
			ghErr.Type = ErrorTypeAuthentication
		}
	case status == http.StatusNotFound:
		ghErr.Type = ErrorTypeNotFound
	case status >= 500 && status < 600:
		ghErr.Type = ErrorTypeServerError
	default:
		ghErr.Type = ErrorTypeUnknown
	}

	return ghErr
}

// ParseErrorMessage はエラーメッセージからGitHubErrorを組み立てる
func ParseErrorMessage(msg string, err error) *GitHubError {
	ghErr := &GitHubError{
		Message:     strings.TrimSpace(msg),
		OriginalErr: err,
	}

	if matches := statusCodeRegex.FindStringSubmatch(msg); len(matches) > 1 {
		if statusCode, convErr := strconv.Atoi(matches[1]); convErr == nil {
			ghErr.StatusCode = statusCode
		}
	}

	switch {
	case rateLimitRegex.MatchString(msg):
		ghErr.Type = ErrorTypeRateLimit
	case authRegex.MatchString(msg):
		ghErr.Type = ErrorTypeAuthentication
	case notFoundRegex.MatchString(msg):
		ghErr.Type = ErrorTypeNotFound
	case networkRegex.MatchString(msg):
		ghErr.Type = ErrorTypeNetworkTimeout
	case serverErrorRegex.MatchString(msg):
		ghErr.Type = ErrorTypeServerError
	case ghErr.StatusCode >= 500 && ghErr.StatusCode < 600:
		ghErr.Type = ErrorTypeServerError
	default:
		ghErr.Type = ErrorTypeUnknown
	}

	return ghErr
}
