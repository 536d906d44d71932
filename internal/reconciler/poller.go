package reconciler

import (
	"context"
	"fmt"

	"github.com/douhashi/conflictlabel/internal/github"
	"github.com/douhashi/conflictlabel/internal/logger"
)

// PollResult is the last snapshot taken by the poller.
type PollResult struct {
	PullRequests []*github.PullRequest
	Unresolved   []*github.PullRequest
	Attempts     int
}

// UnresolvedCount returns how many pull requests still have an UNKNOWN fact.
func (r *PollResult) UnresolvedCount() int {
	if r == nil {
		return 0
	}
	return len(r.Unresolved)
}

// Poller はすべてのPRのマージ可能性が確定するまでフェッチを繰り返す
type Poller struct {
	fetcher PullRequestFetcher
	policy  PollPolicy
	sleep   SleepFunc
	logger  logger.Logger
}

// PollerOption configures a Poller.
type PollerOption func(*Poller)

// WithSleep replaces the wait between attempts.
func WithSleep(sleep SleepFunc) PollerOption {
	return func(p *Poller) {
		if sleep != nil {
			p.sleep = sleep
		}
	}
}

// NewPoller creates a Poller.
func NewPoller(fetcher PullRequestFetcher, policy PollPolicy, log logger.Logger, opts ...PollerOption) *Poller {
	if log == nil {
		log = logger.NewNop()
	}
	p := &Poller{
		fetcher: fetcher,
		policy:  policy,
		sleep:   sleepContext,
		logger:  log,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Poll は少なくとも1回フェッチし、UNKNOWNのPRがなくなるか試行回数の上限に達するまで繰り返す
// 各フェッチはスナップショット全体を置き換える。フェッチの失敗はリトライせずに返す
func (p *Poller) Poll(ctx context.Context, repo github.Repository) (*PollResult, error) {
	maxAttempts := p.policy.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	attempt := 0
	for {
		prs, err := p.fetcher.FetchOpenPullRequests(ctx, repo)
		attempt++
		if err != nil {
			p.logger.Error("Failed to fetch pull requests",
				"attempt", attempt,
				"max_attempts", maxAttempts,
				"error", err,
			)
			return nil, fmt.Errorf("fetching pull requests (attempt %d/%d): %w", attempt, maxAttempts, err)
		}

		result := &PollResult{
			PullRequests: prs,
			Unresolved:   Classify(prs).Unknown,
			Attempts:     attempt,
		}

		p.logger.Info("Polled mergeability",
			"attempt", attempt,
			"max_attempts", maxAttempts,
			"pull_requests", len(prs),
			"unresolved", result.UnresolvedCount(),
		)

		if !shouldContinue(attempt, maxAttempts, result.UnresolvedCount()) {
			if result.UnresolvedCount() > 0 {
				p.logger.Warn("Retry budget exhausted with unresolved mergeability",
					"attempts", attempt,
					"unresolved", result.UnresolvedCount(),
					"pr_numbers", prNumbers(result.Unresolved),
				)
			}
			return result, nil
		}

		delay := p.policy.Backoff.Delay(attempt)
		p.logger.Debug("Waiting for mergeability to be computed",
			"attempt", attempt,
			"delay", delay,
			"pr_numbers", prNumbers(result.Unresolved),
		)
		if err := p.sleep(ctx, delay); err != nil {
			return result, fmt.Errorf("waiting for mergeability: %w", err)
		}
	}
}

func prNumbers(prs []*github.PullRequest) []int {
	numbers := make([]int, 0, len(prs))
	for _, pr := range prs {
		numbers = append(numbers, pr.Number)
	}
	return numbers
}
