package reconciler

import (
	"context"
	"errors"
	"fmt"

	"github.com/douhashi/conflictlabel/internal/github"
	"github.com/douhashi/conflictlabel/internal/logger"
)

// State is a step of a run.
type State string

const (
	StateStart            State = "start"
	StateResolveLabel     State = "resolve_label"
	StatePollMergeability State = "poll_mergeability"
	StateClassify         State = "classify"
	StateReconcile        State = "reconcile"
	StateDone             State = "done"
	StateFailed           State = "failed"
)

// Options はRunの入力。Controllerの外で組み立て、実行中は変更しない
type Options struct {
	Repository  github.Repository
	LabelName   string
	Poll        PollPolicy
	Concurrency int
	DryRun      bool
	// ReconcileOnTimeout が true の場合、ポーリングの上限に達しても
	// 判定済みのPRだけはラベルを揃える（Runは失敗扱いのまま）
	ReconcileOnTimeout bool
	ConflictComment    string
	ResolvedComment    string
}

// RunResult describes how far a run got and what it did.
type RunResult struct {
	State          State
	FailedAt       State
	Label          github.Label
	Poll           *PollResult
	Classification Classification
	Report         *Report
}

// Controller は1回分のRunを最初から最後まで実行する
type Controller struct {
	api    API
	opts   Options
	logger logger.Logger
	sleep  SleepFunc
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithPollSleep replaces the wait between poll attempts.
func WithPollSleep(sleep SleepFunc) ControllerOption {
	return func(c *Controller) {
		c.sleep = sleep
	}
}

// NewController creates a Controller.
func NewController(api API, opts Options, log logger.Logger, controllerOpts ...ControllerOption) *Controller {
	if log == nil {
		log = logger.NewNop()
	}
	c := &Controller{
		api:    api,
		opts:   opts,
		logger: log.WithFields("repository", opts.Repository.String()),
	}
	for _, opt := range controllerOpts {
		opt(c)
	}
	return c
}

// Run は Start → ResolveLabel → PollMergeability → Classify → Reconcile → Done の順に進む
// 途中で失敗した場合は残りのステップを実行せずにFailedで終わる
func (c *Controller) Run(ctx context.Context) (*RunResult, error) {
	result := &RunResult{State: StateStart}

	result.State = StateResolveLabel
	label, err := NewResolver(c.api, c.logger).Resolve(ctx, c.opts.Repository, c.opts.LabelName)
	if err != nil {
		return c.fail(result, err)
	}
	result.Label = label

	result.State = StatePollMergeability
	poll, err := NewPoller(c.api, c.opts.Poll, c.logger, WithSleep(c.sleep)).Poll(ctx, c.opts.Repository)
	if err != nil {
		return c.fail(result, err)
	}
	result.Poll = poll

	var unresolvedErr error
	if poll.UnresolvedCount() > 0 {
		unresolvedErr = fmt.Errorf("%w: %d pull request(s) after %d attempt(s)",
			ErrUnresolvedMergeability, poll.UnresolvedCount(), poll.Attempts)
		if !c.opts.ReconcileOnTimeout {
			return c.fail(result, unresolvedErr)
		}
	}

	result.State = StateClassify
	result.Classification = Classify(poll.PullRequests)
	c.logger.Info("Classified pull requests",
		"conflicting", len(result.Classification.Conflicting),
		"mergeable", len(result.Classification.Mergeable),
		"unknown", len(result.Classification.Unknown),
	)

	result.State = StateReconcile
	reconciler := NewReconciler(c.api, c.logger,
		WithConcurrency(c.opts.Concurrency),
		WithDryRun(c.opts.DryRun),
		WithComments(c.api, Comments{
			Repository: c.opts.Repository,
			OnConflict: c.opts.ConflictComment,
			OnResolved: c.opts.ResolvedComment,
		}),
	)
	// UNKNOWNのPRはReconcileに渡さない
	final := Classification{
		Conflicting: result.Classification.Conflicting,
		Mergeable:   result.Classification.Mergeable,
	}
	result.Report = reconciler.Reconcile(ctx, label, final)

	if err := errors.Join(unresolvedErr, result.Report.Err()); err != nil {
		if result.Report.Err() == nil {
			result.State = StatePollMergeability
		}
		return c.fail(result, err)
	}

	result.State = StateDone
	c.logger.Info("Run completed", "label", label.Name)
	return result, nil
}

func (c *Controller) fail(result *RunResult, err error) (*RunResult, error) {
	result.FailedAt = result.State
	result.State = StateFailed
	c.logger.Error("Run failed",
		"step", string(result.FailedAt),
		"error", err,
	)
	return result, err
}
