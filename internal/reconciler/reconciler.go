package reconciler

import (
	"context"
	"errors"
	"fmt"

	"github.com/douhashi/conflictlabel/internal/github"
	"github.com/douhashi/conflictlabel/internal/logger"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency はラベル操作の同時実行数
const DefaultConcurrency = 4

// Action is the decision taken for one pull request.
type Action string

const (
	// ActionLabel adds the conflict label.
	ActionLabel Action = "label"
	// ActionUnlabel removes the conflict label.
	ActionUnlabel Action = "unlabel"
	// ActionSkip leaves the pull request as it is.
	ActionSkip Action = "skip"
)

// Outcome はPR1件分の判定と結果
type Outcome struct {
	PullRequest *github.PullRequest
	Action      Action
	DryRun      bool
	Err         error
	// CommentErr はコメント投稿の失敗。ラベル操作の成否には影響しない
	CommentErr error
}

// Report collects the outcomes of one reconciliation.
type Report struct {
	Outcomes []Outcome
}

// Added returns the number of pull requests labeled successfully.
func (r *Report) Added() int { return r.count(ActionLabel, false) }

// Removed returns the number of pull requests unlabeled successfully.
func (r *Report) Removed() int { return r.count(ActionUnlabel, false) }

// Skipped returns the number of pull requests that needed no change.
func (r *Report) Skipped() int { return r.count(ActionSkip, false) }

// Failed returns the number of label operations that failed.
func (r *Report) Failed() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Err != nil {
			n++
		}
	}
	return n
}

func (r *Report) count(action Action, failed bool) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Action == action && (o.Err != nil) == failed {
			n++
		}
	}
	return n
}

// Err はPRごとの失敗をまとめて返す。失敗がなければnil
func (r *Report) Err() error {
	if r == nil {
		return nil
	}
	var errs []error
	for _, o := range r.Outcomes {
		if o.Err != nil {
			errs = append(errs, fmt.Errorf("%s PR #%d: %w", o.Action, o.PullRequest.Number, o.Err))
		}
	}
	return errors.Join(errs...)
}

// Comments holds optional bodies posted when the label changes.
type Comments struct {
	Repository github.Repository
	OnConflict string
	OnResolved string
}

// Reconciler はラベルの有無をマージ可能性に合わせる
type Reconciler struct {
	mutator     LabelMutator
	commenter   Commenter
	comments    Comments
	concurrency int
	dryRun      bool
	logger      logger.Logger
}

// ReconcilerOption configures a Reconciler.
type ReconcilerOption func(*Reconciler)

// WithConcurrency sets how many label operations run at once.
func WithConcurrency(n int) ReconcilerOption {
	return func(r *Reconciler) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// WithDryRun logs the decisions without calling the API.
func WithDryRun(dryRun bool) ReconcilerOption {
	return func(r *Reconciler) {
		r.dryRun = dryRun
	}
}

// WithComments posts a comment after the label is added or removed.
func WithComments(commenter Commenter, comments Comments) ReconcilerOption {
	return func(r *Reconciler) {
		r.commenter = commenter
		r.comments = comments
	}
}

// NewReconciler creates a Reconciler.
func NewReconciler(mutator LabelMutator, log logger.Logger, opts ...ReconcilerOption) *Reconciler {
	if log == nil {
		log = logger.NewNop()
	}
	r := &Reconciler{
		mutator:     mutator,
		concurrency: DefaultConcurrency,
		logger:      log,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Plan はPRごとの判定を返す。I/Oは行わない
// UNKNOWNのPRは対象外
func Plan(label github.Label, c Classification) []Outcome {
	outcomes := make([]Outcome, 0, len(c.Conflicting)+len(c.Mergeable))

	for _, pr := range c.Conflicting {
		action := ActionLabel
		if pr.HasLabel(label.ID) {
			action = ActionSkip
		}
		outcomes = append(outcomes, Outcome{PullRequest: pr, Action: action})
	}

	for _, pr := range c.Mergeable {
		action := ActionSkip
		if pr.HasLabel(label.ID) {
			action = ActionUnlabel
		}
		outcomes = append(outcomes, Outcome{PullRequest: pr, Action: action})
	}

	return outcomes
}

// Reconcile はラベル付けとラベル外しを並行に発行し、すべての完了を待ってから結果を返す
// 1件の失敗は他のPRの処理を止めない
func (r *Reconciler) Reconcile(ctx context.Context, label github.Label, c Classification) *Report {
	outcomes := Plan(label, c)

	var g errgroup.Group
	g.SetLimit(r.concurrency)

	for i := range outcomes {
		o := &outcomes[i]
		log := r.logger.WithFields(
			"pr_number", o.PullRequest.Number,
			"mergeable", string(o.PullRequest.Mergeable),
			"label", label.Name,
		)

		if o.Action == ActionSkip {
			log.Info("Skipping pull request, label already converged")
			continue
		}

		if r.dryRun {
			o.DryRun = true
			log.Info("Dry run: would change label", "action", string(o.Action))
			continue
		}

		g.Go(func() error {
			r.apply(ctx, label, o, log)
			return nil
		})
	}

	// errgroupの各goroutineはエラーを返さない。失敗はOutcomeに記録される
	_ = g.Wait()

	report := &Report{Outcomes: outcomes}
	r.logger.Info("Reconciliation finished",
		"label", label.Name,
		"added", report.Added(),
		"removed", report.Removed(),
		"skipped", report.Skipped(),
		"failed", report.Failed(),
		"dry_run", r.dryRun,
	)
	return report
}

// apply は1件分のラベル操作を実行し、結果をoに書き込む
func (r *Reconciler) apply(ctx context.Context, label github.Label, o *Outcome, log logger.Logger) {
	var body string
	switch o.Action {
	case ActionLabel:
		log.Info("Adding conflict label")
		o.Err = r.mutator.AddLabel(ctx, o.PullRequest.ID, label.ID)
		body = r.comments.OnConflict
	case ActionUnlabel:
		log.Info("Removing conflict label")
		o.Err = r.mutator.RemoveLabel(ctx, o.PullRequest.ID, label.ID)
		body = r.comments.OnResolved
	}

	if o.Err != nil {
		log.Error("Failed to change label", "action", string(o.Action), "error", o.Err)
		return
	}

	if r.commenter == nil || body == "" {
		return
	}
	if err := r.commenter.CreateComment(ctx, r.comments.Repository, o.PullRequest.Number, body); err != nil {
		o.CommentErr = err
		log.Warn("Failed to post comment", "action", string(o.Action), "error", err)
	}
}
