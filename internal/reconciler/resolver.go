package reconciler

import (
	"context"
	"fmt"

	"github.com/douhashi/conflictlabel/internal/github"
	"github.com/douhashi/conflictlabel/internal/logger"
)

// Resolver はラベル名からラベルIDを解決する
type Resolver struct {
	fetcher LabelFetcher
	logger  logger.Logger
}

// NewResolver creates a Resolver.
func NewResolver(fetcher LabelFetcher, log logger.Logger) *Resolver {
	if log == nil {
		log = logger.NewNop()
	}
	return &Resolver{fetcher: fetcher, logger: log}
}

// Resolve はnameと完全一致するラベルを返す
// 検索APIはあいまい一致の候補も返すので、候補の並び順は信用せず名前の等価性だけで判定する
func (r *Resolver) Resolve(ctx context.Context, repo github.Repository, name string) (github.Label, error) {
	if name == "" {
		return github.Label{}, ErrEmptyLabelName
	}

	candidates, err := r.fetcher.FetchLabels(ctx, repo, name)
	if err != nil {
		return github.Label{}, fmt.Errorf("fetching labels: %w", err)
	}

	for _, candidate := range candidates {
		if candidate.Name == name {
			r.logger.Debug("Resolved conflict label",
				"label", name,
				"label_id", candidate.ID,
				"candidates", len(candidates),
			)
			return candidate, nil
		}
	}

	r.logger.Error("Conflict label not found",
		"label", name,
		"candidates", len(candidates),
	)
	return github.Label{}, fmt.Errorf("%w: %q in %s", ErrLabelNotFound, name, repo)
}
