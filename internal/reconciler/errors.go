package reconciler

import "errors"

var (
	// ErrEmptyLabelName is returned when no conflict label name is configured.
	ErrEmptyLabelName = errors.New("conflict label name is empty")
	// ErrLabelNotFound is returned when no label matches the configured name exactly.
	ErrLabelNotFound = errors.New("label not found")
	// ErrUnresolvedMergeability is returned when the poll budget runs out
	// while some pull requests still have an UNKNOWN mergeability.
	ErrUnresolvedMergeability = errors.New("mergeability still unknown after retry budget")
)
