// Package reconciler converges pull-request labels with GitHub's mergeability fact.
//
// A run resolves the conflict label once, polls the open pull requests until
// every mergeability fact is known or the attempt budget runs out, classifies
// them, and then adds the label to conflicting pull requests and removes it
// from mergeable ones. Pull requests whose fact is still UNKNOWN are never
// touched.
package reconciler
