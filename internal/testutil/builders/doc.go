// Package builders provides test data builders for conflictlabel types.
package builders
