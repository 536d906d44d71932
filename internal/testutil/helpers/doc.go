// Package helpers provides small test utilities shared across packages:
// environment isolation, an observed logger and a sleep recorder for poll loops.
package helpers
