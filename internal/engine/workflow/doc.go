// Package workflow holds the grading rules and the notification outbox they
// produce. Callers persist the transition and dispatch the outbox.
package workflow
