// Package task runs podcast script generation in the background.
// Jobs are recorded in a JobStore, queued on a bounded channel and executed
// by a fixed pool of workers, so HTTP handlers can return immediately and
// clients poll for the outcome.
package task
