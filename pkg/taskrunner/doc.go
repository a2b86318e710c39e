// Package taskrunner orchestrates batches of task invocations. It exposes the `Executor`
// interface plus helpers (`RunInSerial`, `RunInParallel`, `Resolve`) so the CLI picks a
// strategy from the parallel mode flag once, and `BuildDependencies` so commands obtain a
// fully wired task engine while unit tests swap in fakes.
package taskrunner
