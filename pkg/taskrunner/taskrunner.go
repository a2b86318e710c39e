package taskrunner

import (
	"context"

	"github.com/sourcegraph/conc"

	"github.com/tyemirov/tasker/internal/tasks"
)

// TaskEngine runs one task invocation to completion.
type TaskEngine interface {
	Run(executionContext context.Context, request tasks.TaskRequest, taskContext tasks.ExecutionContext)
}

// Completion lets a caller block until every task of a batch has finished.
type Completion interface {
	Wait()
}

// Executor runs a batch of task invocations.
type Executor interface {
	Execute(executionContext context.Context, requests []tasks.TaskRequest, taskContext tasks.ExecutionContext) Completion
}

// ParallelRun tracks the tasks started by RunInParallel.
type ParallelRun struct {
	waitGroup conc.WaitGroup
}

// Wait blocks until every started task has finished.
func (parallelRun *ParallelRun) Wait() {
	parallelRun.waitGroup.Wait()
}

// RunInSerial runs the requests in order, each after the previous one finished.
// Remaining requests are skipped once the context is cancelled.
func RunInSerial(executionContext context.Context, engine TaskEngine, requests []tasks.TaskRequest, taskContext tasks.ExecutionContext) {
	for _, request := range requests {
		if executionContext.Err() != nil {
			return
		}
		engine.Run(executionContext, request, taskContext)
	}
}

// RunInParallel starts every request concurrently and returns without waiting for them.
func RunInParallel(executionContext context.Context, engine TaskEngine, requests []tasks.TaskRequest, taskContext tasks.ExecutionContext) *ParallelRun {
	parallelRun := &ParallelRun{}
	for _, request := range requests {
		parallelRun.waitGroup.Go(func() {
			engine.Run(executionContext, request, taskContext)
		})
	}
	return parallelRun
}

// Resolve returns the parallel executor when parallel is set and the serial executor otherwise.
func Resolve(parallel bool, engine TaskEngine) Executor {
	if parallel {
		return parallelExecutor{engine: engine}
	}
	return serialExecutor{engine: engine}
}

type serialExecutor struct {
	engine TaskEngine
}

func (executor serialExecutor) Execute(executionContext context.Context, requests []tasks.TaskRequest, taskContext tasks.ExecutionContext) Completion {
	RunInSerial(executionContext, executor.engine, requests, taskContext)
	return completedRun{}
}

type parallelExecutor struct {
	engine TaskEngine
}

func (executor parallelExecutor) Execute(executionContext context.Context, requests []tasks.TaskRequest, taskContext tasks.ExecutionContext) Completion {
	return RunInParallel(executionContext, executor.engine, requests, taskContext)
}

type completedRun struct{}

func (completedRun) Wait() {}
