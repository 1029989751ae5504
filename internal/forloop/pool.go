package forloop

import (
	"sync"

	"github.com/shirou/gopsutil/v3/cpu"

	"github.com/fshteam/fsh/internal/signalcoord"
	"github.com/fshteam/fsh/internal/status"
)

// maxParallelFactor bounds how far a `-p N` request is allowed to
// exceed the machine's logical CPU count, the same "check before
// committing resources" shape as the teacher's
// internal/util.CheckMemoryForFile, applied to CPU headroom instead of
// RAM.
const maxParallelFactor = 4

// clampParallelism caps requested against the logical CPU count when
// gopsutil can report one; on any error it trusts the caller.
func clampParallelism(requested int) int {
	if requested <= 0 {
		return requested
	}
	logical, err := cpu.Counts(true)
	if err != nil || logical <= 0 {
		return requested
	}
	if max := logical * maxParallelFactor; requested > max {
		return max
	}
	return requested
}

// pool is the bounded worker pool backing a `for -p N` loop (spec.md
// §4.6.1). A buffered channel of size N is the semaphore: dispatch
// blocks when N workers are already running, which is the engine
// "waiting for any one worker to finish" before forking the next one.
// The goroutines here only manage the lifecycle (start, wait) of each
// worker's re-exec'd child process (internal/rexec) — they never run
// shell body logic themselves, so the pool's own concurrency stays
// out of the isolation boundary spec.md §5 requires.
type pool struct {
	sig    *signalcoord.Coordinator
	sem    chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
	result int
}

func newPool(n int, sig *signalcoord.Coordinator) *pool {
	return &pool{sem: make(chan struct{}, n), sig: sig}
}

// dispatch forks a worker running fn, blocking until a slot is free.
// A worker observing the interrupt flag before starting folds in the
// signal-death sentinel directly instead of spawning fn's re-exec'd
// process at all — a cheaper short-circuit than letting the worker
// start just to have it re-raise the signal against itself
// (internal/workerexec.haltOnSignal) once it's already running.
func (p *pool) dispatch(fn func() int) {
	p.sem <- struct{}{}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer func() { <-p.sem }()

		var r int
		if p.sig.Received() {
			r = status.SignalDeath
		} else {
			r = fn()
		}

		p.mu.Lock()
		p.result = status.Combine(p.result, r)
		p.mu.Unlock()
	}()
}

// drain joins every still-running worker and returns the folded
// result.
func (p *pool) drain() int {
	p.wg.Wait()
	return p.result
}
