// Package buildexec runs compile/archive/link actions under bounded
// parallelism with ordered phase barriers (compile, then archive, then
// link) and fail-fast semantics: the first failure is recorded, every
// other worker observes it and stops picking up new work, and already
// started subprocesses run to completion.
package buildexec

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Action is one subprocess invocation: a compile, archive, or link command.
type Action struct {
	ID          string // human-readable label, e.g. "compile foo.cpp"
	Argv        []string
	Dir         string
	Inputs      []string // primary source/object inputs, consulted by Executor.Cache
	Output      string   // expected artifact path, re-checked by Executor.Cache before a skip
	DepfilePath string   // set when this action's toolchain deps mode is GNU
	DepsMode    DepsMode
}

// DepsMode mirrors toolchain.DepsMode without importing it, so buildexec
// has no compile-time dependency on the toolchain package's command shapes.
type DepsMode int

const (
	DepsNone DepsMode = iota
	DepsGNU
	DepsMSVC
)

// Result is one action's outcome.
type Result struct {
	Action    Action
	Stdout    []byte
	Stderr    []byte
	Err       error
	Started   time.Time
	Finished  time.Time
	Includes  []string // parsed dependency-file / show-includes output, best effort
}

// PhaseError aggregates every action failure observed in one phase. The
// first failure is the surfaced message; every failure is reported.
type PhaseError struct {
	Failures []Result
}

func (e *PhaseError) Error() string {
	if len(e.Failures) == 0 {
		return "buildexec: phase failed"
	}
	first := e.Failures[0]
	msg := fmt.Sprintf("buildexec: %s failed: %v", first.Action.ID, first.Err)
	if len(e.Failures) > 1 {
		msg += fmt.Sprintf(" (and %d more failure(s))", len(e.Failures)-1)
	}
	return msg
}

// Executor runs phases of actions with a bounded worker pool.
type Executor struct {
	Parallelism int         // 0 means hardware_parallelism + 2
	Cache       *PlanCache  // optional; when set, up-to-date actions are skipped
}

func (e *Executor) parallelism() int64 {
	if e.Parallelism > 0 {
		return int64(e.Parallelism)
	}
	return int64(runtime.NumCPU() + 2)
}

// RunPhase runs every action in actions with bounded concurrency. All
// actions in one call belong to the same phase; the caller is responsible
// for the compile -> archive -> link barrier ordering between calls. A
// failure cancels the phase's context, so actions still waiting for a
// worker slot are refused; actions already running are not interrupted.
func (e *Executor) RunPhase(ctx context.Context, actions []Action) ([]Result, error) {
	results := make([]Result, len(actions))
	sem := semaphore.NewWeighted(e.parallelism())
	g, gctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	var failures []Result

	for i, action := range actions {
		i, action := i, action
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return nil // phase already failing; refuse new work
			}
			defer sem.Release(1)

			mu.Lock()
			alreadyFailing := len(failures) > 0
			mu.Unlock()
			if alreadyFailing {
				return nil
			}

			if e.Cache != nil && e.Cache.ShouldSkip(action.ID, action.Argv, action.Inputs) {
				results[i] = Result{Action: action, Includes: e.Cache.Cached(action.ID)}
				return nil
			}

			res := run(action)
			results[i] = res
			if res.Err != nil {
				mu.Lock()
				failures = append(failures, res)
				mu.Unlock()
				return res.Err
			}
			if e.Cache != nil {
				e.Cache.Record(action.ID, action.Argv, res.Includes, action.Output)
			}
			return nil
		})
	}

	_ = g.Wait()

	if len(failures) > 0 {
		return results, &PhaseError{Failures: failures}
	}
	return results, nil
}

func run(action Action) Result {
	res := Result{Action: action, Started: time.Now()}

	cmd := exec.Command(action.Argv[0], action.Argv[1:]...)
	cmd.Dir = action.Dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res.Finished = time.Now()
	res.Stdout = stdout.Bytes()
	res.Stderr = stderr.Bytes()

	if err != nil {
		res.Err = fmt.Errorf("buildexec: %s: argv %q: %w\n%s", action.ID, action.Argv, err, stderr.String())
		return res
	}

	switch action.DepsMode {
	case DepsMSVC:
		res.Includes = ParseMSVCShowIncludes(stdout.Bytes())
	case DepsGNU:
		if action.DepfilePath != "" {
			path := action.DepfilePath
			if !filepath.IsAbs(path) && action.Dir != "" {
				path = filepath.Join(action.Dir, path)
			}
			if data, err := os.ReadFile(path); err == nil {
				if _, prereqs, err := ParseGNUDepfile(data); err == nil {
					res.Includes = prereqs
				}
			}
		}
	}
	return res
}
