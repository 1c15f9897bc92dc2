package mining

import (
	"context"
	"errors"
	"fmt"
)

var ErrUnknownSolver = errors.New("no solver registered for algorithm")

// Solver searches nonces for a job. Hashing itself is provided by the registered implementation
type Solver interface {
	// Solve scans nonces starting from nonce with given step until ctx is cancelled,
	// found is called for every result that satisfies the job difficulty.
	// Solve must return promptly once ctx is cancelled: job changes and pauses wait for it
	// on the network event loop
	Solve(ctx context.Context, job Job, nonce uint32, step uint32, found func(JobResult)) error
}

type SolverFactory = func(algo string) (Solver, error)

var solvers = newRegistry[SolverFactory]("solver")

func RegisterSolver(algo string, factory SolverFactory) {
	solvers.register(algo, factory)
}

func NewSolver(algo string) (Solver, error) {
	factory, ok := solvers.get(algo)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSolver, algo)
	}
	return factory(algo)
}

// JobResultListener receives results found by workers
type JobResultListener interface {
	OnJobResult(result JobResult)
}
