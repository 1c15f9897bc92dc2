package mock

import (
	"context"
	"encoding/binary"
	"time"

	"gitlab.com/TitanInd/netcore/internal/mining"
)

const (
	Algorithm      = "mock"
	SOLVE_INTERVAL = 10 * time.Second
)

// Solver pretends to find a result every interval
type Solver struct {
	interval time.Duration
}

func NewSolver(interval time.Duration) *Solver {
	return &Solver{interval: interval}
}

func (s *Solver) Solve(ctx context.Context, job mining.Job, nonce uint32, step uint32, found func(mining.JobResult)) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			result := make([]byte, 4)
			binary.LittleEndian.PutUint32(result, nonce)
			found(mining.NewJobResult(job, nonce, result))
			nonce += step
		}
	}
}

var _ mining.Solver = new(Solver)
