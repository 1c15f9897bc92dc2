package mining

import "time"

// NoPoolID is stamped into jobs issued by a donate connection, results carrying it are routed back to donate
const NoPoolID = -1

// Job is a unit of work received from a pool
type Job struct {
	PoolID    int    // id of the client that received the job
	ID        string // pool-side job id
	Diff      uint64 // target difficulty
	Algorithm string
	Blob      []byte // opaque payload, interpreted only by the solver
}

func (j Job) IsValid() bool {
	return j.ID != "" && len(j.Blob) > 0
}

func (j Job) Copy() Job {
	blob := make([]byte, len(j.Blob))
	copy(blob, j.Blob)
	j.Blob = blob
	return j
}

// JobResult is a computed result ready to be submitted to the pool that issued the job
type JobResult struct {
	PoolID int // copied from the job, NoPoolID for donate jobs
	JobID  string
	Nonce  uint32
	Result []byte
	Diff   uint64
}

func NewJobResult(job Job, nonce uint32, result []byte) JobResult {
	return JobResult{
		PoolID: job.PoolID,
		JobID:  job.ID,
		Nonce:  nonce,
		Result: result,
		Diff:   job.Diff,
	}
}

func (r JobResult) IsDonate() bool {
	return r.PoolID == NoPoolID
}

// SubmitResult describes a submission judged by the pool
type SubmitResult struct {
	Seq         int64
	Diff        uint64
	SubmittedAt time.Time
	Elapsed     time.Duration // round trip time
}

func NewSubmitResult(seq int64, diff uint64, submittedAt time.Time) SubmitResult {
	return SubmitResult{
		Seq:         seq,
		Diff:        diff,
		SubmittedAt: submittedAt,
	}
}

// Done records the round trip time when the pool response arrives
func (r SubmitResult) Done(now time.Time) SubmitResult {
	r.Elapsed = now.Sub(r.SubmittedAt)
	return r
}
