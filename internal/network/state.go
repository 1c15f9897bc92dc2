package network

import (
	"time"

	"gitlab.com/TitanInd/netcore/internal/mining"
)

const TopDiffSize = 10

// State is the connection and share accounting shown to the user. Donate connection
// never changes it
type State struct {
	PoolHost    string
	PoolPort    uint16
	PoolIP      string
	ConnectedAt time.Time // zero when not connected
	Diff        uint64    // difficulty of the current job

	Accepted uint64
	Rejected uint64
	Total    uint64 // sum of accepted difficulties
	Failures uint64 // number of connection losses
	TopDiff  [TopDiffSize]uint64

	latencySum   time.Duration
	latencyCount uint64
}

// SetPool records the pool selected as active
func (s *State) SetPool(host string, port uint16, ip string, now time.Time) {
	s.PoolHost = host
	s.PoolPort = port
	s.PoolIP = ip
	s.ConnectedAt = now
}

// Clear resets pool identity and job difficulty, share counters survive reconnects
func (s *State) Clear() {
	if s.IsActive() {
		s.Failures++
	}

	s.PoolHost = ""
	s.PoolPort = 0
	s.PoolIP = ""
	s.ConnectedAt = time.Time{}
	s.Diff = 0
}

// Add accounts a judged share, err is nil for accepted ones
func (s *State) Add(result mining.SubmitResult, err error) {
	if err != nil {
		s.Rejected++
	} else {
		s.Accepted++
		s.Total += result.Diff
		s.addTopDiff(result.Diff)
	}

	if result.Elapsed > 0 {
		s.latencySum += result.Elapsed
		s.latencyCount++
	}
}

func (s *State) addTopDiff(diff uint64) {
	if diff <= s.TopDiff[TopDiffSize-1] {
		return
	}

	i := TopDiffSize - 1
	for ; i > 0 && s.TopDiff[i-1] < diff; i-- {
		s.TopDiff[i] = s.TopDiff[i-1]
	}
	s.TopDiff[i] = diff
}

func (s *State) IsActive() bool {
	return s.PoolHost != ""
}

func (s *State) AvgLatency() time.Duration {
	if s.latencyCount == 0 {
		return 0
	}
	return s.latencySum / time.Duration(s.latencyCount)
}

// ConnectionTime returns how long the current pool has been active
func (s *State) ConnectionTime(now time.Time) time.Duration {
	if s.ConnectedAt.IsZero() {
		return 0
	}
	return now.Sub(s.ConnectedAt)
}

// AvgTime returns average time between accepted shares on the current connection
func (s *State) AvgTime(now time.Time) time.Duration {
	if s.Accepted == 0 {
		return 0
	}
	return s.ConnectionTime(now) / time.Duration(s.Accepted)
}

func (s *State) Pool() string {
	if !s.IsActive() {
		return ""
	}
	return mining.Pool{Host: s.PoolHost, Port: s.PoolPort}.Address()
}
