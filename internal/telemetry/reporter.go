package telemetry

import (
	"fmt"
	"sync"
	"time"

	"github.com/gammazero/deque"
	"gitlab.com/TitanInd/netcore/internal/interfaces"
	"gitlab.com/TitanInd/netcore/internal/metrics"
	"gitlab.com/TitanInd/netcore/internal/network"
)

const DefaultMessagesCapacity = 128

type Message struct {
	Time time.Time
	Text string
}

// Summary is a point in time view of the network
type Summary struct {
	State            network.State
	Connected        bool
	DisconnectReason string
	UpdatedAt        time.Time
}

// Reporter keeps the latest network state and recent status lines for the API and exports metrics.
// When the feed reaches its capacity the oldest message is dropped
type Reporter struct {
	summary  Summary
	prev     network.State // state of the previous tick, used for counter increments
	messages *deque.Deque[Message]
	cap      int
	now      func() time.Time
	mu       sync.RWMutex

	log interfaces.ILogger
}

func NewReporter(cap int, log interfaces.ILogger) *Reporter {
	if cap <= 0 {
		cap = DefaultMessagesCapacity
	}
	return &Reporter{
		messages: deque.New[Message](cap, cap),
		cap:      cap,
		now:      time.Now,
		log:      log,
	}
}

func (r *Reporter) OnPoolSelected(host string, port uint16, ip string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.summary.Connected = true
	r.summary.DisconnectReason = ""
	r.add(fmt.Sprintf("use pool %s:%d %s", host, port, ip))

	metrics.PoolSwitches.Inc()
	metrics.PoolConnected.Set(1)
}

func (r *Reporter) OnPoolDisconnect(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.summary.Connected {
		r.add(fmt.Sprintf("pool disconnected: %s", reason))
	}
	r.summary.Connected = false
	r.summary.DisconnectReason = reason

	metrics.PoolDisconnects.WithLabelValues(reason).Inc()
	metrics.PoolConnected.Set(0)
}

func (r *Reporter) OnMessage(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.add(msg)
}

func (r *Reporter) Tick(state network.State) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.summary.State = state
	r.summary.UpdatedAt = now

	if state.Accepted >= r.prev.Accepted {
		metrics.SharesAccepted.Add(float64(state.Accepted - r.prev.Accepted))
	}
	if state.Rejected >= r.prev.Rejected {
		metrics.SharesRejected.Add(float64(state.Rejected - r.prev.Rejected))
	}
	if state.Total >= r.prev.Total {
		metrics.SharesDifficulty.Add(float64(state.Total - r.prev.Total))
	}
	r.prev = state

	metrics.JobDifficulty.Set(float64(state.Diff))
	metrics.SubmitLatency.Set(state.AvgLatency().Seconds())
	metrics.UptimeSeconds.Set(state.ConnectionTime(now).Seconds())
}

func (r *Reporter) Summary() Summary {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.summary
}

// Messages returns recent status lines, oldest first
func (r *Reporter) Messages() []Message {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res := make([]Message, r.messages.Len())
	for i := 0; i < r.messages.Len(); i++ {
		res[i] = r.messages.At(i)
	}
	return res
}

func (r *Reporter) add(text string) {
	if r.messages.Len() >= r.cap {
		r.messages.PopFront()
	}
	r.messages.PushBack(Message{Time: r.now(), Text: text})
}

var _ network.Reporter = new(Reporter)
