package network

import (
	"sync"
	"time"

	"gitlab.com/TitanInd/netcore/internal/mining"
)

type strategyMock struct {
	active bool

	connectCalls int
	stopCalls    int
	resumeCalls  int
	ticks        []time.Time
	submitted    []mining.JobResult
	calls        []string // order of calls
}

func (s *strategyMock) Connect() {
	s.connectCalls++
	s.calls = append(s.calls, "connect")
}

func (s *strategyMock) Stop() {
	s.stopCalls++
	s.active = false
	s.calls = append(s.calls, "stop")
}

func (s *strategyMock) Resume() {
	s.resumeCalls++
	s.calls = append(s.calls, "resume")
}

func (s *strategyMock) Submit(result mining.JobResult) int64 {
	s.submitted = append(s.submitted, result)
	return int64(len(s.submitted))
}

func (s *strategyMock) Tick(now time.Time) {
	s.ticks = append(s.ticks, now)
}

func (s *strategyMock) IsActive() bool {
	s.calls = append(s.calls, "is_active")
	return s.active
}

type clientMock struct {
	id   int
	host string
	port uint16
	ip   string
}

func (c *clientMock) ID() int                              { return c.id }
func (c *clientMock) SessionID() string                    { return "" }
func (c *clientMock) Pool() mining.Pool                    { return mining.Pool{Host: c.host, Port: c.port} }
func (c *clientMock) Host() string                         { return c.host }
func (c *clientMock) Port() uint16                         { return c.port }
func (c *clientMock) IP() string                           { return c.ip }
func (c *clientMock) Job() mining.Job                      { return mining.Job{} }
func (c *clientMock) IsReady() bool                        { return true }
func (c *clientMock) Connect()                             {}
func (c *clientMock) Disconnect()                          {}
func (c *clientMock) Submit(result mining.JobResult) int64 { return -1 }
func (c *clientMock) Tick(now time.Time)                   {}

type dispatchedJob struct {
	job    mining.Job
	donate bool
}

type workersMock struct {
	listener mining.JobResultListener
	jobs     []dispatchedJob
	pauses   int
	mu       sync.Mutex
}

func (w *workersMock) SetListener(listener mining.JobResultListener) {
	w.listener = listener
}

func (w *workersMock) SetJob(job mining.Job, donate bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.jobs = append(w.jobs, dispatchedJob{job: job, donate: donate})
}

func (w *workersMock) Pause() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pauses++
}

func (w *workersMock) pauseCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pauses
}

type poolSelected struct {
	host string
	port uint16
	ip   string
}

type reporterMock struct {
	selected    []poolSelected
	disconnects []string
	messages    []string
	states      []State
	mu          sync.Mutex
}

func (r *reporterMock) OnPoolSelected(host string, port uint16, ip string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.selected = append(r.selected, poolSelected{host, port, ip})
}

func (r *reporterMock) OnPoolDisconnect(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.disconnects = append(r.disconnects, reason)
}

func (r *reporterMock) OnMessage(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
}

func (r *reporterMock) Tick(state State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, state)
}

func (r *reporterMock) disconnectReasons() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.disconnects...)
}

func (r *reporterMock) lastState() (State, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.states) == 0 {
		return State{}, false
	}
	return r.states[len(r.states)-1], true
}
