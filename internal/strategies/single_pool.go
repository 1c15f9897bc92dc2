package strategies

import (
	"sync"
	"time"

	"gitlab.com/TitanInd/netcore/internal/interfaces"
	"gitlab.com/TitanInd/netcore/internal/mining"
)

// SinglePool keeps a connection to a single pool, the client reconnects on its own
type SinglePool struct {
	client   mining.Client
	listener Listener

	active bool
	mu     sync.Mutex // guards active

	log interfaces.ILogger
}

func NewSinglePool(pool mining.Pool, opts Options, listener Listener, factory mining.ClientFactory, log interfaces.ILogger) (*SinglePool, error) {
	return newSinglePool(0, pool, opts, listener, factory, log)
}

func newSinglePool(clientID int, pool mining.Pool, opts Options, listener Listener, factory mining.ClientFactory, log interfaces.ILogger) (*SinglePool, error) {
	s := &SinglePool{
		listener: listener,
		log:      log,
	}

	client, err := factory(mining.ClientOptions{
		ID:         clientID,
		Pool:       pool,
		RetryPause: opts.RetryPause,
		Quiet:      opts.Quiet,
	}, s)
	if err != nil {
		return nil, err
	}
	s.client = client

	return s, nil
}

func (s *SinglePool) Connect() {
	s.log.Debugf("connecting to %s", s.client.Pool())
	s.client.Connect()
}

// Stop doesn't notify the listener, the caller does its own cleanup
func (s *SinglePool) Stop() {
	s.mu.Lock()
	s.active = false
	s.mu.Unlock()

	s.client.Disconnect()
}

func (s *SinglePool) Resume() {
	if !s.IsActive() {
		return
	}
	s.listener.OnJob(s, s.client, s.client.Job())
}

func (s *SinglePool) Submit(result mining.JobResult) int64 {
	return s.client.Submit(result)
}

func (s *SinglePool) Tick(now time.Time) {
	s.client.Tick(now)
}

func (s *SinglePool) IsActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *SinglePool) Client() mining.Client {
	return s.client
}

func (s *SinglePool) OnLoginSuccess(client mining.Client) {
	s.mu.Lock()
	s.active = true
	s.mu.Unlock()

	s.listener.OnActive(s, client)
}

func (s *SinglePool) OnJobReceived(client mining.Client, job mining.Job) {
	s.listener.OnJob(s, client, job)
}

func (s *SinglePool) OnClose(client mining.Client, failures int) {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.active = false
	s.mu.Unlock()

	s.log.Debugf("connection to %s closed, failures %d", client.Pool(), failures)
	s.listener.OnPause(s)
}

func (s *SinglePool) OnResultAccepted(client mining.Client, result mining.SubmitResult, err error) {
	s.listener.OnResultAccepted(s, client, result, err)
}

var _ Strategy = new(SinglePool)
var _ mining.ClientListener = new(SinglePool)
