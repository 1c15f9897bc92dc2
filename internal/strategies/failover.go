package strategies

import (
	"sync"
	"time"

	"gitlab.com/TitanInd/netcore/internal/interfaces"
	"gitlab.com/TitanInd/netcore/internal/mining"
)

const noActive = -1

// Failover works with an ordered list of pools. The first pool is the primary one: after Retries
// failed attempts the next pool is tried, and as soon as the primary pool is back it takes over
// and backup connections are dropped
type Failover struct {
	clients  []mining.Client
	listener Listener
	retries  int

	active int // index of the active client or noActive
	index  int // index of the client currently being connected
	mu     sync.Mutex

	log interfaces.ILogger
}

func NewFailover(pools []mining.Pool, opts Options, listener Listener, factory mining.ClientFactory, log interfaces.ILogger) (*Failover, error) {
	if len(pools) == 0 {
		return nil, ErrNoPools
	}

	f := &Failover{
		clients:  make([]mining.Client, 0, len(pools)),
		listener: listener,
		retries:  opts.Retries,
		active:   noActive,
		log:      log,
	}

	for i, pool := range pools {
		client, err := factory(mining.ClientOptions{
			ID:         i,
			Pool:       pool,
			RetryPause: opts.RetryPause,
			Quiet:      opts.Quiet,
		}, f)
		if err != nil {
			return nil, err
		}
		f.clients = append(f.clients, client)
	}

	return f, nil
}

func (f *Failover) Connect() {
	f.mu.Lock()
	client := f.clients[f.index]
	f.mu.Unlock()

	f.log.Debugf("connecting to %s", client.Pool())
	client.Connect()
}

// Stop disconnects all pools without notifying the listener
func (f *Failover) Stop() {
	f.mu.Lock()
	f.index = 0
	f.active = noActive
	f.mu.Unlock()

	for _, client := range f.clients {
		client.Disconnect()
	}
}

func (f *Failover) Resume() {
	client, ok := f.activeClient()
	if !ok {
		return
	}
	f.listener.OnJob(f, client, client.Job())
}

func (f *Failover) Submit(result mining.JobResult) int64 {
	client, ok := f.activeClient()
	if !ok {
		return -1
	}
	return client.Submit(result)
}

func (f *Failover) Tick(now time.Time) {
	for _, client := range f.clients {
		client.Tick(now)
	}
}

func (f *Failover) IsActive() bool {
	_, ok := f.activeClient()
	return ok
}

// Clients returns connections in the order of configured pools
func (f *Failover) Clients() []mining.Client {
	return f.clients
}

func (f *Failover) activeClient() (mining.Client, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.active == noActive {
		return nil, false
	}
	return f.clients[f.active], true
}

func (f *Failover) OnLoginSuccess(client mining.Client) {
	f.mu.Lock()
	active := f.active
	if client.ID() == 0 || active == noActive || !f.clients[active].IsReady() {
		active = client.ID()
	}

	changed := active != f.active
	if changed {
		f.index = active
		f.active = active
	}

	var backups []mining.Client
	for i := 1; i < len(f.clients); i++ {
		if i != active {
			backups = append(backups, f.clients[i])
		}
	}
	f.mu.Unlock()

	for _, backup := range backups {
		backup.Disconnect()
	}

	if changed {
		f.log.Debugf("switched to pool %s", client.Pool())
		f.listener.OnActive(f, client)
	}
}

func (f *Failover) OnJobReceived(client mining.Client, job mining.Job) {
	f.mu.Lock()
	isActive := f.active == client.ID()
	f.mu.Unlock()

	if !isActive {
		return
	}
	f.listener.OnJob(f, client, job)
}

func (f *Failover) OnClose(client mining.Client, failures int) {
	if failures < 0 {
		return
	}

	f.mu.Lock()
	paused := false
	if f.active == client.ID() {
		f.active = noActive
		paused = true
	}

	// primary pool keeps the lead until it runs out of attempts
	primaryRetrying := f.index == 0 && failures < f.retries

	var next mining.Client
	if !primaryRetrying && f.index == client.ID() && f.index+1 < len(f.clients) {
		f.index++
		next = f.clients[f.index]
	}
	f.mu.Unlock()

	if paused {
		f.listener.OnPause(f)
	}

	if next != nil {
		f.log.Debugf("pool %s failed %d times, switching to %s", client.Pool(), failures, next.Pool())
		next.Connect()
	}
}

func (f *Failover) OnResultAccepted(client mining.Client, result mining.SubmitResult, err error) {
	f.listener.OnResultAccepted(f, client, result, err)
}

var _ Strategy = new(Failover)
var _ mining.ClientListener = new(Failover)
