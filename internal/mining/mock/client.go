package mock

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gitlab.com/TitanInd/netcore/internal/mining"
	"go.uber.org/atomic"
)

const (
	INIT_DIFF       = 8096
	NOTIFY_INTERVAL = 30 * time.Second
	LATENCY         = 40 * time.Millisecond
	OFFLINE_PREFIX  = "offline" // pools with such host never accept a connection
)

var ErrLowDifficulty = errors.New("low difficulty share")

// Behavior controls how the client reacts without explicit test calls
type Behavior struct {
	AutoLogin      bool          // Connect logs in and issues a job right away
	AutoAccept     bool          // Submit is answered on the same call
	FailConnect    bool          // Connect always fails
	NotifyInterval time.Duration // new job is issued every interval while connected, zero disables
	Latency        time.Duration // reported round trip of submissions
}

// Client is an in-memory pool connection. Its state is changed either by Behavior or by
// explicit calls of Login, SendJob, Close and Respond
type Client struct {
	id         int
	pool       mining.Pool
	retryPause time.Duration
	listener   mining.ClientListener
	behavior   Behavior

	sessionID   string
	ready       bool
	job         mining.Job
	failures    int
	reconnectAt time.Time // zero if reconnect isn't scheduled
	nextJobAt   time.Time
	lastTick    time.Time
	varDiff     *VarDiff
	pending     map[int64]mining.SubmitResult
	submitted   []mining.JobResult
	mu          sync.Mutex

	seq             *atomic.Int64
	jobSeq          *atomic.Uint64
	connectCalls    *atomic.Int32
	disconnectCalls *atomic.Int32
}

func NewClient(opts mining.ClientOptions, listener mining.ClientListener, behavior Behavior) *Client {
	return &Client{
		id:              opts.ID,
		pool:            opts.Pool,
		retryPause:      opts.RetryPause,
		listener:        listener,
		behavior:        behavior,
		varDiff:         NewVarDiff([2]int{INIT_DIFF, INIT_DIFF * 16}),
		pending:         make(map[int64]mining.SubmitResult),
		seq:             atomic.NewInt64(0),
		jobSeq:          atomic.NewUint64(0),
		connectCalls:    atomic.NewInt32(0),
		disconnectCalls: atomic.NewInt32(0),
	}
}

func (c *Client) ID() int           { return c.id }
func (c *Client) Pool() mining.Pool { return c.pool }
func (c *Client) Host() string      { return c.pool.Host }
func (c *Client) Port() uint16      { return c.pool.Port }

func (c *Client) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

func (c *Client) IP() string {
	if !c.IsReady() {
		return ""
	}
	return "127.0.0.1"
}

func (c *Client) Job() mining.Job {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.job
}

func (c *Client) IsReady() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ready
}

func (c *Client) Connect() {
	c.connectCalls.Inc()

	c.mu.Lock()
	c.reconnectAt = time.Time{}
	fail := c.behavior.FailConnect || strings.HasPrefix(c.pool.Host, OFFLINE_PREFIX)
	autoLogin := c.behavior.AutoLogin
	c.mu.Unlock()

	if fail {
		c.Close()
		return
	}
	if autoLogin {
		c.Login()
		c.SendJob(c.NewJob())
	}
}

func (c *Client) Disconnect() {
	c.disconnectCalls.Inc()

	c.mu.Lock()
	c.ready = false
	c.failures = 0
	c.reconnectAt = time.Time{}
	c.pending = make(map[int64]mining.SubmitResult)
	c.mu.Unlock()

	c.listener.OnClose(c, -1)
}

func (c *Client) Submit(result mining.JobResult) int64 {
	c.mu.Lock()
	if !c.ready {
		c.mu.Unlock()
		return -1
	}

	seq := c.seq.Inc()
	c.submitted = append(c.submitted, result)
	c.pending[seq] = mining.NewSubmitResult(seq, result.Diff, c.clock())
	autoAccept := c.behavior.AutoAccept
	c.mu.Unlock()

	if autoAccept {
		c.Respond(seq, nil)
	}
	return seq
}

func (c *Client) Tick(now time.Time) {
	c.mu.Lock()
	c.lastTick = now
	reconnect := !c.ready && !c.reconnectAt.IsZero() && !now.Before(c.reconnectAt)
	notify := c.ready && c.behavior.NotifyInterval > 0 && !now.Before(c.nextJobAt)
	c.mu.Unlock()

	if reconnect {
		c.Connect()
	}
	if notify {
		c.SendJob(c.NewJob())
	}
}

// Login marks connection as authorized and notifies the listener
func (c *Client) Login() {
	c.mu.Lock()
	c.ready = true
	c.failures = 0
	c.sessionID = uuid.NewString()
	c.mu.Unlock()

	c.listener.OnLoginSuccess(c)
}

// NewJob generates a job with current pool difficulty
func (c *Client) NewJob() mining.Job {
	n := c.jobSeq.Inc()

	c.mu.Lock()
	defer c.mu.Unlock()

	return mining.Job{
		ID:        fmt.Sprintf("%s-%d", c.pool.Host, n),
		Diff:      uint64(c.varDiff.Val()),
		Algorithm: Algorithm,
		Blob:      []byte(fmt.Sprintf("%s/%d", c.pool.Address(), n)),
	}
}

// SendJob stores job as current one and notifies the listener, pool id is set to the client id
func (c *Client) SendJob(job mining.Job) {
	job.PoolID = c.id

	c.mu.Lock()
	c.job = job
	c.nextJobAt = c.clock().Add(c.behavior.NotifyInterval)
	c.mu.Unlock()

	c.listener.OnJobReceived(c, job)
}

// Close drops connection as if it failed, reconnect is scheduled after retry pause
func (c *Client) Close() {
	c.mu.Lock()
	c.ready = false
	c.failures++
	failures := c.failures
	c.reconnectAt = c.clock().Add(c.retryPause)
	c.pending = make(map[int64]mining.SubmitResult)
	c.mu.Unlock()

	c.listener.OnClose(c, failures)
}

// Respond judges a pending submission, nil err means the share is accepted
func (c *Client) Respond(seq int64, err error) {
	c.mu.Lock()
	res, ok := c.pending[seq]
	if !ok {
		c.mu.Unlock()
		return
	}
	delete(c.pending, seq)
	if err == nil {
		c.varDiff.Inc()
	} else if errors.Is(err, ErrLowDifficulty) {
		c.varDiff.Dec()
	}
	res.Elapsed = c.behavior.Latency
	c.mu.Unlock()

	c.listener.OnResultAccepted(c, res, err)
}

func (c *Client) Submitted() []mining.JobResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]mining.JobResult(nil), c.submitted...)
}

func (c *Client) Failures() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failures
}

func (c *Client) ConnectCalls() int {
	return int(c.connectCalls.Load())
}

func (c *Client) DisconnectCalls() int {
	return int(c.disconnectCalls.Load())
}

func (c *Client) clock() time.Time {
	if c.lastTick.IsZero() {
		return time.Now()
	}
	return c.lastTick
}

var _ mining.Client = new(Client)
