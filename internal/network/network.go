package network

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gitlab.com/TitanInd/netcore/internal/interfaces"
	"gitlab.com/TitanInd/netcore/internal/lib"
	"gitlab.com/TitanInd/netcore/internal/mining"
	"gitlab.com/TitanInd/netcore/internal/strategies"
	"golang.org/x/time/rate"
)

const (
	ReasonStop          = "stop"
	ReasonShutdown      = "shutdown"
	ReasonNoActivePools = "no active pools"

	DefaultTickInterval    = time.Second
	NoActivePoolsLogPeriod = time.Minute
)

var ErrTickInterval = errors.New("tick interval should be positive")

type Config struct {
	Pools        []mining.Pool
	Strategy     strategies.Options
	Algorithm    string
	Donate       strategies.DonateConfig // zero level disables donate
	TickInterval time.Duration
}

// Network selects the job source for workers. All its state is owned by the Run goroutine,
// strategy callbacks and worker results are queued and handled there one by one
type Network struct {
	primary strategies.Strategy
	donate  strategies.Strategy // nil if donate is disabled

	donateActive  bool
	poolConnected bool
	state         State

	workers  Workers
	reporter Reporter
	queue    *eventQueue

	tickInterval time.Duration
	now          func() time.Time
	noPoolsLog   *rate.Sometimes

	log interfaces.ILogger
}

func NewNetwork(cfg Config, workers Workers, reporter Reporter, factory mining.ClientFactory, log interfaces.ILogger) (*Network, error) {
	if cfg.TickInterval == 0 {
		cfg.TickInterval = DefaultTickInterval
	}
	if cfg.TickInterval < 0 {
		return nil, ErrTickInterval
	}

	n := newNetwork(workers, reporter, cfg.TickInterval, log)

	primary, err := strategies.New(cfg.Pools, cfg.Strategy, n, factory, log.Named("STRATEGY"))
	if err != nil {
		return nil, lib.WrapError(errors.New("cannot create pool strategy"), err)
	}
	n.primary = primary

	if cfg.Donate.Level > 0 {
		donate, err := strategies.NewDonate(cfg.Donate, cfg.Pools[0].User, cfg.Algorithm, n, factory, log.Named("DONATE"))
		if err != nil {
			return nil, lib.WrapError(errors.New("cannot create donate strategy"), err)
		}
		n.donate = donate
	}

	workers.SetListener(n)
	return n, nil
}

func newNetwork(workers Workers, reporter Reporter, tickInterval time.Duration, log interfaces.ILogger) *Network {
	return &Network{
		workers:      workers,
		reporter:     reporter,
		queue:        newEventQueue(),
		tickInterval: tickInterval,
		now:          time.Now,
		noPoolsLog:   &rate.Sometimes{Interval: NoActivePoolsLogPeriod},
		log:          log,
	}
}

// Run processes events until ctx is cancelled, then stops all strategies
func (n *Network) Run(ctx context.Context) error {
	ticker := time.NewTicker(n.tickInterval)
	defer ticker.Stop()

	n.log.Infof("network started, tick interval %s", n.tickInterval)

	for {
		select {
		case <-ctx.Done():
			n.stop(ReasonShutdown)
			n.closeQueue()
			n.log.Infof("network stopped")
			return ctx.Err()
		case <-ticker.C:
			n.tick()
		case <-n.queue.signal():
			n.drain()
		}
	}
}

// Connect starts connecting to the pools
func (n *Network) Connect() {
	n.queue.push(connectEvent{})
}

// Stop disconnects from all pools and pauses workers. Returned channel is closed once it is done,
// the network can be connected again afterwards
func (n *Network) Stop() <-chan struct{} {
	doneCh := make(chan struct{})
	if !n.queue.push(stopEvent{doneCh: doneCh}) {
		close(doneCh)
	}
	return doneCh
}

func (n *Network) OnActive(strategy strategies.Strategy, client mining.Client) {
	n.queue.push(activeEvent{strategy: strategy, client: client})
}

func (n *Network) OnJob(strategy strategies.Strategy, client mining.Client, job mining.Job) {
	n.queue.push(jobEvent{strategy: strategy, client: client, job: job})
}

func (n *Network) OnPause(strategy strategies.Strategy) {
	n.queue.push(pauseEvent{strategy: strategy})
}

func (n *Network) OnResultAccepted(strategy strategies.Strategy, client mining.Client, result mining.SubmitResult, err error) {
	n.queue.push(resultAcceptedEvent{strategy: strategy, client: client, result: result, err: err})
}

// OnJobResult is called by workers, may be called from any goroutine
func (n *Network) OnJobResult(result mining.JobResult) {
	n.queue.push(jobResultEvent{result: result})
}

func (n *Network) drain() {
	for {
		ev, ok := n.queue.pop()
		if !ok {
			return
		}
		n.handle(ev)
	}
}

func (n *Network) closeQueue() {
	for _, ev := range n.queue.close() {
		if stop, ok := ev.(stopEvent); ok {
			close(stop.doneCh)
		}
	}
}

func (n *Network) handle(ev event) {
	switch e := ev.(type) {
	case connectEvent:
		n.connect()
	case stopEvent:
		n.stop(ReasonStop)
		close(e.doneCh)
	case activeEvent:
		n.onActive(e.strategy, e.client)
	case jobEvent:
		n.onJob(e.strategy, e.client, e.job)
	case pauseEvent:
		n.onPause(e.strategy)
	case resultAcceptedEvent:
		n.onResultAccepted(e.strategy, e.client, e.result, e.err)
	case jobResultEvent:
		n.onJobResult(e.result)
	default:
		n.log.Errorf("unknown event %T", ev)
	}
}

// connect dials the primary strategy, donate only gets its schedule back if it was stopped
func (n *Network) connect() {
	n.primary.Connect()
	if n.donate != nil {
		n.donate.Connect()
	}
}

func (n *Network) stop(reason string) {
	if n.donate != nil {
		n.donate.Stop()
	}
	n.donateActive = false

	n.primary.Stop()
	n.setNoActivePools(reason)
}

func (n *Network) tick() {
	now := n.now()

	n.primary.Tick(now)
	if n.donate != nil {
		n.donate.Tick(now)
	}

	n.reporter.Tick(n.state)
}

func (n *Network) isDonate(strategy strategies.Strategy) bool {
	return n.donate != nil && strategy == n.donate
}

func (n *Network) onActive(strategy strategies.Strategy, client mining.Client) {
	if n.isDonate(strategy) {
		n.donateActive = true
		n.log.Debugf("donate is active")
		return
	}

	n.poolConnected = true
	n.state.SetPool(client.Host(), client.Port(), client.IP(), n.now())

	n.log.Infof("use pool %s:%d %s", client.Host(), client.Port(), client.IP())
	n.reporter.OnPoolSelected(client.Host(), client.Port(), client.IP())
}

func (n *Network) onJob(strategy strategies.Strategy, client mining.Client, job mining.Job) {
	donate := n.isDonate(strategy)
	if n.donateActive && !donate {
		n.log.Debugf("job %s from %s:%d discarded, donate is active", job.ID, client.Host(), client.Port())
		return
	}

	n.setJob(client, job, donate)
}

func (n *Network) setJob(client mining.Client, job mining.Job, donate bool) {
	msg := fmt.Sprintf("new job from %s:%d diff %d algo %s", client.Host(), client.Port(), job.Diff, job.Algorithm)
	n.log.Info(msg)
	n.reporter.OnMessage(msg)

	n.state.Diff = job.Diff
	n.workers.SetJob(job, donate)
}

func (n *Network) onPause(strategy strategies.Strategy) {
	if n.isDonate(strategy) {
		n.log.Debugf("donate is paused")
		n.donateActive = false
		n.primary.Resume()
	}

	if !n.primary.IsActive() {
		n.setNoActivePools(ReasonNoActivePools)
	}
}

func (n *Network) setNoActivePools(reason string) {
	n.noPoolsLog.Do(func() {
		n.log.Warnf("no active pools, stop mining (%s)", reason)
	})

	n.poolConnected = false
	n.state.Clear()
	n.workers.Pause()
	n.reporter.OnPoolDisconnect(reason)
}

func (n *Network) onResultAccepted(strategy strategies.Strategy, client mining.Client, result mining.SubmitResult, err error) {
	n.state.Add(result, err)

	msg := formatResult(n.state, result, err)
	if err != nil {
		n.log.Warn(msg)
	} else {
		n.log.Info(msg)
	}
	n.reporter.OnMessage(msg)
}

func (n *Network) onJobResult(result mining.JobResult) {
	// routed by the tag stamped into the job, a result may outlive the job source being active
	if result.IsDonate() && n.donate != nil {
		n.donate.Submit(result)
		return
	}

	n.primary.Submit(result)
}

func formatResult(state State, result mining.SubmitResult, err error) string {
	if err != nil {
		return fmt.Sprintf(`rejected (%d/%d) diff %d "%s" (%d ms)`, state.Accepted, state.Rejected, result.Diff, err.Error(), result.Elapsed.Milliseconds())
	}
	return fmt.Sprintf("accepted (%d/%d) diff %d (%d ms)", state.Accepted, state.Rejected, result.Diff, result.Elapsed.Milliseconds())
}

var _ strategies.Listener = new(Network)
var _ mining.JobResultListener = new(Network)
