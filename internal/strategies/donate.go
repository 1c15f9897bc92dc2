package strategies

import (
	"crypto/sha256"
	"encoding/hex"
	"math/rand"
	"sync"
	"time"

	"gitlab.com/TitanInd/netcore/internal/interfaces"
	"gitlab.com/TitanInd/netcore/internal/lib"
	"gitlab.com/TitanInd/netcore/internal/mining"
)

const (
	DefaultDonateCycle = 100 * time.Minute
	MinDonateLevel     = 1
	MaxDonateLevel     = 99
)

type DonateConfig struct {
	Level int           // percent of the cycle spent on donate pool
	Pool  mining.Pool   // user is replaced with a hash of the primary user
	Cycle time.Duration // donate plus idle period
}

// Donate periodically takes over mining for Level percent of the cycle. Its single connection
// uses mining.NoPoolID, so results of donate jobs can be routed back here
type Donate struct {
	inner    *SinglePool
	listener Listener

	donateTime time.Duration
	idleTime   time.Duration
	jitter     func() float64 // [0, 1), spreads the first idle period

	stopped   bool
	active    bool
	scheduled bool      // first idle period has been scheduled
	armed     bool      // switchAt is pending
	switchAt  time.Time // next connect or suspend
	lastTick  time.Time
	mu        sync.Mutex

	log interfaces.ILogger
}

func NewDonate(cfg DonateConfig, user string, algo string, listener Listener, factory mining.ClientFactory, log interfaces.ILogger) (*Donate, error) {
	if cfg.Level < MinDonateLevel || cfg.Level > MaxDonateLevel {
		return nil, ErrDonateLevel
	}
	if !cfg.Pool.IsValid() {
		return nil, ErrDonatePool
	}
	if cfg.Cycle <= 0 {
		cfg.Cycle = DefaultDonateCycle
	}

	donateTime := cfg.Cycle * time.Duration(cfg.Level) / 100

	d := &Donate{
		listener:   listener,
		donateTime: donateTime,
		idleTime:   cfg.Cycle - donateTime,
		jitter:     rand.Float64,
		log:        log,
	}

	pool := cfg.Pool
	pool.User = DonateUser(user)
	if pool.Password == "" {
		pool.Password = algo
	}

	inner, err := newSinglePool(mining.NoPoolID, pool, Options{Quiet: true}, d, factory, log)
	if err != nil {
		return nil, err
	}
	d.inner = inner

	return d, nil
}

// DonateUser derives the donate login from the primary user so it can't be traced back directly
func DonateUser(user string) string {
	sum := sha256.Sum256([]byte(user))
	return hex.EncodeToString(sum[:])
}

// Connect restarts the donate cycle after Stop, the first idle period is scheduled on the next Tick.
// It never dials by itself and does nothing while the cycle is running
func (d *Donate) Connect() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.stopped {
		return
	}
	d.stopped = false
	d.scheduled = false
}

func (d *Donate) Stop() {
	d.mu.Lock()
	d.stopped = true
	d.active = false
	d.armed = false
	d.mu.Unlock()

	d.inner.Stop()
}

// Resume is a no-op, donate never resumes anybody's job
func (d *Donate) Resume() {}

func (d *Donate) Submit(result mining.JobResult) int64 {
	return d.inner.Submit(result)
}

func (d *Donate) Tick(now time.Time) {
	d.mu.Lock()
	d.lastTick = now
	if d.stopped {
		d.mu.Unlock()
		d.inner.Tick(now)
		return
	}

	if !d.scheduled {
		d.scheduled = true
		first := time.Duration(float64(d.idleTime) * (0.5 + lib.Clamp(d.jitter(), 0, 1)))
		d.arm(now, first)
	}

	fire := d.armed && !now.Before(d.switchAt)
	active := d.active
	if fire {
		d.armed = false
		if active {
			d.active = false
			d.arm(now, d.idleTime)
		}
	}
	d.mu.Unlock()

	if fire {
		if active {
			d.suspend()
		} else {
			d.log.Debugf("donate period started")
			d.inner.Connect()
		}
	}

	d.inner.Tick(now)
}

func (d *Donate) IsActive() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active
}

// NextSwitch returns time of the next connect or suspend, false if nothing is scheduled
func (d *Donate) NextSwitch() (time.Time, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.switchAt, d.armed
}

// clock returns time of the last tick, events between ticks are accounted to it
func (d *Donate) clock() time.Time {
	if d.lastTick.IsZero() {
		return time.Now()
	}
	return d.lastTick
}

func (d *Donate) arm(now time.Time, after time.Duration) {
	d.switchAt = now.Add(after)
	d.armed = true
}

// suspend is called with active already cleared and the idle period armed
func (d *Donate) suspend() {
	d.log.Debugf("donate period finished")
	d.inner.Stop()
	d.listener.OnPause(d)
}

func (d *Donate) OnActive(strategy Strategy, client mining.Client) {
	d.mu.Lock()
	if !d.active {
		d.active = true
		d.arm(d.clock(), d.donateTime)
	}
	d.mu.Unlock()

	d.listener.OnActive(d, client)
}

func (d *Donate) OnJob(strategy Strategy, client mining.Client, job mining.Job) {
	d.listener.OnJob(d, client, job)
}

// OnPause handles loss of donate connection in the middle of donate period, control is handed
// back early and the next period starts after a full idle time
func (d *Donate) OnPause(strategy Strategy) {
	d.mu.Lock()
	if !d.active {
		d.mu.Unlock()
		return
	}
	d.active = false
	d.arm(d.clock(), d.idleTime)
	d.mu.Unlock()

	d.suspend()
}

func (d *Donate) OnResultAccepted(strategy Strategy, client mining.Client, result mining.SubmitResult, err error) {
	d.listener.OnResultAccepted(d, client, result, err)
}

var _ Strategy = new(Donate)
var _ Listener = new(Donate)
