package strategies

import (
	"errors"
	"time"

	"gitlab.com/TitanInd/netcore/internal/mining"
)

var (
	ErrNoPools     = errors.New("at least one pool is required")
	ErrDonateLevel = errors.New("donate level should be within range 1..99")
	ErrDonatePool  = errors.New("invalid donate pool")
)

// Strategy manages one or more pool connections and reports their events to the Listener
type Strategy interface {
	Connect()
	Stop()
	// Resume re-announces the current job of the active connection, used when donate hands control back
	Resume()
	// Submit sends result to the active connection, returns submission sequence or -1 if nothing is active
	Submit(result mining.JobResult) int64
	Tick(now time.Time)
	IsActive() bool
}

// Listener receives events from strategies. Implementations should return quickly
type Listener interface {
	OnActive(strategy Strategy, client mining.Client)
	OnJob(strategy Strategy, client mining.Client, job mining.Job)
	OnPause(strategy Strategy)
	OnResultAccepted(strategy Strategy, client mining.Client, result mining.SubmitResult, err error)
}

type Options struct {
	RetryPause time.Duration // pause between reconnect attempts of a single client
	Retries    int           // attempts to connect to the first pool before switching to the next one
	Quiet      bool
}
