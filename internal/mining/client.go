package mining

import (
	"errors"
	"fmt"
	"time"
)

var ErrUnknownDriver = errors.New("no client driver registered for scheme")

// ClientListener receives events of a single pool connection
type ClientListener interface {
	OnLoginSuccess(client Client)
	OnJobReceived(client Client, job Job)
	// OnClose is called when connection is lost, failures is the number of consecutive
	// unsuccessful attempts, negative value means connection was closed by Disconnect
	OnClose(client Client, failures int)
	// OnResultAccepted is called for every judged submission, err is nil if the share was accepted
	OnResultAccepted(client Client, result SubmitResult, err error)
}

// Client is a connection to a single pool. Implementations reconnect on their own after RetryPause,
// driven by Tick, and report everything back through ClientListener
type Client interface {
	ID() int
	SessionID() string
	Pool() Pool
	Host() string
	Port() uint16
	IP() string // resolved address, empty until connected

	Job() Job
	IsReady() bool

	Connect()
	Disconnect()
	Submit(result JobResult) int64
	Tick(now time.Time)
}

type ClientOptions struct {
	ID         int
	Pool       Pool
	RetryPause time.Duration
	Quiet      bool // suppresses connection error logging, used for donate and backup pools
}

// Driver creates clients speaking a particular pool protocol
type Driver interface {
	NewClient(opts ClientOptions, listener ClientListener) Client
}

type DriverFunc func(opts ClientOptions, listener ClientListener) Client

func (f DriverFunc) NewClient(opts ClientOptions, listener ClientListener) Client {
	return f(opts, listener)
}

// ClientFactory is used by strategies to create clients
type ClientFactory = func(opts ClientOptions, listener ClientListener) (Client, error)

var drivers = newRegistry[Driver]("client driver")

// RegisterDriver makes a client driver available for pools with given url scheme.
// It panics if called twice with the same scheme
func RegisterDriver(scheme string, driver Driver) {
	drivers.register(scheme, driver)
}

// NewClient creates a client using the driver registered for the pool scheme
func NewClient(opts ClientOptions, listener ClientListener) (Client, error) {
	driver, ok := drivers.get(opts.Pool.Scheme)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, opts.Pool.Scheme)
	}
	return driver.NewClient(opts, listener), nil
}

func HasDriver(scheme string) bool {
	_, ok := drivers.get(scheme)
	return ok
}
